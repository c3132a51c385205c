package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
)

// Service konsumsi event lifecycle order: refresh cache status yang dibaca
// endpoint /orders/{id}/status, dan log notifikasi ke customer. Pengiriman
// email/push beneran tinggal dicantolkan di notify.
type Service struct {
	Redis       *redis.Client
	ServiceName string
	Log         *zap.Logger
}

// Handle dipasang sebagai handler consumer, satu untuk semua topic order.
func (s *Service) Handle(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// pesan korup jangan di-retry terus
		s.Log.Warn("drop undecodable event", zap.String("topic", m.Topic), zap.Error(err))
		return nil
	}

	// dedup via Redis (pakai event_id); at-least-once delivery
	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}

	switch env.EventType {
	case orders.EventOrderCreated, orders.EventOrderUpdated, orders.EventOrderCancelled:
		p, err := kafkax.UnwrapPayload[orders.OrderEventPayload](env.Payload)
		if err != nil {
			return err
		}
		if err := s.cacheStatus(ctx, p); err != nil {
			return err
		}
		s.notify(env, p)

	case orders.EventOrderDeleted:
		p, err := kafkax.UnwrapPayload[orders.OrderDeletedPayload](env.Payload)
		if err != nil {
			return err
		}
		if err := s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)).Err(); err != nil {
			return err
		}
		s.Log.Info("order deleted",
			zap.String("order_id", p.OrderID),
			zap.String("trace_id", env.TraceID))

	default:
		s.Log.Debug("ignore event", zap.String("event_type", env.EventType))
	}

	// tandai sukses, supaya redelivery tidak dobel notifikasi
	return s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
}

func (s *Service) cacheStatus(ctx context.Context, p orders.OrderEventPayload) error {
	body, err := json.Marshal(map[string]any{
		"status":      p.Status,
		"total_cents": p.TotalCents,
	})
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)
	return s.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}

func (s *Service) notify(env orders.Envelope, p orders.OrderEventPayload) {
	s.Log.Info("order notification",
		zap.String("event_type", env.EventType),
		zap.String("order_id", p.OrderID),
		zap.String("status", string(p.Status)),
		zap.Int("total_cents", p.TotalCents),
		zap.Int("items", len(p.Items)),
		zap.String("trace_id", env.TraceID))
}
