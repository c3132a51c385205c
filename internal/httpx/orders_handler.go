package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
)

// Publisher supaya handler bisa dites tanpa broker beneran.
type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Svc       *orders.Service
	Producer  Publisher
	Redis     *redis.Client
	Service   string // nama producer di envelope event
	Threshold int    // batas stock.low
	Log       *zap.Logger

	// Invalidate dipanggil tiap mutasi order karena stok ikut berubah;
	// nil kalau cache produk tidak dipakai (test).
	Invalidate func(ctx context.Context)
}

func (h *OrdersHandler) Register(r chi.Router, admin chi.Router) {
	r.Post("/orders", h.create)
	r.Get("/orders/{id}", h.get)
	r.Get("/orders/{id}/status", h.status)

	admin.Get("/orders", h.list)
	admin.Patch("/orders/{id}", h.update)
	admin.Delete("/orders/{id}", h.delete)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in orders.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalidArgument, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Create(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.afterMutation(ctx, r, o, orders.EventOrderCreated, orders.TopicOrderCreated)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) update(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var in orders.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalidArgument, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Update(ctx, orderID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	eventType, topic := orders.EventOrderUpdated, orders.TopicOrderUpdated
	if o.Status == orders.StatusCancelled {
		eventType, topic = orders.EventOrderCancelled, orders.TopicOrderCancelled
	}
	h.afterMutation(ctx, r, o, eventType, topic)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Delete(ctx, orderID); err != nil {
		writeError(w, err)
		return
	}

	h.publish(orders.TopicOrderDeleted, orders.EventOrderDeleted, orderID,
		r.Header.Get("X-Request-Id"), orders.OrderDeletedPayload{OrderID: orderID})
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID)).Err()
	}
	if h.Invalidate != nil {
		h.Invalidate(ctx)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Svc.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// status: fast path dari cache yang diisi notifier; fallback ke DB.
func (h *OrdersHandler) status(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	o, err := h.Svc.Get(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	body := map[string]any{"status": o.Status, "total_cents": o.TotalCents}
	b, _ := json.Marshal(body)
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// afterMutation: publish event lifecycle + refresh cache + cek stock.low.
func (h *OrdersHandler) afterMutation(ctx context.Context, r *http.Request, o *orders.Order, eventType, topic string) {
	trace := r.Header.Get("X-Request-Id")
	h.publish(topic, eventType, o.ID, trace, orders.OrderEventPayload{
		OrderID:    o.ID,
		Status:     o.Status,
		TotalCents: o.TotalCents,
		Items:      orders.ItemQtys(o.Items),
	})

	if h.Redis != nil {
		body, _ := json.Marshal(map[string]any{"status": o.Status, "total_cents": o.TotalCents})
		_ = h.Redis.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, o.ID), body, redisx.TTLStatusCache).Err()
	}
	if h.Invalidate != nil {
		h.Invalidate(ctx)
	}

	for _, it := range o.Items {
		if it.ProductStock <= h.Threshold {
			h.publish(orders.TopicStockLow, orders.EventStockLow, o.ID, trace, orders.StockLowPayload{
				ProductID: it.ProductID,
				Name:      it.ProductName,
				Stock:     it.ProductStock,
				Threshold: h.Threshold,
			})
		}
	}
}

func (h *OrdersHandler) publish(topic, eventType, orderID, traceID string, payload any) {
	if h.Producer == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	h.Producer.Publish(topic, orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
