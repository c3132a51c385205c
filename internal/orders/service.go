package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service rekonsiliasi order: setiap mutasi menghitung delta stok yang
// dibutuhkan lalu menerapkannya bersama mutasi order dalam satu transaksi.
type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: product %s", ErrInvalidQuantity, it.ProductID)
		}
		if it.PriceCents < 0 {
			return fmt.Errorf("%w: product %s", ErrInvalidPrice, it.ProductID)
		}
	}
	return nil
}

// Create bikin order baru dan langsung reserve stok tiap item.
// Gagal di satu item -> rollback semua (tidak ada stok yang berubah).
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	status := StatusPending
	if in.Status != "" {
		var err error
		if status, err = ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}
	discount := 0
	if in.DiscountCents != nil {
		if *in.DiscountCents < 0 {
			return nil, ErrInvalidDiscount
		}
		discount = *in.DiscountCents
	}

	now := time.Now().UTC()
	order := &Order{
		ID:            uuid.NewString(),
		Status:        status,
		DiscountCents: discount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.store.WithinTx(ctx, func(tx Tx) error {
		items := make([]OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			p, err := tx.ProductForUpdate(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p.Stock < it.Quantity {
				return &InsufficientStockError{
					ProductID: p.ID, ProductName: p.Name,
					Available: p.Stock, Required: it.Quantity,
				}
			}
			if err := tx.AdjustStock(ctx, p.ID, -it.Quantity); err != nil {
				return err
			}
			items = append(items, OrderItem{
				ID:           uuid.NewString(),
				OrderID:      order.ID,
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductStock: p.Stock - it.Quantity,
				Quantity:     it.Quantity,
				PriceCents:   it.PriceCents,
				TotalCents:   it.PriceCents * it.Quantity,
			})
		}
		order.Items = items
		order.TotalCents = clampTotal(subtotalCents(items), discount)
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		return tx.InsertItems(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("status", string(order.Status)),
		zap.Int("total_cents", order.TotalCents))
	return order, nil
}

// Update menangani tiga bentuk PATCH: discount saja, status (+discount),
// atau replace seluruh items. Semua cabang atomik.
func (s *Service) Update(ctx context.Context, orderID string, in UpdateInput) (*Order, error) {
	if in.Items == nil && in.Status == "" && in.DiscountCents == nil {
		return nil, ErrEmptyUpdate
	}
	next := Status("")
	if in.Status != "" {
		var err error
		if next, err = ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}
	if in.DiscountCents != nil && *in.DiscountCents < 0 {
		return nil, ErrInvalidDiscount
	}

	var out *Order
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		order, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if in.Items != nil {
			out, err = s.replaceItems(ctx, tx, order, in, next)
			return err
		}

		if in.DiscountCents != nil {
			order.DiscountCents = *in.DiscountCents
		}
		if next != "" {
			if err := s.applyTransition(ctx, tx, order, next); err != nil {
				return err
			}
			order.Status = next
		}
		// total selalu dihitung ulang server-side biar tidak drift
		order.TotalCents = clampTotal(subtotalCents(order.Items), order.DiscountCents)
		order.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order updated",
		zap.String("order_id", out.ID),
		zap.String("status", string(out.Status)),
		zap.Int("total_cents", out.TotalCents))
	return out, nil
}

// applyTransition menerapkan efek stok dari tabel transisi status.
func (s *Service) applyTransition(ctx context.Context, tx Tx, order *Order, next Status) error {
	switch transitionEffect(order.Status, next) {
	case effectRelease:
		for i := range order.Items {
			it := &order.Items[i]
			if err := tx.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
			it.ProductStock += it.Quantity
		}
	case effectReserve:
		for i := range order.Items {
			it := &order.Items[i]
			p, err := tx.ProductForUpdate(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p.Stock < it.Quantity {
				return &InsufficientStockError{
					ProductID: p.ID, ProductName: p.Name,
					Available: p.Stock, Required: it.Quantity,
				}
			}
			if err := tx.AdjustStock(ctx, p.ID, -it.Quantity); err != nil {
				return err
			}
			it.ProductStock = p.Stock - it.Quantity
		}
	}
	return nil
}

// replaceItems ganti seluruh item set (tidak ada patch parsial per item).
// Cek availability pakai credit-back: qty lama order ini dihitung sebagai
// stok yang masih bisa dipakai lagi.
func (s *Service) replaceItems(ctx context.Context, tx Tx, order *Order, in UpdateInput, next Status) (*Order, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	if in.DiscountCents == nil {
		return nil, ErrDiscountRequired
	}
	if next == "" {
		next = StatusPending // status tidak dikirim -> kembali PENDING
	}

	reserved := reservedQty(order.Items)
	requested := requestedQty(in.Items)
	prods := make(map[string]*Product, len(in.Items))
	applied := make(map[string]int) // delta stok yang sudah kita tulis

	for _, it := range in.Items {
		if _, ok := prods[it.ProductID]; ok {
			continue // product sama dicek sekali, qty sudah diagregasi
		}
		p, err := tx.ProductForUpdate(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		prods[it.ProductID] = p
		// cek availability di-skip kalau target CANCELLED
		if next != StatusCancelled {
			available := p.Stock + reserved[it.ProductID]
			if need := requested[it.ProductID]; available < need {
				return nil, &InsufficientStockError{
					ProductID: p.ID, ProductName: p.Name,
					Available: available, Required: need,
				}
			}
		}
	}

	if next == StatusCancelled && order.Status != StatusCancelled {
		// transisi masuk CANCELLED: lepas semua reservasi lama
		for _, it := range order.Items {
			if err := tx.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				return nil, err
			}
			applied[it.ProductID] += it.Quantity
		}
	} else {
		// delta per product: naik -> kurangi stok, turun/hilang -> kembalikan
		for pid, delta := range itemDeltas(order.Items, in.Items) {
			if err := tx.AdjustStock(ctx, pid, -delta); err != nil {
				return nil, err
			}
			applied[pid] -= delta
		}
	}

	if err := tx.DeleteItems(ctx, order.ID); err != nil {
		return nil, err
	}

	items := make([]OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		p := prods[it.ProductID]
		items = append(items, OrderItem{
			ID:           uuid.NewString(),
			OrderID:      order.ID,
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductStock: p.Stock + applied[p.ID],
			Quantity:     it.Quantity,
			PriceCents:   it.PriceCents,
			TotalCents:   it.PriceCents * it.Quantity,
		})
	}

	order.Status = next
	order.DiscountCents = *in.DiscountCents
	order.Items = items
	order.TotalCents = clampTotal(subtotalCents(items), order.DiscountCents)
	order.UpdatedAt = time.Now().UTC()
	if err := tx.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := tx.InsertItems(ctx, items); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete hapus order + items. Order COMPLETED tidak boleh dihapus;
// PENDING/PROCESSING melepas reservasi dulu, CANCELLED sudah lepas duluan.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		order, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == StatusCompleted {
			return ErrOrderCompleted
		}
		if order.Status == StatusPending || order.Status == StatusProcessing {
			for _, it := range order.Items {
				if err := tx.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}
		if err := tx.DeleteItems(ctx, order.ID); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, order.ID)
	})
	if err != nil {
		return err
	}
	s.log.Info("order deleted", zap.String("order_id", orderID))
	return nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.store.ListOrders(ctx)
}
