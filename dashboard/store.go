// Package dashboard backs the admin overview: headline stats, recent orders,
// low stock, the customer list and stock edits.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	models "furnisure/model"
)

// Default list sizes for the overview cards.
const (
	RecentLimit   = 4
	LowStockLimit = 3
)

// API is the admin part of the REST client. *client.Client satisfies it.
type API interface {
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
	RecentOrders(ctx context.Context, limit int) ([]models.RecentOrder, error)
	LowStock(ctx context.Context, limit int) ([]models.LowStockItem, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	UpdateStock(ctx context.Context, productID string, stock int) error
}

// Overview is one load of the dashboard cards.
type Overview struct {
	Stats    models.DashboardStats
	Recent   []models.RecentOrder
	LowStock []models.LowStockItem
}

// Store keeps the last loaded overview. onStock runs after a successful stock
// edit so product caches can be dropped.
type Store struct {
	api     API
	onStock func()

	mu       sync.Mutex
	overview Overview
	loaded   bool
}

func NewStore(api API, onStock func()) *Store {
	return &Store{api: api, onStock: onStock}
}

// Refresh loads all three cards. Nothing is replaced unless every call succeeds.
func (s *Store) Refresh(ctx context.Context) (Overview, error) {
	stats, err := s.api.DashboardStats(ctx)
	if err != nil {
		return Overview{}, err
	}
	recent, err := s.api.RecentOrders(ctx, RecentLimit)
	if err != nil {
		return Overview{}, err
	}
	low, err := s.api.LowStock(ctx, LowStockLimit)
	if err != nil {
		return Overview{}, err
	}
	ov := Overview{Stats: stats, Recent: recent, LowStock: low}
	s.mu.Lock()
	s.overview = ov
	s.loaded = true
	s.mu.Unlock()
	return ov, nil
}

// Overview returns the cached cards, loading them on first use.
func (s *Store) Overview(ctx context.Context) (Overview, error) {
	s.mu.Lock()
	if s.loaded {
		ov := s.overview
		s.mu.Unlock()
		return ov, nil
	}
	s.mu.Unlock()
	return s.Refresh(ctx)
}

func (s *Store) Customers(ctx context.Context) ([]models.Customer, error) {
	return s.api.ListCustomers(ctx)
}

// UpdateStock sets a product's stock and reloads the overview, since the
// inventory total and low-stock card depend on it.
func (s *Store) UpdateStock(ctx context.Context, productID string, stock int) error {
	if stock < 0 {
		return errors.New("stock cannot be negative")
	}
	if err := s.api.UpdateStock(ctx, productID, stock); err != nil {
		return err
	}
	if s.onStock != nil {
		s.onStock()
	}
	if _, err := s.Refresh(ctx); err != nil {
		zap.S().Warnw("dashboard refresh after stock update failed", "product", productID, "error", err)
	}
	return nil
}
