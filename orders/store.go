// Package orders keeps the back-office order list in sync with the API and
// runs the storefront checkout.
package orders

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	models "furnisure/model"
)

type API interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
}

// Store holds the last fetched order list. Writes go to the API and are
// followed by a re-fetch; nothing is updated optimistically.
type Store struct {
	api API

	mu     sync.Mutex
	orders []models.Order
}

func NewStore(api API) *Store {
	return &Store{api: api}
}

// Fetch replaces the local list with the server's, newest first.
func (s *Store) Fetch(ctx context.Context) error {
	list, err := s.api.ListOrders(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.orders = list
	s.mu.Unlock()
	return nil
}

func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Store) ByStatus(status models.OrderStatus) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) Get(ctx context.Context, id string) (models.Order, error) {
	return s.api.GetOrder(ctx, id)
}

// UpdateStatus takes a display label ("Shipped"), sends its backend code and
// re-fetches the list.
func (s *Store) UpdateStatus(ctx context.Context, orderID, label string) error {
	code, err := models.StatusFromLabel(label)
	if err != nil {
		return fmt.Errorf("%w: %q", err, label)
	}
	if _, err := s.api.UpdateOrderStatus(ctx, orderID, code); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

// Create submits an order and re-fetches the list. The order exists once the
// API accepts it, so a failed re-fetch is logged and the list stays stale.
func (s *Store) Create(ctx context.Context, req models.CreateOrderRequest) (models.Order, error) {
	o, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		return models.Order{}, err
	}
	if err := s.Fetch(ctx); err != nil {
		zap.S().Warnw("order list refresh after create failed", "order", o.ID, "error", err)
	}
	return o, nil
}
