package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	models "furnisure/model"
)

// API is the part of the REST client the catalog needs. *client.Client
// satisfies it.
type API interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, q string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Store owns the product cache. Every mutation goes through the API and then
// invalidates the cache.
type Store struct {
	api API

	mu       sync.Mutex
	products []models.Product
	loaded   bool
}

func NewStore(api API) *Store {
	return &Store{api: api}
}

// Products returns the catalog, listing it from the API on first use.
func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	if s.loaded {
		out := s.snapshot()
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh reloads the catalog from the API. On error the cache is left as it was.
func (s *Store) Refresh(ctx context.Context) ([]models.Product, error) {
	ps, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = ps
	s.loaded = true
	return s.snapshot(), nil
}

// Invalidate drops the cache; the next Products call hits the API.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.products = nil
	s.loaded = false
	s.mu.Unlock()
}

func (s *Store) snapshot() []models.Product {
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get serves from the cache when possible.
func (s *Store) Get(ctx context.Context, id string) (models.Product, error) {
	s.mu.Lock()
	if s.loaded {
		for _, p := range s.products {
			if p.ID == id {
				s.mu.Unlock()
				return p, nil
			}
		}
	}
	s.mu.Unlock()
	return s.api.GetProduct(ctx, id)
}

// Search uses the server-side search endpoint and does not touch the cache.
func (s *Store) Search(ctx context.Context, q string) ([]models.Product, error) {
	return s.api.SearchProducts(ctx, q)
}

// Browse filters and sorts the cached catalog.
func (s *Store) Browse(ctx context.Context, f Filter) ([]models.Product, error) {
	ps, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return Apply(ps, f), nil
}

func (s *Store) Create(ctx context.Context, in models.ProductInput) (models.Product, error) {
	p, err := s.api.CreateProduct(ctx, in)
	if err != nil {
		return models.Product{}, err
	}
	s.afterMutation(ctx)
	return p, nil
}

func (s *Store) Update(ctx context.Context, id string, in models.ProductInput) (models.Product, error) {
	p, err := s.api.UpdateProduct(ctx, id, in)
	if err != nil {
		return models.Product{}, err
	}
	s.afterMutation(ctx)
	return p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

// afterMutation invalidates and reloads. A failed reload leaves the cache
// empty so the next read retries.
func (s *Store) afterMutation(ctx context.Context) {
	s.Invalidate()
	if _, err := s.Refresh(ctx); err != nil {
		zap.S().Warnw("catalog refresh after mutation failed", "error", err)
	}
}
