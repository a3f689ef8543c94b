package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"furnisure/metrics"
	models "furnisure/model"
	"furnisure/payment"
	"furnisure/store"
)

// ErrForbidden is returned when the caller may not touch the resource.
var ErrForbidden = errors.New("forbidden")

// ValidationError is a client error in the request payload.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

type Options struct {
	LowStockThreshold int
	UploadDir         string
	PublicBaseURL     string
	Metrics           *metrics.ServerMetrics
}

type Service struct {
	store   store.Store
	gateway payment.Gateway
	opts    Options
	now     func() time.Time
	newID   func() string
}

func NewService(s store.Store, g payment.Gateway, opts Options) *Service {
	return &Service{
		store:   s,
		gateway: g,
		opts:    opts,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func validateProduct(in models.ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "name required")
	}
	if in.Price < 0 {
		return invalid("price", "price must be >= 0")
	}
	if in.SetPrice != nil && *in.SetPrice < 0 {
		return invalid("set_price", "set price must be >= 0")
	}
	if in.ProductRating < 0 || in.ProductRating > 5 {
		return invalid("product_rating", "rating must be between 0 and 5")
	}
	if in.Stock < 0 {
		return invalid("stock", "stock cannot be negative")
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if err := validateProduct(in); err != nil {
		return models.Product{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	row := productRow(s.newID(), in)
	row, err := s.store.CreateProduct(ctx, row)
	if err != nil {
		return models.Product{}, err
	}
	return productDTO(row), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return productDTOs(rows), nil
}

func (s *Service) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.ListProducts(ctx)
	}
	rows, err := s.store.SearchProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	return productDTOs(rows), nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (models.Product, error) {
	row, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	return productDTO(row), nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error) {
	if id == "" {
		return models.Product{}, invalid("id", "id required")
	}
	if err := validateProduct(in); err != nil {
		return models.Product{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	row, err := s.store.UpdateProduct(ctx, productRow(id, in))
	if err != nil {
		return models.Product{}, err
	}
	return productDTO(row), nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return invalid("id", "id required")
	}
	return s.store.DeleteProduct(ctx, id)
}

func (s *Service) UpdateStock(ctx context.Context, productID string, newStock int) error {
	if newStock < 0 {
		return invalid("stock", "stock cannot be negative")
	}
	return s.store.UpdateStock(ctx, productID, newStock)
}

func productRow(id string, in models.ProductInput) store.ProductRow {
	r := store.ProductRow{
		ID:               id,
		Name:             in.Name,
		Price:            in.Price,
		Image:            in.Image,
		Images:           pq.StringArray(in.Images),
		Brand:            in.Brand,
		Category:         in.Category,
		RoomType:         in.RoomType,
		ProductRating:    in.ProductRating,
		PrimaryMaterial:  in.PrimaryMaterial,
		DimensionsCM:     in.DimensionsCM,
		DimensionsInches: in.DimensionsInches,
		Weight:           in.Weight,
		Assembly:         in.Assembly,
		Storage:          in.Storage,
		Warranty:         in.Warranty,
		Description:      in.Description,
		HasSetOption:     in.HasSetOption,
		Stock:            in.Stock,
	}
	if in.SetPrice != nil {
		r.SetPrice = sql.NullFloat64{Float64: *in.SetPrice, Valid: true}
	}
	if in.SeatingHeight != nil {
		r.SeatingHeight = sql.NullFloat64{Float64: *in.SeatingHeight, Valid: true}
	}
	if in.RecommendedMattressSize != "" {
		r.RecommendedMattressSize = sql.NullString{String: in.RecommendedMattressSize, Valid: true}
	}
	return r
}

func productDTO(r store.ProductRow) models.Product {
	p := models.Product{
		ID:               r.ID,
		Name:             r.Name,
		Price:            r.Price,
		Image:            r.Image,
		Images:           []string(r.Images),
		Brand:            r.Brand,
		Category:         r.Category,
		RoomType:         r.RoomType,
		ProductRating:    r.ProductRating,
		PrimaryMaterial:  r.PrimaryMaterial,
		DimensionsCM:     r.DimensionsCM,
		DimensionsInches: r.DimensionsInches,
		Weight:           r.Weight,
		Assembly:         r.Assembly,
		Storage:          r.Storage,
		Warranty:         r.Warranty,
		Description:      r.Description,
		HasSetOption:     r.HasSetOption,
		Stock:            r.Stock,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.SetPrice.Valid {
		v := r.SetPrice.Float64
		p.SetPrice = &v
	}
	if r.SeatingHeight.Valid {
		v := r.SeatingHeight.Float64
		p.SeatingHeight = &v
	}
	if r.RecommendedMattressSize.Valid {
		p.RecommendedMattressSize = r.RecommendedMattressSize.String
	}
	return p
}

func productDTOs(rows []store.ProductRow) []models.Product {
	out := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, productDTO(r))
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
