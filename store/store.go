package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock returned when requested qty exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderClosed is returned when changing the status of a cancelled order.
	ErrOrderClosed = errors.New("order is cancelled")
	// ErrPaymentReused is returned when a gateway payment already paid for another order.
	ErrPaymentReused = errors.New("payment already used for another order")
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresStore is a Store backed by Postgres
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// inTx runs fn in a transaction, committing on nil and rolling back otherwise.
func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}

const productColumns = `id, name, price, set_price, image, images, brand, category, room_type, product_rating, primary_material, dimensions_cm, dimensions_inches, weight, assembly, storage, warranty, description, recommended_mattress_size, seating_height, has_set_option, stock, created_at, updated_at`

const (
	listProductsSQL   = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id`
	searchProductsSQL = `SELECT ` + productColumns + ` FROM products WHERE name ILIKE $1 OR brand ILIKE $1 OR category ILIKE $1 OR room_type ILIKE $1 OR description ILIKE $1 ORDER BY name`
	getProductSQL     = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	insertProductSQL  = `INSERT INTO products (id, name, price, set_price, image, images, brand, category, room_type, product_rating, primary_material, dimensions_cm, dimensions_inches, weight, assembly, storage, warranty, description, recommended_mattress_size, seating_height, has_set_option, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING created_at, updated_at`
	updateProductSQL = `UPDATE products SET name = $2, price = $3, set_price = $4, image = $5, images = $6, brand = $7, category = $8, room_type = $9, product_rating = $10, primary_material = $11, dimensions_cm = $12, dimensions_inches = $13, weight = $14, assembly = $15, storage = $16, warranty = $17, description = $18, recommended_mattress_size = $19, seating_height = $20, has_set_option = $21, stock = $22, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`
	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

func scanProduct(r rowScanner) (ProductRow, error) {
	var p ProductRow
	err := r.Scan(
		&p.ID, &p.Name, &p.Price, &p.SetPrice, &p.Image, &p.Images, &p.Brand, &p.Category,
		&p.RoomType, &p.ProductRating, &p.PrimaryMaterial, &p.DimensionsCM, &p.DimensionsInches,
		&p.Weight, &p.Assembly, &p.Storage, &p.Warranty, &p.Description,
		&p.RecommendedMattressSize, &p.SeatingHeight, &p.HasSetOption, &p.Stock,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func productArgs(p ProductRow) []any {
	images := p.Images
	if images == nil {
		images = pq.StringArray{}
	}
	return []any{
		p.ID, p.Name, p.Price, p.SetPrice, p.Image, images, p.Brand, p.Category,
		p.RoomType, p.ProductRating, p.PrimaryMaterial, p.DimensionsCM, p.DimensionsInches,
		p.Weight, p.Assembly, p.Storage, p.Warranty, p.Description,
		p.RecommendedMattressSize, p.SeatingHeight, p.HasSetOption, p.Stock,
	}
}

func (s *PostgresStore) queryProducts(ctx context.Context, query string, args ...any) ([]ProductRow, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	defer rows.Close()
	out := []ProductRow{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateProduct inserts a product; the caller assigns the id.
func (s *PostgresStore) CreateProduct(ctx context.Context, p ProductRow) (ProductRow, error) {
	err := s.DB.QueryRowContext(ctx, insertProductSQL, productArgs(p)...).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return ProductRow{}, errors.Wrap(err, "insert product")
	}
	return p, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]ProductRow, error) {
	return s.queryProducts(ctx, listProductsSQL)
}

func (s *PostgresStore) SearchProducts(ctx context.Context, q string) ([]ProductRow, error) {
	return s.queryProducts(ctx, searchProductsSQL, likePattern(q))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches q literally anywhere in the column; backslash is the
// default LIKE escape in Postgres.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (ProductRow, error) {
	p, err := scanProduct(s.DB.QueryRowContext(ctx, getProductSQL, id))
	if err == sql.ErrNoRows {
		return ProductRow{}, ErrNotFound
	}
	if err != nil {
		return ProductRow{}, errors.Wrap(err, "get product")
	}
	return p, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p ProductRow) (ProductRow, error) {
	err := s.DB.QueryRowContext(ctx, updateProductSQL, productArgs(p)...).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return ProductRow{}, ErrNotFound
	}
	if err != nil {
		return ProductRow{}, errors.Wrap(err, "update product")
	}
	return p, nil
}

// DeleteProduct removes a product. Order items keep their price and quantity;
// their product reference is cleared by the foreign key.
func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, deleteProductSQL, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}
