package store

import (
	"context"

	"github.com/pkg/errors"
)

const (
	updateStockSQL = `UPDATE products SET stock = $1, updated_at = now() WHERE id = $2`
	lowStockSQL    = `SELECT name, stock FROM products WHERE stock <= $1 ORDER BY stock ASC, name ASC LIMIT $2`
)

// UpdateStock sets the absolute stock for a product (admin operation).
func (s *PostgresStore) UpdateStock(ctx context.Context, productID string, newStock int) error {
	if newStock < 0 {
		return errors.New("stock cannot be negative")
	}
	res, err := s.DB.ExecContext(ctx, updateStockSQL, newStock, productID)
	if err != nil {
		return errors.Wrap(err, "update stock")
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}

// LowStock lists products at or below threshold, emptiest first.
func (s *PostgresStore) LowStock(ctx context.Context, threshold, limit int) ([]LowStockRow, error) {
	rows, err := s.DB.QueryContext(ctx, lowStockSQL, threshold, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query low stock")
	}
	defer rows.Close()
	out := []LowStockRow{}
	for rows.Next() {
		var r LowStockRow
		if err := rows.Scan(&r.Name, &r.Stock); err != nil {
			return nil, errors.Wrap(err, "scan low stock")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
