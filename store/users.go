package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

const (
	// is_admin is never written from a sync; it is granted out of band.
	upsertUserSQL = `INSERT INTO users (id, email, full_name, phone) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, full_name = EXCLUDED.full_name, phone = EXCLUDED.phone
		RETURNING is_admin, created_at`
	getUserSQL       = `SELECT id, email, full_name, phone, is_admin, created_at FROM users WHERE id = $1`
	listCustomersSQL = `SELECT u.id, u.email, u.full_name, u.phone, u.is_admin, u.created_at, COUNT(o.id), COALESCE(SUM(o.total_amount), 0)
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id AND o.status <> 'cancelled'
		GROUP BY u.id
		ORDER BY u.created_at DESC`
)

func (s *PostgresStore) UpsertUser(ctx context.Context, u UserRow) (UserRow, error) {
	if err := s.DB.QueryRowContext(ctx, upsertUserSQL, u.ID, u.Email, u.FullName, u.Phone).Scan(&u.IsAdmin, &u.CreatedAt); err != nil {
		return UserRow{}, errors.Wrap(err, "upsert user")
	}
	return u, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (UserRow, error) {
	var u UserRow
	err := s.DB.QueryRowContext(ctx, getUserSQL, id).Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.IsAdmin, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return UserRow{}, ErrNotFound
	}
	if err != nil {
		return UserRow{}, errors.Wrap(err, "get user")
	}
	return u, nil
}

func (s *PostgresStore) ListCustomers(ctx context.Context) ([]CustomerRow, error) {
	rows, err := s.DB.QueryContext(ctx, listCustomersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query customers")
	}
	defer rows.Close()
	out := []CustomerRow{}
	for rows.Next() {
		var c CustomerRow
		if err := rows.Scan(&c.ID, &c.Email, &c.FullName, &c.Phone, &c.IsAdmin, &c.CreatedAt, &c.OrderCount, &c.TotalSpent); err != nil {
			return nil, errors.Wrap(err, "scan customer")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
