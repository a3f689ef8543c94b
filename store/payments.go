package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	insertPaymentOrderSQL = `INSERT INTO payment_orders (id, user_id, amount_minor, currency, receipt) VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	getPaymentOrderSQL = `SELECT id, user_id, amount_minor, currency, receipt, created_at FROM payment_orders WHERE id = $1`

	// partial unique index from migrations.sql
	paidPaymentRefIndex = "orders_paid_payment_ref_key"
	uniqueViolation     = "23505"
)

func (s *PostgresStore) SavePaymentOrder(ctx context.Context, p PaymentOrderRow) (PaymentOrderRow, error) {
	err := s.DB.QueryRowContext(ctx, insertPaymentOrderSQL, p.ID, p.UserID, p.AmountMinor, p.Currency, p.Receipt).Scan(&p.CreatedAt)
	if err != nil {
		return PaymentOrderRow{}, errors.Wrap(err, "insert payment order")
	}
	return p, nil
}

func (s *PostgresStore) GetPaymentOrder(ctx context.Context, id string) (PaymentOrderRow, error) {
	var p PaymentOrderRow
	err := s.DB.QueryRowContext(ctx, getPaymentOrderSQL, id).Scan(&p.ID, &p.UserID, &p.AmountMinor, &p.Currency, &p.Receipt, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return PaymentOrderRow{}, ErrNotFound
	}
	if err != nil {
		return PaymentOrderRow{}, errors.Wrap(err, "get payment order")
	}
	return p, nil
}

// isPaymentReuse reports whether err is the unique violation raised when a
// paid payment reference is stored a second time.
func isPaymentReuse(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == paidPaymentRefIndex
}
