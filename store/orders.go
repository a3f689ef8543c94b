package store

import (
	"context"
	"database/sql"
	"sort"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const orderColumns = `id, user_id, customer_name, email, phone, address, pincode, delivery_instructions, total_amount, payment_method, payment_status, payment_ref, payment_error, status, created_at, updated_at`

const (
	lockProductStockSQL = `SELECT stock FROM products WHERE id = $1 FOR UPDATE`
	reserveStockSQL     = `UPDATE products SET stock = stock - $1, updated_at = now() WHERE id = $2`
	insertOrderSQL      = `INSERT INTO orders (id, user_id, customer_name, email, phone, address, pincode, delivery_instructions, total_amount, payment_method, payment_status, payment_ref, payment_error, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`
	insertOrderItemSQL = `INSERT INTO order_items (id, order_id, product_id, quantity, price, selected_set) VALUES ($1, $2, $3, $4, $5, $6)`
	listOrdersSQL      = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	listUserOrdersSQL  = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	getOrderSQL        = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	listOrderItemsSQL  = `SELECT oi.id, oi.order_id, COALESCE(oi.product_id, ''), oi.quantity, oi.price, oi.selected_set, oi.created_at, p.name, p.image
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.created_at, oi.id`
	lockOrderStatusSQL   = `SELECT status FROM orders WHERE id = $1 FOR UPDATE`
	updateOrderStatusSQL = `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`
	restoreStockSQL      = `UPDATE products p SET stock = p.stock + s.qty, updated_at = now()
		FROM (SELECT product_id, SUM(quantity) AS qty FROM order_items WHERE order_id = $1 AND product_id IS NOT NULL GROUP BY product_id) s
		WHERE p.id = s.product_id`
)

func scanOrder(r rowScanner) (OrderRow, error) {
	var o OrderRow
	err := r.Scan(
		&o.ID, &o.UserID, &o.CustomerName, &o.Email, &o.Phone, &o.Address, &o.Pincode,
		&o.DeliveryInstructions, &o.TotalAmount, &o.PaymentMethod, &o.PaymentStatus,
		&o.PaymentRef, &o.PaymentError, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// CreateOrder writes the order and its items in one transaction and reserves
// stock for every line. A paid payment reference can back one order only. Product rows are locked in id order to avoid deadlocks
// between concurrent checkouts.
func (s *PostgresStore) CreateOrder(ctx context.Context, o OrderRow, items []OrderItemRow) (OrderRow, error) {
	if len(items) == 0 {
		return OrderRow{}, errors.New("order has no items")
	}

	// the same product may appear twice (with and without the set option)
	need := map[string]int{}
	for _, it := range items {
		need[it.ProductID] += it.Quantity
	}
	ids := make([]string, 0, len(need))
	for id := range need {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			var stock int
			err := tx.QueryRowContext(ctx, lockProductStockSQL, id).Scan(&stock)
			if err == sql.ErrNoRows {
				return errors.Wrapf(ErrNotFound, "product %s", id)
			}
			if err != nil {
				return errors.Wrap(err, "lock product")
			}
			if stock < need[id] {
				return errors.Wrapf(ErrInsufficientStock, "product %s", id)
			}
			if _, err := tx.ExecContext(ctx, reserveStockSQL, need[id], id); err != nil {
				return errors.Wrap(err, "reserve stock")
			}
		}

		if err := tx.QueryRowContext(ctx, insertOrderSQL,
			o.ID, o.UserID, o.CustomerName, o.Email, o.Phone, o.Address, o.Pincode,
			o.DeliveryInstructions, o.TotalAmount, o.PaymentMethod, o.PaymentStatus,
			o.PaymentRef, o.PaymentError, o.Status,
		).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
			if isPaymentReuse(err) {
				return errors.Wrapf(ErrPaymentReused, "payment %s", o.PaymentRef.String)
			}
			return errors.Wrap(err, "insert order")
		}

		stmt, err := tx.PrepareContext(ctx, insertOrderItemSQL)
		if err != nil {
			return errors.Wrap(err, "prepare order items")
		}
		defer stmt.Close()

		for _, it := range items {
			if _, err := stmt.ExecContext(ctx, it.ID, o.ID, it.ProductID, it.Quantity, it.Price, it.SelectedSet); err != nil {
				return errors.Wrap(err, "insert order item")
			}
		}
		return nil
	})
	if err != nil {
		return OrderRow{}, err
	}
	return o, nil
}

func (s *PostgresStore) queryOrders(ctx context.Context, query string, args ...any) ([]OrderRow, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	defer rows.Close()
	out := []OrderRow{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListOrders(ctx context.Context) ([]OrderRow, error) {
	return s.queryOrders(ctx, listOrdersSQL)
}

func (s *PostgresStore) ListOrdersByUser(ctx context.Context, userID string) ([]OrderRow, error) {
	return s.queryOrders(ctx, listUserOrdersSQL, userID)
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (OrderRow, error) {
	o, err := scanOrder(s.DB.QueryRowContext(ctx, getOrderSQL, id))
	if err == sql.ErrNoRows {
		return OrderRow{}, ErrNotFound
	}
	if err != nil {
		return OrderRow{}, errors.Wrap(err, "get order")
	}
	return o, nil
}

// ListOrderItems returns the items of all given orders in one round trip.
func (s *PostgresStore) ListOrderItems(ctx context.Context, orderIDs []string) ([]OrderItemRow, error) {
	if len(orderIDs) == 0 {
		return []OrderItemRow{}, nil
	}
	rows, err := s.DB.QueryContext(ctx, listOrderItemsSQL, pq.Array(orderIDs))
	if err != nil {
		return nil, errors.Wrap(err, "query order items")
	}
	defer rows.Close()
	out := []OrderItemRow{}
	for rows.Next() {
		var it OrderItemRow
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price, &it.SelectedSet,
			&it.CreatedAt, &it.ProductName, &it.ProductImage); err != nil {
			return nil, errors.Wrap(err, "scan order item")
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpdateOrderStatus moves an order to status. Cancelling returns the reserved
// stock; a cancelled order cannot be moved again.
func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, id, status string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, lockOrderStatusSQL, id).Scan(&current)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return errors.Wrap(err, "lock order")
		}
		if current == status {
			return nil
		}
		if current == "cancelled" {
			return ErrOrderClosed
		}
		if _, err := tx.ExecContext(ctx, updateOrderStatusSQL, status, id); err != nil {
			return errors.Wrap(err, "update order status")
		}
		if status == "cancelled" {
			if _, err := tx.ExecContext(ctx, restoreStockSQL, id); err != nil {
				return errors.Wrap(err, "restore stock")
			}
		}
		return nil
	})
}
