package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

const (
	dashboardCountsSQL = `SELECT
		(SELECT COALESCE(SUM(stock), 0) FROM products),
		(SELECT COUNT(*) FROM orders WHERE status IN ('new', 'processing')),
		(SELECT COUNT(*) FROM users WHERE NOT is_admin),
		(SELECT COUNT(*) FROM orders),
		(SELECT COUNT(*) FROM orders WHERE status = 'delivered'),
		(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> 'cancelled'),
		(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> 'cancelled' AND created_at >= $1),
		(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> 'cancelled' AND created_at >= $2 AND created_at < $1),
		(SELECT COUNT(*) FROM orders WHERE created_at >= $1),
		(SELECT COUNT(*) FROM orders WHERE created_at >= $2 AND created_at < $1),
		(SELECT COUNT(*) FROM users WHERE NOT is_admin AND created_at >= $1),
		(SELECT COUNT(*) FROM users WHERE NOT is_admin AND created_at >= $2 AND created_at < $1)`
	recentOrdersSQL = `SELECT o.id, o.customer_name,
		COALESCE((SELECT p.name FROM order_items oi JOIN products p ON p.id = oi.product_id WHERE oi.order_id = o.id ORDER BY oi.created_at LIMIT 1), ''),
		o.status, o.total_amount, o.created_at
		FROM orders o
		ORDER BY o.created_at DESC
		LIMIT $1`
)

// DashboardCounts gathers the back-office aggregates in a single round trip.
func (s *PostgresStore) DashboardCounts(ctx context.Context, monthStart, prevMonthStart time.Time) (DashboardRow, error) {
	var d DashboardRow
	err := s.DB.QueryRowContext(ctx, dashboardCountsSQL, monthStart, prevMonthStart).Scan(
		&d.TotalInventory, &d.PendingOrders, &d.TotalCustomers, &d.TotalOrders, &d.CompletedOrders,
		&d.TotalRevenue, &d.RevenueThisMonth, &d.RevenueLastMonth,
		&d.OrdersThisMonth, &d.OrdersLastMonth, &d.CustomersThisMonth, &d.CustomersLastMonth,
	)
	if err != nil {
		return DashboardRow{}, errors.Wrap(err, "dashboard counts")
	}
	return d, nil
}

func (s *PostgresStore) RecentOrders(ctx context.Context, limit int) ([]RecentOrderRow, error) {
	rows, err := s.DB.QueryContext(ctx, recentOrdersSQL, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query recent orders")
	}
	defer rows.Close()
	out := []RecentOrderRow{}
	for rows.Next() {
		var r RecentOrderRow
		if err := rows.Scan(&r.ID, &r.CustomerName, &r.FirstProduct, &r.Status, &r.TotalAmount, &r.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan recent order")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
