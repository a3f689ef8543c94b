package service

import (
	"context"
	"math"
	"time"

	models "furnisure/model"
)

const (
	defaultRecentOrders = 4
	defaultLowStock     = 3
)

func (s *Service) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	row, err := s.store.DashboardCounts(ctx, monthStart, prevMonthStart)
	if err != nil {
		return models.DashboardStats{}, err
	}
	st := models.DashboardStats{
		TotalInventory:  row.TotalInventory,
		PendingOrders:   row.PendingOrders,
		TotalCustomers:  row.TotalCustomers,
		MonthlyRevenue:  row.RevenueThisMonth,
		TotalOrders:     row.TotalOrders,
		CompletedOrders: row.CompletedOrders,
		RevenueGrowth:   growth(row.RevenueThisMonth, row.RevenueLastMonth),
		OrderGrowth:     growth(float64(row.OrdersThisMonth), float64(row.OrdersLastMonth)),
		CustomerGrowth:  growth(float64(row.CustomersThisMonth), float64(row.CustomersLastMonth)),
	}
	if row.TotalOrders > 0 {
		st.AverageOrderValue = round1(row.TotalRevenue / float64(row.TotalOrders))
	}
	return st, nil
}

// growth is the month over month change in percent, rounded to one decimal.
// With nothing last month any activity counts as 100%.
func growth(cur, prev float64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return round1((cur - prev) / prev * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *Service) RecentOrders(ctx context.Context, limit int) ([]models.RecentOrder, error) {
	if limit <= 0 {
		limit = defaultRecentOrders
	}
	rows, err := s.store.RecentOrders(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.RecentOrder, 0, len(rows))
	for _, r := range rows {
		label, err := models.StatusLabel(models.OrderStatus(r.Status))
		if err != nil {
			label = r.Status
		}
		product := r.FirstProduct
		if product == "" {
			product = "Unknown Product"
		}
		out = append(out, models.RecentOrder{
			ID:       r.ID,
			Customer: r.CustomerName,
			Product:  product,
			Status:   label,
			Amount:   r.TotalAmount,
			Date:     r.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) LowStock(ctx context.Context, limit int) ([]models.LowStockItem, error) {
	if limit <= 0 {
		limit = defaultLowStock
	}
	threshold := s.opts.LowStockThreshold
	rows, err := s.store.LowStock(ctx, threshold, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.LowStockItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.LowStockItem{Name: r.Name, Stock: r.Stock, Threshold: threshold})
	}
	return out, nil
}
