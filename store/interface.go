package store

import (
	"context"
	"time"
)

// Store is the persistence boundary of the API server. Every method takes the
// request context; missing rows surface as ErrNotFound.
type Store interface {
	CreateProduct(ctx context.Context, p ProductRow) (ProductRow, error)
	ListProducts(ctx context.Context) ([]ProductRow, error)
	SearchProducts(ctx context.Context, q string) ([]ProductRow, error)
	GetProduct(ctx context.Context, id string) (ProductRow, error)
	UpdateProduct(ctx context.Context, p ProductRow) (ProductRow, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, productID string, newStock int) error

	CreateOrder(ctx context.Context, o OrderRow, items []OrderItemRow) (OrderRow, error)
	ListOrders(ctx context.Context) ([]OrderRow, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]OrderRow, error)
	GetOrder(ctx context.Context, id string) (OrderRow, error)
	ListOrderItems(ctx context.Context, orderIDs []string) ([]OrderItemRow, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error

	SavePaymentOrder(ctx context.Context, p PaymentOrderRow) (PaymentOrderRow, error)
	GetPaymentOrder(ctx context.Context, id string) (PaymentOrderRow, error)

	UpsertUser(ctx context.Context, u UserRow) (UserRow, error)
	GetUser(ctx context.Context, id string) (UserRow, error)
	ListCustomers(ctx context.Context) ([]CustomerRow, error)

	DashboardCounts(ctx context.Context, monthStart, prevMonthStart time.Time) (DashboardRow, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrderRow, error)
	LowStock(ctx context.Context, threshold, limit int) ([]LowStockRow, error)

	Close() error
}
