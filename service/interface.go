package service

import (
	"context"
	"io"

	models "furnisure/model"
)

type ServiceInterface interface {
	CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, q string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, productID string, newStock int) error

	CreateOrder(ctx context.Context, userID string, req models.CreateOrderRequest) (models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrder(ctx context.Context, id, userID string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)

	SyncUser(ctx context.Context, subject string, req models.SyncUserRequest) (models.User, error)
	Profile(ctx context.Context, userID string) (models.User, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)

	DashboardStats(ctx context.Context) (models.DashboardStats, error)
	RecentOrders(ctx context.Context, limit int) ([]models.RecentOrder, error)
	LowStock(ctx context.Context, limit int) ([]models.LowStockItem, error)

	CreatePaymentOrder(ctx context.Context, userID string, amount float64, receipt string) (models.PaymentOrder, error)
	VerifyPayment(req models.VerifyPaymentRequest) models.VerifyPaymentResponse

	SaveUpload(filename string, r io.Reader) (string, error)
}
