package store

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// ProductRow, OrderRow etc are simple structs representing DB rows
type ProductRow struct {
	ID                      string
	Name                    string
	Price                   float64
	SetPrice                sql.NullFloat64
	Image                   string
	Images                  pq.StringArray
	Brand                   string
	Category                string
	RoomType                string
	ProductRating           float64
	PrimaryMaterial         string
	DimensionsCM            string
	DimensionsInches        string
	Weight                  string
	Assembly                string
	Storage                 string
	Warranty                string
	Description             string
	RecommendedMattressSize sql.NullString
	SeatingHeight           sql.NullFloat64
	HasSetOption            bool
	Stock                   int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

type OrderRow struct {
	ID                   string
	UserID               string
	CustomerName         string
	Email                string
	Phone                string
	Address              string
	Pincode              string
	DeliveryInstructions sql.NullString
	TotalAmount          float64
	PaymentMethod        string
	PaymentStatus        string
	PaymentRef           sql.NullString
	PaymentError         sql.NullString
	Status               string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type OrderItemRow struct {
	ID          string
	OrderID     string
	ProductID   string
	Quantity    int
	Price       float64
	SelectedSet bool
	CreatedAt   time.Time

	// joined from products; invalid when the product has since been deleted
	ProductName  sql.NullString
	ProductImage sql.NullString
}

type UserRow struct {
	ID        string
	Email     string
	FullName  string
	Phone     string
	IsAdmin   bool
	CreatedAt time.Time
}

type CustomerRow struct {
	UserRow
	OrderCount int
	TotalSpent float64
}

type DashboardRow struct {
	TotalInventory     int
	PendingOrders      int
	TotalCustomers     int
	TotalOrders        int
	CompletedOrders    int
	TotalRevenue       float64
	RevenueThisMonth   float64
	RevenueLastMonth   float64
	OrdersThisMonth    int
	OrdersLastMonth    int
	CustomersThisMonth int
	CustomersLastMonth int
}

type RecentOrderRow struct {
	ID           string
	CustomerName string
	FirstProduct string
	Status       string
	TotalAmount  float64
	CreatedAt    time.Time
}

type LowStockRow struct {
	Name  string
	Stock int
}

// PaymentOrderRow records a gateway order the server created, so a later
// payment proof can be matched to the amount actually charged.
type PaymentOrderRow struct {
	ID          string
	UserID      string
	AmountMinor int64
	Currency    string
	Receipt     string
	CreatedAt   time.Time
}
