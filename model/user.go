package models

import "time"

// User is a storefront account mirrored from the identity provider.
// IsAdmin is only ever set server side.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// SyncUserRequest is the body of POST /auth/users/sync.
type SyncUserRequest struct {
	ClerkID     string `json:"clerkId"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type Customer struct {
	User
	OrderCount int     `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}

type DashboardStats struct {
	TotalInventory    int     `json:"totalInventory"`
	PendingOrders     int     `json:"pendingOrders"`
	TotalCustomers    int     `json:"totalCustomers"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
	TotalOrders       int     `json:"totalOrders"`
	CompletedOrders   int     `json:"completedOrders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	RevenueGrowth     float64 `json:"revenueGrowth"`
	OrderGrowth       float64 `json:"orderGrowth"`
	CustomerGrowth    float64 `json:"customerGrowth"`
}

type RecentOrder struct {
	ID       string    `json:"id"`
	Customer string    `json:"customer"`
	Product  string    `json:"product"`
	Status   string    `json:"status"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
}

type LowStockItem struct {
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

// PaymentOrder is what the gateway returns for a checkout attempt and what the
// hosted widget is opened with.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
	KeyID    string `json:"key_id,omitempty"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type VerifyPaymentResponse struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message,omitempty"`
}
