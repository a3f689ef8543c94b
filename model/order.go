package models

import "time"

type PaymentMethod string
type PaymentStatus string

const (
	PaymentCOD     PaymentMethod = "cod"
	PaymentGateway PaymentMethod = "gateway"

	PaymentPending    PaymentStatus = "pending"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
	PaymentUnverified PaymentStatus = "unverified" // gateway claimed paid, proof could not be verified
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentGateway
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentUnverified:
		return true
	}
	return false
}

type Order struct {
	ID                   string        `json:"id"`
	UserID               string        `json:"user_id"`
	CustomerName         string        `json:"customer_name"`
	Email                string        `json:"email"`
	Phone                string        `json:"phone"`
	Address              string        `json:"address"`
	Pincode              string        `json:"pincode"`
	DeliveryInstructions string        `json:"delivery_instructions,omitempty"`
	TotalAmount          float64       `json:"total_amount"`
	PaymentMethod        PaymentMethod `json:"payment_method"`
	PaymentStatus        PaymentStatus `json:"payment_status"`
	PaymentRef           string        `json:"payment_ref,omitempty"`
	PaymentError         string        `json:"payment_error,omitempty"`
	Status               OrderStatus   `json:"status"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
	Items                []OrderItem   `json:"items"`
}

type OrderItem struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	ProductID   string    `json:"product_id"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	SelectedSet bool      `json:"selected_set"`
	CreatedAt   time.Time `json:"created_at"`
	Product     *Product  `json:"product,omitempty"`
}

// LineItem is one requested line of a new order.
type LineItem struct {
	ProductID   string  `json:"product_id"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	SelectedSet bool    `json:"selected_set"`
}

// PaymentInfo carries what the storefront learned from the gateway.
type PaymentInfo struct {
	Method    PaymentMethod `json:"method"`
	Status    PaymentStatus `json:"status"`
	OrderID   string        `json:"gateway_order_id,omitempty"`
	Ref       string        `json:"ref,omitempty"`
	Signature string        `json:"signature,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	CustomerName         string      `json:"customer_name"`
	Email                string      `json:"email"`
	Phone                string      `json:"phone"`
	Address              string      `json:"address"`
	Pincode              string      `json:"pincode"`
	DeliveryInstructions string      `json:"delivery_instructions,omitempty"`
	TotalAmount          float64     `json:"total_amount"`
	Items                []LineItem  `json:"items"`
	Payment              PaymentInfo `json:"payment"`
}
