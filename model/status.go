package models

import "errors"

// OrderStatus is the lifecycle code stored by the backend.
type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusProcessing OrderStatus = "processing"
	StatusDispatched OrderStatus = "dispatched"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var ErrUnknownStatus = errors.New("unknown order status")

// Statuses lists every backend status in lifecycle order.
var Statuses = []OrderStatus{StatusNew, StatusProcessing, StatusDispatched, StatusDelivered, StatusCancelled}

var statusLabels = map[OrderStatus]string{
	StatusNew:        "New",
	StatusProcessing: "Processing",
	StatusDispatched: "Shipped",
	StatusDelivered:  "Delivered",
	StatusCancelled:  "Cancelled",
}

var labelStatuses = func() map[string]OrderStatus {
	m := make(map[string]OrderStatus, len(statusLabels))
	for code, label := range statusLabels {
		m[label] = code
	}
	return m
}()

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// StatusLabel maps a backend status to its back-office label.
func StatusLabel(s OrderStatus) (string, error) {
	label, ok := statusLabels[s]
	if !ok {
		return "", ErrUnknownStatus
	}
	return label, nil
}

// StatusFromLabel maps a back-office label to its backend status.
func StatusFromLabel(label string) (OrderStatus, error) {
	s, ok := labelStatuses[label]
	if !ok {
		return "", ErrUnknownStatus
	}
	return s, nil
}
