package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	models "furnisure/model"
	"furnisure/store"
)

var ErrPaymentsDisabled = errors.New("payment gateway not configured")

// CreatePaymentOrder opens a gateway order and records it, so the order that
// later claims this payment can be checked against the charged amount.
func (s *Service) CreatePaymentOrder(ctx context.Context, userID string, amount float64, receipt string) (models.PaymentOrder, error) {
	if s.gateway == nil {
		return models.PaymentOrder{}, ErrPaymentsDisabled
	}
	if userID == "" {
		return models.PaymentOrder{}, invalid("user_id", "user_id required")
	}
	if amount <= 0 {
		return models.PaymentOrder{}, invalid("amount", "amount must be > 0")
	}
	if receipt == "" {
		receipt = "rcpt_" + s.newID()
	}
	po, err := s.gateway.CreateOrder(ctx, amount, receipt)
	if err != nil {
		return models.PaymentOrder{}, fmt.Errorf("create payment order: %w", err)
	}
	if _, err := s.store.SavePaymentOrder(ctx, store.PaymentOrderRow{
		ID:          po.ID,
		UserID:      userID,
		AmountMinor: po.Amount,
		Currency:    po.Currency,
		Receipt:     receipt,
	}); err != nil {
		return models.PaymentOrder{}, err
	}
	return po, nil
}

func (s *Service) VerifyPayment(req models.VerifyPaymentRequest) models.VerifyPaymentResponse {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return models.VerifyPaymentResponse{Verified: false, Message: "missing payment verification fields"}
	}
	if s.gateway == nil || !s.gateway.Verify(req.OrderID, req.PaymentID, req.Signature) {
		zap.S().Warnw("payment verification failed", "gateway_order_id", req.OrderID, "payment_id", req.PaymentID)
		return models.VerifyPaymentResponse{Verified: false, Message: "invalid payment signature"}
	}
	return models.VerifyPaymentResponse{Verified: true, Message: "payment verified"}
}
