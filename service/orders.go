package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	models "furnisure/model"
	"furnisure/payment"
	"furnisure/store"
)

func validateOrderRequest(req models.CreateOrderRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return invalid("customer_name", "customer name required")
	}
	if !strings.Contains(req.Email, "@") {
		return invalid("email", "valid email required")
	}
	if strings.TrimSpace(req.Address) == "" {
		return invalid("address", "address required")
	}
	if !models.ValidPincode(req.Pincode) {
		return invalid("pincode", "pincode must be 6 digits and not start with 0")
	}
	if len(req.Items) == 0 {
		return invalid("items", "order has no items")
	}
	for _, it := range req.Items {
		if it.ProductID == "" {
			return invalid("items", "product_id required")
		}
		if it.Quantity < 1 {
			return invalid("items", "quantity must be >= 1")
		}
	}
	if !req.Payment.Method.Valid() {
		return invalid("payment.method", "unknown payment method")
	}
	return nil
}

// paymentOutcome decides the stored payment status of a gateway order. Paid
// needs a valid signature on a gateway order this server created for the same
// user and for exactly the order total. Anything short of paid is failed.
func (s *Service) paymentOutcome(ctx context.Context, userID string, p models.PaymentInfo, total float64) (models.PaymentStatus, string, error) {
	if p.Method == models.PaymentCOD {
		return models.PaymentPending, "", nil
	}
	switch p.Status {
	case models.PaymentPaid:
		if s.gateway == nil || !s.gateway.Verify(p.OrderID, p.Ref, p.Signature) {
			return models.PaymentUnverified, "payment signature could not be verified", nil
		}
		po, err := s.store.GetPaymentOrder(ctx, p.OrderID)
		if errors.Is(err, store.ErrNotFound) {
			return models.PaymentUnverified, "unknown gateway order " + p.OrderID, nil
		}
		if err != nil {
			return "", "", err
		}
		if po.UserID != userID {
			return models.PaymentUnverified, "gateway order belongs to another user", nil
		}
		if po.AmountMinor != payment.ToMinorUnits(total) {
			return models.PaymentUnverified, fmt.Sprintf("paid %d, order total is %d (minor units)", po.AmountMinor, payment.ToMinorUnits(total)), nil
		}
		return models.PaymentPaid, "", nil
	case models.PaymentFailed:
		msg := p.Error
		if msg == "" {
			msg = "payment failed"
		}
		return models.PaymentFailed, msg, nil
	}
	if p.Status != "" && !p.Status.Valid() {
		return models.PaymentFailed, "unknown payment status " + string(p.Status), nil
	}
	return models.PaymentFailed, "payment not completed", nil
}

func (s *Service) CreateOrder(ctx context.Context, userID string, req models.CreateOrderRequest) (models.Order, error) {
	if userID == "" {
		return models.Order{}, invalid("user_id", "user_id required")
	}
	if err := validateOrderRequest(req); err != nil {
		return models.Order{}, err
	}

	orderID := s.newID()
	products := map[string]models.Product{}
	items := make([]store.OrderItemRow, 0, len(req.Items))
	var total float64
	for _, it := range req.Items {
		p, ok := products[it.ProductID]
		if !ok {
			row, err := s.store.GetProduct(ctx, it.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				return models.Order{}, invalid("items", "unknown product "+it.ProductID)
			}
			if err != nil {
				return models.Order{}, err
			}
			p = productDTO(row)
			products[it.ProductID] = p
		}
		line := models.CartItem{Product: p, Quantity: it.Quantity, SelectedSet: it.SelectedSet && p.HasSetOption}
		unit := line.UnitPrice()
		items = append(items, store.OrderItemRow{
			ID:          s.newID(),
			OrderID:     orderID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			Price:       unit,
			SelectedSet: line.SelectedSet,
		})
		total += line.LineTotal()
	}
	total = math.Round(total*100) / 100
	if req.TotalAmount != 0 && math.Abs(req.TotalAmount-total) > 0.01 {
		zap.S().Warnw("order total mismatch, using catalog prices",
			"user_id", userID, "claimed", req.TotalAmount, "computed", total)
	}

	payStatus, payErr, err := s.paymentOutcome(ctx, userID, req.Payment, total)
	if err != nil {
		return models.Order{}, err
	}
	if payStatus == models.PaymentUnverified {
		zap.S().Warnw("gateway payment not accepted", "user_id", userID,
			"gateway_order_id", req.Payment.OrderID, "reason", payErr)
	}

	row, err := s.store.CreateOrder(ctx, store.OrderRow{
		ID:                   orderID,
		UserID:               userID,
		CustomerName:         strings.TrimSpace(req.CustomerName),
		Email:                strings.TrimSpace(req.Email),
		Phone:                strings.TrimSpace(req.Phone),
		Address:              strings.TrimSpace(req.Address),
		Pincode:              req.Pincode,
		DeliveryInstructions: nullString(strings.TrimSpace(req.DeliveryInstructions)),
		TotalAmount:          total,
		PaymentMethod:        string(req.Payment.Method),
		PaymentStatus:        string(payStatus),
		PaymentRef:           nullString(req.Payment.Ref),
		PaymentError:         nullString(payErr),
		Status:               string(models.StatusNew),
	}, items)
	if err != nil {
		return models.Order{}, err
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.Orders.WithLabelValues(string(req.Payment.Method), string(payStatus)).Inc()
	}

	o := orderDTO(row)
	for _, it := range items {
		it.CreatedAt = row.CreatedAt
		oi := orderItemDTO(it)
		p := products[it.ProductID]
		oi.Product = &p
		o.Items = append(o.Items, oi)
	}
	zap.S().Infow("order created", "order_id", o.ID, "user_id", userID,
		"total", o.TotalAmount, "payment_method", o.PaymentMethod, "payment_status", o.PaymentStatus)
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, rows)
}

func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, invalid("user_id", "user_id required")
	}
	rows, err := s.store.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, rows)
}

// GetOrder returns the order to its owner or to an admin.
func (s *Service) GetOrder(ctx context.Context, id, userID string) (models.Order, error) {
	row, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if row.UserID != userID {
		admin, err := s.IsAdmin(ctx, userID)
		if err != nil {
			return models.Order{}, err
		}
		if !admin {
			return models.Order{}, ErrForbidden
		}
	}
	out, err := s.withItems(ctx, []store.OrderRow{row})
	if err != nil {
		return models.Order{}, err
	}
	return out[0], nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, invalid("status", "unknown order status "+string(status))
	}
	if err := s.store.UpdateOrderStatus(ctx, id, string(status)); err != nil {
		return models.Order{}, err
	}
	row, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	zap.S().Infow("order status updated", "order_id", id, "status", status)
	out, err := s.withItems(ctx, []store.OrderRow{row})
	if err != nil {
		return models.Order{}, err
	}
	return out[0], nil
}

// withItems attaches items to every order with a single items query.
func (s *Service) withItems(ctx context.Context, rows []store.OrderRow) ([]models.Order, error) {
	out := make([]models.Order, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	itemRows, err := s.store.ListOrderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byOrder := map[string][]models.OrderItem{}
	for _, it := range itemRows {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], orderItemDTO(it))
	}
	for _, r := range rows {
		o := orderDTO(r)
		o.Items = byOrder[r.ID]
		if o.Items == nil {
			o.Items = []models.OrderItem{}
		}
		out = append(out, o)
	}
	return out, nil
}

func orderDTO(r store.OrderRow) models.Order {
	return models.Order{
		ID:                   r.ID,
		UserID:               r.UserID,
		CustomerName:         r.CustomerName,
		Email:                r.Email,
		Phone:                r.Phone,
		Address:              r.Address,
		Pincode:              r.Pincode,
		DeliveryInstructions: r.DeliveryInstructions.String,
		TotalAmount:          r.TotalAmount,
		PaymentMethod:        models.PaymentMethod(r.PaymentMethod),
		PaymentStatus:        models.PaymentStatus(r.PaymentStatus),
		PaymentRef:           r.PaymentRef.String,
		PaymentError:         r.PaymentError.String,
		Status:               models.OrderStatus(r.Status),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func orderItemDTO(r store.OrderItemRow) models.OrderItem {
	oi := models.OrderItem{
		ID:          r.ID,
		OrderID:     r.OrderID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		Price:       r.Price,
		SelectedSet: r.SelectedSet,
		CreatedAt:   r.CreatedAt,
	}
	if r.ProductName.Valid {
		oi.Product = &models.Product{ID: r.ProductID, Name: r.ProductName.String, Image: r.ProductImage.String}
	}
	return oi
}
