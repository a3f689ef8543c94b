package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"furnisure/auth"
	"furnisure/cart"
	models "furnisure/model"
)

var (
	ErrEmptyCart      = errors.New("checkout: cart is empty")
	ErrSubmitInFlight = errors.New("checkout: an order is already being placed")
	// ErrPaymentSuppressed is returned in dev mode instead of submitting an
	// order whose gateway payment failed.
	ErrPaymentSuppressed = errors.New("checkout: failed payment not submitted in dev mode")
)

// ValidationError blocks submission; Field names the offending form input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Msg
}

// DeliveryForm is what the customer types at checkout. Name, email and phone
// come from the identity.
type DeliveryForm struct {
	Address      string
	Pincode      string
	Instructions string
}

// ValidatePincode accepts six digit Indian postal codes not starting with 0.
func ValidatePincode(pincode string) error {
	if !models.ValidPincode(pincode) {
		return &ValidationError{Field: "pincode", Msg: "enter a valid 6 digit pincode"}
	}
	return nil
}

func (f DeliveryForm) Validate() error {
	if strings.TrimSpace(f.Address) == "" {
		return &ValidationError{Field: "address", Msg: "address is required"}
	}
	return ValidatePincode(f.Pincode)
}

// Widget is the hosted payment checkout. Open returns the gateway's proof of
// payment, or an error if the widget could not load or the customer bailed.
type Widget interface {
	Open(ctx context.Context, order models.PaymentOrder, customer auth.Identity) (models.VerifyPaymentRequest, error)
}

type CheckoutAPI interface {
	CreatePaymentOrder(ctx context.Context, amount float64) (models.PaymentOrder, error)
	VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) (models.VerifyPaymentResponse, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.Order, error)
}

type Checkout struct {
	api     CheckoutAPI
	cart    *cart.Cart
	widget  Widget
	devMode bool

	inFlight atomic.Bool
}

func NewCheckout(api CheckoutAPI, c *cart.Cart, w Widget, devMode bool) *Checkout {
	return &Checkout{api: api, cart: c, widget: w, devMode: devMode}
}

// PlaceOrder runs one checkout attempt. Only one attempt may run at a time.
// The cart is cleared only when the order was accepted.
func (c *Checkout) PlaceOrder(ctx context.Context, customer auth.Identity, form DeliveryForm, method models.PaymentMethod) (models.Order, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return models.Order{}, ErrSubmitInFlight
	}
	defer c.inFlight.Store(false)

	if err := form.Validate(); err != nil {
		return models.Order{}, err
	}
	if !method.Valid() {
		return models.Order{}, &ValidationError{Field: "payment_method", Msg: "choose a payment method"}
	}
	items := c.cart.Items()
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	// total, line items and payment amount all come from one snapshot
	var total float64
	for _, it := range items {
		total += it.LineTotal()
	}

	var pay models.PaymentInfo
	if method == models.PaymentCOD {
		pay = models.PaymentInfo{Method: models.PaymentCOD, Status: models.PaymentPending}
	} else {
		var err error
		pay, err = c.payByGateway(ctx, customer, total)
		if err != nil {
			return models.Order{}, err
		}
	}

	req := models.CreateOrderRequest{
		CustomerName:         customer.FullName,
		Email:                customer.Email,
		Phone:                customer.Phone,
		Address:              strings.TrimSpace(form.Address),
		Pincode:              form.Pincode,
		DeliveryInstructions: strings.TrimSpace(form.Instructions),
		TotalAmount:          total,
		Items:                make([]models.LineItem, 0, len(items)),
		Payment:              pay,
	}
	for _, it := range items {
		req.Items = append(req.Items, models.LineItem{
			ProductID:   it.Product.ID,
			Quantity:    it.Quantity,
			Price:       it.UnitPrice(),
			SelectedSet: it.SelectedSet,
		})
	}

	order, err := c.api.CreateOrder(ctx, req)
	if err != nil {
		return models.Order{}, fmt.Errorf("submit order: %w", err)
	}
	c.cart.Clear()
	return order, nil
}

// payByGateway creates the gateway order, opens the widget and verifies the
// result. Failures become a failed payment unless dev mode suppresses them.
func (c *Checkout) payByGateway(ctx context.Context, customer auth.Identity, total float64) (models.PaymentInfo, error) {
	pay := models.PaymentInfo{Method: models.PaymentGateway}
	fail := func(cause error) (models.PaymentInfo, error) {
		if c.devMode {
			return models.PaymentInfo{}, fmt.Errorf("%w: %v", ErrPaymentSuppressed, cause)
		}
		zap.S().Warnw("gateway payment failed, submitting order as failed", "error", cause)
		pay.Status = models.PaymentFailed
		pay.Error = cause.Error()
		return pay, nil
	}

	po, err := c.api.CreatePaymentOrder(ctx, total)
	if err != nil {
		return fail(fmt.Errorf("create payment order: %w", err))
	}
	pay.OrderID = po.ID
	if c.widget == nil {
		return fail(errors.New("payment widget failed to load"))
	}
	proof, err := c.widget.Open(ctx, po, customer)
	if err != nil {
		return fail(err)
	}
	res, err := c.api.VerifyPayment(ctx, proof)
	if err != nil {
		return fail(fmt.Errorf("verify payment: %w", err))
	}
	if !res.Verified {
		msg := res.Message
		if msg == "" {
			msg = "payment verification failed"
		}
		return fail(errors.New(msg))
	}

	pay.Status = models.PaymentPaid
	pay.OrderID = proof.OrderID
	pay.Ref = proof.PaymentID
	pay.Signature = proof.Signature
	return pay, nil
}
