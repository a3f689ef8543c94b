package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"furnisure/metrics"
	models "furnisure/model"
	"furnisure/payment"
	"furnisure/store"
)

// ---- fakeStore implementing store.Store for tests ----
type fakeStore struct {
	CreateProductFn     func(p store.ProductRow) (store.ProductRow, error)
	ListProductsFn      func() ([]store.ProductRow, error)
	SearchProductsFn    func(q string) ([]store.ProductRow, error)
	GetProductFn        func(id string) (store.ProductRow, error)
	UpdateProductFn     func(p store.ProductRow) (store.ProductRow, error)
	DeleteProductFn     func(id string) error
	UpdateStockFn       func(productID string, newStock int) error
	CreateOrderFn       func(o store.OrderRow, items []store.OrderItemRow) (store.OrderRow, error)
	ListOrdersFn        func() ([]store.OrderRow, error)
	ListOrdersByUserFn  func(userID string) ([]store.OrderRow, error)
	GetOrderFn          func(id string) (store.OrderRow, error)
	ListOrderItemsFn    func(ids []string) ([]store.OrderItemRow, error)
	UpdateOrderStatusFn func(id, status string) error
	UpsertUserFn        func(u store.UserRow) (store.UserRow, error)
	GetUserFn           func(id string) (store.UserRow, error)
	ListCustomersFn     func() ([]store.CustomerRow, error)
	DashboardCountsFn   func(monthStart, prevMonthStart time.Time) (store.DashboardRow, error)
	RecentOrdersFn      func(limit int) ([]store.RecentOrderRow, error)
	LowStockFn          func(threshold, limit int) ([]store.LowStockRow, error)
	SavePaymentOrderFn  func(p store.PaymentOrderRow) (store.PaymentOrderRow, error)
	GetPaymentOrderFn   func(id string) (store.PaymentOrderRow, error)
}

func (f *fakeStore) CreateProduct(_ context.Context, p store.ProductRow) (store.ProductRow, error) {
	return f.CreateProductFn(p)
}
func (f *fakeStore) ListProducts(context.Context) ([]store.ProductRow, error) {
	return f.ListProductsFn()
}
func (f *fakeStore) SearchProducts(_ context.Context, q string) ([]store.ProductRow, error) {
	return f.SearchProductsFn(q)
}
func (f *fakeStore) GetProduct(_ context.Context, id string) (store.ProductRow, error) {
	return f.GetProductFn(id)
}
func (f *fakeStore) UpdateProduct(_ context.Context, p store.ProductRow) (store.ProductRow, error) {
	return f.UpdateProductFn(p)
}
func (f *fakeStore) DeleteProduct(_ context.Context, id string) error { return f.DeleteProductFn(id) }
func (f *fakeStore) UpdateStock(_ context.Context, productID string, newStock int) error {
	return f.UpdateStockFn(productID, newStock)
}
func (f *fakeStore) CreateOrder(_ context.Context, o store.OrderRow, items []store.OrderItemRow) (store.OrderRow, error) {
	return f.CreateOrderFn(o, items)
}
func (f *fakeStore) ListOrders(context.Context) ([]store.OrderRow, error) { return f.ListOrdersFn() }
func (f *fakeStore) ListOrdersByUser(_ context.Context, userID string) ([]store.OrderRow, error) {
	return f.ListOrdersByUserFn(userID)
}
func (f *fakeStore) GetOrder(_ context.Context, id string) (store.OrderRow, error) {
	return f.GetOrderFn(id)
}
func (f *fakeStore) ListOrderItems(_ context.Context, ids []string) ([]store.OrderItemRow, error) {
	return f.ListOrderItemsFn(ids)
}
func (f *fakeStore) UpdateOrderStatus(_ context.Context, id, status string) error {
	return f.UpdateOrderStatusFn(id, status)
}
func (f *fakeStore) UpsertUser(_ context.Context, u store.UserRow) (store.UserRow, error) {
	return f.UpsertUserFn(u)
}
func (f *fakeStore) GetUser(_ context.Context, id string) (store.UserRow, error) {
	return f.GetUserFn(id)
}
func (f *fakeStore) ListCustomers(context.Context) ([]store.CustomerRow, error) {
	return f.ListCustomersFn()
}
func (f *fakeStore) DashboardCounts(_ context.Context, monthStart, prevMonthStart time.Time) (store.DashboardRow, error) {
	return f.DashboardCountsFn(monthStart, prevMonthStart)
}
func (f *fakeStore) RecentOrders(_ context.Context, limit int) ([]store.RecentOrderRow, error) {
	return f.RecentOrdersFn(limit)
}
func (f *fakeStore) LowStock(_ context.Context, threshold, limit int) ([]store.LowStockRow, error) {
	return f.LowStockFn(threshold, limit)
}
func (f *fakeStore) SavePaymentOrder(_ context.Context, p store.PaymentOrderRow) (store.PaymentOrderRow, error) {
	return f.SavePaymentOrderFn(p)
}
func (f *fakeStore) GetPaymentOrder(_ context.Context, id string) (store.PaymentOrderRow, error) {
	return f.GetPaymentOrderFn(id)
}
func (f *fakeStore) Close() error { return nil }

type fakeGateway struct {
	valid bool
	order models.PaymentOrder
	err   error
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount float64, receipt string) (models.PaymentOrder, error) {
	if g.err != nil {
		return models.PaymentOrder{}, g.err
	}
	po := g.order
	po.Amount = payment.ToMinorUnits(amount)
	po.Receipt = receipt
	return po, nil
}
func (g *fakeGateway) Verify(orderID, paymentID, signature string) bool { return g.valid }

func newTestService(fs *fakeStore, gw payment.Gateway) *Service {
	svc := NewService(fs, gw, Options{LowStockThreshold: 5})
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return svc
}

func ptr(f float64) *float64 { return &f }

var ctx = context.Background()

// ---- Products ----

func TestCreateProductValidationAndForwarding(t *testing.T) {
	var got store.ProductRow
	svc := newTestService(&fakeStore{
		CreateProductFn: func(p store.ProductRow) (store.ProductRow, error) {
			got = p
			return p, nil
		},
	}, nil)

	bad := []models.ProductInput{
		{Name: "", Price: 10},
		{Name: "  ", Price: 10},
		{Name: "n", Price: -1},
		{Name: "n", Price: 1, SetPrice: ptr(-1)},
		{Name: "n", Price: 1, Stock: -1},
		{Name: "n", Price: 1, ProductRating: 6},
	}
	for _, in := range bad {
		_, err := svc.CreateProduct(ctx, in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}

	p, err := svc.CreateProduct(ctx, models.ProductInput{Name: " Sofa ", Price: 12.5, SetPrice: ptr(20), RecommendedMattressSize: "Queen"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "id-1" || p.Name != "Sofa" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if !got.SetPrice.Valid || got.SetPrice.Float64 != 20 || got.SeatingHeight.Valid {
		t.Fatalf("unexpected nullable mapping: %+v", got)
	}
	if !got.RecommendedMattressSize.Valid || p.RecommendedMattressSize != "Queen" {
		t.Fatalf("mattress size not forwarded: %+v", got)
	}
}

func TestListProductsMapping(t *testing.T) {
	svc := newTestService(&fakeStore{
		ListProductsFn: func() ([]store.ProductRow, error) {
			return []store.ProductRow{
				{ID: "p1", Name: "bed", Price: 99.5, SetPrice: sql.NullFloat64{Float64: 150, Valid: true}, Images: []string{"a.jpg"}},
				{ID: "p2", Name: "chair", Price: 10},
			}, nil
		},
	}, nil)

	out, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 products, got %d", len(out))
	}
	if out[0].SetPrice == nil || *out[0].SetPrice != 150 {
		t.Fatalf("expected set price 150, got %v", out[0].SetPrice)
	}
	if out[1].SetPrice != nil {
		t.Fatalf("expected nil set price for second product")
	}
	if !reflect.DeepEqual(out[0].Images, []string{"a.jpg"}) {
		t.Fatalf("unexpected images %v", out[0].Images)
	}
}

func TestListProductsStoreError(t *testing.T) {
	svc := newTestService(&fakeStore{
		ListProductsFn: func() ([]store.ProductRow, error) { return nil, errors.New("db down") },
	}, nil)
	if _, err := svc.ListProducts(ctx); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}

func TestSearchProductsBlankQueryLists(t *testing.T) {
	listed, searched := false, false
	svc := newTestService(&fakeStore{
		ListProductsFn: func() ([]store.ProductRow, error) {
			listed = true
			return nil, nil
		},
		SearchProductsFn: func(q string) ([]store.ProductRow, error) {
			searched = true
			if q != "oak" {
				t.Fatalf("expected trimmed query, got %q", q)
			}
			return nil, nil
		},
	}, nil)
	if _, err := svc.SearchProducts(ctx, "  "); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SearchProducts(ctx, " oak "); err != nil {
		t.Fatal(err)
	}
	if !listed || !searched {
		t.Fatalf("listed=%v searched=%v", listed, searched)
	}
}

func TestUpdateStockValidationAndForwarding(t *testing.T) {
	svc := newTestService(&fakeStore{}, nil)
	if err := svc.UpdateStock(ctx, "p1", -5); err == nil {
		t.Fatalf("expected error for negative stock")
	}

	called := false
	svc2 := newTestService(&fakeStore{
		UpdateStockFn: func(productID string, newStock int) error {
			called = true
			if productID != "p7" || newStock != 10 {
				return fmt.Errorf("unexpected args")
			}
			return nil
		},
	}, nil)
	if err := svc2.UpdateStock(ctx, "p7", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("expected UpdateStock to call store")
	}
}

// ---- Orders ----

func orderStore(captured *[]store.OrderItemRow, capturedOrder *store.OrderRow) *fakeStore {
	products := map[string]store.ProductRow{
		"bed":   {ID: "bed", Name: "Bed", Price: 20000, SetPrice: sql.NullFloat64{Float64: 30000, Valid: true}, HasSetOption: true, Stock: 5},
		"chair": {ID: "chair", Name: "Chair", Price: 1500, Stock: 5},
	}
	return &fakeStore{
		GetProductFn: func(id string) (store.ProductRow, error) {
			p, ok := products[id]
			if !ok {
				return store.ProductRow{}, store.ErrNotFound
			}
			return p, nil
		},
		CreateOrderFn: func(o store.OrderRow, items []store.OrderItemRow) (store.OrderRow, error) {
			*captured = items
			*capturedOrder = o
			o.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
			return o, nil
		},
		GetPaymentOrderFn: func(id string) (store.PaymentOrderRow, error) {
			p, ok := paymentOrders[id]
			if !ok {
				return store.PaymentOrderRow{}, store.ErrNotFound
			}
			return p, nil
		},
	}
}

// gateway orders the server has recorded; the test order totals 33000
var paymentOrders = map[string]store.PaymentOrderRow{
	"order_full":   {ID: "order_full", UserID: "u", AmountMinor: 3300000, Currency: "INR"},
	"order_1rupee": {ID: "order_1rupee", UserID: "u", AmountMinor: 100, Currency: "INR"},
	"order_other":  {ID: "order_other", UserID: "someone-else", AmountMinor: 3300000, Currency: "INR"},
}

func paidWith(gatewayOrder string) models.PaymentInfo {
	return models.PaymentInfo{Method: models.PaymentGateway, Status: models.PaymentPaid, OrderID: gatewayOrder, Ref: "pay_1", Signature: "s"}
}

func validOrderRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		CustomerName: "Asha",
		Email:        "asha@example.com",
		Phone:        "9999999999",
		Address:      "12 MG Road",
		Pincode:      "400001",
		TotalAmount:  1,
		Items: []models.LineItem{
			{ProductID: "bed", Quantity: 1, Price: 1, SelectedSet: true},
			{ProductID: "chair", Quantity: 2, Price: 1},
		},
		Payment: models.PaymentInfo{Method: models.PaymentCOD},
	}
}

func TestCreateOrderRecomputesPricesAndTotal(t *testing.T) {
	var items []store.OrderItemRow
	var row store.OrderRow
	svc := newTestService(orderStore(&items, &row), nil)

	o, err := svc.CreateOrder(ctx, "user_1", validOrderRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.TotalAmount != 33000 || row.TotalAmount != 33000 {
		t.Fatalf("expected total 33000, got %v", o.TotalAmount)
	}
	if len(items) != 2 || items[0].Price != 30000 || !items[0].SelectedSet || items[1].Price != 1500 {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].OrderID != o.ID {
		t.Fatalf("items not linked to order %s", o.ID)
	}
	if o.Status != models.StatusNew || o.PaymentStatus != models.PaymentPending {
		t.Fatalf("unexpected status %s/%s", o.Status, o.PaymentStatus)
	}
	if len(o.Items) != 2 || o.Items[0].Product == nil || o.Items[0].Product.Name != "Bed" {
		t.Fatalf("expected items with products, got %+v", o.Items)
	}
}

func TestCreateOrderIgnoresSetFlagWithoutSetOption(t *testing.T) {
	var items []store.OrderItemRow
	var row store.OrderRow
	svc := newTestService(orderStore(&items, &row), nil)
	req := validOrderRequest()
	req.Items = []models.LineItem{{ProductID: "chair", Quantity: 1, SelectedSet: true}}
	if _, err := svc.CreateOrder(ctx, "u", req); err != nil {
		t.Fatal(err)
	}
	if items[0].SelectedSet || items[0].Price != 1500 {
		t.Fatalf("unexpected item %+v", items[0])
	}
}

func TestCreateOrderValidation(t *testing.T) {
	var items []store.OrderItemRow
	var row store.OrderRow
	svc := newTestService(orderStore(&items, &row), nil)

	mutations := map[string]func(r *models.CreateOrderRequest){
		"pincode leading zero": func(r *models.CreateOrderRequest) { r.Pincode = "012345" },
		"pincode short":        func(r *models.CreateOrderRequest) { r.Pincode = "40001" },
		"no items":             func(r *models.CreateOrderRequest) { r.Items = nil },
		"zero quantity":        func(r *models.CreateOrderRequest) { r.Items[0].Quantity = 0 },
		"no address":           func(r *models.CreateOrderRequest) { r.Address = " " },
		"bad email":            func(r *models.CreateOrderRequest) { r.Email = "nope" },
		"payment method":       func(r *models.CreateOrderRequest) { r.Payment.Method = "card" },
		"unknown product":      func(r *models.CreateOrderRequest) { r.Items[0].ProductID = "ghost" },
	}
	for name, mutate := range mutations {
		req := validOrderRequest()
		mutate(&req)
		_, err := svc.CreateOrder(ctx, "u", req)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
	if _, err := svc.CreateOrder(ctx, "", validOrderRequest()); err == nil {
		t.Errorf("expected error for missing user")
	}
}

func TestCreateOrderPaymentOutcome(t *testing.T) {
	cases := []struct {
		name      string
		valid     bool
		payment   models.PaymentInfo
		want      models.PaymentStatus
		wantError bool
	}{
		{"cod", true, models.PaymentInfo{Method: models.PaymentCOD, Status: models.PaymentPaid}, models.PaymentPending, false},
		{"verified", true, paidWith("order_full"), models.PaymentPaid, false},
		{"bad signature", false, paidWith("order_full"), models.PaymentUnverified, true},
		{"paid less than total", true, paidWith("order_1rupee"), models.PaymentUnverified, true},
		{"gateway order not ours", true, paidWith("order_forged"), models.PaymentUnverified, true},
		{"another user's payment", true, paidWith("order_other"), models.PaymentUnverified, true},
		{"failed", true, models.PaymentInfo{Method: models.PaymentGateway, Status: models.PaymentFailed, Error: "widget failed to load"}, models.PaymentFailed, true},
		{"no status", true, models.PaymentInfo{Method: models.PaymentGateway}, models.PaymentFailed, true},
		{"pending", true, models.PaymentInfo{Method: models.PaymentGateway, Status: models.PaymentPending}, models.PaymentFailed, true},
		{"unknown status", true, models.PaymentInfo{Method: models.PaymentGateway, Status: "captured"}, models.PaymentFailed, true},
	}
	for _, c := range cases {
		var items []store.OrderItemRow
		var row store.OrderRow
		reg := prometheus.NewRegistry()
		svc := newTestService(orderStore(&items, &row), &fakeGateway{valid: c.valid})
		svc.opts.Metrics = metrics.NewServerMetrics(reg)

		req := validOrderRequest()
		req.Payment = c.payment
		o, err := svc.CreateOrder(ctx, "u", req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if o.PaymentStatus != c.want {
			t.Errorf("%s: payment status %s, want %s", c.name, o.PaymentStatus, c.want)
		}
		if row.PaymentError.Valid != c.wantError {
			t.Errorf("%s: payment error %+v", c.name, row.PaymentError)
		}
		got := testutil.ToFloat64(svc.opts.Metrics.Orders.WithLabelValues(string(c.payment.Method), string(c.want)))
		if got != 1 {
			t.Errorf("%s: expected order counter 1, got %v", c.name, got)
		}
	}
}

func TestCreateOrderPaymentProofUsedOnce(t *testing.T) {
	var items []store.OrderItemRow
	var row store.OrderRow
	fs := orderStore(&items, &row)
	// stands in for the unique index on paid payment references
	paidRefs := map[string]bool{}
	fs.CreateOrderFn = func(o store.OrderRow, its []store.OrderItemRow) (store.OrderRow, error) {
		if o.PaymentStatus == string(models.PaymentPaid) {
			if paidRefs[o.PaymentRef.String] {
				return store.OrderRow{}, store.ErrPaymentReused
			}
			paidRefs[o.PaymentRef.String] = true
		}
		return o, nil
	}
	svc := newTestService(fs, &fakeGateway{valid: true})

	req := validOrderRequest()
	req.Payment = paidWith("order_full")
	o, err := svc.CreateOrder(ctx, "u", req)
	if err != nil || o.PaymentStatus != models.PaymentPaid {
		t.Fatalf("first order: %v %s", err, o.PaymentStatus)
	}
	if _, err := svc.CreateOrder(ctx, "u", req); !errors.Is(err, store.ErrPaymentReused) {
		t.Fatalf("expected reused payment to be rejected, got %v", err)
	}
}

func TestCreateOrderPaymentLookupError(t *testing.T) {
	var items []store.OrderItemRow
	var row store.OrderRow
	fs := orderStore(&items, &row)
	fs.GetPaymentOrderFn = func(string) (store.PaymentOrderRow, error) {
		return store.PaymentOrderRow{}, errors.New("db down")
	}
	svc := newTestService(fs, &fakeGateway{valid: true})
	req := validOrderRequest()
	req.Payment = paidWith("order_full")
	if _, err := svc.CreateOrder(ctx, "u", req); err == nil {
		t.Fatalf("expected lookup error")
	}
	if row.ID != "" {
		t.Fatalf("order must not be stored")
	}
}

func TestCreateOrderStoreErrorPropagates(t *testing.T) {
	var items []store.OrderItemRow
	var row store.OrderRow
	fs := orderStore(&items, &row)
	fs.CreateOrderFn = func(store.OrderRow, []store.OrderItemRow) (store.OrderRow, error) {
		return store.OrderRow{}, store.ErrInsufficientStock
	}
	svc := newTestService(fs, nil)
	if _, err := svc.CreateOrder(ctx, "u", validOrderRequest()); !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
}

func TestListOrdersAttachesItems(t *testing.T) {
	svc := newTestService(&fakeStore{
		ListOrdersFn: func() ([]store.OrderRow, error) {
			return []store.OrderRow{{ID: "o2", Status: "new"}, {ID: "o1", Status: "delivered"}}, nil
		},
		ListOrderItemsFn: func(ids []string) ([]store.OrderItemRow, error) {
			if !reflect.DeepEqual(ids, []string{"o2", "o1"}) {
				t.Fatalf("unexpected ids %v", ids)
			}
			return []store.OrderItemRow{
				{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 1, ProductName: sql.NullString{String: "Bed", Valid: true}},
				{ID: "i2", OrderID: "o1", ProductID: "", Quantity: 2},
			}, nil
		},
	}, nil)

	out, err := svc.ListOrders(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0].ID != "o2" {
		t.Fatalf("unexpected orders %+v", out)
	}
	if out[0].Items == nil || len(out[0].Items) != 0 {
		t.Fatalf("expected empty non-nil items for o2")
	}
	if len(out[1].Items) != 2 || out[1].Items[0].Product.Name != "Bed" || out[1].Items[1].Product != nil {
		t.Fatalf("unexpected items %+v", out[1].Items)
	}
}

func TestGetOrderOwnership(t *testing.T) {
	fs := &fakeStore{
		GetOrderFn: func(id string) (store.OrderRow, error) {
			if id != "o1" {
				return store.OrderRow{}, store.ErrNotFound
			}
			return store.OrderRow{ID: "o1", UserID: "owner"}, nil
		},
		ListOrderItemsFn: func([]string) ([]store.OrderItemRow, error) { return nil, nil },
		GetUserFn: func(id string) (store.UserRow, error) {
			switch id {
			case "admin":
				return store.UserRow{ID: id, IsAdmin: true}, nil
			case "other":
				return store.UserRow{ID: id}, nil
			}
			return store.UserRow{}, store.ErrNotFound
		},
	}
	svc := newTestService(fs, nil)

	if _, err := svc.GetOrder(ctx, "o1", "owner"); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if _, err := svc.GetOrder(ctx, "o1", "admin"); err != nil {
		t.Fatalf("admin: %v", err)
	}
	if _, err := svc.GetOrder(ctx, "o1", "other"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other: expected forbidden, got %v", err)
	}
	if _, err := svc.GetOrder(ctx, "o1", "stranger"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger: expected forbidden, got %v", err)
	}
	if _, err := svc.GetOrder(ctx, "missing", "owner"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	var gotStatus string
	fs := &fakeStore{
		UpdateOrderStatusFn: func(id, status string) error {
			gotStatus = status
			return nil
		},
		GetOrderFn: func(id string) (store.OrderRow, error) {
			return store.OrderRow{ID: id, Status: gotStatus}, nil
		},
		ListOrderItemsFn: func([]string) ([]store.OrderItemRow, error) { return nil, nil },
	}
	svc := newTestService(fs, nil)

	if _, err := svc.UpdateOrderStatus(ctx, "o1", "shipped"); err == nil {
		t.Fatalf("expected error for label instead of code")
	}
	o, err := svc.UpdateOrderStatus(ctx, "o1", models.StatusDispatched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotStatus != "dispatched" || o.Status != models.StatusDispatched {
		t.Fatalf("unexpected status %q / %q", gotStatus, o.Status)
	}

	fs.UpdateOrderStatusFn = func(string, string) error { return store.ErrOrderClosed }
	if _, err := svc.UpdateOrderStatus(ctx, "o1", models.StatusNew); !errors.Is(err, store.ErrOrderClosed) {
		t.Fatalf("expected order closed, got %v", err)
	}
}

// ---- Users ----

func TestSyncUser(t *testing.T) {
	var got store.UserRow
	svc := newTestService(&fakeStore{
		UpsertUserFn: func(u store.UserRow) (store.UserRow, error) {
			got = u
			return u, nil
		},
	}, nil)

	if _, err := svc.SyncUser(ctx, "user_1", models.SyncUserRequest{ClerkID: "user_2", Email: "a@b.c"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for foreign id, got %v", err)
	}
	if _, err := svc.SyncUser(ctx, "user_1", models.SyncUserRequest{Email: "nope"}); err == nil {
		t.Fatalf("expected validation error for email")
	}
	u, err := svc.SyncUser(ctx, "user_1", models.SyncUserRequest{Email: "a@b.c", FullName: " Asha ", PhoneNumber: "99"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "user_1" || got.FullName != "Asha" || u.Phone != "99" || u.IsAdmin {
		t.Fatalf("unexpected user %+v / %+v", got, u)
	}
}

func TestIsAdmin(t *testing.T) {
	svc := newTestService(&fakeStore{
		GetUserFn: func(id string) (store.UserRow, error) {
			switch id {
			case "admin":
				return store.UserRow{IsAdmin: true}, nil
			case "broken":
				return store.UserRow{}, errors.New("db down")
			}
			return store.UserRow{}, store.ErrNotFound
		},
	}, nil)

	if ok, err := svc.IsAdmin(ctx, "admin"); !ok || err != nil {
		t.Fatalf("admin: %v %v", ok, err)
	}
	if ok, err := svc.IsAdmin(ctx, "nobody"); ok || err != nil {
		t.Fatalf("nobody: %v %v", ok, err)
	}
	if ok, _ := svc.IsAdmin(ctx, ""); ok {
		t.Fatalf("empty user must not be admin")
	}
	if _, err := svc.IsAdmin(ctx, "broken"); err == nil {
		t.Fatalf("expected store error")
	}
}

// ---- Dashboard ----

func TestDashboardStats(t *testing.T) {
	svc := newTestService(&fakeStore{
		DashboardCountsFn: func(monthStart, prevMonthStart time.Time) (store.DashboardRow, error) {
			if !monthStart.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) || !prevMonthStart.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected window %v %v", monthStart, prevMonthStart)
			}
			return store.DashboardRow{
				TotalInventory: 40, PendingOrders: 2, TotalCustomers: 7,
				TotalOrders: 4, CompletedOrders: 1, TotalRevenue: 1000,
				RevenueThisMonth: 300, RevenueLastMonth: 200,
				OrdersThisMonth: 3, OrdersLastMonth: 0,
				CustomersThisMonth: 0, CustomersLastMonth: 0,
			}, nil
		},
	}, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }

	st, err := svc.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.DashboardStats{
		TotalInventory: 40, PendingOrders: 2, TotalCustomers: 7, MonthlyRevenue: 300,
		TotalOrders: 4, CompletedOrders: 1, AverageOrderValue: 250,
		RevenueGrowth: 50, OrderGrowth: 100, CustomerGrowth: 0,
	}
	if st != want {
		t.Fatalf("got %+v, want %+v", st, want)
	}
}

func TestGrowth(t *testing.T) {
	cases := []struct{ cur, prev, want float64 }{
		{0, 0, 0},
		{5, 0, 100},
		{150, 100, 50},
		{50, 100, -50},
		{1, 3, -66.7},
	}
	for _, c := range cases {
		if got := growth(c.cur, c.prev); got != c.want {
			t.Errorf("growth(%v, %v) = %v, want %v", c.cur, c.prev, got, c.want)
		}
	}
}

func TestRecentOrdersAndLowStockDefaults(t *testing.T) {
	svc := newTestService(&fakeStore{
		RecentOrdersFn: func(limit int) ([]store.RecentOrderRow, error) {
			if limit != 4 {
				t.Fatalf("expected default limit 4, got %d", limit)
			}
			return []store.RecentOrderRow{
				{ID: "o1", CustomerName: "Asha", FirstProduct: "Bed", Status: "dispatched", TotalAmount: 10},
				{ID: "o2", CustomerName: "Ravi", Status: "new"},
			}, nil
		},
		LowStockFn: func(threshold, limit int) ([]store.LowStockRow, error) {
			if threshold != 5 || limit != 3 {
				t.Fatalf("unexpected threshold/limit %d/%d", threshold, limit)
			}
			return []store.LowStockRow{{Name: "Chair", Stock: 1}}, nil
		},
	}, nil)

	recent, err := svc.RecentOrders(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if recent[0].Status != "Shipped" || recent[1].Product != "Unknown Product" {
		t.Fatalf("unexpected recent orders %+v", recent)
	}
	low, err := svc.LowStock(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) != 1 || low[0].Threshold != 5 {
		t.Fatalf("unexpected low stock %+v", low)
	}
}

// ---- Payments and uploads ----

func TestPayments(t *testing.T) {
	svc := newTestService(&fakeStore{}, nil)
	if _, err := svc.CreatePaymentOrder(ctx, "u", 10, ""); !errors.Is(err, ErrPaymentsDisabled) {
		t.Fatalf("expected payments disabled, got %v", err)
	}

	var saved store.PaymentOrderRow
	fs := &fakeStore{SavePaymentOrderFn: func(p store.PaymentOrderRow) (store.PaymentOrderRow, error) {
		saved = p
		return p, nil
	}}
	gw := &fakeGateway{valid: true, order: models.PaymentOrder{ID: "order_1", Currency: "INR"}}
	svc = newTestService(fs, gw)
	if _, err := svc.CreatePaymentOrder(ctx, "u", 0, ""); err == nil {
		t.Fatalf("expected error for zero amount")
	}
	if _, err := svc.CreatePaymentOrder(ctx, "", 10, ""); err == nil {
		t.Fatalf("expected error for missing user")
	}
	po, err := svc.CreatePaymentOrder(ctx, "u", 1499.99, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if po.Amount != 149999 || !strings.HasPrefix(po.Receipt, "rcpt_") {
		t.Fatalf("unexpected payment order %+v", po)
	}
	want := store.PaymentOrderRow{ID: "order_1", UserID: "u", AmountMinor: 149999, Currency: "INR", Receipt: po.Receipt}
	if saved != want {
		t.Fatalf("recorded %+v, want %+v", saved, want)
	}

	fs.SavePaymentOrderFn = func(store.PaymentOrderRow) (store.PaymentOrderRow, error) {
		return store.PaymentOrderRow{}, errors.New("db down")
	}
	if _, err := svc.CreatePaymentOrder(ctx, "u", 10, ""); err == nil {
		t.Fatalf("expected an unrecorded payment order to fail")
	}

	if res := svc.VerifyPayment(models.VerifyPaymentRequest{OrderID: "o"}); res.Verified {
		t.Fatalf("expected missing fields to fail")
	}
	if res := svc.VerifyPayment(models.VerifyPaymentRequest{OrderID: "o", PaymentID: "p", Signature: "s"}); !res.Verified {
		t.Fatalf("expected verification to pass")
	}
	gw.valid = false
	if res := svc.VerifyPayment(models.VerifyPaymentRequest{OrderID: "o", PaymentID: "p", Signature: "s"}); res.Verified {
		t.Fatalf("expected verification to fail")
	}
}

func TestSaveUpload(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(&fakeStore{}, nil)
	svc.opts.UploadDir = dir
	svc.opts.PublicBaseURL = "http://localhost:5000/"

	if _, err := svc.SaveUpload("evil.exe", bytes.NewReader([]byte("x"))); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
	url, err := svc.SaveUpload("Sofa.JPG", bytes.NewReader([]byte("image-bytes")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "http://localhost:5000/uploads/id-1.jpg" {
		t.Fatalf("unexpected url %s", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "id-1.jpg"))
	if err != nil || string(data) != "image-bytes" {
		t.Fatalf("file not stored: %v %q", err, data)
	}
}
