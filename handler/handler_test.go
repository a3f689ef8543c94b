package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"furnisure/metrics"
	models "furnisure/model"
	"furnisure/service"
	"furnisure/store"
)

const testSecret = "test-secret"

// fakeService embeds the interface so tests only implement what they hit.
type fakeService struct {
	service.ServiceInterface

	admins      map[string]bool
	products    []models.Product
	createErr   error
	orderErr    error
	lastUser    string
	lastStatus  models.OrderStatus
	lastLimit   int
	uploadedAs  string
	uploadBytes []byte
	payUser     string
}

func (f *fakeService) IsAdmin(_ context.Context, userID string) (bool, error) {
	return f.admins[userID], nil
}

func (f *fakeService) ListProducts(context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeService) GetProduct(_ context.Context, id string) (models.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, store.ErrNotFound
}

func (f *fakeService) CreateProduct(_ context.Context, in models.ProductInput) (models.Product, error) {
	if f.createErr != nil {
		return models.Product{}, f.createErr
	}
	var p models.Product
	in.Apply(&p)
	p.ID = "p-new"
	return p, nil
}

func (f *fakeService) CreateOrder(_ context.Context, userID string, req models.CreateOrderRequest) (models.Order, error) {
	f.lastUser = userID
	if f.orderErr != nil {
		return models.Order{}, f.orderErr
	}
	return models.Order{ID: "o1", UserID: userID, Status: models.StatusNew}, nil
}

func (f *fakeService) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus) (models.Order, error) {
	f.lastStatus = status
	return models.Order{ID: id, Status: status}, nil
}

func (f *fakeService) RecentOrders(_ context.Context, limit int) ([]models.RecentOrder, error) {
	f.lastLimit = limit
	return []models.RecentOrder{}, nil
}

func (f *fakeService) CreatePaymentOrder(_ context.Context, userID string, amount float64, receipt string) (models.PaymentOrder, error) {
	f.payUser = userID
	return models.PaymentOrder{ID: "order_1", Amount: int64(amount * 100), Currency: "INR"}, nil
}

func (f *fakeService) SaveUpload(filename string, r io.Reader) (string, error) {
	f.uploadedAs = filename
	f.uploadBytes, _ = io.ReadAll(r)
	return "http://cdn/uploads/x.png", nil
}

func token(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + s
}

func setup(f *fakeService) (*mux.Router, *metrics.ServerMetrics) {
	m := metrics.NewServerMetrics(prometheus.NewRegistry())
	r := mux.NewRouter()
	NewHandler(f, Options{JWTSecret: testSecret, Metrics: m}).RegisterRoutes(r)
	return r, m
}

func do(r http.Handler, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListProductsIsPublic(t *testing.T) {
	r, m := setup(&fakeService{products: []models.Product{{ID: "p1", Name: "Bed"}}})
	rec := do(r, "GET", "/products", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out []models.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || len(out) != 1 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("/products", "200")); got != 1 {
		t.Fatalf("expected request counter 1, got %v", got)
	}
}

func TestGetProductNotFound(t *testing.T) {
	r, _ := setup(&fakeService{})
	if rec := do(r, "GET", "/products/nope", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireServerSideAdmin(t *testing.T) {
	f := &fakeService{admins: map[string]bool{"boss": true}}
	r, _ := setup(f)
	body := models.ProductInput{Name: "Sofa", Price: 100}

	if rec := do(r, "POST", "/products", "", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}
	if rec := do(r, "POST", "/products", "Bearer garbage", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", rec.Code)
	}
	if rec := do(r, "POST", "/products", token(t, "customer"), body); rec.Code != http.StatusForbidden {
		t.Fatalf("customer: expected 403, got %d", rec.Code)
	}
	rec := do(r, "POST", "/products", token(t, "boss"), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWrongSigningKeyRejected(t *testing.T) {
	r, _ := setup(&fakeService{})
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	s, _ := tok.SignedString([]byte("other-secret"))
	if rec := do(r, "GET", "/auth/profile", "Bearer "+s, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateProductValidationMapsTo400(t *testing.T) {
	f := &fakeService{admins: map[string]bool{"boss": true}, createErr: &service.ValidationError{Field: "name", Msg: "name required"}}
	r, _ := setup(f)
	rec := do(r, "POST", "/products", token(t, "boss"), models.ProductInput{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateOrderUsesTokenSubject(t *testing.T) {
	f := &fakeService{}
	r, _ := setup(f)
	rec := do(r, "POST", "/orders", token(t, "user_42"), models.CreateOrderRequest{Pincode: "400001"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if f.lastUser != "user_42" {
		t.Fatalf("expected user from token, got %q", f.lastUser)
	}
}

func TestCreateOrderErrorCodes(t *testing.T) {
	cases := map[error]int{
		store.ErrInsufficientStock:                               http.StatusConflict,
		&service.ValidationError{Field: "pincode"}:               http.StatusBadRequest,
		errors.New("connection reset"):                           http.StatusInternalServerError,
		errors.Join(store.ErrNotFound, errors.New("x")):          http.StatusNotFound,
		errors.Join(store.ErrPaymentReused, errors.New("pay_1")): http.StatusConflict,
	}
	for err, want := range cases {
		r, _ := setup(&fakeService{orderErr: err})
		if rec := do(r, "POST", "/orders", token(t, "u"), models.CreateOrderRequest{}); rec.Code != want {
			t.Errorf("%v: expected %d, got %d", err, want, rec.Code)
		}
	}
}

func TestPaymentOrderIsBoundToCaller(t *testing.T) {
	f := &fakeService{}
	r, _ := setup(f)
	rec := do(r, "POST", "/payments/order", token(t, "user_7"), map[string]float64{"amount": 330})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if f.payUser != "user_7" {
		t.Fatalf("expected payment order for token subject, got %q", f.payUser)
	}
	if rec := do(r, "POST", "/payments/order", "", map[string]float64{"amount": 330}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestInvalidJSON(t *testing.T) {
	r, _ := setup(&fakeService{})
	req := httptest.NewRequest("POST", "/orders", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", token(t, "u"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	f := &fakeService{admins: map[string]bool{"boss": true}}
	r, _ := setup(f)
	rec := do(r, "PUT", "/orders/o1/status", token(t, "boss"), map[string]string{"status": "dispatched"})
	if rec.Code != http.StatusOK || f.lastStatus != models.StatusDispatched {
		t.Fatalf("unexpected %d %q", rec.Code, f.lastStatus)
	}
}

func TestRecentOrdersLimit(t *testing.T) {
	f := &fakeService{admins: map[string]bool{"boss": true}}
	r, _ := setup(f)
	for q, want := range map[string]int{"": 0, "?limit=7": 7, "?limit=abc": 0, "?limit=1000": 100} {
		do(r, "GET", "/admin/dashboard/recent-orders"+q, token(t, "boss"), nil)
		if f.lastLimit != want {
			t.Errorf("%q: expected limit %d, got %d", q, want, f.lastLimit)
		}
	}
}

func TestUpload(t *testing.T) {
	f := &fakeService{admins: map[string]bool{"boss": true}}
	r, _ := setup(f)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "chair.png")
	part.Write([]byte("png-bytes"))
	mw.Close()

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", token(t, "boss"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var out map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out["url"] != "http://cdn/uploads/x.png" || f.uploadedAs != "chair.png" || string(f.uploadBytes) != "png-bytes" {
		t.Fatalf("unexpected upload result %v %q %q", out, f.uploadedAs, f.uploadBytes)
	}
}
