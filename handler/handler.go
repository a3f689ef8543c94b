package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"furnisure/metrics"
	"furnisure/service"
	"furnisure/store"
)

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc         service.ServiceInterface
	jwtSecret   []byte
	metrics     *metrics.ServerMetrics
	maxUploadMB int64
}

type Options struct {
	JWTSecret   string
	Metrics     *metrics.ServerMetrics
	MaxUploadMB int
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, opts Options) *Handler {
	maxMB := int64(opts.MaxUploadMB)
	if maxMB <= 0 {
		maxMB = 10
	}
	return &Handler{
		svc:         s,
		jwtSecret:   []byte(opts.JWTSecret),
		metrics:     opts.Metrics,
		maxUploadMB: maxMB,
	}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	if h.metrics != nil {
		r.Use(h.instrument)
	}

	// Products
	r.HandleFunc("/products", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/search", h.SearchProducts).Methods("GET")
	r.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
	r.Handle("/products", h.admin(h.CreateProduct)).Methods("POST")
	r.Handle("/products/{id}", h.admin(h.UpdateProduct)).Methods("PUT")
	r.Handle("/products/{id}", h.admin(h.DeleteProduct)).Methods("DELETE")
	r.Handle("/products/{id}/stock", h.admin(h.UpdateStock)).Methods("PUT")

	// Orders
	r.Handle("/orders", h.authed(h.CreateOrder)).Methods("POST")
	r.Handle("/orders", h.admin(h.ListOrders)).Methods("GET")
	r.Handle("/orders/{id}", h.authed(h.GetOrder)).Methods("GET")
	r.Handle("/orders/{id}/status", h.admin(h.UpdateOrderStatus)).Methods("PUT")

	// Auth profile
	r.Handle("/auth/profile", h.authed(h.Profile)).Methods("GET")
	r.Handle("/auth/profile/orders", h.authed(h.ProfileOrders)).Methods("GET")
	r.Handle("/auth/users/sync", h.authed(h.SyncUser)).Methods("POST")

	// Admin
	r.Handle("/admin/customers", h.admin(h.ListCustomers)).Methods("GET")
	r.Handle("/admin/dashboard/stats", h.admin(h.DashboardStats)).Methods("GET")
	r.Handle("/admin/dashboard/recent-orders", h.admin(h.RecentOrders)).Methods("GET")
	r.Handle("/admin/dashboard/low-stock", h.admin(h.LowStock)).Methods("GET")

	// Payments
	r.Handle("/payments/order", h.authed(h.CreatePaymentOrder)).Methods("POST")
	r.Handle("/payments/verify", h.authed(h.VerifyPayment)).Methods("POST")

	// Uploads
	r.Handle("/upload", h.admin(h.Upload)).Methods("POST")
}

// Uploads serves stored upload files; mount it at /uploads/.
func Uploads(dir string) http.Handler {
	return http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeSvcErr maps service and store errors to HTTP codes.
func writeSvcErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeErr(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrForbidden):
		writeErr(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, store.ErrInsufficientStock):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrOrderClosed):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrPaymentReused):
		writeErr(w, http.StatusConflict, "payment already used for another order")
	case errors.Is(err, service.ErrPaymentsDisabled):
		writeErr(w, http.StatusServiceUnavailable, err.Error())
	default:
		zap.S().Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}
