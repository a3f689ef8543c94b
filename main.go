package main

// Furnisure API. Everything below is mounted under /api.
//
// GET    /products, /products/search?q=, /products/{id}     - public catalog
// POST   /products, PUT|DELETE /products/{id}, PUT /products/{id}/stock - admin
// POST   /orders, GET /orders/{id}                          - customer
// GET    /orders, PUT /orders/{id}/status                   - admin
// GET    /auth/profile, /auth/profile/orders, POST /auth/users/sync
// GET    /admin/customers, /admin/dashboard/{stats,recent-orders,low-stock}
// POST   /payments/order, /payments/verify
// POST   /upload (admin, multipart)
// GET    /metrics and /uploads/{name} are served outside /api

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"furnisure/config"
	"furnisure/handler"
	"furnisure/logging"
	"furnisure/metrics"
	"furnisure/payment"
	"furnisure/service"
	"furnisure/store"
)

//go:embed migrations.sql
var migrationSQL string

func main() {
	configPath := flag.String("c", "", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	flush, err := logging.Init(cfg.Logger)
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer flush()

	if err := run(cfg); err != nil {
		zap.S().Errorw("server stopped", "error", err)
		flush()
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig) error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (JWT_SECRET) is required")
	}

	// --- Store ---
	st, err := store.NewPostgresStore(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer st.Close()
	st.DB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	st.DB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// --- Migrations ---
	if cfg.Database.Migrate {
		if _, err := st.DB.Exec(migrationSQL); err != nil {
			return err
		}
		zap.S().Info("database migrations executed")
	}

	// --- Payment gateway ---
	var gw payment.Gateway
	if cfg.Payment.KeyID != "" && cfg.Payment.KeySecret != "" {
		gw = payment.NewRazorpayGateway(cfg.Payment.KeyID, cfg.Payment.KeySecret, cfg.Payment.APIURL, cfg.Payment.Currency)
	} else {
		zap.S().Warn("payment gateway keys not set, gateway checkout disabled")
	}

	// --- Service ---
	m := metrics.NewServerMetrics(prometheus.DefaultRegisterer)
	svc := service.NewService(st, gw, service.Options{
		LowStockThreshold: cfg.Dashboard.LowStockThreshold,
		UploadDir:         cfg.Web.UploadDir,
		PublicBaseURL:     cfg.Web.PublicBaseURL,
		Metrics:           m,
	})
	var serviceInterface service.ServiceInterface = svc

	// --- Handlers ---
	h := handler.NewHandler(serviceInterface, handler.Options{
		JWTSecret:   cfg.Auth.JWTSecret,
		Metrics:     m,
		MaxUploadMB: cfg.Web.MaxUploadMB,
	})

	// --- Router ---
	r := mux.NewRouter()
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.PathPrefix("/uploads/").Handler(handler.Uploads(cfg.Web.UploadDir)).Methods("GET")
	h.RegisterRoutes(r.PathPrefix("/api").Subrouter())

	// --- Server ---
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		zap.S().Infow("server running", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	zap.S().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
