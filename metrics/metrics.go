package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	Orders    *prometheus.CounterVec
}

// NewServerMetrics registers the API metrics on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "furnisure",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "furnisure",
		Subsystem: "api",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "furnisure",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Orders created, by payment method and payment status.",
	}, []string{"method", "payment_status"})

	reg.MustRegister(requests, latency, orders)
	return &ServerMetrics{Requests: requests, LatencyMS: latency, Orders: orders}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
