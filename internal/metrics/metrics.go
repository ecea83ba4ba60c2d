package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timebook_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timebook_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	InvoicesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timebook_invoices_created_total",
			Help: "Honorarnoten created since process start.",
		},
	)

	InvoicesCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timebook_invoices_cancelled_total",
			Help: "Honorarnoten cancelled since process start.",
		},
	)
)
