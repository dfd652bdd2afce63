// Package metrics exposes Prometheus collectors for the auth API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors and the registry they live in.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AuthOperations     *prometheus.CounterVec
	ResetEmails        *prometheus.CounterVec
	ResetTokensSwept   prometheus.Counter
	HTTPRequests       *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
}

// New creates a private registry with the Go and process collectors plus
// the application collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		AuthOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authapi_auth_operations_total",
				Help: "Total number of auth operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		ResetEmails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authapi_reset_emails_total",
				Help: "Total number of password reset emails by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		ResetTokensSwept: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "authapi_reset_tokens_swept_total",
				Help: "Total number of expired reset tokens removed by the sweeper",
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authapi_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authapi_http_request_duration_seconds",
				Help:    "HTTP request latency by route and method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}

	registry.MustRegister(
		m.AuthOperations,
		m.ResetEmails,
		m.ResetTokensSwept,
		m.HTTPRequests,
		m.HTTPRequestLatency,
	)

	return m
}

// Registry returns the registry backing the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveAuth counts one auth operation
func (m *Metrics) ObserveAuth(operation, outcome string) {
	if m == nil {
		return
	}
	m.AuthOperations.WithLabelValues(operation, outcome).Inc()
}

// ObserveResetEmail counts one reset email delivery attempt
func (m *Metrics) ObserveResetEmail(provider, outcome string) {
	if m == nil {
		return
	}
	m.ResetEmails.WithLabelValues(provider, outcome).Inc()
}

// ObserveSweep adds the number of tokens removed by one sweep
func (m *Metrics) ObserveSweep(removed int64) {
	if m == nil || removed <= 0 {
		return
	}
	m.ResetTokensSwept.Add(float64(removed))
}

// Middleware records request count and latency labelled by chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.HTTPRequestLatency.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
