package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
)

// HTTPMetrics records request latency and quantity reconciliation outcomes.
type HTTPMetrics struct {
	duration   *prometheus.HistogramVec
	reconciled *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reconciled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quantity_reconciliations_total",
		Help: "Quantity reconciliations by policy and outcome.",
	}, []string{"policy", "outcome"})
	reg.MustRegister(duration, reconciled)
	return &HTTPMetrics{duration: duration, reconciled: reconciled}
}

// ObserveRequest records one finished request. route is the chi route pattern.
func (h *HTTPMetrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	h.duration.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ObserveReconcile counts a reconciliation; an empty reason means accepted.
func (h *HTTPMetrics) ObserveReconcile(policy string, reason enums.QuantityReason) {
	if h == nil || h.reconciled == nil {
		return
	}
	outcome := "accepted"
	if reason != "" {
		outcome = reason.String()
	}
	h.reconciled.WithLabelValues(normalizeLabel(policy), outcome).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
