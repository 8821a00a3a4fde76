package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics groups the counters the checkout pipeline reports.
type CheckoutMetrics struct {
	// GateBlocks counts validation-gate failures by prompt kind.
	GateBlocks *prometheus.CounterVec
	// Submissions counts order submissions by outcome (completed/failed).
	Submissions *prometheus.CounterVec
	// SubmitLatencyMS observes order-creation call latency in milliseconds.
	SubmitLatencyMS prometheus.Histogram
}

// NewCheckoutMetrics registers and returns the checkout metric set.
func NewCheckoutMetrics(service string) *CheckoutMetrics {
	blocks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swifteats",
		Subsystem: service,
		Name:      "gate_blocks_total",
		Help:      "Validation gate blocks by prompt kind.",
	}, []string{"prompt"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swifteats",
		Subsystem: service,
		Name:      "order_submissions_total",
		Help:      "Order submissions by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "swifteats",
		Subsystem: service,
		Name:      "order_submit_duration_ms",
		Help:      "Order-creation call latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	prometheus.MustRegister(blocks, submissions, latency)
	return &CheckoutMetrics{
		GateBlocks:      blocks,
		Submissions:     submissions,
		SubmitLatencyMS: latency,
	}
}

// Handler exposes the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
