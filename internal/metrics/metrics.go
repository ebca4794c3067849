// Package metrics holds the Prometheus collectors for the collection
// lifecycle and the points ledger. They register on the default registry
// served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeLost    = "lost"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// ClaimAttempts counts accept attempts by outcome. "lost" is a collector
// that raced another for the same request.
var ClaimAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "recyclepoints",
	Name:      "claim_attempts_total",
	Help:      "Total accept attempts by outcome.",
}, []string{"outcome"})

// Completions counts complete attempts by outcome.
var Completions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "recyclepoints",
	Name:      "completions_total",
	Help:      "Total complete attempts by outcome.",
}, []string{"outcome"})

// PointsCredited is the running sum of points awarded.
var PointsCredited = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "recyclepoints",
	Name:      "points_credited_total",
	Help:      "Total points credited to donors.",
})

// PointsRedeemed is the running sum of points spent on rewards.
var PointsRedeemed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "recyclepoints",
	Name:      "points_redeemed_total",
	Help:      "Total points debited by redemptions.",
})

// Redemptions counts redeem attempts by outcome.
var Redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "recyclepoints",
	Name:      "redemptions_total",
	Help:      "Total redeem attempts by outcome.",
}, []string{"outcome"})

// Notifications counts notification deliveries by final status.
var Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "recyclepoints",
	Name:      "notifications_total",
	Help:      "Total notifications by delivery status.",
}, []string{"status"})

// TransactionDuration observes unit-of-work latency per operation.
var TransactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "recyclepoints",
	Name:      "transaction_duration_seconds",
	Help:      "Duration of storage transactions by operation.",
	Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
}, []string{"op"})

// ObserveTransaction records the time since start for op.
func ObserveTransaction(op string, start time.Time) {
	TransactionDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
