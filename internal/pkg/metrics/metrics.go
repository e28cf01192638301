package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AggregationRuns counts aggregation requests by outcome.
	AggregationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_aggregation_runs_total",
		Help: "Number of balance aggregation runs, labelled by outcome.",
	}, []string{"outcome"})

	// AggregationDuration observes how long a full aggregation takes.
	AggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bridge_aggregation_duration_seconds",
		Help:    "Duration of balance aggregation runs.",
		Buckets: prometheus.DefBuckets,
	})

	// VerificationChecks counts verified (entity, resource) pairs by result.
	VerificationChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_verification_checks_total",
		Help: "Number of live contract balance checks, labelled match/mismatch/error.",
	}, []string{"result"})

	// Withdrawals counts executed withdrawal operations by terminal state.
	Withdrawals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_withdrawals_total",
		Help: "Number of withdrawal operations, labelled by terminal state.",
	}, []string{"state"})

	// BatchesSubmitted counts submitted transaction batches by outcome.
	BatchesSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_batches_submitted_total",
		Help: "Number of withdrawal batches submitted, labelled by outcome.",
	}, []string{"outcome"})
)
