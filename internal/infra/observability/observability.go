// Package observability defines the Prometheus metrics for the points
// engine. Metrics are registered via promauto on the default registry and
// served by the API's /metrics endpoint when enabled in config.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TodosFinalized counts finalize calls by resulting status.
	TodosFinalized = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lql",
		Name:      "todos_finalized_total",
		Help:      "To-do finalizations by status.",
	}, []string{"status"})

	// PointsGranted counts points credited through to-do finalization.
	PointsGranted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lql",
		Name:      "points_granted_total",
		Help:      "Points credited to accounts.",
	})

	// PointsSpent counts points debited through reward purchases.
	PointsSpent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lql",
		Name:      "points_spent_total",
		Help:      "Points debited from accounts.",
	})

	// RewardsBought counts successful reward redemptions.
	RewardsBought = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lql",
		Name:      "rewards_bought_total",
		Help:      "Successful reward redemptions.",
	})

	// LedgerEntries tracks the total size of the points ledger.
	LedgerEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lql",
		Name:      "ledger_entries",
		Help:      "Entries in the append-only points ledger.",
	})

	// EvaluatorCalls counts law-evaluator calls by outcome. Failures are
	// swallowed at the diary boundary, so this is the only place they show.
	EvaluatorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lql",
		Subsystem: "evaluator",
		Name:      "calls_total",
		Help:      "Law evaluator calls by outcome (ok, error).",
	}, []string{"outcome"})

	// ImproverCalls counts diary-improver calls by outcome.
	ImproverCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lql",
		Subsystem: "improver",
		Name:      "calls_total",
		Help:      "Diary improver calls by outcome (ok, error).",
	}, []string{"outcome"})
)

// RecordDelta updates the grant/spend counters for a signed point delta.
func RecordDelta(delta int) {
	if delta > 0 {
		PointsGranted.Add(float64(delta))
	} else if delta < 0 {
		PointsSpent.Add(float64(-delta))
	}
}
