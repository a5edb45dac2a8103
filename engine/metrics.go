package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// editsTotal counts SetCell calls by outcome
	editsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridcalc_edits_total",
		Help: "Total cell edits by status",
	}, []string{"status"})

	// recalcCells tracks how many downstream cells each committed edit recomputed
	recalcCells = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridcalc_recalc_cells",
		Help:    "Number of dependent cells recomputed per committed edit",
		Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
	})

	// commitDuration tracks SetCell latency, including SLEEP time
	commitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridcalc_commit_duration_seconds",
		Help:    "SetCell duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12), // 10µs to ~40s
	})
)

func observe(res Result, seconds float64) {
	editsTotal.WithLabelValues(res.Status.Key()).Inc()
	commitDuration.Observe(seconds)
	if res.Status.Committed() {
		recalcCells.Observe(float64(len(res.Recalculated)))
	}
}
