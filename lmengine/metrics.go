package lmengine

import "github.com/prometheus/client_golang/prometheus"

// Package-level Prometheus collectors, registered once via init: a small
// set of package-level Counter/CounterVec/Histogram instances rather than
// an injected registry per call.
var (
	iterationsHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lmfit",
		Subsystem: "engine",
		Name:      "iterations_to_terminal_state",
		Help:      "Number of LM iterations a chunk ran before every fit in it reached a terminal state.",
		Buckets:   prometheus.LinearBuckets(1, 5, 20),
	})

	terminalStateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lmfit",
		Subsystem: "engine",
		Name:      "terminal_state_total",
		Help:      "Count of fits reaching each terminal state.",
	}, []string{"state"})

	chunksProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lmfit",
		Subsystem: "engine",
		Name:      "chunks_processed_total",
		Help:      "Number of chunks run to completion by the LM driver.",
	})
)

func init() {
	prometheus.MustRegister(iterationsHistogram, terminalStateTotal, chunksProcessedTotal)
}
