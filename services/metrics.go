package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intel",
			Name:      "analyses_total",
			Help:      "Total analysis invocations by mode and outcome",
		},
		[]string{"mode", "status"},
	)

	analysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "intel",
			Name:      "analysis_duration_seconds",
			Help:      "Wall-clock duration of engine runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"mode"},
	)

	malformedItemsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "intel",
			Name:      "malformed_items_total",
			Help:      "Content items recovered with default values during normalisation",
		},
	)

	recommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intel",
			Name:      "recommendations_total",
			Help:      "Recommendations generated by type",
		},
		[]string{"type"},
	)

	persistFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "intel",
			Name:      "persist_failures_total",
			Help:      "Analysis results that could not be persisted after retries",
		},
	)
)
