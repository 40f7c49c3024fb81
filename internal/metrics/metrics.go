// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AdmissionDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindspace_admission_decisions_total",
		Help: "Admission gate decisions by gate and outcome.",
	}, []string{"gate", "outcome"})

	InsightResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindspace_insight_results_total",
		Help: "Insight generations by variant and outcome (success, fallback, skipped).",
	}, []string{"variant", "outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mindspace_upstream_duration_seconds",
		Help:    "Latency of calls to upstream collaborators.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collaborator"})
)
