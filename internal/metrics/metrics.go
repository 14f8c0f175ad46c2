// Package metrics exposes Prometheus instrumentation for the recognition
// engine. Embedding applications register these collectors by importing the
// package; the default registry is used so an existing /metrics endpoint
// picks them up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RuleReloads counts rule set loads by dimension and outcome
	// (success, failure, stale_served).
	RuleReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wrench_rule_reloads_total",
		Help: "Rule set reloads by dimension and outcome",
	}, []string{"dimension", "outcome"})

	// RuleSetSize reports the number of active keywords in the current
	// snapshot per dimension.
	RuleSetSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wrench_ruleset_keywords",
		Help: "Active keywords in the current rule set snapshot",
	}, []string{"dimension"})

	// Analyses counts completed analyses.
	Analyses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wrench_analyses_total",
		Help: "Completed description analyses",
	})

	// AnalysisDuration observes end-to-end analysis latency.
	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wrench_analysis_duration_seconds",
		Help:    "End-to-end analysis duration",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	})
)

// Reload outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomeStaleServed = "stale_served"
)
