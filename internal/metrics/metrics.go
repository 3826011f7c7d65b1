// Package metrics defines the prometheus collectors the check
// evaluator and condition evaluator report against, grounded on the
// promauto.NewCounter usage in the teacher's pkg/storage/hedger/hedger.go.
// The hedged store registers its own counters in storage/hedger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChecksTotal counts every top-level Check call by outcome.
	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rebac",
		Subsystem: "check",
		Name:      "requests_total",
		Help:      "Total number of Check requests, labeled by outcome (allowed, denied, error).",
	}, []string{"outcome"})

	// DepthExhaustedTotal counts arms that terminated by hitting MaxDepth
	// rather than by resolving a concrete tuple.
	DepthExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rebac",
		Subsystem: "check",
		Name:      "depth_exhausted_total",
		Help:      "Number of recursive check arms that terminated due to MaxDepth rather than a concrete result.",
	})

	// ConditionEvaluationsTotal counts condition predicate invocations by
	// result (satisfied, unsatisfied, error).
	ConditionEvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rebac",
		Subsystem: "conditions",
		Name:      "evaluations_total",
		Help:      "Total number of condition predicate evaluations, labeled by result.",
	}, []string{"result"})
)
