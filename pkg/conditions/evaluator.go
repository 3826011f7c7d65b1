package conditions

import (
	"context"
	"maps"

	"github.com/relationkit/rebac/internal/metrics"
	"github.com/relationkit/rebac/pkg/rebac"
)

// Evaluator resolves a tuple's optional condition against the store and
// the per-request context, per spec.md §4.2.
type Evaluator struct {
	store rebac.Store
	cache *PredicateCache
}

// NewEvaluator constructs a condition Evaluator.
func NewEvaluator(store rebac.Store, cache *PredicateCache) *Evaluator {
	return &Evaluator{store: store, cache: cache}
}

// Satisfied reports whether t's condition (if any) is met given
// requestContext. A tuple with no ConditionName is always satisfied.
func (e *Evaluator) Satisfied(ctx context.Context, t rebac.Tuple, requestContext map[string]any) (bool, error) {
	if t.ConditionName == "" {
		return true, nil
	}

	result, err := e.satisfied(ctx, t, requestContext)

	switch {
	case err != nil:
		metrics.ConditionEvaluationsTotal.WithLabelValues("error").Inc()
	case result:
		metrics.ConditionEvaluationsTotal.WithLabelValues("satisfied").Inc()
	default:
		metrics.ConditionEvaluationsTotal.WithLabelValues("unsatisfied").Inc()
	}

	return result, err
}

func (e *Evaluator) satisfied(ctx context.Context, t rebac.Tuple, requestContext map[string]any) (bool, error) {
	def, err := e.store.FindConditionDefinition(ctx, t.ConditionName)
	if err != nil {
		return false, err
	}

	if def == nil {
		return false, &rebac.ConditionNotFoundError{Name: t.ConditionName}
	}

	predicate, err := e.cache.Get(def.Name, def.Expression)
	if err != nil {
		return false, &rebac.ConditionEvaluationError{Name: def.Name, Err: err}
	}

	merged := mergeContext(t.ConditionContext, requestContext)

	result, err := predicate.Eval(merged)
	if err != nil {
		return false, &rebac.ConditionEvaluationError{Name: def.Name, Err: err}
	}

	return result, nil
}

// mergeContext overlays requestContext on top of tupleContext: request
// keys win, and the overlay is shallow (spec.md §9 — nested objects are
// replaced wholesale, never deep-merged). Undefined values are never
// inserted.
func mergeContext(tupleContext, requestContext map[string]any) map[string]any {
	merged := make(map[string]any, len(tupleContext)+len(requestContext))

	maps.Copy(merged, tupleContext)
	maps.Copy(merged, requestContext)

	return merged
}
