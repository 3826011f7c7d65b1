package conditions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relationkit/rebac/pkg/conditions"
	"github.com/relationkit/rebac/pkg/rebac"
	"github.com/relationkit/rebac/storage/memory"
)

// mergingPredicate reports whether "allow" is truthy in the merged
// context, letting tests observe tuple-context vs. request-context
// overlay without pulling in the CEL compiler.
type mergingPredicate struct{}

func (mergingPredicate) Eval(merged map[string]any) (bool, error) {
	v, _ := merged["allow"].(bool)
	return v, nil
}

type stubCompiler struct{}

func (stubCompiler) Compile(string) (conditions.Predicate, error) {
	return mergingPredicate{}, nil
}

func TestEvaluator_Satisfied_NoCondition(t *testing.T) {
	store := memory.New()
	evaluator := conditions.NewEvaluator(store, conditions.NewPredicateCache(stubCompiler{}, 0))

	ok, err := evaluator.Satisfied(context.Background(), rebac.Tuple{}, nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvaluator_Satisfied_UnknownCondition(t *testing.T) {
	store := memory.New()
	evaluator := conditions.NewEvaluator(store, conditions.NewPredicateCache(stubCompiler{}, 0))

	_, err := evaluator.Satisfied(context.Background(), rebac.Tuple{ConditionName: "missing"}, nil)

	var notFound *rebac.ConditionNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestEvaluator_Satisfied_RequestContextOverridesTupleContext(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.WriteConditionDefinition(ctx, rebac.ConditionDefinition{
		Name:       "allow_flag",
		Expression: "allow",
	}))

	evaluator := conditions.NewEvaluator(store, conditions.NewPredicateCache(stubCompiler{}, 0))

	t1 := rebac.Tuple{
		ConditionName:    "allow_flag",
		ConditionContext: map[string]any{"allow": false},
	}

	ok, err := evaluator.Satisfied(ctx, t1, map[string]any{"allow": true})
	require.NoError(t, err)
	require.True(t, ok, "request context must override tuple context")

	ok, err = evaluator.Satisfied(ctx, t1, nil)
	require.NoError(t, err)
	require.False(t, ok, "tuple context alone keeps allow=false")
}
