package hedger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relationkit/rebac/pkg/rebac"
	"github.com/relationkit/rebac/storage/hedger"
	"github.com/relationkit/rebac/storage/memory"
)

func TestBoundedQuantileApproximator_TracksObservations(t *testing.T) {
	approximator := hedger.NewBoundedQuantileApproximator(100)

	for i := 0; i < 50; i++ {
		approximator.Add(0.05, 1)
	}

	// The seeded 20ms sample plus fifty 50ms samples should put the
	// median well above the initial threshold.
	require.Greater(t, approximator.Quantile(0.5), 0.02)
}

func TestStore_PassesThroughToUnderlyingStore(t *testing.T) {
	ctx := context.Background()
	base := memory.New()
	store := hedger.New(base, 0.99)

	require.NoError(t, base.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "document",
		Relation:                "viewer",
		DirectlyAssignableTypes: []string{"user"},
	}))
	require.NoError(t, base.AddTuple(ctx, rebac.Tuple{
		ObjectType: "document", ObjectID: "memo", Relation: "viewer",
		SubjectType: "user", SubjectID: "iris",
	}))

	found, err := store.FindDirectTuple(ctx, "document", "memo", "viewer", "user", "iris")
	require.NoError(t, err)
	require.NotNil(t, found)

	config, err := store.FindRelationConfig(ctx, "document", "viewer")
	require.NoError(t, err)
	require.NotNil(t, config)

	usersets, err := store.FindUsersetTuples(ctx, "document", "memo", "viewer")
	require.NoError(t, err)
	require.Empty(t, usersets)

	// AddTuple/WriteConditionDefinition are inherited, unhedged, directly
	// from the embedded rebac.Store.
	require.NoError(t, store.WriteConditionDefinition(ctx, rebac.ConditionDefinition{Name: "x", Expression: "true"}))
}
