package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relationkit/rebac/internal/graph"
	"github.com/relationkit/rebac/pkg/logger"
	"github.com/relationkit/rebac/pkg/rebac"
	"github.com/relationkit/rebac/storage/memory"
)

func TestWriteService_AddTuple_RejectsUnconfiguredRelation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	writer := graph.NewWriteService(store, logger.NewNoopLogger())

	err := writer.AddTuple(ctx, rebac.Tuple{
		ObjectType: "document", ObjectID: "memo", Relation: "viewer",
		SubjectType: "user", SubjectID: "iris",
	})

	var notFound *rebac.RelationConfigNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestWriteService_AddTuple_RejectsDisallowedSubjectType(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	writer := graph.NewWriteService(store, logger.NewNoopLogger())

	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "document",
		Relation:                "viewer",
		DirectlyAssignableTypes: []string{"user"},
	}))

	err := writer.AddTuple(ctx, rebac.Tuple{
		ObjectType: "document", ObjectID: "memo", Relation: "viewer",
		SubjectType: "group", SubjectID: "eng",
	})

	var invalidType *rebac.InvalidSubjectTypeError
	require.ErrorAs(t, err, &invalidType)
}

func TestWriteService_AddTuple_RejectsUsersetWhenNotAllowed(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	writer := graph.NewWriteService(store, logger.NewNoopLogger())

	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "document",
		Relation:                "viewer",
		DirectlyAssignableTypes: []string{"user"},
		AllowsUsersetSubjects:   false,
	}))

	err := writer.AddTuple(ctx, rebac.Tuple{
		ObjectType: "document", ObjectID: "memo", Relation: "viewer",
		SubjectType: "group", SubjectID: "eng", SubjectRelation: "member",
	})

	var usersetNotAllowed *rebac.UsersetNotAllowedError
	require.ErrorAs(t, err, &usersetNotAllowed)
}

func TestWriteService_AddTuple_PersistsValidTuple(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	writer := graph.NewWriteService(store, logger.NewNoopLogger())

	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "document",
		Relation:                "viewer",
		DirectlyAssignableTypes: []string{"user"},
	}))

	t1 := rebac.Tuple{
		ObjectType: "document", ObjectID: "memo", Relation: "viewer",
		SubjectType: "user", SubjectID: "iris",
	}
	require.NoError(t, writer.AddTuple(ctx, t1))

	found, err := store.FindDirectTuple(ctx, "document", "memo", "viewer", "user", "iris")
	require.NoError(t, err)
	require.NotNil(t, found)
}

func TestWriteService_AddTuples_CollectsAllFailures(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	writer := graph.NewWriteService(store, logger.NewNoopLogger())

	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "document",
		Relation:                "viewer",
		DirectlyAssignableTypes: []string{"user"},
	}))

	err := writer.AddTuples(ctx, []rebac.Tuple{
		{ObjectType: "document", ObjectID: "memo", Relation: "viewer", SubjectType: "user", SubjectID: "iris"},
		{ObjectType: "document", ObjectID: "memo", Relation: "editor", SubjectType: "user", SubjectID: "jax"},
		{ObjectType: "document", ObjectID: "memo", Relation: "viewer", SubjectType: "group", SubjectID: "eng"},
	})

	require.Error(t, err)
	require.Contains(t, err.Error(), "tuple[1]")
	require.Contains(t, err.Error(), "tuple[2]")
	require.NotContains(t, err.Error(), "tuple[0]")
}
