package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	celcompiler "github.com/relationkit/rebac/internal/conditions"
	"github.com/relationkit/rebac/internal/graph"
	"github.com/relationkit/rebac/pkg/conditions"
	"github.com/relationkit/rebac/pkg/rebac"
	"github.com/relationkit/rebac/storage/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestChecker(t *testing.T, store rebac.Store) *graph.Checker {
	t.Helper()

	compiler, err := celcompiler.NewCELCompiler()
	require.NoError(t, err)

	cache := conditions.NewPredicateCache(compiler, 0)
	evaluator := conditions.NewEvaluator(store, cache)

	return graph.NewChecker(store, evaluator, 4, nil)
}

// TestCheck_Blocklist models the "blocklist overrides membership"
// scenario: a relation grants access to everyone implied by a parent
// relation except those excluded by a separate "banned" relation.
func TestCheck_Blocklist(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "channel",
		Relation:                "member",
		DirectlyAssignableTypes: []string{"user"},
	}))
	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "channel",
		Relation:                "banned",
		DirectlyAssignableTypes: []string{"user"},
	}))
	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType: "channel",
		Relation:   "can_post",
		ImpliedBy:  []string{"member"},
		ExcludedBy: "banned",
	}))

	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "channel", ObjectID: "general", Relation: "member",
		SubjectType: "user", SubjectID: "anna",
	}))
	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "channel", ObjectID: "general", Relation: "member",
		SubjectType: "user", SubjectID: "bob",
	}))
	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "channel", ObjectID: "general", Relation: "banned",
		SubjectType: "user", SubjectID: "bob",
	}))

	checker := newTestChecker(t, store)

	allowed, err := checker.Check(ctx, rebac.Request{
		ObjectType: "channel", ObjectID: "general", Relation: "can_post",
		SubjectType: "user", SubjectID: "anna",
	}, rebac.Options{})
	require.NoError(t, err)
	require.True(t, allowed, "anna is a member and not banned")

	allowed, err = checker.Check(ctx, rebac.Request{
		ObjectType: "channel", ObjectID: "general", Relation: "can_post",
		SubjectType: "user", SubjectID: "bob",
	}, rebac.Options{})
	require.NoError(t, err)
	require.False(t, allowed, "bob is a member but banned")
}

// TestCheck_RolesAndPermissions models computedUserset: a "viewer"
// relation rewrites to "editor" (every editor is also a viewer).
func TestCheck_RolesAndPermissions(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "document",
		Relation:                "editor",
		DirectlyAssignableTypes: []string{"user"},
	}))
	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:      "document",
		Relation:        "viewer",
		ComputedUserset: "editor",
	}))

	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "document", ObjectID: "roadmap", Relation: "editor",
		SubjectType: "user", SubjectID: "carol",
	}))

	checker := newTestChecker(t, store)

	allowed, err := checker.Check(ctx, rebac.Request{
		ObjectType: "document", ObjectID: "roadmap", Relation: "viewer",
		SubjectType: "user", SubjectID: "carol",
	}, rebac.Options{})
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = checker.Check(ctx, rebac.Request{
		ObjectType: "document", ObjectID: "roadmap", Relation: "viewer",
		SubjectType: "user", SubjectID: "dave",
	}, rebac.Options{})
	require.NoError(t, err)
	require.False(t, allowed)
}

// TestCheck_RecursiveTupleToUserset models a chain of expense reports:
// an "approver" on a parent expense is also the approver of every
// expense that reports to it, recursing through tupleToUserset.
func TestCheck_RecursiveTupleToUserset(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "expense",
		Relation:                "approver",
		DirectlyAssignableTypes: []string{"user"},
		TupleToUserset: &rebac.TupleToUserset{
			Tupleset:        "parent",
			ComputedUserset: "approver",
		},
	}))

	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "expense", ObjectID: "team-budget", Relation: "approver",
		SubjectType: "user", SubjectID: "erin",
	}))
	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "expense", ObjectID: "q3-travel", Relation: "parent",
		SubjectType: "expense", SubjectID: "team-budget",
	}))
	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "expense", ObjectID: "flight-report", Relation: "parent",
		SubjectType: "expense", SubjectID: "q3-travel",
	}))

	checker := newTestChecker(t, store)

	allowed, err := checker.Check(ctx, rebac.Request{
		ObjectType: "expense", ObjectID: "flight-report", Relation: "approver",
		SubjectType: "user", SubjectID: "erin",
	}, rebac.Options{})
	require.NoError(t, err)
	require.True(t, allowed, "approver rights should recurse through two parent hops")

	allowed, err = checker.Check(ctx, rebac.Request{
		ObjectType: "expense", ObjectID: "flight-report", Relation: "approver",
		SubjectType: "user", SubjectID: "frank",
	}, rebac.Options{})
	require.NoError(t, err)
	require.False(t, allowed)
}

// TestCheck_Intersection models requiring both organization membership
// and a specific team grant.
func TestCheck_Intersection(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "project",
		Relation:                "org_member",
		DirectlyAssignableTypes: []string{"user"},
	}))
	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "project",
		Relation:                "team_grant",
		DirectlyAssignableTypes: []string{"user"},
	}))
	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType: "project",
		Relation:   "can_access",
		Intersection: []rebac.IntersectionOperand{
			{Kind: rebac.ComputedUsersetOperand, Relation: "org_member"},
			{Kind: rebac.ComputedUsersetOperand, Relation: "team_grant"},
		},
	}))

	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "project", ObjectID: "apollo", Relation: "org_member",
		SubjectType: "user", SubjectID: "gina",
	}))
	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "project", ObjectID: "apollo", Relation: "team_grant",
		SubjectType: "user", SubjectID: "gina",
	}))
	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "project", ObjectID: "apollo", Relation: "org_member",
		SubjectType: "user", SubjectID: "hank",
	}))

	checker := newTestChecker(t, store)

	allowed, err := checker.Check(ctx, rebac.Request{
		ObjectType: "project", ObjectID: "apollo", Relation: "can_access",
		SubjectType: "user", SubjectID: "gina",
	}, rebac.Options{})
	require.NoError(t, err)
	require.True(t, allowed, "gina satisfies both operands")

	allowed, err = checker.Check(ctx, rebac.Request{
		ObjectType: "project", ObjectID: "apollo", Relation: "can_access",
		SubjectType: "user", SubjectID: "hank",
	}, rebac.Options{})
	require.NoError(t, err)
	require.False(t, allowed, "hank is missing the team grant")
}

// TestCheck_ConditionalTuple models a directly-assigned tuple gated by
// a CEL condition evaluated against merged tuple/request context.
func TestCheck_ConditionalTuple(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "document",
		Relation:                "viewer",
		DirectlyAssignableTypes: []string{"user"},
	}))
	require.NoError(t, store.WriteConditionDefinition(ctx, rebac.ConditionDefinition{
		Name:       "in_business_hours",
		Expression: "hour >= 9 && hour < 17",
	}))
	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "document", ObjectID: "memo", Relation: "viewer",
		SubjectType: "user", SubjectID: "iris",
		ConditionName: "in_business_hours",
	}))

	checker := newTestChecker(t, store)

	allowed, err := checker.Check(ctx, rebac.Request{
		ObjectType: "document", ObjectID: "memo", Relation: "viewer",
		SubjectType: "user", SubjectID: "iris",
		Context: map[string]any{"hour": 10},
	}, rebac.Options{})
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = checker.Check(ctx, rebac.Request{
		ObjectType: "document", ObjectID: "memo", Relation: "viewer",
		SubjectType: "user", SubjectID: "iris",
		Context: map[string]any{"hour": 22},
	}, rebac.Options{})
	require.NoError(t, err)
	require.False(t, allowed)
}

// TestCheck_ConditionalTuple_NoContextDeniesWithoutError models spec.md
// §8 scenario 5's third case directly: a conditional tuple whose
// predicate references a context key the caller never supplies, and no
// default on the tuple itself. The check must deny, not fail.
func TestCheck_ConditionalTuple_NoContextDeniesWithoutError(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "document",
		Relation:                "viewer",
		DirectlyAssignableTypes: []string{"user"},
	}))
	require.NoError(t, store.WriteConditionDefinition(ctx, rebac.ConditionDefinition{
		Name:       "in_eu",
		Expression: `region == "EU"`,
	}))
	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "document", ObjectID: "memo", Relation: "viewer",
		SubjectType: "user", SubjectID: "iris",
		ConditionName: "in_eu",
	}))

	checker := newTestChecker(t, store)

	allowed, err := checker.Check(ctx, rebac.Request{
		ObjectType: "document", ObjectID: "memo", Relation: "viewer",
		SubjectType: "user", SubjectID: "iris",
	}, rebac.Options{})
	require.NoError(t, err)
	require.False(t, allowed)
}

// TestCheck_DepthCap models a cyclic tuple-to-userset chain: recursion
// must terminate by returning false, never erroring, once maxDepth is
// exceeded.
func TestCheck_DepthCap(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.WriteRelationConfig(ctx, rebac.RelationConfig{
		ObjectType:              "node",
		Relation:                "viewer",
		DirectlyAssignableTypes: []string{"user"},
		TupleToUserset: &rebac.TupleToUserset{
			Tupleset:        "parent",
			ComputedUserset: "viewer",
		},
	}))

	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "node", ObjectID: "a", Relation: "parent",
		SubjectType: "node", SubjectID: "b",
	}))
	require.NoError(t, store.AddTuple(ctx, rebac.Tuple{
		ObjectType: "node", ObjectID: "b", Relation: "parent",
		SubjectType: "node", SubjectID: "a",
	}))

	checker := newTestChecker(t, store)

	allowed, err := checker.Check(ctx, rebac.Request{
		ObjectType: "node", ObjectID: "a", Relation: "viewer",
		SubjectType: "user", SubjectID: "nobody",
	}, rebac.Options{MaxDepth: 6})
	require.NoError(t, err, "depth exhaustion must resolve to false, never an error")
	require.False(t, allowed)
}

func TestCheck_UnknownRelationConfig(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	checker := newTestChecker(t, store)

	allowed, err := checker.Check(ctx, rebac.Request{
		ObjectType: "document", ObjectID: "memo", Relation: "viewer",
		SubjectType: "user", SubjectID: "iris",
	}, rebac.Options{})
	require.NoError(t, err)
	require.False(t, allowed, "an unconfigured relation has no direct/wildcard/userset tuples to find")
}
