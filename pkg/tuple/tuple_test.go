package tuple_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relationkit/rebac/pkg/tuple"
)

func TestSplitObject(t *testing.T) {
	objectType, objectID := tuple.SplitObject("document:memo")
	require.Equal(t, "document", objectType)
	require.Equal(t, "memo", objectID)

	objectType, objectID = tuple.SplitObject("memo")
	require.Equal(t, "", objectType)
	require.Equal(t, "memo", objectID)
}

func TestSplitObjectRelation(t *testing.T) {
	object, relation := tuple.SplitObjectRelation("group:eng#member")
	require.Equal(t, "group:eng", object)
	require.Equal(t, "member", relation)

	object, relation = tuple.SplitObjectRelation("group:eng")
	require.Equal(t, "group:eng", object)
	require.Equal(t, "", relation)
}

func TestObjectRelationRoundTrip(t *testing.T) {
	require.Equal(t, "document:memo", tuple.Object("document", "memo"))
	require.Equal(t, "group:eng#member", tuple.ObjectRelation("group:eng", "member"))
	require.Equal(t, "group:eng", tuple.ObjectRelation("group:eng", ""))
}

func TestIsWildcard(t *testing.T) {
	require.True(t, tuple.IsWildcard("*"))
	require.False(t, tuple.IsWildcard("iris"))
}
