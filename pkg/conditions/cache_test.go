package conditions_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relationkit/rebac/pkg/conditions"
)

type countingCompiler struct {
	calls int
	err   error
}

func (c *countingCompiler) Compile(expression string) (conditions.Predicate, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}

	return constPredicate(expression == "true"), nil
}

type constPredicate bool

func (p constPredicate) Eval(map[string]any) (bool, error) {
	return bool(p), nil
}

func TestPredicateCache_CompilesOnce(t *testing.T) {
	compiler := &countingCompiler{}
	cache := conditions.NewPredicateCache(compiler, 0)

	_, err := cache.Get("always-true", "true")
	require.NoError(t, err)

	_, err = cache.Get("always-true", "true")
	require.NoError(t, err)

	require.Equal(t, 1, compiler.calls, "second Get for the same name must hit the cache")
}

func TestPredicateCache_DistinctNamesCompileIndependently(t *testing.T) {
	compiler := &countingCompiler{}
	cache := conditions.NewPredicateCache(compiler, 0)

	_, err := cache.Get("a", "true")
	require.NoError(t, err)

	_, err = cache.Get("b", "false")
	require.NoError(t, err)

	require.Equal(t, 2, compiler.calls)
}

func TestPredicateCache_CompileError(t *testing.T) {
	boom := errors.New("boom")
	compiler := &countingCompiler{err: boom}
	cache := conditions.NewPredicateCache(compiler, 0)

	_, err := cache.Get("bad", "???")
	require.ErrorIs(t, err, boom)
}
