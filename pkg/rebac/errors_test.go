package rebac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relationkit/rebac/pkg/rebac"
)

func TestConditionEvaluationError_Unwrap(t *testing.T) {
	inner := errors.New("division by zero")
	err := &rebac.ConditionEvaluationError{Name: "in_budget", Err: inner}

	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "in_budget")
}

func TestCancelledError_UnwrapsContextCause(t *testing.T) {
	err := &rebac.CancelledError{Err: context.Canceled}

	require.ErrorIs(t, err, context.Canceled)
}

func TestInvalidStoredDataError_ErrorWithoutCause(t *testing.T) {
	err := &rebac.InvalidStoredDataError{Reason: "missing object_type column"}

	require.Contains(t, err.Error(), "missing object_type column")
	require.NoError(t, errors.Unwrap(err))
}
