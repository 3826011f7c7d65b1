package graph

import (
	"context"

	"github.com/relationkit/rebac/pkg/rebac"
)

// Dispatcher resolves a dispatched check request. The only
// implementation in this repo is local (Checker dispatching
// to itself), but the indirection mirrors the teacher's
// internal/dispatcher package, which exists specifically so a remote
// dispatch strategy can be swapped in later without touching the
// evaluator's recursion logic.
type Dispatcher interface {
	Dispatch(ctx context.Context, req DispatchRequest, maxDepth uint32) (bool, error)
}

// DispatchRequest is a single recursive edge in the check evaluator:
// a rewritten rebac.Request plus the resolution metadata (the number of
// edges already followed from the top-level check, compared against
// maxDepth) it carries.
type DispatchRequest struct {
	Request rebac.Request
	Depth   uint32
}
