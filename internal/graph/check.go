// Package graph implements the recursive check evaluator (spec.md
// §4.3): the relation algebra of direct tuples, wildcards, usersets,
// implied-by, computed usersets, tuple-to-userset rewrites,
// intersection, and exclusion.
//
// The concurrency shape — a resolver that fans out a fixed, ordered
// list of handlers and short-circuits via context cancellation — is
// adapted directly from the teacher's internal/graph/check.go
// ConcurrentChecker. What changed is the algebra those handlers
// implement: the teacher dispatches over a protobuf Userset rewrite
// tree, this evaluator dispatches over the flatter RelationConfig
// fields spec.md §3 defines (impliedBy, computedUserset,
// tupleToUserset, excludedBy, intersection).
package graph

import (
	"context"
	"errors"
	"sync"

	"github.com/relationkit/rebac/internal/metrics"
	"github.com/relationkit/rebac/pkg/conditions"
	"github.com/relationkit/rebac/pkg/logger"
	"github.com/relationkit/rebac/pkg/rebac"
)

// normalizeCancellation re-classifies err as a rebac.CancelledError when
// ctx has been cancelled, so a Store implementation that surfaces the
// ambient context's own error (rather than something evaluator-specific)
// still presents a uniform cancellation failure to callers (spec.md §5,
// §7). err is returned unchanged when ctx is still live.
func normalizeCancellation(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &rebac.CancelledError{Err: ctxErr}
	}

	return err
}

// checkOutcome is what a single HandlerFunc resolves to.
type checkOutcome struct {
	allowed bool
	err     error
}

// HandlerFunc evaluates to an allowed/denied outcome, or fails.
type HandlerFunc func(ctx context.Context) (bool, error)

// Reducer combines one or more HandlerFunc into a single outcome,
// bounding in-flight concurrency at concurrencyLimit.
type Reducer func(ctx context.Context, concurrencyLimit uint32, handlers ...HandlerFunc) (bool, error)

// resolver concurrently evaluates handlers and publishes each outcome
// on resultChan as it resolves, subject to concurrencyLimit in-flight
// evaluations. Handlers are launched in the order given; cancelling ctx
// stops any handler not yet started from starting. Callers must invoke
// the returned drain function to ensure every launched handler
// completes before resultChan is closed.
func resolver(ctx context.Context, concurrencyLimit uint32, resultChan chan<- checkOutcome, handlers ...HandlerFunc) func() {
	limiter := make(chan struct{}, concurrencyLimit)

	var wg sync.WaitGroup

	run := func(fn HandlerFunc) {
		defer wg.Done()
		allowed, err := fn(ctx)
		resultChan <- checkOutcome{allowed: allowed, err: err}
		<-limiter
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		for _, handler := range handlers {
			fn := handler

			select {
			case limiter <- struct{}{}:
				wg.Add(1)
				go run(fn)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		wg.Wait()
		close(limiter)
	}
}

// union requires any handler to resolve allowed; the first allowed
// result short-circuits the rest via cancellation. Zero handlers
// resolves to false.
func union(ctx context.Context, concurrencyLimit uint32, handlers ...HandlerFunc) (bool, error) {
	if len(handlers) == 0 {
		return false, nil
	}

	cctx, cancel := context.WithCancel(ctx)
	resultChan := make(chan checkOutcome, len(handlers))

	drain := resolver(cctx, concurrencyLimit, resultChan, handlers...)
	defer func() {
		cancel()
		drain()
		close(resultChan)
	}()

	for i := 0; i < len(handlers); i++ {
		select {
		case result := <-resultChan:
			if result.err != nil {
				return false, normalizeCancellation(ctx, result.err)
			}

			if result.allowed {
				return true, nil
			}
		case <-ctx.Done():
			return false, &rebac.CancelledError{Err: ctx.Err()}
		}
	}

	return false, nil
}

// intersection requires every handler to resolve allowed; the first
// denied (or errored) result short-circuits the rest. Zero handlers
// resolves to true (the empty conjunction) — callers only invoke this
// when RelationConfig.IsIntersectionRooted() is true, which per
// spec.md §9 means the operand list is non-empty.
func intersection(ctx context.Context, concurrencyLimit uint32, handlers ...HandlerFunc) (bool, error) {
	if len(handlers) == 0 {
		return true, nil
	}

	cctx, cancel := context.WithCancel(ctx)
	resultChan := make(chan checkOutcome, len(handlers))

	drain := resolver(cctx, concurrencyLimit, resultChan, handlers...)
	defer func() {
		cancel()
		drain()
		close(resultChan)
	}()

	for i := 0; i < len(handlers); i++ {
		select {
		case result := <-resultChan:
			if result.err != nil {
				return false, normalizeCancellation(ctx, result.err)
			}

			if !result.allowed {
				return false, nil
			}
		case <-ctx.Done():
			return false, &rebac.CancelledError{Err: ctx.Err()}
		}
	}

	return true, nil
}

// Checker implements Check (spec.md §4.3) against a Store and
// condition Evaluator, with a bounded degree of concurrency per branch
// of evaluation.
type Checker struct {
	store            rebac.Store
	conditions       *conditions.Evaluator
	concurrencyLimit uint32
	logger           logger.Logger
}

var _ Dispatcher = (*Checker)(nil)

// NewChecker constructs a Checker. concurrencyLimit bounds how many
// sibling sub-checks (e.g. userset expansion branches) may be in
// flight at once; 0 is treated as 1 (fully sequential).
func NewChecker(store rebac.Store, conditionEvaluator *conditions.Evaluator, concurrencyLimit uint32, log logger.Logger) *Checker {
	if concurrencyLimit == 0 {
		concurrencyLimit = 1
	}

	if log == nil {
		log = logger.NewNoopLogger()
	}

	return &Checker{
		store:            store,
		conditions:       conditionEvaluator,
		concurrencyLimit: concurrencyLimit,
		logger:           log,
	}
}

// Check answers "does (req.subject) hold (req.relation) on (req.object)?"
// per spec.md §4.3. It is a pure function of the store's current
// snapshot: no result is cached across calls.
func (c *Checker) Check(ctx context.Context, req rebac.Request, opts rebac.Options) (bool, error) {
	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = rebac.DefaultMaxDepth
	}

	allowed, err := c.Dispatch(ctx, DispatchRequest{Request: req, Depth: 0}, maxDepth)
	if err != nil {
		metrics.ChecksTotal.WithLabelValues("error").Inc()
		return false, err
	}

	if allowed {
		metrics.ChecksTotal.WithLabelValues("allowed").Inc()
	} else {
		metrics.ChecksTotal.WithLabelValues("denied").Inc()
	}

	return allowed, nil
}

// Dispatch resolves a single recursive edge. It implements the
// Dispatcher interface so a future remote dispatch strategy can stand
// in for local recursion without the evaluator's algebra changing.
func (c *Checker) Dispatch(ctx context.Context, dreq DispatchRequest, maxDepth uint32) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, &rebac.CancelledError{Err: err}
	}

	if dreq.Depth > maxDepth {
		metrics.DepthExhaustedTotal.Inc()
		return false, nil
	}

	req := dreq.Request

	config, err := c.store.FindRelationConfig(ctx, req.ObjectType, req.Relation)
	if err != nil {
		return false, normalizeCancellation(ctx, err)
	}

	if config.IsIntersectionRooted() {
		return c.checkIntersection(ctx, req, config, dreq.Depth, maxDepth)
	}

	allowed, err := c.checkBase(ctx, req, config, dreq.Depth, maxDepth)
	if err != nil {
		return false, err
	}

	if allowed && config != nil && config.ExcludedBy != "" {
		excludedReq := DispatchRequest{
			Request: req.WithRelation(config.ExcludedBy),
			Depth:   dreq.Depth + 1,
		}

		excluded, err := c.Dispatch(ctx, excludedReq, maxDepth)
		if err != nil {
			return false, err
		}

		if excluded {
			return false, nil
		}
	}

	return allowed, nil
}

// checkBase evaluates spec.md §4.3's six base steps as an ordered union:
// the first step to resolve allowed short-circuits the rest.
func (c *Checker) checkBase(ctx context.Context, req rebac.Request, config *rebac.RelationConfig, depth, maxDepth uint32) (bool, error) {
	handlers := []HandlerFunc{
		c.checkDirectTuple(req),
		c.checkWildcard(req),
		c.checkUsersetExpansion(req, depth, maxDepth),
	}

	if config != nil {
		for _, implied := range config.ImpliedBy {
			handlers = append(handlers, c.checkDispatchRelation(req, implied, depth, maxDepth))
		}

		if config.ComputedUserset != "" {
			handlers = append(handlers, c.checkDispatchRelation(req, config.ComputedUserset, depth, maxDepth))
		}

		if config.TupleToUserset != nil {
			handlers = append(handlers, c.checkTupleToUserset(req, *config.TupleToUserset, depth, maxDepth))
		}
	}

	return union(ctx, c.concurrencyLimit, handlers...)
}

// checkDirectTuple implements spec.md §4.3 step 1.
func (c *Checker) checkDirectTuple(req rebac.Request) HandlerFunc {
	return func(ctx context.Context) (bool, error) {
		return c.findAndGate(ctx, req, req.SubjectType, req.SubjectID)
	}
}

// checkWildcard implements spec.md §4.3 step 2.
func (c *Checker) checkWildcard(req rebac.Request) HandlerFunc {
	return func(ctx context.Context) (bool, error) {
		return c.findAndGate(ctx, req, req.SubjectType, "*")
	}
}

func (c *Checker) findAndGate(ctx context.Context, req rebac.Request, subjectType, subjectID string) (bool, error) {
	t, err := c.store.FindDirectTuple(ctx, req.ObjectType, req.ObjectID, req.Relation, subjectType, subjectID)
	if err != nil {
		return false, err
	}

	if t == nil {
		return false, nil
	}

	return c.conditions.Satisfied(ctx, *t, req.Context)
}

// checkUsersetExpansion implements spec.md §4.3 step 3: every userset
// tuple on (object, relation) is gated by its own condition, then
// recursed into.
func (c *Checker) checkUsersetExpansion(req rebac.Request, depth, maxDepth uint32) HandlerFunc {
	return func(ctx context.Context) (bool, error) {
		tuples, err := c.store.FindUsersetTuples(ctx, req.ObjectType, req.ObjectID, req.Relation)
		if err != nil {
			return false, err
		}

		handlers := make([]HandlerFunc, 0, len(tuples))
		for _, t := range tuples {
			t := t
			handlers = append(handlers, func(ctx context.Context) (bool, error) {
				ok, err := c.conditions.Satisfied(ctx, t, req.Context)
				if err != nil || !ok {
					return false, err
				}

				sub := rebac.Request{
					ObjectType:      t.SubjectType,
					ObjectID:        t.SubjectID,
					Relation:        t.SubjectRelation,
					SubjectType:     req.SubjectType,
					SubjectID:       req.SubjectID,
					SubjectRelation: req.SubjectRelation,
					Context:         req.Context,
				}

				return c.Dispatch(ctx, DispatchRequest{Request: sub, Depth: depth + 1}, maxDepth)
			})
		}

		return union(ctx, c.concurrencyLimit, handlers...)
	}
}

// checkDispatchRelation recurses into the same object with a different
// relation, used for spec.md §4.3 steps 4 (impliedBy) and 5
// (computedUserset).
func (c *Checker) checkDispatchRelation(req rebac.Request, relation string, depth, maxDepth uint32) HandlerFunc {
	return func(ctx context.Context) (bool, error) {
		return c.Dispatch(ctx, DispatchRequest{Request: req.WithRelation(relation), Depth: depth + 1}, maxDepth)
	}
}

// checkTupleToUserset implements spec.md §4.3 step 6. Link tuples are
// not condition-gated: per spec.md §4.3's note and §9's open-question
// resolution, only terminal/direct/userset tuples gate on conditions.
func (c *Checker) checkTupleToUserset(req rebac.Request, ttu rebac.TupleToUserset, depth, maxDepth uint32) HandlerFunc {
	return func(ctx context.Context) (bool, error) {
		links, err := c.store.FindTuplesByRelation(ctx, req.ObjectType, req.ObjectID, ttu.Tupleset)
		if err != nil {
			return false, err
		}

		handlers := make([]HandlerFunc, 0, len(links))
		for _, link := range links {
			link := link
			handlers = append(handlers, func(ctx context.Context) (bool, error) {
				sub := req.WithObject(link.SubjectType, link.SubjectID).WithRelation(ttu.ComputedUserset)
				return c.Dispatch(ctx, DispatchRequest{Request: sub, Depth: depth + 1}, maxDepth)
			})
		}

		return union(ctx, c.concurrencyLimit, handlers...)
	}
}

// checkIntersection implements spec.md §4.3's intersection-rooted mode:
// every operand must resolve allowed.
func (c *Checker) checkIntersection(ctx context.Context, req rebac.Request, config *rebac.RelationConfig, depth, maxDepth uint32) (bool, error) {
	handlers := make([]HandlerFunc, 0, len(config.Intersection))

	for _, operand := range config.Intersection {
		operand := operand

		switch operand.Kind {
		case rebac.ComputedUsersetOperand:
			handlers = append(handlers, c.checkDispatchRelation(req, operand.Relation, depth, maxDepth))
		case rebac.TupleToUsersetOperand:
			handlers = append(handlers, c.checkIntersectionTTUOperand(req, operand, depth, maxDepth))
		}
	}

	return intersection(ctx, c.concurrencyLimit, handlers...)
}

// checkIntersectionTTUOperand implements an intersection operand of
// kind TupleToUsersetOperand: satisfied iff any linked tuple's
// recursion resolves allowed (spec.md §4.3's intersection evaluation).
func (c *Checker) checkIntersectionTTUOperand(req rebac.Request, operand rebac.IntersectionOperand, depth, maxDepth uint32) HandlerFunc {
	return func(ctx context.Context) (bool, error) {
		links, err := c.store.FindTuplesByRelation(ctx, req.ObjectType, req.ObjectID, operand.Tupleset)
		if err != nil {
			return false, err
		}

		handlers := make([]HandlerFunc, 0, len(links))
		for _, link := range links {
			link := link
			handlers = append(handlers, func(ctx context.Context) (bool, error) {
				sub := req.WithObject(link.SubjectType, link.SubjectID).WithRelation(operand.ComputedUserset)
				return c.Dispatch(ctx, DispatchRequest{Request: sub, Depth: depth + 1}, maxDepth)
			})
		}

		return union(ctx, c.concurrencyLimit, handlers...)
	}
}

// IsCancelled reports whether err represents check cancellation, for
// callers that want to distinguish it from other failures without
// importing pkg/rebac directly.
func IsCancelled(err error) bool {
	var cancelled *rebac.CancelledError
	return errors.As(err, &cancelled)
}
