// Package hedger decorates a rebac.Store with request hedging: once a
// read has run longer than a quantile of recently observed latencies,
// a second, identical read races it and whichever finishes first wins.
// This is adapted from the teacher's pkg/storage/hedger/hedger.go,
// which hedges the OpenFGA storage.OpenFGADatastore interface; the
// hedging mechanics (tdigest quantile tracking, zero-copy digest swap,
// "slowest resolver closes the channel" cleanup) are unchanged, only
// the decorated interface is new.
package hedger

import (
	"context"
	"sync"
	"time"

	"github.com/influxdata/tdigest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/relationkit/rebac/pkg/rebac"
)

var (
	hedgableRequestCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rebac",
		Subsystem: "storage",
		Name:      "hedgable_request_count",
		Help:      "A counter counting the number of requests that may be hedged",
	})

	hedgedRequestCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rebac",
		Subsystem: "storage",
		Name:      "hedged_request_count",
		Help:      "A counter counting the number of requests that were hedged",
	})
)

// QuantileApproximator approximates quantiles of an observed latency
// distribution.
type QuantileApproximator interface {
	Add(x float64, w float64)
	Quantile(q float64) float64
}

type boundedQuantileApproximator struct {
	mu         sync.Mutex
	maxSamples uint32
	tdigests   []*tdigest.TDigest
}

var _ QuantileApproximator = (*boundedQuantileApproximator)(nil)

// NewBoundedQuantileApproximator returns a QuantileApproximator bounded
// to maxSamples, zero-copy-swapping its backing digest once the bound
// is hit so old samples age out without a stop-the-world reset.
func NewBoundedQuantileApproximator(maxSamples uint32) QuantileApproximator {
	maindigest := tdigest.NewWithCompression(1000)
	maindigest.Add(0.02, 1) // initial hedge threshold (20ms)

	return &boundedQuantileApproximator{
		maxSamples: maxSamples,
		tdigests: []*tdigest.TDigest{
			maindigest,
			tdigest.NewWithCompression(1000),
		},
	}
}

func (b *boundedQuantileApproximator) Add(x float64, w float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	maindigest := b.tdigests[0]
	swapdigest := b.tdigests[1]

	if maindigest.Count() >= float64(b.maxSamples) {
		b.tdigests = b.tdigests[1:]
		maindigest.Reset()

		b.tdigests = append(b.tdigests, maindigest)
	}

	maindigest.Add(x, w)
	swapdigest.Add(x, w)
}

func (b *boundedQuantileApproximator) Quantile(q float64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.tdigests[0].Quantile(q)
}

// hedgedFunc is a function that races against a timer, publishing on
// resolved when it completes. The slowest of the original/hedged pair
// is responsible for closing the channel.
type hedgedFunc func(ctx context.Context, resolved chan<- struct{})

type hedgedFuncResolver func(ctx context.Context, fn hedgedFunc)

func newHedger(q QuantileApproximator, quantile float64) hedgedFuncResolver {
	return func(ctx context.Context, fn hedgedFunc) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		resolved := make(chan struct{}, 1)
		timer := time.NewTimer(time.Duration(q.Quantile(quantile) * float64(time.Second)))
		defer timer.Stop()

		hedgableRequestCount.Inc()

		start := time.Now()
		go fn(ctx, resolved)

		var duration time.Duration
		select {
		case <-resolved:
			duration = time.Since(start)
		case <-timer.C:
			hedgedRequestCount.Inc()

			hedgedResolved := make(chan struct{}, 1)
			hedgedStart := time.Now()
			go fn(ctx, hedgedResolved)

			select {
			case <-resolved:
				duration = time.Since(start)
			case <-hedgedResolved:
				duration = time.Since(hedgedStart)
			}
		}

		q.Add(duration.Seconds(), 1)
	}
}

// Store wraps a rebac.Store, hedging FindDirectTuple, FindUsersetTuples,
// FindTuplesByRelation and FindRelationConfig. FindConditionDefinition
// and the write methods pass through to the embedded Store unhedged.
type Store struct {
	rebac.Store

	hedge hedgedFuncResolver
}

var _ rebac.Store = (*Store)(nil)

// New decorates store with hedged reads, racing a duplicate read once
// the in-flight call exceeds the given quantile of recent latencies.
func New(store rebac.Store, quantile float64) *Store {
	return &Store{
		Store: store,
		hedge: newHedger(NewBoundedQuantileApproximator(1000), quantile),
	}
}

func (h *Store) FindDirectTuple(ctx context.Context, objectType, objectID, relation, subjectType, subjectID string) (*rebac.Tuple, error) {
	var result *rebac.Tuple
	var err error
	var once sync.Once

	h.hedge(ctx, func(ctx context.Context, resolved chan<- struct{}) {
		t, innerErr := h.Store.FindDirectTuple(ctx, objectType, objectID, relation, subjectType, subjectID)

		slowest := true
		once.Do(func() {
			slowest = false
			result, err = t, innerErr
			resolved <- struct{}{}
		})

		if slowest {
			close(resolved)
		}
	})

	return result, err
}

func (h *Store) FindUsersetTuples(ctx context.Context, objectType, objectID, relation string) ([]rebac.Tuple, error) {
	var result []rebac.Tuple
	var err error
	var once sync.Once

	h.hedge(ctx, func(ctx context.Context, resolved chan<- struct{}) {
		tuples, innerErr := h.Store.FindUsersetTuples(ctx, objectType, objectID, relation)

		slowest := true
		once.Do(func() {
			slowest = false
			result, err = tuples, innerErr
			resolved <- struct{}{}
		})

		if slowest {
			close(resolved)
		}
	})

	return result, err
}

func (h *Store) FindTuplesByRelation(ctx context.Context, objectType, objectID, relation string) ([]rebac.Tuple, error) {
	var result []rebac.Tuple
	var err error
	var once sync.Once

	h.hedge(ctx, func(ctx context.Context, resolved chan<- struct{}) {
		tuples, innerErr := h.Store.FindTuplesByRelation(ctx, objectType, objectID, relation)

		slowest := true
		once.Do(func() {
			slowest = false
			result, err = tuples, innerErr
			resolved <- struct{}{}
		})

		if slowest {
			close(resolved)
		}
	})

	return result, err
}

func (h *Store) FindRelationConfig(ctx context.Context, objectType, relation string) (*rebac.RelationConfig, error) {
	var result *rebac.RelationConfig
	var err error
	var once sync.Once

	h.hedge(ctx, func(ctx context.Context, resolved chan<- struct{}) {
		config, innerErr := h.Store.FindRelationConfig(ctx, objectType, relation)

		slowest := true
		once.Do(func() {
			slowest = false
			result, err = config, innerErr
			resolved <- struct{}{}
		})

		if slowest {
			close(resolved)
		}
	})

	return result, err
}
