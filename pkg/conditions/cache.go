package conditions

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/karlseguin/ccache/v3"
)

// predicateCacheTTL is effectively "forever" for this process: the TTL
// set on insert is a year (a read through ccache.Get bumps an entry's
// LRU position but does not extend it) and the cache is sized
// generously, so in practice nothing
// the process compiled once needs to be recompiled. Spec.md §4.2/§5
// call for a never-evicted, process-wide cache; ccache's item count
// cap is set far above any realistic number of distinct conditions so
// eviction is not something this process will observe.
const predicateCacheTTL = 365 * 24 * time.Hour

// PredicateCache is a process-wide, concurrency-safe cache of compiled
// predicates keyed by condition name. A plain "compile on miss, then
// last-writer-wins insert" policy is sufficient per spec.md §4.2 and
// §5: duplicate concurrent compiles of the same expression produce
// identical results, so there is no correctness reason to lock around
// the compile step itself.
type PredicateCache struct {
	cache    *ccache.Cache[Predicate]
	compiler Compiler
}

// NewPredicateCache constructs a PredicateCache backed by compiler,
// sized to hold maxEntries distinct compiled conditions without
// eviction pressure under normal operation.
func NewPredicateCache(compiler Compiler, maxEntries int64) *PredicateCache {
	if maxEntries <= 0 {
		maxEntries = 10_000
	}

	return &PredicateCache{
		cache:    ccache.New(ccache.Configure[Predicate]().MaxSize(maxEntries)),
		compiler: compiler,
	}
}

func cacheKey(conditionName string) string {
	return strconv.FormatUint(xxhash.Sum64String(conditionName), 36)
}

// Get returns the compiled predicate cached under name, compiling
// expression and inserting the result on first use. The key is the
// name alone: a later call with the same name and a different
// expression returns the predicate already cached. Concurrent calls for the same name
// may both compile; whichever insert lands last wins, and since
// compilation is pure for a given expression string the result is
// indistinguishable either way.
func (c *PredicateCache) Get(name, expression string) (Predicate, error) {
	key := cacheKey(name)

	if item := c.cache.Get(key); item != nil && !item.Expired() {
		return item.Value(), nil
	}

	predicate, err := c.compiler.Compile(expression)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, predicate, predicateCacheTTL)

	return predicate, nil
}
