package memory

import (
	"math/rand"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
)

func newEntropySource() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// newULID returns a monotonically increasing ULID used purely as an
// insertion-sequence marker; callers must hold s.mu.
func (s *Store) newULID() ulid.ULID {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy)
}

func sortBySequence(records []tupleRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].sequence.Compare(records[j].sequence) < 0
	})
}
