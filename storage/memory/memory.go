// Package memory is the in-memory reference implementation of the
// rebac.Store contract, used by tests and by the CLI's default
// "nothing configured" mode. It is the spiritual successor of the
// teacher's (unretrieved) storage/memory package, referenced from
// server_test.go as "memory.New(...)", and is shaped like the relation
// store sketched in the xraph-warden relation/store.go example from the
// retrieval pack: maps guarded by a single mutex, with an insertion
// sequence recorded on write so iteration order is a real, inspectable
// total order rather than accidental Go map order.
package memory

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/relationkit/rebac/pkg/rebac"
)

type tupleRecord struct {
	tuple    rebac.Tuple
	sequence ulid.ULID
}

// Store is an in-memory, concurrency-safe rebac.Store.
type Store struct {
	mu sync.RWMutex

	tuples     map[rebac.Key]tupleRecord
	configs    map[configKey]rebac.RelationConfig
	conditions map[string]rebac.ConditionDefinition
	entropy    *ulid.MonotonicEntropy
}

type configKey struct {
	objectType string
	relation   string
}

var _ rebac.Store = (*Store)(nil)

// New constructs an empty in-memory Store.
func New() *Store {
	return &Store{
		tuples:     make(map[rebac.Key]tupleRecord),
		configs:    make(map[configKey]rebac.RelationConfig),
		conditions: make(map[string]rebac.ConditionDefinition),
		entropy:    ulid.Monotonic(newEntropySource(), 0),
	}
}

func (s *Store) FindDirectTuple(_ context.Context, objectType, objectID, relation, subjectType, subjectID string) (*rebac.Tuple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := rebac.Key{
		ObjectType:  objectType,
		ObjectID:    objectID,
		Relation:    relation,
		SubjectType: subjectType,
		SubjectID:   subjectID,
	}

	record, ok := s.tuples[key]
	if !ok {
		return nil, nil
	}

	found := record.tuple
	return &found, nil
}

func (s *Store) FindUsersetTuples(_ context.Context, objectType, objectID, relation string) ([]rebac.Tuple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findByRelationLocked(objectType, objectID, relation, true), nil
}

func (s *Store) FindTuplesByRelation(_ context.Context, objectType, objectID, relation string) ([]rebac.Tuple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findByRelationLocked(objectType, objectID, relation, false), nil
}

// findByRelationLocked must be called with s.mu held for reading.
// usersetOnly restricts results to tuples with a non-empty
// SubjectRelation. Results are sorted by insertion sequence, giving
// callers a stable "store order" even though spec.md §4.1 doesn't
// require one.
func (s *Store) findByRelationLocked(objectType, objectID, relation string, usersetOnly bool) []rebac.Tuple {
	var records []tupleRecord

	for key, record := range s.tuples {
		if key.ObjectType != objectType || key.ObjectID != objectID || key.Relation != relation {
			continue
		}

		if usersetOnly && key.SubjectRelation == "" {
			continue
		}

		records = append(records, record)
	}

	sortBySequence(records)

	tuples := make([]rebac.Tuple, len(records))
	for i, r := range records {
		tuples[i] = r.tuple
	}

	return tuples
}

func (s *Store) FindRelationConfig(_ context.Context, objectType, relation string) (*rebac.RelationConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	config, ok := s.configs[configKey{objectType: objectType, relation: relation}]
	if !ok {
		return nil, nil
	}

	return &config, nil
}

func (s *Store) FindConditionDefinition(_ context.Context, name string) (*rebac.ConditionDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.conditions[name]
	if !ok {
		return nil, nil
	}

	return &def, nil
}

func (s *Store) AddTuple(_ context.Context, t rebac.Tuple) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := t.Key()
	if _, exists := s.tuples[key]; exists {
		return nil // idempotent re-add, spec.md §3
	}

	s.tuples[key] = tupleRecord{tuple: t, sequence: s.newULID()}

	return nil
}

func (s *Store) WriteRelationConfig(_ context.Context, c rebac.RelationConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.configs[configKey{objectType: c.ObjectType, relation: c.Relation}] = c

	return nil
}

func (s *Store) WriteConditionDefinition(_ context.Context, d rebac.ConditionDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conditions[d.Name] = d

	return nil
}
