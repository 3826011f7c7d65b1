package rebac

import "context"

//go:generate go run -mod=mod go.uber.org/mock/mockgen -destination=../../internal/graph/mocks/store.go -package=mocks github.com/relationkit/rebac/pkg/rebac Store

// Store is the tuple-store contract the check evaluator and write API
// are implemented against (spec.md §4.1). Every read is an atomic query
// against a consistent snapshot; the evaluator never assumes ordering
// beyond what each method documents.
//
// Implementations must not coerce "no such row" into a zero-value
// result that looks like valid data: absence is always signaled via a
// nil pointer / nil error (for single-row lookups) or a nil error with
// an empty slice (for multi-row lookups), never via a sentinel error
// for the "not found" case itself.
type Store interface {
	// FindDirectTuple returns the unique tuple with subjectRelation
	// absent matching the five coordinates, or nil if none exists.
	// subjectID may be tuple.Wildcard.
	FindDirectTuple(ctx context.Context, objectType, objectID, relation, subjectType, subjectID string) (*Tuple, error)

	// FindUsersetTuples returns every tuple on (objectType, objectID,
	// relation) whose SubjectRelation is present. Order is unspecified.
	FindUsersetTuples(ctx context.Context, objectType, objectID, relation string) ([]Tuple, error)

	// FindTuplesByRelation returns every tuple on (objectType, objectID,
	// relation), regardless of subject form. Order is unspecified.
	FindTuplesByRelation(ctx context.Context, objectType, objectID, relation string) ([]Tuple, error)

	// FindRelationConfig returns the config for (objectType, relation),
	// or nil if none has been written.
	FindRelationConfig(ctx context.Context, objectType, relation string) (*RelationConfig, error)

	// FindConditionDefinition returns the named condition definition, or
	// nil if none has been written.
	FindConditionDefinition(ctx context.Context, name string) (*ConditionDefinition, error)

	// AddTuple inserts t. Re-adding an identical tuple (same Key()) is a
	// no-op. AddTuple itself does not validate against the relation
	// config; callers (the Write API) are responsible for that per
	// spec.md §4.4. AddTuple's only job is idempotent persistence.
	AddTuple(ctx context.Context, t Tuple) error

	// WriteRelationConfig upserts c by (ObjectType, Relation).
	WriteRelationConfig(ctx context.Context, c RelationConfig) error

	// WriteConditionDefinition upserts d by Name.
	WriteConditionDefinition(ctx context.Context, d ConditionDefinition) error
}
