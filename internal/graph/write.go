package graph

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/relationkit/rebac/pkg/logger"
	"github.com/relationkit/rebac/pkg/rebac"
)

// WriteService implements the write-side contract of spec.md §4.4:
// tuple insertion validated against the configured schema, and
// unvalidated upserts of relation configs and condition definitions.
// It composes a rebac.Store rather than being one itself, mirroring
// the teacher's server/commands pattern (e.g.
// commands.NewWriteAssertionsCommand wraps a storage.OpenFGADatastore
// and applies validation the store itself doesn't know about).
type WriteService struct {
	store  rebac.Store
	logger logger.Logger
}

// NewWriteService constructs a WriteService over store.
func NewWriteService(store rebac.Store, log logger.Logger) *WriteService {
	if log == nil {
		log = logger.NewNoopLogger()
	}

	return &WriteService{store: store, logger: log}
}

// AddTuple validates t against its relation's config and, if valid,
// persists it idempotently.
func (w *WriteService) AddTuple(ctx context.Context, t rebac.Tuple) error {
	config, err := w.store.FindRelationConfig(ctx, t.ObjectType, t.Relation)
	if err != nil {
		return fmt.Errorf("failed to look up relation config: %w", err)
	}

	if config == nil {
		return &rebac.RelationConfigNotFoundError{ObjectType: t.ObjectType, Relation: t.Relation}
	}

	if err := validateSubject(t, config); err != nil {
		return err
	}

	return w.store.AddTuple(ctx, t)
}

// AddTuples validates and writes a batch, collecting every validation
// failure rather than stopping at the first one. hashicorp/go-multierror
// is the teacher's own dependency for exactly this shape of "report
// every problem in a batch" aggregation.
func (w *WriteService) AddTuples(ctx context.Context, tuples []rebac.Tuple) error {
	var result *multierror.Error

	for i, t := range tuples {
		if err := w.AddTuple(ctx, t); err != nil {
			result = multierror.Append(result, fmt.Errorf("tuple[%d]: %w", i, err))
		}
	}

	return result.ErrorOrNil()
}

func validateSubject(t rebac.Tuple, config *rebac.RelationConfig) error {
	if t.IsUserset() {
		if !config.AllowsUsersetSubjects {
			return &rebac.UsersetNotAllowedError{ObjectType: t.ObjectType, Relation: t.Relation}
		}

		return nil
	}

	if !config.AllowsDirectSubjectType(t.SubjectType) {
		return &rebac.InvalidSubjectTypeError{
			ObjectType:  t.ObjectType,
			Relation:    t.Relation,
			SubjectType: t.SubjectType,
		}
	}

	return nil
}

// WriteRelationConfig upserts c with no cross-reference validation, per
// spec.md §4.4: relations referenced by c need not resolve at write
// time.
func (w *WriteService) WriteRelationConfig(ctx context.Context, c rebac.RelationConfig) error {
	return w.store.WriteRelationConfig(ctx, c)
}

// WriteConditionDefinition upserts d by name.
func (w *WriteService) WriteConditionDefinition(ctx context.Context, d rebac.ConditionDefinition) error {
	return w.store.WriteConditionDefinition(ctx, d)
}
