package rebac

import "fmt"

// RelationConfigNotFoundError is returned by addTuple when no
// RelationConfig exists for (objectType, relation).
type RelationConfigNotFoundError struct {
	ObjectType string
	Relation   string
}

func (e *RelationConfigNotFoundError) Error() string {
	return fmt.Sprintf("relation config not found for '%s#%s'", e.ObjectType, e.Relation)
}

// InvalidSubjectTypeError is returned by addTuple when a direct
// (non-userset) subject's type is not in directlyAssignableTypes.
type InvalidSubjectTypeError struct {
	ObjectType  string
	Relation    string
	SubjectType string
}

func (e *InvalidSubjectTypeError) Error() string {
	return fmt.Sprintf("subject type '%s' is not assignable on '%s#%s'", e.SubjectType, e.ObjectType, e.Relation)
}

// UsersetNotAllowedError is returned by addTuple when a userset subject
// is written to a relation that does not allow userset subjects.
type UsersetNotAllowedError struct {
	ObjectType string
	Relation   string
}

func (e *UsersetNotAllowedError) Error() string {
	return fmt.Sprintf("relation '%s#%s' does not allow userset subjects", e.ObjectType, e.Relation)
}

// ConditionNotFoundError is returned at check time when a tuple
// references a condition name with no matching ConditionDefinition.
type ConditionNotFoundError struct {
	Name string
}

func (e *ConditionNotFoundError) Error() string {
	return fmt.Sprintf("condition '%s' not found", e.Name)
}

// ConditionEvaluationError wraps a failure raised by a compiled
// predicate during invocation.
type ConditionEvaluationError struct {
	Name string
	Err  error
}

func (e *ConditionEvaluationError) Error() string {
	return fmt.Sprintf("condition '%s' failed to evaluate: %s", e.Name, e.Err)
}

func (e *ConditionEvaluationError) Unwrap() error {
	return e.Err
}

// InvalidStoredDataError is returned by a Store when a persisted row
// fails to decode or violates an invariant the store is responsible
// for preserving (e.g. malformed condition-context JSON).
type InvalidStoredDataError struct {
	Reason string
	Err    error
}

func (e *InvalidStoredDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid stored data: %s: %s", e.Reason, e.Err)
	}

	return fmt.Sprintf("invalid stored data: %s", e.Reason)
}

func (e *InvalidStoredDataError) Unwrap() error {
	return e.Err
}

// CancelledError is returned when the ambient cancellation signal for
// a check request fires before a result is determined.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("check cancelled: %s", e.Err)
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}
