// Package rebac defines the data model, error taxonomy, and tuple-store
// contract for the relationship-based access control decision engine.
// It is consumed by internal/graph (the check evaluator and write API)
// and implemented by the storage/* packages.
package rebac

// Tuple expresses a relationship: "(objectType:objectID) has relation
// with (subjectType:subjectID[#subjectRelation])", optionally gated by
// a named condition.
type Tuple struct {
	ObjectType string
	ObjectID   string
	Relation   string

	SubjectType     string
	SubjectID       string
	SubjectRelation string // empty means the subject is concrete, not a userset

	ConditionName    string // empty means unconditional
	ConditionContext map[string]any
}

// IsUserset reports whether this tuple's subject is a userset reference
// rather than a concrete subject.
func (t Tuple) IsUserset() bool {
	return t.SubjectRelation != ""
}

// Key is the natural uniqueness key of a tuple, per spec:
// (objectType, objectID, relation, subjectType, subjectID, subjectRelation).
type Key struct {
	ObjectType      string
	ObjectID        string
	Relation        string
	SubjectType     string
	SubjectID       string
	SubjectRelation string
}

// Key returns t's natural uniqueness key.
func (t Tuple) Key() Key {
	return Key{
		ObjectType:      t.ObjectType,
		ObjectID:        t.ObjectID,
		Relation:        t.Relation,
		SubjectType:     t.SubjectType,
		SubjectID:       t.SubjectID,
		SubjectRelation: t.SubjectRelation,
	}
}

// TupleToUserset is the {tupleset, computedUserset} rewrite rule.
type TupleToUserset struct {
	Tupleset        string
	ComputedUserset string
}

// IntersectionOperandKind discriminates the two forms an intersection
// operand can take.
type IntersectionOperandKind int

const (
	// ComputedUsersetOperand rewrites to a relation on the same object.
	ComputedUsersetOperand IntersectionOperandKind = iota
	// TupleToUsersetOperand rewrites across linked objects.
	TupleToUsersetOperand
)

// IntersectionOperand is one conjunct of an intersection-rooted
// relation config.
type IntersectionOperand struct {
	Kind IntersectionOperandKind

	// Relation is set when Kind == ComputedUsersetOperand.
	Relation string

	// Tupleset/ComputedUserset are set when Kind == TupleToUsersetOperand.
	Tupleset        string
	ComputedUserset string
}

// RelationConfig is the schema entry for one (objectType, relation) pair.
type RelationConfig struct {
	ObjectType string
	Relation   string

	// DirectlyAssignableTypes is nil when the field is absent (no direct
	// assignment permitted at all) vs. an empty-but-non-nil slice, which
	// has the same practical effect but is distinguished at decode time
	// per spec.md §9.
	DirectlyAssignableTypes []string
	AllowsUsersetSubjects   bool

	ImpliedBy       []string
	ComputedUserset string          // empty means absent
	TupleToUserset  *TupleToUserset // nil means absent
	ExcludedBy      string          // empty means absent

	// Intersection, when non-empty, is authoritative: base-mode fields
	// above and ExcludedBy are bypassed entirely (spec.md §4.3 step 3).
	Intersection []IntersectionOperand
}

// IsIntersectionRooted reports whether this config is evaluated purely
// as a conjunction of Intersection, bypassing base mode and exclusion.
func (c *RelationConfig) IsIntersectionRooted() bool {
	return c != nil && len(c.Intersection) > 0
}

// AllowsDirectSubjectType reports whether subjectType may be assigned
// directly (non-userset) on this relation.
func (c *RelationConfig) AllowsDirectSubjectType(subjectType string) bool {
	if c == nil {
		return false
	}

	for _, t := range c.DirectlyAssignableTypes {
		if t == subjectType {
			return true
		}
	}

	return false
}

// ConditionDefinition is a named, opaque boolean predicate expression.
type ConditionDefinition struct {
	Name       string
	Expression string
}

// Request is a single check query: "does (subjectType:subjectID[#subjectRelation])
// hold (relation) on (objectType:objectID)?"
type Request struct {
	ObjectType string
	ObjectID   string
	Relation   string

	SubjectType     string
	SubjectID       string
	SubjectRelation string

	Context map[string]any
}

// WithRelation returns a copy of r with Relation replaced, used when
// rewriting a request along impliedBy/computedUserset/TTU edges.
func (r Request) WithRelation(relation string) Request {
	r.Relation = relation
	return r
}

// WithObject returns a copy of r with ObjectType/ObjectID replaced,
// used when rewriting a request across a tuple-to-userset link.
func (r Request) WithObject(objectType, objectID string) Request {
	r.ObjectType = objectType
	r.ObjectID = objectID
	return r
}

// Options configures a single check call.
type Options struct {
	// MaxDepth bounds recursion; exceeding it resolves to false, never
	// an error (spec.md §4.3, §7). Zero means "use the default of 10".
	MaxDepth uint32
}

// DefaultMaxDepth is the default recursion bound when Options.MaxDepth
// is unset.
const DefaultMaxDepth = 10
