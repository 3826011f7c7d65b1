// Package conditions defines the predicate-compiler contract (spec.md
// §4.5) and the condition evaluator (spec.md §4.2) that sits between
// stored tuples and the check evaluator. The compiler itself is an
// external collaborator; see internal/conditions for the CEL-backed
// implementation.
package conditions

// Predicate is a compiled, reusable boolean expression. Implementations
// must be safe to invoke concurrently.
type Predicate interface {
	// Eval invokes the predicate against the merged context. It returns
	// an error if the underlying expression raises during evaluation.
	Eval(context map[string]any) (bool, error)
}

// Compiler compiles a condition expression string into a reusable
// Predicate. Compilation must be deterministic and side-effect free.
type Compiler interface {
	Compile(expression string) (Predicate, error)
}
