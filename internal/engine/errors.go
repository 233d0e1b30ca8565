package engine

import "fmt"

// SolveCode identifies the category of a reaction-solve failure.
type SolveCode string

// SingularFlexibilityMatrix means the redundant-support flexibility system
// was degenerate or too ill-conditioned to trust. The engine degrades to the
// fallback integrator instead of surfacing this to the caller.
const SingularFlexibilityMatrix SolveCode = "singular_flexibility_matrix"

// SolveError reports a numerical failure while resolving reactions.
type SolveError struct {
	Code    SolveCode
	Message string
	Cond    float64 // condition number estimate, when known
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("reaction solve failed: %s", e.Message)
}

// Is matches any *SolveError carrying the same code.
func (e *SolveError) Is(target error) bool {
	t, ok := target.(*SolveError)
	return ok && t.Code == e.Code
}
