package beam

import "fmt"

// ValidationCode identifies the category of a model validation failure.
type ValidationCode string

// Validation failure categories. Every code is fatal: a beam that fails
// validation is never handed to the solver.
const (
	DuplicateSupport       ValidationCode = "duplicate_support"
	OutOfDomainSupport     ValidationCode = "out_of_domain_support"
	OutOfDomainLoad        ValidationCode = "out_of_domain_load"
	InvalidRange           ValidationCode = "invalid_range"
	NonPositiveProperty    ValidationCode = "non_positive_property"
	UnderconstrainedSystem ValidationCode = "underconstrained_system"
	TooManySupports        ValidationCode = "too_many_supports"
	TooManyLoads           ValidationCode = "too_many_loads"
)

// ValidationError reports a structurally invalid beam definition.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid beam: %s", e.Message)
}

// Is matches any *ValidationError carrying the same code, so callers can
// test categories with errors.Is(err, &ValidationError{Code: ...}).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

func validationErrorf(code ValidationCode, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}
