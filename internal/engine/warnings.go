package engine

import "fmt"

// WarningCode identifies a non-fatal numerical finding. Warnings ride on a
// valid result; callers decide whether to treat them as failures.
type WarningCode string

const (
	// WarnShearResidual: shear did not return to zero past the last
	// reaction, pointing at an equilibrium bookkeeping problem.
	WarnShearResidual WarningCode = "shear_residual"
	// WarnMomentResidual: the free-end moment residual removed by the
	// boundary correction was larger than the drift threshold.
	WarnMomentResidual WarningCode = "moment_residual"
	// WarnDeflectionResidual: the support deflection residual removed by
	// the boundary correction was larger than the drift threshold.
	WarnDeflectionResidual WarningCode = "deflection_residual"
	// WarnSingularFlexibility: the flexibility matrix was too
	// ill-conditioned for the primary solve; a regularized solve was used.
	WarnSingularFlexibility WarningCode = "singular_flexibility"
	// WarnFallbackUsed: diagrams come from the degraded whole-domain
	// integrator instead of the node-aware pipeline.
	WarnFallbackUsed WarningCode = "fallback_used"
)

// Warning is a non-fatal numerical finding attached to a Result.
type Warning struct {
	Code    WarningCode
	Message string
	Value   float64 // residual or condition magnitude where meaningful
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}
