package engine

import (
	"math"

	"github.com/alexiusacademia/gobeam/internal/beam"
)

// Residual thresholds, relative to max(1, max|series|). Residuals below
// these are ordinary quadrature drift; larger ones are flagged as warnings
// because they usually point at a reaction bookkeeping problem upstream.
const (
	shearResidualTol      = 1e-5
	momentResidualTol     = 1e-5
	deflectionResidualTol = 1e-4
)

// correct imposes the boundary conditions on a raw integration pass.
//
// The moment array is drift-corrected against the beam ends: M(0)=0 holds by
// construction and M past the last jump at x=L is zero in exact statics, so
// the closing residual is removed with an affine ramp that is exact at both
// ends. Interior-support moments are continuity moments, a physical feature
// of indeterminate beams, and are deliberately left untouched.
//
// Rotation and deflection are then derived from the corrected moment by
// cumulative trapezoid integration and the deflection is anchored to zero at
// every support with a piecewise-linear correction (affine when there are
// exactly two supports); the rotation absorbs the rigid-body slope of that
// correction. The correction is exact at each support by construction.
func correct(raw *rawDiagrams, ei float64, sup []beam.Support) (theta, y []float64, warns []Warning) {
	n := len(raw.x)
	last := n - 1
	length := raw.x[last]

	// Shear must close to zero once every reaction has been applied.
	if r := raw.shear[last]; math.Abs(r) > shearResidualTol*math.Max(1, maxAbs(raw.shear)) {
		warns = append(warns, Warning{
			Code:    WarnShearResidual,
			Message: "shear does not return to zero past the last support",
			Value:   r,
		})
	}

	rM := raw.moment[last]
	if math.Abs(rM) > momentResidualTol*math.Max(1, maxAbs(raw.moment)) {
		warns = append(warns, Warning{
			Code:    WarnMomentResidual,
			Message: "free-end moment residual exceeded the drift threshold",
			Value:   rM,
		})
	}
	if length > 0 {
		for k := range raw.moment {
			raw.moment[k] -= rM * raw.x[k] / length
		}
		for i := range raw.nodes {
			shift := rM * raw.nodes[i].X / length
			raw.nodes[i].MomentLeft -= shift
			raw.nodes[i].MomentRight -= shift
		}
	}

	theta = make([]float64, n)
	y = make([]float64, n)
	for k := 1; k < n; k++ {
		dx := raw.x[k] - raw.x[k-1]
		theta[k] = theta[k-1] + 0.5*dx*(raw.moment[k]+raw.moment[k-1])/ei
		y[k] = y[k-1] + 0.5*dx*(theta[k]+theta[k-1])
	}

	// Support deflections before anchoring. The affine part through the
	// extreme supports is the legitimate pair of integration constants;
	// whatever an interior support deviates from that line is a genuine
	// compatibility residual and gets flagged when large.
	xs := make([]float64, len(sup))
	rs := make([]float64, len(sup))
	for j, s := range sup {
		xs[j] = s.Position
		rs[j] = y[raw.supportSample[j]]
	}
	js := len(sup) - 1
	slope := (rs[js] - rs[0]) / (xs[js] - xs[0])
	var worst float64
	for j := 1; j < js; j++ {
		res := rs[j] - (rs[0] + slope*(xs[j]-xs[0]))
		if a := math.Abs(res); a > worst {
			worst = a
		}
	}
	if worst > deflectionResidualTol*math.Max(1, maxAbs(y)) {
		warns = append(warns, Warning{
			Code:    WarnDeflectionResidual,
			Message: "interior support deflection residual exceeded the drift threshold",
			Value:   worst,
		})
	}
	for k := range y {
		y[k] -= interpAnchored(xs, rs, raw.x[k])
		theta[k] -= slope
	}
	for _, idx := range raw.supportSample {
		y[idx] = 0
	}

	for i := range raw.nodes {
		idx := raw.nodeSample[i]
		raw.nodes[i].Rotation = theta[idx]
		raw.nodes[i].Deflection = y[idx]
	}
	return theta, y, warns
}

// interpAnchored evaluates the piecewise-linear interpolant through the
// anchor points (xs, rs), extending the end segments beyond the extremes.
// At an anchor coordinate it returns the anchor value exactly.
func interpAnchored(xs, rs []float64, x float64) float64 {
	n := len(xs)
	if n == 1 {
		return rs[0]
	}
	j := 0
	switch {
	case x <= xs[0]:
		j = 0
	case x >= xs[n-1]:
		j = n - 2
	default:
		for j < n-2 && x > xs[j+1] {
			j++
		}
	}
	if x == xs[j] {
		return rs[j]
	}
	if x == xs[j+1] {
		return rs[j+1]
	}
	t := (x - xs[j]) / (xs[j+1] - xs[j])
	return rs[j] + t*(rs[j+1]-rs[j])
}

func maxAbs(vals []float64) float64 {
	var m float64
	for _, v := range vals {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
