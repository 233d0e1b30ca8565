package engine

import (
	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/gobeam/internal/beam"
)

// regularizationScale sizes the Tikhonov term of the fallback solve relative
// to the normal matrix trace.
const regularizationScale = 1e-8

// solveRegularized recovers redundant reactions from a flexibility system
// the primary solve rejected, by solving the Tikhonov-damped normal
// equations (fᵀf + λI)·R = −fᵀδ. Near-coincident redundants then split the
// load between them instead of producing huge opposing pairs. If even the
// damped factorization fails the redundants are zeroed and the extreme
// supports carry everything.
func solveRegularized(sys *flexSystem) []float64 {
	n := len(sys.delta)
	var ftf mat.Dense
	ftf.Mul(sys.f.T(), sys.f)
	lambda := regularizationScale * mat.Trace(&ftf) / float64(n)

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := ftf.At(i, j)
			if i == j {
				v += lambda
			}
			sym.SetSym(i, j, v)
		}
	}
	rhs := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		var s float64
		for k := 0; k < n; k++ {
			s += sys.f.At(k, i) * sys.delta[k]
		}
		rhs.SetVec(i, -s)
	}

	var ch mat.Cholesky
	if ch.Factorize(sym) {
		sol := mat.NewVecDense(n, nil)
		if err := ch.SolveVecTo(sol, rhs); err == nil {
			out := make([]float64, n)
			for i := range out {
				out[i] = sol.AtVec(i)
			}
			return out
		}
	}
	return make([]float64, n)
}

// fallbackResult produces a degraded but usable Result after a singular
// flexibility solve: regularized redundants, then the whole-domain
// integrator instead of the node-aware pipeline. The result always carries
// WarnSingularFlexibility and WarnFallbackUsed.
func fallbackResult(b *beam.Beam, sup []beam.Support, sys *flexSystem, serr *SolveError, opts Options) *Result {
	redundants := solveRegularized(sys)
	reactions := superpose(b, sup, redundants)
	x, shear, moment, theta, y := integrateWholeDomain(b, reactions, sup, opts)

	res := &Result{
		Class:      beam.Indeterminate,
		Length:     b.Length,
		Reactions:  make([]Reaction, len(sup)),
		X:          x,
		Shear:      shear,
		Moment:     moment,
		Rotation:   theta,
		Deflection: y,
		Resolution: opts.Resolution,
		Warnings: []Warning{
			{Code: WarnSingularFlexibility, Message: serr.Message, Value: serr.Cond},
			{
				Code:    WarnFallbackUsed,
				Message: "whole-domain integrator used; deflection anchored at the last support only",
			},
		},
	}
	for i, s := range sup {
		res.Reactions[i] = Reaction{Name: s.Name, Position: s.Position, Value: reactions[i]}
	}
	return res
}

// integrateWholeDomain evaluates the diagrams on a uniform grid without node
// alignment. Shear comes from the closed-form load sum with the half-value
// Heaviside convention at coincident samples, moment from the cumulative
// trapezoid of shear plus point-moment steps, then rotation and deflection
// by further cumulative integration. Deflection is anchored to zero at the
// grid sample nearest the last support; other supports keep whatever
// residual the smeared jumps leave behind.
func integrateWholeDomain(b *beam.Beam, reactions []float64, sup []beam.Support, opts Options) (x, shear, moment, theta, y []float64) {
	n := opts.Resolution + 1
	x = make([]float64, n)
	shear = make([]float64, n)
	moment = make([]float64, n)
	theta = make([]float64, n)
	y = make([]float64, n)
	ei := b.EI()

	var cum float64
	for k := 0; k < n; k++ {
		xk := b.Length * float64(k) / float64(n-1)
		x[k] = xk

		var v, mStep float64
		for i, s := range sup {
			v += reactions[i] * heaviside(xk-s.Position)
		}
		for _, l := range b.Loads {
			switch t := l.(type) {
			case beam.PointForce:
				v -= t.Magnitude * heaviside(xk-t.Position)
			case beam.PointMoment:
				mStep += t.Magnitude * heaviside(xk-t.Position)
			default:
				v -= partialResultant(l, xk)
			}
		}
		shear[k] = v
		if k > 0 {
			cum += 0.5 * (x[k] - x[k-1]) * (shear[k-1] + shear[k])
		}
		moment[k] = cum + mStep
	}
	for k := 1; k < n; k++ {
		dx := x[k] - x[k-1]
		theta[k] = theta[k-1] + 0.5*dx*(moment[k]+moment[k-1])/ei
		y[k] = y[k-1] + 0.5*dx*(theta[k]+theta[k-1])
	}

	lastPos := sup[len(sup)-1].Position
	idx := int(float64(n-1)*lastPos/b.Length + 0.5)
	if idx >= n {
		idx = n - 1
	}
	anchor := y[idx]
	for k := range y {
		y[k] -= anchor
	}
	return x, shear, moment, theta, y
}

// partialResultant is the accumulated resultant of a distributed load left
// of x, exact for linear intensity.
func partialResultant(l beam.Load, x float64) float64 {
	s, e := l.Span()
	switch {
	case x <= s:
		return 0
	case x >= e:
		return l.Resultant()
	}
	return 0.5 * (l.IntensityAt(s) + l.IntensityAt(x)) * (x - s)
}

// heaviside is the unit step with the symmetric half-value convention when
// the sample lands exactly on the action.
func heaviside(d float64) float64 {
	switch {
	case d > coordTol:
		return 1
	case d < -coordTol:
		return 0
	}
	return 0.5
}
