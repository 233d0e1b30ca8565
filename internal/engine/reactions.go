package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/gobeam/internal/beam"
)

// maxFlexCond is the largest flexibility-matrix condition number the primary
// solve will accept. The coefficients carry quadrature error of roughly 1e-9
// relative, so a condition number near 1e6 already amplifies that error into
// the reaction digits that matter; beyond it the system is treated as
// singular and the engine degrades to the fallback path. Well-separated
// support layouts stay below 1e3.
const maxFlexCond = 1e6

// solveDeterminate resolves the two reactions of an isostatic beam from
// global equilibrium: moments about the left support give the right
// reaction, vertical balance gives the left one. Point moments enter the
// moment sum as free vectors. Always succeeds for a validated beam.
func solveDeterminate(b *beam.Beam, sup []beam.Support) []float64 {
	left := sup[0]
	right := sup[len(sup)-1]
	span := right.Position - left.Position

	var totalForce, aboutLeft float64
	for _, l := range b.Loads {
		totalForce += l.Resultant()
		aboutLeft += l.MomentAbout(left.Position)
	}
	rRight := aboutLeft / span
	rLeft := totalForce - rRight
	return []float64{rLeft, rRight}
}

// flexSystem keeps the assembled flexibility system so the fallback path can
// re-solve it with regularization after a singular primary solve.
type flexSystem struct {
	f     *mat.Dense // flexibility coefficients, (n-2)×(n-2)
	delta []float64  // deflections at redundants under the applied loads
	cond  float64
}

// solveFlexibility resolves an indeterminate beam with the flexibility
// (force) method. The primary structure keeps only the two extreme supports;
// each interior reaction is a redundant unknown R_j restoring zero
// deflection at its own position.
//
// With deflection positive upward and loads positive downward, the applied
// loads deflect the primary structure downward at redundant i by delta[i]
// (negative), and a unit upward force at redundant j (a point force of
// magnitude −1) deflects position i by f[i][j] (positive). Compatibility
// requires f·R + delta = 0, so the system solved is f·R = −delta, which
// yields upward-positive reactions for gravity loading. The convention is
// pinned by reference continuous-beam solutions in the package tests.
func solveFlexibility(b *beam.Beam, sup []beam.Support, opts Options) ([]float64, *flexSystem, error) {
	nr := len(sup) - 2
	xr := make([]float64, nr)
	for i := 0; i < nr; i++ {
		xr[i] = sup[i+1].Position
	}

	primary := primaryStructure(b, sup)
	primary.Loads = append(primary.Loads, b.Loads...)
	delta := deflectionsAt(primary, xr, opts)

	f := mat.NewDense(nr, nr, nil)
	for j := 0; j < nr; j++ {
		unit := primaryStructure(b, sup)
		unit.Loads = []beam.Load{beam.PointForce{Position: xr[j], Magnitude: -1}}
		col := deflectionsAt(unit, xr, opts)
		for i, v := range col {
			f.Set(i, j, v)
		}
	}

	sys := &flexSystem{f: f, delta: delta, cond: mat.Cond(f, 1)}
	if math.IsNaN(sys.cond) || sys.cond > maxFlexCond {
		return nil, sys, &SolveError{
			Code:    SingularFlexibilityMatrix,
			Message: fmt.Sprintf("flexibility matrix condition number %.3g exceeds %.0g", sys.cond, float64(maxFlexCond)),
			Cond:    sys.cond,
		}
	}

	rhs := mat.NewVecDense(nr, nil)
	for i, d := range delta {
		rhs.SetVec(i, -d)
	}
	var lu mat.LU
	lu.Factorize(f)
	sol := mat.NewVecDense(nr, nil)
	if err := lu.SolveVecTo(sol, false, rhs); err != nil {
		return nil, sys, &SolveError{
			Code:    SingularFlexibilityMatrix,
			Message: fmt.Sprintf("flexibility system solve failed: %v", err),
			Cond:    sys.cond,
		}
	}
	redundants := make([]float64, nr)
	for i := range redundants {
		redundants[i] = sol.AtVec(i)
	}
	return superpose(b, sup, redundants), sys, nil
}

// superpose assembles the full reaction vector: interior supports carry the
// solved redundants, and the extremes balance the applied loads together
// with every redundant re-applied to the primary structure as an upward
// force. Global equilibrium ΣR = ΣF holds by construction.
func superpose(b *beam.Beam, sup []beam.Support, redundants []float64) []float64 {
	combined := primaryStructure(b, sup)
	combined.Loads = append(combined.Loads, b.Loads...)
	for j, r := range redundants {
		combined.Loads = append(combined.Loads, beam.PointForce{
			Position:  sup[j+1].Position,
			Magnitude: -r,
		})
	}
	ext := solveDeterminate(combined, combined.OrderedSupports())

	out := make([]float64, len(sup))
	out[0] = ext[0]
	out[len(sup)-1] = ext[1]
	copy(out[1:len(sup)-1], redundants)
	return out
}

// primaryStructure builds the isostatic companion beam carrying only the two
// extreme supports. Loads start empty; callers attach what the pass needs.
func primaryStructure(b *beam.Beam, sup []beam.Support) *beam.Beam {
	return &beam.Beam{
		Length:   b.Length,
		E:        b.E,
		I:        b.I,
		Supports: []beam.Support{sup[0], sup[len(sup)-1]},
	}
}

// deflectionsAt runs the full determinate pipeline on an isostatic beam and
// returns the corrected deflection at each probe coordinate. Probes become
// breakpoints of the integration grid, so the values are exact samples, not
// grid-snapped neighbors.
func deflectionsAt(pb *beam.Beam, probes []float64, opts Options) []float64 {
	sup := pb.OrderedSupports()
	reactions := solveDeterminate(pb, sup)
	ns := buildNodes(pb, sup, probes)
	raw := integrate(pb, reactions, ns, opts)
	_, y, _ := correct(raw, pb.EI(), sup)

	out := make([]float64, len(probes))
	for i, idx := range raw.probeSample {
		out[i] = y[idx]
	}
	return out
}
