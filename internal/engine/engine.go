// Package engine computes shear, moment, rotation and deflection diagrams
// for straight elastic beams under the Euler–Bernoulli model. Reactions of
// two-support beams come from closed-form statics; beams with interior
// supports are resolved with the flexibility method, falling back to a
// regularized whole-domain pass when the flexibility system is singular.
package engine

import (
	"errors"

	"github.com/alexiusacademia/gobeam/internal/beam"
)

// Analyze runs the full pipeline on a beam at the default resolution.
func Analyze(b *beam.Beam) (*Result, error) {
	return AnalyzeWithOptions(b, Options{})
}

// AnalyzeWithOptions validates the beam, resolves its reactions, integrates
// the diagrams over the structural node grid and applies the boundary
// corrections. A singular flexibility system does not fail the analysis; the
// result then comes from the fallback integrator and says so in its
// warnings. Any validation problem is returned as a *beam.ValidationError.
func AnalyzeWithOptions(b *beam.Beam, opts Options) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	o := opts.normalized()
	sup := b.OrderedSupports()
	class := b.Classify()

	var reactions []float64
	if class == beam.Determinate {
		reactions = solveDeterminate(b, sup)
	} else {
		var sys *flexSystem
		var err error
		reactions, sys, err = solveFlexibility(b, sup, o)
		if err != nil {
			var serr *SolveError
			if !errors.As(err, &serr) {
				return nil, err
			}
			return fallbackResult(b, sup, sys, serr, o), nil
		}
	}

	ns := buildNodes(b, sup, nil)
	raw := integrate(b, reactions, ns, o)
	theta, y, warns := correct(raw, b.EI(), sup)

	res := &Result{
		Class:      class,
		Length:     b.Length,
		Reactions:  make([]Reaction, len(sup)),
		X:          raw.x,
		Shear:      raw.shear,
		Moment:     raw.moment,
		Rotation:   theta,
		Deflection: y,
		Nodes:      raw.nodes,
		Warnings:   warns,
		Resolution: o.Resolution,
	}
	for i, s := range sup {
		res.Reactions[i] = Reaction{Name: s.Name, Position: s.Position, Value: reactions[i]}
	}
	return res, nil
}
