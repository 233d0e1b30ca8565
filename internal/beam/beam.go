// Package beam defines the analysis model for a single prismatic
// Euler-Bernoulli span: geometry, stiffness, supports and loads, together
// with the structural validation that gates every solve.
//
// All quantities are SI (m, N, Pa, m⁴). Unit conversion is a presentation
// concern and happens outside this package.
package beam

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Validation tolerances and model bounds.
const (
	// SupportSpacingTol is the minimum admissible distance between two
	// supports in m. Closer pairs are structurally the same support.
	SupportSpacingTol = 1e-3

	// MaxSupports and MaxLoads reject pathological inputs before they can
	// inflate the breakpoint set.
	MaxSupports = 12
	MaxLoads    = 256
)

// SystemClass is the static classification of a beam.
type SystemClass int

const (
	// Underconstrained means fewer than two supports; no solve is possible.
	Underconstrained SystemClass = iota
	// Determinate means exactly two supports; reactions follow from statics.
	Determinate
	// Indeterminate means three or more supports; redundant reactions are
	// resolved with the flexibility method.
	Indeterminate
)

func (c SystemClass) String() string {
	switch c {
	case Determinate:
		return "determinate"
	case Indeterminate:
		return "indeterminate"
	default:
		return "underconstrained"
	}
}

// MarshalJSON encodes the class by name so API payloads stay readable.
func (c SystemClass) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *SystemClass) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "determinate":
		*c = Determinate
	case "indeterminate":
		*c = Indeterminate
	case "underconstrained":
		*c = Underconstrained
	default:
		return fmt.Errorf("unknown system class %q", s)
	}
	return nil
}

// Support is a simple (roller) support. It contributes exactly one unknown
// vertical reaction; rotational restraint is not modeled.
type Support struct {
	Name     string
	Position float64 // m from the left end
}

// Beam describes a single straight elastic span. Build it with New or
// NewWithRigidity, then add supports and loads; every mutation validates
// eagerly so an inconsistent beam never reaches the solver.
//
// A Beam must not be mutated while an analysis using it is running. For
// concurrent work, construct one Beam per request.
type Beam struct {
	Length float64 // m
	E      float64 // Pa
	I      float64 // m⁴

	Supports []Support // kept sorted by position
	Loads    []Load
}

// New constructs a beam from its length, elastic modulus and second moment
// of area.
func New(length, e, i float64) (*Beam, error) {
	switch {
	case length <= 0 || math.IsNaN(length) || math.IsInf(length, 0):
		return nil, validationErrorf(NonPositiveProperty, "length must be positive, got %g", length)
	case e <= 0 || math.IsNaN(e) || math.IsInf(e, 0):
		return nil, validationErrorf(NonPositiveProperty, "elastic modulus must be positive, got %g", e)
	case i <= 0 || math.IsNaN(i) || math.IsInf(i, 0):
		return nil, validationErrorf(NonPositiveProperty, "moment of inertia must be positive, got %g", i)
	}
	return &Beam{Length: length, E: e, I: i}, nil
}

// NewWithRigidity constructs a beam directly from the flexural rigidity
// product E·I.
func NewWithRigidity(length, ei float64) (*Beam, error) {
	return New(length, ei, 1)
}

// EI returns the flexural rigidity in N·m².
func (b *Beam) EI() float64 {
	return b.E * b.I
}

// AddSupport places a simple support at position with an auto-generated
// name. Names carry mm precision so any two supports far enough apart to
// pass the spacing check also get distinct names.
func (b *Beam) AddSupport(position float64) error {
	return b.AddNamedSupport(fmt.Sprintf("R_%.3f", position), position)
}

// AddNamedSupport places a simple support at position. It fails when the
// position leaves the beam, sits within SupportSpacingTol of an existing
// support, or reuses a support name.
func (b *Beam) AddNamedSupport(name string, position float64) error {
	if len(b.Supports) >= MaxSupports {
		return validationErrorf(TooManySupports, "at most %d supports are allowed", MaxSupports)
	}
	if position < 0 || position > b.Length || math.IsNaN(position) {
		return validationErrorf(OutOfDomainSupport, "support at %g m is outside the beam [0, %g]", position, b.Length)
	}
	for _, s := range b.Supports {
		if math.Abs(s.Position-position) < SupportSpacingTol {
			return validationErrorf(DuplicateSupport, "support at %g m is within %g m of support %q", position, SupportSpacingTol, s.Name)
		}
		if s.Name == name {
			return validationErrorf(DuplicateSupport, "support name %q already in use", name)
		}
	}
	b.Supports = append(b.Supports, Support{Name: name, Position: position})
	sort.Slice(b.Supports, func(i, j int) bool { return b.Supports[i].Position < b.Supports[j].Position })
	return nil
}

// AddLoad attaches a load after checking it against the beam domain.
func (b *Beam) AddLoad(l Load) error {
	if len(b.Loads) >= MaxLoads {
		return validationErrorf(TooManyLoads, "at most %d loads are allowed", MaxLoads)
	}
	if err := b.checkLoad(l); err != nil {
		return err
	}
	b.Loads = append(b.Loads, l)
	return nil
}

func (b *Beam) checkLoad(l Load) error {
	start, end := l.Span()
	if math.IsNaN(start) || math.IsNaN(end) {
		return validationErrorf(OutOfDomainLoad, "load span is not a number")
	}
	if start < 0 || end > b.Length {
		return validationErrorf(OutOfDomainLoad, "load span [%g, %g] is outside the beam [0, %g]", start, end, b.Length)
	}
	if d, ok := l.(DistributedLoad); ok && d.Start >= d.End {
		return validationErrorf(InvalidRange, "distributed load start %g m must lie left of end %g m", d.Start, d.End)
	}
	return nil
}

// Classify reports the static class without solving anything.
func (b *Beam) Classify() SystemClass {
	switch {
	case len(b.Supports) < 2:
		return Underconstrained
	case len(b.Supports) == 2:
		return Determinate
	default:
		return Indeterminate
	}
}

// Validate re-checks the complete model. Add methods already validate
// eagerly; the engine runs this once more before solving so a beam
// assembled by hand (or mutated behind the accessors) is still caught.
func (b *Beam) Validate() error {
	if _, err := New(b.Length, b.E, b.I); err != nil {
		return err
	}
	if len(b.Supports) < 2 {
		return validationErrorf(UnderconstrainedSystem, "need at least 2 supports, have %d", len(b.Supports))
	}
	if len(b.Supports) > MaxSupports {
		return validationErrorf(TooManySupports, "at most %d supports are allowed", MaxSupports)
	}
	if len(b.Loads) > MaxLoads {
		return validationErrorf(TooManyLoads, "at most %d loads are allowed", MaxLoads)
	}
	names := make(map[string]bool, len(b.Supports))
	for i, s := range b.Supports {
		if s.Position < 0 || s.Position > b.Length || math.IsNaN(s.Position) {
			return validationErrorf(OutOfDomainSupport, "support %q at %g m is outside the beam [0, %g]", s.Name, s.Position, b.Length)
		}
		if names[s.Name] {
			return validationErrorf(DuplicateSupport, "support name %q already in use", s.Name)
		}
		names[s.Name] = true
		for _, t := range b.Supports[i+1:] {
			if math.Abs(s.Position-t.Position) < SupportSpacingTol {
				return validationErrorf(DuplicateSupport, "supports %q and %q are within %g m of each other", s.Name, t.Name, SupportSpacingTol)
			}
		}
	}
	for _, l := range b.Loads {
		if err := b.checkLoad(l); err != nil {
			return err
		}
	}
	return nil
}

// OrderedSupports returns a copy of the supports sorted by position. The
// engine works on this copy so caller-side ordering never matters.
func (b *Beam) OrderedSupports() []Support {
	out := make([]Support, len(b.Supports))
	copy(out, b.Supports)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// TotalLoad returns the sum of all applied downward resultants in N.
func (b *Beam) TotalLoad() float64 {
	var sum float64
	for _, l := range b.Loads {
		sum += l.Resultant()
	}
	return sum
}
