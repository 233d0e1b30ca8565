package engine

import (
	"math"
	"sort"

	"github.com/alexiusacademia/gobeam/internal/beam"
)

// Quantity names one of the four diagram series of a Result.
type Quantity string

const (
	Shear      Quantity = "shear"
	Moment     Quantity = "moment"
	Rotation   Quantity = "rotation"
	Deflection Quantity = "deflection"
)

// Quantities lists the diagram series in presentation order.
var Quantities = []Quantity{Shear, Moment, Rotation, Deflection}

// Unit returns the base SI unit of the quantity. Presentation layers
// convert through the units package when another system is wanted.
func (q Quantity) Unit() string {
	switch q {
	case Shear:
		return "N"
	case Moment:
		return "N·m"
	case Rotation:
		return "rad"
	case Deflection:
		return "m"
	}
	return ""
}

// Reaction is one resolved support reaction, positive upward.
type Reaction struct {
	Name     string  `json:"name"`
	Position float64 `json:"position"` // m from the left end
	Value    float64 `json:"value"`    // N
}

// NodeValue records the diagram state at one structural node. Shear and
// moment may jump at a node, so both one-sided values are kept; rotation and
// deflection are continuous.
type NodeValue struct {
	X           float64 `json:"x"`
	ShearLeft   float64 `json:"shear_left"`
	ShearRight  float64 `json:"shear_right"`
	MomentLeft  float64 `json:"moment_left"`
	MomentRight float64 `json:"moment_right"`
	Rotation    float64 `json:"rotation"`
	Deflection  float64 `json:"deflection"`
}

// Extreme is the location and value of a series extremum.
type Extreme struct {
	X     float64 `json:"x"`
	Value float64 `json:"value"`
}

// Result holds the complete outcome of one analysis: resolved reactions,
// dense diagram series sharing the X grid, per-node jump values and any
// numerical warnings. Jump coordinates appear twice in X, once with the
// incoming and once with the outgoing sample, so discontinuities survive in
// the dense series exactly.
type Result struct {
	Class      beam.SystemClass `json:"class"`
	Length     float64          `json:"length"`
	Reactions  []Reaction       `json:"reactions"`
	X          []float64        `json:"x"`
	Shear      []float64        `json:"shear"`
	Moment     []float64        `json:"moment"`
	Rotation   []float64        `json:"rotation"`
	Deflection []float64        `json:"deflection"`
	Nodes      []NodeValue      `json:"nodes,omitempty"`
	Warnings   []Warning        `json:"warnings,omitempty"`
	Resolution int              `json:"resolution"`
}

// Series returns the dense samples of the requested quantity, sharing the
// Result's X grid. Unknown quantities return nil.
func (r *Result) Series(q Quantity) []float64 {
	switch q {
	case Shear:
		return r.Shear
	case Moment:
		return r.Moment
	case Rotation:
		return r.Rotation
	case Deflection:
		return r.Deflection
	}
	return nil
}

// ValueAt linearly interpolates the requested quantity at x, clamped to the
// beam domain. At a jump coordinate the outgoing (right-side) value is
// returned; use Nodes for both one-sided values.
func (r *Result) ValueAt(q Quantity, x float64) float64 {
	s := r.Series(q)
	if len(s) == 0 {
		return 0
	}
	n := len(r.X)
	i := sort.SearchFloat64s(r.X, x)
	if i >= n {
		return s[n-1]
	}
	if r.X[i] == x {
		for i+1 < n && r.X[i+1] == x {
			i++
		}
		return s[i]
	}
	if i == 0 {
		return s[0]
	}
	x0, x1 := r.X[i-1], r.X[i]
	t := (x - x0) / (x1 - x0)
	return s[i-1] + t*(s[i]-s[i-1])
}

// Extremes scans the requested series and returns its minimum and maximum
// together with their coordinates. Both one-sided values at jumps take part
// in the scan.
func (r *Result) Extremes(q Quantity) (min, max Extreme) {
	s := r.Series(q)
	if len(s) == 0 {
		return
	}
	min = Extreme{X: r.X[0], Value: s[0]}
	max = min
	for k, v := range s {
		if v < min.Value {
			min = Extreme{X: r.X[k], Value: v}
		}
		if v > max.Value {
			max = Extreme{X: r.X[k], Value: v}
		}
	}
	return
}

// AbsExtreme returns the sample with the largest magnitude in the series,
// the governing value for a design check. Ties go to the maximum.
func (r *Result) AbsExtreme(q Quantity) Extreme {
	min, max := r.Extremes(q)
	if math.Abs(min.Value) > math.Abs(max.Value) {
		return min
	}
	return max
}

// ReactionSum returns the total of all support reactions. For a beam in
// equilibrium it matches the total applied load.
func (r *Result) ReactionSum() float64 {
	var sum float64
	for _, re := range r.Reactions {
		sum += re.Value
	}
	return sum
}

// HasWarning reports whether a warning with the given code is attached.
func (r *Result) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
