// Package units converts between display units and the SI base units the
// analysis works in. Every computation stays SI (m, N, Pa, m⁴); conversion
// happens once on input and once on output.
package units

import "fmt"

// Dimension is a physical quantity kind with its own unit table.
type Dimension string

const (
	Length     Dimension = "length"
	Force      Dimension = "force"
	LineLoad   Dimension = "line_load"
	Modulus    Dimension = "modulus"
	Inertia    Dimension = "inertia"
	Deflection Dimension = "deflection"
)

// Multiply a value in the named unit by its factor to get SI; divide to go
// back. Gravity uses the conventional 9.81 for mass-style inputs.
var (
	lengthUnits = map[string]float64{
		"m":  1,
		"ft": 0.3048,
	}
	forceUnits = map[string]float64{
		"N":   1,
		"kN":  1e3,
		"lb":  4.4482216153,
		"kgf": 9.81,
	}
	lineLoadUnits = map[string]float64{
		"N/m":   1,
		"kN/m":  1e3,
		"lb/ft": 4.4482216153 / 0.3048,
		"kg/m":  9.81,
	}
	modulusUnits = map[string]float64{
		"Pa":  1,
		"MPa": 1e6,
		"GPa": 1e9,
	}
	inertiaUnits = map[string]float64{
		"m^4":  1,
		"cm^4": 1e-8,
	}
	deflectionUnits = map[string]float64{
		"m":  1,
		"mm": 1e-3,
	}
)

func table(dim Dimension) (map[string]float64, error) {
	switch dim {
	case Length:
		return lengthUnits, nil
	case Force:
		return forceUnits, nil
	case LineLoad:
		return lineLoadUnits, nil
	case Modulus:
		return modulusUnits, nil
	case Inertia:
		return inertiaUnits, nil
	case Deflection:
		return deflectionUnits, nil
	}
	return nil, fmt.Errorf("unknown dimension %q", dim)
}

// Factor returns the multiplier that takes one unit of dim into SI.
func Factor(dim Dimension, unit string) (float64, error) {
	m, err := table(dim)
	if err != nil {
		return 0, err
	}
	f, ok := m[unit]
	if !ok {
		return 0, fmt.Errorf("unknown %s unit %q", dim, unit)
	}
	return f, nil
}

// ToSI converts a value expressed in the given unit into base SI.
func ToSI(dim Dimension, unit string, v float64) (float64, error) {
	f, err := Factor(dim, unit)
	if err != nil {
		return 0, err
	}
	return v * f, nil
}

// FromSI converts a base-SI value into the given display unit.
func FromSI(dim Dimension, unit string, v float64) (float64, error) {
	f, err := Factor(dim, unit)
	if err != nil {
		return 0, err
	}
	return v / f, nil
}

// Units lists the known units of a dimension, for flag help texts and
// validation messages.
func Units(dim Dimension) []string {
	m, err := table(dim)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(m))
	for u := range m {
		out = append(out, u)
	}
	return out
}

// System is a named set of display units, one per dimension.
type System struct {
	ID          string
	Description string

	Length     string
	Force      string
	LineLoad   string
	Modulus    string
	Inertia    string
	Deflection string
}

// Systems are the selectable presets. The imperial preset keeps modulus and
// inertia metric; mixing those is the common hand-calculation convention the
// tables were built around.
var Systems = []System{
	{
		ID:          "si",
		Description: "SI base (N, m, Pa)",
		Length:      "m", Force: "N", LineLoad: "N/m",
		Modulus: "Pa", Inertia: "m^4", Deflection: "m",
	},
	{
		ID:          "si-kn",
		Description: "SI engineering (kN, m, GPa, mm deflections)",
		Length:      "m", Force: "kN", LineLoad: "kN/m",
		Modulus: "GPa", Inertia: "m^4", Deflection: "mm",
	},
	{
		ID:          "mass",
		Description: "Mass input (kgf, kg/m)",
		Length:      "m", Force: "kgf", LineLoad: "kg/m",
		Modulus: "Pa", Inertia: "m^4", Deflection: "mm",
	},
	{
		ID:          "imperial",
		Description: "Simplified imperial (lb, ft)",
		Length:      "ft", Force: "lb", LineLoad: "lb/ft",
		Modulus: "GPa", Inertia: "m^4", Deflection: "mm",
	},
}

// SystemByID finds a preset by its identifier.
func SystemByID(id string) (System, error) {
	for _, s := range Systems {
		if s.ID == id {
			return s, nil
		}
	}
	return System{}, fmt.Errorf("unknown unit system %q", id)
}

// UnitFor returns the system's display unit for a dimension.
func (s System) UnitFor(dim Dimension) string {
	switch dim {
	case Length:
		return s.Length
	case Force:
		return s.Force
	case LineLoad:
		return s.LineLoad
	case Modulus:
		return s.Modulus
	case Inertia:
		return s.Inertia
	case Deflection:
		return s.Deflection
	}
	return ""
}
