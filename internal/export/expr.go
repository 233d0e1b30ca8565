// Package export moves beam models and analysis results across formats:
// CSV and XLSX tables, PDF reports, JSON snapshots and TOML definition
// files. It also owns the compact load expression grammar shared by the
// CLI flags and the XLSX batch sheets.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexiusacademia/gobeam/internal/beam"
	"github.com/alexiusacademia/gobeam/internal/units"
)

// ParseLoad parses one load expression into a model load. The grammar is
//
//	P@pos=mag        concentrated force
//	M@pos=mag        concentrated moment
//	W@a..b=w         uniform distributed load
//	W@a..b=w1..w2    linearly varying distributed load
//
// Numbers are taken as written; apply ConvertLoad when the source text is
// not in SI units.
func ParseLoad(s string) (beam.Load, error) {
	kind, rest, ok := strings.Cut(s, "@")
	if !ok {
		return nil, fmt.Errorf("load %q: expected kind@position=value", s)
	}
	where, what, ok := strings.Cut(rest, "=")
	if !ok {
		return nil, fmt.Errorf("load %q: missing =value", s)
	}

	switch strings.ToUpper(strings.TrimSpace(kind)) {
	case "P":
		pos, err := parseNum(s, where)
		if err != nil {
			return nil, err
		}
		mag, err := parseNum(s, what)
		if err != nil {
			return nil, err
		}
		return beam.PointForce{Position: pos, Magnitude: mag}, nil
	case "M":
		pos, err := parseNum(s, where)
		if err != nil {
			return nil, err
		}
		mag, err := parseNum(s, what)
		if err != nil {
			return nil, err
		}
		return beam.PointMoment{Position: pos, Magnitude: mag}, nil
	case "W":
		start, end, err := parseRange(s, where)
		if err != nil {
			return nil, err
		}
		w1, w2, err := parseRangeOrScalar(s, what)
		if err != nil {
			return nil, err
		}
		return beam.DistributedLoad{Start: start, End: end, StartIntensity: w1, EndIntensity: w2}, nil
	}
	return nil, fmt.Errorf("load %q: unknown kind %q (want P, M or W)", s, kind)
}

// ParseLoads parses a semicolon separated list of load expressions.
func ParseLoads(s string) ([]beam.Load, error) {
	var out []beam.Load
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		l, err := ParseLoad(part)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// ParseSupports parses a semicolon separated list of support positions.
func ParseSupports(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pos, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("support position %q: %w", part, err)
		}
		out = append(out, pos)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("supports %q: no positions", s)
	}
	return out, nil
}

// ConvertLoad rescales a load written in the system's display units into
// SI. Positions follow the length unit, forces the force unit, moments the
// force times length product and intensities the line load unit.
func ConvertLoad(l beam.Load, sys units.System) (beam.Load, error) {
	fL, err := units.Factor(units.Length, sys.Length)
	if err != nil {
		return nil, err
	}
	switch v := l.(type) {
	case beam.PointForce:
		fF, err := units.Factor(units.Force, sys.Force)
		if err != nil {
			return nil, err
		}
		return beam.PointForce{Position: v.Position * fL, Magnitude: v.Magnitude * fF}, nil
	case beam.PointMoment:
		fF, err := units.Factor(units.Force, sys.Force)
		if err != nil {
			return nil, err
		}
		return beam.PointMoment{Position: v.Position * fL, Magnitude: v.Magnitude * fF * fL}, nil
	case beam.DistributedLoad:
		fW, err := units.Factor(units.LineLoad, sys.LineLoad)
		if err != nil {
			return nil, err
		}
		return beam.DistributedLoad{
			Start:          v.Start * fL,
			End:            v.End * fL,
			StartIntensity: v.StartIntensity * fW,
			EndIntensity:   v.EndIntensity * fW,
		}, nil
	}
	return nil, fmt.Errorf("cannot convert load of type %T", l)
}

// FormatLoad renders a load back into the expression grammar with SI
// numbers. It is the inverse of ParseLoad for the supported load kinds.
func FormatLoad(l beam.Load) string {
	switch v := l.(type) {
	case beam.PointForce:
		return fmt.Sprintf("P@%s=%s", num(v.Position), num(v.Magnitude))
	case beam.PointMoment:
		return fmt.Sprintf("M@%s=%s", num(v.Position), num(v.Magnitude))
	case beam.DistributedLoad:
		if v.StartIntensity == v.EndIntensity {
			return fmt.Sprintf("W@%s..%s=%s", num(v.Start), num(v.End), num(v.StartIntensity))
		}
		return fmt.Sprintf("W@%s..%s=%s..%s", num(v.Start), num(v.End), num(v.StartIntensity), num(v.EndIntensity))
	}
	return fmt.Sprintf("%v", l)
}

// FormatSupports renders support positions as a semicolon separated list,
// the inverse of ParseSupports.
func FormatSupports(sup []beam.Support) string {
	parts := make([]string, len(sup))
	for i, s := range sup {
		parts[i] = num(s.Position)
	}
	return strings.Join(parts, ";")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseNum(expr, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("load %q: bad number %q", expr, s)
	}
	return v, nil
}

func parseRange(expr, s string) (float64, float64, error) {
	a, b, ok := strings.Cut(s, "..")
	if !ok {
		return 0, 0, fmt.Errorf("load %q: expected a..b range, got %q", expr, s)
	}
	start, err := parseNum(expr, a)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseNum(expr, b)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseRangeOrScalar(expr, s string) (float64, float64, error) {
	if strings.Contains(s, "..") {
		return parseRange(expr, s)
	}
	v, err := parseNum(expr, s)
	if err != nil {
		return 0, 0, err
	}
	return v, v, nil
}
