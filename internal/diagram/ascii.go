package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/alexiusacademia/gobeam/internal/beam"
	"github.com/alexiusacademia/gobeam/internal/engine"
)

// Default terminal chart geometry.
const (
	DefaultWidth  = 72
	DefaultHeight = 12
)

// label returns the axis caption for a diagram series.
func label(q engine.Quantity) string {
	switch q {
	case engine.Shear:
		return "V(x)"
	case engine.Moment:
		return "M(x)"
	case engine.Rotation:
		return "θ(x)"
	case engine.Deflection:
		return "y(x)"
	}
	return string(q)
}

// Resample evaluates one series on a uniform grid so every terminal column
// covers the same beam length. The engine's own grid is node-aligned and
// denser around short segments, which would stretch those regions if the
// samples were plotted directly.
func Resample(res *engine.Result, q engine.Quantity, width int) []float64 {
	if width < 2 {
		width = 2
	}
	out := make([]float64, width)
	for i := range out {
		x := res.Length * float64(i) / float64(width-1)
		out[i] = res.ValueAt(q, x)
	}
	return out
}

// Chart renders one diagram series as a terminal chart with its unit in the
// caption.
func Chart(res *engine.Result, q engine.Quantity, width, height int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	series := Resample(res, q, width)
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("%s [%s], x = 0 .. %.2f m", label(q), q.Unit(), res.Length)),
	)
}

// Charts renders all four diagram series stacked in presentation order.
func Charts(res *engine.Result, width, height int) string {
	var sb strings.Builder
	for i, q := range engine.Quantities {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(Chart(res, q, width, height))
	}
	return sb.String()
}

// Schematic draws the beam line with its supports and loads as a glyph
// strip: ▼ point forces, ↺/↻ point moments, ░ distributed patches, ▲
// supports under the beam line.
func Schematic(b *beam.Beam, width int) string {
	if width < 20 {
		width = 20
	}
	col := func(x float64) int {
		c := int(math.Round(x / b.Length * float64(width-1)))
		if c < 0 {
			c = 0
		}
		if c > width-1 {
			c = width - 1
		}
		return c
	}

	loads := make([]rune, width)
	patch := make([]rune, width)
	for i := range loads {
		loads[i] = ' '
		patch[i] = ' '
	}
	for _, l := range b.Loads {
		switch t := l.(type) {
		case beam.PointForce:
			g := '▼'
			if t.Magnitude < 0 {
				g = '▲'
			}
			loads[col(t.Position)] = g
		case beam.PointMoment:
			g := '↺'
			if t.Magnitude < 0 {
				g = '↻'
			}
			loads[col(t.Position)] = g
		case beam.DistributedLoad:
			for c := col(t.Start); c <= col(t.End); c++ {
				patch[c] = '░'
			}
		}
	}

	supports := make([]rune, width)
	for i := range supports {
		supports[i] = ' '
	}
	for _, s := range b.Supports {
		supports[col(s.Position)] = '▲'
	}

	var sb strings.Builder
	if strings.TrimSpace(string(patch)) != "" {
		sb.WriteString("  " + string(patch) + "\n")
	}
	if strings.TrimSpace(string(loads)) != "" {
		sb.WriteString("  " + string(loads) + "\n")
	}
	sb.WriteString("  " + strings.Repeat("═", width) + "\n")
	sb.WriteString("  " + string(supports) + "\n")
	sb.WriteString(fmt.Sprintf("  0%*s\n", width-1, fmt.Sprintf("%.2f m", b.Length)))
	return sb.String()
}

// SummaryBox frames a titled block of result lines.
func SummaryBox(title string, lines []string) string {
	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	// Sprintf pads by bytes, so widen the field by what multi-byte runes
	// (θ, ·) cost beyond their single display column.
	pad := func(s string) int {
		return maxLen - 4 + len(s) - len([]rune(s))
	}

	var sb strings.Builder
	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", pad(title), title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", pad(line), line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))
	return sb.String()
}
