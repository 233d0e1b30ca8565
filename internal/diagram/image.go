package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/gobeam/internal/engine"
)

var seriesColors = map[engine.Quantity]color.RGBA{
	engine.Shear:      {R: 0, G: 0, B: 139, A: 255},
	engine.Moment:     {R: 0, G: 100, B: 0, A: 255},
	engine.Rotation:   {R: 139, G: 69, B: 19, A: 255},
	engine.Deflection: {R: 128, G: 0, B: 128, A: 255},
}

func plotTitle(q engine.Quantity) string {
	switch q {
	case engine.Shear:
		return "Shear Force Diagram"
	case engine.Moment:
		return "Bending Moment Diagram"
	case engine.Rotation:
		return "Rotation Diagram"
	case engine.Deflection:
		return "Deflection Diagram"
	}
	return string(q)
}

// ExportImage writes one diagram series to an image file; the format follows
// the extension (.png, .svg, .pdf), defaulting to PNG.
func ExportImage(res *engine.Result, q engine.Quantity, filename string) error {
	series := res.Series(q)
	if series == nil {
		return fmt.Errorf("unknown quantity %q", q)
	}

	p := plot.New()
	p.Title.Text = plotTitle(q)
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = fmt.Sprintf("%s (%s)", label(q), q.Unit())

	pts := make(plotter.XYs, len(res.X))
	for i := range res.X {
		pts[i] = plotter.XY{X: res.X[i], Y: series[i]}
	}

	// Shaded area between the curve and the baseline.
	area := make(plotter.XYs, 0, len(pts)+2)
	area = append(area, plotter.XY{X: res.X[0], Y: 0})
	area = append(area, pts...)
	area = append(area, plotter.XY{X: res.X[len(res.X)-1], Y: 0})
	fill, err := plotter.NewPolygon(area)
	if err != nil {
		return err
	}
	c := seriesColors[q]
	fill.Color = color.RGBA{R: c.R, G: c.G, B: c.B, A: 60}
	fill.LineStyle.Color = color.RGBA{A: 0}
	p.Add(fill)

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = c
	p.Add(line)

	zero, err := plotter.NewLine(plotter.XYs{
		{X: res.X[0], Y: 0},
		{X: res.X[len(res.X)-1], Y: 0},
	})
	if err != nil {
		return err
	}
	zero.LineStyle.Width = vg.Points(1)
	zero.LineStyle.Color = color.Gray{Y: 128}
	zero.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(zero)

	marks := make(plotter.XYs, len(res.Reactions))
	for i, r := range res.Reactions {
		marks[i] = plotter.XY{X: r.Position, Y: 0}
	}
	supports, err := plotter.NewScatter(marks)
	if err != nil {
		return err
	}
	supports.GlyphStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	supports.GlyphStyle.Radius = vg.Points(4)
	supports.GlyphStyle.Shape = draw.TriangleGlyph{}
	p.Add(supports)

	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(10*vg.Inch, 4*vg.Inch, filename)
	default:
		return p.Save(10*vg.Inch, 4*vg.Inch, filename+".png")
	}
}

// ExportImages writes all four diagram series into dir as <quantity>.<format>.
func ExportImages(res *engine.Result, dir, format string) ([]string, error) {
	if format == "" {
		format = "png"
	}
	var files []string
	for _, q := range engine.Quantities {
		name := filepath.Join(dir, fmt.Sprintf("%s.%s", q, format))
		if err := ExportImage(res, q, name); err != nil {
			return files, fmt.Errorf("export %s: %w", q, err)
		}
		files = append(files, name)
	}
	return files, nil
}
