package export

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/alexiusacademia/gobeam/internal/beam"
	"github.com/alexiusacademia/gobeam/internal/engine"
	"github.com/alexiusacademia/gobeam/internal/units"
)

// WriteReport writes a one-page PDF summary of the analysis: model data,
// reactions, governing values and warnings, in the display units of the
// given system.
func WriteReport(w io.Writer, b *beam.Beam, res *engine.Result, sys units.System) error {
	fL, err := units.Factor(units.Length, sys.Length)
	if err != nil {
		return err
	}
	fF, err := units.Factor(units.Force, sys.Force)
	if err != nil {
		return err
	}
	fY, err := units.Factor(units.Deflection, sys.Deflection)
	if err != nil {
		return err
	}
	fW, err := units.Factor(units.LineLoad, sys.LineLoad)
	if err != nil {
		return err
	}
	momentUnit := fmt.Sprintf("%s·%s", sys.Force, sys.Length)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Beam Analysis Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("System: %s, %d supports, %d loads", res.Class, len(b.Supports), len(b.Loads)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Model")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Length: %.4g %s", b.Length/fL, sys.Length))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Flexural rigidity EI: %.4g N·m²", b.EI())))
	pdf.Ln(6)
	for _, s := range b.OrderedSupports() {
		pdf.Cell(0, 6, fmt.Sprintf("Support %s at %.4g %s", s.Name, s.Position/fL, sys.Length))
		pdf.Ln(6)
	}
	for _, l := range b.Loads {
		pdf.Cell(0, 6, tr(describeLoad(l, sys, fL, fF, fW)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Reactions")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 7, "Support", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, fmt.Sprintf("Position [%s]", sys.Length), "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 7, fmt.Sprintf("Reaction [%s]", sys.Force), "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, re := range res.Reactions {
		pdf.CellFormat(60, 7, re.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, fmt.Sprintf("%.4g", re.Position/fL), "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 7, fmt.Sprintf("%.6g", re.Value/fF), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Governing Values")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	for _, q := range engine.Quantities {
		gov := res.AbsExtreme(q)
		value, unit := gov.Value, q.Unit()
		switch q {
		case engine.Shear:
			value, unit = value/fF, sys.Force
		case engine.Moment:
			value, unit = value/(fF*fL), momentUnit
		case engine.Deflection:
			value, unit = value/fY, sys.Deflection
		}
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s: %.6g %s at x = %.4g %s", q, value, unit, gov.X/fL, sys.Length)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	if len(res.Warnings) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Warnings")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		for _, warn := range res.Warnings {
			pdf.MultiCell(0, 6, tr(warn.String()), "", "L", false)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Sign conventions: loads act positive downward, reactions and deflections positive upward, moments positive counter-clockwise.", "", "L", false)

	return pdf.Output(w)
}

// DescribeLoad renders one load as a human-readable line in the display
// units of the given system.
func DescribeLoad(l beam.Load, sys units.System) (string, error) {
	fL, err := units.Factor(units.Length, sys.Length)
	if err != nil {
		return "", err
	}
	fF, err := units.Factor(units.Force, sys.Force)
	if err != nil {
		return "", err
	}
	fW, err := units.Factor(units.LineLoad, sys.LineLoad)
	if err != nil {
		return "", err
	}
	return describeLoad(l, sys, fL, fF, fW), nil
}

func describeLoad(l beam.Load, sys units.System, fL, fF, fW float64) string {
	switch v := l.(type) {
	case beam.PointForce:
		return fmt.Sprintf("Point force %.6g %s at %.4g %s", v.Magnitude/fF, sys.Force, v.Position/fL, sys.Length)
	case beam.PointMoment:
		return fmt.Sprintf("Point moment %.6g %s·%s at %.4g %s", v.Magnitude/(fF*fL), sys.Force, sys.Length, v.Position/fL, sys.Length)
	case beam.DistributedLoad:
		if v.StartIntensity == v.EndIntensity {
			return fmt.Sprintf("Uniform load %.6g %s over %.4g..%.4g %s",
				v.StartIntensity/fW, sys.LineLoad, v.Start/fL, v.End/fL, sys.Length)
		}
		return fmt.Sprintf("Varying load %.6g..%.6g %s over %.4g..%.4g %s",
			v.StartIntensity/fW, v.EndIntensity/fW, sys.LineLoad, v.Start/fL, v.End/fL, sys.Length)
	}
	return fmt.Sprintf("%v", l)
}
