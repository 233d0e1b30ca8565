package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gobeam/internal/beam"
	"github.com/alexiusacademia/gobeam/internal/diagram"
	"github.com/alexiusacademia/gobeam/internal/engine"
	"github.com/alexiusacademia/gobeam/internal/export"
	"github.com/alexiusacademia/gobeam/internal/units"
)

var (
	// Beam definition
	analyzeConfig   string
	analyzeLength   float64
	analyzeE        float64
	analyzeI        float64
	analyzeEI       float64
	analyzeSupports []string
	analyzeLoads    []string

	// Analysis options
	analyzeUnits      string
	analyzeResolution int

	// Presentation
	analyzeNoCharts bool

	// Export targets
	analyzeCSV        string
	analyzeXLSX       string
	analyzePDF        string
	analyzeJSON       string
	analyzePlotDir    string
	analyzePlotFormat string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute reactions and V/M/θ/y diagrams for a beam",
	Long: `Analyze a straight elastic beam: resolve the support reactions and
compute the shear, moment, rotation and deflection diagrams.

The beam comes either from inline flags or from a TOML definition file
(see 'gobeam config'). Inline values are read in the units of the
selected system (--units); definition files always store SI values.

Loads use a compact expression grammar, one entry per --load flag or
several separated by semicolons:
  P@pos=mag       point force (positive downward)
  M@pos=mag       point moment (positive counter-clockwise)
  W@a..b=w        uniform distributed load
  W@a..b=w1..w2   linearly varying distributed load

Examples:
  # Simply supported 6 m span, midspan point load, SI values
  gobeam analyze --length 6 --ei 30000 --support "0;6" --load "P@3=10000"

  # Engineering units: 10 kN point load, E in GPa and I in m^4
  gobeam analyze --units si-kn --length 6 --e 200 --i 8e-6 \
    --support "0;6" --load "P@3=10"

  # Two-span continuous beam from a definition file, PDF report
  gobeam analyze --config beam.toml --pdf report.pdf

  # Uniform load over three supports, PNG diagrams into ./plots
  gobeam analyze --length 10 --ei 50000 --support "0;5;10" \
    --load "W@0..10=2000" --plot plots`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Beam definition flags
	analyzeCmd.Flags().StringVarP(&analyzeConfig, "config", "c", "", "TOML beam definition file (replaces the inline flags)")
	analyzeCmd.Flags().Float64VarP(&analyzeLength, "length", "L", 0, "Span length")
	analyzeCmd.Flags().Float64Var(&analyzeE, "e", 0, "Elastic modulus")
	analyzeCmd.Flags().Float64Var(&analyzeI, "i", 0, "Second moment of area")
	analyzeCmd.Flags().Float64Var(&analyzeEI, "ei", 0, "Flexural rigidity E·I (replaces --e and --i)")
	analyzeCmd.Flags().StringArrayVarP(&analyzeSupports, "support", "s", nil, `Support positions, semicolon-separated or repeated ("0;6")`)
	analyzeCmd.Flags().StringArrayVarP(&analyzeLoads, "load", "l", nil, `Load expressions, semicolon-separated or repeated ("P@3=10000")`)

	// Analysis flags
	analyzeCmd.Flags().StringVarP(&analyzeUnits, "units", "u", "si", "Unit system: si, si-kn, mass, imperial")
	analyzeCmd.Flags().IntVarP(&analyzeResolution, "resolution", "r", 0, "Diagram samples across the span (0 = default)")

	// Presentation flags
	analyzeCmd.Flags().BoolVar(&analyzeNoCharts, "no-charts", false, "Skip the terminal diagram charts")

	// Export flags
	analyzeCmd.Flags().StringVar(&analyzeCSV, "csv", "", "Write the sample table to a CSV file")
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "Write the full workbook to an XLSX file")
	analyzeCmd.Flags().StringVar(&analyzePDF, "pdf", "", "Write the analysis report to a PDF file")
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "", "Write the beam definition snapshot to a JSON file")
	analyzeCmd.Flags().StringVar(&analyzePlotDir, "plot", "", "Write diagram images into a directory")
	analyzeCmd.Flags().StringVar(&analyzePlotFormat, "plot-format", "png", "Diagram image format: png, svg, pdf")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)

	sys, err := units.SystemByID(analyzeUnits)
	if err != nil {
		return err
	}

	b, err := analyzeModel(sys)
	if err != nil {
		return err
	}

	res, err := engine.AnalyzeWithOptions(b, engine.Options{Resolution: analyzeResolution})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	logger.Debug("analysis complete",
		"class", res.Class.String(),
		"samples", len(res.X),
		"warnings", len(res.Warnings))

	if err := printAnalysis(b, res, sys); err != nil {
		return err
	}
	return exportAnalysis(logger, b, res, sys)
}

// analyzeModel builds the validated beam from --config or from the inline
// flags, converting flag values from the display system into SI.
func analyzeModel(sys units.System) (*beam.Beam, error) {
	if analyzeConfig != "" {
		if analyzeLength != 0 || analyzeE != 0 || analyzeI != 0 || analyzeEI != 0 ||
			len(analyzeSupports) > 0 || len(analyzeLoads) > 0 {
			return nil, fmt.Errorf("--config replaces the inline beam flags; use one or the other")
		}
		doc, err := export.ReadConfig(analyzeConfig)
		if err != nil {
			return nil, err
		}
		return doc.Model()
	}
	if analyzeLength == 0 {
		return nil, fmt.Errorf("either --config or --length is required")
	}

	fL, err := units.Factor(units.Length, sys.Length)
	if err != nil {
		return nil, err
	}
	fF, err := units.Factor(units.Force, sys.Force)
	if err != nil {
		return nil, err
	}

	var b *beam.Beam
	switch {
	case analyzeEI != 0:
		b, err = beam.NewWithRigidity(analyzeLength*fL, analyzeEI*fF*fL*fL)
	case analyzeE != 0 && analyzeI != 0:
		var e, i float64
		if e, err = units.ToSI(units.Modulus, sys.Modulus, analyzeE); err != nil {
			return nil, err
		}
		if i, err = units.ToSI(units.Inertia, sys.Inertia, analyzeI); err != nil {
			return nil, err
		}
		b, err = beam.New(analyzeLength*fL, e, i)
	default:
		return nil, fmt.Errorf("provide --ei, or both --e and --i")
	}
	if err != nil {
		return nil, err
	}

	if len(analyzeSupports) == 0 {
		return nil, fmt.Errorf(`support positions are required (--support "0;6")`)
	}
	positions, err := export.ParseSupports(strings.Join(analyzeSupports, ";"))
	if err != nil {
		return nil, fmt.Errorf("--support: %w", err)
	}
	for _, pos := range positions {
		if err := b.AddSupport(pos * fL); err != nil {
			return nil, err
		}
	}

	loads, err := export.ParseLoads(strings.Join(analyzeLoads, ";"))
	if err != nil {
		return nil, fmt.Errorf("--load: %w", err)
	}
	for _, l := range loads {
		converted, err := export.ConvertLoad(l, sys)
		if err != nil {
			return nil, err
		}
		if err := b.AddLoad(converted); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// displayValue converts a base-SI sample of the quantity into the display
// system and names its unit there. Rotation has no display conversion.
func displayValue(q engine.Quantity, v float64, sys units.System, fL, fF, fY float64) (float64, string) {
	switch q {
	case engine.Shear:
		return v / fF, sys.Force
	case engine.Moment:
		return v / (fF * fL), sys.Force + "·" + sys.Length
	case engine.Deflection:
		return v / fY, sys.Deflection
	}
	return v, q.Unit()
}

func printAnalysis(b *beam.Beam, res *engine.Result, sys units.System) error {
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

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     BEAM ANALYSIS - EULER-BERNOULLI MODEL")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Print(diagram.Schematic(b, diagram.DefaultWidth))
	fmt.Println()

	fmt.Println("INPUT DATA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Span Length:\t%.4g %s\n", b.Length/fL, sys.Length)
	fmt.Fprintf(w, "  Flexural Rigidity (EI):\t%.6g %s·%s²\n", b.EI()/(fF*fL*fL), sys.Force, sys.Length)
	if b.I != 1 {
		fmt.Fprintf(w, "  Elastic Modulus (E):\t%.6g %s\n", b.E/mustFactor(units.Modulus, sys.Modulus), sys.Modulus)
		fmt.Fprintf(w, "  Moment of Inertia (I):\t%.6g %s\n", b.I/mustFactor(units.Inertia, sys.Inertia), sys.Inertia)
	}
	fmt.Fprintf(w, "  System Class:\t%s\n", res.Class)
	fmt.Fprintf(w, "  Supports:\t%d\n", len(b.Supports))
	fmt.Fprintf(w, "  Loads:\t%d\n", len(b.Loads))
	w.Flush()
	fmt.Println()

	if len(b.Loads) > 0 {
		fmt.Println("LOADS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		for _, l := range b.Loads {
			line, err := export.DescribeLoad(l, sys)
			if err != nil {
				return err
			}
			fmt.Println("  " + line)
		}
		fmt.Println()
	}

	fmt.Println("REACTIONS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Support\tPosition [%s]\tReaction [%s]\n", sys.Length, sys.Force)
	for _, re := range res.Reactions {
		fmt.Fprintf(w, "  %s\t%.4g\t%.6g\n", re.Name, re.Position/fL, re.Value/fF)
	}
	w.Flush()
	fmt.Printf("  ΣR = %.6g %s (total applied %.6g %s)\n", res.ReactionSum()/fF, sys.Force, b.TotalLoad()/fF, sys.Force)
	fmt.Println()

	fmt.Println("GOVERNING VALUES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Quantity\tMin\tMax\tGoverning\tat x [%s]\n", sys.Length)
	for _, q := range engine.Quantities {
		min, max := res.Extremes(q)
		gov := res.AbsExtreme(q)
		minV, unit := displayValue(q, min.Value, sys, fL, fF, fY)
		maxV, _ := displayValue(q, max.Value, sys, fL, fF, fY)
		govV, _ := displayValue(q, gov.Value, sys, fL, fF, fY)
		fmt.Fprintf(w, "  %s [%s]\t%.6g\t%.6g\t%.6g\t%.4g\n", q, unit, minV, maxV, govV, gov.X/fL)
	}
	w.Flush()
	fmt.Println()

	if len(res.Warnings) > 0 {
		fmt.Println("WARNINGS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		for _, warn := range res.Warnings {
			fmt.Println("  ⚠ " + warn.String())
		}
		fmt.Println()
	}

	momentGov := res.AbsExtreme(engine.Moment)
	deflGov := res.AbsExtreme(engine.Deflection)
	mV, mUnit := displayValue(engine.Moment, momentGov.Value, sys, fL, fF, fY)
	yV, yUnit := displayValue(engine.Deflection, deflGov.Value, sys, fL, fF, fY)
	fmt.Print(diagram.SummaryBox("GOVERNING DESIGN VALUES", []string{
		fmt.Sprintf("|M|max = %.6g %s at x = %.4g %s", mV, mUnit, momentGov.X/fL, sys.Length),
		fmt.Sprintf("|y|max = %.6g %s at x = %.4g %s", yV, yUnit, deflGov.X/fL, sys.Length),
	}))
	fmt.Println()

	if !analyzeNoCharts {
		fmt.Println("DIAGRAMS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		fmt.Println(diagram.Charts(res, diagram.DefaultWidth, diagram.DefaultHeight))
		fmt.Println()
	}
	return nil
}

// mustFactor is for preset systems only, whose units are all in the tables.
func mustFactor(dim units.Dimension, unit string) float64 {
	f, err := units.Factor(dim, unit)
	if err != nil {
		return 1
	}
	return f
}

func exportAnalysis(logger *log.Logger, b *beam.Beam, res *engine.Result, sys units.System) error {
	if analyzeCSV != "" {
		err := writeFile(analyzeCSV, func(w io.Writer) error { return export.WriteCSV(w, res, sys) })
		if err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		logger.Info("wrote sample table", "path", analyzeCSV)
	}
	if analyzeXLSX != "" {
		err := writeFile(analyzeXLSX, func(w io.Writer) error { return export.WriteWorkbook(w, b, res) })
		if err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		logger.Info("wrote workbook", "path", analyzeXLSX)
	}
	if analyzePDF != "" {
		err := writeFile(analyzePDF, func(w io.Writer) error { return export.WriteReport(w, b, res, sys) })
		if err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		logger.Info("wrote report", "path", analyzePDF)
	}
	if analyzeJSON != "" {
		err := writeFile(analyzeJSON, func(w io.Writer) error { return export.WriteJSON(w, export.Snapshot(b, "")) })
		if err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		logger.Info("wrote definition snapshot", "path", analyzeJSON)
	}
	if analyzePlotDir != "" {
		files, err := diagram.ExportImages(res, analyzePlotDir, analyzePlotFormat)
		if err != nil {
			return fmt.Errorf("write diagrams: %w", err)
		}
		for _, f := range files {
			logger.Info("wrote diagram", "path", f)
		}
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
