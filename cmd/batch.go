package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gobeam/internal/engine"
	"github.com/alexiusacademia/gobeam/internal/export"
)

var (
	batchOutput     string
	batchResolution int
	batchTemplate   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <workbook.xlsx>",
	Short: "Analyze many beams from a spreadsheet",
	Long: `Analyze every beam defined in an XLSX workbook and write a results
workbook with one summary row per beam.

The input sheet has one beam per row with the columns
  length_m | e_pa | i_m4 | supports | loads
where supports is a semicolon list of positions ("0;6") and loads a
semicolon list of load expressions ("P@3=10000;W@0..6=2000"), all SI.
Rows that fail to parse or analyze keep their place in the results
with the error in the status column.

Examples:
  # Write an importable template to fill in
  gobeam batch --template beams.xlsx

  # Analyze the workbook, results next to the input
  gobeam batch beams.xlsx

  # Pick the output path and a coarser sample grid
  gobeam batch beams.xlsx --output results.xlsx --resolution 600`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Results workbook path (default <input>_results.xlsx)")
	batchCmd.Flags().IntVarP(&batchResolution, "resolution", "r", 0, "Diagram samples per beam (0 = default)")
	batchCmd.Flags().BoolVar(&batchTemplate, "template", false, "Write an empty batch template to the given path and exit")
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)
	path := args[0]

	if batchTemplate {
		if err := writeFile(path, export.WriteBatchTemplate); err != nil {
			return fmt.Errorf("write template: %w", err)
		}
		logger.Info("wrote batch template", "path", path)
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	items, err := export.ReadBatch(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	logger.Debug("parsed batch", "path", path, "rows", len(items))

	results := make([]export.BatchResult, 0, len(items))
	failed := 0
	for _, item := range items {
		r := export.BatchResult{Row: item.Row, Beam: item.Beam, Err: item.Err}
		if r.Err == nil {
			r.Result, r.Err = engine.AnalyzeWithOptions(item.Beam, engine.Options{Resolution: batchResolution})
		}
		if r.Err != nil {
			failed++
			logger.Warn("row failed", "row", item.Row, "err", r.Err)
		}
		results = append(results, r)
	}

	out := batchOutput
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "_results.xlsx"
	}
	err = writeFile(out, func(w io.Writer) error { return export.WriteBatchResults(w, results) })
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	logger.Info("wrote batch results", "path", out, "analyzed", len(results)-failed, "failed", failed)
	return nil
}
