package cmd

import (
	"fmt"
	"os"

	"github.com/alexiusacademia/gobeam/internal/version"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gobeam",
	Short: "Beam Analysis Engine",
	Long: `gobeam - Beam Analysis Engine

A CLI tool for the analysis of straight elastic beams under the
Euler-Bernoulli model.

This tool helps structural engineers compute:
  - Support reactions (determinate and indeterminate systems)
  - Shear, moment, rotation and deflection diagrams
  - Governing design values with their locations
  - Section properties for common cross-section shapes

Indeterminate systems are resolved with the flexibility method.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gobeam v%-48s║\n", version.Version)
		fmt.Println("  ║   Beam Analysis Engine                                    ║")
		fmt.Println("  ║   Shear · Moment · Rotation · Deflection                  ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for the analysis of straight elastic beams under")
		fmt.Println("  point loads, distributed loads and concentrated moments.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Reactions for determinate and indeterminate systems")
		fmt.Println("    • Full V / M / θ / y diagrams with exact jumps")
		fmt.Println("    • Terminal charts plus PNG, CSV, XLSX and PDF export")
		fmt.Println("    • Batch analysis from spreadsheet definitions")
		fmt.Println("    • HTTP API server for web frontends")
		fmt.Println()
		fmt.Println("  Use 'gobeam --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
