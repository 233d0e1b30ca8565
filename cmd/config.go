package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gobeam/internal/diagram"
	"github.com/alexiusacademia/gobeam/internal/export"
	"github.com/alexiusacademia/gobeam/internal/units"
)

var (
	configForce bool
	configUnits string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create and inspect beam definition files",
	Long: `Work with TOML beam definition files.

A definition file stores the span, stiffness, supports and loads of one
beam in SI units, ready for 'gobeam analyze --config' or for the batch
and web frontends.

Subcommands:
  init  - Write a commented example definition to start from
  show  - Validate a definition and print its model`,
}

var configInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write an example beam definition",
	Long: `Write an example beam definition to the given file (default
beam.toml): a simply supported 6 m span with a midspan point load.

Examples:
  gobeam config init
  gobeam config init bridge.toml --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Validate and display a beam definition",
	Long: `Parse a beam definition file, validate the model it describes and
print the model summary with its schematic.

Examples:
  gobeam config show beam.toml
  gobeam config show beam.toml --units si-kn`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file")
	configShowCmd.Flags().StringVarP(&configUnits, "units", "u", "si", "Unit system for the display: si, si-kn, mass, imperial")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)
	path := "beam.toml"
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	err := writeFile(path, func(w io.Writer) error { return export.WriteConfig(w, export.ExampleDocument()) })
	if err != nil {
		return fmt.Errorf("write definition: %w", err)
	}
	logger.Info("wrote example definition", "path", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	sys, err := units.SystemByID(configUnits)
	if err != nil {
		return err
	}

	doc, err := export.ReadConfig(args[0])
	if err != nil {
		return err
	}
	b, err := doc.Model()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	fL, err := units.Factor(units.Length, sys.Length)
	if err != nil {
		return err
	}
	fF, err := units.Factor(units.Force, sys.Force)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(diagram.Schematic(b, diagram.DefaultWidth))
	fmt.Println()

	fmt.Println("BEAM DEFINITION:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Span Length:\t%.4g %s\n", b.Length/fL, sys.Length)
	fmt.Fprintf(w, "  Flexural Rigidity (EI):\t%.6g %s·%s²\n", b.EI()/(fF*fL*fL), sys.Force, sys.Length)
	fmt.Fprintf(w, "  System Class:\t%s\n", b.Classify())
	if doc.Notes != "" {
		fmt.Fprintf(w, "  Notes:\t%s\n", doc.Notes)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("SUPPORTS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	for _, s := range b.OrderedSupports() {
		fmt.Printf("  %s at %.4g %s\n", s.Name, s.Position/fL, sys.Length)
	}
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

	fmt.Println("  Definition is valid. Analyze it with:")
	fmt.Printf("    gobeam analyze --config %s\n", args[0])
	fmt.Println()
	return nil
}
