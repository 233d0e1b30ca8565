package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gobeam/internal/section"
)

var (
	// Shape selection
	sectionShape string

	// Rectangle
	sectionWidth  float64
	sectionHeight float64

	// Circle
	sectionDiameter float64

	// I-section
	sectionFlangeWidth     float64
	sectionFlangeThickness float64
	sectionWebThickness    float64
	sectionDepth           float64

	// Polygon
	sectionVertices string
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Compute cross-section properties",
	Long: `Compute area, second moment of area and section moduli for common
cross-section shapes. All dimensions are in meters.

The inertia output feeds directly into 'gobeam analyze --i'.

Shapes:
  rectangle  --width and --height
  circle     --diameter
  i-section  --flange-width, --flange-thickness, --web-thickness, --depth
  polygon    --vertices, "x,y" pairs along the outline

Examples:
  # 300 x 500 mm rectangle
  gobeam section --shape rectangle --width 0.3 --height 0.5

  # 400 mm circular pile
  gobeam section --shape circle --diameter 0.4

  # Welded I girder
  gobeam section --shape i-section --flange-width 0.2 \
    --flange-thickness 0.012 --web-thickness 0.008 --depth 0.4

  # Arbitrary polygon (a T shape)
  gobeam section --shape polygon \
    --vertices "0,0;0.3,0;0.3,0.4;0.6,0.4;0.6,0.5;-0.3,0.5;-0.3,0.4;0,0.4"`,
	RunE: runSection,
}

func init() {
	rootCmd.AddCommand(sectionCmd)

	sectionCmd.Flags().StringVar(&sectionShape, "shape", "", "Shape: rectangle, circle, i-section, polygon [required]")
	sectionCmd.MarkFlagRequired("shape")

	sectionCmd.Flags().Float64VarP(&sectionWidth, "width", "b", 0, "Rectangle width (m)")
	sectionCmd.Flags().Float64Var(&sectionHeight, "height", 0, "Rectangle height (m)")
	sectionCmd.Flags().Float64VarP(&sectionDiameter, "diameter", "d", 0, "Circle diameter (m)")
	sectionCmd.Flags().Float64Var(&sectionFlangeWidth, "flange-width", 0, "I-section flange width (m)")
	sectionCmd.Flags().Float64Var(&sectionFlangeThickness, "flange-thickness", 0, "I-section flange thickness (m)")
	sectionCmd.Flags().Float64Var(&sectionWebThickness, "web-thickness", 0, "I-section web thickness (m)")
	sectionCmd.Flags().Float64Var(&sectionDepth, "depth", 0, "I-section total depth (m)")
	sectionCmd.Flags().StringVar(&sectionVertices, "vertices", "", `Polygon vertices "x,y;x,y;..." (m)`)
}

func runSection(cmd *cobra.Command, args []string) error {
	shape, err := sectionFromFlags()
	if err != nil {
		return err
	}
	if err := shape.Validate(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("SECTION PROPERTIES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Shape:\t%s\n", sectionShape)
	fmt.Fprintf(w, "  Area:\t%.6g m²\n", shape.Area())
	fmt.Fprintf(w, "  Overall Depth:\t%.6g m\n", shape.Depth())
	fmt.Fprintf(w, "  Centroid (from bottom):\t%.6g m\n", shape.CentroidY())
	fmt.Fprintf(w, "  Moment of Inertia (I):\t%.6g m⁴\n", shape.Inertia())
	fmt.Fprintf(w, "  Section Modulus (top):\t%.6g m³\n", section.ModulusTop(shape))
	fmt.Fprintf(w, "  Section Modulus (bottom):\t%.6g m³\n", section.ModulusBottom(shape))
	w.Flush()
	fmt.Println()
	fmt.Printf("  Use with:  gobeam analyze --i %.6g ...\n", shape.Inertia())
	fmt.Println()
	return nil
}

func sectionFromFlags() (section.Shape, error) {
	switch sectionShape {
	case "rectangle":
		return section.Rectangle{Width: sectionWidth, Height: sectionHeight}, nil
	case "circle":
		return section.Circle{Diameter: sectionDiameter}, nil
	case "i-section":
		return section.ISection{
			FlangeWidth:     sectionFlangeWidth,
			FlangeThickness: sectionFlangeThickness,
			WebThickness:    sectionWebThickness,
			TotalDepth:      sectionDepth,
		}, nil
	case "polygon":
		pts, err := parseVertices(sectionVertices)
		if err != nil {
			return nil, err
		}
		return section.Polygon{Vertices: pts}, nil
	}
	return nil, fmt.Errorf("unknown shape %q (want rectangle, circle, i-section or polygon)", sectionShape)
}

func parseVertices(s string) ([]section.Point, error) {
	var pts []section.Point
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		xs, ys, ok := strings.Cut(part, ",")
		if !ok {
			return nil, fmt.Errorf("vertex %q: want \"x,y\"", part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("vertex %q: %w", part, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("vertex %q: %w", part, err)
		}
		pts = append(pts, section.Point{X: x, Y: y})
	}
	if len(pts) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(pts))
	}
	return pts, nil
}
