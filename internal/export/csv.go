package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/alexiusacademia/gobeam/internal/engine"
	"github.com/alexiusacademia/gobeam/internal/units"
)

// WriteCSV writes the dense diagram samples as a CSV table in the display
// units of the given system. Jump coordinates appear on two consecutive
// rows, one per side of the discontinuity.
func WriteCSV(w io.Writer, res *engine.Result, sys units.System) error {
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

	cw := csv.NewWriter(w)
	header := []string{
		fmt.Sprintf("x [%s]", sys.Length),
		fmt.Sprintf("shear [%s]", sys.Force),
		fmt.Sprintf("moment [%s·%s]", sys.Force, sys.Length),
		"rotation [rad]",
		fmt.Sprintf("deflection [%s]", sys.Deflection),
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for k := range res.X {
		row := []string{
			cell(res.X[k] / fL),
			cell(res.Shear[k] / fF),
			cell(res.Moment[k] / (fF * fL)),
			cell(res.Rotation[k]),
			cell(res.Deflection[k] / fY),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
