package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gobeam/internal/beam"
	"github.com/alexiusacademia/gobeam/internal/engine"
)

// Batch sheet columns. Row 1 is the header; every following row is one
// model. Supports and loads use the expression grammar, all numbers SI.
var batchHeader = []any{"length_m", "e_pa", "i_m4", "supports", "loads"}

// WriteWorkbook writes a workbook with Model, Reactions, Samples and
// Maxima sheets. All values are SI so the workbook round-trips without a
// unit system attached.
func WriteWorkbook(w io.Writer, b *beam.Beam, res *engine.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Model"); err != nil {
		return err
	}
	model := &sheetWriter{f: f, sheet: "Model"}
	model.setRow(1, "length_m", b.Length)
	model.setRow(2, "e_pa", b.E)
	model.setRow(3, "i_m4", b.I)
	model.setRow(4, "class", res.Class.String())
	model.setRow(5, "supports", FormatSupports(b.OrderedSupports()))
	model.setRow(6, "loads", formatLoads(b.Loads))
	if len(res.Warnings) > 0 {
		texts := make([]string, len(res.Warnings))
		for i, warn := range res.Warnings {
			texts[i] = warn.String()
		}
		model.setRow(7, "warnings", strings.Join(texts, "; "))
	}
	if model.err != nil {
		return model.err
	}

	reactions, err := addSheet(f, "Reactions")
	if err != nil {
		return err
	}
	reactions.setRow(1, "name", "position_m", "value_n")
	for i, re := range res.Reactions {
		reactions.setRow(i+2, re.Name, re.Position, re.Value)
	}
	if reactions.err != nil {
		return reactions.err
	}

	samples, err := addSheet(f, "Samples")
	if err != nil {
		return err
	}
	samples.setRow(1, "x_m", "shear_n", "moment_nm", "rotation_rad", "deflection_m")
	for k := range res.X {
		samples.setRow(k+2, res.X[k], res.Shear[k], res.Moment[k], res.Rotation[k], res.Deflection[k])
	}
	if samples.err != nil {
		return samples.err
	}

	maxima, err := addSheet(f, "Maxima")
	if err != nil {
		return err
	}
	maxima.setRow(1, "quantity", "unit", "min", "min_x_m", "max", "max_x_m", "governing", "governing_x_m")
	for i, q := range engine.Quantities {
		lo, hi := res.Extremes(q)
		gov := res.AbsExtreme(q)
		maxima.setRow(i+2, string(q), q.Unit(), lo.Value, lo.X, hi.Value, hi.X, gov.Value, gov.X)
	}
	if maxima.err != nil {
		return maxima.err
	}

	return f.Write(w)
}

// BatchItem is one parsed workbook row: either a model or the reason the
// row was rejected.
type BatchItem struct {
	Row  int // 1-based workbook row
	Beam *beam.Beam
	Err  error
}

// ReadBatch parses the first sheet of a workbook laid out like the batch
// template. Rows that fail to parse are reported per item rather than
// failing the whole read, so one bad row does not sink a large batch.
func ReadBatch(r io.Reader) ([]BatchItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	var items []BatchItem
	for i := 1; i < len(rows); i++ {
		if blankRow(rows[i]) {
			continue
		}
		b, err := parseBatchRow(rows[i])
		items = append(items, BatchItem{Row: i + 1, Beam: b, Err: err})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}
	return items, nil
}

// WriteBatchTemplate writes an importable workbook holding the batch
// header and one example row.
func WriteBatchTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Batch"); err != nil {
		return err
	}
	sw := &sheetWriter{f: f, sheet: "Batch"}
	sw.setRow(1, batchHeader...)
	sw.setRow(2, 6.0, 200e9, 8e-6, "0;6", "P@3=10000;W@0..6=2000")
	if sw.err != nil {
		return sw.err
	}
	return f.Write(w)
}

// BatchResult pairs one batch row with its analysis outcome.
type BatchResult struct {
	Row    int
	Beam   *beam.Beam
	Result *engine.Result
	Err    error
}

// WriteBatchResults writes one summary row per analyzed batch model.
// Failed rows keep their place with the error in the status column.
func WriteBatchResults(w io.Writer, results []BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Results"); err != nil {
		return err
	}
	sw := &sheetWriter{f: f, sheet: "Results"}
	sw.setRow(1, "row", "length_m", "class", "reactions_n",
		"governing_moment_nm", "governing_moment_x_m",
		"governing_deflection_m", "governing_deflection_x_m", "status")
	for k, br := range results {
		rowIdx := k + 2
		if br.Err != nil {
			length := any("")
			if br.Beam != nil {
				length = br.Beam.Length
			}
			sw.setRow(rowIdx, br.Row, length, "", "", "", "", "", "", "error: "+br.Err.Error())
			continue
		}
		mGov := br.Result.AbsExtreme(engine.Moment)
		yGov := br.Result.AbsExtreme(engine.Deflection)
		status := "ok"
		if len(br.Result.Warnings) > 0 {
			status = fmt.Sprintf("ok (%d warnings)", len(br.Result.Warnings))
		}
		sw.setRow(rowIdx, br.Row, br.Beam.Length, br.Result.Class.String(),
			formatReactions(br.Result.Reactions),
			mGov.Value, mGov.X, yGov.Value, yGov.X, status)
	}
	if sw.err != nil {
		return sw.err
	}
	return f.Write(w)
}

func parseBatchRow(row []string) (*beam.Beam, error) {
	if len(row) < 4 {
		return nil, fmt.Errorf("want at least 4 columns (length_m, e_pa, i_m4, supports), got %d", len(row))
	}
	length, err := batchNum(row[0], "length_m")
	if err != nil {
		return nil, err
	}
	e, err := batchNum(row[1], "e_pa")
	if err != nil {
		return nil, err
	}
	inertia, err := batchNum(row[2], "i_m4")
	if err != nil {
		return nil, err
	}
	b, err := beam.New(length, e, inertia)
	if err != nil {
		return nil, err
	}

	positions, err := ParseSupports(row[3])
	if err != nil {
		return nil, err
	}
	for _, pos := range positions {
		if err := b.AddSupport(pos); err != nil {
			return nil, err
		}
	}

	if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
		loads, err := ParseLoads(row[4])
		if err != nil {
			return nil, err
		}
		for _, l := range loads {
			if err := b.AddLoad(l); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

func batchNum(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: bad number %q", name, s)
	}
	return v, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func formatLoads(loads []beam.Load) string {
	parts := make([]string, len(loads))
	for i, l := range loads {
		parts[i] = FormatLoad(l)
	}
	return strings.Join(parts, ";")
}

func formatReactions(reactions []engine.Reaction) string {
	parts := make([]string, len(reactions))
	for i, re := range reactions {
		parts[i] = num(re.Value)
	}
	return strings.Join(parts, ";")
}

// sheetWriter writes cells with a sticky error so call sites stay flat.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func addSheet(f *excelize.File, name string) (*sheetWriter, error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, err
	}
	return &sheetWriter{f: f, sheet: name}, nil
}

func (s *sheetWriter) set(col, row int, v any) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellValue(s.sheet, cell, v)
}

func (s *sheetWriter) setRow(row int, vals ...any) {
	for i, v := range vals {
		s.set(i+1, row, v)
	}
}
