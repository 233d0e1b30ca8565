package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"
	"testing"

	"github.com/alexiusacademia/gobeam/internal/beam"
	"github.com/alexiusacademia/gobeam/internal/engine"
	"github.com/alexiusacademia/gobeam/internal/units"
)

// analyzedFixture solves a 6 m simple span carrying 10 kN at midspan.
func analyzedFixture(t *testing.T) (*beam.Beam, *engine.Result) {
	t.Helper()
	b, err := beam.NewWithRigidity(6, 30000)
	if err != nil {
		t.Fatal(err)
	}
	for _, pos := range []float64{0, 6} {
		if err := b.AddSupport(pos); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.AddLoad(beam.PointForce{Position: 3, Magnitude: 10000}); err != nil {
		t.Fatal(err)
	}
	res, err := engine.Analyze(b)
	if err != nil {
		t.Fatal(err)
	}
	return b, res
}

func TestWriteCSV(t *testing.T) {
	_, res := analyzedFixture(t)
	sys, err := units.SystemByID("si-kn")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, res, sys); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(records) != len(res.X)+1 {
		t.Fatalf("got %d records, want %d", len(records), len(res.X)+1)
	}

	header := records[0]
	wantHeader := []string{"x [m]", "shear [kN]", "moment [kN·m]", "rotation [rad]", "deflection [mm]"}
	for i, want := range wantHeader {
		if header[i] != want {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want)
		}
	}

	// The left support duplicates x = 0: zero shear walking in, the
	// reaction on the way out.
	first, second := records[1], records[2]
	if mustFloat(t, first[0]) != 0 || mustFloat(t, second[0]) != 0 {
		t.Errorf("first two x cells = %q, %q, want both 0", first[0], second[0])
	}
	if got := mustFloat(t, first[1]); got != 0 {
		t.Errorf("pre-jump shear = %g kN, want 0", got)
	}
	if got := mustFloat(t, second[1]); math.Abs(got-5) > 1e-9 {
		t.Errorf("post-jump shear = %g kN, want 5", got)
	}

	// The midspan samples straddle the jump: 15 kN·m on both sides.
	for _, rec := range records[1:] {
		if mustFloat(t, rec[0]) != 3 {
			continue
		}
		if got := mustFloat(t, rec[2]); math.Abs(got-15) > 1e-6 {
			t.Errorf("moment at midspan = %g kN·m, want 15", got)
		}
	}
}

func TestWriteCSVRejectsUnknownUnits(t *testing.T) {
	_, res := analyzedFixture(t)
	sys := units.System{Length: "cubit", Force: "N", Deflection: "m"}
	if err := WriteCSV(&bytes.Buffer{}, res, sys); err == nil {
		t.Error("WriteCSV with an unknown unit should fail")
	}
}

func mustFloat(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		t.Fatalf("bad numeric cell %q: %v", s, err)
	}
	return v
}
