package cmd

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexiusacademia/gobeam/internal/beam"
	"github.com/alexiusacademia/gobeam/internal/engine"
	"github.com/alexiusacademia/gobeam/internal/export"
	"github.com/alexiusacademia/gobeam/internal/units"
)

func resetAnalyzeFlags() {
	analyzeConfig = ""
	analyzeLength = 0
	analyzeE = 0
	analyzeI = 0
	analyzeEI = 0
	analyzeSupports = nil
	analyzeLoads = nil
}

func mustSystem(t *testing.T, id string) units.System {
	t.Helper()
	sys, err := units.SystemByID(id)
	if err != nil {
		t.Fatalf("SystemByID(%q): %v", id, err)
	}
	return sys
}

func TestAnalyzeModelInlineSI(t *testing.T) {
	resetAnalyzeFlags()
	analyzeLength = 6
	analyzeEI = 30000
	analyzeSupports = []string{"0;6"}
	analyzeLoads = []string{"P@3=10000", "W@0..6=2000"}

	b, err := analyzeModel(mustSystem(t, "si"))
	if err != nil {
		t.Fatalf("analyzeModel: %v", err)
	}
	if b.Length != 6 {
		t.Errorf("Length = %g, want 6", b.Length)
	}
	if b.EI() != 30000 {
		t.Errorf("EI = %g, want 30000", b.EI())
	}
	if len(b.Supports) != 2 {
		t.Fatalf("got %d supports, want 2", len(b.Supports))
	}
	if len(b.Loads) != 2 {
		t.Fatalf("got %d loads, want 2", len(b.Loads))
	}
	p, ok := b.Loads[0].(beam.PointForce)
	if !ok {
		t.Fatalf("load 0 is %T, want PointForce", b.Loads[0])
	}
	if p.Position != 3 || p.Magnitude != 10000 {
		t.Errorf("point force = %+v, want 10000 N at 3 m", p)
	}
}

func TestAnalyzeModelConvertsUnits(t *testing.T) {
	resetAnalyzeFlags()
	analyzeLength = 6
	analyzeE = 200  // GPa
	analyzeI = 8e-6 // m^4
	analyzeSupports = []string{"0", "6"}
	analyzeLoads = []string{"P@3=10"} // kN

	b, err := analyzeModel(mustSystem(t, "si-kn"))
	if err != nil {
		t.Fatalf("analyzeModel: %v", err)
	}
	if b.E != 200e9 {
		t.Errorf("E = %g, want 200e9", b.E)
	}
	if b.I != 8e-6 {
		t.Errorf("I = %g, want 8e-6", b.I)
	}
	p := b.Loads[0].(beam.PointForce)
	if math.Abs(p.Magnitude-10000) > 1e-9 {
		t.Errorf("magnitude = %g, want 10000 N", p.Magnitude)
	}

	res, err := engine.Analyze(b)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := res.ReactionSum(); math.Abs(got-10000) > 1e-6 {
		t.Errorf("reaction sum = %g, want 10000", got)
	}
}

func TestAnalyzeModelFromConfig(t *testing.T) {
	resetAnalyzeFlags()
	path := filepath.Join(t.TempDir(), "beam.toml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := export.WriteConfig(f, export.ExampleDocument()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	f.Close()

	analyzeConfig = path
	b, err := analyzeModel(mustSystem(t, "si"))
	if err != nil {
		t.Fatalf("analyzeModel: %v", err)
	}
	if b.Length != 6 || b.EI() != 30000 {
		t.Errorf("got L=%g EI=%g, want the 6 m / 30000 N·m² example", b.Length, b.EI())
	}
	if len(b.Supports) != 2 || len(b.Loads) != 1 {
		t.Errorf("got %d supports and %d loads, want 2 and 1", len(b.Supports), len(b.Loads))
	}
}

func TestAnalyzeModelErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func()
		wantErr string
	}{
		{
			name: "config and inline flags together",
			setup: func() {
				analyzeConfig = "beam.toml"
				analyzeLength = 6
			},
			wantErr: "one or the other",
		},
		{
			name:    "no length and no config",
			setup:   func() {},
			wantErr: "--length",
		},
		{
			name: "length without stiffness",
			setup: func() {
				analyzeLength = 6
				analyzeSupports = []string{"0;6"}
			},
			wantErr: "--ei",
		},
		{
			name: "e without i",
			setup: func() {
				analyzeLength = 6
				analyzeE = 200e9
				analyzeSupports = []string{"0;6"}
			},
			wantErr: "--ei",
		},
		{
			name: "no supports",
			setup: func() {
				analyzeLength = 6
				analyzeEI = 30000
			},
			wantErr: "--support",
		},
		{
			name: "bad support position",
			setup: func() {
				analyzeLength = 6
				analyzeEI = 30000
				analyzeSupports = []string{"0;mid"}
			},
			wantErr: "mid",
		},
		{
			name: "bad load expression",
			setup: func() {
				analyzeLength = 6
				analyzeEI = 30000
				analyzeSupports = []string{"0;6"}
				analyzeLoads = []string{"P=3@10000"}
			},
			wantErr: "--load",
		},
		{
			name: "load outside the span",
			setup: func() {
				analyzeLength = 6
				analyzeEI = 30000
				analyzeSupports = []string{"0;6"}
				analyzeLoads = []string{"P@9=10000"}
			},
			wantErr: "outside",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetAnalyzeFlags()
			tt.setup()
			_, err := analyzeModel(mustSystem(t, "si"))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDisplayValue(t *testing.T) {
	sys := mustSystem(t, "si-kn")
	fL, fF, fY := 1.0, 1e3, 1e-3

	v, unit := displayValue(engine.Shear, 5000, sys, fL, fF, fY)
	if v != 5 || unit != "kN" {
		t.Errorf("shear = %g %s, want 5 kN", v, unit)
	}
	v, unit = displayValue(engine.Moment, 15000, sys, fL, fF, fY)
	if v != 15 || unit != "kN·m" {
		t.Errorf("moment = %g %s, want 15 kN·m", v, unit)
	}
	v, unit = displayValue(engine.Deflection, -0.002, sys, fL, fF, fY)
	if v != -2 || unit != "mm" {
		t.Errorf("deflection = %g %s, want -2 mm", v, unit)
	}
	v, unit = displayValue(engine.Rotation, 0.01, sys, fL, fF, fY)
	if v != 0.01 || unit != "rad" {
		t.Errorf("rotation = %g %s, want 0.01 rad", v, unit)
	}
}
