package engine

import (
	"errors"
	"testing"

	"github.com/alexiusacademia/gobeam/internal/beam"
)

func TestSolveDeterminate(t *testing.T) {
	tests := []struct {
		name      string
		length    float64
		supports  []float64
		loads     []beam.Load
		wantLeft  float64
		wantRight float64
	}{
		{
			name:     "central point load",
			length:   6,
			supports: []float64{0, 6},
			loads:    []beam.Load{beam.PointForce{Position: 3, Magnitude: 10}},
			wantLeft: 5, wantRight: 5,
		},
		{
			name:     "off-center point load",
			length:   10,
			supports: []float64{0, 10},
			loads:    []beam.Load{beam.PointForce{Position: 2, Magnitude: 10}},
			wantLeft: 8, wantRight: 2,
		},
		{
			name:     "uniform load",
			length:   10,
			supports: []float64{0, 10},
			loads:    []beam.Load{beam.Uniform(0, 10, 2)},
			wantLeft: 10, wantRight: 10,
		},
		{
			name:     "triangular load",
			length:   6,
			supports: []float64{0, 6},
			loads:    []beam.Load{beam.Triangular(0, 6, 3)},
			wantLeft: 3, wantRight: 6,
		},
		{
			name:     "point moment couple",
			length:   6,
			supports: []float64{0, 6},
			loads:    []beam.Load{beam.PointMoment{Position: 3, Magnitude: 1000}},
			wantLeft: -500.0 / 3, wantRight: 500.0 / 3,
		},
		{
			name:     "load on the overhang",
			length:   6,
			supports: []float64{1, 5},
			loads:    []beam.Load{beam.PointForce{Position: 0, Magnitude: 10}},
			wantLeft: 12.5, wantRight: -2.5,
		},
		{
			name:     "force directly over a support",
			length:   6,
			supports: []float64{0, 6},
			loads:    []beam.Load{beam.PointForce{Position: 0, Magnitude: 10}},
			wantLeft: 10, wantRight: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBeam(t, tt.length, tt.supports, tt.loads...)
			got := solveDeterminate(b, b.OrderedSupports())
			if !closeTo(got[0], tt.wantLeft, 1e-9) || !closeTo(got[1], tt.wantRight, 1e-9) {
				t.Errorf("reactions = %g/%g, want %g/%g", got[0], got[1], tt.wantLeft, tt.wantRight)
			}
		})
	}
}

func TestAnalyzeTwoSpanUniform(t *testing.T) {
	// Two equal 5 m spans under w = 3: the continuous-beam solution is
	// R = 3wl/16, 10wl/16, 3wl/16 = 5.625, 18.75, 5.625 with the hogging
	// moment -wl²/8 = -9.375 over the middle support.
	b := testBeam(t, 10, []float64{0, 5, 10}, beam.Uniform(0, 10, 3))

	res, err := Analyze(b)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Class != beam.Indeterminate {
		t.Errorf("Class = %v, want indeterminate", res.Class)
	}
	if res.HasWarning(WarnFallbackUsed) || res.HasWarning(WarnSingularFlexibility) {
		t.Fatalf("well-conditioned beam degraded to fallback: %v", res.Warnings)
	}

	want := []float64{5.625, 18.75, 5.625}
	for i, w := range want {
		if got := res.Reactions[i].Value; !closeTo(got, w, 1e-3) {
			t.Errorf("reaction %d = %g, want %g", i, got, w)
		}
	}
	// The middle support must push up, never down, under gravity load.
	if got := res.Reactions[1].Value; got <= 0 {
		t.Errorf("middle reaction = %g, want > 0", got)
	}
	if got, want := res.ReactionSum(), 30.0; !closeTo(got, want, 1e-9) {
		t.Errorf("ReactionSum = %g, want %g", got, want)
	}
	// Continuity moment over the middle support survives the boundary
	// correction instead of being flattened to zero.
	if got := res.ValueAt(Moment, 5); !closeTo(got, -9.375, 0.01) {
		t.Errorf("M(5) = %g, want -9.375", got)
	}
	if got := res.ValueAt(Deflection, 5); got != 0 {
		t.Errorf("y(5) = %g, want exactly 0", got)
	}
}

func TestAnalyzeTwoSpanPointLoad(t *testing.T) {
	// P = 10 at the middle of the first 5 m span. Reference solution:
	// R = 13P/32, 11P/16, -3P/32; the unloaded far span is held down.
	b := testBeam(t, 10, []float64{0, 5, 10}, beam.PointForce{Position: 2.5, Magnitude: 10})

	res, err := Analyze(b)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := []float64{4.0625, 6.875, -0.9375}
	for i, w := range want {
		if got := res.Reactions[i].Value; !closeTo(got, w, 1e-3) {
			t.Errorf("reaction %d = %g, want %g", i, got, w)
		}
	}
	if got := res.ValueAt(Moment, 5); !closeTo(got, -4.6875, 0.01) {
		t.Errorf("M(5) = %g, want -3Pl/32 = -4.6875", got)
	}
	if got, want := res.ReactionSum(), 10.0; !closeTo(got, want, 1e-9) {
		t.Errorf("ReactionSum = %g, want %g", got, want)
	}
}

func TestAnalyzeThreeSpanUniform(t *testing.T) {
	// Three equal 10 m spans under w = 1: R = 0.4wl, 1.1wl, 1.1wl, 0.4wl
	// with -wl²/10 over each interior support.
	b := testBeam(t, 30, []float64{0, 10, 20, 30}, beam.Uniform(0, 30, 1))

	res, err := Analyze(b)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := []float64{4, 11, 11, 4}
	for i, w := range want {
		if got := res.Reactions[i].Value; !closeTo(got, w, 1e-2) {
			t.Errorf("reaction %d = %g, want %g", i, got, w)
		}
	}
	for _, x := range []float64{10, 20} {
		if got := res.ValueAt(Moment, x); !closeTo(got, -10, 0.05) {
			t.Errorf("M(%g) = %g, want -10", x, got)
		}
		if got := res.ValueAt(Deflection, x); got != 0 {
			t.Errorf("y(%g) = %g, want exactly 0", x, got)
		}
	}
	if got, want := res.ReactionSum(), 30.0; !closeTo(got, want, 1e-9) {
		t.Errorf("ReactionSum = %g, want %g", got, want)
	}
}

func TestSolveFlexibilitySingular(t *testing.T) {
	// Two redundants 1.1 mm apart pass the support spacing check but
	// produce two nearly identical flexibility columns; the primary solve
	// must refuse the system instead of returning an exploding pair.
	b := testBeam(t, 10, []float64{0, 5, 5.0011, 10}, beam.Uniform(0, 10, 2))

	_, sys, err := solveFlexibility(b, b.OrderedSupports(), Options{}.normalized())
	if err == nil {
		t.Fatal("solveFlexibility accepted a near-singular system")
	}
	if !errors.Is(err, &SolveError{Code: SingularFlexibilityMatrix}) {
		t.Fatalf("error = %v, want singular_flexibility_matrix", err)
	}
	var serr *SolveError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want *SolveError", err)
	}
	if serr.Cond <= maxFlexCond {
		t.Errorf("Cond = %g, want > %g", serr.Cond, float64(maxFlexCond))
	}
	if sys == nil || sys.f == nil {
		t.Fatal("singular return must still carry the assembled system")
	}
}

func TestAnalyzeSingularFallsBack(t *testing.T) {
	b := testBeam(t, 10, []float64{0, 5, 5.0011, 10}, beam.Uniform(0, 10, 2))

	res, err := Analyze(b)
	if err != nil {
		t.Fatalf("Analyze must not fail on a singular system: %v", err)
	}
	if !res.HasWarning(WarnSingularFlexibility) || !res.HasWarning(WarnFallbackUsed) {
		t.Fatalf("warnings = %v, want singular_flexibility and fallback_used", res.Warnings)
	}
	if got, want := res.ReactionSum(), 20.0; !closeTo(got, want, 1e-6) {
		t.Errorf("ReactionSum = %g, want %g", got, want)
	}
	// Regularization shares the load between the near-coincident pair
	// instead of producing huge opposing reactions.
	for i, r := range res.Reactions {
		if r.Value < -30 || r.Value > 30 {
			t.Errorf("reaction %d = %g, outside a plausible range", i, r.Value)
		}
	}
	if got := res.ValueAt(Deflection, 10); got != 0 {
		t.Errorf("y(10) = %g, want 0 at the fallback anchor", got)
	}
	if len(res.Nodes) != 0 {
		t.Errorf("fallback result carries %d node records, want none", len(res.Nodes))
	}
}

func TestSuperposeEquilibrium(t *testing.T) {
	// Whatever the redundants are, the assembled reaction vector balances
	// the applied loads; the extremes absorb the difference.
	b := testBeam(t, 12, []float64{0, 4, 8, 12},
		beam.Uniform(0, 12, 5),
		beam.PointForce{Position: 2, Magnitude: 7},
	)
	sup := b.OrderedSupports()

	for _, redundants := range [][]float64{
		{0, 0},
		{10, 20},
		{-5, 3},
	} {
		got := superpose(b, sup, redundants)
		var sum float64
		for _, r := range got {
			sum += r
		}
		if want := b.TotalLoad(); !closeTo(sum, want, 1e-9) {
			t.Errorf("superpose(%v): ΣR = %g, want %g", redundants, sum, want)
		}
		if got[1] != redundants[0] || got[2] != redundants[1] {
			t.Errorf("superpose(%v) moved the redundants: %v", redundants, got)
		}
	}
}
