package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexiusacademia/gobeam/internal/beam"
)

func modelFixture(t *testing.T) *beam.Beam {
	t.Helper()
	b, err := beam.New(6, 200e9, 8e-6)
	if err != nil {
		t.Fatal(err)
	}
	for _, pos := range []float64{0, 6} {
		if err := b.AddSupport(pos); err != nil {
			t.Fatal(err)
		}
	}
	loads := []beam.Load{
		beam.PointForce{Position: 3, Magnitude: 10000},
		beam.PointMoment{Position: 2, Magnitude: -500},
		beam.DistributedLoad{Start: 1, End: 5, StartIntensity: 0, EndIntensity: 2000},
	}
	for _, l := range loads {
		if err := b.AddLoad(l); err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := modelFixture(t)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, Snapshot(b, "round trip")); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"schema_version": 1`) {
		t.Errorf("snapshot is missing the schema version:\n%s", buf.String())
	}

	doc, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if doc.Notes != "round trip" {
		t.Errorf("Notes = %q, want %q", doc.Notes, "round trip")
	}

	got, err := doc.Model()
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if got.Length != b.Length || got.E != b.E || got.I != b.I {
		t.Errorf("properties = (%g, %g, %g), want (%g, %g, %g)",
			got.Length, got.E, got.I, b.Length, b.E, b.I)
	}
	if len(got.Supports) != len(b.Supports) {
		t.Fatalf("len(Supports) = %d, want %d", len(got.Supports), len(b.Supports))
	}
	for i := range got.Supports {
		if got.Supports[i] != b.Supports[i] {
			t.Errorf("support %d = %+v, want %+v", i, got.Supports[i], b.Supports[i])
		}
	}
	if len(got.Loads) != len(b.Loads) {
		t.Fatalf("len(Loads) = %d, want %d", len(got.Loads), len(b.Loads))
	}
	for i := range got.Loads {
		if got.Loads[i] != b.Loads[i] {
			t.Errorf("load %d = %#v, want %#v", i, got.Loads[i], b.Loads[i])
		}
	}
}

func TestDocumentModel(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr bool
	}{
		{
			name: "rigidity shorthand",
			doc: Document{
				Beam:     BeamDoc{Length: 6, EI: 30000},
				Supports: []SupportDoc{{Position: 0}, {Position: 6}},
			},
		},
		{
			name: "named supports",
			doc: Document{
				Beam:     BeamDoc{Length: 6, EI: 30000},
				Supports: []SupportDoc{{Name: "A", Position: 0}, {Name: "B", Position: 6}},
			},
		},
		{
			name: "newer schema",
			doc: Document{
				SchemaVersion: SchemaVersion + 1,
				Beam:          BeamDoc{Length: 6, EI: 30000},
				Supports:      []SupportDoc{{Position: 0}, {Position: 6}},
			},
			wantErr: true,
		},
		{
			name: "bad properties",
			doc: Document{
				Beam:     BeamDoc{Length: -1, EI: 30000},
				Supports: []SupportDoc{{Position: 0}},
			},
			wantErr: true,
		},
		{
			name: "unknown load type",
			doc: Document{
				Beam:     BeamDoc{Length: 6, EI: 30000},
				Supports: []SupportDoc{{Position: 0}, {Position: 6}},
				Loads:    []LoadDoc{{Type: "torsion", Position: 3, Magnitude: 10}},
			},
			wantErr: true,
		},
		{
			name: "load outside span",
			doc: Document{
				Beam:     BeamDoc{Length: 6, EI: 30000},
				Supports: []SupportDoc{{Position: 0}, {Position: 6}},
				Loads:    []LoadDoc{{Type: LoadTypePoint, Position: 9, Magnitude: 10}},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.doc.Model()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Model() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Model(): %v", err)
			}
			if b.EI() != tt.doc.Beam.EI {
				t.Errorf("EI = %g, want %g", b.EI(), tt.doc.Beam.EI)
			}
		})
	}
}
