package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexiusacademia/gobeam/internal/beam"
)

// SchemaVersion is written into every snapshot so future readers can tell
// which document shape they are looking at.
const SchemaVersion = 1

// Document is the serializable form of a beam model. The same shape backs
// JSON snapshots and TOML definition files; every number is SI.
type Document struct {
	SchemaVersion int          `json:"schema_version" toml:"schema_version"`
	Notes         string       `json:"notes,omitempty" toml:"notes,omitempty"`
	Beam          BeamDoc      `json:"beam" toml:"beam"`
	Supports      []SupportDoc `json:"supports" toml:"supports"`
	Loads         []LoadDoc    `json:"loads,omitempty" toml:"loads,omitempty"`
}

// BeamDoc holds the span properties. Either the rigidity product ei_nm2 or
// the separate e_pa and i_m4 pair must be set.
type BeamDoc struct {
	Length float64 `json:"length_m" toml:"length_m"`
	E      float64 `json:"e_pa,omitempty" toml:"e_pa,omitempty"`
	I      float64 `json:"i_m4,omitempty" toml:"i_m4,omitempty"`
	EI     float64 `json:"ei_nm2,omitempty" toml:"ei_nm2,omitempty"`
}

// SupportDoc is one simple support.
type SupportDoc struct {
	Name     string  `json:"name,omitempty" toml:"name,omitempty"`
	Position float64 `json:"position_m" toml:"position_m"`
}

// LoadDoc is one load with a type discriminator. Only the fields matching
// the type are meaningful: point uses position_m and magnitude_n, moment
// uses position_m and moment_nm, distributed uses the span and intensity
// fields.
type LoadDoc struct {
	Type           string  `json:"type" toml:"type"`
	Position       float64 `json:"position_m,omitempty" toml:"position_m,omitempty"`
	Magnitude      float64 `json:"magnitude_n,omitempty" toml:"magnitude_n,omitempty"`
	Moment         float64 `json:"moment_nm,omitempty" toml:"moment_nm,omitempty"`
	Start          float64 `json:"start_m,omitempty" toml:"start_m,omitempty"`
	End            float64 `json:"end_m,omitempty" toml:"end_m,omitempty"`
	StartIntensity float64 `json:"start_intensity_nm,omitempty" toml:"start_intensity_nm,omitempty"`
	EndIntensity   float64 `json:"end_intensity_nm,omitempty" toml:"end_intensity_nm,omitempty"`
}

// Load type discriminators.
const (
	LoadTypePoint       = "point"
	LoadTypeMoment      = "moment"
	LoadTypeDistributed = "distributed"
)

// Snapshot captures a model as a document that reproduces the analysis
// when loaded again.
func Snapshot(b *beam.Beam, notes string) Document {
	d := Document{
		SchemaVersion: SchemaVersion,
		Notes:         notes,
		Beam:          BeamDoc{Length: b.Length, E: b.E, I: b.I},
	}
	for _, s := range b.OrderedSupports() {
		d.Supports = append(d.Supports, SupportDoc{Name: s.Name, Position: s.Position})
	}
	for _, l := range b.Loads {
		d.Loads = append(d.Loads, encodeLoad(l))
	}
	return d
}

// Model rebuilds the validated beam the document describes.
func (d Document) Model() (*beam.Beam, error) {
	if d.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("document schema version %d is newer than supported version %d", d.SchemaVersion, SchemaVersion)
	}

	var b *beam.Beam
	var err error
	switch {
	case d.Beam.EI != 0:
		b, err = beam.NewWithRigidity(d.Beam.Length, d.Beam.EI)
	default:
		b, err = beam.New(d.Beam.Length, d.Beam.E, d.Beam.I)
	}
	if err != nil {
		return nil, err
	}

	for _, s := range d.Supports {
		if s.Name == "" {
			err = b.AddSupport(s.Position)
		} else {
			err = b.AddNamedSupport(s.Name, s.Position)
		}
		if err != nil {
			return nil, err
		}
	}
	for i, ld := range d.Loads {
		l, err := ld.load()
		if err != nil {
			return nil, fmt.Errorf("load %d: %w", i+1, err)
		}
		if err := b.AddLoad(l); err != nil {
			return nil, fmt.Errorf("load %d: %w", i+1, err)
		}
	}
	return b, nil
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// ReadJSON reads a snapshot document back.
func ReadJSON(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return d, nil
}

func encodeLoad(l beam.Load) LoadDoc {
	switch v := l.(type) {
	case beam.PointForce:
		return LoadDoc{Type: LoadTypePoint, Position: v.Position, Magnitude: v.Magnitude}
	case beam.PointMoment:
		return LoadDoc{Type: LoadTypeMoment, Position: v.Position, Moment: v.Magnitude}
	case beam.DistributedLoad:
		return LoadDoc{
			Type:           LoadTypeDistributed,
			Start:          v.Start,
			End:            v.End,
			StartIntensity: v.StartIntensity,
			EndIntensity:   v.EndIntensity,
		}
	}
	return LoadDoc{Type: fmt.Sprintf("%T", l)}
}

func (ld LoadDoc) load() (beam.Load, error) {
	switch ld.Type {
	case LoadTypePoint:
		return beam.PointForce{Position: ld.Position, Magnitude: ld.Magnitude}, nil
	case LoadTypeMoment:
		return beam.PointMoment{Position: ld.Position, Magnitude: ld.Moment}, nil
	case LoadTypeDistributed:
		return beam.DistributedLoad{
			Start:          ld.Start,
			End:            ld.End,
			StartIntensity: ld.StartIntensity,
			EndIntensity:   ld.EndIntensity,
		}, nil
	}
	return nil, fmt.Errorf("unknown load type %q", ld.Type)
}
