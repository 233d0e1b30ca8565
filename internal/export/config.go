package export

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// ReadConfig loads a TOML beam definition file.
func ReadConfig(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var d Document
	if err := toml.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return d, nil
}

// WriteConfig writes the document as a TOML beam definition.
func WriteConfig(w io.Writer, d Document) error {
	return toml.NewEncoder(w).Encode(d)
}

// ExampleDocument returns a small complete definition, used to seed new
// configuration files.
func ExampleDocument() Document {
	return Document{
		SchemaVersion: SchemaVersion,
		Notes:         "Simply supported span with a midspan point load. All values are SI.",
		Beam:          BeamDoc{Length: 6, EI: 30000},
		Supports:      []SupportDoc{{Position: 0}, {Position: 6}},
		Loads:         []LoadDoc{{Type: LoadTypePoint, Position: 3, Magnitude: 10000}},
	}
}
