package export

import (
	"bytes"
	"testing"

	"github.com/alexiusacademia/gobeam/internal/units"
)

func TestWriteReport(t *testing.T) {
	b, res := analyzedFixture(t)
	sys, err := units.SystemByID("si-kn")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, b, res, sys); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:8])
	}
	if buf.Len() < 1000 {
		t.Errorf("report is implausibly small: %d bytes", buf.Len())
	}
}

func TestWriteReportRejectsUnknownUnits(t *testing.T) {
	b, res := analyzedFixture(t)
	sys := units.System{Length: "m", Force: "zorkmid", LineLoad: "N/m", Deflection: "m"}
	if err := WriteReport(&bytes.Buffer{}, b, res, sys); err == nil {
		t.Error("WriteReport with an unknown unit should fail")
	}
}
