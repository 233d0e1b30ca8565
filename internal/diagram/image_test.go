package diagram

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/gobeam/internal/engine"
)

func TestExportImage(t *testing.T) {
	_, res := analyzed(t)
	dir := t.TempDir()

	name := filepath.Join(dir, "moment.png")
	if err := ExportImage(res, engine.Moment, name); err != nil {
		t.Fatalf("ExportImage: %v", err)
	}
	info, err := os.Stat(name)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("exported image is empty")
	}
}

func TestExportImageDefaultsToPNG(t *testing.T) {
	_, res := analyzed(t)
	dir := t.TempDir()

	name := filepath.Join(dir, "shear")
	if err := ExportImage(res, engine.Shear, name); err != nil {
		t.Fatalf("ExportImage: %v", err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		t.Errorf("default-format file missing: %v", err)
	}
}

func TestExportImageUnknownQuantity(t *testing.T) {
	_, res := analyzed(t)

	if err := ExportImage(res, "twist", filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Error("ExportImage accepted an unknown quantity")
	}
}

func TestExportImages(t *testing.T) {
	_, res := analyzed(t)
	dir := t.TempDir()

	files, err := ExportImages(res, dir, "png")
	if err != nil {
		t.Fatalf("ExportImages: %v", err)
	}
	if len(files) != len(engine.Quantities) {
		t.Fatalf("exported %d files, want %d", len(files), len(engine.Quantities))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}
}
