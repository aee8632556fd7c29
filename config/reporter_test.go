package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestReport_StoreAndClose(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	stored := filepath.Join(dir, "source.md")
	if err := os.WriteFile(stored, []byte("# Title"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	r.Store("source.md", stored)
	r.StoreData("html/source.html", []byte("<h1>Title</h1>"))
	r.StoreData("html/source.html", []byte("<h1>Second</h1>"))
	// absent files are ignored
	r.Store("missing.log", filepath.Join(dir, "missing.log"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("report is not a zip archive: %v", err)
	}
	defer zr.Close()

	names := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		names[f.Name] = string(data)
	}

	if _, ok := names["MANIFEST"]; !ok {
		t.Error("report has no MANIFEST")
	}
	if names["source.md"] != "# Title" {
		t.Errorf("source.md = %q", names["source.md"])
	}
	if names["html/source.html"] != "<h1>Title</h1>" {
		t.Errorf("html/source.html = %q", names["html/source.html"])
	}
	// second copy is versioned
	if len(names) != 4 {
		t.Errorf("report has %d entries, want 4: %v", len(names), names)
	}
}

func TestReport_StoreConflictPanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("a", "/tmp/one")
	defer func() {
		if recover() == nil {
			t.Error("expected panic on conflicting Store")
		}
	}()
	r.Store("a", "/tmp/two")
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	// all methods are safe on nil report
	r.Store("x", "y")
	r.StoreData("x", []byte("y"))
	if r.Name() != "" {
		t.Error("Name() of nil report should be empty")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
