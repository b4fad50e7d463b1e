package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jvanrhyn.dev/disklayers/internal/source"
)

func TestWritePaintCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := writePaintCSV(&buf, samplePaint()); err != nil {
		t.Fatal(err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(recs))
	}
	if strings.Join(recs[0], ",") != strings.Join(paintHeader, ",") {
		t.Fatalf("unexpected csv header: %v", recs[0])
	}
	want := [][]string{
		{"0", ".", "root", "Folder", "1000", "1000 B", "100.00", "0.00"},
		{"1", "b", "b.zip", "Document", "600", "600 B", "60.00", "0.00"},
		{"1", "a", "a", "Folder", "400", "400 B", "40.00", "60.00"},
		{"2", "a/x", "x.txt", "Document", "300", "300 B", "30.00", "60.00"},
		{"2", "a/y", "y.txt", "Document", "100", "100 B", "10.00", "90.00"},
	}
	for i, w := range want {
		if got := strings.Join(recs[i+1], ","); got != strings.Join(w, ",") {
			t.Fatalf("row %d = %s; want %s", i+1, got, strings.Join(w, ","))
		}
	}
}

func TestExportCSVIntegration(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	m := loadedModel(t)
	msg := m.exportCSV()()
	exMsg, ok := msg.(exportDoneMsg)
	if !ok {
		t.Fatalf("expected exportDoneMsg, got %T", msg)
	}
	if exMsg.err != nil {
		t.Fatalf("export error: %v", exMsg.err)
	}
	if !strings.HasPrefix(filepath.Base(exMsg.path), "layers-") {
		t.Fatalf("unexpected export name %q", exMsg.path)
	}
	f, err := os.Open(exMsg.path)
	if err != nil {
		t.Fatal(err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	rec, err := csv.NewReader(f).Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(rec) < 1 || rec[0] != "Layer" {
		t.Fatalf("unexpected csv header: %v", rec)
	}

	m.Update(exMsg)
	if !strings.HasPrefix(m.status, "Exported") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestExportCSVWithoutData(t *testing.T) {
	m := initialModel("empty", source.Options{}, nil)
	msg := m.exportCSV()().(exportDoneMsg)
	if msg.err == nil {
		t.Fatal("expected error exporting an empty view")
	}
}
