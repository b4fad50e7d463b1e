package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"jvanrhyn.dev/disklayers/internal/layout"
	"jvanrhyn.dev/disklayers/internal/source"
)

func loadedModel(t *testing.T) *model {
	t.Helper()
	m := initialModel("sample", source.Options{}, nil)
	m.width, m.height = 80, 24
	if err := m.applySnapshot(sampleRecords()); err != nil {
		t.Fatalf("applySnapshot: %v", err)
	}
	return m
}

func rowIDs(m *model) []string {
	ids := make([]string, 0, len(m.rows))
	for _, l := range m.rows {
		ids = append(ids, string(l.ID))
	}
	return ids
}

func TestModelShowsChildrenOfRoot(t *testing.T) {
	m := loadedModel(t)
	if got := strings.Join(rowIDs(m), ","); got != "b,a" {
		t.Fatalf("rows = %s; want b,a", got)
	}
	if len(m.tbl.Rows()) != 2 {
		t.Fatalf("table rows = %d; want 2", len(m.tbl.Rows()))
	}
	if !strings.Contains(m.status, "root") {
		t.Fatalf("status should name the current root, got %q", m.status)
	}
}

func TestModelDrillAndReset(t *testing.T) {
	m := loadedModel(t)

	m.drill("a")
	if m.nav.Current() != "a" {
		t.Fatalf("current = %s; want a", m.nav.Current())
	}
	if got := strings.Join(rowIDs(m), ","); got != "a/x,a/y" {
		t.Fatalf("rows after drill = %s; want a/x,a/y", got)
	}
	if m.paint[0].Portion != 1 {
		t.Fatalf("current root portion = %v; want 1", m.paint[0].Portion)
	}
	if got := m.breadcrumb(); got != "root / a" {
		t.Fatalf("breadcrumb = %q", got)
	}

	m.drillParent()
	if m.nav.Current() != "." {
		t.Fatalf("parent of a should be the root, got %s", m.nav.Current())
	}
	m.drillParent()
	if m.status != "Already at the top" {
		t.Fatalf("status = %q", m.status)
	}

	m.drill("a")
	m.reset()
	if !m.nav.AtOverallRoot() {
		t.Fatalf("reset should return to the overall root")
	}
}

func TestModelDrillIntoDocumentKeepsRoot(t *testing.T) {
	m := loadedModel(t)
	m.drill("b")
	if m.nav.Current() != "." {
		t.Fatalf("current changed to %s", m.nav.Current())
	}
	if !strings.Contains(m.status, "not a folder") {
		t.Fatalf("status = %q; want not a folder", m.status)
	}
}

func TestModelEnterOpensSelectedFolder(t *testing.T) {
	m := loadedModel(t)
	m.tbl.SetCursor(1) // a
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.nav.Current() != "a" {
		t.Fatalf("enter should open a, current = %s", m.nav.Current())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.nav.Current() != "." {
		t.Fatalf("backspace should return to root, current = %s", m.nav.Current())
	}
}

func TestModelBandHeightKeys(t *testing.T) {
	m := loadedModel(t)
	for i := 0; i < 10; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	}
	if m.bandHeight != maxBandHeight {
		t.Fatalf("bandHeight = %d; want %d", m.bandHeight, maxBandHeight)
	}
	for i := 0; i < 10; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	}
	if m.bandHeight != minBandHeight {
		t.Fatalf("bandHeight = %d; want %d", m.bandHeight, minBandHeight)
	}
}

func TestModelMouseClickDrills(t *testing.T) {
	m := loadedModel(t)
	// layer 1 is one row above the root band; the header takes line 0
	depth := m.visibleDepth()
	y := 1 + (depth - 2)
	x := int(0.8 * float64(m.screenWidth()))
	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.nav.Current() != "a" {
		t.Fatalf("click should open a, current = %s", m.nav.Current())
	}
}

func TestModelMouseMotionShowsBand(t *testing.T) {
	m := loadedModel(t)
	summary := m.status
	depth := m.visibleDepth()
	// top band row is layer 2; a/x covers [.6,.9) of the width
	x := int(0.7 * float64(m.screenWidth()))
	m.Update(tea.MouseMsg{X: x, Y: 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	if m.status != "x.txt: 300 B (30.0%)" {
		t.Fatalf("hover status = %q", m.status)
	}
	if m.nav.Current() != "." {
		t.Fatalf("hover must not navigate, current = %s", m.nav.Current())
	}

	// below the bands the summary comes back
	m.Update(tea.MouseMsg{X: x, Y: 1 + depth + 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	if m.status != summary {
		t.Fatalf("status after leaving bands = %q; want %q", m.status, summary)
	}
}

func TestModelIgnoresSupersededLoad(t *testing.T) {
	m := loadedModel(t)
	m.loadToken = "current"
	m.loading = true
	m.Update(loadedMsg{records: nil, token: "old"})
	if !m.loading {
		t.Fatalf("a stale load result must not finish loading")
	}
	m.Update(loadedMsg{records: sampleRecords(), token: "current"})
	if m.loading || m.nav == nil {
		t.Fatalf("current load result should be applied")
	}
}

func TestModelReportsBadSnapshot(t *testing.T) {
	m := initialModel("bad", source.Options{}, nil)
	m.loadToken = "t"
	m.loading = true
	recs := []layout.Record{{ID: "x", ParentID: "y", Name: "x", Kind: layout.Folder}}
	m.Update(loadedMsg{records: recs, token: "t"})
	if m.nav != nil {
		t.Fatalf("navigator should not be built from invalid records")
	}
	if !strings.HasPrefix(m.status, "⚠") {
		t.Fatalf("status = %q; want warning", m.status)
	}
}

func TestModelLoadsDirectory(t *testing.T) {
	tmp := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmp, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "sub", "f"), make([]byte, 64), 0o644); err != nil {
		t.Fatal(err)
	}
	m := initialModel(tmp, source.Options{Scanner: &source.Scanner{Threads: 2}}, nil)
	msg := m.startLoad()()
	m.Update(msg)
	if m.nav == nil {
		t.Fatalf("load failed: %s", m.status)
	}
	size, _ := m.sizes.Size(source.RootID)
	if size != 64 {
		t.Fatalf("root size = %d; want 64", size)
	}
}

func TestModelViewWhileLoading(t *testing.T) {
	m := initialModel("sample", source.Options{}, nil)
	m.width, m.height = 60, 20
	m.loading = true
	m.status = "Loading sample ..."
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 20 {
		t.Fatalf("view has %d lines; want 20", len(lines))
	}
	if !strings.Contains(m.View(), "Loading sample") {
		t.Fatalf("loading popup missing")
	}
}
