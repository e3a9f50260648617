package ui

import (
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/satscope/internal/catalog"
	"github.com/five82/satscope/internal/pipeline"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sendPanel(t *testing.T, p *filterPanel, msg tea.KeyMsg) (tea.Cmd, bool) {
	t.Helper()
	modal, cmd, closed := p.Update(msg, DefaultKeyMap())
	if modal != p {
		t.Fatalf("Update returned a different modal")
	}
	return cmd, closed
}

func applied(t *testing.T, cmd tea.Cmd) applyFiltersMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected apply command, got nil")
	}
	msg, ok := cmd().(applyFiltersMsg)
	if !ok {
		t.Fatalf("command produced %T, want applyFiltersMsg", cmd())
	}
	return msg
}

func TestFilterPanel_SeedsFromAppliedFilters(t *testing.T) {
	p := newFilterPanel(pipeline.Filters{
		ObjectTypes: []catalog.ObjectType{catalog.ObjectDebris},
		OrbitCodes:  []string{"GEO", "XYZ"},
	})

	types, orbits := p.selection()
	if !slices.Equal(types, []catalog.ObjectType{catalog.ObjectDebris}) {
		t.Fatalf("types = %v", types)
	}
	if !slices.Equal(orbits, []string{"GEO", "XYZ"}) {
		t.Fatalf("orbits = %v", orbits)
	}
	if !slices.Contains(p.orbitOptions, "XYZ") {
		t.Fatalf("custom orbit code missing from options %v", p.orbitOptions)
	}
	if len(catalog.OrbitCodes) != 19 {
		t.Fatalf("known orbit codes were modified: %v", catalog.OrbitCodes)
	}
}

func TestFilterPanel_ToggleAndApply(t *testing.T) {
	p := newFilterPanel(pipeline.Filters{})

	// Payload, then move down twice to Debris.
	sendPanel(t, p, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	sendPanel(t, p, runes("j"))
	sendPanel(t, p, runes("j"))
	sendPanel(t, p, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	// Orbit grid: LEO, then one row down to GEO.
	sendPanel(t, p, tea.KeyMsg{Type: tea.KeyTab})
	sendPanel(t, p, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	sendPanel(t, p, runes("j"))
	sendPanel(t, p, runes("l"))
	sendPanel(t, p, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	cmd, closed := sendPanel(t, p, tea.KeyMsg{Type: tea.KeyEnter})
	if !closed {
		t.Fatal("enter should close the panel")
	}
	msg := applied(t, cmd)
	if !slices.Equal(msg.objectTypes, []catalog.ObjectType{catalog.ObjectPayload, catalog.ObjectDebris}) {
		t.Fatalf("object types = %v", msg.objectTypes)
	}
	if !slices.Equal(msg.orbitCodes, []string{"GEO", "LEO"}) {
		t.Fatalf("orbit codes = %v", msg.orbitCodes)
	}
}

func TestFilterPanel_EscapeDiscardsSelection(t *testing.T) {
	p := newFilterPanel(pipeline.Filters{})
	sendPanel(t, p, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	cmd, closed := sendPanel(t, p, tea.KeyMsg{Type: tea.KeyEsc})
	if !closed {
		t.Fatal("esc should close the panel")
	}
	if cmd != nil {
		t.Fatal("esc should not apply filters")
	}
}

func TestFilterPanel_ResetAppliesImmediately(t *testing.T) {
	p := newFilterPanel(pipeline.Filters{
		ObjectTypes: []catalog.ObjectType{catalog.ObjectPayload},
		OrbitCodes:  []string{"LEO"},
	})

	cmd, closed := sendPanel(t, p, runes("R"))
	if closed {
		t.Fatal("reset should keep the panel open")
	}
	msg := applied(t, cmd)
	if len(msg.objectTypes) != 0 || len(msg.orbitCodes) != 0 {
		t.Fatalf("reset applied %v %v, want empty", msg.objectTypes, msg.orbitCodes)
	}
	if p.selectedCount() != 0 {
		t.Fatalf("selectedCount after reset = %d", p.selectedCount())
	}
}

func TestFilterPanel_CursorClamps(t *testing.T) {
	p := newFilterPanel(pipeline.Filters{})
	for range 10 {
		sendPanel(t, p, runes("k"))
	}
	if p.typeCursor != 0 {
		t.Fatalf("typeCursor = %d, want 0", p.typeCursor)
	}
	for range 10 {
		sendPanel(t, p, runes("j"))
	}
	if p.typeCursor != len(catalog.ObjectTypes)-1 {
		t.Fatalf("typeCursor = %d, want %d", p.typeCursor, len(catalog.ObjectTypes)-1)
	}

	sendPanel(t, p, tea.KeyMsg{Type: tea.KeyTab})
	for range 10 {
		sendPanel(t, p, runes("j"))
	}
	if p.orbitCursor != len(p.orbitOptions)-1 {
		t.Fatalf("orbitCursor = %d, want %d", p.orbitCursor, len(p.orbitOptions)-1)
	}
}

func TestFilterPanel_ViewShowsSections(t *testing.T) {
	p := newFilterPanel(pipeline.Filters{ObjectTypes: []catalog.ObjectType{catalog.ObjectPayload}})
	view := p.View(GetTheme("Nightfox"), 120, 50)
	for _, want := range []string{"Object Types", "Orbit Codes", "[x] Payload", "[ ] LEO", "1 selected"} {
		if !contains(view, want) {
			t.Fatalf("panel view missing %q", want)
		}
	}
}
