package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m ItemSetBrowser, keys ...tea.KeyMsg) ItemSetBrowser {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(ItemSetBrowser)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestItemSetBrowserNavigation(t *testing.T) {
	m := NewItemSetBrowser(sortItemSets(sampleSets()), 4)

	m = press(m, runes("j"), runes("j"))
	if s, _ := m.Selected(); itemSetLabel(s) != "{eggs}" {
		t.Errorf("Selected() = %s, want {eggs}", itemSetLabel(s))
	}

	m = press(m, runes("j"), runes("j"), runes("j"))
	if m.Cursor != 3 {
		t.Errorf("Cursor = %d, want it to stop at the last row", m.Cursor)
	}

	m = press(m, runes("k"))
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}
}

func TestItemSetBrowserFilter(t *testing.T) {
	m := NewItemSetBrowser(sortItemSets(sampleSets()), 4)

	m = press(m, runes("/"), runes("MI"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Filter != "MI" || m.filtering {
		t.Fatalf("Filter = %q, filtering = %v", m.Filter, m.filtering)
	}
	if len(m.visible) != 2 {
		t.Errorf("visible = %d, want milk and bread+milk", len(m.visible))
	}

	view := m.View()
	if strings.Contains(view, "{eggs}") || !strings.Contains(view, "{bread, milk}") {
		t.Errorf("filtered view:\n%s", view)
	}

	m = press(m, runes("/"), tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	if len(m.visible) != 4 {
		t.Errorf("visible = %d after clearing the filter, want 4", len(m.visible))
	}
}

func TestItemSetBrowserViewShowsSupportChain(t *testing.T) {
	m := NewItemSetBrowser(sortItemSets(sampleSets()), 4)
	m = press(m, runes("j"), runes("j"), runes("j"))

	view := m.View()
	if !strings.Contains(view, "3 (75.0%)") || !strings.Contains(view, "2 (50.0%)") {
		t.Errorf("view should show the supports of {bread, milk}:\n%s", view)
	}
	if !strings.Contains(view, "[4/4]") {
		t.Errorf("view should show the position:\n%s", view)
	}
}

func TestItemSetBrowserQuit(t *testing.T) {
	m := NewItemSetBrowser(sampleSets(), 4)
	if _, cmd := m.Update(runes("q")); cmd == nil {
		t.Error("q should quit")
	}
}
