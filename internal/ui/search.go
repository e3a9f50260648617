package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// searchState holds the search input while it is being edited.
type searchState struct {
	active bool
	input  textinput.Model
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Placeholder = "name or NORAD ID"
	ti.CharLimit = 100
	ti.Prompt = "/"
	return searchState{input: ti}
}

// startSearch focuses the input, seeded with the applied search text.
func (m *Model) startSearch() tea.Cmd {
	m.search.active = true
	m.search.input.SetValue(m.snapshot.Filters.Search)
	m.search.input.CursorEnd()
	return m.search.input.Focus()
}

// handleSearchInput handles keyboard input while the search box has focus.
// Enter applies the text as typed, including surrounding whitespace; an
// empty submission clears the search.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.search.active = false
		m.search.input.Blur()
		m.coord.SetSearch(m.search.input.Value())
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.search.active = false
		m.search.input.Blur()
		return m, nil

	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

// clearSearch drops the applied search text.
func (m *Model) clearSearch() {
	if m.snapshot.Filters.Search == "" {
		return
	}
	m.search.input.SetValue("")
	m.coord.SetSearch("")
	m.refresh()
}
