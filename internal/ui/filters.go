package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/satscope/internal/catalog"
	"github.com/five82/satscope/internal/pipeline"
)

type filterSection int

const (
	sectionTypes filterSection = iota
	sectionOrbits
)

// orbitColumns is the number of orbit codes per row in the panel grid.
const orbitColumns = 5

// applyFiltersMsg carries the panel selection to the model.
type applyFiltersMsg struct {
	objectTypes []catalog.ObjectType
	orbitCodes  []string
}

// filterPanel edits a temporary copy of the object type and orbit code
// filters. Nothing reaches the coordinator until the selection is applied.
type filterPanel struct {
	section      filterSection
	typeCursor   int
	orbitCursor  int
	types        map[catalog.ObjectType]bool
	orbits       map[string]bool
	orbitOptions []string
}

// newFilterPanel opens the panel seeded with the applied filters.
func newFilterPanel(applied pipeline.Filters) *filterPanel {
	p := &filterPanel{
		types:  make(map[catalog.ObjectType]bool),
		orbits: make(map[string]bool),
	}
	for _, t := range applied.ObjectTypes {
		p.types[t] = true
	}
	for _, code := range applied.OrbitCodes {
		p.orbits[code] = true
	}
	// Configured codes outside the known list stay selectable.
	p.orbitOptions = catalog.OrbitCodes
	for _, code := range applied.OrbitCodes {
		if !slices.Contains(catalog.OrbitCodes, code) {
			p.orbitOptions = append(slices.Clone(p.orbitOptions), code)
		}
	}
	return p
}

// selection returns the temporary selection in canonical order.
func (p *filterPanel) selection() ([]catalog.ObjectType, []string) {
	var types []catalog.ObjectType
	for t, on := range p.types {
		if on {
			types = append(types, t)
		}
	}
	var orbits []string
	for code, on := range p.orbits {
		if on {
			orbits = append(orbits, code)
		}
	}
	return catalog.NormalizeObjectTypes(types), catalog.NormalizeOrbitCodes(orbits)
}

func (p *filterPanel) selectedCount() int {
	types, orbits := p.selection()
	return len(types) + len(orbits)
}

func (p *filterPanel) applyCmd() tea.Cmd {
	types, orbits := p.selection()
	return func() tea.Msg {
		return applyFiltersMsg{objectTypes: types, orbitCodes: orbits}
	}
}

func (p *filterPanel) toggle() {
	switch p.section {
	case sectionTypes:
		t := catalog.ObjectTypes[p.typeCursor]
		p.types[t] = !p.types[t]
	case sectionOrbits:
		code := p.orbitOptions[p.orbitCursor]
		p.orbits[code] = !p.orbits[code]
	}
}

func (p *filterPanel) reset() {
	clear(p.types)
	clear(p.orbits)
}

// move shifts the cursor. Orbit codes are laid out in a grid, so vertical
// moves jump a whole row there.
func (p *filterPanel) move(dx, dy int) {
	switch p.section {
	case sectionTypes:
		p.typeCursor = clamp(p.typeCursor+dy+dx, 0, len(catalog.ObjectTypes)-1)
	case sectionOrbits:
		p.orbitCursor = clamp(p.orbitCursor+dx+dy*orbitColumns, 0, len(p.orbitOptions)-1)
	}
}

// Update implements Modal.
func (p *filterPanel) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil, false
	}

	switch {
	case keyMsg.String() == "ctrl+c":
		return p, tea.Quit, true
	case key.Matches(keyMsg, keys.Escape), key.Matches(keyMsg, keys.Filters):
		return p, nil, true
	case key.Matches(keyMsg, keys.Confirm):
		return p, p.applyCmd(), true
	case key.Matches(keyMsg, keys.ResetFilters):
		p.reset()
		return p, p.applyCmd(), false
	case key.Matches(keyMsg, keys.Toggle):
		p.toggle()
	case key.Matches(keyMsg, keys.NextSection):
		if p.section == sectionTypes {
			p.section = sectionOrbits
		} else {
			p.section = sectionTypes
		}
	case key.Matches(keyMsg, keys.Up):
		p.move(0, -1)
	case key.Matches(keyMsg, keys.Down):
		p.move(0, 1)
	case key.Matches(keyMsg, keys.Left):
		p.move(-1, 0)
	case key.Matches(keyMsg, keys.Right):
		p.move(1, 0)
	}
	return p, nil, false
}

// View implements Modal.
func (p *filterPanel) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	title := "Filters"
	if n := p.selectedCount(); n > 0 {
		title = fmt.Sprintf("Filters (%d selected)", n)
	}
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 44)))
	b.WriteString("\n\n")

	b.WriteString(p.sectionTitle(theme, "Object Types", sectionTypes))
	b.WriteString("\n")
	for i, t := range catalog.ObjectTypes {
		focused := p.section == sectionTypes && i == p.typeCursor
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.ObjectTypeColor(t)))
		b.WriteString(p.option(theme, typeLabel(t), p.types[t], focused, color, 0))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(p.sectionTitle(theme, "Orbit Codes", sectionOrbits))
	b.WriteString("\n")
	for row := 0; row*orbitColumns < len(p.orbitOptions); row++ {
		cells := make([]string, 0, orbitColumns)
		for col := 0; col < orbitColumns; col++ {
			i := row*orbitColumns + col
			if i >= len(p.orbitOptions) {
				break
			}
			code := p.orbitOptions[i]
			focused := p.section == sectionOrbits && i == p.orbitCursor
			cells = append(cells, p.option(theme, code, p.orbits[code], focused, styles.Text, 12))
		}
		b.WriteString(strings.Join(cells, ""))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	hint := "space toggle  tab section  enter apply  R reset  esc close"
	b.WriteString(styles.FaintText.Render(hint))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 2).
		Width(min(68, max(40, width-4)))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func (p *filterPanel) sectionTitle(theme Theme, title string, section filterSection) string {
	styles := theme.Styles()
	if p.section == section {
		return styles.AccentText.Bold(true).Render("▸ " + title)
	}
	return styles.MutedText.Render("  " + title)
}

func (p *filterPanel) option(theme Theme, label string, selected, focused bool, style lipgloss.Style, width int) string {
	box := "[ ]"
	if selected {
		box = "[x]"
	}
	text := box + " " + label
	if focused {
		style = style.
			Foreground(lipgloss.Color(theme.SelectionText)).
			Background(lipgloss.Color(theme.SelectionBg))
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(text)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
