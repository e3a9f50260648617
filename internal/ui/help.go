package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// helpModal is the keyboard shortcut overlay.
type helpModal struct{}

// Update implements Modal. Any of help, escape or quit closes the overlay.
func (helpModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return helpModal{}, nil, false
	}
	switch {
	case keyMsg.String() == "ctrl+c":
		return helpModal{}, tea.Quit, true
	case key.Matches(keyMsg, keys.Help), key.Matches(keyMsg, keys.Escape), keyMsg.String() == "q":
		return helpModal{}, nil, true
	}
	return helpModal{}, nil, false
}

// View implements Modal.
func (helpModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"j/k", "Move down/up"},
				{"g/G", "Go to top/bottom"},
				{"ctrl+d/u", "Half page down/up"},
				{"wheel", "Scroll"},
			},
		},
		{
			title: "Search & Filters",
			items: []helpItem{
				{"/", "Search name or NORAD ID"},
				{"x", "Clear search"},
				{"f", "Filter panel"},
				{"R", "Reset filters (in panel)"},
			},
		},
		{
			title: "Sorting",
			items: []helpItem{
				{"1", "NORAD ID"},
				{"2", "Name"},
				{"3", "Country"},
				{"4", "Launch date"},
				{"click", "Sort by column header"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"r", "Refresh"},
				{"y", "Copy NORAD ID"},
				{"T", "Cycle theme"},
				{"?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Warning)).
		Width(12)

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(44)

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

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
