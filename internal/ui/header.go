package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/satscope/internal/catalog"
	"github.com/five82/satscope/internal/pipeline"
	"github.com/five82/satscope/internal/state"
)

// chromeLines is the number of lines above the table box: header, command
// bar and filter bar.
const chromeLines = 3

// chipLabels are the plural labels for the count chips.
var chipLabels = map[catalog.ObjectType]string{
	catalog.ObjectPayload:    "Payloads",
	catalog.ObjectDebris:     "Debris",
	catalog.ObjectRocketBody: "Rocket Bodies",
	catalog.ObjectUnknown:    "Unknown",
}

// chipOrder is the order chips appear in after "All".
var chipOrder = []catalog.ObjectType{
	catalog.ObjectPayload,
	catalog.ObjectDebris,
	catalog.ObjectRocketBody,
	catalog.ObjectUnknown,
}

// renderHeader renders the title, count chips and freshness.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("satscope", styles.Logo)}

	if chips := m.renderChips(styles, bg); chips != "" {
		parts = append(parts, chips)
	}

	snap := m.snapshot
	switch snap.Status.(type) {
	case state.Success:
		visible := len(snap.Data())
		label := fmt.Sprintf("%d objects", visible)
		if visible == 1 {
			label = "1 object"
		}
		parts = append(parts, bg.Render(label, styles.Text.Bold(true)))
	case state.Loading, state.Idle:
		parts = append(parts, bg.Render("Loading...", styles.WarningText.Bold(true)))
	case state.Failure:
		parts = append(parts, bg.Render("ERROR", styles.DangerText))
	}

	if ts := formatTimestamp(snap.LastUpdated, time.Now()); ts != "" {
		parts = append(parts, bg.Render("Updated", styles.FaintText)+bg.Space()+bg.Render(ts, styles.MutedText))
	}

	if m.flash != "" {
		parts = append(parts, bg.Render(m.flash, styles.AccentText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(parts, sep))
}

// renderChips renders the All/Payloads/Debris/Rocket Bodies/Unknown counts.
// Selected object types are drawn filled; "All" is filled when no type
// filter is active.
func (m Model) renderChips(styles Styles, bg BgStyle) string {
	snap := m.snapshot
	if !snap.HasCounts {
		return ""
	}
	selected := snap.Filters.ObjectTypes
	muted := styles.MutedText

	chips := make([]string, 0, len(chipOrder)+1)
	allLabel := fmt.Sprintf("All %d", snap.LastCounts.Total)
	if len(selected) == 0 {
		chips = append(chips, lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Background)).
			Background(lipgloss.Color(m.theme.Accent)).
			Bold(true).
			Padding(0, 1).
			Render(allLabel))
	} else {
		chips = append(chips, bg.Render(" "+allLabel+" ", muted))
	}

	for _, t := range chipOrder {
		label := fmt.Sprintf("%s %d", chipLabels[t], snap.LastCounts.ByType[t])
		if slices.Contains(selected, t) {
			chips = append(chips, styles.ObjectTypeBadge(t).Render(label))
			continue
		}
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.ObjectTypeColor(t)))
		chips = append(chips, bg.Render(" "+label+" ", color))
	}
	return strings.Join(chips, bg.Space())
}

// renderCommandBar renders the key hints, or the search input while it has
// focus.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.search.active {
		prompt := bg.Render("Search", styles.AccentText.Bold(true)) + bg.Space()
		hint := bg.Render("enter apply  esc cancel", styles.FaintText)
		return styles.Header.Width(m.width).MaxHeight(1).Render(prompt + m.search.input.View() + bg.Spaces(2) + hint)
	}

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"/", "Search"},
		{"f", m.filterLabel()},
		{"1-4", "Sort"},
		{"r", "Refresh"},
		{"y", "Copy ID"},
		{"j/k", "Navigate"},
		{"?", "Help"},
		{"q", "Quit"},
	}
	if m.snapshot.Filters.Search != "" {
		commands = slices.Insert(commands, 1, cmd{"x", "Clear"})
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, sep))
}

// filterLabel shows how many filter options are selected.
func (m Model) filterLabel() string {
	n := len(m.snapshot.Filters.ObjectTypes) + len(m.snapshot.Filters.OrbitCodes)
	if n == 0 {
		return "Filters"
	}
	return fmt.Sprintf("Filters (%d)", n)
}

// renderFilterBar summarizes the active search, filters and sort.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	f := m.snapshot.Filters

	var parts []string
	if f.Empty() {
		parts = append(parts, bg.Render("No filters", styles.FaintText))
	}
	if strings.TrimSpace(f.Search) != "" {
		parts = append(parts, bg.Render("Search:", styles.FaintText)+bg.Space()+
			bg.Render(fmt.Sprintf("%q", truncate(f.Search, 30)), styles.AccentText))
	}
	if len(f.ObjectTypes) > 0 {
		labels := make([]string, len(f.ObjectTypes))
		for i, t := range f.ObjectTypes {
			labels[i] = typeLabel(t)
		}
		parts = append(parts, bg.Render("Types:", styles.FaintText)+bg.Space()+
			bg.Render(strings.Join(labels, ", "), styles.Text))
	}
	if len(f.OrbitCodes) > 0 {
		parts = append(parts, bg.Render("Orbits:", styles.FaintText)+bg.Space()+
			bg.Render(truncate(strings.Join(f.OrbitCodes, ", "), 40), styles.Text))
	}
	if m.snapshot.Sort.Active() {
		label := columnTitle(m.snapshot.Sort.Field) + sortIndicator(m.snapshot.Sort, m.snapshot.Sort.Field)
		parts = append(parts, bg.Render("Sort:", styles.FaintText)+bg.Space()+
			bg.Render(label, styles.Text))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Padding(0, 1).
		Width(m.width).
		MaxHeight(1).
		Render(bg.Join(parts, "  "))
}

// columnTitle returns the table title for a sortable field.
func columnTitle(field pipeline.SortField) string {
	for _, col := range columns {
		if col.field == field {
			return col.title
		}
	}
	return string(field)
}

// formatTimestamp formats the last update time with a relative indicator.
func formatTimestamp(at, now time.Time) string {
	if at.IsZero() {
		return ""
	}

	since := now.Sub(at)
	out := at.Local().Format("15:04:05")

	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}
