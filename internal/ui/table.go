package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/five82/satscope/internal/catalog"
	"github.com/five82/satscope/internal/pipeline"
	"github.com/five82/satscope/internal/state"
)

// EmptyMessage is shown when a successful fetch leaves no visible records.
const EmptyMessage = "No satellites found matching your criteria"

const (
	loadingMessage = "Loading satellite data..."
	retryHint      = "Press r to retry"

	// cellPadding is the horizontal padding bubbles/table puts around cells.
	cellPadding  = 2
	minNameWidth = 12
)

// column describes one table column. Columns with a sort field are clickable.
type column struct {
	title string
	field pipeline.SortField
	width int // 0 means flexible
	value func(catalog.Satellite) string
}

var columns = []column{
	{title: "NORAD ID", field: pipeline.SortNoradCatID, width: 10, value: func(s catalog.Satellite) string { return s.NoradCatID }},
	{title: "Name", field: pipeline.SortName, value: func(s catalog.Satellite) string { return s.Name }},
	{title: "Orbit Code", width: 14, value: func(s catalog.Satellite) string { return s.OrbitLabel() }},
	{title: "Object Type", width: 12, value: func(s catalog.Satellite) string { return typeLabel(s.ObjectType) }},
	{title: "Country", field: pipeline.SortCountry, width: 9, value: func(s catalog.Satellite) string { return s.CountryCode }},
	{title: "Launch Date", field: pipeline.SortLaunchDate, width: 13, value: launchLabel},
}

var titleCaser = cases.Title(language.English)

// typeLabel renders an object type for display, e.g. "Rocket Body".
func typeLabel(t catalog.ObjectType) string {
	if t == "" {
		return "-"
	}
	return titleCaser.String(strings.ToLower(string(t)))
}

// launchLabel shows the calendar date when the launch date parses.
func launchLabel(s catalog.Satellite) string {
	if !s.LaunchTime.IsZero() {
		return s.LaunchTime.Format("2006-01-02")
	}
	if s.LaunchDate == "" {
		return "-"
	}
	return s.LaunchDate
}

// sortIndicator returns the arrow shown next to the active sort column.
func sortIndicator(sort pipeline.Sort, field pipeline.SortField) string {
	if field == pipeline.SortNone || sort.Field != field {
		return ""
	}
	if sort.Descending() {
		return " ▼"
	}
	return " ▲"
}

// columnWidths sizes the flexible Name column to fill width.
func columnWidths(width int) []int {
	widths := make([]int, len(columns))
	used := 0
	flex := -1
	for i, col := range columns {
		if col.width == 0 {
			flex = i
			continue
		}
		widths[i] = col.width
		used += col.width + cellPadding
	}
	if flex >= 0 {
		widths[flex] = max(minNameWidth, width-used-cellPadding)
	}
	return widths
}

// tableColumns builds bubbles/table columns with sort indicators.
func tableColumns(width int, sort pipeline.Sort) []table.Column {
	widths := columnWidths(width)
	out := make([]table.Column, len(columns))
	for i, col := range columns {
		out[i] = table.Column{
			Title: col.title + sortIndicator(sort, col.field),
			Width: widths[i],
		}
	}
	return out
}

// tableRows converts records into table rows truncated to the column widths.
func tableRows(records []catalog.Satellite, widths []int) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		row := make(table.Row, len(columns))
		for i, col := range columns {
			row[i] = truncate(col.value(rec), widths[i])
		}
		rows = append(rows, row)
	}
	return rows
}

// columnAt maps an x offset inside the table to a column index, or -1.
func columnAt(x int, widths []int) int {
	if x < 0 {
		return -1
	}
	start := 0
	for i, w := range widths {
		end := start + w + cellPadding
		if x < end {
			return i
		}
		start = end
	}
	return -1
}

// newTable creates the records table.
func newTable(theme Theme) table.Model {
	return table.New(
		table.WithColumns(tableColumns(80, pipeline.Sort{})),
		table.WithFocused(true),
		table.WithStyles(theme.TableStyles()),
		table.WithKeyMap(tableKeyMap()),
	)
}

// syncTable rebuilds columns and rows from the snapshot for the current
// window size.
func (m *Model) syncTable() {
	width := m.tableWidth()
	widths := columnWidths(width)

	m.table.SetColumns(tableColumns(width, m.snapshot.Sort))
	m.table.SetRows(tableRows(m.snapshot.Data(), widths))
	m.table.SetWidth(width)
	m.table.SetHeight(max(3, m.tableHeight()))
}

// restoreCursor moves the cursor back onto the record with the given NORAD
// ID when it is still visible, and to the top otherwise.
func (m *Model) restoreCursor(id string) {
	if id != "" {
		for i, rec := range m.snapshot.Data() {
			if rec.NoradCatID == id {
				m.table.SetCursor(i)
				return
			}
		}
	}
	m.table.SetCursor(0)
}

// selectedID returns the NORAD ID under the cursor.
func (m Model) selectedID() string {
	data := m.snapshot.Data()
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(data) {
		return ""
	}
	return data[cursor].NoradCatID
}

// tableWidth is the usable width inside the table box.
func (m Model) tableWidth() int {
	return max(20, m.width-2)
}

// tableHeight is the usable height inside the table box.
func (m Model) tableHeight() int {
	return m.height - chromeLines - 2
}

// renderTable renders the main panel for the current status.
func (m Model) renderTable(width, height int) string {
	title := "Satellites"
	snap := m.snapshot

	var content string
	switch status := snap.Status.(type) {
	case state.Success:
		if len(snap.Data()) == 0 {
			content = m.renderEmpty(width-2, height-2, m.theme.Styles().MutedText.Render(EmptyMessage))
		} else {
			content = m.table.View()
		}
	case state.Failure:
		content = m.renderFailure(status, width-2, height-2)
	default:
		content = m.renderEmpty(width-2, height-2, m.spinner.View()+" "+loadingMessage)
	}

	return m.renderTitledBox(title, content, width, height)
}

func (m Model) renderFailure(status state.Failure, width, height int) string {
	styles := m.theme.Styles()
	message := "Something went wrong"
	if status.Err != nil {
		message = status.Err.Error()
	}
	wrapWidth := max(10, min(width-4, 72))
	body := lipgloss.JoinVertical(
		lipgloss.Center,
		styles.DangerText.Render(wordwrap.String("⚠ "+message, wrapWidth)),
		"",
		styles.MutedText.Render(retryHint),
	)
	return m.renderEmpty(width, height, body)
}

func (m Model) renderEmpty(width, height int, content string) string {
	return lipgloss.Place(
		max(1, width),
		max(1, height),
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.SurfaceAlt)),
	)
}

// renderTitledBox renders content inside a box with the title in the top
// border.
func (m Model) renderTitledBox(title, content string, width, height int) string {
	borderColor := lipgloss.Color(m.theme.Border)
	bg := lipgloss.Color(m.theme.SurfaceAlt)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor).Background(bg)
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent)).Background(bg).Bold(true)

	innerWidth := max(1, width-2)
	innerHeight := max(1, height-2)

	// Top border: ┌─ Title ─────┐
	titleText := " " + truncate(title, max(1, innerWidth-4)) + " "
	fill := max(0, innerWidth-1-runewidth.StringWidth(titleText))
	top := borderStyle.Render("┌─") +
		titleStyle.Render(titleText) +
		borderStyle.Render(strings.Repeat("─", fill)+"┐")

	contentStyle := lipgloss.NewStyle().Background(bg).Width(innerWidth).MaxWidth(innerWidth)
	lines := strings.Split(content, "\n")
	var b strings.Builder
	b.WriteString(top)
	for i := 0; i < innerHeight; i++ {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		b.WriteString("\n")
		b.WriteString(borderStyle.Render("│"))
		b.WriteString(contentStyle.Render(line))
		b.WriteString(borderStyle.Render("│"))
	}
	b.WriteString("\n")
	b.WriteString(borderStyle.Render("└" + strings.Repeat("─", innerWidth) + "┘"))
	return b.String()
}
