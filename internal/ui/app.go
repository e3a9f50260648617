package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/satscope/internal/logging"
	"github.com/five82/satscope/internal/pipeline"
	"github.com/five82/satscope/internal/prefs"
	"github.com/five82/satscope/internal/state"
)

const flashDuration = 3 * time.Second

// Options configures the UI.
type Options struct {
	Context     context.Context
	Coordinator *state.Coordinator
	Logger      *slog.Logger
	ThemeName   string
	PrefsPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	coord     *state.Coordinator
	logger    *slog.Logger
	prefsPath string
	keys      keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Data state
	snapshot state.Snapshot

	// Components
	table   table.Model
	spinner spinner.Model
	search  searchState
	modal   Modal

	// Transient message in the header
	flash    string
	flashSeq int
}

// fetchDoneMsg reports that a catalog request finished. applied is false
// when the response was superseded.
type fetchDoneMsg struct {
	generation uint64
	applied    bool
}

type copiedMsg struct {
	id  string
	err error
}

type clearFlashMsg struct{ seq int }

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}
	theme := GetTheme(themeName)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	m := Model{
		ctx:       ctx,
		coord:     opts.Coordinator,
		logger:    logger.With("component", "ui"),
		prefsPath: opts.PrefsPath,
		keys:      DefaultKeyMap(),
		theme:     theme,
		table:     newTable(theme),
		spinner:   s,
		search:    newSearchState(),
	}
	m.snapshot = m.coord.Snapshot()
	return m
}

// Init implements tea.Model. It issues the initial catalog request.
func (m Model) Init() tea.Cmd {
	req := m.coord.Start()
	return tea.Batch(m.fetchCmd(req), m.spinner.Tick)
}

// fetchCmd runs the request off the update loop.
func (m Model) fetchCmd(req state.Request) tea.Cmd {
	ctx, coord := m.ctx, m.coord
	return func() tea.Msg {
		applied := coord.Execute(ctx, req)
		return fetchDoneMsg{generation: req.Generation, applied: applied}
	}
}

// startFetch shows the loading state and runs req.
func (m *Model) startFetch(req state.Request) tea.Cmd {
	m.refresh()
	return tea.Batch(m.fetchCmd(req), m.spinner.Tick)
}

// refresh pulls a new snapshot from the coordinator and rebuilds the table.
func (m *Model) refresh() {
	selected := m.selectedID()
	m.snapshot = m.coord.Snapshot()
	m.syncTable()
	m.restoreCursor(selected)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.syncTable()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case fetchDoneMsg:
		if !msg.applied {
			m.logger.Debug("discarded superseded response", "generation", msg.generation)
		}
		m.refresh()
		return m, nil

	case applyFiltersMsg:
		req, refetch := m.coord.SetFilters(msg.objectTypes, msg.orbitCodes)
		if refetch {
			return m, m.startFetch(req)
		}
		m.refresh()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard copy failed", "norad_id", msg.id, "error", msg.err)
			return m, m.setFlash("Copy failed")
		}
		return m, m.setFlash("Copied " + msg.id)

	case clearFlashMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case spinner.TickMsg:
		if _, failed := m.snapshot.Status.(state.Failure); failed {
			return m, nil
		}
		if _, ok := m.snapshot.Status.(state.Success); ok {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderCommandBar(),
		m.renderFilterBar(),
		m.renderTable(m.width, max(5, m.height-chromeLines)),
	)
}

// handleKey processes keyboard input. Modals and the search box take all
// keys while they are open.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.search.active {
		return m.handleSearchInput(msg)
	}

	for i, binding := range m.keys.sortBindings() {
		if key.Matches(msg, binding) {
			m.toggleSort(pipeline.SortFields[i])
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.modal = helpModal{}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		return m, m.startSearch()

	case key.Matches(msg, m.keys.ClearSearch):
		m.clearSearch()
		return m, nil

	case key.Matches(msg, m.keys.Filters):
		m.modal = newFilterPanel(m.snapshot.Filters)
		return m, nil

	case key.Matches(msg, m.keys.Refetch):
		return m, m.startFetch(m.coord.Refetch())

	case key.Matches(msg, m.keys.CopyID):
		return m, m.copySelected()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleMouse sorts on header clicks and scrolls on the wheel.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil || m.search.active {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.table.MoveUp(1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.table.MoveDown(1)
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if field, ok := m.headerFieldAt(msg.X, msg.Y); ok {
		m.toggleSort(field)
	}
	return m, nil
}

// headerFieldAt returns the sort field of the header cell at screen
// position x, y.
func (m Model) headerFieldAt(x, y int) (pipeline.SortField, bool) {
	// The box top border sits at chromeLines and the header row below it.
	if y != chromeLines+1 {
		return pipeline.SortNone, false
	}
	if _, ok := m.snapshot.Status.(state.Success); !ok || len(m.snapshot.Data()) == 0 {
		return pipeline.SortNone, false
	}
	idx := columnAt(x-1, columnWidths(m.tableWidth()))
	if idx < 0 || columns[idx].field == pipeline.SortNone {
		return pipeline.SortNone, false
	}
	return columns[idx].field, true
}

func (m *Model) toggleSort(field pipeline.SortField) {
	m.coord.ToggleSort(field)
	m.refresh()
	m.savePrefs()
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.table.SetStyles(m.theme.TableStyles())
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	m.savePrefs()
}

// savePrefs persists the theme and sort. Failures are logged only.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name}
	if m.snapshot.Sort.Active() {
		p.Sort = m.snapshot.Sort.String()
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", "path", m.prefsPath, "error", err)
	}
}

// copySelected copies the NORAD ID under the cursor to the clipboard.
func (m *Model) copySelected() tea.Cmd {
	id := m.selectedID()
	if id == "" {
		return m.setFlash("Nothing to copy")
	}
	return func() tea.Msg {
		return copiedMsg{id: id, err: clipboard.WriteAll(id)}
	}
}

func (m *Model) setFlash(text string) tea.Cmd {
	m.flashSeq++
	m.flash = text
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return clearFlashMsg{seq: seq}
	})
}

// Run starts the Bubble Tea program and blocks until it exits. Cancelling
// the options context stops the program without an error.
func Run(opts Options) error {
	if opts.Coordinator == nil {
		return errors.New("ui: coordinator is required")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	p := tea.NewProgram(New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
