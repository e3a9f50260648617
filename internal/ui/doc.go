// Package ui provides the interactive terminal interface for satscope.
//
// The UI is a Bubble Tea program. Model owns the presentation state (window
// size, theme, table cursor, open modal, search box) and reads everything
// else from a state.Coordinator snapshot. Catalog requests run as tea.Cmds
// that call Coordinator.Execute and report back with a fetchDoneMsg; the
// coordinator decides whether a response is still current.
//
// # Layout
//
//   - Header: title, per object type count chips, visible count, last update
//   - Command bar: key hints, replaced by the search input while editing
//   - Filter bar: active search, filters and sort
//   - Table: the projected records, or the loading, empty and error states
//
// # Modals
//
// The help overlay and the filter panel implement Modal and receive every
// key while open. The filter panel edits a temporary selection that is sent
// as an applyFiltersMsg on enter (or immediately on reset).
//
// # Mouse
//
// Clicking a sortable column header toggles the sort on that field. The
// wheel scrolls the table.
package ui
