// Package app is the composition root for satscope.
//
// # Overview
//
// It wires configuration, logging, metrics, the catalog client and the
// state coordinator, then hands the coordinator to a front end:
//
//   - Run starts the interactive Bubble Tea explorer
//   - Fetch performs one request for the headless list command
//
// Both paths share the same coordinator and pipeline, so a list invocation
// prints exactly the rows the explorer would show for the same filters.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> logging.New()         File or stderr sink
//	       ├─────> prefs.Load()          Theme and last sort
//	       ├─────> metrics.NewCollector() Private registry
//	       ├─────> catalog.NewClient()   HTTP client
//	       ├─────> state.New()           Coordinator with initial filters
//	       ├─────> StartMetricsServer()  Only when metrics_addr is set
//	       └─────> ui.Run()              TUI (blocks)
//
// # Sort Precedence
//
// The initial sort comes from the --sort flag, then the sort stored in
// prefs by the last session, then default_sort from the config file.
// Fetch ignores prefs.
//
// # Error Handling
//
// Setup failures (log file, invalid base URL, metrics listener) are returned
// wrapped. Catalog failures in the explorer stay in the UI as an error state
// with a retry key; Fetch returns them as *catalog.FetchError.
package app
