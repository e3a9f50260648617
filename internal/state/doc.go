// Package state coordinates filters, search, sort and the catalog fetch
// lifecycle for satscope.
//
// # Overview
//
// The Coordinator is the single owner of operator intent (search text, object
// type and orbit selections, sort) and of the fetch status. The UI mutates it
// only through named entry points and reads it only through Snapshot.
//
//	UI (Bubble Tea):                 Coordinator:
//	┌──────────────────┐            ┌────────────────────────┐
//	│ SetSearch()      │───────────→│ project locally        │
//	│ SetFilters()     │───────────→│ types changed? → fetch │
//	│ ToggleSort()     │───────────→│ project locally        │
//	│ Refetch()        │───────────→│ fetch                  │
//	│                  │            │                        │
//	│ Execute() (Cmd)  │───────────→│ resolve if latest      │
//	│ Snapshot()       │←───────────│ copy under RLock       │
//	└──────────────────┘            └────────────────────────┘
//
// # Status
//
// Status is a closed set of variants:
//
//   - Idle: nothing requested yet
//   - Loading: a fetch is in flight; no rows are shown
//   - Success: records, counts and total of the latest response
//   - Failure: the *catalog.FetchError of the latest fetch; no rows are shown
//
// Loading and Failure never carry records, so "loading with an error" or
// "error with stale rows" cannot be represented.
//
// # Re-fetch Trigger
//
// Only object types are sent to the catalog. SetFilters compares the new
// object type set with the current one (order and duplicates ignored) and
// returns a Request only when they differ. Orbit codes and search text are
// applied to the records already held.
//
// # Ordering
//
// Every Request carries a generation from a monotonic counter. Beginning a
// request cancels the context of the one in flight. Execute resolves a
// response only if its generation is still the latest; anything older is
// discarded, logged and counted as stale. The latest-initiated request
// always wins regardless of completion order.
//
// # Projection
//
// The visible rows (pipeline.Project over the Success records) are
// recomputed on every mutation and on resolve, so Snapshot never sorts.
//
// # Usage Example
//
//	coord := state.New(client, state.WithLogger(logger))
//	req := coord.Start()
//	go coord.Execute(ctx, req)
//
//	if req, ok := coord.SetFilters(types, orbits); ok {
//		go coord.Execute(ctx, req)
//	}
//	snap := coord.Snapshot()
//	render(snap.Data())
package state
