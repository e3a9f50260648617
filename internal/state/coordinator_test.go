package state

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/five82/satscope/internal/catalog"
	"github.com/five82/satscope/internal/metrics"
	"github.com/five82/satscope/internal/pipeline"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   [][]catalog.ObjectType
	respond func(ctx context.Context, types []catalog.ObjectType) (catalog.Response, error)
}

func (f *fakeFetcher) FetchSatellites(ctx context.Context, types []catalog.ObjectType) (catalog.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, slices.Clone(types))
	respond := f.respond
	f.mu.Unlock()
	return respond(ctx, types)
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func record(id, name, orbit string, t catalog.ObjectType) catalog.Satellite {
	return catalog.NewSatellite(catalog.Satellite{NoradCatID: id, Name: name, OrbitCode: orbit, ObjectType: t})
}

func staticResponse(records ...catalog.Satellite) func(context.Context, []catalog.ObjectType) (catalog.Response, error) {
	return func(context.Context, []catalog.ObjectType) (catalog.Response, error) {
		return catalog.Response{
			Data:   records,
			Counts: catalog.Counts{Total: len(records), ByType: map[catalog.ObjectType]int{catalog.ObjectPayload: len(records)}},
		}, nil
	}
}

func TestCoordinator_StartLoadsThenSucceeds(t *testing.T) {
	f := &fakeFetcher{respond: staticResponse(
		record("25544", "ISS", "{LEO}", catalog.ObjectPayload),
		record("20580", "HST", "{LEO}", catalog.ObjectPayload),
	)}
	c := New(f)

	if _, ok := c.Snapshot().Status.(Idle); !ok {
		t.Fatalf("initial status = %v, want idle", c.Snapshot().Status)
	}

	req := c.Start()
	snap := c.Snapshot()
	if !snap.Loading() {
		t.Fatalf("status after Start = %v, want loading", snap.Status)
	}
	if len(snap.Data()) != 0 {
		t.Fatalf("loading snapshot data = %d rows, want 0", len(snap.Data()))
	}

	if !c.Execute(context.Background(), req) {
		t.Fatal("Execute returned false for the latest request")
	}
	snap = c.Snapshot()
	if snap.Loading() || snap.Err() != nil {
		t.Fatalf("status = %v, want success", snap.Status)
	}
	if len(snap.Data()) != 2 || snap.Total() != 2 {
		t.Fatalf("data = %d rows total=%d, want 2/2", len(snap.Data()), snap.Total())
	}
	if !snap.HasCounts || snap.LastCounts.Total != 2 {
		t.Fatalf("counts = %+v, want total 2", snap.LastCounts)
	}
	if snap.LastUpdated.IsZero() {
		t.Fatal("LastUpdated not set")
	}
}

func TestCoordinator_NewRequestDropsOldCounts(t *testing.T) {
	f := &fakeFetcher{respond: staticResponse(record("25544", "ISS", "{LEO}", catalog.ObjectPayload))}
	c := New(f)
	c.Execute(context.Background(), c.Start())
	if !c.Snapshot().HasCounts {
		t.Fatal("HasCounts = false after success")
	}

	if _, refetch := c.SetFilters([]catalog.ObjectType{catalog.ObjectDebris}, nil); !refetch {
		t.Fatal("SetFilters did not refetch on a type change")
	}
	snap := c.Snapshot()
	if snap.HasCounts || snap.LastCounts.Total != 0 {
		t.Fatalf("loading snapshot kept counts %+v", snap.LastCounts)
	}
}

func TestCoordinator_ExecuteTimesWithClock(t *testing.T) {
	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	ticks := 0
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		ticks++
		return base.Add(time.Duration(ticks) * 2 * time.Second)
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector returned error: %v", err)
	}
	f := &fakeFetcher{respond: staticResponse(record("25544", "ISS", "{LEO}", catalog.ObjectPayload))}
	c := New(f, WithClock(clock), WithMetrics(collector))
	c.Execute(context.Background(), c.Start())

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	var sum float64
	found := false
	for _, mf := range families {
		if mf.GetName() == "satscope_catalog_fetch_duration_seconds" {
			sum = mf.GetMetric()[0].GetHistogram().GetSampleSum()
			found = true
		}
	}
	if !found {
		t.Fatal("fetch duration histogram not gathered")
	}
	if sum != 2 {
		t.Fatalf("observed duration = %vs, want 2s from the injected clock", sum)
	}
	if got := c.Snapshot().LastUpdated; !got.Equal(base.Add(6 * time.Second)) {
		t.Fatalf("LastUpdated = %v, want %v", got, base.Add(6*time.Second))
	}
}

func TestCoordinator_SearchAndOrbitDoNotRefetch(t *testing.T) {
	f := &fakeFetcher{respond: staticResponse(
		record("25544", "ISS", "{LEO}", catalog.ObjectPayload),
		record("41866", "GOES 16", "{GEO}", catalog.ObjectPayload),
		record("28654", "NOAA 18", "{LEO, GTO}", catalog.ObjectPayload),
	)}
	c := New(f)
	c.Execute(context.Background(), c.Start())

	c.SetSearch("noaa")
	if got := c.Snapshot().Data(); len(got) != 1 || got[0].NoradCatID != "28654" {
		t.Fatalf("search result = %+v, want NOAA 18", got)
	}

	c.SetSearch("")
	if req, ok := c.SetFilters(nil, []string{"geo"}); ok {
		t.Fatalf("orbit-only change issued request %+v", req)
	}
	if got := c.Snapshot().Data(); len(got) != 1 || got[0].NoradCatID != "41866" {
		t.Fatalf("orbit result = %+v, want GOES 16", got)
	}

	if n := f.callCount(); n != 1 {
		t.Fatalf("fetch calls = %d, want 1", n)
	}
}

func TestCoordinator_ObjectTypeChangeRefetches(t *testing.T) {
	f := &fakeFetcher{respond: staticResponse()}
	c := New(f, WithFilters(pipeline.Filters{ObjectTypes: []catalog.ObjectType{catalog.ObjectPayload}}))
	c.Execute(context.Background(), c.Start())

	req, ok := c.SetFilters([]catalog.ObjectType{catalog.ObjectDebris, catalog.ObjectPayload}, nil)
	if !ok {
		t.Fatal("object type change did not issue a request")
	}
	want := []catalog.ObjectType{catalog.ObjectPayload, catalog.ObjectDebris}
	if !slices.Equal(req.ObjectTypes, want) {
		t.Fatalf("request types = %v, want %v", req.ObjectTypes, want)
	}
	if !c.Snapshot().Loading() {
		t.Fatal("status after object type change should be loading")
	}
	c.Execute(context.Background(), req)

	// Same set in another order is not a change.
	if _, ok := c.SetFilters([]catalog.ObjectType{catalog.ObjectDebris, catalog.ObjectPayload, catalog.ObjectDebris}, nil); ok {
		t.Fatal("equal object type set issued a request")
	}
	if n := f.callCount(); n != 2 {
		t.Fatalf("fetch calls = %d, want 2", n)
	}
}

func TestCoordinator_FailureThenRefetchRecovers(t *testing.T) {
	fail := true
	var mu sync.Mutex
	f := &fakeFetcher{respond: func(context.Context, []catalog.ObjectType) (catalog.Response, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return catalog.Response{}, &catalog.FetchError{Message: "Failed to fetch satellites", StatusCode: 500}
		}
		return catalog.Response{Data: []catalog.Satellite{record("1", "A", "{LEO}", catalog.ObjectPayload)}}, nil
	}}
	c := New(f, WithFilters(pipeline.Filters{ObjectTypes: []catalog.ObjectType{catalog.ObjectDebris}}))

	first := c.Start()
	c.Execute(context.Background(), first)
	snap := c.Snapshot()
	if snap.Err() == nil || snap.Err().Message != "Failed to fetch satellites" {
		t.Fatalf("Err() = %v, want fetch failure", snap.Err())
	}
	if len(snap.Data()) != 0 {
		t.Fatalf("failure snapshot kept %d rows", len(snap.Data()))
	}
	if snap.HasCounts {
		t.Fatalf("failure snapshot kept counts %+v", snap.LastCounts)
	}

	mu.Lock()
	fail = false
	mu.Unlock()

	second := c.Refetch()
	if !slices.Equal(first.ObjectTypes, second.ObjectTypes) {
		t.Fatalf("refetch types = %v, want %v", second.ObjectTypes, first.ObjectTypes)
	}
	if second.Generation <= first.Generation {
		t.Fatalf("generation did not advance: %d -> %d", first.Generation, second.Generation)
	}
	c.Execute(context.Background(), second)

	snap = c.Snapshot()
	if snap.Err() != nil {
		t.Fatalf("Err() = %v after successful refetch, want nil", snap.Err())
	}
	if len(snap.Data()) != 1 {
		t.Fatalf("data = %d rows, want 1", len(snap.Data()))
	}
}

func TestCoordinator_PlainErrorsBecomeFetchErrors(t *testing.T) {
	f := &fakeFetcher{respond: func(context.Context, []catalog.ObjectType) (catalog.Response, error) {
		return catalog.Response{}, errors.New("dial tcp: refused")
	}}
	c := New(f)
	c.Execute(context.Background(), c.Start())
	if err := c.Snapshot().Err(); err == nil || err.Message != "Network error occurred" {
		t.Fatalf("Err() = %v, want network error", err)
	}
}

func TestCoordinator_StaleResponseIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	oldCtxErr := make(chan error, 1)

	f := &fakeFetcher{respond: func(ctx context.Context, types []catalog.ObjectType) (catalog.Response, error) {
		if slices.Contains(types, catalog.ObjectPayload) {
			close(started)
			<-gate
			oldCtxErr <- ctx.Err()
			return catalog.Response{Data: []catalog.Satellite{record("1", "old", "{LEO}", catalog.ObjectPayload)}}, nil
		}
		return catalog.Response{Data: []catalog.Satellite{record("2", "new", "{LEO}", catalog.ObjectDebris)}}, nil
	}}

	reg := prometheus.NewRegistry()
	m, err := metrics.NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c := New(f, WithMetrics(m), WithFilters(pipeline.Filters{ObjectTypes: []catalog.ObjectType{catalog.ObjectPayload}}))

	older := c.Start()
	done := make(chan bool, 1)
	go func() { done <- c.Execute(context.Background(), older) }()
	<-started

	newer, ok := c.SetFilters([]catalog.ObjectType{catalog.ObjectDebris}, nil)
	if !ok {
		t.Fatal("object type change did not issue a request")
	}
	if !c.Execute(context.Background(), newer) {
		t.Fatal("newer request was discarded")
	}

	close(gate)
	select {
	case applied := <-done:
		if applied {
			t.Fatal("older response was applied after the newer one")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("older Execute did not return")
	}

	if err := <-oldCtxErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("superseded request context err = %v, want context.Canceled", err)
	}

	got := c.Snapshot().Data()
	if len(got) != 1 || got[0].Name != "new" {
		t.Fatalf("data = %+v, want the newer response", got)
	}
	if v := testutil.ToFloat64(m.Fetches.WithLabelValues(metrics.OutcomeStale)); v != 1 {
		t.Fatalf("stale fetches = %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.Fetches.WithLabelValues(metrics.OutcomeSuccess)); v != 1 {
		t.Fatalf("success fetches = %v, want 1", v)
	}
}

func TestCoordinator_SupersededBeforeStartNeverFetches(t *testing.T) {
	f := &fakeFetcher{respond: staticResponse()}
	c := New(f)
	older := c.Start()
	newer := c.Refetch()

	if c.Execute(context.Background(), older) {
		t.Fatal("superseded request resolved")
	}
	if n := f.callCount(); n != 0 {
		t.Fatalf("fetch calls = %d, want 0", n)
	}
	if !c.Execute(context.Background(), newer) {
		t.Fatal("latest request was discarded")
	}
}

func TestCoordinator_ToggleSortReprojects(t *testing.T) {
	f := &fakeFetcher{respond: staticResponse(
		record("3", "charlie", "{LEO}", catalog.ObjectPayload),
		record("1", "alpha", "{LEO}", catalog.ObjectPayload),
		record("2", "Bravo", "{LEO}", catalog.ObjectPayload),
	)}
	c := New(f)
	c.Execute(context.Background(), c.Start())

	if got := c.ToggleSort(pipeline.SortName); got != (pipeline.Sort{Field: pipeline.SortName, Direction: pipeline.Asc}) {
		t.Fatalf("ToggleSort = %+v, want name asc", got)
	}
	if got := names(c.Snapshot().Data()); !slices.Equal(got, []string{"alpha", "Bravo", "charlie"}) {
		t.Fatalf("ascending names = %v", got)
	}
	c.ToggleSort(pipeline.SortName)
	if got := names(c.Snapshot().Data()); !slices.Equal(got, []string{"charlie", "Bravo", "alpha"}) {
		t.Fatalf("descending names = %v", got)
	}
}

func TestCoordinator_SnapshotIsIndependent(t *testing.T) {
	f := &fakeFetcher{respond: staticResponse(record("1", "A", "{LEO}", catalog.ObjectPayload))}
	c := New(f, WithFilters(pipeline.Filters{OrbitCodes: []string{"LEO"}}))
	c.Execute(context.Background(), c.Start())

	snap := c.Snapshot()
	snap.Visible[0].Name = "mutated"
	snap.Filters.OrbitCodes[0] = "GEO"
	snap.LastCounts.ByType[catalog.ObjectPayload] = 99

	again := c.Snapshot()
	if again.Visible[0].Name != "A" {
		t.Fatalf("Snapshot should clone rows; got %q", again.Visible[0].Name)
	}
	if again.Filters.OrbitCodes[0] != "LEO" {
		t.Fatalf("Snapshot should clone filters; got %q", again.Filters.OrbitCodes[0])
	}
	if again.LastCounts.ByType[catalog.ObjectPayload] != 1 {
		t.Fatalf("Snapshot should clone counts; got %d", again.LastCounts.ByType[catalog.ObjectPayload])
	}
}

func names(records []catalog.Satellite) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}
