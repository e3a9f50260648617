package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/satscope/internal/catalog"
	"github.com/five82/satscope/internal/metrics"
	"github.com/five82/satscope/internal/pipeline"
)

// Request identifies one catalog fetch. Only the request with the latest
// generation may resolve into the coordinator.
type Request struct {
	Generation  uint64
	ObjectTypes []catalog.ObjectType
}

// Snapshot is an immutable view of the coordinator for the presentation layer.
type Snapshot struct {
	Status      Status
	Filters     pipeline.Filters
	Sort        pipeline.Sort
	Visible     []catalog.Satellite
	LastCounts  catalog.Counts
	HasCounts   bool
	Generation  uint64
	LastUpdated time.Time
}

// Data returns the projected records. It is empty unless the last fetch
// succeeded.
func (s Snapshot) Data() []catalog.Satellite {
	return s.Visible
}

// Loading reports whether a fetch is in flight.
func (s Snapshot) Loading() bool {
	_, ok := s.Status.(Loading)
	return ok
}

// Err returns the failure of the latest fetch, or nil.
func (s Snapshot) Err() *catalog.FetchError {
	if f, ok := s.Status.(Failure); ok {
		return f.Err
	}
	return nil
}

// Total is the catalog total of the latest successful response.
func (s Snapshot) Total() int {
	if succ, ok := s.Status.(Success); ok {
		return succ.Total
	}
	return 0
}

// Coordinator owns the filter, search and sort state together with the fetch
// lifecycle. Search and orbit changes are applied to the last response;
// only an object type change asks the catalog again.
type Coordinator struct {
	fetcher catalog.Fetcher
	logger  *slog.Logger
	metrics *metrics.Collector
	now     func() time.Time

	mu          sync.RWMutex
	status      Status
	filters     pipeline.Filters
	sort        pipeline.Sort
	visible     []catalog.Satellite
	lastCounts  catalog.Counts
	hasCounts   bool
	generation  uint64
	cancel      context.CancelFunc
	lastUpdated time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for fetch lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records fetch outcomes on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithFilters sets the initial filters.
func WithFilters(f pipeline.Filters) Option {
	return func(c *Coordinator) { c.filters = f.Normalize() }
}

// WithSort sets the initial sort.
func WithSort(s pipeline.Sort) Option {
	return func(c *Coordinator) { c.sort = s }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns an idle coordinator backed by fetcher.
func New(fetcher catalog.Fetcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		fetcher: fetcher,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
		status:  Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins the initial fetch with the current object types.
func (c *Coordinator) Start() Request {
	return c.Refetch()
}

// Refetch begins a new fetch with the current object types. Any fetch still
// in flight is cancelled and its response will be discarded.
func (c *Coordinator) Refetch() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beginLocked()
}

// SetSearch replaces the search text. It never triggers a fetch.
func (c *Coordinator) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filters.Search == text {
		return
	}
	c.filters.Search = text
	c.projectLocked()
}

// SetFilters replaces the object type and orbit selections. It returns a
// request, and true, only when the object type set changed.
func (c *Coordinator) SetFilters(objectTypes []catalog.ObjectType, orbitCodes []string) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	types := catalog.NormalizeObjectTypes(objectTypes)
	changed := !pipeline.SameObjectTypes(c.filters.ObjectTypes, types)
	c.filters.ObjectTypes = types
	c.filters.OrbitCodes = catalog.NormalizeOrbitCodes(orbitCodes)

	if changed {
		return c.beginLocked(), true
	}
	c.projectLocked()
	return Request{}, false
}

// ToggleSort applies the sort controller to field and returns the new sort.
func (c *Coordinator) ToggleSort(field pipeline.SortField) pipeline.Sort {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = pipeline.Toggle(c.sort, field)
	c.projectLocked()
	return c.sort
}

// Execute performs the fetch for req and resolves it. It reports false when
// the response was discarded because a newer request had started.
func (c *Coordinator) Execute(ctx context.Context, req Request) bool {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !c.track(req, cancel) {
		c.logger.Debug("fetch superseded before start", "generation", req.Generation)
		c.metrics.ObserveFetch(metrics.OutcomeStale, 0)
		return false
	}

	c.logger.Info("fetch started", "generation", req.Generation, "object_types", req.ObjectTypes)
	start := c.now()
	resp, err := c.fetcher.FetchSatellites(ctx, req.ObjectTypes)
	return c.resolve(req, resp, err, c.now().Sub(start))
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		Status:      cloneStatus(c.status),
		Filters:     c.filters.Clone(),
		Sort:        c.sort,
		Visible:     cloneRecords(c.visible),
		LastCounts:  cloneCounts(c.lastCounts),
		HasCounts:   c.hasCounts,
		Generation:  c.generation,
		LastUpdated: c.lastUpdated,
	}
}

func (c *Coordinator) beginLocked() Request {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	req := Request{
		Generation:  c.generation,
		ObjectTypes: cloneTypes(c.filters.ObjectTypes),
	}
	c.status = Loading{Generation: req.Generation, ObjectTypes: cloneTypes(req.ObjectTypes)}
	c.visible = nil
	// Counts describe the previous object type set.
	c.lastCounts = catalog.Counts{}
	c.hasCounts = false
	return req
}

func (c *Coordinator) track(req Request, cancel context.CancelFunc) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if req.Generation != c.generation {
		return false
	}
	c.cancel = cancel
	return true
}

func (c *Coordinator) resolve(req Request, resp catalog.Response, err error, elapsed time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Generation != c.generation {
		c.logger.Debug("discarding stale response", "generation", req.Generation, "latest", c.generation)
		c.metrics.ObserveFetch(metrics.OutcomeStale, elapsed)
		return false
	}
	c.cancel = nil
	c.lastUpdated = c.now()

	if err != nil {
		fe := catalog.AsFetchError(err)
		c.logger.Warn("fetch failed", "generation", req.Generation, "error", fe.Detail(), "duration", elapsed)
		c.metrics.ObserveFetch(metrics.OutcomeFailure, elapsed)
		c.status = Failure{Err: fe, FailedAt: c.lastUpdated}
		c.visible = nil
		c.metrics.SetRecords(0, 0)
		return true
	}

	total := resp.Counts.Total
	if total == 0 {
		total = len(resp.Data)
	}
	c.status = Success{
		Records:   cloneRecords(resp.Data),
		Counts:    cloneCounts(resp.Counts),
		Total:     total,
		FetchedAt: c.lastUpdated,
	}
	c.lastCounts = cloneCounts(resp.Counts)
	c.hasCounts = true
	c.projectLocked()
	c.logger.Info("fetch done", "generation", req.Generation, "records", len(resp.Data), "duration", elapsed)
	c.metrics.ObserveFetch(metrics.OutcomeSuccess, elapsed)
	return true
}

// projectLocked recomputes the visible rows from the last successful response.
func (c *Coordinator) projectLocked() {
	succ, ok := c.status.(Success)
	if !ok {
		c.visible = nil
		return
	}
	c.visible = pipeline.Project(succ.Records, c.filters.Search, c.filters.OrbitCodes, c.sort)
	c.metrics.SetRecords(len(succ.Records), len(c.visible))
}
