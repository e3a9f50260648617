package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/satscope/internal/catalog"
	"github.com/five82/satscope/internal/config"
	"github.com/five82/satscope/internal/logging"
	"github.com/five82/satscope/internal/metrics"
	"github.com/five82/satscope/internal/pipeline"
	"github.com/five82/satscope/internal/prefs"
	"github.com/five82/satscope/internal/state"
	"github.com/five82/satscope/internal/ui"
)

// Options configure a satscope run. Config already carries flag overrides.
type Options struct {
	Config    config.Config
	PrefsPath string // empty uses default ~/.config/satscope/prefs.toml

	// Search is the initial search text.
	Search string
	// Sort overrides the stored and configured sort when set.
	Sort *pipeline.Sort

	// Registerer receives the fetch metrics. Nil uses a private registry.
	Registerer prometheus.Registerer
	// UserAgent is sent with catalog requests when set.
	UserAgent string
}

// Result is the outcome of a headless fetch.
type Result struct {
	Records   []catalog.Satellite
	Counts    catalog.Counts
	Total     int
	Filters   pipeline.Filters
	Sort      pipeline.Sort
	FetchedAt time.Time
}

// session bundles what both entry points build from Options.
type session struct {
	logger   *slog.Logger
	closeLog func() error
	metrics  *metrics.Collector
	coord    *state.Coordinator
}

func (s *session) close() {
	if s.closeLog != nil {
		_ = s.closeLog()
	}
}

// Run boots the interactive explorer until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	logger, closeLog, err := newLogger(opts.Config)
	if err != nil {
		return err
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("load preferences failed, using defaults", "error", err)
	}

	sort := opts.Config.DefaultSort
	if userPrefs.Sort != "" {
		if stored, err := pipeline.ParseSort(userPrefs.Sort); err != nil {
			logger.Warn("ignoring stored sort", "sort", userPrefs.Sort, "error", err)
		} else {
			sort = stored
		}
	}
	if opts.Sort != nil {
		sort = *opts.Sort
	}

	s, err := newSession(opts, logger, closeLog, sort)
	if err != nil {
		_ = closeLog()
		return err
	}
	defer s.close()

	if addr := opts.Config.MetricsAddr; addr != "" {
		bound, err := StartMetricsServer(ctx, addr, s.metrics.Handler(), s.logger)
		if err != nil {
			return err
		}
		s.logger.Info("metrics endpoint listening", "addr", bound.String())
	}

	s.logger.Info("satscope starting",
		"base_url", opts.Config.BaseURL,
		"object_types", opts.Config.DefaultObjectTypes,
		"sort", sort.String(),
	)
	return ui.Run(ui.Options{
		Context:     ctx,
		Coordinator: s.coord,
		Logger:      s.logger,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   opts.PrefsPath,
	})
}

// Fetch runs a single request through the coordinator and returns the
// projected records. A failed request is returned as a *catalog.FetchError.
func Fetch(ctx context.Context, opts Options) (Result, error) {
	logger, closeLog, err := newLogger(opts.Config)
	if err != nil {
		return Result{}, err
	}

	sort := opts.Config.DefaultSort
	if opts.Sort != nil {
		sort = *opts.Sort
	}

	s, err := newSession(opts, logger, closeLog, sort)
	if err != nil {
		_ = closeLog()
		return Result{}, err
	}
	defer s.close()

	req := s.coord.Start()
	s.coord.Execute(ctx, req)

	snap := s.coord.Snapshot()
	if fe := snap.Err(); fe != nil {
		return Result{}, fe
	}
	succ, ok := snap.Status.(state.Success)
	if !ok {
		return Result{}, fmt.Errorf("fetch did not complete: %s", snap.Status)
	}
	return Result{
		Records:   snap.Data(),
		Counts:    snap.LastCounts,
		Total:     succ.Total,
		Filters:   snap.Filters,
		Sort:      snap.Sort,
		FetchedAt: succ.FetchedAt,
	}, nil
}

func newLogger(cfg config.Config) (*slog.Logger, func() error, error) {
	logger, closeLog, err := logging.New(logging.Config{
		File:   cfg.LogFile,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}
	return logger, closeLog, nil
}

func newSession(opts Options, logger *slog.Logger, closeLog func() error, sort pipeline.Sort) (*session, error) {
	cfg := opts.Config

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	clientOpts := []catalog.Option{
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithLogger(logger),
	}
	if opts.UserAgent != "" {
		clientOpts = append(clientOpts, catalog.WithUserAgent(opts.UserAgent))
	}
	client, err := catalog.NewClient(cfg.BaseURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("init catalog client: %w", err)
	}
	logger.Debug("catalog client ready", "base_url", client.BaseURL(), "timeout", cfg.RequestTimeout)

	filters := pipeline.Filters{
		Search:      opts.Search,
		ObjectTypes: cfg.DefaultObjectTypes,
		OrbitCodes:  cfg.DefaultOrbitCodes,
	}.Normalize()

	coord := state.New(client,
		state.WithLogger(logger),
		state.WithMetrics(collector),
		state.WithFilters(filters),
		state.WithSort(sort),
	)

	return &session{
		logger:   logger,
		closeLog: closeLog,
		metrics:  collector,
		coord:    coord,
	}, nil
}
