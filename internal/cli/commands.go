// Package cli defines the satscope command line.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/satscope/internal/app"
	"github.com/five82/satscope/internal/catalog"
	"github.com/five82/satscope/internal/config"
	"github.com/five82/satscope/internal/logging"
	"github.com/five82/satscope/internal/pipeline"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath  string
	prefsPath   string
	baseURL     string
	timeout     time.Duration
	types       []string
	orbits      []string
	search      string
	sort        string
	metricsAddr string
	logFile     string
	logLevel    string

	version string
}

// New returns the root command. Run without a subcommand it starts the
// interactive explorer, or prints a list when stdout is not a terminal.
func New(version string) *cobra.Command {
	ro := &rootOptions{version: version}

	cmd := &cobra.Command{
		Use:   "satscope",
		Short: "Explore the public satellite catalog from the terminal.",
		Long: `Explore the public satellite catalog from the terminal.

Search by name or NORAD ID, filter by object type and orbit, and sort by
NORAD ID, name, country or launch date. Object type filters are sent to the
catalog; search and orbit filters are applied locally.`,
		Example: `
satscope
satscope --type payload --orbit GEO --sort -launchDate
satscope list --search starlink -o json`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ro.appOptions(cmd.Flags())
			if err != nil {
				return err
			}
			if !isTerminalWriter(cmd.OutOrStdout()) {
				return runList(cmd, opts, outputText)
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	addGlobalFlags(cmd.PersistentFlags(), ro)
	addList(cmd, ro)
	return cmd
}

func addGlobalFlags(fs *pflag.FlagSet, ro *rootOptions) {
	fs.StringVar(&ro.configPath, "config", "", "config file (default ~/.config/satscope/config.toml)")
	fs.StringVar(&ro.prefsPath, "prefs", "", "preferences file (default ~/.config/satscope/prefs.toml)")
	fs.StringVar(&ro.baseURL, "base-url", "", "catalog base URL")
	fs.DurationVar(&ro.timeout, "timeout", 0, "catalog request timeout, 0 disables it")
	fs.StringSliceVarP(&ro.types, "type", "t", nil, "object type filter, repeatable (payload, rocket-body, debris, unknown)")
	fs.StringSliceVar(&ro.orbits, "orbit", nil, "orbit code filter, repeatable (LEO, GEO, ...)")
	fs.StringVarP(&ro.search, "search", "s", "", "initial search text (name or NORAD ID)")
	fs.StringVar(&ro.sort, "sort", "", "sort field: noradCatId, name, countryCode or launchDate; prefix - for descending")
	fs.StringVar(&ro.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.StringVar(&ro.logFile, "log-file", "", `log file, "-" for stderr`)
	fs.StringVar(&ro.logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// appOptions loads the config file and applies the flags that were set.
func (ro *rootOptions) appOptions(fs *pflag.FlagSet) (app.Options, error) {
	cfg, err := config.Load(ro.configPath)
	if err != nil {
		return app.Options{}, err
	}

	if fs.Changed("base-url") {
		cfg.BaseURL = strings.TrimSpace(ro.baseURL)
	}
	if fs.Changed("timeout") {
		if ro.timeout < 0 {
			return app.Options{}, fmt.Errorf("invalid --timeout %s", ro.timeout)
		}
		cfg.RequestTimeout = ro.timeout
	}
	if fs.Changed("type") {
		types, err := config.ParseObjectTypes(ro.types)
		if err != nil {
			return app.Options{}, fmt.Errorf("invalid --type: %w", err)
		}
		cfg.DefaultObjectTypes = types
	}
	if fs.Changed("orbit") {
		cfg.DefaultOrbitCodes = catalog.NormalizeOrbitCodes(ro.orbits)
	}
	if fs.Changed("metrics-addr") {
		cfg.MetricsAddr = strings.TrimSpace(ro.metricsAddr)
	}
	if fs.Changed("log-file") {
		path := strings.TrimSpace(ro.logFile)
		if path != logging.Stderr && path != "" {
			expanded, err := config.ExpandPath(path)
			if err != nil {
				return app.Options{}, fmt.Errorf("invalid --log-file: %w", err)
			}
			path = expanded
		}
		cfg.LogFile = path
	}
	if fs.Changed("log-level") {
		if _, err := logging.ParseLevel(ro.logLevel); err != nil {
			return app.Options{}, fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(ro.logLevel))
	}

	opts := app.Options{
		Config:    cfg,
		PrefsPath: ro.prefsPath,
		Search:    ro.search,
		UserAgent: "satscope/" + ro.version,
	}
	if fs.Changed("sort") {
		sort, err := pipeline.ParseSort(ro.sort)
		if err != nil {
			return app.Options{}, fmt.Errorf("invalid --sort: %w", err)
		}
		opts.Sort = &sort
	}
	return opts, nil
}

type fdWriter interface {
	Fd() uintptr
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
