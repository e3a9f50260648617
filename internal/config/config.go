package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/satscope/internal/catalog"
	"github.com/five82/satscope/internal/logging"
	"github.com/five82/satscope/internal/pipeline"
)

// Config holds satscope's settings after defaults are applied.
type Config struct {
	BaseURL            string
	RequestTimeout     time.Duration
	LogFile            string
	LogLevel           string
	LogFormat          string
	MetricsAddr        string
	DefaultObjectTypes []catalog.ObjectType
	DefaultOrbitCodes  []string
	DefaultSort        pipeline.Sort
}

const (
	defaultConfigPath = "~/.config/satscope/config.toml"
	defaultLogFile    = "~/.local/state/satscope/satscope.log"
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:        catalog.DefaultBaseURL,
		RequestTimeout: catalog.DefaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		LogFormat:      defaultLogFormat,
	}
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

// Load reads the config at path (or the default location when empty),
// falling back to defaults when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL            string   `toml:"base_url"`
		RequestTimeout     string   `toml:"request_timeout"`
		LogFile            string   `toml:"log_file"`
		LogLevel           string   `toml:"log_level"`
		LogFormat          string   `toml:"log_format"`
		MetricsAddr        string   `toml:"metrics_addr"`
		DefaultObjectTypes []string `toml:"default_object_types"`
		DefaultOrbitCodes  []string `toml:"default_orbit_codes"`
		DefaultSort        string   `toml:"default_sort"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("parse config: invalid request_timeout %q", raw.RequestTimeout)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = v
		if v != logging.Stderr {
			cfg.LogFile = mustExpand(v)
		}
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if _, err := logging.ParseLevel(v); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	types, err := ParseObjectTypes(raw.DefaultObjectTypes)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.DefaultObjectTypes = types
	cfg.DefaultOrbitCodes = catalog.NormalizeOrbitCodes(raw.DefaultOrbitCodes)

	sort, err := pipeline.ParseSort(raw.DefaultSort)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.DefaultSort = sort

	return cfg, nil
}

// ParseObjectTypes parses object type names, accepting comma separated
// entries, and returns the normalized set.
func ParseObjectTypes(values []string) ([]catalog.ObjectType, error) {
	var out []catalog.ObjectType
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			t, err := catalog.ParseObjectType(part)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
	}
	return catalog.NormalizeObjectTypes(out), nil
}

// ExpandPath resolves "~" and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
