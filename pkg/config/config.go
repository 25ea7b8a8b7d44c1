// Package config loads debug bar settings from a YAML file and DEBUGBAR_*
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
)

type Config struct {
	Addr       string `yaml:"addr"`
	RoutePath  string `yaml:"route_path"`
	Debug      bool   `yaml:"debug"`
	Locale     string `yaml:"locale"`
	Permission string `yaml:"permission"`
	// OpenAPI is the path of the document the route collector matches
	// requests against. Empty disables the collector.
	OpenAPI string `yaml:"openapi"`
	// WidgetOverrides is a directory of widget override files.
	WidgetOverrides string `yaml:"widget_overrides"`
	// Disabled lists built-in collectors to skip (messages, time, memory).
	Disabled []string `yaml:"disabled"`

	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Theme   ThemeConfig   `yaml:"theme"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StorageConfig struct {
	Driver   string `yaml:"driver"`
	Dir      string `yaml:"dir"`
	Capacity int    `yaml:"capacity"`
}

// ThemeConfig declares a single panel theme inline.
type ThemeConfig struct {
	Name       string                       `yaml:"name"`
	Variant    string                       `yaml:"variant"`
	Tokens     map[string]string            `yaml:"tokens"`
	AssetsPath string                       `yaml:"assets_prefix"`
	Assets     map[string]string            `yaml:"assets"`
	Variants   map[string]map[string]string `yaml:"variants"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:       ":8080",
		RoutePath:  "/_debugbar",
		Locale:     "en_US",
		Permission: "ADMIN",
		Log:        LogConfig{Level: "info", Format: "json"},
		Storage:    StorageConfig{Driver: StorageMemory, Dir: "./var/debugbar", Capacity: 100},
	}
}

// Load reads path (when non-empty) over the defaults and then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	ApplyEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses YAML into cfg, keeping the values of absent keys. Unknown
// keys are rejected.
func Decode(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with DEBUGBAR_* variables resolved through lookup.
func ApplyEnv(cfg *Config, lookup func(string) string) {
	get := func(key, fallback string) string {
		if value := strings.TrimSpace(lookup(key)); value != "" {
			return value
		}
		return fallback
	}

	cfg.Addr = get("DEBUGBAR_ADDR", cfg.Addr)
	cfg.RoutePath = get("DEBUGBAR_ROUTE_PATH", cfg.RoutePath)
	cfg.Debug = ParseBool(get("DEBUGBAR_DEBUG", strconv.FormatBool(cfg.Debug)))
	cfg.Locale = get("DEBUGBAR_LOCALE", cfg.Locale)
	cfg.Permission = get("DEBUGBAR_PERMISSION", cfg.Permission)
	cfg.OpenAPI = get("DEBUGBAR_OPENAPI", cfg.OpenAPI)
	cfg.WidgetOverrides = get("DEBUGBAR_WIDGET_OVERRIDES", cfg.WidgetOverrides)
	if raw := lookup("DEBUGBAR_DISABLED"); strings.TrimSpace(raw) != "" {
		cfg.Disabled = ParseCSV(raw)
	}
	cfg.Log.Level = get("DEBUGBAR_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = get("DEBUGBAR_LOG_FORMAT", cfg.Log.Format)
	cfg.Storage.Driver = get("DEBUGBAR_STORAGE", cfg.Storage.Driver)
	cfg.Storage.Dir = get("DEBUGBAR_STORAGE_DIR", cfg.Storage.Dir)
	if capacity, err := strconv.Atoi(get("DEBUGBAR_STORAGE_CAPACITY", "")); err == nil {
		cfg.Storage.Capacity = capacity
	}
	cfg.Theme.Name = get("DEBUGBAR_THEME", cfg.Theme.Name)
	cfg.Theme.Variant = get("DEBUGBAR_THEME_VARIANT", cfg.Theme.Variant)
}

// Validate reports settings that cannot be served.
func (c Config) Validate() error {
	var errs []error
	if !strings.HasPrefix(c.RoutePath, "/") {
		errs = append(errs, fmt.Errorf("config: route_path %q must start with /", c.RoutePath))
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageFile:
		if strings.TrimSpace(c.Storage.Dir) == "" {
			errs = append(errs, errors.New("config: storage.dir is required for the file driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver))
	}
	if c.Theme.Variant != "" && c.Theme.Name == "" {
		errs = append(errs, errors.New("config: theme.variant requires theme.name"))
	}
	return errors.Join(errs...)
}

// Enabled reports whether the built-in collector name is not disabled.
func (c Config) Enabled(name string) bool {
	return !slices.Contains(c.Disabled, name)
}

// Manifest converts the inline theme into a go-theme manifest. It returns
// nil when no theme is configured.
func (t ThemeConfig) Manifest() *theme.Manifest {
	if strings.TrimSpace(t.Name) == "" {
		return nil
	}
	manifest := &theme.Manifest{
		Name:    t.Name,
		Version: "1.0.0",
		Tokens:  t.Tokens,
		Assets: theme.Assets{
			Prefix: t.AssetsPath,
			Files:  t.Assets,
		},
	}
	if len(t.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(t.Variants))
		for name, tokens := range t.Variants {
			manifest.Variants[name] = theme.Variant{Tokens: tokens}
		}
	}
	return manifest
}

// Logger builds the process logger described by the log settings.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(l.Level)}
	if strings.EqualFold(strings.TrimSpace(l.Format), "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseCSV splits raw on commas, dropping blanks and duplicates.
func ParseCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" || slices.Contains(values, value) {
			continue
		}
		values = append(values, value)
	}
	return values
}

func ParseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	case "trace":
		// slog has no trace level.
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}
