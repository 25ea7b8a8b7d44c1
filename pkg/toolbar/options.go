package toolbar

import (
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-debugbar/pkg/collector"
	"github.com/goliatone/go-debugbar/pkg/snapshot"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// Option configures a DebugBar.
type Option func(*DebugBar)

// WithRegistry supplies the collector registry.
func WithRegistry(registry *collector.Registry) Option {
	return func(d *DebugBar) {
		if registry != nil {
			d.registry = registry
		}
	}
}

// WithWidgetRegistry supplies the widget kind registry.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(d *DebugBar) {
		if registry != nil {
			d.kinds = registry
		}
	}
}

// WithWidgetOverrides applies icon/tooltip overrides to every collector
// table returned by Widgets.
func WithWidgetOverrides(overrides *widgets.Overrides) Option {
	return func(d *DebugBar) {
		d.overrides = overrides
	}
}

// WithStore persists every collected snapshot.
func WithStore(store snapshot.Store) Option {
	return func(d *DebugBar) {
		d.store = store
	}
}

// WithLogger sets the logger used for degraded collections.
func WithLogger(logger *slog.Logger) Option {
	return func(d *DebugBar) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithClock overrides the time source used for snapshot metadata.
func WithClock(now func() time.Time) Option {
	return func(d *DebugBar) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDGenerator overrides how snapshot identifiers are produced.
func WithIDGenerator(next func() string) Option {
	return func(d *DebugBar) {
		if next != nil {
			d.nextID = next
		}
	}
}

// WithAssetBaseURL sets the URL prefix relative collector asset URLs are
// resolved against.
func WithAssetBaseURL(url string) Option {
	return func(d *DebugBar) {
		d.assetBaseURL = strings.TrimRight(strings.TrimSpace(url), "/")
	}
}
