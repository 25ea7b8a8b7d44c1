package toolbar

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/collector"
	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/snapshot"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// DebugBar runs the registered collectors for a request and assembles the
// data, widget and asset metadata the front-end panel consumes.
type DebugBar struct {
	registry     *collector.Registry
	kinds        *widgets.Registry
	overrides    *widgets.Overrides
	store        snapshot.Store
	logger       *slog.Logger
	now          func() time.Time
	nextID       func() string
	assetBaseURL string
}

// New constructs a DebugBar. Without options it has an empty collector
// registry, the built-in widget kinds and no snapshot store.
func New(options ...Option) *DebugBar {
	d := &DebugBar{
		registry: collector.NewRegistry(),
		kinds:    widgets.NewRegistry(),
		logger:   slog.Default(),
		now:      time.Now,
		nextID:   uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// AddCollector registers c and any widget kinds it brings along.
func (d *DebugBar) AddCollector(c collector.Collector) error {
	if err := d.registry.Register(c); err != nil {
		return err
	}
	if provider, ok := c.(collector.KindProvider); ok {
		for kind, constructor := range provider.WidgetKinds() {
			d.kinds.Register(kind, constructor)
		}
	}
	return nil
}

// MustAddCollector panics when registration fails.
func (d *DebugBar) MustAddCollector(c collector.Collector) {
	if err := d.AddCollector(c); err != nil {
		panic(err)
	}
}

// Collector returns the collector registered under name. Missing names
// yield an error wrapping collector.ErrNotFound.
func (d *DebugBar) Collector(name string) (collector.Collector, error) {
	return d.registry.Get(name)
}

// Collectors lists registered collector names in sorted order.
func (d *DebugBar) Collectors() []string {
	return d.registry.List()
}

// Store returns the configured snapshot store, if any.
func (d *DebugBar) Store() snapshot.Store {
	return d.store
}

// Collect runs every collector once for the request described by scope. A
// failing collector is logged and contributes an empty map. The snapshot is
// persisted when a store is configured; a store failure is returned
// alongside the collected snapshot.
func (d *DebugBar) Collect(ctx context.Context, scope *host.Scope) (snapshot.Snapshot, error) {
	if scope == nil {
		scope = &host.Scope{}
	}
	id := scope.ID
	if id == "" {
		id = d.nextID()
	}
	snap := snapshot.Snapshot{
		ID:   id,
		Meta: d.meta(id, scope),
		Data: make(map[string]map[string]any),
	}

	for _, name := range d.registry.List() {
		c, err := d.registry.Get(name)
		if err != nil {
			continue
		}
		data, err := c.Collect(ctx, scope)
		if err != nil {
			d.logger.Warn("collector failed; using empty data", "collector", name, "error", err)
			data = collector.Data{}
		}
		if data == nil {
			data = collector.Data{}
		}
		snap.Data[name] = data
	}

	if d.store == nil {
		return snap, nil
	}
	if err := d.store.Save(ctx, snap); err != nil {
		d.logger.Error("failed to store snapshot", "id", id, "error", err)
		return snap, fmt.Errorf("toolbar: store snapshot %s: %w", id, err)
	}
	return snap, nil
}

// NewID returns a fresh snapshot identifier. Hosts that must announce the
// identifier before collection assign it to Scope.ID.
func (d *DebugBar) NewID() string {
	return d.nextID()
}

// Find lists stored snapshot metadata matching filter.
func (d *DebugBar) Find(ctx context.Context, filter snapshot.Filter) ([]snapshot.Meta, error) {
	if d.store == nil {
		return nil, errors.New("toolbar: no snapshot store configured")
	}
	return d.store.Find(ctx, filter)
}

// Open loads a stored snapshot.
func (d *DebugBar) Open(ctx context.Context, id string) (snapshot.Snapshot, error) {
	if d.store == nil {
		return snapshot.Snapshot{}, errors.New("toolbar: no snapshot store configured")
	}
	return d.store.Get(ctx, id)
}

// Widgets merges every collector's widget table into a single panel table
// keyed "<collector>.<entry>", with overrides applied.
func (d *DebugBar) Widgets() widgets.Table {
	out := widgets.Table{}
	for _, name := range d.registry.List() {
		c, err := d.registry.Get(name)
		if err != nil {
			continue
		}
		provider, ok := c.(collector.WidgetProvider)
		if !ok {
			continue
		}
		table := d.overrides.Apply(name, provider.Widgets())
		out.Merge(table.Prefixed(name))
	}
	return out
}

// WidgetConstructors returns the widget kind to front-end constructor map.
func (d *DebugBar) WidgetConstructors() map[string]string {
	return d.kinds.Constructors()
}

// Assets returns the asset descriptors of every collector, with relative base
// URLs resolved against the configured asset base URL.
func (d *DebugBar) Assets() []assets.Descriptor {
	var out []assets.Descriptor
	for _, name := range d.registry.List() {
		c, err := d.registry.Get(name)
		if err != nil {
			continue
		}
		provider, ok := c.(collector.AssetProvider)
		if !ok {
			continue
		}
		desc := provider.Assets()
		desc.BaseURL = d.resolveURL(desc.BaseURL)
		out = append(out, desc)
	}
	return out
}

// VerifyAssets checks that every collector's asset files exist in fsys.
func (d *DebugBar) VerifyAssets(fsys fs.FS) error {
	var errs []error
	for _, desc := range d.Assets() {
		if err := assets.Verify(fsys, desc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *DebugBar) meta(id string, scope *host.Scope) snapshot.Meta {
	at := scope.StartedAt
	if at.IsZero() {
		at = d.now()
	}
	meta := snapshot.Meta{ID: id, Datetime: at.UTC()}
	if scope.Request != nil {
		meta.Method = scope.Request.Method()
		meta.URI = scope.Request.Path()
		meta.IP = scope.Request.ClientIP()
	}
	return meta
}

func (d *DebugBar) resolveURL(url string) string {
	trimmed := strings.TrimSpace(url)
	if strings.HasPrefix(trimmed, "/") || strings.Contains(trimmed, "://") || d.assetBaseURL == "" {
		return trimmed
	}
	return d.assetBaseURL + "/" + strings.TrimLeft(trimmed, "/")
}
