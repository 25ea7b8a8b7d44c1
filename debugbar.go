// Package debugbar wires the collector registry, the built-in collectors and
// the panel renderers into a ready to use debug bar.
package debugbar

import (
	"context"
	"fmt"

	"github.com/goliatone/go-debugbar/pkg/collectors/framework"
	"github.com/goliatone/go-debugbar/pkg/collectors/memory"
	"github.com/goliatone/go-debugbar/pkg/collectors/messages"
	"github.com/goliatone/go-debugbar/pkg/collectors/routes"
	"github.com/goliatone/go-debugbar/pkg/collectors/timeline"
	"github.com/goliatone/go-debugbar/pkg/render"
	"github.com/goliatone/go-debugbar/pkg/renderers/htmlpanel"
	"github.com/goliatone/go-debugbar/pkg/renderers/jsonpanel"
	"github.com/goliatone/go-debugbar/pkg/snapshot"
	"github.com/goliatone/go-debugbar/pkg/toolbar"
)

// DebugBar is the collector host; see toolbar.DebugBar.
type DebugBar = toolbar.DebugBar

// Snapshot is the data collected for one request.
type Snapshot = snapshot.Snapshot

// RenderOptions describes per-request renderer choices.
type RenderOptions = render.RenderOptions

// Config selects the built-in collectors New registers.
type Config struct {
	Framework []framework.OptionFn
	// Routes adds the OpenAPI route collector when non-nil.
	Routes *routes.Table
	// DisableMessages, DisableTimeline and DisableMemory drop the matching
	// built-in collector.
	DisableMessages bool
	DisableTimeline bool
	DisableMemory   bool
}

// New builds a debug bar with the framework collector plus the enabled
// built-in collectors, and verifies their assets exist in AssetsFS.
func New(cfg Config, options ...toolbar.Option) (*toolbar.DebugBar, error) {
	bar := toolbar.New(options...)

	if err := bar.AddCollector(framework.New(cfg.Framework...)); err != nil {
		return nil, err
	}
	if !cfg.DisableMessages {
		if err := bar.AddCollector(messages.New()); err != nil {
			return nil, err
		}
	}
	if !cfg.DisableTimeline {
		if err := bar.AddCollector(timeline.New(nil)); err != nil {
			return nil, err
		}
	}
	if !cfg.DisableMemory {
		if err := bar.AddCollector(memory.New(nil)); err != nil {
			return nil, err
		}
	}
	if cfg.Routes != nil {
		if err := bar.AddCollector(routes.New(cfg.Routes)); err != nil {
			return nil, err
		}
	}

	if err := bar.VerifyAssets(AssetsFS()); err != nil {
		return nil, fmt.Errorf("debugbar: verify assets: %w", err)
	}
	return bar, nil
}

// NewRenderers returns a registry holding the JSON and HTML panel renderers.
func NewRenderers(htmlOptions ...htmlpanel.Option) (*render.Registry, error) {
	registry := render.NewRegistry()
	registry.MustRegister(jsonpanel.New())

	html, err := htmlpanel.New(htmlOptions...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	return registry, nil
}

// LoadRoutes parses the OpenAPI document at path for the route collector.
func LoadRoutes(ctx context.Context, path string) (*routes.Table, error) {
	return routes.LoadFile(ctx, path)
}

// RenderPanel renders snap with the renderer registered under name.
func RenderPanel(ctx context.Context, registry *render.Registry, name string, bar *toolbar.DebugBar, snap snapshot.Snapshot, options render.RenderOptions) ([]byte, error) {
	renderer, err := registry.Get(name)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, render.NewPanel(bar, snap), options)
}
