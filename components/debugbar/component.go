package debugbar

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	core "github.com/goliatone/go-debugbar"
	"github.com/goliatone/go-debugbar/pkg/render"
	"github.com/goliatone/go-debugbar/pkg/toolbar"
)

// Component bundles a debug bar with its HTTP surface.
type Component struct {
	bar       *toolbar.DebugBar
	opts      Options
	renderers *render.Registry
	assets    fs.FS
	logger    *slog.Logger
	mount     string
}

// New constructs a component serving bar with default options plus any
// overrides.
func New(bar *toolbar.DebugBar, fns ...OptionFn) (*Component, error) {
	if bar == nil {
		return nil, errors.New("debugbar: missing debug bar")
	}
	opts := NewOptions(fns...)

	renderers, err := core.NewRenderers()
	if err != nil {
		return nil, fmt.Errorf("debugbar: renderers: %w", err)
	}
	for _, renderer := range opts.Renderers {
		if err := renderers.Register(renderer); err != nil {
			return nil, fmt.Errorf("debugbar: %w", err)
		}
	}
	if !renderers.Has(opts.DefaultFormat) {
		return nil, fmt.Errorf("debugbar: default format %q has no renderer", opts.DefaultFormat)
	}

	return &Component{
		bar:       bar,
		opts:      opts,
		renderers: renderers,
		assets:    core.AssetsFS(),
		logger:    opts.Logger.With("component", "debugbar"),
		mount:     mountPath("", opts.RoutePath),
	}, nil
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	return NewOptions(func(o *Options) { *o = c.opts })
}

// DebugBar returns the wrapped debug bar.
func (c *Component) DebugBar() *toolbar.DebugBar {
	return c.bar
}

// MountPoint is the path the component routes live under.
func (c *Component) MountPoint() string {
	return c.mount
}

// RegisterRoutes registers the component routes under basePath on mux and
// returns the registered pattern. Call it before serving requests.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("debugbar: missing mux")
	}
	c.mount = mountPath(basePath, c.opts.RoutePath)
	pattern := c.mount + "/"
	mux.Handle(pattern, http.StripPrefix(c.mount, c.Handler()))
	return pattern, nil
}

func (c *Component) allowed(r *http.Request) error {
	if c.opts.Guard == nil {
		return nil
	}
	return c.opts.Guard(r)
}
