package debugbar

import (
	"log/slog"
	"net/http"

	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/render"
)

// HeaderID carries the snapshot identifier of the wrapped request.
const HeaderID = "X-Debugbar-Id"

// GuardFunc authorises access to the debug bar. Returning an HTTPError picks
// the response status; any other error yields 403.
type GuardFunc func(r *http.Request) error

// ScopeFunc builds the host scope for a request. The middleware fills in
// Request and StartedAt when the returned scope leaves them empty.
type ScopeFunc func(r *http.Request) *host.Scope

type Options struct {
	RoutePath     string
	Guard         GuardFunc
	ScopeFunc     ScopeFunc
	Renderers     []render.Renderer
	DefaultFormat string
	RenderOptions render.RenderOptions
	MessageLimit  int
	Logger        *slog.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:     "/_debugbar",
		DefaultFormat: "html",
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/_debugbar"
	}
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = "html"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Renderers != nil {
		opts.Renderers = append([]render.Renderer{}, opts.Renderers...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithScopeFunc(fn ScopeFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ScopeFunc = fn
	}
}

// WithRenderer adds a panel renderer next to the built-in HTML and JSON
// renderers.
func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil || renderer == nil {
			return
		}
		o.Renderers = append(o.Renderers, renderer)
	}
}

// WithDefaultFormat names the renderer used when the request does not ask
// for one.
func WithDefaultFormat(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultFormat = name
	}
}

func WithRenderOptions(options render.RenderOptions) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RenderOptions = options
	}
}

func WithMessageLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MessageLimit = limit
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
