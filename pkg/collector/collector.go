// Package collector defines the data-provider contract of the debug bar and
// the registry collectors are looked up from.
package collector

import (
	"context"

	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// Data is a collector snapshot: field names mapped to JSON-serialisable
// values (strings, numbers, nested maps, slices).
type Data = map[string]any

// Collector produces a snapshot of request-scoped runtime state. Collect is
// invoked once per request and must not cache across requests. Missing
// optional state degrades to empty values; an error is reserved for genuine
// failures and is treated by the debug bar as an empty snapshot.
type Collector interface {
	Name() string
	Collect(ctx context.Context, scope *host.Scope) (Data, error)
}

// WidgetProvider is implemented by collectors that describe how the panel
// should display their fields.
type WidgetProvider interface {
	Widgets() widgets.Table
}

// AssetProvider is implemented by collectors that ship front-end assets.
type AssetProvider interface {
	Assets() assets.Descriptor
}

// KindProvider is implemented by collectors that bring their own front-end
// widget kinds, mapped to the constructor the panel runtime instantiates.
type KindProvider interface {
	WidgetKinds() map[widgets.Kind]string
}

// Func adapts a function into a Collector.
type Func struct {
	name    string
	collect func(ctx context.Context, scope *host.Scope) (Data, error)
}

// NewFunc builds a collector named name backed by fn.
func NewFunc(name string, fn func(ctx context.Context, scope *host.Scope) (Data, error)) *Func {
	return &Func{name: name, collect: fn}
}

func (f *Func) Name() string { return f.name }

func (f *Func) Collect(ctx context.Context, scope *host.Scope) (Data, error) {
	if f.collect == nil {
		return Data{}, nil
	}
	return f.collect(ctx, scope)
}
