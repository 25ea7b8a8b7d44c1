// Package messages captures log records emitted while a request is handled
// and reports them to the debug panel.
package messages

import (
	"context"

	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/collector"
	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// Name is the registry key of the messages collector.
const Name = "messages"

// KindMessages renders the captured log records.
const KindMessages widgets.Kind = "messages"

// Collector reports the messages recorded for the request context.
type Collector struct{}

var (
	_ collector.Collector      = Collector{}
	_ collector.WidgetProvider = Collector{}
	_ collector.AssetProvider  = Collector{}
	_ collector.KindProvider   = Collector{}
)

// New returns the messages collector.
func New() Collector { return Collector{} }

func (Collector) Name() string { return Name }

// Collect reads the recorder attached to ctx. Without one the message list
// is empty.
func (Collector) Collect(ctx context.Context, _ *host.Scope) (collector.Data, error) {
	rec, _ := RecorderFromContext(ctx)
	msgs := rec.Messages()
	return collector.Data{
		"messages": msgs,
		"count":    len(msgs),
		"dropped":  rec.Dropped(),
	}, nil
}

func (Collector) Widgets() widgets.Table {
	return widgets.Table{
		"messages": {
			Icon:    "list-alt",
			Widget:  KindMessages,
			Map:     widgets.Path(Name, "messages"),
			Default: "[]",
		},
		"messages:badge": widgets.Badge(widgets.Path(Name, "count")),
	}
}

func (Collector) WidgetKinds() map[widgets.Kind]string {
	return map[widgets.Kind]string{KindMessages: "DebugBar.Widgets.MessagesWidget"}
}

func (Collector) Assets() assets.Descriptor {
	return assets.Descriptor{
		BasePath: "collectors/" + Name,
		BaseURL:  "collectors/" + Name,
		JS:       Name + ".js",
	}
}
