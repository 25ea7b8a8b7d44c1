package render

import (
	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/snapshot"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// Source is the part of a debug bar a panel is assembled from.
type Source interface {
	Widgets() widgets.Table
	WidgetConstructors() map[string]string
	Assets() []assets.Descriptor
}

// Panel is everything a renderer needs to draw one request: the collected
// snapshot plus the widget and asset metadata of the registered collectors.
type Panel struct {
	Snapshot     snapshot.Snapshot   `json:"snapshot"`
	Widgets      widgets.Table       `json:"widgets"`
	Constructors map[string]string   `json:"constructors"`
	Assets       []assets.Descriptor `json:"assets"`
}

// NewPanel pairs snap with the metadata exposed by src.
func NewPanel(src Source, snap snapshot.Snapshot) Panel {
	panel := Panel{Snapshot: snap, Widgets: widgets.Table{}, Constructors: map[string]string{}}
	if src == nil {
		return panel
	}
	panel.Widgets = src.Widgets()
	panel.Constructors = src.WidgetConstructors()
	panel.Assets = src.Assets()
	return panel
}
