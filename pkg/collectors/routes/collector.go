// Package routes resolves the current request against the application's
// OpenAPI document and reports the matched operation.
package routes

import (
	"context"

	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/collector"
	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// Name is the registry key of the routes collector.
const Name = "route"

// Collector reports the operation matching the scope request.
type Collector struct {
	table *Table
}

var (
	_ collector.Collector      = (*Collector)(nil)
	_ collector.WidgetProvider = (*Collector)(nil)
	_ collector.AssetProvider  = (*Collector)(nil)
)

// New returns a collector over table. A nil table reports no matches.
func New(table *Table) *Collector {
	return &Collector{table: table}
}

func (c *Collector) Name() string { return Name }

// Collect never fails: a missing document, request or match yields empty
// values.
func (c *Collector) Collect(_ context.Context, scope *host.Scope) (collector.Data, error) {
	data := collector.Data{
		"operation_id":  "",
		"method":        "",
		"path_template": "",
		"summary":       "",
		"tags":          []string{},
		"operations":    c.table.Len(),
		"title":         "",
		"version":       "",
	}
	if c.table != nil {
		data["title"] = c.table.title
		data["version"] = c.table.version
	}
	if scope == nil || scope.Request == nil {
		return data, nil
	}
	route, ok := c.table.Match(scope.Request.Method(), scope.Request.Path())
	if !ok {
		return data, nil
	}
	data["operation_id"] = route.OperationID
	data["method"] = route.Method
	data["path_template"] = route.PathTemplate
	data["summary"] = route.Summary
	if len(route.Tags) > 0 {
		data["tags"] = route.Tags
	}
	return data, nil
}

func (c *Collector) Widgets() widgets.Table {
	return widgets.Table{
		"route": {
			Icon:    "share",
			Tooltip: "Matched operation",
			Widget:  widgets.KindText,
			Map:     widgets.Path(Name, "operation_id"),
			Default: "",
		},
		"operation": widgets.VariableList("code", widgets.Path(Name)),
	}
}

func (c *Collector) Assets() assets.Descriptor {
	return assets.Descriptor{
		BasePath: "collectors/routes",
		BaseURL:  "collectors/routes",
		JS:       "routes.js",
	}
}
