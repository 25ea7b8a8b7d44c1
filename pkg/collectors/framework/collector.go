// Package framework provides the collector that reports the host
// application's request, session, user, locale, configuration and template
// state to the debug panel.
package framework

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/collector"
	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// Collector reads host state through the request scope. Apart from the
// locale of the last collection it holds no per-request state, and it is
// safe to share.
type Collector struct {
	opts Options

	mu         sync.RWMutex
	lastLocale string
}

var (
	_ collector.Collector      = (*Collector)(nil)
	_ collector.WidgetProvider = (*Collector)(nil)
	_ collector.AssetProvider  = (*Collector)(nil)
)

// New constructs a collector with default options plus any overrides.
func New(fns ...OptionFn) *Collector {
	return &Collector{opts: NewOptions(fns...)}
}

func (c *Collector) Name() string { return Name }

// Collect never fails; unavailable sections degrade to empty values.
func (c *Collector) Collect(ctx context.Context, scope *host.Scope) (collector.Data, error) {
	if scope == nil {
		scope = &host.Scope{}
	}

	locale := scope.LocaleOr(ctx, c.opts.DefaultLocale)
	c.mu.Lock()
	c.lastLocale = locale
	c.mu.Unlock()

	data := collector.Data{
		"debug":        c.opts.Debug,
		"user":         userLabel(ctx, scope),
		"locale":       locale,
		"version":      c.Version(),
		"parameters":   host.RequestParameters(scope.Request),
		"session":      map[string]any{},
		"cookies":      map[string]any{},
		"config":       map[string]any{},
		"requirements": scope.Requirements.List(),
		"templates":    templateData(scope.Templates),
	}

	if scope.Allowed(ctx, c.opts.Permission) {
		data["session"] = host.SessionData(scope.Session)
		data["cookies"] = host.CookieData(scope.Request)
		data["config"] = configData(ctx, scope.Config)
	}
	return data, nil
}

// Widgets returns the static display table. Only the version tooltip and
// the locale tooltip, which shows the last collected locale, vary.
func (c *Collector) Widgets() widgets.Table {
	return widgets.Table{
		"user":            widgets.Text("user", "Current member"),
		"version":         widgets.Text("hashtag", c.Version()),
		"locale":          widgets.Text("globe", c.LastLocale()),
		"session":         widgets.VariableList("archive", widgets.Path(Name, "session")),
		"cookies":         widgets.VariableList("asterisk", widgets.Path(Name, "cookies")),
		"parameters":      widgets.VariableList("arrow-right", widgets.Path(Name, "parameters")),
		"SiteConfig":      widgets.VariableList("sliders", widgets.Path(Name, "config")),
		"requirements":    widgets.List("file-text-o", widgets.Path(Name, "requirements")),
		"templates":       widgets.List("file-code-o", widgets.Path(Name, "templates", "templates")),
		"templates:badge": widgets.Badge(widgets.Path(Name, "templates", "count")),
	}
}

// Assets points at the collector's panel script. The collector has no
// stylesheet.
func (c *Collector) Assets() assets.Descriptor {
	return assets.Descriptor{
		BasePath: "collectors/" + Name,
		BaseURL:  c.opts.AssetBaseURL,
		JS:       Name + ".js",
	}
}

// Version formats the installed modules as "name: version" pairs sorted by
// name. It is empty when no version provider is configured.
// LastLocale returns the locale of the most recent collection, or the
// default locale before the first one.
func (c *Collector) LastLocale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lastLocale == "" {
		return c.opts.DefaultLocale
	}
	return c.lastLocale
}

func (c *Collector) Version() string {
	if c.opts.Versions == nil {
		return ""
	}
	modules := c.opts.Versions.Modules()
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		version := strings.TrimSpace(modules[name])
		if version == "" {
			parts = append(parts, name)
			continue
		}
		parts = append(parts, name+": "+version)
	}
	return strings.Join(parts, ", ")
}

func userLabel(ctx context.Context, scope *host.Scope) string {
	user, ok := scope.CurrentUser(ctx)
	if !ok {
		return NotLoggedIn
	}
	if label := user.Label(); label != "" {
		return label
	}
	return NotLoggedIn
}

func configData(ctx context.Context, provider host.ConfigProvider) map[string]any {
	if provider == nil {
		return map[string]any{}
	}
	record, ok := provider.ConfigRecord(ctx)
	if !ok {
		return map[string]any{}
	}
	return host.ConfigSnapshot(record)
}

func templateData(tracker *host.TemplateTracker) map[string]any {
	templates := tracker.Templates()
	return map[string]any{
		"templates": templates,
		"count":     len(templates),
	}
}
