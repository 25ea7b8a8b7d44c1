package main

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strings"

	core "github.com/goliatone/go-debugbar"
	component "github.com/goliatone/go-debugbar/components/debugbar"
	"github.com/goliatone/go-debugbar/pkg/collectors/framework"
	"github.com/goliatone/go-debugbar/pkg/collectors/memory"
	"github.com/goliatone/go-debugbar/pkg/collectors/messages"
	"github.com/goliatone/go-debugbar/pkg/collectors/timeline"
	"github.com/goliatone/go-debugbar/pkg/config"
	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/render"
	"github.com/goliatone/go-debugbar/pkg/snapshot"
	"github.com/goliatone/go-debugbar/pkg/toolbar"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// newStore opens the snapshot store described by cfg.
func newStore(cfg config.StorageConfig) snapshot.Store {
	if cfg.Driver == config.StorageFile {
		return snapshot.NewFileStore(cfg.Dir)
	}
	return snapshot.NewMemoryStore(cfg.Capacity)
}

// newApp wires the debug bar, its HTTP component and the demo pages.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (http.Handler, error) {
	toolbarOptions := []toolbar.Option{
		toolbar.WithStore(newStore(cfg.Storage)),
		toolbar.WithLogger(logger.With("component", "toolbar")),
		toolbar.WithAssetBaseURL(cfg.RoutePath + "/assets"),
	}
	if dir := strings.TrimSpace(cfg.WidgetOverrides); dir != "" {
		overrides, err := widgets.LoadOverridesFS(os.DirFS(dir))
		if err != nil {
			return nil, fmt.Errorf("widget overrides: %w", err)
		}
		toolbarOptions = append(toolbarOptions, toolbar.WithWidgetOverrides(overrides))
	}

	barConfig := core.Config{
		Framework: []framework.OptionFn{
			framework.WithDebug(cfg.Debug),
			framework.WithDefaultLocale(cfg.Locale),
			framework.WithPermission(cfg.Permission),
			framework.WithVersions(host.StaticVersions{"debugbar": version}),
		},
		DisableMessages: !cfg.Enabled(messages.Name),
		DisableTimeline: !cfg.Enabled(timeline.Name),
		DisableMemory:   !cfg.Enabled(memory.Name),
	}
	if path := strings.TrimSpace(cfg.OpenAPI); path != "" {
		table, err := core.LoadRoutes(ctx, path)
		if err != nil {
			return nil, err
		}
		barConfig.Routes = table
	}

	bar, err := core.New(barConfig, toolbarOptions...)
	if err != nil {
		return nil, err
	}

	var renderOptions render.RenderOptions
	if manifest := cfg.Theme.Manifest(); manifest != nil {
		themeConfig, err := render.SelectTheme(render.NewManifestSelector(manifest), cfg.Theme.Name, cfg.Theme.Variant)
		if err != nil {
			return nil, err
		}
		renderOptions.Theme = themeConfig
	}

	debug, err := component.New(bar,
		component.WithRoutePath(cfg.RoutePath),
		component.WithLogger(logger),
		component.WithRenderOptions(renderOptions),
	)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if _, err := debug.RegisterRoutes(mux, ""); err != nil {
		return nil, err
	}
	demo := &demoPages{
		logger: slog.New(messages.NewHandler(logger.Handler(), slog.LevelDebug)).With("component", "demo"),
		panel:  debug.MountPoint() + "/panel",
	}
	mux.HandleFunc("GET /{$}", demo.home)
	mux.HandleFunc("GET /pages/{id}", demo.page)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return debug.Middleware(mux), nil
}

var demoTemplate = template.Must(template.New("demo").Parse(`<!doctype html>
<html>
<head><title>{{ .Title }}</title></head>
<body>
<h1>{{ .Title }}</h1>
<p>{{ .Body }}</p>
<div id="debugbar"></div>
<script>
fetch({{ .Panel }} + "?id=" + encodeURIComponent({{ .ID }}))
  .then(function (res) { return res.text(); })
  .then(function (html) {
    var host = document.getElementById("debugbar");
    host.innerHTML = html;
    host.querySelectorAll("script").forEach(function (old) {
      var s = document.createElement("script");
      if (old.src) { s.src = old.src; } else { s.textContent = old.textContent; }
      if (old.type) { s.type = old.type; }
      if (old.id) { s.id = old.id; }
      old.replaceWith(s);
    });
  });
</script>
</body>
</html>
`))

// demoPages is a tiny application for trying the debug bar out.
type demoPages struct {
	logger *slog.Logger
	panel  string
}

type demoView struct {
	Title string
	Body  string
	Panel string
	ID    string
}

func (d *demoPages) home(w http.ResponseWriter, r *http.Request) {
	d.renderPage(w, r, demoView{Title: "Home", Body: "Open /pages/42 to see route parameters."})
}

func (d *demoPages) page(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d.renderPage(w, r, demoView{Title: "Page " + id, Body: "Loaded page " + id + "."})
}

func (d *demoPages) renderPage(w http.ResponseWriter, r *http.Request, view demoView) {
	ctx := r.Context()
	tl, _ := timeline.FromContext(ctx)
	view.Panel = d.panel
	if scope, ok := host.ScopeFromContext(ctx); ok {
		view.ID = scope.ID
		scope.Templates.Track("demo.html")
	}

	d.logger.InfoContext(ctx, "rendering demo page", "title", view.Title)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	tl.Measure("render", func() {
		if err := demoTemplate.Execute(w, view); err != nil {
			d.logger.ErrorContext(ctx, "render demo page", "error", err)
		}
	})
}
