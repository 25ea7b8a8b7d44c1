package htmlpanel

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/render"
	"github.com/goliatone/go-debugbar/pkg/snapshot"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

func testPanel() render.Panel {
	return render.Panel{
		Snapshot: snapshot.Snapshot{
			ID:   "req-1",
			Meta: snapshot.Meta{ID: "req-1", Method: "GET", URI: "/pages"},
			Data: map[string]map[string]any{
				"framework": {
					"user":    "Surname, Admin",
					"session": map[string]any{"flash": `<script>alert(1)</script>saved`},
					"templates": map[string]any{
						"templates": []string{"Page.ss", "Layout.ss"},
						"count":     2,
					},
				},
			},
		},
		Widgets: widgets.Table{
			"framework.user":            widgets.Text("user", "Current member"),
			"framework.session":         widgets.VariableList("archive", "framework.session"),
			"framework.templates":       widgets.List("file-code-o", "framework.templates.templates"),
			"framework.templates:badge": widgets.Badge("framework.templates.count"),
			"framework.cookies":         widgets.VariableList(`<svg viewBox="0 0 8 8" onload="x()"><path d="M0 0h8v8z"/></svg>`, "framework.cookies"),
		},
		Constructors: map[string]string{"text": "DebugBar.Widgets.TextWidget"},
		Assets: []assets.Descriptor{{
			BasePath: "collectors/timeline",
			BaseURL:  "/_debugbar/assets/collectors/timeline",
			CSS:      "timeline.css",
			JS:       "timeline.js",
		}},
	}
}

func renderPanel(t *testing.T, panel render.Panel, options render.RenderOptions) string {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), panel, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_DrawsWidgets(t *testing.T) {
	out := renderPanel(t, testPanel(), render.RenderOptions{AssetBaseURL: "/_debugbar/assets/"})

	for _, want := range []string{
		`<link rel="stylesheet" href="/_debugbar/assets/debugbar.css">`,
		`<link rel="stylesheet" href="/_debugbar/assets/collectors/timeline/timeline.css">`,
		`<script src="/_debugbar/assets/collectors/timeline/timeline.js"></script>`,
		`title="Current member"`,
		`<i class="fa fa-user" aria-hidden="true"></i> Surname, Admin`,
		`<li>Page.ss</li>`,
		`<span class="debugbar-badge">2</span>`,
		`<th>flash</th>`,
		`saved`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRenderer_SanitizesValuesAndIcons(t *testing.T) {
	out := renderPanel(t, testPanel(), render.RenderOptions{})

	body := out[:strings.Index(out, `<script type="application/json"`)]
	if strings.Contains(body, "<script>alert") {
		t.Fatalf("collected markup should be stripped from the panel body")
	}
	if strings.Contains(out, "onload") {
		t.Fatalf("icon event handlers should be removed")
	}
	if !strings.Contains(out, `<path d="M0 0h8v8z"`) {
		t.Fatalf("svg icon paths should survive sanitizing")
	}
	bootstrap := out[strings.Index(out, `<script type="application/json"`):]
	if strings.Contains(bootstrap, "</script>saved") {
		t.Fatalf("bootstrap json must escape closing tags")
	}
	if !strings.Contains(bootstrap, `M0 0h8v8z`) {
		t.Fatalf("bootstrap widget table should keep the sanitized svg icon")
	}
}

func TestRenderer_AppliesThemeAndSubset(t *testing.T) {
	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--debugbar-background": "#111"},
		AssetURL: func(key string) string {
			if key == ThemeStylesheetKey {
				return "/themes/acme/debugbar.css"
			}
			return ""
		},
	}
	panel := testPanel()
	panel.Snapshot.Data["messages"] = map[string]any{"count": 0}
	panel.Widgets["messages.messages"] = widgets.List("list-alt", "messages.messages")

	out := renderPanel(t, panel, render.RenderOptions{Theme: cfg, Collectors: []string{"framework"}})

	for _, want := range []string{
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
		`style="--debugbar-background: #111"`,
		`href="/themes/acme/debugbar.css"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, `data-panel="messages.messages"`) {
		t.Fatalf("collectors outside the subset should not render")
	}
}

func TestRenderer_MissingValuesUseDefaults(t *testing.T) {
	panel := render.Panel{
		Snapshot: snapshot.Snapshot{ID: "req-2", Data: map[string]map[string]any{}},
		Widgets: widgets.Table{
			"framework.locale":  widgets.Text("globe", "en_US"),
			"framework.session": widgets.VariableList("archive", "framework.session"),
		},
	}
	out := renderPanel(t, panel, render.RenderOptions{})
	if !strings.Contains(out, `data-panel="framework.session" data-kind="variable-list"`) {
		t.Fatalf("expected empty variable list panel\n%s", out)
	}
}
