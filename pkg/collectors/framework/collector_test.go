package framework_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	debugbar "github.com/goliatone/go-debugbar"
	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/collectors/framework"
	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

func adminUser() *host.User {
	return &host.User{ID: "1", FirstName: "ADMIN", Surname: "User", Permissions: []string{"ADMIN"}}
}

func newScope() *host.Scope {
	req := host.NewStaticRequest("GET", "/pages",
		map[string]any{"a": 1},
		map[string]any{"b": 2},
	)
	req.SetRouteParams(map[string]any{"c": 3})
	req.Cookie = map[string]string{"PHPSESSID": "abc"}

	return &host.Scope{
		Request:      req,
		Session:      host.NewMemorySession(map[string]any{"flash": "saved"}),
		Requirements: host.NewRequirements(),
		Templates:    host.NewTemplateTracker(),
		Config: host.StaticConfig(&host.SiteConfig{
			ID:      1,
			Created: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			Title:   "Your Site Name",
		}),
	}
}

func collect(t *testing.T, c *framework.Collector, scope *host.Scope) map[string]any {
	t.Helper()
	data, err := c.Collect(context.Background(), scope)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	return data
}

func TestCollect_UserLabel(t *testing.T) {
	c := framework.New()

	scope := newScope()
	if got := collect(t, c, scope)["user"]; got != framework.NotLoggedIn {
		t.Fatalf("anonymous user = %v, want %q", got, framework.NotLoggedIn)
	}

	scope.Users = host.StaticUser(adminUser())
	if got := collect(t, c, scope)["user"]; got != "User, ADMIN" {
		t.Fatalf("user = %v, want %q", got, "User, ADMIN")
	}
}

func TestCollect_RequestParametersPrefixedBySource(t *testing.T) {
	got := collect(t, framework.New(), newScope())["parameters"]

	want := map[string]any{"GET - a": 1, "POST - b": 2, "ROUTE - c": 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_Requirements(t *testing.T) {
	c := framework.New()
	scope := newScope()

	if got := collect(t, c, scope)["requirements"].([]string); len(got) != 0 {
		t.Fatalf("expected no requirements, got %v", got)
	}

	scope.Requirements.CSS("themes/simple/css/layout.css")
	got := collect(t, c, scope)["requirements"].([]string)
	if diff := cmp.Diff([]string{"themes/simple/css/layout.css"}, got); diff != "" {
		t.Fatalf("requirements mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_ConfigSnapshotIdentity(t *testing.T) {
	config := collect(t, framework.New(), newScope())["config"].(map[string]any)

	for _, key := range []string{host.ClassNameKey, "ID", "Created"} {
		if _, ok := config[key]; !ok {
			t.Fatalf("config snapshot missing %q: %v", key, config)
		}
	}
	if config[host.ClassNameKey] != "host.SiteConfig" {
		t.Fatalf("unexpected class name %v", config[host.ClassNameKey])
	}
}

func TestCollect_DefaultsAndLocale(t *testing.T) {
	c := framework.New(framework.WithDebug(true))

	data := collect(t, c, nil)
	if data["locale"] != framework.DefaultLocale || data["debug"] != true {
		t.Fatalf("unexpected defaults %#v", data)
	}
	for _, key := range []string{"session", "cookies", "config", "parameters"} {
		if m := data[key].(map[string]any); len(m) != 0 {
			t.Fatalf("%s should be empty without host state, got %v", key, m)
		}
	}

	scope := newScope()
	scope.Locale = host.StaticLocale("fr_FR")
	if got := collect(t, c, scope)["locale"]; got != "fr_FR" {
		t.Fatalf("locale = %v, want fr_FR", got)
	}
}

func TestCollect_PermissionGating(t *testing.T) {
	c := framework.New()
	scope := newScope()
	scope.Authorizer = host.PermissionAuthorizer{}

	denied := collect(t, c, scope)
	for _, key := range []string{"session", "cookies", "config"} {
		if m := denied[key].(map[string]any); len(m) != 0 {
			t.Fatalf("%s should be hidden from anonymous users, got %v", key, m)
		}
	}

	scope.Users = host.StaticUser(adminUser())
	allowed := collect(t, c, scope)
	if diff := cmp.Diff(map[string]any{"flash": "saved"}, allowed["session"]); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"PHPSESSID": "abc"}, allowed["cookies"]); diff != "" {
		t.Fatalf("cookies mismatch (-want +got):\n%s", diff)
	}
}

func TestWidgets_StaticTable(t *testing.T) {
	c := framework.New()

	// Tooltips are configuration driven, so compare with them stripped.
	want := widgets.Table{
		"user":            {Icon: "user", Widget: widgets.KindText, Default: ""},
		"version":         {Icon: "hashtag", Widget: widgets.KindText, Default: ""},
		"locale":          {Icon: "globe", Widget: widgets.KindText, Default: ""},
		"session":         {Icon: "archive", Widget: widgets.KindVariableList, Map: "framework.session", Default: "{}"},
		"cookies":         {Icon: "asterisk", Widget: widgets.KindVariableList, Map: "framework.cookies", Default: "{}"},
		"parameters":      {Icon: "arrow-right", Widget: widgets.KindVariableList, Map: "framework.parameters", Default: "{}"},
		"SiteConfig":      {Icon: "sliders", Widget: widgets.KindVariableList, Map: "framework.config", Default: "{}"},
		"requirements":    {Icon: "file-text-o", Widget: widgets.KindList, Map: "framework.requirements", Default: "{}"},
		"templates":       {Icon: "file-code-o", Widget: widgets.KindList, Map: "framework.templates.templates", Default: "{}"},
		"templates:badge": {Widget: widgets.KindBadge, Map: "framework.templates.count", Default: 0},
	}

	first := c.Widgets()
	scope := newScope()
	scope.Users = host.StaticUser(adminUser())
	scope.Requirements.JS("app.js")
	collect(t, c, scope)
	second := c.Widgets()

	if diff := cmp.Diff(want, first.WithoutTooltips()); diff != "" {
		t.Fatalf("widget table mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("widget table changed between collections (-first +second):\n%s", diff)
	}
}

func TestWidgets_TooltipsFollowOptions(t *testing.T) {
	c := framework.New(
		framework.WithDefaultLocale("de_DE"),
		framework.WithVersions(host.StaticVersions{"framework": "4.13.0", "cms": "4.13.1"}),
	)
	table := c.Widgets()

	if table["locale"].Tooltip != "de_DE" {
		t.Fatalf("locale tooltip = %q", table["locale"].Tooltip)
	}
	if table["version"].Tooltip != "cms: 4.13.1, framework: 4.13.0" {
		t.Fatalf("version tooltip = %q", table["version"].Tooltip)
	}
}

func TestWidgets_LocaleTooltipFollowsLastCollection(t *testing.T) {
	c := framework.New()
	if got := c.Widgets()["locale"].Tooltip; got != "en_US" {
		t.Fatalf("tooltip before any collection = %q", got)
	}

	scope := newScope()
	scope.Locale = host.StaticLocale("fr_FR")
	data := collect(t, c, scope)

	if data["locale"] != "fr_FR" || c.Widgets()["locale"].Tooltip != "fr_FR" {
		t.Fatalf("collected %v, tooltip %q", data["locale"], c.Widgets()["locale"].Tooltip)
	}
}

func TestAssets_ExistInEmbeddedBundle(t *testing.T) {
	desc := framework.New().Assets()
	if desc.JS != "framework.js" || desc.CSS != "" {
		t.Fatalf("unexpected descriptor %#v", desc)
	}
	if err := assets.Verify(debugbar.AssetsFS(), desc); err != nil {
		t.Fatalf("verify assets: %v", err)
	}
}
