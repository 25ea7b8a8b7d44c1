package host

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRequestParameters_PrefixesEverySource(t *testing.T) {
	req := NewStaticRequest("get", "/",
		map[string]any{"a": 1},
		map[string]any{"b": 2},
	)
	req.SetRouteParams(map[string]any{"c": 3})

	want := map[string]any{
		"GET - a":   1,
		"POST - b":  2,
		"ROUTE - c": 3,
	}
	if diff := cmp.Diff(want, RequestParameters(req)); diff != "" {
		t.Fatalf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestParameters_NilRequest(t *testing.T) {
	got := RequestParameters(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty map, got %#v", got)
	}
}

func TestNewRequest_AdaptsHTTPRequest(t *testing.T) {
	form := url.Values{"postvar": {"value"}, "bar": {"baz"}}
	httpReq := httptest.NewRequest(http.MethodPost, "/pages/12?getvar=value&foo=bar&tag=a&tag=b", strings.NewReader(form.Encode()))
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.AddCookie(&http.Cookie{Name: "PHPSESSID", Value: "abc"})

	req := NewRequest(httpReq, map[string]string{"something": "here"})
	got := RequestParameters(req)

	want := map[string]any{
		"GET - getvar":      "value",
		"GET - foo":         "bar",
		"GET - tag":         []string{"a", "b"},
		"POST - postvar":    "value",
		"POST - bar":        "baz",
		"ROUTE - something": "here",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parameters mismatch (-want +got):\n%s", diff)
	}
	if req.Method() != http.MethodPost || req.Path() != "/pages/12" {
		t.Fatalf("unexpected method/path: %s %s", req.Method(), req.Path())
	}
	if diff := cmp.Diff(map[string]any{"PHPSESSID": "abc"}, CookieData(req)); diff != "" {
		t.Fatalf("cookies mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRequest_LeavesBodyReadable(t *testing.T) {
	httpReq := httptest.NewRequest(http.MethodPost, "/forms", strings.NewReader("b=2&c=3"))
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	req := NewRequest(httpReq, nil)
	if got := httpReq.WithContext(context.Background()).FormValue("b"); got != "2" {
		t.Fatalf("handler copy should still parse the body, got %q", got)
	}
	if diff := cmp.Diff(map[string]any{"b": "2", "c": "3"}, req.Form()); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}

	jsonReq := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(`{"b":2}`))
	jsonReq.Header.Set("Content-Type", "application/json")
	if form := NewRequest(jsonReq, nil).Form(); len(form) != 0 {
		t.Fatalf("non-form bodies should not be parsed, got %v", form)
	}
}

func TestPathParams_ReadsServeMuxWildcards(t *testing.T) {
	var got map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files/{dir}/{path...}", func(w http.ResponseWriter, r *http.Request) {
		got = PathParams(r)
	})
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/files/docs/a/b.txt", nil))

	if diff := cmp.Diff(map[string]string{"dir": "docs", "path": "a/b.txt"}, got); diff != "" {
		t.Fatalf("path params mismatch (-want +got):\n%s", diff)
	}
	if PathParams(httptest.NewRequest(http.MethodGet, "/", nil)) != nil {
		t.Fatalf("unrouted requests have no path params")
	}
}

func TestSessionData_CopiesValues(t *testing.T) {
	session := NewMemorySession(nil)
	session.Set("DebugBarTesting", "test value")

	got := SessionData(session)
	if got["DebugBarTesting"] != "test value" {
		t.Fatalf("expected session value, got %#v", got)
	}

	got["DebugBarTesting"] = "mutated"
	if value, _ := session.Get("DebugBarTesting"); value != "test value" {
		t.Fatalf("session mutated through snapshot: %#v", value)
	}
	if len(SessionData(nil)) != 0 {
		t.Fatalf("expected empty map for nil session")
	}
}

func TestConfigSnapshot_IncludesIdentityFields(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	got := ConfigSnapshot(&SiteConfig{
		ID:      1,
		Created: created,
		Title:   "Your Site Name",
		Extra:   map[string]any{"theme": map[string]any{"primary": "#123456"}},
	})

	for _, key := range []string{ClassNameKey, "ID", "Created", "Title"} {
		if _, ok := got[key]; !ok {
			t.Fatalf("expected key %q in %#v", key, got)
		}
	}
	if got[ClassNameKey] != "host.SiteConfig" {
		t.Fatalf("unexpected class name %#v", got[ClassNameKey])
	}
	if got["ID"] != json.Number("1") {
		t.Fatalf("expected ID to keep its integer form, got %#v", got["ID"])
	}
	if got["Extra.theme.primary"] != "#123456" {
		t.Fatalf("expected nested value flattened, got %#v", got)
	}
}

type namedRecord struct {
	ID int `json:"ID"`
}

func (namedRecord) ClassName() string { return "App\\Settings" }

func TestConfigSnapshot_ClassNamerAndNil(t *testing.T) {
	got := ConfigSnapshot(namedRecord{ID: 4})
	if got[ClassNameKey] != "App\\Settings" {
		t.Fatalf("expected ClassNamer identifier, got %#v", got[ClassNameKey])
	}

	var missing *SiteConfig
	if len(ConfigSnapshot(missing)) != 0 || len(ConfigSnapshot(nil)) != 0 {
		t.Fatalf("expected empty snapshot for nil records")
	}
}

func TestRequirements_OrderedAndDeduplicated(t *testing.T) {
	reqs := NewRequirements()
	if got := reqs.List(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}

	reqs.CSS("debugbar/assets/debugbar.css")
	reqs.JS("app.js")
	reqs.CSS("debugbar/assets/debugbar.css")
	reqs.JS(" ")

	if diff := cmp.Diff([]string{"debugbar/assets/debugbar.css", "app.js"}, reqs.List()); diff != "" {
		t.Fatalf("requirements mismatch (-want +got):\n%s", diff)
	}
}

func TestUserLabel(t *testing.T) {
	cases := []struct {
		name string
		user User
		want string
	}{
		{name: "full name", user: User{FirstName: "ADMIN", Surname: "User"}, want: "User, ADMIN"},
		{name: "first only", user: User{FirstName: "Ada"}, want: "Ada"},
		{name: "email", user: User{Email: "ada@example.com"}, want: "ada@example.com"},
		{name: "id", user: User{ID: "42"}, want: "42"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.Label(); got != tc.want {
				t.Fatalf("label: want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestScope_DefaultsAndAuthorizer(t *testing.T) {
	ctx := context.Background()
	var empty *Scope
	if _, ok := empty.CurrentUser(ctx); ok {
		t.Fatalf("nil scope should not report a user")
	}
	if got := empty.LocaleOr(ctx, "en_US"); got != "en_US" {
		t.Fatalf("expected fallback locale, got %q", got)
	}

	scope := &Scope{
		Users:      StaticUser(&User{ID: "1", Permissions: []string{"ADMIN"}}),
		Authorizer: PermissionAuthorizer{},
		Locale:     StaticLocale("de_DE"),
	}
	if !scope.Allowed(ctx, "ADMIN") || scope.Allowed(ctx, "CMS_ACCESS") {
		t.Fatalf("authorizer did not honour user permissions")
	}
	if got := scope.LocaleOr(ctx, "en_US"); got != "de_DE" {
		t.Fatalf("expected de_DE, got %q", got)
	}

	stored, ok := ScopeFromContext(WithScope(ctx, scope))
	if !ok || stored != scope {
		t.Fatalf("scope not recovered from context")
	}
}
