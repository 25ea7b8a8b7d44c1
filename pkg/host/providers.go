package host

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// User is the authenticated account for the current request.
type User struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"firstName,omitempty"`
	Surname     string   `json:"surname,omitempty"`
	Email       string   `json:"email,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Label returns the display label for the user: "Surname, FirstName" when
// both are known, then whichever name is set, then the e-mail, then the ID.
func (u User) Label() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.Surname)
	switch {
	case first != "" && last != "":
		return last + ", " + first
	case last != "":
		return last
	case first != "":
		return first
	case strings.TrimSpace(u.Email) != "":
		return strings.TrimSpace(u.Email)
	default:
		return strings.TrimSpace(u.ID)
	}
}

// HasPermission reports whether the user carries permission code.
func (u User) HasPermission(code string) bool {
	return slices.Contains(u.Permissions, code)
}

// UserProvider resolves the authenticated user.
type UserProvider interface {
	CurrentUser(ctx context.Context) (User, bool)
}

// UserProviderFunc adapts a function to UserProvider.
type UserProviderFunc func(ctx context.Context) (User, bool)

func (f UserProviderFunc) CurrentUser(ctx context.Context) (User, bool) {
	if f == nil {
		return User{}, false
	}
	return f(ctx)
}

// StaticUser returns a provider that always reports user. A nil user means
// nobody is logged in.
func StaticUser(user *User) UserProvider {
	return UserProviderFunc(func(context.Context) (User, bool) {
		if user == nil {
			return User{}, false
		}
		return *user, true
	})
}

// ConfigProvider exposes the active configuration record.
type ConfigProvider interface {
	ConfigRecord(ctx context.Context) (any, bool)
}

type staticConfig struct{ record any }

// StaticConfig returns a provider for a fixed configuration record.
func StaticConfig(record any) ConfigProvider {
	return staticConfig{record: record}
}

func (c staticConfig) ConfigRecord(context.Context) (any, bool) {
	return c.record, c.record != nil
}

// LocaleProvider resolves the active locale.
type LocaleProvider interface {
	Locale(ctx context.Context) string
}

// StaticLocale is a LocaleProvider returning a fixed locale.
type StaticLocale string

func (l StaticLocale) Locale(context.Context) string { return string(l) }

// VersionProvider reports the versions of installed application modules,
// keyed by module name.
type VersionProvider interface {
	Modules() map[string]string
}

// StaticVersions is a VersionProvider over a literal map.
type StaticVersions map[string]string

func (v StaticVersions) Modules() map[string]string { return v }

// Authorizer decides whether user may see permission-gated data.
type Authorizer interface {
	Allow(ctx context.Context, user User, permission string) bool
}

// PermissionAuthorizer grants access when the user carries the permission.
type PermissionAuthorizer struct{}

func (PermissionAuthorizer) Allow(_ context.Context, user User, permission string) bool {
	return user.HasPermission(permission)
}

// Requirements records the CSS and JavaScript assets declared while
// rendering the current page.
type Requirements struct {
	mu    sync.Mutex
	paths []string
	seen  map[string]struct{}
}

// NewRequirements returns an empty requirement set.
func NewRequirements() *Requirements {
	return &Requirements{seen: make(map[string]struct{})}
}

// CSS declares a stylesheet.
func (r *Requirements) CSS(path string) { r.add(path) }

// JS declares a script.
func (r *Requirements) JS(path string) { r.add(path) }

// List returns the declared paths in declaration order. It is never nil.
func (r *Requirements) List() []string {
	if r == nil {
		return []string{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.paths...)
}

func (r *Requirements) add(path string) {
	trimmed := strings.TrimSpace(path)
	if r == nil || trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen == nil {
		r.seen = make(map[string]struct{})
	}
	if _, ok := r.seen[trimmed]; ok {
		return
	}
	r.seen[trimmed] = struct{}{}
	r.paths = append(r.paths, trimmed)
}

// TemplateTracker records the templates rendered for the current request.
type TemplateTracker struct {
	mu        sync.Mutex
	templates []string
}

// NewTemplateTracker returns an empty tracker.
func NewTemplateTracker() *TemplateTracker {
	return &TemplateTracker{}
}

// Track records a rendered template name.
func (t *TemplateTracker) Track(name string) {
	trimmed := strings.TrimSpace(name)
	if t == nil || trimmed == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.templates = append(t.templates, trimmed)
}

// Templates returns the tracked names in render order. It is never nil.
func (t *TemplateTracker) Templates() []string {
	if t == nil {
		return []string{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.templates...)
}
