package host

import (
	"context"
	"time"
)

// Scope bundles the host collaborators for a single request.
type Scope struct {
	Request      Request
	Session      SessionStore
	Users        UserProvider
	Config       ConfigProvider
	Requirements *Requirements
	Templates    *TemplateTracker
	Locale       LocaleProvider
	Authorizer   Authorizer

	// StartedAt is when the host began handling the request.
	StartedAt time.Time
	// ID is the snapshot identifier. Empty lets the debug bar assign one.
	ID string
}

type scopeKey struct{}

// WithScope stores scope on ctx so handlers further down the chain can reach
// the request's requirements and template tracker.
func WithScope(ctx context.Context, scope *Scope) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext returns the scope stored by WithScope.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	if ctx == nil {
		return nil, false
	}
	scope, ok := ctx.Value(scopeKey{}).(*Scope)
	return scope, ok && scope != nil
}

// CurrentUser resolves the authenticated user, if any.
func (s *Scope) CurrentUser(ctx context.Context) (User, bool) {
	if s == nil || s.Users == nil {
		return User{}, false
	}
	return s.Users.CurrentUser(ctx)
}

// LocaleOr returns the active locale or fallback when none is available.
func (s *Scope) LocaleOr(ctx context.Context, fallback string) string {
	if s == nil || s.Locale == nil {
		return fallback
	}
	if locale := s.Locale.Locale(ctx); locale != "" {
		return locale
	}
	return fallback
}

// Allowed reports whether the current user holds permission. Without an
// authorizer every permission is granted; access policy belongs to the host.
func (s *Scope) Allowed(ctx context.Context, permission string) bool {
	if s == nil || s.Authorizer == nil {
		return true
	}
	user, _ := s.CurrentUser(ctx)
	return s.Authorizer.Allow(ctx, user, permission)
}

// SetRouteParams records parameters the host router matched after the scope
// was built. It reports false when the request cannot accept them.
func (s *Scope) SetRouteParams(params map[string]string) bool {
	if s == nil {
		return false
	}
	setter, ok := s.Request.(RouteSetter)
	if !ok {
		return false
	}
	values := make(map[string]any, len(params))
	for key, value := range params {
		values[key] = value
	}
	setter.SetRouteParams(values)
	return true
}
