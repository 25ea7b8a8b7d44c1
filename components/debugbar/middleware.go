package debugbar

import (
	"context"
	"net/http"
	"time"

	"github.com/goliatone/go-debugbar/pkg/collectors/messages"
	"github.com/goliatone/go-debugbar/pkg/collectors/timeline"
	"github.com/goliatone/go-debugbar/pkg/host"
)

// Middleware collects a snapshot for every request next handles. The
// snapshot identifier is sent in the X-Debugbar-Id header before next runs.
// Requests for the component's own routes, and requests the guard rejects,
// pass through untouched. Wildcards matched by an http.ServeMux wrapped
// directly by the middleware become route parameters unless the handler set
// its own through host.Scope.SetRouteParams.
func (c *Component) Middleware(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil || c.owns(r.URL.Path) || c.allowed(r) != nil {
			next.ServeHTTP(w, r)
			return
		}

		scope := c.scope(r)
		scope.ID = c.bar.NewID()

		ctx := host.WithScope(r.Context(), scope)
		ctx = messages.WithRecorder(ctx, messages.NewRecorder(c.opts.MessageLimit))
		ctx = timeline.WithTimeline(ctx, timeline.NewTimeline(scope.StartedAt, nil))

		w.Header().Set(HeaderID, scope.ID)
		inner := r.WithContext(ctx)
		next.ServeHTTP(w, inner)

		if len(scope.Request.RouteParams()) == 0 {
			if params := host.PathParams(inner); len(params) > 0 {
				scope.SetRouteParams(params)
			}
		}

		// The client may have gone away; the snapshot is still wanted.
		if _, err := c.bar.Collect(context.WithoutCancel(ctx), scope); err != nil {
			c.logger.Error("failed to collect debug snapshot", "id", scope.ID, "path", r.URL.Path, "error", err)
		}
	})
}

func (c *Component) scope(r *http.Request) *host.Scope {
	var scope *host.Scope
	if c.opts.ScopeFunc != nil {
		scope = c.opts.ScopeFunc(r)
	}
	if scope == nil {
		scope = &host.Scope{}
	}
	if scope.Request == nil {
		scope.Request = host.NewRequest(r, nil)
	}
	if scope.Requirements == nil {
		scope.Requirements = host.NewRequirements()
	}
	if scope.Templates == nil {
		scope.Templates = host.NewTemplateTracker()
	}
	if scope.StartedAt.IsZero() {
		scope.StartedAt = time.Now()
	}
	return scope
}
