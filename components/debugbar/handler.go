package debugbar

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/render"
	"github.com/goliatone/go-debugbar/pkg/snapshot"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type findResponse struct {
	Data []snapshot.Meta `json:"data"`
}

type widgetsResponse struct {
	Widgets      widgets.Table       `json:"widgets"`
	Constructors map[string]string   `json:"constructors"`
	Assets       []assets.Descriptor `json:"assets"`
}

// Handler serves the component routes relative to the mount point: open,
// widgets, panel and assets/.
func (c *Component) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /open", c.handleOpen)
	mux.HandleFunc("GET /widgets", c.handleWidgets)
	mux.HandleFunc("GET /panel", c.handlePanel)
	mux.Handle("GET /assets/", http.StripPrefix("/assets", http.FileServerFS(c.assets)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if err := c.allowed(r); err != nil {
			writeGuardError(w, err)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// handleOpen returns the stored snapshot named by ?id=. Without an id it
// lists stored snapshots, newest first, filtered by method, uri, ip and max.
func (c *Component) handleOpen(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	id := strings.TrimSpace(query.Get("id"))
	if id == "" {
		filter := snapshot.Filter{
			Method: strings.ToUpper(query.Get("method")),
			URI:    query.Get("uri"),
			IP:     query.Get("ip"),
			Limit:  parseInt(query.Get("max")),
		}
		metas, err := c.bar.Find(r.Context(), filter)
		if err != nil {
			c.writeError(w, err)
			return
		}
		if metas == nil {
			metas = []snapshot.Meta{}
		}
		writeJSON(w, r, findResponse{Data: metas})
		return
	}

	snap, err := c.bar.Open(r.Context(), id)
	if err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, r, snap)
}

func (c *Component) handleWidgets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, widgetsResponse{
		Widgets:      c.bar.Widgets(),
		Constructors: c.bar.WidgetConstructors(),
		Assets:       c.bar.Assets(),
	})
}

// handlePanel renders the stored snapshot named by ?id=. The renderer comes
// from ?format= or the Accept header; ?collectors= limits the output.
func (c *Component) handlePanel(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	id := strings.TrimSpace(query.Get("id"))
	if id == "" {
		c.writeError(w, StatusError{Code: http.StatusBadRequest, Err: errors.New("debugbar: missing snapshot id")})
		return
	}

	renderer, err := c.negotiate(r)
	if err != nil {
		c.writeError(w, err)
		return
	}
	snap, err := c.bar.Open(r.Context(), id)
	if err != nil {
		c.writeError(w, err)
		return
	}

	options := c.opts.RenderOptions
	if options.AssetBaseURL == "" {
		options.AssetBaseURL = c.mount + "/assets"
	}
	if raw := query.Get("collectors"); raw != "" {
		options.Collectors = splitList(raw)
	}

	out, err := renderer.Render(r.Context(), render.NewPanel(c.bar, snap), options)
	if err != nil {
		c.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(out)
}

func (c *Component) negotiate(r *http.Request) (render.Renderer, error) {
	if format := strings.TrimSpace(r.URL.Query().Get("format")); format != "" {
		renderer, err := c.renderers.Get(format)
		if err != nil {
			return nil, StatusError{Code: http.StatusNotAcceptable, Err: err}
		}
		return renderer, nil
	}
	return c.renderers.Negotiate(c.opts.DefaultFormat, splitList(r.Header.Get("Accept"))...)
}

func (c *Component) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.StatusCode()
	case errors.Is(err, snapshot.ErrNotFound):
		code = http.StatusNotFound
	}
	if code >= http.StatusInternalServerError {
		c.logger.Error("debugbar request failed", "error", err)
	}
	http.Error(w, http.StatusText(code), code)
}

func writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
