package host

import (
	"bytes"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Request is the read-only view of the current HTTP request.
type Request interface {
	Method() string
	Path() string
	// Query returns GET parameters.
	Query() map[string]any
	// Form returns POST parameters.
	Form() map[string]any
	// RouteParams returns parameters extracted by the host router.
	RouteParams() map[string]any
	Cookies() map[string]string
	Header(name string) string
	// ClientIP returns the originating client address, if known.
	ClientIP() string
}

// StaticRequest is a Request built from literal values.
type StaticRequest struct {
	HTTPMethod string
	URLPath    string
	Get        map[string]any
	Post       map[string]any
	Route      map[string]any
	Cookie     map[string]string
	Headers    http.Header
	RemoteIP   string
}

// NewStaticRequest builds a request from literal parameter maps.
func NewStaticRequest(method, path string, get, post map[string]any) *StaticRequest {
	return &StaticRequest{
		HTTPMethod: strings.ToUpper(strings.TrimSpace(method)),
		URLPath:    path,
		Get:        get,
		Post:       post,
	}
}

// SetRouteParams replaces the route parameters.
func (r *StaticRequest) SetRouteParams(params map[string]any) {
	r.Route = params
}

func (r *StaticRequest) Method() string              { return r.HTTPMethod }
func (r *StaticRequest) Path() string                { return r.URLPath }
func (r *StaticRequest) Query() map[string]any       { return r.Get }
func (r *StaticRequest) Form() map[string]any        { return r.Post }
func (r *StaticRequest) RouteParams() map[string]any { return r.Route }
func (r *StaticRequest) Cookies() map[string]string  { return r.Cookie }
func (r *StaticRequest) ClientIP() string            { return r.RemoteIP }

func (r *StaticRequest) Header(name string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers.Get(name)
}

// RouteSetter is implemented by requests whose route parameters are only
// known after the host router has matched them.
type RouteSetter interface {
	SetRouteParams(params map[string]any)
}

// maxFormBody bounds the urlencoded body NewRequest buffers.
const maxFormBody = 10 << 20

type httpRequest struct {
	req   *http.Request
	form  url.Values
	mu    sync.RWMutex
	route map[string]any
}

// NewRequest adapts a net/http request. route carries parameters the host
// router extracted (for example from http.Request.PathValue).
//
// A urlencoded POST, PUT or PATCH body is read and parsed up front and
// req.Body is replaced with an equivalent reader, so handlers further down
// the chain still see the full body. Bodies over 10MB are left unparsed.
func NewRequest(req *http.Request, route map[string]string) Request {
	r := &httpRequest{req: req}
	r.setRoute(route)
	r.form = snapshotForm(req)
	return r
}

func snapshotForm(req *http.Request) url.Values {
	if req == nil {
		return nil
	}
	if req.PostForm != nil {
		return req.PostForm
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil
	}
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, maxFormBody+1))
	if err != nil || len(data) > maxFormBody {
		req.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(data), req.Body), Closer: req.Body}
		return nil
	}
	req.Body = readCloser{Reader: bytes.NewReader(data), Closer: req.Body}

	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil
	}
	return values
}

type readCloser struct {
	io.Reader
	io.Closer
}

func (r *httpRequest) Method() string {
	if r.req == nil {
		return ""
	}
	return r.req.Method
}

func (r *httpRequest) Path() string {
	if r.req == nil || r.req.URL == nil {
		return ""
	}
	return r.req.URL.Path
}

func (r *httpRequest) Query() map[string]any {
	if r.req == nil || r.req.URL == nil {
		return nil
	}
	return collapseValues(r.req.URL.Query())
}

func (r *httpRequest) Form() map[string]any {
	if r.form == nil {
		return nil
	}
	return collapseValues(r.form)
}

func (r *httpRequest) RouteParams() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.route
}

// SetRouteParams replaces the route parameters.
func (r *httpRequest) SetRouteParams(params map[string]any) {
	r.mu.Lock()
	r.route = params
	r.mu.Unlock()
}

func (r *httpRequest) setRoute(route map[string]string) {
	params := make(map[string]any, len(route))
	for key, value := range route {
		params[key] = value
	}
	r.SetRouteParams(params)
}

// PathParams returns the wildcard values http.ServeMux matched for req,
// keyed by wildcard name. It is empty when req was not routed by a pattern.
func PathParams(req *http.Request) map[string]string {
	if req == nil || req.Pattern == "" {
		return nil
	}
	var params map[string]string
	rest := req.Pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			break
		}
		name := strings.TrimSuffix(rest[open+1:open+closing], "...")
		rest = rest[open+closing+1:]
		if name == "" || name == "$" {
			continue
		}
		if params == nil {
			params = make(map[string]string)
		}
		params[name] = req.PathValue(name)
	}
	return params
}

func (r *httpRequest) Cookies() map[string]string {
	if r.req == nil {
		return nil
	}
	cookies := r.req.Cookies()
	out := make(map[string]string, len(cookies))
	for _, cookie := range cookies {
		out[cookie.Name] = cookie.Value
	}
	return out
}

func (r *httpRequest) Header(name string) string {
	if r.req == nil {
		return ""
	}
	return r.req.Header.Get(name)
}

func (r *httpRequest) ClientIP() string {
	if r.req == nil {
		return ""
	}
	if forwarded := r.req.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.req.RemoteAddr)
	if err != nil {
		return r.req.RemoteAddr
	}
	return host
}

// collapseValues keeps single values as strings and multi-valued keys as
// string slices, matching how the panel displays them.
func collapseValues(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
			out[key] = ""
		case 1:
			out[key] = vals[0]
		default:
			out[key] = append([]string(nil), vals...)
		}
	}
	return out
}
