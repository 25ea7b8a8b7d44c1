package host

// Parameter sources used as key prefixes in request snapshots.
const (
	SourceGet   = "GET"
	SourcePost  = "POST"
	SourceRoute = "ROUTE"
)

// RequestParameters flattens GET, POST and route parameters into a single
// map keyed "<SOURCE> - <name>". A nil request yields an empty map.
func RequestParameters(req Request) map[string]any {
	out := map[string]any{}
	if req == nil {
		return out
	}
	addParameters(out, SourceGet, req.Query())
	addParameters(out, SourcePost, req.Form())
	addParameters(out, SourceRoute, req.RouteParams())
	return out
}

// SessionData returns a copy of every session value. A nil session yields an
// empty map.
func SessionData(session SessionStore) map[string]any {
	out := map[string]any{}
	if session == nil {
		return out
	}
	for key, value := range session.All() {
		out[key] = value
	}
	return out
}

// CookieData returns the request cookies as a display map.
func CookieData(req Request) map[string]any {
	out := map[string]any{}
	if req == nil {
		return out
	}
	for name, value := range req.Cookies() {
		out[name] = value
	}
	return out
}

func addParameters(out map[string]any, source string, params map[string]any) {
	for name, value := range params {
		out[source+" - "+name] = value
	}
}
