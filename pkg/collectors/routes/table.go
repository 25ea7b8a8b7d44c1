package routes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Route is one documented operation.
type Route struct {
	OperationID  string   `json:"operation_id"`
	Method       string   `json:"method"`
	PathTemplate string   `json:"path_template"`
	Summary      string   `json:"summary,omitempty"`
	Tags         []string `json:"tags,omitempty"`

	segments []string
	params   int
}

// Table indexes the operations of an OpenAPI document for request matching.
type Table struct {
	title   string
	version string
	routes  []Route
}

// Load parses an OpenAPI document (JSON or YAML).
func Load(ctx context.Context, raw []byte) (*Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(raw) == 0 {
		return nil, errors.New("routes: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("routes: load document: %w", err)
	}
	return newTable(doc), nil
}

// LoadFile reads and parses the document at path.
func LoadFile(ctx context.Context, path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("routes: read %s: %w", path, err)
	}
	return Load(ctx, raw)
}

// LoadFS reads and parses name from fsys.
func LoadFS(ctx context.Context, fsys fs.FS, name string) (*Table, error) {
	if fsys == nil {
		return nil, errors.New("routes: filesystem is not configured")
	}
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("routes: read %s: %w", name, err)
	}
	return Load(ctx, raw)
}

func newTable(doc *openapi3.T) *Table {
	table := &Table{}
	if doc.Info != nil {
		table.title = doc.Info.Title
		table.version = doc.Info.Version
	}
	if doc.Paths == nil {
		return table
	}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			table.routes = append(table.routes, newRoute(method, path, op))
		}
	}
	// Literal routes win over templated ones of the same shape.
	sort.Slice(table.routes, func(i, j int) bool {
		a, b := table.routes[i], table.routes[j]
		if a.params != b.params {
			return a.params < b.params
		}
		if a.PathTemplate != b.PathTemplate {
			return a.PathTemplate < b.PathTemplate
		}
		return a.Method < b.Method
	})
	return table
}

func newRoute(method, path string, op *openapi3.Operation) Route {
	method = strings.ToUpper(method)
	id := op.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	segments := splitPath(path)
	params := 0
	for _, segment := range segments {
		if isParam(segment) {
			params++
		}
	}
	return Route{
		OperationID:  id,
		Method:       method,
		PathTemplate: path,
		Summary:      op.Summary,
		Tags:         append([]string(nil), op.Tags...),
		segments:     segments,
		params:       params,
	}
}

// Len reports the number of documented operations.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.routes)
}

// Routes returns the documented operations, literal paths first.
func (t *Table) Routes() []Route {
	if t == nil {
		return []Route{}
	}
	return append([]Route{}, t.routes...)
}

// Match finds the operation documented for method and a concrete path.
func (t *Table) Match(method, path string) (Route, bool) {
	if t == nil {
		return Route{}, false
	}
	method = strings.ToUpper(method)
	segments := splitPath(path)
	for _, route := range t.routes {
		if route.Method != method || len(route.segments) != len(segments) {
			continue
		}
		if matchSegments(route.segments, segments) {
			return route, true
		}
	}
	return Route{}, false
}

func matchSegments(template, actual []string) bool {
	for i, segment := range template {
		if isParam(segment) {
			if actual[i] == "" {
				return false
			}
			continue
		}
		if segment != actual[i] {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func isParam(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}
