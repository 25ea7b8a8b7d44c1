package routes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-debugbar/pkg/host"
)

func loadPages(t *testing.T) *Table {
	t.Helper()
	table, err := LoadFile(context.Background(), filepath.Join("testdata", "pages.yaml"))
	if err != nil {
		t.Fatalf("load table: %v", err)
	}
	return table
}

func TestTable_Match(t *testing.T) {
	table := loadPages(t)
	if table.Len() != 4 {
		t.Fatalf("expected 4 operations, got %d", table.Len())
	}

	tests := []struct {
		name   string
		method string
		path   string
		want   string
		ok     bool
	}{
		{name: "literal", method: "GET", path: "/pages", want: "listPages", ok: true},
		{name: "method", method: "post", path: "/pages/", want: "createPage", ok: true},
		{name: "template", method: "GET", path: "/pages/42", want: "getPage", ok: true},
		{name: "literal beats template", method: "GET", path: "/pages/drafts", want: "get:/pages/drafts", ok: true},
		{name: "unknown method", method: "DELETE", path: "/pages/42"},
		{name: "too deep", method: "GET", path: "/pages/42/blocks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, ok := table.Match(tt.method, tt.path)
			if ok != tt.ok {
				t.Fatalf("match ok = %v, want %v", ok, tt.ok)
			}
			if route.OperationID != tt.want {
				t.Fatalf("operation = %q, want %q", route.OperationID, tt.want)
			}
		})
	}
}

func TestLoadFS(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "pages.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	fsys := fstest.MapFS{"openapi.yaml": {Data: raw}}

	table, err := LoadFS(context.Background(), fsys, "openapi.yaml")
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if table.Len() != 4 {
		t.Fatalf("expected 4 operations, got %d", table.Len())
	}
	if _, err := LoadFS(context.Background(), fsys, "missing.yaml"); err == nil {
		t.Fatalf("expected error for missing document")
	}
	if _, err := Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestCollector_ReportsMatchedOperation(t *testing.T) {
	scope := &host.Scope{Request: host.NewStaticRequest("get", "/pages/7", nil, nil)}

	data, err := New(loadPages(t)).Collect(context.Background(), scope)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := map[string]any{
		"operation_id":  "getPage",
		"method":        "GET",
		"path_template": "/pages/{id}",
		"summary":       "Fetch a page",
		"tags":          []string{"pages"},
		"operations":    4,
		"title":         "Pages API",
		"version":       "1.2.0",
	}
	if diff := cmp.Diff(want, map[string]any(data)); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestCollector_WithoutDocumentOrMatch(t *testing.T) {
	scope := &host.Scope{Request: host.NewStaticRequest("GET", "/nowhere", nil, nil)}

	for name, c := range map[string]*Collector{"no document": New(nil), "no match": New(loadPages(t))} {
		t.Run(name, func(t *testing.T) {
			data, err := c.Collect(context.Background(), scope)
			if err != nil {
				t.Fatalf("collect should not fail: %v", err)
			}
			if data["operation_id"] != "" || data["path_template"] != "" {
				t.Fatalf("expected empty match, got %#v", data)
			}
			for _, key := range []string{"title", "version", "summary", "tags", "operations"} {
				if _, ok := data[key]; !ok {
					t.Fatalf("expected %q key, got %#v", key, data)
				}
			}
		})
	}
}
