package debugbar

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/renderers/htmlpanel"
	"github.com/goliatone/go-debugbar/pkg/renderers/jsonpanel"
	"github.com/goliatone/go-debugbar/pkg/toolbar"
)

func TestAssetsFSContainsCoreBundle(t *testing.T) {
	for _, name := range []string{"debugbar.js", "debugbar.css"} {
		if _, err := fs.ReadFile(AssetsFS(), name); err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
	}
	data, err := fs.ReadFile(AssetsFS(), "debugbar.js")
	if err != nil {
		t.Fatalf("read core script: %v", err)
	}
	if !strings.Contains(string(data), "VariableListWidget") {
		t.Fatalf("core script should define the built-in widgets")
	}
}

func TestNewRegistersBuiltInCollectors(t *testing.T) {
	table, err := LoadRoutes(context.Background(), filepath.Join("pkg", "collectors", "routes", "testdata", "pages.yaml"))
	if err != nil {
		t.Fatalf("load routes: %v", err)
	}

	bar, err := New(Config{Routes: table})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	want := []string{"framework", "memory", "messages", "route", "time"}
	if diff := cmp.Diff(want, bar.Collectors()); diff != "" {
		t.Fatalf("collectors mismatch (-want +got):\n%s", diff)
	}

	bar, err = New(Config{DisableMessages: true, DisableTimeline: true, DisableMemory: true})
	if err != nil {
		t.Fatalf("new minimal: %v", err)
	}
	if diff := cmp.Diff([]string{"framework"}, bar.Collectors()); diff != "" {
		t.Fatalf("collectors mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderPanel(t *testing.T) {
	bar, err := New(Config{}, toolbar.WithIDGenerator(func() string { return "req-9" }))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	renderers, err := NewRenderers()
	if err != nil {
		t.Fatalf("renderers: %v", err)
	}
	if diff := cmp.Diff([]string{htmlpanel.Name, jsonpanel.Name}, renderers.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}

	scope := &host.Scope{Request: host.NewStaticRequest("GET", "/", nil, nil)}
	snap, err := bar.Collect(context.Background(), scope)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	out, err := RenderPanel(context.Background(), renderers, htmlpanel.Name, bar, snap, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `data-debugbar-id="req-9"`) {
		t.Fatalf("expected panel for req-9, got %s", out)
	}
	if !strings.Contains(string(out), "Not logged in") {
		t.Fatalf("expected anonymous user indicator")
	}

	if _, err := RenderPanel(context.Background(), renderers, "pdf", bar, snap, RenderOptions{}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}
