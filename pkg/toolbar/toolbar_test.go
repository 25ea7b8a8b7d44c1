package toolbar

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/collector"
	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/snapshot"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

type panelCollector struct {
	name string
	data collector.Data
	err  error
}

func (c panelCollector) Name() string { return c.name }

func (c panelCollector) Collect(context.Context, *host.Scope) (collector.Data, error) {
	return c.data, c.err
}

func (c panelCollector) Widgets() widgets.Table {
	return widgets.Table{
		"count":       widgets.Text("bolt", "Queries"),
		"count:badge": widgets.Badge(widgets.Path(c.name, "count")),
	}
}

func (c panelCollector) Assets() assets.Descriptor {
	return assets.Descriptor{BasePath: "collectors/" + c.name, BaseURL: "collectors/" + c.name, JS: c.name + ".js"}
}

func (c panelCollector) WidgetKinds() map[widgets.Kind]string {
	return map[widgets.Kind]string{"queries": "DebugBar.Widgets.QueriesWidget"}
}

type failingStore struct{ snapshot.Store }

func (failingStore) Save(context.Context, snapshot.Snapshot) error {
	return errors.New("disk full")
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("CEST", 2*60*60))
}

func fixedID() string { return "req-1" }

func TestCollect_DegradesFailingCollectors(t *testing.T) {
	var logs bytes.Buffer
	store := snapshot.NewMemoryStore(0)
	bar := New(
		WithStore(store),
		WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
		WithClock(fixedClock),
		WithIDGenerator(fixedID),
	)
	bar.MustAddCollector(panelCollector{name: "db", data: collector.Data{"count": 3}})
	bar.MustAddCollector(panelCollector{name: "broken", err: errors.New("boom")})
	bar.MustAddCollector(collector.NewFunc("nil", func(context.Context, *host.Scope) (collector.Data, error) {
		return nil, nil
	}))

	req := host.NewStaticRequest("post", "/pages", nil, nil)
	req.RemoteIP = "10.0.0.1"
	snap, err := bar.Collect(context.Background(), &host.Scope{Request: req})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	wantData := map[string]map[string]any{
		"broken": {},
		"db":     {"count": 3},
		"nil":    {},
	}
	if diff := cmp.Diff(wantData, snap.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	wantMeta := snapshot.Meta{ID: "req-1", Datetime: fixedClock().UTC(), Method: "POST", URI: "/pages", IP: "10.0.0.1"}
	if diff := cmp.Diff(wantMeta, snap.Meta); diff != "" {
		t.Fatalf("meta mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), `"collector":"broken"`) {
		t.Fatalf("expected failing collector to be logged, got %s", logs.String())
	}

	stored, err := bar.Open(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if stored.Data["db"]["count"] != 3 {
		t.Fatalf("unexpected stored snapshot %#v", stored)
	}
}

func TestCollect_ScopeStartAndStoreFailure(t *testing.T) {
	bar := New(WithStore(failingStore{}), WithIDGenerator(fixedID))
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	snap, err := bar.Collect(context.Background(), &host.Scope{StartedAt: started})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if snap.ID != "req-1" || !snap.Meta.Datetime.Equal(started) {
		t.Fatalf("snapshot should still be returned, got %#v", snap)
	}
}

func TestOpen_WithoutStore(t *testing.T) {
	if _, err := New().Open(context.Background(), "x"); err == nil {
		t.Fatalf("expected error without a store")
	}
}

func TestCollector_LookupAndDuplicates(t *testing.T) {
	bar := New()
	bar.MustAddCollector(panelCollector{name: "db"})

	if err := bar.AddCollector(panelCollector{name: "db"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := bar.Collector("missing"); !errors.Is(err, collector.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := bar.WidgetConstructors()["queries"]; got != "DebugBar.Widgets.QueriesWidget" {
		t.Fatalf("collector widget kind not registered, got %q", got)
	}
}

func TestWidgets_PrefixedWithOverrides(t *testing.T) {
	overrides, err := widgets.LoadOverridesFS(fstest.MapFS{
		"widgets.yaml": {Data: []byte("collectors:\n  db:\n    count:\n      icon: database\n")},
	})
	if err != nil {
		t.Fatalf("load overrides: %v", err)
	}
	bar := New(WithWidgetOverrides(overrides))
	bar.MustAddCollector(panelCollector{name: "db"})
	bar.MustAddCollector(collector.NewFunc("plain", nil))

	table := bar.Widgets()
	if diff := cmp.Diff([]string{"db.count", "db.count:badge"}, table.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if table["db.count"].Icon != "database" || table["db.count"].Tooltip != "Queries" {
		t.Fatalf("override not applied: %#v", table["db.count"])
	}
}

func TestAssets_ResolvedAndVerified(t *testing.T) {
	bar := New(WithAssetBaseURL("/_debugbar/assets/"))
	bar.MustAddCollector(panelCollector{name: "db"})

	got := bar.Assets()
	if len(got) != 1 || got[0].BaseURL != "/_debugbar/assets/collectors/db" {
		t.Fatalf("unexpected assets %#v", got)
	}

	present := fstest.MapFS{"collectors/db/db.js": {Data: []byte("//")}}
	if err := bar.VerifyAssets(present); err != nil {
		t.Fatalf("verify assets: %v", err)
	}
	if err := bar.VerifyAssets(fstest.MapFS{}); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected missing asset error, got %v", err)
	}
}

func TestCollect_UsesScopeID(t *testing.T) {
	store := snapshot.NewMemoryStore(0)
	bar := New(WithStore(store), WithIDGenerator(fixedID))

	snap, err := bar.Collect(context.Background(), &host.Scope{ID: "announced"})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if snap.ID != "announced" || snap.Meta.ID != "announced" {
		t.Fatalf("expected scope id to be used, got %#v", snap.Meta)
	}
	metas, err := bar.Find(context.Background(), snapshot.Filter{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(metas) != 1 || metas[0].ID != "announced" {
		t.Fatalf("unexpected metas %#v", metas)
	}
	if bar.NewID() != "req-1" {
		t.Fatalf("NewID should use the id generator")
	}
}
