package widgets

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		kind   Kind
		expect string
	}{
		{name: "text", kind: KindText, expect: "DebugBar.Widgets.TextWidget"},
		{name: "variable list", kind: KindVariableList, expect: "DebugBar.Widgets.VariableListWidget"},
		{name: "list", kind: KindList, expect: "DebugBar.Widgets.ListWidget"},
		{name: "badge", kind: KindBadge, expect: "DebugBar.Widgets.BadgeWidget"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := reg.Resolve(tc.kind)
			if !ok {
				t.Fatalf("expected resolution for %s", tc.name)
			}
			if got != tc.expect {
				t.Fatalf("resolve %s: want %q, got %q", tc.name, tc.expect, got)
			}
		})
	}
}

func TestRegister_ReplacesBuiltin(t *testing.T) {
	reg := NewRegistry()
	reg.Register(KindList, "App.Widgets.FancyList")
	reg.Register("", "ignored")
	reg.Register("timeline", "  ")

	got, ok := reg.Resolve(KindList)
	if !ok || got != "App.Widgets.FancyList" {
		t.Fatalf("expected replacement constructor, got %q (ok=%v)", got, ok)
	}
	if _, ok := reg.Resolve("timeline"); ok {
		t.Fatalf("blank constructor should not register")
	}
	if diff := cmp.Diff([]Kind{KindBadge, KindList, KindText, KindVariableList}, reg.Kinds()); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestTable_PrefixedAndNames(t *testing.T) {
	table := Table{
		"session":         VariableList("archive", Path("framework", "session")),
		"templates:badge": Badge(Path("framework", "templates", "count")),
	}

	prefixed := table.Prefixed("framework")
	if diff := cmp.Diff([]string{"framework.session", "framework.templates:badge"}, prefixed.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if prefixed["framework.session"].Map != "framework.session" {
		t.Fatalf("unexpected map path %q", prefixed["framework.session"].Map)
	}
	if prefixed["framework.templates:badge"].Default != 0 {
		t.Fatalf("badge default should be 0, got %#v", prefixed["framework.templates:badge"].Default)
	}
}

func TestTable_WithoutTooltipsDoesNotMutate(t *testing.T) {
	table := Table{"user": Text("user", "Current member")}
	stripped := table.WithoutTooltips()

	if stripped["user"].Tooltip != "" {
		t.Fatalf("expected tooltip cleared, got %q", stripped["user"].Tooltip)
	}
	if table["user"].Tooltip != "Current member" {
		t.Fatalf("original table mutated")
	}
}

func TestLoadOverridesFS_AppliesYAMLAndJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"widgets/framework.yaml": {Data: []byte(`
collectors:
  framework:
    user:
      icon: id-card
    missing:
      icon: ignored
`)},
		"widgets/memory.json": {Data: []byte(`{"collectors":{"memory":{"memory":{"tooltip":"Heap"}}}}`)},
		"widgets/README.md":   {Data: []byte("not an override")},
	}

	overrides, err := LoadOverridesFS(fsys)
	if err != nil {
		t.Fatalf("load overrides: %v", err)
	}

	framework := overrides.Apply("framework", Table{"user": Text("user", "Current member")})
	want := Table{"user": Text("id-card", "Current member")}
	if diff := cmp.Diff(want, framework); diff != "" {
		t.Fatalf("framework overrides mismatch (-want +got):\n%s", diff)
	}

	memory := overrides.Apply("memory", Table{"memory": Text("cogs", "")})
	if memory["memory"].Tooltip != "Heap" {
		t.Fatalf("expected JSON override applied, got %q", memory["memory"].Tooltip)
	}
}

func TestLoadOverridesFS_RejectsEmptyFile(t *testing.T) {
	fsys := fstest.MapFS{"empty.yaml": {Data: []byte("   ")}}
	if _, err := LoadOverridesFS(fsys); err == nil {
		t.Fatalf("expected error for empty override file")
	}
}

func TestLoadOverridesFS_NilFS(t *testing.T) {
	overrides, err := LoadOverridesFS(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !overrides.Empty() {
		t.Fatalf("expected empty overrides")
	}
}
