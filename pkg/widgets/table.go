package widgets

import (
	"sort"
	"strings"
)

// BadgeSuffix marks table entries that decorate another entry's tab with a
// counter instead of rendering their own panel.
const BadgeSuffix = ":badge"

// Descriptor is the static display metadata for one collected field.
type Descriptor struct {
	Icon    string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Tooltip string `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Widget  Kind   `json:"widget,omitempty" yaml:"widget,omitempty"`
	Map     string `json:"map,omitempty" yaml:"map,omitempty"`
	Default any    `json:"default" yaml:"default"`
}

// Table maps display names to descriptors for a single collector.
type Table map[string]Descriptor

// Text describes an indicator rendered straight into the bar.
func Text(icon, tooltip string) Descriptor {
	return Descriptor{Icon: icon, Tooltip: tooltip, Widget: KindText, Default: ""}
}

// VariableList describes a key/value panel bound to path.
func VariableList(icon, path string) Descriptor {
	return Descriptor{Icon: icon, Widget: KindVariableList, Map: path, Default: "{}"}
}

// List describes a flat list panel bound to path.
func List(icon, path string) Descriptor {
	return Descriptor{Icon: icon, Widget: KindList, Map: path, Default: "{}"}
}

// Badge describes a counter bound to path.
func Badge(path string) Descriptor {
	return Descriptor{Widget: KindBadge, Map: path, Default: 0}
}

// Path joins a collector name and a field path into the dotted data path the
// panel resolves against a snapshot.
func Path(collector string, segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	if trimmed := strings.TrimSpace(collector); trimmed != "" {
		parts = append(parts, trimmed)
	}
	for _, segment := range segments {
		if trimmed := strings.TrimSpace(segment); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ".")
}

// Clone returns a shallow copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return Table{}
	}
	out := make(Table, len(t))
	for name, desc := range t {
		out[name] = desc
	}
	return out
}

// Names returns the table entry names in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Prefixed returns a copy of the table whose keys are namespaced by the
// collector name, suitable for merging several collectors into one panel.
func (t Table) Prefixed(collector string) Table {
	out := make(Table, len(t))
	for name, desc := range t {
		out[Path(collector, name)] = desc
	}
	return out
}

// Merge copies entries from other into t, replacing entries with the same
// name. A nil receiver is not allowed; use Clone first.
func (t Table) Merge(other Table) {
	for name, desc := range other {
		t[name] = desc
	}
}

// WithoutTooltips returns a copy with every tooltip cleared. Tooltips are the
// only per-collection values in an otherwise static table.
func (t Table) WithoutTooltips() Table {
	out := t.Clone()
	for name, desc := range out {
		desc.Tooltip = ""
		out[name] = desc
	}
	return out
}
