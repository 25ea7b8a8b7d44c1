package widgets

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Override adjusts the presentation of a single table entry. Empty values
// leave the original descriptor untouched; data paths and widget kinds are
// intentionally not overridable.
type Override struct {
	Icon    string `json:"icon" yaml:"icon"`
	Tooltip string `json:"tooltip" yaml:"tooltip"`
}

// Overrides holds per-collector entry overrides keyed by collector name and
// then entry name.
type Overrides struct {
	collectors map[string]map[string]Override
}

type overridesFile struct {
	Collectors map[string]map[string]Override `json:"collectors" yaml:"collectors"`
}

// LoadOverridesFS walks fsys and parses every JSON/YAML override file. When
// fsys is nil or contains no override files the result is empty.
func LoadOverridesFS(fsys fs.FS) (*Overrides, error) {
	out := &Overrides{collectors: make(map[string]map[string]Override)}
	if fsys == nil {
		return out, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isOverrideFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("widgets: read %s: %w", path, err)
		}
		doc, err := parseOverrides(data, path)
		if err != nil {
			return err
		}

		for collector, entries := range doc.Collectors {
			name := strings.TrimSpace(collector)
			if name == "" {
				return fmt.Errorf("widgets: file %s defines an empty collector name", path)
			}
			target := out.collectors[name]
			if target == nil {
				target = make(map[string]Override, len(entries))
				out.collectors[name] = target
			}
			for entryName, override := range entries {
				target[strings.TrimSpace(entryName)] = override
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Empty reports whether no overrides were loaded.
func (o *Overrides) Empty() bool {
	return o == nil || len(o.collectors) == 0
}

// Apply returns a copy of table with the overrides for collector applied.
// Overrides naming entries the table does not define are ignored.
func (o *Overrides) Apply(collector string, table Table) Table {
	out := table.Clone()
	if o.Empty() {
		return out
	}
	entries := o.collectors[collector]
	for name, override := range entries {
		desc, ok := out[name]
		if !ok {
			continue
		}
		if icon := strings.TrimSpace(override.Icon); icon != "" {
			desc.Icon = icon
		}
		if tooltip := strings.TrimSpace(override.Tooltip); tooltip != "" {
			desc.Tooltip = tooltip
		}
		out[name] = desc
	}
	return out
}

func parseOverrides(data []byte, source string) (overridesFile, error) {
	var doc overridesFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return overridesFile{}, fmt.Errorf("widgets: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return overridesFile{}, fmt.Errorf("widgets: parse %s: invalid JSON or YAML", source)
}

func isOverrideFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
