package host

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"
)

// ClassNameKey is the snapshot key carrying the record's type identifier.
const ClassNameKey = "ClassName"

// ClassNamer lets a configuration record report its own type identifier.
type ClassNamer interface {
	ClassName() string
}

// SiteConfig is a ready-made configuration record for applications without
// their own settings type.
type SiteConfig struct {
	ID         int64          `json:"ID"`
	Created    time.Time      `json:"Created"`
	LastEdited time.Time      `json:"LastEdited"`
	Title      string         `json:"Title"`
	Tagline    string         `json:"Tagline"`
	Theme      string         `json:"Theme"`
	Extra      map[string]any `json:"Extra,omitempty"`
}

// ConfigSnapshot flattens record into a display map: the record is encoded to
// JSON, nested objects become dotted keys and ClassNameKey carries the record
// type. A nil record or one that cannot be encoded yields an empty map.
func ConfigSnapshot(record any) map[string]any {
	out := map[string]any{}
	if record == nil {
		return out
	}
	rv := reflect.ValueOf(record)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return out
	}

	decoded, err := jsonToAny(record)
	if err != nil {
		return out
	}
	if fields, ok := decoded.(map[string]any); ok {
		flattenInto(out, "", fields)
	}
	out[ClassNameKey] = className(record)
	return out
}

// Flatten collapses nested maps into a single level keyed by dotted paths.
// Slices and scalars are kept as values.
func Flatten(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	flattenInto(out, "", in)
	return out
}

func flattenInto(out map[string]any, prefix string, in map[string]any) {
	for key, value := range in {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok && len(nested) > 0 {
			flattenInto(out, path, nested)
			continue
		}
		out[path] = value
	}
}

func className(record any) string {
	if namer, ok := record.(ClassNamer); ok {
		if name := namer.ClassName(); name != "" {
			return name
		}
	}
	t := reflect.TypeOf(record)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// jsonToAny round-trips v through JSON, keeping numbers as json.Number so
// integer identifiers survive unchanged.
func jsonToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
