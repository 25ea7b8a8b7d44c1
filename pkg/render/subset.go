package render

import (
	"mime"
	"strings"

	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// ApplySubset removes the data and widgets of collectors not listed in names.
// When names is empty the panel is returned unchanged. Widget keys are
// matched on their "<collector>." prefix.
func ApplySubset(panel Panel, names []string) Panel {
	keep := normaliseTokens(names)
	if len(keep) == 0 {
		return panel
	}

	data := make(map[string]map[string]any, len(keep))
	for name, values := range panel.Snapshot.Data {
		if _, ok := keep[normaliseToken(name)]; ok {
			data[name] = values
		}
	}
	panel.Snapshot.Data = data

	filtered := widgets.Table{}
	for key, desc := range panel.Widgets {
		collector, _, found := strings.Cut(key, ".")
		if !found {
			continue
		}
		if _, ok := keep[normaliseToken(collector)]; ok {
			filtered[key] = desc
		}
	}
	panel.Widgets = filtered
	return panel
}

func normaliseTokens(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		if token := normaliseToken(value); token != "" {
			out[token] = struct{}{}
		}
	}
	return out
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func mediaType(contentType string) string {
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return normaliseToken(contentType)
	}
	return parsed
}
