package htmlpanel

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-debugbar/pkg/widgets"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy
)

// sanitizeText strips every tag from a collected value and returns HTML-safe
// text.
func sanitizeText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy.Sanitize(raw)
}

// iconMarkup renders a widget icon. Inline SVG is sanitized; anything else is
// treated as a Font Awesome icon name.
func iconMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "<") {
		return strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
	}
	return `<i class="fa fa-` + html.EscapeString(trimmed) + `" aria-hidden="true"></i>`
}

// bootstrapWidgets copies table with inline SVG icons sanitized, so the JSON
// handed to the panel script carries the same markup the body does.
func bootstrapWidgets(table widgets.Table) widgets.Table {
	out := make(widgets.Table, len(table))
	for key, desc := range table {
		if icon := strings.TrimSpace(desc.Icon); strings.HasPrefix(icon, "<") {
			desc.Icon = strings.TrimSpace(iconSanitizer().Sanitize(icon))
		}
		out[key] = desc
	}
	return out
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("svg", "g", "path", "circle", "rect", "line", "polyline", "polygon", "title")

		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "aria-hidden", "role", "focusable", "class",
		).OnElements("svg")

		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "fill", "stroke", "stroke-width", "class",
			).OnElements(el)
		}
		policy.AllowAttrs("class").OnElements("g")

		iconPolicy = policy
	})
	return iconPolicy
}
