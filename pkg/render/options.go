package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request choices that renderers apply without
// mutating the collected snapshot.
type RenderOptions struct {
	// Theme carries resolved tokens, CSS variables and asset URLs. Nil uses the
	// renderer's built-in look.
	Theme *theme.RendererConfig
	// Collectors restricts output to the named collectors. Empty renders all.
	Collectors []string
	// AssetBaseURL prefixes the core debug bar stylesheet and script.
	AssetBaseURL string
}
