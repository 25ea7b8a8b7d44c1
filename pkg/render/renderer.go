package render

import (
	"context"
)

// Renderer converts a Panel into a byte representation (JSON, HTML).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, panel Panel, options RenderOptions) ([]byte, error)
}
