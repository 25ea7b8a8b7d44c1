package template

import (
	"io"
)

// TemplateRenderer is the seam between panel renderers and a template
// engine. RenderTemplate loads a named template; RenderString parses content
// on the fly. Rendered output is returned and also written to every out.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
