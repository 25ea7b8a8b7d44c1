package htmlpanel

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// PanelTemplate is the template the renderer draws a panel with.
const PanelTemplate = "templates/panel.tpl"

// TemplatesFS exposes the embedded templates so callers can copy or extend
// them and pass the result back through WithTemplatesFS.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
