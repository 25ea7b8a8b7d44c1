// Package htmlpanel renders a panel as an HTML fragment that can be appended
// to a page or served on its own.
package htmlpanel

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-debugbar/pkg/render"
	rendertemplate "github.com/goliatone/go-debugbar/pkg/render/template"
	gotemplate "github.com/goliatone/go-debugbar/pkg/render/template/gotemplate"
)

// Name is the registry key of the HTML renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// PanelTemplate.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer over the embedded templates unless an
// option replaces them.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("htmlpanel: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, panel render.Panel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("htmlpanel: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view, err := buildView(render.ApplySubset(panel, options.Collectors), options)
	if err != nil {
		return nil, err
	}
	result, err := r.templates.RenderTemplate(PanelTemplate, view)
	if err != nil {
		return nil, fmt.Errorf("htmlpanel: render template: %w", err)
	}
	return []byte(result), nil
}
