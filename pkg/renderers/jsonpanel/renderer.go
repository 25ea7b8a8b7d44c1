// Package jsonpanel renders a panel as the JSON document the browser bar
// loads through the open handler.
package jsonpanel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/render"
	"github.com/goliatone/go-debugbar/pkg/snapshot"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// Name is the registry key of the JSON renderer.
const Name = "json"

// Document is the wire shape of a rendered panel.
type Document struct {
	ID           string                    `json:"id"`
	Meta         snapshot.Meta             `json:"meta"`
	Data         map[string]map[string]any `json:"data"`
	Widgets      widgets.Table             `json:"widgets"`
	Constructors map[string]string         `json:"constructors"`
	Assets       []assets.Descriptor       `json:"assets"`
}

// Renderer encodes panels as JSON documents.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent pretty prints the output using indent per level.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// New returns a JSON renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) ContentType() string { return "application/json" }

func (r *Renderer) Render(ctx context.Context, panel render.Panel, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	panel = render.ApplySubset(panel, options.Collectors)
	doc := NewDocument(panel)

	var (
		payload []byte
		err     error
	)
	if r.indent != "" {
		payload, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		payload, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonpanel: encode panel %s: %w", doc.ID, err)
	}
	return payload, nil
}

// NewDocument converts a panel into its wire shape. Nil collections are
// emitted as empty objects and arrays.
func NewDocument(panel render.Panel) Document {
	doc := Document{
		ID:           panel.Snapshot.ID,
		Meta:         panel.Snapshot.Meta,
		Data:         panel.Snapshot.Data,
		Widgets:      panel.Widgets,
		Constructors: panel.Constructors,
		Assets:       panel.Assets,
	}
	if doc.Data == nil {
		doc.Data = map[string]map[string]any{}
	}
	if doc.Widgets == nil {
		doc.Widgets = widgets.Table{}
	}
	if doc.Constructors == nil {
		doc.Constructors = map[string]string{}
	}
	if doc.Assets == nil {
		doc.Assets = []assets.Descriptor{}
	}
	return doc
}
