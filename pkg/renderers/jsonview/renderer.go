// Package jsonview renders the form view as JSON for API clients and the
// live update stream.
package jsonview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

type Option func(*Renderer)

// WithIndent pretty prints the output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// WithSnapshot includes the raw controller snapshot next to the view.
func WithSnapshot(enabled bool) Option {
	return func(r *Renderer) {
		r.snapshot = enabled
	}
}

// Renderer encodes render.View values.
type Renderer struct {
	indent   string
	snapshot bool
}

var _ render.Renderer = (*Renderer)(nil)

// Document is the JSON payload produced by the renderer.
type Document struct {
	render.View
	Snapshot *model.Snapshot `json:"snapshot,omitempty"`
}

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(ctx context.Context, snapshot model.Snapshot, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := Document{View: render.BuildView(snapshot, options)}
	if r.snapshot {
		snap := snapshot
		doc.Snapshot = &snap
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("jsonview: encode view: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
