package contactform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
)

// Controller aliases controller.Controller so callers can stay on the
// top-level import for the common case.
type Controller = controller.Controller

// Option configures a Controller.
type Option = controller.Option

// Snapshot is the read-only view of a form session handed to renderers.
type Snapshot = model.Snapshot

// RenderOptions describes per-request overrides such as locale, copy and
// hidden inputs.
type RenderOptions = render.RenderOptions

// NewController exposes the controller constructor from the top-level module.
func NewController(options ...Option) *Controller {
	return controller.New(options...)
}

// RenderHTML renders snapshot with the built-in HTML renderer. It is the
// simplest entry point for callers that just want markup.
func RenderHTML(ctx context.Context, snapshot Snapshot, opts RenderOptions, rendererOptions ...vanilla.Option) ([]byte, error) {
	renderer, err := vanilla.New(rendererOptions...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, snapshot, opts)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet and browser runtime served next to the form.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(contactform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
