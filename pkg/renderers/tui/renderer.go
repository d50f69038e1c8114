package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

// Renderer implements render.Renderer for terminals and drives interactive
// prompt sessions against a controller (see Run).
type Renderer struct {
	driver      PromptDriver
	theme       Theme
	styles      Styles
	maxAttempts int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, default styles).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver: newSurveyDriver(),
		theme:  DefaultTheme,
		styles: DefaultStyles(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render prints the form as styled terminal text: the header, every field
// with its value or placeholder and error, the checklist and the submit
// button. A succeeded snapshot prints the confirmation banner instead of the
// form.
func (r *Renderer) Render(ctx context.Context, snapshot model.Snapshot, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view := render.BuildView(snapshot, opts)
	var b strings.Builder
	b.WriteString(r.header(view))
	b.WriteString("\n\n")

	if view.Succeeded {
		b.WriteString(r.successBanner(view))
		b.WriteString("\n")
		return []byte(b.String()), nil
	}

	for _, msg := range view.FormErrors {
		b.WriteString(r.styles.Error.Render(r.theme.ErrorPrefix + msg))
		b.WriteString("\n")
	}
	for _, field := range view.Fields {
		b.WriteString(r.styles.Label.Render(field.Label))
		b.WriteString(": ")
		if field.Value == "" {
			b.WriteString(r.styles.Muted.Render(field.Placeholder))
		} else {
			b.WriteString(field.Value)
		}
		b.WriteString("\n")
		if field.Error != "" {
			b.WriteString("  ")
			b.WriteString(r.styles.Error.Render(r.theme.ErrorPrefix + field.Error))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(r.checklist(view))
	b.WriteString("\n")

	button := r.styles.Disabled
	if view.Submittable {
		button = r.styles.Button
	}
	b.WriteString(button.Render(view.Copy.SubmitLabel))
	b.WriteString("\n")
	return []byte(b.String()), nil
}

func (r *Renderer) header(view render.View) string {
	out := r.styles.Title.Render(view.Copy.Title)
	if view.Copy.Subtitle != "" {
		out += "\n" + r.styles.Subtitle.Render(view.Copy.Subtitle)
	}
	return out
}

func (r *Renderer) checklist(view render.View) string {
	var b strings.Builder
	b.WriteString(r.styles.Label.Render(view.Copy.RequirementsHeading))
	b.WriteString("\n")
	for _, check := range view.Checks {
		style := r.styles.Muted
		if check.Met {
			style = r.styles.Met
		}
		b.WriteString("  ")
		b.WriteString(style.Render(check.Mark + " " + check.Label))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) successBanner(view render.View) string {
	return r.styles.Success.Render(view.Copy.SuccessHeading + "\n" + view.Copy.SuccessBody)
}
