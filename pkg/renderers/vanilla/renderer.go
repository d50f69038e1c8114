package vanilla

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	rendertemplate "github.com/goliatone/go-contactform/pkg/render/template"
	"github.com/goliatone/go-contactform/pkg/render/template/pongo"
)

const (
	formTemplate = "templates/form.tmpl"
	pageTemplate = "templates/page.tmpl"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	inlineStyles     bool
	stylesheets      []string
	script           string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir layers a directory on disk over the template bundle.
// Files found there replace the bundled ones of the same name.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(path)
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

// WithTheme applies theme metadata and CSS variables to the form root.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithInlineStyles toggles embedding the bundled stylesheet in full pages.
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// WithStylesheets links external stylesheets from full pages.
func WithStylesheets(hrefs ...string) Option {
	return func(cfg *config) {
		for _, href := range hrefs {
			if href = strings.TrimSpace(href); href != "" {
				cfg.stylesheets = append(cfg.stylesheets, href)
			}
		}
	}
}

// WithRuntimeScript sets the script URL full pages load for live
// validation. An empty value disables it.
func WithRuntimeScript(src string) Option {
	return func(cfg *config) {
		cfg.script = strings.TrimSpace(src)
	}
}

type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	theme        themeContext
	inlineStyles string
	stylesheets  []string
	script       string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), inlineStyles: true}
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
		engine, err := pongo.New(
			pongo.WithDir(cfg.templateDir),
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates:   renderer,
		theme:       buildThemeContext(cfg.theme),
		stylesheets: cfg.stylesheets,
		script:      cfg.script,
	}
	if cfg.inlineStyles {
		r.inlineStyles = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the form, or the success banner while the snapshot is in the
// succeeded state. Unless options.Fragment is set the markup is wrapped in a
// full HTML document.
func (r *Renderer) Render(ctx context.Context, snapshot model.Snapshot, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view := render.BuildView(snapshot, options)
	view.Copy = sanitizeCopy(view.Copy)

	body, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"view":  view,
		"theme": r.theme,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render form: %w", err)
	}
	if options.Fragment {
		return []byte(body), nil
	}

	page, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"lang":         pageLang(options.Locale),
		"title":        plainText(view.Copy.Title),
		"body":         body,
		"inlineStyles": r.inlineStyles,
		"stylesheets":  r.stylesheets,
		"script":       r.script,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(page), nil
}

func pageLang(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return render.DefaultLocale
	}
	return locale
}

func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(bluemonday.StrictPolicy().Sanitize(s)))
}
