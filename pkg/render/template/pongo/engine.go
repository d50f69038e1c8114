package pongo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-contactform/pkg/render/template"
)

// FilterFunc is the plain Go shape of a template filter.
type FilterFunc func(input any, param any) (any, error)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	sources []fs.FS
	ext     string
	filters map[string]FilterFunc
	globals map[string]any
}

// WithFS adds a template source. Sources are searched in the order they were
// added, so an earlier source overrides templates of a later one.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.sources = append(cfg.sources, files)
		}
	}
}

// WithDir adds a directory on disk as a template source.
func WithDir(dir string) Option {
	return func(cfg *config) {
		if dir = strings.TrimSpace(dir); dir != "" {
			cfg.sources = append(cfg.sources, os.DirFS(dir))
		}
	}
}

// WithExtension sets the extension appended to bare template names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		if ext = strings.TrimSpace(ext); ext != "" {
			cfg.ext = "." + strings.TrimPrefix(ext, ".")
		}
	}
}

// WithFilter registers a filter when the engine is built.
func WithFilter(name string, fn FilterFunc) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name == "" || fn == nil {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]FilterFunc)
		}
		cfg.filters[name] = fn
	}
}

// WithGlobals seeds values every template sees.
func WithGlobals(values map[string]any) Option {
	return func(cfg *config) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(values))
		}
		for key, value := range values {
			cfg.globals[key] = value
		}
	}
}

// Engine renders pongo2 templates. Data handed to it is converted through
// encoding/json, so templates address struct fields by their json names.
type Engine struct {
	set *pongo2.TemplateSet
	ext string

	// guards set.Globals
	mu    sync.RWMutex
	cache sync.Map
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine over the configured sources.
func New(options ...Option) (*Engine, error) {
	cfg := config{ext: ".tmpl"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.sources) == 0 {
		return nil, errors.New("pongo: no template source configured")
	}

	loaders := make([]pongo2.TemplateLoader, 0, len(cfg.sources))
	for _, src := range cfg.sources {
		loaders = append(loaders, pongo2.NewFSLoader(src))
	}
	e := &Engine{
		set: pongo2.NewSet("contactform", loaders...),
		ext: cfg.ext,
	}

	ensureTrimFilter()
	for name, fn := range cfg.filters {
		// Filters are process wide; a second engine reuses the first
		// registration.
		if pongo2.FilterExists(name) {
			continue
		}
		if err := e.RegisterFilter(name, fn); err != nil {
			return nil, err
		}
	}
	if len(cfg.globals) > 0 {
		if err := e.GlobalContext(cfg.globals); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// RenderTemplate executes the template at name, appending the configured
// extension when name has none. The output is also copied to every writer.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.template(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, out)
}

// RenderString parses and executes an inline template.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.set.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("pongo: parse inline template: %w", err)
	}
	return e.execute(tmpl, data, out)
}

// RegisterFilter exposes fn to templates as name. pongo2 filters are global,
// so a name can only be registered once per process.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("pongo: filter needs a name and a function")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already registered", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	values, err := contextOf(data)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = pongo2.Context{}
	}
	e.set.Globals.Update(values)
	return nil
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	if cached, ok := e.cache.Load(path); ok {
		return cached.(*pongo2.Template), nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load %s: %w", path, err)
	}
	actual, _ := e.cache.LoadOrStore(path, tmpl)
	return actual.(*pongo2.Template), nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, out []io.Writer) (string, error) {
	values, err := contextOf(data)
	if err != nil {
		return "", err
	}

	e.mu.RLock()
	rendered, err := tmpl.Execute(values)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("pongo: execute: %w", err)
	}

	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// contextOf converts template data into a pongo2 context. The data must
// encode to a JSON object.
func contextOf(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("pongo: encode template data: %w", err)
	}
	// Numbers stay json.Number so they print as written instead of as
	// pongo2's six-decimal floats.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	values := pongo2.Context{}
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("pongo: template data must be an object, got %T", data)
	}
	return values, nil
}

func ensureTrimFilter() {
	if pongo2.FilterExists("trim") {
		return
	}
	_ = pongo2.RegisterFilter("trim", func(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(strings.TrimSpace(in.String())), nil
	})
}
