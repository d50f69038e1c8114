package pongo_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-contactform/pkg/render/template/pongo"
)

func TestEngine_RenderTemplateFromFS(t *testing.T) {
	files := fstest.MapFS{
		"templates/hello.tmpl": {Data: []byte(`Hello {{ user.name|trim }}{% if site %} from {{ site }}{% endif %}`)},
	}
	engine, err := pongo.New(
		pongo.WithFS(files),
		pongo.WithGlobals(map[string]any{"site": "contactform"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	type user struct {
		Name string `json:"name"`
	}
	var buf bytes.Buffer
	got, err := engine.RenderTemplate("templates/hello", map[string]any{"user": user{Name: "  Ana "}}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Ana from contactform" {
		t.Fatalf("unexpected output %q", got)
	}
	if buf.String() != got {
		t.Fatalf("writer did not receive output")
	}
}

func TestEngine_EscapesByDefault(t *testing.T) {
	engine, err := pongo.New(pongo.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderString(`<p>{{ value }}</p>`, map[string]any{"value": "<script>x</script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("value not escaped: %q", got)
	}
}

func TestEngine_CustomFilter(t *testing.T) {
	engine, err := pongo.New(
		pongo.WithFS(fstest.MapFS{}),
		pongo.WithFilter("shout_test", func(in any, _ any) (any, error) {
			s, _ := in.(string)
			return strings.ToUpper(s) + "!", nil
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderString(`{{ word|shout_test }}`, map[string]any{"word": "hola"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "HOLA!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_EarlierSourceOverrides(t *testing.T) {
	override := fstest.MapFS{"form.tmpl": {Data: []byte(`custom {{ n }}`)}}
	base := fstest.MapFS{
		"form.tmpl": {Data: []byte(`base {{ n }}`)},
		"page.tmpl": {Data: []byte(`page {{ n }}`)},
	}
	engine, err := pongo.New(pongo.WithFS(override), pongo.WithFS(base))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	for name, want := range map[string]string{"form": "custom 1", "page": "page 1"} {
		got, err := engine.RenderTemplate(name, map[string]any{"n": 1})
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("render %s: got %q want %q", name, got, want)
		}
	}
}

func TestEngine_RejectsNonObjectData(t *testing.T) {
	engine, err := pongo.New(pongo.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderString(`{{ x }}`, []string{"a"}); err == nil {
		t.Fatalf("expected error for slice data")
	}
}

func TestEngine_RequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
}
