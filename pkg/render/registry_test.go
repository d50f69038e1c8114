package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

type namedRenderer string

func (r namedRenderer) Name() string        { return string(r) }
func (r namedRenderer) ContentType() string { return "text/plain" }
func (r namedRenderer) Render(context.Context, model.Snapshot, render.RenderOptions) ([]byte, error) {
	return []byte(r), nil
}

func TestRegistry_DefaultSelection(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer("vanilla"))
	reg.MustRegister(namedRenderer("json"))

	got, err := reg.Resolve("")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Name() != "vanilla" {
		t.Fatalf("first registered renderer should be the default, got %q", got.Name())
	}

	if err := reg.SetDefault("json"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if got, _ := reg.Resolve(" "); got == nil || got.Name() != "json" {
		t.Fatalf("expected json default, got %v", got)
	}

	if err := reg.SetDefault("tui"); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}
	if got, _ := reg.Resolve(""); got == nil || got.Name() != "json" {
		t.Fatalf("failed SetDefault must keep the previous default")
	}

	if err := reg.Register(namedRenderer("json")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if diff := cmp.Diff([]string{"json", "vanilla"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
