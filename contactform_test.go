package contactform_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	contactform "github.com/goliatone/go-contactform"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
)

func TestRenderHTMLFromController(t *testing.T) {
	ctrl := contactform.NewController()
	defer ctrl.Close()

	if err := ctrl.SetField(model.FieldEmail, "nope"); err != nil {
		t.Fatalf("set field: %v", err)
	}

	out, err := contactform.RenderHTML(context.Background(), ctrl.Snapshot(), contactform.RenderOptions{
		Locale:   "en",
		Fragment: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `id="contactform"`) {
		t.Fatalf("expected form root, got:\n%s", html)
	}
	if strings.Contains(html, "<!DOCTYPE") {
		t.Fatalf("fragment must not include the document shell")
	}
	if !strings.Contains(html, `aria-invalid="true"`) {
		t.Fatalf("expected invalid email to be flagged, got:\n%s", html)
	}
}

func TestEmbeddedFiles(t *testing.T) {
	if _, err := fs.ReadFile(contactform.EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("expected form template to be readable: %v", err)
	}
	data, err := fs.ReadFile(contactform.AssetsFS(), vanilla.RuntimeScriptName)
	if err != nil {
		t.Fatalf("expected runtime script to be readable: %v", err)
	}
	if !strings.Contains(string(data), "/api/stream") {
		t.Fatalf("runtime script should subscribe to the state stream")
	}
}
