package jsonview_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/jsonview"
	"github.com/goliatone/go-contactform/pkg/testsupport"
)

func TestRenderer_EncodesView(t *testing.T) {
	r := jsonview.New()
	snap := testsupport.Snapshot(model.FormState{Name: "Al", Email: "al@x.io"}, model.StatusIdle, model.FieldName)

	out, err := r.Render(testsupport.Context(), snap, render.RenderOptions{Locale: "en"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var doc jsonview.Document
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if doc.Snapshot != nil {
		t.Fatalf("snapshot must be omitted by default")
	}
	want := render.BuildView(snap, render.RenderOptions{Locale: "en"})
	if diff := cmp.Diff(want, doc.View); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
	if doc.Fields[0].Error != "minimum 3 characters" {
		t.Fatalf("unexpected name error %q", doc.Fields[0].Error)
	}
}

func TestRenderer_WithSnapshotAndIndent(t *testing.T) {
	r := jsonview.New(jsonview.WithSnapshot(true), jsonview.WithIndent("  "))
	snap := testsupport.Snapshot(testsupport.ValidState, model.StatusSucceeded)

	out, err := r.Render(testsupport.Context(), snap, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "\n  \"version\"") {
		t.Fatalf("expected indented output:\n%s", out)
	}
	testsupport.AssertContains(t, string(out), `"status": "succeeded"`, `"succeeded": true`, `"snapshot": {`)
	if r.Name() != "json" || r.ContentType() != "application/json" {
		t.Fatalf("unexpected metadata")
	}
}
