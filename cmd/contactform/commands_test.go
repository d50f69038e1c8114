package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-contactform/pkg/render"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRender_HTMLFragment(t *testing.T) {
	out, err := execute(t, "render", "--fragment", "--locale", "en", "--set", "name=Al", "--validate")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, fragment := range []string{`id="contactform"`, "minimum 3 characters", "email is required", `value="Al"`} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("output missing %q:\n%s", fragment, out)
		}
	}
	if strings.Contains(out, "<!DOCTYPE html>") {
		t.Fatalf("fragment must not include the document")
	}
}

func TestRender_JSONSubmitted(t *testing.T) {
	out, err := execute(t, "render", "--renderer", "json",
		"--set", "nombre=Carlos Perez",
		"--set", "email=carlos@email.com",
		"--set", "mensaje=Hello, this is a long enough message.",
		"--submit",
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var view render.View
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !view.Succeeded || view.Copy.SuccessHeading != "¡Gracias por tu mensaje! 🎉" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestRender_NotSubmittableShowsFormError(t *testing.T) {
	out, err := execute(t, "render", "--renderer", "tui", "--locale", "en", "--submit")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Please fix the highlighted fields") {
		t.Fatalf("missing form error:\n%s", out)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := execute(t, "render", "--set", "phone=123"); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if _, err := execute(t, "render", "--renderer", "pdf"); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
	t.Setenv("CONTACTFORM_SINK", "kafka")
	if _, err := execute(t, "render"); err == nil || !strings.Contains(err.Error(), `unknown sink "kafka"`) {
		t.Fatalf("expected config validation error, got %v", err)
	}
}

func TestRender_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.html")
	if _, err := execute(t, "render", "-o", path); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "<title>Contáctame</title>") {
		t.Fatalf("unexpected file content:\n%s", data)
	}
}

func TestOpenAPI(t *testing.T) {
	out, err := execute(t, "openapi")
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil || doc["openapi"] != "3.0.3" {
		t.Fatalf("unexpected document: %v\n%s", err, out)
	}

	out, err = execute(t, "openapi", "--yaml")
	if err != nil || !strings.HasPrefix(out, "openapi: 3.0.3") {
		t.Fatalf("unexpected yaml output: %v\n%s", err, out)
	}
}
