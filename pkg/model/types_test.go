package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/model"
)

func TestParseField_Aliases(t *testing.T) {
	tests := []struct {
		raw  string
		want model.Field
	}{
		{"name", model.FieldName},
		{" Nombre ", model.FieldName},
		{"EMAIL", model.FieldEmail},
		{"mensaje", model.FieldMessage},
	}
	for _, tt := range tests {
		got, err := model.ParseField(tt.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.raw, err)
		}
		if got != tt.want || !got.Valid() {
			t.Fatalf("parse %q: got %q", tt.raw, got)
		}
	}

	if _, err := model.ParseField("phone"); !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestField_Valid(t *testing.T) {
	for _, field := range model.Fields() {
		if !field.Valid() {
			t.Fatalf("%q should be valid", field)
		}
	}
	for _, field := range []model.Field{"", "nombre", "phone"} {
		if field.Valid() {
			t.Fatalf("%q should not be valid", field)
		}
	}
}

func TestFormErrors_HasAndClone(t *testing.T) {
	errs := model.FormErrors{
		model.FieldName:  "name is required",
		model.FieldEmail: "",
	}
	if !errs.Has(model.FieldName) {
		t.Fatalf("name should carry an error")
	}
	if errs.Has(model.FieldEmail) || errs.Has(model.FieldMessage) {
		t.Fatalf("empty and missing messages are not errors")
	}

	want := model.FormErrors{model.FieldName: "name is required"}
	if diff := cmp.Diff(want, errs.Clone()); diff != "" {
		t.Fatalf("clone mismatch (-want +got):\n%s", diff)
	}
}
