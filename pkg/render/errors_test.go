package render_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/render"
)

func TestFormMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{name: "nil", err: nil, want: nil},
		{name: "not submittable", err: controller.ErrNotSubmittable, want: []string{render.MsgNotSubmittable}},
		{
			name: "wrapped sink failure",
			err:  fmt.Errorf("%w: %w", controller.ErrSinkFailed, errors.New("smtp down")),
			want: []string{render.MsgDeliveryFailed},
		},
		{name: "already succeeded", err: controller.ErrAlreadySucceeded, want: nil},
		{name: "closed", err: controller.ErrClosed, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render.FormMessages(tt.err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors(
		[]string{" delivery failed ", ""},
		"delivery failed",
		"form is not submittable",
		"   ",
	)
	want := []string{"delivery failed", "form is not submittable"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merged errors mismatch (-want +got):\n%s", diff)
	}

	if got := render.MergeFormErrors(nil, " "); got != nil {
		t.Fatalf("expected nil for blank input, got %#v", got)
	}
}

func TestDefaultCopy_UnknownLocaleFallsBack(t *testing.T) {
	es := render.DefaultCopy("es")
	if got := render.DefaultCopy("fr-FR"); got.Title != es.Title {
		t.Fatalf("unknown locale should fall back to %q, got %q", es.Title, got.Title)
	}
	if got := render.DefaultCopy("en_GB"); got.Title == es.Title {
		t.Fatalf("region suffix should resolve to the en catalog")
	}

	mutated := render.DefaultCopy("es")
	mutated.Messages[render.MsgDeliveryFailed] = "changed"
	if render.DefaultCopy("es").Message(render.MsgDeliveryFailed) == "changed" {
		t.Fatalf("DefaultCopy must return an independent copy")
	}
}
