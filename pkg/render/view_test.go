package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/validation"
)

func snapshotOf(state model.FormState, errs model.FormErrors) model.Snapshot {
	return model.Snapshot{
		Version:     3,
		State:       state,
		Errors:      errs,
		Submittable: validation.Submittable(state),
		Checks:      validation.Requirements(state),
	}
}

func TestBuildView_FieldStatesAndLocalizedErrors(t *testing.T) {
	snap := snapshotOf(
		model.FormState{Name: "Ana", Email: "nope"},
		model.FormErrors{model.FieldEmail: validation.MsgEmailInvalid},
	)

	view := render.BuildView(snap, render.RenderOptions{Locale: "es"})

	type row struct {
		Name  string
		State render.FieldState
		Error string
	}
	var got []row
	for _, f := range view.Fields {
		got = append(got, row{f.Name, f.State, f.Error})
	}
	want := []row{
		{"name", render.FieldStateValid, ""},
		{"email", render.FieldStateError, "Email inválido (debe incluir @ y .)"},
		{"message", render.FieldStateEmpty, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if view.Submittable || view.Succeeded {
		t.Fatalf("unexpected flags: %+v", view)
	}
	if view.Fields[2].InputType != "textarea" || !view.Fields[2].Multiline {
		t.Fatalf("message must render as textarea")
	}
}

func TestBuildView_Checklist(t *testing.T) {
	snap := snapshotOf(model.FormState{Name: "Ana", Email: "a@b.c", Message: "short"}, nil)
	view := render.BuildView(snap, render.RenderOptions{Locale: "en"})

	want := []render.CheckView{
		{Field: "name", Label: "Name: at least 3 characters", Met: true, Mark: "✓"},
		{Field: "email", Label: "Email: must include @ and .", Met: true, Mark: "✓"},
		{Field: "message", Label: "Message: at least 10 characters", Met: false, Mark: "○"},
	}
	if diff := cmp.Diff(want, view.Checks); diff != "" {
		t.Fatalf("checks mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildView_BlankErrorIsNotAnError(t *testing.T) {
	snap := snapshotOf(
		model.FormState{Name: "Ana"},
		model.FormErrors{model.FieldName: "", model.FieldMessage: validation.MsgMessageRequired},
	)
	view := render.BuildView(snap, render.RenderOptions{Locale: "en"})

	if got := view.Fields[0]; got.Error != "" || got.State != render.FieldStateValid {
		t.Fatalf("blank message must not flag the field: %+v", got)
	}
	if got := view.Fields[2]; got.State != render.FieldStateError || got.Error == "" {
		t.Fatalf("message field should be flagged: %+v", got)
	}
}

func TestBuildView_FormErrorsAndHidden(t *testing.T) {
	snap := snapshotOf(model.FormState{}, nil)
	err := errors.Join(errors.New("smtp"), controller.ErrSinkFailed)

	view := render.BuildView(snap, render.RenderOptions{
		Locale:     "en",
		FormErrors: render.MergeFormErrors(render.FormMessages(err), " ", render.MsgDeliveryFailed),
		Hidden: []render.HiddenField{
			render.SessionField("abc"),
			render.CSRFToken("_csrf", "tok"),
			render.Hidden(" ", "skip"),
			render.SessionField("def"),
		},
	})

	if diff := cmp.Diff([]string{"The message could not be delivered, please try again"}, view.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	wantHidden := []render.HiddenField{
		{Name: "_csrf", Value: "tok"},
		{Name: "_session", Value: "def"},
	}
	if diff := cmp.Diff(wantHidden, view.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalizedCopy_TranslatorOverrides(t *testing.T) {
	tr := render.TranslatorFunc(func(locale, key string) (string, error) {
		switch key {
		case "title":
			return "Hablemos", nil
		case "fields.email.label":
			return "Correo", nil
		default:
			return "", errors.New("missing")
		}
	})

	texts := render.LocalizedCopy("es-MX", tr)
	if texts.Title != "Hablemos" || texts.Field(model.FieldEmail).Label != "Correo" {
		t.Fatalf("translator overrides not applied: %+v", texts)
	}
	if texts.Subtitle != "¿Tienes un proyecto? ¡Escríbeme!" {
		t.Fatalf("fallback lost: %q", texts.Subtitle)
	}

	// The catalog itself must stay untouched.
	if render.DefaultCopy("es").Title != "Contáctame" {
		t.Fatalf("catalog mutated")
	}
}

func TestMergeCopy(t *testing.T) {
	merged := render.MergeCopy(render.DefaultCopy("en"), render.Copy{
		Title: "Say hi",
		Fields: map[model.Field]render.FieldCopy{
			model.FieldName: {Placeholder: "Your name"},
		},
	})
	if merged.Title != "Say hi" || merged.SubmitLabel != "Send message" {
		t.Fatalf("unexpected merge: %+v", merged)
	}
	name := merged.Field(model.FieldName)
	if name.Label != "Name" || name.Placeholder != "Your name" {
		t.Fatalf("unexpected field merge: %+v", name)
	}
}
