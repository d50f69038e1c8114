package render

import (
	"github.com/goliatone/go-contactform/pkg/model"
)

// FieldState is the visual state of an input border.
type FieldState string

const (
	FieldStateEmpty FieldState = "empty"
	FieldStateError FieldState = "error"
	FieldStateValid FieldState = "valid"
)

// FieldView is everything a renderer needs to draw one input.
type FieldView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Label       string     `json:"label"`
	Placeholder string     `json:"placeholder"`
	InputType   string     `json:"inputType"`
	Multiline   bool       `json:"multiline"`
	Value       string     `json:"value"`
	Error       string     `json:"error,omitempty"`
	State       FieldState `json:"state"`
}

// CheckView is one line of the requirements checklist.
type CheckView struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Met   bool   `json:"met"`
	Mark  string `json:"mark"`
}

// View is the renderer-agnostic projection of a snapshot plus copy.
type View struct {
	Version     uint64        `json:"version"`
	Status      string        `json:"status"`
	Succeeded   bool          `json:"succeeded"`
	Submittable bool          `json:"submittable"`
	Action      string        `json:"action"`
	Copy        Copy          `json:"copy"`
	Fields      []FieldView   `json:"fields"`
	Checks      []CheckView   `json:"checks"`
	Hidden      []HiddenField `json:"hidden,omitempty"`
	FormErrors  []string      `json:"formErrors,omitempty"`
}

var inputTypes = map[model.Field]string{
	model.FieldName:    "text",
	model.FieldEmail:   "email",
	model.FieldMessage: "textarea",
}

// BuildView combines a snapshot with the resolved copy. Error and check
// texts are localized through the copy catalog.
func BuildView(snapshot model.Snapshot, opts RenderOptions) View {
	texts := opts.ResolveCopy()

	view := View{
		Version:     snapshot.Version,
		Status:      snapshot.Status.String(),
		Succeeded:   snapshot.Status == model.StatusSucceeded,
		Submittable: snapshot.Submittable,
		Action:      opts.Action,
		Copy:        texts,
		Hidden:      NormalizeHidden(opts.Hidden...),
	}

	for _, field := range model.Fields() {
		fc := texts.Field(field)
		value := snapshot.State.Get(field)
		var errMsg string
		if snapshot.Errors.Has(field) {
			errMsg = texts.Message(snapshot.Error(field))
		}
		view.Fields = append(view.Fields, FieldView{
			ID:          field.String(),
			Name:        field.String(),
			Label:       fc.Label,
			Placeholder: fc.Placeholder,
			InputType:   inputTypes[field],
			Multiline:   field == model.FieldMessage,
			Value:       value,
			Error:       errMsg,
			State:       fieldState(value, errMsg),
		})
	}

	for _, check := range snapshot.Checks {
		label := texts.Field(check.Field).Check
		if label == "" {
			label = check.Label
		}
		mark := "○"
		if check.Met {
			mark = "✓"
		}
		view.Checks = append(view.Checks, CheckView{
			Field: check.Field.String(),
			Label: label,
			Met:   check.Met,
			Mark:  mark,
		})
	}

	formErrors := MergeFormErrors(opts.FormErrors)
	for _, msg := range formErrors {
		view.FormErrors = append(view.FormErrors, texts.Message(msg))
	}
	return view
}

// fieldState mirrors the border colouring of the form: red on error, green
// once a value is present and valid, neutral otherwise.
func fieldState(value, errMsg string) FieldState {
	switch {
	case errMsg != "":
		return FieldStateError
	case value != "":
		return FieldStateValid
	default:
		return FieldStateEmpty
	}
}
