package validation

import "github.com/goliatone/go-contactform/pkg/model"

// ValidateState validates every field of state.
func ValidateState(state model.FormState) map[model.Field]Result {
	out := make(map[model.Field]Result, len(rules))
	for _, field := range model.Fields() {
		out[field] = rules[field](state.Get(field))
	}
	return out
}

// Submittable reports whether every field of state passes its rule. It shares
// the per-field rules with the inline error path.
func Submittable(state model.FormState) bool {
	for _, field := range model.Fields() {
		if !rules[field](state.Get(field)).Valid {
			return false
		}
	}
	return true
}

var checkLabels = map[model.Field]string{
	model.FieldName:    "Name: at least 3 characters",
	model.FieldEmail:   "Email: must include @ and .",
	model.FieldMessage: "Message: at least 10 characters",
}

// Requirements builds the checklist renderers show beside the form.
func Requirements(state model.FormState) []model.Check {
	checks := make([]model.Check, 0, len(checkLabels))
	for _, field := range model.Fields() {
		checks = append(checks, model.Check{
			Field: field,
			Label: checkLabels[field],
			Met:   rules[field](state.Get(field)).Valid,
		})
	}
	return checks
}
