package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-contactform/pkg/model"
)

const (
	// NameMinLength is the minimum trimmed rune count for the name field.
	NameMinLength = 3
	// MessageMinLength is the minimum trimmed rune count for the message field.
	MessageMinLength = 10
)

// Messages shown inline next to the offending field.
const (
	MsgNameRequired    = "name is required"
	MsgNameTooShort    = "minimum 3 characters"
	MsgEmailRequired   = "email is required"
	MsgEmailInvalid    = "invalid email (must include @ and .)"
	MsgMessageRequired = "message is required"
	MsgMessageTooShort = "minimum 10 characters"
)

// Result is the outcome of validating a single value. Message is empty when
// Valid is true.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Rule validates the value of one field.
type Rule func(value string) Result

var rules = map[model.Field]Rule{
	model.FieldName:    Name,
	model.FieldEmail:   Email,
	model.FieldMessage: Message,
}

// RuleFor returns the rule registered for field.
func RuleFor(field model.Field) (Rule, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("validation: %w: %q", model.ErrUnknownField, field)
	}
	return rules[field], nil
}

// Validate runs the rule registered for field against value.
func Validate(field model.Field, value string) (Result, error) {
	rule, err := RuleFor(field)
	if err != nil {
		return Result{}, err
	}
	return rule(value), nil
}

// Name requires a trimmed value of at least NameMinLength characters.
func Name(value string) Result {
	return minLength(value, NameMinLength, MsgNameRequired, MsgNameTooShort)
}

// Message requires a trimmed value of at least MessageMinLength characters.
func Message(value string) Result {
	return minLength(value, MessageMinLength, MsgMessageRequired, MsgMessageTooShort)
}

// Email is intentionally shallow: the value only has to contain both "@" and
// "." somewhere, in any order.
func Email(value string) Result {
	if trim(value) == "" {
		return invalid(MsgEmailRequired)
	}
	if !LooksLikeEmail(value) {
		return invalid(MsgEmailInvalid)
	}
	return Result{Valid: true}
}

// LooksLikeEmail reports whether value contains both "@" and ".".
func LooksLikeEmail(value string) bool {
	return strings.Contains(value, "@") && strings.Contains(value, ".")
}

func minLength(value string, min int, required, tooShort string) Result {
	trimmed := trim(value)
	if trimmed == "" {
		return invalid(required)
	}
	if utf8.RuneCountInString(trimmed) < min {
		return invalid(tooShort)
	}
	return Result{Valid: true}
}

// trim strips surrounding whitespace, counting a byte order mark as
// whitespace.
func trim(value string) string {
	return strings.TrimFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

func invalid(message string) Result {
	return Result{Valid: false, Message: message}
}
