package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownField is returned when a wire name does not resolve to a Field.
var ErrUnknownField = errors.New("model: unknown field")

// Field identifies one of the editable inputs of the contact form. The set is
// closed; resolve wire names with ParseField at the boundary.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

var fieldOrder = []Field{FieldName, FieldEmail, FieldMessage}

// aliases keeps the legacy Spanish identifiers working for older clients.
var aliases = map[string]Field{
	"name":    FieldName,
	"nombre":  FieldName,
	"email":   FieldEmail,
	"message": FieldMessage,
	"mensaje": FieldMessage,
}

// Fields returns every field in display order.
func Fields() []Field {
	return append([]Field(nil), fieldOrder...)
}

// ParseField resolves a wire identifier into a Field.
func ParseField(raw string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if field, ok := aliases[key]; ok {
		return field, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
}

// Valid reports whether f is one of the known fields.
func (f Field) Valid() bool {
	switch f {
	case FieldName, FieldEmail, FieldMessage:
		return true
	default:
		return false
	}
}

func (f Field) String() string {
	return string(f)
}

// FormState holds the live values of the editable fields.
type FormState struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Get returns the value stored for field.
func (s FormState) Get(field Field) string {
	switch field {
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldMessage:
		return s.Message
	default:
		return ""
	}
}

// Set stores value for field. Unknown fields are ignored.
func (s *FormState) Set(field Field, value string) {
	switch field {
	case FieldName:
		s.Name = value
	case FieldEmail:
		s.Email = value
	case FieldMessage:
		s.Message = value
	}
}

// IsZero reports whether every field is empty.
func (s FormState) IsZero() bool {
	return s == FormState{}
}

// FormErrors maps a field to its current validation message. A missing key
// means the field has no error.
type FormErrors map[Field]string

// Clone returns an independent copy. Empty messages are dropped.
func (e FormErrors) Clone() FormErrors {
	out := make(FormErrors, len(e))
	for field, msg := range e {
		if msg == "" {
			continue
		}
		out[field] = msg
	}
	return out
}

// Has reports whether field currently carries an error.
func (e FormErrors) Has(field Field) bool {
	return e[field] != ""
}

// SubmissionStatus tracks whether the form is idle or showing the success
// confirmation.
type SubmissionStatus int

const (
	StatusIdle SubmissionStatus = iota
	StatusSucceeded
)

func (s SubmissionStatus) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	default:
		return "idle"
	}
}

// MarshalText encodes the status as its lowercase name.
func (s SubmissionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "idle" or "succeeded".
func (s *SubmissionStatus) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "idle":
		*s = StatusIdle
	case "succeeded":
		*s = StatusSucceeded
	default:
		return fmt.Errorf("model: unknown submission status %q", text)
	}
	return nil
}

// Check is one line of the requirements checklist shown next to the form.
type Check struct {
	Field Field  `json:"field"`
	Label string `json:"label"`
	Met   bool   `json:"met"`
}

// Snapshot is the read model handed to renderers. It is a copy; mutating it
// does not affect the controller.
type Snapshot struct {
	Version     uint64           `json:"version"`
	State       FormState        `json:"state"`
	Errors      FormErrors       `json:"errors,omitempty"`
	Touched     map[Field]bool   `json:"touched,omitempty"`
	Status      SubmissionStatus `json:"status"`
	Submittable bool             `json:"submittable"`
	Checks      []Check          `json:"checks"`
}

// Error returns the message currently attached to field.
func (s Snapshot) Error(field Field) string {
	return s.Errors[field]
}

// Submission is the record produced by a successful submit.
type Submission struct {
	ID          string    `json:"id"`
	State       FormState `json:"state"`
	SubmittedAt time.Time `json:"submittedAt"`
}
