package sink

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-contactform/pkg/model"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Sanitize strips markup from every user supplied value so downstream stores
// and log viewers only ever see plain text.
func Sanitize(submission model.Submission) model.Submission {
	out := submission
	out.State = model.FormState{
		Name:    sanitizeText(submission.State.Name),
		Email:   sanitizeText(submission.State.Email),
		Message: sanitizeText(submission.State.Message),
	}
	return out
}

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	// StrictPolicy escapes what it keeps; store the plain text.
	return strings.TrimSpace(html.UnescapeString(textSanitizer().Sanitize(trimmed)))
}
