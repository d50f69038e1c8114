package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-contactform/pkg/controller"
)

// Form-level messages produced from controller errors. They are catalog keys
// as well as the English fallback text.
const (
	MsgDeliveryFailed = "delivery failed"
	MsgNotSubmittable = "form is not submittable"
)

// FormMessages maps a Submit error onto form-level messages. Errors that carry
// no user facing meaning (closed controller, already succeeded) yield nil.
func FormMessages(err error) []string {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, controller.ErrSinkFailed):
		return []string{MsgDeliveryFailed}
	case errors.Is(err, controller.ErrNotSubmittable):
		return []string{MsgNotSubmittable}
	default:
		return nil
	}
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
