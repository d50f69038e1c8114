package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrDeclined is returned when the user answers no to the send prompt.
	ErrDeclined = errors.New("tui: submission declined")
	// ErrTooManyAttempts is returned once a field was rejected more times
	// than the configured limit.
	ErrTooManyAttempts = errors.New("tui: too many invalid attempts")
)
