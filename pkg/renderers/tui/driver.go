package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Question asks for one field value.
type Question struct {
	Message string
	// Default pre-fills the answer with the value already in the form.
	Default string
	// Help is shown on "?" and carries the field placeholder.
	Help string
	// Multiline opens an editor style prompt (used for the message).
	Multiline bool
}

// PromptDriver is the terminal seam. Tests script it; the default talks to
// the real terminal through survey.
type PromptDriver interface {
	Ask(ctx context.Context, q Question) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

func newSurveyDriver() PromptDriver {
	return &surveyDriver{out: os.Stdout}
}

func (d *surveyDriver) Ask(ctx context.Context, q Question) (string, error) {
	var prompt survey.Prompt = &survey.Input{Message: q.Message, Default: q.Default, Help: q.Help}
	if q.Multiline {
		prompt = &survey.Multiline{Message: q.Message, Default: q.Default, Help: q.Help}
	}
	var answer string
	if err := askOne(ctx, prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	var answer bool
	if err := askOne(ctx, &survey.Confirm{Message: message, Default: def}, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

// askOne runs a single survey prompt. Ctrl+C surfaces as ErrAborted.
func askOne(ctx context.Context, prompt survey.Prompt, response any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := survey.AskOne(prompt, response)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
