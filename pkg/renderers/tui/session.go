package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

// Run walks the user through the form on the prompt driver. Every answer is
// written to ctrl and validated as if the field lost focus; rejected answers
// print the error and ask again. Once every field passes, the checklist is
// shown and the user confirms before ctrl.Submit is called.
//
// Run returns the snapshot after the last step. ErrDeclined is returned when
// the user chose not to send.
func (r *Renderer) Run(ctx context.Context, ctrl *controller.Controller, opts render.RenderOptions) (model.Snapshot, error) {
	if ctrl == nil {
		return model.Snapshot{}, errors.New("tui: controller is required")
	}
	if r.driver == nil {
		return model.Snapshot{}, errors.New("tui: prompt driver is nil")
	}
	texts := opts.ResolveCopy()

	if err := r.info(ctx, r.header(render.BuildView(ctrl.Snapshot(), opts))); err != nil {
		return ctrl.Snapshot(), err
	}

	for _, field := range model.Fields() {
		if err := r.promptField(ctx, ctrl, field, texts); err != nil {
			return ctrl.Snapshot(), err
		}
	}

	view := render.BuildView(ctrl.Snapshot(), opts)
	if err := r.info(ctx, r.checklist(view)); err != nil {
		return ctrl.Snapshot(), err
	}

	send, err := r.driver.Confirm(ctx, r.theme.PromptPrefix+texts.SubmitLabel+"?", true)
	if err != nil {
		return ctrl.Snapshot(), err
	}
	if !send {
		return ctrl.Snapshot(), ErrDeclined
	}

	if _, err := ctrl.Submit(ctx); err != nil {
		for _, msg := range render.FormMessages(err) {
			_ = r.info(ctx, r.styles.Error.Render(r.theme.ErrorPrefix+texts.Message(msg)))
		}
		return ctrl.Snapshot(), fmt.Errorf("tui: submit: %w", err)
	}

	snap := ctrl.Snapshot()
	if err := r.info(ctx, r.successBanner(render.BuildView(snap, opts))); err != nil {
		return snap, err
	}
	return snap, nil
}

func (r *Renderer) promptField(ctx context.Context, ctrl *controller.Controller, field model.Field, texts render.Copy) error {
	fc := texts.Field(field)
	for attempt := 1; ; attempt++ {
		current := ctrl.Snapshot().State.Get(field)

		value, err := r.driver.Ask(ctx, Question{
			Message:   r.theme.PromptPrefix + fc.Label,
			Default:   current,
			Help:      fc.Placeholder,
			Multiline: field == model.FieldMessage,
		})
		if err != nil {
			return err
		}

		if err := ctrl.ValidateOnBlur(field, value); err != nil {
			return err
		}
		msg := ctrl.Snapshot().Error(field)
		if msg == "" {
			return nil
		}
		if err := r.info(ctx, r.styles.Error.Render(r.theme.ErrorPrefix+texts.Message(msg))); err != nil {
			return err
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field)
		}
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}
