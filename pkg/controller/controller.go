package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/validation"
)

var (
	// ErrNotSubmittable is returned by Submit when at least one field fails
	// its rule. The controller state is left untouched.
	ErrNotSubmittable = errors.New("controller: form is not submittable")
	// ErrAlreadySucceeded is returned by Submit while the success
	// confirmation is showing.
	ErrAlreadySucceeded = errors.New("controller: submission already succeeded")
	// ErrSinkFailed wraps failures reported by the configured Sink.
	ErrSinkFailed = errors.New("controller: submit sink failed")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("controller: closed")
)

// Controller owns the state of one contact form session.
type Controller struct {
	sink       Sink
	scheduler  Scheduler
	resetDelay time.Duration
	now        func() time.Time
	newID      func() string
	logger     *slog.Logger

	mu         sync.Mutex
	state      model.FormState
	errors     model.FormErrors
	touched    map[model.Field]bool
	status     model.SubmissionStatus
	version    uint64
	timer      Timer
	generation uint64
	closed     bool

	subs    map[int]func(model.Snapshot)
	nextSub int
}

// New constructs an idle controller with an empty form.
func New(options ...Option) *Controller {
	c := defaults()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// SetField stores value for field and recomputes that field's error. Errors
// of the other fields are left as they are.
func (c *Controller) SetField(field model.Field, value string) error {
	return c.apply(field, value, "change")
}

// ValidateOnBlur recomputes the error of field for its current value so a
// field the user tabs away from is flagged without further edits. Calling it
// repeatedly with the same value yields the same error.
func (c *Controller) ValidateOnBlur(field model.Field, value string) error {
	return c.apply(field, value, "blur")
}

func (c *Controller) apply(field model.Field, value, event string) error {
	result, err := validation.Validate(field, value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.state.Set(field, value)
	c.touched[field] = true
	if result.Valid {
		delete(c.errors, field)
	} else {
		c.errors[field] = result.Message
	}
	snap := c.commitLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	c.logger.Debug("field updated",
		slog.String("event", event),
		slog.String("field", field.String()),
		slog.Bool("valid", result.Valid),
	)
	notify(subs, snap)
	return nil
}

// IsSubmittable reports whether every field currently passes its rule. It is
// derived from the live values on every call and never reads the stored
// errors.
func (c *Controller) IsSubmittable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return validation.Submittable(c.state)
}

// Status returns the current submission status.
func (c *Controller) Status() model.SubmissionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Submit hands the current values to the sink and enters the succeeded state
// when every field is valid. The form clears itself after the reset delay.
// When the form is not submittable, or the confirmation is already showing,
// Submit changes nothing and reports why.
func (c *Controller) Submit(ctx context.Context) (model.Submission, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.Submission{}, ErrClosed
	}
	if c.status == model.StatusSucceeded {
		c.mu.Unlock()
		return model.Submission{}, ErrAlreadySucceeded
	}
	if !validation.Submittable(c.state) {
		c.mu.Unlock()
		return model.Submission{}, ErrNotSubmittable
	}

	submission := model.Submission{
		ID:          c.newID(),
		State:       c.state,
		SubmittedAt: c.now().UTC(),
	}

	// The lock is held across Send so no edit can slip in between the
	// validity check and the status change.
	if err := c.sink.Send(ctx, submission); err != nil {
		c.mu.Unlock()
		c.logger.Error("submission not delivered",
			slog.String("submission_id", submission.ID),
			slog.Any("error", err),
		)
		return model.Submission{}, fmt.Errorf("%w: %w", ErrSinkFailed, err)
	}

	c.status = model.StatusSucceeded
	c.scheduleResetLocked()
	snap := c.commitLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	c.logger.Info("submission sent",
		slog.String("submission_id", submission.ID),
		slog.Duration("reset_in", c.resetDelay),
	)
	notify(subs, snap)
	return submission, nil
}

// Reset cancels any pending reset and returns to an empty idle form at once.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.cancelTimerLocked()
	c.clearLocked()
	snap := c.commitLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, snap)
}

// Snapshot returns a copy of the current state for rendering.
func (c *Controller) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every observable change,
// including the timed reset. fn runs outside the controller lock and may call
// back into the controller. The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(model.Snapshot)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Close stops the pending reset timer and drops every subscriber.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cancelTimerLocked()
	c.subs = make(map[int]func(model.Snapshot))
	c.closed = true
}

// scheduleResetLocked replaces any outstanding timer so at most one reset is
// ever pending.
func (c *Controller) scheduleResetLocked() {
	c.cancelTimerLocked()
	gen := c.generation
	c.timer = c.scheduler.AfterFunc(c.resetDelay, func() {
		c.expire(gen)
	})
}

func (c *Controller) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	// A callback that already fired but has not acquired the lock yet sees
	// a stale generation and backs off.
	c.generation++
}

func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation || c.status != model.StatusSucceeded {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.generation++
	c.clearLocked()
	snap := c.commitLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	c.logger.Debug("form reset after confirmation")
	notify(subs, snap)
}

func (c *Controller) clearLocked() {
	c.state = model.FormState{}
	c.errors = make(model.FormErrors)
	c.touched = make(map[model.Field]bool)
	c.status = model.StatusIdle
}

func (c *Controller) commitLocked() model.Snapshot {
	c.version++
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() model.Snapshot {
	touched := make(map[model.Field]bool, len(c.touched))
	for field, ok := range c.touched {
		touched[field] = ok
	}
	return model.Snapshot{
		Version:     c.version,
		State:       c.state,
		Errors:      c.errors.Clone(),
		Touched:     touched,
		Status:      c.status,
		Submittable: validation.Submittable(c.state),
		Checks:      validation.Requirements(c.state),
	}
}

func (c *Controller) subscribersLocked() []func(model.Snapshot) {
	if len(c.subs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(model.Snapshot), 0, len(ids))
	for _, id := range ids {
		out = append(out, c.subs[id])
	}
	return out
}

func notify(subs []func(model.Snapshot), snap model.Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
