package controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-contactform/pkg/model"
)

// DefaultResetDelay is how long the success confirmation stays visible before
// the form clears itself.
const DefaultResetDelay = 3 * time.Second

// Sink receives the record of a successful submission. Implementations live
// in pkg/sink; the zero configuration discards submissions.
type Sink interface {
	Send(ctx context.Context, submission model.Submission) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, submission model.Submission) error

// Send implements Sink.
func (f SinkFunc) Send(ctx context.Context, submission model.Submission) error {
	return f(ctx, submission)
}

type discardSink struct{}

func (discardSink) Send(context.Context, model.Submission) error { return nil }

// Option configures a Controller.
type Option func(*Controller)

// WithSink sets the collaborator that receives successful submissions.
func WithSink(sink Sink) Option {
	return func(c *Controller) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// WithScheduler overrides the timer source used for the delayed reset.
func WithScheduler(scheduler Scheduler) Option {
	return func(c *Controller) {
		if scheduler != nil {
			c.scheduler = scheduler
		}
	}
}

// WithResetDelay overrides DefaultResetDelay. Non-positive values are ignored.
func WithResetDelay(delay time.Duration) Option {
	return func(c *Controller) {
		if delay > 0 {
			c.resetDelay = delay
		}
	}
}

// WithClock overrides the clock used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides the submission id generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func defaults() *Controller {
	return &Controller{
		sink:       discardSink{},
		scheduler:  RealScheduler(),
		resetDelay: DefaultResetDelay,
		now:        time.Now,
		newID:      uuid.NewString,
		logger:     slog.New(slog.DiscardHandler),
		errors:     make(model.FormErrors),
		touched:    make(map[model.Field]bool),
		subs:       make(map[int]func(model.Snapshot)),
	}
}
