package sink

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
)

var (
	_ controller.Sink = Discard{}
	_ controller.Sink = (*Log)(nil)
	_ controller.Sink = (*Memory)(nil)
	_ controller.Sink = Multi(nil)
	_ controller.Sink = (*SQLite)(nil)
)

// Lister is implemented by sinks that can report what they received.
type Lister interface {
	List(ctx context.Context, limit int) ([]model.Submission, error)
}

// Discard accepts every submission and transmits nothing.
type Discard struct{}

// Send implements controller.Sink.
func (Discard) Send(ctx context.Context, _ model.Submission) error {
	return ctx.Err()
}

// Log writes each submission to a structured logger.
type Log struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLog returns a sink that logs submissions at info level.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger, level: slog.LevelInfo}
}

// Send implements controller.Sink.
func (l *Log) Send(ctx context.Context, submission model.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := Sanitize(submission)
	l.logger.LogAttrs(ctx, l.level, "contact form submitted",
		slog.String("submission_id", clean.ID),
		slog.String("name", clean.State.Name),
		slog.String("email", clean.State.Email),
		slog.String("message", clean.State.Message),
		slog.Time("submitted_at", clean.SubmittedAt),
	)
	return nil
}

// Memory keeps submissions in process memory, newest last.
type Memory struct {
	mu   sync.RWMutex
	sent []model.Submission
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Send implements controller.Sink.
func (m *Memory) Send(ctx context.Context, submission model.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.sent = append(m.sent, submission)
	m.mu.Unlock()
	return nil
}

// All returns a copy of every stored submission.
func (m *Memory) All() []model.Submission {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Submission(nil), m.sent...)
}

// List returns up to limit submissions, newest first. A non-positive limit
// returns everything.
func (m *Memory) List(ctx context.Context, limit int) ([]model.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := m.All()
	out := make([]model.Submission, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Multi delivers to every sink in order and joins their errors.
type Multi []controller.Sink

// Send implements controller.Sink.
func (m Multi) Send(ctx context.Context, submission model.Submission) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Send(ctx, submission); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
