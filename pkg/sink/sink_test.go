package sink_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/sink"
)

func submission(id string, at time.Time) model.Submission {
	return model.Submission{
		ID: id,
		State: model.FormState{
			Name:    "Carlos Perez",
			Email:   "carlos@email.com",
			Message: "Hello, this is a long enough message.",
		},
		SubmittedAt: at,
	}
}

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestSanitize_StripsMarkup(t *testing.T) {
	in := submission("a", base)
	in.State.Name = "  <b>Carlos</b> "
	in.State.Message = `Hi <script>alert(1)</script>there, <a href="x">link</a>`

	got := sink.Sanitize(in)
	if got.State.Name != "Carlos" {
		t.Fatalf("name = %q", got.State.Name)
	}
	if strings.Contains(got.State.Message, "<") {
		t.Fatalf("markup survived: %q", got.State.Message)
	}
	if in.State.Name != "  <b>Carlos</b> " {
		t.Fatalf("input mutated")
	}
}

func TestLog_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	if err := sink.NewLog(logger).Send(context.Background(), submission("abc", base)); err != nil {
		t.Fatalf("send: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"submission_id":"abc"`, `"email":"carlos@email.com"`, "contact form submitted"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line missing %s: %s", want, out)
		}
	}
}

func TestMemory_ListNewestFirst(t *testing.T) {
	mem := sink.NewMemory()
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		if err := mem.Send(ctx, submission(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	got, err := mem.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := []string{got[0].ID, got[1].ID}
	if diff := cmp.Diff([]string{"c", "b"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if len(mem.All()) != 3 {
		t.Fatalf("expected three stored submissions")
	}
}

func TestMulti_JoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	mem := sink.NewMemory()
	multi := sink.Multi{
		mem,
		controller.SinkFunc(func(context.Context, model.Submission) error { return boom }),
	}

	err := multi.Send(context.Background(), submission("a", base))
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined boom, got %v", err)
	}
	if len(mem.All()) != 1 {
		t.Fatalf("healthy sink should still receive the submission")
	}
}

func TestDiscard_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (sink.Discard{}).Send(ctx, submission("a", base)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := sink.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	first := submission("a", base)
	second := submission("b", base.Add(time.Minute))
	second.State.Message = "<i>Second</i> message body"

	for _, s := range []model.Submission{first, second} {
		if err := store.Send(ctx, s); err != nil {
			t.Fatalf("send %s: %v", s.ID, err)
		}
	}

	got, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	wantSecond := second
	wantSecond.State.Message = "Second message body"
	if diff := cmp.Diff([]model.Submission{wantSecond, first}, got); diff != "" {
		t.Fatalf("stored submissions mismatch (-want +got):\n%s", diff)
	}

	if err := store.Send(ctx, first); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
}

func TestSQLite_WorksAsControllerSink(t *testing.T) {
	ctx := context.Background()
	store, err := sink.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	c := controller.New(controller.WithSink(store), controller.WithResetDelay(time.Hour))
	t.Cleanup(c.Close)
	state := submission("", base).State
	for _, field := range model.Fields() {
		_ = c.SetField(field, state.Get(field))
	}
	sub, err := c.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != sub.ID {
		t.Fatalf("expected stored submission %s, got %+v", sub.ID, got)
	}
}
