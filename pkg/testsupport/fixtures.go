package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// ValidState is a form that passes every rule.
var ValidState = model.FormState{
	Name:    "Carlos Perez",
	Email:   "carlos@email.com",
	Message: "Hello, this is a long enough message.",
}

// Context returns the context used by renderer contract tests.
func Context() context.Context {
	return context.Background()
}

// Snapshot builds a snapshot for state the way the controller would, with
// errors for every field listed in touched.
func Snapshot(state model.FormState, status model.SubmissionStatus, touched ...model.Field) model.Snapshot {
	snap := model.Snapshot{
		Version:     1,
		State:       state,
		Errors:      make(model.FormErrors),
		Touched:     make(map[model.Field]bool),
		Status:      status,
		Submittable: validation.Submittable(state),
		Checks:      validation.Requirements(state),
	}
	for _, field := range touched {
		snap.Touched[field] = true
		res, _ := validation.Validate(field, state.Get(field))
		if !res.Valid {
			snap.Errors[field] = res.Message
		}
	}
	return snap
}

// MustLoadSnapshot loads a JSON fixture into a Snapshot.
func MustLoadSnapshot(t *testing.T, path string) model.Snapshot {
	t.Helper()

	snap, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	return snap
}

// LoadSnapshot reads a JSON fixture into a Snapshot. Submittable and Checks
// are recomputed from the state so fixtures only carry what they assert on.
func LoadSnapshot(path string) (model.Snapshot, error) {
	if path == "" {
		return model.Snapshot{}, errors.New("testsupport: snapshot path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("testsupport: read snapshot: %w", err)
	}
	var out model.Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		return model.Snapshot{}, fmt.Errorf("testsupport: unmarshal snapshot: %w", err)
	}
	out.Submittable = validation.Submittable(out.State)
	out.Checks = validation.Requirements(out.State)
	return out, nil
}

// AssertContains fails the test for every fragment missing from output.
func AssertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Errorf("output missing %q\n--- output ---\n%s", fragment, output)
		}
	}
}

// AssertNotContains fails the test for every fragment present in output.
func AssertNotContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(output, fragment) {
			t.Errorf("output unexpectedly contains %q", fragment)
		}
	}
}
