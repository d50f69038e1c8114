package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-contactform/pkg/model"
)

const sampleYAML = `
addr: "127.0.0.1:9000"
reset_delay: 5s
locale: en
sink:
  kind: sqlite
  dsn: /tmp/contact.db
log:
  level: debug
theme:
  name: ocean
  css_vars:
    cf-primary: "#0f766e"
copy:
  title: Say hello
  fields:
    name:
      placeholder: Your name
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contactform.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, sampleYAML)
	t.Setenv("CONTACTFORM_LOG_FORMAT", "json")
	t.Setenv("CONTACTFORM_RESET_DELAY", "1500ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.Addr = "127.0.0.1:9000"
	want.ResetDelay = 1500 * time.Millisecond
	want.Locale = "en"
	want.Sink = SinkConfig{Kind: SinkSQLite, DSN: "/tmp/contact.db"}
	want.Log = LogConfig{Level: "debug", Format: "json"}
	want.Theme = ThemeConfig{Name: "ocean", CSSVars: map[string]string{"cf-primary": "#0f766e"}}

	got := cfg
	got.Copy = nil
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Copy == nil || cfg.Copy.Title != "Say hello" || cfg.Copy.Field(model.FieldName).Placeholder != "Your name" {
		t.Fatalf("copy override not decoded: %+v", cfg.Copy)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "unknown_key: 1\n")); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	t.Setenv("CONTACTFORM_SESSION_TTL", "soon")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid env duration")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestFromFlags(t *testing.T) {
	path := writeFile(t, "addr: \":7000\"\nsink:\n  kind: memory\n")
	t.Setenv("CONTACTFORM_LOCALE", "en")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--config", path, "--addr", ":7001", "--reset-delay", "10s"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := FromFlags(fs)
	if err != nil {
		t.Fatalf("from flags: %v", err)
	}
	if cfg.Addr != ":7001" || cfg.ResetDelay != 10*time.Second || cfg.Locale != "en" || cfg.Sink.Kind != SinkMemory {
		t.Fatalf("unexpected config %+v", cfg)
	}
	// Unset flags keep lower layers.
	if cfg.SessionTTL != Default().SessionTTL {
		t.Fatalf("session ttl overridden by default flag value")
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := Config{
		Addr:       " ",
		ResetDelay: 0,
		SessionTTL: -time.Second,
		Locale:     "fr",
		Sink:       SinkConfig{Kind: SinkSQLite},
		Log:        LogConfig{Level: "loud", Format: "xml"},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected errors")
	}
	for _, fragment := range []string{"addr", "reset_delay", "session_ttl", `"fr"`, "sink.dsn", `"loud"`, `"xml"`} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("missing %q in %v", fragment, err)
		}
	}

	cfg.Sink.Kind = "kafka"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), `unknown sink "kafka"`) {
		t.Fatalf("expected unknown sink error, got %v", err)
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
