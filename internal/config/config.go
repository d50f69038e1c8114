// Package config loads the contact form host settings from a YAML file,
// CONTACTFORM_* environment variables and command line flags, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contactform/internal/logging"
	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/render"
)

// Sink kinds.
const (
	SinkDiscard = "discard"
	SinkLog     = "log"
	SinkMemory  = "memory"
	SinkSQLite  = "sqlite"
)

// Config is the full host configuration.
type Config struct {
	Addr       string        `yaml:"addr" env:"CONTACTFORM_ADDR"`
	ResetDelay time.Duration `yaml:"reset_delay" env:"CONTACTFORM_RESET_DELAY"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"CONTACTFORM_SESSION_TTL"`
	Locale     string        `yaml:"locale" env:"CONTACTFORM_LOCALE"`

	Sink  SinkConfig  `yaml:"sink"`
	Log   LogConfig   `yaml:"log"`
	Theme ThemeConfig `yaml:"theme"`

	// Copy overrides individual texts of the locale catalog.
	Copy *render.Copy `yaml:"copy,omitempty"`
}

// SinkConfig selects where submissions go.
type SinkConfig struct {
	Kind string `yaml:"kind" env:"CONTACTFORM_SINK"`
	DSN  string `yaml:"dsn" env:"CONTACTFORM_SQLITE_DSN"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" env:"CONTACTFORM_LOG_LEVEL"`
	Format string `yaml:"format" env:"CONTACTFORM_LOG_FORMAT"`
}

// ThemeConfig feeds the HTML renderer theme.
type ThemeConfig struct {
	Name    string            `yaml:"name" env:"CONTACTFORM_THEME"`
	Variant string            `yaml:"variant" env:"CONTACTFORM_THEME_VARIANT"`
	CSSVars map[string]string `yaml:"css_vars" env:"CONTACTFORM_THEME_CSS_VARS"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Addr:       ":8080",
		ResetDelay: controller.DefaultResetDelay,
		SessionTTL: 30 * time.Minute,
		Locale:     render.DefaultLocale,
		Sink:       SinkConfig{Kind: SinkLog},
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

// Load starts from Default, applies the YAML file at path when path is not
// empty and then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Decode(data, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode overlays YAML data onto cfg. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with the CONTACTFORM_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("config: addr is required"))
	}
	if c.ResetDelay <= 0 {
		errs = append(errs, fmt.Errorf("config: reset_delay must be positive, got %s", c.ResetDelay))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("config: session_ttl must be positive, got %s", c.SessionTTL))
	}
	if !slices.Contains(render.Locales(), strings.ToLower(c.Locale)) {
		errs = append(errs, fmt.Errorf("config: unsupported locale %q", c.Locale))
	}
	switch c.Sink.Kind {
	case SinkDiscard, SinkLog, SinkMemory:
	case SinkSQLite:
		if strings.TrimSpace(c.Sink.DSN) == "" {
			errs = append(errs, errors.New("config: sink.dsn is required for the sqlite sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown sink %q", c.Sink.Kind))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	return errors.Join(errs...)
}
