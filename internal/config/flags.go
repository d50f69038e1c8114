package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	FlagConfig     = "config"
	FlagAddr       = "addr"
	FlagResetDelay = "reset-delay"
	FlagSessionTTL = "session-ttl"
	FlagLocale     = "locale"
	FlagSink       = "sink"
	FlagSQLiteDSN  = "sqlite-dsn"
	FlagLogLevel   = "log-level"
	FlagLogFormat  = "log-format"
)

// RegisterFlags declares the persistent flags that override file and
// environment settings. Defaults come from Default.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String(FlagConfig, "", "path to a YAML config file")
	fs.String(FlagAddr, def.Addr, "HTTP listen address")
	fs.Duration(FlagResetDelay, def.ResetDelay, "delay before a sent form resets")
	fs.Duration(FlagSessionTTL, def.SessionTTL, "idle time before a form session expires")
	fs.String(FlagLocale, def.Locale, "copy locale (es, en)")
	fs.String(FlagSink, def.Sink.Kind, "submission sink (discard, log, memory, sqlite)")
	fs.String(FlagSQLiteDSN, "", "SQLite DSN for the sqlite sink")
	fs.String(FlagLogLevel, def.Log.Level, "log level (debug, info, warn, error)")
	fs.String(FlagLogFormat, def.Log.Format, "log format (text, json)")
}

// FromFlags loads the file named by --config, applies the environment and
// then every flag the user set explicitly.
func FromFlags(fs *pflag.FlagSet) (Config, error) {
	path, err := fs.GetString(FlagConfig)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyFlags(fs, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyFlags copies the changed flags of fs onto cfg.
func ApplyFlags(fs *pflag.FlagSet, cfg *Config) error {
	var firstErr error
	fs.Visit(func(f *pflag.Flag) {
		if firstErr != nil {
			return
		}
		var err error
		switch f.Name {
		case FlagAddr:
			cfg.Addr, err = fs.GetString(f.Name)
		case FlagResetDelay:
			cfg.ResetDelay, err = fs.GetDuration(f.Name)
		case FlagSessionTTL:
			cfg.SessionTTL, err = fs.GetDuration(f.Name)
		case FlagLocale:
			cfg.Locale, err = fs.GetString(f.Name)
		case FlagSink:
			cfg.Sink.Kind, err = fs.GetString(f.Name)
		case FlagSQLiteDSN:
			cfg.Sink.DSN, err = fs.GetString(f.Name)
		case FlagLogLevel:
			cfg.Log.Level, err = fs.GetString(f.Name)
		case FlagLogFormat:
			cfg.Log.Format, err = fs.GetString(f.Name)
		}
		if err != nil {
			firstErr = fmt.Errorf("config: flag --%s: %w", f.Name, err)
		}
	})
	return firstErr
}
