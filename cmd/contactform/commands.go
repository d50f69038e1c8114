package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/internal/config"
	"github.com/goliatone/go-contactform/internal/logging"
	"github.com/goliatone/go-contactform/internal/server"
	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/jsonview"
	"github.com/goliatone/go-contactform/pkg/renderers/tui"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
	"github.com/goliatone/go-contactform/pkg/sink"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "contactform",
		Short:         "Contact form with inline validation",
		Long:          "contactform serves a validated contact form over HTTP, runs it in the terminal or renders it to HTML, JSON or text.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newServeCommand(),
		newPromptCommand(),
		newRenderCommand(),
		newOpenAPICommand(),
	)
	return root
}

// env bundles what every command needs from the configuration.
type env struct {
	cfg    config.Config
	logger *slog.Logger
}

func loadEnv(cmd *cobra.Command) (env, error) {
	cfg, err := config.FromFlags(cmd.Flags())
	if err != nil {
		return env{}, err
	}
	if err := cfg.Validate(); err != nil {
		return env{}, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return env{}, err
	}
	return env{cfg: cfg, logger: logger}, nil
}

// openSink builds the configured sink. The lister is nil when the sink does
// not keep submissions.
func openSink(ctx context.Context, cfg config.Config, logger *slog.Logger) (controller.Sink, sink.Lister, func() error, error) {
	noop := func() error { return nil }
	logSink := sink.NewLog(logging.WithComponent(logger, "sink"))

	switch cfg.Sink.Kind {
	case config.SinkDiscard:
		return sink.Discard{}, nil, noop, nil
	case config.SinkLog:
		return logSink, nil, noop, nil
	case config.SinkMemory:
		memory := sink.NewMemory()
		return sink.Multi{memory, logSink}, memory, noop, nil
	case config.SinkSQLite:
		db, err := sink.OpenSQLite(ctx, cfg.Sink.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		return sink.Multi{db, logSink}, db, db.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown sink %q", cfg.Sink.Kind)
	}
}

func themeConfig(cfg config.Config) *theme.RendererConfig {
	if cfg.Theme.Name == "" && cfg.Theme.Variant == "" && len(cfg.Theme.CSSVars) == 0 {
		return nil
	}
	return &theme.RendererConfig{
		Theme:   cfg.Theme.Name,
		Variant: cfg.Theme.Variant,
		CSSVars: cfg.Theme.CSSVars,
	}
}

func renderOptions(cfg config.Config) render.RenderOptions {
	opts := render.RenderOptions{Action: "/", Locale: cfg.Locale}
	if cfg.Copy != nil {
		merged := render.MergeCopy(render.DefaultCopy(cfg.Locale), *cfg.Copy)
		opts.Copy = &merged
	}
	return opts
}

func newServeCommand() *cobra.Command {
	var grace time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form and its JSON API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			submitSink, lister, closeSink, err := openSink(ctx, e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeSink(); err != nil {
					e.logger.Error("close sink", slog.Any("error", err))
				}
			}()

			html, err := vanilla.New(
				vanilla.WithTheme(themeConfig(e.cfg)),
				vanilla.WithRuntimeScript("/assets/"+vanilla.RuntimeScriptName),
			)
			if err != nil {
				return err
			}

			srv, err := server.New(ctx,
				server.WithLogger(logging.WithComponent(e.logger, "server")),
				server.WithSessionTTL(e.cfg.SessionTTL),
				server.WithLocale(e.cfg.Locale),
				server.WithCopy(e.cfg.Copy),
				server.WithHTMLRenderer(html),
				server.WithRenderer(tui.New()),
				server.WithSubmissions(lister),
				server.WithShutdownGrace(grace),
				server.WithControllerOptions(
					controller.WithSink(submitSink),
					controller.WithResetDelay(e.cfg.ResetDelay),
				),
			)
			if err != nil {
				return err
			}
			return srv.Run(ctx, e.cfg.Addr)
		},
	}
	cmd.Flags().DurationVar(&grace, "grace", 5*time.Second, "shutdown grace period")
	return cmd
}

func newPromptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Fill in and send the form in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			submitSink, _, closeSink, err := openSink(ctx, e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer closeSink()

			ctrl := controller.New(
				controller.WithSink(submitSink),
				controller.WithResetDelay(e.cfg.ResetDelay),
				controller.WithLogger(logging.WithComponent(e.logger, "controller")),
			)
			defer ctrl.Close()

			_, err = tui.New().Run(ctx, ctrl, renderOptions(e.cfg))
			if errors.Is(err, tui.ErrDeclined) {
				fmt.Fprintln(cmd.OutOrStdout(), "not sent")
				return nil
			}
			return err
		},
	}
}

type renderFlags struct {
	renderer string
	output   string
	fragment bool
	validate bool
	submit   bool
	values   []string
}

func newRenderCommand() *cobra.Command {
	flags := renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form for the given values",
		Example: `  contactform render --set name="Ana Gómez" --set email=ana@mail.com --validate
  contactform render --renderer json --locale en`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.output != "" {
				f, err := os.Create(flags.output)
				if err != nil {
					return fmt.Errorf("render: create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			return runRender(cmd.Context(), e, flags, out)
		},
	}
	cmd.Flags().StringVar(&flags.renderer, "renderer", "vanilla", "renderer (vanilla, json, tui)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&flags.fragment, "fragment", false, "HTML form markup only")
	cmd.Flags().BoolVar(&flags.validate, "validate", false, "show errors for every field")
	cmd.Flags().BoolVar(&flags.submit, "submit", false, "submit the values before rendering")
	cmd.Flags().StringArrayVar(&flags.values, "set", nil, "field value as field=value (name, email, message)")
	return cmd
}

func runRender(ctx context.Context, e env, flags renderFlags, out io.Writer) error {
	ctrl := controller.New(controller.WithResetDelay(e.cfg.ResetDelay))
	defer ctrl.Close()

	for _, pair := range flags.values {
		key, value, _ := strings.Cut(pair, "=")
		field, err := model.ParseField(key)
		if err != nil {
			return fmt.Errorf("render: --set %s: %w", key, err)
		}
		if err := ctrl.SetField(field, value); err != nil {
			return err
		}
	}
	if flags.validate {
		snap := ctrl.Snapshot()
		for _, field := range model.Fields() {
			if err := ctrl.ValidateOnBlur(field, snap.State.Get(field)); err != nil {
				return err
			}
		}
	}

	opts := renderOptions(e.cfg)
	opts.Fragment = flags.fragment
	if flags.submit {
		if _, err := ctrl.Submit(ctx); err != nil {
			opts.FormErrors = render.FormMessages(err)
		}
	}

	registry := render.NewRegistry()
	html, err := vanilla.New(vanilla.WithTheme(themeConfig(e.cfg)))
	if err != nil {
		return err
	}
	for _, r := range []render.Renderer{html, jsonview.New(jsonview.WithIndent("  ")), tui.New()} {
		if err := registry.Register(r); err != nil {
			return err
		}
	}
	renderer, err := registry.Resolve(strings.TrimSpace(flags.renderer))
	if err != nil {
		return err
	}

	data, err := renderer.Render(ctx, ctrl.Snapshot(), opts)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out)
	return err
}

func newOpenAPICommand() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the HTTP API document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asYAML {
				_, err := cmd.OutOrStdout().Write(server.OpenAPISpec())
				return err
			}
			doc, err := server.LoadAPIDocument(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
			return err
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the YAML source instead of JSON")
	return cmd
}
