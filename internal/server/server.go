// Package server hosts the contact form over HTTP: an HTML page, a JSON API
// driving one controller per browser session and a WebSocket stream of form
// views.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/goliatone/go-contactform/internal/logging"
	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/jsonview"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
	"github.com/goliatone/go-contactform/pkg/sink"
)

const (
	maxBodyBytes         = 64 << 10
	defaultSessionTTL    = 30 * time.Minute
	defaultShutdownGrace = 5 * time.Second
	writeTimeout         = 5 * time.Second
)

// Server is the HTTP host.
type Server struct {
	logger            *slog.Logger
	sessionTTL        time.Duration
	sweepInterval     time.Duration
	locale            string
	copy              *render.Copy
	controllerOptions []controller.Option
	submissions       sink.Lister
	html              render.Renderer
	extraRenderers    []render.Renderer
	defaultRenderer   string
	now               func() time.Time
	secureCookies     bool
	originPatterns    []string
	shutdownGrace     time.Duration

	renderers *render.Registry
	json      render.Renderer
	api       *apiDocument
	sessions  *sessionStore
	handler   http.Handler

	done      chan struct{}
	closeOnce sync.Once
}

// New loads the API document, builds the renderers and wires the routes.
func New(ctx context.Context, options ...Option) (*Server, error) {
	s := &Server{
		logger:        slog.New(slog.DiscardHandler),
		sessionTTL:    defaultSessionTTL,
		locale:        render.DefaultLocale,
		now:           time.Now,
		shutdownGrace: defaultShutdownGrace,
		done:          make(chan struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.sweepInterval == 0 {
		s.sweepInterval = s.sessionTTL / 2
	}

	api, err := loadAPIDocument(ctx)
	if err != nil {
		return nil, err
	}
	s.api = api

	if s.html == nil {
		html, err := vanilla.New(vanilla.WithRuntimeScript("/assets/" + vanilla.RuntimeScriptName))
		if err != nil {
			return nil, fmt.Errorf("server: html renderer: %w", err)
		}
		s.html = html
	}
	s.json = jsonview.New()

	s.renderers = render.NewRegistry()
	for _, r := range append([]render.Renderer{s.html, s.json}, s.extraRenderers...) {
		if err := s.renderers.Register(r); err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
	}
	fallback := s.defaultRenderer
	if fallback == "" {
		fallback = s.html.Name()
	}
	if err := s.renderers.SetDefault(fallback); err != nil {
		return nil, fmt.Errorf("server: default renderer: %w", err)
	}

	controllerLogger := logging.WithComponent(s.logger, "controller")
	s.sessions = newSessionStore(s.sessionTTL, s.now, func() *controller.Controller {
		opts := append([]controller.Option{controller.WithLogger(controllerLogger)}, s.controllerOptions...)
		return controller.New(opts...)
	}, logging.WithComponent(s.logger, "sessions"))

	s.handler = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()
	s.logger.Info("listening", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", slog.Duration("grace", s.shutdownGrace))
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// Close ends open streams and stops every session controller.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.sessions.close()
	})
}

func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			if removed := s.sessions.sweep(); removed > 0 {
				s.logger.Debug("expired sessions removed", slog.Int("count", removed))
			}
		}
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /{$}", s.handleFormPost)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/fields/{field}", s.handleField(false))
	mux.HandleFunc("POST /api/fields/{field}/blur", s.handleField(true))
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/stream", s.handleStream)
	mux.HandleFunc("GET /api/submissions", s.handleSubmissions)

	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return s.logRequests(s.api.validateRequests(mux))
}

func (s *Server) renderOptions(sess *session, formErrors []string) render.RenderOptions {
	return render.RenderOptions{
		Action:     "/",
		Locale:     s.locale,
		Copy:       s.localizedCopy(),
		Hidden:     []render.HiddenField{render.SessionField(sess.id)},
		FormErrors: formErrors,
	}
}

func (s *Server) localizedCopy() *render.Copy {
	if s.copy == nil {
		return nil
	}
	merged := render.MergeCopy(render.DefaultCopy(s.locale), *s.copy)
	return &merged
}
