package server

import (
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/sink"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for requests, sessions and controllers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionTTL sets how long an idle form session survives.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithSweepInterval sets how often expired sessions are collected.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Server) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithLocale selects the copy catalog.
func WithLocale(locale string) Option {
	return func(s *Server) {
		s.locale = strings.TrimSpace(locale)
	}
}

// WithCopy overrides texts of the locale catalog.
func WithCopy(texts *render.Copy) Option {
	return func(s *Server) {
		s.copy = texts
	}
}

// WithControllerOptions are applied to every session controller.
func WithControllerOptions(options ...controller.Option) Option {
	return func(s *Server) {
		s.controllerOptions = append(s.controllerOptions, options...)
	}
}

// WithSubmissions enables GET /api/submissions backed by lister.
func WithSubmissions(lister sink.Lister) Option {
	return func(s *Server) {
		s.submissions = lister
	}
}

// WithRenderer registers an extra renderer selectable with ?renderer=name.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.extraRenderers = append(s.extraRenderers, renderer)
		}
	}
}

// WithDefaultRenderer names the renderer GET / uses when the request does not
// pick one. It defaults to the HTML renderer.
func WithDefaultRenderer(name string) Option {
	return func(s *Server) {
		s.defaultRenderer = strings.TrimSpace(name)
	}
}

// WithHTMLRenderer replaces the default HTML renderer.
func WithHTMLRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.html = renderer
		}
	}
}

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}

// WithOriginPatterns lists extra origins allowed to open the stream.
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) {
		s.originPatterns = append(s.originPatterns, patterns...)
	}
}

// WithShutdownGrace bounds how long Run waits for in-flight requests.
func WithShutdownGrace(grace time.Duration) Option {
	return func(s *Server) {
		if grace > 0 {
			s.shutdownGrace = grace
		}
	}
}
