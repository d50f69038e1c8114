package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/render"
)

// SessionCookie names the cookie carrying the form session id.
const SessionCookie = "contactform_session"

type session struct {
	id       string
	ctrl     *controller.Controller
	lastSeen time.Time
	// closed when the session is removed
	done chan struct{}
}

// sessionStore keeps one controller per browser session. Sessions idle for
// longer than ttl are closed by sweep.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
	factory  func() *controller.Controller
	logger   *slog.Logger
	closed   bool
}

func newSessionStore(ttl time.Duration, now func() time.Time, factory func() *controller.Controller, logger *slog.Logger) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      now,
		newID:    uuid.NewString,
		factory:  factory,
		logger:   logger,
	}
}

// get returns the live session for id and marks it as used.
func (s *sessionStore) get(id string) (*session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expiredLocked(sess) {
		s.removeLocked(sess)
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess, true
}

// touch marks sess as used while it is still live.
func (s *sessionStore) touch(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.sessions[sess.id]; ok && cur == sess {
		sess.lastSeen = s.now()
	}
}

func (s *sessionStore) create() (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, controller.ErrClosed
	}
	sess := &session{
		id:       s.newID(),
		ctrl:     s.factory(),
		lastSeen: s.now(),
		done:     make(chan struct{}),
	}
	s.sessions[sess.id] = sess
	s.logger.Debug("session created", slog.String("session_id", sess.id))
	return sess, nil
}

// acquire resolves the session of r from its cookie, or the hidden session
// field of a posted form, creating a new one and setting the cookie when
// neither names a live session.
func (s *sessionStore) acquire(w http.ResponseWriter, r *http.Request, secure bool) (*session, error) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.get(cookie.Value); ok {
			return sess, nil
		}
	}
	if r.Method == http.MethodPost && r.PostForm != nil {
		if sess, ok := s.get(r.PostForm.Get(render.SessionFieldName)); ok {
			return sess, nil
		}
	}

	sess, err := s.create()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl / time.Second),
	})
	return sess, nil
}

// sweep closes every expired session and reports how many were removed.
func (s *sessionStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, sess := range s.sessions {
		if s.expiredLocked(sess) {
			s.removeLocked(sess)
			removed++
		}
	}
	return removed
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// close stops every controller. Later creates fail with controller.ErrClosed.
func (s *sessionStore) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		s.removeLocked(sess)
	}
	s.closed = true
}

func (s *sessionStore) expiredLocked(sess *session) bool {
	return s.ttl > 0 && s.now().Sub(sess.lastSeen) > s.ttl
}

func (s *sessionStore) removeLocked(sess *session) {
	sess.ctrl.Close()
	close(sess.done)
	delete(s.sessions, sess.id)
	s.logger.Debug("session closed", slog.String("session_id", sess.id))
}
