package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

// latestSnapshot keeps only the newest snapshot handed to it so a slow
// client skips intermediate states instead of blocking the controller.
type latestSnapshot struct {
	mu      sync.Mutex
	pending model.Snapshot
	has     bool
	ready   chan struct{}
}

func newLatestSnapshot() *latestSnapshot {
	return &latestSnapshot{ready: make(chan struct{}, 1)}
}

func (l *latestSnapshot) offer(snap model.Snapshot) {
	l.mu.Lock()
	if !l.has || snap.Version > l.pending.Version {
		l.pending = snap
		l.has = true
	}
	l.mu.Unlock()
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

func (l *latestSnapshot) take() (model.Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap, ok := l.pending, l.has
	l.has = false
	return snap, ok
}

// handleStream pushes the form view of the caller's session on every
// change, including the timed reset after a submit. Each push keeps the
// session alive; the stream closes with going-away once the session is
// removed.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		s.logger.Warn("websocket accept", slog.Any("error", err))
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())
	latest := newLatestSnapshot()
	cancel := sess.ctrl.Subscribe(latest.offer)
	defer cancel()

	opts := s.renderOptions(sess, nil)
	var (
		sent    bool
		version uint64
	)
	send := func(snap model.Snapshot) error {
		if sent && snap.Version <= version {
			return nil
		}
		sent, version = true, snap.Version
		s.sessions.touch(sess)
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		defer cancel()
		return wsjson.Write(writeCtx, conn, render.BuildView(snap, opts))
	}

	if err := send(sess.ctrl.Snapshot()); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		case <-sess.done:
			conn.Close(websocket.StatusGoingAway, "session expired")
			return
		case <-latest.ready:
			snap, ok := latest.take()
			if !ok {
				continue
			}
			if err := send(snap); err != nil {
				s.logger.Debug("stream write", slog.String("session_id", sess.id), slog.Any("error", err))
				return
			}
		}
	}
}
