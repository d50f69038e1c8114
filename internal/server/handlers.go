package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

const defaultSubmissionLimit = 50

type fieldPayload struct {
	Value string `json:"value"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	renderer, err := s.renderers.Resolve(r.URL.Query().Get("renderer"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	opts := s.renderOptions(sess, nil)
	opts.Fragment = r.URL.Query().Get("fragment") == "1"
	s.write(w, r, http.StatusOK, renderer, sess.ctrl.Snapshot(), opts)
}

// handleFormPost is the no-script path: every posted field is applied as if
// it lost focus, then the form is submitted. A post while the success banner
// is showing leaves the sent state untouched.
func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if sess.ctrl.Status() == model.StatusSucceeded {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	values := make(map[model.Field]string, len(model.Fields()))
	for key, posted := range r.PostForm {
		field, err := model.ParseField(key)
		if err != nil || len(posted) == 0 {
			continue
		}
		values[field] = posted[0]
	}
	for _, field := range model.Fields() {
		if err := sess.ctrl.ValidateOnBlur(field, values[field]); err != nil {
			s.fail(w, err)
			return
		}
	}

	_, err := sess.ctrl.Submit(r.Context())
	switch {
	case err == nil, errors.Is(err, controller.ErrAlreadySucceeded):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, controller.ErrClosed):
		s.fail(w, err)
	default:
		s.write(w, r, submitStatus(err), s.html, sess.ctrl.Snapshot(), s.renderOptions(sess, render.FormMessages(err)))
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.write(w, r, http.StatusOK, s.json, sess.ctrl.Snapshot(), s.renderOptions(sess, nil))
}

func (s *Server) handleField(blur bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field, err := model.ParseField(r.PathValue("field"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		var payload fieldPayload
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		sess, ok := s.session(w, r)
		if !ok {
			return
		}

		if blur {
			err = sess.ctrl.ValidateOnBlur(field, payload.Value)
		} else {
			err = sess.ctrl.SetField(field, payload.Value)
		}
		if err != nil {
			s.fail(w, err)
			return
		}
		s.write(w, r, http.StatusOK, s.json, sess.ctrl.Snapshot(), s.renderOptions(sess, nil))
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	_, err := sess.ctrl.Submit(r.Context())
	if errors.Is(err, controller.ErrClosed) {
		s.fail(w, err)
		return
	}
	s.write(w, r, submitStatus(err), s.json, sess.ctrl.Snapshot(), s.renderOptions(sess, render.FormMessages(err)))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.ctrl.Reset()
	s.write(w, r, http.StatusOK, s.json, sess.ctrl.Snapshot(), s.renderOptions(sess, nil))
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	if s.submissions == nil {
		writeError(w, http.StatusNotFound, "submissions are not stored by the configured sink")
		return
	}
	limit := defaultSubmissionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	items, err := s.submissions.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("list submissions", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "could not list submissions")
		return
	}
	if items == nil {
		items = []model.Submission{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.api.json)
}

// session resolves the caller's session, answering 503 once the server is
// closing.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, err := s.sessions.acquire(w, r, s.secureCookies)
	if err != nil {
		s.fail(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, renderer render.Renderer, snap model.Snapshot, opts render.RenderOptions) {
	out, err := renderer.Render(r.Context(), snap, opts)
	if err != nil {
		s.logger.Error("render", slog.String("renderer", renderer.Name()), slog.Any("error", err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		s.logger.Debug("write response", slog.Any("error", err))
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, controller.ErrClosed) {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}
	s.logger.Error("request failed", slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

// submitStatus maps the outcome of Submit onto an HTTP status.
func submitStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, controller.ErrNotSubmittable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, controller.ErrAlreadySucceeded):
		return http.StatusConflict
	case errors.Is(err, controller.ErrSinkFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Error: msg})
}
