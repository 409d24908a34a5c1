// Package server exposes a scene's accessibility tree and focus navigation
// over HTTP, for inspecting a running scene from outside the process.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phanxgames/arbor"
)

// Navigator is the part of the accessibility state the server drives. Every
// method must be safe to call from HTTP handler goroutines;
// *arbor.AccessibilityState is.
type Navigator interface {
	Snapshot() arbor.TreeUpdate
	FocusID() arbor.AccessibilityID
	SetFocus(id arbor.AccessibilityID) bool
	FocusNext(dir arbor.FocusDirection) bool
}

var _ Navigator = (*arbor.AccessibilityState)(nil)

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer serves the gatherer's metrics on /metrics. Without it the
// route is not mounted.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// Server holds the handler dependencies.
type Server struct {
	nav      Navigator
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// FocusResponse is the body of every /focus route.
type FocusResponse struct {
	Focus arbor.AccessibilityID `json:"focus"`
	Moved bool                  `json:"moved"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler returns the HTTP handler for nav:
//
//	GET    /tree          full accessibility tree
//	GET    /focus         current focus
//	POST   /focus/next    move focus forward
//	POST   /focus/prev    move focus backward
//	PUT    /focus/{id}    focus a node by accessibility id
//	DELETE /focus         clear focus
//	GET    /metrics       Prometheus metrics (WithGatherer)
func NewHandler(nav Navigator, opts ...Option) http.Handler {
	s := &Server{nav: nav}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/tree", s.getTree)
	r.Route("/focus", func(r chi.Router) {
		r.Get("/", s.getFocus)
		r.Delete("/", s.clearFocus)
		r.Post("/next", s.moveFocus(arbor.FocusForward))
		r.Post("/prev", s.moveFocus(arbor.FocusBackward))
		r.Put("/{id}", s.setFocus)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status())
	})
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.nav.Snapshot())
}

func (s *Server) getFocus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, FocusResponse{Focus: s.nav.FocusID()})
}

func (s *Server) clearFocus(w http.ResponseWriter, r *http.Request) {
	moved := !s.nav.FocusID().IsZero()
	s.nav.SetFocus(arbor.AccessibilityID{})
	s.writeJSON(w, http.StatusOK, FocusResponse{Moved: moved})
}

func (s *Server) moveFocus(dir arbor.FocusDirection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.nav.FocusNext(dir) {
			s.writeError(w, http.StatusConflict, errors.New("no accessible nodes"))
			return
		}
		s.writeJSON(w, http.StatusOK, FocusResponse{Focus: s.nav.FocusID(), Moved: true})
	}
}

func (s *Server) setFocus(w http.ResponseWriter, r *http.Request) {
	id, err := arbor.ParseAccessibilityID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if !s.nav.SetFocus(id) {
		s.writeError(w, http.StatusNotFound, arbor.ErrMissingTarget)
		return
	}
	s.writeJSON(w, http.StatusOK, FocusResponse{Focus: s.nav.FocusID(), Moved: true})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
