package debug

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/campmap/campmap/internal/editor"
)

// Server serves the debug HTTP surface for one session.
type Server struct {
	session  *editor.Session
	registry *prometheus.Registry
	log      zerolog.Logger

	httpSrv *http.Server
}

// NewServer builds a debug server bound to a session. registry may be nil
// to disable the /metrics endpoint.
func NewServer(session *editor.Session, registry *prometheus.Registry, logger zerolog.Logger) *Server {
	return &Server{session: session, registry: registry, log: logger}
}

// Router assembles the debug routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/debug", func(r chi.Router) {
		r.Get("/report", s.handleReport)
		r.Get("/leaks", s.handleLeaks)
		r.Get("/events", s.handleEvents)
		r.Get("/deadletters", s.handleDeadLetters)
		r.Post("/deadletters/retry", s.handleRetry)
	})
	return r
}

// ListenAndServe runs the debug server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("debug server listening")
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "session": s.session.ID})
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, Snapshot(s.session))
}

func (s *Server) handleLeaks(w http.ResponseWriter, r *http.Request) {
	threshold := 10
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "threshold must be a positive integer"})
			return
		}
		threshold = n
	}
	leaks := FindLeaks(s.session.Events, threshold)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"threshold": threshold,
		"leaks":     leaks,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": s.session.Events.History(),
		"trace":   s.session.Events.Trace(),
	})
}

func (s *Server) handleDeadLetters(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"dead_letters": s.session.Events.DeadLetters(),
	})
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	delivered := s.session.Events.RetryDeadLetters(r.Context())
	remaining := len(s.session.Events.DeadLetters())
	s.log.Info().Int("delivered", delivered).Int("remaining", remaining).Msg("dead letters retried")
	s.writeJSON(w, http.StatusOK, map[string]int{
		"delivered": delivered,
		"remaining": remaining,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("write debug response")
	}
}
