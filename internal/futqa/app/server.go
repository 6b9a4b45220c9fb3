package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bdobrica/futqa/common/trace"
	"github.com/bdobrica/futqa/common/version"
	"github.com/bdobrica/futqa/internal/futqa/backend"
	"github.com/bdobrica/futqa/internal/futqa/engine"
	"github.com/bdobrica/futqa/internal/futqa/learning"
	"github.com/bdobrica/futqa/internal/futqa/memory"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// Server exposes the engine over HTTP:
//
//	GET    /health
//	GET    /status
//	POST   /ask            {session_id?, question}
//	POST   /feedback       {interaction_id, feedback}
//	GET    /sessions/{id}
//	DELETE /sessions/{id}
type Server struct {
	addr      string
	engine    *engine.Engine
	sessions  *memory.Sessions
	counter   interactionCounter
	logger    *slog.Logger
	startedAt time.Time
	server    *http.Server
	mux       *http.ServeMux
}

// interactionCounter is the minimal interface the server needs from the
// interaction store.
type interactionCounter interface {
	InteractionCount(ctx context.Context) (int, error)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

type statusResponse struct {
	Status           string        `json:"status"`
	Version          string        `json:"version"`
	Commit           string        `json:"commit"`
	BuildTime        string        `json:"build_time"`
	StartedAt        time.Time     `json:"started_at"`
	UptimeSecs       float64       `json:"uptime_seconds"`
	InteractionCount int           `json:"interaction_count"`
	Sessions         int           `json:"sessions"`
	Engine           engine.Status `json:"engine"`
}

type askRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type askResponse struct {
	Answer        string  `json:"answer"`
	Confidence    float64 `json:"confidence"`
	Strategy      string  `json:"strategy_used"`
	Category      string  `json:"category"`
	SessionID     string  `json:"session_id"`
	InteractionID string  `json:"interaction_id"`
}

type feedbackRequest struct {
	InteractionID string `json:"interaction_id"`
	Feedback      string `json:"feedback"`
}

type sessionResponse struct {
	SessionID string        `json:"session_id"`
	Summary   string        `json:"summary"`
	Turns     []memory.Turn `json:"turns"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates and configures the HTTP server (does not start it).
// counter may be nil, in which case the interaction count comes from the
// engine's in-memory statistics.
func NewServer(addr string, eng *engine.Engine, sessions *memory.Sessions, counter interactionCounter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	s := &Server{
		addr:      addr,
		engine:    eng,
		sessions:  sessions,
		counter:   counter,
		logger:    logger,
		startedAt: time.Now(),
		mux:       mux,
	}
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("POST /feedback", s.handleFeedback)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	return s
}

// ServeHTTP implements http.Handler so the server can be tested without a
// live network listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run listens on addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("app: listen %s: %w", s.addr, err)
	}

	s.server = &http.Server{
		Handler:      s,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http server shutdown error", "err", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: version.Version,
		Commit:  version.GitCommit,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.engine.Status()
	count := 0
	if st.Learning != nil {
		count = st.Learning.Total
	}
	if s.counter != nil {
		if n, err := s.counter.InteractionCount(r.Context()); err == nil {
			count = n
		} else {
			s.logger.Warn("status: count interactions", "err", err)
		}
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:           "ok",
		Version:          version.Version,
		Commit:           version.GitCommit,
		BuildTime:        version.BuildTime,
		StartedAt:        s.startedAt,
		UptimeSecs:       time.Since(s.startedAt).Seconds(),
		InteractionCount: count,
		Sessions:         s.sessions.Len(),
		Engine:           st,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	ctx := trace.WithTraceID(r.Context(), trace.GenerateID())
	ctx = backend.WithSession(ctx, req.SessionID)

	var resp engine.Response
	sessionID := s.sessions.Do(ctx, req.SessionID, func(mem *memory.Memory) {
		resp = s.engine.Ask(ctx, req.Question, mem)
	})

	writeJSON(w, http.StatusOK, askResponse{
		Answer:        resp.Answer,
		Confidence:    resp.Confidence,
		Strategy:      resp.Strategy,
		Category:      string(resp.Analysis.Category),
		SessionID:     sessionID,
		InteractionID: resp.InteractionID,
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.InteractionID == "" || strings.TrimSpace(req.Feedback) == "" {
		writeError(w, http.StatusBadRequest, "interaction_id and feedback are required")
		return
	}

	err := s.engine.Feedback(r.Context(), req.InteractionID, req.Feedback)
	switch {
	case errors.Is(err, learning.ErrUnknownInteraction):
		writeError(w, http.StatusNotFound, "unknown interaction")
	case err != nil:
		s.logger.Error("feedback failed", "interaction_id", req.InteractionID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not record feedback")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	turns, summary, ok := s.sessions.Get(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, Summary: summary, Turns: turns})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(r.Context(), r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON reads a JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeJSON serialises v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("app: failed to encode JSON response", "err", err)
	}
}
