package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/aretw0/tally/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server implements ServerInterface on top of a session manager.
type Server struct {
	Engine   ports.KeyApplier
	Sessions *session.Manager
	Streams  *StreamManager
	logger   *slog.Logger
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the handler.
type Option func(*handlerConfig)

type handlerConfig struct {
	logger  *slog.Logger
	streams *StreamManager
	mounts  map[string]http.Handler
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *handlerConfig) {
		c.logger = logger
	}
}

// WithStreamManager shares an SSE hub with other producers.
func WithStreamManager(sm *StreamManager) Option {
	return func(c *handlerConfig) {
		c.streams = sm
	}
}

// WithMount serves an extra handler (e.g. /metrics) next to the API.
func WithMount(pattern string, h http.Handler) Option {
	return func(c *handlerConfig) {
		if c.mounts == nil {
			c.mounts = make(map[string]http.Handler)
		}
		c.mounts[pattern] = h
	}
}

// NewHandler creates a new HTTP handler for the engine.
// It fails only when the embedded OpenAPI document is invalid.
func NewHandler(engine ports.KeyApplier, sessions *session.Manager, opts ...Option) (http.Handler, error) {
	cfg := &handlerConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.streams == nil {
		cfg.streams = NewStreamManager(cfg.logger)
	}

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validator, err := validateRequests(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}

	server := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  cfg.streams,
		logger:   cfg.logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := rawSpec()
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(raw)
	})
	for pattern, h := range cfg.mounts {
		r.Handle(pattern, h)
	}

	r.Group(func(r chi.Router) {
		r.Use(validator)
		HandlerFromMux(server, r)
	})

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, r, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, SessionList{Sessions: ids})
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, id string) {
	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.fail(w, r, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, NewStateView(id, state))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, r, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles the POST /sessions/{id}/keys request.
func (s *Server) PressKeys(w http.ResponseWriter, r *http.Request, id string) {
	var body KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		s.logger.Warn("PressKeys: Invalid request body", "err", err)
		return
	}

	if len(body.Keys) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("keys must not be empty"))
		return
	}

	// Sanitize Input (Global Policy)
	tokens := make([]string, len(body.Keys))
	for i, tok := range body.Keys {
		clean, err := runner.SanitizeInput(tok)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid key %d: %w", i, err))
			s.logger.Warn("PressKeys: Input rejected", "err", err, "size", len(tok))
			return
		}
		tokens[i] = clean
	}

	keys, err := domain.ParseTokens(tokens)
	if err != nil {
		s.fail(w, r, "PressKeys", err)
		return
	}

	var before *domain.State
	after, err := s.Sessions.Update(r.Context(), id, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		before = state
		return s.Engine.Apply(ctx, state, keys...)
	})
	if err != nil {
		s.fail(w, r, "PressKeys", err)
		return
	}

	if diff := domain.Diff(before, after); diff != nil {
		diff.SessionID = id
		if payload, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(id, string(payload))
		}
	}

	writeJSON(w, http.StatusOK, NewStateView(id, after))
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, id string) {
	if err := domain.ValidateSessionID(id); err != nil {
		s.fail(w, r, "SubscribeEvents", err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// NewStateView maps a domain state to its JSON representation.
func NewStateView(id string, s *domain.State) StateView {
	return StateView{
		SessionID:     id,
		DisplayValue:  s.DisplayValue,
		CurrentInput:  s.CurrentInput,
		Operator:      string(s.Operator),
		PreviousValue: s.PreviousValue,
		ErrorMessage:  s.ErrorMessage,
		Output:        s.Output(),
		Phase:         string(s.Phase()),
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
	} else {
		s.logger.Debug(op+" rejected", "err", err, "status", status)
	}
	writeError(w, status, err)
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownKey),
		errors.Is(err, domain.ErrEmptySessionID),
		errors.Is(err, domain.ErrInvalidSessionID):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
