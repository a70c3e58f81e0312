package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/aretw0/tally/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SessionsURI is the resource listing the known calculator sessions.
const SessionsURI = "tally://sessions"

// StateResponse mirrors the HTTP StateView so agents see one shape everywhere.
type StateResponse struct {
	SessionID     string `json:"session_id" jsonschema_description:"Calculator session identifier"`
	DisplayValue  string `json:"display_value" jsonschema_description:"Text on the display when no error is latched"`
	CurrentInput  string `json:"current_input" jsonschema_description:"Operand being typed, empty when none"`
	Operator      string `json:"operator,omitempty" jsonschema_description:"Pending operator glyph"`
	PreviousValue string `json:"previous_value,omitempty" jsonschema_description:"Stored left operand"`
	ErrorMessage  string `json:"error_message,omitempty" jsonschema_description:"Latched error text"`
	Output        string `json:"output" jsonschema_description:"What the calculator screen shows"`
	Phase         string `json:"phase" jsonschema_description:"idle, entering, operator_pending, result_displayed or error_latched"`
}

// PressKeysArgs are the arguments of the press_keys tool.
type PressKeysArgs struct {
	SessionID string `json:"session_id"`
	Keys      string `json:"keys"`
}

// SessionArgs identify a single session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// SessionListResponse is returned by list_sessions.
type SessionListResponse struct {
	Sessions []string `json:"sessions" jsonschema_description:"Known session identifiers"`
}

// Server exposes calculator sessions as MCP tools.
type Server struct {
	engine    ports.KeyApplier
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used by tool handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.KeyApplier, sessions *session.Manager, version string, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = server.NewMCPServer("tally-mcp", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	pressTool := mcp.NewTool("press_keys",
		mcp.WithDescription("Press calculator keys on a session and return the new state. "+
			"Keys are space separated: digits, numerals such as 12.5, 00, '.', '+', '-', '×', '÷', '=', AC, CE, BS."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier; created on first use")),
		mcp.WithString("keys", mcp.Required(), mcp.Description("Key sequence, e.g. \"12 + 30 =\"")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(pressTool, mcp.NewStructuredToolHandler(s.handlePressKeys))

	displayTool := mcp.NewTool("get_display",
		mcp.WithDescription("Read the current state of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(displayTool, mcp.NewStructuredToolHandler(s.handleGetDisplay))

	clearTool := mcp.NewTool("clear_session",
		mcp.WithDescription("Delete a session. The next press starts from a cleared calculator."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	)
	s.mcpServer.AddTool(clearTool, mcp.NewTypedToolHandler(s.handleClearSession))

	listTool := mcp.NewTool("list_sessions",
		mcp.WithDescription("List the known calculator sessions."),
		mcp.WithOutputSchema[SessionListResponse](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListSessions))
}

func (s *Server) handlePressKeys(ctx context.Context, _ mcp.CallToolRequest, args PressKeysArgs) (StateResponse, error) {
	clean, err := runner.SanitizeInput(args.Keys)
	if err != nil {
		s.logger.Warn("MCP PressKeys: Input rejected", "err", err, "size", len(args.Keys))
		return StateResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	keys, err := domain.ParseKeys(clean)
	if err != nil {
		return StateResponse{}, err
	}
	if len(keys) == 0 {
		return StateResponse{}, errors.New("keys must not be empty")
	}

	state, err := s.sessions.Update(ctx, args.SessionID, func(ctx context.Context, st *domain.State) (*domain.State, error) {
		return s.engine.Apply(ctx, st, keys...)
	})
	if err != nil {
		return StateResponse{}, err
	}

	s.logger.Debug("MCP PressKeys", "session_id", args.SessionID, "keys", len(keys), "output", state.Output())
	return NewStateResponse(args.SessionID, state), nil
}

func (s *Server) handleGetDisplay(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (StateResponse, error) {
	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return StateResponse{}, err
	}
	return NewStateResponse(args.SessionID, state), nil
}

func (s *Server) handleClearSession(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (*mcp.CallToolResult, error) {
	if err := s.sessions.Delete(ctx, args.SessionID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clear failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("session %s cleared", args.SessionID)), nil
}

func (s *Server) handleListSessions(ctx context.Context, _ mcp.CallToolRequest, _ struct{}) (SessionListResponse, error) {
	ids, err := s.sessions.List(ctx)
	if err != nil {
		return SessionListResponse{}, err
	}
	if ids == nil {
		ids = []string{}
	}
	return SessionListResponse{Sessions: ids}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SessionsURI, "Calculator Sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		jsonBytes, _ := json.Marshal(SessionListResponse{Sessions: ids})

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SessionsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// NewStateResponse maps a domain state to the tool output.
func NewStateResponse(id string, s *domain.State) StateResponse {
	return StateResponse{
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
