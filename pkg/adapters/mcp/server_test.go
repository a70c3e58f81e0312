package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/tally"
	tallymcp "github.com/aretw0/tally/pkg/adapters/mcp"
	"github.com/aretw0/tally/pkg/adapters/memory"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*tallymcp.Server, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(memory.NewStore())
	return tallymcp.NewServer(tally.New(), sessions, tally.Version), sessions
}

func call(t *testing.T, s *tallymcp.Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.MCPServer().GetTool(name)
	require.NotNil(t, tool, "tool %s not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	return res
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestServer_Tools(t *testing.T) {
	s, _ := newServer(t)
	tools := s.MCPServer().ListTools()
	for _, name := range []string{"press_keys", "get_display", "clear_session", "list_sessions"} {
		assert.Contains(t, tools, name)
	}
}

func TestServer_PressKeys(t *testing.T) {
	s, sessions := newServer(t)

	res := call(t, s, "press_keys", map[string]any{"session_id": "agent", "keys": "12 + 30"})
	require.False(t, res.IsError, textOf(t, res))

	res = call(t, s, "press_keys", map[string]any{"session_id": "agent", "keys": "="})
	require.False(t, res.IsError, textOf(t, res))

	view, ok := res.StructuredContent.(tallymcp.StateResponse)
	require.True(t, ok)
	assert.Equal(t, "42", view.Output)
	assert.Equal(t, string(domain.PhaseResultDisplayed), view.Phase)

	var decoded tallymcp.StateResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &decoded))
	assert.Equal(t, view, decoded)

	stored, err := sessions.Load(context.Background(), "agent")
	require.NoError(t, err)
	assert.Equal(t, "42", stored.DisplayValue)
}

func TestServer_PressKeys_ErrorLatch(t *testing.T) {
	s, _ := newServer(t)

	res := call(t, s, "press_keys", map[string]any{"session_id": "z", "keys": "7 ÷ 0 = 5"})
	require.False(t, res.IsError)
	view := res.StructuredContent.(tallymcp.StateResponse)
	assert.Equal(t, domain.MessageError, view.Output)
	assert.Equal(t, domain.MessageError, view.ErrorMessage)

	res = call(t, s, "press_keys", map[string]any{"session_id": "z", "keys": "AC"})
	view = res.StructuredContent.(tallymcp.StateResponse)
	assert.Equal(t, "0", view.Output)
	assert.Empty(t, view.ErrorMessage)
}

func TestServer_PressKeys_Rejected(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"unknown key", map[string]any{"session_id": "a", "keys": "5 * 3"}},
		{"empty keys", map[string]any{"session_id": "a", "keys": "   "}},
		{"bad session id", map[string]any{"session_id": "../etc", "keys": "1"}},
		{"missing session id", map[string]any{"keys": "1"}},
		{"control characters", map[string]any{"session_id": "a", "keys": "1\x1b[2J"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, sessions := newServer(t)
			res := call(t, s, "press_keys", tt.args)
			assert.True(t, res.IsError)

			ids, err := sessions.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, ids)
		})
	}
}

func TestServer_GetDisplay(t *testing.T) {
	s, _ := newServer(t)

	res := call(t, s, "get_display", map[string]any{"session_id": "missing"})
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "not found")

	call(t, s, "press_keys", map[string]any{"session_id": "d", "keys": "2.5 ×"})
	res = call(t, s, "get_display", map[string]any{"session_id": "d"})
	require.False(t, res.IsError)

	view := res.StructuredContent.(tallymcp.StateResponse)
	assert.Equal(t, "2.5", view.Output)
	assert.Equal(t, "2.5", view.PreviousValue)
	assert.Equal(t, "×", view.Operator)
	assert.Equal(t, string(domain.PhaseOperatorPending), view.Phase)
}

func TestServer_ClearAndList(t *testing.T) {
	s, _ := newServer(t)

	call(t, s, "press_keys", map[string]any{"session_id": "b", "keys": "1"})
	call(t, s, "press_keys", map[string]any{"session_id": "a", "keys": "2"})

	res := call(t, s, "list_sessions", nil)
	require.False(t, res.IsError)
	assert.Equal(t, []string{"a", "b"}, res.StructuredContent.(tallymcp.SessionListResponse).Sessions)

	res = call(t, s, "clear_session", map[string]any{"session_id": "a"})
	require.False(t, res.IsError)
	assert.Equal(t, "session a cleared", textOf(t, res))

	res = call(t, s, "list_sessions", nil)
	assert.Equal(t, []string{"b"}, res.StructuredContent.(tallymcp.SessionListResponse).Sessions)

	res = call(t, s, "clear_session", map[string]any{"session_id": ""})
	assert.True(t, res.IsError)
}

func TestServer_SessionsResource(t *testing.T) {
	s, _ := newServer(t)
	call(t, s, "press_keys", map[string]any{"session_id": "r", "keys": "9"})

	msg := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"tally://sessions"}}`))

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Contents []struct {
				URI  string `json:"uri"`
				Text string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Len(t, resp.Result.Contents, 1)
	assert.Equal(t, tallymcp.SessionsURI, resp.Result.Contents[0].URI)
	assert.JSONEq(t, `{"sessions":["r"]}`, resp.Result.Contents[0].Text)
}
