package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maudeview/agent-go/internal/message"
	"github.com/maudeview/agent-go/internal/schema"
)

func TestLMStudio_Send(t *testing.T) {
	var captured struct {
		path    string
		apiKey  string
		version string
		payload map[string]any
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.apiKey = r.Header.Get("x-api-key")
		captured.version = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.payload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"content": [
				{"type":"text","text":"Switching the chart now."},
				{"type":"tool_use","id":"toolu_01","name":"set_symbol","input":{"symbol":"NASDAQ:AAPL"}}
			],
			"stop_reason": "tool_use"
		}`))
	}))
	defer server.Close()

	gw := NewLMStudio(LMStudioConfig{BaseURL: server.URL, Model: "qwen2.5-32b"})

	tools := []schema.Tool{{
		Name:        "set_symbol",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}}
	history := []message.Message{message.NewUserText("show AAPL")}

	resp, err := gw.Send(context.Background(), "You manage charts.", history, tools)
	require.NoError(t, err)

	assert.Equal(t, "/v1/messages", captured.path)
	assert.Equal(t, "lmstudio", captured.apiKey, "default auth token")
	assert.Equal(t, anthropicVersion, captured.version)
	assert.Equal(t, "qwen2.5-32b", captured.payload["model"])
	assert.Equal(t, "You manage charts.", captured.payload["system"])
	assert.Equal(t, float64(defaultMaxTokens), captured.payload["max_tokens"])

	sentTools := captured.payload["tools"].([]any)
	require.Len(t, sentTools, 1)
	assert.Contains(t, sentTools[0].(map[string]any), "input_schema")

	assert.Equal(t, "tool_use", resp.StopReason)
	require.Len(t, resp.Content, 2)

	textBlock := resp.Content[0].(*message.TextBlock)
	assert.Equal(t, "Switching the chart now.", textBlock.Text)

	toolUse := resp.Content[1].(*message.ToolUseBlock)
	assert.Equal(t, "toolu_01", toolUse.ID)
	assert.Equal(t, "set_symbol", toolUse.Name)
}

func TestLMStudio_Send_SkipsUnknownBlockTypes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"content": [
				{"type":"thinking","thinking":"let me see"},
				{"type":"text","text":"Done."}
			],
			"stop_reason": "end_turn"
		}`))
	}))
	defer server.Close()

	gw := NewLMStudio(LMStudioConfig{BaseURL: server.URL})

	resp, err := gw.Send(context.Background(), "", nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.Content, 1)
	assert.Equal(t, message.BlockTypeText, resp.Content[0].BlockType())
}

func TestLMStudio_Send_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model not loaded"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	gw := NewLMStudio(LMStudioConfig{BaseURL: server.URL})

	_, err := gw.Send(context.Background(), "", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestLMStudio_Send_ConnectionRefused(t *testing.T) {
	// A server that is immediately closed yields a connection error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	gw := NewLMStudio(LMStudioConfig{BaseURL: server.URL})

	_, err := gw.Send(context.Background(), "", nil, nil)
	require.Error(t, err)
}

func TestLMStudio_Send_OmitsEmptyTools(t *testing.T) {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	gw := NewLMStudio(LMStudioConfig{BaseURL: server.URL})

	_, err := gw.Send(context.Background(), "", []message.Message{message.NewUserText("hi")}, nil)
	require.NoError(t, err)
	assert.NotContains(t, payload, "tools")
}
