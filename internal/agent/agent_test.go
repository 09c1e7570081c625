package agent

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maudeview/agent-go/internal/errors"
	"github.com/maudeview/agent-go/internal/gateway"
	"github.com/maudeview/agent-go/internal/message"
	"github.com/maudeview/agent-go/internal/protocol"
	"github.com/maudeview/agent-go/internal/schema"
)

// sendCall captures one gateway invocation.
type sendCall struct {
	system  string
	history []message.Message
	tools   []schema.Tool
}

// fakeGateway replays scripted responses; once the script is exhausted, the
// last response repeats (useful for turn-budget tests).
type fakeGateway struct {
	responses []*gateway.Response
	err       error
	calls     []sendCall
}

func (f *fakeGateway) Send(
	_ context.Context,
	system string,
	messages []message.Message,
	tools []schema.Tool,
) (*gateway.Response, error) {
	f.calls = append(f.calls, sendCall{
		system:  system,
		history: append([]message.Message(nil), messages...),
		tools:   tools,
	})

	if f.err != nil {
		return nil, f.err
	}

	idx := len(f.calls) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}

	return f.responses[idx], nil
}

type toolResult struct {
	text    string
	isError bool
	err     error
}

type fakeToolClient struct {
	descriptors []protocol.ToolDescriptor
	startErr    error
	results     map[string]toolResult
	calls       []string
	stopped     int
}

func (f *fakeToolClient) Start(context.Context) ([]protocol.ToolDescriptor, error) {
	return f.descriptors, f.startErr
}

func (f *fakeToolClient) CallTool(_ context.Context, name string, _ map[string]any) (string, bool, error) {
	f.calls = append(f.calls, name)

	res, ok := f.results[name]
	if !ok {
		return "ok", false, nil
	}

	return res.text, res.isError, res.err
}

func (f *fakeToolClient) Stop() { f.stopped++ }

func textResponse(texts ...string) *gateway.Response {
	blocks := make([]message.ContentBlock, 0, len(texts))
	for _, t := range texts {
		blocks = append(blocks, message.NewText(t))
	}

	return &gateway.Response{Content: blocks, StopReason: "end_turn"}
}

func toolUse(id, name string) *message.ToolUseBlock {
	return &message.ToolUseBlock{
		Type:  message.BlockTypeToolUse,
		ID:    id,
		Name:  name,
		Input: map[string]any{},
	}
}

func startedAgent(t *testing.T, gw gateway.Gateway, tools *fakeToolClient, maxTurns int) *Agent {
	t.Helper()

	if tools.descriptors == nil {
		tools.descriptors = []protocol.ToolDescriptor{
			{Name: "list_charts", InputSchema: map[string]any{"type": "object"}},
			{Name: "set_symbol"},
		}
	}

	a := New(Config{
		SystemPrompt: "You manage TradingView charts.",
		AllowedTools: []string{"list_charts", "set_symbol"},
		MaxTurns:     maxTurns,
		Gateway:      gw,
		ToolClient:   tools,
	})
	require.NoError(t, a.Start(context.Background()))

	return a
}

func TestQuery_TextOnlyResponse(t *testing.T) {
	gw := &fakeGateway{responses: []*gateway.Response{textResponse("Hello")}}
	tools := &fakeToolClient{}
	a := startedAgent(t, gw, tools, 0)

	resp, err := a.Query(context.Background(), "hi")
	require.NoError(t, err)

	assert.Equal(t, "Hello", resp.Text)
	assert.Empty(t, resp.ToolCallsMade)
	assert.NotNil(t, resp.ToolCallsMade, "tool-call history must be an empty list, not nil")
	assert.Empty(t, tools.calls, "no tools may run on a text-only turn")
}

func TestQuery_EmptyContentYieldsSentinel(t *testing.T) {
	gw := &fakeGateway{responses: []*gateway.Response{{Content: nil, StopReason: "end_turn"}}}
	a := startedAgent(t, gw, &fakeToolClient{}, 0)

	resp, err := a.Query(context.Background(), "hi")
	require.NoError(t, err)

	assert.Equal(t, noResponseText, resp.Text)
	assert.NotEmpty(t, resp.Text, "sentinel must never be an empty string")
}

func TestQuery_ToolCycle(t *testing.T) {
	gw := &fakeGateway{responses: []*gateway.Response{
		{
			Content: []message.ContentBlock{
				message.NewText("Let me check."),
				toolUse("toolu_01", "list_charts"),
				toolUse("toolu_02", "set_symbol"),
			},
			StopReason: "tool_use",
		},
		textResponse("All set."),
	}}
	tools := &fakeToolClient{results: map[string]toolResult{
		"list_charts": {text: `["chart-1"]`},
		"set_symbol":  {text: "symbol changed"},
	}}
	a := startedAgent(t, gw, tools, 0)

	resp, err := a.Query(context.Background(), "switch chart-1 to AAPL")
	require.NoError(t, err)

	assert.Equal(t, "All set.", resp.Text)
	assert.Equal(t, []string{"list_charts", "set_symbol"}, resp.ToolCallsMade)
	assert.Equal(t, []string{"list_charts", "set_symbol"}, tools.calls, "model-given order")

	// Second model call sees: user, assistant (verbatim), tool results.
	require.Len(t, gw.calls, 2)
	history := gw.calls[1].history
	require.Len(t, history, 3)

	assistant := history[1]
	assert.Equal(t, message.RoleAssistant, assistant.Role)
	require.Len(t, assistant.Content, 3, "assistant content must be appended unmodified")

	resultsTurn := history[2]
	assert.Equal(t, message.RoleUser, resultsTurn.Role)
	require.Len(t, resultsTurn.Content, 2, "exactly one tool_result per tool_use")

	first := resultsTurn.Content[0].(*message.ToolResultBlock)
	second := resultsTurn.Content[1].(*message.ToolResultBlock)
	assert.Equal(t, "toolu_01", first.ToolUseID)
	assert.Equal(t, "toolu_02", second.ToolUseID)
	assert.Equal(t, `["chart-1"]`, first.Content)
}

func TestQuery_ToolTransportFailureIsData(t *testing.T) {
	gw := &fakeGateway{responses: []*gateway.Response{
		{
			Content:    []message.ContentBlock{toolUse("toolu_01", "list_charts")},
			StopReason: "tool_use",
		},
		textResponse("The tool server seems down."),
	}}
	tools := &fakeToolClient{results: map[string]toolResult{
		"list_charts": {err: &errors.TransportError{Err: errors.ErrTransportClosed}},
	}}
	a := startedAgent(t, gw, tools, 0)

	resp, err := a.Query(context.Background(), "list charts")
	require.NoError(t, err, "an individual tool failure must not abort the cycle")

	assert.Equal(t, []string{"list_charts"}, resp.ToolCallsMade, "attempted calls are recorded regardless of outcome")

	result := gw.calls[1].history[2].Content[0].(*message.ToolResultBlock)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "tool call failed")
	assert.Contains(t, result.Content, "transport closed")
}

func TestQuery_ApplicationErrorPassthrough(t *testing.T) {
	gw := &fakeGateway{responses: []*gateway.Response{
		{
			Content:    []message.ContentBlock{toolUse("toolu_01", "set_symbol")},
			StopReason: "tool_use",
		},
		textResponse("Sorry, that symbol does not exist."),
	}}
	tools := &fakeToolClient{results: map[string]toolResult{
		"set_symbol": {text: "unknown symbol FOO:BAR", isError: true},
	}}
	a := startedAgent(t, gw, tools, 0)

	_, err := a.Query(context.Background(), "set FOO:BAR")
	require.NoError(t, err)

	result := gw.calls[1].history[2].Content[0].(*message.ToolResultBlock)
	assert.True(t, result.IsError)
	assert.Equal(t, "unknown symbol FOO:BAR", result.Content)
}

func TestQuery_TurnBudgetExhaustion(t *testing.T) {
	const maxTurns = 3

	// The model never stops asking for tools.
	gw := &fakeGateway{responses: []*gateway.Response{
		{
			Content:    []message.ContentBlock{toolUse("toolu_01", "list_charts")},
			StopReason: "tool_use",
		},
	}}
	a := startedAgent(t, gw, &fakeToolClient{}, maxTurns)

	resp, err := a.Query(context.Background(), "loop forever")
	require.NoError(t, err)

	assert.Equal(t, maxTurnsText, resp.Text)
	assert.Len(t, gw.calls, maxTurns, "turn count must never exceed the budget")
	assert.Len(t, resp.ToolCallsMade, maxTurns, "history is non-regressing")
}

func TestQuery_GatewayFailureIsFatal(t *testing.T) {
	gw := &fakeGateway{err: stderrors.New("connection refused")}
	a := startedAgent(t, gw, &fakeToolClient{}, 0)

	_, err := a.Query(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestQuery_BeforeStart(t *testing.T) {
	a := New(Config{Gateway: &fakeGateway{}})

	_, err := a.Query(context.Background(), "hi")
	assert.ErrorIs(t, err, errors.ErrNotStarted)
}

func TestStart_FiltersToolsThroughAllowList(t *testing.T) {
	gw := &fakeGateway{responses: []*gateway.Response{textResponse("ok")}}
	tools := &fakeToolClient{descriptors: []protocol.ToolDescriptor{
		{Name: "list_charts"},
		{Name: "delete_watchlist"}, // not allowed
	}}

	a := New(Config{
		AllowedTools: []string{"list_charts"},
		Gateway:      gw,
		ToolClient:   tools,
	})
	require.NoError(t, a.Start(context.Background()))

	_, err := a.Query(context.Background(), "hi")
	require.NoError(t, err)

	require.Len(t, gw.calls[0].tools, 1)
	assert.Equal(t, "list_charts", gw.calls[0].tools[0].Name)
}

func TestStart_PropagatesStartupError(t *testing.T) {
	tools := &fakeToolClient{startErr: &errors.StartupError{Stage: "initialize", Err: stderrors.New("boom")}}
	a := New(Config{Gateway: &fakeGateway{}, ToolClient: tools})

	err := a.Start(context.Background())
	require.Error(t, err)

	var startupErr *errors.StartupError
	assert.ErrorAs(t, err, &startupErr)
}

func TestQuery_HistoryDiscardedBetweenQueries(t *testing.T) {
	gw := &fakeGateway{responses: []*gateway.Response{textResponse("first"), textResponse("second")}}
	a := startedAgent(t, gw, &fakeToolClient{}, 0)

	_, err := a.Query(context.Background(), "one")
	require.NoError(t, err)

	_, err = a.Query(context.Background(), "two")
	require.NoError(t, err)

	require.Len(t, gw.calls, 2)
	assert.Len(t, gw.calls[1].history, 1, "each query starts from a fresh history")
}

func TestStop_Idempotent(t *testing.T) {
	tools := &fakeToolClient{}
	a := startedAgent(t, &fakeGateway{responses: []*gateway.Response{textResponse("ok")}}, tools, 0)

	a.Stop()
	a.Stop()
	assert.Equal(t, 2, tools.stopped)
}

func TestStop_WithoutStart(t *testing.T) {
	a := New(Config{Gateway: &fakeGateway{}})

	a.Stop() // must not panic
}
