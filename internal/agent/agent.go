package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/maudeview/agent-go/internal/errors"
	"github.com/maudeview/agent-go/internal/gateway"
	"github.com/maudeview/agent-go/internal/message"
	"github.com/maudeview/agent-go/internal/protocol"
	"github.com/maudeview/agent-go/internal/schema"
	"github.com/maudeview/agent-go/internal/subprocess"
)

const (
	// DefaultMaxTurns is the turn budget for one query.
	DefaultMaxTurns = 50

	// noResponseText stands in for a model turn that produced no text at
	// all. Never the empty string.
	noResponseText = "(no text response)"

	// maxTurnsText stands in for a conversation that exhausted its turn
	// budget with tool calls still pending.
	maxTurnsText = "(max turns reached without final response)"
)

// ToolClient is what the loop needs from the protocol layer. Satisfied by
// *protocol.Client; injectable for tests and custom transports.
type ToolClient interface {
	Start(ctx context.Context) ([]protocol.ToolDescriptor, error)
	CallTool(ctx context.Context, name string, arguments map[string]any) (text string, isError bool, err error)
	Stop()
}

// Config holds the dependencies and tuning parameters for one agent.
type Config struct {
	// ToolServerPath is the tool-server binary to spawn.
	ToolServerPath string

	// ToolServerEnv is merged onto the inherited environment of the child
	// process.
	ToolServerEnv map[string]string

	// SystemPrompt is sent on every model turn.
	SystemPrompt string

	// AllowedTools is the allow-list of bare tool names exposed to the
	// model. Tools outside the list are never offered.
	AllowedTools []string

	// MaxTurns bounds one query. Zero means DefaultMaxTurns.
	MaxTurns int

	// Gateway is the model endpoint. Required.
	Gateway gateway.Gateway

	// ToolClient overrides the subprocess-backed protocol client.
	// Nil means spawn ToolServerPath.
	ToolClient ToolClient

	// Logger receives debug and info messages. Nil disables logging.
	Logger *slog.Logger
}

// Response is the result of one query: the final text and the ordered list
// of tool names invoked along the way.
type Response struct {
	Text          string
	ToolCallsMade []string
}

// Agent runs the tool-calling loop for a single conversation.
//
// One Agent processes queries strictly sequentially; it holds no state
// shared with other instances, so independent agents may run in parallel,
// each owning its own tool-server process.
type Agent struct {
	log      *slog.Logger
	cfg      Config
	tools    ToolClient
	adapted  []schema.Tool
	maxTurns int
	started  bool
}

// New creates an agent. The tool server is not spawned until Start.
func New(cfg Config) *Agent {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	return &Agent{
		log:      log.With("component", "agent"),
		cfg:      cfg,
		maxTurns: maxTurns,
	}
}

// Start spawns the tool server, enumerates its tools, and adapts the allowed
// subset into the model-facing schema.
func (a *Agent) Start(ctx context.Context) error {
	if a.started {
		return fmt.Errorf("agent already started")
	}

	tools := a.cfg.ToolClient
	if tools == nil {
		transport := subprocess.New(subprocess.Config{
			BinaryPath: a.cfg.ToolServerPath,
			Env:        a.cfg.ToolServerEnv,
			Logger:     a.log,
		})
		tools = protocol.NewClient(a.log, transport)
	}

	descriptors, err := tools.Start(ctx)
	if err != nil {
		return err
	}

	a.tools = tools
	a.adapted = schema.Adapt(descriptors, a.cfg.AllowedTools)
	a.started = true

	a.log.Info("Agent started", "tools_offered", len(a.adapted), "tools_available", len(descriptors))

	return nil
}

// Query runs one agentic request/response cycle: model call, tool dispatch,
// repeat, until the model answers in text only or the turn budget runs out.
//
// The message history grows by one assistant turn and one tool-result turn
// per iteration and is discarded when Query returns. Individual tool
// failures are fed back to the model as error-flagged results; only a
// gateway failure aborts the query.
func (a *Agent) Query(ctx context.Context, text string) (*Response, error) {
	if !a.started {
		return nil, errors.ErrNotStarted
	}

	history := []message.Message{message.NewUserText(text)}
	toolCallsMade := []string{}

	for turn := range a.maxTurns {
		resp, err := a.cfg.Gateway.Send(ctx, a.cfg.SystemPrompt, history, a.adapted)
		if err != nil {
			return nil, fmt.Errorf("model turn %d: %w", turn+1, err)
		}

		// The model's content is appended verbatim, tool_use blocks
		// included, so it retains visibility into its own prior requests.
		history = append(history, message.NewAssistant(resp.Content))

		toolUses, textParts := partition(resp.Content)

		if len(toolUses) == 0 {
			answer := strings.Join(textParts, "\n")
			if answer == "" {
				answer = noResponseText
			}

			a.log.Debug("Query finished", "turns", turn+1, "tool_calls", len(toolCallsMade))

			return &Response{Text: answer, ToolCallsMade: toolCallsMade}, nil
		}

		results := make([]*message.ToolResultBlock, 0, len(toolUses))

		for _, toolUse := range toolUses {
			a.log.Info("Tool call", "tool", toolUse.Name, "id", toolUse.ID)
			toolCallsMade = append(toolCallsMade, toolUse.Name)

			resultText, isError, err := a.tools.CallTool(ctx, toolUse.Name, toolUse.Input)
			if err != nil {
				// A tool failure is data, not control flow: label it and
				// let the model react.
				resultText = fmt.Sprintf("tool call failed: %v", err)
				isError = true

				a.log.Warn("Tool call failed", "tool", toolUse.Name, "error", err)
			}

			results = append(results, message.NewToolResult(toolUse.ID, resultText, isError))
		}

		history = append(history, message.NewToolResults(results))

		a.log.Debug("Turn complete", "turn", turn+1, "tool_calls", len(toolUses), "stop_reason", resp.StopReason)
	}

	a.log.Warn("Turn budget exhausted", "max_turns", a.maxTurns, "tool_calls", len(toolCallsMade))

	return &Response{Text: maxTurnsText, ToolCallsMade: toolCallsMade}, nil
}

// Stop terminates the tool-server process. Idempotent, safe when Start never
// succeeded, and never returns an error.
func (a *Agent) Stop() {
	if a.tools != nil {
		a.tools.Stop()
	}
}

// partition splits response content into tool_use blocks and text parts,
// preserving model-given order within each group.
func partition(content []message.ContentBlock) ([]*message.ToolUseBlock, []string) {
	var (
		toolUses  []*message.ToolUseBlock
		textParts []string
	)

	for _, block := range content {
		switch b := block.(type) {
		case *message.ToolUseBlock:
			toolUses = append(toolUses, b)
		case *message.TextBlock:
			textParts = append(textParts, b.Text)
		}
	}

	return toolUses, textParts
}
