package maudeview

import (
	"github.com/maudeview/agent-go/internal/agent"
	"github.com/maudeview/agent-go/internal/gateway"
	"github.com/maudeview/agent-go/internal/message"
	"github.com/maudeview/agent-go/internal/schema"
	"github.com/maudeview/agent-go/internal/session"
)

// Agent runs the tool-calling loop for one conversation.
type Agent = agent.Agent

// AgentConfig is the fully assembled agent configuration.
type AgentConfig = agent.Config

// Response is the outcome of one query.
type Response = agent.Response

// ToolClient is the protocol-layer interface the agent drives.
type ToolClient = agent.ToolClient

// Gateway is the model endpoint interface.
type Gateway = gateway.Gateway

// DefaultMaxTurns is the turn budget applied when none is set.
const DefaultMaxTurns = agent.DefaultMaxTurns

// Message is one conversation entry.
type Message = message.Message

// ContentBlock is one typed part of a message.
type ContentBlock = message.ContentBlock

// TextBlock is plain model text.
type TextBlock = message.TextBlock

// ToolUseBlock is a model request to invoke a tool.
type ToolUseBlock = message.ToolUseBlock

// ToolResultBlock reports a tool outcome back to the model.
type ToolResultBlock = message.ToolResultBlock

// Tool is a model-facing tool definition.
type Tool = schema.Tool

// Store manages independent concurrent conversations.
type Store = session.Store

// Conversation is one stored agent with a stable identifier.
type Conversation = session.Conversation

// NewStore creates an empty conversation store.
var NewStore = session.NewStore
