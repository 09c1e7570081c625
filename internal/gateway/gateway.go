// Package gateway normalizes a remote conversational model endpoint to a
// fixed request/response shape.
//
// Given a system prompt, a message history, and a tool schema, a Gateway
// returns the model's content blocks and stop reason. Connectivity or
// protocol failures are fatal for the query and are not retried here.
package gateway

import (
	"context"

	"github.com/maudeview/agent-go/internal/message"
	"github.com/maudeview/agent-go/internal/schema"
)

// Response is one model turn: content blocks decoded into the closed union,
// plus the stop reason reported by the backend.
type Response struct {
	Content    []message.ContentBlock
	StopReason string
}

// Gateway is the model-facing contract consumed by the agent loop.
type Gateway interface {
	// Send submits the conversation and blocks until the model responds.
	// Remote calls are expected to be slow; implementations carry a
	// minutes-scale timeout.
	Send(
		ctx context.Context,
		system string,
		messages []message.Message,
		tools []schema.Tool,
	) (*Response, error)
}
