package maudeview

import "github.com/maudeview/agent-go/internal/errors"

// Re-export error types from the internal package.

// AgentError is the interface implemented by all library error types.
type AgentError = errors.AgentError

// StartupError indicates the tool server failed during spawn or handshake.
type StartupError = errors.StartupError

// TransportError indicates the tool-server connection broke mid-call.
type TransportError = errors.TransportError

// RPCError is a JSON-RPC error object returned by the tool server.
type RPCError = errors.RPCError

// ProcessError indicates the tool-server process exited abnormally.
type ProcessError = errors.ProcessError

// Re-export sentinel errors from the internal package.
var (
	// ErrNotStarted indicates use of a transport before Start.
	ErrNotStarted = errors.ErrNotStarted

	// ErrStdinClosed indicates a send after the child stdin closed.
	ErrStdinClosed = errors.ErrStdinClosed

	// ErrTransportClosed indicates the message stream ended.
	ErrTransportClosed = errors.ErrTransportClosed

	// ErrUnknownBlockType indicates an unrecognized content block tag.
	ErrUnknownBlockType = errors.ErrUnknownBlockType
)
