package errors

import (
	"errors"
	"fmt"
)

// AgentError is the base interface for all errors produced by this module.
type AgentError interface {
	error
	IsAgentError() bool
}

// Compile-time verification that all error types implement AgentError.
var (
	_ AgentError = (*StartupError)(nil)
	_ AgentError = (*TransportError)(nil)
	_ AgentError = (*RPCError)(nil)
	_ AgentError = (*ProcessError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNotStarted indicates an operation was attempted before Start succeeded.
	ErrNotStarted = errors.New("tool client not started")

	// ErrStdinClosed indicates the child process stdin pipe has been closed.
	ErrStdinClosed = errors.New("stdin closed")

	// ErrTransportClosed indicates the child process output stream closed
	// while a request was pending.
	ErrTransportClosed = errors.New("transport closed")

	// ErrUnknownBlockType indicates a content block tag outside the closed
	// union (text, tool_use, tool_result). Callers should skip such blocks
	// rather than treating them as fatal.
	ErrUnknownBlockType = errors.New("unknown content block type")
)

// StartupError indicates the tool-server handshake failed or the process
// exited before the handshake completed. Fatal, surfaced from Start().
type StartupError struct {
	Stage string // "spawn", "initialize" or "tools/list"
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("tool server startup failed during %s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// IsAgentError implements AgentError.
func (e *StartupError) IsAgentError() bool { return true }

// TransportError indicates a wire-level failure for an in-flight call:
// a closed stream while awaiting a response or a correlation failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAgentError implements AgentError.
func (e *TransportError) IsAgentError() bool { return true }

// RPCError carries a remote JSON-RPC error object returned by the tool server.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// IsAgentError implements AgentError.
func (e *RPCError) IsAgentError() bool { return true }

// ProcessError indicates the child process exited with a failure.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("tool server process failed (exit %d): %s", e.ExitCode, e.Stderr)
	}

	return fmt.Sprintf("tool server process failed (exit %d): %v", e.ExitCode, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsAgentError implements AgentError.
func (e *ProcessError) IsAgentError() bool { return true }
