// Package subprocess provides the child-process transport for the tool server.
//
// This package spawns the MCP tool server as a child process and exchanges
// newline-delimited JSON over its stdin/stdout. It handles process lifecycle
// management, line framing, stderr capture, and two-phase shutdown
// (terminate signal, bounded wait, force kill).
package subprocess
