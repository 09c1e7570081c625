// Package protocol implements the JSON-RPC 2.0 client half of the MCP
// stdio protocol.
//
// The Client owns one tool-server child process (via a Transport) and
// performs the initialize handshake, tool enumeration, and correlated
// tools/call requests. Requests are deliberately not pipelined: one request
// is outstanding at a time, and the write-then-read-matching-response
// sequence is a single exclusive section so frames from different logical
// calls never interleave on the wire.
//
// Example usage:
//
//	transport := subprocess.New(subprocess.Config{BinaryPath: path, Env: overlay})
//	client := protocol.NewClient(log, transport)
//
//	tools, err := client.Start(ctx)
//	...
//	text, isError, err := client.CallTool(ctx, "list_charts", nil)
//	...
//	client.Stop()
package protocol
