package protocol

// Version is the JSON-RPC protocol version tag on every wire message.
const Version = "2.0"

// Request is an outbound JSON-RPC 2.0 message, one object per line.
// A nil ID makes it a notification: no response is expected.
type Request struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      *int64         `json:"id,omitempty"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
}

// ToolDescriptor is one entry of a tools/list result. Names are unique
// within a session.
//
//nolint:tagliatelle // MCP uses camelCase for inputSchema
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}
