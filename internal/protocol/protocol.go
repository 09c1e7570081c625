package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/maudeview/agent-go/internal/errors"
)

// Protocol constants for the initialize handshake.
const (
	// ProtocolVersion is the MCP protocol revision this client speaks.
	ProtocolVersion = "2024-11-05"

	clientName    = "maudeview-agent"
	clientVersion = "0.1.0"
)

// Transport is the minimal channel interface the client needs.
//
// It is satisfied by subprocess.Transport and allows testing with fake
// transports.
type Transport interface {
	// Start spawns the underlying process and begins reading its output.
	Start(ctx context.Context) error

	// Messages yields parsed wire objects, one per inbound line. The
	// channel closes when the input stream closes.
	Messages() <-chan map[string]any

	// Send writes one newline-terminated JSON message.
	Send(ctx context.Context, data []byte) error

	// Err reports the process failure recorded after Messages closed.
	Err() error

	// Stop terminates the process. Idempotent and non-throwing.
	Stop()
}

// Client speaks JSON-RPC 2.0 with one tool-server child process.
//
// Only one request may be outstanding at a time: the write-then-read-matching
// sequence runs under a single mutex so frames from different logical calls
// never interleave on the wire. Correlation ids are strictly increasing and
// unique for the lifetime of the client.
type Client struct {
	log       *slog.Logger
	transport Transport

	// mu is the exclusive section around write-request/read-response.
	mu     sync.Mutex
	nextID int64

	startedMu sync.Mutex
	started   bool
	tools     []ToolDescriptor
}

// NewClient creates a client over the given transport. The child process is
// not spawned until Start.
func NewClient(log *slog.Logger, transport Transport) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		log:       log.With("component", "protocol"),
		transport: transport,
	}
}

// Start spawns the tool server, performs the initialize handshake, announces
// readiness, and returns the server's tool descriptors.
//
// It fails with a StartupError if the process exits before the handshake
// completes or the handshake response carries an error object.
func (c *Client) Start(ctx context.Context) ([]ToolDescriptor, error) {
	if err := c.transport.Start(ctx); err != nil {
		return nil, err
	}

	initResult, err := c.call(ctx, "initialize", map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    clientName,
			"version": clientVersion,
		},
	})
	if err != nil {
		c.transport.Stop()

		return nil, &errors.StartupError{Stage: "initialize", Err: err}
	}

	c.log.Debug("Initialize handshake complete", "server_info", initResult["serverInfo"])

	if err := c.notify(ctx, "notifications/initialized", map[string]any{}); err != nil {
		c.transport.Stop()

		return nil, &errors.StartupError{Stage: "initialize", Err: err}
	}

	toolsResult, err := c.call(ctx, "tools/list", map[string]any{})
	if err != nil {
		c.transport.Stop()

		return nil, &errors.StartupError{Stage: "tools/list", Err: err}
	}

	tools, err := decodeToolList(toolsResult)
	if err != nil {
		c.transport.Stop()

		return nil, &errors.StartupError{Stage: "tools/list", Err: err}
	}

	c.startedMu.Lock()
	c.started = true
	c.tools = tools
	c.startedMu.Unlock()

	c.log.Info("Tool server ready", "tools", len(tools))

	return tools, nil
}

// Tools returns the descriptors fetched during Start.
func (c *Client) Tools() []ToolDescriptor {
	c.startedMu.Lock()
	defer c.startedMu.Unlock()

	return c.tools
}

// CallTool executes one tool via tools/call and blocks until the matching
// response arrives.
//
// The returned text is the newline-join of all text-typed parts of the
// response content; isError reflects the response's error flag.
func (c *Client) CallTool(
	ctx context.Context,
	name string,
	arguments map[string]any,
) (text string, isError bool, err error) {
	c.startedMu.Lock()
	started := c.started
	c.startedMu.Unlock()

	if !started {
		return "", false, errors.ErrNotStarted
	}

	if arguments == nil {
		arguments = map[string]any{}
	}

	result, err := c.call(ctx, "tools/call", map[string]any{
		"name":      name,
		"arguments": arguments,
	})
	if err != nil {
		return "", false, err
	}

	isError, _ = result["isError"].(bool)

	parts := make([]string, 0, 4)

	if content, ok := result["content"].([]any); ok {
		for _, raw := range content {
			part, ok := raw.(map[string]any)
			if !ok {
				continue
			}

			if partType, _ := part["type"].(string); partType != "text" {
				continue
			}

			partText, _ := part["text"].(string)
			parts = append(parts, partText)
		}
	}

	return strings.Join(parts, "\n"), isError, nil
}

// Stop terminates the tool server. Idempotent, safe after a failed Start,
// and never returns an error.
func (c *Client) Stop() {
	c.transport.Stop()
}

// call sends one correlated request and blocks until the response with the
// matching id arrives. The whole sequence is one exclusive section.
func (c *Client) call(ctx context.Context, method string, params map[string]any) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	req := Request{JSONRPC: Version, ID: &id, Method: method, Params: params}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	c.log.Debug("Sending request", "id", id, "method", method)

	if err := c.transport.Send(ctx, data); err != nil {
		return nil, &errors.TransportError{Err: err}
	}

	return c.readResponse(ctx, id)
}

// notify sends a request without an id; no response is expected.
func (c *Client) notify(ctx context.Context, method string, params map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := Request{JSONRPC: Version, Method: method, Params: params}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	c.log.Debug("Sending notification", "method", method)

	if err := c.transport.Send(ctx, data); err != nil {
		return &errors.TransportError{Err: err}
	}

	return nil
}

// readResponse consumes inbound messages until the one bearing expectedID.
//
// Messages without an id are notifications and are skipped. A response whose
// id does not match is logged and discarded. A closed stream while the
// request is pending is a fatal transport failure for this call.
func (c *Client) readResponse(ctx context.Context, expectedID int64) (map[string]any, error) {
	for {
		select {
		case msg, ok := <-c.transport.Messages():
			if !ok {
				if procErr := c.transport.Err(); procErr != nil {
					return nil, &errors.TransportError{Err: procErr}
				}

				return nil, &errors.TransportError{Err: errors.ErrTransportClosed}
			}

			rawID, hasID := msg["id"]
			if !hasID || rawID == nil {
				method, _ := msg["method"].(string)
				c.log.Debug("Skipping notification from tool server", "method", method)

				continue
			}

			id, ok := numericID(rawID)
			if !ok || id != expectedID {
				c.log.Warn("Discarding response with unexpected id", "got", rawID, "want", expectedID)

				continue
			}

			if rpcErr := decodeError(msg); rpcErr != nil {
				return nil, rpcErr
			}

			result, _ := msg["result"].(map[string]any)
			if result == nil {
				result = map[string]any{}
			}

			return result, nil

		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// numericID normalizes a wire id to int64. JSON numbers decode as float64.
func numericID(raw any) (int64, bool) {
	switch v := raw.(type) {
	case float64:
		return int64(v), true
	case json.Number:
		id, err := v.Int64()

		return id, err == nil
	default:
		return 0, false
	}
}

// decodeError extracts a non-null error object, if present.
func decodeError(msg map[string]any) *errors.RPCError {
	errObj, ok := msg["error"].(map[string]any)
	if !ok {
		return nil
	}

	code := 0
	if rawCode, ok := errObj["code"].(float64); ok {
		code = int(rawCode)
	}

	errMsg, _ := errObj["message"].(string)

	return &errors.RPCError{Code: code, Message: errMsg}
}

// decodeToolList converts a tools/list result into descriptors.
func decodeToolList(result map[string]any) ([]ToolDescriptor, error) {
	raw, err := json.Marshal(result["tools"])
	if err != nil {
		return nil, fmt.Errorf("re-encode tools: %w", err)
	}

	var tools []ToolDescriptor
	if err := json.Unmarshal(raw, &tools); err != nil {
		return nil, fmt.Errorf("decode tool list: %w", err)
	}

	return tools, nil
}
