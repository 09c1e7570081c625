package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maudeview/agent-go/internal/errors"
	"github.com/maudeview/agent-go/internal/message"
	"github.com/maudeview/agent-go/internal/schema"
)

const (
	// defaultRequestTimeout bounds one /v1/messages round trip. Local models
	// can take minutes on long tool-heavy conversations.
	defaultRequestTimeout = 5 * time.Minute

	// anthropicVersion is the messages API revision header.
	anthropicVersion = "2023-06-01"

	defaultMaxTokens = 4096
	defaultAuthToken = "lmstudio"

	// maxErrorBodyLen caps how much of an error response body is quoted.
	maxErrorBodyLen = 500
)

// Compile-time verification that LMStudio implements Gateway.
var _ Gateway = (*LMStudio)(nil)

// LMStudio is an HTTP client for an Anthropic-compatible /v1/messages
// endpoint, such as LM Studio's local server.
type LMStudio struct {
	log        *slog.Logger
	baseURL    string
	authToken  string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// LMStudioConfig configures an LMStudio gateway.
type LMStudioConfig struct {
	// BaseURL is the server root, e.g. "http://127.0.0.1:1234".
	BaseURL string

	// AuthToken is sent as the x-api-key header. Defaults to "lmstudio",
	// which local servers accept as a placeholder.
	AuthToken string

	// Model names the loaded model. Some servers ignore it.
	Model string

	// MaxTokens caps the response length. Zero means 4096.
	MaxTokens int

	// HTTPClient overrides the default client (mainly for tests).
	HTTPClient *http.Client

	// Logger receives debug messages. Nil disables logging.
	Logger *slog.Logger
}

// NewLMStudio creates a gateway for an Anthropic-compatible endpoint.
func NewLMStudio(cfg LMStudioConfig) *LMStudio {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	authToken := cfg.AuthToken
	if authToken == "" {
		authToken = defaultAuthToken
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}

	return &LMStudio{
		log:        log.With("component", "gateway"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authToken:  authToken,
		model:      cfg.Model,
		maxTokens:  maxTokens,
		httpClient: httpClient,
	}
}

// messagesRequest is the /v1/messages payload.
//
//nolint:tagliatelle // the messages API uses snake_case for JSON fields
type messagesRequest struct {
	Model     string            `json:"model"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
	Messages  []message.Message `json:"messages"`
	Tools     []schema.Tool     `json:"tools,omitempty"`
}

// messagesResponse is the subset of the /v1/messages response the loop needs.
//
//nolint:tagliatelle // the messages API uses snake_case for JSON fields
type messagesResponse struct {
	Content    []json.RawMessage `json:"content"`
	StopReason string            `json:"stop_reason"`
}

// Send implements Gateway by POSTing to /v1/messages.
//
// Content blocks are decoded once, here, into the closed union; blocks with
// tags outside the union are logged and skipped.
func (g *LMStudio) Send(
	ctx context.Context,
	system string,
	messages []message.Message,
	tools []schema.Tool,
) (*Response, error) {
	payload := messagesRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    system,
		Messages:  messages,
		Tools:     tools,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create messages request: %w", err)
	}

	req.Header.Set("x-api-key", g.authToken)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	g.log.Debug("Sending model request", "messages", len(messages), "tools", len(tools))

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read model response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		g.log.Error("Model endpoint returned error", "status", resp.StatusCode, "body", truncate(string(respBody), maxErrorBodyLen))

		return nil, fmt.Errorf("model endpoint returned %d: %s", resp.StatusCode, truncate(string(respBody), maxErrorBodyLen))
	}

	var decoded messagesResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	blocks := make([]message.ContentBlock, 0, len(decoded.Content))

	for _, raw := range decoded.Content {
		block, err := message.UnmarshalContentBlock(raw)
		if err != nil {
			if stderrors.Is(err, errors.ErrUnknownBlockType) {
				g.log.Debug("Skipping content block with unknown type", "block", truncate(string(raw), 200))

				continue
			}

			return nil, fmt.Errorf("decode content block: %w", err)
		}

		blocks = append(blocks, block)
	}

	g.log.Debug("Model response received", "stop_reason", decoded.StopReason, "blocks", len(blocks))

	return &Response{Content: blocks, StopReason: decoded.StopReason}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
