package toolserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "maudeview-watchlist-manager"
	serverVersion = "1.0.0"
)

// Config holds the settings for a tool server.
type Config struct {
	// ControllerURL is the base URL of the tv_controller HTTP API,
	// e.g. "http://127.0.0.1:8188". Required.
	ControllerURL string

	// HTTPClient overrides the client used for controller requests.
	// Nil uses http.DefaultClient.
	HTTPClient *http.Client

	// Logger receives warning messages. Nil disables logging.
	Logger *slog.Logger
}

// Server is the watchlist-manager MCP server. It registers one tool per
// controller endpoint and proxies calls through an apiClient.
type Server struct {
	log *slog.Logger
	mcp *mcp.Server
	api *apiClient
}

// New creates a Server with all tools registered.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("component", "toolserver")

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	s := &Server{
		log: log,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: serverVersion,
		}, nil),
		api: &apiClient{
			log:     log,
			client:  client,
			baseURL: cfg.ControllerURL,
		},
	}

	s.registerWatchlistTools()
	s.registerChartTools()

	return s
}

// Run serves MCP over the given transport until the context is
// canceled or the transport closes.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.log.Info("tool server starting", "controller", s.api.baseURL)

	return s.mcp.Run(ctx, transport)
}

// Connect binds the server to a transport and returns the session.
// Used by tests with in-memory transports; production code uses Run.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, transport, nil)
}

// proxy forwards a controller request and converts the outcome into a
// tool result. Controller errors become IsError results, not Go errors,
// so they reach the model as readable text.
func (s *Server) proxy(ctx context.Context, method, path string, body any) (*mcp.CallToolResult, any, error) {
	respBody, err := s.api.do(ctx, method, path, body)
	if err != nil {
		return errResult(err), nil, nil
	}

	return textResult(respBody), nil, nil
}

func textResult(data json.RawMessage) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: err.Error()},
		},
		IsError: true,
	}
}
