package maudeview

import (
	"context"
	"log/slog"

	"github.com/maudeview/agent-go/internal/agent"
	"github.com/maudeview/agent-go/internal/config"
	"github.com/maudeview/agent-go/internal/gateway"
)

// Options configures an Agent. The zero value works against a local
// LM Studio server with the default tool-server binary.
type Options struct {
	// ToolServerPath is the MCP tool-server binary to spawn.
	// Empty uses the configured default.
	ToolServerPath string

	// ToolServerEnv is merged onto the child process environment.
	ToolServerEnv map[string]string

	// SystemPrompt is sent on every model turn.
	SystemPrompt string

	// AllowedTools restricts which server tools the model may see.
	// Nil or empty offers no tools.
	AllowedTools []string

	// MaxTurns bounds one query. Zero means the agent default.
	MaxTurns int

	// BaseURL is the Anthropic-compatible endpoint root.
	// Empty uses the configured default.
	BaseURL string

	// AuthToken is the x-api-key value. Empty uses the placeholder
	// accepted by local servers.
	AuthToken string

	// Model names the loaded model; empty lets the server choose.
	Model string

	// MaxTokens caps each model response. Zero means the gateway default.
	MaxTokens int

	// Logger receives structured logs from all components.
	// Nil disables logging.
	Logger *slog.Logger
}

// OptionsFromEnv builds Options from a .env file and the process
// environment. See the config environment variable names.
func OptionsFromEnv() Options {
	cfg := config.Load()

	return Options{
		ToolServerPath: cfg.ToolServerPath,
		ToolServerEnv: map[string]string{
			config.EnvControllerBindAddr: cfg.ControllerBindAddr,
		},
		BaseURL:   cfg.BaseURL,
		AuthToken: cfg.AuthToken,
		Model:     cfg.Model,
		MaxTurns:  cfg.MaxTurns,
	}
}

// AgentConfig converts the options into the internal agent configuration,
// constructing the model gateway. Used directly when creating conversations
// in a Store.
func (o Options) AgentConfig() AgentConfig {
	defaults := config.Default()

	path := o.ToolServerPath
	if path == "" {
		path = defaults.ToolServerPath
	}

	baseURL := o.BaseURL
	if baseURL == "" {
		baseURL = defaults.BaseURL
	}

	gw := gateway.NewLMStudio(gateway.LMStudioConfig{
		BaseURL:   baseURL,
		AuthToken: o.AuthToken,
		Model:     o.Model,
		MaxTokens: o.MaxTokens,
		Logger:    o.Logger,
	})

	return AgentConfig{
		ToolServerPath: path,
		ToolServerEnv:  o.ToolServerEnv,
		SystemPrompt:   o.SystemPrompt,
		AllowedTools:   o.AllowedTools,
		MaxTurns:       o.MaxTurns,
		Gateway:        gw,
		Logger:         o.Logger,
	}
}

// New creates an Agent. The tool server is not spawned until Start.
func New(opts Options) *Agent {
	return agent.New(opts.AgentConfig())
}

// Query runs a single question through a throwaway agent: start the
// tool server, run the loop, stop the server.
func Query(ctx context.Context, prompt string, opts Options) (*Response, error) {
	a := New(opts)
	if err := a.Start(ctx); err != nil {
		return nil, err
	}
	defer a.Stop()

	return a.Query(ctx, prompt)
}
