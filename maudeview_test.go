package maudeview

import (
	"context"
	"testing"

	"github.com/maudeview/agent-go/internal/config"
	"github.com/maudeview/agent-go/internal/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentConfigDefaults(t *testing.T) {
	cfg := Options{}.AgentConfig()

	assert.Equal(t, config.DefaultToolServerPath, cfg.ToolServerPath)
	assert.NotNil(t, cfg.Gateway)
	assert.Zero(t, cfg.MaxTurns)
}

func TestAgentConfigCarriesOptions(t *testing.T) {
	opts := Options{
		ToolServerPath: "/usr/local/bin/chartserver",
		ToolServerEnv:  map[string]string{"CONTROLLER_BIND_ADDR": "127.0.0.1:9999"},
		SystemPrompt:   "You manage charts.",
		AllowedTools:   []string{"list_charts"},
		MaxTurns:       3,
	}

	cfg := opts.AgentConfig()

	assert.Equal(t, opts.ToolServerPath, cfg.ToolServerPath)
	assert.Equal(t, opts.ToolServerEnv, cfg.ToolServerEnv)
	assert.Equal(t, opts.SystemPrompt, cfg.SystemPrompt)
	assert.Equal(t, opts.AllowedTools, cfg.AllowedTools)
	assert.Equal(t, 3, cfg.MaxTurns)
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv(config.EnvToolServerPath, "/opt/chartserver")
	t.Setenv(config.EnvControllerBindAddr, "127.0.0.1:8200")
	t.Setenv(config.EnvBaseURL, "http://127.0.0.1:4141")
	t.Setenv(config.EnvModel, "qwen3-30b")

	opts := OptionsFromEnv()

	assert.Equal(t, "/opt/chartserver", opts.ToolServerPath)
	assert.Equal(t, "127.0.0.1:8200", opts.ToolServerEnv[config.EnvControllerBindAddr])
	assert.Equal(t, "http://127.0.0.1:4141", opts.BaseURL)
	assert.Equal(t, "qwen3-30b", opts.Model)
}

func TestQueryBeforeStart(t *testing.T) {
	agent := New(Options{})

	_, err := agent.Query(context.Background(), "hello")
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestStopWithoutStart(t *testing.T) {
	agent := New(Options{})
	agent.Stop()
	agent.Stop()
}

func TestNopLogger(t *testing.T) {
	log := NopLogger()
	require.NotNil(t, log)
	log.Info("discarded", "key", "value")
}

func TestReExportedConstructors(t *testing.T) {
	msg := message.NewUserText("hi")

	var m Message = msg
	assert.Equal(t, message.RoleUser, m.Role)
}
