// Package config loads agent configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvToolServerPath     = "MCP_BINARY_PATH"
	EnvControllerBindAddr = "CONTROLLER_BIND_ADDR"
	EnvBaseURL            = "LMSTUDIO_BASE_URL"
	EnvAuthToken          = "LMSTUDIO_AUTH_TOKEN"
	EnvModel              = "LMSTUDIO_MODEL"
	EnvMaxTurns           = "AGENT_MAX_TURNS"
)

// Defaults.
const (
	DefaultToolServerPath     = "bin/chartserver"
	DefaultControllerBindAddr = "127.0.0.1:8188"
	DefaultBaseURL            = "http://127.0.0.1:1234"
	DefaultAuthToken          = "lmstudio"
)

// Config holds everything needed to assemble an agent.
type Config struct {
	// ToolServerPath is the chart-controller MCP binary to spawn.
	ToolServerPath string

	// ControllerBindAddr is passed to the tool server so it can reach the
	// tv_controller HTTP API.
	ControllerBindAddr string

	// BaseURL is the Anthropic-compatible model endpoint.
	BaseURL string

	// AuthToken is the x-api-key value for the model endpoint.
	AuthToken string

	// Model names the loaded model; empty lets the server choose.
	Model string

	// MaxTurns bounds one query; zero uses the agent default.
	MaxTurns int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ToolServerPath:     DefaultToolServerPath,
		ControllerBindAddr: DefaultControllerBindAddr,
		BaseURL:            DefaultBaseURL,
		AuthToken:          DefaultAuthToken,
	}
}

// FromEnv returns the default configuration with environment overrides
// applied.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv(EnvToolServerPath); v != "" {
		cfg.ToolServerPath = v
	}

	if v := os.Getenv(EnvControllerBindAddr); v != "" {
		cfg.ControllerBindAddr = v
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}

	if v := os.Getenv(EnvAuthToken); v != "" {
		cfg.AuthToken = v
	}

	if v := os.Getenv(EnvModel); v != "" {
		cfg.Model = v
	}

	if v := os.Getenv(EnvMaxTurns); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTurns = n
		}
	}

	return cfg
}

// Load reads a .env file when present, then applies environment overrides.
// A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	return FromEnv()
}
