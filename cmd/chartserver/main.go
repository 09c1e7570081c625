// Command chartserver is the watchlist-manager MCP server. It speaks
// MCP over stdin/stdout and proxies every tool call to the
// tv_controller HTTP API named by CONTROLLER_BIND_ADDR.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/maudeview/agent-go/internal/config"
	"github.com/maudeview/agent-go/internal/toolserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	cfg := config.Load()

	// stdout carries the protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := toolserver.New(toolserver.Config{
		ControllerURL: "http://" + cfg.ControllerBindAddr,
		Logger:        log,
	})

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Error("tool server exited", "error", err)
		os.Exit(1)
	}
}
