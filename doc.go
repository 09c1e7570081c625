// Package maudeview runs a tool-calling agent against a local model.
//
// The agent spawns an MCP tool server as a child process, offers its
// tools to an Anthropic-compatible model endpoint (LM Studio by
// default), and loops model turns and tool executions until the model
// answers in plain text.
//
// # Basic Usage
//
// For a one-shot question, use Query:
//
//	ctx := context.Background()
//	resp, err := maudeview.Query(ctx, "What symbol is on the active chart?", maudeview.Options{
//	    ToolServerPath: "bin/chartserver",
//	    AllowedTools:   []string{"list_charts", "get_symbol"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Text)
//
// # Multi-Turn Conversations
//
// An Agent keeps its tool server alive across queries:
//
//	agent := maudeview.New(maudeview.OptionsFromEnv())
//	if err := agent.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer agent.Stop()
//
//	resp, err := agent.Query(ctx, "Create a watchlist named Momentum")
//
// Each query starts from a fresh history; the agent carries no
// conversational memory between queries. Use a Store to manage several
// concurrent conversations, each with its own tool-server process.
package maudeview
