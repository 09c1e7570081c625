// Package schema adapts tool-server descriptors to model-facing tool schemas.
package schema

import (
	"maps"

	"github.com/maudeview/agent-go/internal/protocol"
)

// Tool is one model-facing tool schema, as accepted by Anthropic-compatible
// messages endpoints.
//
//nolint:tagliatelle // the messages API uses snake_case for JSON fields
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Adapt filters descriptors to the allowed bare tool names and projects each
// to a model-facing schema.
//
// Every projected input schema is guaranteed a non-null "properties" mapping
// (defaulting to empty when absent): some model backends reject schemas
// without it, even for zero-argument tools. Input descriptors are never
// mutated.
func Adapt(descriptors []protocol.ToolDescriptor, allowed []string) []Tool {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = struct{}{}
	}

	tools := make([]Tool, 0, len(allowed))

	for _, desc := range descriptors {
		if _, ok := allowedSet[desc.Name]; !ok {
			continue
		}

		var inputSchema map[string]any
		if desc.InputSchema != nil {
			inputSchema = maps.Clone(desc.InputSchema)
		} else {
			inputSchema = map[string]any{"type": "object"}
		}

		if _, ok := inputSchema["properties"]; !ok {
			inputSchema["properties"] = map[string]any{}
		}

		tools = append(tools, Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: inputSchema,
		})
	}

	return tools
}
