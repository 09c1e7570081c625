// Package message provides conversation message and content block types.
package message

import (
	"encoding/json"
	"fmt"

	"github.com/maudeview/agent-go/internal/errors"
)

// Block type constants.
const (
	BlockTypeText       = "text"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

// ContentBlock represents a block of content within a message.
//
// The union is closed: text, tool_use and tool_result are the only variants.
// Blocks are decoded exactly once, at the model gateway boundary.
type ContentBlock interface {
	BlockType() string
}

// Compile-time verification that all content block types implement ContentBlock.
var (
	_ ContentBlock = (*TextBlock)(nil)
	_ ContentBlock = (*ToolUseBlock)(nil)
	_ ContentBlock = (*ToolResultBlock)(nil)
)

// TextBlock contains plain text content.
type TextBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// BlockType implements the ContentBlock interface.
func (b *TextBlock) BlockType() string { return BlockTypeText }

// ToolUseBlock represents the model requesting a tool invocation.
type ToolUseBlock struct {
	Type  string         `json:"type"`
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// BlockType implements the ContentBlock interface.
func (b *ToolUseBlock) BlockType() string { return BlockTypeToolUse }

// ToolResultBlock carries the outcome of a tool invocation back to the model.
//
//nolint:tagliatelle // the messages API uses snake_case for JSON fields
type ToolResultBlock struct {
	Type      string `json:"type"`
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

// BlockType implements the ContentBlock interface.
func (b *ToolResultBlock) BlockType() string { return BlockTypeToolResult }

// NewText creates a text block with its wire tag set.
func NewText(text string) *TextBlock {
	return &TextBlock{Type: BlockTypeText, Text: text}
}

// NewToolResult creates a tool result block matched to a tool_use id.
func NewToolResult(toolUseID, content string, isError bool) *ToolResultBlock {
	return &ToolResultBlock{
		Type:      BlockTypeToolResult,
		ToolUseID: toolUseID,
		Content:   content,
		IsError:   isError,
	}
}

// UnmarshalContentBlock unmarshals a single content block from JSON.
//
// Tags outside the closed union return ErrUnknownBlockType; callers are
// expected to skip such blocks rather than fail the whole response.
func UnmarshalContentBlock(data []byte) (ContentBlock, error) {
	var typeHolder struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &typeHolder); err != nil {
		return nil, err
	}

	switch typeHolder.Type {
	case BlockTypeText:
		var block TextBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return nil, err
		}

		return &block, nil

	case BlockTypeToolUse:
		var block ToolUseBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return nil, err
		}

		return &block, nil

	case BlockTypeToolResult:
		var block ToolResultBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return nil, err
		}

		return &block, nil

	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownBlockType, typeHolder.Type)
	}
}
