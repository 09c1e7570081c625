package message

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a conversation: a role and an ordered sequence of
// content blocks. The sequence a loop accumulates is append-only within one
// query and is discarded when the query returns.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// NewUserText creates a user message containing a single text block.
func NewUserText(text string) Message {
	return Message{
		Role:    RoleUser,
		Content: []ContentBlock{NewText(text)},
	}
}

// NewAssistant creates an assistant message carrying the model's response
// content verbatim, tool_use blocks included, so the model retains
// visibility into its own prior requests.
func NewAssistant(content []ContentBlock) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolResults creates the user turn that feeds tool results back to the
// model, one block per tool_use of the preceding assistant turn.
func NewToolResults(results []*ToolResultBlock) Message {
	blocks := make([]ContentBlock, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, r)
	}

	return Message{Role: RoleUser, Content: blocks}
}
