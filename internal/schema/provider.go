package schema

import "context"

// Stop reasons returned by the Messages API.
const (
	StopToolUse   = "tool_use"
	StopEndTurn   = "end_turn"
	StopMaxTokens = "max_tokens"
)

// MessagesRequest is one model call: system instructions, the working message
// log, and the full tool declaration set.
type MessagesRequest struct {
	Model     string     `json:"model"`
	MaxTokens int        `json:"max_tokens"`
	System    string     `json:"system,omitempty"`
	Messages  []Message  `json:"messages"`
	Tools     []ToolSpec `json:"tools,omitempty"`
}

// Usage carries the token counts reported by the model.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MessagesResponse is the model's reply: a stop reason plus ordered content
// blocks (text and/or tool_use).
type MessagesResponse struct {
	ID         string         `json:"id"`
	StopReason string         `json:"stop_reason"`
	Content    []ContentBlock `json:"content"`
	Usage      Usage          `json:"usage"`
}

// WantsTool reports whether the model paused to request a tool invocation.
func (r *MessagesResponse) WantsTool() bool { return r.StopReason == StopToolUse }

// LLMClient is the interface the orchestrator and the extractor are built
// around. Any model exposing the "declare tools, loop until done" contract is
// substitutable.
type LLMClient interface {
	CreateMessage(ctx context.Context, req *MessagesRequest) (*MessagesResponse, error)
}
