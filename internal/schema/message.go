// Package schema contains the core contracts shared across huddlebot packages:
// the message/content-block wire model, the Tool interface, and the LLM client
// interface. Concrete implementations live in their respective packages.
package schema

import "encoding/json"

// Role values for Message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types. These are the Anthropic Messages API block types;
// the same structs are used internally and on the wire.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// ContentBlock is a single typed unit within a message: plain text, a tool
// invocation emitted by the model, or a tool result fed back by us.
type ContentBlock struct {
	Type string `json:"type"`

	// Type == "text"
	Text string `json:"text,omitempty"`

	// Type == "tool_use"
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// Type == "tool_result"
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// Message is one turn in the conversation sent to or from the model.
// Content is always a block list; plain-text messages hold a single text block.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// UserText builds a user message holding a single text block.
func UserText(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{TextBlock(text)}}
}

// AssistantText builds an assistant message holding a single text block.
func AssistantText(text string) Message {
	return Message{Role: RoleAssistant, Content: []ContentBlock{TextBlock(text)}}
}

// AssistantBlocks builds an assistant message from already-serialized blocks.
func AssistantBlocks(blocks []ContentBlock) Message {
	return Message{Role: RoleAssistant, Content: blocks}
}

// ToolResultMessage builds the user message that pairs a tool invocation with
// its JSON-serialized result. The Messages API requires the result to arrive
// in the next user-role message, carrying the invocation's id.
func ToolResultMessage(toolUseID string, result json.RawMessage) Message {
	return Message{
		Role: RoleUser,
		Content: []ContentBlock{{
			Type:      BlockToolResult,
			ToolUseID: toolUseID,
			Content:   string(result),
		}},
	}
}

// TextOf concatenates all text blocks in a block list.
func TextOf(blocks []ContentBlock) string {
	var out string
	for _, b := range blocks {
		if b.Type == BlockText {
			out += b.Text
		}
	}
	return out
}

// FirstToolUse returns the first tool_use block, or nil when the response
// contains none.
func FirstToolUse(blocks []ContentBlock) *ContentBlock {
	for i := range blocks {
		if blocks[i].Type == BlockToolUse {
			return &blocks[i]
		}
	}
	return nil
}
