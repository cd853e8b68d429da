// Package agent contains the conversational core: the tool-use orchestration
// loop, the pre-turn priming rules, the post-turn state extraction, and the
// bus-consuming loop that ties them to the chat surfaces.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/huddlebot/huddlebot/internal/schema"
	"github.com/huddlebot/huddlebot/internal/tools"
)

const truncatedFallback = "I ran out of room chasing that one down — mind asking again, maybe a bit more specifically?"

// ToolCall records one dispatched tool invocation.
type ToolCall struct {
	ID     string
	Name   string
	Args   map[string]any
	Result json.RawMessage
}

// ToolUsage summarizes the tool activity of one turn.
type ToolUsage struct {
	Calls []ToolCall
}

// Count returns how many times the named tool ran this turn.
func (u ToolUsage) Count(name string) int {
	n := 0
	for _, c := range u.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Last returns the most recent call to the named tool, or nil.
func (u ToolUsage) Last(name string) *ToolCall {
	for i := len(u.Calls) - 1; i >= 0; i-- {
		if u.Calls[i].Name == name {
			return &u.Calls[i]
		}
	}
	return nil
}

// TurnResult is the outcome of one orchestrated turn.
type TurnResult struct {
	Text      string           // final answer text
	Log       []schema.Message // the full working message log of the turn
	Usage     ToolUsage
	Truncated bool // hit the iteration cap before a plain answer
}

// Orchestrator drives the model's tool-use loop: call the model, execute the
// tool it asks for, feed the result back, repeat until it answers in plain
// text or the iteration cap trips.
type Orchestrator struct {
	llm       schema.LLMClient
	registry  *tools.Registry
	system    string
	model     string
	maxTokens int
	maxIter   int
	logger    *slog.Logger
}

// NewOrchestrator wires the loop. maxIter <= 0 defaults to 10.
func NewOrchestrator(llm schema.LLMClient, registry *tools.Registry, system, model string, maxTokens, maxIter int, logger *slog.Logger) *Orchestrator {
	if maxIter <= 0 {
		maxIter = 10
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Orchestrator{
		llm:       llm,
		registry:  registry,
		system:    system,
		model:     model,
		maxTokens: maxTokens,
		maxIter:   maxIter,
		logger:    logger.With("component", "orchestrator"),
	}
}

// Run executes one turn. priming messages (if any) precede the user message
// in the working log; onProgress (optional) fires once per dispatched tool.
// The only propagating error class is a model-call failure: tool failures
// are folded into envelopes and the loop continues.
func (o *Orchestrator) Run(ctx context.Context, userMessage string, priming []schema.Message, onProgress func(tool string)) (*TurnResult, error) {
	log := make([]schema.Message, 0, len(priming)+2)
	log = append(log, priming...)
	log = append(log, schema.UserText(userMessage))

	var usage ToolUsage
	var lastText string

	for i := 0; i < o.maxIter; i++ {
		resp, err := o.llm.CreateMessage(ctx, &schema.MessagesRequest{
			Model:     o.model,
			MaxTokens: o.maxTokens,
			System:    o.system,
			Messages:  log,
			Tools:     o.registry.Specs(),
		})
		if err != nil {
			return nil, fmt.Errorf("model call: %w", err)
		}

		if text := schema.TextOf(resp.Content); text != "" {
			lastText = text
		}

		if !resp.WantsTool() {
			log = append(log, schema.AssistantBlocks(resp.Content))
			return &TurnResult{Text: lastText, Log: log, Usage: usage}, nil
		}

		tu := schema.FirstToolUse(resp.Content)
		if tu == nil {
			// stop_reason says tool_use but no block arrived; treat as a
			// plain answer rather than looping forever.
			log = append(log, schema.AssistantBlocks(resp.Content))
			return &TurnResult{Text: lastText, Log: log, Usage: usage}, nil
		}

		if onProgress != nil {
			onProgress(tu.Name)
		}

		args := map[string]any{}
		if len(tu.Input) > 0 {
			if err := json.Unmarshal(tu.Input, &args); err != nil {
				o.logger.Warn("tool input is not a JSON object", "tool", tu.Name, "error", err)
			}
		}
		result := o.registry.Dispatch(ctx, tu.Name, args)
		usage.Calls = append(usage.Calls, ToolCall{ID: tu.ID, Name: tu.Name, Args: args, Result: result})

		// Only the acted-on invocation is serialized; trailing tool_use
		// blocks are dropped so every tool_use the model sees is paired
		// with exactly one tool_result in the next message.
		log = append(log, schema.AssistantBlocks(actedBlocks(resp.Content, tu.ID)))
		log = append(log, schema.ToolResultMessage(tu.ID, result))
	}

	o.logger.Warn("tool iteration cap reached", "cap", o.maxIter, "calls", len(usage.Calls))
	text := lastText
	if text == "" {
		text = truncatedFallback
	}
	log = append(log, schema.AssistantText(text))
	return &TurnResult{Text: text, Log: log, Usage: usage, Truncated: true}, nil
}

// actedBlocks filters an assistant response down to its text blocks plus the
// single tool_use block that was dispatched.
func actedBlocks(blocks []schema.ContentBlock, actedID string) []schema.ContentBlock {
	out := make([]schema.ContentBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Type == schema.BlockToolUse && b.ID != actedID {
			continue
		}
		out = append(out, b)
	}
	return out
}
