package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/huddlebot/huddlebot/internal/schema"
	"github.com/huddlebot/huddlebot/internal/shared/llmutils"
)

// Registry holds the immutable set of named tools and dispatches invocations.
type Registry struct {
	tools  map[string]schema.Tool
	logger *slog.Logger
}

// Get returns the tool with the given name, or nil.
func (r *Registry) Get(name string) schema.Tool {
	return r.tools[name]
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Specs returns the wire declarations for every registered tool in a stable
// order, ready to attach to a model call.
func (r *Registry) Specs() []schema.ToolSpec {
	specs := make([]schema.ToolSpec, 0, len(r.tools))
	for _, name := range r.Names() {
		specs = append(specs, schema.SpecFor(r.tools[name]))
	}
	return specs
}

// Dispatch executes the named tool and returns its JSON-serialized result.
// It never returns an error: an unknown name, a handler error, or a
// marshalling failure all become failure envelopes, because the tool-use
// loop must continue no matter what the model asked for.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) json.RawMessage {
	t := r.tools[name]
	if t == nil {
		r.logger.Warn("unknown tool requested", "tool", name)
		return marshalResult(FailCode(ErrUnknownTool, "Tool "+name+" is not available"))
	}

	r.logger.Info("tool call", "hint", llmutils.ToolHint(name, args))

	result, err := t.Execute(ctx, args)
	if err != nil {
		// Handlers normally fold failures into their result; this is the
		// last-resort path for bugs and context cancellation.
		r.logger.Warn("tool execution failed", "tool", name, "error", err)
		return marshalResult(Fail("The " + name + " tool failed: " + err.Error()))
	}
	return marshalResult(result)
}

func marshalResult(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(Fail("internal error serializing tool result"))
	}
	return data
}

// RegistryBuilder accumulates tools during the construction phase.
// Call Build to produce an immutable Registry ready for use.
type RegistryBuilder struct {
	tools  map[string]schema.Tool
	logger *slog.Logger
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder(logger *slog.Logger) *RegistryBuilder {
	return &RegistryBuilder{tools: make(map[string]schema.Tool), logger: logger}
}

// WithTool adds a tool and returns the builder, enabling chaining.
func (b *RegistryBuilder) WithTool(tool schema.Tool) *RegistryBuilder {
	b.tools[tool.Name()] = tool

	return b
}

// Build produces an immutable Registry from the accumulated tools.
func (b *RegistryBuilder) Build() *Registry {
	tools := make(map[string]schema.Tool, len(b.tools))
	for k, v := range b.tools {
		tools[k] = v
	}
	return &Registry{tools: tools, logger: b.logger}
}
