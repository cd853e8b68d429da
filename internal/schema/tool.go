package schema

import "context"

// Tool is the interface every LLM-callable tool must satisfy.
//
// Execute returns a JSON-serializable result value. Handlers convert their
// own failures (network, parse, not-found) into failure envelopes inside the
// returned value; a non-nil error is a last resort and is folded into a
// failure envelope by the registry, never surfaced to the loop.
type Tool interface {
	Name() string
	Description() string
	// InputSchema returns the JSON Schema describing the tool's parameters.
	InputSchema() map[string]any
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ToolSpec is the wire-format tool declaration sent with every model call.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// SpecFor builds the wire declaration for a tool.
func SpecFor(t Tool) ToolSpec {
	return ToolSpec{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: t.InputSchema(),
	}
}

// ObjectSchema builds a JSON Schema object from property definitions and the
// list of required property names. Tools use it to keep InputSchema bodies
// short.
func ObjectSchema(props map[string]any, required ...string) map[string]any {
	if props == nil {
		props = map[string]any{}
	}
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}
