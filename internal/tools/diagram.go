package tools

import (
	"context"

	"github.com/huddlebot/huddlebot/internal/diagrams"
	"github.com/huddlebot/huddlebot/internal/schema"
)

// DiagramTool renders route, play, and coverage diagrams through the
// content-addressed diagram store.
type DiagramTool struct {
	store *diagrams.Store
}

// NewDiagramTool creates a DiagramTool backed by the diagram store.
func NewDiagramTool(s *diagrams.Store) *DiagramTool {
	return &DiagramTool{store: s}
}

func (t *DiagramTool) Name() string { return "generate_diagram" }

func (t *DiagramTool) Description() string {
	return "Generates visual diagrams for football routes, plays, or coverages. Pass the exact concept names from a prior analysis. Returns a URL per diagram; already-generated diagrams are reused."
}

func (t *DiagramTool) InputSchema() map[string]any {
	return schema.ObjectSchema(map[string]any{
		"names": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Route, play, or coverage names to draw (e.g., ['Slant', 'Post'])",
		},
		"diagram_type": map[string]any{
			"type":        "string",
			"enum":        []string{"route", "play", "coverage"},
			"description": "What kind of diagram to draw",
		},
	}, "names", "diagram_type")
}

// DiagramEntry is the per-name outcome: one bad name never voids the batch.
type DiagramEntry struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// DiagramResult is the generate_diagram wire shape.
type DiagramResult struct {
	Envelope
	DiagramType string         `json:"diagram_type,omitempty"`
	Diagrams    []DiagramEntry `json:"diagrams,omitempty"`
}

func (t *DiagramTool) Execute(_ context.Context, args map[string]any) (any, error) {
	names := argStrings(args, "names")
	if len(names) == 0 {
		return DiagramResult{Envelope: FailCode(ErrBadArgument, "names must contain at least one diagram name")}, nil
	}

	kind, err := diagrams.ParseKind(argString(args, "diagram_type"))
	if err != nil {
		return DiagramResult{Envelope: FailCode(ErrBadArgument, err.Error())}, nil
	}

	entries := make([]DiagramEntry, 0, len(names))
	anyOK := false
	for _, name := range names {
		url, _, err := t.store.Ensure(kind, name)
		if err != nil {
			entries = append(entries, DiagramEntry{Name: name, Success: false, Message: err.Error()})
			continue
		}
		anyOK = true
		entries = append(entries, DiagramEntry{Name: name, Success: true, URL: url})
	}

	env := OK()
	if !anyOK {
		env = Fail("No diagrams could be generated")
	}
	return DiagramResult{Envelope: env, DiagramType: string(kind), Diagrams: entries}, nil
}
