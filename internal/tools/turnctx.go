package tools

import (
	"context"

	"github.com/huddlebot/huddlebot/internal/fantasy"
)

// TurnContext carries per-turn state the handlers may need but the model
// never supplies: stored fantasy credentials and the default season. It is
// set by the agent service once per turn and read inside Execute.
type TurnContext struct {
	FantasyCreds *fantasy.Credentials
	Season       int
}

type turnKey struct{}

// WithTurn returns a child context carrying tc.
func WithTurn(ctx context.Context, tc TurnContext) context.Context {
	return context.WithValue(ctx, turnKey{}, tc)
}

// TurnCtx extracts the TurnContext from ctx.
// Returns a zero-value TurnContext if none was set.
func TurnCtx(ctx context.Context) TurnContext {
	tc, _ := ctx.Value(turnKey{}).(TurnContext)
	return tc
}

// argString reads a string argument, trimming nothing; missing or wrongly
// typed values yield "".
func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// argInt reads a numeric argument. JSON numbers arrive as float64; some
// models also emit plain ints after round-tripping.
func argInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// argStrings reads a string-list argument, skipping non-string elements.
func argStrings(args map[string]any, key string) []string {
	raw, _ := args[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// clamp bounds n to [lo, hi].
func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
