package tools

import (
	"context"

	"github.com/huddlebot/huddlebot/internal/news"
	"github.com/huddlebot/huddlebot/internal/schema"
)

const (
	newsDefaultLimit = 10
	newsMaxLimit     = 20
)

// NewsTool returns recent NFL headlines from the configured feeds.
type NewsTool struct {
	agg *news.Aggregator
}

// NewNewsTool creates a NewsTool backed by the feed aggregator.
func NewNewsTool(a *news.Aggregator) *NewsTool {
	return &NewsTool{agg: a}
}

func (t *NewsTool) Name() string { return "get_nfl_news" }

func (t *NewsTool) Description() string {
	return "Fetches recent NFL news headlines with summaries and links. Use this when the user asks about news, storylines, or what's being reported around the league."
}

func (t *NewsTool) InputSchema() map[string]any {
	return schema.ObjectSchema(map[string]any{
		"limit": map[string]any{
			"type":        "integer",
			"description": "Number of headlines to return (default 10, max 20)",
			"minimum":     1,
			"maximum":     newsMaxLimit,
		},
	})
}

// NewsResult is the get_nfl_news wire shape.
type NewsResult struct {
	Envelope
	Articles []news.Item `json:"articles,omitempty"`
	Count    int         `json:"count"`
}

func (t *NewsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	limit := clamp(argInt(args, "limit", newsDefaultLimit), 1, newsMaxLimit)

	items, err := t.agg.Fetch(ctx, limit)
	if err != nil {
		return NewsResult{Envelope: Fail("Could not fetch NFL news at this time")}, nil
	}
	return NewsResult{Envelope: OK(), Articles: items, Count: len(items)}, nil
}
