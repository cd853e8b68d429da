package tools

import (
	"context"
	"errors"

	"github.com/huddlebot/huddlebot/internal/schema"
	"github.com/huddlebot/huddlebot/internal/videos"
)

const (
	videosDefaultLimit = 5
	videosMaxLimit     = 10
)

// VideoSearchTool finds NFL highlight videos.
type VideoSearchTool struct {
	client *videos.Client
}

// NewVideoSearchTool creates a VideoSearchTool backed by the YouTube client.
func NewVideoSearchTool(c *videos.Client) *VideoSearchTool {
	return &VideoSearchTool{client: c}
}

func (t *VideoSearchTool) Name() string { return "search_nfl_videos" }

func (t *VideoSearchTool) Description() string {
	return "Searches for NFL highlight videos. Use this when the user wants to watch highlights, replays, or clips of a game, player, or play."
}

func (t *VideoSearchTool) InputSchema() map[string]any {
	return schema.ObjectSchema(map[string]any{
		"query": map[string]any{
			"type":        "string",
			"description": "What to search for (e.g., 'Chiefs Bills highlights week 14')",
		},
		"max_results": map[string]any{
			"type":        "integer",
			"description": "Number of videos to return (default 5, max 10)",
			"minimum":     1,
			"maximum":     videosMaxLimit,
		},
	}, "query")
}

// VideoSearchResult is the search_nfl_videos wire shape. FallbackURL is set
// when the API cannot serve so the user can still search manually.
type VideoSearchResult struct {
	Envelope
	Videos      []videos.Video `json:"videos,omitempty"`
	FallbackURL string         `json:"fallback_url,omitempty"`
}

func (t *VideoSearchTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	query := argString(args, "query")
	if query == "" {
		return VideoSearchResult{Envelope: FailCode(ErrBadArgument, "query is required")}, nil
	}
	limit := clamp(argInt(args, "max_results", videosDefaultLimit), 1, videosMaxLimit)

	found, err := t.client.Search(ctx, query, limit)
	if err != nil {
		fallback := videos.FallbackSearchURL(query)
		switch {
		case errors.Is(err, videos.ErrQuotaExceeded):
			return VideoSearchResult{
				Envelope:    FailCode(ErrQuotaExceeded, "The video search quota is exhausted for today; offer the user the manual search link instead"),
				FallbackURL: fallback,
			}, nil
		case errors.Is(err, videos.ErrNotConfigured):
			return VideoSearchResult{
				Envelope:    FailCode(ErrUnavailable, "Video search is not configured; offer the user the manual search link instead"),
				FallbackURL: fallback,
			}, nil
		}
		return VideoSearchResult{
			Envelope:    Fail("Could not search for videos at this time"),
			FallbackURL: fallback,
		}, nil
	}
	return VideoSearchResult{Envelope: OK(), Videos: found}, nil
}
