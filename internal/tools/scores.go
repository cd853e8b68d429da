package tools

import (
	"context"

	"github.com/huddlebot/huddlebot/internal/espn"
	"github.com/huddlebot/huddlebot/internal/schema"
)

// LiveScoresTool fetches the current NFL scoreboard.
type LiveScoresTool struct {
	espn *espn.Client
}

// NewLiveScoresTool creates a LiveScoresTool backed by the ESPN client.
func NewLiveScoresTool(c *espn.Client) *LiveScoresTool {
	return &LiveScoresTool{espn: c}
}

func (t *LiveScoresTool) Name() string { return "get_live_scores" }

func (t *LiveScoresTool) Description() string {
	return "Fetches current NFL scores, game status, and week information. Use this when the user asks about current games, scores, or what's happening right now in the NFL. Returns game IDs that can be used with get_play_by_play."
}

func (t *LiveScoresTool) InputSchema() map[string]any {
	return schema.ObjectSchema(nil)
}

// LiveScoresResult is the get_live_scores wire shape.
type LiveScoresResult struct {
	Envelope
	Games      []espn.Game `json:"games,omitempty"`
	Week       int         `json:"week,omitempty"`
	SeasonType int         `json:"season_type,omitempty"`
}

func (t *LiveScoresTool) Execute(ctx context.Context, _ map[string]any) (any, error) {
	sb, err := t.espn.Scoreboard(ctx)
	if err != nil {
		return LiveScoresResult{Envelope: Fail("Could not fetch live scores at this time")}, nil
	}
	return LiveScoresResult{
		Envelope:   OK(),
		Games:      sb.Games,
		Week:       sb.Week,
		SeasonType: sb.SeasonType,
	}, nil
}
