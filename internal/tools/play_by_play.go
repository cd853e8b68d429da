package tools

import (
	"context"
	"fmt"

	"github.com/huddlebot/huddlebot/internal/espn"
	"github.com/huddlebot/huddlebot/internal/schema"
)

// PlayByPlayTool fetches the detailed summary for one game.
type PlayByPlayTool struct {
	espn *espn.Client
}

// NewPlayByPlayTool creates a PlayByPlayTool backed by the ESPN client.
func NewPlayByPlayTool(c *espn.Client) *PlayByPlayTool {
	return &PlayByPlayTool{espn: c}
}

func (t *PlayByPlayTool) Name() string { return "get_play_by_play" }

func (t *PlayByPlayTool) Description() string {
	return "Gets detailed play-by-play data for a specific NFL game including scoring plays, drive summaries, box score stats, and player performance. Use this when the user asks about what happened in a specific game. You can get game_id from the get_live_scores tool."
}

func (t *PlayByPlayTool) InputSchema() map[string]any {
	return schema.ObjectSchema(map[string]any{
		"game_id": map[string]any{
			"type":        "string",
			"description": "The ESPN game ID (e.g., '401547417'). Get this from the get_live_scores tool first by looking at recent games.",
		},
	}, "game_id")
}

// PlayByPlayResult is the get_play_by_play wire shape.
type PlayByPlayResult struct {
	Envelope
	*espn.GameSummary
}

func (t *PlayByPlayTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	gameID := argString(args, "game_id")
	if gameID == "" {
		return PlayByPlayResult{Envelope: FailCode(ErrBadArgument, "game_id is required")}, nil
	}

	sum, err := t.espn.GameSummary(ctx, gameID)
	if err != nil {
		return PlayByPlayResult{Envelope: Fail(fmt.Sprintf("Could not fetch play-by-play data for game %s", gameID))}, nil
	}
	return PlayByPlayResult{Envelope: OK(), GameSummary: sum}, nil
}
