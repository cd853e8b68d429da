package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/huddlebot/huddlebot/internal/espn"
	"github.com/huddlebot/huddlebot/internal/schema"
)

// TeamStatsTool looks up one NFL team's record and display metadata.
type TeamStatsTool struct {
	espn *espn.Client
}

// NewTeamStatsTool creates a TeamStatsTool backed by the ESPN client.
func NewTeamStatsTool(c *espn.Client) *TeamStatsTool {
	return &TeamStatsTool{espn: c}
}

func (t *TeamStatsTool) Name() string { return "get_team_stats" }

func (t *TeamStatsTool) Description() string {
	return "Gets statistics and information for a specific NFL team including their record. Use this when discussing a specific team's performance."
}

func (t *TeamStatsTool) InputSchema() map[string]any {
	return schema.ObjectSchema(map[string]any{
		"team_name": map[string]any{
			"type":        "string",
			"description": "The name of the NFL team (e.g., 'Chiefs', 'Patriots', 'Cowboys')",
		},
	}, "team_name")
}

// TeamStatsResult is the get_team_stats wire shape.
type TeamStatsResult struct {
	Envelope
	Team *espn.Team `json:"team,omitempty"`
}

func (t *TeamStatsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	name := argString(args, "team_name")
	if name == "" {
		return TeamStatsResult{Envelope: FailCode(ErrBadArgument, "team_name is required")}, nil
	}

	team, err := t.espn.TeamInfo(ctx, name)
	if err != nil {
		if errors.Is(err, espn.ErrTeamNotFound) {
			return TeamStatsResult{Envelope: FailCode(ErrNotFound, fmt.Sprintf("Could not find team: %s", name))}, nil
		}
		return TeamStatsResult{Envelope: Fail("Could not fetch team information at this time")}, nil
	}
	return TeamStatsResult{Envelope: OK(), Team: team}, nil
}
