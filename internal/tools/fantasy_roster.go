package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/huddlebot/huddlebot/internal/fantasy"
	"github.com/huddlebot/huddlebot/internal/schema"
)

// FantasyRosterTool reads a user's ESPN fantasy league. Two-phase protocol:
// without a team name it returns the league's team list for disambiguation;
// with one it returns the full roster, current matchup, and standings.
type FantasyRosterTool struct {
	client *fantasy.Client
}

// NewFantasyRosterTool creates a FantasyRosterTool backed by the fantasy client.
func NewFantasyRosterTool(c *fantasy.Client) *FantasyRosterTool {
	return &FantasyRosterTool{client: c}
}

func (t *FantasyRosterTool) Name() string { return "get_fantasy_roster" }

func (t *FantasyRosterTool) Description() string {
	return "Fetches a user's ESPN fantasy football team: roster with points and injury status, this week's matchup, and league standings. Call without team_name first to list the league's teams so the user can pick theirs. Private leagues need espn_s2 and swid cookies."
}

func (t *FantasyRosterTool) InputSchema() map[string]any {
	return schema.ObjectSchema(map[string]any{
		"league_id": map[string]any{
			"type":        "string",
			"description": "The ESPN fantasy league ID",
		},
		"espn_s2": map[string]any{
			"type":        "string",
			"description": "espn_s2 cookie for private leagues",
		},
		"swid": map[string]any{
			"type":        "string",
			"description": "SWID cookie for private leagues",
		},
		"season": map[string]any{
			"type":        "integer",
			"description": "Season year (defaults to the current season)",
		},
		"team_name": map[string]any{
			"type":        "string",
			"description": "The user's team name or abbreviation; omit to list all teams",
		},
	})
}

// FantasyRosterResult is the get_fantasy_roster wire shape. Exactly one of
// Teams (selection phase) or Roster (detail phase) is populated on success.
type FantasyRosterResult struct {
	Envelope
	NeedsTeamSelection bool                  `json:"needs_team_selection,omitempty"`
	Teams              []fantasy.TeamEntry   `json:"teams,omitempty"`
	TeamName           string                `json:"team_name,omitempty"`
	Roster             []fantasy.RosterEntry `json:"roster,omitempty"`
	Matchup            *fantasy.Matchup      `json:"matchup,omitempty"`
	Standings          []fantasy.Standing    `json:"standings,omitempty"`
}

func (t *FantasyRosterTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	creds := t.resolveCreds(ctx, args)
	if !creds.Configured() {
		return FantasyRosterResult{Envelope: FailCode(ErrBadArgument,
			"No fantasy league is linked yet. Ask the user for their ESPN league ID (and espn_s2/SWID cookies if the league is private).")}, nil
	}
	season := argInt(args, "season", 0)
	teamName := argString(args, "team_name")

	if teamName == "" {
		teams, err := t.client.LeagueTeams(ctx, creds, season)
		if err != nil {
			return FantasyRosterResult{Envelope: classifyFantasyError(err)}, nil
		}
		return FantasyRosterResult{
			Envelope:           OK(),
			NeedsTeamSelection: true,
			Teams:              teams,
		}, nil
	}

	data, err := t.client.TeamDetailByName(ctx, creds, season, teamName)
	if err != nil {
		if errors.Is(err, fantasy.ErrTeamNotFound) {
			return FantasyRosterResult{Envelope: FailCode(ErrNotFound,
				fmt.Sprintf("No team matching %q in this league; ask the user to pick from the team list", teamName))}, nil
		}
		return FantasyRosterResult{Envelope: classifyFantasyError(err)}, nil
	}
	return FantasyRosterResult{
		Envelope:  OK(),
		TeamName:  data.TeamName,
		Roster:    data.Roster,
		Matchup:   data.Matchup,
		Standings: data.Standings,
	}, nil
}

// resolveCreds prefers explicit arguments and falls back to the stored
// credentials carried in the turn context.
func (t *FantasyRosterTool) resolveCreds(ctx context.Context, args map[string]any) *fantasy.Credentials {
	creds := &fantasy.Credentials{
		LeagueID: argString(args, "league_id"),
		ESPNS2:   argString(args, "espn_s2"),
		SWID:     argString(args, "swid"),
	}
	if creds.Configured() {
		return creds
	}
	if stored := TurnCtx(ctx).FantasyCreds; stored.Configured() {
		return stored
	}
	return creds
}

// classifyFantasyError maps the client sentinels to the four failure classes,
// each with targeted remediation guidance.
func classifyFantasyError(err error) Envelope {
	switch {
	case errors.Is(err, fantasy.ErrNotFound):
		return FailCode(ErrNotFound,
			"League not found. The league ID may be wrong, or the league may not exist for that season.")
	case errors.Is(err, fantasy.ErrUnauthorized):
		return FailCode(ErrUnauthorized,
			"ESPN rejected the credentials. For private leagues the espn_s2 and SWID cookies must come from a current espn.com login; they expire, so ask the user to re-copy them.")
	case errors.Is(err, fantasy.ErrTimeout):
		return FailCode(ErrTimeout,
			"The ESPN fantasy API timed out. This is usually transient; suggest trying again in a moment.")
	case errors.Is(err, fantasy.ErrRateLimited):
		return FailCode(ErrRateLimited,
			"The ESPN fantasy API is rate limiting requests. Wait a minute before retrying.")
	}
	return Fail("Could not reach the ESPN fantasy API: " + err.Error())
}
