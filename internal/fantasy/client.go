// Package fantasy reads private ESPN fantasy league data through the
// lm-api-reads v3 endpoint, authenticated by the espn_s2/SWID cookie pair.
package fantasy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/huddlebot/huddlebot/internal/config"
	"github.com/huddlebot/huddlebot/internal/shared/httpx"
)

// Sentinel errors callers map to user-facing messages.
var (
	ErrNotConfigured = errors.New("fantasy league not configured")
	ErrUnauthorized  = errors.New("fantasy credentials rejected")
	ErrNotFound      = errors.New("fantasy league not found")
	ErrRateLimited   = errors.New("fantasy API rate limited")
	ErrTimeout       = errors.New("fantasy API timed out")
	ErrTeamNotFound  = errors.New("fantasy team not found")
)

// Client talks to the ESPN fantasy v3 API.
type Client struct {
	base   string
	season int
	httpc  *http.Client
	logger *slog.Logger
}

// NewClient builds a Client from the fantasy configuration.
func NewClient(cfg config.FantasyConfig, logger *slog.Logger) *Client {
	return &Client{
		base:   cfg.APIBase,
		season: cfg.DefaultSeason,
		httpc:  &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// leagueResponse covers the mTeam/mRoster/mMatchupScore/mStandings views.
// Older leagues report location+nickname instead of a single name field.
type leagueResponse struct {
	ScoringPeriodID int `json:"scoringPeriodId"`
	Status          struct {
		CurrentMatchupPeriod int `json:"currentMatchupPeriod"`
	} `json:"status"`
	Teams []struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Location string `json:"location"`
		Nickname string `json:"nickname"`
		Abbrev   string `json:"abbrev"`
		Record   struct {
			Overall struct {
				Wins      int     `json:"wins"`
				Losses    int     `json:"losses"`
				PointsFor float64 `json:"pointsFor"`
			} `json:"overall"`
		} `json:"record"`
		Roster struct {
			Entries []struct {
				LineupSlotID    int `json:"lineupSlotId"`
				PlayerPoolEntry struct {
					AppliedStatTotal float64 `json:"appliedStatTotal"`
					Player           struct {
						FullName          string `json:"fullName"`
						DefaultPositionID int    `json:"defaultPositionId"`
						ProTeamID         int    `json:"proTeamId"`
						InjuryStatus      string `json:"injuryStatus"`
						Stats             []struct {
							ScoringPeriodID int     `json:"scoringPeriodId"`
							StatSourceID    int     `json:"statSourceId"`
							AppliedTotal    float64 `json:"appliedTotal"`
						} `json:"stats"`
					} `json:"player"`
				} `json:"playerPoolEntry"`
			} `json:"entries"`
		} `json:"roster"`
	} `json:"teams"`
	Schedule []struct {
		MatchupPeriodID int `json:"matchupPeriodId"`
		Home            struct {
			TeamID      int     `json:"teamId"`
			TotalPoints float64 `json:"totalPoints"`
		} `json:"home"`
		Away struct {
			TeamID      int     `json:"teamId"`
			TotalPoints float64 `json:"totalPoints"`
		} `json:"away"`
	} `json:"schedule"`
}

func (lr *leagueResponse) teamName(i int) string {
	t := lr.Teams[i]
	if t.Name != "" {
		return t.Name
	}
	return t.Location + " " + t.Nickname
}

func (lr *leagueResponse) nameByID(id int) string {
	for i := range lr.Teams {
		if lr.Teams[i].ID == id {
			return lr.teamName(i)
		}
	}
	return fmt.Sprintf("Team %d", id)
}

// LeagueTeams lists the teams in the league so the user can pick theirs.
// A season of 0 means the configured default.
func (c *Client) LeagueTeams(ctx context.Context, creds *Credentials, season int) ([]TeamEntry, error) {
	lr, err := c.fetchLeague(ctx, creds, season, "view=mTeam")
	if err != nil {
		return nil, err
	}
	out := make([]TeamEntry, 0, len(lr.Teams))
	for i, t := range lr.Teams {
		out = append(out, TeamEntry{
			ID:     t.ID,
			Name:   lr.teamName(i),
			Abbrev: t.Abbrev,
			Wins:   t.Record.Overall.Wins,
			Losses: t.Record.Overall.Losses,
		})
	}
	return out, nil
}

// TeamDetail returns roster, current matchup, and league standings for the
// team with the given id.
func (c *Client) TeamDetail(ctx context.Context, creds *Credentials, season, teamID int) (*TeamData, error) {
	lr, err := c.fetchLeague(ctx, creds, season, allViews)
	if err != nil {
		return nil, err
	}
	for i := range lr.Teams {
		if lr.Teams[i].ID == teamID {
			return lr.teamData(i), nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrTeamNotFound, teamID)
}

// TeamDetailByName resolves a team by case-insensitive substring match on
// its name or abbreviation, then returns the same detail as TeamDetail.
func (c *Client) TeamDetailByName(ctx context.Context, creds *Credentials, season int, name string) (*TeamData, error) {
	lr, err := c.fetchLeague(ctx, creds, season, allViews)
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(name))
	for i := range lr.Teams {
		if strings.Contains(strings.ToLower(lr.teamName(i)), query) ||
			strings.EqualFold(lr.Teams[i].Abbrev, query) {
			return lr.teamData(i), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, name)
}

const allViews = "view=mTeam&view=mRoster&view=mMatchupScore&view=mStandings"

// teamData assembles the TeamData view for the team at index idx.
func (lr *leagueResponse) teamData(idx int) *TeamData {
	data := &TeamData{TeamName: lr.teamName(idx)}
	teamID := lr.Teams[idx].ID

	for _, entry := range lr.Teams[idx].Roster.Entries {
		player := entry.PlayerPoolEntry.Player
		re := RosterEntry{
			Player:       player.FullName,
			Position:     positionName(player.DefaultPositionID),
			Slot:         slotName(entry.LineupSlotID),
			ProTeam:      proTeamName(player.ProTeamID),
			Points:       entry.PlayerPoolEntry.AppliedStatTotal,
			InjuryStatus: player.InjuryStatus,
		}
		for _, st := range player.Stats {
			if st.StatSourceID == 1 && st.ScoringPeriodID == lr.ScoringPeriodID {
				re.Projected = st.AppliedTotal
				break
			}
		}
		data.Roster = append(data.Roster, re)
	}

	week := lr.Status.CurrentMatchupPeriod
	for _, m := range lr.Schedule {
		if m.MatchupPeriodID != week {
			continue
		}
		if m.Home.TeamID == teamID || m.Away.TeamID == teamID {
			data.Matchup = &Matchup{
				Week:      week,
				HomeTeam:  lr.nameByID(m.Home.TeamID),
				HomeScore: m.Home.TotalPoints,
				AwayTeam:  lr.nameByID(m.Away.TeamID),
				AwayScore: m.Away.TotalPoints,
			}
			break
		}
	}

	for i, t := range lr.Teams {
		data.Standings = append(data.Standings, Standing{
			Team:      lr.teamName(i),
			Wins:      t.Record.Overall.Wins,
			Losses:    t.Record.Overall.Losses,
			PointsFor: t.Record.Overall.PointsFor,
		})
	}
	sort.SliceStable(data.Standings, func(i, j int) bool {
		if data.Standings[i].Wins != data.Standings[j].Wins {
			return data.Standings[i].Wins > data.Standings[j].Wins
		}
		return data.Standings[i].PointsFor > data.Standings[j].PointsFor
	})

	return data
}

func (c *Client) fetchLeague(ctx context.Context, creds *Credentials, season int, views string) (*leagueResponse, error) {
	if !creds.Configured() {
		return nil, ErrNotConfigured
	}
	if season <= 0 {
		season = c.season
	}

	url := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%s?%s", c.base, season, creds.LeagueID, views)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if creds.ESPNS2 != "" {
		req.AddCookie(&http.Cookie{Name: "espn_s2", Value: creds.ESPNS2})
	}
	if creds.SWID != "" {
		req.AddCookie(&http.Cookie{Name: "SWID", Value: creds.SWID})
	}

	var lr leagueResponse
	if err := httpx.DoJSON(c.httpc, req, &lr); err != nil {
		return nil, c.mapError(creds.LeagueID, err)
	}
	return &lr, nil
}

// mapError converts transport failures into the package sentinels.
func (c *Client) mapError(leagueID string, err error) error {
	var se *httpx.StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w (league %s)", ErrUnauthorized, leagueID)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, leagueID)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		}
		return err
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return ErrTimeout
	}
	return err
}
