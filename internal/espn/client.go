// Package espn is a thin client for the public ESPN site API: scoreboard,
// team directory, and per-game summaries. Responses are normalized into the
// shapes the tools feed back to the model and cached briefly since game data
// only moves every few seconds.
package espn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/huddlebot/huddlebot/internal/shared/httpx"
)

// ErrTeamNotFound is returned when no team matches the requested name.
var ErrTeamNotFound = errors.New("team not found")

const (
	scoreboardTTL = 30 * time.Second
	teamsTTL      = time.Hour
	summaryTTL    = 30 * time.Second
)

// Client fetches NFL data from the ESPN site API.
type Client struct {
	base   string
	httpc  *http.Client
	cache  *ristretto.Cache
	logger *slog.Logger
}

// NewClient creates a Client for the given API base
// (e.g. https://site.api.espn.com/apis/site/v2/sports/football/nfl).
func NewClient(base string, logger *slog.Logger) (*Client, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("espn cache: %w", err)
	}
	return &Client{
		base:   base,
		httpc:  &http.Client{Timeout: 10 * time.Second},
		cache:  cache,
		logger: logger,
	}, nil
}

// Scoreboard returns the current games and week number.
func (c *Client) Scoreboard(ctx context.Context) (*Scoreboard, error) {
	if v, ok := c.cache.Get("scoreboard"); ok {
		return v.(*Scoreboard), nil
	}

	var data struct {
		Week struct {
			Number int `json:"number"`
		} `json:"week"`
		Season struct {
			Type int `json:"type"`
		} `json:"season"`
		Events []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Date   string `json:"date"`
			Status struct {
				Type struct {
					Description string `json:"description"`
					Completed   bool   `json:"completed"`
				} `json:"type"`
			} `json:"status"`
			Competitions []struct {
				Competitors []struct {
					HomeAway string `json:"homeAway"`
					Score    string `json:"score"`
					Team     struct {
						DisplayName string `json:"displayName"`
					} `json:"team"`
				} `json:"competitors"`
			} `json:"competitions"`
		} `json:"events"`
	}
	if err := httpx.GetJSON(ctx, c.httpc, c.base+"/scoreboard", &data); err != nil {
		return nil, fmt.Errorf("scoreboard: %w", err)
	}

	sb := &Scoreboard{
		Week:       data.Week.Number,
		SeasonType: data.Season.Type,
		Games:      make([]Game, 0, len(data.Events)),
	}
	for _, ev := range data.Events {
		g := Game{
			ID:        ev.ID,
			Name:      ev.Name,
			Date:      ev.Date,
			Status:    ev.Status.Type.Description,
			Completed: ev.Status.Type.Completed,
		}
		if len(ev.Competitions) > 0 {
			for _, comp := range ev.Competitions[0].Competitors {
				if comp.HomeAway == "home" {
					g.HomeTeam = comp.Team.DisplayName
					g.HomeScore = comp.Score
				} else {
					g.AwayTeam = comp.Team.DisplayName
					g.AwayScore = comp.Score
				}
			}
		}
		sb.Games = append(sb.Games, g)
	}

	c.cache.SetWithTTL("scoreboard", sb, 1, scoreboardTTL)
	c.cache.Wait()
	return sb, nil
}

// TeamInfo finds a team by fuzzy name match (case-insensitive substring of
// the display name) and returns its record and display metadata.
func (c *Client) TeamInfo(ctx context.Context, name string) (*Team, error) {
	teams, err := c.teams(ctx)
	if err != nil {
		return nil, err
	}
	if t := matchTeam(teams, name); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, name)
}

// teams returns the full team directory, cached for an hour.
func (c *Client) teams(ctx context.Context) ([]Team, error) {
	if v, ok := c.cache.Get("teams"); ok {
		return v.([]Team), nil
	}

	var data struct {
		Sports []struct {
			Leagues []struct {
				Teams []struct {
					Team struct {
						DisplayName     string `json:"displayName"`
						Abbreviation    string `json:"abbreviation"`
						StandingSummary string `json:"standingSummary"`
						Record          struct {
							Items []struct {
								Summary string `json:"summary"`
							} `json:"items"`
						} `json:"record"`
						Logos []struct {
							Href string `json:"href"`
						} `json:"logos"`
					} `json:"team"`
				} `json:"teams"`
			} `json:"leagues"`
		} `json:"sports"`
	}
	if err := httpx.GetJSON(ctx, c.httpc, c.base+"/teams", &data); err != nil {
		return nil, fmt.Errorf("teams: %w", err)
	}

	var out []Team
	for _, sport := range data.Sports {
		for _, league := range sport.Leagues {
			for _, entry := range league.Teams {
				t := Team{
					Name:         entry.Team.DisplayName,
					Abbreviation: entry.Team.Abbreviation,
					Standing:     entry.Team.StandingSummary,
				}
				if len(entry.Team.Record.Items) > 0 {
					t.Record = entry.Team.Record.Items[0].Summary
				}
				if len(entry.Team.Logos) > 0 {
					t.Logo = entry.Team.Logos[0].Href
				}
				out = append(out, t)
			}
		}
	}

	c.cache.SetWithTTL("teams", out, 1, teamsTTL)
	c.cache.Wait()
	return out, nil
}

// GameSummary returns play-by-play detail for one game: scoring plays in
// order, the most recent drives, the team box score, and the top player
// stat lines per category.
func (c *Client) GameSummary(ctx context.Context, gameID string) (*GameSummary, error) {
	key := "summary:" + gameID
	if v, ok := c.cache.Get(key); ok {
		return v.(*GameSummary), nil
	}

	var data struct {
		Header struct {
			Competitions []struct {
				Status struct {
					Type struct {
						Description string `json:"description"`
					} `json:"type"`
				} `json:"status"`
				Competitors []struct {
					Team struct {
						DisplayName string `json:"displayName"`
					} `json:"team"`
				} `json:"competitors"`
			} `json:"competitions"`
		} `json:"header"`
		ScoringPlays []struct {
			Period struct {
				Number int `json:"number"`
			} `json:"period"`
			Clock struct {
				DisplayValue string `json:"displayValue"`
			} `json:"clock"`
			Team struct {
				DisplayName string `json:"displayName"`
			} `json:"team"`
			Text       string `json:"text"`
			ScoreValue int    `json:"scoreValue"`
			AwayScore  int    `json:"awayScore"`
			HomeScore  int    `json:"homeScore"`
		} `json:"scoringPlays"`
		Drives struct {
			Previous []struct {
				Team struct {
					DisplayName string `json:"displayName"`
				} `json:"team"`
				Result      string `json:"result"`
				Plays       int    `json:"offensivePlays"`
				Yards       int    `json:"yards"`
				TimeElapsed struct {
					DisplayValue string `json:"displayValue"`
				} `json:"timeElapsed"`
				Description string `json:"description"`
			} `json:"previous"`
		} `json:"drives"`
		Boxscore struct {
			Teams []struct {
				Team struct {
					DisplayName string `json:"displayName"`
				} `json:"team"`
				Statistics []struct {
					Label        string `json:"label"`
					DisplayValue string `json:"displayValue"`
				} `json:"statistics"`
			} `json:"teams"`
			Players []struct {
				Team struct {
					DisplayName string `json:"displayName"`
				} `json:"team"`
				Statistics []struct {
					Name     string `json:"name"`
					Athletes []struct {
						Athlete struct {
							DisplayName string `json:"displayName"`
						} `json:"athlete"`
						Stats []string `json:"stats"`
					} `json:"athletes"`
				} `json:"statistics"`
			} `json:"players"`
		} `json:"boxscore"`
	}
	if err := httpx.GetJSON(ctx, c.httpc, c.base+"/summary?event="+gameID, &data); err != nil {
		return nil, fmt.Errorf("summary %s: %w", gameID, err)
	}

	sum := &GameSummary{GameID: gameID}
	if len(data.Header.Competitions) > 0 {
		comp := data.Header.Competitions[0]
		sum.Status = comp.Status.Type.Description
		if len(comp.Competitors) >= 2 {
			sum.Matchup = comp.Competitors[0].Team.DisplayName + " vs " + comp.Competitors[1].Team.DisplayName
		}
	}

	for _, play := range data.ScoringPlays {
		sum.ScoringPlays = append(sum.ScoringPlays, ScoringPlay{
			Quarter:     play.Period.Number,
			Clock:       play.Clock.DisplayValue,
			Team:        play.Team.DisplayName,
			Description: play.Text,
			ScoreValue:  play.ScoreValue,
			AwayScore:   play.AwayScore,
			HomeScore:   play.HomeScore,
		})
	}

	// Most recent drives first is how users ask about them; ESPN lists
	// previous drives chronologically, so take the tail.
	prev := data.Drives.Previous
	if len(prev) > maxDrives {
		prev = prev[len(prev)-maxDrives:]
	}
	for _, d := range prev {
		sum.Drives = append(sum.Drives, Drive{
			Team:        d.Team.DisplayName,
			Result:      d.Result,
			Plays:       d.Plays,
			Yards:       d.Yards,
			Time:        d.TimeElapsed.DisplayValue,
			Description: d.Description,
		})
	}

	for _, team := range data.Boxscore.Teams {
		stats := make(map[string]string, len(team.Statistics))
		for _, s := range team.Statistics {
			stats[s.Label] = s.DisplayValue
		}
		sum.TeamStats = append(sum.TeamStats, TeamBoxScore{
			Team:  team.Team.DisplayName,
			Stats: stats,
		})
	}

	sum.PlayerStats = map[string]map[string][]PlayerLine{}
	for _, team := range data.Boxscore.Players {
		byCategory := map[string][]PlayerLine{}
		for _, cat := range team.Statistics {
			athletes := cat.Athletes
			if len(athletes) > maxPlayersPerCategory {
				athletes = athletes[:maxPlayersPerCategory]
			}
			lines := make([]PlayerLine, 0, len(athletes))
			for _, a := range athletes {
				lines = append(lines, PlayerLine{Name: a.Athlete.DisplayName, Stats: a.Stats})
			}
			byCategory[cat.Name] = lines
		}
		sum.PlayerStats[team.Team.DisplayName] = byCategory
	}

	c.cache.SetWithTTL(key, sum, 1, summaryTTL)
	c.cache.Wait()
	return sum, nil
}
