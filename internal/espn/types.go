package espn

import "strings"

const (
	maxDrives             = 10
	maxPlayersPerCategory = 5
)

// Scoreboard is the current slate of games.
type Scoreboard struct {
	Week       int    `json:"week"`
	SeasonType int    `json:"season_type"`
	Games      []Game `json:"games"`
}

// Game is one scoreboard entry. Scores are strings because that is how the
// upstream API reports them ("27", or "" before kickoff).
type Game struct {
	ID        string `json:"game_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Completed bool   `json:"completed"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore string `json:"home_score"`
	AwayScore string `json:"away_score"`
	Date      string `json:"date"`
}

// Team is one entry from the team directory.
type Team struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Record       string `json:"record"`
	Standing     string `json:"standing,omitempty"`
	Logo         string `json:"logo,omitempty"`
}

// GameSummary is the play-by-play detail for a single game.
type GameSummary struct {
	GameID       string                             `json:"game_id"`
	Matchup      string                             `json:"matchup"`
	Status       string                             `json:"status"`
	ScoringPlays []ScoringPlay                      `json:"scoring_plays"`
	Drives       []Drive                            `json:"drives"`
	TeamStats    []TeamBoxScore                     `json:"team_stats"`
	PlayerStats  map[string]map[string][]PlayerLine `json:"player_stats"`
}

// ScoringPlay is one scoring event with the running score after it.
type ScoringPlay struct {
	Quarter     int    `json:"quarter"`
	Clock       string `json:"clock"`
	Team        string `json:"team"`
	Description string `json:"description"`
	ScoreValue  int    `json:"score_value"`
	AwayScore   int    `json:"away_score"`
	HomeScore   int    `json:"home_score"`
}

// Drive is a condensed possession summary.
type Drive struct {
	Team        string `json:"team"`
	Result      string `json:"result"`
	Plays       int    `json:"plays"`
	Yards       int    `json:"yards"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

// TeamBoxScore maps stat labels to display values for one team.
type TeamBoxScore struct {
	Team  string            `json:"team"`
	Stats map[string]string `json:"stats"`
}

// PlayerLine is a single player's stat line within a category.
type PlayerLine struct {
	Name  string   `json:"name"`
	Stats []string `json:"stats"`
}

// matchTeam returns the first team whose display name contains the query,
// case-insensitively, so "chiefs" finds Kansas City Chiefs.
func matchTeam(teams []Team, name string) *Team {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil
	}
	for i := range teams {
		if strings.Contains(strings.ToLower(teams[i].Name), query) {
			return &teams[i]
		}
	}
	return nil
}
