package fantasy

// Credentials identify a private ESPN fantasy league. The two cookie values
// come from a logged-in espn.com session.
type Credentials struct {
	LeagueID string `json:"league_id"`
	ESPNS2   string `json:"espn_s2,omitempty"`
	SWID     string `json:"swid,omitempty"`
}

// Configured reports whether a league has been linked.
func (c *Credentials) Configured() bool {
	return c != nil && c.LeagueID != ""
}

// TeamEntry is one team in the league directory, enough for the user to
// pick which one is theirs.
type TeamEntry struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Abbrev string `json:"abbrev"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// RosterEntry is one rostered player with scoring-period numbers.
type RosterEntry struct {
	Player       string  `json:"player"`
	Position     string  `json:"position"`
	Slot         string  `json:"slot"`
	ProTeam      string  `json:"pro_team,omitempty"`
	Points       float64 `json:"points"`
	Projected    float64 `json:"projected"`
	InjuryStatus string  `json:"injury_status,omitempty"`
}

// Starting reports whether the entry occupies a scoring lineup slot.
func (r RosterEntry) Starting() bool {
	return r.Slot != "Bench" && r.Slot != "IR"
}

// Matchup is the current week's head-to-head for one team.
type Matchup struct {
	Week      int     `json:"week"`
	HomeTeam  string  `json:"home_team"`
	HomeScore float64 `json:"home_score"`
	AwayTeam  string  `json:"away_team"`
	AwayScore float64 `json:"away_score"`
}

// Standing is one row of the league table.
type Standing struct {
	Team      string  `json:"team"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	PointsFor float64 `json:"points_for"`
}

// TeamData is everything the agent needs about one fantasy team.
type TeamData struct {
	TeamName  string        `json:"team_name"`
	Roster    []RosterEntry `json:"roster"`
	Matchup   *Matchup      `json:"matchup,omitempty"`
	Standings []Standing    `json:"standings"`
}

// ESPN fantasy numeric codes. Positions describe what a player is, lineup
// slots describe where he sits this week.
var positionNames = map[int]string{
	1:  "QB",
	2:  "RB",
	3:  "WR",
	4:  "TE",
	5:  "K",
	16: "D/ST",
}

var slotNames = map[int]string{
	0:  "QB",
	2:  "RB",
	4:  "WR",
	6:  "TE",
	7:  "OP",
	16: "D/ST",
	17: "K",
	20: "Bench",
	21: "IR",
	23: "FLEX",
}

var proTeamNames = map[int]string{
	1: "ATL", 2: "BUF", 3: "CHI", 4: "CIN", 5: "CLE", 6: "DAL", 7: "DEN",
	8: "DET", 9: "GB", 10: "TEN", 11: "IND", 12: "KC", 13: "LV", 14: "LAR",
	15: "MIA", 16: "MIN", 17: "NE", 18: "NO", 19: "NYG", 20: "NYJ",
	21: "PHI", 22: "ARI", 23: "PIT", 24: "LAC", 25: "SF", 26: "SEA",
	27: "TB", 28: "WSH", 29: "CAR", 30: "JAX", 33: "BAL", 34: "HOU",
}

func positionName(id int) string {
	if name, ok := positionNames[id]; ok {
		return name
	}
	return "UNKNOWN"
}

func slotName(id int) string {
	if name, ok := slotNames[id]; ok {
		return name
	}
	return "Bench"
}

func proTeamName(id int) string {
	return proTeamNames[id]
}
