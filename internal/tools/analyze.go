package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/huddlebot/huddlebot/internal/schema"
)

const (
	analyzeDefaultLimit = 3
	analyzeMaxLimit     = 10

	// simulationNote is attached to every analysis result so the model
	// presents the numbers as league-typical archetypes, never as measured
	// per-player data.
	simulationNote = "Simulated league-typical archetype data, not per-player tracking statistics"
)

// Archetype is one route or play concept with precomputed typical metrics.
type Archetype struct {
	Name        string  `json:"name"`
	SuccessRate float64 `json:"success_rate"`
	Volume      int     `json:"volume"`
	AvgYards    float64 `json:"avg_yards"`
	Description string  `json:"description"`
}

// score ranks archetypes: frequency-weighted effectiveness.
func (a Archetype) score() float64 { return a.SuccessRate * float64(a.Volume) }

// The reference tables. Values are league-typical, not measured: the tool
// declares this in every result via simulationNote.
var routeArchetypes = []Archetype{
	{Name: "Slant", SuccessRate: 0.68, Volume: 120, AvgYards: 7.2, Description: "Quick inside break, beats off coverage"},
	{Name: "Out", SuccessRate: 0.61, Volume: 95, AvgYards: 6.8, Description: "Hard break to the sideline at 8-10 yards"},
	{Name: "Post", SuccessRate: 0.52, Volume: 60, AvgYards: 16.4, Description: "Deep inside break attacking the middle of the field"},
	{Name: "Corner", SuccessRate: 0.48, Volume: 45, AvgYards: 15.1, Description: "Deep outside break away from safety help"},
	{Name: "Go", SuccessRate: 0.38, Volume: 70, AvgYards: 22.6, Description: "Vertical route stressing the cornerback deep"},
	{Name: "Curl", SuccessRate: 0.66, Volume: 88, AvgYards: 8.5, Description: "Comeback to the quarterback at 10-12 yards"},
	{Name: "Dig", SuccessRate: 0.58, Volume: 64, AvgYards: 12.3, Description: "Deep in-breaking route behind the linebackers"},
	{Name: "Wheel", SuccessRate: 0.44, Volume: 28, AvgYards: 18.9, Description: "Flat release turning vertical up the sideline"},
	{Name: "Screen", SuccessRate: 0.72, Volume: 54, AvgYards: 5.9, Description: "Behind-the-line throw with blockers in front"},
	{Name: "Crosser", SuccessRate: 0.63, Volume: 76, AvgYards: 10.7, Description: "Shallow route across the formation versus man"},
}

var playArchetypes = []Archetype{
	{Name: "Play Action Deep Shot", SuccessRate: 0.47, Volume: 55, AvgYards: 14.8, Description: "Run fake pulling safeties before a deep throw"},
	{Name: "RPO Slant", SuccessRate: 0.64, Volume: 85, AvgYards: 6.9, Description: "Run-pass option reading the conflict defender"},
	{Name: "Quick Game Spacing", SuccessRate: 0.69, Volume: 110, AvgYards: 5.4, Description: "Three-step timing throws against soft zone"},
	{Name: "Bootleg", SuccessRate: 0.58, Volume: 40, AvgYards: 9.2, Description: "Rollout off run action to halve the field"},
	{Name: "Four Verticals", SuccessRate: 0.41, Volume: 38, AvgYards: 17.5, Description: "Vertical stretch forcing single-high decisions"},
	{Name: "Tunnel Screen", SuccessRate: 0.66, Volume: 42, AvgYards: 7.1, Description: "Perimeter screen behind kick-out blocks"},
	{Name: "Mesh Concept", SuccessRate: 0.62, Volume: 58, AvgYards: 8.8, Description: "Crossing rub routes attacking man coverage"},
	{Name: "Draw", SuccessRate: 0.55, Volume: 48, AvgYards: 5.6, Description: "Delayed handoff against an upfield rush"},
}

// positionAliases folds synonyms to the canonical position code.
var positionAliases = map[string]string{
	"qb": "QB", "quarterback": "QB",
	"wr": "WR", "receiver": "WR", "wide receiver": "WR", "wideout": "WR",
	"te": "TE", "tight end": "TE",
}

// AnalyzeRoutesTool ranks route or play archetypes for a player by position.
type AnalyzeRoutesTool struct{}

// NewAnalyzeRoutesTool creates an AnalyzeRoutesTool.
func NewAnalyzeRoutesTool() *AnalyzeRoutesTool { return &AnalyzeRoutesTool{} }

func (t *AnalyzeRoutesTool) Name() string { return "analyze_player_routes" }

func (t *AnalyzeRoutesTool) Description() string {
	return "Analyzes the most effective route concepts (WR/TE) or play concepts (QB) for a player, ranked by success rate weighted by usage. Returns simulated league-typical archetype data. After presenting results, offer to generate diagrams of the top concepts."
}

func (t *AnalyzeRoutesTool) InputSchema() map[string]any {
	return schema.ObjectSchema(map[string]any{
		"player_name": map[string]any{
			"type":        "string",
			"description": "The player's name (e.g., 'Travis Kelce')",
		},
		"position": map[string]any{
			"type":        "string",
			"description": "The player's position: QB, WR, or TE",
		},
		"limit": map[string]any{
			"type":        "integer",
			"description": "Number of top concepts to return (default 3)",
			"minimum":     1,
			"maximum":     analyzeMaxLimit,
		},
	}, "player_name", "position")
}

// AnalysisResult is the analyze_player_routes wire shape.
type AnalysisResult struct {
	Envelope
	Player       string      `json:"player,omitempty"`
	Position     string      `json:"position,omitempty"`
	AnalysisType string      `json:"analysis_type,omitempty"`
	Results      []Archetype `json:"results,omitempty"`
	Note         string      `json:"note,omitempty"`
}

func (t *AnalyzeRoutesTool) Execute(_ context.Context, args map[string]any) (any, error) {
	player := argString(args, "player_name")
	if player == "" {
		return AnalysisResult{Envelope: FailCode(ErrBadArgument, "player_name is required")}, nil
	}

	rawPos := argString(args, "position")
	pos, ok := canonicalPosition(rawPos)
	if !ok {
		return AnalysisResult{Envelope: FailCode(ErrBadArgument,
			fmt.Sprintf("Position %q is not supported; route/play analysis covers QB, WR, and TE only", rawPos))}, nil
	}

	table := routeArchetypes
	analysisType := "routes"
	if pos == "QB" {
		table = playArchetypes
		analysisType = "plays"
	}

	ranked := make([]Archetype, len(table))
	copy(ranked, table)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score() > ranked[j].score()
	})

	limit := clamp(argInt(args, "limit", analyzeDefaultLimit), 1, analyzeMaxLimit)
	if limit > len(ranked) {
		limit = len(ranked)
	}

	return AnalysisResult{
		Envelope:     OK(),
		Player:       player,
		Position:     pos,
		AnalysisType: analysisType,
		Results:      ranked[:limit],
		Note:         simulationNote,
	}, nil
}

// canonicalPosition folds case and synonyms; ok is false for positions
// outside the supported set.
func canonicalPosition(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	pos, ok := positionAliases[key]
	return pos, ok
}
