// Package state models and persists per-user conversation state: the message
// history, the fantasy league context, the most recent route/play analysis,
// and the injury-scan timestamp.
package state

import (
	"strings"
	"time"

	"github.com/huddlebot/huddlebot/internal/fantasy"
	"github.com/huddlebot/huddlebot/internal/schema"
)

// DefaultHistoryLimit caps the persisted history when the caller does not
// configure one.
const DefaultHistoryLimit = 40

// FantasyContext is everything the agent remembers about a user's fantasy
// involvement, both free-form (extracted from conversation) and structured
// (fetched from the league API).
type FantasyContext struct {
	// Extracted from conversation by the secondary model.
	MyTeam            []string `json:"my_team"`
	InterestedPlayers []string `json:"interested_players"`
	TradeHistory      []string `json:"trade_history"`

	// Linked league data, filled in after get_fantasy_roster succeeds.
	League    *fantasy.Credentials  `json:"league,omitempty"`
	Season    int                   `json:"season,omitempty"`
	TeamName  string                `json:"team_name,omitempty"`
	Roster    []fantasy.RosterEntry `json:"roster,omitempty"`
	Matchup   *fantasy.Matchup      `json:"matchup,omitempty"`
	Standings []fantasy.Standing    `json:"standings,omitempty"`

	// Set when the roster tool listed the league's teams and is waiting for
	// the user to say which one is theirs.
	AwaitingTeamSelection bool `json:"awaiting_team_selection,omitempty"`
}

// Empty reports whether nothing fantasy-related is known about the user.
func (f *FantasyContext) Empty() bool {
	return len(f.MyTeam) == 0 && len(f.InterestedPlayers) == 0 &&
		len(f.TradeHistory) == 0 && f.TeamName == "" && len(f.Roster) == 0
}

// AnalysisContext records the most recent route/play analysis so a short
// follow-up ("yes", "sure") can flow straight into diagram generation.
type AnalysisContext struct {
	Player       string   `json:"player"`
	Position     string   `json:"position"`
	AnalysisType string   `json:"analysis_type"`
	Names        []string `json:"names"`
}

// ConversationState is the full persisted record for one user.
type ConversationState struct {
	UserID          string               `json:"user_id"`
	History         []schema.Message     `json:"history"`
	Fantasy         FantasyContext       `json:"fantasy_context"`
	RecentAnalysis  *AnalysisContext     `json:"recent_analysis,omitempty"`
	LastInjuryCheck *time.Time           `json:"last_injury_check,omitempty"`
}

// New returns the default state for a user the store has never seen.
func New(userID string) *ConversationState {
	return &ConversationState{
		UserID: userID,
		Fantasy: FantasyContext{
			MyTeam:            []string{},
			InterestedPlayers: []string{},
			TradeHistory:      []string{},
		},
	}
}

// ResetHistory clears the message history and nothing else: fantasy context,
// analysis context, and the injury timestamp all survive a reset.
func (s *ConversationState) ResetHistory() {
	s.History = nil
}

// AppendHistory adds messages, trimming the oldest beyond limit.
// A non-positive limit uses DefaultHistoryLimit.
func (s *ConversationState) AppendHistory(limit int, msgs ...schema.Message) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	s.History = append(s.History, msgs...)
	if n := len(s.History); n > limit {
		s.History = s.History[n-limit:]
	}
}

// PlayerNames returns the deduplicated union of every player the user is
// known to care about: extracted team and interest lists plus the linked
// roster. Used by the injury monitor to cross-reference headlines.
func (s *ConversationState) PlayerNames() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, name)
	}
	for _, p := range s.Fantasy.MyTeam {
		add(p)
	}
	for _, p := range s.Fantasy.InterestedPlayers {
		add(p)
	}
	for _, r := range s.Fantasy.Roster {
		add(r.Player)
	}
	return out
}

// HasFantasyContext reports whether there is anything worth priming the
// model with.
func (s *ConversationState) HasFantasyContext() bool {
	return !s.Fantasy.Empty()
}
