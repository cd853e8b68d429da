package agent

import (
	"fmt"
	"strings"

	"github.com/huddlebot/huddlebot/internal/config"
	"github.com/huddlebot/huddlebot/internal/schema"
	"github.com/huddlebot/huddlebot/internal/state"
)

// Priming rule identifiers, in precedence order.
const (
	RuleNone          = ""
	RuleTeamSelection = "team_selection"
	RuleAffirmative   = "affirmative_analysis"
	RuleFantasy       = "fantasy_context"
)

// PrimeResult is the outcome of the pre-turn rules: at most one primer
// message, plus flags the postprocess stage needs.
type PrimeResult struct {
	Priming []schema.Message
	Rule    string

	// FantasyIntent is computed from the keyword list regardless of which
	// rule fired; it gates the post-turn extraction call.
	FantasyIntent bool

	// ConsumedAnalysis marks that the affirmative rule spent the stored
	// analysis context this turn.
	ConsumedAnalysis bool

	// TeamSelection carries the verbatim team name when rule 1 fired.
	TeamSelection string
}

// Prime applies the ordered rule table to the incoming message. First match
// wins; history is never replayed into the model, so the primer is the only
// cross-turn memory the model sees.
func Prime(msg string, st *state.ConversationState, kw *config.Keywords) PrimeResult {
	res := PrimeResult{FantasyIntent: kw.MatchesFantasy(msg)}

	switch {
	case st.Fantasy.AwaitingTeamSelection:
		res.Rule = RuleTeamSelection
		res.TeamSelection = strings.TrimSpace(msg)
		res.Priming = []schema.Message{schema.UserText(teamSelectionPrimer(st, res.TeamSelection))}

	case st.RecentAnalysis != nil && kw.MatchesAffirmative(msg):
		res.Rule = RuleAffirmative
		res.ConsumedAnalysis = true
		res.Priming = []schema.Message{schema.UserText(analysisPrimer(st.RecentAnalysis))}

	case res.FantasyIntent && st.HasFantasyContext():
		res.Rule = RuleFantasy
		res.Priming = []schema.Message{schema.UserText(fantasyPrimer(&st.Fantasy))}
	}

	return res
}

func teamSelectionPrimer(st *state.ConversationState, teamName string) string {
	var b strings.Builder
	b.WriteString("[Context: the user was just shown their fantasy league's team list and asked which team is theirs. ")
	fmt.Fprintf(&b, "Their next message, %q, is the team name. ", teamName)
	b.WriteString("Call get_fantasy_roster with that team_name")
	if st.Fantasy.League.Configured() {
		fmt.Fprintf(&b, " and league_id %s", st.Fantasy.League.LeagueID)
	}
	b.WriteString(" to fetch their roster.]")
	return b.String()
}

func analysisPrimer(ac *state.AnalysisContext) string {
	var b strings.Builder
	b.WriteString("[Context: the user is answering yes to the diagram offer from the previous analysis. ")
	fmt.Fprintf(&b, "That analysis covered %s (%s), type %q, and the concepts were: %s. ",
		ac.Player, ac.Position, ac.AnalysisType, strings.Join(ac.Names, ", "))
	kind := "route"
	if ac.AnalysisType == "plays" {
		kind = "play"
	}
	fmt.Fprintf(&b, "Call generate_diagram with diagram_type %q and exactly those names.]", kind)
	return b.String()
}

func fantasyPrimer(fc *state.FantasyContext) string {
	var b strings.Builder
	b.WriteString("[Context: what is known about the user's fantasy situation.")
	if fc.TeamName != "" {
		fmt.Fprintf(&b, " Their team is %q.", fc.TeamName)
	}
	if len(fc.MyTeam) > 0 {
		fmt.Fprintf(&b, " Players on their team: %s.", strings.Join(fc.MyTeam, ", "))
	}
	if len(fc.InterestedPlayers) > 0 {
		fmt.Fprintf(&b, " Players they are watching: %s.", strings.Join(fc.InterestedPlayers, ", "))
	}
	if len(fc.TradeHistory) > 0 {
		fmt.Fprintf(&b, " Trades they have discussed: %s.", strings.Join(fc.TradeHistory, "; "))
	}
	if len(fc.Roster) > 0 {
		b.WriteString(" Linked roster: ")
		parts := make([]string, 0, len(fc.Roster))
		for _, r := range fc.Roster {
			part := fmt.Sprintf("%s (%s, %.1f pts", r.Player, r.Position, r.Points)
			if r.InjuryStatus != "" && r.InjuryStatus != "ACTIVE" {
				part += ", " + r.InjuryStatus
			}
			parts = append(parts, part+")")
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(".")
	}
	if fc.Matchup != nil {
		fmt.Fprintf(&b, " Week %d matchup: %s %.1f vs %s %.1f.",
			fc.Matchup.Week, fc.Matchup.HomeTeam, fc.Matchup.HomeScore,
			fc.Matchup.AwayTeam, fc.Matchup.AwayScore)
	}
	if fc.League.Configured() {
		fmt.Fprintf(&b, " Their league ID is %s; pass it to get_fantasy_roster for fresh data.", fc.League.LeagueID)
	}
	b.WriteString("]")
	return b.String()
}
