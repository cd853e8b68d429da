package agent

import (
	"strings"
	"testing"

	"github.com/huddlebot/huddlebot/internal/config"
	"github.com/huddlebot/huddlebot/internal/fantasy"
	"github.com/huddlebot/huddlebot/internal/state"
)

func testKeywords() *config.Keywords {
	kw := config.DefaultKeywords()
	return &kw
}

func primerText(t *testing.T, res PrimeResult) string {
	t.Helper()
	if len(res.Priming) != 1 {
		t.Fatalf("expected exactly one primer message, got %d", len(res.Priming))
	}
	return res.Priming[0].Content[0].Text
}

func TestPrimeTeamSelectionTakesPrecedence(t *testing.T) {
	st := state.New("u1")
	st.Fantasy.AwaitingTeamSelection = true
	st.Fantasy.League = &fantasy.Credentials{LeagueID: "98765"}
	// Analysis is also pending; rule 1 must still win.
	st.RecentAnalysis = &state.AnalysisContext{Player: "Travis Kelce", Names: []string{"Slant"}}

	res := Prime("yes", st, testKeywords())
	if res.Rule != RuleTeamSelection {
		t.Fatalf("rule = %q, want team selection", res.Rule)
	}
	if res.TeamSelection != "yes" {
		t.Errorf("team selection must carry the message verbatim, got %q", res.TeamSelection)
	}
	if res.ConsumedAnalysis {
		t.Error("team selection must not consume the analysis context")
	}
	text := primerText(t, res)
	if !strings.Contains(text, "get_fantasy_roster") || !strings.Contains(text, "98765") {
		t.Errorf("primer missing roster instruction or league id: %q", text)
	}
}

func TestPrimeAffirmativeUsesStoredAnalysis(t *testing.T) {
	st := state.New("u2")
	st.RecentAnalysis = &state.AnalysisContext{
		Player: "Travis Kelce", Position: "TE", AnalysisType: "routes",
		Names: []string{"Slant", "Post", "Wheel"},
	}

	res := Prime("yes", st, testKeywords())
	if res.Rule != RuleAffirmative {
		t.Fatalf("rule = %q, want affirmative", res.Rule)
	}
	if !res.ConsumedAnalysis {
		t.Error("affirmative rule must mark the analysis consumed")
	}

	text := primerText(t, res)
	for _, name := range []string{"Slant", "Post", "Wheel"} {
		if !strings.Contains(text, name) {
			t.Errorf("primer missing concept %q: %s", name, text)
		}
	}
	if !strings.Contains(text, "Travis Kelce") || !strings.Contains(text, "generate_diagram") {
		t.Errorf("primer missing player or diagram instruction: %q", text)
	}
}

func TestPrimeAffirmativeNeedsShortMessage(t *testing.T) {
	st := state.New("u3")
	st.RecentAnalysis = &state.AnalysisContext{Player: "Travis Kelce", Names: []string{"Slant"}}

	res := Prime("yes I would also like to know about the weather this sunday", st, testKeywords())
	if res.Rule == RuleAffirmative {
		t.Error("long messages must not trigger the affirmative rule")
	}
}

func TestPrimeAffirmativeWithoutAnalysisDoesNothing(t *testing.T) {
	res := Prime("yes", state.New("u4"), testKeywords())
	if res.Rule != RuleNone || len(res.Priming) != 0 {
		t.Errorf("expected no priming, got rule %q", res.Rule)
	}
}

func TestPrimeFantasyContext(t *testing.T) {
	st := state.New("u5")
	st.Fantasy.MyTeam = []string{"Josh Allen", "Saquon Barkley"}
	st.Fantasy.TeamName = "Gridiron Geeks"

	res := Prime("should I trade Saquon before the deadline?", st, testKeywords())
	if res.Rule != RuleFantasy {
		t.Fatalf("rule = %q, want fantasy", res.Rule)
	}
	if !res.FantasyIntent {
		t.Error("fantasy intent flag must be set")
	}
	text := primerText(t, res)
	if !strings.Contains(text, "Josh Allen") || !strings.Contains(text, "Gridiron Geeks") {
		t.Errorf("primer missing fantasy context: %q", text)
	}
}

func TestPrimeFantasyKeywordWithEmptyContext(t *testing.T) {
	res := Prime("who should I start this week?", state.New("u6"), testKeywords())
	if res.Rule != RuleNone {
		t.Errorf("empty fantasy context must not prime, got rule %q", res.Rule)
	}
	if !res.FantasyIntent {
		t.Error("fantasy intent is computed independently of priming")
	}
}
