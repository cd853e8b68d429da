package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/huddlebot/huddlebot/internal/schema"
	"github.com/huddlebot/huddlebot/internal/state"
)

// fixedLLM returns one canned text response, or an error.
type fixedLLM struct {
	text string
	err  error
}

func (f *fixedLLM) CreateMessage(_ context.Context, _ *schema.MessagesRequest) (*schema.MessagesResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return textResponse(f.text), nil
}

func TestExtractorMergesDelta(t *testing.T) {
	llm := &fixedLLM{text: `Here's what I found:
{"my_team": ["Travis Kelce", "josh allen"], "interested_players": ["CeeDee Lamb"], "trades": ["traded away Derrick Henry for a WR2"]}`}
	ex := NewExtractor(llm, "haiku", testLogger())

	st := state.New("u1")
	st.Fantasy.MyTeam = []string{"Josh Allen"}
	ex.Update(context.Background(), "I've got Kelce and Allen, eyeing Lamb", st)

	// "josh allen" duplicates case-insensitively; only Kelce is new.
	if len(st.Fantasy.MyTeam) != 2 {
		t.Errorf("my_team = %v, want existing Allen plus Kelce", st.Fantasy.MyTeam)
	}
	if len(st.Fantasy.InterestedPlayers) != 1 || st.Fantasy.InterestedPlayers[0] != "CeeDee Lamb" {
		t.Errorf("interested_players = %v", st.Fantasy.InterestedPlayers)
	}
	if len(st.Fantasy.TradeHistory) != 1 {
		t.Errorf("trade_history = %v", st.Fantasy.TradeHistory)
	}
}

func TestExtractorFailureLeavesStateUntouched(t *testing.T) {
	st := state.New("u2")
	st.Fantasy.MyTeam = []string{"Josh Allen"}

	for _, llm := range []*fixedLLM{
		{err: errors.New("model down")},
		{text: "no structured output here, just vibes"},
		{text: `{"my_team": broken json`},
	} {
		NewExtractor(llm, "haiku", testLogger()).Update(context.Background(), "trade talk", st)
	}

	if len(st.Fantasy.MyTeam) != 1 || len(st.Fantasy.TradeHistory) != 0 {
		t.Errorf("failed extraction must not mutate state: %+v", st.Fantasy)
	}
}
