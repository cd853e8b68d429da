package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huddlebot/huddlebot/internal/fantasy"
	"github.com/huddlebot/huddlebot/internal/schema"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadUnknownUserGetsDefaults(t *testing.T) {
	s := newTestStore(t)

	st, err := s.Load("new-user")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.UserID != "new-user" {
		t.Errorf("UserID = %q", st.UserID)
	}
	if st.History != nil {
		t.Error("new user should have no history")
	}
	if st.Fantasy.MyTeam == nil || st.Fantasy.InterestedPlayers == nil || st.Fantasy.TradeHistory == nil {
		t.Error("fantasy slices must default to empty, not nil")
	}
	if st.RecentAnalysis != nil || st.LastInjuryCheck != nil {
		t.Error("analysis and injury timestamp must default to nil")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	st := New("u1")
	st.AppendHistory(0, schema.UserText("who plays tonight?"), schema.AssistantText("Chiefs at Bills."))
	st.Fantasy.MyTeam = []string{"Travis Kelce"}
	st.Fantasy.InterestedPlayers = []string{"CeeDee Lamb"}
	st.Fantasy.League = &fantasy.Credentials{LeagueID: "12345"}
	st.Fantasy.TeamName = "Gridiron Geeks"
	st.Fantasy.Roster = []fantasy.RosterEntry{{Player: "Josh Allen", Position: "QB", Slot: "QB"}}
	st.RecentAnalysis = &AnalysisContext{
		Player: "Travis Kelce", Position: "TE", AnalysisType: "routes",
		Names: []string{"Slant", "Curl", "Out"},
	}
	st.LastInjuryCheck = &now

	if err := s.Save(st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("u1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.History) != 2 {
		t.Errorf("history length = %d, want 2", len(got.History))
	}
	if got.Fantasy.TeamName != "Gridiron Geeks" || !got.Fantasy.League.Configured() {
		t.Errorf("fantasy context lost: %+v", got.Fantasy)
	}
	if got.RecentAnalysis == nil || got.RecentAnalysis.Names[0] != "Slant" {
		t.Errorf("analysis context lost: %+v", got.RecentAnalysis)
	}
	if got.LastInjuryCheck == nil || !got.LastInjuryCheck.Equal(now) {
		t.Errorf("injury timestamp lost: %v", got.LastInjuryCheck)
	}
}

func TestResetClearsHistoryOnly(t *testing.T) {
	s := newTestStore(t)

	st := New("u2")
	st.AppendHistory(0, schema.UserText("hello"))
	st.Fantasy.MyTeam = []string{"Patrick Mahomes"}
	st.RecentAnalysis = &AnalysisContext{Player: "Patrick Mahomes", Position: "QB", AnalysisType: "plays"}
	if err := s.Save(st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	st.ResetHistory()
	if err := s.Save(st); err != nil {
		t.Fatalf("Save after reset: %v", err)
	}

	got, err := s.Load("u2")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.History) != 0 {
		t.Errorf("history should be empty after reset, got %d messages", len(got.History))
	}
	if len(got.Fantasy.MyTeam) != 1 {
		t.Error("reset must not touch fantasy context")
	}
	if got.RecentAnalysis == nil {
		t.Error("reset must not touch analysis context")
	}
}

func TestAppendHistoryTrims(t *testing.T) {
	st := New("u3")
	for i := 0; i < 10; i++ {
		st.AppendHistory(4, schema.UserText("m"))
	}
	if len(st.History) != 4 {
		t.Errorf("history length = %d, want trimmed to 4", len(st.History))
	}
}

func TestPlayerNamesUnion(t *testing.T) {
	st := New("u4")
	st.Fantasy.MyTeam = []string{"Travis Kelce", "josh allen"}
	st.Fantasy.InterestedPlayers = []string{"Travis Kelce", "CeeDee Lamb"}
	st.Fantasy.Roster = []fantasy.RosterEntry{{Player: "Josh Allen"}, {Player: "Saquon Barkley"}}

	names := st.PlayerNames()
	if len(names) != 4 {
		t.Errorf("PlayerNames = %v, want 4 unique names", names)
	}
}

func TestUserIDs(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"web:b", "telegram:a"} {
		if err := s.Save(New(id)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	ids, err := s.UserIDs()
	if err != nil {
		t.Fatalf("UserIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "telegram:a" {
		t.Errorf("UserIDs = %v", ids)
	}
}
