package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/huddlebot/huddlebot/internal/config"
	"github.com/huddlebot/huddlebot/internal/fantasy"
	"github.com/huddlebot/huddlebot/internal/schema"
	"github.com/huddlebot/huddlebot/internal/state"
	"github.com/huddlebot/huddlebot/internal/tools"
)

// Reply is a finished turn as delivered to a surface.
type Reply struct {
	Text      string
	Truncated bool
}

// Service is the full turn pipeline: prime, orchestrate, postprocess,
// persist. One instance serves every surface.
type Service struct {
	states    *state.Manager
	orch      *Orchestrator
	extractor *Extractor
	injury    *InjuryMonitor
	keywords  *config.KeywordSource

	turnTimeout  time.Duration
	historyLimit int
	season       int
	logger       *slog.Logger
}

// NewService wires the pipeline from its stages and the agent configuration.
func NewService(states *state.Manager, orch *Orchestrator, extractor *Extractor, injury *InjuryMonitor, keywords *config.KeywordSource, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		states:       states,
		orch:         orch,
		extractor:    extractor,
		injury:       injury,
		keywords:     keywords,
		turnTimeout:  cfg.TurnTimeout(),
		historyLimit: cfg.Agent.HistoryLimit,
		season:       cfg.Sources.Fantasy.DefaultSeason,
		logger:       logger.With("component", "agent"),
	}
}

// HandleTurn runs one conversational turn for userID under the turn's
// wall-clock budget. Model failures propagate; everything else degrades.
func (s *Service) HandleTurn(ctx context.Context, userID, message string, onProgress func(tool string)) (*Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	defer cancel()

	kw := s.keywords.Current()
	turnLog := s.logger.With("turn_id", uuid.NewString(), "user", userID)
	var reply *Reply

	err := s.states.WithState(userID, func(st *state.ConversationState) error {
		prime := Prime(message, st, kw)
		if prime.Rule != RuleNone {
			turnLog.Debug("primer applied", "rule", prime.Rule)
		}

		turnCtx := tools.WithTurn(ctx, tools.TurnContext{
			FantasyCreds: st.Fantasy.League,
			Season:       s.season,
		})

		result, err := s.orch.Run(turnCtx, message, prime.Priming, onProgress)
		if err != nil {
			return err
		}

		s.updateAnalysisContext(st, result, prime)
		s.updateFantasyContext(st, result)
		if prime.FantasyIntent {
			s.extractor.Update(ctx, message, st)
		}

		text := result.Text
		if s.injury.Due(st, time.Now()) {
			if digest := s.injury.Scan(ctx, st, kw, time.Now()); digest != "" {
				text = digest + "\n" + text
			}
		}

		st.AppendHistory(s.historyLimit,
			schema.UserText(message), schema.AssistantText(text))

		turnLog.Info("turn complete", "tools", len(result.Usage.Calls), "truncated", result.Truncated)
		reply = &Reply{Text: text, Truncated: result.Truncated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// updateAnalysisContext overwrites the stored analysis when the analytics
// tool ran this turn, and clears it when the affirmative rule just spent it.
// An analysis survives exactly one unrelated turn-start check: it is replaced
// or consumed, never accumulated.
func (s *Service) updateAnalysisContext(st *state.ConversationState, result *TurnResult, prime PrimeResult) {
	if call := result.Usage.Last("analyze_player_routes"); call != nil {
		var res tools.AnalysisResult
		if err := json.Unmarshal(call.Result, &res); err == nil && res.Success {
			names := make([]string, 0, len(res.Results))
			for _, a := range res.Results {
				names = append(names, a.Name)
			}
			st.RecentAnalysis = &state.AnalysisContext{
				Player:       res.Player,
				Position:     res.Position,
				AnalysisType: res.AnalysisType,
				Names:        names,
			}
		}
		return
	}
	if prime.ConsumedAnalysis {
		st.RecentAnalysis = nil
	}
}

// updateFantasyContext reacts to the roster tool's two phases: a team list
// arms the awaiting-selection flag, a full roster merges in and disarms it.
// Credentials the model passed as arguments are persisted either way.
func (s *Service) updateFantasyContext(st *state.ConversationState, result *TurnResult) {
	call := result.Usage.Last("get_fantasy_roster")
	if call == nil {
		return
	}

	if leagueID, _ := call.Args["league_id"].(string); leagueID != "" {
		espnS2, _ := call.Args["espn_s2"].(string)
		swid, _ := call.Args["swid"].(string)
		st.Fantasy.League = &fantasy.Credentials{LeagueID: leagueID, ESPNS2: espnS2, SWID: swid}
	}

	var res tools.FantasyRosterResult
	if err := json.Unmarshal(call.Result, &res); err != nil || !res.Success {
		return
	}

	if res.NeedsTeamSelection {
		st.Fantasy.AwaitingTeamSelection = true
		return
	}
	if res.TeamName != "" {
		st.Fantasy.TeamName = res.TeamName
		st.Fantasy.Roster = res.Roster
		st.Fantasy.Matchup = res.Matchup
		st.Fantasy.Standings = res.Standings
		st.Fantasy.Season = s.season
		st.Fantasy.AwaitingTeamSelection = false
	}
}

// Reset clears the user's message history. Fantasy context, analysis context,
// and the injury timestamp all survive.
func (s *Service) Reset(userID string) error {
	return s.states.WithState(userID, func(st *state.ConversationState) error {
		st.ResetHistory()
		return nil
	})
}

// History returns the persisted display history for a user.
func (s *Service) History(userID string) ([]schema.Message, error) {
	st, err := s.states.Peek(userID)
	if err != nil {
		return nil, err
	}
	return st.History, nil
}

// RunDigests sweeps every known user and returns the injury digests that are
// due, keyed by user id. Called by the digest service on its ticker.
func (s *Service) RunDigests(ctx context.Context) map[string]string {
	ids, err := s.states.UserIDs()
	if err != nil {
		s.logger.Warn("digest sweep: listing users failed", "error", err)
		return nil
	}

	kw := s.keywords.Current()
	out := make(map[string]string)
	for _, id := range ids {
		err := s.states.WithState(id, func(st *state.ConversationState) error {
			if !s.injury.Due(st, time.Now()) {
				return nil
			}
			if digest := s.injury.Scan(ctx, st, kw, time.Now()); digest != "" {
				out[id] = digest
			}
			return nil
		})
		if err != nil {
			s.logger.Warn("digest sweep: user failed", "user", id, "error", err)
		}
	}
	return out
}
