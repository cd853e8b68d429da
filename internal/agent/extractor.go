package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/huddlebot/huddlebot/internal/schema"
	"github.com/huddlebot/huddlebot/internal/shared/llmutils"
	"github.com/huddlebot/huddlebot/internal/state"
)

const extractionPrompt = `Extract fantasy football context from the user's message. Respond with ONLY a JSON object, no other text:
{"my_team": [players the user says are on THEIR team], "interested_players": [players they mention wanting, watching, or asking about], "trades": [trades they describe, each as one short string]}
Use empty arrays for anything the message does not mention. Never invent players.`

// fantasyDelta is what the extraction model returns.
type fantasyDelta struct {
	MyTeam            []string `json:"my_team"`
	InterestedPlayers []string `json:"interested_players"`
	Trades            []string `json:"trades"`
}

// Extractor runs the secondary, smaller model over fantasy-flavored messages
// to pull out durable context. Best-effort by contract: any failure is logged
// and discarded, never surfaced to the user.
type Extractor struct {
	llm    schema.LLMClient
	model  string
	logger *slog.Logger
}

// NewExtractor wires the extraction model.
func NewExtractor(llm schema.LLMClient, model string, logger *slog.Logger) *Extractor {
	return &Extractor{llm: llm, model: model, logger: logger.With("component", "extractor")}
}

// Update extracts the fantasy delta from msg and merges it into st.
func (e *Extractor) Update(ctx context.Context, msg string, st *state.ConversationState) {
	delta, err := e.extract(ctx, msg)
	if err != nil {
		e.logger.Debug("fantasy extraction skipped", "error", err)
		return
	}
	st.Fantasy.MyTeam = mergePlayers(st.Fantasy.MyTeam, delta.MyTeam)
	st.Fantasy.InterestedPlayers = mergePlayers(st.Fantasy.InterestedPlayers, delta.InterestedPlayers)
	for _, tr := range delta.Trades {
		if tr = strings.TrimSpace(tr); tr != "" {
			st.Fantasy.TradeHistory = append(st.Fantasy.TradeHistory, tr)
		}
	}
}

func (e *Extractor) extract(ctx context.Context, msg string) (*fantasyDelta, error) {
	resp, err := e.llm.CreateMessage(ctx, &schema.MessagesRequest{
		Model:     e.model,
		MaxTokens: 512,
		System:    extractionPrompt,
		Messages:  []schema.Message{schema.UserText(msg)},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	raw, ok := llmutils.FirstJSONObject(schema.TextOf(resp.Content))
	if !ok {
		return nil, fmt.Errorf("no JSON object in extraction output")
	}
	var delta fantasyDelta
	if err := json.Unmarshal([]byte(raw), &delta); err != nil {
		return nil, fmt.Errorf("decode extraction output: %w", err)
	}
	return &delta, nil
}

// mergePlayers appends new names, deduplicating case-insensitively against
// what is already stored.
func mergePlayers(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[strings.ToLower(strings.TrimSpace(p))] = true
	}
	for _, p := range incoming {
		p = strings.TrimSpace(p)
		if p == "" || seen[strings.ToLower(p)] {
			continue
		}
		seen[strings.ToLower(p)] = true
		existing = append(existing, p)
	}
	return existing
}
