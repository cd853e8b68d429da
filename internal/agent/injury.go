package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/huddlebot/huddlebot/internal/config"
	"github.com/huddlebot/huddlebot/internal/news"
	"github.com/huddlebot/huddlebot/internal/state"
)

const injuryScanInterval = 24 * time.Hour

// HeadlineSource yields recent headlines for the injury scan.
type HeadlineSource interface {
	Fetch(ctx context.Context, limit int) ([]news.Item, error)
}

// InjuryMonitor cross-references recent headlines against the players a user
// is known to care about, at most once per rolling 24 hours per user.
type InjuryMonitor struct {
	source HeadlineSource
	logger *slog.Logger
}

// NewInjuryMonitor wires the monitor to a headline source.
func NewInjuryMonitor(source HeadlineSource, logger *slog.Logger) *InjuryMonitor {
	return &InjuryMonitor{source: source, logger: logger.With("component", "injury")}
}

// Due reports whether a scan should run for this state: the user must have
// fantasy players and the last scan must be over 24 hours old (or never).
func (m *InjuryMonitor) Due(st *state.ConversationState, now time.Time) bool {
	if len(st.PlayerNames()) == 0 {
		return false
	}
	return st.LastInjuryCheck == nil || now.Sub(*st.LastInjuryCheck) >= injuryScanInterval
}

// Scan fetches recent headlines, keeps the injury-flavored ones, and matches
// them against the user's players by substring. It stamps LastInjuryCheck
// unconditionally, found or not, so a quiet day still waits a full day before
// the next scan. The returned string is empty when nothing matched.
func (m *InjuryMonitor) Scan(ctx context.Context, st *state.ConversationState, kw *config.Keywords, now time.Time) string {
	t := now
	st.LastInjuryCheck = &t

	items, err := m.source.Fetch(ctx, 25)
	if err != nil {
		m.logger.Warn("injury scan fetch failed", "error", err)
		return ""
	}

	players := st.PlayerNames()
	var hits []string
	for _, item := range items {
		text := item.Title + " " + item.Summary
		if !kw.MatchesInjury(text) {
			continue
		}
		lower := strings.ToLower(text)
		for _, p := range players {
			if strings.Contains(lower, strings.ToLower(p)) {
				hits = append(hits, fmt.Sprintf("%s — %s", p, item.Title))
				break
			}
		}
	}
	if len(hits) == 0 {
		return ""
	}

	m.logger.Info("injury digest", "user", st.UserID, "hits", len(hits))
	var b strings.Builder
	b.WriteString("🩹 By the way — injury news involving your players:\n")
	for _, h := range hits {
		b.WriteString("• " + h + "\n")
	}
	return b.String()
}
