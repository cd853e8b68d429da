// Package news aggregates NFL headlines from RSS feeds. A primary feed is
// preferred and a secondary feed fills remaining slots, with per-feed
// caching so chatty users do not hammer the publishers.
package news

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/mmcdole/gofeed"

	"github.com/huddlebot/huddlebot/internal/config"
	"github.com/huddlebot/huddlebot/internal/shared/llmutils"
)

const summaryMaxLen = 200

// Item is one normalized headline.
type Item struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Link      string `json:"link"`
	Published string `json:"published,omitempty"`
	Source    string `json:"source"`
}

// Feed is an RSS source with a display label.
type Feed struct {
	URL   string
	Label string
}

// Aggregator fetches and merges headlines from the configured feeds.
type Aggregator struct {
	parser    *gofeed.Parser
	primary   Feed
	secondary Feed
	cache     *ristretto.Cache
	ttl       time.Duration
	logger    *slog.Logger
}

// NewAggregator builds an Aggregator from the news configuration.
func NewAggregator(cfg config.NewsConfig, logger *slog.Logger) (*Aggregator, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("news cache: %w", err)
	}
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Aggregator{
		parser:    gofeed.NewParser(),
		primary:   Feed{URL: cfg.PrimaryFeed, Label: cfg.PrimaryLabel},
		secondary: Feed{URL: cfg.SecondaryFeed, Label: cfg.SecondaryLabel},
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}, nil
}

// Fetch returns up to limit headlines, primary feed first, topped up from
// the secondary feed with duplicate links skipped. A dead primary feed is
// logged and the secondary still serves; only both failing is an error.
func (a *Aggregator) Fetch(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = 5
	}

	items, primaryErr := a.fetchFeed(ctx, a.primary, false)
	if primaryErr != nil {
		a.logger.Warn("primary feed failed", "feed", a.primary.Label, "error", primaryErr)
	}
	if len(items) > limit {
		items = items[:limit]
	}

	if len(items) < limit && a.secondary.URL != "" {
		seen := make(map[string]bool, len(items))
		for _, it := range items {
			seen[it.Link] = true
		}
		extra, err := a.fetchFeed(ctx, a.secondary, false)
		if err != nil {
			a.logger.Warn("secondary feed failed", "feed", a.secondary.Label, "error", err)
			if primaryErr != nil {
				return nil, fmt.Errorf("all feeds failed: %w", primaryErr)
			}
		}
		for _, it := range extra {
			if len(items) >= limit {
				break
			}
			if seen[it.Link] {
				continue
			}
			seen[it.Link] = true
			items = append(items, it)
		}
	} else if primaryErr != nil && len(items) == 0 {
		return nil, fmt.Errorf("all feeds failed: %w", primaryErr)
	}

	return items, nil
}

// Refresh re-fetches both feeds, bypassing the cache. Used by the cron job
// to keep headlines warm between user requests.
func (a *Aggregator) Refresh(ctx context.Context) error {
	var firstErr error
	for _, feed := range []Feed{a.primary, a.secondary} {
		if feed.URL == "" {
			continue
		}
		if _, err := a.fetchFeed(ctx, feed, true); err != nil {
			a.logger.Warn("feed refresh failed", "feed", feed.Label, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (a *Aggregator) fetchFeed(ctx context.Context, feed Feed, force bool) ([]Item, error) {
	if !force {
		if v, ok := a.cache.Get(feed.URL); ok {
			return v.([]Item), nil
		}
	}

	parsed, err := a.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", feed.Label, err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		items = append(items, Item{
			Title:     strings.TrimSpace(it.Title),
			Summary:   cleanSummary(it.Description),
			Link:      it.Link,
			Published: it.Published,
			Source:    feed.Label,
		})
	}

	a.cache.SetWithTTL(feed.URL, items, 1, a.ttl)
	a.cache.Wait()
	return items, nil
}

// cleanSummary strips markup from a feed description and truncates it to a
// chat-friendly length.
func cleanSummary(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	text := html.UnescapeString(strings.Join(strings.Fields(b.String()), " "))
	return llmutils.Truncate(text, summaryMaxLen)
}
