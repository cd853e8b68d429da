// Package videos searches YouTube for NFL highlight clips via the Data API
// v3. Quota exhaustion is common on free keys, so it is surfaced as a
// sentinel the tool layer can downgrade to a plain search link.
package videos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/huddlebot/huddlebot/internal/config"
	"github.com/huddlebot/huddlebot/internal/shared/httpx"
)

var (
	ErrNotConfigured = errors.New("youtube API key not configured")
	ErrQuotaExceeded = errors.New("youtube API quota exceeded")
)

const defaultLimit = 5

// Video is one search hit.
type Video struct {
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	WatchURL    string `json:"watch_url"`
	EmbedURL    string `json:"embed_url"`
}

// Client queries the YouTube Data API.
type Client struct {
	apiKey string
	base   string
	httpc  *http.Client
	logger *slog.Logger
}

// NewClient builds a Client from the videos configuration.
func NewClient(cfg config.VideosConfig, logger *slog.Logger) *Client {
	return &Client{
		apiKey: cfg.APIKey,
		base:   cfg.APIBase,
		httpc:  &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Search returns up to limit videos matching the query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Video, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("key", c.apiKey)

	var data struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				PublishedAt  string `json:"publishedAt"`
				Thumbnails   struct {
					Medium struct {
						URL string `json:"url"`
					} `json:"medium"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := httpx.GetJSON(ctx, c.httpc, c.base+"/search?"+params.Encode(), &data); err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && se.Code == http.StatusForbidden && strings.Contains(se.Body, "quotaExceeded") {
			return nil, ErrQuotaExceeded
		}
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	out := make([]Video, 0, len(data.Items))
	for _, it := range data.Items {
		id := it.ID.VideoID
		if id == "" {
			continue
		}
		out = append(out, Video{
			Title:       it.Snippet.Title,
			Channel:     it.Snippet.ChannelTitle,
			Thumbnail:   it.Snippet.Thumbnails.Medium.URL,
			PublishedAt: it.Snippet.PublishedAt,
			WatchURL:    "https://www.youtube.com/watch?v=" + id,
			EmbedURL:    "https://www.youtube.com/embed/" + id,
		})
	}
	return out, nil
}

// FallbackSearchURL is offered when the API cannot serve: a plain YouTube
// search link the user can open themselves.
func FallbackSearchURL(query string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
}
