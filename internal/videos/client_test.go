package videos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/huddlebot/huddlebot/internal/config"
)

const searchFixture = `{
  "items": [
    {
      "id": {"videoId": "abc123"},
      "snippet": {
        "title": "Chiefs vs Raiders Highlights",
        "channelTitle": "NFL",
        "publishedAt": "2025-12-14T23:00:00Z",
        "thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/abc123/mq.jpg"}}
      }
    },
    {
      "id": {},
      "snippet": {"title": "not a video result"}
    }
  ]
}`

func newTestVideosClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.VideosConfig{APIKey: "test-key", APIBase: srv.URL}, slog.Default())
}

func TestSearch(t *testing.T) {
	c := newTestVideosClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Chiefs highlights" {
			t.Errorf("q = %q", q.Get("q"))
		}
		if q.Get("key") != "test-key" || q.Get("type") != "video" || q.Get("part") != "snippet" {
			t.Errorf("query params = %v", q)
		}
		if q.Get("maxResults") != "3" {
			t.Errorf("maxResults = %q, want 3", q.Get("maxResults"))
		}
		fmt.Fprint(w, searchFixture)
	})

	vids, err := c.Search(context.Background(), "Chiefs highlights", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// The entry without a videoId is dropped.
	if len(vids) != 1 {
		t.Fatalf("got %d videos, want 1", len(vids))
	}
	v := vids[0]
	if v.Title != "Chiefs vs Raiders Highlights" || v.Channel != "NFL" {
		t.Errorf("video = %+v", v)
	}
	if v.WatchURL != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("watch url = %q", v.WatchURL)
	}
	if v.EmbedURL != "https://www.youtube.com/embed/abc123" {
		t.Errorf("embed url = %q", v.EmbedURL)
	}
}

func TestSearchQuotaExceeded(t *testing.T) {
	c := newTestVideosClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"errors":[{"reason":"quotaExceeded"}],"message":"quota"}}`)
	})

	if _, err := c.Search(context.Background(), "anything", 5); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestSearchOtherForbidden(t *testing.T) {
	c := newTestVideosClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"errors":[{"reason":"keyInvalid"}]}}`)
	})

	_, err := c.Search(context.Background(), "anything", 5)
	if err == nil || errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("err = %v, want generic error", err)
	}
}

func TestSearchNotConfigured(t *testing.T) {
	c := NewClient(config.VideosConfig{APIBase: "http://unused"}, slog.Default())
	if _, err := c.Search(context.Background(), "anything", 5); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestFallbackSearchURL(t *testing.T) {
	got := FallbackSearchURL("Chiefs vs Raiders highlights")
	want := "https://www.youtube.com/results?search_query=Chiefs+vs+Raiders+highlights"
	if got != want {
		t.Errorf("FallbackSearchURL = %q, want %q", got, want)
	}
}
