package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/huddlebot/huddlebot/internal/config"
)

// rssDoc builds a minimal RSS document with n items whose links are
// prefix/1..n, plus any extra raw <item> blocks.
func rssDoc(prefix string, n int, extraItems ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>feed</title>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<item><title>%s story %d</title><link>https://example.com/%s/%d</link><description>Summary %d</description><pubDate>Sun, 14 Dec 2025 09:0%d:00 GMT</pubDate></item>`,
			prefix, i, prefix, i, i, i%10)
	}
	for _, it := range extraItems {
		b.WriteString(it)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func newTestAggregator(t *testing.T, primary, secondary http.HandlerFunc) *Aggregator {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/primary", primary)
	mux.HandleFunc("/secondary", secondary)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	agg, err := NewAggregator(config.NewsConfig{
		PrimaryFeed:     srv.URL + "/primary",
		PrimaryLabel:    "ESPN",
		SecondaryFeed:   srv.URL + "/secondary",
		SecondaryLabel:  "Yahoo Sports",
		CacheTTLSeconds: 300,
	}, slog.Default())
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	return agg
}

func serveRSS(doc string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, doc)
	}
}

func TestFetchPrimaryFirst(t *testing.T) {
	agg := newTestAggregator(t, serveRSS(rssDoc("espn", 6)), serveRSS(rssDoc("yahoo", 3)))

	items, err := agg.Fetch(context.Background(), 5)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
	for _, it := range items {
		if it.Source != "ESPN" {
			t.Errorf("item %q source = %q, want ESPN", it.Title, it.Source)
		}
	}
	if items[0].Title != "espn story 1" {
		t.Errorf("first title = %q", items[0].Title)
	}
}

func TestFetchFillsFromSecondary(t *testing.T) {
	// One secondary item shares a link with the primary feed and must be
	// skipped during the top-up.
	dup := `<item><title>dup</title><link>https://example.com/espn/1</link><description>x</description></item>`
	agg := newTestAggregator(t, serveRSS(rssDoc("espn", 6)), serveRSS(rssDoc("yahoo", 10, dup)))

	items, err := agg.Fetch(context.Background(), 15)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 15 {
		t.Fatalf("got %d items, want 15", len(items))
	}

	seen := map[string]bool{}
	var primary, secondary int
	for _, it := range items {
		if seen[it.Link] {
			t.Errorf("duplicate link %q", it.Link)
		}
		seen[it.Link] = true
		switch it.Source {
		case "ESPN":
			primary++
		case "Yahoo Sports":
			secondary++
		default:
			t.Errorf("unexpected source %q", it.Source)
		}
	}
	if primary != 6 || secondary != 9 {
		t.Errorf("primary/secondary = %d/%d, want 6/9", primary, secondary)
	}
}

func TestFetchPrimaryDown(t *testing.T) {
	agg := newTestAggregator(t,
		func(w http.ResponseWriter, r *http.Request) { http.Error(w, "boom", http.StatusInternalServerError) },
		serveRSS(rssDoc("yahoo", 4)),
	)

	items, err := agg.Fetch(context.Background(), 5)
	if err != nil {
		t.Fatalf("Fetch with dead primary: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	for _, it := range items {
		if it.Source != "Yahoo Sports" {
			t.Errorf("source = %q, want Yahoo Sports", it.Source)
		}
	}
}

func TestFetchAllFeedsDown(t *testing.T) {
	fail := func(w http.ResponseWriter, r *http.Request) { http.Error(w, "boom", http.StatusInternalServerError) }
	agg := newTestAggregator(t, fail, fail)

	if _, err := agg.Fetch(context.Background(), 5); err == nil {
		t.Fatal("expected error when every feed is down")
	}
}

func TestFetchUsesCache(t *testing.T) {
	var hits atomic.Int64
	counted := func(doc string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			fmt.Fprint(w, doc)
		}
	}
	agg := newTestAggregator(t, counted(rssDoc("espn", 6)), counted(rssDoc("yahoo", 3)))

	for i := 0; i < 3; i++ {
		if _, err := agg.Fetch(context.Background(), 3); err != nil {
			t.Fatalf("Fetch #%d: %v", i, err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("upstream hits = %d, want 1", n)
	}

	// Refresh bypasses the cache for both feeds.
	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n := hits.Load(); n != 3 {
		t.Errorf("upstream hits after refresh = %d, want 3", n)
	}
}

func TestCleanSummary(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>Mahomes &amp; Kelce connect <b>again</b></p>", "Mahomes & Kelce connect again"},
		{"plain text", "plain text"},
		{"  spaced \n out  ", "spaced out"},
	}
	for _, tc := range cases {
		if got := cleanSummary(tc.in); got != tc.want {
			t.Errorf("cleanSummary(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	long := strings.Repeat("x", 400)
	if got := cleanSummary(long); len(got) != summaryMaxLen+len("...") {
		t.Errorf("long summary length = %d, want %d", len(got), summaryMaxLen+3)
	}
}
