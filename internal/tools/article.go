package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/huddlebot/huddlebot/internal/schema"
	"github.com/huddlebot/huddlebot/internal/shared/llmutils"
)

const (
	articleMaxChars  = 8000
	articleUserAgent = "Mozilla/5.0 (compatible; huddlebot/1.0)"
)

// ArticleTool fetches a news article and extracts its readable text.
type ArticleTool struct {
	httpClient *http.Client
}

func NewArticleTool() *ArticleTool {
	return &ArticleTool{httpClient: &http.Client{Timeout: 10 * time.Second}}
}

func (t *ArticleTool) Name() string { return "read_article" }

func (t *ArticleTool) Description() string {
	return "Fetches a web article and returns its readable text. Use this to dig into a news story the user wants details on, passing the article's URL."
}

func (t *ArticleTool) InputSchema() map[string]any {
	return schema.ObjectSchema(map[string]any{
		"url": map[string]any{
			"type":        "string",
			"description": "The http(s) URL of the article to read",
		},
	}, "url")
}

// ArticleResult is the read_article wire shape.
type ArticleResult struct {
	Envelope
	URL       string `json:"url,omitempty"`
	Title     string `json:"title,omitempty"`
	Byline    string `json:"byline,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`
	Text      string `json:"text,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

func (t *ArticleTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	rawURL := argString(args, "url")
	if rawURL == "" {
		return ArticleResult{Envelope: FailCode(ErrBadArgument, "url is required")}, nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return ArticleResult{Envelope: FailCode(ErrBadArgument, "url must be an http or https URL")}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ArticleResult{Envelope: FailCode(ErrBadArgument, fmt.Sprintf("bad url: %v", err))}, nil
	}
	req.Header.Set("User-Agent", articleUserAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return ArticleResult{Envelope: Fail(fmt.Sprintf("could not fetch article: %v", err)), URL: rawURL}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ArticleResult{
			Envelope: Fail(fmt.Sprintf("article fetch returned status %d", resp.StatusCode)),
			URL:      rawURL,
		}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return ArticleResult{Envelope: Fail(fmt.Sprintf("could not read article body: %v", err)), URL: rawURL}, nil
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return ArticleResult{Envelope: Fail("could not extract readable text from this page"), URL: rawURL}, nil
	}

	text := strings.TrimSpace(article.TextContent)
	truncated := len(text) > articleMaxChars
	text = llmutils.Truncate(text, articleMaxChars)

	return ArticleResult{
		Envelope:  OK(),
		URL:       rawURL,
		Title:     article.Title,
		Byline:    article.Byline,
		Excerpt:   article.Excerpt,
		Text:      text,
		Truncated: truncated,
	}, nil
}
