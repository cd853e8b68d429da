// Package config defines the configuration schema for huddlebot.
//
// The root config is JSON at ~/.huddlebot/config.json (camelCase keys);
// keyword rules used by the session preprocessor live in a separate YAML
// file so they can be tuned and hot-reloaded without touching credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AnthropicConfig holds credentials for the Anthropic Messages API.
type AnthropicConfig struct {
	APIKey  string `json:"apiKey"`
	APIBase string `json:"apiBase"`
}

func defaultAnthropicConfig() AnthropicConfig {
	return AnthropicConfig{APIBase: "https://api.anthropic.com/v1"}
}

// AgentConfig holds the orchestration settings.
type AgentConfig struct {
	SystemPrompt       string `json:"systemPrompt"` // empty uses the built-in prompt
	Model              string `json:"model"`
	ExtractionModel    string `json:"extractionModel"`
	MaxTokens          int    `json:"maxTokens"`
	MaxToolIterations  int    `json:"maxToolIterations"`
	TurnTimeoutSeconds int    `json:"turnTimeoutSeconds"`
	HistoryLimit       int    `json:"historyLimit"`
}

func defaultAgentConfig() AgentConfig {
	return AgentConfig{
		Model:              "claude-sonnet-4-20250514",
		ExtractionModel:    "claude-3-5-haiku-20241022",
		MaxTokens:          4096,
		MaxToolIterations:  10,
		TurnTimeoutSeconds: 60,
		HistoryLimit:       200,
	}
}

// ServerConfig holds HTTP gateway settings.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{Host: "0.0.0.0", Port: 5000}
}

// ESPNConfig points at the public ESPN site API.
type ESPNConfig struct {
	SiteAPIBase string `json:"siteApiBase"`
}

func defaultESPNConfig() ESPNConfig {
	return ESPNConfig{SiteAPIBase: "https://site.api.espn.com/apis/site/v2/sports/football/nfl"}
}

// NewsConfig holds the two RSS feed sources for the news tool.
type NewsConfig struct {
	PrimaryFeed     string `json:"primaryFeed"`
	PrimaryLabel    string `json:"primaryLabel"`
	SecondaryFeed   string `json:"secondaryFeed"`
	SecondaryLabel  string `json:"secondaryLabel"`
	CacheTTLSeconds int    `json:"cacheTtlSeconds"`
}

func defaultNewsConfig() NewsConfig {
	return NewsConfig{
		PrimaryFeed:     "https://www.espn.com/espn/rss/nfl/news",
		PrimaryLabel:    "ESPN",
		SecondaryFeed:   "https://sports.yahoo.com/nfl/rss.xml",
		SecondaryLabel:  "Yahoo Sports",
		CacheTTLSeconds: 300,
	}
}

// VideosConfig configures the YouTube search backend.
type VideosConfig struct {
	APIKey  string `json:"apiKey"`
	APIBase string `json:"apiBase"`
}

func defaultVideosConfig() VideosConfig {
	return VideosConfig{APIBase: "https://www.googleapis.com/youtube/v3"}
}

// FantasyConfig configures the ESPN fantasy reads API.
type FantasyConfig struct {
	APIBase       string `json:"apiBase"`
	DefaultSeason int    `json:"defaultSeason"`
}

func defaultFantasyConfig() FantasyConfig {
	return FantasyConfig{
		APIBase:       "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl",
		DefaultSeason: time.Now().Year(),
	}
}

// SourcesConfig groups the external data-source settings.
type SourcesConfig struct {
	ESPN    ESPNConfig    `json:"espn"`
	News    NewsConfig    `json:"news"`
	Videos  VideosConfig  `json:"videos"`
	Fantasy FantasyConfig `json:"fantasy"`
}

func defaultSourcesConfig() SourcesConfig {
	return SourcesConfig{
		ESPN:    defaultESPNConfig(),
		News:    defaultNewsConfig(),
		Videos:  defaultVideosConfig(),
		Fantasy: defaultFantasyConfig(),
	}
}

// TelegramConfig configures the Telegram channel.
type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom"`
}

func defaultTelegramConfig() TelegramConfig {
	return TelegramConfig{AllowFrom: []string{}}
}

// SlackConfig configures the Slack channel (socket mode).
type SlackConfig struct {
	Enabled   bool     `json:"enabled"`
	BotToken  string   `json:"botToken"`
	AppToken  string   `json:"appToken"`
	AllowFrom []string `json:"allowFrom"`
}

func defaultSlackConfig() SlackConfig {
	return SlackConfig{AllowFrom: []string{}}
}

// ChannelsConfig groups all channel configurations.
type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
	Slack    SlackConfig    `json:"slack"`
}

func defaultChannelsConfig() ChannelsConfig {
	return ChannelsConfig{
		Telegram: defaultTelegramConfig(),
		Slack:    defaultSlackConfig(),
	}
}

// JobsConfig holds schedules for the background services. Cron specs use the
// six-field robfig syntax (with seconds).
type JobsConfig struct {
	NewsRefreshSpec       string `json:"newsRefreshSpec"`
	DiagramSweepSpec      string `json:"diagramSweepSpec"`
	DiagramMaxAgeDays     int    `json:"diagramMaxAgeDays"`
	DigestEnabled         bool   `json:"digestEnabled"`
	DigestIntervalMinutes int    `json:"digestIntervalMinutes"`
}

func defaultJobsConfig() JobsConfig {
	return JobsConfig{
		NewsRefreshSpec:       "@every 15m",
		DiagramSweepSpec:      "0 30 4 * * *",
		DiagramMaxAgeDays:     30,
		DigestIntervalMinutes: 60,
	}
}

// ---- Root config -----------------------------------------------------------

// Config is the root configuration object, loaded from ~/.huddlebot/config.json.
type Config struct {
	Anthropic AnthropicConfig `json:"anthropic"`
	Agent     AgentConfig     `json:"agent"`
	Server    ServerConfig    `json:"server"`
	Sources   SourcesConfig   `json:"sources"`
	Channels  ChannelsConfig  `json:"channels"`
	Jobs      JobsConfig      `json:"jobs"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Anthropic: defaultAnthropicConfig(),
		Agent:     defaultAgentConfig(),
		Server:    defaultServerConfig(),
		Sources:   defaultSourcesConfig(),
		Channels:  defaultChannelsConfig(),
		Jobs:      defaultJobsConfig(),
	}
}

// ResolveAPIKey returns the Anthropic API key from config, falling back to
// the ANTHROPIC_API_KEY environment variable.
func (c *Config) ResolveAPIKey() string {
	if c.Anthropic.APIKey != "" {
		return c.Anthropic.APIKey
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}

// Addr returns the host:port the HTTP gateway listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// TurnTimeout returns the wall-clock budget for a single turn, spanning every
// model call and tool invocation within it.
func (c *Config) TurnTimeout() time.Duration {
	secs := c.Agent.TurnTimeoutSeconds
	if secs <= 0 {
		secs = defaultAgentConfig().TurnTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

// DatabasePath returns the sqlite database location under the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(DataDir(), "huddlebot.db")
}

// DiagramsDir returns the on-disk diagram artifact directory.
func (c *Config) DiagramsDir() string {
	return filepath.Join(DataDir(), "diagrams")
}

// KeywordsPath returns the keyword-rules YAML location.
func (c *Config) KeywordsPath() string {
	return filepath.Join(DataDir(), "keywords.yaml")
}

// SystemPrompt returns the configured system prompt or the built-in default.
func (c *Config) SystemPrompt() string {
	if c.Agent.SystemPrompt != "" {
		return c.Agent.SystemPrompt
	}
	return defaultSystemPrompt
}

// defaultSystemPrompt is the shipped persona. Treated as an opaque string by
// the rest of the system; override it via agent.systemPrompt.
const defaultSystemPrompt = `You are huddlebot - an NFL statistics and analytics companion. You are a sports data nerd who loves numbers, facts, and stats above all else.

Response style:
- Lead with statistics and numbers in every response
- Use bullet points for clarity; keep responses concise but data-rich
- Include specific numbers (yards, percentages, rankings, touchdowns)
- Cite league averages and rankings when relevant
- Never fabricate statistics; when data comes from a tool, use it as returned

Tool guidance:
- Use get_live_scores for current games, scores, or "what's happening" questions; it returns game IDs for get_play_by_play
- For game recaps, first get_live_scores to find the game ID, then get_play_by_play
- Use get_team_stats when discussing a specific team's record or performance
- For fantasy questions without a known roster, ask "Who's on your team?"
- When route or play analysis has been run and the user wants a visual, call generate_diagram with the exact names from the analysis
- If a tool reports a failure, explain the limitation plainly and move on`
