// Package dependency wires core huddlebot services using go.uber.org/dig.
package dependency

import (
	"log/slog"
	"os"
	"time"

	"go.uber.org/dig"

	"github.com/huddlebot/huddlebot/internal/agent"
	"github.com/huddlebot/huddlebot/internal/bus"
	"github.com/huddlebot/huddlebot/internal/channels"
	"github.com/huddlebot/huddlebot/internal/config"
	"github.com/huddlebot/huddlebot/internal/cron"
	"github.com/huddlebot/huddlebot/internal/diagrams"
	"github.com/huddlebot/huddlebot/internal/digest"
	"github.com/huddlebot/huddlebot/internal/espn"
	"github.com/huddlebot/huddlebot/internal/fantasy"
	"github.com/huddlebot/huddlebot/internal/news"
	"github.com/huddlebot/huddlebot/internal/providers"
	"github.com/huddlebot/huddlebot/internal/schema"
	"github.com/huddlebot/huddlebot/internal/server"
	"github.com/huddlebot/huddlebot/internal/state"
	"github.com/huddlebot/huddlebot/internal/tools"
	"github.com/huddlebot/huddlebot/internal/videos"
)

// Container holds the resolved service singletons. Callers use the typed
// getter methods; they never need to import dig directly.
type Container struct {
	msgBus   *bus.MessageBus
	agentSvc *agent.Service
	loop     *agent.Loop
	chans    *channels.Manager
	srv      *server.Server
	cronSvc  *cron.Service
	digest   *digest.Service
	news     *news.Aggregator
	diagrams *diagrams.Store
	keywords *config.KeywordSource
}

func (c *Container) MessageBus() *bus.MessageBus     { return c.msgBus }
func (c *Container) AgentService() *agent.Service    { return c.agentSvc }
func (c *Container) AgentLoop() *agent.Loop          { return c.loop }
func (c *Container) Channels() *channels.Manager     { return c.chans }
func (c *Container) Server() *server.Server          { return c.srv }
func (c *Container) CronService() *cron.Service      { return c.cronSvc }
func (c *Container) DigestService() *digest.Service  { return c.digest }
func (c *Container) News() *news.Aggregator          { return c.news }
func (c *Container) Diagrams() *diagrams.Store       { return c.diagrams }
func (c *Container) Keywords() *config.KeywordSource { return c.keywords }

// New builds and wires all services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	constructors := []any{
		func() *config.Config { return cfg },
		newLogger,
		newMessageBus,
		newESPNClient,
		newNewsAggregator,
		newFantasyClient,
		newVideosClient,
		newDiagramStore,
		newToolRegistry,
		newLLMClient,
		newStateStore,
		newStateManager,
		newKeywordSource,
		newOrchestrator,
		newExtractor,
		newInjuryMonitor,
		newAgentService,
		newAgentLoop,
		newChannelManager,
		newServer,
		newCronService,
		newDigestService,
	}
	for _, fn := range constructors {
		if err := d.Provide(fn); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(
		msgBus *bus.MessageBus,
		agentSvc *agent.Service,
		loop *agent.Loop,
		chans *channels.Manager,
		srv *server.Server,
		cronSvc *cron.Service,
		digestSvc *digest.Service,
		newsAgg *news.Aggregator,
		diagramStore *diagrams.Store,
		keywords *config.KeywordSource,
	) {
		result = &Container{
			msgBus:   msgBus,
			agentSvc: agentSvc,
			loop:     loop,
			chans:    chans,
			srv:      srv,
			cronSvc:  cronSvc,
			digest:   digestSvc,
			news:     newsAgg,
			diagrams: diagramStore,
			keywords: keywords,
		}
	})
	return result, err
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("HUDDLEBOT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newMessageBus() *bus.MessageBus {
	return bus.NewMessageBus(64)
}

func newESPNClient(cfg *config.Config, logger *slog.Logger) (*espn.Client, error) {
	return espn.NewClient(cfg.Sources.ESPN.SiteAPIBase, logger)
}

func newNewsAggregator(cfg *config.Config, logger *slog.Logger) (*news.Aggregator, error) {
	return news.NewAggregator(cfg.Sources.News, logger)
}

func newFantasyClient(cfg *config.Config, logger *slog.Logger) *fantasy.Client {
	return fantasy.NewClient(cfg.Sources.Fantasy, logger)
}

func newVideosClient(cfg *config.Config, logger *slog.Logger) *videos.Client {
	return videos.NewClient(cfg.Sources.Videos, logger)
}

func newDiagramStore(cfg *config.Config, logger *slog.Logger) (*diagrams.Store, error) {
	return diagrams.NewStore(cfg.DiagramsDir(), "/diagrams", logger)
}

func newToolRegistry(
	espnClient *espn.Client,
	newsAgg *news.Aggregator,
	fantasyClient *fantasy.Client,
	videosClient *videos.Client,
	diagramStore *diagrams.Store,
	logger *slog.Logger,
) *tools.Registry {
	return tools.NewRegistryBuilder(logger).
		WithTool(tools.NewLiveScoresTool(espnClient)).
		WithTool(tools.NewTeamStatsTool(espnClient)).
		WithTool(tools.NewPlayByPlayTool(espnClient)).
		WithTool(tools.NewNewsTool(newsAgg)).
		WithTool(tools.NewArticleTool()).
		WithTool(tools.NewVideoSearchTool(videosClient)).
		WithTool(tools.NewFantasyRosterTool(fantasyClient)).
		WithTool(tools.NewAnalyzeRoutesTool()).
		WithTool(tools.NewDiagramTool(diagramStore)).
		WithTool(tools.NewInjuryGuidanceTool()).
		Build()
}

func newLLMClient(cfg *config.Config, logger *slog.Logger) schema.LLMClient {
	return providers.NewClient(cfg.ResolveAPIKey(), cfg.Anthropic.APIBase, logger)
}

func newStateStore(cfg *config.Config) (*state.Store, error) {
	return state.NewStore(cfg.DatabasePath())
}

func newStateManager(store *state.Store) *state.Manager {
	return state.NewManager(store)
}

func newKeywordSource(cfg *config.Config, logger *slog.Logger) *config.KeywordSource {
	return config.NewKeywordSource(cfg.KeywordsPath(), logger)
}

func newOrchestrator(cfg *config.Config, llm schema.LLMClient, registry *tools.Registry, logger *slog.Logger) *agent.Orchestrator {
	return agent.NewOrchestrator(llm, registry,
		cfg.SystemPrompt(), cfg.Agent.Model,
		cfg.Agent.MaxTokens, cfg.Agent.MaxToolIterations, logger)
}

func newExtractor(cfg *config.Config, llm schema.LLMClient, logger *slog.Logger) *agent.Extractor {
	return agent.NewExtractor(llm, cfg.Agent.ExtractionModel, logger)
}

func newInjuryMonitor(newsAgg *news.Aggregator, logger *slog.Logger) *agent.InjuryMonitor {
	return agent.NewInjuryMonitor(newsAgg, logger)
}

func newAgentService(
	states *state.Manager,
	orch *agent.Orchestrator,
	extractor *agent.Extractor,
	injury *agent.InjuryMonitor,
	keywords *config.KeywordSource,
	cfg *config.Config,
	logger *slog.Logger,
) *agent.Service {
	return agent.NewService(states, orch, extractor, injury, keywords, cfg, logger)
}

func newAgentLoop(b *bus.MessageBus, svc *agent.Service, logger *slog.Logger) *agent.Loop {
	return agent.NewLoop(b, svc, logger)
}

func newChannelManager(cfg *config.Config, b *bus.MessageBus, logger *slog.Logger) *channels.Manager {
	return channels.NewManager(cfg, b, logger)
}

func newServer(cfg *config.Config, svc *agent.Service, diagramStore *diagrams.Store, logger *slog.Logger) *server.Server {
	return server.NewServer(cfg.Server.Host, cfg.Server.Port, svc,
		diagramStore.Dir(), cfg.ResolveAPIKey() != "", logger)
}

func newCronService(logger *slog.Logger) *cron.Service {
	return cron.NewService(logger)
}

func newDigestService(cfg *config.Config, svc *agent.Service, b *bus.MessageBus, logger *slog.Logger) *digest.Service {
	interval := time.Duration(cfg.Jobs.DigestIntervalMinutes) * time.Minute
	return digest.NewService(svc, b, interval, logger)
}
