package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/huddlebot/huddlebot/internal/config"
	"github.com/huddlebot/huddlebot/internal/dependency"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the huddlebot server and chat channels",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}

	fmt.Printf("%s Starting huddlebot on %s:%d...\n", logo, cfg.Server.Host, cfg.Server.Port)

	if enabled := container.Channels().EnabledChannels(); len(enabled) > 0 {
		fmt.Printf("✓ Channels enabled: %s\n", strings.Join(enabled, ", "))
	} else {
		fmt.Println("No chat channels enabled; web API only.")
	}

	cronSvc := container.CronService()
	if err := cronSvc.Add(cfg.Jobs.NewsRefreshSpec, "news-refresh", container.News().Refresh); err != nil {
		return err
	}
	sweepAge := time.Duration(cfg.Jobs.DiagramMaxAgeDays) * 24 * time.Hour
	if err := cronSvc.Add(cfg.Jobs.DiagramSweepSpec, "diagram-sweep", func(context.Context) error {
		return container.Diagrams().Sweep(sweepAge)
	}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return container.Server().Start(gctx) })
	g.Go(func() error { return container.AgentLoop().Run(gctx) })
	g.Go(func() error { return container.Channels().StartAll(gctx) })
	g.Go(func() error { return cronSvc.Start(gctx) })
	g.Go(func() error { return container.Keywords().Watch(gctx) })
	if cfg.Jobs.DigestEnabled {
		g.Go(func() error { return container.DigestService().Start(gctx) })
	}

	fmt.Printf("%s huddlebot running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
