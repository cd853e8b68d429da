package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huddlebot/huddlebot/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show huddlebot status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Printf("%s huddlebot Status\n\n", logo)

	fmt.Printf("Config:    %s %s\n", cfgPath, existsMark(cfgPath))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	fmt.Printf("Database:  %s %s\n", cfg.DatabasePath(), existsMark(cfg.DatabasePath()))
	fmt.Printf("Diagrams:  %s %s\n", cfg.DiagramsDir(), existsMark(cfg.DiagramsDir()))
	fmt.Printf("Keywords:  %s %s\n", cfg.KeywordsPath(), existsMark(cfg.KeywordsPath()))
	fmt.Printf("Model:     %s\n\n", cfg.Agent.Model)

	if cfg.ResolveAPIKey() != "" {
		fmt.Println("Anthropic API key: ✓")
	} else {
		fmt.Println("Anthropic API key: (not set — config or ANTHROPIC_API_KEY)")
	}

	fmt.Println("\nChannels:")
	printChannel("Telegram", cfg.Channels.Telegram.Enabled, cfg.Channels.Telegram.Token != "")
	printChannel("Slack", cfg.Channels.Slack.Enabled, cfg.Channels.Slack.BotToken != "" && cfg.Channels.Slack.AppToken != "")
	return nil
}

func existsMark(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "✗"
	}
	return "✓"
}

func printChannel(name string, enabled, hasCreds bool) {
	switch {
	case enabled && hasCreds:
		fmt.Printf("  %-10s ✓ enabled\n", name)
	case enabled:
		fmt.Printf("  %-10s enabled but missing credentials\n", name)
	default:
		fmt.Printf("  %-10s (disabled)\n", name)
	}
}
