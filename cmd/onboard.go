package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huddlebot/huddlebot/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration and data directories",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(config.DataDir(), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.DiagramsDir(), 0o755); err != nil {
		return fmt.Errorf("create diagrams dir: %w", err)
	}
	fmt.Printf("✓ Data directory at %s\n", config.DataDir())

	if _, err := os.Stat(cfg.KeywordsPath()); os.IsNotExist(err) {
		kw := config.DefaultKeywords()
		if err := config.SaveKeywords(&kw, cfg.KeywordsPath()); err != nil {
			return fmt.Errorf("write keywords: %w", err)
		}
		fmt.Printf("✓ Created keyword rules at %s\n", cfg.KeywordsPath())
	}

	fmt.Printf("\n%s huddlebot is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Add your Anthropic API key to %s (or set ANTHROPIC_API_KEY)\n", cfgPath)
	fmt.Printf("  2. Chat: huddlebot chat -m \"Who plays tonight?\"\n")
	fmt.Printf("  3. Serve: huddlebot serve\n")
	return nil
}
