package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/huddlebot/huddlebot/internal/bus"
	"github.com/huddlebot/huddlebot/internal/config"
	"github.com/huddlebot/huddlebot/internal/dependency"
	"github.com/huddlebot/huddlebot/internal/shared/cmdutils"
)

var (
	chatMessage string
	chatSession string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with huddlebot from the terminal",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "local", "Session ID within the CLI channel")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}

	if chatMessage != "" {
		return runSingleMessage(container)
	}
	return runInteractive(container)
}

// runSingleMessage sends one message to the agent and prints the response.
func runSingleMessage(container *dependency.Container) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	userID := string(bus.ChannelCLI) + ":" + chatSession
	onProgress := func(tool string) {
		fmt.Fprintf(os.Stderr, "  ↳ %s\n", tool)
	}

	reply, err := container.AgentService().HandleTurn(ctx, userID, chatMessage, onProgress)
	if err != nil {
		return err
	}
	cmdutils.PrintResponse(reply.Text)
	return nil
}

// runInteractive starts the REPL: reads lines from stdin, sends each through
// the bus, and waits for each reply before prompting again.
func runInteractive(container *dependency.Container) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", logo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() { _ = container.AgentLoop().Run(ctx) }()

	msgBus := container.MessageBus()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("You: ")

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		sendAndWait(ctx, msgBus, line)
		if ctx.Err() != nil {
			fmt.Println("\nGoodbye!")
			return nil
		}
	}
}

// sendAndWait pushes a message onto the inbound bus and blocks until the
// agent publishes the final reply (or ctx is cancelled).
func sendAndWait(ctx context.Context, msgBus *bus.MessageBus, content string) {
	msgBus.PublishInbound(bus.NewInboundMessage(bus.ChannelCLI, "user", chatSession, content))

	for {
		select {
		case msg := <-msgBus.Outbound:
			if msg.IsProgress() {
				fmt.Printf("  ↳ %s\n", msg.Content)
				continue
			}
			if msg.Content != "" {
				cmdutils.PrintResponse(msg.Content)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}
