// Package cmd implements the huddlebot CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"
const logo = "🏈"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "huddlebot",
	Short: logo + " huddlebot — NFL conversational agent",
	Long:  logo + " huddlebot — an NFL chat agent with live scores, fantasy context, and play diagrams",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(statusCmd)
}
