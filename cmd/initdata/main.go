package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "initdata",
		Short: "Sign and verify mini-app initData payloads",
		Long: `initdata is a developer tool for the initData validator.

It signs payloads the way the mini-app host does, verifies payloads locally
against a bot token, and smoke-tests a running validator over HTTP or WebSocket.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&botToken, flagToken, "", "bot token (default: $BOT_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&botTokenFile, flagTokenFile, "", "file holding the bot token (default: $BOT_TOKEN_FILE)")
	rootCmd.AddCommand(signCmd(), verifyCmd(), smokeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
