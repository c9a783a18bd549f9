package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cli holds the global flags shared by every subcommand
type cli struct {
	url         string
	databaseURL string
	api         *apiClient
}

func (c *cli) client() *apiClient {
	if c.api == nil {
		c.api = newAPIClient(c.url)
	}
	return c.api
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "botcli",
		Short: "GTANBot CLI - Manage a running moderation bot",
		Long: `An operator tool for GTANBot. Talks to the dashboard API of a running bot
to manage custom commands and the presence, and to the warnings database directly.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.url, "url", envOr("DASHBOARD_URL", "http://127.0.0.1:5000"), "Dashboard base URL")
	rootCmd.PersistentFlags().StringVar(&c.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres URL of the warnings database")

	rootCmd.AddCommand(newStatusCmd(c))
	rootCmd.AddCommand(newCommandsCmd(c))
	rootCmd.AddCommand(newPresenceCmd(c))
	rootCmd.AddCommand(newWarningsCmd(c))

	return rootCmd
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(&cli{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
