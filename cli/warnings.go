package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/moderation"
	"github.com/spf13/cobra"
)

func (c *cli) openLedger(ctx context.Context) (*moderation.PostgresLedger, error) {
	if c.databaseURL == "" {
		return nil, errors.New("no database configured, set DATABASE_URL or --database-url")
	}
	return moderation.OpenPostgresLedger(ctx, c.databaseURL)
}

func printWarnings(out io.Writer, key moderation.LedgerKey, records []moderation.WarningRecord) {
	if len(records) == 0 {
		fmt.Fprintf(out, "No warnings for %s in %s.\n", key.UserID, key.GuildID)
		return
	}

	fmt.Fprintf(out, "%d warning(s) for %s in %s:\n", len(records), key.UserID, key.GuildID)
	for _, rec := range records {
		fmt.Fprintf(out, "  #%d  %s  by %s: %s\n", rec.ID, rec.Timestamp.Format("2006-01-02 15:04"), rec.Moderator, rec.Reason)
	}
}

func newWarningsCmd(c *cli) *cobra.Command {
	var key moderation.LedgerKey

	warningsCmd := &cobra.Command{
		Use:   "warnings",
		Short: "Inspect or clear member warnings in the database",
	}
	warningsCmd.PersistentFlags().StringVarP(&key.GuildID, "guild", "g", "", "Guild ID")
	warningsCmd.PersistentFlags().StringVarP(&key.UserID, "user", "u", "", "User ID")
	warningsCmd.MarkPersistentFlagRequired("guild")
	warningsCmd.MarkPersistentFlagRequired("user")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the warnings of a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			ledger, err := c.openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			records, err := ledger.List(ctx, key)
			if err != nil {
				return err
			}
			printWarnings(cmd.OutOrStdout(), key, records)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every warning of a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			ledger, err := c.openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			if err := ledger.Clear(ctx, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Cleared warnings for %s in %s\n", key.UserID, key.GuildID)
			return nil
		},
	}

	warningsCmd.AddCommand(listCmd, clearCmd)
	return warningsCmd
}
