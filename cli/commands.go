package main

import (
	"fmt"
	"strconv"

	"github.com/GTANeijasAcc/GTANBot/commands/custom"
	"github.com/spf13/cobra"
)

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stats of the running bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.client().Stats()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", stats.Username, stats.Status)
			fmt.Fprintf(out, "  Servers:         %d\n", stats.Guilds)
			fmt.Fprintf(out, "  Users:           %d\n", stats.Users)
			fmt.Fprintf(out, "  Channels:        %d\n", stats.Channels)
			fmt.Fprintf(out, "  Commands:        %d\n", stats.Commands)
			fmt.Fprintf(out, "  Ping:            %dms\n", stats.Ping)
			fmt.Fprintf(out, "  Uptime:          %s\n", stats.Uptime)
			fmt.Fprintf(out, "  Pending unmutes: %d\n", stats.PendingUnmutes)
			return nil
		},
	}
}

func newCommandsCmd(c *cli) *cobra.Command {
	commandsCmd := &cobra.Command{
		Use:   "commands",
		Short: "List, create and delete bot commands",
	}

	var customOnly bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every command of the running bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.client().ListCommands()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			shown := 0
			for _, info := range list {
				if customOnly && !info.Custom {
					continue
				}
				category := info.Category
				if info.Custom {
					category = "Custom"
				}
				fmt.Fprintf(out, "%-14s %-12s %s\n", info.Name, category, info.Description)
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(out, "No commands found.")
			}
			return nil
		},
	}
	listCmd.Flags().BoolVarP(&customOnly, "custom", "c", false, "List only custom commands")

	var create custom.Command
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a reply-only prefix command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			create.Name = args[0]
			msg, err := c.client().CreateCommand(create)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ "+msg)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&create.Description, "description", "d", "", "Command description")
	createCmd.Flags().StringVarP(&create.Response, "response", "r", "", "Text the bot replies with")
	createCmd.Flags().StringVarP(&create.Usage, "usage", "u", "", "Usage shown in help (default !<name>)")

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a custom command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := c.client().DeleteCommand(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ "+msg)
			return nil
		},
	}

	commandsCmd.AddCommand(listCmd, createCmd, deleteCmd)
	return commandsCmd
}

func newPresenceCmd(c *cli) *cobra.Command {
	presenceCmd := &cobra.Command{
		Use:   "presence",
		Short: "Show or change the rich presence",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current presence state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := c.client().Presence()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Playing %s\n%s\n", info.GameName, info.Details)
			for i, state := range info.States {
				marker := " "
				if i == info.StateIndex {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %d: %s\n", marker, i, state)
			}
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <index>",
		Short: "Switch the presence to a state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid state index %q", args[0])
			}

			msg, err := c.client().SetPresence(index)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ "+msg)
			return nil
		},
	}

	presenceCmd.AddCommand(showCmd, setCmd)
	return presenceCmd
}
