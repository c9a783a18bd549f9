package moderation

import (
	"github.com/GTANeijasAcc/GTANBot/commands"
	mod "github.com/GTANeijasAcc/GTANBot/moderation"
	"github.com/bwmarrin/discordgo"
)

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

func reasonOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: description,
	}
}

func init() {
	module := &commands.ModuleInfo{
		Name:        "Moderation",
		Description: "Server moderation commands for managing members",
		Category:    "Moderation",
		Commands: []commands.CommandInfo{
			{Name: "ban", Description: "Ban a member from the server", Usage: "!ban <@user> [reason]", Category: "Moderation"},
			{Name: "kick", Description: "Kick a member from the server", Usage: "!kick <@user> [reason]", Category: "Moderation"},
			{Name: "mute", Description: "Mute a member in the server", Usage: "!mute <@user> [duration] [reason]", Category: "Moderation"},
			{Name: "unmute", Description: "Unmute a member in the server", Usage: "!unmute <@user> [reason]", Category: "Moderation"},
			{Name: "warn", Description: "Warn a member in the server", Usage: "!warn <@user> [reason]", Category: "Moderation"},
		},
		SlashCommands: []commands.SlashCommandInfo{
			{
				Name:        "ban",
				Description: "Ban a member from the server",
				Options: []*discordgo.ApplicationCommandOption{
					userOption("The user to ban"),
					reasonOption("Reason for the ban"),
				},
				Handler: slashAction(mod.ActionBan),
			},
			{
				Name:        "kick",
				Description: "Kick a member from the server",
				Options: []*discordgo.ApplicationCommandOption{
					userOption("The user to kick"),
					reasonOption("Reason for the kick"),
				},
				Handler: slashAction(mod.ActionKick),
			},
			{
				Name:        "mute",
				Description: "Mute a member in the server",
				Options: []*discordgo.ApplicationCommandOption{
					userOption("The user to mute"),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "duration",
						Description: "Duration (e.g., 5m, 2h, 1d)",
					},
					reasonOption("Reason for the mute"),
				},
				Handler: slashAction(mod.ActionMute),
			},
			{
				Name:        "unmute",
				Description: "Unmute a member in the server",
				Options: []*discordgo.ApplicationCommandOption{
					userOption("The user to unmute"),
					reasonOption("Reason for the unmute"),
				},
				Handler: slashAction(mod.ActionUnmute),
			},
			{
				Name:        "warn",
				Description: "Warn a member in the server",
				Options: []*discordgo.ApplicationCommandOption{
					userOption("The user to warn"),
					reasonOption("Reason for the warning"),
				},
				Handler: slashAction(mod.ActionWarn),
			},
			{
				Name:        "warnings",
				Description: "List the warnings of a member",
				Options: []*discordgo.ApplicationCommandOption{
					userOption("The user to look up"),
				},
				Handler: Warnings,
			},
		},
	}

	commands.RegisterModule(module)

	commands.RegisterCommand("ban", prefixAction(mod.ActionBan))
	commands.RegisterCommand("kick", prefixAction(mod.ActionKick))
	commands.RegisterCommand("mute", prefixAction(mod.ActionMute), "m")
	commands.RegisterCommand("unmute", prefixAction(mod.ActionUnmute))
	commands.RegisterCommand("warn", prefixAction(mod.ActionWarn))
}
