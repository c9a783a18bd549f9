package help

import (
	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/bwmarrin/discordgo"
)

func init() {
	module := &commands.ModuleInfo{
		Name:        "Help",
		Description: "Help system with command documentation",
		Category:    "Utility",
		Commands: []commands.CommandInfo{
			{
				Name:        "help",
				Aliases:     []string{"h"},
				Description: "Displays help information for commands",
				Usage:       "!help [command]",
				Category:    "Utility",
			},
		},
		SlashCommands: []commands.SlashCommandInfo{
			{
				Name:        "help",
				Description: "Display all available commands",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "command",
						Description: "Get detailed info about a specific command",
					},
				},
				Handler: SlashHelp,
			},
		},
	}

	commands.RegisterModule(module)
	commands.RegisterCommand("help", Help, "h")
}
