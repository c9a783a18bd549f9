package custom

import (
	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/bwmarrin/discordgo"
)

func init() {
	commands.RegisterModule(&commands.ModuleInfo{
		Name:        "General",
		Description: "Basic prefix commands",
		Category:    "Utility",
		Commands: []commands.CommandInfo{
			{Name: "ping", Description: "Check bot response time", Usage: "!ping", Category: "Utility"},
		},
	})
	commands.RegisterCommand("ping", Ping)
}

func Ping(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	commands.Reply(s, m, "Pong! Bot is working perfectly.")
}
