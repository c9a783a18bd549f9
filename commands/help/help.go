package help

import (
	"fmt"
	"strings"
	"time"

	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/bwmarrin/discordgo"
)

const (
	helpColor = 0x74b9ff
	// discord rejects embed field values above this length
	maxFieldLength = 1024
)

// overview is what the general help embed is built from
type overview struct {
	BotName  string
	Avatar   string
	GameName string
	Guilds   int
	Commands []commands.CommandInfo
}

func isModeration(c commands.CommandInfo) bool {
	return c.Category == "Moderation"
}

func commandLine(c commands.CommandInfo) string {
	name := c.Name
	if strings.HasPrefix(c.Usage, "/") {
		name = "/" + name
	} else if c.Custom {
		name = "!" + name
	}
	return fmt.Sprintf("`%s` - %s", name, c.Description)
}

func joinField(lines []string) string {
	value := ""
	for _, line := range lines {
		if len(value)+len(line)+1 > maxFieldLength-len("\n…") {
			return value + "\n…"
		}
		if value != "" {
			value += "\n"
		}
		value += line
	}
	return value
}

func overviewEmbed(o overview) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🤖 " + o.BotName + " - Help",
		Description: "Here are all available commands:",
		Color:       helpColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: o.BotName + " | Use /help [command] for detailed info"},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if o.Avatar != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: o.Avatar}
	}

	var moderation, utility, custom []string
	for _, c := range o.Commands {
		switch {
		case c.Custom:
			custom = append(custom, commandLine(c))
		case isModeration(c):
			moderation = append(moderation, commandLine(c))
		default:
			utility = append(utility, commandLine(c))
		}
	}

	if len(moderation) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🛡️ Moderation Commands", Value: joinField(moderation)})
	}
	if len(utility) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🔧 Utility Commands", Value: joinField(utility)})
	}
	if len(custom) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "💬 Custom Commands", Value: joinField(custom)})
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name:   "📊 Bot Statistics",
			Value:  fmt.Sprintf("Servers: %d\nCommands: %d", o.Guilds, len(o.Commands)),
			Inline: true,
		},
		&discordgo.MessageEmbedField{
			Name:   "🎮 Current Activity",
			Value:  "Playing " + o.GameName,
			Inline: true,
		},
	)

	return embed
}

func commandEmbed(info commands.CommandInfo, botName string) *discordgo.MessageEmbed {
	title := "📖 Command: " + info.Name
	if strings.HasPrefix(info.Usage, "/") {
		title = "📖 Command: /" + info.Name
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: info.Description,
		Color:       helpColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: botName},
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	if info.Usage != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Usage", Value: "`" + info.Usage + "`"})
	}
	if len(info.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Aliases", Value: strings.Join(info.Aliases, ", ")})
	}
	if info.Category != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Category", Value: info.Category, Inline: true})
	}

	return embed
}

func buildOverview(b *bot.Bot, s *discordgo.Session) overview {
	o := overview{
		BotName:  b.Config.BotName,
		GameName: b.Config.Presence.GameName,
		Commands: commands.AllCommands(),
	}
	if s.State != nil {
		if s.State.User != nil {
			o.Avatar = s.State.User.AvatarURL("128")
		}
		o.Guilds = len(s.State.Guilds)
	}
	return o
}

func notFound(name string) string {
	return fmt.Sprintf("❌ Command `%s` not found!", name)
}

// SlashHelp answers /help [command]
func SlashHelp(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil || !commands.HasAccess(b, b.Actor(i.GuildID, i.Member)) {
		commands.RespondText(s, i, commands.NoAccessMessage, true)
		return
	}

	if name := commands.StringOption(commands.Options(i), "command"); name != "" {
		info, ok := commands.GetCommandInfo(name)
		if !ok {
			commands.RespondText(s, i, notFound(name), true)
			return
		}
		commands.RespondEmbed(s, i, commandEmbed(info, b.Config.BotName), false)
		return
	}

	commands.RespondEmbed(s, i, overviewEmbed(buildOverview(b, s)), false)
}

// Help is the !help [command] counterpart
func Help(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if !commands.HasAccess(b, commands.MessageActor(b, m)) {
		commands.Reply(s, m, commands.NoAccessMessage)
		return
	}

	if len(args) > 1 {
		info, ok := commands.GetCommandInfo(args[1])
		if !ok {
			commands.Reply(s, m, notFound(args[1]))
			return
		}
		commands.ReplyEmbed(s, m, commandEmbed(info, b.Config.BotName))
		return
	}

	commands.ReplyEmbed(s, m, overviewEmbed(buildOverview(b, s)))
}
