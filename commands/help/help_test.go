package help

import (
	"strings"
	"testing"

	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverviewEmbed(t *testing.T) {
	embed := overviewEmbed(overview{
		BotName:  "GTA Neijas Moderator",
		GameName: "Grand Theft Auto: Neijas",
		Guilds:   2,
		Commands: []commands.CommandInfo{
			{Name: "ban", Description: "Ban a member", Usage: "/ban <user> [reason]", Category: "Moderation"},
			{Name: "sendimage", Description: "Send an image", Usage: "/sendimage <channel> <image>", Category: "Utility"},
			{Name: "rules", Description: "Server rules", Custom: true},
		},
	})

	assert.Equal(t, "🤖 GTA Neijas Moderator - Help", embed.Title)
	assert.Equal(t, 0x74b9ff, embed.Color)
	require.Len(t, embed.Fields, 5)
	assert.Equal(t, "🛡️ Moderation Commands", embed.Fields[0].Name)
	assert.Equal(t, "`/ban` - Ban a member", embed.Fields[0].Value)
	assert.Equal(t, "`/sendimage` - Send an image", embed.Fields[1].Value)
	assert.Equal(t, "`!rules` - Server rules", embed.Fields[2].Value)
	assert.Equal(t, "Servers: 2\nCommands: 3", embed.Fields[3].Value)
	assert.Equal(t, "Playing Grand Theft Auto: Neijas", embed.Fields[4].Value)
	assert.Nil(t, embed.Thumbnail)
}

func TestOverviewEmbedSkipsEmptySections(t *testing.T) {
	embed := overviewEmbed(overview{BotName: "bot"})
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "📊 Bot Statistics", embed.Fields[0].Name)
}

func TestJoinFieldTruncates(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = strings.Repeat("x", 30)
	}

	value := joinField(lines)
	assert.LessOrEqual(t, len(value), maxFieldLength)
	assert.True(t, strings.HasSuffix(value, "…"))
}

func TestCommandEmbed(t *testing.T) {
	embed := commandEmbed(commands.CommandInfo{
		Name:        "mute",
		Description: "Mute a member in the server",
		Usage:       "/mute <user> [duration] [reason]",
		Category:    "Moderation",
	}, "bot")

	assert.Equal(t, "📖 Command: /mute", embed.Title)
	assert.Equal(t, "Mute a member in the server", embed.Description)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "`/mute <user> [duration] [reason]`", embed.Fields[0].Value)

	embed = commandEmbed(commands.CommandInfo{Name: "ping", Usage: "!ping", Aliases: []string{"p"}}, "bot")
	assert.Equal(t, "📖 Command: ping", embed.Title)
	assert.Equal(t, "Aliases", embed.Fields[1].Name)
}
