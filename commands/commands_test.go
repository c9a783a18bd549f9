package commands

import (
	"testing"

	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopCommand(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {}

func noopSlash(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {}

func TestParseCommand(t *testing.T) {
	name, args, ok := ParseCommand("!", "!Ping   now")
	require.True(t, ok)
	assert.Equal(t, "ping", name)
	assert.Equal(t, []string{"Ping", "now"}, args)

	for _, content := range []string{"ping", "!", "!   ", "?ping", ""} {
		_, _, ok := ParseCommand("!", content)
		assert.False(t, ok, content)
	}

	_, _, ok = ParseCommand("", "ping")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	RegisterModule(&ModuleInfo{
		Name:     "registry-test",
		Category: "Testing",
		Commands: []CommandInfo{{Name: "rtping", Description: "pong", Usage: "!rtping", Category: "Testing"}},
		SlashCommands: []SlashCommandInfo{{
			Name:        "rtslash",
			Description: "slash",
			Options: []*discordgo.ApplicationCommandOption{
				{Name: "user", Required: true, Type: discordgo.ApplicationCommandOptionUser},
				{Name: "reason", Type: discordgo.ApplicationCommandOptionString},
			},
			Handler: noopSlash,
		}},
	})
	RegisterCommand("rtping", noopCommand, "rtp")

	_, name, ok := ResolveCommand("RTP")
	require.True(t, ok)
	assert.Equal(t, "rtping", name)

	_, ok = SlashHandler("rtslash")
	assert.True(t, ok)

	info, ok := GetCommandInfo("rtslash")
	require.True(t, ok)
	assert.Equal(t, "/rtslash <user> [reason]", info.Usage)
	assert.Equal(t, "Testing", info.Category)

	assert.True(t, Exists("rtp"))
	assert.True(t, Exists("rtslash"))
	assert.False(t, IsCustom("rtping"))
	assert.Contains(t, GetAllCategories(), "Testing")
	assert.Len(t, GetCommandsByCategory("Testing"), 2)

	AddCommand(CommandInfo{Name: "RTCustom", Description: "custom", Custom: true}, noopCommand)
	assert.True(t, IsCustom("rtcustom"))
	assert.True(t, UnregisterCommand("rtcustom"))
	assert.False(t, UnregisterCommand("rtcustom"))
	assert.False(t, Exists("rtcustom"))

	assert.True(t, UnregisterCommand("rtping"))
	_, _, ok = ResolveCommand("rtp")
	assert.False(t, ok)
}

func TestCommandNeedsUpdate(t *testing.T) {
	base := func() *discordgo.ApplicationCommand {
		return &discordgo.ApplicationCommand{
			Name:        "mute",
			Description: "Mute a member in the server",
			Options: []*discordgo.ApplicationCommandOption{
				{Name: "user", Description: "The user to mute", Type: discordgo.ApplicationCommandOptionUser, Required: true},
			},
		}
	}

	assert.False(t, commandNeedsUpdate(base(), base()))

	changed := base()
	changed.Description = "other"
	assert.True(t, commandNeedsUpdate(base(), changed))

	changed = base()
	changed.Options[0].Required = false
	assert.True(t, commandNeedsUpdate(base(), changed))

	changed = base()
	changed.Options = append(changed.Options, &discordgo.ApplicationCommandOption{Name: "reason"})
	assert.True(t, commandNeedsUpdate(base(), changed))

	changed = base()
	changed.Options[0].ChannelTypes = []discordgo.ChannelType{discordgo.ChannelTypeGuildText}
	assert.True(t, commandNeedsUpdate(base(), changed))
}

type fakeRegistrar struct {
	existing []*discordgo.ApplicationCommand
	created  []string
	edited   []string
	deleted  []string
}

func (f *fakeRegistrar) ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	return f.existing, nil
}

func (f *fakeRegistrar) ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	f.created = append(f.created, cmd.Name)
	return cmd, nil
}

func (f *fakeRegistrar) ApplicationCommandEdit(appID, guildID, cmdID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	f.edited = append(f.edited, cmdID)
	return cmd, nil
}

func (f *fakeRegistrar) ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error {
	f.deleted = append(f.deleted, cmdID)
	return nil
}

func TestRegisterAllSlashCommands(t *testing.T) {
	RegisterModule(&ModuleInfo{
		Name: "sync-test",
		SlashCommands: []SlashCommandInfo{
			{Name: "synckeep", Description: "same", Handler: noopSlash},
			{Name: "syncedit", Description: "new description", Handler: noopSlash},
			{Name: "syncnew", Description: "brand new", Handler: noopSlash},
		},
	})

	wanted := map[string]bool{}
	for _, cmd := range GetAllSlashCommands() {
		wanted[cmd.Name] = true
	}

	f := &fakeRegistrar{existing: []*discordgo.ApplicationCommand{
		{ID: "1", Name: "synckeep", Description: "same"},
		{ID: "2", Name: "syncedit", Description: "old description"},
		{ID: "3", Name: "syncgone", Description: "removed"},
	}}

	require.NoError(t, RegisterAllSlashCommands(f, "app", ""))

	assert.Equal(t, []string{"2"}, f.edited)
	assert.Equal(t, []string{"3"}, f.deleted)
	assert.Contains(t, f.created, "syncnew")
	assert.NotContains(t, f.created, "synckeep")
	assert.Len(t, f.created, len(wanted)-2)
}
