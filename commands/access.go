package commands

import (
	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
)

// NoAccessMessage answers members outside the role allow-list
const NoAccessMessage = "❌ You do not have the required roles to use this bot!"

// MessageActor builds the permission gate view of a prefix command author.
// Members attached to messages come without their user.
func MessageActor(b *bot.Bot, m *discordgo.MessageCreate) *utils.Actor {
	if m.Member == nil || m.GuildID == "" {
		return nil
	}
	member := *m.Member
	member.User = m.Author
	return b.Actor(m.GuildID, &member)
}

// HasAccess applies the base role gate to an actor. A nil actor, e.g. an
// invocation outside a guild, never passes.
func HasAccess(b *bot.Bot, actor *utils.Actor) bool {
	return utils.HasBaseAccess(actor, b.Config.Moderation.RequiredRoleIDs)
}
