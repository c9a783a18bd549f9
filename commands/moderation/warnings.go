package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/commands"
	mod "github.com/GTANeijasAcc/GTANBot/moderation"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
)

// maxListedWarnings keeps the embed under discord's field limit
const maxListedWarnings = 20

func warningsEmbed(tag string, records []mod.WarningRecord, max int, footer string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "⚠️ Warnings for " + tag,
		Color:     0xffa502,
		Footer:    &discordgo.MessageEmbedFooter{Text: footer},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(records) == 0 {
		embed.Description = fmt.Sprintf("**%s** has no warnings.", tag)
		return embed
	}

	embed.Description = fmt.Sprintf("**%s** has %d/%d warnings.", tag, len(records), max)
	for i, rec := range records {
		if i == maxListedWarnings {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d • %s", rec.ID, rec.Timestamp.Format("2006-01-02 15:04")),
			Value: fmt.Sprintf("%s\nBy %s", rec.Reason, rec.Moderator),
		})
	}
	return embed
}

// Warnings lists the recorded warnings of a member
func Warnings(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil {
		commands.RespondText(s, i, guildOnly, true)
		return
	}

	actor := b.Actor(i.GuildID, i.Member)
	if !commands.HasAccess(b, actor) {
		commands.RespondText(s, i, commands.NoAccessMessage, true)
		return
	}
	if !utils.IsAuthorized(actor, discordgo.PermissionManageMessages) {
		commands.RespondText(s, i, "❌ You do not have permission to view warnings!", true)
		return
	}

	cfg := b.Executor.Config()
	opts := commands.Options(i)
	userOpt, ok := opts["user"]
	if !ok {
		commands.RespondText(s, i, "❌ User not found in this server!", true)
		return
	}
	user := userOpt.UserValue(s)

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	records, err := b.Executor.ListWarnings(ctx, i.GuildID, user.ID)
	if err != nil {
		logger.WithError(err).WithField("guild", i.GuildID).Error("Failed listing warnings")
		commands.RespondText(s, i, "❌ An error occurred while fetching warnings!", true)
		return
	}

	tag := utils.UserTag(user)
	if user.Username == "" {
		tag = user.Mention()
	}
	commands.RespondEmbed(s, i, warningsEmbed(tag, records, cfg.MaxWarnings, cfg.BotName), true)
}
