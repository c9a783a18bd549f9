package moderation

import (
	"fmt"
	"time"

	"github.com/GTANeijasAcc/GTANBot/metrics"
	"github.com/bwmarrin/discordgo"
)

// ModlogAction describes how an action is presented in embeds
type ModlogAction struct {
	Title string
	Emoji string
	Color int
}

var (
	MABanned     = ModlogAction{Title: "Member Banned", Emoji: "🔨", Color: 0xff4757}
	MAKicked     = ModlogAction{Title: "Member Kicked", Emoji: "✅", Color: 0x4ecdc4}
	MAMuted      = ModlogAction{Title: "Member Muted", Emoji: "🔇", Color: 0xffa502}
	MAUnmuted    = ModlogAction{Title: "Member Unmuted", Emoji: "🔊", Color: 0x4ecdc4}
	MAAutoUnmute = ModlogAction{Title: "Member Automatically Unmuted", Emoji: "🔊", Color: 0x4ecdc4}
	MAWarned     = ModlogAction{Title: "Member Warned", Emoji: "⚠️", Color: 0xffa502}
	MAAutoKick   = ModlogAction{Title: "Automatic Action Triggered", Emoji: "🔨", Color: 0xff4757}
)

var kindActions = map[ActionKind]ModlogAction{
	ActionBan:    MABanned,
	ActionKick:   MAKicked,
	ActionMute:   MAMuted,
	ActionWarn:   MAWarned,
	ActionUnmute: MAUnmuted,
}

func (m ModlogAction) String() string {
	return m.Emoji + " " + m.Title
}

// ModLog mirrors embeds to the guild's moderation log channel, found by name.
type ModLog struct {
	platform    Platform
	channelName string
}

func NewModLog(platform Platform, channelName string) *ModLog {
	return &ModLog{platform: platform, channelName: channelName}
}

// Mirror never fails the caller: a missing channel is skipped, send errors are logged.
func (l *ModLog) Mirror(guildID string, embed *discordgo.MessageEmbed) DeliveryResult {
	return l.mirror(guildID, "", embed)
}

// MirrorExcept skips the mirror when the log channel is excludeChannelID.
func (l *ModLog) MirrorExcept(guildID, excludeChannelID string, embed *discordgo.MessageEmbed) DeliveryResult {
	return l.mirror(guildID, excludeChannelID, embed)
}

func (l *ModLog) mirror(guildID, exclude string, embed *discordgo.MessageEmbed) DeliveryResult {
	channelID, ok := l.platform.FindChannel(guildID, l.channelName)
	if !ok || channelID == exclude {
		return DeliverySkipped
	}

	if err := l.platform.SendEmbed(channelID, embed); err != nil {
		logger.WithError(err).WithField("guild", guildID).WithField("channel", channelID).Warn("Failed mirroring to mod log")
		metrics.SideEffects.WithLabelValues("modlog", "failed").Inc()
		return DeliveryFailed
	}

	metrics.SideEffects.WithLabelValues("modlog", "delivered").Inc()
	return Delivered
}

// Embed renders the confirmation shown to the invoker and mirrored to the log channel.
func (o *Outcome) Embed(footer string) *discordgo.MessageEmbed {
	action := kindActions[o.Kind]

	embed := &discordgo.MessageEmbed{
		Title:     action.String(),
		Color:     action.Color,
		Timestamp: o.At.Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: footer},
	}

	reason := &discordgo.MessageEmbedField{Name: "Reason", Value: o.Reason}
	moderator := &discordgo.MessageEmbedField{Name: "Moderator", Value: o.Moderator, Inline: true}

	switch o.Kind {
	case ActionBan:
		embed.Description = fmt.Sprintf("**%s** has been banned from the server", o.TargetTag)
		embed.Fields = []*discordgo.MessageEmbedField{reason, moderator,
			{Name: "Member ID", Value: o.TargetID, Inline: true}}
	case ActionKick:
		embed.Description = fmt.Sprintf("**%s** has been kicked from the server", o.TargetTag)
		embed.Fields = []*discordgo.MessageEmbedField{reason, moderator,
			{Name: "Member ID", Value: o.TargetID, Inline: true}}
	case ActionMute:
		duration := "Permanent"
		if o.Duration > 0 {
			duration = o.DurationToken
		}
		embed.Description = fmt.Sprintf("**%s** has been muted", o.TargetTag)
		embed.Fields = []*discordgo.MessageEmbedField{reason,
			{Name: "Duration", Value: duration, Inline: true}, moderator}
	case ActionUnmute:
		embed.Description = fmt.Sprintf("**%s** has been unmuted", o.TargetTag)
		embed.Fields = []*discordgo.MessageEmbedField{reason, moderator}
	case ActionWarn:
		embed.Description = fmt.Sprintf("**%s** has been warned", o.TargetTag)
		embed.Fields = []*discordgo.MessageEmbedField{reason,
			{Name: "Warning Count", Value: fmt.Sprintf("%d/%d", o.WarningCount, o.MaxWarnings), Inline: true},
			moderator}
		if o.Warning != nil {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name: "Warning ID", Value: fmt.Sprintf("#%d", o.Warning.ID), Inline: true})
		}
	}

	if o.CaseID != "" {
		embed.Footer.Text = footer + " | Case " + o.CaseID[:8]
	}

	return embed
}

// AutoKickEmbed announces the threshold kick that followed a warning.
func (o *Outcome) AutoKickEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       MAAutoKick.String(),
		Color:       MAAutoKick.Color,
		Description: fmt.Sprintf("**%s** has reached %d warnings and has been kicked", o.TargetTag, o.MaxWarnings),
		Timestamp:   o.At.Format(time.RFC3339),
	}
}

func autoUnmuteEmbed(tag string, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       MAAutoUnmute.String(),
		Color:       MAAutoUnmute.Color,
		Description: fmt.Sprintf("**%s**'s mute has expired", tag),
		Timestamp:   at.Format(time.RFC3339),
	}
}

// punishDM is the direct message sent to the target before/after an action.
func punishDM(kind ActionKind, guildName, reason, moderator string, count, max int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Reason", Value: reason},
		},
	}

	switch kind {
	case ActionBan:
		embed.Title = "You have been banned"
		embed.Color = 0xff4757
		embed.Description = fmt.Sprintf("You were banned from **%s**", guildName)
	case ActionKick:
		embed.Title = "You have been kicked"
		embed.Color = 0xff6b6b
		embed.Description = fmt.Sprintf("You were kicked from **%s**", guildName)
	case ActionWarn:
		embed.Title = "You have received a warning"
		embed.Color = 0xffa502
		embed.Description = fmt.Sprintf("You were warned in **%s**", guildName)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Warning Count", Value: fmt.Sprintf("%d/%d", count, max)})
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Moderator", Value: moderator})
	return embed
}
