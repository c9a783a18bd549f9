package commands

import (
	"github.com/bwmarrin/discordgo"
)

// Responder is the part of *discordgo.Session used to answer interactions
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

func flags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// RespondText answers an interaction with a plain message
func RespondText(s Responder, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags(ephemeral),
		},
	})
	if err != nil {
		logger.WithError(err).Error("Failed responding to interaction")
	}
}

// RespondEmbed answers an interaction with an embed
func RespondEmbed(s Responder, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags(ephemeral),
		},
	})
	if err != nil {
		logger.WithError(err).Error("Failed responding to interaction")
	}
}

// FollowUp sends another message after the interaction was answered
func FollowUp(s Responder, i *discordgo.InteractionCreate, content string, embed *discordgo.MessageEmbed, ephemeral bool) {
	params := &discordgo.WebhookParams{
		Content: content,
		Flags:   flags(ephemeral),
	}
	if embed != nil {
		params.Embeds = []*discordgo.MessageEmbed{embed}
	}

	if _, err := s.FollowupMessageCreate(i.Interaction, true, params); err != nil {
		logger.WithError(err).Error("Failed sending follow up message")
	}
}

// Invoker returns the user behind an interaction, in guilds and DMs
func Invoker(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// Options maps the top level options of a slash command by name
func Options(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		out[opt.Name] = opt
	}
	return out
}

// StringOption returns the string value of an option, or "" if it is absent
func StringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// Reply answers a prefix command in its channel, referencing the message
func Reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	_, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content:   content,
		Reference: m.Reference(),
	})
	if err != nil {
		logger.WithError(err).WithField("channel", m.ChannelID).Error("Failed replying to message")
	}
}

// ReplyEmbed answers a prefix command with an embed
func ReplyEmbed(s *discordgo.Session, m *discordgo.MessageCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		logger.WithError(err).WithField("channel", m.ChannelID).Error("Failed sending embed")
	}
}
