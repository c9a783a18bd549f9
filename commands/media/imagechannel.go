package media

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/bwmarrin/discordgo"
)

const selectWindow = 60 * time.Second

func selectCustomID(interactionID string) string {
	return "select_channel:" + interactionID
}

func channelMenu(customID string, disabled bool) []discordgo.MessageComponent {
	placeholder := "Choose a channel to send the image to"
	if disabled {
		placeholder = "Selection timed out"
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:     discordgo.ChannelSelectMenu,
				CustomID:     customID,
				Placeholder:  placeholder,
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				Disabled:     disabled,
			},
		}},
	}
}

func previewEmbed(f *Forward) *discordgo.MessageEmbed {
	fields := f.fileFields()
	fields = append(fields[:2:2], &discordgo.MessageEmbedField{Name: "Sent by", Value: f.SharedBy, Inline: true})
	if f.Message != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Message", Value: f.Message})
	}

	return &discordgo.MessageEmbed{
		Title:       "📸 Select Channel for Image",
		Color:       0x74b9ff,
		Description: "Choose a channel from the dropdown menu below to send your image.",
		Fields:      fields,
		Image:       &discordgo.MessageEmbedImage{URL: f.Attachment.URL},
		Footer:      &discordgo.MessageEmbedFooter{Text: "Select a channel within 60 seconds"},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func timeoutEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⏰ Selection Timeout",
		Color:       0xff6b6b,
		Description: "Channel selection timed out. Please run the command again.",
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// selectionFilter only lets the invoker pick, and only channels the bot can post in
func selectionFilter(s *discordgo.Session, invokerID string) commands.ComponentFilter {
	return func(sel *discordgo.InteractionCreate) string {
		if u := commands.Invoker(sel); u == nil || u.ID != invokerID {
			return "❌ Only the command user can select a channel!"
		}

		values := sel.MessageComponentData().Values
		if len(values) == 0 {
			return "❌ Please select a valid text channel!"
		}
		if checkTargetChannel(s, values[0]) != "" {
			return "❌ I don't have permission to send messages or attach files in <#" + values[0] + ">!"
		}
		return ""
	}
}

// ImageChannel lets the invoker pick the target channel from a select menu
func ImageChannel(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	f, _, ok := prepare(b, s, i)
	if !ok {
		return
	}

	customID := selectCustomID(i.ID)
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{previewEmbed(f)},
			Components: channelMenu(customID, false),
		},
	})
	if err != nil {
		logger.WithError(err).Error("Failed sending channel select menu")
		return
	}

	sel, err := commands.Components.Await(context.Background(), customID, selectWindow, selectionFilter(s, commands.Invoker(i).ID))
	if err != nil {
		if !errors.Is(err, commands.ErrCollectorTimeout) {
			logger.WithError(err).Error("Channel selection failed")
		}

		embeds := []*discordgo.MessageEmbed{timeoutEmbed()}
		components := channelMenu(customID, true)
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Embeds:     &embeds,
			Components: &components,
		}); err != nil {
			logger.WithError(err).Error("Failed disabling channel select menu")
		}
		return
	}

	f.ToChannelID = sel.MessageComponentData().Values[0]

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	fw := &Forwarder{Downloader: downloader, Sender: s}
	if err := fw.Send(ctx, f); err != nil {
		logger.WithError(err).WithField("channel", f.ToChannelID).Error("Failed sending image")
		commands.RespondText(s, sel, SendErrorMessage(err, f.ToChannelID), true)
		return
	}

	err = s.InteractionRespond(sel.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{f.SentEmbed()},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		logger.WithError(err).Error("Failed updating channel select message")
	}

	b.ModLog.MirrorExcept(i.GuildID, f.ToChannelID, f.LogEmbed("📸 Image Forwarded via Menu"))
}
