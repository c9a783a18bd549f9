package media

import (
	"context"
	"time"

	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
)

var logger = utils.GetLogger("commands/media")

var downloader = NewDownloader()

const sendTimeout = 45 * time.Second

// prepare runs the checks shared by both commands and answers the
// interaction itself when one fails.
func prepare(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) (*Forward, map[string]*discordgo.ApplicationCommandInteractionDataOption, bool) {
	if i.GuildID == "" || i.Member == nil {
		commands.RespondText(s, i, "❌ This command can only be used in a server!", true)
		return nil, nil, false
	}

	actor := b.Actor(i.GuildID, i.Member)
	if !commands.HasAccess(b, actor) {
		commands.RespondText(s, i, commands.NoAccessMessage, true)
		return nil, nil, false
	}
	if !utils.IsAuthorized(actor, discordgo.PermissionManageMessages) {
		commands.RespondText(s, i, "❌ You do not have permission to use this command!", true)
		return nil, nil, false
	}

	opts := commands.Options(i)
	attachment := attachmentOption(i, opts, "image")
	if attachment == nil {
		commands.RespondText(s, i, "❌ Please attach an image file!", true)
		return nil, nil, false
	}
	if !IsImage(attachment.Filename) {
		commands.RespondText(s, i, "❌ Please attach a valid image file (jpg, jpeg, png, gif, webp, bmp)!", true)
		return nil, nil, false
	}

	return &Forward{
		Attachment:    attachment,
		Message:       commands.StringOption(opts, "message"),
		SharedBy:      utils.UserTag(commands.Invoker(i)),
		FromChannelID: i.ChannelID,
		Footer:        b.Config.BotName,
	}, opts, true
}

func attachmentOption(i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.MessageAttachment {
	opt, ok := opts[name]
	if !ok {
		return nil
	}
	id, ok := opt.Value.(string)
	if !ok {
		return nil
	}

	resolved := i.ApplicationCommandData().Resolved
	if resolved == nil {
		return nil
	}
	return resolved.Attachments[id]
}

func botChannelPermissions(s *discordgo.Session, channelID string) (int64, error) {
	if perms, err := s.State.UserChannelPermissions(s.State.User.ID, channelID); err == nil {
		return perms, nil
	}
	return s.UserChannelPermissions(s.State.User.ID, channelID)
}

var imagePermissions = []int64{discordgo.PermissionSendMessages, discordgo.PermissionAttachFiles}

// channelRejection renders the rejection for a bot permission set in a
// channel, "" when images can be posted there.
func channelRejection(perms int64, channelID string) string {
	missing := utils.MissingPermissions(&utils.Actor{Permissions: perms}, imagePermissions)
	if len(missing) == 0 {
		return ""
	}
	return "❌ I cannot post images in <#" + channelID + ">! Missing: " + utils.FormatPermissions(missing)
}

// checkTargetChannel returns the rejection for a channel the bot cannot post
// images in, or "" when it can.
func checkTargetChannel(s *discordgo.Session, channelID string) string {
	perms, err := botChannelPermissions(s, channelID)
	if err != nil {
		logger.WithError(err).WithField("channel", channelID).Warn("Failed computing channel permissions")
		return "❌ Please select a valid text channel!"
	}
	return channelRejection(perms, channelID)
}

func isTextChannel(t discordgo.ChannelType) bool {
	return t == discordgo.ChannelTypeGuildText || t == discordgo.ChannelTypeGuildNews
}

// SendImage posts an attached image into the chosen channel
func SendImage(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	f, opts, ok := prepare(b, s, i)
	if !ok {
		return
	}

	channelOpt, ok := opts["channel"]
	if !ok {
		commands.RespondText(s, i, "❌ Please select a valid text channel!", true)
		return
	}
	channel := channelOpt.ChannelValue(nil)
	if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
		if c, ok := resolved.Channels[channel.ID]; ok {
			channel = c
		}
	}
	if !isTextChannel(channel.Type) {
		commands.RespondText(s, i, "❌ Please select a valid text channel!", true)
		return
	}

	if reject := checkTargetChannel(s, channel.ID); reject != "" {
		commands.RespondText(s, i, reject, true)
		return
	}
	f.ToChannelID = channel.ID

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	fw := &Forwarder{Downloader: downloader, Sender: s}
	if err := fw.Send(ctx, f); err != nil {
		logger.WithError(err).WithField("channel", channel.ID).Error("Failed sending image")
		commands.RespondText(s, i, SendErrorMessage(err, channel.ID), true)
		return
	}

	commands.RespondEmbed(s, i, f.SentEmbed(), false)
	b.ModLog.MirrorExcept(i.GuildID, channel.ID, f.LogEmbed("📸 Image Forwarded"))
}
