package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
)

// codeEntityTooLarge is the API error for uploads above the size limit
const codeEntityTooLarge = 40005

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}

// IsImage checks the attachment name against the allowed image extensions
func IsImage(filename string) bool {
	ext := strings.ToLower(path.Ext(filename))
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func sizeKB(size int) string {
	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}

// Forward describes one image being re-posted into another channel
type Forward struct {
	Attachment    *discordgo.MessageAttachment
	Message       string
	SharedBy      string
	FromChannelID string
	ToChannelID   string
	Footer        string
}

func (f *Forward) fileFields() []*discordgo.MessageEmbedField {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Image Name", Value: f.Attachment.Filename, Inline: true},
		{Name: "File Size", Value: sizeKB(f.Attachment.Size), Inline: true},
	}
	if f.Message != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Message", Value: f.Message})
	}
	return fields
}

// sharedEmbed is posted in the target channel together with the image
func (f *Forward) sharedEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📸 Image Shared",
		Color:       0x4ecdc4,
		Description: f.Message,
		Image:       &discordgo.MessageEmbedImage{URL: "attachment://" + f.Attachment.Filename},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Shared by", Value: f.SharedBy, Inline: true},
			{Name: "From channel", Value: "<#" + f.FromChannelID + ">", Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: f.Footer},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// SentEmbed confirms the forward to the invoker
func (f *Forward) SentEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Image Sent Successfully",
		Color:       0x4ecdc4,
		Description: "Image has been sent to <#" + f.ToChannelID + ">",
		Fields:      f.fileFields(),
		Footer:      &discordgo.MessageEmbedFooter{Text: f.Footer},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// LogEmbed is mirrored to the moderation log channel
func (f *Forward) LogEmbed(title string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Color:       0x74b9ff,
		Description: fmt.Sprintf("%s sent an image from <#%s> to <#%s>", f.SharedBy, f.FromChannelID, f.ToChannelID),
		Fields:      f.fileFields(),
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// ChannelSender is the part of *discordgo.Session used to post the image
type ChannelSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Forwarder downloads an attachment and posts it again in another channel
type Forwarder struct {
	Downloader *Downloader
	Sender     ChannelSender
}

func (fw *Forwarder) Send(ctx context.Context, f *Forward) error {
	data, err := fw.Downloader.Fetch(ctx, f.Attachment.URL)
	if err != nil {
		return err
	}

	contentType := f.Attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = fw.Sender.ChannelMessageSendComplex(f.ToChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{f.sharedEmbed()},
		Files: []*discordgo.File{{
			Name:        f.Attachment.Filename,
			ContentType: contentType,
			Reader:      bytes.NewReader(data),
		}},
	})
	return errors.WithMessage(err, "send image")
}

// SendErrorMessage maps a failed forward to the message shown to the invoker
func SendErrorMessage(err error, channelID string) string {
	if errors.Is(err, ErrTooLarge) {
		return "❌ The file is too large! Discord has a file size limit."
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeMissingPermissions:
			return "❌ I don't have permission to send messages or attach files in <#" + channelID + ">!"
		case codeEntityTooLarge:
			return "❌ The file is too large! Discord has a file size limit."
		case discordgo.ErrCodeInvalidFormBody:
			return "❌ Invalid file format or the file is corrupted!"
		}
	}
	return "❌ An error occurred while sending the image!"
}
