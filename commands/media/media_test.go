package media

import (
	"context"
	"io"
	"net/http"
	"testing"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageURL = "https://cdn.discordapp.com/attachments/1/2/cat.png"

func newMockedDownloader(t *testing.T) *Downloader {
	d := NewDownloader()
	httpmock.ActivateNonDefault(d.Client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return d
}

type recordingSender struct {
	channelID string
	data      *discordgo.MessageSend
	body      []byte
	err       error
}

func (r *recordingSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.channelID = channelID
	r.data = data
	if len(data.Files) > 0 {
		r.body, _ = io.ReadAll(data.Files[0].Reader)
	}
	return &discordgo.Message{}, r.err
}

func testForward() *Forward {
	return &Forward{
		Attachment: &discordgo.MessageAttachment{
			URL:         imageURL,
			Filename:    "cat.png",
			ContentType: "image/png",
			Size:        2048,
		},
		Message:       "look at this",
		SharedBy:      "mod",
		FromChannelID: "from",
		ToChannelID:   "to",
		Footer:        "GTA Neijas Moderator",
	}
}

func TestIsImage(t *testing.T) {
	for _, name := range []string{"a.png", "B.JPG", "c.jpeg", "d.gif", "e.webp", "f.bmp"} {
		assert.True(t, IsImage(name), name)
	}
	for _, name := range []string{"a.txt", "png", "a.png.exe", "", "a.svg"} {
		assert.False(t, IsImage(name), name)
	}
}

func TestForwarderSend(t *testing.T) {
	d := newMockedDownloader(t)
	httpmock.RegisterResponder("GET", imageURL, httpmock.NewBytesResponder(200, []byte("png-bytes")))

	sender := &recordingSender{}
	fw := &Forwarder{Downloader: d, Sender: sender}

	require.NoError(t, fw.Send(context.Background(), testForward()))

	assert.Equal(t, "to", sender.channelID)
	assert.Equal(t, []byte("png-bytes"), sender.body)
	require.Len(t, sender.data.Files, 1)
	assert.Equal(t, "cat.png", sender.data.Files[0].Name)
	assert.Equal(t, "image/png", sender.data.Files[0].ContentType)

	require.Len(t, sender.data.Embeds, 1)
	embed := sender.data.Embeds[0]
	assert.Equal(t, "📸 Image Shared", embed.Title)
	assert.Equal(t, "attachment://cat.png", embed.Image.URL)
	assert.Equal(t, "look at this", embed.Description)
}

func TestForwarderDownloadFailure(t *testing.T) {
	d := newMockedDownloader(t)
	httpmock.RegisterResponder("GET", imageURL, httpmock.NewStringResponder(404, "gone"))

	sender := &recordingSender{}
	fw := &Forwarder{Downloader: d, Sender: sender}

	err := fw.Send(context.Background(), testForward())
	assert.Error(t, err)
	assert.Nil(t, sender.data)
	assert.Equal(t, "❌ An error occurred while sending the image!", SendErrorMessage(err, "to"))
}

func TestForwarderRejectsOversizedDownload(t *testing.T) {
	d := newMockedDownloader(t)
	httpmock.RegisterResponder("GET", imageURL, httpmock.NewBytesResponder(200, make([]byte, maxImageBytes+1)))

	err := (&Forwarder{Downloader: d, Sender: &recordingSender{}}).Send(context.Background(), testForward())
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, "❌ The file is too large! Discord has a file size limit.", SendErrorMessage(err, "to"))
}

func restError(code int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: 400},
		Message:  &discordgo.APIErrorMessage{Code: code},
	}
}

func TestSendErrorMessage(t *testing.T) {
	assert.Equal(t, "❌ I don't have permission to send messages or attach files in <#42>!",
		SendErrorMessage(errors.WithMessage(restError(50013), "send image"), "42"))
	assert.Equal(t, "❌ The file is too large! Discord has a file size limit.", SendErrorMessage(restError(40005), "42"))
	assert.Equal(t, "❌ Invalid file format or the file is corrupted!", SendErrorMessage(restError(50035), "42"))
	assert.Equal(t, "❌ An error occurred while sending the image!", SendErrorMessage(restError(10003), "42"))
}

func TestChannelRejection(t *testing.T) {
	all := int64(discordgo.PermissionSendMessages | discordgo.PermissionAttachFiles)
	assert.Empty(t, channelRejection(all, "42"))
	assert.Empty(t, channelRejection(discordgo.PermissionAdministrator, "42"))
	assert.Equal(t, "❌ I cannot post images in <#42>! Missing: Attach Files",
		channelRejection(discordgo.PermissionSendMessages, "42"))
	assert.Equal(t, "❌ I cannot post images in <#42>! Missing: Send Messages, Attach Files",
		channelRejection(0, "42"))
}

func TestEmbeds(t *testing.T) {
	f := testForward()

	sent := f.SentEmbed()
	assert.Equal(t, "Image has been sent to <#to>", sent.Description)
	require.Len(t, sent.Fields, 3)
	assert.Equal(t, "2.00 KB", sent.Fields[1].Value)

	log := f.LogEmbed("📸 Image Forwarded")
	assert.Equal(t, 0x74b9ff, log.Color)
	assert.Equal(t, "mod sent an image from <#from> to <#to>", log.Description)

	preview := previewEmbed(f)
	require.Len(t, preview.Fields, 4)
	assert.Equal(t, "Sent by", preview.Fields[2].Name)
	assert.Equal(t, "Message", preview.Fields[3].Name)
	assert.Equal(t, imageURL, preview.Image.URL)

	row := channelMenu("select_channel:1", true)[0].(discordgo.ActionsRow)
	menu := row.Components[0].(discordgo.SelectMenu)
	assert.True(t, menu.Disabled)
	assert.Equal(t, "Selection timed out", menu.Placeholder)
	assert.Equal(t, discordgo.ChannelSelectMenu, menu.MenuType)
}
