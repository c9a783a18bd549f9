package media

import (
	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/bwmarrin/discordgo"
)

func imageOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionAttachment,
		Name:        "image",
		Description: "The image file to send",
		Required:    true,
	}
}

func messageOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "message",
		Description: "Optional message to include with the image",
	}
}

func init() {
	commands.RegisterModule(&commands.ModuleInfo{
		Name:        "Media",
		Description: "Forward images between channels",
		Category:    "Utility",
		SlashCommands: []commands.SlashCommandInfo{
			{
				Name:        "sendimage",
				Description: "Send an image to a specified channel",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "channel",
						Description:  "The channel to send the image to",
						Required:     true,
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
					},
					imageOption(),
					messageOption(),
				},
				Handler: SendImage,
			},
			{
				Name:        "imagechannel",
				Description: "Send an image to a channel using an interactive menu",
				Options: []*discordgo.ApplicationCommandOption{
					imageOption(),
					messageOption(),
				},
				Handler: ImageChannel,
			},
		},
	})
}
