package commands

import (
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
)

var logger = utils.GetLogger("commands")

// commandNeedsUpdate checks if an existing command needs to be updated
func commandNeedsUpdate(existing, desired *discordgo.ApplicationCommand) bool {
	if existing.Name != desired.Name {
		return true
	}
	if existing.Description != desired.Description {
		return true
	}
	if len(existing.Options) != len(desired.Options) {
		return true
	}
	for i, option := range existing.Options {
		desiredOption := desired.Options[i]
		if option.Name != desiredOption.Name ||
			option.Description != desiredOption.Description ||
			option.Type != desiredOption.Type ||
			option.Required != desiredOption.Required {
			return true
		}
		if !sameChannelTypes(option.ChannelTypes, desiredOption.ChannelTypes) {
			return true
		}
	}
	return false
}

func sameChannelTypes(a, b []discordgo.ChannelType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CommandRegistrar is the part of *discordgo.Session used to sync slash commands
type CommandRegistrar interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandEdit(appID, guildID, cmdID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// RegisterAllSlashCommands registers and updates slash commands from all
// modules. An empty guildID registers them globally.
func RegisterAllSlashCommands(s CommandRegistrar, appID, guildID string) error {
	// Get existing commands
	existingCommands, err := s.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}

	// Create a map of existing commands for quick lookup
	existingMap := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existingCommands {
		existingMap[cmd.Name] = cmd
	}

	for _, desired := range GetAllSlashCommands() {
		l := logger.WithField("command", desired.Name)

		if existing, exists := existingMap[desired.Name]; exists {
			if commandNeedsUpdate(existing, desired) {
				l.Info("Updating slash command")
				if _, err := s.ApplicationCommandEdit(appID, guildID, existing.ID, desired); err != nil {
					l.WithError(err).Error("Failed updating slash command")
				}
			}
			// Remove from existing map so we know it's still wanted
			delete(existingMap, desired.Name)
			continue
		}

		l.Info("Creating slash command")
		if _, err := s.ApplicationCommandCreate(appID, guildID, desired); err != nil {
			l.WithError(err).Error("Failed creating slash command")
		}
	}

	// Delete any remaining commands that are no longer wanted
	for _, cmd := range existingMap {
		logger.WithField("command", cmd.Name).Info("Deleting unused slash command")
		if err := s.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			logger.WithError(err).WithField("command", cmd.Name).Error("Failed deleting slash command")
		}
	}

	return nil
}
