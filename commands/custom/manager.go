package custom

import (
	"regexp"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
)

var logger = utils.GetLogger("commands/custom")

const (
	ErrMissingFields = errors.Sentinel("Name, description, and response are required")
	ErrInvalidName   = errors.Sentinel("Command names may only contain lowercase letters, digits, - and _")
	ErrExists        = errors.Sentinel("Command already exists")
	ErrProtected     = errors.Sentinel("Cannot delete core moderation commands")
	ErrBuiltin       = errors.Sentinel("Cannot delete built-in commands")
	ErrNotFound      = errors.Sentinel("Command not found")
)

// ProtectedCommands can never be deleted from the dashboard
var ProtectedCommands = []string{"kick", "ban", "mute", "warn", "help"}

var validName = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

func isProtected(name string) bool {
	for _, p := range ProtectedCommands {
		if p == name {
			return true
		}
	}
	return false
}

// Manager keeps the stored custom commands and the command registry in sync
type Manager struct {
	store *Store
	now   func() time.Time
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

func replyHandler(response string) commands.CommandFunc {
	return func(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
		commands.Reply(s, m, response)
	}
}

func register(cmd Command) {
	commands.AddCommand(commands.CommandInfo{
		Name:        cmd.Name,
		Description: cmd.Description,
		Usage:       cmd.Usage,
		Category:    "Custom",
		Custom:      true,
	}, replyHandler(cmd.Response))
}

// Load registers every stored command and returns how many there were
func (m *Manager) Load() (int, error) {
	stored, err := m.store.List()
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, cmd := range stored {
		if commands.Exists(cmd.Name) && !commands.IsCustom(cmd.Name) {
			logger.WithField("command", cmd.Name).Warn("Stored custom command shadows a built-in command, skipping")
			continue
		}
		register(cmd)
		loaded++
	}
	return loaded, nil
}

// Create validates, stores and registers a new command
func (m *Manager) Create(cmd Command) (Command, error) {
	cmd.Name = strings.ToLower(strings.TrimSpace(cmd.Name))
	if cmd.Name == "" || strings.TrimSpace(cmd.Description) == "" || strings.TrimSpace(cmd.Response) == "" {
		return cmd, ErrMissingFields
	}
	if !validName.MatchString(cmd.Name) {
		return cmd, ErrInvalidName
	}
	if commands.Exists(cmd.Name) {
		return cmd, ErrExists
	}

	if cmd.Usage == "" {
		cmd.Usage = "!" + cmd.Name
	}
	cmd.CreatedAt = m.now()

	if err := m.store.Save(cmd); err != nil {
		return cmd, err
	}
	register(cmd)

	logger.WithField("command", cmd.Name).Info("Created custom command")
	return cmd, nil
}

// Delete removes a custom command. Core and built-in commands are refused.
func (m *Manager) Delete(name string) error {
	name = strings.ToLower(name)
	if isProtected(name) {
		return ErrProtected
	}
	if !commands.IsCustom(name) {
		if commands.Exists(name) {
			return ErrBuiltin
		}
		return ErrNotFound
	}

	if _, err := m.store.Delete(name); err != nil {
		return err
	}
	commands.UnregisterCommand(name)

	logger.WithField("command", name).Info("Deleted custom command")
	return nil
}

func (m *Manager) List() ([]Command, error) {
	return m.store.List()
}
