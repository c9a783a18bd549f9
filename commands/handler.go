package commands

import (
	"fmt"
	"strings"

	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/metrics"
	"github.com/bwmarrin/discordgo"
)

const genericError = "❌ There was an error while executing this command!"

// ParseCommand splits "!cmd a  b" into ("cmd", ["cmd", "a", "b"]). ok is
// false when content does not start with prefix or has no command name.
func ParseCommand(prefix, content string) (name string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}

	args = strings.Fields(strings.TrimPrefix(content, prefix))
	if len(args) == 0 {
		return "", nil, false
	}
	return strings.ToLower(args[0]), args, true
}

// HandleMessage returns the MessageCreate handler dispatching prefix commands
func HandleMessage(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}

		name, args, ok := ParseCommand(b.Config.Prefix, m.Content)
		if !ok {
			return
		}

		handler, resolved, ok := ResolveCommand(name)
		if !ok {
			return
		}

		if !b.Limiter.Allow(m.Author.ID, resolved) {
			retry := b.Limiter.RetryAfter(m.Author.ID, resolved)
			Reply(s, m, fmt.Sprintf("⏳ Slow down! Try again in %.0f seconds.", retry.Seconds()+0.5))
			return
		}

		metrics.CommandsHandled.WithLabelValues(resolved, "prefix").Inc()

		defer func() {
			if r := recover(); r != nil {
				logger.WithField("command", resolved).Errorf("Recovered from panic in prefix command: %v", r)
				Reply(s, m, genericError)
			}
		}()

		handler(b, s, m, args)
	}
}

// HandleInteraction returns the InteractionCreate handler dispatching slash
// commands and feeding component interactions to open collectors
func HandleInteraction(b *bot.Bot) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			handleSlash(b, s, i)
		case discordgo.InteractionMessageComponent:
			handleComponent(s, i)
		}
	}
}

func handleSlash(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name

	handler, ok := SlashHandler(name)
	if !ok {
		logger.WithField("command", name).Warn("No command matching interaction")
		return
	}

	metrics.CommandsHandled.WithLabelValues(name, "slash").Inc()

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("command", name).Errorf("Recovered from panic in slash command: %v", r)
			RespondText(s, i, genericError, true)
		}
	}()

	handler(b, s, i)
}

func handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch delivery, reject := Components.Deliver(i); delivery {
	case DeliveryRejected:
		RespondText(s, i, reject, true)
	case DeliveryUnclaimed:
		RespondText(s, i, "⏰ This selection has expired.", true)
	}
}
