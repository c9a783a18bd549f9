package moderation

import (
	"context"
	"strings"
	"time"
	"unicode"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/commands"
	mod "github.com/GTANeijasAcc/GTANBot/moderation"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
)

var logger = utils.GetLogger("commands/moderation")

const actionTimeout = 30 * time.Second

func execute(b *bot.Bot, a *mod.Action) (*mod.Outcome, error) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	return b.Executor.Execute(ctx, a)
}

// slashAction builds the handler shared by /ban, /kick, /mute, /unmute and /warn
func slashAction(kind mod.ActionKind) commands.SlashFunc {
	return func(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.GuildID == "" || i.Member == nil {
			commands.RespondText(s, i, guildOnly, true)
			return
		}

		opts := commands.Options(i)
		userOpt, ok := opts["user"]
		if !ok {
			commands.RespondText(s, i, "❌ User not found in this server!", true)
			return
		}

		action := &mod.Action{
			Kind:     kind,
			GuildID:  i.GuildID,
			Actor:    b.Actor(i.GuildID, i.Member),
			ActorTag: utils.UserTag(commands.Invoker(i)),
			TargetID: userOpt.UserValue(nil).ID,
			Reason:   commands.StringOption(opts, "reason"),
			Duration: commands.StringOption(opts, "duration"),
		}

		outcome, err := execute(b, action)
		if err != nil {
			commands.RespondText(s, i, ErrorMessage(kind, err), true)
			return
		}

		commands.RespondEmbed(s, i, outcome.Embed(b.Config.BotName), false)

		if outcome.AutoKickTriggered {
			if outcome.AutoKickErr != nil {
				commands.FollowUp(s, i, autoKickFailedMessage(outcome.MaxWarnings), nil, false)
			} else {
				commands.FollowUp(s, i, "", outcome.AutoKickEmbed(), false)
			}
		}
	}
}

var errUsage = errors.Sentinel("usage")

// prefixArgs are the parsed arguments of "!<kind> <@user> [duration] [reason...]"
type prefixArgs struct {
	TargetID string
	Duration string
	Reason   string
}

func parsePrefixArgs(kind mod.ActionKind, args []string) (prefixArgs, error) {
	var p prefixArgs
	if len(args) < 2 {
		return p, errUsage
	}

	targetID, err := utils.ExtractUserID(args[1])
	if err != nil {
		return p, errors.WithMessage(errUsage, err.Error())
	}
	p.TargetID = targetID

	rest := args[2:]
	if kind == mod.ActionMute && len(rest) > 0 && startsWithDigit(rest[0]) {
		p.Duration = rest[0]
		rest = rest[1:]
	}
	p.Reason = strings.Join(rest, " ")

	return p, nil
}

func startsWithDigit(s string) bool {
	return s != "" && unicode.IsDigit(rune(s[0]))
}

func prefixUsage(kind mod.ActionKind, prefix string) string {
	if kind == mod.ActionMute {
		return "Usage: " + prefix + "mute <@user> [duration] [reason]"
	}
	return "Usage: " + prefix + kind.String() + " <@user> [reason]"
}

// prefixAction builds the "!ban @user reason" style counterpart of slashAction
func prefixAction(kind mod.ActionKind) commands.CommandFunc {
	return func(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
		if m.GuildID == "" || m.Member == nil {
			commands.Reply(s, m, guildOnly)
			return
		}

		p, err := parsePrefixArgs(kind, args)
		if err != nil {
			commands.Reply(s, m, prefixUsage(kind, b.Config.Prefix))
			return
		}

		outcome, err := execute(b, &mod.Action{
			Kind:     kind,
			GuildID:  m.GuildID,
			Actor:    commands.MessageActor(b, m),
			ActorTag: utils.UserTag(m.Author),
			TargetID: p.TargetID,
			Reason:   p.Reason,
			Duration: p.Duration,
		})
		if err != nil {
			commands.Reply(s, m, ErrorMessage(kind, err))
			return
		}

		commands.ReplyEmbed(s, m, outcome.Embed(b.Config.BotName))

		if outcome.AutoKickTriggered {
			if outcome.AutoKickErr != nil {
				commands.Reply(s, m, autoKickFailedMessage(outcome.MaxWarnings))
			} else {
				commands.ReplyEmbed(s, m, outcome.AutoKickEmbed())
			}
		}
	}
}
