package moderation

import (
	"fmt"

	"github.com/GTANeijasAcc/GTANBot/commands"
	mod "github.com/GTANeijasAcc/GTANBot/moderation"
)

const guildOnly = "❌ This command can only be used in a server!"

// botCapability names what the bot needs for each kind, as shown to users.
var botCapability = map[mod.ActionKind]string{
	mod.ActionBan:    "ban members",
	mod.ActionKick:   "kick members",
	mod.ActionMute:   "manage roles",
	mod.ActionUnmute: "manage roles",
	mod.ActionWarn:   "manage messages",
}

// RejectionMessage is the ephemeral reply for a rejected action
func RejectionMessage(kind mod.ActionKind, r mod.Rejection) string {
	verb := kind.String()

	switch r {
	case mod.Unauthorized:
		return commands.NoAccessMessage
	case mod.Forbidden:
		return fmt.Sprintf("❌ You do not have permission to %s members!", verb)
	case mod.AgentLacksCapability:
		return fmt.Sprintf("❌ I do not have permission to %s!", botCapability[kind])
	case mod.TargetNotFound:
		return "❌ User not found in this server!"
	case mod.SelfTargetForbidden:
		return fmt.Sprintf("❌ You cannot %s yourself!", verb)
	case mod.AgentTargetForbidden:
		if kind == mod.ActionWarn {
			return "❌ You cannot warn me!"
		}
		return fmt.Sprintf("❌ I cannot %s myself!", verb)
	case mod.TargetNotRemovable:
		return fmt.Sprintf("❌ I cannot %s this member! They may have higher permissions than me.", verb)
	case mod.AlreadyMuted:
		return "❌ This member is already muted!"
	case mod.InvalidDuration:
		return "❌ Invalid duration format! Use format like: 5m, 2h, 1d"
	case mod.NotMuted:
		return "❌ This member is not muted!"
	}
	return failureMessage(kind)
}

func failureMessage(kind mod.ActionKind) string {
	return fmt.Sprintf("❌ An error occurred while trying to %s this member!", kind)
}

// ErrorMessage maps any error returned by the executor to its user message
func ErrorMessage(kind mod.ActionKind, err error) string {
	if r, ok := mod.IsRejection(err); ok {
		return RejectionMessage(kind, r)
	}
	return failureMessage(kind)
}

func autoKickFailedMessage(max int) string {
	return fmt.Sprintf("⚠️ User reached %d warnings but could not be auto-kicked!", max)
}
