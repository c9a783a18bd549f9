package moderation

import (
	"fmt"
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
)

var logger = utils.GetLogger("moderation")

const (
	DefaultReason  = "No reason provided"
	AutoKickReason = "Reached maximum warnings (%d/%d)"
	ExpiredReason  = "Mute duration expired"

	banDeleteMessageDays = 7
)

// ActionKind tags a moderation action. Each kind has exactly one handler.
type ActionKind int

const (
	ActionBan ActionKind = iota
	ActionKick
	ActionMute
	ActionWarn
	ActionUnmute
)

func (k ActionKind) String() string {
	switch k {
	case ActionBan:
		return "ban"
	case ActionKick:
		return "kick"
	case ActionMute:
		return "mute"
	case ActionWarn:
		return "warn"
	case ActionUnmute:
		return "unmute"
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is a single moderation request as issued by an invoker.
type Action struct {
	Kind     ActionKind
	GuildID  string
	Actor    *utils.Actor
	ActorTag string
	TargetID string
	Reason   string

	// Duration is the raw token, Mute only. Empty means permanent.
	Duration string
}

func (a *Action) reason() string {
	if a.Reason == "" {
		return DefaultReason
	}
	return a.Reason
}

// Config tunes the executor. Zero values are replaced with the defaults.
type Config struct {
	AllowedRoles   []string
	LogChannelName string
	MuteRoleName   string
	MaxWarnings    int
	BotName        string
}

func (c Config) withDefaults() Config {
	if c.LogChannelName == "" {
		c.LogChannelName = "mod-logs"
	}
	if c.MuteRoleName == "" {
		c.MuteRoleName = "Muted"
	}
	if c.MaxWarnings < 1 {
		c.MaxWarnings = 3
	}
	if c.BotName == "" {
		c.BotName = "GTA Neijas Moderator"
	}
	return c
}

// Rejection is a precondition failure detected before any mutating call.
type Rejection int

const (
	Unauthorized Rejection = iota + 1
	Forbidden
	AgentLacksCapability
	TargetNotFound
	SelfTargetForbidden
	AgentTargetForbidden
	TargetNotRemovable
	AlreadyMuted
	InvalidDuration
	NotMuted
)

var rejectionText = map[Rejection]string{
	Unauthorized:         "actor lacks base access",
	Forbidden:            "actor lacks the required capability",
	AgentLacksCapability: "bot lacks the required capability",
	TargetNotFound:       "target is not a guild member",
	SelfTargetForbidden:  "actor targeted itself",
	AgentTargetForbidden: "actor targeted the bot",
	TargetNotRemovable:   "target is ranked too high to remove",
	AlreadyMuted:         "target is already muted",
	InvalidDuration:      "invalid duration",
	NotMuted:             "target is not muted",
}

func (r Rejection) Error() string {
	if s, ok := rejectionText[r]; ok {
		return s
	}
	return fmt.Sprintf("rejection %d", int(r))
}

// IsRejection reports whether err is one of the precondition rejections, and which.
func IsRejection(err error) (Rejection, bool) {
	var r Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return 0, false
}

// ExternalError is a failure reported by the chat platform during a mutating call.
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

func external(op string, err error) error {
	return &ExternalError{Op: op, Err: errors.WithStack(err)}
}

// DeliveryResult is the outcome of a best effort side effect.
type DeliveryResult int

const (
	DeliverySkipped DeliveryResult = iota
	Delivered
	DeliveryFailed
)

func (d DeliveryResult) String() string {
	switch d {
	case Delivered:
		return "delivered"
	case DeliveryFailed:
		return "failed"
	}
	return "skipped"
}

// Outcome describes a successful action.
type Outcome struct {
	CaseID    string
	Kind      ActionKind
	GuildID   string
	TargetID  string
	TargetTag string
	Moderator string
	Reason    string

	Duration      time.Duration
	DurationToken string

	Warning      *WarningRecord
	WarningCount int
	MaxWarnings  int

	// AutoKickTriggered is set when a warning reached the threshold.
	AutoKickTriggered bool
	AutoKickErr       error

	DM     DeliveryResult
	ModLog DeliveryResult

	At time.Time
}

// Member is a guild member as reported by the platform.
type Member struct {
	utils.Actor
	Tag string
}

// Platform is everything the executor needs from the chat platform. The
// discordgo implementation lives in discord.go.
type Platform interface {
	AgentID() string
	AgentPermissions(guildID string) (int64, error)
	GuildName(guildID string) string

	// Member fails when the user is not part of the guild.
	Member(guildID, userID string) (*Member, error)
	// Removable is the platform's advisory on whether the bot outranks the member.
	Removable(guildID, userID string) (bool, error)

	SendDM(userID string, embed *discordgo.MessageEmbed) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
	FindChannel(guildID, name string) (string, bool)

	Ban(guildID, userID, reason string, deleteDays int) error
	Kick(guildID, userID, reason string) error
	AddRole(guildID, userID, roleID, reason string) error
	RemoveRole(guildID, userID, roleID, reason string) error

	FindRole(guildID, name string) (string, bool, error)
	CreateRole(guildID, name string, color int) (string, error)
	Channels(guildID string) ([]string, error)
	DenyChannel(channelID, roleID string, deny int64) error
}
