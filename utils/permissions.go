package utils

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// DefaultRequiredRoleIDs are the roles that grant base access to the bot
// when no allow-list is configured.
var DefaultRequiredRoleIDs = []string{
	"1375903718201102399",
	"1370607611598340096",
	"1370607847896780931",
	"1370607445709160499",
}

// Actor is a guild member as seen by the permission gate. It is built per
// invocation from platform data and never stored.
type Actor struct {
	ID          string
	Owner       bool
	Permissions int64
	Roles       []string

	// HighestPosition is the position of the member's highest role, 0 for @everyone only.
	HighestPosition int
}

// HasRole reports whether the actor holds roleID.
func (a *Actor) HasRole(roleID string) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// HasPermission checks a permission bitset for capability, treating administrator as all permissions.
func HasPermission(perms, capability int64) bool {
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&capability == capability
}

// IsAuthorized decides whether actor may use an action requiring capability.
func IsAuthorized(actor *Actor, capability int64) bool {
	if actor == nil {
		return false
	}

	// Server owner always has permissions
	if actor.Owner {
		return true
	}

	if actor.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}

	return capability != 0 && actor.Permissions&capability == capability
}

// HasBaseAccess is the coarse gate evaluated before every command: owners,
// administrators and holders of any allow-listed role pass.
func HasBaseAccess(actor *Actor, allowed []string) bool {
	if actor == nil {
		return false
	}

	if actor.Owner || actor.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}

	for _, roleID := range allowed {
		if actor.HasRole(roleID) {
			return true
		}
	}
	return false
}

// CanModerate compares the role hierarchy of two members. The moderation
// actions rely on the platform's removable advisory instead, see DESIGN.md.
func CanModerate(moderator, target *Actor) bool {
	if moderator == nil || target == nil {
		return false
	}

	// Can't moderate yourself
	if moderator.ID == target.ID {
		return false
	}

	if moderator.Owner {
		return true
	}

	// Nobody touches the owner
	if target.Owner {
		return false
	}

	return moderator.HighestPosition > target.HighestPosition
}

var permissionNames = map[int64]string{
	discordgo.PermissionAdministrator:    "ADMINISTRATOR",
	discordgo.PermissionKickMembers:      "KICK_MEMBERS",
	discordgo.PermissionBanMembers:       "BAN_MEMBERS",
	discordgo.PermissionManageRoles:      "MANAGE_ROLES",
	discordgo.PermissionManageMessages:   "MANAGE_MESSAGES",
	discordgo.PermissionManageChannels:   "MANAGE_CHANNELS",
	discordgo.PermissionSendMessages:     "SEND_MESSAGES",
	discordgo.PermissionAttachFiles:      "ATTACH_FILES",
	discordgo.PermissionAddReactions:     "ADD_REACTIONS",
	discordgo.PermissionVoiceSpeak:       "SPEAK",
	discordgo.PermissionVoiceMuteMembers: "MUTE_MEMBERS",
}

// PermissionName returns the upper snake case name of a single permission bit.
func PermissionName(perm int64) string {
	if name, ok := permissionNames[perm]; ok {
		return name
	}
	return "UNKNOWN_PERMISSION"
}

// MissingPermissions lists the names of the required permissions the actor lacks.
// Owners and administrators never miss anything.
func MissingPermissions(actor *Actor, required []int64) []string {
	if actor == nil {
		return []string{"Member not found"}
	}

	if actor.Owner || actor.Permissions&discordgo.PermissionAdministrator != 0 {
		return []string{}
	}

	missing := []string{}
	for _, perm := range required {
		if actor.Permissions&perm != perm {
			missing = append(missing, PermissionName(perm))
		}
	}
	return missing
}

// FormatPermissions turns ["BAN_MEMBERS", "MANAGE_ROLES"] into "Ban Members, Manage Roles".
func FormatPermissions(perms []string) string {
	if len(perms) == 0 {
		return "None"
	}

	formatted := make([]string, 0, len(perms))
	for _, p := range perms {
		words := strings.Split(strings.ToLower(p), "_")
		for i, w := range words {
			if w == "" {
				continue
			}
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
		formatted = append(formatted, strings.Join(words, " "))
	}
	return strings.Join(formatted, ", ")
}

// MemberPermissions computes the guild level permission bitset of a member from its roles,
// including the @everyone role.
func MemberPermissions(guild *discordgo.Guild, member *discordgo.Member) int64 {
	if guild == nil || member == nil {
		return 0
	}

	if member.User != nil && guild.OwnerID == member.User.ID {
		return discordgo.PermissionAll
	}

	var perms int64
	for _, role := range guild.Roles {
		if role.ID == guild.ID {
			perms |= role.Permissions
			continue
		}
		for _, roleID := range member.Roles {
			if role.ID == roleID {
				perms |= role.Permissions
				break
			}
		}
	}

	if perms&discordgo.PermissionAdministrator != 0 {
		perms = discordgo.PermissionAll
	}
	return perms
}

// ActorFromMember builds an Actor. Permissions supplied by an interaction payload
// take precedence over ones computed from the guild roles.
func ActorFromMember(guild *discordgo.Guild, member *discordgo.Member) *Actor {
	if member == nil || member.User == nil {
		return nil
	}

	perms := member.Permissions
	if perms == 0 {
		perms = MemberPermissions(guild, member)
	}

	actor := &Actor{
		ID:          member.User.ID,
		Permissions: perms,
		Roles:       append([]string(nil), member.Roles...),
	}

	if guild != nil {
		actor.Owner = guild.OwnerID == member.User.ID
		if highest := GetHighestRole(member, guild.Roles); highest != nil {
			actor.HighestPosition = highest.Position
		}
	}

	return actor
}
