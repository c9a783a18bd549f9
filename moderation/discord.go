package moderation

import (
	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
)

// ErrMemberWithoutUser is returned for member payloads that carry no user.
const ErrMemberWithoutUser = errors.Sentinel("member has no user")

// DiscordPlatform implements Platform on a discordgo session. Guilds and
// members are read from the state cache first and fetched over REST otherwise.
type DiscordPlatform struct {
	s *discordgo.Session
}

var _ Platform = (*DiscordPlatform)(nil)

func NewDiscordPlatform(s *discordgo.Session) *DiscordPlatform {
	return &DiscordPlatform{s: s}
}

func (d *DiscordPlatform) AgentID() string {
	if d.s.State == nil || d.s.State.User == nil {
		return ""
	}
	return d.s.State.User.ID
}

func (d *DiscordPlatform) guild(guildID string) (*discordgo.Guild, error) {
	if g, err := d.s.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		return g, nil
	}
	return d.s.Guild(guildID)
}

func (d *DiscordPlatform) member(guildID, userID string) (*discordgo.Member, error) {
	if m, err := d.s.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	return d.s.GuildMember(guildID, userID)
}

func (d *DiscordPlatform) AgentPermissions(guildID string) (int64, error) {
	g, err := d.guild(guildID)
	if err != nil {
		return 0, err
	}
	m, err := d.member(guildID, d.AgentID())
	if err != nil {
		return 0, err
	}
	return utils.MemberPermissions(g, m), nil
}

func (d *DiscordPlatform) GuildName(guildID string) string {
	g, err := d.guild(guildID)
	if err != nil {
		return "the server"
	}
	return g.Name
}

func (d *DiscordPlatform) Member(guildID, userID string) (*Member, error) {
	g, err := d.guild(guildID)
	if err != nil {
		return nil, err
	}
	m, err := d.member(guildID, userID)
	if err != nil {
		return nil, err
	}
	if m.GuildID == "" {
		m.GuildID = guildID
	}

	actor := utils.ActorFromMember(g, m)
	if actor == nil {
		return nil, errors.WithDetails(ErrMemberWithoutUser, "guild", guildID, "user", userID)
	}

	return &Member{
		Actor: *actor,
		Tag:   utils.UserTag(m.User),
	}, nil
}

// Removable mirrors the client side hierarchy check: the bot's highest role
// must be above the target's and the target can't own the guild.
func (d *DiscordPlatform) Removable(guildID, userID string) (bool, error) {
	g, err := d.guild(guildID)
	if err != nil {
		return false, err
	}
	if g.OwnerID == userID {
		return false, nil
	}

	target, err := d.member(guildID, userID)
	if err != nil {
		return false, err
	}
	agent, err := d.member(guildID, d.AgentID())
	if err != nil {
		return false, err
	}

	return position(utils.GetHighestRole(agent, g.Roles)) > position(utils.GetHighestRole(target, g.Roles)), nil
}

func position(r *discordgo.Role) int {
	if r == nil {
		return 0
	}
	return r.Position
}

func (d *DiscordPlatform) SendDM(userID string, embed *discordgo.MessageEmbed) error {
	channel, err := d.s.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = d.s.ChannelMessageSendEmbed(channel.ID, embed)
	return err
}

func (d *DiscordPlatform) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := d.s.ChannelMessageSendEmbed(channelID, embed)
	return err
}

func (d *DiscordPlatform) FindChannel(guildID, name string) (string, bool) {
	var channels []*discordgo.Channel
	if g, err := d.s.State.Guild(guildID); err == nil && len(g.Channels) > 0 {
		channels = g.Channels
	} else if fetched, err := d.s.GuildChannels(guildID); err == nil {
		channels = fetched
	}

	for _, c := range channels {
		if c.Name == name && c.Type == discordgo.ChannelTypeGuildText {
			return c.ID, true
		}
	}
	return "", false
}

func (d *DiscordPlatform) Ban(guildID, userID, reason string, deleteDays int) error {
	return d.s.GuildBanCreateWithReason(guildID, userID, reason, deleteDays)
}

func (d *DiscordPlatform) Kick(guildID, userID, reason string) error {
	return d.s.GuildMemberDeleteWithReason(guildID, userID, reason)
}

func (d *DiscordPlatform) AddRole(guildID, userID, roleID, reason string) error {
	return d.s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
}

func (d *DiscordPlatform) RemoveRole(guildID, userID, roleID, reason string) error {
	return d.s.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
}

func (d *DiscordPlatform) FindRole(guildID, name string) (string, bool, error) {
	roles, err := d.s.GuildRoles(guildID)
	if err != nil {
		return "", false, err
	}
	for _, r := range roles {
		if r.Name == name {
			return r.ID, true, nil
		}
	}
	return "", false, nil
}

func (d *DiscordPlatform) CreateRole(guildID, name string, color int) (string, error) {
	perms := int64(0)
	role, err := d.s.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        name,
		Color:       &color,
		Permissions: &perms,
	}, discordgo.WithAuditLogReason("Mute role for moderation"))
	if err != nil {
		return "", err
	}
	return role.ID, nil
}

func (d *DiscordPlatform) Channels(guildID string) ([]string, error) {
	channels, err := d.s.GuildChannels(guildID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(channels))
	for _, c := range channels {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (d *DiscordPlatform) DenyChannel(channelID, roleID string, deny int64) error {
	return d.s.ChannelPermissionSet(channelID, roleID, discordgo.PermissionOverwriteTypeRole, 0, deny)
}
