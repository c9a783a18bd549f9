package moderation

import (
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/metrics"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
	"github.com/patrickmn/go-cache"
	"github.com/sourcegraph/conc/pool"
)

const (
	MuteRoleColor = 0x818181

	// MuteDeny is the override applied to the mute role on every channel.
	MuteDeny = discordgo.PermissionSendMessages | discordgo.PermissionVoiceSpeak | discordgo.PermissionAddReactions

	overrideWorkers = 5
)

// MuteRoles resolves and lazily provisions the mute role per guild. One
// instance lives for the lifetime of the bot.
type MuteRoles struct {
	platform Platform
	name     string
	cache    *cache.Cache
	locks    *utils.KeyLock[string]
}

func NewMuteRoles(platform Platform, roleName string) *MuteRoles {
	return &MuteRoles{
		platform: platform,
		name:     roleName,
		cache:    cache.New(time.Hour, 10*time.Minute),
		locks:    utils.NewKeyLock[string](),
	}
}

// Lookup returns the existing mute role of the guild without creating one.
func (m *MuteRoles) Lookup(guildID string) (string, bool, error) {
	if v, ok := m.cache.Get(guildID); ok {
		return v.(string), true, nil
	}

	roleID, ok, err := m.platform.FindRole(guildID, m.name)
	if err != nil {
		return "", false, errors.WithMessage(err, "find mute role")
	}
	if ok {
		m.cache.SetDefault(guildID, roleID)
	}
	return roleID, ok, nil
}

// Ensure returns the mute role, creating it and denying send/speak/react on
// every channel when the guild has none. Channel failures are logged only and
// the role is kept even if some overrides could not be applied.
func (m *MuteRoles) Ensure(guildID string) (string, error) {
	handle := m.locks.Lock(guildID, time.Minute, time.Minute)
	if handle == -1 {
		return "", errors.New("timed out waiting for mute role lock")
	}
	defer m.locks.Unlock(guildID, handle)

	if roleID, ok, err := m.Lookup(guildID); err != nil || ok {
		return roleID, err
	}

	roleID, err := m.platform.CreateRole(guildID, m.name, MuteRoleColor)
	if err != nil {
		return "", external("create mute role", err)
	}
	logger.WithField("guild", guildID).WithField("role", roleID).Info("Created mute role")

	channels, err := m.platform.Channels(guildID)
	if err != nil {
		logger.WithError(err).WithField("guild", guildID).Error("Failed listing channels for mute role overrides")
	}

	p := pool.New().WithMaxGoroutines(overrideWorkers)
	for _, channelID := range channels {
		channelID := channelID
		p.Go(func() {
			if err := m.platform.DenyChannel(channelID, roleID, MuteDeny); err != nil {
				logger.WithError(err).WithField("channel", channelID).Warn("Failed applying mute override")
				metrics.SideEffects.WithLabelValues("mute_override", "failed").Inc()
			}
		})
	}
	p.Wait()

	m.cache.SetDefault(guildID, roleID)
	return roleID, nil
}

// Forget drops the cached role of a guild the bot left.
func (m *MuteRoles) Forget(guildID string) {
	m.cache.Delete(guildID)
}

// ForgetRole drops the cached role of guildID only if it is roleID.
func (m *MuteRoles) ForgetRole(guildID, roleID string) {
	if v, ok := m.cache.Get(guildID); ok && v.(string) == roleID {
		m.cache.Delete(guildID)
	}
}
