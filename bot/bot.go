package bot

import (
	"context"
	"sort"
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/config"
	"github.com/GTANeijasAcc/GTANBot/moderation"
	"github.com/GTANeijasAcc/GTANBot/presence"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
)

var logger = utils.GetLogger("bot")

// Bot owns the session and every process scoped component. Everything is
// created in NewBot and torn down in Close.
type Bot struct {
	Client *discordgo.Session
	Config *config.Config

	Platform  *moderation.DiscordPlatform
	Ledger    moderation.WarningStore
	ModLog    *moderation.ModLog
	MuteRoles *moderation.MuteRoles
	Scheduler *moderation.Scheduler
	Executor  *moderation.Executor
	Presence  *presence.Manager
	Limiter   *utils.RateLimiter
	Logs      *utils.RecentLogsHook

	StartedAt time.Time

	stopSweep chan struct{}
}

func NewBot(ctx context.Context, cfg *config.Config, logs *utils.RecentLogsHook) (*Bot, error) {
	client, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, errors.Wrap(err, "create session")
	}
	client.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildMembers |
		discordgo.IntentGuildModeration
	client.StateEnabled = true

	var ledger moderation.WarningStore
	if cfg.DatabaseURL != "" {
		ledger, err = moderation.OpenPostgresLedger(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Storing warnings in postgres")
	} else {
		ledger = moderation.NewMemoryLedger()
		logger.Warn("DATABASE_URL not set, warnings are kept in memory and lost on restart")
	}

	platform := moderation.NewDiscordPlatform(client)
	modlog := moderation.NewModLog(platform, cfg.Moderation.LogChannelName)
	muteRoles := moderation.NewMuteRoles(platform, cfg.Moderation.MuteRoleName)
	scheduler := moderation.NewScheduler(platform, modlog)

	executor := moderation.NewExecutor(platform, ledger, scheduler, muteRoles, modlog, moderation.Config{
		AllowedRoles:   cfg.Moderation.RequiredRoleIDs,
		LogChannelName: cfg.Moderation.LogChannelName,
		MuteRoleName:   cfg.Moderation.MuteRoleName,
		MaxWarnings:    cfg.Moderation.MaxWarnings,
		BotName:        cfg.BotName,
	})

	b := &Bot{
		Client:    client,
		Config:    cfg,
		Platform:  platform,
		Ledger:    ledger,
		ModLog:    modlog,
		MuteRoles: muteRoles,
		Scheduler: scheduler,
		Executor:  executor,
		Presence:  presence.New(cfg.Presence, client),
		Limiter:   utils.NewRateLimiter(5, 10*time.Second),
		Logs:      logs,
	}

	client.AddHandler(b.onReady)
	client.AddHandler(b.onGuildRoleDelete)
	client.AddHandler(b.onGuildDelete)

	return b, nil
}

// Open connects to the gateway.
func (b *Bot) Open() error {
	if err := b.Client.Open(); err != nil {
		return errors.Wrap(err, "open gateway connection")
	}
	b.StartedAt = time.Now()

	b.stopSweep = make(chan struct{})
	go b.sweepLimiter(b.stopSweep)
	return nil
}

// Close tears down everything NewBot and Open started.
func (b *Bot) Close() {
	if b.stopSweep != nil {
		close(b.stopSweep)
		b.stopSweep = nil
	}

	b.Presence.Stop()
	b.Scheduler.Stop()

	if err := b.Client.Close(); err != nil {
		logger.WithError(err).Error("Failed closing gateway connection")
	}
	if err := b.Ledger.Close(); err != nil {
		logger.WithError(err).Error("Failed closing warning ledger")
	}
}

func (b *Bot) sweepLimiter(stop chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.Limiter.Sweep()
		case <-stop:
			return
		}
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Infof("%s is now online, serving %d servers", utils.UserTag(r.User), len(r.Guilds))
}

func (b *Bot) onGuildRoleDelete(s *discordgo.Session, r *discordgo.GuildRoleDelete) {
	b.MuteRoles.ForgetRole(r.GuildID, r.RoleID)
}

func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	b.MuteRoles.Forget(g.ID)
}

// Guild returns the guild from state, falling back to the API.
func (b *Bot) Guild(guildID string) (*discordgo.Guild, error) {
	if g, err := b.Client.State.Guild(guildID); err == nil {
		return g, nil
	}
	return b.Client.Guild(guildID)
}

// Actor builds the permission gate view of an invoking member.
func (b *Bot) Actor(guildID string, member *discordgo.Member) *utils.Actor {
	if member == nil {
		return nil
	}

	g, err := b.Guild(guildID)
	if err != nil {
		logger.WithError(err).WithField("guild", guildID).Error("Failed fetching guild for permission check")
		return nil
	}
	return utils.ActorFromMember(g, member)
}

// Stats is the bot summary shown on the dashboard.
type Stats struct {
	Username       string `json:"username"`
	Guilds         int    `json:"guilds"`
	Users          int    `json:"users"`
	Channels       int    `json:"channels"`
	Uptime         string `json:"uptime"`
	UptimeSeconds  int64  `json:"uptimeSeconds"`
	Ping           int64  `json:"ping"`
	PendingUnmutes int    `json:"pendingUnmutes"`
	Status         string `json:"status"`
}

func (b *Bot) Stats() Stats {
	stats := Stats{
		Status:         "offline",
		PendingUnmutes: len(b.Scheduler.Pending()),
	}

	if !b.StartedAt.IsZero() {
		uptime := time.Since(b.StartedAt).Truncate(time.Second)
		stats.Uptime = uptime.String()
		stats.UptimeSeconds = int64(uptime.Seconds())
	}

	s := b.Client
	if s.DataReady {
		stats.Status = "online"
	}
	stats.Ping = s.HeartbeatLatency().Milliseconds()

	if s.State == nil {
		return stats
	}
	if s.State.User != nil {
		stats.Username = utils.UserTag(s.State.User)
	}

	s.State.RLock()
	defer s.State.RUnlock()

	stats.Guilds = len(s.State.Guilds)
	for _, g := range s.State.Guilds {
		stats.Users += g.MemberCount
		stats.Channels += len(g.Channels)
	}
	return stats
}

// GuildInfo is a guild as listed on the dashboard.
type GuildInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"memberCount"`
	OwnerID     string    `json:"ownerId"`
	IconURL     string    `json:"iconURL,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (b *Bot) Guilds() []GuildInfo {
	s := b.Client
	if s.State == nil {
		return []GuildInfo{}
	}

	s.State.RLock()
	guilds := make([]GuildInfo, 0, len(s.State.Guilds))
	for _, g := range s.State.Guilds {
		created, _ := discordgo.SnowflakeTimestamp(g.ID)
		guilds = append(guilds, GuildInfo{
			ID:          g.ID,
			Name:        g.Name,
			MemberCount: g.MemberCount,
			OwnerID:     g.OwnerID,
			IconURL:     g.IconURL("128"),
			CreatedAt:   created,
		})
	}
	s.State.RUnlock()

	sort.Slice(guilds, func(i, j int) bool { return guilds[i].Name < guilds[j].Name })
	return guilds
}
