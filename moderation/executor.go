package moderation

import (
	"context"
	"fmt"
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/metrics"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// request carries one action through its handler.
type request struct {
	*Action
	target *Member

	duration   time.Duration
	muteRoleID string

	outcome *Outcome
}

// actionHandler implements one ActionKind.
type actionHandler interface {
	// capability is required of both the invoker and the bot.
	capability() int64
	// precheck runs the kind specific preconditions. It must not mutate anything.
	precheck(ctx context.Context, e *Executor, r *request) error
	apply(ctx context.Context, e *Executor, r *request) error
}

var handlers = map[ActionKind]actionHandler{
	ActionBan:    banHandler{},
	ActionKick:   kickHandler{},
	ActionMute:   muteHandler{},
	ActionWarn:   warnHandler{},
	ActionUnmute: unmuteHandler{},
}

// Executor runs moderation actions against a platform.
type Executor struct {
	platform  Platform
	ledger    WarningStore
	scheduler *Scheduler
	muteRoles *MuteRoles
	modlog    *ModLog
	cfg       Config

	warnLocks *utils.KeyLock[LedgerKey]
	now       func() time.Time
}

func NewExecutor(platform Platform, ledger WarningStore, scheduler *Scheduler, muteRoles *MuteRoles, modlog *ModLog, cfg Config) *Executor {
	return &Executor{
		platform:  platform,
		ledger:    ledger,
		scheduler: scheduler,
		muteRoles: muteRoles,
		modlog:    modlog,
		cfg:       cfg.withDefaults(),
		warnLocks: utils.NewKeyLock[LedgerKey](),
		now:       time.Now,
	}
}

func (e *Executor) Config() Config {
	return e.cfg
}

// Execute validates the action and performs it. Precondition failures are
// returned as a Rejection before any mutating call is made, failures of the
// mutating call itself as an *ExternalError.
func (e *Executor) Execute(ctx context.Context, a *Action) (*Outcome, error) {
	h, ok := handlers[a.Kind]
	if !ok {
		return nil, errors.Errorf("unknown action kind %s", a.Kind)
	}

	l := logger.WithField("guild", a.GuildID).WithField("action", a.Kind.String()).WithField("target", a.TargetID)

	outcome, err := e.execute(ctx, h, a)
	switch {
	case err == nil:
		metrics.ModerationActions.WithLabelValues(a.Kind.String(), "success").Inc()
		l.WithField("case", outcome.CaseID).Info("Moderation action executed")
	case isRejection(err):
		metrics.ModerationActions.WithLabelValues(a.Kind.String(), "rejected").Inc()
		l.WithError(err).Debug("Moderation action rejected")
	default:
		metrics.ModerationActions.WithLabelValues(a.Kind.String(), "failed").Inc()
		l.WithError(err).Error("Moderation action failed")
	}

	return outcome, err
}

func isRejection(err error) bool {
	_, ok := IsRejection(err)
	return ok
}

func (e *Executor) execute(ctx context.Context, h actionHandler, a *Action) (*Outcome, error) {
	if !utils.HasBaseAccess(a.Actor, e.cfg.AllowedRoles) {
		return nil, Unauthorized
	}

	capability := h.capability()
	if !utils.IsAuthorized(a.Actor, capability) {
		return nil, Forbidden
	}

	agentPerms, err := e.platform.AgentPermissions(a.GuildID)
	if err != nil {
		return nil, external("agent permissions", err)
	}
	if !utils.HasPermission(agentPerms, capability) {
		return nil, AgentLacksCapability
	}

	target, err := e.platform.Member(a.GuildID, a.TargetID)
	if err != nil || target == nil {
		return nil, TargetNotFound
	}

	if a.TargetID == a.Actor.ID {
		return nil, SelfTargetForbidden
	}

	if a.TargetID == e.platform.AgentID() {
		return nil, AgentTargetForbidden
	}

	r := &request{
		Action: a,
		target: target,
	}
	if err := h.precheck(ctx, e, r); err != nil {
		return nil, err
	}

	r.outcome = &Outcome{
		CaseID:      uuid.NewString(),
		Kind:        a.Kind,
		GuildID:     a.GuildID,
		TargetID:    a.TargetID,
		TargetTag:   target.Tag,
		Moderator:   a.ActorTag,
		Reason:      a.reason(),
		MaxWarnings: e.cfg.MaxWarnings,
		At:          e.now(),
	}

	if err := h.apply(ctx, e, r); err != nil {
		return nil, err
	}

	r.outcome.ModLog = e.modlog.Mirror(a.GuildID, r.outcome.Embed(e.cfg.BotName))
	if r.outcome.AutoKickTriggered && r.outcome.AutoKickErr == nil {
		e.modlog.Mirror(a.GuildID, r.outcome.AutoKickEmbed())
	}

	return r.outcome, nil
}

// notify sends a best effort DM. Failures are logged and reported in the result only.
func (e *Executor) notify(userID string, embed *discordgo.MessageEmbed) DeliveryResult {
	if err := e.platform.SendDM(userID, embed); err != nil {
		logger.WithError(err).WithField("user", userID).Warn("Failed sending punishment DM")
		metrics.SideEffects.WithLabelValues("dm", "failed").Inc()
		return DeliveryFailed
	}

	metrics.SideEffects.WithLabelValues("dm", "delivered").Inc()
	return Delivered
}

func (e *Executor) checkRemovable(r *request) error {
	removable, err := e.platform.Removable(r.GuildID, r.TargetID)
	if err != nil {
		return external("removable check", err)
	}
	if !removable {
		return TargetNotRemovable
	}
	return nil
}

// ListWarnings returns the recorded warnings of a member in chronological order.
func (e *Executor) ListWarnings(ctx context.Context, guildID, userID string) ([]WarningRecord, error) {
	return e.ledger.List(ctx, LedgerKey{GuildID: guildID, UserID: userID})
}

type banHandler struct{}

func (banHandler) capability() int64 { return discordgo.PermissionBanMembers }

func (banHandler) precheck(_ context.Context, e *Executor, r *request) error {
	return e.checkRemovable(r)
}

func (banHandler) apply(_ context.Context, e *Executor, r *request) error {
	dm := punishDM(ActionBan, e.platform.GuildName(r.GuildID), r.outcome.Reason, r.ActorTag, 0, 0)
	r.outcome.DM = e.notify(r.TargetID, dm)

	if err := e.platform.Ban(r.GuildID, r.TargetID, r.outcome.Reason, banDeleteMessageDays); err != nil {
		return external("ban", err)
	}
	return nil
}

type kickHandler struct{}

func (kickHandler) capability() int64 { return discordgo.PermissionKickMembers }

func (kickHandler) precheck(_ context.Context, e *Executor, r *request) error {
	return e.checkRemovable(r)
}

func (kickHandler) apply(_ context.Context, e *Executor, r *request) error {
	dm := punishDM(ActionKick, e.platform.GuildName(r.GuildID), r.outcome.Reason, r.ActorTag, 0, 0)
	r.outcome.DM = e.notify(r.TargetID, dm)

	if err := e.platform.Kick(r.GuildID, r.TargetID, r.outcome.Reason); err != nil {
		return external("kick", err)
	}
	return nil
}

type muteHandler struct{}

func (muteHandler) capability() int64 { return discordgo.PermissionManageRoles }

func (muteHandler) precheck(_ context.Context, e *Executor, r *request) error {
	roleID, ok, err := e.muteRoles.Lookup(r.GuildID)
	if err != nil {
		return external("mute role lookup", err)
	}
	if ok && r.target.HasRole(roleID) {
		return AlreadyMuted
	}
	r.muteRoleID = roleID

	if r.Duration != "" {
		d, err := utils.ParseDuration(r.Duration)
		if err != nil {
			return InvalidDuration
		}
		r.duration = d
	}
	return nil
}

func (muteHandler) apply(_ context.Context, e *Executor, r *request) error {
	roleID := r.muteRoleID
	if roleID == "" {
		var err error
		roleID, err = e.muteRoles.Ensure(r.GuildID)
		if err != nil {
			return err
		}
	}

	if err := e.platform.AddRole(r.GuildID, r.TargetID, roleID, r.outcome.Reason); err != nil {
		return external("add mute role", err)
	}

	r.outcome.Duration = r.duration
	r.outcome.DurationToken = r.Duration
	if r.duration > 0 {
		e.scheduler.Schedule(r.GuildID, r.TargetID, r.target.Tag, roleID, r.duration)
	}
	return nil
}

type unmuteHandler struct{}

func (unmuteHandler) capability() int64 { return discordgo.PermissionManageRoles }

func (unmuteHandler) precheck(_ context.Context, e *Executor, r *request) error {
	roleID, ok, err := e.muteRoles.Lookup(r.GuildID)
	if err != nil {
		return external("mute role lookup", err)
	}
	if !ok || !r.target.HasRole(roleID) {
		return NotMuted
	}
	r.muteRoleID = roleID
	return nil
}

func (unmuteHandler) apply(_ context.Context, e *Executor, r *request) error {
	if err := e.platform.RemoveRole(r.GuildID, r.TargetID, r.muteRoleID, r.outcome.Reason); err != nil {
		return external("remove mute role", err)
	}
	return nil
}

type warnHandler struct{}

func (warnHandler) capability() int64 { return discordgo.PermissionManageMessages }

func (warnHandler) precheck(context.Context, *Executor, *request) error {
	return nil
}

func (warnHandler) apply(ctx context.Context, e *Executor, r *request) error {
	key := LedgerKey{GuildID: r.GuildID, UserID: r.TargetID}

	handle := e.warnLocks.Lock(key, 10*time.Second, time.Minute)
	if handle == -1 {
		return external("warn", errors.New("timed out waiting for warning lock"))
	}
	defer e.warnLocks.Unlock(key, handle)

	rec, count, err := e.ledger.Add(ctx, key, WarningRecord{
		Reason:    r.outcome.Reason,
		Moderator: r.ActorTag,
		Timestamp: r.outcome.At,
		GuildID:   r.GuildID,
	})
	if err != nil {
		return external("record warning", err)
	}

	r.outcome.Warning = &rec
	r.outcome.WarningCount = count

	max := e.cfg.MaxWarnings
	dm := punishDM(ActionWarn, e.platform.GuildName(r.GuildID), r.outcome.Reason, r.ActorTag, count, max)
	r.outcome.DM = e.notify(r.TargetID, dm)

	if count < max {
		return nil
	}

	r.outcome.AutoKickTriggered = true
	if err := e.platform.Kick(r.GuildID, r.TargetID, fmt.Sprintf(AutoKickReason, max, max)); err != nil {
		r.outcome.AutoKickErr = external("auto kick", err)
		logger.WithError(err).WithField("guild", r.GuildID).WithField("user", r.TargetID).Error("Failed auto kicking after max warnings")
	}

	// Cleared whether or not the kick went through
	if err := e.ledger.Clear(ctx, key); err != nil {
		logger.WithError(err).WithField("guild", r.GuildID).WithField("user", r.TargetID).Error("Failed clearing warnings after auto kick")
	}
	return nil
}
