package moderation

import (
	"sync"
	"time"

	"github.com/GTANeijasAcc/GTANBot/metrics"
)

// stopper is the part of *time.Timer the scheduler needs.
type stopper interface {
	Stop() bool
}

// AfterFunc matches time.AfterFunc. Tests replace it to fire timers by hand.
type AfterFunc func(d time.Duration, f func()) stopper

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// PendingUnmute is a scheduled mute reversal.
type PendingUnmute struct {
	GuildID string
	UserID  string
	Tag     string
	RoleID  string
	Due     time.Time
}

// Scheduler reverses timed mutes. Every Schedule call gets its own timer,
// earlier timers for the same member are not cancelled; the role re-check on
// fire makes redundant timers harmless.
type Scheduler struct {
	platform Platform
	modlog   *ModLog

	afterFunc AfterFunc
	now       func() time.Time

	mu      sync.Mutex
	nextID  int64
	pending map[int64]*scheduledUnmute
	stopped bool
}

type scheduledUnmute struct {
	PendingUnmute
	timer stopper
}

func NewScheduler(platform Platform, modlog *ModLog) *Scheduler {
	return &Scheduler{
		platform:  platform,
		modlog:    modlog,
		afterFunc: realAfterFunc,
		now:       time.Now,
		pending:   make(map[int64]*scheduledUnmute),
	}
}

// Schedule arranges for roleID to be removed from the member after d.
func (s *Scheduler) Schedule(guildID, userID, tag, roleID string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		logger.WithField("guild", guildID).WithField("user", userID).Warn("Scheduler stopped, not scheduling unmute")
		return
	}

	s.nextID++
	id := s.nextID
	entry := &scheduledUnmute{
		PendingUnmute: PendingUnmute{
			GuildID: guildID,
			UserID:  userID,
			Tag:     tag,
			RoleID:  roleID,
			Due:     s.now().Add(d),
		},
	}
	s.pending[id] = entry
	entry.timer = s.afterFunc(d, func() { s.fire(id) })

	metrics.PendingUnmutes.Inc()
	logger.WithField("guild", guildID).WithField("user", userID).WithField("in", d.String()).Debug("Scheduled unmute")
}

func (s *Scheduler) fire(id int64) {
	s.mu.Lock()
	entry, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	metrics.PendingUnmutes.Dec()

	l := logger.WithField("guild", entry.GuildID).WithField("user", entry.UserID)

	member, err := s.platform.Member(entry.GuildID, entry.UserID)
	if err != nil {
		l.WithError(err).Debug("Member gone, skipping unmute")
		return
	}

	if !member.HasRole(entry.RoleID) {
		l.Debug("Mute role already removed, skipping unmute")
		return
	}

	if err := s.platform.RemoveRole(entry.GuildID, entry.UserID, entry.RoleID, ExpiredReason); err != nil {
		l.WithError(err).Error("Failed removing expired mute")
		return
	}

	tag := member.Tag
	if tag == "" {
		tag = entry.Tag
	}
	s.modlog.Mirror(entry.GuildID, autoUnmuteEmbed(tag, s.now()))
	l.Info("Mute expired, member unmuted")
}

// Pending returns the unmutes that have not fired yet.
func (s *Scheduler) Pending() []PendingUnmute {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PendingUnmute, 0, len(s.pending))
	for _, e := range s.pending {
		out = append(out, e.PendingUnmute)
	}
	return out
}

// Stop cancels every pending timer. Schedule is a no-op afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id, e := range s.pending {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(s.pending, id)
		metrics.PendingUnmutes.Dec()
	}
}
