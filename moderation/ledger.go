package moderation

import (
	"context"
	"sync"
	"time"
)

// LedgerKey identifies the warning list of one member in one guild.
type LedgerKey struct {
	GuildID string
	UserID  string
}

func (k LedgerKey) String() string {
	return k.GuildID + "-" + k.UserID
}

// WarningRecord is immutable once stored. IDs are 1-based and sequential per key.
type WarningRecord struct {
	ID        int       `db:"warning_id" json:"id"`
	Reason    string    `db:"reason" json:"reason"`
	Moderator string    `db:"moderator" json:"moderator"`
	Timestamp time.Time `db:"created_at" json:"timestamp"`
	GuildID   string    `db:"guild_id" json:"guild_id"`
}

// WarningStore holds warnings per key in chronological order. Callers
// serialize read-modify-write sequences per key, see Executor.
type WarningStore interface {
	// Add assigns ID = current length + 1, appends and returns the stored record and the new length.
	Add(ctx context.Context, key LedgerKey, rec WarningRecord) (WarningRecord, int, error)
	Count(ctx context.Context, key LedgerKey) (int, error)
	List(ctx context.Context, key LedgerKey) ([]WarningRecord, error)
	// Clear removes the entry entirely.
	Clear(ctx context.Context, key LedgerKey) error
	Close() error
}

// MemoryLedger is the volatile store: everything is lost on restart.
type MemoryLedger struct {
	mu       sync.Mutex
	warnings map[LedgerKey][]WarningRecord
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		warnings: make(map[LedgerKey][]WarningRecord),
	}
}

var _ WarningStore = (*MemoryLedger)(nil)

func (l *MemoryLedger) Add(_ context.Context, key LedgerKey, rec WarningRecord) (WarningRecord, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.warnings[key]
	rec.ID = len(list) + 1
	list = append(list, rec)
	l.warnings[key] = list

	return rec, len(list), nil
}

func (l *MemoryLedger) Count(_ context.Context, key LedgerKey) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warnings[key]), nil
}

func (l *MemoryLedger) List(_ context.Context, key LedgerKey) ([]WarningRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.warnings[key]
	out := make([]WarningRecord, len(list))
	copy(out, list)
	return out, nil
}

func (l *MemoryLedger) Clear(_ context.Context, key LedgerKey) error {
	l.mu.Lock()
	delete(l.warnings, key)
	l.mu.Unlock()
	return nil
}

func (l *MemoryLedger) Close() error {
	return nil
}
