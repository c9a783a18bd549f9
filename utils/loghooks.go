package utils

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogEntry is a log line as served by the dashboard.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Package   string    `json:"package,omitempty"`
}

// RecentLogsHook keeps the last entries at info level or above in memory.
type RecentLogsHook struct {
	mu      sync.Mutex
	entries []LogEntry
	next    int
	full    bool
}

func NewRecentLogsHook(size int) *RecentLogsHook {
	if size < 1 {
		size = 100
	}
	return &RecentLogsHook{entries: make([]LogEntry, size)}
}

func (hook *RecentLogsHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel}
}

func (hook *RecentLogsHook) Fire(entry *logrus.Entry) error {
	pkg, _ := entry.Data["p"].(string)

	hook.mu.Lock()
	hook.entries[hook.next] = LogEntry{
		Timestamp: entry.Time,
		Level:     entry.Level.String(),
		Message:   entry.Message,
		Package:   pkg,
	}
	hook.next = (hook.next + 1) % len(hook.entries)
	if hook.next == 0 {
		hook.full = true
	}
	hook.mu.Unlock()
	return nil
}

// Entries returns the buffered entries, oldest first.
func (hook *RecentLogsHook) Entries() []LogEntry {
	hook.mu.Lock()
	defer hook.mu.Unlock()

	if !hook.full {
		return append([]LogEntry(nil), hook.entries[:hook.next]...)
	}

	out := make([]LogEntry, 0, len(hook.entries))
	out = append(out, hook.entries[hook.next:]...)
	out = append(out, hook.entries[:hook.next]...)
	return out
}
