package utils

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationMillis(t *testing.T) {
	valid := map[string]int64{
		"5m":  300000,
		"2h":  7200000,
		"1d":  86400000,
		"10m": 600000,
		"0m":  0,
		"07h": 25200000,
	}
	for token, want := range valid {
		got, err := ParseDurationMillis(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got, token)
	}

	invalid := []string{"", "m", "5", "5s", "1h30m", " 5m", "5m ", "-5m", "5 m", "+5m", "5M", "99999999999999999999d"}
	for _, token := range invalid {
		_, err := ParseDurationMillis(token)
		assert.ErrorIs(t, err, ErrInvalidDuration, token)
	}
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("10m")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, d)

	_, err = ParseDuration("1h30m")
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestExtractUserID(t *testing.T) {
	id, err := ExtractUserID("<@!123456789012345678>")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", id)

	id, err = ExtractUserID("123456789012345678")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", id)

	_, err = ExtractUserID("<@abc>")
	assert.Error(t, err)
	_, err = ExtractUserID("<@123")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,"))
	assert.Nil(t, SplitList(""))
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("u", "ping"))
	assert.True(t, rl.Allow("u", "ping"))
	assert.False(t, rl.Allow("u", "ping"))
	assert.True(t, rl.Allow("u", "other"))
	assert.Equal(t, time.Minute, rl.RetryAfter("u", "ping"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("u", "ping"))

	now = now.Add(2 * time.Minute)
	rl.Sweep()
	assert.Empty(t, rl.limits)
}

func TestKeyLock(t *testing.T) {
	kl := NewKeyLock[string]()

	h := kl.Lock("a", time.Second, time.Minute)
	require.NotEqual(t, int64(-1), h)

	// held by someone else
	assert.Equal(t, int64(-1), kl.Lock("a", 50*time.Millisecond, time.Minute))

	// independent keys don't block
	h2 := kl.Lock("b", time.Second, time.Minute)
	assert.NotEqual(t, int64(-1), h2)

	// stale handle does nothing
	kl.Unlock("a", h+100)
	assert.Equal(t, int64(-1), kl.Lock("a", 0, time.Minute))

	kl.Unlock("a", h)
	assert.NotEqual(t, int64(-1), kl.Lock("a", 0, time.Minute))
}

func TestRecentLogsHook(t *testing.T) {
	hook := NewRecentLogsHook(3)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(hook)

	logger.Debug("dropped")
	assert.Empty(t, hook.Entries())

	for _, msg := range []string{"one", "two", "three", "four"} {
		logger.WithField("p", "test").Info(msg)
	}

	entries := hook.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "two", entries[0].Message)
	assert.Equal(t, "four", entries[2].Message)
	assert.Equal(t, "test", entries[2].Package)
	assert.Equal(t, "info", entries[2].Level)
}
