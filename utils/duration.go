package utils

import (
	"math"
	"strconv"
	"time"

	"emperror.dev/errors"
)

// ErrInvalidDuration is returned for tokens that are not a number followed by m, h or d.
var ErrInvalidDuration = errors.New("invalid duration format, use a number followed by m, h or d (e.g. 5m, 2h, 1d)")

var durationUnits = map[byte]int64{
	'm': 60 * 1000,
	'h': 60 * 60 * 1000,
	'd': 24 * 60 * 60 * 1000,
}

// ParseDurationMillis parses tokens like 5m, 2h or 1d into milliseconds.
// Compound durations and whitespace are rejected.
func ParseDurationMillis(token string) (int64, error) {
	if len(token) < 2 {
		return 0, ErrInvalidDuration
	}

	unit, ok := durationUnits[token[len(token)-1]]
	if !ok {
		return 0, ErrInvalidDuration
	}

	digits := token[:len(token)-1]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, ErrInvalidDuration
		}
	}

	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, ErrInvalidDuration
	}

	if amount > math.MaxInt64/unit {
		return 0, ErrInvalidDuration
	}

	return amount * unit, nil
}

// ParseDuration is ParseDurationMillis as a time.Duration.
func ParseDuration(token string) (time.Duration, error) {
	ms, err := ParseDurationMillis(token)
	if err != nil {
		return 0, err
	}

	if ms > math.MaxInt64/int64(time.Millisecond) {
		return 0, ErrInvalidDuration
	}

	return time.Duration(ms) * time.Millisecond, nil
}
