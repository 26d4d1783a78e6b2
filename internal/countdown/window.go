package countdown

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultWindow is how long after creation an order may still be cancelled.
	DefaultWindow = 3 * time.Minute

	// TickInterval is the cadence at which a mounted control recomputes its
	// remaining time.
	TickInterval = time.Second
)

var ErrEmptyTimestamp = errors.New("countdown: empty timestamp")

// Deadline returns the instant after which the window is closed.
func Deadline(createdAt time.Time, window time.Duration) time.Time {
	return createdAt.Add(window)
}

// Remaining returns deadline - now, clamped to zero once the deadline passed.
func Remaining(deadline, now time.Time) time.Duration {
	left := deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Open reports whether the window that started at createdAt is still open at now.
func Open(createdAt time.Time, window time.Duration, now time.Time) bool {
	return Remaining(Deadline(createdAt, window), now) > 0
}

// FormatRemaining renders d as M:SS. Minutes are unbounded.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%d:%02d", ms/60000, (ms%60000)/1000)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// ParseCreatedAt parses an ISO-8601 creation timestamp. Timestamps without a
// zone are read as UTC.
func ParseCreatedAt(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmptyTimestamp
	}
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("countdown: parse timestamp %q: %w", value, firstErr)
}
