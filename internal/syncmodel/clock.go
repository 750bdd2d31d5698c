package syncmodel

import (
	"time"
)

// Tick is a position or duration expressed in SyncPlay ticks: 100ns units,
// 10,000,000 per second, matching the wire format.
type Tick int64

const (
	// TicksPerSecond is the number of ticks in one second.
	TicksPerSecond Tick = 10_000_000
	// TicksPerMillisecond is the number of ticks in one millisecond.
	TicksPerMillisecond Tick = TicksPerSecond / 1000
)

// Duration converts a tick count to a time.Duration.
func (t Tick) Duration() time.Duration {
	return time.Duration(t) * 100 * time.Nanosecond
}

// TicksFromDuration converts a time.Duration to a Tick count.
func TicksFromDuration(d time.Duration) Tick {
	return Tick(d / (100 * time.Nanosecond))
}

// Millis returns the tick count as whole milliseconds.
func (t Tick) Millis() int64 {
	return int64(t / TicksPerMillisecond)
}

// TicksFromMillis converts a millisecond count to ticks.
func TicksFromMillis(ms int64) Tick {
	return Tick(ms) * TicksPerMillisecond
}

// RemoteTime is an instant on the server's logical clock. It is distinct
// from LocalTime so a value can never be compared or subtracted across
// clocks without an explicit conversion through TimeSync.
type RemoteTime time.Time

// LocalTime is an instant on the local wall clock.
type LocalTime time.Time

// Sub returns the duration between two remote instants.
func (r RemoteTime) Sub(other RemoteTime) time.Duration {
	return time.Time(r).Sub(time.Time(other))
}

// Add returns the remote instant offset by d.
func (r RemoteTime) Add(d time.Duration) RemoteTime {
	return RemoteTime(time.Time(r).Add(d))
}

// Before reports whether r is strictly before other.
func (r RemoteTime) Before(other RemoteTime) bool {
	return time.Time(r).Before(time.Time(other))
}

// After reports whether r is strictly after other.
func (r RemoteTime) After(other RemoteTime) bool {
	return time.Time(r).After(time.Time(other))
}

// IsZero reports whether r is the zero RemoteTime.
func (r RemoteTime) IsZero() bool {
	return time.Time(r).IsZero()
}

// String renders r as RFC3339 (the wire format for instants).
func (r RemoteTime) String() string {
	return time.Time(r).UTC().Format(time.RFC3339Nano)
}

// MarshalJSON encodes r as an ISO-8601 UTC string.
func (r RemoteTime) MarshalJSON() ([]byte, error) {
	return time.Time(r).UTC().MarshalJSON()
}

// UnmarshalJSON decodes an ISO-8601 UTC string into r.
func (r *RemoteTime) UnmarshalJSON(data []byte) error {
	var t time.Time
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = RemoteTime(t)
	return nil
}

func (l LocalTime) Sub(other LocalTime) time.Duration {
	return time.Time(l).Sub(time.Time(other))
}

func (l LocalTime) Add(d time.Duration) LocalTime {
	return LocalTime(time.Time(l).Add(d))
}

func (l LocalTime) Before(other LocalTime) bool {
	return time.Time(l).Before(time.Time(other))
}

func (l LocalTime) After(other LocalTime) bool {
	return time.Time(l).After(time.Time(other))
}

func (l LocalTime) IsZero() bool {
	return time.Time(l).IsZero()
}

// Now returns the current local instant.
func Now() LocalTime {
	return LocalTime(time.Now())
}
