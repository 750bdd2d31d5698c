package tail

import (
	"strings"
	"testing"
	"time"
)

func TestFormatLineDefaultShowsEmojiNoTimestamp(t *testing.T) {
	f := NewFormatter()
	e := Event{Name: "ready", Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}

	got := f.Format(e)
	if !strings.Contains(got, "✅") {
		t.Errorf("Format() = %q, want it to contain the ready emoji", got)
	}
	if strings.Contains(got, "12:00:00") {
		t.Errorf("Format() = %q, timestamp should be hidden by default", got)
	}
	if !strings.Contains(got, "Time sync ready") {
		t.Errorf("Format() = %q, want the ready description", got)
	}
}

func TestFormatLineWithTimestamp(t *testing.T) {
	f := NewFormatter(WithTimestamp(true))
	e := Event{Name: "enabled", Timestamp: time.Date(2026, 1, 1, 9, 30, 15, 0, time.UTC)}

	got := f.Format(e)
	if !strings.Contains(got, "09:30:15") {
		t.Errorf("Format() = %q, want the formatted timestamp", got)
	}
}

func TestFormatLineWithoutEmoji(t *testing.T) {
	f := NewFormatter(WithEmoji(false))
	e := Event{Name: "ready"}

	got := f.Format(e)
	if strings.Contains(got, "✅") {
		t.Errorf("Format() = %q, want no emoji when WithEmoji(false)", got)
	}
}

func TestFormatTimeSyncServerUpdate(t *testing.T) {
	f := NewFormatter()
	e := Event{Name: "time-sync-server-update", Payload: map[string]any{"offsetMillis": int64(42), "pingMillis": int64(8)}}

	got := f.Format(e)
	if !strings.Contains(got, "42") || !strings.Contains(got, "8") {
		t.Errorf("Format() = %q, want both offset and ping values", got)
	}
}

func TestFormatSyncingSpeedVsSkip(t *testing.T) {
	f := NewFormatter(WithEmoji(false))

	speed := f.Format(Event{Name: "syncing", Payload: map[string]any{"method": "speed", "rate": 1.05, "diffMillis": int64(120)}})
	if !strings.Contains(speed, "adjusting speed") {
		t.Errorf("Format(speed) = %q, want the speed-adjustment description", speed)
	}

	skip := f.Format(Event{Name: "syncing", Payload: map[string]any{"method": "skip"}})
	if !strings.Contains(skip, "seeking to sync") {
		t.Errorf("Format(skip) = %q, want the seek description", skip)
	}
}

func TestFormatUnknownEventFallsBackToName(t *testing.T) {
	f := NewFormatter(WithEmoji(false))
	got := f.Format(Event{Name: "some-future-event"})
	if got != "some-future-event" {
		t.Errorf("Format() = %q, want the bare event name", got)
	}
}

func TestFormatTemplate(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Name}}|{{.Time}}"))
	e := Event{Name: "ready", Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}

	got := f.Format(e)
	if !strings.HasPrefix(got, "ready|12:00:00") {
		t.Errorf("Format() = %q, want it to start with ready|12:00:00", got)
	}
}

func TestFormatTemplateInvalidFallsBackToLineFormat(t *testing.T) {
	// An unparsable template leaves f.template nil, so Format falls back
	// to formatLine instead of panicking or emitting a blank string.
	f := NewFormatter(WithTemplate("{{.Broken"))
	got := f.Format(Event{Name: "ready"})
	if !strings.Contains(got, "Time sync ready") {
		t.Errorf("Format() = %q, want the line-formatted fallback", got)
	}
}
