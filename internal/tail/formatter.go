package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Name))
	}
	parts = append(parts, eventDescription(e))

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Name:      e.Name,
		Emoji:     eventEmoji(e.Name),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Payload:   e.Payload,
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Name      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Payload   map[string]any
}

// eventDescription returns a human-readable description of the event,
// matching the name/payload shape manager.NotifyFunc emits.
func eventDescription(e Event) string {
	switch e.Name {
	case "enabled":
		return "Joined group"
	case "ready":
		return "Time sync ready; commands are live"
	case "time-sync-lost":
		return "Time sync lost; re-syncing"
	case "time-sync-server-update":
		return fmt.Sprintf("Server offset %vms (ping %vms)", e.Payload["offsetMillis"], e.Payload["pingMillis"])
	case "syncing":
		if e.Payload["method"] == "speed" {
			return fmt.Sprintf("Drift correction: adjusting speed to %v (off by %vms)", e.Payload["rate"], e.Payload["diffMillis"])
		}
		return "Drift correction: seeking to sync"
	case "group-state-update":
		return fmt.Sprintf("Group update: %v", e.Payload["type"])
	case "group-state-change":
		return fmt.Sprintf("Group state: %v (%v)", e.Payload["state"], e.Payload["reason"])
	case "playlistitemadd":
		return fmt.Sprintf("Playlist updated (%v)", e.Payload["reason"])
	case "show-message":
		return fmt.Sprintf("Message: %v", e.Payload["key"])
	case "player-error":
		return fmt.Sprintf("Player error: %v", e.Payload["error"])
	case "notify-osd":
		return fmt.Sprintf("%v", e.Payload["message"])
	default:
		return e.Name
	}
}

// eventEmoji returns an emoji for the event name.
func eventEmoji(name string) string {
	switch name {
	case "enabled":
		return "🔗"
	case "ready":
		return "✅"
	case "time-sync-lost":
		return "⚠️"
	case "time-sync-server-update":
		return "🕒"
	case "syncing":
		return "🔁"
	case "group-state-update", "group-state-change":
		return "👥"
	case "playlistitemadd":
		return "📜"
	case "show-message":
		return "💬"
	case "player-error":
		return "❌"
	case "notify-osd":
		return "🎵"
	default:
		return "❓"
	}
}
