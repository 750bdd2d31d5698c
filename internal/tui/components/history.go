package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nilsen-dev/syncplay/internal/tail"
	"github.com/nilsen-dev/syncplay/internal/tui/styles"
)

// Activity displays the drift sparkline and a scrolling log of recently
// emitted events.
type Activity struct {
	formatter *tail.Formatter
}

// NewActivity creates a new Activity component.
func NewActivity() *Activity {
	return &Activity{
		formatter: tail.NewFormatter(tail.WithEmoji(true)),
	}
}

// Render renders the activity panel. drift holds the most recent
// offsetMillis samples, oldest first; events holds the most recent emitted
// events, oldest first, and the log lists them newest first.
func (a *Activity) Render(drift []float64, events []tail.Event, width, height int, focused bool) string {
	title := styles.PanelTitle("Activity", focused)

	inner := width - 4
	var spark string
	if len(drift) == 0 {
		spark = styles.Muted.Render("no time-sync samples yet")
	} else {
		n := len(drift)
		if n > inner {
			drift = drift[n-inner:]
		}
		spark = fmt.Sprintf("%s %s", styles.Sparkline(drift, 200), styles.Dim.Render(fmt.Sprintf("%.0fms", drift[len(drift)-1])))
	}

	content := a.renderLog(events, inner, height-6)

	return styles.Panel("", focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			styles.Label.Render("drift"),
			spark,
			"",
			styles.Label.Render("events"),
			content,
		))
}

func (a *Activity) renderLog(events []tail.Event, width, maxLines int) string {
	if len(events) == 0 {
		return styles.Muted.Render("no events yet")
	}
	if maxLines < 1 {
		maxLines = 1
	}

	n := len(events)
	if n > maxLines {
		events = events[n-maxLines:]
	}

	lines := make([]string, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		line := a.formatter.Format(e)
		lines = append(lines, truncate(line, width)+styles.Dim.Render(" "+humanize.Time(e.Timestamp)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
