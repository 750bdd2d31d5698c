package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nilsen-dev/syncplay/internal/manager"
	"github.com/nilsen-dev/syncplay/internal/syncmodel"
	"github.com/nilsen-dev/syncplay/internal/tui/styles"
)

// Queue displays the shared playlist.
type Queue struct {
	offset int
}

// NewQueue creates a new Queue component.
func NewQueue() *Queue {
	return &Queue{}
}

// ScrollDown scrolls the queue down.
func (q *Queue) ScrollDown() {
	q.offset++
}

// ScrollUp scrolls the queue up.
func (q *Queue) ScrollUp() {
	if q.offset > 0 {
		q.offset--
	}
}

// Render renders the queue panel.
func (q *Queue) Render(snap manager.QueueSnapshot, width, height int, focused bool) string {
	title := styles.PanelTitle(fmt.Sprintf("Queue (%s / %s)", repeatLabel(snap.RepeatMode), shuffleLabel(snap.ShuffleMode)), focused)

	var content string
	if len(snap.Playlist) == 0 {
		content = styles.Muted.Render("Playlist is empty")
	} else {
		content = q.renderPlaylist(snap, width-4, height-4)
	}

	panel := styles.Panel("", focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (q *Queue) renderPlaylist(snap manager.QueueSnapshot, width, maxLines int) string {
	items := snap.Playlist

	if q.offset >= len(items) {
		q.offset = 0
	}

	visibleCount := maxLines - 1
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := q.offset
	end := start + visibleCount
	if end > len(items) {
		end = len(items)
	}

	lines := make([]string, 0, end-start+1)

	for i := start; i < end; i++ {
		itemID := items[i]
		num := fmt.Sprintf("%2d.", i+1)
		id := truncate(itemID, width-6)

		var line string
		if i == snap.CurrentIndex {
			line = styles.Playing.Render(fmt.Sprintf("%s ▶ %s", num, id))
		} else {
			line = fmt.Sprintf("%s   %s", styles.Dim.Render(num), styles.Muted.Render(id))
		}
		lines = append(lines, line)
	}

	if end < len(items) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(items)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func repeatLabel(mode syncmodel.RepeatMode) string {
	switch mode {
	case syncmodel.RepeatOne:
		return "one"
	case syncmodel.RepeatAll:
		return "all"
	default:
		return "off"
	}
}

func shuffleLabel(mode syncmodel.ShuffleMode) string {
	if mode == syncmodel.ShuffleShuffle {
		return "on"
	}
	return "off"
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
