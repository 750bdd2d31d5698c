package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nilsen-dev/syncplay/internal/manager"
	"github.com/nilsen-dev/syncplay/internal/tui/styles"
)

// Session displays the process-wide SessionState and, when available, the
// in-progress sync correction.
type Session struct{}

// NewSession creates a new Session component.
func NewSession() *Session {
	return &Session{}
}

// SyncStatus is the most recent "syncing" event payload, if a correction
// is in progress.
type SyncStatus struct {
	Active bool
	Method string
}

// Render renders the session panel.
func (s *Session) Render(session manager.SessionState, sync SyncStatus, width, height int, focused bool) string {
	title := styles.PanelTitle("Session", focused)

	content := s.renderState(session, sync, width-4)

	panel := styles.Panel("", focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (s *Session) renderState(session manager.SessionState, sync SyncStatus, width int) string {
	if !session.Enabled {
		return styles.Muted.Render("Not enabled")
	}

	icon := styles.StatusIcon(session.Ready)
	label := "Ready"
	if !session.Ready {
		label = "Buffering"
	}
	status := fmt.Sprintf("%s %s", icon, label)

	following := styles.Dim.Render("not following")
	if session.FollowingGroup {
		following = styles.Playing.Render("following group")
	}

	lines := []string{
		status,
		"  " + following,
		"",
	}

	if session.LastCommand != nil {
		cmd := session.LastCommand
		when := humanize.Time(time.Time(cmd.EmittedAt))
		lines = append(lines, fmt.Sprintf("  last: %s (%s)", cmd.Kind, when))
	} else {
		lines = append(lines, styles.Dim.Render("  no command received yet"))
	}

	if sync.Active {
		lines = append(lines, "", styles.Highlight.Render(fmt.Sprintf("  syncing (%s)", sync.Method)))
	}

	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
