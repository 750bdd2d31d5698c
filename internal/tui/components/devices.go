package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nilsen-dev/syncplay/internal/syncmodel"
	"github.com/nilsen-dev/syncplay/internal/tui/styles"
)

// Participants displays a group's member list and their access rights.
type Participants struct {
	selected int
}

// NewParticipants creates a new Participants component.
func NewParticipants() *Participants {
	return &Participants{}
}

// SelectNext selects the next participant.
func (p *Participants) SelectNext() {
	p.selected++
}

// SelectPrev selects the previous participant.
func (p *Participants) SelectPrev() {
	if p.selected > 0 {
		p.selected--
	}
}

// Render renders the participants panel.
func (p *Participants) Render(group *syncmodel.GroupInfo, width, height int, focused bool) string {
	title := styles.PanelTitle("Participants", focused)

	var content string
	if group == nil || len(group.Participants) == 0 {
		content = styles.Muted.Render("Not in a group")
	} else {
		content = p.renderParticipants(group, width-4, height-4, focused)
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

func (p *Participants) renderParticipants(group *syncmodel.GroupInfo, width, maxLines int, focused bool) string {
	if p.selected >= len(group.Participants) {
		p.selected = len(group.Participants) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}

	admins := make(map[string]bool, len(group.Administrators))
	for _, a := range group.Administrators {
		admins[a] = true
	}

	lines := make([]string, 0, len(group.Participants))
	for i, name := range group.Participants {
		selector := "  "
		if focused && i == p.selected {
			selector = "▸ "
		}

		icon := styles.AccessIcon(admins[name])
		access := group.AccessFor(name)
		rights := ""
		if !access.PlaybackAccess {
			rights += styles.Dim.Render(" 🔒playback")
		}
		if !access.PlaylistAccess {
			rights += styles.Dim.Render(" 🔒playlist")
		}

		label := name
		if i == p.selected && focused {
			label = styles.Highlight.Render(label)
		}

		lines = append(lines, fmt.Sprintf("%s%s %s%s", selector, icon, label, rights))
		if len(lines) >= maxLines {
			break
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
