package styles

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

func hex(c catppuccin.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex)
}

// flavor is the palette the whole dashboard renders from. Mocha is the
// teacher's dark theme; there's no light-mode wiring since the dashboard
// is a terminal tool, same as the teacher's.
var flavor = catppuccin.Mocha

// Colors
var (
	Primary = hex(flavor.Mauve())
	Accent  = hex(flavor.Peach())

	Success = hex(flavor.Green())
	Warning = hex(flavor.Yellow())
	Danger  = hex(flavor.Red())
	Info    = hex(flavor.Sapphire())

	Border    = hex(flavor.Surface2())
	Text      = hex(flavor.Text())
	TextMuted = hex(flavor.Subtext0())
	TextDim   = hex(flavor.Overlay0())
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Highlight = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Playing = lipgloss.NewStyle().
		Foreground(Success)

	Paused = lipgloss.NewStyle().
		Foreground(Warning)

	ErrorText = lipgloss.NewStyle().
			Foreground(Danger)
)

// Border styles
var (
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)

	NoBorder = lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder())
)

// Panel creates a styled panel with optional focus
func Panel(title string, focused bool) lipgloss.Style {
	style := BorderStyle.Padding(0, 1)

	if focused {
		style = FocusedBorder.Padding(0, 1)
	}

	return style
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	bar := filledStyle.Render(Repeat("━", filled)) +
		emptyStyle.Render(Repeat("─", width-filled))

	return bar
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// AccessIcon returns an icon for a participant's standing in the group.
func AccessIcon(admin bool) string {
	if admin {
		return "👑"
	}
	return "👤"
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values (expected roughly in [-max, max]) as a row of
// block characters, one per value, clamped to the block range.
func Sparkline(values []float64, max float64) string {
	if max <= 0 {
		max = 1
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		if v < 0 {
			v = -v
		}
		level := int(v / max * float64(len(sparkBlocks)-1))
		if level < 0 {
			level = 0
		}
		if level >= len(sparkBlocks) {
			level = len(sparkBlocks) - 1
		}
		runes[i] = sparkBlocks[level]
	}
	return string(runes)
}

// Repeat repeats a string n times
func Repeat(s string, n int) string {
	result := ""
	for i := 0; i < n; i++ {
		result += s
	}
	return result
}
