package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nilsen-dev/syncplay/internal/manager"
	"github.com/nilsen-dev/syncplay/internal/syncmodel"
	"github.com/nilsen-dev/syncplay/internal/tail"
	"github.com/nilsen-dev/syncplay/internal/tui/components"
	"github.com/nilsen-dev/syncplay/internal/tui/styles"
)

const (
	maxEvents = 200
	maxDrift  = 120
)

// Panel identifies which panel holds input focus.
type Panel int

const (
	PanelSession Panel = iota
	PanelQueue
	PanelParticipants
	PanelActivity
)

const panelCount = 4

// App holds the long-lived collaborators the dashboard reads from. It
// never drives the session itself — that's internal/cli's job (join,
// status, etc.) — it only observes a Manager that's already connected.
type App struct {
	mgr         *manager.Manager
	watcher     *tail.Watcher
	refreshRate time.Duration
}

// NewApp creates a dashboard over an already-connected Manager/Watcher
// pair.
func NewApp(mgr *manager.Manager, watcher *tail.Watcher, refreshRate time.Duration) *App {
	if refreshRate <= 0 {
		refreshRate = time.Second
	}
	return &App{mgr: mgr, watcher: watcher, refreshRate: refreshRate}
}

// Model is the dashboard's bubbletea model.
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel

	session manager.SessionState
	group   *syncmodel.GroupInfo
	queue   manager.QueueSnapshot
	sync    components.SyncStatus

	events []tail.Event
	drift  []float64

	sessionView      *components.Session
	queueView        *components.Queue
	participantsView *components.Participants
	activityView     *components.Activity

	showHelp bool
	quitting bool
}

// NewModel creates a new dashboard model.
func NewModel(app *App) Model {
	return Model{
		app:              app,
		sessionView:      components.NewSession(),
		queueView:        components.NewQueue(),
		participantsView: components.NewParticipants(),
		activityView:     components.NewActivity(),
	}
}

type tickMsg time.Time
type eventMsg tail.Event
type watcherClosedMsg struct{}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the watcher's channel and turns the next event
// into a tea.Msg. Update re-issues this command after every delivery, the
// same self-rescheduling shape as tick.
func (m Model) waitForEvent() tea.Cmd {
	watcher := m.app.watcher
	return func() tea.Msg {
		e, ok := <-watcher.Events()
		if !ok {
			return watcherClosedMsg{}
		}
		return eventMsg(e)
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitForEvent(), m.refresh())
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return tickMsg(time.Now())
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.session = m.app.mgr.Session()
		m.group = m.app.mgr.GroupInfo()
		m.queue = m.app.mgr.QueueSnapshot()
		return m, m.tick()

	case eventMsg:
		e := tail.Event(msg)
		m.events = append(m.events, e)
		if len(m.events) > maxEvents {
			m.events = m.events[len(m.events)-maxEvents:]
		}
		switch e.Name {
		case "time-sync-server-update":
			if ms, ok := toFloat(e.Payload["offsetMillis"]); ok {
				m.drift = append(m.drift, ms)
				if len(m.drift) > maxDrift {
					m.drift = m.drift[len(m.drift)-maxDrift:]
				}
			}
		case "syncing":
			method, _ := e.Payload["method"].(string)
			m.sync = components.SyncStatus{Active: true, Method: method}
		case "ready", "group-state-update":
			m.sync = components.SyncStatus{}
		}
		return m, m.waitForEvent()

	case watcherClosedMsg:
		return m, nil
	}

	return m, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "?":
		m.showHelp = true
		return m, nil

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil
	}

	switch m.focusedPanel {
	case PanelQueue:
		switch msg.String() {
		case "j", "down":
			m.queueView.ScrollDown()
		case "k", "up":
			m.queueView.ScrollUp()
		}
	case PanelParticipants:
		switch msg.String() {
		case "j", "down":
			m.participantsView.SelectNext()
		case "k", "up":
			m.participantsView.SelectPrev()
		}
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 40 / 100
	bottomHeight := m.height - topHeight - 2

	sessionView := m.sessionView.Render(m.session, m.sync, leftWidth-2, topHeight-2, m.focusedPanel == PanelSession)
	queueView := m.queueView.Render(m.queue, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelQueue)
	participantsView := m.participantsView.Render(m.group, rightWidth-2, topHeight-2, m.focusedPanel == PanelParticipants)
	activityView := m.activityView.Render(m.drift, m.events, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelActivity)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, sessionView, queueView)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, participantsView, activityView)

	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)
	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  tab:switch panel  j/k:scroll")
	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "SyncPlay Dashboard - Keyboard Shortcuts"
	divider := styles.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  Tab          Next panel
  Shift+Tab    Previous panel

  Queue / Participants Panel
  ──────────────────────────
  j/↓          Scroll / select next
  k/↑          Scroll / select previous

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

// Run starts the dashboard, blocking until the user quits.
func Run(mgr *manager.Manager, watcher *tail.Watcher, refreshRate time.Duration) error {
	app := NewApp(mgr, watcher, refreshRate)
	model := NewModel(app)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
