// Package manager is the top-level facade of the SyncPlay core (spec
// §4.F): it owns SessionState and GroupInfo, dispatches inbound transport
// messages to PlaybackCore/QueueCore, and routes outgoing controller
// operations through Transport after an access-rights check.
//
// It is grounded on the teacher's internal/tui.App/Model split: App holds
// long-lived collaborators (here: TimeSync, PlaybackCore, QueueCore,
// PlayerAdapter, Settings), Model holds transient session state (here:
// SessionState, GroupInfo) — minus rendering, since the core has no UI of
// its own.
//
// The PlaybackCore <-> Manager and QueueCore <-> Manager circular
// dependency (spec §9) is resolved by constructor injection in New: the
// Manager's own methods are bound as closures and handed to New before
// TimeSync/PlaybackCore/QueueCore exist, so those collaborators receive a
// reference to behavior the Manager defines without either side importing
// the other's package.
package manager

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/nilsen-dev/syncplay/internal/playbackcore"
	"github.com/nilsen-dev/syncplay/internal/playeradapter"
	"github.com/nilsen-dev/syncplay/internal/queuecore"
	"github.com/nilsen-dev/syncplay/internal/queuemodel"
	"github.com/nilsen-dev/syncplay/internal/settings"
	"github.com/nilsen-dev/syncplay/internal/syncerr"
	"github.com/nilsen-dev/syncplay/internal/syncmodel"
	"github.com/nilsen-dev/syncplay/internal/timesync"
	"github.com/nilsen-dev/syncplay/internal/transport"
)

// NotifyFunc reports an observable event (spec §6's emitted-events list)
// to whatever is watching, typically internal/tui.
type NotifyFunc func(name string, payload map[string]any)

// SessionState is the process-wide session singleton (spec §3). Manager
// owns the only instance.
type SessionState struct {
	EnabledAt      syncmodel.RemoteTime
	Enabled        bool
	Ready          bool
	FollowingGroup bool
	QueuedCommand  *syncmodel.Command
	LastCommand    *syncmodel.Command
}

// Manager is the SyncPlay core's single entry point.
type Manager struct {
	userID string
	notify NotifyFunc

	adapter  playeradapter.Player
	settings *settings.Settings

	ts       *timesync.TimeSync
	playback *playbackcore.Core
	queue    *queuecore.Core
	model    *queuemodel.QueueModel

	mu        sync.Mutex
	session   SessionState
	group     *syncmodel.GroupInfo
	transport transport.Transport
}

var _ transport.Receiver = (*Manager)(nil)

// New creates a Manager and its owned collaborators, wiring the
// circular-dependency closures per spec §9.
func New(adapter playeradapter.Player, store *settings.Settings, userID string, notify NotifyFunc) *Manager {
	if notify == nil {
		notify = func(string, map[string]any) {}
	}

	m := &Manager{
		userID:   userID,
		notify:   notify,
		adapter:  adapter,
		settings: store,
		model:    queuemodel.New(),
	}

	m.ts = timesync.New(
		m.probe,
		timesync.WithInterval(store.TimeSyncInterval()),
		timesync.WithDeadBand(store.TimeSyncDeadBand()),
		timesync.WithOnUpdate(m.onTimeSyncUpdate),
		timesync.WithOnLost(m.onTimeSyncLost),
	)

	m.playback = playbackcore.New(adapter, m.ts, store, m, m.relayNotify, m.currentItemID)

	m.queue = queuecore.New(
		m.model,
		adapter,
		m.playback,
		m,
		m.relayNotify,
		m.followingGroup,
		m.setFollowingGroup,
		m.HaltGroup,
	)

	return m
}

// currentTransport re-reads the active Transport per call, never caching
// it across an await point, per spec §5's "components MUST re-read it per
// use" (DESIGN.md's capture-at-dispatch decision).
func (m *Manager) currentTransport() transport.Transport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transport
}

// Init installs the Transport and starts listening for inbound messages.
func (m *Manager) Init(ctx context.Context, t transport.Transport) error {
	m.mu.Lock()
	m.transport = t
	m.mu.Unlock()
	return t.Connect(ctx, m)
}

func (m *Manager) currentItemID() string {
	return m.model.CurrentPlaylistItemID()
}

func (m *Manager) followingGroup() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.FollowingGroup
}

func (m *Manager) setFollowingGroup(v bool) {
	m.mu.Lock()
	m.session.FollowingGroup = v
	m.mu.Unlock()
}

// RequestBuffering satisfies playbackcore.BufferingReporter by forwarding
// to the currently installed Transport.
func (m *Manager) RequestBuffering(ctx context.Context, req playbackcore.BufferingRequest) error {
	t := m.currentTransport()
	if t == nil {
		return syncerr.ErrTransport
	}
	return t.RequestBuffering(ctx, req)
}

// SetIgnoreWait satisfies queuecore.Transport the same way.
func (m *Manager) SetIgnoreWait(ctx context.Context, ignore bool) error {
	t := m.currentTransport()
	if t == nil {
		return syncerr.ErrTransport
	}
	return t.SetIgnoreWait(ctx, ignore)
}

// probe satisfies timesync.ProbeFunc by forwarding to the currently
// installed Transport's own probe request.
func (m *Manager) probe(ctx context.Context, probeID uuid.UUID) (syncmodel.RemoteTime, error) {
	t := m.currentTransport()
	if t == nil {
		return syncmodel.RemoteTime{}, syncerr.ErrTransport
	}
	return t.Probe(ctx, probeID)
}

// relayNotify re-reads m.notify on every call rather than capturing it once,
// so PlaybackCore/QueueCore keep reporting to whatever handler is
// currently installed even if it is swapped after construction.
func (m *Manager) relayNotify(name string, payload map[string]any) {
	m.notify(name, payload)
}

// Enable joins a group: records enabledAt, replaces GroupInfo, binds
// PlaybackCore to the player, and starts TimeSync (spec §4.D's
// Disabled -> Enabling transition).
func (m *Manager) Enable(ctx context.Context, group syncmodel.GroupInfo) {
	now := m.ts.LocalToRemote(syncmodel.Now())

	m.mu.Lock()
	m.group = &group
	m.session = SessionState{EnabledAt: now, Enabled: true}
	m.mu.Unlock()

	if err := m.playback.Enable(); err != nil {
		m.notify("player-error", map[string]any{"error": err.Error()})
	}
	m.ts.Start(ctx)
	m.notify("enabled", nil)
}

// Disable leaves the group: cancels every timer, unbinds the adapter, and
// clears SessionState/GroupInfo (spec §5's cancellation discipline).
func (m *Manager) Disable() {
	m.ts.Stop()
	if err := m.playback.Disable(); err != nil {
		m.notify("player-error", map[string]any{"error": err.Error()})
	}
	m.model.Reset()

	m.mu.Lock()
	m.session = SessionState{}
	m.group = nil
	m.mu.Unlock()
}

func (m *Manager) onTimeSyncUpdate(upd timesync.Update) {
	m.notify("time-sync-server-update", map[string]any{
		"offsetMillis": upd.Offset.Milliseconds(),
		"pingMillis":   upd.Ping.Milliseconds(),
	})

	m.mu.Lock()
	alreadyReady := m.session.Ready
	m.session.Ready = true
	queued := m.session.QueuedCommand
	m.session.QueuedCommand = nil
	m.mu.Unlock()

	if !alreadyReady {
		m.playback.MarkReady()
		m.notify("ready", nil)
	}
	if queued != nil {
		m.ProcessCommand(context.Background(), *queued)
	}
}

func (m *Manager) onTimeSyncLost() {
	m.mu.Lock()
	m.session.Ready = false
	m.mu.Unlock()
	m.playback.Reenable()
	m.notify("time-sync-lost", nil)
}

// ProcessGroupUpdate routes an inbound SyncPlayGroupUpdate (spec §4.F,
// §4.E for PlayQueue).
func (m *Manager) ProcessGroupUpdate(ctx context.Context, update transport.InboundGroupUpdate) {
	switch update.Type {
	case transport.GroupUpdateGroupJoined:
		if update.Group != nil {
			m.Enable(ctx, *update.Group)
		}
	case transport.GroupUpdateGroupLeft, transport.GroupUpdateNotInGroup:
		m.Disable()
		m.notify("group-state-update", map[string]any{"type": string(update.Type)})
	case transport.GroupUpdateGroupUpdate:
		if update.Group != nil {
			m.mu.Lock()
			m.group = update.Group
			m.mu.Unlock()
		}
	case transport.GroupUpdateStateUpdate:
		m.notify("group-state-change", map[string]any{"state": update.State, "reason": update.Reason})
	case transport.GroupUpdatePlayQueue:
		if update.PlayQueue != nil {
			m.queue.UpdatePlayQueue(ctx, *update.PlayQueue)
		}
	default:
		m.notify("group-state-update", map[string]any{"type": string(update.Type), "userId": update.UserID})
	}
}

// HandleGroupUpdate satisfies transport.Receiver.
func (m *Manager) HandleGroupUpdate(ctx context.Context, update transport.InboundGroupUpdate) {
	m.ProcessGroupUpdate(ctx, update)
}

// HandleCommand satisfies transport.Receiver.
func (m *Manager) HandleCommand(ctx context.Context, cmd syncmodel.Command) {
	m.ProcessCommand(ctx, cmd)
}

// ProcessCommand applies the routing table in spec §4.F's "Command
// routing" paragraph.
func (m *Manager) ProcessCommand(ctx context.Context, cmd syncmodel.Command) {
	m.mu.Lock()
	enabled := m.session.Enabled
	enabledAt := m.session.EnabledAt
	ready := m.session.Ready
	m.mu.Unlock()

	if !enabled {
		return
	}
	if cmd.EmittedAt.Before(enabledAt) {
		return
	}
	if !m.adapter.IsPlaybackActive() && cmd.Kind != syncmodel.CommandStop {
		return
	}

	if !ready {
		m.mu.Lock()
		m.session.QueuedCommand = &cmd
		m.mu.Unlock()
		return
	}

	if cmd.Kind != syncmodel.CommandStop && cmd.PlaylistItemID != m.model.CurrentPlaylistItemID() {
		return
	}

	m.mu.Lock()
	m.session.LastCommand = &cmd
	m.mu.Unlock()
	m.playback.ApplyCommand(ctx, cmd)
}

// LastCommand exposes PlaybackCore's authoritative last-applied command to
// external callers (e.g. the TUI); Manager's own SessionState.LastCommand
// field is command-routing bookkeeping, not the scheduler's state.
func (m *Manager) LastCommand() (syncmodel.Command, bool) {
	return m.playback.LastCommand()
}

// FollowGroup re-enables following without rejoining the group.
func (m *Manager) FollowGroup(ctx context.Context) {
	m.setFollowingGroup(true)
	if t := m.currentTransport(); t != nil {
		_ = t.SetIgnoreWait(ctx, false)
	}
}

// HaltGroup stops local playback from following the group, without
// leaving it (spec §4.D's ready-timeout fallback, and the GLOSSARY's
// Follow/Halt pair).
func (m *Manager) HaltGroup() {
	m.setFollowingGroup(false)
	if t := m.currentTransport(); t != nil {
		_ = t.SetIgnoreWait(context.Background(), true)
	}
	m.notify("group-state-update", map[string]any{"type": "halted"})
}

func (m *Manager) groupInfo() *syncmodel.GroupInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.group
}

// checkAccess enforces spec §4.F's per-operation access check: "emits a
// show-message event with a symbolic key and returns without effect" on
// denial.
func (m *Manager) checkAccess(playback bool) bool {
	group := m.groupInfo()
	if group == nil {
		m.notify("show-message", map[string]any{"key": "MessageSyncPlayMissingPlaybackAccess"})
		return false
	}
	right := group.AccessFor(m.userID)
	ok := right.PlaybackAccess
	key := "MessageSyncPlayMissingPlaybackAccess"
	if !playback {
		ok = right.PlaylistAccess
		key = "MessageSyncPlayMissingPlaylistAccess"
	}
	if !ok {
		m.notify("show-message", map[string]any{"key": key})
	}
	return ok
}

// PlayPause toggles between RequestUnpause and RequestPause based on the
// adapter's live playing state.
func (m *Manager) PlayPause(ctx context.Context) error {
	if m.adapter.IsPlaying() {
		return m.Pause(ctx)
	}
	return m.Unpause(ctx)
}

func (m *Manager) Unpause(ctx context.Context) error {
	if !m.checkAccess(true) {
		return syncerr.ErrAccessDenied
	}
	return m.withTransport(func(t transport.Transport) error { return t.RequestUnpause(ctx) })
}

func (m *Manager) Pause(ctx context.Context) error {
	if !m.checkAccess(true) {
		return syncerr.ErrAccessDenied
	}
	return m.withTransport(func(t transport.Transport) error { return t.RequestPause(ctx) })
}

func (m *Manager) Seek(ctx context.Context, positionTicks syncmodel.Tick) error {
	if !m.checkAccess(true) {
		return syncerr.ErrAccessDenied
	}
	return m.withTransport(func(t transport.Transport) error { return t.RequestSeek(ctx, positionTicks) })
}

func (m *Manager) Play(ctx context.Context, req transport.PlayRequest) error {
	if !m.checkAccess(true) {
		return syncerr.ErrAccessDenied
	}
	return m.withTransport(func(t transport.Transport) error { return t.RequestPlay(ctx, req) })
}

func (m *Manager) SetCurrentPlaylistItem(ctx context.Context, playlistItemID string) error {
	if !m.checkAccess(false) {
		return syncerr.ErrAccessDenied
	}
	return m.withTransport(func(t transport.Transport) error { return t.RequestSetPlaylistItem(ctx, playlistItemID) })
}

func (m *Manager) RemoveFromPlaylist(ctx context.Context, playlistItemIDs []string) error {
	if !m.checkAccess(false) {
		return syncerr.ErrAccessDenied
	}
	return m.withTransport(func(t transport.Transport) error { return t.RequestRemoveFromPlaylist(ctx, playlistItemIDs) })
}

func (m *Manager) MovePlaylistItem(ctx context.Context, playlistItemID string, newIndex int) error {
	if !m.checkAccess(false) {
		return syncerr.ErrAccessDenied
	}
	return m.withTransport(func(t transport.Transport) error { return t.RequestMovePlaylistItem(ctx, playlistItemID, newIndex) })
}

func (m *Manager) Queue(ctx context.Context, itemIDs []string) error {
	if !m.checkAccess(false) {
		return syncerr.ErrAccessDenied
	}
	return m.withTransport(func(t transport.Transport) error { return t.RequestQueue(ctx, itemIDs, transport.QueueModeDefault) })
}

func (m *Manager) QueueNext(ctx context.Context, itemIDs []string) error {
	if !m.checkAccess(false) {
		return syncerr.ErrAccessDenied
	}
	return m.withTransport(func(t transport.Transport) error { return t.RequestQueue(ctx, itemIDs, transport.QueueModeNext) })
}

func (m *Manager) NextTrack(ctx context.Context) error {
	if !m.checkAccess(true) {
		return syncerr.ErrAccessDenied
	}
	itemID := m.model.CurrentPlaylistItemID()
	return m.withTransport(func(t transport.Transport) error { return t.RequestNextTrack(ctx, itemID) })
}

func (m *Manager) PreviousTrack(ctx context.Context) error {
	if !m.checkAccess(true) {
		return syncerr.ErrAccessDenied
	}
	itemID := m.model.CurrentPlaylistItemID()
	return m.withTransport(func(t transport.Transport) error { return t.RequestPreviousTrack(ctx, itemID) })
}

func (m *Manager) SetRepeatMode(ctx context.Context, mode syncmodel.RepeatMode) error {
	if !m.checkAccess(false) {
		return syncerr.ErrAccessDenied
	}
	return m.withTransport(func(t transport.Transport) error { return t.RequestSetRepeatMode(ctx, mode) })
}

func (m *Manager) SetShuffleMode(ctx context.Context, mode syncmodel.ShuffleMode) error {
	if !m.checkAccess(false) {
		return syncerr.ErrAccessDenied
	}
	return m.withTransport(func(t transport.Transport) error { return t.RequestSetShuffleMode(ctx, mode) })
}

// ToggleShuffleMode flips between Sorted and Shuffle based on the
// QueueModel's current view.
func (m *Manager) ToggleShuffleMode(ctx context.Context) error {
	next := syncmodel.ShuffleShuffle
	if m.model.ShuffleMode() == syncmodel.ShuffleShuffle {
		next = syncmodel.ShuffleSorted
	}
	return m.SetShuffleMode(ctx, next)
}

func (m *Manager) withTransport(fn func(transport.Transport) error) error {
	t := m.currentTransport()
	if t == nil {
		return syncerr.ErrTransport
	}
	return fn(t)
}

// Session returns a snapshot of the current SessionState.
func (m *Manager) Session() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// GroupInfo returns a snapshot of the current GroupInfo, or nil if not in
// a group.
func (m *Manager) GroupInfo() *syncmodel.GroupInfo {
	return m.groupInfo()
}

// QueueSnapshot is a read-only view of the shared playlist, for display
// surfaces that have no business holding a *queuemodel.QueueModel
// themselves (internal/tui, internal/cli status).
type QueueSnapshot struct {
	CurrentItemID string
	Playlist      []string
	CurrentIndex  int
	RepeatMode    syncmodel.RepeatMode
	ShuffleMode   syncmodel.ShuffleMode
}

// QueueSnapshot returns the current state of the shared playlist.
func (m *Manager) QueueSnapshot() QueueSnapshot {
	return QueueSnapshot{
		CurrentItemID: m.model.CurrentPlaylistItemID(),
		Playlist:      m.model.PlaylistAsItemIDs(),
		CurrentIndex:  m.model.CurrentIndex(),
		RepeatMode:    m.model.RepeatMode(),
		ShuffleMode:   m.model.ShuffleMode(),
	}
}
