package manager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nilsen-dev/syncplay/internal/playbackcore"
	"github.com/nilsen-dev/syncplay/internal/playeradapter"
	"github.com/nilsen-dev/syncplay/internal/settings"
	"github.com/nilsen-dev/syncplay/internal/syncmodel"
	"github.com/nilsen-dev/syncplay/internal/transport"
)

// fakePlayer is a hand-written Player double; playback is always "active"
// so ProcessCommand's liveness check never blocks a test.
type fakePlayer struct {
	playing bool
	ticks   syncmodel.Tick
}

func (f *fakePlayer) IsPlaybackActive() bool          { return true }
func (f *fakePlayer) IsPlaying() bool                 { return f.playing }
func (f *fakePlayer) CurrentTicks() syncmodel.Tick    { return f.ticks }
func (f *fakePlayer) HasPlaybackRate() bool           { return false }
func (f *fakePlayer) PlaybackRate() float64           { return 1.0 }
func (f *fakePlayer) SetPlaybackRate(context.Context, float64) error { return nil }
func (f *fakePlayer) IsRemote() bool                  { return false }

func (f *fakePlayer) LocalPlay(context.Context, playeradapter.PlayOptions) error { return nil }
func (f *fakePlayer) LocalPause(context.Context) error                          { f.playing = false; return nil }
func (f *fakePlayer) LocalUnpause(context.Context) error                        { f.playing = true; return nil }
func (f *fakePlayer) LocalSeek(context.Context, syncmodel.Tick) error            { return nil }
func (f *fakePlayer) LocalStop(context.Context) error                           { return nil }
func (f *fakePlayer) LocalSetCurrentPlaylistItem(context.Context, string, syncmodel.PlaylistItem) error {
	return nil
}
func (f *fakePlayer) LocalSetRepeatMode(context.Context, syncmodel.RepeatMode) error   { return nil }
func (f *fakePlayer) LocalSetShuffleMode(context.Context, syncmodel.ShuffleMode) error { return nil }
func (f *fakePlayer) BindToPlayer(func(playeradapter.Event)) error                    { return nil }
func (f *fakePlayer) UnbindFromPlayer() error                                         { return nil }

// fakeTransport is a hand-written Transport double recording every
// outbound request it receives.
type fakeTransport struct {
	unpauseCalls  int
	pauseCalls    int
	seekCalls     []syncmodel.Tick
	repeatCalls   []syncmodel.RepeatMode
	shuffleCalls  []syncmodel.ShuffleMode
	ignoreWaits   []bool
}

func (t *fakeTransport) RequestUnpause(context.Context) error { t.unpauseCalls++; return nil }
func (t *fakeTransport) RequestPause(context.Context) error   { t.pauseCalls++; return nil }
func (t *fakeTransport) RequestSeek(ctx context.Context, ticks syncmodel.Tick) error {
	t.seekCalls = append(t.seekCalls, ticks)
	return nil
}
func (t *fakeTransport) RequestStop(context.Context) error { return nil }
func (t *fakeTransport) RequestPlay(context.Context, transport.PlayRequest) error { return nil }
func (t *fakeTransport) RequestSetPlaylistItem(context.Context, string) error     { return nil }
func (t *fakeTransport) RequestRemoveFromPlaylist(context.Context, []string) error { return nil }
func (t *fakeTransport) RequestMovePlaylistItem(context.Context, string, int) error { return nil }
func (t *fakeTransport) RequestQueue(context.Context, []string, transport.QueueMode) error {
	return nil
}
func (t *fakeTransport) RequestNextTrack(context.Context, string) error     { return nil }
func (t *fakeTransport) RequestPreviousTrack(context.Context, string) error { return nil }
func (t *fakeTransport) RequestSetRepeatMode(ctx context.Context, mode syncmodel.RepeatMode) error {
	t.repeatCalls = append(t.repeatCalls, mode)
	return nil
}
func (t *fakeTransport) RequestSetShuffleMode(ctx context.Context, mode syncmodel.ShuffleMode) error {
	t.shuffleCalls = append(t.shuffleCalls, mode)
	return nil
}
func (t *fakeTransport) SetIgnoreWait(ctx context.Context, ignore bool) error {
	t.ignoreWaits = append(t.ignoreWaits, ignore)
	return nil
}
// Probe always fails: these tests drive readiness manually (via
// m.playback.MarkReady()) rather than racing a real background TimeSync
// sampling goroutine against test assertions.
func (t *fakeTransport) Probe(context.Context, uuid.UUID) (syncmodel.RemoteTime, error) {
	return syncmodel.RemoteTime{}, errProbeUnavailable
}

var errProbeUnavailable = errors.New("fakeTransport: probe unavailable")
func (t *fakeTransport) RequestBuffering(context.Context, playbackcore.BufferingRequest) error {
	return nil
}
func (t *fakeTransport) Connect(context.Context, transport.Receiver) error { return nil }
func (t *fakeTransport) Close() error                                     { return nil }

func remoteAt(seconds int64) syncmodel.RemoteTime {
	return syncmodel.RemoteTime(time.Unix(seconds, 0).UTC())
}

func newTestManager() (*Manager, *fakePlayer, *fakeTransport) {
	player := &fakePlayer{}
	m := New(player, settings.New(), "alice", nil)
	tr := &fakeTransport{}
	_ = m.Init(context.Background(), tr)
	return m, player, tr
}

func fullAccessGroup() syncmodel.GroupInfo {
	return syncmodel.GroupInfo{
		GroupID: "g1",
		AccessList: map[string]syncmodel.AccessRight{
			"alice": {PlaybackAccess: true, PlaylistAccess: true},
		},
	}
}

func TestUnpauseDeniedWithoutAccess(t *testing.T) {
	m, _, tr := newTestManager()
	m.Enable(context.Background(), syncmodel.GroupInfo{GroupID: "g1"}) // no access entries

	var gotDenial bool
	m.notify = func(name string, payload map[string]any) {
		if name == "show-message" {
			gotDenial = true
		}
	}

	if err := m.Unpause(context.Background()); err == nil {
		t.Errorf("Unpause err = nil, want access-denied error")
	}
	if tr.unpauseCalls != 0 {
		t.Errorf("unpauseCalls = %d, want 0 when access denied", tr.unpauseCalls)
	}
	if !gotDenial {
		t.Errorf("expected a show-message notification on denial")
	}
}

func TestUnpauseForwardedWithAccess(t *testing.T) {
	m, _, tr := newTestManager()
	m.Enable(context.Background(), fullAccessGroup())

	if err := m.Unpause(context.Background()); err != nil {
		t.Fatalf("Unpause err = %v, want nil", err)
	}
	if tr.unpauseCalls != 1 {
		t.Errorf("unpauseCalls = %d, want 1", tr.unpauseCalls)
	}
}

func TestProcessCommandDroppedWhenNotEnabled(t *testing.T) {
	m, _, _ := newTestManager()

	m.ProcessCommand(context.Background(), syncmodel.Command{
		Kind:      syncmodel.CommandUnpause,
		When:      remoteAt(10),
		EmittedAt: remoteAt(10),
	})

	if _, ok := m.LastCommand(); ok {
		t.Errorf("LastCommand present, want none: command should have been dropped (not enabled)")
	}
}

func TestProcessCommandQueuedWhileNotReady(t *testing.T) {
	m, _, _ := newTestManager()
	m.Enable(context.Background(), fullAccessGroup())
	// Enable does not itself make the session ready; that only happens on
	// the first TimeSync update, which this test never delivers.
	emittedAt := m.Session().EnabledAt.Add(time.Second)

	cmd := syncmodel.Command{Kind: syncmodel.CommandUnpause, When: emittedAt, EmittedAt: emittedAt}
	m.ProcessCommand(context.Background(), cmd)

	m.mu.Lock()
	queued := m.session.QueuedCommand
	m.mu.Unlock()
	if queued == nil {
		t.Fatalf("QueuedCommand = nil, want the command stored while !ready")
	}
	if !queued.SameAs(cmd) {
		t.Errorf("QueuedCommand = %+v, want %+v", *queued, cmd)
	}
}

func TestProcessCommandDroppedOnPlaylistItemMismatch(t *testing.T) {
	m, _, _ := newTestManager()
	m.Enable(context.Background(), fullAccessGroup())
	m.mu.Lock()
	m.session.Ready = true
	m.mu.Unlock()
	m.playback.MarkReady()
	emittedAt := m.Session().EnabledAt.Add(time.Second)

	cmd := syncmodel.Command{
		Kind:           syncmodel.CommandUnpause,
		When:           emittedAt,
		EmittedAt:      emittedAt,
		PlaylistItemID: "does-not-match-current",
	}
	m.ProcessCommand(context.Background(), cmd)

	if _, ok := m.LastCommand(); ok {
		t.Errorf("LastCommand present, want none: mismatched playlistItemId should drop the command")
	}
}

func TestGroupLeftDisablesSession(t *testing.T) {
	m, _, _ := newTestManager()
	m.Enable(context.Background(), fullAccessGroup())

	m.ProcessGroupUpdate(context.Background(), transport.InboundGroupUpdate{Type: transport.GroupUpdateGroupLeft})

	if m.Session().Enabled {
		t.Errorf("session still Enabled after GroupLeft")
	}
	if m.GroupInfo() != nil {
		t.Errorf("GroupInfo still set after GroupLeft")
	}
}

func TestToggleShuffleModeFlips(t *testing.T) {
	m, _, tr := newTestManager()
	m.Enable(context.Background(), fullAccessGroup())

	if err := m.ToggleShuffleMode(context.Background()); err != nil {
		t.Fatalf("ToggleShuffleMode err = %v", err)
	}
	if len(tr.shuffleCalls) != 1 || tr.shuffleCalls[0] != syncmodel.ShuffleShuffle {
		t.Errorf("shuffleCalls = %v, want [Shuffle] (model starts Sorted/empty)", tr.shuffleCalls)
	}
}

func TestOldEmittedAtDroppedAfterReconnect(t *testing.T) {
	m, _, _ := newTestManager()
	m.Enable(context.Background(), fullAccessGroup())
	m.Disable()
	m.Enable(context.Background(), fullAccessGroup()) // new enabledAt, later than remoteAt(5)

	m.ProcessCommand(context.Background(), syncmodel.Command{
		Kind:      syncmodel.CommandUnpause,
		When:      remoteAt(5),
		EmittedAt: remoteAt(5),
	})

	if _, ok := m.LastCommand(); ok {
		t.Errorf("LastCommand present, want none: emittedAt predates the new enabledAt")
	}
}
