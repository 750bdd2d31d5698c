package playeradapter

import (
	"context"
	"testing"

	"github.com/nilsen-dev/syncplay/internal/syncmodel"
)

// fakeEngine is a hand-written test double, matching the teacher's
// convention of writing fakes by hand rather than via a mocking library.
type fakeEngine struct {
	playing     bool
	ticks       syncmodel.Tick
	rate        float64
	hasRate     bool
	listeners   []func(Event)
	playCalls   int
	pauseCalls  int
	seekTargets []syncmodel.Tick
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{rate: 1.0, hasRate: true}
}

func (f *fakeEngine) Play(ctx context.Context, opts PlayOptions) error {
	f.playCalls++
	f.playing = true
	f.ticks = opts.StartPositionTicks
	return nil
}
func (f *fakeEngine) Pause(ctx context.Context) error {
	f.pauseCalls++
	f.playing = false
	return nil
}
func (f *fakeEngine) Unpause(ctx context.Context) error { f.playing = true; return nil }
func (f *fakeEngine) Seek(ctx context.Context, ticks syncmodel.Tick) error {
	f.seekTargets = append(f.seekTargets, ticks)
	f.ticks = ticks
	return nil
}
func (f *fakeEngine) Stop(ctx context.Context) error { f.playing = false; return nil }
func (f *fakeEngine) SetCurrentPlaylistItem(ctx context.Context, id string, item syncmodel.PlaylistItem) error {
	return nil
}
func (f *fakeEngine) SetRepeatMode(ctx context.Context, mode syncmodel.RepeatMode) error   { return nil }
func (f *fakeEngine) SetShuffleMode(ctx context.Context, mode syncmodel.ShuffleMode) error { return nil }
func (f *fakeEngine) IsPlaybackActive() bool                                               { return f.playing }
func (f *fakeEngine) IsPlaying() bool                                                       { return f.playing }
func (f *fakeEngine) CurrentTicks() syncmodel.Tick                                          { return f.ticks }
func (f *fakeEngine) HasPlaybackRate() bool                                                 { return f.hasRate }
func (f *fakeEngine) PlaybackRate() float64                                                 { return f.rate }
func (f *fakeEngine) SetPlaybackRate(ctx context.Context, rate float64) error {
	f.rate = rate
	return nil
}
func (f *fakeEngine) Subscribe(listener func(Event)) func() {
	f.listeners = append(f.listeners, listener)
	idx := len(f.listeners) - 1
	return func() { f.listeners[idx] = nil }
}
func (f *fakeEngine) emit(e Event) {
	for _, l := range f.listeners {
		if l != nil {
			l(e)
		}
	}
}

func TestLocalPlaySeekPause(t *testing.T) {
	engine := newFakeEngine()
	adapter := NewLocal(engine)
	ctx := context.Background()

	if err := adapter.LocalPlay(ctx, PlayOptions{StartPositionTicks: 1000}); err != nil {
		t.Fatalf("LocalPlay error: %v", err)
	}
	if !adapter.IsPlaying() {
		t.Errorf("IsPlaying() = false after play")
	}

	if err := adapter.LocalSeek(ctx, 5000); err != nil {
		t.Fatalf("LocalSeek error: %v", err)
	}
	if adapter.CurrentTicks() != 5000 {
		t.Errorf("CurrentTicks() = %d, want 5000", adapter.CurrentTicks())
	}

	if err := adapter.LocalPause(ctx); err != nil {
		t.Fatalf("LocalPause error: %v", err)
	}
	if adapter.IsPlaying() {
		t.Errorf("IsPlaying() = true after pause")
	}
}

func TestLocalBindUnbindForwardsEvents(t *testing.T) {
	engine := newFakeEngine()
	adapter := NewLocal(engine)

	var received []Event
	if err := adapter.BindToPlayer(func(e Event) { received = append(received, e) }); err != nil {
		t.Fatalf("BindToPlayer error: %v", err)
	}

	engine.emit(Event{Type: EventPlaying})
	if len(received) != 1 {
		t.Fatalf("expected 1 event after bind, got %d", len(received))
	}

	if err := adapter.UnbindFromPlayer(); err != nil {
		t.Fatalf("UnbindFromPlayer error: %v", err)
	}
	engine.emit(Event{Type: EventPause})
	if len(received) != 1 {
		t.Errorf("expected no events after unbind, got %d total", len(received))
	}
}

func TestRemoteAdapterNeverDrivesEngine(t *testing.T) {
	adapter := NewRemote()
	ctx := context.Background()

	if !adapter.IsRemote() {
		t.Fatal("IsRemote() = false, want true")
	}

	// None of these should panic or error; they must be pure no-ops.
	_ = adapter.LocalPlay(ctx, PlayOptions{})
	_ = adapter.LocalPause(ctx)
	_ = adapter.LocalUnpause(ctx)
	_ = adapter.LocalSeek(ctx, 100)
	_ = adapter.LocalStop(ctx)

	if adapter.IsPlaying() {
		t.Errorf("Remote.IsPlaying() = true, want false (no engine)")
	}
}
