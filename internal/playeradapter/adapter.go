// Package playeradapter provides a uniform capability over heterogeneous
// underlying media players (spec §4.B). It generalizes the teacher's
// internal/core.Player interface: instead of one interface implemented by
// a Spotify client and a Sonos client, it is implemented by a Local
// adapter (drives an in-process MediaEngine directly) and a Remote adapter
// (defers to a player that manages its own SyncPlay session, per the
// "remote-self-managed" branch in spec §4.D/§4.E).
package playeradapter

import (
	"context"
	"sync"

	"github.com/nilsen-dev/syncplay/internal/syncmodel"
)

// EventType identifies a normalized player event.
type EventType int

const (
	EventPlaying EventType = iota
	EventWaiting
	EventPause
	EventUnpause
	EventTimeUpdate
	EventPlaybackStart
	EventPlaybackStop
)

func (e EventType) String() string {
	switch e {
	case EventPlaying:
		return "playing"
	case EventWaiting:
		return "waiting"
	case EventPause:
		return "pause"
	case EventUnpause:
		return "unpause"
	case EventTimeUpdate:
		return "timeupdate"
	case EventPlaybackStart:
		return "playbackstart"
	case EventPlaybackStop:
		return "playbackstop"
	default:
		return "unknown"
	}
}

// Event is a normalized notification emitted by a Player after
// bindToPlayer, mirroring the teacher's tail.Event shape.
type Event struct {
	Type           EventType
	At             syncmodel.LocalTime
	PositionTicks  syncmodel.Tick
	PlaylistItemID string
}

// PlayOptions parameters a localPlay call (spec §4.E's
// localPlay({ ids, startPositionTicks, startIndex, serverId })).
type PlayOptions struct {
	ItemIDs            []string
	StartPositionTicks syncmodel.Tick
	StartIndex         int
	ServerID           string
}

// Player is the capability set spec §4.B requires of every adapter
// variant. Each local* method blocks until the underlying engine has
// acknowledged the request; a returned error is a categorized failure
// (see internal/syncerr), not necessarily that the action is impossible to
// retry.
type Player interface {
	IsPlaybackActive() bool
	IsPlaying() bool
	CurrentTicks() syncmodel.Tick
	HasPlaybackRate() bool
	SetPlaybackRate(ctx context.Context, rate float64) error
	PlaybackRate() float64
	IsRemote() bool

	LocalPlay(ctx context.Context, opts PlayOptions) error
	LocalPause(ctx context.Context) error
	LocalUnpause(ctx context.Context) error
	LocalSeek(ctx context.Context, ticks syncmodel.Tick) error
	LocalStop(ctx context.Context) error
	LocalSetCurrentPlaylistItem(ctx context.Context, itemID string, item syncmodel.PlaylistItem) error
	LocalSetRepeatMode(ctx context.Context, mode syncmodel.RepeatMode) error
	LocalSetShuffleMode(ctx context.Context, mode syncmodel.ShuffleMode) error

	// BindToPlayer starts forwarding underlying engine events to sink.
	// UnbindFromPlayer stops forwarding. The underlying engine outlives the
	// adapter; bind/unbind only scope the forwarding subscription.
	BindToPlayer(sink func(Event)) error
	UnbindFromPlayer() error
}

// MediaEngine is the opaque in-process media engine capability consumed by
// the Local adapter — the concrete surface the surrounding receiver
// application supplies (rendering, demuxing, etc. are all out of scope
// here, per spec §1).
type MediaEngine interface {
	Play(ctx context.Context, opts PlayOptions) error
	Pause(ctx context.Context) error
	Unpause(ctx context.Context) error
	Seek(ctx context.Context, ticks syncmodel.Tick) error
	Stop(ctx context.Context) error
	SetCurrentPlaylistItem(ctx context.Context, itemID string, item syncmodel.PlaylistItem) error
	SetRepeatMode(ctx context.Context, mode syncmodel.RepeatMode) error
	SetShuffleMode(ctx context.Context, mode syncmodel.ShuffleMode) error

	IsPlaybackActive() bool
	IsPlaying() bool
	CurrentTicks() syncmodel.Tick
	HasPlaybackRate() bool
	SetPlaybackRate(ctx context.Context, rate float64) error
	PlaybackRate() float64

	// Subscribe registers a listener for engine events and returns an
	// unsubscribe function.
	Subscribe(listener func(Event)) (unsubscribe func())
}

var _ Player = (*Local)(nil)
var _ Player = (*Remote)(nil)

// Local drives an in-process MediaEngine directly.
type Local struct {
	engine MediaEngine

	mu          sync.Mutex
	unsubscribe func()
}

// NewLocal creates a Local adapter over engine.
func NewLocal(engine MediaEngine) *Local {
	return &Local{engine: engine}
}

func (l *Local) IsRemote() bool { return false }

func (l *Local) IsPlaybackActive() bool { return l.engine.IsPlaybackActive() }
func (l *Local) IsPlaying() bool        { return l.engine.IsPlaying() }
func (l *Local) CurrentTicks() syncmodel.Tick {
	return l.engine.CurrentTicks()
}
func (l *Local) HasPlaybackRate() bool { return l.engine.HasPlaybackRate() }
func (l *Local) PlaybackRate() float64 { return l.engine.PlaybackRate() }

func (l *Local) SetPlaybackRate(ctx context.Context, rate float64) error {
	return l.engine.SetPlaybackRate(ctx, rate)
}

func (l *Local) LocalPlay(ctx context.Context, opts PlayOptions) error {
	return l.engine.Play(ctx, opts)
}

func (l *Local) LocalPause(ctx context.Context) error {
	return l.engine.Pause(ctx)
}

func (l *Local) LocalUnpause(ctx context.Context) error {
	return l.engine.Unpause(ctx)
}

func (l *Local) LocalSeek(ctx context.Context, ticks syncmodel.Tick) error {
	return l.engine.Seek(ctx, ticks)
}

func (l *Local) LocalStop(ctx context.Context) error {
	return l.engine.Stop(ctx)
}

func (l *Local) LocalSetCurrentPlaylistItem(ctx context.Context, itemID string, item syncmodel.PlaylistItem) error {
	return l.engine.SetCurrentPlaylistItem(ctx, itemID, item)
}

func (l *Local) LocalSetRepeatMode(ctx context.Context, mode syncmodel.RepeatMode) error {
	return l.engine.SetRepeatMode(ctx, mode)
}

func (l *Local) LocalSetShuffleMode(ctx context.Context, mode syncmodel.ShuffleMode) error {
	return l.engine.SetShuffleMode(ctx, mode)
}

func (l *Local) BindToPlayer(sink func(Event)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.unsubscribe != nil {
		l.unsubscribe()
	}
	l.unsubscribe = l.engine.Subscribe(sink)
	return nil
}

func (l *Local) UnbindFromPlayer() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.unsubscribe != nil {
		l.unsubscribe()
		l.unsubscribe = nil
	}
	return nil
}

// Remote defers to a player that runs elsewhere and manages its own
// SyncPlay session; every local* call is a no-op (spec §4.B, §4.D's
// "remote-self-managed" branch, invariant 6 in spec §8).
type Remote struct {
	mu          sync.Mutex
	unsubscribe func()
}

// NewRemote creates a Remote adapter.
func NewRemote() *Remote {
	return &Remote{}
}

func (r *Remote) IsRemote() bool { return true }

func (r *Remote) IsPlaybackActive() bool          { return false }
func (r *Remote) IsPlaying() bool                 { return false }
func (r *Remote) CurrentTicks() syncmodel.Tick    { return 0 }
func (r *Remote) HasPlaybackRate() bool           { return false }
func (r *Remote) PlaybackRate() float64           { return 1.0 }
func (r *Remote) SetPlaybackRate(context.Context, float64) error { return nil }

func (r *Remote) LocalPlay(context.Context, PlayOptions) error                          { return nil }
func (r *Remote) LocalPause(context.Context) error                                      { return nil }
func (r *Remote) LocalUnpause(context.Context) error                                    { return nil }
func (r *Remote) LocalSeek(context.Context, syncmodel.Tick) error                        { return nil }
func (r *Remote) LocalStop(context.Context) error                                       { return nil }
func (r *Remote) LocalSetCurrentPlaylistItem(context.Context, string, syncmodel.PlaylistItem) error {
	return nil
}
func (r *Remote) LocalSetRepeatMode(context.Context, syncmodel.RepeatMode) error   { return nil }
func (r *Remote) LocalSetShuffleMode(context.Context, syncmodel.ShuffleMode) error { return nil }

func (r *Remote) BindToPlayer(sink func(Event)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribe = func() {}
	return nil
}

func (r *Remote) UnbindFromPlayer() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribe = nil
	return nil
}
