// Package playbackcore is the command scheduler and drift corrector (spec
// §4.D): it turns a server-issued Command into exactly the right sequence
// of calls against a playeradapter.Player, at exactly the right local
// time, and keeps drifting playback nudged back in line afterward.
//
// The one-shot scheduled-action timer and its cancel-on-superseding-command
// discipline are grounded on the teacher's spotify/client.Client's
// single-flight retry timer. The waitForEvent mechanism used to sequence
// "unpause, then seek once playback actually starts" is grounded on
// internal/tail.Watcher's poll-and-diff loop, generalized from polling to
// an event-driven wait with a timeout.
package playbackcore

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nilsen-dev/syncplay/internal/playeradapter"
	"github.com/nilsen-dev/syncplay/internal/syncmodel"
)

// TimeSource is the timesync capability the scheduler needs: converting
// between the server's clock and the local one.
type TimeSource interface {
	LocalToRemote(l syncmodel.LocalTime) syncmodel.RemoteTime
	RemoteToLocal(r syncmodel.RemoteTime) syncmodel.LocalTime
}

// NotifyFunc reports an observable event (e.g. "syncing", "notify-osd") up
// to whatever is watching, typically internal/manager relaying to the TUI.
type NotifyFunc func(name string, payload map[string]any)

type waiter struct {
	eventType playeradapter.EventType
	timer     *time.Timer
	fire      func(e playeradapter.Event, timedOut bool)
	fired     bool
}

// Core schedules and executes playback commands, and continuously nudges
// playback position back toward the group's estimated position once a
// command has fired.
type Core struct {
	adapter  playeradapter.Player
	ts       TimeSource
	settings SettingsReader
	buffer   BufferingReporter
	notify   NotifyFunc

	// currentItemID supplies the playlist item id for buffering payloads;
	// injected because the scheduler has no queue of its own (spec §4.C
	// owns that state).
	currentItemID func() string

	driftLimiter *rate.Limiter

	mu sync.Mutex

	state State

	lastCommand *syncmodel.Command

	syncEnabled bool

	scheduledTimer    *time.Timer
	syncEnableTimer   *time.Timer
	bufferingTimer    *time.Timer
	driftDisableTimer *time.Timer

	bufferingActive bool

	waiters []*waiter
}

// New creates a Core. adapter, ts and settings must be non-nil; buffer,
// notify and currentItemID may be nil, in which case buffering requests
// and notifications are silently dropped.
func New(adapter playeradapter.Player, ts TimeSource, settings SettingsReader, buffer BufferingReporter, notify NotifyFunc, currentItemID func() string) *Core {
	if notify == nil {
		notify = func(string, map[string]any) {}
	}
	if currentItemID == nil {
		currentItemID = func() string { return "" }
	}
	return &Core{
		adapter:       adapter,
		ts:            ts,
		settings:      settings,
		buffer:        buffer,
		notify:        notify,
		currentItemID: currentItemID,
		state:         StateDisabled,
		driftLimiter:  rate.NewLimiter(rate.Every(settings.MaxDelaySpeedToSync()/2), 1),
	}
}

// State returns the scheduler's current lifecycle state.
func (c *Core) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastCommand returns the most recently applied command, if any.
func (c *Core) LastCommand() (syncmodel.Command, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastCommand == nil {
		return syncmodel.Command{}, false
	}
	return *c.lastCommand, true
}

// Enable starts binding to the adapter's event stream. The caller (usually
// internal/manager) transitions to Idle via MarkReady once TimeSync has
// reported its first update.
func (c *Core) Enable() error {
	c.mu.Lock()
	c.state = StateEnabling
	c.mu.Unlock()
	return c.adapter.BindToPlayer(c.HandleEvent)
}

// MarkReady moves an Enabling core to Idle.
func (c *Core) MarkReady() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateEnabling {
		c.state = StateIdle
	}
}

// Reenable moves a live core back to Enabling, per spec §4.D's "any ->
// Enabling on timeSyncLost" transition. A Disabled core is unaffected;
// there is nothing to re-sync until Enable is called again.
func (c *Core) Reenable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDisabled {
		c.state = StateEnabling
	}
}

// Disable cancels every pending timer and waiter and clears session state,
// per spec §5's cancellation discipline.
func (c *Core) Disable() error {
	c.mu.Lock()
	c.cancelScheduledLocked()
	c.cancelSyncEnableLocked()
	c.cancelBufferingLocked()
	c.cancelDriftDisableLocked()
	for _, w := range c.waiters {
		w.timer.Stop()
	}
	c.waiters = nil
	c.lastCommand = nil
	c.syncEnabled = false
	c.bufferingActive = false
	c.state = StateDisabled
	c.mu.Unlock()

	return c.adapter.UnbindFromPlayer()
}

func (c *Core) cancelScheduledLocked() {
	if c.scheduledTimer != nil {
		c.scheduledTimer.Stop()
		c.scheduledTimer = nil
	}
}

func (c *Core) cancelSyncEnableLocked() {
	if c.syncEnableTimer != nil {
		c.syncEnableTimer.Stop()
		c.syncEnableTimer = nil
	}
}

func (c *Core) cancelBufferingLocked() {
	if c.bufferingTimer != nil {
		c.bufferingTimer.Stop()
		c.bufferingTimer = nil
	}
}

func (c *Core) cancelDriftDisableLocked() {
	if c.driftDisableTimer != nil {
		c.driftDisableTimer.Stop()
		c.driftDisableTimer = nil
	}
}

// waitForEvent registers a one-shot listener for the next occurrence of
// eventType, or timeout if it never comes.
func (c *Core) waitForEvent(eventType playeradapter.EventType, timeout time.Duration, cb func(e playeradapter.Event, timedOut bool)) {
	w := &waiter{eventType: eventType, fire: cb}
	c.mu.Lock()
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()

	w.timer = time.AfterFunc(timeout, func() {
		c.mu.Lock()
		if w.fired {
			c.mu.Unlock()
			return
		}
		w.fired = true
		c.removeWaiterLocked(w)
		c.mu.Unlock()
		cb(playeradapter.Event{}, true)
	})
}

func (c *Core) removeWaiterLocked(w *waiter) {
	for i, other := range c.waiters {
		if other == w {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}

// HandleEvent is the single entry point for normalized player events,
// wired up via adapter.BindToPlayer in Enable.
func (c *Core) HandleEvent(e playeradapter.Event) {
	c.mu.Lock()
	var fired []*waiter
	remaining := c.waiters[:0:0]
	for _, w := range c.waiters {
		if !w.fired && w.eventType == e.Type {
			w.fired = true
			w.timer.Stop()
			fired = append(fired, w)
			continue
		}
		remaining = append(remaining, w)
	}
	c.waiters = remaining
	c.mu.Unlock()

	for _, w := range fired {
		w.fire(e, false)
	}

	switch e.Type {
	case playeradapter.EventTimeUpdate:
		c.onTimeUpdate()
	case playeradapter.EventWaiting:
		c.onWaiting()
	case playeradapter.EventPlaying:
		c.onPlayingRecovered()
	}
}

// ScheduleReadyRequestOnPlaybackStart arms a one-shot listener for the next
// playbackstart event, used by queuecore right after it drives the local
// player into a freshly (re)started item. When it fires, the player is
// paused and a buffering-done request is sent. On timeout onTimeout is
// invoked so the caller can fall back to halting group playback (spec
// §4.D's "ready request" section).
func (c *Core) ScheduleReadyRequestOnPlaybackStart(onTimeout func()) {
	c.waitForEvent(playeradapter.EventPlaybackStart, 30*time.Second, func(e playeradapter.Event, timedOut bool) {
		if timedOut {
			if onTimeout != nil {
				onTimeout()
			}
			return
		}
		_ = c.adapter.LocalPause(context.Background())
		c.sendBuffering(false, true)
	})
}

// ApplyCommand is the entry point for a server-issued Command (spec §4.D).
// Duplicate detection compares {when, positionTicks, command,
// playlistItemId} via Command.SameAs, deliberately ignoring emittedAt: a
// retransmit after a reconnect carries a fresh emittedAt but is otherwise
// the identical command, and must still take the repair path below rather
// than being treated as new.
func (c *Core) ApplyCommand(ctx context.Context, cmd syncmodel.Command) {
	c.mu.Lock()
	if c.lastCommand != nil && cmd.SameAs(*c.lastCommand) {
		c.mu.Unlock()
		c.applyDuplicate(cmd)
		return
	}

	c.lastCommand = &cmd
	c.cancelScheduledLocked()
	c.cancelSyncEnableLocked()

	if c.adapter.IsRemote() {
		// remote-self-managed: the receiver's own player runs its own
		// SyncPlay client, so there is nothing local to schedule.
		c.mu.Unlock()
		return
	}

	fireAt := c.ts.RemoteToLocal(cmd.When)
	now := syncmodel.Now()
	if !fireAt.After(now) {
		// fireAt is already in the past: the Unpause table's "if fireAt
		// was already past" branch applies to this fire, not just to
		// duplicate repairs.
		c.mu.Unlock()
		c.fire(ctx, cmd, true, false)
		return
	}

	delay := fireAt.Sub(now)
	c.state = StateScheduled
	c.scheduledTimer = time.AfterFunc(delay, func() {
		c.fire(context.Background(), cmd, false, false)
	})
	c.mu.Unlock()
}

// applyDuplicate handles a re-delivery of the already-applied command: a
// still-future firing time is ignored (already scheduled), a past firing
// time is re-checked against the live player state and repaired only if it
// has actually diverged.
func (c *Core) applyDuplicate(cmd syncmodel.Command) {
	fireAt := c.ts.RemoteToLocal(cmd.When)
	now := syncmodel.Now()
	if fireAt.After(now) {
		return
	}
	if !c.stateDiverges(cmd) {
		return
	}

	c.mu.Lock()
	c.lastCommand = &cmd
	c.cancelScheduledLocked()
	c.mu.Unlock()

	c.fire(context.Background(), cmd, true, true)
}

func (c *Core) stateDiverges(cmd syncmodel.Command) bool {
	threshold := c.settings.MinDelaySkipToSync()
	switch cmd.Kind {
	case syncmodel.CommandUnpause:
		if !c.adapter.IsPlaying() {
			return true
		}
		want := c.estimateCurrentTicks(cmd.PositionOrZero(), cmd.When)
		return absTicks(c.adapter.CurrentTicks()-want).Duration() > threshold
	case syncmodel.CommandPause:
		if c.adapter.IsPlaying() {
			return true
		}
		return absTicks(c.adapter.CurrentTicks()-cmd.PositionOrZero()).Duration() > threshold
	case syncmodel.CommandSeek:
		return absTicks(c.adapter.CurrentTicks()-cmd.PositionOrZero()).Duration() > threshold
	case syncmodel.CommandStop:
		return c.adapter.IsPlaybackActive()
	default:
		return false
	}
}

func absTicks(t syncmodel.Tick) syncmodel.Tick {
	if t < 0 {
		return -t
	}
	return t
}

// estimateCurrentTicks projects base forward from when it was recorded to
// the current instant, using the group's clock (spec §4.D:
// estimateCurrentTicks(ticks, when) = ticks + (localToRemote(now) - when)).
func (c *Core) estimateCurrentTicks(base syncmodel.Tick, when syncmodel.RemoteTime) syncmodel.Tick {
	elapsed := c.ts.LocalToRemote(syncmodel.Now()).Sub(when)
	return base + syncmodel.TicksFromDuration(elapsed)
}

// EstimateCurrentTicks exposes estimateCurrentTicks for internal/queuecore,
// which needs the identical projection when computing a fresh item's start
// position (spec §4.E's startPlayback).
func (c *Core) EstimateCurrentTicks(base syncmodel.Tick, when syncmodel.RemoteTime) syncmodel.Tick {
	return c.estimateCurrentTicks(base, when)
}

func (c *Core) fire(ctx context.Context, cmd syncmodel.Command, wasLate, isRepair bool) {
	switch cmd.Kind {
	case syncmodel.CommandUnpause:
		c.fireUnpause(ctx, cmd, wasLate)
	case syncmodel.CommandPause:
		c.firePause(ctx, cmd)
	case syncmodel.CommandSeek:
		c.fireSeek(ctx, cmd, isRepair)
	case syncmodel.CommandStop:
		c.fireStop(ctx, cmd)
	}
}

func (c *Core) fireUnpause(ctx context.Context, cmd syncmodel.Command, wasLate bool) {
	target := cmd.PositionOrZero()
	if absTicks(c.adapter.CurrentTicks()-target).Duration() > c.settings.MinDelaySkipToSync() {
		_ = c.adapter.LocalSeek(ctx, target)
	}

	if wasLate {
		c.waitForEvent(playeradapter.EventUnpause, 2*time.Second, func(e playeradapter.Event, timedOut bool) {
			if timedOut {
				return
			}
			estimated := c.estimateCurrentTicks(target, cmd.When)
			_ = c.adapter.LocalSeek(context.Background(), estimated)
		})
	}

	if err := c.adapter.LocalUnpause(ctx); err != nil {
		c.notify("player-error", map[string]any{"error": err.Error()})
		return
	}
	c.notify("notify-osd", map[string]any{"message": "unpause"})

	c.mu.Lock()
	c.cancelSyncEnableLocked()
	delay := c.settings.MaxDelaySpeedToSync() / 2
	c.syncEnableTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		c.syncEnabled = true
		c.state = StateSyncing
		c.mu.Unlock()
	})
	c.mu.Unlock()
}

func (c *Core) firePause(ctx context.Context, cmd syncmodel.Command) {
	target := cmd.PositionOrZero()
	c.waitForEvent(playeradapter.EventPause, 500*time.Millisecond, func(e playeradapter.Event, timedOut bool) {
		_ = c.adapter.LocalSeek(context.Background(), target)
	})

	if err := c.adapter.LocalPause(ctx); err != nil {
		c.notify("player-error", map[string]any{"error": err.Error()})
	}

	c.mu.Lock()
	c.syncEnabled = false
	c.state = StateIdle
	c.mu.Unlock()
}

// seekJitter returns a random offset in ±(50ms worth of ticks), used to
// guarantee a repaired duplicate Seek is observably different from the one
// the player may have already silently no-op'd (spec §4.D's
// "duplicate-with-past-fireAt repair").
func seekJitter() syncmodel.Tick {
	const span = 50 * syncmodel.TicksPerMillisecond
	return syncmodel.Tick(rand.Int63n(int64(2*span+1))) - span
}

func (c *Core) fireSeek(ctx context.Context, cmd syncmodel.Command, isRepair bool) {
	target := cmd.PositionOrZero()
	if isRepair {
		target += seekJitter()
	}

	if err := c.adapter.LocalUnpause(ctx); err != nil {
		c.notify("player-error", map[string]any{"error": err.Error()})
	}
	if err := c.adapter.LocalSeek(ctx, target); err != nil {
		c.notify("player-error", map[string]any{"error": err.Error()})
	}

	c.mu.Lock()
	c.state = StateBuffering
	c.mu.Unlock()

	c.waitForEvent(playeradapter.EventPlaying, 30*time.Second, func(e playeradapter.Event, timedOut bool) {
		if timedOut {
			_ = c.adapter.LocalSeek(context.Background(), target)
			return
		}
		_ = c.adapter.LocalPause(context.Background())
		c.sendBuffering(false, true)

		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
	})
}

func (c *Core) fireStop(ctx context.Context, cmd syncmodel.Command) {
	if err := c.adapter.LocalStop(ctx); err != nil {
		c.notify("player-error", map[string]any{"error": err.Error()})
	}
	c.mu.Lock()
	c.syncEnabled = false
	c.state = StateIdle
	c.mu.Unlock()
}

// onTimeUpdate is the drift-correction tick (spec §4.D). It is throttled to
// at most every maxDelaySpeedToSync/2 by driftLimiter so the group is not
// flooded with corrections while playing. The limit is refreshed from
// settings on every tick rather than fixed at construction, so an
// in-session Settings.Set(KeyMaxDelaySpeedToSync, ...) takes effect on the
// very next timeupdate instead of being silently ignored.
func (c *Core) onTimeUpdate() {
	c.mu.Lock()
	lastCmd := c.lastCommand
	enabled := c.syncEnabled
	c.mu.Unlock()

	if !enabled || lastCmd == nil || lastCmd.Kind != syncmodel.CommandUnpause {
		return
	}
	if !c.adapter.IsPlaying() {
		return
	}
	c.driftLimiter.SetLimit(rate.Every(c.settings.MaxDelaySpeedToSync() / 2))
	if !c.driftLimiter.Allow() {
		return
	}

	target := c.estimateCurrentTicks(lastCmd.PositionOrZero(), lastCmd.When)
	diffMillis := (target - c.adapter.CurrentTicks()).Millis()
	c.applyDriftCorrection(diffMillis)
}

func (c *Core) applyDriftCorrection(diffMillis int64) {
	abs := diffMillis
	if abs < 0 {
		abs = -abs
	}

	minSpeed := c.settings.MinDelaySpeedToSync().Milliseconds()
	maxSpeed := c.settings.MaxDelaySpeedToSync().Milliseconds()
	minSkip := c.settings.MinDelaySkipToSync().Milliseconds()

	switch {
	case c.adapter.HasPlaybackRate() && c.settings.UseSpeedToSync() && abs >= minSpeed && abs < maxSpeed:
		c.speedToSync(diffMillis)
	case c.settings.UseSkipToSync() && abs >= minSkip:
		c.skipToSync()
	}
}

// speedToSync nudges the playback rate for a bounded duration rather than
// jumping, per spec §4.D. A large negative diff (playback far ahead of the
// group) stretches the correction window instead of driving the rate below
// the 0.1 floor.
func (c *Core) speedToSync(diffMillis int64) {
	target := float64(c.settings.SpeedToSyncDuration().Milliseconds())
	diff := float64(diffMillis)
	if diff <= -0.1*target {
		target = -diff / 0.9
	}

	newRate := 1 + diff/target
	if newRate < 0.1 {
		newRate = 0.1
	}
	dur := time.Duration(target) * time.Millisecond

	c.notify("syncing", map[string]any{"method": "speed", "rate": newRate, "diffMillis": diffMillis})
	_ = c.adapter.SetPlaybackRate(context.Background(), newRate)
	c.disableSyncFor(dur, func() {
		_ = c.adapter.SetPlaybackRate(context.Background(), 1.0)
	})
}

func (c *Core) skipToSync() {
	c.mu.Lock()
	lastCmd := c.lastCommand
	c.mu.Unlock()
	if lastCmd == nil {
		return
	}
	target := c.estimateCurrentTicks(lastCmd.PositionOrZero(), lastCmd.When)
	half := c.settings.MaxDelaySpeedToSync() / 2

	c.notify("syncing", map[string]any{"method": "skip"})
	_ = c.adapter.LocalSeek(context.Background(), target)
	c.disableSyncFor(half, nil)
}

// disableSyncFor suspends drift correction for d, running after (if given)
// then re-enabling once the player has had time to settle.
func (c *Core) disableSyncFor(d time.Duration, after func()) {
	c.mu.Lock()
	c.syncEnabled = false
	c.cancelDriftDisableLocked()
	c.driftDisableTimer = time.AfterFunc(d, func() {
		if after != nil {
			after()
		}
		c.mu.Lock()
		c.syncEnabled = true
		if c.state != StateBuffering {
			c.state = StateSyncing
		}
		c.mu.Unlock()
	})
	c.mu.Unlock()
}

// onWaiting arms the buffering-report timer: if the player is still
// waiting for data after minBufferingThreshold, tell the group.
func (c *Core) onWaiting() {
	c.mu.Lock()
	c.cancelBufferingLocked()
	threshold := c.settings.MinBufferingThreshold()
	c.bufferingTimer = time.AfterFunc(threshold, func() {
		c.mu.Lock()
		c.bufferingActive = true
		c.state = StateBuffering
		c.mu.Unlock()
		c.sendBuffering(false, false)
	})
	c.mu.Unlock()
}

func (c *Core) onPlayingRecovered() {
	c.mu.Lock()
	c.cancelBufferingLocked()
	wasBuffering := c.bufferingActive
	c.bufferingActive = false
	if c.state == StateBuffering {
		c.state = StateSyncing
	}
	c.mu.Unlock()

	if wasBuffering {
		c.sendBuffering(true, true)
	}
}

func (c *Core) sendBuffering(isPlaying, done bool) {
	if c.buffer == nil {
		return
	}
	_ = c.buffer.RequestBuffering(context.Background(), BufferingRequest{
		When:           c.ts.LocalToRemote(syncmodel.Now()),
		PositionTicks:  c.adapter.CurrentTicks(),
		IsPlaying:      isPlaying,
		PlaylistItemID: c.currentItemID(),
		Done:           done,
	})
}
