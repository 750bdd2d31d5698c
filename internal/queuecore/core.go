// Package queuecore applies queue updates to the QueueModel and drives the
// local player whenever the current item starts or switches (spec §4.E).
// It is grounded on internal/sonos/groups.go's "replace membership
// wholesale" update handling and on internal/tui/components/queue.go's
// derivation of "current item" from a playlist slice plus an index.
package queuecore

import (
	"context"

	"github.com/nilsen-dev/syncplay/internal/playeradapter"
	"github.com/nilsen-dev/syncplay/internal/queuemodel"
	"github.com/nilsen-dev/syncplay/internal/syncmodel"
)

// PlaybackCoordinator is the slice of internal/playbackcore.Core that
// QueueCore needs: the last applied command (to extrapolate a fresh start
// position) and the ready-on-start listener.
type PlaybackCoordinator interface {
	LastCommand() (syncmodel.Command, bool)
	EstimateCurrentTicks(base syncmodel.Tick, when syncmodel.RemoteTime) syncmodel.Tick
	ScheduleReadyRequestOnPlaybackStart(onTimeout func())
}

// Transport is the narrow server-facing slice QueueCore needs.
type Transport interface {
	SetIgnoreWait(ctx context.Context, ignore bool) error
}

// NotifyFunc reports an observable event up to the caller (e.g.
// "playlistitemadd"), mirroring internal/playbackcore.NotifyFunc.
type NotifyFunc func(name string, payload map[string]any)

// Core is the queue-driven half of the scheduler pair described in spec
// §4.D/§4.E.
type Core struct {
	model    *queuemodel.QueueModel
	adapter  playeradapter.Player
	playback PlaybackCoordinator
	transport Transport
	notify   NotifyFunc

	followingGroup    func() bool
	setFollowingGroup func(bool)
	onReadyTimeout    func()
}

// New creates a Core. followingGroup/setFollowingGroup access the
// Manager-owned SessionState.followingGroup field; onReadyTimeout is
// called when the post-startPlayback ready listener times out (spec §4.D's
// "Ready-on-start", typically wired to Manager.HaltGroup).
func New(
	model *queuemodel.QueueModel,
	adapter playeradapter.Player,
	playback PlaybackCoordinator,
	transport Transport,
	notify NotifyFunc,
	followingGroup func() bool,
	setFollowingGroup func(bool),
	onReadyTimeout func(),
) *Core {
	if notify == nil {
		notify = func(string, map[string]any) {}
	}
	return &Core{
		model:             model,
		adapter:           adapter,
		playback:          playback,
		transport:         transport,
		notify:            notify,
		followingGroup:    followingGroup,
		setFollowingGroup: setFollowingGroup,
		onReadyTimeout:    onReadyTimeout,
	}
}

// UpdatePlayQueue is the entry point for a server-issued QueueUpdate.
func (c *Core) UpdatePlayQueue(ctx context.Context, update syncmodel.QueueUpdate) {
	if c.model.Apply(update) == queuemodel.Discarded {
		return
	}

	if c.adapter.IsRemote() {
		// remote-self-managed: the remote player tracks its own SyncPlay
		// session, so there is nothing local to drive.
		return
	}

	switch update.Reason {
	case syncmodel.ReasonNewPlaylist:
		if !c.followingGroup() {
			if err := c.followGroupPlayback(ctx); err != nil {
				c.notify("player-error", map[string]any{"error": err.Error()})
			}
		}
		c.startPlayback(ctx, update)

	case syncmodel.ReasonSetCurrentItem, syncmodel.ReasonNextTrack, syncmodel.ReasonPreviousTrack:
		if !c.followingGroup() {
			return
		}
		c.switchCurrentItem(ctx, update)

	case syncmodel.ReasonRemoveItems:
		if c.model.RealPlaylistItemID() != c.model.CurrentPlaylistItemID() {
			c.switchCurrentItem(ctx, update)
		}

	case syncmodel.ReasonMoveItem, syncmodel.ReasonQueue, syncmodel.ReasonQueueNext:
		c.notify("playlistitemadd", map[string]any{"reason": string(update.Reason)})

	case syncmodel.ReasonRepeatMode:
		if err := c.adapter.LocalSetRepeatMode(ctx, update.RepeatMode); err != nil {
			c.notify("player-error", map[string]any{"error": err.Error()})
		}

	case syncmodel.ReasonShuffleMode:
		if err := c.adapter.LocalSetShuffleMode(ctx, update.ShuffleMode); err != nil {
			c.notify("player-error", map[string]any{"error": err.Error()})
		}
	}
}

func (c *Core) followGroupPlayback(ctx context.Context) error {
	if c.transport != nil {
		if err := c.transport.SetIgnoreWait(ctx, false); err != nil {
			return err
		}
	}
	if c.setFollowingGroup != nil {
		c.setFollowingGroup(true)
	}
	return nil
}

func (c *Core) switchCurrentItem(ctx context.Context, update syncmodel.QueueUpdate) {
	itemID := c.model.CurrentPlaylistItemID()
	item := syncmodel.PlaylistItem{PlaylistItemID: itemID}
	if err := c.adapter.LocalSetCurrentPlaylistItem(ctx, itemID, item); err != nil {
		c.notify("player-error", map[string]any{"error": err.Error()})
		return
	}
	c.model.SetRealPlaylistItemID(itemID)
}

// startPlayback begins (or restarts) local playback for update, per spec
// §4.E. The start position prefers extrapolating from the most recently
// applied playback command when that command is fresher than the update;
// otherwise it extrapolates from the update's own startPositionTicks.
func (c *Core) startPlayback(ctx context.Context, update syncmodel.QueueUpdate) {
	if len(update.Playlist) == 0 {
		return
	}

	startTicks := c.resolveStartPositionTicks(update)

	ids := make([]string, len(update.Playlist))
	for i, item := range update.Playlist {
		ids[i] = item.PlaylistItemID
	}

	opts := playeradapter.PlayOptions{
		ItemIDs:            ids,
		StartPositionTicks: startTicks,
		StartIndex:         update.CurrentIndex,
		ServerID:           update.CurrentItemID(),
	}
	if err := c.adapter.LocalPlay(ctx, opts); err != nil {
		c.notify("player-error", map[string]any{"error": err.Error()})
		return
	}

	if c.playback != nil {
		c.playback.ScheduleReadyRequestOnPlaybackStart(c.onReadyTimeout)
	}
	c.model.SetRealPlaylistItemID(update.CurrentItemID())
}

func (c *Core) resolveStartPositionTicks(update syncmodel.QueueUpdate) syncmodel.Tick {
	if c.playback != nil {
		if lastCmd, ok := c.playback.LastCommand(); ok && !lastCmd.EmittedAt.Before(update.LastUpdate) {
			return c.playback.EstimateCurrentTicks(lastCmd.PositionOrZero(), lastCmd.When)
		}
		return c.playback.EstimateCurrentTicks(update.StartPositionTicks, update.LastUpdate)
	}
	return update.StartPositionTicks
}
