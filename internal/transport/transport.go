// Package transport declares the server-facing capability Manager
// consumes (spec §6): outbound SyncPlay requests and the inbound message
// shapes a concrete transport must deliver back to a Receiver. It mirrors
// the teacher's internal/spotify/client.Client's role as "the one thing
// that talks to the network", generalized from a REST client to a
// push/pull websocket session.
package transport

import (
	"context"

	"github.com/google/uuid"

	"github.com/nilsen-dev/syncplay/internal/playbackcore"
	"github.com/nilsen-dev/syncplay/internal/syncmodel"
)

// QueueMode selects whether a Queue request appends or inserts next.
type QueueMode string

const (
	QueueModeDefault QueueMode = "default"
	QueueModeNext    QueueMode = "next"
)

// PlayRequest parameters a requestSyncPlayPlay call.
type PlayRequest struct {
	PlayingQueue       []string
	PlayingItemPosition int
	StartPositionTicks syncmodel.Tick
}

// GroupUpdateType identifies the variant of an inbound SyncPlayGroupUpdate
// message (spec §6).
type GroupUpdateType string

const (
	GroupUpdatePlayQueue           GroupUpdateType = "PlayQueue"
	GroupUpdateUserJoined          GroupUpdateType = "UserJoined"
	GroupUpdateUserLeft            GroupUpdateType = "UserLeft"
	GroupUpdateGroupJoined         GroupUpdateType = "GroupJoined"
	GroupUpdateSyncPlayIsDisabled  GroupUpdateType = "SyncPlayIsDisabled"
	GroupUpdateNotInGroup          GroupUpdateType = "NotInGroup"
	GroupUpdateGroupLeft           GroupUpdateType = "GroupLeft"
	GroupUpdateGroupUpdate         GroupUpdateType = "GroupUpdate"
	GroupUpdateStateUpdate         GroupUpdateType = "StateUpdate"
	GroupUpdateGroupDoesNotExist   GroupUpdateType = "GroupDoesNotExist"
	GroupUpdateCreateGroupDenied   GroupUpdateType = "CreateGroupDenied"
	GroupUpdateJoinGroupDenied     GroupUpdateType = "JoinGroupDenied"
	GroupUpdateLibraryAccessDenied GroupUpdateType = "LibraryAccessDenied"
)

// InboundGroupUpdate is the parsed form of a SyncPlayGroupUpdate message.
// Only the fields relevant to Type are populated; the rest are zero.
type InboundGroupUpdate struct {
	Type GroupUpdateType

	PlayQueue *syncmodel.QueueUpdate
	Group     *syncmodel.GroupInfo

	// State/Reason carry the StateUpdate payload (spec §4.F: "emit
	// group-state-change(state, reason)").
	State  string
	Reason string

	// UserID carries the UserJoined/UserLeft/*Denied subject, where
	// applicable.
	UserID string
}

// Receiver is implemented by Manager: the sink a concrete Transport
// delivers parsed inbound messages to.
type Receiver interface {
	HandleCommand(ctx context.Context, cmd syncmodel.Command)
	HandleGroupUpdate(ctx context.Context, update InboundGroupUpdate)
}

// Transport is the full server-facing capability set (spec §6). It embeds
// playbackcore.BufferingReporter and satisfies internal/queuecore.Transport
// structurally, so Manager can hand the same value to both cores without
// either importing this package.
type Transport interface {
	playbackcore.BufferingReporter

	RequestUnpause(ctx context.Context) error
	RequestPause(ctx context.Context) error
	RequestSeek(ctx context.Context, positionTicks syncmodel.Tick) error
	RequestStop(ctx context.Context) error
	RequestPlay(ctx context.Context, req PlayRequest) error
	RequestSetPlaylistItem(ctx context.Context, playlistItemID string) error
	RequestRemoveFromPlaylist(ctx context.Context, playlistItemIDs []string) error
	RequestMovePlaylistItem(ctx context.Context, playlistItemID string, newIndex int) error
	RequestQueue(ctx context.Context, itemIDs []string, mode QueueMode) error
	RequestNextTrack(ctx context.Context, playlistItemID string) error
	RequestPreviousTrack(ctx context.Context, playlistItemID string) error
	RequestSetRepeatMode(ctx context.Context, mode syncmodel.RepeatMode) error
	RequestSetShuffleMode(ctx context.Context, mode syncmodel.ShuffleMode) error
	SetIgnoreWait(ctx context.Context, ignore bool) error

	// Probe sends a timestamped SyncPlayPing and returns the remote instant
	// carried in the server's reply. Its signature matches
	// timesync.ProbeFunc exactly so it can be passed to timesync.New
	// directly.
	Probe(ctx context.Context, probeID uuid.UUID) (syncmodel.RemoteTime, error)

	// Connect dials the server and begins delivering inbound messages to
	// recv until ctx is cancelled or Close is called.
	Connect(ctx context.Context, recv Receiver) error
	Close() error
}
