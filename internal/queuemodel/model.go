// Package queuemodel holds the in-memory representation of the shared
// playlist (spec §4.C), generalized from the teacher's internal/core.Queue
// (Current/Upcoming/Len/IsEmpty) with the monotonic-update discipline
// grounded on internal/sonos/groups.go's "replace membership wholesale"
// pattern: a QueueUpdate is either applied in full or discarded in full,
// never merged field-by-field.
package queuemodel

import (
	"sync"

	"github.com/nilsen-dev/syncplay/internal/syncmodel"
)

// ApplyResult reports whether Apply accepted or discarded an update.
type ApplyResult int

const (
	Applied ApplyResult = iota
	Discarded
)

func (r ApplyResult) String() string {
	if r == Applied {
		return "applied"
	}
	return "discarded"
}

// QueueModel is the client's view of the shared playlist.
type QueueModel struct {
	mu sync.RWMutex

	have    bool
	current syncmodel.QueueUpdate

	// realItemID is the playlist item the local player is actually
	// playing, which can lag CurrentPlaylistItemID across a RemoveItems
	// update that does not move the cursor (spec §4.C).
	realItemID string
}

// New creates an empty QueueModel.
func New() *QueueModel {
	return &QueueModel{}
}

// Apply applies update if it is strictly newer than the last applied
// update, per spec §4.C's invariant. The very first update is always
// applied.
func (m *QueueModel) Apply(update syncmodel.QueueUpdate) ApplyResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.have && !update.LastUpdate.After(m.current.LastUpdate) {
		return Discarded
	}

	m.current = update
	m.have = true
	if m.realItemID == "" {
		m.realItemID = update.CurrentItemID()
	}
	return Applied
}

// CurrentPlaylistItemID returns the playlist item id the group considers
// current.
func (m *QueueModel) CurrentPlaylistItemID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.CurrentItemID()
}

// RealPlaylistItemID returns the playlist item the local player is
// actually playing.
func (m *QueueModel) RealPlaylistItemID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.realItemID
}

// SetRealPlaylistItemID records that the local player has switched to
// playing itemID. Called by QueueCore after it drives the player, never
// inferred automatically by Apply.
func (m *QueueModel) SetRealPlaylistItemID(itemID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.realItemID = itemID
}

// CurrentIndex returns the index of the current item in the playlist.
func (m *QueueModel) CurrentIndex() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.CurrentIndex
}

// PlaylistAsItemIDs returns the ordered list of playlist item ids.
func (m *QueueModel) PlaylistAsItemIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, len(m.current.Playlist))
	for i, item := range m.current.Playlist {
		ids[i] = item.PlaylistItemID
	}
	return ids
}

// StartPositionTicks returns the position the current item should start
// at, per the last applied update.
func (m *QueueModel) StartPositionTicks() syncmodel.Tick {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.StartPositionTicks
}

// LastUpdateTime returns the remote instant of the last applied update.
func (m *QueueModel) LastUpdateTime() syncmodel.RemoteTime {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.LastUpdate
}

// RepeatMode returns the current repeat mode.
func (m *QueueModel) RepeatMode() syncmodel.RepeatMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.RepeatMode
}

// ShuffleMode returns the current shuffle mode.
func (m *QueueModel) ShuffleMode() syncmodel.ShuffleMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.ShuffleMode
}

// IsEmpty reports whether the playlist has no items.
func (m *QueueModel) IsEmpty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.current.Playlist) == 0
}

// Reason returns the reason of the last applied update.
func (m *QueueModel) Reason() syncmodel.QueueReason {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Reason
}

// Reset clears the model back to empty, used on disable().
func (m *QueueModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.have = false
	m.current = syncmodel.QueueUpdate{}
	m.realItemID = ""
}
