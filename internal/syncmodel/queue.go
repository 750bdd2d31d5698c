package syncmodel

// QueueReason identifies why a queue update was sent.
type QueueReason string

const (
	ReasonNewPlaylist    QueueReason = "NewPlaylist"
	ReasonSetCurrentItem QueueReason = "SetCurrentItem"
	ReasonNextTrack      QueueReason = "NextTrack"
	ReasonPreviousTrack  QueueReason = "PreviousTrack"
	ReasonRemoveItems    QueueReason = "RemoveItems"
	ReasonMoveItem       QueueReason = "MoveItem"
	ReasonQueue          QueueReason = "Queue"
	ReasonQueueNext      QueueReason = "QueueNext"
	ReasonRepeatMode     QueueReason = "RepeatMode"
	ReasonShuffleMode    QueueReason = "ShuffleMode"
)

// RepeatMode mirrors the wire repeat-mode strings.
type RepeatMode string

const (
	RepeatNone RepeatMode = "RepeatNone"
	RepeatOne  RepeatMode = "RepeatOne"
	RepeatAll  RepeatMode = "RepeatAll"
)

// ShuffleMode mirrors the wire shuffle-mode strings.
type ShuffleMode string

const (
	ShuffleSorted  ShuffleMode = "Sorted"
	ShuffleShuffle ShuffleMode = "Shuffle"
)

// PlaylistItem is one entry in the shared playlist.
type PlaylistItem struct {
	PlaylistItemID string `json:"playlistItemId"`
}

// QueueUpdate describes a change to the shared playlist.
type QueueUpdate struct {
	Reason             QueueReason    `json:"reason"`
	LastUpdate         RemoteTime     `json:"lastUpdate"`
	Playlist           []PlaylistItem `json:"playlist"`
	CurrentIndex       int            `json:"currentIndex"`
	StartPositionTicks Tick           `json:"startPositionTicks"`
	RepeatMode         RepeatMode     `json:"repeatMode"`
	ShuffleMode        ShuffleMode    `json:"shuffleMode"`
}

// CurrentItemID returns the playlist item id at CurrentIndex, or "" if the
// index is out of range.
func (u QueueUpdate) CurrentItemID() string {
	if u.CurrentIndex < 0 || u.CurrentIndex >= len(u.Playlist) {
		return ""
	}
	return u.Playlist[u.CurrentIndex].PlaylistItemID
}

// AccessRight is a single per-user permission entry.
type AccessRight struct {
	PlaybackAccess bool `json:"playbackAccess"`
	PlaylistAccess bool `json:"playlistAccess"`
}

// GroupInfo describes the SyncPlay group a client has joined.
type GroupInfo struct {
	GroupID        string                 `json:"groupId"`
	Participants   []string               `json:"participants"`
	Administrators []string               `json:"administrators"`
	AccessList     map[string]AccessRight `json:"accessList"`
	LastUpdatedAt  RemoteTime             `json:"lastUpdatedAt"`
}

// AccessFor returns the access right recorded for userID, or the zero
// value (no access) if the user is not listed.
func (g GroupInfo) AccessFor(userID string) AccessRight {
	if g.AccessList == nil {
		return AccessRight{}
	}
	return g.AccessList[userID]
}
