// Package ws is the concrete Transport (spec §6) that speaks the SyncPlay
// protocol over a websocket connection. Its dial-and-retry shape and
// single in-flight-request bookkeeping are grounded on the teacher's
// internal/spotify/client.Client.request: attempt counter, exponential
// backoff, context-cancellable wait between attempts. Where the teacher
// retries a stateless REST call, Client retries the connection itself;
// individual outbound frames are fire-and-forget once connected, matching
// the server's push-based protocol.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nilsen-dev/syncplay/internal/playbackcore"
	"github.com/nilsen-dev/syncplay/internal/syncmodel"
	"github.com/nilsen-dev/syncplay/internal/transport"
)

const (
	maxDialRetries = 3
	baseRetryWait  = 500 * time.Millisecond
	pingTimeout    = 10 * time.Second
)

// envelope is the wire shape shared by every outbound request: a command
// name plus an arbitrary data payload.
type envelope struct {
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// inbound mirrors the two inbound message kinds (spec §6) plus the
// TimeSync reply to a SyncPlayPing probe.
type inbound struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type inboundGroupUpdate struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client is a websocket-backed Transport.
type Client struct {
	url    string
	header http.Header
	dialer *websocket.Dialer

	mu      sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[uuid.UUID]chan syncmodel.RemoteTime

	logFunc func(format string, args ...interface{})
}

var _ transport.Transport = (*Client)(nil)

// New creates a Client that will dial url (a ws:// or wss:// endpoint).
func New(url string, header http.Header) *Client {
	return &Client{
		url:     url,
		header:  header,
		dialer:  websocket.DefaultDialer,
		pending: make(map[uuid.UUID]chan syncmodel.RemoteTime),
	}
}

// SetLogFunc installs a verbose logger, mirroring Client.SetVerbose in the
// teacher's spotify client.
func (c *Client) SetLogFunc(fn func(format string, args ...interface{})) {
	c.logFunc = fn
}

func (c *Client) log(format string, args ...interface{}) {
	if c.logFunc != nil {
		c.logFunc(format, args...)
	}
}

// Connect dials the server, retrying on failure with exponential backoff,
// then starts the read loop that delivers parsed inbound messages to recv
// until ctx is cancelled.
func (c *Client) Connect(ctx context.Context, recv transport.Receiver) error {
	var lastErr error
	for attempt := 0; attempt <= maxDialRetries; attempt++ {
		if attempt > 0 {
			wait := baseRetryWait * time.Duration(1<<(attempt-1))
			c.log("[syncplay-ws] retry %d/%d after %v (last error: %v)", attempt, maxDialRetries, wait, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
		if err != nil {
			lastErr = fmt.Errorf("dial failed: %w", err)
			c.log("[syncplay-ws] dial error: %v", err)
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()

		go c.readLoop(ctx, conn, recv)
		return nil
	}
	return fmt.Errorf("connect failed after %d retries: %w", maxDialRetries, lastErr)
}

// Close tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, recv transport.Receiver) {
	defer conn.Close()
	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.log("[syncplay-ws] read error: %v", err)
			return
		}
		c.dispatch(ctx, data, recv)
	}
}

func (c *Client) dispatch(ctx context.Context, data []byte, recv transport.Receiver) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		c.log("[syncplay-ws] malformed frame: %v", err)
		return
	}

	switch msg.Kind {
	case "SyncPlayCommand":
		var cmd syncmodel.Command
		if err := json.Unmarshal(msg.Data, &cmd); err != nil {
			c.log("[syncplay-ws] malformed command: %v", err)
			return
		}
		recv.HandleCommand(ctx, cmd)

	case "SyncPlayGroupUpdate":
		var gu inboundGroupUpdate
		if err := json.Unmarshal(msg.Data, &gu); err != nil {
			c.log("[syncplay-ws] malformed group update: %v", err)
			return
		}
		recv.HandleGroupUpdate(ctx, c.parseGroupUpdate(gu))

	case "TimeSync":
		c.resolveProbe(msg.Data)

	default:
		c.log("[syncplay-ws] unknown message kind %q", msg.Kind)
	}
}

func (c *Client) parseGroupUpdate(gu inboundGroupUpdate) transport.InboundGroupUpdate {
	out := transport.InboundGroupUpdate{Type: transport.GroupUpdateType(gu.Type)}
	switch out.Type {
	case transport.GroupUpdatePlayQueue:
		var u syncmodel.QueueUpdate
		if err := json.Unmarshal(gu.Data, &u); err == nil {
			out.PlayQueue = &u
		}
	case transport.GroupUpdateGroupJoined, transport.GroupUpdateGroupUpdate:
		var g syncmodel.GroupInfo
		if err := json.Unmarshal(gu.Data, &g); err == nil {
			out.Group = &g
		}
	case transport.GroupUpdateStateUpdate:
		var payload struct {
			State  string `json:"state"`
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(gu.Data, &payload); err == nil {
			out.State = payload.State
			out.Reason = payload.Reason
		}
	case transport.GroupUpdateUserJoined, transport.GroupUpdateUserLeft:
		var payload struct {
			UserID string `json:"userId"`
		}
		if err := json.Unmarshal(gu.Data, &payload); err == nil {
			out.UserID = payload.UserID
		}
	}
	return out
}

func (c *Client) resolveProbe(data []byte) {
	var payload struct {
		ProbeID  uuid.UUID          `json:"probeId"`
		RemoteAt syncmodel.RemoteTime `json:"remoteAt"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}
	c.pendingMu.Lock()
	ch, ok := c.pending[payload.ProbeID]
	if ok {
		delete(c.pending, payload.ProbeID)
	}
	c.pendingMu.Unlock()
	if ok {
		ch <- payload.RemoteAt
	}
}

func (c *Client) send(command string, data interface{}) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("syncplay-ws: not connected")
	}

	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("syncplay-ws: marshal request: %w", err)
		}
		raw = encoded
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(envelope{Command: command, Data: raw})
}

// Probe sends a timestamped SyncPlayPing and waits for the matching
// TimeSync reply, satisfying timesync.ProbeFunc.
func (c *Client) Probe(ctx context.Context, probeID uuid.UUID) (syncmodel.RemoteTime, error) {
	ch := make(chan syncmodel.RemoteTime, 1)
	c.pendingMu.Lock()
	c.pending[probeID] = ch
	c.pendingMu.Unlock()

	if err := c.send("SyncPlayPing", struct {
		ProbeID uuid.UUID `json:"probeId"`
	}{probeID}); err != nil {
		c.pendingMu.Lock()
		delete(c.pending, probeID)
		c.pendingMu.Unlock()
		return syncmodel.RemoteTime{}, err
	}

	select {
	case remoteAt := <-ch:
		return remoteAt, nil
	case <-time.After(pingTimeout):
		c.pendingMu.Lock()
		delete(c.pending, probeID)
		c.pendingMu.Unlock()
		return syncmodel.RemoteTime{}, fmt.Errorf("syncplay-ws: ping %s timed out", probeID)
	case <-ctx.Done():
		return syncmodel.RemoteTime{}, ctx.Err()
	}
}

func (c *Client) RequestUnpause(ctx context.Context) error { return c.send("SyncPlayUnpause", nil) }
func (c *Client) RequestPause(ctx context.Context) error   { return c.send("SyncPlayPause", nil) }

func (c *Client) RequestSeek(ctx context.Context, positionTicks syncmodel.Tick) error {
	return c.send("SyncPlaySeek", struct {
		PositionTicks syncmodel.Tick `json:"positionTicks"`
	}{positionTicks})
}

func (c *Client) RequestStop(ctx context.Context) error { return c.send("SyncPlayStop", nil) }

func (c *Client) RequestPlay(ctx context.Context, req transport.PlayRequest) error {
	return c.send("SyncPlayPlay", struct {
		PlayingQueue        []string      `json:"playingQueue"`
		PlayingItemPosition int           `json:"playingItemPosition"`
		StartPositionTicks  syncmodel.Tick `json:"startPositionTicks"`
	}{req.PlayingQueue, req.PlayingItemPosition, req.StartPositionTicks})
}

func (c *Client) RequestSetPlaylistItem(ctx context.Context, playlistItemID string) error {
	return c.send("SyncPlaySetPlaylistItem", struct {
		PlaylistItemID string `json:"playlistItemId"`
	}{playlistItemID})
}

func (c *Client) RequestRemoveFromPlaylist(ctx context.Context, playlistItemIDs []string) error {
	return c.send("SyncPlayRemoveFromPlaylist", struct {
		PlaylistItemIDs []string `json:"playlistItemIds"`
	}{playlistItemIDs})
}

func (c *Client) RequestMovePlaylistItem(ctx context.Context, playlistItemID string, newIndex int) error {
	return c.send("SyncPlayMovePlaylistItem", struct {
		PlaylistItemID string `json:"playlistItemId"`
		NewIndex       int    `json:"newIndex"`
	}{playlistItemID, newIndex})
}

func (c *Client) RequestQueue(ctx context.Context, itemIDs []string, mode transport.QueueMode) error {
	return c.send("SyncPlayQueue", struct {
		ItemIDs []string          `json:"itemIds"`
		Mode    transport.QueueMode `json:"mode"`
	}{itemIDs, mode})
}

func (c *Client) RequestNextTrack(ctx context.Context, playlistItemID string) error {
	return c.send("SyncPlayNextTrack", struct {
		PlaylistItemID string `json:"playlistItemId"`
	}{playlistItemID})
}

func (c *Client) RequestPreviousTrack(ctx context.Context, playlistItemID string) error {
	return c.send("SyncPlayPreviousTrack", struct {
		PlaylistItemID string `json:"playlistItemId"`
	}{playlistItemID})
}

func (c *Client) RequestSetRepeatMode(ctx context.Context, mode syncmodel.RepeatMode) error {
	return c.send("SyncPlaySetRepeatMode", struct {
		Mode syncmodel.RepeatMode `json:"mode"`
	}{mode})
}

func (c *Client) RequestSetShuffleMode(ctx context.Context, mode syncmodel.ShuffleMode) error {
	return c.send("SyncPlaySetShuffleMode", struct {
		Mode syncmodel.ShuffleMode `json:"mode"`
	}{mode})
}

func (c *Client) SetIgnoreWait(ctx context.Context, ignore bool) error {
	return c.send("SyncPlaySetIgnoreWait", struct {
		IgnoreWait bool `json:"ignoreWait"`
	}{ignore})
}

func (c *Client) RequestBuffering(ctx context.Context, req playbackcore.BufferingRequest) error {
	return c.send("SyncPlayBuffering", struct {
		When           syncmodel.RemoteTime `json:"when"`
		PositionTicks  syncmodel.Tick       `json:"positionTicks"`
		IsPlaying      bool                 `json:"isPlaying"`
		PlaylistItemID string               `json:"playlistItemId"`
		BufferingDone  bool                 `json:"bufferingDone"`
	}{req.When, req.PositionTicks, req.IsPlaying, req.PlaylistItemID, req.Done})
}
