package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/nilsen-dev/syncplay/internal/syncmodel"
	"github.com/nilsen-dev/syncplay/internal/transport"
)

type fakeReceiver struct {
	commands []syncmodel.Command
	updates  []transport.InboundGroupUpdate
}

func (f *fakeReceiver) HandleCommand(ctx context.Context, cmd syncmodel.Command) {
	f.commands = append(f.commands, cmd)
}

func (f *fakeReceiver) HandleGroupUpdate(ctx context.Context, update transport.InboundGroupUpdate) {
	f.updates = append(f.updates, update)
}

func TestParseGroupUpdatePlayQueue(t *testing.T) {
	c := New("ws://example.invalid", nil)
	data, _ := json.Marshal(syncmodel.QueueUpdate{Reason: syncmodel.ReasonNewPlaylist})
	got := c.parseGroupUpdate(inboundGroupUpdate{Type: "PlayQueue", Data: data})

	if got.Type != transport.GroupUpdatePlayQueue {
		t.Fatalf("Type = %v, want %v", got.Type, transport.GroupUpdatePlayQueue)
	}
	if got.PlayQueue == nil {
		t.Fatal("PlayQueue = nil, want populated")
	}
	if got.PlayQueue.Reason != syncmodel.ReasonNewPlaylist {
		t.Errorf("PlayQueue.Reason = %v, want %v", got.PlayQueue.Reason, syncmodel.ReasonNewPlaylist)
	}
	if got.Group != nil {
		t.Errorf("Group = %v, want nil for a PlayQueue update", got.Group)
	}
}

func TestParseGroupUpdateStateUpdate(t *testing.T) {
	c := New("ws://example.invalid", nil)
	data, _ := json.Marshal(struct {
		State  string `json:"state"`
		Reason string `json:"reason"`
	}{State: "waiting", Reason: "buffering"})
	got := c.parseGroupUpdate(inboundGroupUpdate{Type: "StateUpdate", Data: data})

	if got.State != "waiting" || got.Reason != "buffering" {
		t.Errorf("State/Reason = %q/%q, want waiting/buffering", got.State, got.Reason)
	}
}

func TestParseGroupUpdateUserJoined(t *testing.T) {
	c := New("ws://example.invalid", nil)
	data, _ := json.Marshal(struct {
		UserID string `json:"userId"`
	}{UserID: "alice"})
	got := c.parseGroupUpdate(inboundGroupUpdate{Type: "UserJoined", Data: data})

	if got.UserID != "alice" {
		t.Errorf("UserID = %q, want alice", got.UserID)
	}
}

func TestParseGroupUpdateUnknownTypeLeavesPayloadsNil(t *testing.T) {
	c := New("ws://example.invalid", nil)
	got := c.parseGroupUpdate(inboundGroupUpdate{Type: "SomethingNew", Data: json.RawMessage(`{}`)})

	if got.PlayQueue != nil || got.Group != nil || got.UserID != "" {
		t.Errorf("unknown type produced a populated field: %+v", got)
	}
}

func TestDispatchRoutesCommand(t *testing.T) {
	c := New("ws://example.invalid", nil)
	recv := &fakeReceiver{}

	cmd, _ := json.Marshal(syncmodel.Command{Kind: syncmodel.CommandPause})
	frame, _ := json.Marshal(inbound{Kind: "SyncPlayCommand", Data: cmd})

	c.dispatch(context.Background(), frame, recv)

	if len(recv.commands) != 1 {
		t.Fatalf("commands received = %d, want 1", len(recv.commands))
	}
	if recv.commands[0].Kind != syncmodel.CommandPause {
		t.Errorf("command kind = %v, want %v", recv.commands[0].Kind, syncmodel.CommandPause)
	}
}

func TestDispatchRoutesGroupUpdate(t *testing.T) {
	c := New("ws://example.invalid", nil)
	recv := &fakeReceiver{}

	gu, _ := json.Marshal(inboundGroupUpdate{Type: "GroupJoined", Data: json.RawMessage(`{"groupId":"g1"}`)})
	frame, _ := json.Marshal(inbound{Kind: "SyncPlayGroupUpdate", Data: gu})

	c.dispatch(context.Background(), frame, recv)

	if len(recv.updates) != 1 {
		t.Fatalf("updates received = %d, want 1", len(recv.updates))
	}
	if recv.updates[0].Type != transport.GroupUpdateGroupJoined {
		t.Errorf("update type = %v, want %v", recv.updates[0].Type, transport.GroupUpdateGroupJoined)
	}
}

func TestDispatchMalformedFrameDoesNotPanic(t *testing.T) {
	c := New("ws://example.invalid", nil)
	recv := &fakeReceiver{}

	c.dispatch(context.Background(), []byte("not json"), recv)

	if len(recv.commands) != 0 || len(recv.updates) != 0 {
		t.Errorf("malformed frame delivered something: %+v", recv)
	}
}

func TestDispatchUnknownKindIsIgnored(t *testing.T) {
	c := New("ws://example.invalid", nil)
	recv := &fakeReceiver{}

	frame, _ := json.Marshal(inbound{Kind: "SomethingElse", Data: json.RawMessage(`{}`)})
	c.dispatch(context.Background(), frame, recv)

	if len(recv.commands) != 0 || len(recv.updates) != 0 {
		t.Errorf("unknown kind delivered something: %+v", recv)
	}
}

func TestResolveProbeDeliversToWaiter(t *testing.T) {
	c := New("ws://example.invalid", nil)
	probeID := uuid.New()
	ch := make(chan syncmodel.RemoteTime, 1)

	c.pendingMu.Lock()
	c.pending[probeID] = ch
	c.pendingMu.Unlock()

	remoteAt := syncmodel.RemoteTime{}
	payload, _ := json.Marshal(struct {
		ProbeID  uuid.UUID            `json:"probeId"`
		RemoteAt syncmodel.RemoteTime `json:"remoteAt"`
	}{probeID, remoteAt})

	c.resolveProbe(payload)

	select {
	case <-ch:
	default:
		t.Fatal("resolveProbe did not deliver to the pending channel")
	}

	c.pendingMu.Lock()
	_, stillPending := c.pending[probeID]
	c.pendingMu.Unlock()
	if stillPending {
		t.Error("resolveProbe left the probe registered after delivering it")
	}
}

func TestResolveProbeUnknownIDIsANoop(t *testing.T) {
	c := New("ws://example.invalid", nil)
	payload, _ := json.Marshal(struct {
		ProbeID uuid.UUID `json:"probeId"`
	}{uuid.New()})

	c.resolveProbe(payload)
}

func TestSendWithoutConnectionErrors(t *testing.T) {
	c := New("ws://example.invalid", nil)
	if err := c.RequestPause(context.Background()); err == nil {
		t.Error("RequestPause on an unconnected client returned nil error, want error")
	}
}
