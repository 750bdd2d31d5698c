package tail

import "testing"

func TestHandleDeliversToEventsChannel(t *testing.T) {
	w := NewWatcher()
	w.Handle("enabled", map[string]any{"groupId": "g1"})

	select {
	case e := <-w.Events():
		if e.Name != "enabled" {
			t.Errorf("Name = %q, want enabled", e.Name)
		}
		if e.Payload["groupId"] != "g1" {
			t.Errorf("Payload[groupId] = %v, want g1", e.Payload["groupId"])
		}
	default:
		t.Fatal("Handle did not deliver an event")
	}
}

func TestHandleDropsWhenChannelIsFull(t *testing.T) {
	w := NewWatcher()
	for i := 0; i < cap(w.events)+5; i++ {
		w.Handle("ready", nil)
	}

	drained := 0
	for {
		select {
		case <-w.Events():
			drained++
			continue
		default:
		}
		break
	}
	if drained != cap(w.events) {
		t.Errorf("drained %d events, want exactly the channel capacity %d (excess must be dropped, not block)", drained, cap(w.events))
	}
}

func TestCloseClosesEventsChannel(t *testing.T) {
	w := NewWatcher()
	w.Close()

	_, ok := <-w.Events()
	if ok {
		t.Error("Events() channel still open after Close()")
	}
}
