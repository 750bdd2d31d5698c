package tail

import (
	"time"
)

// Event is a normalized notification forwarded from Manager's emitted
// event stream (the name/payload shape of manager.NotifyFunc).
type Event struct {
	Name      string
	Payload   map[string]any
	Timestamp time.Time
}

// Watcher collects Manager's emitted events onto a channel for a consumer
// (cli tail, the TUI) to range over. Unlike the teacher's poll-a-Player
// watcher, there is nothing to diff: Manager already emits discrete named
// events, so Watcher is just a buffered relay.
type Watcher struct {
	events chan Event
}

// NewWatcher creates a Watcher with a modestly buffered event channel.
func NewWatcher() *Watcher {
	return &Watcher{events: make(chan Event, 32)}
}

// Events returns the channel of forwarded events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Handle satisfies manager.NotifyFunc's signature. Wire it in as the
// notify callback passed to manager.New (or fan it out alongside other
// subscribers) so every emitted event lands on the Events channel.
func (w *Watcher) Handle(name string, payload map[string]any) {
	e := Event{Name: name, Payload: payload, Timestamp: time.Now()}
	select {
	case w.events <- e:
	default:
		// Drop the event if the consumer isn't keeping up.
	}
}

// Close closes the Events channel. Only safe once nothing still calls
// Handle.
func (w *Watcher) Close() {
	close(w.events)
}
