package playbackcore

// State names a point in the scheduler's lifecycle (spec §4.D).
type State int

const (
	StateDisabled State = iota
	StateEnabling
	StateIdle
	StateScheduled
	StateBuffering
	StateSyncing
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabling:
		return "enabling"
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateBuffering:
		return "buffering"
	case StateSyncing:
		return "syncing"
	default:
		return "unknown"
	}
}
