package playbackcore

import "time"

// SettingsReader is the subset of internal/settings.Settings the scheduler
// and drift corrector read on every decision. It is declared here and
// satisfied structurally so this package never imports internal/settings.
type SettingsReader interface {
	MinDelaySkipToSync() time.Duration
	MaxDelaySpeedToSync() time.Duration
	MinDelaySpeedToSync() time.Duration
	SpeedToSyncDuration() time.Duration
	UseSpeedToSync() bool
	UseSkipToSync() bool
	MinBufferingThreshold() time.Duration
}
