package config

import (
	"time"

	"github.com/nilsen-dev/syncplay/internal/settings"
	"github.com/nilsen-dev/syncplay/internal/syncmodel"
)

// Seed converts the [syncplay] table into a settings.Seed, the form
// internal/settings.FromSeed expects. Config stays the on-disk shape;
// Settings stays the in-memory observable one, and this is the one place
// that bridges them.
func (c *SyncPlayConfig) Seed() settings.Seed {
	return settings.Seed{
		MinDelaySkipToSync:        time.Duration(c.MinDelaySkipToSyncMillis) * time.Millisecond,
		MaxDelaySpeedToSync:       time.Duration(c.MaxDelaySpeedToSyncMillis) * time.Millisecond,
		MinDelaySpeedToSync:       time.Duration(c.MinDelaySpeedToSyncMillis) * time.Millisecond,
		SpeedToSyncDuration:       time.Duration(c.SpeedToSyncDurationMillis) * time.Millisecond,
		UseSpeedToSync:            c.UseSpeedToSync,
		UseSkipToSync:             c.UseSkipToSync,
		MinBufferingThresholdTime: time.Duration(c.MinBufferingThresholdMillis) * time.Millisecond,
		TimeSyncInterval:          time.Duration(c.TimeSyncIntervalMillis) * time.Millisecond,
		TimeSyncDeadBand:          time.Duration(c.TimeSyncDeadBandMillis) * time.Millisecond,
	}
}

// RepeatMode maps the config's string repeat setting onto the wire enum.
func (c *DefaultsConfig) RepeatMode() syncmodel.RepeatMode {
	switch c.Repeat {
	case "one":
		return syncmodel.RepeatOne
	case "all":
		return syncmodel.RepeatAll
	default:
		return syncmodel.RepeatNone
	}
}

// ShuffleMode maps the config's shuffle flag onto the wire enum.
func (c *DefaultsConfig) ShuffleMode() syncmodel.ShuffleMode {
	if c.Shuffle {
		return syncmodel.ShuffleShuffle
	}
	return syncmodel.ShuffleSorted
}
