package config

// Default returns a Config populated with sensible defaults. The
// SyncPlay section mirrors internal/settings.DefaultSeed so a config file
// that omits the table entirely still seeds a Settings store identically.
func Default() *Config {
	return &Config{
		Server: ServerConfig{},
		SyncPlay: SyncPlayConfig{
			MinDelaySkipToSyncMillis:    300,
			MaxDelaySpeedToSyncMillis:   3000,
			MinDelaySpeedToSyncMillis:   50,
			SpeedToSyncDurationMillis:   6000,
			UseSpeedToSync:              true,
			UseSkipToSync:               true,
			MinBufferingThresholdMillis: 500,
			TimeSyncIntervalMillis:      10000,
			TimeSyncDeadBandMillis:      50,
		},
		Defaults: DefaultsConfig{
			Shuffle: false,
			Repeat:  "off",
		},
		Tail: TailConfig{
			Enabled:  false,
			Interval: 1000,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// SyncPlay
	if c.SyncPlay.MinDelaySkipToSyncMillis == 0 {
		c.SyncPlay.MinDelaySkipToSyncMillis = d.SyncPlay.MinDelaySkipToSyncMillis
	}
	if c.SyncPlay.MaxDelaySpeedToSyncMillis == 0 {
		c.SyncPlay.MaxDelaySpeedToSyncMillis = d.SyncPlay.MaxDelaySpeedToSyncMillis
	}
	if c.SyncPlay.MinDelaySpeedToSyncMillis == 0 {
		c.SyncPlay.MinDelaySpeedToSyncMillis = d.SyncPlay.MinDelaySpeedToSyncMillis
	}
	if c.SyncPlay.SpeedToSyncDurationMillis == 0 {
		c.SyncPlay.SpeedToSyncDurationMillis = d.SyncPlay.SpeedToSyncDurationMillis
	}
	if c.SyncPlay.MinBufferingThresholdMillis == 0 {
		c.SyncPlay.MinBufferingThresholdMillis = d.SyncPlay.MinBufferingThresholdMillis
	}
	if c.SyncPlay.TimeSyncIntervalMillis == 0 {
		c.SyncPlay.TimeSyncIntervalMillis = d.SyncPlay.TimeSyncIntervalMillis
	}
	if c.SyncPlay.TimeSyncDeadBandMillis == 0 {
		c.SyncPlay.TimeSyncDeadBandMillis = d.SyncPlay.TimeSyncDeadBandMillis
	}

	// Defaults
	if c.Defaults.Repeat == "" {
		c.Defaults.Repeat = d.Defaults.Repeat
	}

	// Tail
	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
