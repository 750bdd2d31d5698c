package config

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	SyncPlay SyncPlayConfig `toml:"syncplay"`
	Defaults DefaultsConfig `toml:"defaults"`
	Tail     TailConfig     `toml:"tail"`
	TUI      TUIConfig      `toml:"tui"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig identifies the media server this client joins SyncPlay
// groups on.
type ServerConfig struct {
	URL            string `toml:"url"`
	UserID         string `toml:"user_id"`
	DefaultGroupID string `toml:"default_group_id"`
}

// SyncPlayConfig mirrors internal/settings.Seed: every drift-correction
// threshold and timesync cadence a session is seeded with. Durations are
// stored as milliseconds, the same int-millisecond convention
// TUIConfig.RefreshInterval and TailConfig.Interval already use, rather
// than introducing a TOML duration type the rest of this file doesn't.
type SyncPlayConfig struct {
	MinDelaySkipToSyncMillis    int  `toml:"min_delay_skip_to_sync_ms"`
	MaxDelaySpeedToSyncMillis   int  `toml:"max_delay_speed_to_sync_ms"`
	MinDelaySpeedToSyncMillis   int  `toml:"min_delay_speed_to_sync_ms"`
	SpeedToSyncDurationMillis   int  `toml:"speed_to_sync_duration_ms"`
	UseSpeedToSync              bool `toml:"use_speed_to_sync"`
	UseSkipToSync               bool `toml:"use_skip_to_sync"`
	MinBufferingThresholdMillis int  `toml:"min_buffering_threshold_ms"`
	TimeSyncIntervalMillis      int  `toml:"time_sync_interval_ms"`
	TimeSyncDeadBandMillis      int  `toml:"time_sync_dead_band_ms"`
}

// DefaultsConfig holds default local-playback preferences applied when a
// group is joined for the first time.
type DefaultsConfig struct {
	Shuffle bool   `toml:"shuffle"`
	Repeat  string `toml:"repeat"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Enabled  bool `toml:"enabled"`
	Interval int  `toml:"interval"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
