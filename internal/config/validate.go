package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.SyncPlay.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("syncplay: %w", err))
	}
	if err := c.Defaults.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	if err := c.Tail.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tail: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks ServerConfig for errors.
func (c *ServerConfig) Validate() error {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
		switch u.Scheme {
		case "ws", "wss", "http", "https":
			// valid
		default:
			return fmt.Errorf("invalid url scheme: %s (must be ws, wss, http, or https)", u.Scheme)
		}
	}
	return nil
}

// Validate checks SyncPlayConfig for errors.
func (c *SyncPlayConfig) Validate() error {
	if c.MinDelaySkipToSyncMillis < 0 {
		return errors.New("min_delay_skip_to_sync_ms must be non-negative")
	}
	if c.MaxDelaySpeedToSyncMillis < 0 {
		return errors.New("max_delay_speed_to_sync_ms must be non-negative")
	}
	if c.MinDelaySpeedToSyncMillis < 0 {
		return errors.New("min_delay_speed_to_sync_ms must be non-negative")
	}
	if c.MinDelaySpeedToSyncMillis > c.MaxDelaySpeedToSyncMillis {
		return errors.New("min_delay_speed_to_sync_ms must not exceed max_delay_speed_to_sync_ms")
	}
	if c.SpeedToSyncDurationMillis < 0 {
		return errors.New("speed_to_sync_duration_ms must be non-negative")
	}
	if c.MinBufferingThresholdMillis < 0 {
		return errors.New("min_buffering_threshold_ms must be non-negative")
	}
	if c.TimeSyncIntervalMillis <= 0 {
		return errors.New("time_sync_interval_ms must be positive")
	}
	if c.TimeSyncDeadBandMillis < 0 {
		return errors.New("time_sync_dead_band_ms must be non-negative")
	}
	return nil
}

// Validate checks DefaultsConfig for errors.
func (c *DefaultsConfig) Validate() error {
	switch c.Repeat {
	case "", "off", "one", "all":
		// valid
	default:
		return fmt.Errorf("invalid repeat mode: %s (must be off, one, or all)", c.Repeat)
	}
	return nil
}

// Validate checks TailConfig for errors.
func (c *TailConfig) Validate() error {
	if c.Interval < 0 {
		return errors.New("interval must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
