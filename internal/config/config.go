package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.syncplayrc, then $XDG_CONFIG_HOME/syncplay/config.toml
// (~/.config/syncplay/config.toml when XDG_CONFIG_HOME is unset).
func Load() (*Config, error) {
	cfg := Default()

	// Try loading from file; decoding onto a Default()-seeded struct means
	// keys absent from the file keep their default, including the
	// SyncPlayConfig bools that default to true (a bare zero value can't
	// be told apart from an explicit "false").
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".syncplayrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "syncplay", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("SYNCPLAY_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("SYNCPLAY_USER_ID"); v != "" {
		cfg.Server.UserID = v
	}
	if v := os.Getenv("SYNCPLAY_DEFAULT_GROUP_ID"); v != "" {
		cfg.Server.DefaultGroupID = v
	}

	// SyncPlay tunables
	if v := os.Getenv("SYNCPLAY_MIN_DELAY_SKIP_TO_SYNC_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.SyncPlay.MinDelaySkipToSyncMillis = i
		}
	}
	if v := os.Getenv("SYNCPLAY_MAX_DELAY_SPEED_TO_SYNC_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.SyncPlay.MaxDelaySpeedToSyncMillis = i
		}
	}
	if v := os.Getenv("SYNCPLAY_MIN_DELAY_SPEED_TO_SYNC_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.SyncPlay.MinDelaySpeedToSyncMillis = i
		}
	}
	if v := os.Getenv("SYNCPLAY_SPEED_TO_SYNC_DURATION_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.SyncPlay.SpeedToSyncDurationMillis = i
		}
	}
	if v := os.Getenv("SYNCPLAY_TIME_SYNC_INTERVAL_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.SyncPlay.TimeSyncIntervalMillis = i
		}
	}
	if v := os.Getenv("SYNCPLAY_TIME_SYNC_DEAD_BAND_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.SyncPlay.TimeSyncDeadBandMillis = i
		}
	}

	// TUI
	if v := os.Getenv("SYNCPLAY_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("SYNCPLAY_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("SYNCPLAY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SYNCPLAY_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
