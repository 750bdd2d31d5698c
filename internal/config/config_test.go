package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nilsen-dev/syncplay/internal/syncmodel"
)

func TestLoadFromPreservesBoolDefaultsWhenFileOmitsThem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[server]
url = "wss://example.invalid/syncplay"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if !cfg.SyncPlay.UseSpeedToSync {
		t.Error("UseSpeedToSync = false, want true (default should survive a file that omits it)")
	}
	if !cfg.SyncPlay.UseSkipToSync {
		t.Error("UseSkipToSync = false, want true (default should survive a file that omits it)")
	}
	if cfg.Server.URL != "wss://example.invalid/syncplay" {
		t.Errorf("Server.URL = %q, want the value the file set", cfg.Server.URL)
	}
}

func TestLoadFromHonorsExplicitFalse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[syncplay]
use_speed_to_sync = false
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.SyncPlay.UseSpeedToSync {
		t.Error("UseSpeedToSync = true, want false (file explicitly disabled it)")
	}
	if !cfg.SyncPlay.UseSkipToSync {
		t.Error("UseSkipToSync = false, want true (untouched field should keep its default)")
	}
}

func TestApplyDefaultsFillsOnlyZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SyncPlay.TimeSyncIntervalMillis = 5000
	cfg.ApplyDefaults()

	d := Default()
	if cfg.SyncPlay.TimeSyncIntervalMillis != 5000 {
		t.Errorf("TimeSyncIntervalMillis = %d, want 5000 (explicit value must survive)", cfg.SyncPlay.TimeSyncIntervalMillis)
	}
	if cfg.SyncPlay.MinDelaySkipToSyncMillis != d.SyncPlay.MinDelaySkipToSyncMillis {
		t.Errorf("MinDelaySkipToSyncMillis = %d, want default %d", cfg.SyncPlay.MinDelaySkipToSyncMillis, d.SyncPlay.MinDelaySkipToSyncMillis)
	}
	if cfg.TUI.Theme != d.TUI.Theme {
		t.Errorf("TUI.Theme = %q, want default %q", cfg.TUI.Theme, d.TUI.Theme)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SYNCPLAY_SERVER_URL", "wss://override.invalid/syncplay")
	t.Setenv("SYNCPLAY_TIME_SYNC_DEAD_BAND_MS", "75")
	t.Setenv("SYNCPLAY_LOG_LEVEL", "debug")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.Server.URL != "wss://override.invalid/syncplay" {
		t.Errorf("Server.URL = %q, want env override", cfg.Server.URL)
	}
	if cfg.SyncPlay.TimeSyncDeadBandMillis != 75 {
		t.Errorf("TimeSyncDeadBandMillis = %d, want 75", cfg.SyncPlay.TimeSyncDeadBandMillis)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestApplyEnvOverridesIgnoresUnparsableInts(t *testing.T) {
	t.Setenv("SYNCPLAY_TIME_SYNC_DEAD_BAND_MS", "not-a-number")

	cfg := Default()
	want := cfg.SyncPlay.TimeSyncDeadBandMillis
	applyEnvOverrides(cfg)

	if cfg.SyncPlay.TimeSyncDeadBandMillis != want {
		t.Errorf("TimeSyncDeadBandMillis = %d, want unchanged %d", cfg.SyncPlay.TimeSyncDeadBandMillis, want)
	}
}

func TestValidateRejectsBadURLScheme(t *testing.T) {
	cfg := Default()
	cfg.Server.URL = "ftp://example.invalid"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error for an ftp:// server url")
	}
}

func TestValidateRejectsInversedSpeedDelays(t *testing.T) {
	cfg := Default()
	cfg.SyncPlay.MinDelaySpeedToSyncMillis = cfg.SyncPlay.MaxDelaySpeedToSyncMillis + 1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error when min exceeds max delay-to-sync")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Validate() on Default() = %v, want nil", err)
	}
}

func TestSyncPlayConfigSeedConvertsMillisToDuration(t *testing.T) {
	cfg := Default()
	seed := cfg.SyncPlay.Seed()
	want := time.Duration(cfg.SyncPlay.TimeSyncIntervalMillis) * time.Millisecond
	if seed.TimeSyncInterval != want {
		t.Errorf("seed.TimeSyncInterval = %v, want %v", seed.TimeSyncInterval, want)
	}
	if !seed.UseSpeedToSync || !seed.UseSkipToSync {
		t.Errorf("seed bools = %+v, want both true from Default()", seed)
	}
}

func TestDefaultsConfigRepeatAndShuffleModes(t *testing.T) {
	cases := []struct {
		repeat string
		want   syncmodel.RepeatMode
	}{
		{"", syncmodel.RepeatNone},
		{"off", syncmodel.RepeatNone},
		{"one", syncmodel.RepeatOne},
		{"all", syncmodel.RepeatAll},
	}
	for _, tc := range cases {
		d := DefaultsConfig{Repeat: tc.repeat}
		if got := d.RepeatMode(); got != tc.want {
			t.Errorf("RepeatMode(%q) = %v, want %v", tc.repeat, got, tc.want)
		}
	}

	shuffleOn := DefaultsConfig{Shuffle: true}
	if shuffleOn.ShuffleMode() != syncmodel.ShuffleShuffle {
		t.Error("ShuffleMode() with Shuffle=true, want ShuffleShuffle")
	}
	shuffleOff := DefaultsConfig{Shuffle: false}
	if shuffleOff.ShuffleMode() != syncmodel.ShuffleSorted {
		t.Error("ShuffleMode() with Shuffle=false, want ShuffleSorted")
	}
}
