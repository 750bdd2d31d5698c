package settings

import (
	"testing"
	"time"
)

func TestNewSeedsFromDefaultSeed(t *testing.T) {
	s := New()
	def := DefaultSeed()

	if got := s.MinDelaySkipToSync(); got != def.MinDelaySkipToSync {
		t.Errorf("MinDelaySkipToSync() = %v, want %v", got, def.MinDelaySkipToSync)
	}
	if got := s.UseSpeedToSync(); got != def.UseSpeedToSync {
		t.Errorf("UseSpeedToSync() = %v, want %v", got, def.UseSpeedToSync)
	}
}

func TestFromSeedUsesGivenValues(t *testing.T) {
	seed := Seed{
		MinDelaySkipToSync: 999 * time.Millisecond,
		UseSpeedToSync:     false,
		UseSkipToSync:      false,
	}
	s := FromSeed(seed)

	if got := s.MinDelaySkipToSync(); got != 999*time.Millisecond {
		t.Errorf("MinDelaySkipToSync() = %v, want 999ms", got)
	}
	if s.UseSpeedToSync() {
		t.Error("UseSpeedToSync() = true, want false from seed")
	}
}

func TestSetAndGet(t *testing.T) {
	s := New()
	s.Set(KeyTimeSyncDeadBand, 75*time.Millisecond)

	if got := s.TimeSyncDeadBand(); got != 75*time.Millisecond {
		t.Errorf("TimeSyncDeadBand() = %v, want 75ms", got)
	}
}

func TestOnChangeFiresOnSet(t *testing.T) {
	s := New()
	var got any
	s.OnChange(KeyUseSkipToSync, func(v any) { got = v })

	s.Set(KeyUseSkipToSync, false)

	if got != false {
		t.Errorf("listener received %v, want false", got)
	}
}

func TestOnChangeUnsubscribeStopsFutureNotifications(t *testing.T) {
	s := New()
	calls := 0
	unsubscribe := s.OnChange(KeyUseSkipToSync, func(v any) { calls++ })

	s.Set(KeyUseSkipToSync, false)
	unsubscribe()
	s.Set(KeyUseSkipToSync, true)

	if calls != 1 {
		t.Errorf("listener called %d times, want 1 (unsubscribe must stop further calls)", calls)
	}
}

func TestOnChangeOnlyFiresForItsOwnKey(t *testing.T) {
	s := New()
	calls := 0
	s.OnChange(KeyUseSkipToSync, func(v any) { calls++ })

	s.Set(KeyUseSpeedToSync, false)

	if calls != 0 {
		t.Errorf("listener on KeyUseSkipToSync fired %d times for a KeyUseSpeedToSync change, want 0", calls)
	}
}

func TestSnapshotReturnsAllKeysAndIsACopy(t *testing.T) {
	s := New()
	snap := s.Snapshot()

	if len(snap) != 9 {
		t.Fatalf("Snapshot() has %d entries, want 9", len(snap))
	}

	snap[KeyTimeSyncDeadBand] = 999 * time.Hour
	if got := s.TimeSyncDeadBand(); got == 999*time.Hour {
		t.Error("mutating the returned Snapshot map affected the live store")
	}
}

func TestTypedAccessorFallsBackOnWrongType(t *testing.T) {
	s := New()
	s.Set(KeyMinDelaySkipToSync, "not a duration")

	if got := s.MinDelaySkipToSync(); got != DefaultSeed().MinDelaySkipToSync {
		t.Errorf("MinDelaySkipToSync() after a bad Set = %v, want the default fallback %v", got, DefaultSeed().MinDelaySkipToSync)
	}
}
