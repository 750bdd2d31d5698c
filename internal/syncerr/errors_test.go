package syncerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestGetSuggestionKnownSentinels(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNotEnabled, "Join a SyncPlay group before sending playback commands"},
		{ErrAccessDenied, "Ask a group administrator to grant playback or playlist access"},
		{ErrStaleUpdate, "No action needed; a newer update has already superseded this one"},
	}
	for _, tt := range tests {
		if got := GetSuggestion(tt.err); got != tt.want {
			t.Errorf("GetSuggestion(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestGetSuggestionWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("dialing group: %w", ErrTransport)
	want := "Check the connection to the SyncPlay server and try again"
	if got := GetSuggestion(wrapped); got != want {
		t.Errorf("GetSuggestion(wrapped) = %q, want %q", got, want)
	}
}

func TestGetSuggestionMatchesConnectionRefusedText(t *testing.T) {
	err := errors.New("dial tcp: connection refused")
	want := "Check the connection to the SyncPlay server and try again"
	if got := GetSuggestion(err); got != want {
		t.Errorf("GetSuggestion(%v) = %q, want %q", err, got, want)
	}
}

func TestGetSuggestionUnknownErrorReturnsEmpty(t *testing.T) {
	if got := GetSuggestion(errors.New("boom")); got != "" {
		t.Errorf("GetSuggestion(unknown) = %q, want empty", got)
	}
}

func TestGetSuggestionNilErrorReturnsEmpty(t *testing.T) {
	if got := GetSuggestion(nil); got != "" {
		t.Errorf("GetSuggestion(nil) = %q, want empty", got)
	}
}

func TestWithSuggestionOverridesDefaultLookup(t *testing.T) {
	err := WithSuggestion(ErrNotEnabled, "custom hint")
	if got := GetSuggestion(err); got != "custom hint" {
		t.Errorf("GetSuggestion(WithSuggestion(...)) = %q, want %q", got, "custom hint")
	}
	if !errors.Is(err, ErrNotEnabled) {
		t.Error("errors.Is(err, ErrNotEnabled) = false, want true (Unwrap must preserve the sentinel)")
	}
}

func TestWithSuggestionNilErrorReturnsNil(t *testing.T) {
	if err := WithSuggestion(nil, "hint"); err != nil {
		t.Errorf("WithSuggestion(nil, ...) = %v, want nil", err)
	}
}

func TestSyncErrorErrorMessageIgnoresSuggestion(t *testing.T) {
	err := WithSuggestion(ErrAccessDenied, "ask an admin")
	if err.Error() != ErrAccessDenied.Error() {
		t.Errorf("Error() = %q, want the wrapped error's message %q", err.Error(), ErrAccessDenied.Error())
	}
}
