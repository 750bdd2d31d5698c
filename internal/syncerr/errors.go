// Package syncerr defines the SyncPlay core's error taxonomy: sentinel
// errors for the failure modes named in the specification, plus a
// suggestion-carrying wrapper for surfacing a remediation hint alongside a
// failure.
package syncerr

import (
	"errors"
	"strings"
)

// Sentinel errors for common SyncPlay failure scenarios.
var (
	ErrNotEnabled           = errors.New("syncplay: not enabled")
	ErrAccessDenied         = errors.New("syncplay: access denied")
	ErrStaleUpdate          = errors.New("syncplay: stale queue update")
	ErrPlaylistItemMismatch = errors.New("syncplay: playlist item mismatch")
	ErrPlayerTimeout        = errors.New("syncplay: player event timeout")
	ErrPlayerCommandFailed  = errors.New("syncplay: player command failed")
	ErrInvariantViolation   = errors.New("syncplay: invariant violation")
	ErrNoSamples            = errors.New("syncplay: no time sync samples")
	ErrTransport            = errors.New("syncplay: transport request failed")
)

// SyncError wraps an error with a user-facing suggestion.
type SyncError struct {
	Err        error
	Suggestion string
}

func (e *SyncError) Error() string {
	return e.Err.Error()
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &SyncError{Err: err, Suggestion: suggestion}
}

// GetSuggestion returns a remediation suggestion for err, or "" if none
// applies.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var syncErr *SyncError
	if errors.As(err, &syncErr) && syncErr.Suggestion != "" {
		return syncErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, ErrNotEnabled):
		return "Join a SyncPlay group before sending playback commands"
	case errors.Is(err, ErrAccessDenied):
		return "Ask a group administrator to grant playback or playlist access"
	case errors.Is(err, ErrStaleUpdate):
		return "No action needed; a newer update has already superseded this one"
	case errors.Is(err, ErrPlaylistItemMismatch):
		return "The group has moved on to a different item; this command was dropped"
	case errors.Is(err, ErrPlayerTimeout):
		return "The local player did not respond in time; the next command will resync"
	case errors.Is(err, ErrNoSamples):
		return "Waiting for the first time sync sample before enacting commands"
	case errors.Is(err, ErrTransport), strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "network"):
		return "Check the connection to the SyncPlay server and try again"
	default:
		return ""
	}
}
