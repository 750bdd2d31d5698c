package wizard

import (
	"os"

	"golang.org/x/term"
)

// Interactive gates wizard prompts on whether the process is attached to
// a terminal, so a scripted/piped invocation never blocks on input.
type Interactive struct {
	enabled bool
	groups  []GroupOption
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{enabled: true}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// SetGroups sets the known joinable groups for the group picker.
func (i *Interactive) SetGroups(groups []GroupOption) {
	i.groups = groups
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptGroup launches the group picker if interactive mode is
// available, falling back to free-text entry when no groups are known.
// Returns "" if not interactive.
func (i *Interactive) PromptGroup() (string, error) {
	if !i.CanInteract() {
		return "", nil
	}
	return PromptGroupSelection(i.groups)
}

// NeedsGroup returns true if a group id is required but neither an
// argument nor a configured default supplied one.
func NeedsGroup(groupIDFlag string) bool {
	return groupIDFlag == ""
}
