package wizard

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// GroupOption is a joinable group, as a transport-level group listing
// would report it if the server exposes one. No SyncPlay Transport
// operation (spec's §6) lists groups — joining a group is server-side
// protocol, out of scope here — so in practice this picker only ever
// renders a free-text entry, not a populated list.
type GroupOption struct {
	ID           string
	Participants int
}

// PromptGroupID asks the user to type the id of the group to join. Used
// by `syncplayctl join` when no group id was given on the command line
// and none is configured as the default.
func PromptGroupID() (string, error) {
	var groupID string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Group ID").
				Description("No default group configured. Enter the SyncPlay group to join.").
				Value(&groupID).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("a group id is required")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}
	return groupID, nil
}

// PromptGroupSelection lets the user pick among known joinable groups,
// for the (currently theoretical) case where the transport can list them.
func PromptGroupSelection(groups []GroupOption) (string, error) {
	if len(groups) == 0 {
		return PromptGroupID()
	}

	options := make([]huh.Option[string], len(groups))
	for i, g := range groups {
		label := fmt.Sprintf("%s (%d joined)", g.ID, g.Participants)
		options[i] = huh.NewOption(label, g.ID)
	}

	var groupID string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a group to join").
				Options(options...).
				Value(&groupID),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}
	return groupID, nil
}
