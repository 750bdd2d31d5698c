package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leave the current group",
	Long: `Disconnects from the server. Group membership is server-side
session state (spec: "the server's side of the protocol" is out of this
core's scope), so leaving is simply dropping the connection; the server
notices and emits GroupLeft/UserLeft to the remaining participants.`,
	RunE: runLeave,
}

func init() {
	rootCmd.AddCommand(leaveCmd)
}

func runLeave(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	sess.Close()

	if JSONOutput() {
		Minimal(`{"status":"left"}`)
	} else {
		fmt.Println("👋 Left the group")
	}
	return nil
}
