package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var haltCmd = &cobra.Command{
	Use:   "halt",
	Short: "Stop following the group without leaving it",
	Long:  `Tells the server not to wait for this client and stops applying the group's item switches (set current item, next, previous) locally until follow is run again. Playback commands from the group (unpause, pause, seek, stop) are still applied.`,
	RunE:  runHalt,
}

func init() {
	rootCmd.AddCommand(haltCmd)
}

func runHalt(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := waitForReady(ctx, sess, 8*time.Second); err != nil {
		return err
	}
	sess.mgr.HaltGroup()

	if JSONOutput() {
		Minimal(`{"status":"halted"}`)
	} else {
		fmt.Println("⏸ Halted; group item switches are not applied locally until follow")
	}
	return nil
}
