package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Resume following the group's playback",
	Long:  `Clears an earlier halt, letting the group's item switches apply locally again.`,
	RunE:  runFollow,
}

func init() {
	rootCmd.AddCommand(followCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
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
	sess.mgr.FollowGroup(ctx)

	if JSONOutput() {
		Minimal(`{"status":"following"}`)
	} else {
		fmt.Println("▶ Following group playback")
	}
	return nil
}
