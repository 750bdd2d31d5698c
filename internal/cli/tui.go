package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/nilsen-dev/syncplay/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [group]",
	Short: "Open a read-only dashboard for the current session",
	Long: `Connects, joins the group, and renders a live dashboard of
session state, group membership, the shared playlist, and time-sync
drift. Quit with q or Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	groupID := cfg.Server.DefaultGroupID
	if len(args) > 0 {
		groupID = args[0]
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sess, err := newSessionForGroup(ctx, groupID)
	if err != nil {
		return err
	}
	defer sess.Close()

	refresh := time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond
	return tui.Run(sess.mgr, sess.watcher, refresh)
}
