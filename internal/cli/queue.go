package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nilsen-dev/syncplay/internal/syncmodel"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the group's shared playlist",
}

var queueAddCmd = &cobra.Command{
	Use:   "add <itemId>...",
	Short: "Queue items at the end of the playlist",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withQueueAction(func(ctx context.Context, mgr queueManager, args []string) error {
		return mgr.Queue(ctx, args)
	}),
}

var queueNextCmd = &cobra.Command{
	Use:   "next <itemId>...",
	Short: "Queue items to play next",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withQueueAction(func(ctx context.Context, mgr queueManager, args []string) error {
		return mgr.QueueNext(ctx, args)
	}),
}

var queueRemoveCmd = &cobra.Command{
	Use:   "remove <itemId>...",
	Short: "Remove items from the playlist",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withQueueAction(func(ctx context.Context, mgr queueManager, args []string) error {
		return mgr.RemoveFromPlaylist(ctx, args)
	}),
}

var queueMoveCmd = &cobra.Command{
	Use:   "move <itemId> <newIndex>",
	Short: "Move a playlist item to a new position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index: %s", args[1])
		}
		return withQueueAction(func(ctx context.Context, mgr queueManager, args []string) error {
			return mgr.MovePlaylistItem(ctx, args[0], idx)
		})(cmd, args)
	},
}

var queueRepeatCmd = &cobra.Command{
	Use:   "repeat <off|one|all>",
	Short: "Set the playlist repeat mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseRepeatMode(args[0])
		if err != nil {
			return err
		}
		return withQueueAction(func(ctx context.Context, mgr queueManager, args []string) error {
			return mgr.SetRepeatMode(ctx, mode)
		})(cmd, args)
	},
}

var queueShuffleCmd = &cobra.Command{
	Use:   "shuffle <on|off>",
	Short: "Set the playlist shuffle mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseShuffleMode(args[0])
		if err != nil {
			return err
		}
		return withQueueAction(func(ctx context.Context, mgr queueManager, args []string) error {
			return mgr.SetShuffleMode(ctx, mode)
		})(cmd, args)
	},
}

func init() {
	queueCmd.AddCommand(queueAddCmd, queueNextCmd, queueRemoveCmd, queueMoveCmd, queueRepeatCmd, queueShuffleCmd)
	rootCmd.AddCommand(queueCmd)
}

// queueManager is the slice of *manager.Manager's playlist-access-checked
// operations these subcommands need.
type queueManager interface {
	Queue(ctx context.Context, itemIDs []string) error
	QueueNext(ctx context.Context, itemIDs []string) error
	RemoveFromPlaylist(ctx context.Context, playlistItemIDs []string) error
	MovePlaylistItem(ctx context.Context, playlistItemID string, newIndex int) error
	SetRepeatMode(ctx context.Context, mode syncmodel.RepeatMode) error
	SetShuffleMode(ctx context.Context, mode syncmodel.ShuffleMode) error
}

// withQueueAction opens a short-lived session, waits for the group to
// become ready, runs action, then reports success/failure the way the
// teacher's runPause/runResume commands do.
func withQueueAction(action func(ctx context.Context, mgr queueManager, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
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

		if err := action(ctx, sess.mgr, args); err != nil {
			return fmt.Errorf("queue command failed: %w", err)
		}

		if JSONOutput() {
			Minimal(`{"status":"ok"}`)
		} else {
			fmt.Println("✓ Sent")
		}
		return nil
	}
}

func parseRepeatMode(s string) (syncmodel.RepeatMode, error) {
	switch s {
	case "off":
		return syncmodel.RepeatNone, nil
	case "one":
		return syncmodel.RepeatOne, nil
	case "all":
		return syncmodel.RepeatAll, nil
	default:
		return "", fmt.Errorf("invalid repeat mode: %s (must be off, one, or all)", s)
	}
}

func parseShuffleMode(s string) (syncmodel.ShuffleMode, error) {
	switch s {
	case "off":
		return syncmodel.ShuffleSorted, nil
	case "on":
		return syncmodel.ShuffleShuffle, nil
	default:
		return "", fmt.Errorf("invalid shuffle mode: %s (must be on or off)", s)
	}
}
