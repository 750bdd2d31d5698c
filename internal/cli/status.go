package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var statusWait time.Duration

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current SyncPlay session status",
	Long:  `Connects briefly and reports session/group state.`,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().DurationVar(&statusWait, "wait", 3*time.Second, "how long to wait for group state before reporting")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), statusWait+2*time.Second)
	defer cancel()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	_ = waitForReady(ctx, sess, statusWait)

	session := sess.mgr.Session()
	group := sess.mgr.GroupInfo()

	if JSONOutput() {
		out := map[string]interface{}{
			"enabled":        session.Enabled,
			"ready":          session.Ready,
			"followingGroup": session.FollowingGroup,
		}
		if group != nil {
			out["groupId"] = group.GroupID
			out["participants"] = group.Participants
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	if !session.Enabled {
		fmt.Println("Not in a group")
		return nil
	}

	fmt.Printf("%s In group\n", StatusIcon(true))
	if group != nil {
		fmt.Printf("  Group:      %s\n", group.GroupID)
		fmt.Printf("  Members:    %d\n", len(group.Participants))
	}
	fmt.Printf("  Ready:      %s\n", StatusIcon(session.Ready))
	fmt.Printf("  Following:  %s\n", StatusIcon(session.FollowingGroup))
	if cmd, ok := sess.mgr.LastCommand(); ok {
		fmt.Printf("  Last cmd:   %s\n", cmd.Kind)
	}

	return nil
}
