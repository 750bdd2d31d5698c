package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nilsen-dev/syncplay/internal/tail"
	"github.com/nilsen-dev/syncplay/internal/wizard"
)

var joinTimeout time.Duration

var joinCmd = &cobra.Command{
	Use:   "join [group]",
	Short: "Join a SyncPlay group and stay connected",
	Long: `Connects to the configured server, optionally requesting a
specific group, and stays attached relaying group events until
interrupted. This is the long-running command: halt/follow/queue/status
expect a join (or another client) to already be holding the group open.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJoin,
}

func init() {
	joinCmd.Flags().DurationVar(&joinTimeout, "timeout", 10*time.Second, "how long to wait for the group to become ready")
	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	groupID := cfg.Server.DefaultGroupID
	if len(args) > 0 {
		groupID = args[0]
	}

	if wizard.NeedsGroup(groupID) && !JSONOutput() {
		interactive := wizard.NewInteractive()
		picked, err := interactive.PromptGroup()
		if err != nil {
			return fmt.Errorf("group prompt: %w", err)
		}
		groupID = picked
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sess, err := newSessionForGroup(ctx, groupID)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := waitForReady(ctx, sess, joinTimeout); err != nil {
		return err
	}

	if JSONOutput() {
		Minimal(fmt.Sprintf(`{"status":"joined","groupId":%q}`, groupID))
	} else {
		fmt.Printf("🔗 Joined. Relaying group events — press Ctrl+C to leave.\n")
	}

	formatter := tail.NewFormatter(tail.WithTimestamp(true))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-sess.watcher.Events():
			if !ok {
				return nil
			}
			fmt.Println(formatter.Format(e))
		}
	}
}

// newSessionForGroup is newSession plus an optional groupId query
// parameter on the server URL, for servers that key the join on the
// connection itself rather than a separate signaling call.
func newSessionForGroup(ctx context.Context, groupID string) (*session, error) {
	if groupID == "" {
		return newSession(ctx)
	}
	orig := cfg.Server.URL
	u, err := url.Parse(orig)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	q := u.Query()
	q.Set("groupId", groupID)
	u.RawQuery = q.Encode()
	cfg.Server.URL = u.String()
	defer func() { cfg.Server.URL = orig }()
	return newSession(ctx)
}

// waitForReady blocks until the session's watcher reports "enabled", or
// returns an error on timeout.
func waitForReady(ctx context.Context, sess *session, timeout time.Duration) error {
	if sess.mgr.Session().Enabled {
		return nil
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("timed out waiting to join group")
		case e, ok := <-sess.watcher.Events():
			if !ok {
				return fmt.Errorf("connection closed before joining")
			}
			if e.Name == "enabled" {
				return nil
			}
		}
	}
}
