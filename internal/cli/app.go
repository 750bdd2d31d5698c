package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/nilsen-dev/syncplay/internal/manager"
	"github.com/nilsen-dev/syncplay/internal/playeradapter"
	"github.com/nilsen-dev/syncplay/internal/settings"
	"github.com/nilsen-dev/syncplay/internal/tail"
	"github.com/nilsen-dev/syncplay/internal/transport/ws"
)

// session bundles the live collaborators a command needs: a connected
// Manager plus the watcher relaying its emitted events, mirroring the
// teacher's getSpotifyClient/getPlayer per-command wiring helpers.
type session struct {
	mgr     *manager.Manager
	watcher *tail.Watcher
	client  *ws.Client
}

// newSession validates the loaded config, dials the SyncPlay server, and
// wires a Manager over it. Every command that talks to a group starts
// here, the way the teacher's control.go commands all start from
// getSpotifyPlayer.
func newSession(ctx context.Context) (*session, error) {
	if cfg.Server.URL == "" {
		return nil, fmt.Errorf("no server configured: set server.url in config or $SYNCPLAY_SERVER_URL")
	}
	if cfg.Server.UserID == "" {
		return nil, fmt.Errorf("no user id configured: set server.user_id in config or $SYNCPLAY_USER_ID")
	}
	if _, err := url.Parse(cfg.Server.URL); err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}

	watcher := tail.NewWatcher()

	store := settings.FromSeed(cfg.SyncPlay.Seed())
	adapter := playeradapter.NewRemote()
	mgr := manager.New(adapter, store, cfg.Server.UserID, watcher.Handle)

	client := ws.New(cfg.Server.URL, http.Header{})
	if Verbose() {
		client.SetLogFunc(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		})
	}

	if err := mgr.Init(ctx, client); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	return &session{mgr: mgr, watcher: watcher, client: client}, nil
}

func (s *session) Close() {
	_ = s.client.Close()
	s.watcher.Close()
}
