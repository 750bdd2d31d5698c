package playbackcore

import (
	"context"

	"github.com/nilsen-dev/syncplay/internal/syncmodel"
)

// BufferingRequest is sent to the group whenever the local player starts or
// finishes waiting for data (spec §4.D's buffering protocol).
type BufferingRequest struct {
	When           syncmodel.RemoteTime
	PositionTicks  syncmodel.Tick
	IsPlaying      bool
	PlaylistItemID string
	Done           bool
}

// BufferingReporter is the narrow transport slice the scheduler needs to
// tell the group it has stalled or recovered.
type BufferingReporter interface {
	RequestBuffering(ctx context.Context, req BufferingRequest) error
}
