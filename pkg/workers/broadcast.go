package workers

import (
	"context"

	"github.com/DarianStillwater/courtside/pkg/clients"
	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/match/types"
	"github.com/DarianStillwater/courtside/pkg/messages"
)

// BroadcastWorker fans match notifications out to connected spectators.
// It consumes a single ordered channel, so spectators observe messages
// in the order the orchestrator emitted them.
type BroadcastWorker struct {
	spectators    *clients.SpectatorManager
	notifications <-chan types.Notification
}

type NewBroadcastWorkerOptions struct {
	Spectators    *clients.SpectatorManager
	Notifications <-chan types.Notification
}

func NewBroadcastWorker(opts NewBroadcastWorkerOptions) *BroadcastWorker {
	return &BroadcastWorker{
		spectators:    opts.Spectators,
		notifications: opts.Notifications,
	}
}

func (w *BroadcastWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-w.notifications:
			w.broadcast(n)
		}
	}
}

func (w *BroadcastWorker) broadcast(n types.Notification) {
	msg, err := messages.FromNotification(n)
	if err != nil {
		log.Error("Failed to build broadcast message: %v", err)
		return
	}
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		log.Error("Failed to serialize broadcast message: %v", err)
		return
	}

	for _, spectator := range w.spectators.ForMatch(n.MatchID) {
		select {
		case spectator.Send <- b:
		default:
			// Slow spectators drop messages rather than stalling the
			// stream for everyone else.
			log.Trace("Dropping message for slow spectator %d", spectator.ID)
		}
	}
}
