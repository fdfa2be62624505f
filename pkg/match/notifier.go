package match

import (
	"sync"

	"github.com/DarianStillwater/courtside/pkg/match/types"
)

// Listener receives ordered match notifications. Payloads are value
// copies; a listener cannot reach back into the live match state.
type Listener func(n types.Notification)

// Notifier dispatches notifications to registered listeners. Dispatch
// happens synchronously on the orchestrator loop goroutine, so listeners
// observe notifications in exactly the order events occurred.
type Notifier struct {
	matchID   string
	lock      sync.RWMutex
	listeners []Listener
}

func NewNotifier(matchID string) *Notifier {
	return &Notifier{
		matchID: matchID,
	}
}

// Subscribe registers a listener. Listeners registered after the match
// starts only see notifications from that point on.
func (n *Notifier) Subscribe(l Listener) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.listeners = append(n.listeners, l)
}

// Publish sends a notification to every listener in registration order.
func (n *Notifier) Publish(notificationType string, payload interface{}) {
	n.lock.RLock()
	listeners := make([]Listener, len(n.listeners))
	copy(listeners, n.listeners)
	n.lock.RUnlock()

	notification := types.Notification{
		MatchID: n.matchID,
		Type:    notificationType,
		Payload: payload,
	}
	for _, l := range listeners {
		l(notification)
	}
}
