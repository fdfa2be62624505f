package clients

import (
	"sync"
)

const (
	// SpectatorSendBufferSize is the per-spectator outbound buffer. A
	// spectator that falls this far behind starts dropping messages.
	SpectatorSendBufferSize = 256
)

// Spectator is one connected watcher of a match.
type Spectator struct {
	ID      uint32
	MatchID string
	// Send carries serialized messages to the connection's write loop.
	// It is never closed; writers may race removal, so a send after
	// Remove lands in the buffer and is dropped with the spectator.
	Send chan []byte
}

// SpectatorManager tracks connected spectators per match.
type SpectatorManager struct {
	lock       sync.RWMutex
	spectators map[uint32]*Spectator
	nextID     uint32
}

func NewSpectatorManager() *SpectatorManager {
	return &SpectatorManager{
		spectators: make(map[uint32]*Spectator),
		nextID:     1,
	}
}

// Add registers a spectator for a match and returns it.
func (m *SpectatorManager) Add(matchID string) *Spectator {
	m.lock.Lock()
	defer m.lock.Unlock()
	spectator := &Spectator{
		ID:      m.nextID,
		MatchID: matchID,
		Send:    make(chan []byte, SpectatorSendBufferSize),
	}
	m.nextID++
	m.spectators[spectator.ID] = spectator
	return spectator
}

// Remove unregisters a spectator. The send channel is left open so a
// broadcast holding a stale ForMatch snapshot cannot panic on it.
func (m *SpectatorManager) Remove(id uint32) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.spectators, id)
}

// ForMatch returns the spectators watching a match.
func (m *SpectatorManager) ForMatch(matchID string) []*Spectator {
	m.lock.RLock()
	defer m.lock.RUnlock()
	var spectators []*Spectator
	for _, s := range m.spectators {
		if s.MatchID == matchID {
			spectators = append(spectators, s)
		}
	}
	return spectators
}

// Count returns the number of connected spectators.
func (m *SpectatorManager) Count() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.spectators)
}
