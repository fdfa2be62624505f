package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/match"
	"github.com/DarianStillwater/courtside/pkg/match/types"
	"github.com/DarianStillwater/courtside/pkg/queue"
	"github.com/DarianStillwater/courtside/pkg/sim"
	"github.com/DarianStillwater/courtside/pkg/workers"
)

const commandQueueSize = 256

// ManagedMatch is one live (or recently finished) match and its control
// surface.
type ManagedMatch struct {
	ID           string
	HomeTeam     *types.Team
	AwayTeam     *types.Team
	Orchestrator *match.Orchestrator
	cancel       context.CancelFunc

	pbpLock    sync.Mutex
	playByPlay []types.PlayByPlayEntry
}

// MatchManager constructs and tracks matches. Each match gets its own
// orchestrator, collaborators and goroutine; there is no process-wide
// match singleton.
type MatchManager struct {
	lock          sync.RWMutex
	matches       map[string]*ManagedMatch
	saveMatchChan chan<- workers.SaveMatchRequest
	sinks         []chan<- types.Notification
}

type NewMatchManagerOptions struct {
	SaveMatchChan chan<- workers.SaveMatchRequest
	// NotificationSinks receive every notification from every match, in
	// emission order. Sends are non-blocking; a full sink drops.
	NotificationSinks []chan<- types.Notification
}

func NewMatchManager(opts NewMatchManagerOptions) *MatchManager {
	return &MatchManager{
		matches:       make(map[string]*ManagedMatch),
		saveMatchChan: opts.SaveMatchChan,
		sinks:         opts.NotificationSinks,
	}
}

type CreateMatchOptions struct {
	HomeTeam         *types.Team
	AwayTeam         *types.Team
	ControlledTeamID string
	Config           types.MatchConfig
}

// CreateMatch initializes and starts a match, returning its ID. A
// roster that cannot field five players produces a forfeit: the result
// is persisted and published, the loop never starts, and the forfeit
// error is returned.
func (m *MatchManager) CreateMatch(ctx context.Context, opts CreateMatchOptions) (string, error) {
	if opts.HomeTeam == nil || opts.AwayTeam == nil {
		return "", fmt.Errorf("both teams are required")
	}

	matchID := uuid.NewString()
	notifier := match.NewNotifier(matchID)

	managed := &ManagedMatch{
		ID:       matchID,
		HomeTeam: opts.HomeTeam,
		AwayTeam: opts.AwayTeam,
	}
	notifier.Subscribe(m.listenerFor(managed))

	seed := opts.Config.Seed
	orchestrator, err := match.NewOrchestrator(match.NewOrchestratorOptions{
		MatchID:           matchID,
		HomeTeam:          opts.HomeTeam,
		AwayTeam:          opts.AwayTeam,
		ControlledTeamID:  opts.ControlledTeamID,
		Config:            opts.Config,
		Engine:            sim.NewEngine(seed),
		FreeThrowResolver: sim.NewFreeThrowSim(seed + 1),
		HomeAdvisor:       sim.NewAdvisor(),
		AwayAdvisor:       sim.NewAdvisor(),
		CommandQueue:      queue.NewInMemoryQueue(commandQueueSize),
		Notifier:          notifier,
	})
	if err != nil {
		if forfeitErr, ok := err.(*match.ForfeitError); ok {
			m.handleForfeit(notifier, matchID, opts, forfeitErr)
		}
		return "", err
	}

	managed.Orchestrator = orchestrator

	runCtx, cancel := context.WithCancel(context.Background())
	managed.cancel = cancel

	m.lock.Lock()
	m.matches[matchID] = managed
	m.lock.Unlock()

	go func() {
		if err := orchestrator.Run(runCtx); err != nil && err != context.Canceled {
			log.Error("Match %s loop ended with error: %v", matchID, err)
		}
	}()

	log.Info("Match %s created: %s vs %s", matchID, opts.HomeTeam.Name, opts.AwayTeam.Name)
	return matchID, nil
}

// handleForfeit publishes and persists the result of a match that never
// started.
func (m *MatchManager) handleForfeit(notifier *match.Notifier, matchID string, opts CreateMatchOptions, forfeitErr *match.ForfeitError) {
	result := match.ForfeitResult(matchID, opts.HomeTeam, opts.AwayTeam, forfeitErr.TeamID)
	notifier.Publish(types.NotificationTypeMatchForfeited, types.MatchForfeited{
		Result: result,
		Reason: forfeitErr.Error(),
	})
	m.enqueueSave(workers.SaveMatchRequest{Result: result})
	log.Warn("Match %s forfeited: %v", matchID, forfeitErr)
}

// listenerFor builds the notification listener for a match. It runs on
// the orchestrator loop goroutine, so it must never call back into the
// orchestrator: it collects play-by-play itself and hands finished
// matches to the save worker from what the notifications carry.
func (m *MatchManager) listenerFor(managed *ManagedMatch) match.Listener {
	return func(n types.Notification) {
		switch payload := n.Payload.(type) {
		case types.PlayByPlayEntry:
			managed.pbpLock.Lock()
			managed.playByPlay = append(managed.playByPlay, payload)
			managed.pbpLock.Unlock()
		case types.MatchComplete:
			m.enqueueSave(workers.SaveMatchRequest{
				Result:     payload.Result,
				BoxScore:   payload.BoxScore,
				PlayByPlay: managed.PlayByPlay(),
			})
		}

		for _, sink := range m.sinks {
			select {
			case sink <- n:
			default:
				log.Warn("Dropping notification %s for match %s: sink full", n.Type, n.MatchID)
			}
		}
	}
}

func (m *MatchManager) enqueueSave(saveRequest workers.SaveMatchRequest) {
	if m.saveMatchChan == nil {
		return
	}
	select {
	case m.saveMatchChan <- saveRequest:
	default:
		log.Error("Failed to enqueue save for match %s: channel full", saveRequest.Result.MatchID)
	}
}

// PlayByPlay returns a copy of the entries collected so far.
func (mm *ManagedMatch) PlayByPlay() []types.PlayByPlayEntry {
	mm.pbpLock.Lock()
	defer mm.pbpLock.Unlock()
	entries := make([]types.PlayByPlayEntry, len(mm.playByPlay))
	copy(entries, mm.playByPlay)
	return entries
}

// Get returns a managed match by ID.
func (m *MatchManager) Get(matchID string) (*ManagedMatch, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	managed, ok := m.matches[matchID]
	return managed, ok
}

// Exists reports whether a match ID is known.
func (m *MatchManager) Exists(matchID string) bool {
	_, ok := m.Get(matchID)
	return ok
}

// List returns the IDs of all managed matches.
func (m *MatchManager) List() []string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	ids := make([]string, 0, len(m.matches))
	for id := range m.matches {
		ids = append(ids, id)
	}
	return ids
}

// Command enqueues a control command for a match.
func (m *MatchManager) Command(matchID string, cmd interface{}) error {
	managed, ok := m.Get(matchID)
	if !ok {
		return fmt.Errorf("unknown match: %s", matchID)
	}
	return managed.Orchestrator.Command(cmd)
}

// Snapshot returns a deep copy of a match's state.
func (m *MatchManager) Snapshot(matchID string) (*types.MatchState, error) {
	managed, ok := m.Get(matchID)
	if !ok {
		return nil, fmt.Errorf("unknown match: %s", matchID)
	}
	return managed.Orchestrator.Snapshot(), nil
}

// StopMatch cancels a match's loop. The match stays inspectable.
func (m *MatchManager) StopMatch(matchID string) error {
	managed, ok := m.Get(matchID)
	if !ok {
		return fmt.Errorf("unknown match: %s", matchID)
	}
	if err := managed.Orchestrator.Command(&types.StopCommand{}); err != nil {
		return err
	}
	return nil
}

// Shutdown cancels every running match loop.
func (m *MatchManager) Shutdown() {
	m.lock.RLock()
	defer m.lock.RUnlock()
	for _, managed := range m.matches {
		if managed.cancel != nil {
			managed.cancel()
		}
	}
}
