package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/match/constants"
	"github.com/DarianStillwater/courtside/pkg/match/types"
	"github.com/DarianStillwater/courtside/pkg/queue"
)

// ForfeitError is returned from NewOrchestrator when a roster cannot
// field a full lineup. The match never starts.
type ForfeitError struct {
	TeamID   string
	Eligible int
}

func (e *ForfeitError) Error() string {
	return fmt.Sprintf("team %s cannot field %d players (%d eligible)", e.TeamID, constants.LineupSize, e.Eligible)
}

// IsForfeit reports whether an error is a forfeit at initialization.
func IsForfeit(err error) bool {
	_, ok := err.(*ForfeitError)
	return ok
}

// Orchestrator owns one match: it runs the possession loop, applies
// collaborator decisions, manages the quarter/overtime state machine and
// emits ordered notifications. It is the sole writer of the match state.
type Orchestrator struct {
	lock sync.RWMutex

	state      *types.MatchState
	home       *types.Team
	away       *types.Team
	controlled types.Side
	hasCoach   bool // a human controls one side
	config     types.MatchConfig

	engine      PossessionEngine
	freeThrows  FreeThrowResolver
	homeAdvisor TimeoutAdvisor
	awayAdvisor TimeoutAdvisor

	ledger       *FoulLedger
	notifier     *Notifier
	commandQueue queue.Queue

	playByPlay      []types.PlayByPlayEntry
	pendingTimeouts map[types.Side]bool
	pendingSubs     []types.SubstituteCommand
	fatiguePrompted map[string]bool
	clutchFired     bool
	stopRequested   bool
}

type NewOrchestratorOptions struct {
	MatchID           string
	HomeTeam          *types.Team
	AwayTeam          *types.Team
	ControlledTeamID  string // empty when both sides are AI-run
	Config            types.MatchConfig
	Engine            PossessionEngine
	FreeThrowResolver FreeThrowResolver
	HomeAdvisor       TimeoutAdvisor
	AwayAdvisor       TimeoutAdvisor
	CommandQueue      queue.Queue
	Notifier          *Notifier
}

// NewOrchestrator initializes a match: it validates rosters, seeds the
// starting lineups and zeroes every tracker. It returns a *ForfeitError
// if either roster has fewer than five eligible players.
func NewOrchestrator(opts NewOrchestratorOptions) (*Orchestrator, error) {
	for _, team := range []*types.Team{opts.HomeTeam, opts.AwayTeam} {
		if len(team.Roster) < constants.LineupSize {
			return nil, &ForfeitError{TeamID: team.ID, Eligible: len(team.Roster)}
		}
	}

	state := &types.MatchState{
		MatchID:          opts.MatchID,
		Quarter:          1,
		GameClockSeconds: constants.QuarterSeconds,
		PossessionIsHome: true,
		Home:             newTeamMatchState(opts.HomeTeam),
		Away:             newTeamMatchState(opts.AwayTeam),
		PlayerMinutes:    make(map[string]float64),
		PlayerFouls:      make(map[string]int),
		PlayerPoints:     make(map[string]int),
	}

	o := &Orchestrator{
		state:           state,
		home:            opts.HomeTeam,
		away:            opts.AwayTeam,
		config:          opts.Config,
		engine:          opts.Engine,
		freeThrows:      opts.FreeThrowResolver,
		homeAdvisor:     opts.HomeAdvisor,
		awayAdvisor:     opts.AwayAdvisor,
		ledger:          NewFoulLedger(),
		notifier:        opts.Notifier,
		commandQueue:    opts.CommandQueue,
		pendingTimeouts: make(map[types.Side]bool),
		fatiguePrompted: make(map[string]bool),
	}

	switch opts.ControlledTeamID {
	case opts.HomeTeam.ID:
		o.controlled = types.SideHome
		o.hasCoach = true
	case opts.AwayTeam.ID:
		o.controlled = types.SideAway
		o.hasCoach = true
	}

	if o.notifier == nil {
		o.notifier = NewNotifier(opts.MatchID)
	}
	if o.commandQueue == nil {
		o.commandQueue = queue.NewInMemoryQueue(256)
	}

	return o, nil
}

func newTeamMatchState(team *types.Team) *types.TeamMatchState {
	lineup := make([]string, 0, constants.LineupSize)
	for _, id := range team.Starters {
		if _, ok := team.PlayerByID(id); !ok {
			continue
		}
		if containsID(lineup, id) {
			continue
		}
		lineup = append(lineup, id)
		if len(lineup) == constants.LineupSize {
			break
		}
	}
	// Fill from the bench when the configured starters don't resolve.
	for i := 0; len(lineup) < constants.LineupSize && i < len(team.Roster); i++ {
		if !containsID(lineup, team.Roster[i].ID) {
			lineup = append(lineup, team.Roster[i].ID)
		}
	}

	return &types.TeamMatchState{
		TeamID:            team.ID,
		Name:              team.Name,
		Lineup:            lineup,
		TimeoutsRemaining: constants.TimeoutsPerTeam,
	}
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Notifier returns the match's notification dispatcher.
func (o *Orchestrator) Notifier() *Notifier {
	return o.notifier
}

// Snapshot returns a deep copy of the current match state.
func (o *Orchestrator) Snapshot() *types.MatchState {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return o.state.Copy()
}

// PlayByPlay returns a copy of the play-by-play log so far.
func (o *Orchestrator) PlayByPlay() []types.PlayByPlayEntry {
	o.lock.RLock()
	defer o.lock.RUnlock()
	entries := make([]types.PlayByPlayEntry, len(o.playByPlay))
	copy(entries, o.playByPlay)
	return entries
}

// Command enqueues a control command for the loop to apply at its next
// step. Safe to call from any goroutine.
func (o *Orchestrator) Command(cmd interface{}) error {
	return o.commandQueue.Enqueue(cmd)
}

// Run drives the loop until the match completes, a stop is requested or
// the context is canceled. The match state stays inspectable afterwards.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.lock.Lock()
	o.state.Running = true
	o.lock.Unlock()

	defer func() {
		o.lock.Lock()
		o.state.Running = false
		o.lock.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := o.Step(ctx); err != nil {
			log.Error("Failed to run match step: %v", err)
		}

		o.lock.RLock()
		complete := o.state.Complete
		stopped := o.stopRequested
		paused := o.state.Paused
		speed := o.config.Speed
		o.lock.RUnlock()

		if complete || stopped {
			return nil
		}
		if paused {
			sleepContext(ctx, constants.PausePollInterval)
			continue
		}
		if delay := speed.PossessionDelay(); delay > 0 {
			sleepContext(ctx, delay)
		}
	}
}

// Step advances the match by at most one possession (plus any period
// transition it triggers). It drains pending commands first and does
// nothing while paused, so a host loop or test can call it repeatedly
// and observe a deterministically steppable state machine.
func (o *Orchestrator) Step(ctx context.Context) error {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.drainCommands()

	if o.state.Complete || o.stopRequested || o.state.Paused {
		return nil
	}

	o.state.Timestamp = time.Now().UnixMilli()
	o.runPossession(ctx)

	if !o.state.Complete && o.state.GameClockSeconds <= 0 {
		o.endPeriod()
	}

	return nil
}

// drainCommands applies all pending control commands. Pause, resume,
// stop and speed changes act immediately; timeout and substitution
// requests wait for the next dead ball (substitutions apply immediately
// while paused, which is how a foul-out prompt is answered).
func (o *Orchestrator) drainCommands() {
	pending, err := o.commandQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read match commands: %v", err)
		return
	}

	for _, item := range pending {
		switch cmd := item.(type) {
		case *types.PauseCommand:
			o.pause("requested")
		case *types.ResumeCommand:
			o.resume()
		case *types.StopCommand:
			o.stopRequested = true
		case *types.SetSpeedCommand:
			o.config.Speed = cmd.Speed
			log.Debug("Match %s speed set to %s", o.state.MatchID, cmd.Speed)
		case *types.TimeoutCommand:
			o.pendingTimeouts[cmd.Side] = true
		case *types.SubstituteCommand:
			if o.state.Paused {
				o.applySubstitution(*cmd)
			} else {
				o.pendingSubs = append(o.pendingSubs, *cmd)
			}
		default:
			log.Error("Unhandled match command type: %T", item)
		}
	}
}

func (o *Orchestrator) pause(reason string) {
	if o.state.Paused {
		return
	}
	o.state.Paused = true
	o.notifier.Publish(types.NotificationTypeMatchPaused, types.MatchPaused{Reason: reason})
}

func (o *Orchestrator) resume() {
	if !o.state.Paused {
		return
	}
	o.state.Paused = false
	o.notifier.Publish(types.NotificationTypeMatchResumed, types.MatchResumed{})
}

func (o *Orchestrator) teamFor(side types.Side) *types.Team {
	if side == types.SideHome {
		return o.home
	}
	return o.away
}

func (o *Orchestrator) advisorFor(side types.Side) TimeoutAdvisor {
	if side == types.SideHome {
		return o.homeAdvisor
	}
	return o.awayAdvisor
}

// onCourtPlayers resolves a side's lineup to player values. It rejects
// unknown IDs, duplicates and fouled-out players; a short lineup is
// legal (a team whose bench is exhausted plays shorthanded).
func (o *Orchestrator) onCourtPlayers(side types.Side) ([]types.Player, error) {
	team := o.teamFor(side)
	lineup := o.state.TeamFor(side).Lineup

	if len(lineup) > constants.LineupSize {
		return nil, fmt.Errorf("lineup for team %s has %d players", team.ID, len(lineup))
	}

	seen := make(map[string]bool, len(lineup))
	players := make([]types.Player, 0, len(lineup))
	for _, id := range lineup {
		if seen[id] {
			return nil, fmt.Errorf("duplicate player %s in lineup for team %s", id, team.ID)
		}
		seen[id] = true
		player, ok := team.PlayerByID(id)
		if !ok {
			return nil, fmt.Errorf("unknown player %s in lineup for team %s", id, team.ID)
		}
		if o.ledger.FouledOut(id) {
			return nil, fmt.Errorf("fouled-out player %s in lineup for team %s", id, team.ID)
		}
		players = append(players, *player)
	}

	if len(players) == 0 {
		return nil, fmt.Errorf("empty lineup for team %s", team.ID)
	}

	return players, nil
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
