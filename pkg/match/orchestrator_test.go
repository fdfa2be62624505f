package match

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarianStillwater/courtside/pkg/match/constants"
	"github.com/DarianStillwater/courtside/pkg/match/types"
	"github.com/DarianStillwater/courtside/pkg/queue"
)

func testTeam(id string, size int) *types.Team {
	roster := make([]types.Player, size)
	starters := make([]string, 0, constants.LineupSize)
	for i := 0; i < size; i++ {
		playerID := fmt.Sprintf("%s-%d", id, i+1)
		roster[i] = types.Player{
			ID:       playerID,
			Name:     fmt.Sprintf("%s player %d", id, i+1),
			Position: "G",
			Rating: types.PlayerRating{
				Inside:     70,
				Outside:    70,
				Playmaking: 70,
				Defense:    70,
				Rebounding: 70,
				FreeThrow:  80,
				Stamina:    80,
			},
		}
		if i < constants.LineupSize {
			starters = append(starters, playerID)
		}
	}
	return &types.Team{
		ID:       id,
		Name:     id,
		Roster:   roster,
		Starters: starters,
	}
}

// scriptedEngine returns pre-built outcomes in order, repeating the last
// one once the script runs out.
type scriptedEngine struct {
	outcomes []*types.PossessionOutcome
	err      error
	calls    int
}

func (e *scriptedEngine) Simulate(in SimulationInput) (*types.PossessionOutcome, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	if len(e.outcomes) == 0 {
		return &types.PossessionOutcome{
			EndClockSeconds: in.ClockSeconds - 20,
			DurationSeconds: 20,
		}, nil
	}
	i := e.calls - 1
	if i >= len(e.outcomes) {
		i = len(e.outcomes) - 1
	}
	outcome := e.outcomes[i]
	if outcome.EndClockSeconds > in.ClockSeconds {
		outcome.EndClockSeconds = in.ClockSeconds
	}
	return outcome, nil
}

// scriptedFreeThrows makes every attempt.
type scriptedFreeThrows struct{}

func (f *scriptedFreeThrows) Resolve(shooter types.Player, attempts int, ctx FreeThrowContext) (*FreeThrowResult, error) {
	return &FreeThrowResult{
		Made:      attempts,
		Attempted: attempts,
	}, nil
}

// scriptedAdvisor returns a fixed decision.
type scriptedAdvisor struct {
	decision TimeoutDecision
}

func (a *scriptedAdvisor) Decide(lineup []types.Player, ctx AdvisorContext, timeoutsRemaining int, isControlledSide bool) TimeoutDecision {
	return a.decision
}

// notificationLog collects notifications in dispatch order.
type notificationLog struct {
	notifications []types.Notification
}

func (l *notificationLog) listener(n types.Notification) {
	l.notifications = append(l.notifications, n)
}

func (l *notificationLog) typeSequence() []string {
	seq := make([]string, len(l.notifications))
	for i, n := range l.notifications {
		seq[i] = n.Type
	}
	return seq
}

func (l *notificationLog) ofType(notificationType string) []types.Notification {
	var out []types.Notification
	for _, n := range l.notifications {
		if n.Type == notificationType {
			out = append(out, n)
		}
	}
	return out
}

type testFixture struct {
	orchestrator *Orchestrator
	engine       *scriptedEngine
	log          *notificationLog
}

func newTestFixture(t *testing.T, engine *scriptedEngine, mutate func(opts *NewOrchestratorOptions)) *testFixture {
	t.Helper()
	log := &notificationLog{}
	notifier := NewNotifier("test-match")
	notifier.Subscribe(log.listener)

	opts := NewOrchestratorOptions{
		MatchID:           "test-match",
		HomeTeam:          testTeam("home", 10),
		AwayTeam:          testTeam("away", 10),
		Config:            types.MatchConfig{Speed: types.SpeedInstant, Tiebreak: types.TiebreakPossession},
		Engine:            engine,
		FreeThrowResolver: &scriptedFreeThrows{},
		HomeAdvisor:       &scriptedAdvisor{},
		AwayAdvisor:       &scriptedAdvisor{},
		CommandQueue:      queue.NewInMemoryQueue(64),
		Notifier:          notifier,
	}
	if mutate != nil {
		mutate(&opts)
	}

	orchestrator, err := NewOrchestrator(opts)
	require.NoError(t, err)
	return &testFixture{
		orchestrator: orchestrator,
		engine:       engine,
		log:          log,
	}
}

func madeShot(actorID string, points int, endClock float64) *types.PossessionOutcome {
	return &types.PossessionOutcome{
		Events: []types.PossessionEvent{
			{
				Type:         types.EventTypeShot,
				ActorID:      actorID,
				Points:       points,
				Success:      true,
				ClockSeconds: endClock,
				Description:  fmt.Sprintf("%s scores", actorID),
			},
		},
		EndClockSeconds: endClock,
		DurationSeconds: 15,
	}
}

func missedShot(actorID, rebounderID string, endClock float64) *types.PossessionOutcome {
	return &types.PossessionOutcome{
		Events: []types.PossessionEvent{
			{
				Type:         types.EventTypeShot,
				ActorID:      actorID,
				Points:       2,
				Success:      false,
				ClockSeconds: endClock,
				Description:  fmt.Sprintf("%s misses", actorID),
			},
			{
				Type:         types.EventTypeRebound,
				ActorID:      rebounderID,
				Success:      true,
				ClockSeconds: endClock,
				Description:  fmt.Sprintf("%s rebounds", rebounderID),
			},
		},
		EndClockSeconds: endClock,
		DurationSeconds: 15,
	}
}

func shootingFoul(foulerID, fouledID string, attempts int, endClock float64) *types.PossessionOutcome {
	return &types.PossessionOutcome{
		Events: []types.PossessionEvent{
			{
				Type:         types.EventTypeFoul,
				ActorID:      foulerID,
				TargetID:     fouledID,
				ClockSeconds: endClock,
				Description:  fmt.Sprintf("%s fouls %s", foulerID, fouledID),
				Foul: &types.FoulRecord{
					Type:              types.FoulTypePersonal,
					FouledID:          fouledID,
					FreeThrowsAwarded: attempts,
				},
			},
		},
		EndClockSeconds: endClock,
		DurationSeconds: 15,
	}
}

func TestNewOrchestrator_forfeit(t *testing.T) {
	_, err := NewOrchestrator(NewOrchestratorOptions{
		MatchID:  "forfeit-match",
		HomeTeam: testTeam("home", 4),
		AwayTeam: testTeam("away", 10),
	})
	require.Error(t, err)
	assert.True(t, IsForfeit(err))

	forfeitErr, ok := err.(*ForfeitError)
	require.True(t, ok)
	assert.Equal(t, "home", forfeitErr.TeamID)
	assert.Equal(t, 4, forfeitErr.Eligible)
}

func TestNewOrchestrator_initialState(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{}, nil)
	state := f.orchestrator.Snapshot()

	assert.Equal(t, 1, state.Quarter)
	assert.Equal(t, constants.QuarterSeconds, state.GameClockSeconds)
	assert.True(t, state.PossessionIsHome)
	assert.Equal(t, []string{"home-1", "home-2", "home-3", "home-4", "home-5"}, state.Home.Lineup)
	assert.Equal(t, constants.TimeoutsPerTeam, state.Home.TimeoutsRemaining)
	assert.Equal(t, 0, state.Home.Score)
	assert.False(t, state.Complete)
}

func TestStep_madeShot(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{madeShot("home-1", 2, 700)}}, nil)

	require.NoError(t, f.orchestrator.Step(context.Background()))
	state := f.orchestrator.Snapshot()

	assert.Equal(t, 2, state.Home.Score)
	assert.Equal(t, 0, state.Away.Score)
	assert.Equal(t, 700.0, state.GameClockSeconds)
	assert.False(t, state.PossessionIsHome, "possession flips after a made basket")
	assert.Equal(t, 2, state.PlayerPoints["home-1"])
	assert.Equal(t, 2, state.Home.UnansweredPoints)

	entries := f.orchestrator.PlayByPlay()
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].HomeScore, "entry carries the score through its own play")
	assert.Equal(t, "home", entries[0].TeamID)
}

func TestStep_notificationOrder(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{madeShot("home-1", 2, 700)}}, nil)

	require.NoError(t, f.orchestrator.Step(context.Background()))

	seq := f.log.typeSequence()
	require.NotEmpty(t, seq)
	assert.Equal(t, types.NotificationTypePlayByPlay, seq[0], "the play is announced before its scoreboard update")

	boards := f.log.ofType(types.NotificationTypeScoreboard)
	require.NotEmpty(t, boards)
	first := boards[0].Payload.(types.ScoreboardUpdate)
	assert.Equal(t, 2, first.HomeScore, "a scoreboard update never reports an unapplied score")
}

func TestStep_scoreNeverDecreases(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{
		madeShot("home-1", 3, 700),
		madeShot("away-1", 2, 680),
		missedShot("home-2", "away-3", 660),
		madeShot("away-2", 2, 640),
	}}, nil)

	prevHome, prevAway := 0, 0
	for i := 0; i < 4; i++ {
		require.NoError(t, f.orchestrator.Step(context.Background()))
		state := f.orchestrator.Snapshot()
		assert.GreaterOrEqual(t, state.Home.Score, prevHome)
		assert.GreaterOrEqual(t, state.Away.Score, prevAway)
		prevHome, prevAway = state.Home.Score, state.Away.Score
	}
	assert.Equal(t, 3, prevHome)
	assert.Equal(t, 4, prevAway)
}

func TestStep_shootingFoulFreeThrows(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{
		shootingFoul("away-1", "home-1", 2, 700),
	}}, nil)

	require.NoError(t, f.orchestrator.Step(context.Background()))
	state := f.orchestrator.Snapshot()

	assert.Equal(t, 2, state.Home.Score, "both free throws count")
	assert.Equal(t, 1, state.PlayerFouls["away-1"])
	assert.Equal(t, 1, state.Away.TeamFouls)
	assert.False(t, state.PossessionIsHome, "a common shooting foul does not retain possession")

	// The foul is announced, then the trip to the line, then the board.
	seq := f.log.typeSequence()
	require.GreaterOrEqual(t, len(seq), 3)
	assert.Equal(t, types.NotificationTypePlayByPlay, seq[0])
	assert.Equal(t, types.NotificationTypePlayByPlay, seq[1])
	assert.Equal(t, types.NotificationTypeScoreboard, seq[2])

	// Free throws resolve before any possession change is observable.
	boards := f.log.ofType(types.NotificationTypeScoreboard)
	require.GreaterOrEqual(t, len(boards), 2)
	first := boards[0].Payload.(types.ScoreboardUpdate)
	assert.Equal(t, 2, first.HomeScore)
	assert.True(t, first.PossessionIsHome)
	last := boards[len(boards)-1].Payload.(types.ScoreboardUpdate)
	assert.False(t, last.PossessionIsHome)
}

func TestStep_flagrantFoulRetainsPossession(t *testing.T) {
	outcome := shootingFoul("away-1", "home-1", 2, 700)
	outcome.Events[0].Foul.Type = types.FoulTypeFlagrant1

	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{outcome}}, nil)
	require.NoError(t, f.orchestrator.Step(context.Background()))

	state := f.orchestrator.Snapshot()
	assert.Equal(t, 2, state.Home.Score)
	assert.True(t, state.PossessionIsHome, "a flagrant keeps the ball with the offense")
}

func TestStep_bonusFreeThrows(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{
		shootingFoul("away-1", "home-1", 0, 700),
	}}, nil)

	// Four prior team fouls this quarter; the fifth puts the home
	// offense in the bonus.
	for i := 0; i < constants.TeamFoulBonusThreshold-1; i++ {
		f.orchestrator.ledger.RegisterTeamFoul("away")
	}

	require.NoError(t, f.orchestrator.Step(context.Background()))
	state := f.orchestrator.Snapshot()

	assert.Equal(t, constants.BonusFreeThrows, state.Home.Score)
	assert.Equal(t, constants.TeamFoulBonusThreshold, state.Away.TeamFouls)
}

func TestStep_foulOutReplacement(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{
		shootingFoul("away-1", "home-1", 2, 700),
	}}, nil)

	for i := 0; i < constants.PersonalFoulLimit-1; i++ {
		f.orchestrator.ledger.RegisterFoul("away-1")
	}

	require.NoError(t, f.orchestrator.Step(context.Background()))
	state := f.orchestrator.Snapshot()

	assert.Equal(t, constants.PersonalFoulLimit, state.PlayerFouls["away-1"])
	assert.NotContains(t, state.Away.Lineup, "away-1")
	assert.Contains(t, state.Away.Lineup, "away-6", "first eligible bench player checks in")
	assert.Len(t, state.Away.Lineup, constants.LineupSize)

	fouledOut := f.log.ofType(types.NotificationTypePlayerFouledOut)
	require.Len(t, fouledOut, 1)
	payload := fouledOut[0].Payload.(types.PlayerFouledOut)
	assert.Equal(t, "away-1", payload.PlayerID)
	assert.Equal(t, "away-6", payload.ReplacementID)
}

func TestStep_secondFoulBySamePlayerInOnePossession(t *testing.T) {
	foulEvent := func(endClock float64) types.PossessionEvent {
		return types.PossessionEvent{
			Type:         types.EventTypeFoul,
			ActorID:      "away-1",
			TargetID:     "home-1",
			ClockSeconds: endClock,
			Description:  "away-1 fouls home-1",
			Foul: &types.FoulRecord{
				Type:     types.FoulTypePersonal,
				FouledID: "home-1",
			},
		}
	}
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{
		{
			Events:          []types.PossessionEvent{foulEvent(700), foulEvent(698)},
			EndClockSeconds: 698,
			DurationSeconds: 15,
		},
	}}, nil)

	for i := 0; i < constants.PersonalFoulLimit-1; i++ {
		f.orchestrator.ledger.RegisterFoul("away-1")
	}

	require.NoError(t, f.orchestrator.Step(context.Background()))
	state := f.orchestrator.Snapshot()

	assert.NotContains(t, state.Away.Lineup, "away-1")
	assert.Len(t, state.Away.Lineup, constants.LineupSize, "the second foul must not check in another player")
	assert.Contains(t, state.Away.Lineup, "away-6")
	assert.NotContains(t, state.Away.Lineup, "away-7")

	fouledOut := f.log.ofType(types.NotificationTypePlayerFouledOut)
	assert.Len(t, fouledOut, 1, "one foul-out announcement for one departure")
}

func TestStep_foulOutWithExhaustedBench(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{
		shootingFoul("away-1", "home-1", 2, 700),
		madeShot("away-2", 2, 680),
	}}, func(opts *NewOrchestratorOptions) {
		opts.AwayTeam = testTeam("away", constants.LineupSize)
	})

	for i := 0; i < constants.PersonalFoulLimit-1; i++ {
		f.orchestrator.ledger.RegisterFoul("away-1")
	}

	require.NoError(t, f.orchestrator.Step(context.Background()))
	state := f.orchestrator.Snapshot()

	assert.NotContains(t, state.Away.Lineup, "away-1")
	assert.Len(t, state.Away.Lineup, constants.LineupSize-1, "no bench left, the team plays shorthanded")

	fouledOut := f.log.ofType(types.NotificationTypePlayerFouledOut)
	require.Len(t, fouledOut, 1)
	assert.Empty(t, fouledOut[0].Payload.(types.PlayerFouledOut).ReplacementID)

	// Play continues with four on the floor.
	require.NoError(t, f.orchestrator.Step(context.Background()))
	state = f.orchestrator.Snapshot()
	assert.Equal(t, 2, state.Away.Score)
	assert.Equal(t, 2, f.engine.calls)
}

func TestStep_foulOutPromptsControlledCoach(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{
		shootingFoul("away-1", "home-1", 2, 700),
		madeShot("away-2", 2, 680),
	}}, func(opts *NewOrchestratorOptions) {
		opts.ControlledTeamID = "away"
	})

	for i := 0; i < constants.PersonalFoulLimit-1; i++ {
		f.orchestrator.ledger.RegisterFoul("away-1")
	}

	require.NoError(t, f.orchestrator.Step(context.Background()))
	assert.True(t, f.orchestrator.Snapshot().Paused, "the affected coach gets the match held")

	decisions := f.log.ofType(types.NotificationTypeCoachingDecision)
	require.NotEmpty(t, decisions)
	assert.Equal(t, "foulout", decisions[0].Payload.(types.CoachingDecisionRequired).Type)

	// The coach overrides the automatic pick while paused, then resumes.
	require.NoError(t, f.orchestrator.Command(&types.SubstituteCommand{Side: types.SideAway, OutID: "away-6", InID: "away-7"}))
	require.NoError(t, f.orchestrator.Command(&types.ResumeCommand{}))
	require.NoError(t, f.orchestrator.Step(context.Background()))

	state := f.orchestrator.Snapshot()
	assert.NotContains(t, state.Away.Lineup, "away-6")
	assert.Contains(t, state.Away.Lineup, "away-7")
	assert.False(t, state.Paused)
}

func TestStep_foulCountCapped(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{
		shootingFoul("away-1", "home-1", 2, 700),
	}}, nil)

	for i := 0; i < constants.PersonalFoulLimit+3; i++ {
		f.orchestrator.ledger.RegisterFoul("away-1")
	}
	assert.Equal(t, constants.PersonalFoulLimit, f.orchestrator.ledger.PersonalFouls("away-1"))
}

func TestStep_timeoutCommand(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{madeShot("home-1", 2, 700)}}, nil)

	require.NoError(t, f.orchestrator.Command(&types.TimeoutCommand{Side: types.SideAway}))
	require.NoError(t, f.orchestrator.Step(context.Background()))

	state := f.orchestrator.Snapshot()
	assert.Equal(t, constants.TimeoutsPerTeam-1, state.Away.TimeoutsRemaining)

	called := f.log.ofType(types.NotificationTypeTimeoutCalled)
	require.Len(t, called, 1)
	assert.Equal(t, "away", called[0].Payload.(types.TimeoutCalled).TeamID)
}

func TestStep_timeoutWithNoneRemaining(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{madeShot("home-1", 2, 700)}}, nil)
	f.orchestrator.state.Away.TimeoutsRemaining = 0

	require.NoError(t, f.orchestrator.Command(&types.TimeoutCommand{Side: types.SideAway}))
	require.NoError(t, f.orchestrator.Step(context.Background()))

	assert.Equal(t, 0, f.orchestrator.Snapshot().Away.TimeoutsRemaining)
	assert.Empty(t, f.log.ofType(types.NotificationTypeTimeoutCalled))
}

func TestStep_advisorCallsTimeout(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{madeShot("home-1", 2, 700)}}, func(opts *NewOrchestratorOptions) {
		opts.AwayAdvisor = &scriptedAdvisor{decision: TimeoutDecision{ShouldCall: true, Reason: "stop the run"}}
	})

	require.NoError(t, f.orchestrator.Step(context.Background()))

	state := f.orchestrator.Snapshot()
	assert.Equal(t, constants.TimeoutsPerTeam-1, state.Away.TimeoutsRemaining)

	called := f.log.ofType(types.NotificationTypeTimeoutCalled)
	require.Len(t, called, 1)
	assert.Equal(t, "stop the run", called[0].Payload.(types.TimeoutCalled).Reason)
}

func TestStep_timeoutResetsUnansweredRun(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{madeShot("home-1", 2, 700)}}, func(opts *NewOrchestratorOptions) {
		opts.AwayAdvisor = &scriptedAdvisor{decision: TimeoutDecision{ShouldCall: true, Reason: "stop the run"}}
	})
	f.orchestrator.state.Home.UnansweredPoints = 8

	require.NoError(t, f.orchestrator.Step(context.Background()))
	assert.Equal(t, 0, f.orchestrator.Snapshot().Home.UnansweredPoints, "the timeout kills the opponent's run")
}

func TestStep_pauseResumeStop(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{madeShot("home-1", 2, 700)}}, nil)

	require.NoError(t, f.orchestrator.Command(&types.PauseCommand{}))
	require.NoError(t, f.orchestrator.Step(context.Background()))
	state := f.orchestrator.Snapshot()
	assert.True(t, state.Paused)
	assert.Equal(t, constants.QuarterSeconds, state.GameClockSeconds, "no possession runs while paused")
	assert.Equal(t, 0, f.engine.calls)

	// Pausing again is a no-op: no duplicate notification.
	require.NoError(t, f.orchestrator.Command(&types.PauseCommand{}))
	require.NoError(t, f.orchestrator.Step(context.Background()))
	assert.Len(t, f.log.ofType(types.NotificationTypeMatchPaused), 1)

	require.NoError(t, f.orchestrator.Command(&types.ResumeCommand{}))
	require.NoError(t, f.orchestrator.Step(context.Background()))
	state = f.orchestrator.Snapshot()
	assert.False(t, state.Paused)
	assert.Equal(t, 700.0, state.GameClockSeconds)
	assert.Len(t, f.log.ofType(types.NotificationTypeMatchResumed), 1)

	require.NoError(t, f.orchestrator.Command(&types.StopCommand{}))
	require.NoError(t, f.orchestrator.Step(context.Background()))
	assert.Equal(t, 1, f.engine.calls, "no possession runs after a stop")
	assert.False(t, f.orchestrator.Snapshot().Complete, "a stopped match is not a completed match")
}

func TestStep_setSpeedCommand(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{}, nil)

	require.NoError(t, f.orchestrator.Command(&types.SetSpeedCommand{Speed: types.SpeedBroadcast}))
	require.NoError(t, f.orchestrator.Step(context.Background()))
	assert.Equal(t, types.SpeedBroadcast, f.orchestrator.config.Speed)
}

func TestStep_substitutionAtDeadBall(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{
		missedShot("home-1", "away-3", 700), // live ball, sub must wait
		madeShot("home-1", 2, 680),          // dead ball, sub applies
	}}, nil)

	require.NoError(t, f.orchestrator.Command(&types.SubstituteCommand{Side: types.SideHome, OutID: "home-5", InID: "home-8"}))

	require.NoError(t, f.orchestrator.Step(context.Background()))
	assert.Contains(t, f.orchestrator.Snapshot().Home.Lineup, "home-5", "live-ball possession holds the substitution")

	require.NoError(t, f.orchestrator.Step(context.Background()))
	state := f.orchestrator.Snapshot()
	assert.NotContains(t, state.Home.Lineup, "home-5")
	assert.Contains(t, state.Home.Lineup, "home-8")
	assert.Len(t, state.Home.Lineup, constants.LineupSize)
}

func TestStep_invalidSubstitutionDropped(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{madeShot("home-1", 2, 700)}}, nil)

	// home-2 is already on the floor.
	require.NoError(t, f.orchestrator.Command(&types.SubstituteCommand{Side: types.SideHome, OutID: "home-1", InID: "home-2"}))
	require.NoError(t, f.orchestrator.Step(context.Background()))

	state := f.orchestrator.Snapshot()
	assert.Contains(t, state.Home.Lineup, "home-1")
	assert.Len(t, state.Home.Lineup, constants.LineupSize)
}

func TestStep_engineErrorBurnsClock(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{err: fmt.Errorf("engine exploded")}, nil)

	require.NoError(t, f.orchestrator.Step(context.Background()))
	state := f.orchestrator.Snapshot()

	assert.Equal(t, constants.QuarterSeconds-constants.SkippedPossessionSeconds, state.GameClockSeconds)
	assert.False(t, state.PossessionIsHome, "a skipped possession still changes hands")
	assert.Equal(t, 0, state.Home.Score)
}

func TestStep_clutchPausesOnce(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{
		madeShot("home-1", 3, 20),
		madeShot("away-1", 2, 10),
	}}, func(opts *NewOrchestratorOptions) {
		opts.Config.AutoPauseOnClutch = true
	})
	f.orchestrator.state.Quarter = 4
	f.orchestrator.state.GameClockSeconds = 40
	f.orchestrator.state.Home.Score = 98
	f.orchestrator.state.Away.Score = 100

	require.NoError(t, f.orchestrator.Step(context.Background()))
	state := f.orchestrator.Snapshot()
	assert.Equal(t, 101, state.Home.Score)
	assert.Equal(t, 0, state.Away.UnansweredPoints, "a score kills the opponent's run")
	assert.True(t, state.Paused)

	decisions := f.log.ofType(types.NotificationTypeCoachingDecision)
	require.Len(t, decisions, 1)
	assert.Equal(t, "clutch", decisions[0].Payload.(types.CoachingDecisionRequired).Type)

	require.NoError(t, f.orchestrator.Command(&types.ResumeCommand{}))
	require.NoError(t, f.orchestrator.Step(context.Background()))
	assert.Len(t, f.log.ofType(types.NotificationTypeCoachingDecision), 1, "clutch fires at most once per match")
}

func TestStep_fatiguePromptOncePerPlayer(t *testing.T) {
	long := madeShot("home-1", 2, 600) // two minutes of play, then a dead ball
	long.DurationSeconds = 0
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{
		long,
		madeShot("away-1", 2, 480),
	}}, func(opts *NewOrchestratorOptions) {
		opts.ControlledTeamID = "home"
		opts.Config.AutoCoach = true
		opts.Config.FatigueThresholdMinutes = 1
	})

	require.NoError(t, f.orchestrator.Step(context.Background()))
	prompts := f.log.ofType(types.NotificationTypeCoachingDecision)
	assert.Len(t, prompts, constants.LineupSize, "one prompt per tired on-court player")
	for _, p := range prompts {
		assert.Equal(t, "fatigue", p.Payload.(types.CoachingDecisionRequired).Type)
	}

	require.NoError(t, f.orchestrator.Step(context.Background()))
	assert.Len(t, f.log.ofType(types.NotificationTypeCoachingDecision), constants.LineupSize, "never re-prompted for the same player")
}

func TestStep_completeIsTerminal(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{madeShot("home-1", 2, 700)}}, nil)
	f.orchestrator.state.Complete = true

	require.NoError(t, f.orchestrator.Step(context.Background()))
	assert.Equal(t, 0, f.engine.calls)
	assert.Equal(t, constants.QuarterSeconds, f.orchestrator.Snapshot().GameClockSeconds)
}

func TestOnCourtPlayers_validation(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{}, nil)

	tests := []struct {
		name    string
		lineup  []string
		wantErr bool
		wantLen int
	}{
		{name: "full lineup", lineup: []string{"home-1", "home-2", "home-3", "home-4", "home-5"}, wantLen: 5},
		{name: "shorthanded is legal", lineup: []string{"home-1", "home-2", "home-3", "home-4"}, wantLen: 4},
		{name: "unknown player", lineup: []string{"home-1", "home-2", "home-3", "home-4", "nobody"}, wantErr: true},
		{name: "duplicate player", lineup: []string{"home-1", "home-1", "home-3", "home-4", "home-5"}, wantErr: true},
		{name: "empty lineup", lineup: []string{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.orchestrator.state.Home.Lineup = tt.lineup
			players, err := f.orchestrator.onCourtPlayers(types.SideHome)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, players, tt.wantLen)
		})
	}
}

func TestSnapshot_isDeepCopy(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{}, nil)

	snapshot := f.orchestrator.Snapshot()
	snapshot.Home.Score = 999
	snapshot.Home.Lineup[0] = "intruder"
	snapshot.PlayerFouls["home-1"] = 99

	state := f.orchestrator.Snapshot()
	assert.Equal(t, 0, state.Home.Score)
	assert.Equal(t, "home-1", state.Home.Lineup[0])
	assert.Equal(t, 0, state.PlayerFouls["home-1"])
}

func TestRun_stopsOnCommand(t *testing.T) {
	f := newTestFixture(t, &scriptedEngine{outcomes: []*types.PossessionOutcome{madeShot("home-1", 2, 700)}}, nil)
	require.NoError(t, f.orchestrator.Command(&types.StopCommand{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, f.orchestrator.Run(ctx))
	assert.False(t, f.orchestrator.Snapshot().Running)
}
