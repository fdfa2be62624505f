package match

import (
	"context"
	"fmt"

	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/match/constants"
	"github.com/DarianStillwater/courtside/pkg/match/types"
)

// freeThrowTrip is a queued trip to the line, resolved after all
// possession events are processed and before possession changes.
type freeThrowTrip struct {
	shooterID string
	attempts  int
	foulType  types.FoulType
}

// possessionResult accumulates what the event scan learned about the
// possession as a whole.
type possessionResult struct {
	deadBall bool
	retained bool
	trips    []freeThrowTrip
}

// runPossession executes one full possession: simulate, process events
// strictly in order, resolve free throws, handle the dead ball and flip
// possession. A possession that cannot be resolved burns the shot clock
// and moves on; no fault in here may stall or escape the loop.
func (o *Orchestrator) runPossession(ctx context.Context) {
	offSide := o.state.OffenseSide()
	defSide := offSide.Opponent()

	offense, err := o.onCourtPlayers(offSide)
	if err != nil {
		o.skipPossession(offSide, err)
		return
	}
	defense, err := o.onCourtPlayers(defSide)
	if err != nil {
		o.skipPossession(offSide, err)
		return
	}

	outcome, err := o.engine.Simulate(SimulationInput{
		Offense:          offense,
		Defense:          defense,
		OffenseStrategy:  o.teamFor(offSide).Strategy,
		DefenseStrategy:  o.teamFor(defSide).Strategy,
		ClockSeconds:     o.state.GameClockSeconds,
		Quarter:          o.state.Quarter,
		PossessionIsHome: o.state.PossessionIsHome,
		OffenseTeamID:    o.teamFor(offSide).ID,
		DefenseTeamID:    o.teamFor(defSide).ID,
		ScoreDiff:        o.state.ScoreDiff(offSide),
	})
	if err != nil {
		o.skipPossession(offSide, fmt.Errorf("possession engine: %v", err))
		return
	}

	startClock := o.state.GameClockSeconds
	endClock := outcome.EndClockSeconds
	if endClock < 0 {
		endClock = 0
	}
	if endClock > startClock {
		endClock = startClock
	}
	duration := outcome.DurationSeconds
	if duration <= 0 || duration > startClock-endClock {
		duration = startClock - endClock
	}

	o.accrueMinutes(duration)

	result := &possessionResult{}
	for i := range outcome.Events {
		o.processEvent(&outcome.Events[i], offSide, result)
	}
	o.state.GameClockSeconds = endClock

	// Free throws resolve after all possession events and before the
	// possession can change hands.
	o.resolveFreeThrows(ctx, offSide, result)

	if result.deadBall {
		o.handleDeadBall(offSide)
	}

	if !result.retained {
		o.state.PossessionIsHome = !o.state.PossessionIsHome
	}
	o.publishScoreboard()

	o.checkClutch()
}

// skipPossession handles a possession that could not be run. The clock
// still burns and the ball changes hands so the loop always progresses.
func (o *Orchestrator) skipPossession(offSide types.Side, err error) {
	log.Warn("Skipping possession for %s side: %v", offSide, err)
	o.state.GameClockSeconds -= constants.SkippedPossessionSeconds
	if o.state.GameClockSeconds < 0 {
		o.state.GameClockSeconds = 0
	}
	o.state.PossessionIsHome = !o.state.PossessionIsHome
	o.publishScoreboard()
}

func (o *Orchestrator) accrueMinutes(durationSeconds float64) {
	for _, side := range []types.Side{types.SideHome, types.SideAway} {
		for _, id := range o.state.TeamFor(side).Lineup {
			o.state.PlayerMinutes[id] += durationSeconds / 60
		}
	}
}

// processEvent applies one possession event: score first, then the
// play-by-play entry that reports it, then any notification. Order is
// load-bearing: an entry's attached score reflects the state after that
// entry's own scoring and never a later event's.
func (o *Orchestrator) processEvent(ev *types.PossessionEvent, offSide types.Side, result *possessionResult) {
	actorSide := offSide
	if side, ok := o.state.SideOf(ev.ActorID); ok {
		actorSide = side
	}

	if ev.IsScore() {
		o.applyScore(offSide, ev.ActorID, ev.Points)
		if ev.Type == types.EventTypeShot {
			// A made basket is a dead ball.
			result.deadBall = true
		}
	}

	o.appendPlay(o.state.TeamFor(actorSide).TeamID, ev.Description, ev.Type, isHighlight(ev), ev.ClockSeconds)

	if ev.IsScore() {
		o.publishScoreboard()
	}

	switch ev.Type {
	case types.EventTypeFoul:
		result.deadBall = true
		o.processFoul(ev, offSide, result)
	case types.EventTypeTurnover:
		if ev.OutOfBounds {
			result.deadBall = true
		}
	case types.EventTypeTimeout:
		result.deadBall = true
	}
}

// processFoul updates the ledger, queues free throws (including bonus
// free throws once the defense is over the team-foul threshold) and
// triggers foul-out handling the instant a player reaches the limit.
func (o *Orchestrator) processFoul(ev *types.PossessionEvent, offSide types.Side, result *possessionResult) {
	record := ev.Foul
	if record == nil {
		log.Warn("Foul event without a foul record from player %s", ev.ActorID)
		return
	}

	foulerSide := offSide.Opponent()
	if side, ok := o.state.SideOf(ev.ActorID); ok {
		foulerSide = side
	}
	foulerTeam := o.state.TeamFor(foulerSide)

	newCount := o.ledger.RegisterFoul(ev.ActorID)
	o.state.PlayerFouls[ev.ActorID] = newCount
	foulerTeam.TeamFouls = o.ledger.RegisterTeamFoul(foulerTeam.TeamID)

	if record.RetainsPossession() {
		result.retained = true
	}

	attempts := record.FreeThrowsAwarded
	if attempts == 0 && record.Type == types.FoulTypePersonal && foulerSide != offSide && o.ledger.InBonus(foulerTeam.TeamID) {
		attempts = constants.BonusFreeThrows
	}
	if attempts > 0 && record.FouledID != "" {
		result.trips = append(result.trips, freeThrowTrip{
			shooterID: record.FouledID,
			attempts:  attempts,
			foulType:  record.Type,
		})
	}

	if newCount >= constants.PersonalFoulLimit {
		o.handleFoulOut(ev.ActorID, foulerSide)
	}
}

// applyScore credits points to a side and its scorer, updates the
// unanswered-points runs and leaves the board ready to announce. Scores
// only ever increase.
func (o *Orchestrator) applyScore(side types.Side, scorerID string, points int) {
	if points <= 0 {
		return
	}
	team := o.state.TeamFor(side)
	team.Score += points
	team.UnansweredPoints += points
	o.state.TeamFor(side.Opponent()).UnansweredPoints = 0
	if scorerID != "" {
		o.state.PlayerPoints[scorerID] += points
	}
}

// handleDeadBall is the only window in which queued substitutions are
// applied, fatigue prompts are raised and timeout advisors are heard.
func (o *Orchestrator) handleDeadBall(offSide types.Side) {
	for _, sub := range o.pendingSubs {
		o.applySubstitution(sub)
	}
	o.pendingSubs = nil

	o.promptFatigue()

	// Human timeout requests queued since the last dead ball.
	for _, side := range []types.Side{types.SideHome, types.SideAway} {
		if !o.pendingTimeouts[side] {
			continue
		}
		o.pendingTimeouts[side] = false
		if o.state.TeamFor(side).TimeoutsRemaining <= 0 {
			log.Warn("Team %s requested a timeout with none remaining", o.state.TeamFor(side).TeamID)
			continue
		}
		o.callTimeout(side, "coach request")
	}

	// The side about to lose the ball gets the AI advisor consult,
	// unless a human coaches it without auto-coach.
	defSide := offSide.Opponent()
	if o.hasCoach && o.controlled == defSide && !o.config.AutoCoach {
		return
	}
	team := o.state.TeamFor(defSide)
	if team.TimeoutsRemaining <= 0 {
		return
	}
	advisor := o.advisorFor(defSide)
	if advisor == nil {
		return
	}
	lineup, err := o.onCourtPlayers(defSide)
	if err != nil {
		log.Warn("Skipping timeout consult for %s side: %v", defSide, err)
		return
	}
	decision := advisor.Decide(lineup, AdvisorContext{
		Quarter:      o.state.Quarter,
		ClockSeconds: o.state.GameClockSeconds,
		ScoreDiff:    o.state.ScoreDiff(defSide),
		OpponentRun:  o.state.TeamFor(offSide).UnansweredPoints,
	}, team.TimeoutsRemaining, o.hasCoach && o.controlled == defSide)
	if decision.ShouldCall {
		o.callTimeout(defSide, decision.Reason)
	}
}

// callTimeout deducts the timeout, kills the opponent's unanswered run
// and announces the call before any possession change becomes
// observable.
func (o *Orchestrator) callTimeout(side types.Side, reason string) {
	team := o.state.TeamFor(side)
	team.TimeoutsRemaining--
	o.state.TeamFor(side.Opponent()).UnansweredPoints = 0

	o.appendPlay(team.TeamID, fmt.Sprintf("%s call a timeout (%d remaining)", team.Name, team.TimeoutsRemaining), types.EventTypeTimeout, false, o.state.GameClockSeconds)
	o.notifier.Publish(types.NotificationTypeTimeoutCalled, types.TimeoutCalled{
		TeamID: team.TeamID,
		Reason: reason,
	})

	if o.config.AutoPauseOnTimeout {
		o.pause("timeout")
	}
}

// promptFatigue raises one coaching prompt per controlled-side player
// whose accumulated minutes pass the configured threshold.
func (o *Orchestrator) promptFatigue() {
	if !o.hasCoach || o.config.FatigueThresholdMinutes <= 0 {
		return
	}
	for _, id := range o.state.TeamFor(o.controlled).Lineup {
		if o.fatiguePrompted[id] {
			continue
		}
		if o.state.PlayerMinutes[id] < o.config.FatigueThresholdMinutes {
			continue
		}
		o.fatiguePrompted[id] = true
		player, ok := o.teamFor(o.controlled).PlayerByID(id)
		name := id
		if ok {
			name = player.Name
		}
		o.notifier.Publish(types.NotificationTypeCoachingDecision, types.CoachingDecisionRequired{
			Type:     "fatigue",
			PlayerID: id,
			Message:  fmt.Sprintf("%s has played %.1f minutes and may need a rest", name, o.state.PlayerMinutes[id]),
		})
	}
}

// checkClutch fires the clutch-time pause at most once per match: late
// game, close score.
func (o *Orchestrator) checkClutch() {
	if o.clutchFired || !o.config.AutoPauseOnClutch || o.state.Complete {
		return
	}
	if o.state.Quarter < constants.RegulationQuarters {
		return
	}
	if o.state.GameClockSeconds > constants.ClutchClockSeconds {
		return
	}
	diff := o.state.Home.Score - o.state.Away.Score
	if diff < 0 {
		diff = -diff
	}
	if diff > constants.ClutchScoreMargin {
		return
	}
	o.clutchFired = true
	o.pause("clutch")
	o.notifier.Publish(types.NotificationTypeCoachingDecision, types.CoachingDecisionRequired{
		Type:    "clutch",
		Message: fmt.Sprintf("Clutch time: %s left, %d-%d", types.ClockText(o.state.GameClockSeconds), o.state.Home.Score, o.state.Away.Score),
	})
}

// appendPlay records one play-by-play entry with the cumulative score
// through this entry and announces it. Entries are strictly
// chronological.
func (o *Orchestrator) appendPlay(teamID, description string, eventType types.EventType, highlight bool, clockSeconds float64) {
	entry := types.PlayByPlayEntry{
		ClockText:   types.ClockText(clockSeconds),
		Quarter:     o.state.Quarter,
		TeamID:      teamID,
		Description: description,
		HomeScore:   o.state.Home.Score,
		AwayScore:   o.state.Away.Score,
		IsHighlight: highlight,
		Type:        eventType,
	}
	o.playByPlay = append(o.playByPlay, entry)
	o.notifier.Publish(types.NotificationTypePlayByPlay, entry)
}

// publishScoreboard announces the board. The score it reports has
// always already been applied to the state.
func (o *Orchestrator) publishScoreboard() {
	shotClock := constants.ShotClockSeconds
	if o.state.GameClockSeconds < shotClock {
		shotClock = o.state.GameClockSeconds
	}
	o.notifier.Publish(types.NotificationTypeScoreboard, types.ScoreboardUpdate{
		HomeScore:        o.state.Home.Score,
		AwayScore:        o.state.Away.Score,
		Quarter:          o.state.Quarter,
		ClockSeconds:     o.state.GameClockSeconds,
		ShotClockSeconds: shotClock,
		PossessionIsHome: o.state.PossessionIsHome,
	})
}

func isHighlight(ev *types.PossessionEvent) bool {
	if ev.IsScore() && ev.Points == 3 {
		return true
	}
	switch ev.Type {
	case types.EventTypeBlock, types.EventTypeSteal:
		return true
	case types.EventTypeFoul:
		return ev.Foul != nil && ev.Foul.Type != types.FoulTypePersonal
	default:
		return false
	}
}
