package match

import (
	"github.com/DarianStillwater/courtside/pkg/match/types"
)

// SimulationInput is the snapshot handed to the possession engine. The
// engine reads it and returns an outcome; it never touches match state.
type SimulationInput struct {
	Offense          []types.Player
	Defense          []types.Player
	OffenseStrategy  types.Strategy
	DefenseStrategy  types.Strategy
	ClockSeconds     float64
	Quarter          int
	PossessionIsHome bool
	OffenseTeamID    string
	DefenseTeamID    string
	ScoreDiff        int // from the offense's perspective
}

// PossessionEngine resolves a single possession into discrete events.
type PossessionEngine interface {
	Simulate(in SimulationInput) (*types.PossessionOutcome, error)
}

// FreeThrowContext is the game situation for a trip to the line.
type FreeThrowContext struct {
	Quarter      int
	ClockSeconds float64
	ScoreDiff    int // from the shooter's team's perspective
}

// FreeThrowResult is one trip's outcome.
type FreeThrowResult struct {
	Made        int
	Attempted   int
	Description string
}

// FreeThrowResolver resolves a trip to the free-throw line.
type FreeThrowResolver interface {
	Resolve(shooter types.Player, attempts int, ctx FreeThrowContext) (*FreeThrowResult, error)
}

// AdvisorContext is the game situation given to a timeout advisor.
type AdvisorContext struct {
	Quarter      int
	ClockSeconds float64
	ScoreDiff    int // from the advisor's team's perspective
	OpponentRun  int // opponent's current unanswered points
}

// TimeoutDecision is an advisor's call.
type TimeoutDecision struct {
	ShouldCall bool
	Reason     string
}

// TimeoutAdvisor decides whether a side should burn a timeout at a
// dead ball. One instance serves each side.
type TimeoutAdvisor interface {
	Decide(lineup []types.Player, ctx AdvisorContext, timeoutsRemaining int, isControlledSide bool) TimeoutDecision
}
