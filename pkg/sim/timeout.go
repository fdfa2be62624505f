package sim

import (
	"github.com/DarianStillwater/courtside/pkg/match"
	"github.com/DarianStillwater/courtside/pkg/match/types"
)

// Advisor is the default timeout advisor. Its rules are deterministic:
// stop a big opposing run, and late in a close game keep a timeout in
// hand to set up the offense.
type Advisor struct {
	// RunThreshold is the opposing unanswered-points run that triggers
	// a timeout call.
	RunThreshold int
}

func NewAdvisor() *Advisor {
	return &Advisor{
		RunThreshold: 8,
	}
}

func (a *Advisor) Decide(lineup []types.Player, ctx match.AdvisorContext, timeoutsRemaining int, isControlledSide bool) match.TimeoutDecision {
	if timeoutsRemaining <= 0 {
		return match.TimeoutDecision{}
	}

	if ctx.OpponentRun >= a.RunThreshold {
		return match.TimeoutDecision{
			ShouldCall: true,
			Reason:     "stop the run",
		}
	}

	if ctx.Quarter >= 4 && ctx.ClockSeconds <= 60 && ctx.ScoreDiff < 0 && ctx.ScoreDiff >= -8 && timeoutsRemaining > 1 {
		return match.TimeoutDecision{
			ShouldCall: true,
			Reason:     "set up the offense",
		}
	}

	return match.TimeoutDecision{}
}
