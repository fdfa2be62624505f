package match

import (
	"context"
	"fmt"

	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/match/constants"
	"github.com/DarianStillwater/courtside/pkg/match/types"
)

// resolveFreeThrows works through the queued trips in the order the
// fouls occurred. Each trip produces exactly one play-by-play entry and
// one scoreboard update; a watcher never sees a free-throw result before
// the foul that caused it, nor a possession change before these resolve.
func (o *Orchestrator) resolveFreeThrows(ctx context.Context, offSide types.Side, result *possessionResult) {
	for _, trip := range result.trips {
		shooterSide := offSide
		if side, ok := o.state.SideOf(trip.shooterID); ok {
			shooterSide = side
		}
		team := o.state.TeamFor(shooterSide)

		shooter, ok := o.teamFor(shooterSide).PlayerByID(trip.shooterID)
		if !ok {
			log.Warn("Skipping free throws for unknown player %s", trip.shooterID)
			continue
		}

		res, err := o.freeThrows.Resolve(*shooter, trip.attempts, FreeThrowContext{
			Quarter:      o.state.Quarter,
			ClockSeconds: o.state.GameClockSeconds,
			ScoreDiff:    o.state.ScoreDiff(shooterSide),
		})
		if err != nil {
			log.Error("Failed to resolve free throws for %s: %v", shooter.Name, err)
			continue
		}

		if res.Made > 0 {
			o.applyScore(shooterSide, trip.shooterID, res.Made)
		}

		description := res.Description
		if description == "" {
			description = fmt.Sprintf("%s makes %d of %d from the line", shooter.Name, res.Made, res.Attempted)
		}
		o.appendPlay(team.TeamID, description, types.EventTypeFreeThrow, false, o.state.GameClockSeconds)
		o.publishScoreboard()

		// Display pacing only; instant mode skips it entirely.
		if o.config.Speed != types.SpeedInstant {
			sleepContext(ctx, constants.FreeThrowTripDelay)
		}
	}
}
