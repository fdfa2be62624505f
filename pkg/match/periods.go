package match

import (
	"fmt"
	"time"

	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/match/constants"
	"github.com/DarianStillwater/courtside/pkg/match/types"
)

// endPeriod runs the quarter/overtime transition: team fouls reset every
// boundary; regulation and overtime end the match when the score has
// separated; ties keep adding overtime periods until the cap forces a
// winner. Complete is the single terminal state.
func (o *Orchestrator) endPeriod() {
	quarter := o.state.Quarter
	o.notifier.Publish(types.NotificationTypeQuarterEnded, types.QuarterEnded{Quarter: quarter})

	o.ledger.ResetQuarterFouls()
	o.state.Home.TeamFouls = 0
	o.state.Away.TeamFouls = 0

	if quarter >= constants.RegulationQuarters {
		if o.state.Home.Score != o.state.Away.Score {
			o.complete()
			return
		}
		if quarter >= constants.RegulationQuarters+constants.MaxOvertimes {
			o.forceTiebreak()
			o.complete()
			return
		}
		o.startPeriod(quarter+1, constants.OvertimeSeconds)
	} else {
		o.startPeriod(quarter+1, constants.QuarterSeconds)
	}

	if o.config.AutoPauseOnQuarterEnd {
		o.pause("quarter end")
	}
}

// startPeriod opens the next period. Opening possession alternates by
// period parity.
func (o *Orchestrator) startPeriod(quarter int, clockSeconds float64) {
	o.state.Quarter = quarter
	o.state.GameClockSeconds = clockSeconds
	o.state.PossessionIsHome = quarter%2 == 1

	if quarter > constants.RegulationQuarters {
		log.Info("Match %s heading to overtime %d at %d-%d", o.state.MatchID, quarter-constants.RegulationQuarters, o.state.Home.Score, o.state.Away.Score)
	}
	o.notifier.Publish(types.NotificationTypeQuarterStarted, types.QuarterStarted{
		Quarter:      quarter,
		ClockSeconds: clockSeconds,
	})
}

// forceTiebreak breaks a tie that survived the overtime cap by awarding
// the configured side the minimum points needed to lead. This is an
// explicit guard against unbounded overtime, not a basketball rule.
func (o *Orchestrator) forceTiebreak() {
	var winner types.Side
	switch o.config.Tiebreak {
	case types.TiebreakHome:
		winner = types.SideHome
	case types.TiebreakAway:
		winner = types.SideAway
	default:
		winner = o.state.OffenseSide()
	}

	needed := o.state.TeamFor(winner.Opponent()).Score - o.state.TeamFor(winner).Score + 1
	if needed < 1 {
		needed = 1
	}

	team := o.state.TeamFor(winner)
	log.Warn("Match %s still tied after %d overtimes, awarding %d to %s", o.state.MatchID, constants.MaxOvertimes, needed, team.TeamID)
	o.applyScore(winner, "", needed)
	o.appendPlay(team.TeamID, fmt.Sprintf("%s awarded the tiebreaker after %d overtimes", team.Name, constants.MaxOvertimes), types.EventTypeShot, false, 0)
	o.publishScoreboard()
}

// complete transitions to the terminal state and publishes the final
// result. Once entered it is never left.
func (o *Orchestrator) complete() {
	o.state.Complete = true
	o.state.Paused = false
	o.state.Running = false

	result := o.buildResult()
	o.notifier.Publish(types.NotificationTypeMatchComplete, types.MatchComplete{
		Result:   result,
		BoxScore: o.buildBoxScore(),
	})
	log.Info("Match %s complete: %s %d, %s %d", o.state.MatchID, o.state.Home.Name, o.state.Home.Score, o.state.Away.Name, o.state.Away.Score)
}

func (o *Orchestrator) buildResult() types.MatchResult {
	return types.MatchResult{
		MatchID:     o.state.MatchID,
		HomeTeamID:  o.home.ID,
		AwayTeamID:  o.away.ID,
		HomeScore:   o.state.Home.Score,
		AwayScore:   o.state.Away.Score,
		Periods:     o.state.Quarter,
		CompletedAt: time.Now().UnixMilli(),
	}
}

func (o *Orchestrator) buildBoxScore() []types.PlayerLine {
	var lines []types.PlayerLine
	for _, team := range []*types.Team{o.home, o.away} {
		for _, player := range team.Roster {
			if o.state.PlayerMinutes[player.ID] == 0 && o.state.PlayerPoints[player.ID] == 0 && o.state.PlayerFouls[player.ID] == 0 {
				continue
			}
			lines = append(lines, types.PlayerLine{
				PlayerID: player.ID,
				TeamID:   team.ID,
				Points:   o.state.PlayerPoints[player.ID],
				Fouls:    o.state.PlayerFouls[player.ID],
				Minutes:  o.state.PlayerMinutes[player.ID],
			})
		}
	}
	return lines
}

// ForfeitResult builds the result for a match that never started.
func ForfeitResult(matchID string, home, away *types.Team, forfeitTeamID string) types.MatchResult {
	result := types.MatchResult{
		MatchID:       matchID,
		HomeTeamID:    home.ID,
		AwayTeamID:    away.ID,
		Periods:       0,
		Forfeit:       true,
		ForfeitTeamID: forfeitTeamID,
		CompletedAt:   time.Now().UnixMilli(),
	}
	// Conventional forfeit score.
	if forfeitTeamID == home.ID {
		result.AwayScore = 20
	} else {
		result.HomeScore = 20
	}
	return result
}
