package match

import (
	"fmt"

	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/match/types"
)

// handleFoulOut runs synchronously the instant a player reaches the
// personal-foul limit: the player leaves the floor, the first eligible
// bench player comes in (or the team plays shorthanded), and a human
// coaching the affected side gets a prompt to override the choice
// before play resumes.
func (o *Orchestrator) handleFoulOut(playerID string, side types.Side) {
	team := o.state.TeamFor(side)
	roster := o.teamFor(side)

	// A player can pick up a second foul in the same possession (shooting
	// foul then technical). Only the first foul-out takes them off the
	// floor; re-handling would check a sixth player in.
	if !containsID(team.Lineup, playerID) {
		return
	}
	o.removeFromLineup(team, playerID)

	player, _ := roster.PlayerByID(playerID)
	playerName := playerID
	if player != nil {
		playerName = player.Name
	}

	replacementID := o.firstEligibleReplacement(side)
	if replacementID != "" {
		team.Lineup = append(team.Lineup, replacementID)
		replacement, _ := roster.PlayerByID(replacementID)
		o.appendPlay(team.TeamID, fmt.Sprintf("%s fouls out, %s checks in", playerName, replacement.Name), types.EventTypeSubstitution, true, o.state.GameClockSeconds)
	} else {
		log.Warn("Team %s has no eligible replacement for %s, playing shorthanded", team.TeamID, playerID)
		o.appendPlay(team.TeamID, fmt.Sprintf("%s fouls out, no replacement available", playerName), types.EventTypeSubstitution, true, o.state.GameClockSeconds)
	}

	o.notifier.Publish(types.NotificationTypePlayerFouledOut, types.PlayerFouledOut{
		PlayerID:      playerID,
		TeamID:        team.TeamID,
		ReplacementID: replacementID,
	})

	if o.hasCoach && o.controlled == side && !o.config.AutoCoach {
		o.pause("foulout")
		o.notifier.Publish(types.NotificationTypeCoachingDecision, types.CoachingDecisionRequired{
			Type:     "foulout",
			PlayerID: playerID,
			Message:  fmt.Sprintf("%s has fouled out; confirm or change the substitution", playerName),
		})
	}
}

// firstEligibleReplacement picks the first bench player who is neither
// fouled out nor already on the floor. Selection policy beyond "first
// eligible" belongs to the coaching advisor, not the orchestrator.
func (o *Orchestrator) firstEligibleReplacement(side types.Side) string {
	team := o.state.TeamFor(side)
	for _, candidate := range o.teamFor(side).Roster {
		if o.ledger.FouledOut(candidate.ID) {
			continue
		}
		if containsID(team.Lineup, candidate.ID) {
			continue
		}
		return candidate.ID
	}
	return ""
}

// applySubstitution swaps a bench player in for an on-court player.
// Invalid requests are logged and dropped; they never fault the loop.
func (o *Orchestrator) applySubstitution(cmd types.SubstituteCommand) {
	team := o.state.TeamFor(cmd.Side)
	roster := o.teamFor(cmd.Side)

	if !containsID(team.Lineup, cmd.OutID) {
		log.Warn("Substitution rejected: %s is not on the floor for team %s", cmd.OutID, team.TeamID)
		return
	}
	if containsID(team.Lineup, cmd.InID) {
		log.Warn("Substitution rejected: %s is already on the floor for team %s", cmd.InID, team.TeamID)
		return
	}
	in, ok := roster.PlayerByID(cmd.InID)
	if !ok {
		log.Warn("Substitution rejected: %s is not on the roster for team %s", cmd.InID, team.TeamID)
		return
	}
	if o.ledger.FouledOut(cmd.InID) {
		log.Warn("Substitution rejected: %s has fouled out", cmd.InID)
		return
	}

	o.removeFromLineup(team, cmd.OutID)
	team.Lineup = append(team.Lineup, cmd.InID)

	out, _ := roster.PlayerByID(cmd.OutID)
	outName := cmd.OutID
	if out != nil {
		outName = out.Name
	}
	o.appendPlay(team.TeamID, fmt.Sprintf("%s checks in for %s", in.Name, outName), types.EventTypeSubstitution, false, o.state.GameClockSeconds)
}

func (o *Orchestrator) removeFromLineup(team *types.TeamMatchState, playerID string) {
	lineup := team.Lineup[:0]
	for _, id := range team.Lineup {
		if id != playerID {
			lineup = append(lineup, id)
		}
	}
	team.Lineup = lineup
}
