package match

import (
	"github.com/DarianStillwater/courtside/pkg/match/constants"
)

// FoulLedger tracks per-player personal fouls for the whole game and
// per-team fouls for the current quarter. It is owned by the
// orchestrator and only ever touched from the loop goroutine.
type FoulLedger struct {
	playerFouls map[string]int
	teamFouls   map[string]int
}

func NewFoulLedger() *FoulLedger {
	return &FoulLedger{
		playerFouls: make(map[string]int),
		teamFouls:   make(map[string]int),
	}
}

// RegisterFoul increments a player's personal-foul count and returns the
// new count. The count never exceeds the foul-out limit.
func (l *FoulLedger) RegisterFoul(playerID string) int {
	if l.playerFouls[playerID] >= constants.PersonalFoulLimit {
		return l.playerFouls[playerID]
	}
	l.playerFouls[playerID]++
	return l.playerFouls[playerID]
}

// RegisterTeamFoul increments a team's foul count for the current
// quarter and returns the new count.
func (l *FoulLedger) RegisterTeamFoul(teamID string) int {
	l.teamFouls[teamID]++
	return l.teamFouls[teamID]
}

// PersonalFouls returns a player's personal-foul count.
func (l *FoulLedger) PersonalFouls(playerID string) int {
	return l.playerFouls[playerID]
}

// FouledOut reports whether a player has reached the personal-foul limit.
func (l *FoulLedger) FouledOut(playerID string) bool {
	return l.playerFouls[playerID] >= constants.PersonalFoulLimit
}

// TeamFouls returns a team's foul count for the current quarter.
func (l *FoulLedger) TeamFouls(teamID string) int {
	return l.teamFouls[teamID]
}

// InBonus reports whether the opposing offense shoots bonus free throws
// on the next common foul by this team.
func (l *FoulLedger) InBonus(teamID string) bool {
	return l.teamFouls[teamID] >= constants.TeamFoulBonusThreshold
}

// ResetQuarterFouls zeroes the per-quarter team foul counters. Personal
// fouls persist for the whole game.
func (l *FoulLedger) ResetQuarterFouls() {
	l.teamFouls = make(map[string]int)
}
