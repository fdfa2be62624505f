package constants

import "time"

// Game structure
const (
	QuarterSeconds     = 720.0
	OvertimeSeconds    = 300.0
	RegulationQuarters = 4
	// MaxOvertimes caps the number of extra periods before a winner
	// is forced. This is an anti-infinite-loop guard, not a rule.
	MaxOvertimes = 4
	LineupSize   = 5
)

// Fouls
const (
	PersonalFoulLimit      = 6
	TeamFoulBonusThreshold = 5
	BonusFreeThrows        = 2
)

// Timeouts
const (
	TimeoutsPerTeam = 7
)

// Possession
const (
	ShotClockSeconds = 24.0
	// SkippedPossessionSeconds is burned off the clock when a possession
	// cannot be resolved, so a corrupted lineup can never stall the loop.
	SkippedPossessionSeconds = ShotClockSeconds
)

// Clutch time
const (
	ClutchScoreMargin  = 5
	ClutchClockSeconds = 120.0
)

// Pacing delays. These only affect real-time presentation, never outcomes.
const (
	FreeThrowTripDelay = 800 * time.Millisecond
	PausePollInterval  = 50 * time.Millisecond
)
