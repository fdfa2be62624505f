package types

import "fmt"

// TiebreakPolicy decides which side is handed the win when the overtime
// cap is reached with the score still level.
type TiebreakPolicy string

const (
	// TiebreakPossession awards the side holding the next possession.
	TiebreakPossession TiebreakPolicy = "possession"
	TiebreakHome       TiebreakPolicy = "home"
	TiebreakAway       TiebreakPolicy = "away"
)

// ParseTiebreakPolicy parses a tie-break policy string.
func ParseTiebreakPolicy(s string) (TiebreakPolicy, error) {
	switch TiebreakPolicy(s) {
	case TiebreakPossession, TiebreakHome, TiebreakAway:
		return TiebreakPolicy(s), nil
	default:
		return TiebreakPossession, fmt.Errorf("unknown tiebreak policy: %s", s)
	}
}

// MatchConfig is the per-match configuration surface. The orchestrator
// consumes it but does not own it.
type MatchConfig struct {
	Speed                   SpeedTier      `json:"speed"`
	AutoPauseOnQuarterEnd   bool           `json:"autoPauseOnQuarterEnd"`
	AutoPauseOnTimeout      bool           `json:"autoPauseOnTimeout"`
	AutoPauseOnClutch       bool           `json:"autoPauseOnClutch"`
	AutoCoach               bool           `json:"autoCoach"` // accept automatic foul-out replacements without prompting
	FatigueThresholdMinutes float64        `json:"fatigueThresholdMinutes"`
	Tiebreak                TiebreakPolicy `json:"tiebreak"`
	Seed                    int64          `json:"seed"`
}

// DefaultMatchConfig returns the configuration used when a request
// leaves fields unset.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Speed:                   SpeedInstant,
		FatigueThresholdMinutes: 36,
		Tiebreak:                TiebreakPossession,
	}
}
