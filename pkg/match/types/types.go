package types

import (
	"fmt"
	"time"
)

// Side identifies one of the two benches in a match.
type Side int

const (
	SideHome Side = iota
	SideAway
)

func (s Side) String() string {
	switch s {
	case SideHome:
		return "home"
	case SideAway:
		return "away"
	default:
		return "unknown"
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// ParseSide parses a side string ("home" or "away").
func ParseSide(s string) (Side, error) {
	switch s {
	case "home":
		return SideHome, nil
	case "away":
		return SideAway, nil
	default:
		return SideHome, fmt.Errorf("unknown side: %s", s)
	}
}

// SpeedTier selects the real-time pacing of the possession loop.
// It has no effect on simulated outcomes.
type SpeedTier int

const (
	SpeedImmersive SpeedTier = iota
	SpeedBroadcast
	SpeedQuick
	SpeedRapid
	SpeedInstant
)

func (t SpeedTier) String() string {
	switch t {
	case SpeedImmersive:
		return "immersive"
	case SpeedBroadcast:
		return "broadcast"
	case SpeedQuick:
		return "quick"
	case SpeedRapid:
		return "rapid"
	case SpeedInstant:
		return "instant"
	default:
		return "unknown"
	}
}

// ParseSpeedTier parses a speed tier string.
func ParseSpeedTier(s string) (SpeedTier, error) {
	switch s {
	case "immersive":
		return SpeedImmersive, nil
	case "broadcast":
		return SpeedBroadcast, nil
	case "quick":
		return SpeedQuick, nil
	case "rapid":
		return SpeedRapid, nil
	case "instant":
		return SpeedInstant, nil
	default:
		return SpeedInstant, fmt.Errorf("unknown speed tier: %s", s)
	}
}

// PossessionDelay returns the inter-possession pacing delay for the tier.
func (t SpeedTier) PossessionDelay() time.Duration {
	switch t {
	case SpeedImmersive:
		return 3 * time.Second
	case SpeedBroadcast:
		return 1500 * time.Millisecond
	case SpeedQuick:
		return 600 * time.Millisecond
	case SpeedRapid:
		return 150 * time.Millisecond
	default:
		return 0
	}
}

// PlayerRating holds the ability numbers the possession engine works from.
// Values are on a 0-99 scale.
type PlayerRating struct {
	Inside     int `json:"inside"`
	Outside    int `json:"outside"`
	Playmaking int `json:"playmaking"`
	Defense    int `json:"defense"`
	Rebounding int `json:"rebounding"`
	FreeThrow  int `json:"freeThrow"`
	Stamina    int `json:"stamina"`
}

// Player is a roster entry.
type Player struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Position string       `json:"position"`
	Rating   PlayerRating `json:"rating"`
}

// Strategy is a coach's tactical setting for one side of the ball.
type Strategy struct {
	Pace          int `json:"pace"`          // 0-99, higher is faster
	PerimeterBias int `json:"perimeterBias"` // 0-99, higher favors three-point attempts
	Aggression    int `json:"aggression"`    // 0-99, higher fouls and presses more
}

// Team is the immutable team input to a match: roster in bench order,
// starters by player ID, and the configured strategy.
type Team struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Roster   []Player `json:"roster"`
	Starters []string `json:"starters"`
	Strategy Strategy `json:"strategy"`
}

// PlayerByID returns the roster entry for a player ID.
func (t *Team) PlayerByID(id string) (*Player, bool) {
	for i := range t.Roster {
		if t.Roster[i].ID == id {
			return &t.Roster[i], true
		}
	}
	return nil, false
}

// ClockText formats a game clock value as M:SS.
func ClockText(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}
