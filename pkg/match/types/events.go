package types

// EventType classifies a possession event.
type EventType string

const (
	EventTypeShot         EventType = "shot"
	EventTypeFreeThrow    EventType = "freethrow"
	EventTypeFoul         EventType = "foul"
	EventTypeTurnover     EventType = "turnover"
	EventTypeRebound      EventType = "rebound"
	EventTypeSteal        EventType = "steal"
	EventTypeBlock        EventType = "block"
	EventTypePass         EventType = "pass"
	EventTypeScreen       EventType = "screen"
	EventTypeTimeout      EventType = "timeout"
	EventTypeSubstitution EventType = "substitution"
)

// FoulType classifies a foul.
type FoulType string

const (
	FoulTypePersonal  FoulType = "personal"
	FoulTypeFlagrant1 FoulType = "flagrant1"
	FoulTypeFlagrant2 FoulType = "flagrant2"
	FoulTypeTechnical FoulType = "technical"
)

// FoulRecord is attached to a foul event.
type FoulRecord struct {
	Type              FoulType `json:"type"`
	FouledID          string   `json:"fouledId"`
	FreeThrowsAwarded int      `json:"freeThrowsAwarded"`
}

// RetainsPossession reports whether the foul lets the offense keep the ball.
func (f *FoulRecord) RetainsPossession() bool {
	switch f.Type {
	case FoulTypeFlagrant1, FoulTypeFlagrant2, FoulTypeTechnical:
		return true
	default:
		return false
	}
}

// PossessionEvent is one discrete event within a possession outcome.
type PossessionEvent struct {
	Type         EventType   `json:"type"`
	ActorID      string      `json:"actorId"`
	TargetID     string      `json:"targetId,omitempty"` // defender or pass recipient
	Points       int         `json:"points"`             // 0, 1, 2 or 3
	Success      bool        `json:"success"`
	OutOfBounds  bool        `json:"outOfBounds,omitempty"` // turnovers only
	ClockSeconds float64     `json:"clockSeconds"`
	Description  string      `json:"description"`
	Foul         *FoulRecord `json:"foul,omitempty"`
}

// IsScore reports whether the event puts points on the board.
func (e *PossessionEvent) IsScore() bool {
	return e.Success && e.Points > 0
}

// PossessionOutcome is the immutable result of simulating one possession.
// It is consumed exactly once, in event order.
type PossessionOutcome struct {
	Events          []PossessionEvent `json:"events"`
	EndClockSeconds float64           `json:"endClockSeconds"`
	DurationSeconds float64           `json:"durationSeconds"`
}
