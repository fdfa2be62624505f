package types

// Notification types. Listeners receive value payloads only; there is no
// way to reach back into the live match state from a notification.
const (
	NotificationTypeScoreboard       = "scoreboard"
	NotificationTypePlayByPlay       = "playbyplay"
	NotificationTypeTimeoutCalled    = "timeout"
	NotificationTypeQuarterEnded     = "quarterend"
	NotificationTypeQuarterStarted   = "quarterstart"
	NotificationTypePlayerFouledOut  = "foulout"
	NotificationTypeMatchComplete    = "matchcomplete"
	NotificationTypeCoachingDecision = "coachingdecision"
	NotificationTypeMatchPaused      = "paused"
	NotificationTypeMatchResumed     = "resumed"
	NotificationTypeMatchForfeited   = "forfeit"
)

// Notification is one ordered message emitted by the orchestrator.
type Notification struct {
	MatchID string      `json:"matchId"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ScoreboardUpdate reports the board after a score or clock change. The
// scores it carries have always already been applied to the match state.
type ScoreboardUpdate struct {
	HomeScore        int     `json:"homeScore"`
	AwayScore        int     `json:"awayScore"`
	Quarter          int     `json:"quarter"`
	ClockSeconds     float64 `json:"clockSeconds"`
	ShotClockSeconds float64 `json:"shotClockSeconds"`
	PossessionIsHome bool    `json:"possessionIsHome"`
}

// PlayByPlayEntry is one line of the match narrative. HomeScore and
// AwayScore are the cumulative totals through this entry's own scoring.
type PlayByPlayEntry struct {
	ClockText   string    `json:"clockText"`
	Quarter     int       `json:"quarter"`
	TeamID      string    `json:"teamId"`
	Description string    `json:"description"`
	HomeScore   int       `json:"homeScore"`
	AwayScore   int       `json:"awayScore"`
	IsHighlight bool      `json:"isHighlight"`
	Type        EventType `json:"type"`
}

type TimeoutCalled struct {
	TeamID string `json:"teamId"`
	Reason string `json:"reason"`
}

type QuarterEnded struct {
	Quarter int `json:"quarter"`
}

type QuarterStarted struct {
	Quarter      int     `json:"quarter"`
	ClockSeconds float64 `json:"clockSeconds"`
}

type PlayerFouledOut struct {
	PlayerID      string `json:"playerId"`
	TeamID        string `json:"teamId"`
	ReplacementID string `json:"replacementId,omitempty"` // empty when playing shorthanded
}

// CoachingDecisionRequired prompts the human coach for a call.
type CoachingDecisionRequired struct {
	Type     string `json:"type"` // "foulout", "fatigue", "clutch"
	PlayerID string `json:"playerId,omitempty"`
	Message  string `json:"message"`
}

type MatchPaused struct {
	Reason string `json:"reason"`
}

type MatchResumed struct{}

// MatchComplete carries the final result and the box score seed.
type MatchComplete struct {
	Result   MatchResult  `json:"result"`
	BoxScore []PlayerLine `json:"boxScore"`
}

// MatchForfeited reports a match that never started.
type MatchForfeited struct {
	Result MatchResult `json:"result"`
	Reason string      `json:"reason"`
}
