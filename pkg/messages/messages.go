package messages

import (
	"encoding/json"
	"fmt"

	"github.com/DarianStillwater/courtside/pkg/match/types"
)

// Message types carried on the spectator stream.
const (
	MessageTypeScoreboard       = "sbu"
	MessageTypePlayByPlay       = "pbp"
	MessageTypeTimeoutCalled    = "toc"
	MessageTypeQuarterEnded     = "qed"
	MessageTypeQuarterStarted   = "qst"
	MessageTypePlayerFouledOut  = "pfo"
	MessageTypeMatchComplete    = "mcp"
	MessageTypeCoachingDecision = "cdr"
	MessageTypeMatchPaused      = "mps"
	MessageTypeMatchResumed     = "mrs"
	MessageTypeMatchForfeited   = "mff"
)

// Message is the generic wire envelope for the spectator stream.
type Message struct {
	MatchID string          `json:"matchId"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// wireTypes maps notification types to their short wire identifiers.
var wireTypes = map[string]string{
	types.NotificationTypeScoreboard:       MessageTypeScoreboard,
	types.NotificationTypePlayByPlay:       MessageTypePlayByPlay,
	types.NotificationTypeTimeoutCalled:    MessageTypeTimeoutCalled,
	types.NotificationTypeQuarterEnded:     MessageTypeQuarterEnded,
	types.NotificationTypeQuarterStarted:   MessageTypeQuarterStarted,
	types.NotificationTypePlayerFouledOut:  MessageTypePlayerFouledOut,
	types.NotificationTypeMatchComplete:    MessageTypeMatchComplete,
	types.NotificationTypeCoachingDecision: MessageTypeCoachingDecision,
	types.NotificationTypeMatchPaused:      MessageTypeMatchPaused,
	types.NotificationTypeMatchResumed:     MessageTypeMatchResumed,
	types.NotificationTypeMatchForfeited:   MessageTypeMatchForfeited,
}

// FromNotification wraps a match notification in a wire envelope.
func FromNotification(n types.Notification) (*Message, error) {
	wireType, ok := wireTypes[n.Type]
	if !ok {
		return nil, fmt.Errorf("unknown notification type: %s", n.Type)
	}
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %v", err)
	}
	return &Message{
		MatchID: n.MatchID,
		Type:    wireType,
		Payload: payload,
	}, nil
}
