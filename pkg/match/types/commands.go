package types

// Commands flow from the API (or the host driving the loop) into the
// orchestrator through a queue and are drained at the top of each step.
// The loop is the only code that applies them to the match state.

type PauseCommand struct{}

type ResumeCommand struct{}

// StopCommand cancels the loop at the next suspension point. The match
// state stays inspectable; nothing is discarded.
type StopCommand struct{}

type SetSpeedCommand struct {
	Speed SpeedTier
}

// TimeoutCommand is a human timeout request. It is honored at the next
// dead ball, provided the side still has timeouts.
type TimeoutCommand struct {
	Side Side
}

// SubstituteCommand swaps a bench player in for an on-court player. It
// is applied at the next dead ball, or immediately while the loop is
// paused on a foul-out prompt.
type SubstituteCommand struct {
	Side  Side
	OutID string
	InID  string
}
