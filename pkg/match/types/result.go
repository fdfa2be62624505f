package types

// MatchResult is the persisted outcome of a match.
type MatchResult struct {
	MatchID       string `json:"matchId"`
	HomeTeamID    string `json:"homeTeamId"`
	AwayTeamID    string `json:"awayTeamId"`
	HomeScore     int    `json:"homeScore"`
	AwayScore     int    `json:"awayScore"`
	Periods       int    `json:"periods"` // total periods played, 4 for regulation
	Forfeit       bool   `json:"forfeit"`
	ForfeitTeamID string `json:"forfeitTeamId,omitempty"`
	CompletedAt   int64  `json:"completedAt"` // unix millis
}

// WinnerID returns the winning team's ID.
func (r *MatchResult) WinnerID() string {
	if r.Forfeit {
		if r.ForfeitTeamID == r.HomeTeamID {
			return r.AwayTeamID
		}
		return r.HomeTeamID
	}
	if r.HomeScore > r.AwayScore {
		return r.HomeTeamID
	}
	return r.AwayTeamID
}

// PlayerLine is one player's box score line.
type PlayerLine struct {
	PlayerID string  `json:"playerId"`
	TeamID   string  `json:"teamId"`
	Points   int     `json:"points"`
	Fouls    int     `json:"fouls"`
	Minutes  float64 `json:"minutes"`
}
