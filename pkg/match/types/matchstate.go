package types

// TeamMatchState is the per-side slice of the match state.
type TeamMatchState struct {
	TeamID            string   `json:"teamId"`
	Name              string   `json:"name"`
	Score             int      `json:"score"`
	Lineup            []string `json:"lineup"`
	TeamFouls         int      `json:"teamFouls"` // this quarter, reset at period boundaries
	TimeoutsRemaining int      `json:"timeoutsRemaining"`
	UnansweredPoints  int      `json:"unansweredPoints"`
}

// MatchState is the single-writer state of one running match. It is
// owned and mutated exclusively by the orchestrator loop; everything
// else sees copies.
type MatchState struct {
	MatchID          string             `json:"matchId"`
	Quarter          int                `json:"quarter"` // 5+ denotes overtime period quarter-4
	GameClockSeconds float64            `json:"gameClockSeconds"`
	PossessionIsHome bool               `json:"possessionIsHome"`
	Home             *TeamMatchState    `json:"home"`
	Away             *TeamMatchState    `json:"away"`
	PlayerMinutes    map[string]float64 `json:"playerMinutes"`
	PlayerFouls      map[string]int     `json:"playerFouls"`
	PlayerPoints     map[string]int     `json:"playerPoints"`
	Running          bool               `json:"running"`
	Paused           bool               `json:"paused"`
	Complete         bool               `json:"complete"`
	Timestamp        int64              `json:"timestamp"`
}

// TeamFor returns the team state for a side.
func (s *MatchState) TeamFor(side Side) *TeamMatchState {
	if side == SideHome {
		return s.Home
	}
	return s.Away
}

// OffenseSide returns the side currently in possession.
func (s *MatchState) OffenseSide() Side {
	if s.PossessionIsHome {
		return SideHome
	}
	return SideAway
}

// SideOf reports which lineup a player is currently on, if any.
func (s *MatchState) SideOf(playerID string) (Side, bool) {
	for _, id := range s.Home.Lineup {
		if id == playerID {
			return SideHome, true
		}
	}
	for _, id := range s.Away.Lineup {
		if id == playerID {
			return SideAway, true
		}
	}
	return SideHome, false
}

// ScoreDiff returns the score differential from the given side's perspective.
func (s *MatchState) ScoreDiff(side Side) int {
	diff := s.Home.Score - s.Away.Score
	if side == SideAway {
		return -diff
	}
	return diff
}

// Copy returns a deep copy of the match state. Snapshots handed to
// listeners and the API go through here so nothing outside the loop
// can write back into the live state.
func (s *MatchState) Copy() *MatchState {
	copyTeam := func(t *TeamMatchState) *TeamMatchState {
		lineup := make([]string, len(t.Lineup))
		copy(lineup, t.Lineup)
		return &TeamMatchState{
			TeamID:            t.TeamID,
			Name:              t.Name,
			Score:             t.Score,
			Lineup:            lineup,
			TeamFouls:         t.TeamFouls,
			TimeoutsRemaining: t.TimeoutsRemaining,
			UnansweredPoints:  t.UnansweredPoints,
		}
	}

	minutes := make(map[string]float64, len(s.PlayerMinutes))
	for k, v := range s.PlayerMinutes {
		minutes[k] = v
	}
	fouls := make(map[string]int, len(s.PlayerFouls))
	for k, v := range s.PlayerFouls {
		fouls[k] = v
	}
	points := make(map[string]int, len(s.PlayerPoints))
	for k, v := range s.PlayerPoints {
		points[k] = v
	}

	return &MatchState{
		MatchID:          s.MatchID,
		Quarter:          s.Quarter,
		GameClockSeconds: s.GameClockSeconds,
		PossessionIsHome: s.PossessionIsHome,
		Home:             copyTeam(s.Home),
		Away:             copyTeam(s.Away),
		PlayerMinutes:    minutes,
		PlayerFouls:      fouls,
		PlayerPoints:     points,
		Running:          s.Running,
		Paused:           s.Paused,
		Complete:         s.Complete,
		Timestamp:        s.Timestamp,
	}
}
