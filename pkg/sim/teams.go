package sim

import (
	"fmt"
	"math/rand"

	"github.com/DarianStillwater/courtside/pkg/match/types"
)

var demoPositions = []string{"PG", "SG", "SF", "PF", "C", "PG", "SG", "SF", "PF", "C"}

// DemoTeam builds a ten-man roster with seeded ratings. It exists so the
// simulate CLI and integration-style tests can run full matches without
// an external roster source.
func DemoTeam(id, name string, seed int64) *types.Team {
	rng := rand.New(rand.NewSource(seed))

	roster := make([]types.Player, len(demoPositions))
	starters := make([]string, 0, 5)
	for i, position := range demoPositions {
		playerID := fmt.Sprintf("%s-p%d", id, i+1)
		roster[i] = types.Player{
			ID:       playerID,
			Name:     fmt.Sprintf("%s #%d", name, i+1),
			Position: position,
			Rating: types.PlayerRating{
				Inside:     50 + rng.Intn(40),
				Outside:    50 + rng.Intn(40),
				Playmaking: 50 + rng.Intn(40),
				Defense:    50 + rng.Intn(40),
				Rebounding: 50 + rng.Intn(40),
				FreeThrow:  55 + rng.Intn(40),
				Stamina:    60 + rng.Intn(35),
			},
		}
		if i < 5 {
			starters = append(starters, playerID)
		}
	}

	return &types.Team{
		ID:       id,
		Name:     name,
		Roster:   roster,
		Starters: starters,
		Strategy: types.Strategy{
			Pace:          40 + rng.Intn(40),
			PerimeterBias: 30 + rng.Intn(50),
			Aggression:    30 + rng.Intn(40),
		},
	}
}
