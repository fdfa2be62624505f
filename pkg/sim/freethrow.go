package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/DarianStillwater/courtside/pkg/match"
	"github.com/DarianStillwater/courtside/pkg/match/types"
)

// FreeThrowSim is the default free-throw resolver.
type FreeThrowSim struct {
	rng *rand.Rand
}

func NewFreeThrowSim(seed int64) *FreeThrowSim {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &FreeThrowSim{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (f *FreeThrowSim) Resolve(shooter types.Player, attempts int, ctx match.FreeThrowContext) (*match.FreeThrowResult, error) {
	if attempts <= 0 {
		return nil, fmt.Errorf("invalid free throw attempts: %d", attempts)
	}

	chance := 0.5 + float64(shooter.Rating.FreeThrow)*0.004

	// Late-game pressure with the score close.
	diff := ctx.ScoreDiff
	if diff < 0 {
		diff = -diff
	}
	if ctx.Quarter >= 4 && ctx.ClockSeconds <= 120 && diff <= 5 {
		chance -= 0.05
	}

	made := 0
	for i := 0; i < attempts; i++ {
		if f.rng.Float64() < chance {
			made++
		}
	}

	return &match.FreeThrowResult{
		Made:        made,
		Attempted:   attempts,
		Description: fmt.Sprintf("%s makes %d of %d free throws", shooter.Name, made, attempts),
	}, nil
}
