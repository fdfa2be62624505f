package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/DarianStillwater/courtside/pkg/match"
	"github.com/DarianStillwater/courtside/pkg/match/types"
)

// Engine is the default possession engine: a rating-driven event
// generator. One instance serves one match; it is not safe for
// concurrent use. A fixed seed reproduces a match exactly.
type Engine struct {
	rng *rand.Rand
}

func NewEngine(seed int64) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (e *Engine) Simulate(in match.SimulationInput) (*types.PossessionOutcome, error) {
	if len(in.Offense) == 0 || len(in.Defense) == 0 {
		return nil, fmt.Errorf("cannot simulate with %d offense and %d defense players", len(in.Offense), len(in.Defense))
	}

	// Pace shortens possessions; late-clock possessions compress to fit.
	base := 20 - float64(in.OffenseStrategy.Pace)*0.08
	duration := base * (0.55 + 0.9*e.rng.Float64())
	if duration > in.ClockSeconds {
		duration = in.ClockSeconds
	}
	if duration < 2 {
		duration = 2
	}
	endClock := in.ClockSeconds - duration
	if endClock < 0 {
		endClock = 0
	}

	var events []types.PossessionEvent

	handler := e.weightedPick(in.Offense, func(p types.Player) int { return p.Rating.Playmaking + 10 })
	defender := in.Defense[e.rng.Intn(len(in.Defense))]

	if e.rng.Float64() < 0.25 {
		recipient := in.Offense[e.rng.Intn(len(in.Offense))]
		if recipient.ID != handler.ID {
			events = append(events, types.PossessionEvent{
				Type:         types.EventTypePass,
				ActorID:      handler.ID,
				TargetID:     recipient.ID,
				Success:      true,
				ClockSeconds: in.ClockSeconds - duration*0.4,
				Description:  fmt.Sprintf("%s finds %s", handler.Name, recipient.Name),
			})
			handler = recipient
		}
	}

	// Turnover branch ends the possession without a shot.
	turnoverChance := 0.13 + float64(in.DefenseStrategy.Aggression)*0.0008 - float64(handler.Rating.Playmaking)*0.0008
	if roll := e.rng.Float64(); roll < turnoverChance {
		events = append(events, e.turnoverEvents(handler, defender, endClock)...)
		return &types.PossessionOutcome{
			Events:          events,
			EndClockSeconds: endClock,
			DurationSeconds: duration,
		}, nil
	}

	events = append(events, e.shotEvents(in, handler, defender, endClock)...)

	return &types.PossessionOutcome{
		Events:          events,
		EndClockSeconds: endClock,
		DurationSeconds: duration,
	}, nil
}

func (e *Engine) turnoverEvents(handler, defender types.Player, clock float64) []types.PossessionEvent {
	if e.rng.Float64() < 0.45 {
		return []types.PossessionEvent{{
			Type:         types.EventTypeSteal,
			ActorID:      defender.ID,
			TargetID:     handler.ID,
			Success:      true,
			ClockSeconds: clock,
			Description:  fmt.Sprintf("%s picks %s's pocket", defender.Name, handler.Name),
		}}
	}
	outOfBounds := e.rng.Float64() < 0.4
	description := fmt.Sprintf("%s loses the handle", handler.Name)
	if outOfBounds {
		description = fmt.Sprintf("%s throws it away, out of bounds", handler.Name)
	}
	return []types.PossessionEvent{{
		Type:         types.EventTypeTurnover,
		ActorID:      handler.ID,
		OutOfBounds:  outOfBounds,
		ClockSeconds: clock,
		Description:  description,
	}}
}

func (e *Engine) shotEvents(in match.SimulationInput, handler, defender types.Player, clock float64) []types.PossessionEvent {
	var events []types.PossessionEvent

	shooter := e.weightedPick(in.Offense, func(p types.Player) int { return p.Rating.Inside + p.Rating.Outside })
	if e.rng.Float64() < 0.5 {
		shooter = handler
	}

	three := e.rng.Float64() < 0.25+float64(in.OffenseStrategy.PerimeterBias)*0.0035
	points := 2
	skill := float64(shooter.Rating.Inside)
	if three {
		points = 3
		skill = float64(shooter.Rating.Outside)
	}

	makeChance := 0.28 + skill*0.004 - float64(defender.Rating.Defense)*0.0015
	if three {
		makeChance -= 0.08
	}

	// Blocks only threaten inside shots.
	if !three && e.rng.Float64() < 0.03+float64(defender.Rating.Defense)*0.0006 {
		events = append(events, types.PossessionEvent{
			Type:         types.EventTypeBlock,
			ActorID:      defender.ID,
			TargetID:     shooter.ID,
			Success:      true,
			ClockSeconds: clock,
			Description:  fmt.Sprintf("%s swats away %s's shot", defender.Name, shooter.Name),
		})
		events = append(events, e.reboundEvent(in, clock))
		return events
	}

	made := e.rng.Float64() < makeChance
	events = append(events, types.PossessionEvent{
		Type:         types.EventTypeShot,
		ActorID:      shooter.ID,
		TargetID:     defender.ID,
		Points:       points,
		Success:      made,
		ClockSeconds: clock,
		Description:  e.shotDescription(shooter, three, made),
	})

	// Shooting fouls: an and-one on a make, two or three shots on a miss.
	foulChance := 0.07 + float64(in.DefenseStrategy.Aggression)*0.0009
	if e.rng.Float64() < foulChance {
		events = append(events, e.foulEvent(defender, shooter, made, points, clock))
		return events
	}

	if !made {
		events = append(events, e.reboundEvent(in, clock))
	}

	return events
}

func (e *Engine) foulEvent(defender, shooter types.Player, made bool, points int, clock float64) types.PossessionEvent {
	foulType := types.FoulTypePersonal
	roll := e.rng.Float64()
	switch {
	case roll < 0.015:
		foulType = types.FoulTypeFlagrant1
	case roll < 0.02:
		foulType = types.FoulTypeTechnical
	}

	attempts := points
	description := fmt.Sprintf("%s fouls %s on the shot", defender.Name, shooter.Name)
	if made {
		attempts = 1
		description = fmt.Sprintf("%s fouls %s, and one", defender.Name, shooter.Name)
	}

	return types.PossessionEvent{
		Type:         types.EventTypeFoul,
		ActorID:      defender.ID,
		TargetID:     shooter.ID,
		ClockSeconds: clock,
		Description:  description,
		Foul: &types.FoulRecord{
			Type:              foulType,
			FouledID:          shooter.ID,
			FreeThrowsAwarded: attempts,
		},
	}
}

func (e *Engine) reboundEvent(in match.SimulationInput, clock float64) types.PossessionEvent {
	// Defensive boards dominate; the orchestrator flips possession
	// after the outcome either way.
	pool := in.Defense
	if e.rng.Float64() < 0.27 {
		pool = in.Offense
	}
	rebounder := e.weightedPick(pool, func(p types.Player) int { return p.Rating.Rebounding + 10 })
	return types.PossessionEvent{
		Type:         types.EventTypeRebound,
		ActorID:      rebounder.ID,
		Success:      true,
		ClockSeconds: clock,
		Description:  fmt.Sprintf("%s pulls down the rebound", rebounder.Name),
	}
}

func (e *Engine) shotDescription(shooter types.Player, three, made bool) string {
	if three {
		if made {
			return fmt.Sprintf("%s drains a three", shooter.Name)
		}
		return fmt.Sprintf("%s misses from deep", shooter.Name)
	}
	if made {
		return fmt.Sprintf("%s scores inside", shooter.Name)
	}
	return fmt.Sprintf("%s misses the shot", shooter.Name)
}

func (e *Engine) weightedPick(players []types.Player, weight func(types.Player) int) types.Player {
	total := 0
	for _, p := range players {
		total += weight(p)
	}
	if total <= 0 {
		return players[e.rng.Intn(len(players))]
	}
	roll := e.rng.Intn(total)
	for _, p := range players {
		roll -= weight(p)
		if roll < 0 {
			return p
		}
	}
	return players[len(players)-1]
}
