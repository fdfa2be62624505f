package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarianStillwater/courtside/pkg/match"
	"github.com/DarianStillwater/courtside/pkg/match/types"
)

func simInput(t *testing.T) match.SimulationInput {
	t.Helper()
	home := DemoTeam("home", "Home", 1)
	away := DemoTeam("away", "Away", 2)
	return match.SimulationInput{
		Offense:          home.Roster[:5],
		Defense:          away.Roster[:5],
		OffenseStrategy:  home.Strategy,
		DefenseStrategy:  away.Strategy,
		ClockSeconds:     720,
		Quarter:          1,
		PossessionIsHome: true,
		OffenseTeamID:    home.ID,
		DefenseTeamID:    away.ID,
	}
}

func TestEngine_SimulateProducesValidOutcomes(t *testing.T) {
	engine := NewEngine(7)
	in := simInput(t)

	onOffense := make(map[string]bool)
	onDefense := make(map[string]bool)
	for _, p := range in.Offense {
		onOffense[p.ID] = true
	}
	for _, p := range in.Defense {
		onDefense[p.ID] = true
	}

	for i := 0; i < 500; i++ {
		outcome, err := engine.Simulate(in)
		require.NoError(t, err)
		require.NotEmpty(t, outcome.Events)

		assert.Greater(t, outcome.DurationSeconds, 0.0)
		assert.GreaterOrEqual(t, outcome.EndClockSeconds, 0.0)
		assert.Less(t, outcome.EndClockSeconds, in.ClockSeconds)

		for _, ev := range outcome.Events {
			assert.NotEmpty(t, ev.ActorID)
			assert.NotEmpty(t, ev.Description)
			assert.True(t, onOffense[ev.ActorID] || onDefense[ev.ActorID], "event actor %s is on the floor", ev.ActorID)
			if ev.Type == types.EventTypeShot {
				assert.Contains(t, []int{2, 3}, ev.Points)
			}
			if ev.Type == types.EventTypeFoul {
				require.NotNil(t, ev.Foul)
				assert.Equal(t, ev.TargetID, ev.Foul.FouledID)
				assert.True(t, onOffense[ev.Foul.FouledID], "shooting fouls are drawn by the offense")
			}
		}
	}
}

func TestEngine_SimulateDeterministicForSeed(t *testing.T) {
	in := simInput(t)

	first := NewEngine(123)
	second := NewEngine(123)
	for i := 0; i < 50; i++ {
		a, err := first.Simulate(in)
		require.NoError(t, err)
		b, err := second.Simulate(in)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestEngine_SimulateRejectsEmptyLineups(t *testing.T) {
	engine := NewEngine(1)
	in := simInput(t)
	in.Offense = nil

	_, err := engine.Simulate(in)
	assert.Error(t, err)
}

func TestEngine_lateClockPossessionCompresses(t *testing.T) {
	engine := NewEngine(5)
	in := simInput(t)
	in.ClockSeconds = 6

	outcome, err := engine.Simulate(in)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, outcome.EndClockSeconds, 0.0)
	assert.LessOrEqual(t, outcome.EndClockSeconds, in.ClockSeconds)
}

func TestFreeThrowSim_Resolve(t *testing.T) {
	sim := NewFreeThrowSim(9)
	shooter := types.Player{ID: "p1", Name: "Shooter", Rating: types.PlayerRating{FreeThrow: 80}}

	for i := 0; i < 100; i++ {
		res, err := sim.Resolve(shooter, 2, match.FreeThrowContext{Quarter: 1, ClockSeconds: 400})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Attempted)
		assert.GreaterOrEqual(t, res.Made, 0)
		assert.LessOrEqual(t, res.Made, 2)
		assert.NotEmpty(t, res.Description)
	}

	_, err := sim.Resolve(shooter, 0, match.FreeThrowContext{})
	assert.Error(t, err)
}

func TestAdvisor_Decide(t *testing.T) {
	advisor := NewAdvisor()

	tests := []struct {
		name      string
		ctx       match.AdvisorContext
		remaining int
		wantCall  bool
	}{
		{
			name:      "big opposing run",
			ctx:       match.AdvisorContext{Quarter: 2, ClockSeconds: 400, OpponentRun: 9},
			remaining: 5,
			wantCall:  true,
		},
		{
			name:      "late close game down a score",
			ctx:       match.AdvisorContext{Quarter: 4, ClockSeconds: 45, ScoreDiff: -4},
			remaining: 3,
			wantCall:  true,
		},
		{
			name:      "no timeouts left",
			ctx:       match.AdvisorContext{Quarter: 4, ClockSeconds: 45, OpponentRun: 12},
			remaining: 0,
			wantCall:  false,
		},
		{
			name:      "comfortable lead",
			ctx:       match.AdvisorContext{Quarter: 4, ClockSeconds: 45, ScoreDiff: 12},
			remaining: 5,
			wantCall:  false,
		},
		{
			name:      "early game nothing happening",
			ctx:       match.AdvisorContext{Quarter: 1, ClockSeconds: 500, OpponentRun: 4},
			remaining: 7,
			wantCall:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := advisor.Decide(nil, tt.ctx, tt.remaining, false)
			assert.Equal(t, tt.wantCall, decision.ShouldCall)
			if tt.wantCall {
				assert.NotEmpty(t, decision.Reason)
			}
		})
	}
}

func TestDemoTeam(t *testing.T) {
	team := DemoTeam("t1", "Testers", 3)

	assert.Equal(t, "t1", team.ID)
	assert.Len(t, team.Roster, 10)
	assert.Len(t, team.Starters, 5)
	for _, id := range team.Starters {
		_, ok := team.PlayerByID(id)
		assert.True(t, ok)
	}

	// Same seed, same ratings.
	again := DemoTeam("t1", "Testers", 3)
	assert.Equal(t, team.Roster, again.Roster)
}
