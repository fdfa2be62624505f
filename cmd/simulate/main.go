package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/match"
	"github.com/DarianStillwater/courtside/pkg/match/types"
	"github.com/DarianStillwater/courtside/pkg/queue"
	"github.com/DarianStillwater/courtside/pkg/sim"
)

// simulate runs a single headless match between two generated teams and
// prints the play-by-play to stdout. Useful for eyeballing sim balance
// without standing up the server.
func main() {
	seed := flag.Int64("seed", 1, "Random seed for the simulation")
	speed := flag.String("speed", "instant", "Speed tier (immersive, broadcast, quick, rapid, instant)")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)

	speedTier, err := types.ParseSpeedTier(*speed)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse speed: %v", err))
	}

	home := sim.DemoTeam("home", "River City Pistons", *seed)
	away := sim.DemoTeam("away", "Bayside Comets", *seed+100)

	cfg := types.DefaultMatchConfig()
	cfg.Speed = speedTier
	cfg.Seed = *seed

	notifier := match.NewNotifier("local")
	notifier.Subscribe(func(n types.Notification) {
		switch n.Type {
		case types.NotificationTypePlayByPlay:
			entry := n.Payload.(types.PlayByPlayEntry)
			fmt.Printf("[Q%d %s] %s (%d-%d)\n", entry.Quarter, entry.ClockText, entry.Description, entry.HomeScore, entry.AwayScore)
		case types.NotificationTypeQuarterEnded:
			ended := n.Payload.(types.QuarterEnded)
			fmt.Printf("--- end of period %d ---\n", ended.Quarter)
		case types.NotificationTypeMatchComplete:
			complete := n.Payload.(types.MatchComplete)
			fmt.Printf("\nFINAL: %s %d - %d %s\n", home.Name, complete.Result.HomeScore, complete.Result.AwayScore, away.Name)
		}
	})

	orchestrator, err := match.NewOrchestrator(match.NewOrchestratorOptions{
		MatchID:           "local",
		HomeTeam:          home,
		AwayTeam:          away,
		Config:            cfg,
		Engine:            sim.NewEngine(*seed),
		FreeThrowResolver: sim.NewFreeThrowSim(*seed + 1),
		HomeAdvisor:       sim.NewAdvisor(),
		AwayAdvisor:       sim.NewAdvisor(),
		CommandQueue:      queue.NewInMemoryQueue(16),
		Notifier:          notifier,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create match: %v", err))
	}

	if err := orchestrator.Run(context.Background()); err != nil {
		panic(fmt.Sprintf("Match loop error: %v", err))
	}
}
