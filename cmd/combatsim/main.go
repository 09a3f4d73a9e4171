// Package main runs a combat encounter loaded from a scenario file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/combatsim/internal/config"
	"github.com/cory-johannsen/combatsim/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	scenarioPath := flag.String("scenario", "", "scenario YAML to run; overrides scenario.path")
	scriptDir := flag.String("scripts", "", "directory of Lua hook scripts; overrides scripting.dir")
	seed := flag.Uint64("seed", 0, "dice seed; overrides simulation.seed when non-zero")
	realtime := flag.Bool("realtime", false, "pace ticks against the wall clock")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *scenarioPath != "" {
		cfg.Scenario.Path = *scenarioPath
	}
	if *scriptDir != "" {
		cfg.Scripting.Dir = *scriptDir
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *realtime {
		cfg.Simulation.Realtime = true
	}

	a, cleanup, err := initializeApp(cfg)
	if err != nil {
		log.Fatalf("initializing simulator: %v", err)
	}

	a.logger.Info("combat simulator ready",
		zap.String("scenario", cfg.Scenario.Path),
		zap.Duration("round", cfg.Combat.RoundDuration),
		zap.String("ai_policy", cfg.Combat.AIPolicy),
		zap.Duration("elapsed", time.Since(start)),
	)

	lc := server.NewLifecycle(a.logger)
	lc.Add("encounter", a.runner)
	runErr := lc.Run(context.Background())

	stats := a.runner.Stats()
	cleanup()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "combatsim: %v\n", runErr)
		os.Exit(1)
	}
	fmt.Printf("resolved=%t elapsed=%s attacks=%d hits=%d damage=%d deaths=%d\n",
		stats.Resolved, stats.Elapsed, stats.Attacks, stats.Hits, stats.Damage, len(stats.Deaths))
}
