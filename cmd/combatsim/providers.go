package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/combatsim/internal/config"
	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/game/dice"
	"github.com/cory-johannsen/combatsim/internal/game/scenario"
	"github.com/cory-johannsen/combatsim/internal/game/world"
	"github.com/cory-johannsen/combatsim/internal/observability"
	"github.com/cory-johannsen/combatsim/internal/scripting"
	"github.com/cory-johannsen/combatsim/internal/sim"
)

func provideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// provideSource returns a seeded source when a seed is configured so runs
// can be replayed.
func provideSource(cfg config.Config) dice.Source {
	if cfg.Simulation.Seed != 0 {
		return dice.NewSeededSource(cfg.Simulation.Seed)
	}
	return dice.NewCryptoSource()
}

func provideRoller(src dice.Source, logger *zap.Logger) *dice.Roller {
	return dice.NewLoggedRoller(src, observability.Component(logger, "dice"))
}

func provideWorld(cfg config.Config, logger *zap.Logger) (*scenario.World, error) {
	w, err := scenario.Load(cfg.Scenario.Path)
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}
	logger.Info("scenario loaded",
		zap.String("name", w.Name),
		zap.String("path", cfg.Scenario.Path),
		zap.Int("creatures", len(w.Area.All())),
		zap.Int("obstacles", len(w.Area.Obstacles())),
	)
	return w, nil
}

func provideScripts(cfg config.Config, roller *dice.Roller, w *scenario.World, logger *zap.Logger) (*scripting.Manager, func(), error) {
	m := scripting.NewManager(roller, observability.Component(logger, "scripting"))
	sim.BindScripts(m, w.Area)
	if cfg.Scripting.Dir != "" {
		if err := m.LoadDir(cfg.Scripting.Dir, cfg.Scripting.InstructionLimit); err != nil {
			m.Close()
			return nil, nil, err
		}
	}
	return m, m.Close, nil
}

func provideClassifier(w *scenario.World, m *scripting.Manager) combat.Classifier {
	return combat.ScriptedClassifier{
		Hooks:    m,
		Fallback: combat.FactionClassifier{Table: w.Factions},
	}
}

func provideSimConfig(cfg config.Config) sim.Config {
	return sim.Config{
		Tick:        cfg.Simulation.TickInterval,
		MaxDuration: cfg.Simulation.MaxDuration,
		Realtime:    cfg.Simulation.Realtime,
	}
}

func provideRunner(
	cfg config.Config,
	simCfg sim.Config,
	w *scenario.World,
	roller *dice.Roller,
	cls combat.Classifier,
	m *scripting.Manager,
	logger *zap.Logger,
) (*sim.Runner, error) {
	opts, err := cfg.Combat.CombatOptions()
	if err != nil {
		return nil, err
	}

	var runner *sim.Runner
	cb, err := combat.New(combat.Deps{
		Area:         w.Area,
		Party:        w.Party,
		Classifier:   cls,
		Resolver:     world.NewDamageResolver(roller, observability.Component(logger, "damage")),
		Presentation: sim.NewLogPresentation(observability.Component(logger, "presentation")),
		Dice:         roller,
		Hooks:        m,
		Logger:       logger,
		OnAttack:     func(res combat.AttackResult) { runner.RecordAttack(res) },
	}, opts)
	if err != nil {
		return nil, err
	}
	runner, err = sim.NewRunner(simCfg, w, cb, cls, logger)
	if err != nil {
		return nil, err
	}
	return runner, nil
}

// app is the assembled simulator.
type app struct {
	runner *sim.Runner
	logger *zap.Logger
}

func provideApp(runner *sim.Runner, logger *zap.Logger) *app {
	return &app{runner: runner, logger: logger}
}
