package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Combat: CombatConfig{
			RoundDuration:     3 * time.Second,
			HeartbeatInterval: time.Second,
			DetectionRange:    20,
			AIThinkInterval:   time.Second,
			AIPolicy:          "per_combatant",
		},
		Simulation: SimulationConfig{
			TickInterval: 100 * time.Millisecond,
			MaxDuration:  time.Minute,
		},
		Scripting: ScriptingConfig{InstructionLimit: 1000},
		Scenario:  ScenarioConfig{Path: "skirmish.yaml"},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
combat:
  round_duration: 4s
  detection_range: 15
  ai_policy: round_robin
  effect_delay: 250ms
simulation:
  tick_interval: 50ms
  seed: 42
scripting:
  dir: scripts
scenario:
  path: arena.yaml
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 4*time.Second, cfg.Combat.RoundDuration)
	assert.Equal(t, 15.0, cfg.Combat.DetectionRange)
	assert.Equal(t, "round_robin", cfg.Combat.AIPolicy)
	assert.Equal(t, 250*time.Millisecond, cfg.Combat.EffectDelay)
	assert.Equal(t, time.Second, cfg.Combat.HeartbeatInterval, "defaults fill unset keys")
	assert.Equal(t, 50*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, "scripts", cfg.Scripting.Dir)
	assert.Equal(t, 100000, cfg.Scripting.InstructionLimit)
	assert.Equal(t, "arena.yaml", cfg.Scenario.Path)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644))
	t.Setenv("COMBATSIM_LOGGING_LEVEL", "warn")
	t.Setenv("COMBATSIM_SIMULATION_REALTIME", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Simulation.Realtime)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadFromViper_Defaults(t *testing.T) {
	cfg, err := LoadFromViper(NewViper())
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Combat.RoundDuration)
	assert.Equal(t, "per_combatant", cfg.Combat.AIPolicy)
	assert.Zero(t, cfg.Combat.EffectDelay)
}

func TestValidate_AggregatesViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	cfg.Combat.RoundDuration = 0
	cfg.Combat.AIPolicy = "chaos"
	cfg.Combat.EffectDelay = -time.Second
	cfg.Simulation.TickInterval = 0
	cfg.Scripting.InstructionLimit = -1
	cfg.Scenario.Path = ""

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"logging.level",
		"combat.round_duration",
		"combat.ai_policy",
		"combat.effect_delay must not be negative",
		"simulation.tick_interval",
		"scripting.instruction_limit",
		"scenario.path",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestInvalidLogFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestProperty_NonPositiveDetectionRangeRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Combat.DetectionRange = rapid.Float64Range(-1000, 0).Draw(t, "range")
		if cfg.Validate() == nil {
			t.Fatalf("detection range %g accepted", cfg.Combat.DetectionRange)
		}
	})
}

func TestProperty_PositiveTickIntervalAccepted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Simulation.TickInterval = time.Duration(rapid.Int64Range(1, int64(time.Minute)).Draw(t, "tick"))
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
