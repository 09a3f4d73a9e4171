// Package config provides Viper-based configuration loading for the combat
// simulator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// CombatConfig tunes the combat core.
type CombatConfig struct {
	RoundDuration     time.Duration `mapstructure:"round_duration"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	// DetectionRange is the hostility and AI scan radius in world units.
	DetectionRange  float64       `mapstructure:"detection_range"`
	AIThinkInterval time.Duration `mapstructure:"ai_think_interval"`
	// AIPolicy is "per_combatant" or "round_robin".
	AIPolicy          string        `mapstructure:"ai_policy"`
	EffectDelay       time.Duration `mapstructure:"effect_delay"`
	DeactivationGrace time.Duration `mapstructure:"deactivation_grace"`
	AnimationHold     time.Duration `mapstructure:"animation_hold"`
}

// SimulationConfig controls the tick loop.
type SimulationConfig struct {
	// TickInterval is the simulated time advanced per tick.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// MaxDuration stops the run after this much simulated time; 0 runs until
	// combat ends or the process is signalled.
	MaxDuration time.Duration `mapstructure:"max_duration"`
	// Realtime paces ticks against the wall clock.
	Realtime bool `mapstructure:"realtime"`
	// Seed makes dice rolls reproducible; 0 uses crypto/rand.
	Seed uint64 `mapstructure:"seed"`
}

// ScriptingConfig locates the Lua hook scripts.
type ScriptingConfig struct {
	// Dir holds *.lua hook files; empty disables scripting.
	Dir              string `mapstructure:"dir"`
	InstructionLimit int    `mapstructure:"instruction_limit"`
}

// ScenarioConfig selects the encounter to run.
type ScenarioConfig struct {
	Path string `mapstructure:"path"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Combat     CombatConfig     `mapstructure:"combat"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
	Scenario   ScenarioConfig   `mapstructure:"scenario"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	for _, err := range []error{
		validateLogging(c.Logging),
		validateCombat(c.Combat),
		validateSimulation(c.Simulation),
		validateScripting(c.Scripting),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Scenario.Path == "" {
		errs = append(errs, "scenario.path must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.RoundDuration <= 0 {
		errs = append(errs, fmt.Sprintf("combat.round_duration must be > 0, got %s", c.RoundDuration))
	}
	if c.DetectionRange <= 0 {
		errs = append(errs, fmt.Sprintf("combat.detection_range must be > 0, got %g", c.DetectionRange))
	}
	validPolicies := map[string]bool{"per_combatant": true, "round_robin": true}
	if !validPolicies[c.AIPolicy] {
		errs = append(errs, fmt.Sprintf("combat.ai_policy must be one of [per_combatant, round_robin], got %q", c.AIPolicy))
	}
	for name, d := range map[string]time.Duration{
		"heartbeat_interval": c.HeartbeatInterval,
		"ai_think_interval":  c.AIThinkInterval,
		"effect_delay":       c.EffectDelay,
		"deactivation_grace": c.DeactivationGrace,
		"animation_hold":     c.AnimationHold,
	} {
		if d < 0 {
			errs = append(errs, fmt.Sprintf("combat.%s must not be negative", name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.tick_interval must be > 0, got %s", s.TickInterval))
	}
	if s.MaxDuration < 0 {
		errs = append(errs, "simulation.max_duration must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with COMBATSIM_ prefix
	v.SetEnvPrefix("COMBATSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewViper returns a Viper instance carrying every default.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("combat.round_duration", "3s")
	v.SetDefault("combat.heartbeat_interval", "1s")
	v.SetDefault("combat.detection_range", 20.0)
	v.SetDefault("combat.ai_think_interval", "1s")
	v.SetDefault("combat.ai_policy", "per_combatant")
	v.SetDefault("combat.effect_delay", "0s")
	v.SetDefault("combat.deactivation_grace", "0s")
	v.SetDefault("combat.animation_hold", "0s")

	v.SetDefault("simulation.tick_interval", "100ms")
	v.SetDefault("simulation.max_duration", "5m")
	v.SetDefault("simulation.realtime", false)
	v.SetDefault("simulation.seed", 0)

	v.SetDefault("scripting.dir", "")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("scenario.path", "content/scenarios/skirmish.yaml")
}
