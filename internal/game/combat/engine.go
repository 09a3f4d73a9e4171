package combat

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/combatsim/internal/game/dice"
	"github.com/cory-johannsen/combatsim/internal/game/timer"
)

// ErrInvalidDeps is wrapped by every construction error from New.
var ErrInvalidDeps = errors.New("combat: invalid dependencies")

// Deps are the collaborators the combat core consumes.
type Deps struct {
	Area         Area
	Party        Party
	Classifier   Classifier
	Resolver     DamageResolver
	Presentation Presentation
	// Dice supplies attack rolls. A *dice.Roller is used as is; any other
	// source is wrapped in a logged roller.
	Dice         dice.Source

	// Hooks is optional; when set, attacks are reported to scripts.
	Hooks HookCaller
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// OnAttack is optional and called after every attack resolution.
	OnAttack func(AttackResult)
}

// Options tune the combat core.
type Options struct {
	RoundDuration     time.Duration
	HeartbeatInterval time.Duration
	DetectionRange    float64
	AIThinkInterval   time.Duration
	AIPolicy          Policy
	// EffectDelay defers damage effects after a hit; zero applies them at once.
	EffectDelay time.Duration
	// DeactivationGrace delays leaving combat mode.
	DeactivationGrace time.Duration
	// AnimationHold is how long a creature counts as busy after each combat
	// animation request.
	AnimationHold time.Duration
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		RoundDuration:     DefaultRoundDuration,
		HeartbeatInterval: time.Second,
		DetectionRange:    20,
		AIThinkInterval:   time.Second,
		AIPolicy:          PolicyPerCombatant,
	}
}

const heartbeatKey = "heartbeat"

// Combat advances hostility, rounds, AI and combat mode once per tick.
type Combat struct {
	opts      Options
	logger    *zap.Logger
	now       time.Duration
	heartbeat *timer.Set[string]

	registry   *Registry
	arbiter    *Arbiter
	ai         *Driver
	activation *Activation
}

// New validates deps and opts and builds the combat core.
//
// Postcondition: on error nothing is built and the error wraps ErrInvalidDeps.
func New(deps Deps, opts Options) (*Combat, error) {
	if err := validate(deps, opts); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("combat")
	if opts.AIPolicy == "" {
		opts.AIPolicy = PolicyPerCombatant
	}

	registry := NewRegistry(deps.Area, deps.Classifier, opts.DetectionRange, logger)
	arbiter := newArbiter(registry, deps, opts, logger)
	return &Combat{
		opts:       opts,
		logger:     logger,
		heartbeat:  timer.NewSet[string](),
		registry:   registry,
		arbiter:    arbiter,
		ai:         newDriver(registry, arbiter, deps.Party, opts, logger),
		activation: newActivation(registry, deps.Party, deps.Presentation, opts.DeactivationGrace, logger),
	}, nil
}

func validate(deps Deps, opts Options) error {
	var errs []error
	if deps.Area == nil {
		errs = append(errs, errors.New("area is nil"))
	}
	if deps.Party == nil {
		errs = append(errs, errors.New("party is nil"))
	}
	if deps.Classifier == nil {
		errs = append(errs, errors.New("classifier is nil"))
	}
	if deps.Resolver == nil {
		errs = append(errs, errors.New("damage resolver is nil"))
	}
	if deps.Presentation == nil {
		errs = append(errs, errors.New("presentation is nil"))
	}
	if deps.Dice == nil {
		errs = append(errs, errors.New("dice source is nil"))
	}
	if opts.RoundDuration <= 0 {
		errs = append(errs, fmt.Errorf("round duration must be > 0, got %s", opts.RoundDuration))
	}
	if opts.DetectionRange <= 0 {
		errs = append(errs, fmt.Errorf("detection range must be > 0, got %g", opts.DetectionRange))
	}
	if opts.HeartbeatInterval < 0 || opts.AIThinkInterval < 0 || opts.EffectDelay < 0 ||
		opts.DeactivationGrace < 0 || opts.AnimationHold < 0 {
		errs = append(errs, errors.New("intervals must not be negative"))
	}
	if opts.AIPolicy != "" {
		if _, err := ParsePolicy(string(opts.AIPolicy)); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDeps, errors.Join(errs...))
}

// Update advances the simulation by dt: hostility scan, stale purge, AI,
// rounds, then combat mode.
func (c *Combat) Update(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	c.now += dt

	c.heartbeat.Update(c.now)
	c.heartbeat.Drain()
	if !c.heartbeat.IsRegistered(heartbeatKey) {
		c.registry.Refresh()
		c.heartbeat.SetTimeout(heartbeatKey, c.opts.HeartbeatInterval)
	}
	for _, id := range c.registry.RemoveStale() {
		c.ai.Forget(id)
	}
	c.ai.Update(c.now)
	c.arbiter.Update(c.now, dt)
	c.activation.Update(c.now)
}

// Now returns the simulated time consumed so far.
func (c *Combat) Now() time.Duration { return c.now }

// IsActive reports whether the party is in combat mode.
func (c *Combat) IsActive() bool { return c.activation.IsActive() }

// Registry exposes the combatant registry.
func (c *Combat) Registry() *Registry { return c.registry }

// Arbiter exposes the round arbiter.
func (c *Combat) Arbiter() *Arbiter { return c.arbiter }

// AI exposes the AI driver.
func (c *Combat) AI() *Driver { return c.ai }

// Options returns the options the core was built with.
func (c *Combat) Options() Options { return c.opts }
