// Package sim drives a loaded encounter through the combat core on a fixed
// tick.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/game/scenario"
)

// Config controls the tick loop.
type Config struct {
	Tick time.Duration
	// MaxDuration bounds simulated time; 0 means unbounded.
	MaxDuration time.Duration
	// Realtime paces ticks with a wall-clock ticker.
	Realtime bool
}

// Stats summarizes a run.
type Stats struct {
	Ticks    int
	Elapsed  time.Duration
	Attacks  int
	Hits     int
	Damage   int
	Deaths   []string
	Resolved bool
}

// Runner owns one encounter and the combat core driving it.
type Runner struct {
	cfg        Config
	world      *scenario.World
	combat     *combat.Combat
	classifier combat.Classifier
	listener   *LogListener
	logger     *zap.Logger
	stats      Stats
	quit       chan struct{}
	stopOnce   sync.Once
}

// ErrStopped is returned by Run when Stop interrupts it.
var ErrStopped = errors.New("sim: runner stopped")

// NewRunner builds a runner over w.
//
// Precondition: w and cb must be non-nil; cfg.Tick must be > 0.
// Postcondition: every creature in w reports to the runner's listener.
func NewRunner(cfg Config, w *scenario.World, cb *combat.Combat, cls combat.Classifier, logger *zap.Logger) (*Runner, error) {
	if w == nil || cb == nil {
		return nil, fmt.Errorf("sim: world and combat must be non-nil")
	}
	if cfg.Tick <= 0 {
		return nil, fmt.Errorf("sim: tick must be > 0, got %s", cfg.Tick)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		cfg:        cfg,
		world:      w,
		combat:     cb,
		classifier: cls,
		logger:     logger.Named("sim"),
		quit:       make(chan struct{}),
	}
	r.listener = NewLogListener(r.logger, func() float64 { return cb.Now().Seconds() })
	for _, c := range w.Area.All() {
		c.SetListener(r.listener)
	}
	return r, nil
}

// RecordAttack accumulates an attack resolution; wire it as combat.Deps.OnAttack.
func (r *Runner) RecordAttack(res combat.AttackResult) {
	r.stats.Attacks++
	if !res.Hit {
		return
	}
	r.stats.Hits++
	for _, e := range res.Effects {
		if e.Kind == combat.EffectDamage {
			r.stats.Damage += e.Amount
		}
	}
}

// Step advances the world then the combat core by one tick.
func (r *Runner) Step() {
	dt := r.cfg.Tick
	r.world.Area.Update(r.combat.Now()+dt, dt)
	r.combat.Update(dt)
	r.stats.Ticks++
}

// Resolved reports whether no two living creatures are still hostile.
func (r *Runner) Resolved() bool {
	if r.classifier == nil {
		return false
	}
	creatures := r.world.Area.Creatures()
	for _, a := range creatures {
		if a.IsDead() {
			continue
		}
		for _, b := range creatures {
			if !b.IsDead() && combat.IsEnemy(r.classifier, a, b) {
				return false
			}
		}
	}
	return true
}

func (r *Runner) expired() bool {
	return r.cfg.MaxDuration > 0 && r.combat.Now() >= r.cfg.MaxDuration
}

// Run steps until the encounter resolves, MaxDuration elapses, Stop is
// called, or ctx is cancelled.
//
// Postcondition: Stats reflects every completed tick.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	r.logger.Info("encounter started",
		zap.String("scenario", r.world.Name),
		zap.Int("creatures", len(r.world.Area.All())),
		zap.Duration("tick", r.cfg.Tick),
		zap.Bool("realtime", r.cfg.Realtime),
	)

	var ticks <-chan time.Time
	if r.cfg.Realtime {
		t := time.NewTicker(r.cfg.Tick)
		defer t.Stop()
		ticks = t.C
	}

	for !r.Resolved() && !r.expired() {
		if ticks != nil {
			select {
			case <-ctx.Done():
				return r.Stats(), ctx.Err()
			case <-r.quit:
				return r.Stats(), ErrStopped
			case <-ticks:
			}
		} else {
			select {
			case <-ctx.Done():
				return r.Stats(), ctx.Err()
			case <-r.quit:
				return r.Stats(), ErrStopped
			default:
			}
		}
		r.Step()
	}

	stats := r.Stats()
	r.logger.Info("encounter finished",
		zap.Bool("resolved", stats.Resolved),
		zap.Duration("elapsed", stats.Elapsed),
		zap.Int("attacks", stats.Attacks),
		zap.Int("hits", stats.Hits),
		zap.Int("damage", stats.Damage),
		zap.Strings("deaths", stats.Deaths),
	)
	return stats, nil
}

// Stats returns a snapshot of the run so far.
func (r *Runner) Stats() Stats {
	s := r.stats
	s.Elapsed = r.combat.Now()
	s.Deaths = append([]string(nil), r.listener.Deaths()...)
	s.Resolved = r.Resolved()
	return s
}

// Start implements server.Service. Cancellation and Stop are not errors.
func (r *Runner) Start(ctx context.Context) error {
	_, err := r.Run(ctx)
	if errors.Is(err, ErrStopped) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop implements server.Service. It is safe to call more than once.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}
