package combat

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/combatsim/internal/game/action"
	"github.com/cory-johannsen/combatsim/internal/game/timer"
)

// Policy selects how the AI driver schedules think passes.
type Policy string

const (
	// PolicyPerCombatant gives every combatant its own think cadence.
	PolicyPerCombatant Policy = "per_combatant"
	// PolicyRoundRobin lets one combatant think per tick, cycling through the
	// registry.
	PolicyRoundRobin Policy = "round_robin"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyPerCombatant, PolicyRoundRobin:
		return p, nil
	}
	return "", fmt.Errorf("unknown AI policy %q", s)
}

// Driver picks targets for computer-controlled combatants.
type Driver struct {
	registry       *Registry
	arbiter        *Arbiter
	party          Party
	detectionRange float64
	interval       time.Duration
	policy         Policy
	logger         *zap.Logger

	cadence *timer.Set[string]
	cursor  int
}

func newDriver(registry *Registry, arbiter *Arbiter, party Party, opts Options, logger *zap.Logger) *Driver {
	return &Driver{
		registry:       registry,
		arbiter:        arbiter,
		party:          party,
		detectionRange: opts.DetectionRange,
		interval:       opts.AIThinkInterval,
		policy:         opts.AIPolicy,
		logger:         logger,
		cadence:        timer.NewSet[string](),
	}
}

// Update runs the think passes that are due at now.
func (d *Driver) Update(now time.Duration) {
	d.cadence.Update(now)
	d.cadence.Drain()

	var leader string
	if l := d.party.Leader(); l != nil {
		leader = l.ID()
	}
	var eligible []*Combatant
	for _, c := range d.registry.Combatants() {
		if c.ID() == leader || c.Creature.IsDead() {
			continue
		}
		eligible = append(eligible, c)
	}

	if d.policy == PolicyRoundRobin {
		if len(eligible) == 0 {
			return
		}
		d.cursor %= len(eligible)
		d.Think(eligible[d.cursor])
		d.cursor++
		return
	}
	for _, c := range eligible {
		if d.cadence.IsRegistered(c.ID()) {
			continue
		}
		d.Think(c)
		d.cadence.SetTimeout(c.ID(), d.interval)
	}
}

// Forget drops the think cadence of a creature that left combat.
func (d *Driver) Forget(id string) { d.cadence.Cancel(id) }

// NearestEnemy returns the closest perceived enemy of c that is alive, in
// combat, within detection range and hostile from c's side. Ties go to the
// enemy perceived first.
func (d *Driver) NearestEnemy(c *Combatant) Creature {
	var nearest Creature
	best := math.Inf(1)
	for _, e := range c.enemies {
		if e.IsDead() || !d.registry.Has(e.ID()) {
			continue
		}
		// Enemy sets also hold creatures that merely perceive c.
		if !IsEnemy(d.registry.classifier, c.Creature, e) {
			continue
		}
		dist := distance(c.Creature, e)
		if dist > d.detectionRange || dist >= best {
			continue
		}
		nearest, best = e, dist
	}
	return nearest
}

// Think replaces c's current action with an attack on its nearest enemy.
//
// Postcondition: returns true iff a new attack action was queued.
func (d *Driver) Think(c *Combatant) bool {
	creature := c.Creature
	enemy := d.NearestEnemy(c)
	if enemy == nil {
		return false
	}
	q := creature.Actions()
	if q == nil {
		return false
	}
	cur := q.Current()
	if target, _, ok := cur.AttackTarget(); ok && target == enemy.ID() {
		return false
	}
	if !cur.Interruptible() || d.arbiter.Busy(creature.ID()) {
		return false
	}
	q.Clear()
	q.Add(action.Attack(enemy.ID(), creature.AttackRange()))
	d.logger.Debug("attack action added",
		zap.String("attacker", creature.Tag()),
		zap.String("target", enemy.Tag()),
	)
	return true
}
