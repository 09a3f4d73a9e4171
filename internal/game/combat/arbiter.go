package combat

import (
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/combatsim/internal/game/dice"
	"github.com/cory-johannsen/combatsim/internal/game/timer"
)

// HookOnAttack is notified after every attack resolution:
//
//	on_attack(attacker_id, target_id, roll, hit)
const HookOnAttack = "on_attack"

// AttackResult describes one resolved attack.
type AttackResult struct {
	Attacker Creature
	Target   Creature
	Roll     int
	Defense  int
	Hit      bool
	Effects  []Effect
}

// Hits reports whether an attack roll beats defense. A natural 1 always
// misses and a natural 20 always hits.
func Hits(roll, defense int) bool {
	switch roll {
	case 1:
		return false
	case 20:
		return true
	}
	return roll >= defense
}

type effectKey struct {
	target string
	seq    uint64
}

type pendingEffect struct {
	target Creature
	effect Effect
}

// Arbiter owns the active rounds, indexed by attacker ID.
//
// Invariant: at most one round per attacker.
type Arbiter struct {
	registry *Registry
	party    Party
	roller   *dice.Roller
	resolver DamageResolver
	hooks    HookCaller
	onAttack func(AttackResult)
	logger   *zap.Logger

	roundDuration time.Duration
	effectDelay   time.Duration
	animationHold time.Duration

	rounds map[string]*Round
	order  []string

	holds    *timer.CountingSet[string]
	deferred *timer.Set[effectKey]
	pending  map[effectKey]pendingEffect
	seq      uint64
}

func newArbiter(registry *Registry, deps Deps, opts Options, logger *zap.Logger) *Arbiter {
	roller, ok := deps.Dice.(*dice.Roller)
	if !ok {
		roller = dice.NewLoggedRoller(deps.Dice, logger.Named("dice"))
	}
	return &Arbiter{
		registry:      registry,
		party:         deps.Party,
		roller:        roller,
		resolver:      deps.Resolver,
		hooks:         deps.Hooks,
		onAttack:      deps.OnAttack,
		logger:        logger,
		roundDuration: opts.RoundDuration,
		effectDelay:   opts.EffectDelay,
		animationHold: opts.AnimationHold,
		rounds:        make(map[string]*Round),
		holds:         timer.NewCountingSet[string](),
		deferred:      timer.NewSet[effectKey](),
		pending:       make(map[effectKey]pendingEffect),
	}
}

// Round returns the active round whose attacker is id.
func (a *Arbiter) Round(id string) (*Round, bool) {
	r, ok := a.rounds[id]
	return r, ok
}

// Rounds returns the active rounds in creation order.
func (a *Arbiter) Rounds() []*Round {
	out := make([]*Round, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.rounds[id])
	}
	return out
}

// Len returns the number of active rounds.
func (a *Arbiter) Len() int { return len(a.rounds) }

// Busy reports whether id is still playing a combat animation.
func (a *Arbiter) Busy(id string) bool { return a.holds.IsPending(id) }

// PendingEffects returns the number of deferred effects not yet applied.
func (a *Arbiter) PendingEffects() int { return len(a.pending) }

// Update starts rounds for combatants ready to attack and advances every
// active round by dt.
func (a *Arbiter) Update(now, dt time.Duration) {
	a.holds.Update(now)
	a.holds.Drain()

	a.deferred.Update(now)
	for _, key := range a.deferred.Drain() {
		p := a.pending[key]
		delete(a.pending, key)
		if p.target == nil || p.target.IsDead() {
			continue
		}
		p.target.ApplyEffect(p.effect)
	}

	a.startRounds()

	finished := false
	for _, id := range a.order {
		r := a.rounds[id]
		a.updateRound(r, dt)
		if r.Finished() {
			r.Attacker.Target = nil
			finished = true
		}
	}
	if finished {
		a.removeFinished()
	}
}

func (a *Arbiter) startRounds() {
	var leader string
	if l := a.party.Leader(); l != nil {
		leader = l.ID()
	}
	for _, attacker := range a.registry.Combatants() {
		c := attacker.Creature
		if c.IsDead() {
			continue
		}
		var (
			targetID string
			rng      float64
			ok       bool
		)
		if q := c.Actions(); q != nil {
			targetID, rng, ok = q.Current().AttackTarget()
		}
		// A combatant that stopped attacking its target no longer duels it.
		if attacker.Target != nil && (!ok || targetID != attacker.Target.ID()) {
			attacker.Target = nil
		}
		if c.ID() == leader && a.party.MovementRequested() {
			continue
		}
		if _, busy := a.rounds[c.ID()]; busy || !ok {
			continue
		}
		target, ok := a.registry.Get(targetID)
		if !ok || target.Creature.IsDead() {
			continue
		}
		if distance(c, target.Creature) > rng {
			continue
		}
		attacker.Target = target.Creature

		if tr, ok := a.rounds[targetID]; ok && tr.Target.ID() == c.ID() {
			// The target's round against us becomes a duel.
			continue
		}
		a.addRound(attacker, target)
	}
}

func (a *Arbiter) addRound(attacker, target *Combatant) {
	if _, ok := a.rounds[attacker.ID()]; ok {
		panic("combat: second round for attacker " + attacker.ID())
	}
	a.rounds[attacker.ID()] = newRound(attacker, target, a.roundDuration)
	a.order = append(a.order, attacker.ID())
	a.logger.Debug("round added",
		zap.String("attacker", attacker.Creature.Tag()),
		zap.String("target", target.Creature.Tag()),
	)
}

func (a *Arbiter) removeFinished() {
	kept := a.order[:0]
	for _, id := range a.order {
		if a.rounds[id].Finished() {
			delete(a.rounds, id)
			continue
		}
		kept = append(kept, id)
	}
	clear(a.order[len(kept):])
	a.order = kept
}

// updateRound advances r and runs every phase transition the elapsed time
// allows.
func (a *Arbiter) updateRound(r *Round, dt time.Duration) {
	r.advance(dt)
	for !r.Finished() {
		attacker, target := r.Attacker.Creature, r.Target.Creature
		if attacker.IsDead() || target.IsDead() {
			a.finish(r)
			return
		}
		switch r.Phase() {
		case PhaseStarted:
			attacker.Face(target)
			attacker.SetMovementRestricted(true)
			if r.IsDuel() {
				a.play(attacker, AnimationDuelAttack)
				target.Face(attacker)
				target.SetMovementRestricted(true)
				a.play(target, AnimationDodge)
			} else {
				a.play(attacker, AnimationBashAttack)
			}
			r.fire(eventEngage)
			a.logger.Debug("first turn started",
				zap.String("attacker", attacker.Tag()),
				zap.String("target", target.Tag()),
			)

		case PhaseFirstTurn:
			if !r.halfway() {
				return
			}
			a.resolveAttack(attacker, target)
			if target.IsDead() {
				a.finish(r)
				return
			}
			if r.IsDuel() {
				target.Face(attacker)
				a.play(target, AnimationDuelAttack)
				attacker.Face(target)
				a.play(attacker, AnimationDodge)
			}
			r.fire(eventSwap)
			a.logger.Debug("second turn started",
				zap.String("attacker", attacker.Tag()),
				zap.String("target", target.Tag()),
			)

		case PhaseSecondTurn:
			if !r.complete() {
				return
			}
			if r.IsDuel() {
				a.resolveAttack(target, attacker)
			}
			a.finish(r)
		}
	}
}

func (a *Arbiter) finish(r *Round) {
	r.Attacker.Creature.SetMovementRestricted(false)
	r.Target.Creature.SetMovementRestricted(false)
	r.fire(eventFinish)
	a.logger.Debug("round finished",
		zap.String("attacker", r.Attacker.Creature.Tag()),
		zap.String("target", r.Target.Creature.Tag()),
	)
}

func (a *Arbiter) play(c Creature, anim Animation) {
	c.PlayAnimation(anim)
	if a.animationHold > 0 {
		a.holds.Arm(c.ID(), a.animationHold)
	}
}

// resolveAttack rolls attacker's attack against target and applies the
// resulting effects on a hit.
func (a *Arbiter) resolveAttack(attacker, target Creature) AttackResult {
	res := AttackResult{
		Attacker: attacker,
		Target:   target,
		Roll:     a.roller.D20(),
		Defense:  target.Defense(),
	}
	res.Hit = Hits(res.Roll, res.Defense)
	if res.Hit {
		res.Effects = a.resolver.DamageEffects(attacker)
		for _, e := range res.Effects {
			a.applyEffect(target, e)
		}
	}
	a.logger.Debug("attack resolved",
		zap.String("attacker", attacker.Tag()),
		zap.String("target", target.Tag()),
		zap.Int("roll", res.Roll),
		zap.Int("defense", res.Defense),
		zap.Bool("hit", res.Hit),
	)
	if a.hooks != nil {
		if _, err := a.hooks.CallHook(HookOnAttack,
			lua.LString(attacker.ID()), lua.LString(target.ID()),
			lua.LNumber(res.Roll), lua.LBool(res.Hit),
		); err != nil {
			a.logger.Warn("on_attack hook failed", zap.Error(err))
		}
	}
	if a.onAttack != nil {
		a.onAttack(res)
	}
	return res
}

func (a *Arbiter) applyEffect(target Creature, e Effect) {
	if a.effectDelay <= 0 {
		target.ApplyEffect(e)
		return
	}
	a.seq++
	key := effectKey{target: target.ID(), seq: a.seq}
	a.pending[key] = pendingEffect{target: target, effect: e}
	a.deferred.SetTimeout(key, a.effectDelay)
}
