// Package world provides the in-memory creatures, area and party the combat
// core runs against.
package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cory-johannsen/combatsim/internal/game/action"
	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/game/faction"
)

const (
	// DefaultEyeHeight is the line-of-sight origin above a creature's feet.
	DefaultEyeHeight = 1.8
	// DefaultSpeed is the walking speed in units per second.
	DefaultSpeed = 5.0
)

// Listener is notified of visible changes to a creature.
type Listener interface {
	AnimationPlayed(c *Creature, anim combat.Animation)
	EffectApplied(c *Creature, e combat.Effect)
	Died(c *Creature)
}

// Spec holds the initial state of a creature.
type Spec struct {
	ID        string
	Tag       string
	Faction   faction.ID
	Position  mgl64.Vec3
	MaxHP     int
	Armor     int
	Dex       int
	Weapon    *Weapon
	Speed     float64
	EyeHeight float64
}

// Creature is a live combat-capable entity in an area.
type Creature struct {
	id        string
	tag       string
	faction   faction.ID
	pos       mgl64.Vec3
	eyeHeight float64
	speed     float64
	heading   float64

	maxHP  int
	hp     int
	armor  int
	dex    int
	weapon *Weapon

	inCombat   bool
	restricted bool
	animation  combat.Animation

	actions  *action.Queue
	listener Listener
}

// NewCreature creates a creature at full health.
//
// Precondition: s.ID must be non-empty and s.MaxHP must be > 0.
// Postcondition: HP() == s.MaxHP; Tag defaults to ID.
func NewCreature(s Spec) *Creature {
	if s.ID == "" {
		panic("world.NewCreature: ID must not be empty")
	}
	if s.MaxHP <= 0 {
		panic("world.NewCreature: MaxHP must be > 0")
	}
	c := &Creature{
		id:        s.ID,
		tag:       s.Tag,
		faction:   s.Faction,
		pos:       s.Position,
		eyeHeight: s.EyeHeight,
		speed:     s.Speed,
		maxHP:     s.MaxHP,
		hp:        s.MaxHP,
		armor:     s.Armor,
		dex:       s.Dex,
		weapon:    s.Weapon,
		actions:   action.NewQueue(),
	}
	if c.tag == "" {
		c.tag = c.id
	}
	if c.eyeHeight <= 0 {
		c.eyeHeight = DefaultEyeHeight
	}
	if c.speed <= 0 {
		c.speed = DefaultSpeed
	}
	return c
}

// AbilityMod returns the ability modifier for score: floor((score - 10) / 2).
func AbilityMod(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

func (c *Creature) ID() string { return c.id }
func (c *Creature) Tag() string { return c.tag }
func (c *Creature) Faction() faction.ID { return c.faction }
func (c *Creature) Position() mgl64.Vec3 { return c.pos }
func (c *Creature) Actions() *action.Queue { return c.actions }
func (c *Creature) InCombat() bool { return c.inCombat }
func (c *Creature) SetInCombat(v bool) { c.inCombat = v }

// Eye returns the line-of-sight origin.
func (c *Creature) Eye() mgl64.Vec3 {
	return c.pos.Add(mgl64.Vec3{0, 0, c.eyeHeight})
}

// SetPosition teleports the creature.
func (c *Creature) SetPosition(p mgl64.Vec3) { c.pos = p }

// Speed returns the walking speed in units per second.
func (c *Creature) Speed() float64 { return c.speed }

// HP returns the current hit points.
func (c *Creature) HP() int { return c.hp }

// MaxHP returns the maximum hit points.
func (c *Creature) MaxHP() int { return c.maxHP }

// IsDead reports whether the creature has no hit points left.
func (c *Creature) IsDead() bool { return c.hp <= 0 }

// Defense returns 10 + armor + dexterity modifier.
func (c *Creature) Defense() int {
	return 10 + c.armor + AbilityMod(c.dex)
}

// Weapon returns the wielded weapon, or nil when unarmed.
func (c *Creature) Weapon() *Weapon { return c.weapon }

// AttackRange returns the weapon's reach, never less than MinAttackRange.
func (c *Creature) AttackRange() float64 {
	if c.weapon == nil {
		return MinAttackRange
	}
	return math.Max(MinAttackRange, c.weapon.Range)
}

// DamageDice returns the dice expression rolled on a hit.
func (c *Creature) DamageDice() string {
	if c.weapon == nil || c.weapon.DamageDice == "" {
		return UnarmedDamage
	}
	return c.weapon.DamageDice
}

// Heading returns the facing angle in radians around the Z axis.
func (c *Creature) Heading() float64 { return c.heading }

// Face turns the creature toward other.
func (c *Creature) Face(other combat.Creature) {
	if other == nil {
		return
	}
	c.faceToward(other.Position())
}

func (c *Creature) faceToward(p mgl64.Vec3) {
	d := p.Sub(c.pos)
	if d.X() == 0 && d.Y() == 0 {
		return
	}
	c.heading = math.Atan2(d.Y(), d.X())
}

// MovementRestricted reports whether combat froze the creature in place.
func (c *Creature) MovementRestricted() bool { return c.restricted }

// SetMovementRestricted freezes or releases the creature.
func (c *Creature) SetMovementRestricted(v bool) { c.restricted = v }

// Animation returns the last combat animation requested.
func (c *Creature) Animation() combat.Animation { return c.animation }

// PlayAnimation records anim and notifies the listener.
func (c *Creature) PlayAnimation(anim combat.Animation) {
	c.animation = anim
	if c.listener != nil {
		c.listener.AnimationPlayed(c, anim)
	}
}

// ApplyEffect applies e. Effects on a dead creature are ignored.
//
// Postcondition: HP() >= 0; reaching zero clears the action queue.
func (c *Creature) ApplyEffect(e combat.Effect) {
	if c.IsDead() {
		return
	}
	if e.Kind == combat.EffectDamage {
		c.hp = max(0, c.hp-e.Amount)
	}
	if c.listener != nil {
		c.listener.EffectApplied(c, e)
	}
	if c.IsDead() {
		c.actions.Clear()
		if c.listener != nil {
			c.listener.Died(c)
		}
	}
}

// SetListener replaces the change listener; nil disables notifications.
func (c *Creature) SetListener(l Listener) { c.listener = l }
