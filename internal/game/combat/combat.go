// Package combat implements the real-time combat core: hostility tracking,
// turn-paced attack rounds, reactive AI and the party's combat mode.
//
// The core is single-threaded and cooperative. Combat.Update advances every
// component exactly once per game-loop tick; nothing blocks and animation or
// effect requests are fire-and-forget calls into collaborators.
package combat

import (
	"github.com/go-gl/mathgl/mgl64"
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/combatsim/internal/game/action"
	"github.com/cory-johannsen/combatsim/internal/game/faction"
)

// Animation is a combat animation request.
type Animation int

const (
	AnimationNone Animation = iota
	AnimationDuelAttack
	AnimationDodge
	AnimationBashAttack
)

// String returns the animation name.
func (a Animation) String() string {
	switch a {
	case AnimationDuelAttack:
		return "duel_attack"
	case AnimationDodge:
		return "dodge"
	case AnimationBashAttack:
		return "bash_attack"
	default:
		return "none"
	}
}

// CameraStyle selects how the area camera frames the party.
type CameraStyle int

const (
	CameraDefault CameraStyle = iota
	CameraCombat
)

// String returns the camera style name.
func (s CameraStyle) String() string {
	if s == CameraCombat {
		return "combat"
	}
	return "default"
}

// EffectKind distinguishes effects produced by damage resolution.
type EffectKind int

const (
	EffectUnknown EffectKind = iota
	EffectDamage
)

// Effect is applied to a creature that was hit.
type Effect struct {
	Kind   EffectKind
	Amount int
	// Source is the ID of the creature that caused the effect.
	Source string
}

// Creature is the capability surface the combat core needs from a game
// creature.
type Creature interface {
	ID() string
	Tag() string
	Faction() faction.ID
	Position() mgl64.Vec3
	// Eye is the point line-of-sight rays are cast from and to.
	Eye() mgl64.Vec3
	IsDead() bool
	// Defense is the number an attack roll must meet to hit.
	Defense() int
	// AttackRange is the reach of the creature's current weapon.
	AttackRange() float64
	InCombat() bool
	SetInCombat(bool)
	Face(other Creature)
	SetMovementRestricted(bool)
	PlayAnimation(Animation)
	ApplyEffect(Effect)
	Actions() *action.Queue
}

// Area is the spatial query collaborator.
type Area interface {
	// Creatures enumerates every creature in the area in a stable order.
	Creatures() []Creature
	// Lookup returns the creature with id, or nil.
	Lookup(id string) Creature
	// Raycast reports whether the segment from→to is obstructed.
	Raycast(from, to mgl64.Vec3) bool
}

// Party exposes the player's party.
type Party interface {
	// Leader returns the player-controlled creature, or nil.
	Leader() Creature
	// MovementRequested reports whether the player is steering the leader.
	MovementRequested() bool
}

// DamageResolver produces the effects of a successful hit by attacker.
type DamageResolver interface {
	DamageEffects(attacker Creature) []Effect
}

// Presentation switches the combat presentation on and off.
type Presentation interface {
	SetCameraStyle(CameraStyle)
}

// HookCaller invokes script hooks. A nil or non-boolean return means the
// script has no opinion.
type HookCaller interface {
	CallHook(hook string, args ...lua.LValue) (lua.LValue, error)
}

// distance returns the straight-line distance between a and b.
func distance(a, b Creature) float64 {
	return a.Position().Sub(b.Position()).Len()
}
