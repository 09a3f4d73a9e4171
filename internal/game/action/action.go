// Package action models the per-creature queue of intended actions.
//
// Actions are tagged by Kind and expose capability queries so callers never
// need to inspect concrete types to find out what a creature is doing.
package action

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies what an Action asks a creature to do.
// The zero value (KindUnknown) is intentionally invalid.
type Kind int

const (
	KindUnknown     Kind = iota // zero value; intentionally invalid
	KindAttack                  // close to Range of Target and fight it
	KindMoveToPoint             // walk to Point
	KindWait                    // idle for Duration
)

// String returns the human-readable name of the Kind.
func (k Kind) String() string {
	switch k {
	case KindAttack:
		return "attack"
	case KindMoveToPoint:
		return "move_to_point"
	case KindWait:
		return "wait"
	default:
		return "unknown"
	}
}

// Action is one queued intention.
type Action struct {
	Kind     Kind
	Target   string     // creature ID for KindAttack
	Range    float64    // attack reach for KindAttack
	Point    mgl64.Vec3 // destination for KindMoveToPoint
	Duration time.Duration
	// UserIssued marks actions ordered by the player or a script; the AI never
	// replaces them.
	UserIssued bool

	elapsed   time.Duration
	completed bool
}

// Attack returns an AI-interruptible attack on target with the given reach.
func Attack(target string, rng float64) *Action {
	return &Action{Kind: KindAttack, Target: target, Range: rng}
}

// MoveTo returns a move to p.
func MoveTo(p mgl64.Vec3, userIssued bool) *Action {
	return &Action{Kind: KindMoveToPoint, Point: p, UserIssued: userIssued}
}

// Wait returns an action that completes after d of simulated time.
func Wait(d time.Duration) *Action {
	return &Action{Kind: KindWait, Duration: d}
}

// AttackTarget reports the target and reach when a is an attack.
func (a *Action) AttackTarget() (target string, rng float64, ok bool) {
	if a == nil || a.Kind != KindAttack {
		return "", 0, false
	}
	return a.Target, a.Range, true
}

// Interruptible reports whether the AI may replace a.
func (a *Action) Interruptible() bool {
	return a == nil || !a.UserIssued
}

// Complete marks a as finished; the queue drops it on its next Update.
func (a *Action) Complete() { a.completed = true }

// IsCompleted reports whether Complete was called.
func (a *Action) IsCompleted() bool { return a.completed }

// advance accumulates time for KindWait actions.
func (a *Action) advance(dt time.Duration) {
	if a.Kind != KindWait {
		return
	}
	a.elapsed += dt
	if a.elapsed >= a.Duration {
		a.completed = true
	}
}
