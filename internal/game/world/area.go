package world

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cory-johannsen/combatsim/internal/game/action"
	"github.com/cory-johannsen/combatsim/internal/game/combat"
)

// approachFactor is the fraction of an attack's reach a creature closes to,
// so it ends up strictly inside range.
const approachFactor = 0.9

// Area holds every creature in play and the obstructions between them.
// Creatures are enumerated in insertion order.
type Area struct {
	creatures map[string]*Creature
	order     []*Creature
	obstacles []Box
}

// NewArea creates an Area from the given creatures and obstacles.
//
// Postcondition: Returns an error on duplicate creature IDs.
func NewArea(creatures []*Creature, obstacles []Box) (*Area, error) {
	a := &Area{
		creatures: make(map[string]*Creature, len(creatures)),
		obstacles: append([]Box(nil), obstacles...),
	}
	for _, c := range creatures {
		if err := a.Add(c); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Add places c in the area.
//
// Precondition: c must be non-nil.
func (a *Area) Add(c *Creature) error {
	if _, exists := a.creatures[c.ID()]; exists {
		return fmt.Errorf("duplicate creature ID: %q", c.ID())
	}
	a.creatures[c.ID()] = c
	a.order = append(a.order, c)
	return nil
}

// AddObstacle adds an obstruction.
func (a *Area) AddObstacle(b Box) { a.obstacles = append(a.obstacles, b) }

// Obstacles returns the obstructions.
func (a *Area) Obstacles() []Box { return a.obstacles }

// Get returns the creature with the given ID.
//
// Postcondition: Returns (creature, true) if found, or (nil, false) otherwise.
func (a *Area) Get(id string) (*Creature, bool) {
	c, ok := a.creatures[id]
	return c, ok
}

// All returns every creature in insertion order.
func (a *Area) All() []*Creature { return a.order }

// Creatures enumerates the area's creatures for the combat core.
func (a *Area) Creatures() []combat.Creature {
	out := make([]combat.Creature, len(a.order))
	for i, c := range a.order {
		out[i] = c
	}
	return out
}

// Lookup returns the creature with id, or nil.
func (a *Area) Lookup(id string) combat.Creature {
	if c, ok := a.creatures[id]; ok {
		return c
	}
	return nil
}

// Raycast reports whether any obstacle blocks the segment from→to.
func (a *Area) Raycast(from, to mgl64.Vec3) bool {
	for _, b := range a.obstacles {
		if b.IntersectsSegment(from, to) {
			return true
		}
	}
	return false
}

// Update advances every living creature's action queue to now and moves it
// by dt toward its current goal. Frozen creatures keep their position.
func (a *Area) Update(now, dt time.Duration) {
	for _, c := range a.order {
		if c.IsDead() {
			continue
		}
		c.actions.Update(now)
		cur := c.actions.Current()
		if cur == nil || c.restricted {
			continue
		}
		switch cur.Kind {
		case action.KindAttack:
			target, ok := a.creatures[cur.Target]
			if !ok || target.IsDead() {
				cur.Complete()
				continue
			}
			c.faceToward(target.pos)
			c.moveToward(target.pos, cur.Range*approachFactor, dt)
		case action.KindMoveToPoint:
			c.faceToward(cur.Point)
			if c.moveToward(cur.Point, 0, dt) {
				cur.Complete()
			}
		}
	}
}

// moveToward walks toward dest, stopping stop units short of it.
// Reports whether the creature arrived.
func (c *Creature) moveToward(dest mgl64.Vec3, stop float64, dt time.Duration) bool {
	delta := dest.Sub(c.pos)
	dist := delta.Len()
	if dist <= stop {
		return true
	}
	step := c.speed * dt.Seconds()
	dir := delta.Mul(1 / dist)
	if step >= dist-stop {
		c.pos = dest.Sub(dir.Mul(stop))
		return true
	}
	c.pos = c.pos.Add(dir.Mul(step))
	return false
}

var (
	_ combat.Creature = (*Creature)(nil)
	_ combat.Area     = (*Area)(nil)
	_ combat.Party    = (*Party)(nil)
)
