package combat

import (
	"go.uber.org/zap"
)

// Combatant is a creature currently engaged in hostility.
type Combatant struct {
	Creature Creature
	// Target is the creature this combatant last tried to start a round
	// against; nil when idle.
	Target Creature

	enemies  []Creature
	enemyIDs map[string]struct{}
}

func newCombatant(c Creature) *Combatant {
	return &Combatant{Creature: c, enemyIDs: make(map[string]struct{})}
}

// ID returns the creature ID.
func (c *Combatant) ID() string { return c.Creature.ID() }

// Enemies returns the perceived enemies in the order they were perceived.
func (c *Combatant) Enemies() []Creature {
	out := make([]Creature, len(c.enemies))
	copy(out, c.enemies)
	return out
}

// HasEnemy reports whether id is among the perceived enemies.
func (c *Combatant) HasEnemy(id string) bool {
	_, ok := c.enemyIDs[id]
	return ok
}

// IsTargeting reports whether the combatant's current target is id.
func (c *Combatant) IsTargeting(id string) bool {
	return c.Target != nil && c.Target.ID() == id
}

func (c *Combatant) addEnemy(e Creature) {
	if _, ok := c.enemyIDs[e.ID()]; ok {
		return
	}
	c.enemyIDs[e.ID()] = struct{}{}
	c.enemies = append(c.enemies, e)
}

func (c *Combatant) clearEnemies() {
	clear(c.enemies)
	c.enemies = c.enemies[:0]
	clear(c.enemyIDs)
}

// pruneDeadEnemies drops dead creatures from the enemy set.
func (c *Combatant) pruneDeadEnemies() {
	kept := c.enemies[:0]
	for _, e := range c.enemies {
		if e.IsDead() {
			delete(c.enemyIDs, e.ID())
			continue
		}
		kept = append(kept, e)
	}
	clear(c.enemies[len(kept):])
	c.enemies = kept
}

// Registry tracks which creatures are in combat and whom they perceive as
// enemies.
//
// Invariant: after RemoveStale every entry has a live creature and at least
// one live enemy.
type Registry struct {
	area           Area
	classifier     Classifier
	detectionRange float64
	logger         *zap.Logger

	entries map[string]*Combatant
	order   []string
}

// NewRegistry creates an empty Registry scanning area with classifier.
//
// Precondition: area and classifier must not be nil; detectionRange > 0.
func NewRegistry(area Area, classifier Classifier, detectionRange float64, logger *zap.Logger) *Registry {
	if area == nil {
		panic("combat.NewRegistry: area must not be nil")
	}
	if classifier == nil {
		panic("combat.NewRegistry: classifier must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		area:           area,
		classifier:     classifier,
		detectionRange: detectionRange,
		logger:         logger,
		entries:        make(map[string]*Combatant),
	}
}

// Perceive returns every living creature within detection range that observer
// regards as hostile and can see.
func (r *Registry) Perceive(observer Creature) []Creature {
	if observer == nil {
		return nil
	}
	var out []Creature
	for _, c := range r.area.Creatures() {
		if c == nil || c.ID() == observer.ID() || c.IsDead() {
			continue
		}
		if distance(observer, c) > r.detectionRange {
			continue
		}
		if !IsEnemy(r.classifier, observer, c) {
			continue
		}
		if r.area.Raycast(observer.Eye(), c.Eye()) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ScanHostility registers observer and every hostile it perceives. Each
// hostile in turn perceives the observer as an enemy.
//
// Postcondition: returns true iff at least one hostile was found.
func (r *Registry) ScanHostility(observer Creature) bool {
	if observer == nil || observer.IsDead() {
		return false
	}
	hostiles := r.Perceive(observer)
	if len(hostiles) == 0 {
		return false
	}
	r.Register(observer)
	self := r.entries[observer.ID()]
	for _, h := range hostiles {
		self.addEnemy(h)
		r.Register(h)
		r.entries[h.ID()].addEnemy(observer)
	}
	return true
}

// Register adds c to the registry and marks it in combat.
//
// Postcondition: returns false if c was nil, dead or already registered.
func (r *Registry) Register(c Creature) bool {
	if c == nil || c.IsDead() {
		return false
	}
	if _, ok := r.entries[c.ID()]; ok {
		return false
	}
	r.entries[c.ID()] = newCombatant(c)
	r.order = append(r.order, c.ID())
	c.SetInCombat(true)
	r.logger.Debug("combatant added", zap.String("creature", c.Tag()))
	return true
}

// Refresh rebuilds every perceived enemy set from a full hostility scan of
// the area's living creatures.
func (r *Registry) Refresh() {
	for _, id := range r.order {
		r.entries[id].clearEnemies()
	}
	for _, c := range r.area.Creatures() {
		if c == nil || c.IsDead() {
			continue
		}
		r.ScanHostility(c)
	}
}

// RemoveStale drops dead enemies from every set, then removes combatants that
// died or have no enemies left and clears their in-combat flag.
//
// Postcondition: returns the IDs removed, in registry order.
func (r *Registry) RemoveStale() []string {
	var removed []string
	kept := r.order[:0]
	for _, id := range r.order {
		cbt := r.entries[id]
		cbt.pruneDeadEnemies()
		if len(cbt.enemies) > 0 && !cbt.Creature.IsDead() {
			kept = append(kept, id)
			continue
		}
		cbt.Creature.SetInCombat(false)
		delete(r.entries, id)
		removed = append(removed, id)
		r.logger.Debug("combatant removed", zap.String("creature", cbt.Creature.Tag()))
	}
	clear(r.order[len(kept):])
	r.order = kept
	return removed
}

// Get returns the combatant for id.
func (r *Registry) Get(id string) (*Combatant, bool) {
	c, ok := r.entries[id]
	return c, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// Len returns the number of registered combatants.
func (r *Registry) Len() int { return len(r.entries) }

// Combatants returns a snapshot of the registry in registration order.
// Callers may mutate the registry while ranging over the snapshot.
func (r *Registry) Combatants() []*Combatant {
	out := make([]*Combatant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}
