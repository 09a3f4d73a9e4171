// Package scenario loads encounter definitions from YAML and builds the
// world the combat core runs against.
package scenario

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/cory-johannsen/combatsim/internal/game/faction"
	"github.com/cory-johannsen/combatsim/internal/game/world"
)

// CreatureDef places one creature.
type CreatureDef struct {
	ID       string    `yaml:"id"` // empty = generated UUID
	Tag      string    `yaml:"tag"`
	Faction  string    `yaml:"faction"`
	Position []float64 `yaml:"position"`
	HP       int       `yaml:"hp"`
	Armor    int       `yaml:"armor"`
	Dex      int       `yaml:"dex"`
	Weapon   string    `yaml:"weapon"` // weapon ID; empty = unarmed
	Speed    float64   `yaml:"speed"`
}

// PartyDef names the player's party.
type PartyDef struct {
	Leader  string   `yaml:"leader"`
	Members []string `yaml:"members"`
}

// ObstacleDef is an axis-aligned obstruction given by two opposite corners.
type ObstacleDef struct {
	Min []float64 `yaml:"min"`
	Max []float64 `yaml:"max"`
}

// Scenario is a complete encounter definition.
type Scenario struct {
	Name       string          `yaml:"name"`
	Factions   []string        `yaml:"factions"`
	Reputation []faction.Entry `yaml:"reputation"`
	Weapons    []world.Weapon  `yaml:"weapons"`
	Creatures  []CreatureDef   `yaml:"creatures"`
	Party      PartyDef        `yaml:"party"`
	Obstacles  []ObstacleDef   `yaml:"obstacles"`
}

// World is a scenario built into live objects.
type World struct {
	Name     string
	Area     *world.Area
	Party    *world.Party
	Factions *faction.Table
}

// assignIDs gives every creature without an explicit ID a random UUID.
func (s *Scenario) assignIDs() {
	for i := range s.Creatures {
		if s.Creatures[i].ID == "" {
			s.Creatures[i].ID = uuid.NewString()
		}
	}
}

// Validate checks every cross-reference and value range, reporting all
// violations at once.
//
// Precondition: IDs have been assigned.
func (s *Scenario) Validate() error {
	var errs []error
	factions := make(map[string]struct{}, len(s.Factions))
	for _, f := range s.Factions {
		if f == "" {
			errs = append(errs, errors.New("faction names must not be empty"))
		}
		factions[f] = struct{}{}
	}
	for _, r := range s.Reputation {
		if _, ok := factions[string(r.Source)]; !ok {
			errs = append(errs, fmt.Errorf("reputation: unknown source faction %q", r.Source))
		}
		if _, ok := factions[string(r.Target)]; !ok {
			errs = append(errs, fmt.Errorf("reputation: unknown target faction %q", r.Target))
		}
		if r.Value < 0 || r.Value > 100 {
			errs = append(errs, fmt.Errorf("reputation %s->%s: value must be in [0, 100], got %d", r.Source, r.Target, r.Value))
		}
	}
	weapons := make(map[string]struct{}, len(s.Weapons))
	for i := range s.Weapons {
		w := &s.Weapons[i]
		if err := w.Validate(); err != nil {
			errs = append(errs, err)
		}
		if _, dup := weapons[w.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate weapon ID %q", w.ID))
		}
		weapons[w.ID] = struct{}{}
	}
	creatures := make(map[string]struct{}, len(s.Creatures))
	for _, c := range s.Creatures {
		if _, dup := creatures[c.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate creature ID %q", c.ID))
		}
		creatures[c.ID] = struct{}{}
		if c.HP < 1 {
			errs = append(errs, fmt.Errorf("creature %q: hp must be >= 1", c.ID))
		}
		if _, ok := factions[c.Faction]; c.Faction != "" && !ok {
			errs = append(errs, fmt.Errorf("creature %q: unknown faction %q", c.ID, c.Faction))
		}
		if _, ok := weapons[c.Weapon]; c.Weapon != "" && !ok {
			errs = append(errs, fmt.Errorf("creature %q: unknown weapon %q", c.ID, c.Weapon))
		}
		if len(c.Position) != 0 && len(c.Position) != 3 {
			errs = append(errs, fmt.Errorf("creature %q: position must have 3 coordinates", c.ID))
		}
	}
	if s.Party.Leader != "" {
		if _, ok := creatures[s.Party.Leader]; !ok {
			errs = append(errs, fmt.Errorf("party: unknown leader %q", s.Party.Leader))
		}
	}
	for _, m := range s.Party.Members {
		if _, ok := creatures[m]; !ok {
			errs = append(errs, fmt.Errorf("party: unknown member %q", m))
		}
	}
	for i, o := range s.Obstacles {
		if len(o.Min) != 3 || len(o.Max) != 3 {
			errs = append(errs, fmt.Errorf("obstacle %d: min and max must have 3 coordinates", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("scenario %q: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

// Build creates the area, party and reputation table.
//
// Precondition: Validate returned nil.
func (s *Scenario) Build() (*World, error) {
	table := faction.NewTable()
	for _, f := range s.Factions {
		table.Add(faction.ID(f))
	}
	if err := table.Apply(s.Reputation); err != nil {
		return nil, err
	}

	weapons := make(map[string]*world.Weapon, len(s.Weapons))
	for i := range s.Weapons {
		weapons[s.Weapons[i].ID] = &s.Weapons[i]
	}

	creatures := make([]*world.Creature, 0, len(s.Creatures))
	byID := make(map[string]*world.Creature, len(s.Creatures))
	for _, d := range s.Creatures {
		if d.Dex == 0 {
			d.Dex = defaultDex
		}
		c := world.NewCreature(world.Spec{
			ID:       d.ID,
			Tag:      d.Tag,
			Faction:  faction.ID(d.Faction),
			Position: vec3(d.Position),
			MaxHP:    d.HP,
			Armor:    d.Armor,
			Dex:      d.Dex,
			Weapon:   weapons[d.Weapon],
			Speed:    d.Speed,
		})
		creatures = append(creatures, c)
		byID[c.ID()] = c
	}

	obstacles := make([]world.Box, 0, len(s.Obstacles))
	for _, o := range s.Obstacles {
		obstacles = append(obstacles, world.NewBox(vec3(o.Min), vec3(o.Max)))
	}
	area, err := world.NewArea(creatures, obstacles)
	if err != nil {
		return nil, err
	}

	members := make([]*world.Creature, 0, len(s.Party.Members))
	for _, m := range s.Party.Members {
		members = append(members, byID[m])
	}
	return &World{
		Name:     s.Name,
		Area:     area,
		Party:    world.NewParty(byID[s.Party.Leader], members...),
		Factions: table,
	}, nil
}

// defaultDex is the ability score assumed when a creature omits dex.
const defaultDex = 10

func vec3(v []float64) mgl64.Vec3 {
	var out mgl64.Vec3
	copy(out[:], v)
	return out
}
