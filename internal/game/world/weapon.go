package world

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/combatsim/internal/game/dice"
)

const (
	// UnarmedDamage is rolled when a creature has no weapon.
	UnarmedDamage = "1d4"
	// MinAttackRange is the reach of unarmed and short melee attacks.
	MinAttackRange = 2.0
)

// Weapon defines the static combat properties of a wielded weapon.
type Weapon struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	DamageDice string  `yaml:"damage"`
	Range      float64 `yaml:"range"` // 0 = melee
}

// Validate checks that the Weapon satisfies its invariants.
// Postcondition: returns nil iff all fields are valid.
func (w *Weapon) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if _, err := dice.Parse(w.DamageDice); err != nil {
		errs = append(errs, fmt.Errorf("damage: %w", err))
	}
	if w.Range < 0 {
		errs = append(errs, fmt.Errorf("range must be >= 0, got %g", w.Range))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q: %w", w.ID, errors.Join(errs...))
	}
	return nil
}

// IsMelee reports whether the weapon has no reach beyond melee range.
func (w *Weapon) IsMelee() bool {
	return w.Range <= MinAttackRange
}
