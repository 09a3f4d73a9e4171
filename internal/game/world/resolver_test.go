package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/game/dice"
)

func TestDamageResolver_RollsWeaponDice(t *testing.T) {
	logger := zaptest.NewLogger(t)
	roller := dice.NewLoggedRoller(&dice.FixedSource{Values: []int{5}}, logger)
	r := NewDamageResolver(roller, logger)
	c := NewCreature(Spec{ID: "c", MaxHP: 1, Weapon: &Weapon{ID: "sword", DamageDice: "1d8+2"}})

	effects := r.DamageEffects(c)
	require.Len(t, effects, 1)
	assert.Equal(t, combat.EffectDamage, effects[0].Kind)
	assert.Equal(t, 8, effects[0].Amount)
	assert.Equal(t, "c", effects[0].Source)
}

func TestDamageResolver_InvalidDiceFallsBackToUnarmed(t *testing.T) {
	logger := zaptest.NewLogger(t)
	roller := dice.NewLoggedRoller(&dice.FixedSource{Values: []int{0}}, logger)
	r := NewDamageResolver(roller, logger)
	c := NewCreature(Spec{ID: "c", MaxHP: 1, Weapon: &Weapon{ID: "junk", DamageDice: "??"}})

	effects := r.DamageEffects(c)
	require.Len(t, effects, 1)
	assert.Equal(t, 1, effects[0].Amount)
}

func TestDamageResolver_MinimumOneDamage(t *testing.T) {
	logger := zaptest.NewLogger(t)
	roller := dice.NewLoggedRoller(&dice.FixedSource{Values: []int{0}}, logger)
	r := NewDamageResolver(roller, logger)
	c := NewCreature(Spec{ID: "c", MaxHP: 1, Weapon: &Weapon{ID: "club", DamageDice: "1d4-3"}})
	assert.Equal(t, 1, r.DamageEffects(c)[0].Amount)
}

func TestNewDamageResolver_NilRollerPanics(t *testing.T) {
	assert.Panics(t, func() { NewDamageResolver(nil, nil) })
}
