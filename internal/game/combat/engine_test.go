package combat_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/game/dice"
)

func TestNew_RejectsMissingDeps(t *testing.T) {
	_, err := combat.New(combat.Deps{}, combat.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, combat.ErrInvalidDeps))
	for _, want := range []string{
		"area is nil",
		"party is nil",
		"classifier is nil",
		"damage resolver is nil",
		"presentation is nil",
		"dice source is nil",
		"round duration must be > 0",
		"detection range must be > 0",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestNew_RejectsBadOptions(t *testing.T) {
	area := newArea(t, creature("a", red, 0))
	deps := combat.Deps{
		Area:         area,
		Party:        partyOf(nil),
		Classifier:   combat.FactionClassifier{Table: newTable(t)},
		Resolver:     &fixedResolver{},
		Presentation: &fakePresentation{},
		Dice:         dice.NewSeededSource(1),
	}
	_, err := combat.New(deps, combat.DefaultOptions())
	require.NoError(t, err)

	opts := combat.DefaultOptions()
	opts.AIPolicy = "chaos"
	opts.EffectDelay = -time.Second
	_, err = combat.New(deps, opts)
	require.ErrorIs(t, err, combat.ErrInvalidDeps)
	assert.Contains(t, err.Error(), `unknown AI policy "chaos"`)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestDefaultOptions(t *testing.T) {
	opts := combat.DefaultOptions()
	assert.Equal(t, 3*time.Second, opts.RoundDuration)
	assert.Equal(t, combat.PolicyPerCombatant, opts.AIPolicy)
	assert.Zero(t, opts.EffectDelay)
}

func TestCombat_Update_AccumulatesTime(t *testing.T) {
	f := newFixture(t, dice.NewSeededSource(1), combat.DefaultOptions(), nil, creature("a", red, 0))
	f.combat.Update(time.Second)
	f.combat.Update(-time.Second)
	f.combat.Update(500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, f.combat.Now())
}

func TestCombat_FightRunsToDeath(t *testing.T) {
	a, b := creature("a", red, 0), creature("b", blue, 1.5)
	f := newFixture(t, &dice.FixedSource{Values: []int{19}}, combat.DefaultOptions(), nil, a, b)
	f.resolver.amount = 4

	for range 40 {
		f.combat.Update(500 * time.Millisecond)
	}
	assert.True(t, a.IsDead() != b.IsDead(), "exactly one survivor")
	assert.Equal(t, 0, f.combat.Registry().Len())
	assert.Equal(t, 0, f.combat.Arbiter().Len())
	assert.False(t, a.MovementRestricted())
	assert.False(t, b.MovementRestricted())
}
