package combat_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/game/dice"
	"github.com/cory-johannsen/combatsim/internal/game/faction"
	"github.com/cory-johannsen/combatsim/internal/game/world"
)

const (
	red  faction.ID = "red"
	blue faction.ID = "blue"
)

type helperT interface {
	require.TestingT
	Helper()
}

// newTable returns a table where red and blue hate each other.
func newTable(t helperT) *faction.Table {
	t.Helper()
	table := faction.NewTable(red, blue)
	require.NoError(t, table.Set(red, blue, 0))
	require.NoError(t, table.Set(blue, red, 0))
	return table
}

func creature(id string, f faction.ID, x float64) *world.Creature {
	return world.NewCreature(world.Spec{
		ID:       id,
		Faction:  f,
		Position: mgl64.Vec3{x, 0, 0},
		MaxHP:    10,
		Dex:      10,
	})
}

func kill(c *world.Creature) {
	c.ApplyEffect(combat.Effect{Kind: combat.EffectDamage, Amount: c.HP()})
}

type fakePresentation struct {
	styles []combat.CameraStyle
}

func (p *fakePresentation) SetCameraStyle(s combat.CameraStyle) {
	p.styles = append(p.styles, s)
}

type fixedResolver struct {
	amount int
	calls  int
}

func (r *fixedResolver) DamageEffects(attacker combat.Creature) []combat.Effect {
	r.calls++
	return []combat.Effect{{Kind: combat.EffectDamage, Amount: r.amount, Source: attacker.ID()}}
}

type fakeHooks struct {
	calls []string
	args  [][]lua.LValue
	ret   lua.LValue
	err   error
}

func (h *fakeHooks) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	h.calls = append(h.calls, hook)
	h.args = append(h.args, args)
	return h.ret, h.err
}

type fixture struct {
	area     *world.Area
	party    *world.Party
	pres     *fakePresentation
	resolver *fixedResolver
	attacks  []combat.AttackResult
	combat   *combat.Combat
}

// newFixture builds a combat core over creatures. leader may be nil; when set
// it must also appear in creatures.
func newFixture(t *testing.T, src dice.Source, opts combat.Options, leader *world.Creature, creatures ...*world.Creature) *fixture {
	t.Helper()
	area, err := world.NewArea(creatures, nil)
	require.NoError(t, err)
	f := &fixture{
		area:     area,
		party:    world.NewParty(leader),
		pres:     &fakePresentation{},
		resolver: &fixedResolver{amount: 3},
	}
	f.combat, err = combat.New(combat.Deps{
		Area:         area,
		Party:        f.party,
		Classifier:   combat.FactionClassifier{Table: newTable(t)},
		Resolver:     f.resolver,
		Presentation: f.pres,
		Dice:         src,
		Logger:       zaptest.NewLogger(t),
		OnAttack:     func(r combat.AttackResult) { f.attacks = append(f.attacks, r) },
	}, opts)
	require.NoError(t, err)
	return f
}

func newArea(t *testing.T, creatures ...*world.Creature) *world.Area {
	t.Helper()
	area, err := world.NewArea(creatures, nil)
	require.NoError(t, err)
	return area
}

func partyOf(leader *world.Creature) *world.Party { return world.NewParty(leader) }
