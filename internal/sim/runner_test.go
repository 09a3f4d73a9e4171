package sim_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/game/dice"
	"github.com/cory-johannsen/combatsim/internal/game/scenario"
	"github.com/cory-johannsen/combatsim/internal/game/world"
	"github.com/cory-johannsen/combatsim/internal/sim"
)

const duel = `
name: duel
factions: [red, blue]
reputation:
  - {source: red, target: blue, value: 0}
  - {source: blue, target: red, value: 0}
weapons:
  - {id: sword, name: Sword, damage: 1d8, range: 2}
creatures:
  - {id: r1, tag: Red, faction: red, position: [0, 0, 0], hp: 12, weapon: sword}
  - {id: b1, tag: Blue, faction: blue, position: [%g, 0, 0], hp: 6, weapon: sword}
`

func newRunner(t *testing.T, gap float64, cfg sim.Config) (*sim.Runner, *sim.LogPresentation) {
	t.Helper()
	w, err := scenario.LoadFromBytes([]byte(fmt.Sprintf(duel, gap)))
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	src := &dice.FixedSource{Values: []int{19}}
	cls := combat.FactionClassifier{Table: w.Factions}
	pres := sim.NewLogPresentation(logger)

	var runner *sim.Runner
	cb, err := combat.New(combat.Deps{
		Area:         w.Area,
		Party:        w.Party,
		Classifier:   cls,
		Resolver:     world.NewDamageResolver(dice.NewLoggedRoller(src, logger), logger),
		Presentation: pres,
		Dice:         src,
		Logger:       logger,
		OnAttack:     func(res combat.AttackResult) { runner.RecordAttack(res) },
	}, combat.DefaultOptions())
	require.NoError(t, err)

	runner, err = sim.NewRunner(cfg, w, cb, cls, logger)
	require.NoError(t, err)
	return runner, pres
}

func TestRunner_FightResolves(t *testing.T) {
	r, _ := newRunner(t, 6, sim.Config{Tick: 100 * time.Millisecond, MaxDuration: 2 * time.Minute})

	stats, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, stats.Resolved)
	assert.Equal(t, []string{"b1"}, stats.Deaths)
	assert.Positive(t, stats.Attacks)
	assert.Equal(t, stats.Attacks, stats.Hits, "a natural 20 always hits")
	assert.GreaterOrEqual(t, stats.Damage, 6)
	assert.Less(t, stats.Elapsed, 2*time.Minute)
	assert.Equal(t, stats.Ticks, int(stats.Elapsed/(100*time.Millisecond)))
}

func TestRunner_StopsAtMaxDuration(t *testing.T) {
	r, _ := newRunner(t, 500, sim.Config{Tick: 250 * time.Millisecond, MaxDuration: 5 * time.Second})

	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, stats.Resolved)
	assert.Equal(t, 5*time.Second, stats.Elapsed)
	assert.Zero(t, stats.Attacks)
	assert.Equal(t, 20, stats.Ticks)
}

func TestRunner_CancelledContext(t *testing.T) {
	r, _ := newRunner(t, 500, sim.Config{Tick: 100 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Ticks)
}

func TestRunner_RealtimeStartStop(t *testing.T) {
	r, _ := newRunner(t, 500, sim.Config{Tick: 5 * time.Millisecond, Realtime: true})

	done := make(chan error, 1)
	go func() { done <- r.Start(context.Background()) }()

	time.Sleep(30 * time.Millisecond)
	r.Stop()
	r.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err, "stopping is not a failure")
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_StopBeforeRun(t *testing.T) {
	r, _ := newRunner(t, 500, sim.Config{Tick: 100 * time.Millisecond})
	r.Stop()

	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, sim.ErrStopped)
	assert.NoError(t, r.Start(context.Background()))
}

func TestNewRunner_RejectsBadConfig(t *testing.T) {
	w, err := scenario.LoadFromBytes([]byte(fmt.Sprintf(duel, 5.0)))
	require.NoError(t, err)
	_, err = sim.NewRunner(sim.Config{Tick: time.Second}, w, nil, nil, nil)
	assert.Error(t, err)
}
