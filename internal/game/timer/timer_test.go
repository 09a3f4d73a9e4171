package timer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/combatsim/internal/game/timer"
)

func TestSet_CompletesAfterDuration(t *testing.T) {
	s := timer.NewSet[string]()
	s.SetTimeout("a", 100*time.Millisecond)

	s.Update(50 * time.Millisecond)
	assert.Empty(t, s.Drain())
	assert.True(t, s.IsRegistered("a"))

	s.Update(100 * time.Millisecond)
	assert.False(t, s.IsRegistered("a"))
	assert.True(t, s.IsPending("a"), "completed key stays pending until drained")
	assert.Equal(t, []string{"a"}, s.Drain())
	assert.False(t, s.IsPending("a"))
	assert.Empty(t, s.Drain(), "snapshot must be consumed exactly once")
}

func TestSet_SetTimeout_LastWriteWins(t *testing.T) {
	s := timer.NewSet[string]()
	s.SetTimeout("a", 100*time.Millisecond)
	s.Update(80 * time.Millisecond)
	s.SetTimeout("a", 100*time.Millisecond)

	s.Update(150 * time.Millisecond)
	assert.Empty(t, s.Drain(), "reset countdown must not fire at the original deadline")
	left, ok := s.Remaining("a")
	require.True(t, ok)
	assert.Equal(t, 30*time.Millisecond, left)

	s.Update(180 * time.Millisecond)
	assert.Equal(t, []string{"a"}, s.Drain())
}

func TestSet_SetTimeout_DoesNotAccumulate(t *testing.T) {
	s := timer.NewSet[int]()
	s.SetTimeout(1, time.Second)
	s.SetTimeout(1, 200*time.Millisecond)
	left, _ := s.Remaining(1)
	assert.Equal(t, 200*time.Millisecond, left)
	assert.Equal(t, 1, s.Len())
}

func TestSet_Cancel_SuppressesCompletion(t *testing.T) {
	s := timer.NewSet[string]()
	s.SetTimeout("a", 10*time.Millisecond)
	s.Cancel("a")
	s.Update(time.Second)
	assert.Empty(t, s.Drain())
	assert.False(t, s.IsRegistered("a"))
	s.Cancel("missing")
}

func TestSet_Drain_PreservesRegistrationOrder(t *testing.T) {
	s := timer.NewSet[string]()
	for _, k := range []string{"c", "a", "b"} {
		s.SetTimeout(k, 10*time.Millisecond)
	}
	s.Update(10 * time.Millisecond)
	assert.Equal(t, []string{"c", "a", "b"}, s.Drain())
	assert.Zero(t, s.Len())
}

func TestSet_ClockGoingBackwards_IsZeroElapsed(t *testing.T) {
	s := timer.NewSet[string]()
	s.Update(time.Second)
	s.SetTimeout("a", 10*time.Millisecond)
	s.Update(500 * time.Millisecond)
	assert.True(t, s.IsRegistered("a"))
}

func TestProperty_Set_FiresExactlyOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := time.Duration(rapid.IntRange(1, 5000).Draw(rt, "duration_ms")) * time.Millisecond
		step := time.Duration(rapid.IntRange(1, 500).Draw(rt, "step_ms")) * time.Millisecond

		s := timer.NewSet[string]()
		s.SetTimeout("k", d)
		fired := 0
		var now time.Duration
		for now <= d+step {
			now += step
			s.Update(now)
			fired += len(s.Drain())
		}
		if fired != 1 {
			rt.Fatalf("expected exactly one completion, got %d", fired)
		}
	})
}

func TestCountingSet_CompletesWhenAllHoldsExpire(t *testing.T) {
	s := timer.NewCountingSet[string]()
	s.Arm("a", 100*time.Millisecond)
	s.Update(50 * time.Millisecond)
	s.Arm("a", 100*time.Millisecond)
	assert.Equal(t, 2, s.Pending("a"))

	s.Update(100 * time.Millisecond)
	assert.Equal(t, 1, s.Pending("a"))
	assert.Empty(t, s.Drain(), "key is not done while a hold remains")

	s.Update(150 * time.Millisecond)
	assert.False(t, s.IsPending("a"))
	assert.Equal(t, []string{"a"}, s.Drain())
}

func TestCountingSet_Release(t *testing.T) {
	s := timer.NewCountingSet[string]()
	s.Arm("a", time.Second)
	s.Arm("a", time.Second)

	assert.True(t, s.Release("a"))
	assert.Equal(t, 1, s.Pending("a"))
	assert.Empty(t, s.Drain())

	assert.True(t, s.Release("a"))
	assert.Equal(t, []string{"a"}, s.Drain())
	assert.False(t, s.Release("a"))
}

func TestCountingSet_Cancel(t *testing.T) {
	s := timer.NewCountingSet[string]()
	s.Arm("a", time.Second)
	s.Arm("a", time.Second)
	s.Cancel("a")
	s.Update(2 * time.Second)
	assert.Empty(t, s.Drain())
	assert.Zero(t, s.Pending("a"))
}

func TestProperty_CountingSet_PendingMatchesArms(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(rt, "arms")
		s := timer.NewCountingSet[int]()
		for i := 0; i < n; i++ {
			s.Arm(7, time.Duration(rapid.IntRange(1, 1000).Draw(rt, "d"))*time.Millisecond)
		}
		if s.Pending(7) != n {
			rt.Fatalf("pending %d, armed %d", s.Pending(7), n)
		}
		s.Update(time.Second)
		if s.IsPending(7) {
			rt.Fatalf("all holds should have expired")
		}
		if got := len(s.Drain()); got != 1 {
			rt.Fatalf("expected one completion, got %d", got)
		}
	})
}
