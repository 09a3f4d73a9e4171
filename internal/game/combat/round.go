package combat

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
)

// Phase is a round's position in its turn sequence.
type Phase string

const (
	PhaseStarted    Phase = "started"
	PhaseFirstTurn  Phase = "first_turn"
	PhaseSecondTurn Phase = "second_turn"
	PhaseFinished   Phase = "finished"
)

const (
	eventEngage = "engage"
	eventSwap   = "swap"
	eventFinish = "finish"
)

// DefaultRoundDuration is the length of one round of simulated time.
const DefaultRoundDuration = 3 * time.Second

func newPhaseMachine() *fsm.FSM {
	return fsm.NewFSM(
		string(PhaseStarted),
		fsm.Events{
			{Name: eventEngage, Src: []string{string(PhaseStarted)}, Dst: string(PhaseFirstTurn)},
			{Name: eventSwap, Src: []string{string(PhaseFirstTurn)}, Dst: string(PhaseSecondTurn)},
			{
				Name: eventFinish,
				Src:  []string{string(PhaseStarted), string(PhaseFirstTurn), string(PhaseSecondTurn)},
				Dst:  string(PhaseFinished),
			},
		},
		fsm.Callbacks{},
	)
}

// Round is one attack exchange between an attacker and its target.
//
// Invariant: 0 <= Elapsed() <= duration, and Elapsed never decreases.
type Round struct {
	Attacker *Combatant
	Target   *Combatant

	elapsed  time.Duration
	duration time.Duration
	phase    *fsm.FSM
}

func newRound(attacker, target *Combatant, duration time.Duration) *Round {
	return &Round{
		Attacker: attacker,
		Target:   target,
		duration: duration,
		phase:    newPhaseMachine(),
	}
}

// Phase returns the current phase.
func (r *Round) Phase() Phase { return Phase(r.phase.Current()) }

// Elapsed returns the simulated time spent in the round.
func (r *Round) Elapsed() time.Duration { return r.elapsed }

// Duration returns the round length.
func (r *Round) Duration() time.Duration { return r.duration }

// IsDuel reports whether the target is fighting back at the attacker.
func (r *Round) IsDuel() bool {
	return r.Target.IsTargeting(r.Attacker.ID())
}

// Finished reports whether the round reached its terminal phase.
func (r *Round) Finished() bool { return r.Phase() == PhaseFinished }

// advance adds dt to the elapsed time, clamped to [0, duration].
func (r *Round) advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	r.elapsed = min(r.elapsed+dt, r.duration)
}

// halfway reports whether the first turn is over.
func (r *Round) halfway() bool { return r.elapsed*2 >= r.duration }

// complete reports whether the full duration elapsed.
func (r *Round) complete() bool { return r.elapsed >= r.duration }

// fire moves the phase machine along event. An illegal transition is a bug in
// the arbiter.
func (r *Round) fire(event string) {
	if err := r.phase.Event(context.Background(), event); err != nil {
		panic(fmt.Sprintf("combat: round %s -> %s: %s: %v",
			r.Attacker.ID(), r.Target.ID(), event, err))
	}
}
