package combat

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/combatsim/internal/game/timer"
)

const graceKey = "deactivate"

// Activation tracks whether the party is in combat and switches the
// presentation on each edge.
type Activation struct {
	party        Party
	registry     *Registry
	presentation Presentation
	grace        time.Duration
	logger       *zap.Logger

	active bool
	timer  *timer.Set[string]
}

func newActivation(registry *Registry, party Party, presentation Presentation, grace time.Duration, logger *zap.Logger) *Activation {
	return &Activation{
		party:        party,
		registry:     registry,
		presentation: presentation,
		grace:        grace,
		logger:       logger,
		timer:        timer.NewSet[string](),
	}
}

// IsActive reports whether combat mode is on.
func (a *Activation) IsActive() bool { return a.active }

// Update recomputes combat mode from the leader's registry membership.
// Leaving combat waits out the grace period; re-entering cancels it.
func (a *Activation) Update(now time.Duration) {
	a.timer.Update(now)
	expired := slices.Contains(a.timer.Drain(), graceKey)

	leader := a.party.Leader()
	inCombat := leader != nil && a.registry.Has(leader.ID())

	switch {
	case inCombat:
		a.timer.Cancel(graceKey)
		if !a.active {
			a.enter()
		}
	case !a.active:
	case a.grace <= 0 || expired:
		a.exit()
	case !a.timer.IsRegistered(graceKey):
		a.timer.SetTimeout(graceKey, a.grace)
	}
}

func (a *Activation) enter() {
	a.active = true
	a.presentation.SetCameraStyle(CameraCombat)
	a.logger.Info("combat mode entered")
}

func (a *Activation) exit() {
	a.active = false
	a.presentation.SetCameraStyle(CameraDefault)
	a.logger.Info("combat mode exited")
}
