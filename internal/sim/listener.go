package sim

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/game/world"
)

// LogListener reports creature state changes to the log.
type LogListener struct {
	logger *zap.Logger
	clock  func() float64
	deaths []string
}

// NewLogListener creates a listener stamping entries with clock seconds.
//
// Precondition: logger and clock must be non-nil.
func NewLogListener(logger *zap.Logger, clock func() float64) *LogListener {
	return &LogListener{logger: logger, clock: clock}
}

func (l *LogListener) AnimationPlayed(c *world.Creature, anim combat.Animation) {
	l.logger.Debug("animation",
		zap.Float64("t", l.clock()),
		zap.String("creature", c.Tag()),
		zap.Stringer("animation", anim),
	)
}

func (l *LogListener) EffectApplied(c *world.Creature, e combat.Effect) {
	l.logger.Info("effect applied",
		zap.Float64("t", l.clock()),
		zap.String("creature", c.Tag()),
		zap.Int("amount", e.Amount),
		zap.String("source", e.Source),
		zap.Int("hp", c.HP()),
	)
}

func (l *LogListener) Died(c *world.Creature) {
	l.deaths = append(l.deaths, c.ID())
	l.logger.Info("creature died",
		zap.Float64("t", l.clock()),
		zap.String("creature", c.Tag()),
	)
}

// Deaths returns the IDs of creatures that died, in order.
func (l *LogListener) Deaths() []string { return l.deaths }

// LogPresentation records camera style changes.
type LogPresentation struct {
	logger *zap.Logger
	style  combat.CameraStyle
}

// NewLogPresentation creates a presentation that logs every switch.
func NewLogPresentation(logger *zap.Logger) *LogPresentation {
	return &LogPresentation{logger: logger}
}

// SetCameraStyle implements combat.Presentation.
func (p *LogPresentation) SetCameraStyle(s combat.CameraStyle) {
	p.style = s
	p.logger.Info("camera style", zap.Stringer("style", s))
}

// Style returns the last requested style.
func (p *LogPresentation) Style() combat.CameraStyle { return p.style }
