package world

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/game/dice"
)

// Armed is implemented by creatures that know which damage dice they roll.
type Armed interface {
	DamageDice() string
}

// DamageResolver rolls weapon damage for successful hits.
type DamageResolver struct {
	roller *dice.Roller
	logger *zap.Logger
}

// NewDamageResolver creates a resolver rolling through roller.
//
// Precondition: roller must be non-nil.
func NewDamageResolver(roller *dice.Roller, logger *zap.Logger) *DamageResolver {
	if roller == nil {
		panic("world.NewDamageResolver: roller must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DamageResolver{roller: roller, logger: logger}
}

// DamageEffects returns one damage effect for attacker's weapon roll.
//
// Postcondition: the damage amount is at least 1.
func (r *DamageResolver) DamageEffects(attacker combat.Creature) []combat.Effect {
	expr := UnarmedDamage
	if a, ok := attacker.(Armed); ok {
		expr = a.DamageDice()
	}
	res, err := r.roller.RollExpr(expr)
	if err != nil {
		r.logger.Warn("invalid damage dice; falling back to unarmed",
			zap.String("attacker", attacker.Tag()),
			zap.String("dice", expr),
			zap.Error(err),
		)
		res, _ = r.roller.RollExpr(UnarmedDamage)
	}
	return []combat.Effect{{
		Kind:   combat.EffectDamage,
		Amount: max(1, res.Total()),
		Source: attacker.ID(),
	}}
}
