package config

import (
	"fmt"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
)

// CombatOptions converts the combat section into engine tuning.
//
// Postcondition: Returns options accepted by combat.New, or an error for an
// unknown AI policy.
func (c CombatConfig) CombatOptions() (combat.Options, error) {
	policy, err := combat.ParsePolicy(c.AIPolicy)
	if err != nil {
		return combat.Options{}, fmt.Errorf("combat.ai_policy: %w", err)
	}
	return combat.Options{
		RoundDuration:     c.RoundDuration,
		HeartbeatInterval: c.HeartbeatInterval,
		DetectionRange:    c.DetectionRange,
		AIThinkInterval:   c.AIThinkInterval,
		AIPolicy:          policy,
		EffectDelay:       c.EffectDelay,
		DeactivationGrace: c.DeactivationGrace,
		AnimationHold:     c.AnimationHold,
	}, nil
}
