package sim

import (
	"fmt"

	"github.com/cory-johannsen/combatsim/internal/game/combat"
	"github.com/cory-johannsen/combatsim/internal/game/world"
	"github.com/cory-johannsen/combatsim/internal/scripting"
)

// BindScripts connects the engine.creature Lua module to the creatures of area.
//
// Precondition: m and area must be non-nil.
func BindScripts(m *scripting.Manager, area *world.Area) {
	m.GetCreature = func(id string) *scripting.CreatureInfo {
		c, ok := area.Get(id)
		if !ok {
			return nil
		}
		return &scripting.CreatureInfo{
			ID:       c.ID(),
			Tag:      c.Tag(),
			Faction:  string(c.Faction()),
			HP:       c.HP(),
			MaxHP:    c.MaxHP(),
			Defense:  c.Defense(),
			InCombat: c.InCombat(),
		}
	}
	m.ApplyDamage = func(id string, amount int) error {
		c, ok := area.Get(id)
		if !ok {
			return fmt.Errorf("unknown creature %q", id)
		}
		if amount < 0 {
			return fmt.Errorf("damage must be >= 0, got %d", amount)
		}
		c.ApplyEffect(combat.Effect{Kind: combat.EffectDamage, Amount: amount, Source: "script"})
		return nil
	}
}
