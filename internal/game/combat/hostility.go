package combat

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/combatsim/internal/game/faction"
)

// Classifier decides whether a regards b as hostile. Implementations may be
// asymmetric.
type Classifier interface {
	IsEnemy(a, b Creature) bool
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(a, b Creature) bool

// IsEnemy calls f.
func (f ClassifierFunc) IsEnemy(a, b Creature) bool { return f(a, b) }

// IsEnemy evaluates cls for a against b.
//
// Postcondition: false when either creature or cls is nil, and when a and b
// are the same creature.
func IsEnemy(cls Classifier, a, b Creature) bool {
	if cls == nil || a == nil || b == nil {
		return false
	}
	if a.ID() == b.ID() {
		return false
	}
	return cls.IsEnemy(a, b)
}

// FactionClassifier decides hostility from the reputation table.
type FactionClassifier struct {
	Table *faction.Table
}

// IsEnemy reports whether a's faction regards b's faction as hostile.
func (f FactionClassifier) IsEnemy(a, b Creature) bool {
	if f.Table == nil {
		return false
	}
	return f.Table.IsEnemy(a.Faction(), b.Faction())
}

// HookIsEnemy is the script hook consulted by ScriptedClassifier:
//
//	is_enemy(a_id, b_id, a_faction, b_faction) -> boolean | nil
const HookIsEnemy = "is_enemy"

// ScriptedClassifier lets scripts override hostility. A boolean result from
// the hook wins; anything else falls back to Fallback.
type ScriptedClassifier struct {
	Hooks    HookCaller
	Fallback Classifier
}

// IsEnemy consults the script hook before the fallback classifier.
func (s ScriptedClassifier) IsEnemy(a, b Creature) bool {
	if s.Hooks != nil {
		ret, err := s.Hooks.CallHook(HookIsEnemy,
			lua.LString(a.ID()), lua.LString(b.ID()),
			lua.LString(a.Faction()), lua.LString(b.Faction()),
		)
		if err == nil {
			if v, ok := ret.(lua.LBool); ok {
				return bool(v)
			}
		}
	}
	if s.Fallback == nil {
		return false
	}
	return s.Fallback.IsEnemy(a, b)
}
