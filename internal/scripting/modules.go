package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.log, engine.dice and engine.creature
// tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "creature", m.creatureModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, fn := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

// diceModule exposes engine.dice.roll(expr) -> {dice, modifier, total}, where
// dice is the sum of the individual dice.
func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		res, err := m.roller.RollExpr(L.CheckString(1))
		if err != nil {
			L.RaiseError("engine.dice.roll: %s", err.Error())
			return 0
		}
		t := L.NewTable()
		L.SetField(t, "dice", lua.LNumber(res.Total()-res.Modifier))
		L.SetField(t, "modifier", lua.LNumber(res.Modifier))
		L.SetField(t, "total", lua.LNumber(res.Total()))
		L.Push(t)
		return 1
	}))
	return mod
}

func (m *Manager) creatureModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(func(L *lua.LState) int {
		info := m.lookup(L.CheckString(1))
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		t := L.NewTable()
		L.SetField(t, "id", lua.LString(info.ID))
		L.SetField(t, "tag", lua.LString(info.Tag))
		L.SetField(t, "faction", lua.LString(info.Faction))
		L.SetField(t, "hp", lua.LNumber(info.HP))
		L.SetField(t, "max_hp", lua.LNumber(info.MaxHP))
		L.SetField(t, "defense", lua.LNumber(info.Defense))
		L.SetField(t, "in_combat", lua.LBool(info.InCombat))
		L.Push(t)
		return 1
	}))
	L.SetField(mod, "get_hp", L.NewFunction(func(L *lua.LState) int {
		info := m.lookup(L.CheckString(1))
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(info.HP))
		return 1
	}))
	L.SetField(mod, "damage", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		hp := L.CheckInt(2)
		if m.ApplyDamage == nil {
			return 0
		}
		if err := m.ApplyDamage(id, hp); err != nil {
			L.RaiseError("engine.creature.damage: %s", err.Error())
		}
		return 0
	}))
	return mod
}

func (m *Manager) lookup(id string) *CreatureInfo {
	if m.GetCreature == nil {
		return nil
	}
	return m.GetCreature(id)
}
