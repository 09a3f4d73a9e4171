// Package faction holds the directional reputation matrix that decides
// whether one faction treats another as hostile, neutral or friendly.
package faction

import (
	"fmt"
	"sort"
)

// ID names a faction. The empty ID is the invalid faction and is never hostile.
type ID string

// Invalid is the zero faction.
const Invalid ID = ""

// Reputation thresholds on the 0-100 scale.
const (
	HostileMax        = 10
	FriendlyMin       = 90
	DefaultReputation = 50
	SameFaction       = 100
)

// Entry is one directional reputation value: how Source regards Target.
type Entry struct {
	Source ID  `yaml:"source"`
	Target ID  `yaml:"target"`
	Value  int `yaml:"value"`
}

type pair struct{ src, dst ID }

// Table is a directional reputation matrix. Reputation(a, b) need not equal
// Reputation(b, a).
type Table struct {
	known map[ID]struct{}
	rep   map[pair]int
}

// NewTable returns a Table that knows the given factions.
func NewTable(factions ...ID) *Table {
	t := &Table{
		known: make(map[ID]struct{}),
		rep:   make(map[pair]int),
	}
	for _, f := range factions {
		t.Add(f)
	}
	return t
}

// Add registers f. Adding Invalid is ignored.
func (t *Table) Add(f ID) {
	if f == Invalid {
		return
	}
	t.known[f] = struct{}{}
}

// Known reports whether f was registered.
func (t *Table) Known(f ID) bool {
	_, ok := t.known[f]
	return ok
}

// Factions returns the registered factions in lexical order.
func (t *Table) Factions() []ID {
	out := make([]ID, 0, len(t.known))
	for f := range t.known {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Set records how src regards dst.
//
// Precondition: both factions are known; value is in [0, 100].
func (t *Table) Set(src, dst ID, value int) error {
	if !t.Known(src) {
		return fmt.Errorf("faction: unknown source faction %q", src)
	}
	if !t.Known(dst) {
		return fmt.Errorf("faction: unknown target faction %q", dst)
	}
	if value < 0 || value > 100 {
		return fmt.Errorf("faction: reputation %s->%s must be in [0, 100], got %d", src, dst, value)
	}
	t.rep[pair{src, dst}] = value
	return nil
}

// Apply records every entry, stopping at the first invalid one.
func (t *Table) Apply(entries []Entry) error {
	for _, e := range entries {
		if err := t.Set(e.Source, e.Target, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Reputation returns how src regards dst. Same-faction pairs default to
// SameFaction and unset pairs to DefaultReputation.
func (t *Table) Reputation(src, dst ID) int {
	if v, ok := t.rep[pair{src, dst}]; ok {
		return v
	}
	if src == dst {
		return SameFaction
	}
	return DefaultReputation
}

// IsEnemy reports whether src regards dst as hostile.
func (t *Table) IsEnemy(src, dst ID) bool {
	if src == Invalid || dst == Invalid {
		return false
	}
	return t.Reputation(src, dst) <= HostileMax
}

// IsFriend reports whether src regards dst as friendly.
func (t *Table) IsFriend(src, dst ID) bool {
	if src == Invalid || dst == Invalid {
		return false
	}
	return t.Reputation(src, dst) >= FriendlyMin
}

// IsNeutral reports whether src is neither hostile nor friendly towards dst.
func (t *Table) IsNeutral(src, dst ID) bool {
	if src == Invalid || dst == Invalid {
		return false
	}
	return !t.IsEnemy(src, dst) && !t.IsFriend(src, dst)
}
