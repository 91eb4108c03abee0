package models

import "sort"

// UnitDefinition contains static unit data
type UnitDefinition struct {
	Name          string
	Category      Category
	AttackByLevel []float64 // index 0 is level 1
	ResourceCost  int       // total resources to train one unit
}

// Attack returns the attack value at a 1-based level.
// The level must be within [1, MaxLevel()].
func (u *UnitDefinition) Attack(level int) float64 {
	return u.AttackByLevel[level-1]
}

// MaxLevel returns the highest level with a known attack value
func (u *UnitDefinition) MaxLevel() int {
	return len(u.AttackByLevel)
}

// IsCavalry reports whether the unit counts towards cavalry offense
func (u *UnitDefinition) IsCavalry() bool {
	return u.Category == Cavalry
}

// Faction maps a unit name to its definition
type Faction map[string]*UnitDefinition

// UnitNames returns the unit names in lexical order
func (f Faction) UnitNames() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Roster maps a faction name to its units. It is built once and never mutated.
type Roster map[string]Faction

// FactionNames returns the faction names in lexical order
func (r Roster) FactionNames() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unit returns the definition of a unit within a faction
func (r Roster) Unit(faction, unit string) (*UnitDefinition, bool) {
	f, ok := r[faction]
	if !ok {
		return nil, false
	}
	def, ok := f[unit]
	return def, ok
}
