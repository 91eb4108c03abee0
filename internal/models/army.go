package models

// Army is a composition vector: one count per selected unit, in selection order
type Army struct {
	Units  []string
	Counts []int
}

// NewArmy returns an empty army over the given unit selection
func NewArmy(units []string) Army {
	return Army{
		Units:  units,
		Counts: make([]int, len(units)),
	}
}

// ArmyFromMap lays out a count mapping in selection order; missing units are 0
func ArmyFromMap(units []string, counts map[string]int) Army {
	a := NewArmy(units)
	for i, name := range units {
		a.Counts[i] = counts[name]
	}
	return a
}

// Get returns the count for a unit
func (a Army) Get(name string) int {
	for i, u := range a.Units {
		if u == name {
			return a.Counts[i]
		}
	}
	return 0
}

// Map returns the army as a unit name to count mapping
func (a Army) Map() map[string]int {
	m := make(map[string]int, len(a.Units))
	for i, name := range a.Units {
		m[name] = a.Counts[i]
	}
	return m
}

// TotalUnits returns total count of all units
func (a Army) TotalUnits() int {
	total := 0
	for _, c := range a.Counts {
		total += c
	}
	return total
}

// IsEmpty returns true if army has no units
func (a Army) IsEmpty() bool {
	return a.TotalUnits() == 0
}

// ExceededCeiling returns the first unit whose count is above its ceiling.
// Units without a ceiling entry are unbounded.
func (a Army) ExceededCeiling(ceilings map[string]int) (string, bool) {
	for i, name := range a.Units {
		ceiling, ok := ceilings[name]
		if ok && a.Counts[i] > ceiling {
			return name, true
		}
	}
	return "", false
}

// Clone returns a copy of the army sharing the unit selection
func (a Army) Clone() Army {
	counts := make([]int, len(a.Counts))
	copy(counts, a.Counts)
	return Army{Units: a.Units, Counts: counts}
}
