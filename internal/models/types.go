package models

import (
	"fmt"
	"sort"
	"strings"
)

// Category is the combat category of an attacking unit
type Category int

const (
	Infantry Category = iota
	Cavalry
)

// String returns the lowercase name used in catalogs and on the wire
func (c Category) String() string {
	switch c {
	case Infantry:
		return "infantry"
	case Cavalry:
		return "cavalry"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory converts a catalog string into a Category
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "infantry":
		return Infantry, nil
	case "cavalry":
		return Cavalry, nil
	default:
		return 0, fmt.Errorf("unknown unit category %q", s)
	}
}

// DefenderType is a creature found in an oasis
type DefenderType struct {
	Name            string
	InfantryDefense float64
	CavalryDefense  float64
}

// DefenderCatalog lists the known defender types in display order
type DefenderCatalog []DefenderType

// Lookup returns the defender type with the given name
func (c DefenderCatalog) Lookup(name string) (DefenderType, bool) {
	for _, d := range c {
		if d.Name == name {
			return d, true
		}
	}
	return DefenderType{}, false
}

// Names returns the defender names in catalog order
func (c DefenderCatalog) Names() []string {
	names := make([]string, len(c))
	for i, d := range c {
		names[i] = d.Name
	}
	return names
}

// DefenseComposition maps a defender name to how many of them hold the oasis.
// Unknown names are tolerated and contribute nothing.
type DefenseComposition map[string]int

// SortedNames returns the composition keys in lexical order
func (d DefenseComposition) SortedNames() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Total returns the number of defenders in the composition
func (d DefenseComposition) Total() int {
	total := 0
	for _, count := range d {
		total += count
	}
	return total
}

// AttackRequest describes one optimization run
type AttackRequest struct {
	Faction  string
	Units    []string       // selected units, defines the composition vector order
	Levels   map[string]int // 1-based upgrade level per unit
	Ceilings map[string]int // maximum count per unit
	Defense  DefenseComposition

	ArmySizePenalty float64
	CavalryPenalty  float64

	Budget int // annealing iterations
	Seed   int64
}

// OptimizationResult is the outcome of one optimization run
type OptimizationResult struct {
	BestCounts            map[string]int
	ObjectiveScore        float64 // +Inf when no feasible army was found
	LossPercent           float64 // +Inf when the army has no offense
	ExpectedLosses        map[string]int
	TotalResourceCostLost int64
	Evaluations           int
	Seed                  int64
}

// TotalUnits returns the number of units in the best composition
func (r *OptimizationResult) TotalUnits() int {
	total := 0
	for _, count := range r.BestCounts {
		total += count
	}
	return total
}
