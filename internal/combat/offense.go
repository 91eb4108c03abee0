package combat

import (
	"math"
	"sort"

	"github.com/napolitain/solver-oasis/internal/models"
)

// LossExponent shapes the casualty curve; losses grow faster than the
// defense/offense ratio
const LossExponent = 1.5

// OffenseSplit is the attacking power of an army split by category
type OffenseSplit struct {
	InfantryPower float64
	CavalryPower  float64
	InfantryRatio float64
	CavalryRatio  float64
	TotalPower    float64
}

// SplitOffense computes infantry and cavalry attack power for the given counts.
// A missing level defaults to 1 and units outside the faction are skipped.
func SplitOffense(faction models.Faction, levels map[string]int, counts map[string]int) OffenseSplit {
	var s OffenseSplit

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def, ok := faction[name]
		if !ok {
			continue
		}
		level, ok := levels[name]
		if !ok {
			level = 1
		}

		power := float64(counts[name]) * def.Attack(level)
		switch def.Category {
		case models.Infantry:
			s.InfantryPower += power
		case models.Cavalry:
			s.CavalryPower += power
		}
	}

	s.TotalPower = s.InfantryPower + s.CavalryPower

	// A ratio is only taken when its own power is non-zero
	if s.InfantryPower != 0 {
		s.InfantryRatio = s.InfantryPower / s.TotalPower
	}
	if s.CavalryPower != 0 {
		s.CavalryRatio = s.CavalryPower / s.TotalPower
	}

	return s
}

// LossPercentage returns the expected share of the army lost, in percent.
// It is +Inf when the army has no offense and is not capped at 100.
func LossPercentage(
	faction models.Faction,
	catalog models.DefenderCatalog,
	defense models.DefenseComposition,
	levels map[string]int,
	counts map[string]int,
) float64 {
	offense := SplitOffense(faction, levels, counts)
	if offense.TotalPower == 0 {
		return math.Inf(1)
	}

	infDef, cavDef := AggregateDefense(catalog, defense)
	effective := infDef*offense.InfantryRatio + cavDef*offense.CavalryRatio

	return 100 * math.Pow(effective/offense.TotalPower, LossExponent)
}
