// Package raid finds the cheapest army to send against an oasis.
//
// The cost of an army is the resource value of the troops it is expected to
// lose plus a size penalty in which cavalry weighs more than infantry. The
// search itself is delegated to an anneal.Minimizer over the box
// [0, ceiling] per selected unit.
package raid

import (
	"math"

	"github.com/napolitain/solver-oasis/internal/combat"
	"github.com/napolitain/solver-oasis/internal/models"
	"github.com/napolitain/solver-oasis/internal/solver/anneal"
)

// Cost scores an army laid out in req.Units order. Ceiling violations and
// empty armies are +Inf. The request must have passed validation.
func Cost(faction models.Faction, catalog models.DefenderCatalog, req *models.AttackRequest, counts []int) float64 {
	army := models.Army{Units: req.Units, Counts: counts}

	if _, over := army.ExceededCeiling(req.Ceilings); over {
		return math.Inf(1)
	}
	if army.IsEmpty() {
		return math.Inf(1)
	}

	loss := combat.LossPercentage(faction, catalog, req.Defense, req.Levels, army.Map())
	if math.IsInf(loss, 1) {
		return loss
	}

	resourcePenalty := 0.0
	sizePenalty := 0.0
	for i, name := range req.Units {
		def := faction[name]
		count := float64(counts[i])

		lost := math.RoundToEven(count * loss / 100)
		resourcePenalty += lost * float64(def.ResourceCost)

		if def.IsCavalry() {
			sizePenalty += count * req.CavalryPenalty
		} else {
			sizePenalty += count
		}
	}

	return resourcePenalty + sizePenalty*req.ArmySizePenalty
}

// ExpectedLosses returns how many of each unit the army is expected to lose,
// rounded the same way Cost rounds them. An army without offense loses nothing
// because it cannot be sent.
func ExpectedLosses(faction models.Faction, army models.Army, loss float64) (map[string]int, int64) {
	losses := make(map[string]int, len(army.Units))
	var resources int64

	for i, name := range army.Units {
		if math.IsInf(loss, 0) || math.IsNaN(loss) {
			losses[name] = 0
			continue
		}
		lost := int(math.RoundToEven(float64(army.Counts[i]) * loss / 100))
		losses[name] = lost
		resources += int64(lost) * int64(faction[name].ResourceCost)
	}
	return losses, resources
}

// Objective adapts Cost to the real-valued search space. Every coordinate is
// rounded half to even before scoring.
func Objective(faction models.Faction, catalog models.DefenderCatalog, req *models.AttackRequest) anneal.Objective {
	return func(x []float64) float64 {
		return Cost(faction, catalog, req, roundCounts(x))
	}
}

// Bounds returns the search box, one [0, ceiling] interval per selected unit
func Bounds(req *models.AttackRequest) []anneal.Bounds {
	bounds := make([]anneal.Bounds, len(req.Units))
	for i, name := range req.Units {
		bounds[i] = anneal.Bounds{Lower: 0, Upper: float64(req.Ceilings[name])}
	}
	return bounds
}

func roundCounts(x []float64) []int {
	counts := make([]int, len(x))
	for i, v := range x {
		counts[i] = int(math.RoundToEven(v))
	}
	return counts
}
