package converter

import (
	"github.com/napolitain/solver-oasis/internal/models"
)

// OptimizeRequest is the body of POST /optimize. Field names follow the
// public API; omitted coefficients, budget and seed take their defaults.
type OptimizeRequest struct {
	Tribe            string         `json:"tribe"`
	Troops           []string       `json:"troops"`
	TroopLevels      map[string]int `json:"troop_levels"`
	OasisComposition map[string]int `json:"oasis_composition"`
	MaxTroopLimit    map[string]int `json:"max_troop_limit"`
	ArmyCoeff        *float64       `json:"army_coeff,omitempty"`
	CavCoeff         *float64       `json:"cav_coeff,omitempty"`
	MaxIter          *int           `json:"max_iter,omitempty"`
	Seed             *int64         `json:"seed,omitempty"`
	Restarts         int            `json:"restarts,omitempty"`
}

// OptimizeResponse is the result of an optimization
type OptimizeResponse struct {
	BestCounts            map[string]int `json:"best_counts"`
	ObjectiveScore        Float          `json:"objective_score"`
	LossPercent           Float          `json:"loss_percent"`
	ExpectedLosses        map[string]int `json:"expected_losses"`
	TotalResourceCostLost int64          `json:"total_resource_cost_lost"`
	Evaluations           int            `json:"evaluations"`
	Seed                  int64          `json:"seed"`
}

// UnitInfo describes one unit of a faction
type UnitInfo struct {
	Name     string    `json:"name"`
	Category string    `json:"type"`
	Cost     int       `json:"cost"`
	MaxLevel int       `json:"max_level"`
	Attack   []float64 `json:"attack"`
}

// DefenderInfo describes one oasis animal
type DefenderInfo struct {
	Name            string  `json:"name"`
	InfantryDefense float64 `json:"infantry_defense"`
	CavalryDefense  float64 `json:"cavalry_defense"`
}

// ParseOasisRequest is the body of POST /oasis/parse
type ParseOasisRequest struct {
	Text string `json:"text"`
}

// ParseOasisResponse holds the parsed oasis composition
type ParseOasisResponse struct {
	OasisComposition map[string]int `json:"oasis_composition"`
	Total            int            `json:"total"`
}

// ErrorResponse is returned for rejected requests. Field names the offending
// request field when the error is a validation failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// RequestToModel converts a wire request into an AttackRequest and the
// number of restarts asked for
func RequestToModel(in OptimizeRequest) (*models.AttackRequest, int) {
	req := models.NewAttackRequest(in.Tribe)
	req.Units = append(req.Units, in.Troops...)

	for name, level := range in.TroopLevels {
		req.Levels[name] = level
	}
	for name, ceiling := range in.MaxTroopLimit {
		req.Ceilings[name] = ceiling
	}
	for name, count := range in.OasisComposition {
		req.Defense[name] = count
	}

	if in.ArmyCoeff != nil {
		req.ArmySizePenalty = *in.ArmyCoeff
	}
	if in.CavCoeff != nil {
		req.CavalryPenalty = *in.CavCoeff
	}
	if in.MaxIter != nil {
		req.Budget = *in.MaxIter
	}
	if in.Seed != nil {
		req.Seed = *in.Seed
	}

	restarts := in.Restarts
	if restarts < 1 {
		restarts = 1
	}
	return req, restarts
}

// ResultToResponse converts an optimization result to its wire form
func ResultToResponse(res *models.OptimizationResult) OptimizeResponse {
	return OptimizeResponse{
		BestCounts:            copyCounts(res.BestCounts),
		ObjectiveScore:        Float(res.ObjectiveScore),
		LossPercent:           Float(res.LossPercent),
		ExpectedLosses:        copyCounts(res.ExpectedLosses),
		TotalResourceCostLost: res.TotalResourceCostLost,
		Evaluations:           res.Evaluations,
		Seed:                  res.Seed,
	}
}

// RosterToResponse lists every faction's units sorted by name
func RosterToResponse(roster models.Roster) map[string][]UnitInfo {
	out := make(map[string][]UnitInfo, len(roster))
	for _, factionName := range roster.FactionNames() {
		faction := roster[factionName]
		units := make([]UnitInfo, 0, len(faction))
		for _, name := range faction.UnitNames() {
			def := faction[name]
			attack := make([]float64, len(def.AttackByLevel))
			copy(attack, def.AttackByLevel)
			units = append(units, UnitInfo{
				Name:     def.Name,
				Category: def.Category.String(),
				Cost:     def.ResourceCost,
				MaxLevel: def.MaxLevel(),
				Attack:   attack,
			})
		}
		out[factionName] = units
	}
	return out
}

// CatalogToResponse lists the oasis animals in catalog order
func CatalogToResponse(catalog models.DefenderCatalog) []DefenderInfo {
	out := make([]DefenderInfo, len(catalog))
	for i, d := range catalog {
		out[i] = DefenderInfo{
			Name:            d.Name,
			InfantryDefense: d.InfantryDefense,
			CavalryDefense:  d.CavalryDefense,
		}
	}
	return out
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
