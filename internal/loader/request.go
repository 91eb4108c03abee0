package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/solver-oasis/internal/models"
)

// RequestYAML is an optimization request stored on disk.
// Omitted coefficients, budget and seed keep their defaults.
type RequestYAML struct {
	Faction   string         `yaml:"faction"`
	Units     []string       `yaml:"units"`
	Levels    map[string]int `yaml:"levels"`
	Max       map[string]int `yaml:"max"`
	Oasis     map[string]int `yaml:"oasis"`
	OasisText string         `yaml:"oasis_text"`
	ArmyCoeff *float64       `yaml:"army_coeff"`
	CavCoeff  *float64       `yaml:"cav_coeff"`
	MaxIter   *int           `yaml:"max_iter"`
	Seed      *int64         `yaml:"seed"`
	Restarts  int            `yaml:"restarts"`
}

// LoadRequestFile reads a request YAML file. oasis_text, when present, is
// parsed with ParseOasisText and explicit oasis counts are applied on top.
func LoadRequestFile(path string, catalog models.DefenderCatalog) (*models.AttackRequest, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read request: %w", err)
	}

	var raw RequestYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("failed to parse request %s: %w", path, err)
	}

	return raw.ToRequest(catalog), raw.Restarts, nil
}

// ToRequest converts the file form into an AttackRequest
func (r RequestYAML) ToRequest(catalog models.DefenderCatalog) *models.AttackRequest {
	req := models.NewAttackRequest(r.Faction)
	req.Units = append(req.Units, r.Units...)

	for name, level := range r.Levels {
		req.Levels[name] = level
	}
	for name, ceiling := range r.Max {
		req.Ceilings[name] = ceiling
	}

	if r.OasisText != "" {
		req.Defense = ParseOasisText(r.OasisText, catalog)
	}
	for name, count := range r.Oasis {
		req.Defense[name] = count
	}

	if r.ArmyCoeff != nil {
		req.ArmySizePenalty = *r.ArmyCoeff
	}
	if r.CavCoeff != nil {
		req.CavalryPenalty = *r.CavCoeff
	}
	if r.MaxIter != nil {
		req.Budget = *r.MaxIter
	}
	if r.Seed != nil {
		req.Seed = *r.Seed
	}
	return req
}
