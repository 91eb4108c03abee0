package loader

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/solver-oasis/internal/models"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	rosterFile = "roster.yaml"
	oasisFile  = "oasis.yaml"
)

// UnitYAML represents one unit entry in roster.yaml
type UnitYAML struct {
	Category string    `yaml:"category"`
	Cost     int       `yaml:"cost"`
	Attack   []float64 `yaml:"attack"`
}

// RosterYAML represents the roster.yaml document
type RosterYAML struct {
	Factions map[string]map[string]UnitYAML `yaml:"factions"`
}

// DefenderYAML represents one oasis animal in oasis.yaml
type DefenderYAML struct {
	Name     string  `yaml:"name"`
	Infantry float64 `yaml:"infantry"`
	Cavalry  float64 `yaml:"cavalry"`
}

// OasisYAML represents the oasis.yaml document
type OasisYAML struct {
	Defenders []DefenderYAML `yaml:"defenders"`
}

// readData reads a data file from dataDir, or from the embedded tables when
// dataDir is empty
func readData(dataDir, name string) ([]byte, error) {
	if dataDir == "" {
		return embedded.ReadFile("data/" + name)
	}
	return os.ReadFile(filepath.Join(dataDir, name))
}

func loadYAML(dataDir, name string, out any) error {
	data, err := readData(dataDir, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// LoadRoster loads the faction unit tables. An empty dataDir selects the
// built-in tables.
func LoadRoster(dataDir string) (models.Roster, error) {
	var raw RosterYAML
	if err := loadYAML(dataDir, rosterFile, &raw); err != nil {
		return nil, err
	}
	return BuildRoster(raw)
}

// BuildRoster converts the raw document into a roster. Every unit needs a
// known category, a positive cost and a positive attack at each level.
func BuildRoster(raw RosterYAML) (models.Roster, error) {
	if len(raw.Factions) == 0 {
		return nil, fmt.Errorf("roster has no factions")
	}

	roster := make(models.Roster, len(raw.Factions))
	for factionName, units := range raw.Factions {
		if len(units) == 0 {
			return nil, fmt.Errorf("faction %s has no units", factionName)
		}

		faction := make(models.Faction, len(units))
		for unitName, u := range units {
			category, err := models.ParseCategory(u.Category)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", factionName, unitName, err)
			}
			if len(u.Attack) == 0 {
				return nil, fmt.Errorf("%s/%s: no attack values", factionName, unitName)
			}
			for i, a := range u.Attack {
				if a <= 0 {
					return nil, fmt.Errorf("%s/%s: non-positive attack %g at level %d", factionName, unitName, a, i+1)
				}
			}
			if u.Cost <= 0 {
				return nil, fmt.Errorf("%s/%s: non-positive cost %d", factionName, unitName, u.Cost)
			}

			attack := make([]float64, len(u.Attack))
			copy(attack, u.Attack)
			faction[unitName] = &models.UnitDefinition{
				Name:          unitName,
				Category:      category,
				AttackByLevel: attack,
				ResourceCost:  u.Cost,
			}
		}
		roster[factionName] = faction
	}

	return roster, nil
}

// LoadDefenders loads the oasis animal catalog. An empty dataDir selects the
// built-in table.
func LoadDefenders(dataDir string) (models.DefenderCatalog, error) {
	var raw OasisYAML
	if err := loadYAML(dataDir, oasisFile, &raw); err != nil {
		return nil, err
	}

	catalog := make(models.DefenderCatalog, 0, len(raw.Defenders))
	seen := make(map[string]bool, len(raw.Defenders))
	for _, d := range raw.Defenders {
		if d.Name == "" {
			return nil, fmt.Errorf("%s: defender without a name", oasisFile)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("%s: duplicate defender %s", oasisFile, d.Name)
		}
		if d.Infantry < 0 || d.Cavalry < 0 {
			return nil, fmt.Errorf("%s: negative defense for %s", oasisFile, d.Name)
		}
		seen[d.Name] = true
		catalog = append(catalog, models.DefenderType{
			Name:            d.Name,
			InfantryDefense: d.Infantry,
			CavalryDefense:  d.Cavalry,
		})
	}
	return catalog, nil
}

// LoadAll loads the roster and the defender catalog from the same place
func LoadAll(dataDir string) (models.Roster, models.DefenderCatalog, error) {
	roster, err := LoadRoster(dataDir)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := LoadDefenders(dataDir)
	if err != nil {
		return nil, nil, err
	}
	return roster, catalog, nil
}
