package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/napolitain/solver-oasis/internal/loader"
	"github.com/napolitain/solver-oasis/internal/models"
)

// Default per-unit ceiling when --max is not given
const defaultCeiling = 10000

type options struct {
	dataDir    string
	configFile string
	faction    string
	units      []string
	levels     map[string]int
	maxes      map[string]int
	oasis      map[string]int
	oasisFile  string
	armyCoeff  float64
	cavCoeff   float64
	maxIter    int
	seed       int64
	restarts   int
	xlsxPath   string
	jsonOut    bool
	quiet      bool
}

func bindDataFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVarP(&o.dataDir, "data", "d", "", "Directory with roster.yaml and oasis.yaml (built-in tables when empty)")
}

func bindRequestFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVarP(&o.configFile, "config", "c", "", "Path to a YAML request file")
	fs.StringVarP(&o.faction, "faction", "f", "Teuton", "Faction (tribe) to attack with")
	fs.StringSliceVarP(&o.units, "unit", "u", nil, "Units to consider (default: every unit of the faction)")
	fs.StringToIntVar(&o.levels, "level", nil, "Upgrade level per unit, e.g. Clubswinger=12 (default 1)")
	fs.StringToIntVar(&o.maxes, "max", nil, fmt.Sprintf("Maximum count per unit, e.g. Teutonic_Knight=40 (default %d)", defaultCeiling))
	fs.StringToIntVar(&o.oasis, "oasis", nil, "Oasis animals, e.g. Rat=12,Spider=4")
	fs.StringVar(&o.oasisFile, "oasis-file", "", "File holding a pasted oasis report")
	fs.Float64Var(&o.armyCoeff, "army-coeff", models.DefaultArmySizePenalty, "Army size penalty coefficient")
	fs.Float64Var(&o.cavCoeff, "cav-coeff", models.DefaultCavalryPenalty, "Cavalry penalty coefficient")
	fs.IntVar(&o.maxIter, "max-iter", models.DefaultBudget, "Annealing iterations")
	fs.Int64Var(&o.seed, "seed", models.DefaultSeed, "Random seed")
	fs.IntVar(&o.restarts, "restarts", 1, "Independent runs with consecutive seeds, best one wins")
}

// buildRequest assembles the request from the config file, then applies
// flags that were set explicitly on top of it
func buildRequest(fs *pflag.FlagSet, o *options, roster models.Roster, catalog models.DefenderCatalog) (*models.AttackRequest, error) {
	req := models.NewAttackRequest(o.faction)

	if o.configFile != "" {
		fromFile, restarts, err := loader.LoadRequestFile(o.configFile, catalog)
		if err != nil {
			return nil, err
		}
		req = fromFile
		if !fs.Changed("restarts") && restarts > 0 {
			o.restarts = restarts
		}
		if fs.Changed("faction") || req.Faction == "" {
			req.Faction = o.faction
		}
	}

	if fs.Changed("unit") || len(req.Units) == 0 {
		req.Units = append([]string(nil), o.units...)
	}
	if len(req.Units) == 0 {
		faction, ok := roster[req.Faction]
		if !ok {
			return nil, &models.ValidationError{Field: "faction", Err: fmt.Errorf("%w: %q", models.ErrUnknownFaction, req.Faction)}
		}
		req.Units = faction.UnitNames()
	}

	for name, level := range o.levels {
		req.Levels[name] = level
	}
	for name, ceiling := range o.maxes {
		req.Ceilings[name] = ceiling
	}
	for _, name := range req.Units {
		if _, ok := req.Levels[name]; !ok {
			req.Levels[name] = 1
		}
		if _, ok := req.Ceilings[name]; !ok {
			req.Ceilings[name] = defaultCeiling
		}
	}

	if o.oasisFile != "" {
		text, err := os.ReadFile(o.oasisFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read oasis report: %w", err)
		}
		req.Defense = loader.ParseOasisText(string(text), catalog)
	}
	for name, count := range o.oasis {
		req.Defense[name] = count
	}

	if o.configFile == "" || fs.Changed("army-coeff") {
		req.ArmySizePenalty = o.armyCoeff
	}
	if o.configFile == "" || fs.Changed("cav-coeff") {
		req.CavalryPenalty = o.cavCoeff
	}
	if o.configFile == "" || fs.Changed("max-iter") {
		req.Budget = o.maxIter
	}
	if o.configFile == "" || fs.Changed("seed") {
		req.Seed = o.seed
	}

	return req, nil
}
