package models

import (
	"errors"
	"fmt"
)

// Defaults taken from the optimizer form
const (
	DefaultArmySizePenalty = 5.0
	DefaultCavalryPenalty  = 2.5
	DefaultBudget          = 100
	DefaultSeed            = 42
)

var (
	ErrUnknownFaction      = errors.New("unknown faction")
	ErrEmptySelection      = errors.New("no units selected")
	ErrUnknownUnit         = errors.New("unit not in faction roster")
	ErrDuplicateUnit       = errors.New("unit selected more than once")
	ErrMissingLevel        = errors.New("missing level")
	ErrLevelOutOfRange     = errors.New("level out of range")
	ErrMissingCeiling      = errors.New("missing count ceiling")
	ErrNegativeCeiling     = errors.New("negative count ceiling")
	ErrNegativeCoefficient = errors.New("negative penalty coefficient")
	ErrNegativeDefender    = errors.New("negative defender count")
	ErrInvalidBudget       = errors.New("evaluation budget must be positive")
)

// ValidationError reports which request field broke the caller contract
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error, format string, args ...any) error {
	if format == "" {
		return &ValidationError{Field: field, Err: err}
	}
	return &ValidationError{Field: field, Err: fmt.Errorf("%w: "+format, append([]any{err}, args...)...)}
}

// NewAttackRequest returns a request prefilled with the form defaults
func NewAttackRequest(faction string) *AttackRequest {
	return &AttackRequest{
		Faction:         faction,
		Levels:          make(map[string]int),
		Ceilings:        make(map[string]int),
		Defense:         make(DefenseComposition),
		ArmySizePenalty: DefaultArmySizePenalty,
		CavalryPenalty:  DefaultCavalryPenalty,
		Budget:          DefaultBudget,
		Seed:            DefaultSeed,
	}
}

// ValidateAttackRequest checks the request against the roster and stops at the
// first violation. Defender counts must be non-negative, unknown defender names
// are ignored later.
func ValidateAttackRequest(roster Roster, req *AttackRequest) error {
	faction, ok := roster[req.Faction]
	if !ok {
		return invalid("faction", ErrUnknownFaction, "%q", req.Faction)
	}

	if len(req.Units) == 0 {
		return invalid("units", ErrEmptySelection, "")
	}

	seen := make(map[string]bool, len(req.Units))
	for _, name := range req.Units {
		def, ok := faction[name]
		if !ok {
			return invalid("units", ErrUnknownUnit, "%q in %s", name, req.Faction)
		}
		if seen[name] {
			return invalid("units", ErrDuplicateUnit, "%q", name)
		}
		seen[name] = true

		level, ok := req.Levels[name]
		if !ok {
			return invalid("levels", ErrMissingLevel, "%q", name)
		}
		if level < 1 || level > def.MaxLevel() {
			return invalid("levels", ErrLevelOutOfRange, "%q level %d not in [1, %d]", name, level, def.MaxLevel())
		}

		ceiling, ok := req.Ceilings[name]
		if !ok {
			return invalid("ceilings", ErrMissingCeiling, "%q", name)
		}
		if ceiling < 0 {
			return invalid("ceilings", ErrNegativeCeiling, "%q has %d", name, ceiling)
		}
	}

	for _, name := range req.Defense.SortedNames() {
		if count := req.Defense[name]; count < 0 {
			return invalid("defense", ErrNegativeDefender, "%q has %d", name, count)
		}
	}

	if req.ArmySizePenalty < 0 {
		return invalid("army_size_penalty_coefficient", ErrNegativeCoefficient, "%g", req.ArmySizePenalty)
	}
	if req.CavalryPenalty < 0 {
		return invalid("cavalry_penalty_coefficient", ErrNegativeCoefficient, "%g", req.CavalryPenalty)
	}
	if req.Budget < 1 {
		return invalid("evaluation_budget", ErrInvalidBudget, "got %d", req.Budget)
	}

	return nil
}
