// Package api is the transport independent entry point shared by the HTTP
// server, the Lambda handler and the CLI JSON output
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/napolitain/solver-oasis/internal/converter"
	"github.com/napolitain/solver-oasis/internal/loader"
	"github.com/napolitain/solver-oasis/internal/models"
	"github.com/napolitain/solver-oasis/internal/solver/raid"
)

// Limits applied to remote requests
const (
	DefaultMaxBudget   = 100_000
	DefaultMaxRestarts = 32
)

var (
	ErrBudgetTooLarge  = errors.New("evaluation budget above server limit")
	ErrTooManyRestarts = errors.New("restarts above server limit")
)

// Service answers optimization and catalog queries
type Service struct {
	solver      *raid.Solver
	MaxBudget   int
	MaxRestarts int
}

// NewService wraps a solver with the default request limits
func NewService(solver *raid.Solver) *Service {
	return &Service{
		solver:      solver,
		MaxBudget:   DefaultMaxBudget,
		MaxRestarts: DefaultMaxRestarts,
	}
}

// Optimize converts, validates and runs a wire request
func (s *Service) Optimize(ctx context.Context, in converter.OptimizeRequest) (converter.OptimizeResponse, error) {
	req, restarts := converter.RequestToModel(in)

	if s.MaxBudget > 0 && req.Budget > s.MaxBudget {
		return converter.OptimizeResponse{}, &models.ValidationError{
			Field: "max_iter",
			Err:   fmt.Errorf("%w: %d > %d", ErrBudgetTooLarge, req.Budget, s.MaxBudget),
		}
	}
	if s.MaxRestarts > 0 && restarts > s.MaxRestarts {
		return converter.OptimizeResponse{}, &models.ValidationError{
			Field: "restarts",
			Err:   fmt.Errorf("%w: %d > %d", ErrTooManyRestarts, restarts, s.MaxRestarts),
		}
	}

	var (
		res *models.OptimizationResult
		err error
	)
	if restarts > 1 {
		res, err = s.solver.OptimizeRestarts(ctx, req, restarts)
	} else {
		res, err = s.solver.OptimizeContext(ctx, req)
	}
	if err != nil {
		return converter.OptimizeResponse{}, err
	}
	return converter.ResultToResponse(res), nil
}

// Roster lists every faction's units
func (s *Service) Roster() map[string][]converter.UnitInfo {
	return converter.RosterToResponse(s.solver.Roster())
}

// Oasis lists the known oasis animals
func (s *Service) Oasis() []converter.DefenderInfo {
	return converter.CatalogToResponse(s.solver.Catalog())
}

// ParseOasis turns a pasted oasis report into a composition
func (s *Service) ParseOasis(in converter.ParseOasisRequest) converter.ParseOasisResponse {
	composition := loader.ParseOasisText(in.Text, s.solver.Catalog())
	return converter.ParseOasisResponse{
		OasisComposition: composition,
		Total:            composition.Total(),
	}
}

// ErrorStatus maps an error to an HTTP status and response body.
// Validation failures are the caller's fault and name the field.
func ErrorStatus(err error) (int, converter.ErrorResponse) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, converter.ErrorResponse{Error: verr.Error(), Field: verr.Field}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, converter.ErrorResponse{Error: err.Error()}
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, converter.ErrorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, converter.ErrorResponse{Error: err.Error()}
	}
}
