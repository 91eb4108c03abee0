package raid

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/napolitain/solver-oasis/internal/combat"
	"github.com/napolitain/solver-oasis/internal/models"
	"github.com/napolitain/solver-oasis/internal/solver/anneal"
)

// Solver optimizes raid armies against a fixed roster and defender catalog.
// It holds no per-request state and is safe for concurrent use.
type Solver struct {
	roster    models.Roster
	catalog   models.DefenderCatalog
	minimizer anneal.Minimizer
}

// NewSolver creates a solver backed by integral dual annealing
func NewSolver(roster models.Roster, catalog models.DefenderCatalog) *Solver {
	da := anneal.NewDualAnnealing()
	da.LocalStep = 1
	da.Integral = true

	return &Solver{
		roster:    roster,
		catalog:   catalog,
		minimizer: da,
	}
}

// WithMinimizer swaps the search algorithm
func (s *Solver) WithMinimizer(m anneal.Minimizer) *Solver {
	s.minimizer = m
	return s
}

// Roster returns the unit catalog the solver was built with
func (s *Solver) Roster() models.Roster {
	return s.roster
}

// Catalog returns the defender catalog the solver was built with
func (s *Solver) Catalog() models.DefenderCatalog {
	return s.catalog
}

// Optimize validates the request and runs one seeded search
func (s *Solver) Optimize(req *models.AttackRequest) (*models.OptimizationResult, error) {
	if err := models.ValidateAttackRequest(s.roster, req); err != nil {
		return nil, err
	}
	return s.run(req, req.Seed), nil
}

// OptimizeContext is Optimize bounded by ctx. The search runs in its own
// goroutine; when ctx ends first the wrapped ctx.Err() is returned and the
// abandoned run finishes in the background.
func (s *Solver) OptimizeContext(ctx context.Context, req *models.AttackRequest) (*models.OptimizationResult, error) {
	if err := models.ValidateAttackRequest(s.roster, req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	done := make(chan *models.OptimizationResult, 1)
	go func() {
		done <- s.run(req, req.Seed)
	}()

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("optimize: %w", ctx.Err())
	}
}

// OptimizeRestarts runs independent searches seeded req.Seed, req.Seed+1, ...
// on a bounded worker pool and keeps the lowest score. Ties go to the lowest
// seed so the outcome does not depend on scheduling. Evaluations is the total
// over all runs. When ctx ends before every run has finished the wrapped
// ctx.Err() is returned.
func (s *Solver) OptimizeRestarts(ctx context.Context, req *models.AttackRequest, restarts int) (*models.OptimizationResult, error) {
	if err := models.ValidateAttackRequest(s.roster, req); err != nil {
		return nil, err
	}
	if restarts < 1 {
		restarts = 1
	}

	workers := runtime.NumCPU()
	if workers > restarts {
		workers = restarts
	}

	results := make([]*models.OptimizationResult, restarts)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.run(req, req.Seed+int64(i))
			}
		}()
	}

	fed := 0
feed:
	for fed < restarts && ctx.Err() == nil {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- fed:
			fed++
		}
	}
	close(jobs)

	if fed < restarts {
		return nil, fmt.Errorf("optimize restarts: %d of %d runs started: %w", fed, restarts, ctx.Err())
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		return nil, fmt.Errorf("optimize restarts: %w", ctx.Err())
	}

	best := results[0]
	total := 0
	for _, r := range results {
		total += r.Evaluations
		if r.ObjectiveScore < best.ObjectiveScore {
			best = r
		}
	}
	best.Evaluations = total
	return best, nil
}

func (s *Solver) run(req *models.AttackRequest, seed int64) *models.OptimizationResult {
	faction := s.roster[req.Faction]
	objective := Objective(faction, s.catalog, req)

	res := s.minimizer.Minimize(objective, Bounds(req), req.Budget, seed)

	army := models.NewArmy(req.Units)
	for i, name := range req.Units {
		army.Counts[i] = clampCount(res.X[i], req.Ceilings[name])
	}

	loss := combat.LossPercentage(faction, s.catalog, req.Defense, req.Levels, army.Map())
	losses, lostResources := ExpectedLosses(faction, army, loss)

	return &models.OptimizationResult{
		BestCounts:            army.Map(),
		ObjectiveScore:        Cost(faction, s.catalog, req, army.Counts),
		LossPercent:           loss,
		ExpectedLosses:        losses,
		TotalResourceCostLost: lostResources,
		Evaluations:           res.Evaluations,
		Seed:                  seed,
	}
}

func clampCount(v float64, ceiling int) int {
	n := int(math.RoundToEven(v))
	if n < 0 {
		return 0
	}
	if n > ceiling {
		return ceiling
	}
	return n
}
