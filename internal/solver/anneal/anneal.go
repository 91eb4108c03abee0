// Package anneal implements generalized simulated annealing over a bounded box.
//
// The search combines a Tsallis-Stariolo visiting distribution with a
// generalized Metropolis acceptance rule. Runs are fully determined by the
// seed, and a run with a smaller iteration budget is a prefix of a run with
// a larger one.
package anneal

import (
	"math"
	"math/rand"
)

const (
	tailLimit       = 1e8
	minVisitBound   = 1e-10
	maxReinitCount  = 1000
	notImprovedMax  = 1000
	defaultMaxEvals = 10_000_000
)

// Bounds is a closed interval for one coordinate
type Bounds struct {
	Lower float64
	Upper float64
}

// Width returns Upper - Lower
func (b Bounds) Width() float64 {
	return b.Upper - b.Lower
}

// Objective is a function to minimize. It may return +Inf for infeasible points.
type Objective func(x []float64) float64

// Result is the best point found by a minimizer
type Result struct {
	X           []float64
	Cost        float64
	Evaluations int
	Iterations  int
}

// Minimizer searches a box for the lowest value of an objective.
// budget is the number of outer iterations, seed fixes the random stream.
type Minimizer interface {
	Minimize(f Objective, bounds []Bounds, budget int, seed int64) Result
}

// DualAnnealing is a generalized simulated annealing minimizer
type DualAnnealing struct {
	InitialTemp      float64 // starting temperature
	Visit            float64 // visiting distribution parameter qv, in (1, 3)
	Accept           float64 // acceptance parameter qa, below 1
	RestartTempRatio float64 // restart once temperature falls below InitialTemp*ratio
	MaxEvaluations   int     // hard cap on objective calls, <= 0 means unlimited

	// LocalStep enables a coordinate polish with this step after every
	// iteration that improved the best point. 0 disables it.
	LocalStep float64
	// Integral evaluates and reports points with every coordinate rounded
	// half to even.
	Integral bool
}

// NewDualAnnealing returns a minimizer with the usual GSA parameters
func NewDualAnnealing() *DualAnnealing {
	return &DualAnnealing{
		InitialTemp:      5230,
		Visit:            2.62,
		Accept:           -5.0,
		RestartTempRatio: 2e-5,
		MaxEvaluations:   defaultMaxEvals,
	}
}

// Minimize runs the annealing for budget iterations
func (d *DualAnnealing) Minimize(f Objective, bounds []Bounds, budget int, seed int64) Result {
	r := newRun(d, f, bounds, seed)

	if len(r.free) == 0 {
		// Every coordinate is pinned, there is only one point to look at
		r.eval(r.current)
		return r.result(0)
	}

	r.reset()

	t1 := math.Exp((d.Visit-1)*math.Ln2) - 1
	restartTemp := d.InitialTemp * d.RestartTempRatio

	iteration := 0
	for iteration < budget && !r.exhausted() {
		for step := 0; iteration < budget && !r.exhausted(); step++ {
			s := float64(step) + 2
			t2 := math.Exp((d.Visit-1)*math.Log(s)) - 1
			temp := d.InitialTemp * t1 / t2

			if temp < restartTemp {
				r.reset()
				break
			}

			improved := r.chain(step, temp)
			iteration++

			if improved && d.LocalStep > 0 && !r.exhausted() {
				r.polish()
			}
		}
	}

	return r.result(iteration)
}

// run holds the state of one Minimize call
type run struct {
	cfg    *DualAnnealing
	f      Objective
	bounds []Bounds
	free   []int
	rng    *rand.Rand
	visit  visitor

	evals       int
	current     []float64
	currentCost float64
	best        []float64
	bestCost    float64
	notImproved int
}

func newRun(d *DualAnnealing, f Objective, bounds []Bounds, seed int64) *run {
	r := &run{
		cfg:         d,
		f:           f,
		bounds:      bounds,
		rng:         rand.New(rand.NewSource(seed)),
		current:     make([]float64, len(bounds)),
		best:        make([]float64, len(bounds)),
		currentCost: math.Inf(1),
		bestCost:    math.Inf(1),
	}
	r.visit = newVisitor(d.Visit, r.rng)

	for i, b := range bounds {
		r.current[i] = b.Lower
		if b.Width() > 0 {
			r.free = append(r.free, i)
		}
	}
	copy(r.best, r.current)
	return r
}

func (r *run) exhausted() bool {
	return r.cfg.MaxEvaluations > 0 && r.evals >= r.cfg.MaxEvaluations
}

// eval calls the objective and tracks the best point ever seen.
// It returns false once the evaluation cap is reached.
func (r *run) eval(x []float64) (float64, bool) {
	if r.exhausted() {
		return math.Inf(1), false
	}
	r.evals++

	point := x
	if r.cfg.Integral {
		point = roundAll(x)
	}
	cost := r.f(point)
	if math.IsNaN(cost) {
		cost = math.Inf(1)
	}

	if cost < r.bestCost {
		r.bestCost = cost
		copy(r.best, x)
	}
	return cost, true
}

// reset moves the annealed position to a uniform random point,
// retrying while the objective is not finite
func (r *run) reset() {
	for attempt := 0; attempt < maxReinitCount; attempt++ {
		for _, i := range r.free {
			b := r.bounds[i]
			r.current[i] = b.Lower + r.rng.Float64()*b.Width()
		}
		cost, ok := r.eval(r.current)
		r.currentCost = cost
		if !ok || !math.IsInf(cost, 0) {
			return
		}
	}
}

// chain performs the 2*dim visits of one iteration and reports whether
// the best point improved
func (r *run) chain(step int, temp float64) bool {
	tempStep := temp / float64(step+1)
	// The first iteration after a (re)start always counts as an improvement
	improved := step == 0
	r.notImproved++

	dim := len(r.free)
	candidate := make([]float64, len(r.current))

	for j := 0; j < 2*dim; j++ {
		r.propose(candidate, j, temp)

		bestBefore := r.bestCost
		cost, ok := r.eval(candidate)
		if !ok {
			return improved
		}

		if cost < r.currentCost {
			r.moveTo(candidate, cost)
			if cost < bestBefore {
				improved = true
				r.notImproved = 0
			}
		} else if r.acceptWorse(cost, tempStep) {
			r.moveTo(candidate, cost)
		}

		// Long stretches without progress go back to the best point
		if r.notImproved >= notImprovedMax && (j == 0 || r.currentCost > r.bestCost) {
			r.moveTo(r.best, r.bestCost)
			r.notImproved = 0
		}
	}
	return improved
}

func (r *run) moveTo(x []float64, cost float64) {
	copy(r.current, x)
	r.currentCost = cost
}

// acceptWorse applies the generalized Metropolis rule
func (r *run) acceptWorse(cost, tempStep float64) bool {
	u := r.rng.Float64()
	if math.IsInf(cost, 1) {
		return false
	}

	qa := r.cfg.Accept
	pqvTemp := 1 - (1-qa)*(cost-r.currentCost)/tempStep
	pqv := 0.0
	if pqvTemp > 0 {
		pqv = math.Exp(math.Log(pqvTemp) / (1 - qa))
	}
	return u <= pqv
}

// propose writes the j-th visit of an iteration into dst. The first dim
// visits move every free coordinate, the next dim move one coordinate each.
func (r *run) propose(dst []float64, j int, temp float64) {
	copy(dst, r.current)
	dim := len(r.free)

	if j < dim {
		steps := r.visit.draw(dim, temp)
		upper, lower := r.rng.Float64(), r.rng.Float64()
		for k, i := range r.free {
			dst[i] = r.wrap(i, r.current[i]+clampTail(steps[k], upper, lower))
		}
		return
	}

	i := r.free[j-dim]
	step := r.visit.draw(1, temp)[0]
	var u float64
	if math.Abs(step) > tailLimit {
		u = r.rng.Float64()
	}
	dst[i] = r.wrap(i, r.current[i]+clampTail(step, u, u))
}

// wrap folds a coordinate back into its bounds
func (r *run) wrap(i int, v float64) float64 {
	b := r.bounds[i]
	width := b.Width()
	a := v - b.Lower
	v = math.Mod(math.Mod(a, width)+width, width) + b.Lower
	if math.Abs(v-b.Lower) < minVisitBound {
		v += minVisitBound
	}
	return v
}

// polish runs a coordinate descent with a fixed step from the best point
// and moves the annealed position to its outcome
func (r *run) polish() {
	step := r.cfg.LocalStep
	x := make([]float64, len(r.best))
	copy(x, r.best)
	cost := r.bestCost

	if r.cfg.Integral {
		for _, i := range r.free {
			x[i] = r.clip(i, math.RoundToEven(x[i]))
		}
		c, ok := r.eval(x)
		if !ok {
			return
		}
		cost = c
	}

	trial := make([]float64, len(x))
	for {
		improved := false
		for _, i := range r.free {
			for _, delta := range [2]float64{-step, step} {
				v := x[i] + delta
				if v < r.bounds[i].Lower || v > r.bounds[i].Upper {
					continue
				}
				copy(trial, x)
				trial[i] = v

				c, ok := r.eval(trial)
				if !ok {
					r.settle(x, cost)
					return
				}
				if c < cost {
					copy(x, trial)
					cost = c
					improved = true
					break
				}
			}
		}
		if !improved {
			break
		}
	}
	r.settle(x, cost)
}

func (r *run) settle(x []float64, cost float64) {
	if cost <= r.bestCost {
		r.moveTo(x, cost)
		r.notImproved = 0
	}
}

func (r *run) clip(i int, v float64) float64 {
	return math.Max(r.bounds[i].Lower, math.Min(r.bounds[i].Upper, v))
}

func (r *run) result(iterations int) Result {
	x := make([]float64, len(r.best))
	copy(x, r.best)
	if r.cfg.Integral {
		x = roundAll(x)
	}
	return Result{
		X:           x,
		Cost:        r.bestCost,
		Evaluations: r.evals,
		Iterations:  iterations,
	}
}

func clampTail(v, upper, lower float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > tailLimit:
		return tailLimit * upper
	case v < -tailLimit:
		return -tailLimit * lower
	}
	return v
}

func roundAll(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.RoundToEven(v)
	}
	return out
}
