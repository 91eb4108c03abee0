package anneal

import (
	"math"
	"math/rand"
)

// visitor draws steps from the Tsallis-Stariolo distribution.
// Temperature independent factors are computed once.
type visitor struct {
	qv      float64
	rng     *rand.Rand
	factor4 float64 // without the temperature term
	factor6 float64
}

func newVisitor(qv float64, rng *rand.Rand) visitor {
	f2 := math.Exp((4 - qv) * math.Log(qv-1))
	f3 := math.Exp((2 - qv) * math.Ln2 / (qv - 1))
	f4 := math.Sqrt(math.Pi) * f2 / (f3 * (3 - qv))
	f5 := 1/(qv-1) - 0.5
	d1 := 2 - f5
	lg, _ := math.Lgamma(d1)
	f6 := math.Pi * (1 - f5) / math.Sin(math.Pi*(1-f5)) / math.Exp(lg)

	return visitor{qv: qv, rng: rng, factor4: f4, factor6: f6}
}

// draw returns n independent steps at the given temperature
func (v visitor) draw(n int, temp float64) []float64 {
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = v.rng.NormFloat64()
	}
	for i := range y {
		y[i] = v.rng.NormFloat64()
	}

	factor1 := math.Exp(math.Log(temp) / (v.qv - 1))
	factor4 := v.factor4 * factor1
	sigma := math.Exp(-(v.qv - 1) * math.Log(v.factor6/factor4) / (3 - v.qv))

	out := make([]float64, n)
	for i := range out {
		den := math.Exp((v.qv - 1) * math.Log(math.Abs(y[i])) / (3 - v.qv))
		out[i] = sigma * x[i] / den
	}
	return out
}
