package optimize

import (
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// defaultMayflyBound replaces infinite parameter bounds; the mayfly
// library supports scalar bounds only.
const defaultMayflyBound = 100

// Mayfly is a population-based metaheuristic optimizer. It is useful
// as a global method when good starting values are not known.
type Mayfly struct {
	BaseOptimizer
	// PopSize is the population size.
	PopSize int
	seed    int64
}

// NewMayfly creates a new Mayfly optimizer.
func NewMayfly(seed int64) (m *Mayfly) {
	m = &Mayfly{
		PopSize: 20,
		seed:    seed,
	}
	m.method = "mayfly"
	m.repPeriod = 10
	return
}

// Run starts the optimization.
func (m *Mayfly) Run(iterations int) {
	m.maxL = math.Inf(-1)
	m.PrintHeader(m.parameters)

	// the library supports a single scalar bound for all dimensions
	lower := math.Inf(+1)
	upper := math.Inf(-1)
	for _, par := range m.parameters {
		lower = math.Min(lower, par.GetMin())
		upper = math.Max(upper, par.GetMax())
	}
	if math.IsInf(lower, 0) {
		lower = -defaultMayflyBound
	}
	if math.IsInf(upper, 0) {
		upper = defaultMayflyBound
	}

	config := mayfly.NewDefaultConfig()
	config.ProblemSize = len(m.parameters)
	config.MaxIterations = iterations
	config.NPop = m.PopSize
	config.LowerBound = lower
	config.UpperBound = upper
	config.Rand = rand.New(rand.NewSource(m.seed))
	config.ObjectiveFunc = func(x []float64) float64 {
		if !m.parameters.ValuesInRange(x) {
			return math.Inf(+1)
		}
		if err := m.parameters.SetValues(x); err != nil {
			panic(err)
		}
		L := m.Likelihood()
		m.calls++
		m.saveMax(m.parameters, L)
		return -L
	}

	result, err := mayfly.Optimize(config)
	if err != nil {
		log.Error("Mayfly optimization error: ", err)
		return
	}
	m.i = iterations

	if err := m.parameters.SetValues(result.GlobalBest.Position); err != nil {
		log.Error(err)
	}
	m.l = -result.GlobalBest.Cost
	m.saveMax(m.parameters, m.l)

	log.Info("Finished mayfly")
	log.Noticef("Maximum likelihood: %v", m.maxL)
	log.Infof("Likelihood function calls: %v", m.calls)
	m.PrintFinal(m.parameters)
}
