package optimize

import (
	"math"
	"math/rand"
)

// MH is a Metropolis-Hastings sampler. With annealing enabled it
// works as a simulated annealing optimizer.
type MH struct {
	BaseOptimizer
	// AccPeriod is the number of iterations between acceptance-rate
	// reports.
	AccPeriod int
	annealing bool
	// iterations to skip before annealing starts
	annealingSkip int
}

// NewMH creates a new Metropolis-Hastings sampler.
func NewMH(annealing bool, annealingSkip int) (mcmc *MH) {
	mcmc = &MH{
		AccPeriod:     200,
		annealing:     annealing,
		annealingSkip: annealingSkip,
	}
	if annealing {
		mcmc.method = "annealing"
	} else {
		mcmc.method = "mh"
	}
	mcmc.repPeriod = 10
	return
}

// Run starts sampling.
func (m *MH) Run(iterations int) {
	m.maxL = math.Inf(-1)
	l := m.Likelihood()
	m.calls++
	m.saveMax(m.parameters, l)
	m.PrintHeader(m.parameters)
	accepted := 0
Iter:
	for m.i = 0; m.i < iterations; m.i++ {
		var T float64
		if m.annealing && m.i >= m.annealingSkip {
			T = math.Pow(0.9, float64(m.i-m.annealingSkip)/float64(iterations-m.annealingSkip)*100)
		} else {
			T = 1
		}

		if m.i > 0 && m.i%m.AccPeriod == 0 {
			log.Infof("Acceptance rate %.2f%%", 100*float64(accepted)/float64(m.AccPeriod))
			accepted = 0
		}

		if m.i%m.repPeriod == 0 {
			if m.annealing {
				log.Debugf("%d: L=%f, T=%f", m.i, l, T)
			} else {
				log.Debugf("%d: L=%f", m.i, l)
			}
			m.PrintLine(m.parameters, l)
		}

		p := rand.Intn(len(m.parameters))
		par := m.parameters[p]
		par.Propose()
		newL := m.Likelihood()
		m.calls++

		var a float64
		if m.annealing {
			a = math.Exp((newL - l) / T)
		} else {
			a = math.Exp(par.Prior() - par.OldPrior() + newL - l)
		}

		if a > 1 || rand.Float64() < a {
			l = newL
			par.Accept(m.i)
			accepted++
			m.saveMax(m.parameters, l)
		} else {
			par.Reject()
		}

		if m.stopped() {
			break Iter
		}
	}

	m.l = l
	log.Info("Finished sampling")
	log.Noticef("Maximum likelihood: %v", m.maxL)
	m.PrintFinal(m.parameters)
}
