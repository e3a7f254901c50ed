package optimize

import (
	"math"
	"testing"

	"github.com/op/go-logging"
)

// optTol is the tolerance for optimizer convergence tests.
const optTol = 1e-3

func init() {
	logging.SetLevel(logging.WARNING, "optimize")
}

// parabola is a simple test function with a known maximum at center.
type parabola struct {
	center []float64
	theta  []float64
	pars   FloatParameters
}

func newParabola(center []float64) (p *parabola) {
	p = &parabola{
		center: center,
		theta:  make([]float64, len(center)),
	}
	for i := range p.theta {
		par := NewBasicFloatParameter(&p.theta[i], "x"+string(rune('0'+i)))
		par.SetMin(-100)
		par.SetMax(100)
		p.pars.Append(par)
	}
	return
}

func (p *parabola) GetFloatParameters() FloatParameters {
	return p.pars
}

func (p *parabola) Copy() Optimizable {
	newP := newParabola(p.center)
	copy(newP.theta, p.theta)
	return newP
}

func (p *parabola) Likelihood() (res float64) {
	for i, c := range p.center {
		d := p.theta[i] - c
		res -= d * d
	}
	return
}

func TestSimplexParabola(tst *testing.T) {
	p := newParabola([]float64{2, -1})
	ds := NewDS()
	ds.Quiet = true
	ds.SetOptimizable(p)
	ds.Run(1000)

	maxL := ds.GetMaxLikelihood()
	tst.Log("L=", maxL)
	if math.Abs(maxL) > optTol {
		tst.Error("Expected L close to 0, got", maxL)
	}

	par := ds.GetMaxLikelihoodParameters()
	if math.Abs(par["x0"]-2) > optTol || math.Abs(par["x1"]+1) > optTol {
		tst.Error("Incorrect maximum position:", par)
	}
}

func TestNoneParabola(tst *testing.T) {
	p := newParabola([]float64{1})
	none := NewNone()
	none.Quiet = true
	none.SetOptimizable(p)
	none.Run(100)

	// starting point is 0, so L = -1
	if math.Abs(none.GetMaxLikelihood()+1) > optTol {
		tst.Error("Expected L=-1, got", none.GetMaxLikelihood())
	}
}

func TestMHParabola(tst *testing.T) {
	if testing.Short() {
		tst.Skip("skipping test in short mode.")
	}
	p := newParabola([]float64{0.5})
	mcmc := NewMH(true, 100)
	mcmc.Quiet = true
	mcmc.SetOptimizable(p)

	startL := p.Likelihood()
	mcmc.Run(2000)

	// annealing can only improve on the starting point
	if mcmc.GetMaxLikelihood() < startL {
		tst.Error("Expected maxL >= starting L, got", mcmc.GetMaxLikelihood(), startL)
	}
}
