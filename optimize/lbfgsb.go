package optimize

import (
	"math"

	lbfgsb "github.com/idavydov/go-lbfgsb"
)

// boundsEps is a margin preventing evaluations exactly at the bounds.
const boundsEps = 1e-5

// LBFGSB is a limited-memory Broyden-Fletcher-Goldfarb-Shanno
// optimizer with bounding constraints.
type LBFGSB struct {
	BaseOptimizer
	dH   float64
	grad []float64
}

// NewLBFGSB creates a new LBFGSB optimizer.
func NewLBFGSB() (l *LBFGSB) {
	l = &LBFGSB{
		dH: 1e-6,
	}
	l.method = "lbfgsb"
	l.repPeriod = 10
	return
}

// Logger reports optimization progress to the trajectory output.
func (l *LBFGSB) Logger(info *lbfgsb.OptimizationIterationInformation) {
	l.i = info.Iteration
	if err := l.parameters.SetValues(info.X); err != nil {
		log.Error(err)
		return
	}
	if l.i%l.repPeriod == 0 {
		l.PrintLine(l.parameters, -info.F)
	}
	if l.stopped() {
		log.Warning("Cannot interrupt LBFGS-B, will stop after the current optimization")
	}
}

// EvaluateFunction evaluates the negative likelihood for a point.
func (l *LBFGSB) EvaluateFunction(x []float64) float64 {
	if !l.parameters.ValuesInRange(x) {
		return math.Inf(+1)
	}

	if err := l.parameters.SetValues(x); err != nil {
		panic(err)
	}

	L := l.Likelihood()
	l.calls++
	l.saveMax(l.parameters, L)
	return -L
}

// EvaluateGradient computes the gradient of the negative likelihood
// numerically using the central difference method.
func (l *LBFGSB) EvaluateGradient(x []float64) (grad []float64) {
	if l.grad == nil {
		l.grad = make([]float64, len(x))
	}
	grad = l.grad

	no := l.Optimizable.Copy()
	par := no.GetFloatParameters()

	for i := range x {
		if err := par.SetValues(x); err != nil {
			panic(err)
		}

		par[i].Set(x[i] - l.dH)
		l1 := -no.Likelihood()

		par[i].Set(x[i] + l.dH)
		l2 := -no.Likelihood()

		l.calls += 2
		grad[i] = (l2 - l1) / 2 / l.dH
	}
	return
}

// Run starts the optimization.
func (l *LBFGSB) Run(iterations int) {
	l.maxL = math.Inf(-1)
	l.PrintHeader(l.parameters)

	bounds := make([][2]float64, len(l.parameters))
	for i, par := range l.parameters {
		bounds[i][0] = par.GetMin() + boundsEps
		bounds[i][1] = par.GetMax() - boundsEps
	}

	opt := new(lbfgsb.Lbfgsb)
	opt.SetApproximationSize(10)
	opt.SetFTolerance(1e-9)
	opt.SetGTolerance(1e-9)

	opt.SetBounds(bounds)
	opt.SetLogger(l.Logger)

	_, exitStatus := opt.Minimize(l, l.parameters.Values(nil))

	log.Info("Exit status: ", exitStatus)

	// leave the best point in the parameters
	if len(l.maxLPar) == len(l.parameters) {
		if err := l.parameters.SetValues(l.maxLPar); err != nil {
			log.Error(err)
		}
	}

	log.Info("Finished LBFGS-B")
	log.Noticef("Maximum likelihood: %v", l.maxL)
	log.Infof("Likelihood function calls: %v", l.calls)
	log.Infof("Parameter  names: %v", l.parameters.NamesString())
	log.Infof("Parameter values: %v", l.parameters.ValuesString())
	l.PrintFinal(l.parameters)
}
