// Package optimize provides parameter optimizers for model fitting.
package optimize

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("optimize")

// Optimizable is something which can be optimized by an Optimizer.
type Optimizable interface {
	// GetFloatParameters returns the optimization parameters.
	GetFloatParameters() FloatParameters
	// Copy creates an independent copy of the Optimizable.
	Copy() Optimizable
	// Likelihood returns the value which is maximized.
	Likelihood() float64
}

// Optimizer is an optimization engine.
type Optimizer interface {
	// SetOptimizable sets a function to optimize.
	SetOptimizable(Optimizable)
	// SetReportPeriod sets the number of iterations between reports.
	SetReportPeriod(period int)
	// SetTrajectoryOutput sets an output writer for the trajectory.
	SetTrajectoryOutput(io.Writer)
	// WatchSignals installs signal watching to exit gracefully.
	WatchSignals(...os.Signal)
	// Run starts optimization for a given number of iterations.
	Run(iterations int)
	// GetMaxLikelihood returns the maximum likelihood value found.
	GetMaxLikelihood() float64
	// GetMaxLikelihoodParameters returns parameter values for the
	// maximum likelihood.
	GetMaxLikelihoodParameters() map[string]float64
	// Summary returns the optimization summary.
	Summary() Summary
}

// Summary stores optimization run information for the JSON output.
type Summary struct {
	// Method is the optimization method name.
	Method string `json:"method"`
	// MaxLnL is the maximum likelihood value.
	MaxLnL float64 `json:"maxLnL"`
	// MaxLParameters are the parameter values for the maximum likelihood.
	MaxLParameters map[string]float64 `json:"maxLParameters"`
	// Iterations is the number of iterations performed.
	Iterations int `json:"iterations"`
	// Calls is the number of likelihood function calls.
	Calls int `json:"likelihoodCalls"`
}

// BaseOptimizer contains basic data for an optimizer.
type BaseOptimizer struct {
	Optimizable
	parameters FloatParameters
	method     string
	i          int
	calls      int
	l          float64
	maxL       float64
	maxLPar    []float64
	repPeriod  int
	output     io.Writer
	sig        chan os.Signal
	Quiet      bool
}

// SetOptimizable sets a function to optimize.
func (o *BaseOptimizer) SetOptimizable(opt Optimizable) {
	o.Optimizable = opt
	o.parameters = opt.GetFloatParameters()
}

// WatchSignals installs signal watching.
func (o *BaseOptimizer) WatchSignals(sigs ...os.Signal) {
	o.sig = make(chan os.Signal, 1)
	signal.Notify(o.sig, sigs...)
}

// SetReportPeriod sets the number of iterations between reports.
func (o *BaseOptimizer) SetReportPeriod(period int) {
	o.repPeriod = period
}

// SetTrajectoryOutput sets an output writer for the trajectory.
func (o *BaseOptimizer) SetTrajectoryOutput(w io.Writer) {
	o.output = w
}

// stopped returns true if an exit signal was received.
func (o *BaseOptimizer) stopped() bool {
	select {
	case s := <-o.sig:
		log.Warningf("Received signal %v, exiting.", s)
		return true
	default:
	}
	return false
}

// saveMax updates maximum likelihood if the given value is larger.
func (o *BaseOptimizer) saveMax(par FloatParameters, l float64) {
	if l > o.maxL {
		o.maxL = l
		o.maxLPar = par.Values(o.maxLPar)
	}
}

// PrintHeader prints the trajectory header.
func (o *BaseOptimizer) PrintHeader(par FloatParameters) {
	if !o.Quiet && o.output != nil {
		fmt.Fprintf(o.output, "iteration\tlikelihood\t%s\n", par.NamesString())
	}
}

// PrintLine prints one line of the trajectory.
func (o *BaseOptimizer) PrintLine(par FloatParameters, l float64) {
	if !o.Quiet && o.output != nil {
		fmt.Fprintf(o.output, "%d\t%f\t%s\n", o.i, l, par.ValuesString())
	}
}

// PrintFinal prints the final parameter values.
func (o *BaseOptimizer) PrintFinal(par FloatParameters) {
	if !o.Quiet {
		for _, p := range par {
			log.Infof("%s=%v", p.Name(), p.Get())
		}
	}
}

// GetMaxLikelihood returns the maximum likelihood value found.
func (o *BaseOptimizer) GetMaxLikelihood() float64 {
	return o.maxL
}

// GetMaxLikelihoodParameters returns parameter values for the
// maximum likelihood.
func (o *BaseOptimizer) GetMaxLikelihoodParameters() map[string]float64 {
	res := make(map[string]float64, len(o.parameters))
	for i, par := range o.parameters {
		if i < len(o.maxLPar) {
			res[par.Name()] = o.maxLPar[i]
		}
	}
	return res
}

// Summary returns the optimization summary.
func (o *BaseOptimizer) Summary() Summary {
	return Summary{
		Method:         o.method,
		MaxLnL:         o.maxL,
		MaxLParameters: o.GetMaxLikelihoodParameters(),
		Iterations:     o.i,
		Calls:          o.calls,
	}
}
