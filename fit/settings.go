package fit

import (
	"fmt"
	"io"

	"bitbucket.org/mcfit/mcfit/optimize"
)

// Default settings values.
const (
	defaultIterations   = 10000
	defaultReportPeriod = 10
	defaultPriorSigma   = 10
	defaultParamBound   = 1e4
	defaultCutoff       = 0.95
	defaultStopWindow   = 3
)

// Settings stores configuration for a fitting problem. The same
// settings are shared by all conditions of a multiple-condition
// problem.
type Settings struct {
	// Method is the optimization method name.
	Method string
	// Iterations is the maximum number of optimizer iterations.
	Iterations int
	// ReportPeriod is the number of iterations between reports.
	ReportPeriod int
	// Seed is the random generator seed for stochastic methods.
	Seed int64
	// PriorSigma is the standard deviation of the normal parameter
	// prior which produces the complexity penalty.
	PriorSigma float64
	// ParamBound bounds the absolute parameter values.
	ParamBound float64
	// Cutoff is the goodness-of-fit significance level.
	Cutoff float64
	// StopWindow is the number of most recent models inspected by
	// the early-stopping rule.
	StopWindow int
	// Randomize starts every fit from random parameter values
	// instead of extending the previous fit.
	Randomize bool
	// StartLine holds whitespace-separated starting parameter
	// values for the first model of the sweep.
	StartLine string
	// Verbose enables per-model fit reporting.
	Verbose bool
	// TrajOutput is an optional writer for optimization trajectories.
	TrajOutput io.Writer
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Method:       "lbfgsb",
		Iterations:   defaultIterations,
		ReportPeriod: defaultReportPeriod,
		PriorSigma:   defaultPriorSigma,
		ParamBound:   defaultParamBound,
		Cutoff:       defaultCutoff,
		StopWindow:   defaultStopWindow,
	}
}

// Copy creates a copy of the settings.
func (s *Settings) Copy() *Settings {
	newS := *s
	return &newS
}

// getOptimizer returns an optimizer from the settings.
func (s *Settings) getOptimizer() (optimize.Optimizer, error) {
	switch s.Method {
	case "lbfgsb":
		return optimize.NewLBFGSB(), nil
	case "simplex":
		return optimize.NewDS(), nil
	case "mh":
		chain := optimize.NewMH(false, 0)
		return chain, nil
	case "annealing":
		chain := optimize.NewMH(true, s.Iterations/5)
		return chain, nil
	case "mayfly":
		return optimize.NewMayfly(s.Seed), nil
	case "none":
		return optimize.NewNone(), nil
	}
	return nil, fmt.Errorf("unknown optimization method: %s", s.Method)
}
