package mcond

import (
	"bitbucket.org/mcfit/mcfit/dataset"
)

// Engine fits candidate model structures to the data of a single
// condition. Per-model results are addressed by model name; a name is
// present only after the engine fit the model.
type Engine interface {
	// Fit fits every not-yet-fit model among the first maxModels
	// candidates, reusing earlier fits.
	Fit(maxModels int) error
	// ModelNames returns the candidate model names in sweep order.
	ModelNames() []string
	// IndepParamNames returns the independent-parameter names.
	IndepParamNames() []string
	// Cutoff returns the goodness-of-fit significance level.
	Cutoff() float64
	// Verbose returns the verbosity flag.
	Verbose() bool
	// StopWindow returns the early-stopping window size.
	StopWindow() int
	// Cost returns the fit cost for a model name.
	Cost(name string) (float64, bool)
	// Penalty returns the complexity penalty for a model name.
	Penalty(name string) (float64, bool)
	// NumParameters returns the parameter count for a model name.
	NumParameters(name string) (int, bool)
	// FittedModel returns the best fit for a model name.
	FittedModel(name string) (interface{}, bool)
	// HasGroundTruth returns true if the condition knows the model
	// which generated its data.
	HasGroundTruth() bool
	// FitGroundTruth fits the ground-truth model.
	FitGroundTruth() error
	// Plot renders every fitted model under a file-name prefix.
	Plot(prefix string) error
	// PlotModel renders the fit of one model into a file.
	PlotModel(name, filename string) error
}

// EngineFactory creates the fitting engine of one condition. indep
// holds the independent-parameter settings of the condition, one per
// data series; nil means no independent parameters.
type EngineFactory func(data *dataset.Dataset, indep [][]float64) (Engine, error)
