package main

import (
	"bitbucket.org/mcfit/mcfit/optimize"
)

// ModelSummary stores the aggregate result of one candidate model.
type ModelSummary struct {
	// Name is the model name.
	Name string `json:"name"`
	// NParameters is the number of free parameters.
	NParameters int `json:"nParameters"`
	// Cost is the aggregate cost over all conditions.
	Cost float64 `json:"cost"`
	// Penalty is the aggregate complexity penalty.
	Penalty float64 `json:"penalty"`
	// LogLikelihood is -(cost+penalty).
	LogLikelihood float64 `json:"logLikelihood"`
}

// ConditionFit stores the selected model's fit for one condition.
type ConditionFit struct {
	// Parameters are the best-fit parameter values.
	Parameters []float64 `json:"parameters"`
	// Cost is half chi-square at the best fit.
	Cost float64 `json:"cost"`
	// Penalty is the parameter-prior penalty at the best fit.
	Penalty float64 `json:"penalty"`
	// Optimizer summarizes the optimizer run.
	Optimizer optimize.Summary `json:"optimizer"`
}

// RunSummary stores summary information of a whole sweep.
type RunSummary struct {
	// Version stores mcfit version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Seed is the seed used for random number generation initialization.
	Seed int64 `json:"seed"`
	// NThreads is the number of processes used.
	NThreads int `json:"nThreads"`
	// Conditions is the number of fitted conditions.
	Conditions int `json:"conditions"`
	// Models are the swept models in sweep order.
	Models []ModelSummary `json:"models"`
	// Best is the selected model name.
	Best string `json:"best,omitempty"`
	// BestFits are the selected model's per-condition fits, in
	// condition order.
	BestFits []ConditionFit `json:"bestFits,omitempty"`
	// Done marks a completed sweep.
	Done bool `json:"done"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
}
