// Package fit implements fitting of candidate model structures of
// increasing complexity to the data of a single experimental
// condition.
package fit

import (
	"errors"
	"fmt"

	"github.com/op/go-logging"

	"bitbucket.org/mcfit/mcfit/dataset"
	"bitbucket.org/mcfit/mcfit/dist"
	"bitbucket.org/mcfit/mcfit/model"
	"bitbucket.org/mcfit/mcfit/optimize"
)

// log is the global logging variable.
var log = logging.MustGetLogger("fit")

// Fitted is the best fit of one model structure to one condition.
type Fitted struct {
	// Model is the fitted model structure.
	Model model.Model
	// Parameters are the best-fit parameter values.
	Parameters []float64
	// Cost is half chi-square at the best fit.
	Cost float64
	// Penalty is the parameter-prior penalty at the best fit.
	Penalty float64
	// Optimizer summarizes the optimizer run which produced the
	// fit.
	Optimizer optimize.Summary
}

// Problem fits an ordered list of candidate model structures to the
// data of a single condition. Fit results are stored by model name;
// a name is present only after the model was fit.
type Problem struct {
	data     *dataset.Dataset
	indep    [][]float64
	models   []model.Model
	names    []string
	settings *Settings

	order   []string
	cost    map[string]float64
	penalty map[string]float64
	nparams map[string]int
	logL    map[string]float64
	fitted  map[string]*Fitted
	svals   map[string][]float64

	perfectModel  model.Model
	perfectParams []float64
	perfectFit    *Fitted

	done bool
}

// NewProblem creates a fitting problem for one condition. indep is
// the list of independent-parameter settings, one per data series;
// nil defaults to a single empty setting. settings may be nil for
// defaults; they are copied.
func NewProblem(data *dataset.Dataset, models []model.Model, indep [][]float64, settings *Settings) (*Problem, error) {
	if data == nil || len(data.Series) == 0 {
		return nil, errors.New("no data")
	}
	if len(models) == 0 {
		return nil, errors.New("empty candidate model list")
	}
	names := model.Names(models)
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("duplicate model name '%s'", name)
		}
		seen[name] = true
	}
	if indep == nil {
		indep = [][]float64{{}}
	}
	if settings == nil {
		settings = NewSettings()
	}
	return &Problem{
		data:     data,
		indep:    indep,
		models:   models,
		names:    names,
		settings: settings.Copy(),

		cost:    make(map[string]float64, len(models)),
		penalty: make(map[string]float64, len(models)),
		nparams: make(map[string]int, len(models)),
		logL:    make(map[string]float64, len(models)),
		fitted:  make(map[string]*Fitted, len(models)),
		svals:   make(map[string][]float64, len(models)),
	}, nil
}

// ModelNames returns the candidate model names in sweep order.
func (p *Problem) ModelNames() []string {
	names := make([]string, len(p.names))
	copy(names, p.names)
	return names
}

// IndepParamNames returns the names of the independent parameters.
func (p *Problem) IndepParamNames() []string {
	n := 0
	for _, setting := range p.indep {
		if len(setting) > n {
			n = len(setting)
		}
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("indep%d", i+1)
	}
	return names
}

// Cutoff returns the goodness-of-fit significance level.
func (p *Problem) Cutoff() float64 {
	return p.settings.Cutoff
}

// Verbose returns the verbosity flag.
func (p *Problem) Verbose() bool {
	return p.settings.Verbose
}

// StopWindow returns the early-stopping window size.
func (p *Problem) StopWindow() int {
	return p.settings.StopWindow
}

// SetGroundTruth sets the model which generated the data; this is
// used for synthetic-data evaluation.
func (p *Problem) SetGroundTruth(m model.Model, params []float64) error {
	if m.NParameters() != len(params) {
		return fmt.Errorf("expected %d parameters, got %d", m.NParameters(), len(params))
	}
	p.perfectModel = m
	p.perfectParams = params
	return nil
}

// HasGroundTruth returns true if a ground-truth model was set.
func (p *Problem) HasGroundTruth() bool {
	return p.perfectModel != nil
}

// Fit fits, in candidate order, every not-yet-fit model among the
// first maxModels candidates. Values above the candidate count are
// truncated.
func (p *Problem) Fit(maxModels int) error {
	if maxModels > len(p.models) {
		maxModels = len(p.models)
	}
	for _, m := range p.models[:maxModels] {
		if _, ok := p.cost[m.Name()]; ok {
			continue
		}
		if err := p.fitModel(m); err != nil {
			return fmt.Errorf("fitting %s: %v", m.Name(), err)
		}
	}
	return nil
}

// FitAll fits candidate models of increasing complexity, stopping
// after no new best log-likelihood was seen for StopWindow models.
// Fit results are kept between calls; a Problem is not reusable for
// an independent run.
func (p *Problem) FitAll() error {
	for i := range p.models {
		if err := p.Fit(i + 1); err != nil {
			return err
		}

		logLs := make([]float64, 0, len(p.order))
		for _, name := range p.names {
			if l, ok := p.logL[name]; ok {
				logLs = append(logLs, l)
			}
		}
		if stopEarly(logLs, p.settings.StopWindow) {
			log.Noticef("No improvement for %d models, stopping", p.settings.StopWindow)
			p.done = true
			return nil
		}
	}
	p.done = true
	return nil
}

// Done returns true after a completed sweep.
func (p *Problem) Done() bool {
	return p.done
}

// fitModel fits a single model and records the results.
func (p *Problem) fitModel(m model.Model) error {
	obj := newObjective(m, p.data, p.indep, p.settings)

	switch {
	case p.settings.Randomize:
		obj.pars.Randomize()
	case p.settings.StartLine != "" && len(p.order) == 0:
		if err := obj.pars.ReadLine(p.settings.StartLine); err != nil {
			return fmt.Errorf("reading start parameters: %v", err)
		}
	case len(p.order) > 0:
		// start from the previous fit to extend it instead of
		// restarting
		prev := p.fitted[p.order[len(p.order)-1]]
		n := len(prev.Parameters)
		if n > len(obj.theta) {
			n = len(obj.theta)
		}
		copy(obj.theta[:n], prev.Parameters[:n])
	}

	opt, err := p.settings.getOptimizer()
	if err != nil {
		return err
	}
	opt.SetOptimizable(obj)
	opt.SetReportPeriod(p.settings.ReportPeriod)
	if p.settings.TrajOutput != nil {
		opt.SetTrajectoryOutput(p.settings.TrajOutput)
	}

	opt.Run(p.settings.Iterations)

	best := opt.GetMaxLikelihoodParameters()
	if len(best) > 0 {
		if err := obj.pars.SetFromMap(best); err != nil {
			return err
		}
	}

	name := m.Name()
	cost := obj.cost()
	penalty := obj.penalty()

	p.order = append(p.order, name)
	p.cost[name] = cost
	p.penalty[name] = penalty
	p.nparams[name] = m.NParameters()
	p.logL[name] = -(cost + penalty)

	params := make([]float64, len(obj.theta))
	copy(params, obj.theta)
	p.fitted[name] = &Fitted{
		Model:      m,
		Parameters: params,
		Cost:       cost,
		Penalty:    penalty,
		Optimizer:  opt.Summary(),
	}

	sv, err := singVals(hessian(func(x []float64) float64 {
		return obj.costAt(x) + obj.penaltyAt(x)
	}, params))
	if err != nil {
		log.Warningf("Singular values for %s: %v", name, err)
	} else {
		p.svals[name] = sv
	}

	if p.settings.Verbose {
		log.Noticef("%s: cost=%g, penalty=%g, logL=%g", name, cost, penalty, p.logL[name])
		p.reportGoodnessOfFit(name)
	}
	return nil
}

// reportGoodnessOfFit compares chi-square at the best fit against
// the chi-square quantile at the configured cutoff.
func (p *Problem) reportGoodnessOfFit(name string) {
	dof := p.data.NPoints() - p.nparams[name]
	if dof < 1 {
		log.Infof("%s: no degrees of freedom left for the goodness-of-fit test", name)
		return
	}
	threshold := dist.QuantileChi2(p.settings.Cutoff, float64(dof))
	chisq := 2 * p.cost[name]
	if chisq <= threshold {
		log.Noticef("%s: acceptable fit (chi2=%g <= %g, dof=%d)", name, chisq, threshold, dof)
	} else {
		log.Noticef("%s: poor fit (chi2=%g > %g, dof=%d)", name, chisq, threshold, dof)
	}
}

// Cost returns the fit cost for a model name.
func (p *Problem) Cost(name string) (float64, bool) {
	v, ok := p.cost[name]
	return v, ok
}

// Penalty returns the complexity penalty for a model name.
func (p *Problem) Penalty(name string) (float64, bool) {
	v, ok := p.penalty[name]
	return v, ok
}

// NumParameters returns the parameter count for a model name.
func (p *Problem) NumParameters(name string) (int, bool) {
	v, ok := p.nparams[name]
	return v, ok
}

// LogLikelihood returns -(cost+penalty) for a model name.
func (p *Problem) LogLikelihood(name string) (float64, bool) {
	v, ok := p.logL[name]
	return v, ok
}

// FittedModel returns the best fit for a model name.
func (p *Problem) FittedModel(name string) (interface{}, bool) {
	f, ok := p.fitted[name]
	if !ok {
		return nil, false
	}
	return f, true
}

// StiffSingVals returns the singular values of the objective
// (cost+penalty) Hessian at the best fit, in descending order.
func (p *Problem) StiffSingVals(name string) ([]float64, error) {
	sv, ok := p.svals[name]
	if !ok {
		return nil, fmt.Errorf("no singular values for model '%s'", name)
	}
	return sv, nil
}

// NumStiffSingVals counts singular values above a cutoff.
func (p *Problem) NumStiffSingVals(name string, cutoff float64) (int, error) {
	sv, err := p.StiffSingVals(name)
	if err != nil {
		return 0, err
	}
	res := 0
	for _, v := range sv {
		if v > cutoff {
			res++
		}
	}
	return res, nil
}

// BestName returns the name with the maximum log-likelihood.
// Negative maxIndex excludes that many names from the end of the
// candidate list, guarding against noise at the sweep boundary; if
// the exclusion leaves no fitted names, the full list is used.
func (p *Problem) BestName(maxIndex int) (string, error) {
	return bestName(p.names, p.logL, maxIndex)
}

// FitGroundTruth fits the ground-truth model starting from the
// parameters which generated the data.
func (p *Problem) FitGroundTruth() error {
	if p.perfectModel == nil {
		return errors.New("no ground-truth model")
	}

	obj := newObjective(p.perfectModel, p.data, p.indep, p.settings)
	copy(obj.theta, p.perfectParams)

	opt, err := p.settings.getOptimizer()
	if err != nil {
		return err
	}
	opt.SetOptimizable(obj)
	opt.SetReportPeriod(p.settings.ReportPeriod)
	opt.Run(p.settings.Iterations)

	best := opt.GetMaxLikelihoodParameters()
	if len(best) > 0 {
		if err := obj.pars.SetFromMap(best); err != nil {
			return err
		}
	}

	params := make([]float64, len(obj.theta))
	copy(params, obj.theta)
	p.perfectFit = &Fitted{
		Model:      p.perfectModel,
		Parameters: params,
		Cost:       obj.cost(),
		Penalty:    obj.penalty(),
		Optimizer:  opt.Summary(),
	}
	if p.settings.Verbose {
		log.Noticef("ground truth: cost=%g", p.perfectFit.Cost)
	}
	return nil
}

// GroundTruthFit returns the ground-truth fit, if performed.
func (p *Problem) GroundTruthFit() (*Fitted, bool) {
	if p.perfectFit == nil {
		return nil, false
	}
	return p.perfectFit, true
}

// bestName implements maximum log-likelihood name selection over an
// ordered candidate list with recorded log-likelihoods.
func bestName(names []string, logL map[string]float64, maxIndex int) (string, error) {
	limit := len(names)
	if maxIndex < 0 && len(names)+maxIndex > 0 {
		limit = len(names) + maxIndex
	}

	best := ""
	for pass := 0; pass < 2 && best == ""; pass++ {
		for _, name := range names[:limit] {
			l, ok := logL[name]
			if !ok {
				continue
			}
			if best == "" || l > logL[best] {
				best = name
			}
		}
		// no fitted names within the limit; retry with the full list
		limit = len(names)
	}
	if best == "" {
		return "", errors.New("no fitted models")
	}
	return best, nil
}

// stopEarly returns true when the maximum of the trailing window is
// strictly less than the all-time maximum. Ties do not stop the
// sweep.
func stopEarly(logLs []float64, window int) bool {
	if len(logLs) <= window {
		return false
	}
	maxAll := logLs[0]
	for _, l := range logLs[1:] {
		if l > maxAll {
			maxAll = l
		}
	}
	maxTail := logLs[len(logLs)-window]
	for _, l := range logLs[len(logLs)-window:] {
		if l > maxTail {
			maxTail = l
		}
	}
	return maxTail < maxAll
}
