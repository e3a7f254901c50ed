// Package mcond fits a shared list of candidate model structures of
// increasing complexity to the data of multiple experimental
// conditions, aggregating per-condition costs into a single
// model-selection sweep.
package mcond

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/op/go-logging"

	"bitbucket.org/mcfit/mcfit/checkpoint"
	"bitbucket.org/mcfit/mcfit/dataset"
)

// log is the global logging variable.
var log = logging.MustGetLogger("mcond")

// defaultStopWindow is used when the engine does not define a window.
const defaultStopWindow = 3

// defaultMaxIndex excludes trailing candidates from best-model
// selection; the tail of a stopped sweep is dominated by models the
// optimizer barely explored.
const defaultMaxIndex = -4

// ErrNotFit is returned when a model name has no recorded aggregate
// result.
var ErrNotFit = errors.New("model was not fit")

// Fitter fits every candidate model structure to every condition and
// selects model complexity from the aggregate log-likelihood. One
// engine per condition is created at construction and never
// replaced. A Fitter is not reusable across independent runs.
type Fitter struct {
	engines []Engine

	// configuration copied from the first engine at construction
	names      []string
	indepNames []string
	cutoff     float64
	verbose    bool
	window     int
	truth      bool
	maxIndex   int

	order   []string
	cost    map[string]float64
	penalty map[string]float64
	nparams map[string]int
	logL    map[string]float64

	sweepDone bool
	parallel  bool

	ckp *checkpoint.SweepIO
}

// New creates a multiple-condition fitter. indep optionally holds
// per-condition independent-parameter lists; when the lengths differ
// the pairing stops at the shorter sequence. The factory is called
// once per condition, in order.
func New(datasets []*dataset.Dataset, indep [][][]float64, factory EngineFactory) (*Fitter, error) {
	if len(datasets) == 0 {
		return nil, errors.New("no datasets")
	}
	if factory == nil {
		return nil, errors.New("no engine factory")
	}

	n := len(datasets)
	if indep != nil && len(indep) != n {
		if len(indep) < n {
			n = len(indep)
		}
		log.Warningf("%d datasets and %d independent-parameter lists, using the first %d conditions",
			len(datasets), len(indep), n)
	}

	engines := make([]Engine, n)
	for i := 0; i < n; i++ {
		var ind [][]float64
		if indep != nil {
			ind = indep[i]
		}
		e, err := factory(datasets[i], ind)
		if err != nil {
			return nil, fmt.Errorf("creating engine for condition %d (%s): %v",
				i+1, datasets[i].Name, err)
		}
		engines[i] = e
	}

	first := engines[0]
	names := first.ModelNames()
	for i, e := range engines[1:] {
		if !sameNames(names, e.ModelNames()) {
			return nil, fmt.Errorf("condition %d has a different candidate model list", i+2)
		}
	}

	window := first.StopWindow()
	if window <= 0 {
		window = defaultStopWindow
	}

	return &Fitter{
		engines:    engines,
		names:      names,
		indepNames: first.IndepParamNames(),
		cutoff:     first.Cutoff(),
		verbose:    first.Verbose(),
		window:     window,
		truth:      first.HasGroundTruth(),
		maxIndex:   defaultMaxIndex,

		cost:    make(map[string]float64, len(names)),
		penalty: make(map[string]float64, len(names)),
		nparams: make(map[string]int, len(names)),
		logL:    make(map[string]float64, len(names)),
	}, nil
}

// NConditions returns the number of conditions.
func (f *Fitter) NConditions() int {
	return len(f.engines)
}

// ModelNames returns the candidate model names in sweep order.
func (f *Fitter) ModelNames() []string {
	names := make([]string, len(f.names))
	copy(names, f.names)
	return names
}

// IndepParamNames returns the independent-parameter names.
func (f *Fitter) IndepParamNames() []string {
	return f.indepNames
}

// Cutoff returns the goodness-of-fit significance level.
func (f *Fitter) Cutoff() float64 {
	return f.cutoff
}

// StopWindow returns the early-stopping window size.
func (f *Fitter) StopWindow() int {
	return f.window
}

// Verbose returns the verbosity flag.
func (f *Fitter) Verbose() bool {
	return f.verbose
}

// HasGroundTruth returns true if the conditions know the model which
// generated their data.
func (f *Fitter) HasGroundTruth() bool {
	return f.truth
}

// Done returns true after a completed sweep.
func (f *Fitter) Done() bool {
	return f.sweepDone
}

// SetParallel enables concurrent per-condition fitting within a
// sweep step. Aggregate sums are computed in condition order either
// way.
func (f *Fitter) SetParallel(parallel bool) {
	f.parallel = parallel
}

// SetCheckpoint enables saving of the aggregate result table after
// every sweep step.
func (f *Fitter) SetCheckpoint(ckp *checkpoint.SweepIO) {
	f.ckp = ckp
}

// FitAll sweeps the candidate models in order, fitting every
// condition at every step, and stops once no new best aggregate
// log-likelihood was seen for StopWindow models.
func (f *Fitter) FitAll() error {
	if f.ckp != nil {
		// an earlier snapshot is informational only; fits are not
		// resumable across processes
		if _, err := f.ckp.Load(); err != nil {
			log.Warning("Error reading checkpoint:", err)
		}
	}

	for i, name := range f.names {
		if _, ok := f.logL[name]; ok {
			continue
		}
		if err := f.fitStep(i, name); err != nil {
			return err
		}

		logLs := make([]float64, len(f.order))
		for j, n := range f.order {
			logLs[j] = f.logL[n]
		}
		if stopEarly(logLs, f.window) {
			log.Noticef("No improvement for %d models, stopping", f.window)
			break
		}
	}

	f.sweepDone = true
	f.saveCheckpoint()
	return nil
}

// fitStep fits candidate i in every condition and records the
// aggregate result for its name. A failed per-condition fit aborts
// the step with nothing recorded.
func (f *Fitter) fitStep(i int, name string) error {
	if f.parallel {
		if err := f.fitConditionsParallel(i); err != nil {
			return err
		}
	} else {
		for j, e := range f.engines {
			if err := e.Fit(i + 1); err != nil {
				return fmt.Errorf("condition %d: %v", j+1, err)
			}
		}
	}

	cost := 0.0
	penalty := 0.0
	for j, e := range f.engines {
		c, ok := e.Cost(name)
		if !ok {
			return fmt.Errorf("condition %d: no cost for model '%s'", j+1, name)
		}
		p, ok := e.Penalty(name)
		if !ok {
			return fmt.Errorf("condition %d: no penalty for model '%s'", j+1, name)
		}
		log.Infof("%s, condition %d: cost=%g, penalty=%g", name, j+1, c, p)
		cost += c
		penalty += p
	}

	np, ok := f.engines[0].NumParameters(name)
	if !ok {
		return fmt.Errorf("no parameter count for model '%s'", name)
	}

	f.order = append(f.order, name)
	f.cost[name] = cost
	f.penalty[name] = penalty
	f.nparams[name] = np
	f.logL[name] = -(cost + penalty)
	log.Noticef("%s: total cost=%g, total penalty=%g, logL=%g",
		name, cost, penalty, f.logL[name])

	f.saveCheckpoint()
	return nil
}

// fitConditionsParallel runs one sweep step concurrently across
// conditions.
func (f *Fitter) fitConditionsParallel(i int) error {
	var wg sync.WaitGroup
	errs := make([]error, len(f.engines))
	for j, e := range f.engines {
		wg.Add(1)
		go func(j int, e Engine) {
			defer wg.Done()
			errs[j] = e.Fit(i + 1)
		}(j, e)
	}
	wg.Wait()
	for j, err := range errs {
		if err != nil {
			return fmt.Errorf("condition %d: %v", j+1, err)
		}
	}
	return nil
}

// saveCheckpoint saves the aggregate result table if checkpointing
// is enabled.
func (f *Fitter) saveCheckpoint() {
	if f.ckp == nil {
		return
	}
	err := f.ckp.Save(&checkpoint.SweepData{
		Names:         f.order,
		Cost:          f.cost,
		Penalty:       f.penalty,
		LogLikelihood: f.logL,
		NParameters:   f.nparams,
		Done:          f.sweepDone,
		PID:           os.Getpid(),
	})
	if err != nil {
		log.Warning("Error saving checkpoint:", err)
	}
}

// Cost returns the aggregate cost for a model name.
func (f *Fitter) Cost(name string) (float64, bool) {
	v, ok := f.cost[name]
	return v, ok
}

// Penalty returns the aggregate penalty for a model name.
func (f *Fitter) Penalty(name string) (float64, bool) {
	v, ok := f.penalty[name]
	return v, ok
}

// NumParameters returns the parameter count for a model name.
func (f *Fitter) NumParameters(name string) (int, bool) {
	v, ok := f.nparams[name]
	return v, ok
}

// LogLikelihood returns the aggregate log-likelihood for a model
// name.
func (f *Fitter) LogLikelihood(name string) (float64, bool) {
	v, ok := f.logL[name]
	return v, ok
}

// FitOrder returns the swept model names in sweep order.
func (f *Fitter) FitOrder() []string {
	order := make([]string, len(f.order))
	copy(order, f.order)
	return order
}

// BestName returns the model name with the maximum aggregate
// log-likelihood. Negative maxIndex excludes that many candidates
// from the end of the list; zero uses the default exclusion.
func (f *Fitter) BestName(maxIndex int) (string, error) {
	if maxIndex == 0 {
		maxIndex = f.maxIndex
	}
	return bestName(f.names, f.logL, maxIndex)
}

// BestModel returns the per-condition fits of a model, in condition
// order. An empty name selects the model with the maximum aggregate
// log-likelihood using maxIndex.
func (f *Fitter) BestModel(name string, maxIndex int) ([]interface{}, error) {
	if name == "" {
		var err error
		name, err = f.BestName(maxIndex)
		if err != nil {
			return nil, err
		}
	} else if _, ok := f.logL[name]; !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrNotFit, name)
	}

	models := make([]interface{}, len(f.engines))
	for j, e := range f.engines {
		m, ok := e.FittedModel(name)
		if !ok {
			return nil, fmt.Errorf("condition %d: %w: '%s'", j+1, ErrNotFit, name)
		}
		models[j] = m
	}
	return models, nil
}

// FitGroundTruth fits the ground-truth model in every condition, in
// condition order.
func (f *Fitter) FitGroundTruth() error {
	for j, e := range f.engines {
		if err := e.FitGroundTruth(); err != nil {
			return fmt.Errorf("condition %d: %v", j+1, err)
		}
	}
	return nil
}

// PlotResults renders the fits of every condition; file names are
// derived from the prefix and the condition numbers.
func (f *Fitter) PlotResults(prefix string) error {
	for j, e := range f.engines {
		if err := e.Plot(fmt.Sprintf("%s-c%d", prefix, j+1)); err != nil {
			return fmt.Errorf("condition %d: %v", j+1, err)
		}
	}
	return nil
}

// PlotBestModelResults resolves the best model name once and renders
// its fit in every condition.
func (f *Fitter) PlotBestModelResults(prefix string) error {
	name, err := f.BestName(0)
	if err != nil {
		return err
	}
	for j, e := range f.engines {
		filename := fmt.Sprintf("%s-c%d-%s.png", prefix, j+1, name)
		if err := e.PlotModel(name, filename); err != nil {
			return fmt.Errorf("condition %d: %v", j+1, err)
		}
	}
	return nil
}

// sameNames compares two name lists.
func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// bestName implements maximum log-likelihood name selection over the
// ordered candidate list. Negative maxIndex excludes trailing
// candidates; if the exclusion leaves no fitted names, the full list
// is used.
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
		limit = len(names)
	}
	if best == "" {
		return "", fmt.Errorf("%w: no models fit yet", ErrNotFit)
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
