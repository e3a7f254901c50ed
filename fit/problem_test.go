package fit

import (
	"math"
	"testing"

	"bitbucket.org/mcfit/mcfit/dataset"
	"bitbucket.org/mcfit/mcfit/model"
)

const smallDiff = 1e-6

// linData creates a dataset with y = 2 * t, t = 1..n.
func linData(n int) *dataset.Dataset {
	s := make(dataset.Series, n)
	for i := range s {
		t := float64(i + 1)
		s[i] = dataset.Point{T: t, Value: 2 * t, Sigma: 1}
	}
	return dataset.NewDataset("lin", s)
}

func TestStopEarly(tst *testing.T) {
	tests := []struct {
		logLs  []float64
		window int
		stop   bool
	}{
		{[]float64{5, 6, 7}, 3, false},
		{[]float64{5, 6, 7, 4, 3}, 3, false},
		{[]float64{5, 6, 7, 4, 3, 2}, 3, true},
		{[]float64{5, 6, 7, 7, 7, 7}, 3, false},
		{[]float64{5, 6, 7, 4, 8, 2}, 3, false},
		{[]float64{1}, 3, false},
		{nil, 3, false},
	}
	for i, test := range tests {
		if stopEarly(test.logLs, test.window) != test.stop {
			tst.Errorf("case %d: expected stop=%v for %v (window=%d)",
				i, test.stop, test.logLs, test.window)
		}
	}
}

func TestBestName(tst *testing.T) {
	names := []string{"m1", "m2", "m3", "m4"}
	logL := map[string]float64{"m1": -3, "m2": -1, "m3": -2}

	best, err := bestName(names, logL, 0)
	if err != nil {
		tst.Error("unexpected error:", err)
	}
	if best != "m2" {
		tst.Error("expected m2, got", best)
	}

	// exclude the last two names from consideration
	best, err = bestName(names, logL, -2)
	if err != nil {
		tst.Error("unexpected error:", err)
	}
	if best != "m2" {
		tst.Error("expected m2, got", best)
	}

	// exclusion leaves no fitted names, fall back to the full list
	best, err = bestName(names, map[string]float64{"m3": -2}, -2)
	if err != nil {
		tst.Error("unexpected error:", err)
	}
	if best != "m3" {
		tst.Error("expected m3, got", best)
	}

	if _, err = bestName(names, map[string]float64{}, 0); err == nil {
		tst.Error("expected an error for no fitted models")
	}
}

func TestProblemNone(tst *testing.T) {
	models, err := model.PowerLaw([]int{2, 4})
	if err != nil {
		tst.Fatal(err)
	}
	settings := NewSettings()
	settings.Method = "none"

	p, err := NewProblem(linData(5), models, nil, settings)
	if err != nil {
		tst.Fatal(err)
	}
	if err = p.FitAll(); err != nil {
		tst.Fatal(err)
	}
	if !p.Done() {
		tst.Error("expected a finished sweep")
	}

	for _, name := range p.ModelNames() {
		cost, ok := p.Cost(name)
		if !ok {
			tst.Fatal("no cost for", name)
		}
		penalty, ok := p.Penalty(name)
		if !ok {
			tst.Fatal("no penalty for", name)
		}
		logL, ok := p.LogLikelihood(name)
		if !ok {
			tst.Fatal("no log-likelihood for", name)
		}
		if math.Abs(logL+cost+penalty) > smallDiff {
			tst.Errorf("%s: logL=%g, cost=%g, penalty=%g",
				name, logL, cost, penalty)
		}
	}

	// default power-law parameters have zero amplitudes
	cost, _ := p.Cost("plaw2")
	expCost := 0.0
	for t := 1; t <= 5; t++ {
		expCost += float64(2*t) * float64(2*t) / 2
	}
	if math.Abs(cost-expCost) > smallDiff {
		tst.Error("expected cost", expCost, "got", cost)
	}

	np, _ := p.NumParameters("plaw4")
	if np != 4 {
		tst.Error("expected 4 parameters, got", np)
	}

	m, ok := p.FittedModel("plaw2")
	if !ok {
		tst.Fatal("no fit for plaw2")
	}
	f := m.(*Fitted)
	if f.Optimizer.Method != "none" {
		tst.Error("expected optimizer method 'none', got", f.Optimizer.Method)
	}
	if f.Optimizer.Calls < 1 {
		tst.Error("expected at least one likelihood call")
	}
	if math.Abs(f.Optimizer.MaxLnL+f.Cost+f.Penalty) > smallDiff {
		tst.Error("optimizer summary and fit disagree:",
			f.Optimizer.MaxLnL, f.Cost, f.Penalty)
	}
}

func TestProblemStartLine(tst *testing.T) {
	models, err := model.PowerLaw([]int{2})
	if err != nil {
		tst.Fatal(err)
	}
	settings := NewSettings()
	settings.Method = "none"
	// a trajectory line carries iteration and likelihood columns
	// before the parameter values; y = 2 * t fits the data exactly
	settings.StartLine = "0\t0\t2\t1"

	p, err := NewProblem(linData(5), models, nil, settings)
	if err != nil {
		tst.Fatal(err)
	}
	if err = p.FitAll(); err != nil {
		tst.Fatal(err)
	}

	cost, _ := p.Cost("plaw2")
	if math.Abs(cost) > smallDiff {
		tst.Error("expected zero cost from the start line, got", cost)
	}
}

func TestProblemRandomize(tst *testing.T) {
	models, err := model.PowerLaw([]int{2, 4})
	if err != nil {
		tst.Fatal(err)
	}
	settings := NewSettings()
	settings.Method = "none"
	settings.Randomize = true

	p, err := NewProblem(linData(5), models, nil, settings)
	if err != nil {
		tst.Fatal(err)
	}
	if err = p.FitAll(); err != nil {
		tst.Fatal(err)
	}

	for _, name := range []string{"plaw2", "plaw4"} {
		m, ok := p.FittedModel(name)
		if !ok {
			tst.Fatal("no fit for", name)
		}
		for _, v := range m.(*Fitted).Parameters {
			if v < -10 || v > 10 {
				tst.Errorf("%s: starting value %g outside the random range", name, v)
			}
		}
	}
}

func TestProblemStops(tst *testing.T) {
	models, err := model.PowerLaw([]int{1, 2, 3, 4, 5, 6})
	if err != nil {
		tst.Fatal(err)
	}
	settings := NewSettings()
	settings.Method = "none"

	p, err := NewProblem(linData(5), models, nil, settings)
	if err != nil {
		tst.Fatal(err)
	}
	if err = p.FitAll(); err != nil {
		tst.Fatal(err)
	}

	// with no optimization the penalty grows with complexity, so
	// plaw1 stays the best and the sweep stops after the window
	if !p.Done() {
		tst.Error("expected a finished sweep")
	}
	if _, ok := p.Cost("plaw4"); !ok {
		tst.Error("expected plaw4 to be fit")
	}
	if _, ok := p.Cost("plaw5"); ok {
		tst.Error("expected the sweep to stop before plaw5")
	}

	best, err := p.BestName(0)
	if err != nil {
		tst.Error("unexpected error:", err)
	}
	if best != "plaw1" {
		tst.Error("expected plaw1, got", best)
	}
}

func TestProblemSimplex(tst *testing.T) {
	if testing.Short() {
		tst.Skip("skipping test in short mode")
	}
	models, err := model.PowerLaw([]int{2})
	if err != nil {
		tst.Fatal(err)
	}
	settings := NewSettings()
	settings.Method = "simplex"
	settings.Iterations = 2000

	p, err := NewProblem(linData(5), models, nil, settings)
	if err != nil {
		tst.Fatal(err)
	}
	if err = p.Fit(1); err != nil {
		tst.Fatal(err)
	}

	cost, _ := p.Cost("plaw2")
	if cost > 0.01 {
		tst.Error("expected a near-perfect fit, got cost", cost)
	}
	f, ok := p.FittedModel("plaw2")
	if !ok {
		tst.Fatal("no fitted model")
	}
	params := f.(*Fitted).Parameters
	if math.Abs(params[0]-2) > 0.01 || math.Abs(params[1]-1) > 0.01 {
		tst.Error("expected parameters close to (2, 1), got", params)
	}

	sv, err := p.StiffSingVals("plaw2")
	if err != nil {
		tst.Fatal(err)
	}
	if len(sv) != 2 {
		tst.Error("expected 2 singular values, got", len(sv))
	}
	n, err := p.NumStiffSingVals("plaw2", 1e-3)
	if err != nil {
		tst.Fatal(err)
	}
	if n < 1 {
		tst.Error("expected at least one stiff direction")
	}
}

func TestGroundTruth(tst *testing.T) {
	models, err := model.PowerLaw([]int{2})
	if err != nil {
		tst.Fatal(err)
	}
	settings := NewSettings()
	settings.Method = "none"

	p, err := NewProblem(linData(5), models, nil, settings)
	if err != nil {
		tst.Fatal(err)
	}
	if p.HasGroundTruth() {
		tst.Error("unexpected ground truth")
	}
	if err = p.FitGroundTruth(); err == nil {
		tst.Error("expected an error without a ground truth")
	}

	if err = p.SetGroundTruth(models[0], []float64{2, 1}); err != nil {
		tst.Fatal(err)
	}
	if !p.HasGroundTruth() {
		tst.Error("expected a ground truth")
	}
	if err = p.FitGroundTruth(); err != nil {
		tst.Fatal(err)
	}
	f, ok := p.GroundTruthFit()
	if !ok {
		tst.Fatal("no ground-truth fit")
	}
	if f.Cost > smallDiff {
		tst.Error("expected zero cost, got", f.Cost)
	}
}
