package fit

import (
	"math"
	"testing"

	"bitbucket.org/mcfit/mcfit/model"
)

func TestObjectivePrior(tst *testing.T) {
	models, err := model.PowerLaw([]int{2})
	if err != nil {
		tst.Fatal(err)
	}
	settings := NewSettings()
	obj := newObjective(models[0], linData(3), nil, settings)
	pars := obj.GetFloatParameters()

	// the penalty inside the likelihood is the normal prior; the
	// parameter-level prior must stay flat in range, or samplers
	// applying Prior() on top of the likelihood would count the
	// prior twice
	pars[0].Set(0.5)
	p1 := pars[0].Prior()
	pars[0].Set(100)
	p2 := pars[0].Prior()
	if p1 != p2 {
		tst.Errorf("expected a flat in-range prior, got %g and %g", p1, p2)
	}

	pars[0].Set(settings.ParamBound + 1)
	if !math.IsInf(pars[0].Prior(), -1) {
		tst.Error("expected -Inf prior out of range, got", pars[0].Prior())
	}
}

func TestObjectiveLikelihood(tst *testing.T) {
	models, err := model.PowerLaw([]int{2})
	if err != nil {
		tst.Fatal(err)
	}
	settings := NewSettings()
	obj := newObjective(models[0], linData(3), nil, settings)

	obj.theta[0] = 2
	obj.theta[1] = 1
	l := obj.Likelihood()
	if math.Abs(l+obj.cost()+obj.penalty()) > smallDiff {
		tst.Errorf("expected logL=-(cost+penalty), got %g, cost=%g, penalty=%g",
			l, obj.cost(), obj.penalty())
	}

	// y = 2*t fits the data exactly, only the penalty remains
	expPenalty := (4.0 + 1.0) / (2 * settings.PriorSigma * settings.PriorSigma)
	if math.Abs(l+expPenalty) > smallDiff {
		tst.Errorf("expected logL=%g, got %g", -expPenalty, l)
	}
}
