package fit

import (
	"math"

	"bitbucket.org/mcfit/mcfit/dataset"
	"bitbucket.org/mcfit/mcfit/model"
	"bitbucket.org/mcfit/mcfit/optimize"
)

// objective adapts one model and one condition's data for the
// optimizers: the maximized likelihood is -(cost+penalty).
type objective struct {
	m          model.Model
	data       *dataset.Dataset
	indep      [][]float64
	priorSigma float64
	bound      float64
	theta      []float64
	pars       optimize.FloatParameters
}

// newObjective creates an objective with default parameter values.
func newObjective(m model.Model, data *dataset.Dataset, indep [][]float64, s *Settings) *objective {
	o := &objective{
		m:          m,
		data:       data,
		indep:      indep,
		priorSigma: s.PriorSigma,
		bound:      s.ParamBound,
		theta:      m.DefaultParameters(),
	}
	for i, name := range m.ParameterNames() {
		o.pars.Append(o.newParameter(&o.theta[i], name))
	}
	return o
}

// newParameter binds one model parameter for the optimizers. The
// penalty term of the likelihood already carries the normal prior,
// so the parameter-level prior stays flat within the bounds; a
// normal prior here would make the samplers apply the prior twice.
func (o *objective) newParameter(v *float64, name string) *optimize.BasicFloatParameter {
	par := optimize.NewBasicFloatParameter(v, name)
	par.SetMin(-o.bound)
	par.SetMax(o.bound)
	par.SetPriorFunc(optimize.UniformPrior(-o.bound, o.bound, true, true))
	par.SetProposalFunc(optimize.NormalProposal(0.1))
	return par
}

// GetFloatParameters returns the optimization parameters.
func (o *objective) GetFloatParameters() optimize.FloatParameters {
	return o.pars
}

// Copy creates an independent copy of the objective.
func (o *objective) Copy() optimize.Optimizable {
	newO := &objective{
		m:          o.m,
		data:       o.data,
		indep:      o.indep,
		priorSigma: o.priorSigma,
		bound:      o.bound,
		theta:      make([]float64, len(o.theta)),
	}
	copy(newO.theta, o.theta)
	for i, name := range o.m.ParameterNames() {
		newO.pars.Append(newO.newParameter(&newO.theta[i], name))
	}
	return newO
}

// costAt returns half chi-square of the model predictions for a
// parameter vector.
func (o *objective) costAt(theta []float64) (res float64) {
	for i, s := range o.data.Series {
		// series without a setting get no independent parameters
		var indep []float64
		if i < len(o.indep) {
			indep = o.indep[i]
		}
		for _, pt := range s {
			d := (o.m.Eval(theta, indep, pt.T) - pt.Value) / pt.Sigma
			res += d * d / 2
		}
	}
	if math.IsNaN(res) {
		return math.Inf(+1)
	}
	return
}

// cost returns half chi-square for the current parameters.
func (o *objective) cost() float64 {
	return o.costAt(o.theta)
}

// penaltyAt returns the parameter-prior penalty for a parameter
// vector.
func (o *objective) penaltyAt(theta []float64) (res float64) {
	for _, v := range theta {
		res += v * v / (2 * o.priorSigma * o.priorSigma)
	}
	return
}

// penalty returns the parameter-prior penalty for the current
// parameters.
func (o *objective) penalty() float64 {
	return o.penaltyAt(o.theta)
}

// Likelihood returns -(cost+penalty); this is the value maximized by
// the optimizers.
func (o *objective) Likelihood() float64 {
	l := -(o.cost() + o.penalty())
	if math.IsNaN(l) {
		return math.Inf(-1)
	}
	return l
}
