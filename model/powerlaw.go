package model

import (
	"fmt"
	"math"
)

// powerLaw is a sum of power-law terms y = sum a_i * x^b_i with the
// total number of free parameters equal to the complexity. With an
// odd complexity the exponent of the last term is fixed to 1.
type powerLaw struct {
	name    string
	nparams int
}

// PowerLaw returns the power-law candidate list for a complexity
// list; complexity is the number of free parameters.
func PowerLaw(complexities []int) ([]Model, error) {
	if err := checkComplexities(complexities); err != nil {
		return nil, err
	}
	models := make([]Model, len(complexities))
	for i, c := range complexities {
		models[i] = &powerLaw{
			name:    fmt.Sprintf("plaw%d", c),
			nparams: c,
		}
	}
	return models, nil
}

func (m *powerLaw) Name() string {
	return m.name
}

func (m *powerLaw) NParameters() int {
	return m.nparams
}

func (m *powerLaw) ParameterNames() []string {
	names := make([]string, m.nparams)
	for i := range names {
		term := i/2 + 1
		if i%2 == 0 {
			names[i] = fmt.Sprintf("a%d", term)
		} else {
			names[i] = fmt.Sprintf("b%d", term)
		}
	}
	return names
}

func (m *powerLaw) DefaultParameters() []float64 {
	theta := make([]float64, m.nparams)
	for i := range theta {
		if i%2 == 1 {
			// exponents start at 1, amplitudes at 0
			theta[i] = 1
		}
	}
	return theta
}

func (m *powerLaw) Eval(theta, indep []float64, t float64) (res float64) {
	x := input(indep, t)
	for i := 0; i < m.nparams; i += 2 {
		a := theta[i]
		b := 1.0
		if i+1 < m.nparams {
			b = theta[i+1]
		}
		if x == 0 {
			if b > 0 {
				continue
			}
			if b == 0 {
				res += a
				continue
			}
			return math.Inf(+1)
		}
		res += a * math.Pow(x, b)
	}
	return
}
