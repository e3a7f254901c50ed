package model

import (
	"fmt"
	"math"
)

// ctsn is a continuous-time switching-network response with a given
// number of switching units: y = w0 + sum w_i * tanh(v_i*x + b_i).
// The complexity is the number of units; 3k+1 free parameters.
type ctsn struct {
	name   string
	nunits int
}

// CTSN returns the switching-network candidate list for a complexity
// list; complexity is the number of switching units.
func CTSN(complexities []int) ([]Model, error) {
	if err := checkComplexities(complexities); err != nil {
		return nil, err
	}
	models := make([]Model, len(complexities))
	for i, c := range complexities {
		models[i] = &ctsn{
			name:   fmt.Sprintf("ctsn%d", c),
			nunits: c,
		}
	}
	return models, nil
}

func (m *ctsn) Name() string {
	return m.name
}

func (m *ctsn) NParameters() int {
	return 3*m.nunits + 1
}

func (m *ctsn) ParameterNames() []string {
	names := make([]string, 0, m.NParameters())
	names = append(names, "w0")
	for i := 1; i <= m.nunits; i++ {
		names = append(names,
			fmt.Sprintf("w%d", i),
			fmt.Sprintf("v%d", i),
			fmt.Sprintf("b%d", i))
	}
	return names
}

func (m *ctsn) DefaultParameters() []float64 {
	theta := make([]float64, m.NParameters())
	for i := 1; i <= m.nunits; i++ {
		// unit gains start at 1, weights and biases at 0
		theta[3*(i-1)+2] = 1
	}
	return theta
}

func (m *ctsn) Eval(theta, indep []float64, t float64) (res float64) {
	x := input(indep, t)
	res = theta[0]
	for i := 0; i < m.nunits; i++ {
		w := theta[3*i+1]
		v := theta[3*i+2]
		b := theta[3*i+3]
		res += w * math.Tanh(v*x+b)
	}
	return
}
