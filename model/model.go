// Package model provides candidate model structures of increasing
// complexity organized in families.
package model

import (
	"fmt"
)

// Model is a single candidate model structure.
type Model interface {
	// Name returns the model name, unique within a candidate list.
	Name() string
	// NParameters returns the number of free parameters.
	NParameters() int
	// ParameterNames returns the free parameter names.
	ParameterNames() []string
	// DefaultParameters returns the default starting values.
	DefaultParameters() []float64
	// Eval returns the model prediction for time t given free
	// parameters and independent parameters of the series.
	Eval(theta, indep []float64, t float64) float64
}

// FromString returns an ordered candidate list for a family name and
// a complexity list.
func FromString(family string, complexities []int) ([]Model, error) {
	switch family {
	case "plaw":
		return PowerLaw(complexities)
	case "ctsn":
		return CTSN(complexities)
	}
	return nil, fmt.Errorf("unknown model family '%s'", family)
}

// Names returns the names of a candidate list in order.
func Names(models []Model) []string {
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name()
	}
	return names
}

// checkComplexities verifies a complexity list: positive values, no
// duplicates (duplicates would produce duplicate model names).
func checkComplexities(complexities []int) error {
	if len(complexities) == 0 {
		return fmt.Errorf("empty complexity list")
	}
	seen := make(map[int]bool, len(complexities))
	for _, c := range complexities {
		if c < 1 {
			return fmt.Errorf("complexity must be positive, got %d", c)
		}
		if seen[c] {
			return fmt.Errorf("duplicate complexity %d", c)
		}
		seen[c] = true
	}
	return nil
}

// input returns the effective model input: measurement time shifted
// by the independent-parameter offset of the series, if present.
func input(indep []float64, t float64) float64 {
	if len(indep) > 0 {
		return t + indep[0]
	}
	return t
}
