package optimize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strconv"
)

const (
	// randMin and randMax limit the range for randomized starting
	// points of unbounded parameters.
	randMin = -10
	randMax = +10
)

// FloatParameter is a single float parameter to optimize.
type FloatParameter interface {
	// Name returns the parameter name.
	Name() string
	// Get returns the parameter value.
	Get() float64
	// Set sets the parameter value.
	Set(float64)
	// SetMin sets the lower bound.
	SetMin(float64)
	// SetMax sets the upper bound.
	SetMax(float64)
	// GetMin returns the lower bound.
	GetMin() float64
	// GetMax returns the upper bound.
	GetMax() float64
	// SetPriorFunc sets the log-prior function.
	SetPriorFunc(func(float64) float64)
	// SetProposalFunc sets the MCMC proposal function.
	SetProposalFunc(func(float64) float64)
	// Prior returns the log-prior for the current value.
	Prior() float64
	// OldPrior returns the log-prior for the previous value.
	OldPrior() float64
	// Propose proposes a new value (for samplers).
	Propose()
	// Accept accepts the proposed value.
	Accept(iter int)
	// Reject rejects the proposed value.
	Reject()
	// InRange returns true if the current value is within bounds.
	InRange() bool
	// ValueInRange returns true if a value is within bounds.
	ValueInRange(float64) bool
	// String returns a string representation of the value.
	String() string
}

// FloatParameters is an ordered list of parameters.
type FloatParameters []FloatParameter

// Append adds a parameter to the list.
func (p *FloatParameters) Append(par FloatParameter) {
	*p = append(*p, par)
}

// Values returns a slice of parameter values; iv is reused if
// it has a correct length.
func (p *FloatParameters) Values(iv []float64) (v []float64) {
	if iv == nil || len(iv) != len(*p) {
		v = make([]float64, len(*p))
	} else {
		v = iv
	}
	for i, par := range *p {
		v[i] = par.Get()
	}
	return
}

// SetValues sets all parameter values from a slice.
func (p *FloatParameters) SetValues(v []float64) error {
	if len(v) != len(*p) {
		return fmt.Errorf("expected %d parameter values, got %d", len(*p), len(v))
	}
	for i, par := range *p {
		par.Set(v[i])
	}
	return nil
}

// SetFromMap sets parameter values by name from a map; names missing
// from the map keep their values.
func (p *FloatParameters) SetFromMap(m map[string]float64) error {
	byName := make(map[string]FloatParameter, len(*p))
	for _, par := range *p {
		byName[par.Name()] = par
	}
	for name, v := range m {
		par, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown parameter '%s'", name)
		}
		par.Set(v)
	}
	return nil
}

// ValuesInRange returns true if all the values are within bounds.
func (p *FloatParameters) ValuesInRange(vals []float64) bool {
	if len(vals) != len(*p) {
		panic("incorrect number of parameters")
	}
	for i, par := range *p {
		if !par.ValueInRange(vals[i]) {
			return false
		}
	}
	return true
}

// InRange returns true if all the current values are within bounds.
func (p *FloatParameters) InRange() bool {
	for _, par := range *p {
		if !par.InRange() {
			return false
		}
	}
	return true
}

// Randomize sets all values to uniform random points within bounds.
func (p *FloatParameters) Randomize() {
	for _, par := range *p {
		min := math.Max(randMin, par.GetMin())
		max := math.Min(randMax, par.GetMax())
		par.Set(min + rand.Float64()*(max-min))
	}
}

// Update copies values from another parameter list.
func (p *FloatParameters) Update(src *FloatParameters) {
	for i := range *p {
		(*p)[i].Set((*src)[i].Get())
	}
}

// NamesString returns tab-separated parameter names.
func (p *FloatParameters) NamesString() (s string) {
	for i, par := range *p {
		if i != 0 {
			s += "\t"
		}
		s += par.Name()
	}
	return
}

// ValuesString returns tab-separated parameter values.
func (p *FloatParameters) ValuesString() (s string) {
	for i, par := range *p {
		if i != 0 {
			s += "\t"
		}
		s += par.String()
	}
	return
}

// ReadLine sets parameter values from a trajectory file line
// (iteration and likelihood columns are skipped).
func (p *FloatParameters) ReadLine(l string) error {
	v, err := ReadFloats(l)
	if err != nil {
		return err
	}
	if len(v) < 2 {
		return fmt.Errorf("incorrect trajectory line '%s'", l)
	}
	return p.SetValues(v[2:])
}

// MarshalJSON creates a JSON object with parameter values preserving
// the parameter order.
func (p FloatParameters) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, par := range p {
		if i != 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(par.Name())
		if err != nil {
			return nil, err
		}
		b.Write(name)
		b.WriteByte(':')
		value, err := json.Marshal(par.Get())
		if err != nil {
			return nil, err
		}
		b.Write(value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON sets parameter values from a JSON object.
func (p *FloatParameters) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	return p.SetFromMap(m)
}

// BasicFloatParameter is a basic implementation of FloatParameter.
type BasicFloatParameter struct {
	*float64
	old          float64
	name         string
	priorFunc    func(float64) float64
	proposalFunc func(float64) float64
	min          float64
	max          float64
}

// NewBasicFloatParameter creates a new BasicFloatParameter.
func NewBasicFloatParameter(par *float64, name string) *BasicFloatParameter {
	return &BasicFloatParameter{
		float64:      par,
		name:         name,
		priorFunc:    UniformPrior(-1, 1, true, true),
		proposalFunc: NormalProposal(1),
		min:          math.Inf(-1),
		max:          math.Inf(+1),
	}
}

// Name returns the parameter name.
func (p *BasicFloatParameter) Name() string {
	return p.name
}

// Get returns the parameter value.
func (p *BasicFloatParameter) Get() float64 {
	return *p.float64
}

// Set sets the parameter value.
func (p *BasicFloatParameter) Set(v float64) {
	*p.float64 = v
}

// SetMin sets the lower bound.
func (p *BasicFloatParameter) SetMin(min float64) {
	p.min = min
}

// SetMax sets the upper bound.
func (p *BasicFloatParameter) SetMax(max float64) {
	p.max = max
}

// GetMin returns the lower bound.
func (p *BasicFloatParameter) GetMin() float64 {
	return p.min
}

// GetMax returns the upper bound.
func (p *BasicFloatParameter) GetMax() float64 {
	return p.max
}

// SetPriorFunc sets the log-prior function.
func (p *BasicFloatParameter) SetPriorFunc(f func(float64) float64) {
	p.priorFunc = f
}

// SetProposalFunc sets the MCMC proposal function.
func (p *BasicFloatParameter) SetProposalFunc(f func(float64) float64) {
	p.proposalFunc = f
}

// Prior returns the log-prior for the current value.
func (p *BasicFloatParameter) Prior() float64 {
	return p.priorFunc(*p.float64)
}

// OldPrior returns the log-prior for the previous value.
func (p *BasicFloatParameter) OldPrior() float64 {
	return p.priorFunc(p.old)
}

// reflect puts the value back in the bounds.
func (p *BasicFloatParameter) reflect() {
	for *p.float64 < p.min || *p.float64 > p.max {
		if *p.float64 < p.min {
			*p.float64 = p.min + (p.min - *p.float64)
		}
		if *p.float64 > p.max {
			*p.float64 = p.max - (*p.float64 - p.max)
		}
	}
}

// Propose proposes a new value.
func (p *BasicFloatParameter) Propose() {
	p.old, *p.float64 = *p.float64, p.proposalFunc(*p.float64)
	p.reflect()
}

// Accept accepts the proposed value.
func (p *BasicFloatParameter) Accept(iter int) {
}

// Reject rejects the proposed value.
func (p *BasicFloatParameter) Reject() {
	*p.float64, p.old = p.old, *p.float64
}

// InRange returns true if the current value is within bounds.
func (p *BasicFloatParameter) InRange() bool {
	return *p.float64 >= p.min && *p.float64 <= p.max
}

// ValueInRange returns true if a value is within bounds.
func (p *BasicFloatParameter) ValueInRange(v float64) bool {
	return v >= p.min && v <= p.max
}

// String returns a string representation of the value.
func (p *BasicFloatParameter) String() string {
	return strconv.FormatFloat(*p.float64, 'f', 6, 64)
}
