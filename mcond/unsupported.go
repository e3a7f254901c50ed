package mcond

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned by single-condition operations which
// have no meaningful aggregate over multiple conditions.
var ErrNotSupported = errors.New("not supported for multiple conditions")

// notSupported wraps ErrNotSupported with the operation name.
func notSupported(op string) error {
	return fmt.Errorf("%s: %w", op, ErrNotSupported)
}

// NumStiffSingVals is a single-condition operation; it always fails
// and mutates nothing.
func (f *Fitter) NumStiffSingVals(name string, cutoff float64) (int, error) {
	return 0, notSupported("stiff singular value count")
}

// StiffSingVals is a single-condition operation; it always fails and
// mutates nothing.
func (f *Fitter) StiffSingVals(name string) ([]float64, error) {
	return nil, notSupported("stiffness singular values")
}

// UpdateResults is a single-condition operation; it always fails and
// mutates nothing.
func (f *Fitter) UpdateResults(name string) error {
	return notSupported("in-place result update")
}

// OutOfSampleCorrelation is a single-condition operation; it always
// fails and mutates nothing.
func (f *Fitter) OutOfSampleCorrelation(name string) (float64, error) {
	return 0, notSupported("out-of-sample correlation")
}

// AllOutOfSampleCorrelations is a single-condition operation; it
// always fails and mutates nothing.
func (f *Fitter) AllOutOfSampleCorrelations() (map[string]float64, error) {
	return nil, notSupported("out-of-sample correlations")
}

// CorrelationWithGroundTruth is a single-condition operation; it
// always fails and mutates nothing.
func (f *Fitter) CorrelationWithGroundTruth(name string) (float64, error) {
	return 0, notSupported("correlation with the ground truth")
}

// FixOldFormat is a single-condition operation; it always fails and
// mutates nothing.
func (f *Fitter) FixOldFormat() error {
	return notSupported("legacy format migration")
}
