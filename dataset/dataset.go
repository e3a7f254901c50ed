// Package dataset stores experimental data for a single condition.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("dataset")

// defaultSigma is the measurement uncertainty used when a data file
// does not provide one.
const defaultSigma = 1

// Point is a single measurement: a value with an uncertainty taken at
// a given time.
type Point struct {
	// T is the measurement time.
	T float64
	// Value is the measured value.
	Value float64
	// Sigma is the measurement uncertainty.
	Sigma float64
}

// Series is an ordered sequence of measurements taken under one
// independent-parameter setting.
type Series []Point

// Dataset is the data of one experimental condition: one or more
// measurement series.
type Dataset struct {
	// Name identifies the condition (e.g. source file name).
	Name string
	// Series are the measurement series of the condition.
	Series []Series
}

// NewDataset creates a dataset with a single series.
func NewDataset(name string, s Series) *Dataset {
	return &Dataset{Name: name, Series: []Series{s}}
}

// NPoints returns the total number of measurements.
func (d *Dataset) NPoints() (res int) {
	for _, s := range d.Series {
		res += len(s)
	}
	return
}

// ParseSeries reads a series from a whitespace-separated text stream.
// Every line holds two or three columns: time, value and an optional
// uncertainty. Empty lines and lines starting with '#' are skipped.
func ParseSeries(r io.Reader) (Series, error) {
	var s Series
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("line %d: expected 2 or 3 columns, got %d", lineno, len(fields))
		}
		p := Point{Sigma: defaultSigma}
		var err error
		if p.T, err = strconv.ParseFloat(fields[0], 64); err != nil {
			return nil, fmt.Errorf("line %d: %v", lineno, err)
		}
		if p.Value, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, fmt.Errorf("line %d: %v", lineno, err)
		}
		if len(fields) == 3 {
			if p.Sigma, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, fmt.Errorf("line %d: %v", lineno, err)
			}
			if p.Sigma <= 0 {
				return nil, fmt.Errorf("line %d: uncertainty must be positive", lineno)
			}
		}
		s = append(s, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("no data points")
	}
	return s, nil
}

// ReadFile reads a single-series dataset from a file.
func ReadFile(filename string) (*Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ParseSeries(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}
	log.Infof("Read %d data points from %s", len(s), filename)
	return NewDataset(filename, s), nil
}
