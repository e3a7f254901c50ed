package dataset

import (
	"strings"
	"testing"
)

const data1 = `
# time value sigma
0 1.0 0.1
1 2.5 0.1
2 4.9
`

func TestParseSeries(tst *testing.T) {
	s, err := ParseSeries(strings.NewReader(data1))
	if err != nil {
		tst.Error("Error: ", err)
	}
	if len(s) != 3 {
		tst.Error("Expected 3 points, got", len(s))
	}
	if s[1].T != 1 || s[1].Value != 2.5 || s[1].Sigma != 0.1 {
		tst.Error("Incorrect point:", s[1])
	}
	// default uncertainty
	if s[2].Sigma != 1 {
		tst.Error("Expected default sigma 1, got", s[2].Sigma)
	}
}

func TestParseSeriesErrors(tst *testing.T) {
	for _, data := range []string{
		"",
		"1",
		"1 2 3 4",
		"1 x",
		"1 2 0",
	} {
		if _, err := ParseSeries(strings.NewReader(data)); err == nil {
			tst.Errorf("Expected an error for %q", data)
		}
	}
}

func TestNPoints(tst *testing.T) {
	s, err := ParseSeries(strings.NewReader(data1))
	if err != nil {
		tst.Error("Error: ", err)
	}
	d := NewDataset("test", s)
	d.Series = append(d.Series, s[:2])
	if d.NPoints() != 5 {
		tst.Error("Expected 5 points, got", d.NPoints())
	}
}
