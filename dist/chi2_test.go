package dist

import (
	"math"
	"testing"
)

// smallDiff is a threshold for comparing with reference values.
const smallDiff = 1e-4

// reference values computed with R qchisq(prob, df)
var quantileRef = []struct {
	prob, df, q float64
}{
	{0.9, 1, 2.705543},
	{0.95, 1, 3.841459},
	{0.95, 2, 5.991465},
	{0.99, 5, 15.086272},
	{0.5, 10, 9.341818},
}

func TestQuantileChi2(tst *testing.T) {
	for _, ref := range quantileRef {
		q := QuantileChi2(ref.prob, ref.df)
		tst.Log("q=", q, ", Ref=", ref.q, ", diff=", math.Abs(q-ref.q))
		if math.IsNaN(q) || math.Abs(q-ref.q) > smallDiff {
			tst.Error("Expected ", ref.q, ", got", q)
		}
	}
}

func TestQuantileChi2Invalid(tst *testing.T) {
	for _, v := range []float64{QuantileChi2(0, 1), QuantileChi2(1, 1), QuantileChi2(0.5, 0)} {
		if !math.IsNaN(v) {
			tst.Error("Expected NaN, got", v)
		}
	}
}

func TestChi2CDFRoundTrip(tst *testing.T) {
	for _, ref := range quantileRef {
		p := Chi2CDF(ref.q, ref.df)
		if math.Abs(p-ref.prob) > smallDiff {
			tst.Error("Expected ", ref.prob, ", got", p)
		}
	}
}
