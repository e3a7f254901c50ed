// Package dist implements distribution functions used for
// goodness-of-fit testing.
package dist

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

const (
	// quantileTol is the absolute tolerance of the quantile search.
	quantileTol = 1e-10
	// maxBisections limits the bisection loop.
	maxBisections = 200
)

// Chi2CDF returns Prob{x<q} for x chi-square distributed with df=v.
func Chi2CDF(q, v float64) float64 {
	if q <= 0 {
		return 0
	}
	return mathext.GammaIncReg(v/2, q/2)
}

// QuantileChi2 returns q so that Prob{x<q}=prob where x is chi-square
// distributed with df=v. Returns NaN for prob outside of (0, 1) or
// non-positive df.
func QuantileChi2(prob, v float64) float64 {
	if prob <= 0 || prob >= 1 || v <= 0 {
		return math.NaN()
	}

	// bracket the quantile; mean + k standard deviations grows fast
	// enough for any reasonable prob
	lo, hi := 0.0, v+10*math.Sqrt(2*v)+10
	for Chi2CDF(hi, v) < prob {
		hi *= 2
	}

	for i := 0; i < maxBisections; i++ {
		mid := (lo + hi) / 2
		if Chi2CDF(mid, v) < prob {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < quantileTol {
			break
		}
	}
	return (lo + hi) / 2
}
