package optimize

import (
	"math"
	"testing"
)

const priorTol = 1e-5

func TestUniformPrior(tst *testing.T) {
	inc := UniformPrior(-1, 1, true, true)
	if math.Abs(inc(0)+math.Log(2)) > priorTol {
		tst.Error("incorrect in-range uniform prior:", inc(0))
	}
	if inc(0.3) != inc(-0.9) {
		tst.Error("uniform prior is not flat:", inc(0.3), inc(-0.9))
	}
	if !math.IsInf(inc(1.5), -1) || !math.IsInf(inc(-1.5), -1) {
		tst.Error("expected -Inf outside the range")
	}
	if math.IsInf(inc(1), -1) || math.IsInf(inc(-1), -1) {
		tst.Error("inclusive bounds should be in range")
	}

	exc := UniformPrior(-1, 1, false, false)
	if !math.IsInf(exc(1), -1) || !math.IsInf(exc(-1), -1) {
		tst.Error("exclusive bounds should be out of range")
	}
}

func TestNormalPrior(tst *testing.T) {
	prior := NormalPrior(2)
	// dnorm(0, sd=2, log=TRUE), dnorm(2, sd=2, log=TRUE)
	if math.Abs(prior(0)+1.612086) > priorTol {
		tst.Error("incorrect normal prior at 0:", prior(0))
	}
	if math.Abs(prior(2)+2.112086) > priorTol {
		tst.Error("incorrect normal prior at 2:", prior(2))
	}
	if prior(1) != prior(-1) {
		tst.Error("normal prior should be symmetric")
	}
}

func TestGammaPrior(tst *testing.T) {
	prior := GammaPrior(2, 1, false)
	// dgamma(1, shape=2, scale=1, log=TRUE)
	if math.Abs(prior(1)+1) > priorTol {
		tst.Error("incorrect gamma prior at 1:", prior(1))
	}
	if !math.IsInf(prior(-1), -1) {
		tst.Error("expected -Inf for negative values")
	}
	if !math.IsInf(prior(0), -1) {
		tst.Error("expected -Inf at zero when zero is excluded")
	}

	// dgamma(2, shape=1, scale=2, log=TRUE)
	exponential := GammaPrior(1, 2, false)
	if math.Abs(exponential(2)+1.693147) > priorTol {
		tst.Error("incorrect gamma prior at 2:", exponential(2))
	}
}

func TestUniformProposal(tst *testing.T) {
	proposal := UniformProposal(1)
	for i := 0; i < 1000; i++ {
		v := proposal(3)
		if v < 2.5 || v > 3.5 {
			tst.Fatal("proposed value outside the window:", v)
		}
	}
}

func TestNormalProposal(tst *testing.T) {
	proposal := NormalProposal(0.5)
	for i := 0; i < 1000; i++ {
		if math.IsNaN(proposal(0)) {
			tst.Fatal("proposed value is NaN")
		}
	}
}
