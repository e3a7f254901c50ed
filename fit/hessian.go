package fit

import (
	"errors"

	"github.com/gonum/matrix"
	"github.com/gonum/matrix/mat64"
)

// hessianStep is the finite-difference step of the Hessian
// computation.
const hessianStep = 1e-4

// hessian computes the Hessian of f at x using the central
// difference method.
func hessian(f func([]float64) float64, x []float64) *mat64.Dense {
	n := len(x)
	h := mat64.NewDense(n, n, nil)
	xw := make([]float64, n)
	copy(xw, x)

	eval := func(di, dj int, i, j int) float64 {
		xw[i] += float64(di) * hessianStep
		xw[j] += float64(dj) * hessianStep
		res := f(xw)
		xw[i] = x[i]
		xw[j] = x[j]
		return res
	}

	f0 := f(xw)
	for i := 0; i < n; i++ {
		d2 := (eval(1, 0, i, i) - 2*f0 + eval(-1, 0, i, i)) / (hessianStep * hessianStep)
		h.Set(i, i, d2)
		for j := i + 1; j < n; j++ {
			d2 := (eval(1, 1, i, j) - eval(1, -1, i, j) - eval(-1, 1, i, j) + eval(-1, -1, i, j)) /
				(4 * hessianStep * hessianStep)
			h.Set(i, j, d2)
			h.Set(j, i, d2)
		}
	}
	return h
}

// singVals returns the singular values of a matrix in descending
// order.
func singVals(a *mat64.Dense) ([]float64, error) {
	var svd mat64.SVD
	if ok := svd.Factorize(a, matrix.SVDNone); !ok {
		return nil, errors.New("SVD factorization failed")
	}
	return svd.Values(nil), nil
}
