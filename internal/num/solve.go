package num

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular reports a solve whose system matrix is singular, or close
// enough to singular that the decomposition refuses it.
var ErrSingular = errors.New("num: singular system matrix")

// SolvePseudoInverse returns the minimum-norm least-squares solution X of
// design * X = targets through a thin SVD, truncating singular values below
// a relative tolerance. It is defined for any design shape, including rank
// deficient and underdetermined systems.
func SolvePseudoInverse(design, targets *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if !svd.Factorize(design, mat.SVDThin) {
		return nil, fmt.Errorf("num: svd factorization did not converge: %w", ErrSingular)
	}

	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	rows, cols := design.Dims()
	larger := rows
	if cols > larger {
		larger = cols
	}
	tol := 0.0
	if len(values) > 0 {
		tol = float64(larger) * epsilon * values[0]
	}

	// scaled = Sigma^+ * U^T * targets, then X = V * scaled.
	var scaled mat.Dense
	scaled.Mul(u.T(), targets)
	scaledRows, scaledCols := scaled.Dims()
	for i := 0; i < scaledRows; i++ {
		if values[i] > tol {
			for j := 0; j < scaledCols; j++ {
				scaled.Set(i, j, scaled.At(i, j)/values[i])
			}
		} else {
			for j := 0; j < scaledCols; j++ {
				scaled.Set(i, j, 0)
			}
		}
	}

	var x mat.Dense
	x.Mul(&v, &scaled)
	return &x, nil
}

// SolveLeastSquares returns the least-squares solution of design * X =
// targets through gonum's QR (or LQ, when underdetermined) path. This is a
// distinct decomposition from SolvePseudoInverse and may lose precision on
// ill-conditioned systems; near-singular solves succeed with whatever
// precision the factorization delivers.
func SolveLeastSquares(design, targets *mat.Dense) (*mat.Dense, error) {
	var x mat.Dense
	if err := x.Solve(design, targets); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("num: least squares solve: %w", ErrSingular)
		}
	}
	return &x, nil
}

// SolveRidge returns the Tikhonov-regularized solution
// (design^T design + lambda^2 I)^-1 design^T targets. With lambda = 0 the
// normal matrix must be invertible, so a rank-deficient design is reported
// as ErrSingular rather than papered over.
func SolveRidge(design, targets *mat.Dense, lambda float64) (*mat.Dense, error) {
	_, cols := design.Dims()

	var normal mat.Dense
	normal.Mul(design.T(), design)
	alpha := lambda * lambda
	for i := 0; i < cols; i++ {
		normal.Set(i, i, normal.At(i, i)+alpha)
	}

	var inverse mat.Dense
	if err := inverse.Inverse(&normal); err != nil {
		return nil, fmt.Errorf("num: normal matrix not invertible (lambda=%g): %w", lambda, ErrSingular)
	}

	var projected, x mat.Dense
	projected.Mul(&inverse, design.T())
	x.Mul(&projected, targets)
	return &x, nil
}

var epsilon = math.Nextafter(1, 2) - 1
