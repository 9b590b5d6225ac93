// Package num holds the dense linear-algebra kernels shared by the network
// core: generic slice matrices on the stepping path and float64 gonum-backed
// solvers for readout regression.
package num

import "golang.org/x/exp/constraints"

// Zeros allocates a rows x cols matrix of zeroes.
func Zeros[F constraints.Float](rows, cols int) [][]F {
	out := make([][]F, rows)
	for i := range out {
		out[i] = make([]F, cols)
	}
	return out
}

// Clone returns a deep copy of m.
func Clone[F constraints.Float](m [][]F) [][]F {
	out := make([][]F, len(m))
	for i, row := range m {
		out[i] = append([]F(nil), row...)
	}
	return out
}

// CloneVec returns a copy of v.
func CloneVec[F constraints.Float](v []F) []F {
	return append([]F(nil), v...)
}

// Shape returns the row and column counts of m and whether every row has the
// same length. A matrix with zero rows has shape (0, 0).
func Shape[F constraints.Float](m [][]F) (rows, cols int, ok bool) {
	rows = len(m)
	if rows == 0 {
		return 0, 0, true
	}
	cols = len(m[0])
	for _, row := range m {
		if len(row) != cols {
			return rows, cols, false
		}
	}
	return rows, cols, true
}

// MulVecAcc accumulates a*x into dst: dst[i] += sum_j a[i][j] * x[j].
// len(dst) must equal len(a) and every row of a must have len(x).
func MulVecAcc[F constraints.Float](dst []F, a [][]F, x []F) {
	for i, row := range a {
		var sum F
		for j, weight := range row {
			sum += weight * x[j]
		}
		dst[i] += sum
	}
}

// ZeroVec sets every element of v to zero.
func ZeroVec[F constraints.Float](v []F) {
	for i := range v {
		v[i] = 0
	}
}
