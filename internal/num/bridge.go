package num

import (
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"
)

// ToDense converts m to a float64 gonum matrix. m must be non-empty and
// rectangular; the regression layer validates shapes before converting.
func ToDense[F constraints.Float](m [][]F) *mat.Dense {
	rows, cols, _ := Shape(m)
	d := mat.NewDense(rows, cols, nil)
	for i, row := range m {
		for j, value := range row {
			d.Set(i, j, float64(value))
		}
	}
	return d
}

// FromDenseTransposed converts the transpose of d to rows of F, narrowing
// when F is float32. The regression solvers return feature-by-output
// solutions; the readout stores them output-by-feature.
func FromDenseTransposed[F constraints.Float](d *mat.Dense) [][]F {
	rows, cols := d.Dims()
	out := make([][]F, cols)
	for j := 0; j < cols; j++ {
		row := make([]F, rows)
		for i := 0; i < rows; i++ {
			row[i] = F(d.At(i, j))
		}
		out[j] = row
	}
	return out
}

// Widen converts m to float64 rows.
func Widen[F constraints.Float](m [][]F) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		wide := make([]float64, len(row))
		for j, value := range row {
			wide[j] = float64(value)
		}
		out[i] = wide
	}
	return out
}

// Narrow converts float64 rows to rows of F.
func Narrow[F constraints.Float](m [][]float64) [][]F {
	out := make([][]F, len(m))
	for i, row := range m {
		narrow := make([]F, len(row))
		for j, value := range row {
			narrow[j] = F(value)
		}
		out[i] = narrow
	}
	return out
}
