// Package act provides the elementwise activation kernels used by the
// reservoir and readout layers. All kernels operate in place over slices.
package act

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Tanh applies the hyperbolic tangent elementwise in place.
func Tanh[F constraints.Float](values []F) {
	for i, value := range values {
		values[i] = F(math.Tanh(float64(value)))
	}
}

// TanhInverse applies the inverse hyperbolic tangent elementwise in place.
// Values outside (-1, 1) produce infinities, mirroring math.Atanh; callers
// that cannot tolerate that must range-check first.
func TanhInverse[F constraints.Float](values []F) {
	for i, value := range values {
		values[i] = F(math.Atanh(float64(value)))
	}
}

// Identity leaves values untouched. It exists so identity and tanh share a
// kernel signature.
func Identity[F constraints.Float](_ []F) {}

// InTanhDomain reports whether every value lies strictly inside (-1, 1),
// the domain on which TanhInverse stays finite.
func InTanhDomain[F constraints.Float](values []F) bool {
	for _, value := range values {
		v := float64(value)
		if v <= -1 || v >= 1 || math.IsNaN(v) {
			return false
		}
	}
	return true
}
