// Package reservoir builds randomized weight matrices for echo state
// networks: a sparse reservoir recurrence rescaled to a target spectral
// radius, plus input and feedback weights drawn at their configured
// densities with scale and shift applied.
package reservoir

import (
	"errors"
	"fmt"
	"math/cmplx"
	"math/rand"
	"time"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"

	"aureservoir/internal/num"
	"aureservoir/pkg/esn"
)

// ErrZeroSpectralRadius reports a reservoir draw whose largest eigenvalue
// magnitude is zero, which cannot be rescaled to the configured spectral
// radius. Raising size or connectivity avoids it.
var ErrZeroSpectralRadius = errors.New("reservoir: zero spectral radius")

// Build draws the weight matrices described by cfg. A nil rng falls back to
// a time-seeded source; pass a seeded one for reproducible networks.
func Build[F constraints.Float](cfg esn.Config, rng *rand.Rand) (esn.Weights[F], error) {
	if err := cfg.Validate(); err != nil {
		return esn.Weights[F]{}, err
	}
	rng = ensureRNG(rng)

	recurrence := sparseUniform(rng, cfg.Size, cfg.Size, cfg.Connectivity, 1, 0)
	radius, err := spectralRadius(recurrence)
	if err != nil {
		return esn.Weights[F]{}, err
	}
	if radius == 0 {
		return esn.Weights[F]{}, fmt.Errorf("reservoir: cannot rescale %dx%d draw at connectivity %g: %w",
			cfg.Size, cfg.Size, cfg.Connectivity, ErrZeroSpectralRadius)
	}
	scale := cfg.SpectralRadius / radius
	for _, row := range recurrence {
		for j := range row {
			row[j] *= scale
		}
	}

	input := sparseUniform(rng, cfg.Size, cfg.Inputs, cfg.InputConnectivity, cfg.InputScale, cfg.InputShift)
	feedback := sparseUniform(rng, cfg.Size, cfg.Outputs, cfg.FeedbackConnectivity, cfg.FeedbackScale, cfg.FeedbackShift)

	return esn.Weights[F]{
		Reservoir: num.Narrow[F](recurrence),
		Input:     num.Narrow[F](input),
		Feedback:  num.Narrow[F](feedback),
	}, nil
}

// sparseUniform draws a rows x cols matrix whose entries are nonzero with
// probability density, each uniform in (-1, 1) times scale plus shift.
func sparseUniform(rng *rand.Rand, rows, cols int, density, scale, shift float64) [][]float64 {
	out := num.Zeros[float64](rows, cols)
	for i := range out {
		for j := range out[i] {
			if rng.Float64() < density {
				out[i][j] = (2*rng.Float64()-1)*scale + shift
			}
		}
	}
	return out
}

// spectralRadius returns the largest eigenvalue magnitude of the square
// matrix m.
func spectralRadius(m [][]float64) (float64, error) {
	var eigen mat.Eigen
	if ok := eigen.Factorize(num.ToDense(m), mat.EigenNone); !ok {
		return 0, errors.New("reservoir: eigenvalue decomposition failed")
	}
	radius := 0.0
	for _, value := range eigen.Values(nil) {
		if magnitude := cmplx.Abs(value); magnitude > radius {
			radius = magnitude
		}
	}
	return radius, nil
}

func ensureRNG(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
