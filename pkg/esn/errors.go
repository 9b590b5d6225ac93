package esn

import "errors"

// Failure classes. Every error returned by this package wraps exactly one of
// these sentinels, so callers can sort failures with errors.Is.
var (
	// ErrConfiguration covers invalid configuration values, unknown
	// algorithm or activation names, and data whose dimensions disagree
	// with the configured sizes.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNumerical covers solves that fail numerically, such as the
	// singular normal matrix of unregularized ridge regression on a rank
	// deficient design.
	ErrNumerical = errors.New("numerical failure")

	// ErrState covers operations on a network that was never constructed
	// and state or output vectors of the wrong length.
	ErrState = errors.New("invalid network state")
)
