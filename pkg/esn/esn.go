// Package esn implements the numerical core of an echo state network:
// teacher-forced state harvesting, readout training by pseudoinverse, least
// squares or ridge regression, and deterministic single-step and batch
// simulation with optional output feedback.
//
// A network is constructed from a validated Config and a set of weight
// matrices, typically produced by the reservoir package. All operations are
// single threaded; callers own synchronization.
package esn

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"aureservoir/internal/act"
	"aureservoir/internal/num"
)

// Weights bundles the fixed connection matrices of a network: the reservoir
// recurrence (size x size), the input weights (size x inputs) and the output
// feedback weights (size x outputs).
type Weights[F constraints.Float] struct {
	Reservoir [][]F
	Input     [][]F
	Feedback  [][]F
}

// Clone returns a deep copy.
func (w Weights[F]) Clone() Weights[F] {
	return Weights[F]{
		Reservoir: num.Clone(w.Reservoir),
		Input:     num.Clone(w.Input),
		Feedback:  num.Clone(w.Feedback),
	}
}

func (w Weights[F]) validate(cfg Config) error {
	if rows, cols, ok := num.Shape(w.Reservoir); !ok || rows != cfg.Size || cols != cfg.Size {
		return fmt.Errorf("esn: reservoir weights: got=%dx%d want=%dx%d: %w", rows, cols, cfg.Size, cfg.Size, ErrConfiguration)
	}
	if rows, cols, ok := num.Shape(w.Input); !ok || rows != cfg.Size || cols != cfg.Inputs {
		return fmt.Errorf("esn: input weights: got=%dx%d want=%dx%d: %w", rows, cols, cfg.Size, cfg.Inputs, ErrConfiguration)
	}
	if rows, cols, ok := num.Shape(w.Feedback); !ok || rows != cfg.Size || cols != cfg.Outputs {
		return fmt.Errorf("esn: feedback weights: got=%dx%d want=%dx%d: %w", rows, cols, cfg.Size, cfg.Outputs, ErrConfiguration)
	}
	return nil
}

type kernels[F constraints.Float] struct {
	apply   func([]F)
	inverse func([]F)
}

// activationKernels resolves an Activation to its forward and inverse slice
// kernels for the element type.
func activationKernels[F constraints.Float](a Activation) kernels[F] {
	switch a {
	case ActTanh:
		return kernels[F]{apply: act.Tanh[F], inverse: act.TanhInverse[F]}
	default:
		return kernels[F]{apply: act.Identity[F], inverse: act.Identity[F]}
	}
}

// Network is an echo state network over a fixed element type. The zero value
// is not usable; construct with New or FromSnapshot.
type Network[F constraints.Float] struct {
	cfg     Config
	weights Weights[F]
	wout    [][]F
	state   []F
	lastOut []F

	resAct    func([]F)
	outAct    func([]F)
	outActInv func([]F)

	// scratch buffers reused across steps
	preState []F
	features []F

	ready bool
}

// New builds a network from a configuration and its weight matrices. The
// weights are deep copied; the readout starts at zero, as do the reservoir
// state and the feedback value.
func New[F constraints.Float](cfg Config, weights Weights[F]) (*Network[F], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := weights.validate(cfg); err != nil {
		return nil, err
	}

	reservoirKernels := activationKernels[F](cfg.ReservoirActivation)
	outputKernels := activationKernels[F](cfg.OutputActivation)

	return &Network[F]{
		cfg:       cfg,
		weights:   weights.Clone(),
		wout:      num.Zeros[F](cfg.Outputs, cfg.featureCount()),
		state:     make([]F, cfg.Size),
		lastOut:   make([]F, cfg.Outputs),
		resAct:    reservoirKernels.apply,
		outAct:    outputKernels.apply,
		outActInv: outputKernels.inverse,
		preState:  make([]F, cfg.Size),
		features:  make([]F, cfg.featureCount()),
		ready:     true,
	}, nil
}

func (n *Network[F]) ensureReady() error {
	if !n.ready {
		return fmt.Errorf("esn: network not constructed: %w", ErrState)
	}
	return nil
}

// Config returns the network configuration.
func (n *Network[F]) Config() Config {
	return n.cfg
}

// Weights returns a deep copy of the connection matrices.
func (n *Network[F]) Weights() Weights[F] {
	return n.weights.Clone()
}

// Wout returns a copy of the trained readout matrix, outputs x feature
// count. It is all zeroes before the first training.
func (n *Network[F]) Wout() [][]F {
	return num.Clone(n.wout)
}

// SetWout replaces the readout matrix, for example with one restored from a
// snapshot or computed externally.
func (n *Network[F]) SetWout(wout [][]F) error {
	if err := n.ensureReady(); err != nil {
		return err
	}
	rows, cols, ok := num.Shape(wout)
	if !ok || rows != n.cfg.Outputs || cols != n.cfg.featureCount() {
		return fmt.Errorf("esn: readout weights: got=%dx%d want=%dx%d: %w", rows, cols, n.cfg.Outputs, n.cfg.featureCount(), ErrConfiguration)
	}
	n.wout = num.Clone(wout)
	return nil
}

// State returns a copy of the reservoir state.
func (n *Network[F]) State() []F {
	return num.CloneVec(n.state)
}

// LastOutput returns a copy of the current feedback value.
func (n *Network[F]) LastOutput() []F {
	return num.CloneVec(n.lastOut)
}

// ResetState zeroes the reservoir state. The feedback value is left alone;
// use SetLastOutput to change it.
func (n *Network[F]) ResetState() {
	num.ZeroVec(n.state)
}

// SetLastOutput overrides the feedback value used by the next step. This is
// the teacher-forcing hook.
func (n *Network[F]) SetLastOutput(value []F) error {
	if err := n.ensureReady(); err != nil {
		return err
	}
	if len(value) != n.cfg.Outputs {
		return fmt.Errorf("esn: last output length: got=%d want=%d: %w", len(value), n.cfg.Outputs, ErrState)
	}
	copy(n.lastOut, value)
	return nil
}

// Clone returns an independent network with the same configuration, weights
// and readout, and freshly zeroed state and feedback value.
func (n *Network[F]) Clone() *Network[F] {
	return &Network[F]{
		cfg:       n.cfg,
		weights:   n.weights.Clone(),
		wout:      num.Clone(n.wout),
		state:     make([]F, len(n.state)),
		lastOut:   make([]F, len(n.lastOut)),
		resAct:    n.resAct,
		outAct:    n.outAct,
		outActInv: n.outActInv,
		preState:  make([]F, len(n.preState)),
		features:  make([]F, len(n.features)),
		ready:     n.ready,
	}
}
