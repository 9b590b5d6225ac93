package esn

import (
	"fmt"

	"aureservoir/internal/num"
)

// step advances the reservoir one tick: weighted sums of the previous state,
// the input vector and the current feedback value, then the reservoir
// activation. The leaky variant adds the decayed previous state before the
// activation.
func (n *Network[F]) step(input []F) {
	num.ZeroVec(n.preState)
	num.MulVecAcc(n.preState, n.weights.Reservoir, n.state)
	num.MulVecAcc(n.preState, n.weights.Input, input)
	num.MulVecAcc(n.preState, n.weights.Feedback, n.lastOut)
	if n.cfg.Simulation == SimLeaky {
		decay := F(1 - n.cfg.LeakingRate)
		for i, previous := range n.state {
			n.preState[i] += decay * previous
		}
	}
	n.state, n.preState = n.preState, n.state
	n.resAct(n.state)
}

// readout computes Wout over the feature vector [x; u], with squared
// features appended in square mode, and applies the output activation
// into dst.
func (n *Network[F]) readout(input []F, dst []F) {
	copy(n.features, n.state)
	copy(n.features[n.cfg.Size:], input)
	if n.cfg.Simulation == SimSquare {
		base := n.cfg.Size + n.cfg.Inputs
		for i := 0; i < base; i++ {
			n.features[base+i] = n.features[i] * n.features[i]
		}
	}
	num.ZeroVec(dst)
	num.MulVecAcc(dst, n.wout, n.features)
	n.outAct(dst)
}

// SimulateStep advances the network one step on the given input and writes
// the produced output into out. The produced output becomes the feedback
// value for the next step. Identical inputs from identical state always
// produce identical outputs.
func (n *Network[F]) SimulateStep(input, out []F) error {
	if err := n.ensureReady(); err != nil {
		return err
	}
	if len(input) != n.cfg.Inputs {
		return fmt.Errorf("esn: simulate input length: got=%d want=%d: %w", len(input), n.cfg.Inputs, ErrConfiguration)
	}
	if len(out) != n.cfg.Outputs {
		return fmt.Errorf("esn: simulate output length: got=%d want=%d: %w", len(out), n.cfg.Outputs, ErrConfiguration)
	}

	n.step(input)
	n.readout(input, out)
	copy(n.lastOut, out)
	return nil
}

// Simulate runs the network in generator mode over every column of in,
// filling the matching column of out. It is exactly T single steps: each
// step feeds back the output it just produced.
func (n *Network[F]) Simulate(in, out [][]F) error {
	if err := n.ensureReady(); err != nil {
		return err
	}
	steps, err := n.checkInputSeries(in)
	if err != nil {
		return err
	}
	if rows, cols, ok := num.Shape(out); !ok || rows != n.cfg.Outputs || cols != steps {
		return fmt.Errorf("esn: simulate output block: got=%dx%d want=%dx%d: %w", rows, cols, n.cfg.Outputs, steps, ErrConfiguration)
	}

	input := make([]F, n.cfg.Inputs)
	output := make([]F, n.cfg.Outputs)
	for t := 0; t < steps; t++ {
		for k := range input {
			input[k] = in[k][t]
		}
		if err := n.SimulateStep(input, output); err != nil {
			return err
		}
		for l := range output {
			out[l][t] = output[l]
		}
	}
	return nil
}

// checkInputSeries validates an inputs x T block and returns T.
func (n *Network[F]) checkInputSeries(in [][]F) (int, error) {
	rows, cols, ok := num.Shape(in)
	if !ok {
		return 0, fmt.Errorf("esn: input block has ragged rows: %w", ErrConfiguration)
	}
	if rows != n.cfg.Inputs {
		return 0, fmt.Errorf("esn: input block rows: got=%d want=%d: %w", rows, n.cfg.Inputs, ErrConfiguration)
	}
	if cols < 1 {
		return 0, fmt.Errorf("esn: input block needs at least one step: %w", ErrConfiguration)
	}
	return cols, nil
}
