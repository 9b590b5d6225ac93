package esn

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"aureservoir/internal/act"
	"aureservoir/internal/num"
)

// Train fits the readout to reproduce out from in. The rollout starts from a
// zeroed state and feedback value, teacher-forces the feedback with the
// previous output column, discards the first washout states, and solves the
// configured regression over the retained ones. With relaxation stages
// configured, the sequence is then replayed closed loop to regenerate the
// teacher signal and the readout is refit, once per stage.
//
// After Train returns, the reservoir state and the feedback value sit at
// their end-of-rollout values, so generator-mode simulation continues the
// trained sequence seamlessly.
func (n *Network[F]) Train(in, out [][]F, washout int) error {
	if err := n.ensureReady(); err != nil {
		return err
	}
	steps, err := n.checkInputSeries(in)
	if err != nil {
		return err
	}
	if rows, cols, ok := num.Shape(out); !ok || rows != n.cfg.Outputs || cols != steps {
		return fmt.Errorf("esn: teacher block: got=%dx%d want=%dx%d: %w", rows, cols, n.cfg.Outputs, steps, ErrConfiguration)
	}
	if washout < 0 || washout >= steps {
		return fmt.Errorf("esn: washout %d out of range for %d steps: %w", washout, steps, ErrConfiguration)
	}
	if n.cfg.OutputActivation == ActTanh {
		for l, row := range out {
			if !act.InTanhDomain(row) {
				return fmt.Errorf("esn: teacher output %d leaves (-1,1), tanh output cannot be inverted: %w", l, ErrConfiguration)
			}
		}
	}

	if err := n.fit(in, out, washout); err != nil {
		return err
	}
	for stage := 0; stage < n.cfg.RelaxationStages; stage++ {
		regenerated := n.regenerateTeacher(in, out)
		if err := n.fit(in, regenerated, washout); err != nil {
			return err
		}
	}
	return nil
}

// fit performs one teacher-forced rollout and one regression solve.
func (n *Network[F]) fit(in, out [][]F, washout int) error {
	steps := len(in[0])
	rows := steps - washout
	base := n.cfg.Size + n.cfg.Inputs

	design := mat.NewDense(rows, n.cfg.featureCount(), nil)
	n.forcedRollout(in, out, func(t int, state []F) {
		if t < washout {
			return
		}
		r := t - washout
		for i, value := range state {
			design.Set(r, i, float64(value))
		}
		for k := 0; k < n.cfg.Inputs; k++ {
			design.Set(r, n.cfg.Size+k, float64(in[k][t]))
		}
		if n.cfg.Simulation == SimSquare {
			for j := 0; j < base; j++ {
				value := design.At(r, j)
				design.Set(r, base+j, value*value)
			}
		}
	})

	targets := mat.NewDense(rows, n.cfg.Outputs, nil)
	targetRow := make([]F, n.cfg.Outputs)
	for r := 0; r < rows; r++ {
		t := washout + r
		for l := range targetRow {
			targetRow[l] = out[l][t]
		}
		n.outActInv(targetRow)
		for l, value := range targetRow {
			targets.Set(r, l, float64(value))
		}
	}

	var solution *mat.Dense
	var err error
	switch n.cfg.Training {
	case TrainPI:
		solution, err = num.SolvePseudoInverse(design, targets)
	case TrainLS:
		solution, err = num.SolveLeastSquares(design, targets)
	case TrainRidge:
		solution, err = num.SolveRidge(design, targets, n.cfg.TikhonovFactor)
	default:
		return fmt.Errorf("esn: unknown training algorithm %d: %w", int(n.cfg.Training), ErrConfiguration)
	}
	if err != nil {
		if errors.Is(err, num.ErrSingular) {
			return fmt.Errorf("esn: train %s: %v: %w", n.cfg.Training, err, ErrNumerical)
		}
		return fmt.Errorf("esn: train %s: %w", n.cfg.Training, err)
	}

	n.wout = num.FromDenseTransposed[F](solution)
	return nil
}

// forcedRollout drives one teacher-forced pass over every column of in,
// starting from a zeroed state and feedback value. Step t uses input column
// t; after the step the feedback value is forced to teacher column t, so
// step t+1 sees teacher column t. A nil teacher leaves the feedback at zero
// for the whole pass. record receives every post-activation state.
func (n *Network[F]) forcedRollout(in, teacher [][]F, record func(t int, state []F)) {
	num.ZeroVec(n.state)
	num.ZeroVec(n.lastOut)

	steps := len(in[0])
	input := make([]F, n.cfg.Inputs)
	for t := 0; t < steps; t++ {
		for k := range input {
			input[k] = in[k][t]
		}
		n.step(input)
		record(t, n.state)
		if teacher != nil {
			for l := range n.lastOut {
				n.lastOut[l] = teacher[l][t]
			}
		}
	}
}

// regenerateTeacher replays the sequence closed loop without resetting
// state: every step produces the network's own estimate, which is recorded,
// and the feedback is then forced back to the original teacher column. The
// first column keeps the teacher value and its estimate is discarded.
func (n *Network[F]) regenerateTeacher(in, out [][]F) [][]F {
	steps := len(in[0])
	regenerated := num.Zeros[F](n.cfg.Outputs, steps)
	input := make([]F, n.cfg.Inputs)
	estimate := make([]F, n.cfg.Outputs)
	for t := 0; t < steps; t++ {
		for k := range input {
			input[k] = in[k][t]
		}
		n.step(input)
		n.readout(input, estimate)
		if t == 0 {
			for l := range estimate {
				regenerated[l][0] = out[l][0]
			}
		} else {
			for l, value := range estimate {
				regenerated[l][t] = value
			}
		}
		for l := range n.lastOut {
			n.lastOut[l] = out[l][t]
		}
	}
	return regenerated
}

// CollectStates runs a teacher-forced rollout with a zero feedback signal
// and writes the post-washout states into the caller's buffer: column
// t-washout of states receives the post-activation state of step t. states
// must be size x (T-washout).
func (n *Network[F]) CollectStates(in, states [][]F, washout int) error {
	if err := n.ensureReady(); err != nil {
		return err
	}
	steps, err := n.checkInputSeries(in)
	if err != nil {
		return err
	}
	if washout < 0 || washout >= steps {
		return fmt.Errorf("esn: washout %d out of range for %d steps: %w", washout, steps, ErrConfiguration)
	}
	if rows, cols, ok := num.Shape(states); !ok || rows != n.cfg.Size || cols != steps-washout {
		return fmt.Errorf("esn: state buffer: got=%dx%d want=%dx%d: %w", rows, cols, n.cfg.Size, steps-washout, ErrConfiguration)
	}

	n.forcedRollout(in, nil, func(t int, state []F) {
		if t < washout {
			return
		}
		c := t - washout
		for i, value := range state {
			states[i][c] = value
		}
	})
	return nil
}
