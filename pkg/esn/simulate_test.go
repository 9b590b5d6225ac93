package esn

import (
	"errors"
	"math"
	"testing"
)

// smallConfig describes a two-neuron network whose updates are easy to
// recompute by hand. The identity reservoir activation keeps the arithmetic
// exact.
func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Size = 2
	cfg.ReservoirActivation = ActIdentity
	return cfg
}

// smallWeights uses powers of two so every product and sum below is exact in
// binary floating point.
func smallWeights() Weights[float64] {
	return Weights[float64]{
		Reservoir: [][]float64{{0, 0.5}, {0.25, 0}},
		Input:     [][]float64{{0.5}, {-0.25}},
		Feedback:  [][]float64{{0.125}, {0.5}},
	}
}

func newSmallNetwork(t *testing.T, cfg Config, wout [][]float64) *Network[float64] {
	t.Helper()
	net, err := New(cfg, smallWeights())
	if err != nil {
		t.Fatalf("new network: %v", err)
	}
	if err := net.SetWout(wout); err != nil {
		t.Fatalf("set readout: %v", err)
	}
	return net
}

func stepOnce(t *testing.T, net *Network[float64], input float64) float64 {
	t.Helper()
	out := make([]float64, 1)
	if err := net.SimulateStep([]float64{input}, out); err != nil {
		t.Fatalf("simulate step: %v", err)
	}
	return out[0]
}

func TestSimulateStepStd(t *testing.T) {
	net := newSmallNetwork(t, smallConfig(), [][]float64{{1, 2, 3}})

	// x1 = Win*1 = [0.5 -0.25], y1 = 0.5 - 0.5 + 3.
	if got := stepOnce(t, net, 1); got != 3 {
		t.Fatalf("first output: got %v want 3", got)
	}
	// x2 = W*x1 + Win*0.5 + Wback*y1 = [0.5 1.5], y2 = 0.5 + 3 + 1.5.
	if got := stepOnce(t, net, 0.5); got != 5 {
		t.Fatalf("second output: got %v want 5", got)
	}

	state := net.State()
	if state[0] != 0.5 || state[1] != 1.5 {
		t.Fatalf("state after two steps: got %v", state)
	}
	if last := net.LastOutput(); last[0] != 5 {
		t.Fatalf("feedback value: got %v want 5", last)
	}
}

func TestSimulateStepLeaky(t *testing.T) {
	cfg := smallConfig()
	cfg.Simulation = SimLeaky
	cfg.LeakingRate = 0.25
	net := newSmallNetwork(t, cfg, [][]float64{{1, 2, 3}})

	stepOnce(t, net, 1)
	stepOnce(t, net, 0.5)

	// The second update adds (1-0.25)*x1 to the std pre-activation [0.5 1.5].
	state := net.State()
	if state[0] != 0.875 || state[1] != 1.3125 {
		t.Fatalf("leaky state: got %v want [0.875 1.3125]", state)
	}
}

func TestSimulateStepSquare(t *testing.T) {
	cfg := smallConfig()
	cfg.Simulation = SimSquare
	net := newSmallNetwork(t, cfg, [][]float64{{1, 2, 3, 4, 5, 6}})

	// Features [0.5 -0.25 1 0.25 0.0625 1] against the ramp readout.
	if got := stepOnce(t, net, 1); got != 10.3125 {
		t.Fatalf("square output: got %v want 10.3125", got)
	}
}

func TestSimulateStepTanhReservoir(t *testing.T) {
	cfg := smallConfig()
	cfg.ReservoirActivation = ActTanh
	net := newSmallNetwork(t, cfg, [][]float64{{1, 2, 3}})

	got := stepOnce(t, net, 1)
	want := math.Tanh(0.5) + 2*math.Tanh(-0.25) + 3
	if got != want {
		t.Fatalf("tanh output: got %v want %v", got, want)
	}
}

func TestFeedbackEntersStep(t *testing.T) {
	net := newSmallNetwork(t, smallConfig(), [][]float64{{1, 2, 3}})
	if err := net.SetLastOutput([]float64{0.5}); err != nil {
		t.Fatalf("set last output: %v", err)
	}

	// With zero input the state is Wback*0.5 = [0.0625 0.25].
	if got := stepOnce(t, net, 0); got != 0.5625 {
		t.Fatalf("feedback-driven output: got %v want 0.5625", got)
	}
}

func TestSimulateMatchesSingleSteps(t *testing.T) {
	cfg := smallConfig()
	cfg.ReservoirActivation = ActTanh
	wout := [][]float64{{0.5, -1, 0.25}}

	batch := newSmallNetwork(t, cfg, wout)
	single := newSmallNetwork(t, cfg, wout)

	in := [][]float64{{0.3, -0.2, 0.5, 0, 0.1}}
	out := [][]float64{make([]float64, 5)}
	if err := batch.Simulate(in, out); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	for j := 0; j < 5; j++ {
		want := stepOnce(t, single, in[0][j])
		if out[0][j] != want {
			t.Fatalf("step %d: batch %v single %v", j, out[0][j], want)
		}
	}

	if bs, ss := batch.State(), single.State(); bs[0] != ss[0] || bs[1] != ss[1] {
		t.Fatalf("end states diverged: %v vs %v", bs, ss)
	}
}

func TestResetStateKeepsFeedback(t *testing.T) {
	net := newSmallNetwork(t, smallConfig(), [][]float64{{1, 2, 3}})
	stepOnce(t, net, 1)

	net.ResetState()
	state := net.State()
	if state[0] != 0 || state[1] != 0 {
		t.Fatalf("state not cleared: %v", state)
	}
	if last := net.LastOutput(); last[0] != 3 {
		t.Fatalf("feedback value should survive a reset: got %v", last)
	}

	if err := net.SetLastOutput([]float64{0}); err != nil {
		t.Fatalf("set last output: %v", err)
	}
	if last := net.LastOutput(); last[0] != 0 {
		t.Fatalf("feedback value not cleared: got %v", last)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	net := newSmallNetwork(t, smallConfig(), [][]float64{{1, 2, 3}})
	stepOnce(t, net, 1)

	state := net.State()
	state[0] = 99
	if net.State()[0] == 99 {
		t.Fatal("State exposed internal storage")
	}

	wout := net.Wout()
	wout[0][0] = 99
	if net.Wout()[0][0] == 99 {
		t.Fatal("Wout exposed internal storage")
	}

	weights := net.Weights()
	weights.Reservoir[0][1] = 99
	if net.Weights().Reservoir[0][1] == 99 {
		t.Fatal("Weights exposed internal storage")
	}

	last := net.LastOutput()
	last[0] = 99
	if net.LastOutput()[0] == 99 {
		t.Fatal("LastOutput exposed internal storage")
	}
}

func TestNewCopiesWeights(t *testing.T) {
	cfg := smallConfig()
	weights := smallWeights()
	net, err := New(cfg, weights)
	if err != nil {
		t.Fatalf("new network: %v", err)
	}

	weights.Reservoir[0][1] = 99
	if net.Weights().Reservoir[0][1] != 0.5 {
		t.Fatal("network aliased the caller's weights")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	net := newSmallNetwork(t, smallConfig(), [][]float64{{1, 2, 3}})
	stepOnce(t, net, 1)
	stepOnce(t, net, 0.5)

	clone := net.Clone()
	if s := clone.State(); s[0] != 0 || s[1] != 0 {
		t.Fatalf("clone state not zeroed: %v", s)
	}
	if last := clone.LastOutput(); last[0] != 0 {
		t.Fatalf("clone feedback not zeroed: %v", last)
	}
	if w := clone.Wout(); w[0][0] != 1 || w[0][2] != 3 {
		t.Fatalf("clone readout mismatch: %v", w)
	}
	if clone.Config() != net.Config() {
		t.Fatal("clone config mismatch")
	}

	before := net.State()
	stepOnce(t, clone, 1)
	after := net.State()
	if before[0] != after[0] || before[1] != after[1] {
		t.Fatal("stepping the clone moved the original")
	}
}

func TestZeroValueNetworkRejected(t *testing.T) {
	var net Network[float64]

	if err := net.SimulateStep([]float64{0}, []float64{0}); !errors.Is(err, ErrState) {
		t.Fatalf("simulate step: %v", err)
	}
	if err := net.Simulate([][]float64{{0}}, [][]float64{{0}}); !errors.Is(err, ErrState) {
		t.Fatalf("simulate: %v", err)
	}
	if err := net.Train([][]float64{{0, 0}}, [][]float64{{0, 0}}, 0); !errors.Is(err, ErrState) {
		t.Fatalf("train: %v", err)
	}
	if err := net.CollectStates([][]float64{{0}}, [][]float64{{0}}, 0); !errors.Is(err, ErrState) {
		t.Fatalf("collect states: %v", err)
	}
	if err := net.SetWout([][]float64{{0}}); !errors.Is(err, ErrState) {
		t.Fatalf("set readout: %v", err)
	}
	if err := net.SetLastOutput([]float64{0}); !errors.Is(err, ErrState) {
		t.Fatalf("set last output: %v", err)
	}
	if _, err := net.Snapshot("id"); !errors.Is(err, ErrState) {
		t.Fatalf("snapshot: %v", err)
	}
}

func TestSimulateDimensionErrors(t *testing.T) {
	net := newSmallNetwork(t, smallConfig(), [][]float64{{1, 2, 3}})

	if err := net.SimulateStep([]float64{1, 2}, []float64{0}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("input length: %v", err)
	}
	if err := net.SimulateStep([]float64{1}, []float64{0, 0}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("output length: %v", err)
	}

	ragged := [][]float64{{1, 2, 3}}
	ragged = append(ragged, []float64{1})
	if err := net.Simulate(ragged, [][]float64{{0, 0, 0}}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("ragged input: %v", err)
	}
	if err := net.Simulate([][]float64{{}}, [][]float64{{}}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("empty input: %v", err)
	}
	if err := net.Simulate([][]float64{{1, 2}}, [][]float64{{0}}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("output block shape: %v", err)
	}

	if err := net.SetWout([][]float64{{1, 2}}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("readout shape: %v", err)
	}
	if err := net.SetLastOutput([]float64{1, 2}); !errors.Is(err, ErrState) {
		t.Fatalf("feedback length: %v", err)
	}
}

func TestNewValidates(t *testing.T) {
	cfg := smallConfig()

	weights := smallWeights()
	weights.Input = [][]float64{{0.5}}
	if _, err := New(cfg, weights); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("input weight shape: %v", err)
	}

	cfg.Size = 0
	if _, err := New(cfg, smallWeights()); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("invalid config: %v", err)
	}
}

func TestFloat32Step(t *testing.T) {
	cfg := smallConfig()
	cfg.ReservoirActivation = ActTanh
	weights := Weights[float32]{
		Reservoir: [][]float32{{0, 0.5}, {0.25, 0}},
		Input:     [][]float32{{0.5}, {-0.25}},
		Feedback:  [][]float32{{0.125}, {0.5}},
	}
	net, err := New(cfg, weights)
	if err != nil {
		t.Fatalf("new network: %v", err)
	}
	if err := net.SetWout([][]float32{{1, 2, 3}}); err != nil {
		t.Fatalf("set readout: %v", err)
	}

	out := make([]float32, 1)
	if err := net.SimulateStep([]float32{1}, out); err != nil {
		t.Fatalf("simulate step: %v", err)
	}

	s0 := float32(math.Tanh(0.5))
	s1 := float32(math.Tanh(-0.25))
	want := 1 * s0
	want += 2 * s1
	want += 3 * 1
	if out[0] != want {
		t.Fatalf("float32 output: got %v want %v", out[0], want)
	}
}
