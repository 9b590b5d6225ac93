package esn

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Activation selects an elementwise activation function. The set is closed;
// unknown names fail to parse.
type Activation int

const (
	ActIdentity Activation = iota
	ActTanh
)

func (a Activation) String() string {
	switch a {
	case ActIdentity:
		return "identity"
	case ActTanh:
		return "tanh"
	default:
		return fmt.Sprintf("activation(%d)", int(a))
	}
}

// ParseActivation maps a configuration name to its Activation.
func ParseActivation(name string) (Activation, error) {
	switch name {
	case "identity":
		return ActIdentity, nil
	case "tanh":
		return ActTanh, nil
	default:
		return 0, fmt.Errorf("esn: unknown activation %q: %w", name, ErrConfiguration)
	}
}

func (a Activation) MarshalYAML() (interface{}, error) {
	if a != ActIdentity && a != ActTanh {
		return nil, fmt.Errorf("esn: unknown activation %d: %w", int(a), ErrConfiguration)
	}
	return a.String(), nil
}

func (a *Activation) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseActivation(name)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// SimAlgorithm selects the reservoir update rule.
type SimAlgorithm int

const (
	// SimStd is the plain update: x = f(W x + Win u + Wback y).
	SimStd SimAlgorithm = iota
	// SimSquare augments the readout features with squared states and
	// inputs.
	SimSquare
	// SimLeaky adds a leaky-integrator decay term to the state update.
	SimLeaky
)

func (s SimAlgorithm) String() string {
	switch s {
	case SimStd:
		return "std"
	case SimSquare:
		return "square"
	case SimLeaky:
		return "leaky"
	default:
		return fmt.Sprintf("simulation(%d)", int(s))
	}
}

// ParseSimAlgorithm maps a configuration name to its SimAlgorithm.
func ParseSimAlgorithm(name string) (SimAlgorithm, error) {
	switch name {
	case "std":
		return SimStd, nil
	case "square":
		return SimSquare, nil
	case "leaky":
		return SimLeaky, nil
	default:
		return 0, fmt.Errorf("esn: unknown simulation algorithm %q: %w", name, ErrConfiguration)
	}
}

func (s SimAlgorithm) MarshalYAML() (interface{}, error) {
	if s != SimStd && s != SimSquare && s != SimLeaky {
		return nil, fmt.Errorf("esn: unknown simulation algorithm %d: %w", int(s), ErrConfiguration)
	}
	return s.String(), nil
}

func (s *SimAlgorithm) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseSimAlgorithm(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// TrainAlgorithm selects the readout regression.
type TrainAlgorithm int

const (
	// TrainPI solves the readout through the SVD pseudoinverse.
	TrainPI TrainAlgorithm = iota
	// TrainLS solves the readout through QR least squares.
	TrainLS
	// TrainRidge solves the Tikhonov-regularized normal equations.
	TrainRidge
)

func (a TrainAlgorithm) String() string {
	switch a {
	case TrainPI:
		return "pi"
	case TrainLS:
		return "ls"
	case TrainRidge:
		return "ridge"
	default:
		return fmt.Sprintf("training(%d)", int(a))
	}
}

// ParseTrainAlgorithm maps a configuration name to its TrainAlgorithm.
func ParseTrainAlgorithm(name string) (TrainAlgorithm, error) {
	switch name {
	case "pi":
		return TrainPI, nil
	case "ls":
		return TrainLS, nil
	case "ridge":
		return TrainRidge, nil
	default:
		return 0, fmt.Errorf("esn: unknown training algorithm %q: %w", name, ErrConfiguration)
	}
}

func (a TrainAlgorithm) MarshalYAML() (interface{}, error) {
	if a != TrainPI && a != TrainLS && a != TrainRidge {
		return nil, fmt.Errorf("esn: unknown training algorithm %d: %w", int(a), ErrConfiguration)
	}
	return a.String(), nil
}

func (a *TrainAlgorithm) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseTrainAlgorithm(name)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Config describes a network: its dimensions, algorithm choices and the
// parameters consumed by weight initialization and training.
type Config struct {
	Size    int `yaml:"size"`
	Inputs  int `yaml:"inputs"`
	Outputs int `yaml:"outputs"`

	ReservoirActivation Activation     `yaml:"reservoir_activation"`
	OutputActivation    Activation     `yaml:"output_activation"`
	Simulation          SimAlgorithm   `yaml:"simulation"`
	Training            TrainAlgorithm `yaml:"training"`

	Connectivity         float64 `yaml:"connectivity"`
	SpectralRadius       float64 `yaml:"spectral_radius"`
	InputConnectivity    float64 `yaml:"input_connectivity"`
	InputScale           float64 `yaml:"input_scale"`
	InputShift           float64 `yaml:"input_shift"`
	FeedbackConnectivity float64 `yaml:"feedback_connectivity"`
	FeedbackScale        float64 `yaml:"feedback_scale"`
	FeedbackShift        float64 `yaml:"feedback_shift"`

	TikhonovFactor   float64 `yaml:"tikhonov_factor"`
	RelaxationStages int     `yaml:"relaxation_stages"`
	LeakingRate      float64 `yaml:"leaking_rate"`
}

// DefaultConfig returns the canonical small network configuration.
func DefaultConfig() Config {
	return Config{
		Size:    10,
		Inputs:  1,
		Outputs: 1,

		ReservoirActivation: ActTanh,
		OutputActivation:    ActIdentity,
		Simulation:          SimStd,
		Training:            TrainPI,

		Connectivity:         0.8,
		SpectralRadius:       0.8,
		InputConnectivity:    0.8,
		InputScale:           1,
		FeedbackConnectivity: 1,
		FeedbackScale:        1,

		LeakingRate: 0.2,
	}
}

// Validate checks every field against its documented range.
func (c Config) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("esn: size must be at least 1, got=%d: %w", c.Size, ErrConfiguration)
	}
	if c.Inputs < 1 {
		return fmt.Errorf("esn: inputs must be at least 1, got=%d: %w", c.Inputs, ErrConfiguration)
	}
	if c.Outputs < 1 {
		return fmt.Errorf("esn: outputs must be at least 1, got=%d: %w", c.Outputs, ErrConfiguration)
	}
	switch c.ReservoirActivation {
	case ActIdentity, ActTanh:
	default:
		return fmt.Errorf("esn: unknown reservoir activation %d: %w", int(c.ReservoirActivation), ErrConfiguration)
	}
	switch c.OutputActivation {
	case ActIdentity, ActTanh:
	default:
		return fmt.Errorf("esn: unknown output activation %d: %w", int(c.OutputActivation), ErrConfiguration)
	}
	switch c.Simulation {
	case SimStd, SimSquare, SimLeaky:
	default:
		return fmt.Errorf("esn: unknown simulation algorithm %d: %w", int(c.Simulation), ErrConfiguration)
	}
	switch c.Training {
	case TrainPI, TrainLS, TrainRidge:
	default:
		return fmt.Errorf("esn: unknown training algorithm %d: %w", int(c.Training), ErrConfiguration)
	}
	if c.Connectivity <= 0 || c.Connectivity > 1 {
		return fmt.Errorf("esn: connectivity must be in (0,1], got=%g: %w", c.Connectivity, ErrConfiguration)
	}
	if c.SpectralRadius <= 0 || c.SpectralRadius >= 1 {
		return fmt.Errorf("esn: spectral radius must be in (0,1), got=%g: %w", c.SpectralRadius, ErrConfiguration)
	}
	if c.InputConnectivity <= 0 || c.InputConnectivity > 1 {
		return fmt.Errorf("esn: input connectivity must be in (0,1], got=%g: %w", c.InputConnectivity, ErrConfiguration)
	}
	if c.FeedbackConnectivity < 0 || c.FeedbackConnectivity > 1 {
		return fmt.Errorf("esn: feedback connectivity must be in [0,1], got=%g: %w", c.FeedbackConnectivity, ErrConfiguration)
	}
	if c.TikhonovFactor < 0 {
		return fmt.Errorf("esn: tikhonov factor must not be negative, got=%g: %w", c.TikhonovFactor, ErrConfiguration)
	}
	if c.RelaxationStages < 0 {
		return fmt.Errorf("esn: relaxation stages must not be negative, got=%d: %w", c.RelaxationStages, ErrConfiguration)
	}
	if c.Simulation == SimLeaky && (c.LeakingRate <= 0 || c.LeakingRate > 1) {
		return fmt.Errorf("esn: leaking rate must be in (0,1], got=%g: %w", c.LeakingRate, ErrConfiguration)
	}
	return nil
}

// featureCount is the readout width: states plus inputs, doubled when square
// features are enabled.
func (c Config) featureCount() int {
	base := c.Size + c.Inputs
	if c.Simulation == SimSquare {
		return 2 * base
	}
	return base
}

// LoadConfig reads a YAML configuration. Absent fields keep their defaults;
// the result is validated before it is returned.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("esn: read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("esn: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfig writes the configuration as YAML.
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("esn: encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("esn: write config: %w", err)
	}
	return nil
}
