package esn

import (
	"golang.org/x/exp/constraints"

	"aureservoir/internal/model"
	"aureservoir/internal/num"
)

// Snapshot captures the network as a persistent record under the given id,
// widening all weights to float64 and stamping the current record versions.
func (n *Network[F]) Snapshot(id string) (model.NetworkSnapshot, error) {
	if err := n.ensureReady(); err != nil {
		return model.NetworkSnapshot{}, err
	}

	cfg := n.cfg
	return model.NetworkSnapshot{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: model.CurrentSchemaVersion,
			CodecVersion:  model.CurrentCodecVersion,
		},
		ID: id,

		Size:    cfg.Size,
		Inputs:  cfg.Inputs,
		Outputs: cfg.Outputs,

		ReservoirActivation: cfg.ReservoirActivation.String(),
		OutputActivation:    cfg.OutputActivation.String(),
		Simulation:          cfg.Simulation.String(),
		Training:            cfg.Training.String(),

		Connectivity:         cfg.Connectivity,
		SpectralRadius:       cfg.SpectralRadius,
		InputConnectivity:    cfg.InputConnectivity,
		InputScale:           cfg.InputScale,
		InputShift:           cfg.InputShift,
		FeedbackConnectivity: cfg.FeedbackConnectivity,
		FeedbackScale:        cfg.FeedbackScale,
		FeedbackShift:        cfg.FeedbackShift,
		TikhonovFactor:       cfg.TikhonovFactor,
		RelaxationStages:     cfg.RelaxationStages,
		LeakingRate:          cfg.LeakingRate,

		Reservoir: num.Widen(n.weights.Reservoir),
		Input:     num.Widen(n.weights.Input),
		Feedback:  num.Widen(n.weights.Feedback),
		Readout:   num.Widen(n.wout),
	}, nil
}

// FromSnapshot reconstructs a network from its persistent record, narrowing
// weights to F. The readout is restored; the reservoir state and feedback
// value start at zero.
func FromSnapshot[F constraints.Float](s model.NetworkSnapshot) (*Network[F], error) {
	reservoirAct, err := ParseActivation(s.ReservoirActivation)
	if err != nil {
		return nil, err
	}
	outputAct, err := ParseActivation(s.OutputActivation)
	if err != nil {
		return nil, err
	}
	simulation, err := ParseSimAlgorithm(s.Simulation)
	if err != nil {
		return nil, err
	}
	training, err := ParseTrainAlgorithm(s.Training)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		Size:    s.Size,
		Inputs:  s.Inputs,
		Outputs: s.Outputs,

		ReservoirActivation: reservoirAct,
		OutputActivation:    outputAct,
		Simulation:          simulation,
		Training:            training,

		Connectivity:         s.Connectivity,
		SpectralRadius:       s.SpectralRadius,
		InputConnectivity:    s.InputConnectivity,
		InputScale:           s.InputScale,
		InputShift:           s.InputShift,
		FeedbackConnectivity: s.FeedbackConnectivity,
		FeedbackScale:        s.FeedbackScale,
		FeedbackShift:        s.FeedbackShift,
		TikhonovFactor:       s.TikhonovFactor,
		RelaxationStages:     s.RelaxationStages,
		LeakingRate:          s.LeakingRate,
	}
	weights := Weights[F]{
		Reservoir: num.Narrow[F](s.Reservoir),
		Input:     num.Narrow[F](s.Input),
		Feedback:  num.Narrow[F](s.Feedback),
	}

	network, err := New(cfg, weights)
	if err != nil {
		return nil, err
	}
	if err := network.SetWout(num.Narrow[F](s.Readout)); err != nil {
		return nil, err
	}
	return network, nil
}
