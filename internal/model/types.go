package model

// Current record versions, stamped on every snapshot at creation and
// enforced by the storage codec on decode.
const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// NetworkSnapshot is the persistent form of an echo state network: the full
// configuration by name, every weight matrix, and the trained readout.
// Weight payloads are stored as float64 regardless of the in-memory element
// type, so float32 and float64 networks share one record shape.
type NetworkSnapshot struct {
	VersionedRecord
	ID string `json:"id"`

	Size    int `json:"size"`
	Inputs  int `json:"inputs"`
	Outputs int `json:"outputs"`

	ReservoirActivation string `json:"reservoir_activation"`
	OutputActivation    string `json:"output_activation"`
	Simulation          string `json:"simulation"`
	Training            string `json:"training"`

	Connectivity         float64 `json:"connectivity"`
	SpectralRadius       float64 `json:"spectral_radius"`
	InputConnectivity    float64 `json:"input_connectivity"`
	InputScale           float64 `json:"input_scale"`
	InputShift           float64 `json:"input_shift"`
	FeedbackConnectivity float64 `json:"feedback_connectivity"`
	FeedbackScale        float64 `json:"feedback_scale"`
	FeedbackShift        float64 `json:"feedback_shift"`
	TikhonovFactor       float64 `json:"tikhonov_factor"`
	RelaxationStages     int     `json:"relaxation_stages"`
	LeakingRate          float64 `json:"leaking_rate"`

	Reservoir [][]float64 `json:"reservoir"`
	Input     [][]float64 `json:"input"`
	Feedback  [][]float64 `json:"feedback"`
	Readout   [][]float64 `json:"readout"`
}
