package model

import "time"

// Encoding selects how carton orientation is expressed in the MIP.
type Encoding string

const (
	EncodingOneHot  Encoding = "onehot"  // Six binaries, exactly one set
	EncodingFourBit Encoding = "fourbit" // Four selector bits with repair rows
)

// Backend names the solver adapter to run.
type Backend string

const (
	BackendBranchBound Backend = "branchbound" // Built-in pure-Go branch-and-bound
)

// SolveSettings holds model-building and solver configuration.
type SolveSettings struct {
	// Model building
	Encoding         Encoding `json:"encoding" yaml:"encoding"`                     // Orientation encoding
	LinkUsage        bool     `json:"link_usage" yaml:"link_usage"`                 // Add n_j >= s_ij rows
	BigM             float64  `json:"big_m" yaml:"big_m"`                           // 0 = derive from the instance
	DropVolumeOffset bool     `json:"drop_volume_offset" yaml:"drop_volume_offset"` // Omit -sum(carton volume)

	// Solver
	Backend   Backend       `json:"backend" yaml:"backend"`
	TimeLimit time.Duration `json:"time_limit" yaml:"time_limit"` // 0 = no limit
	NodeLimit int64         `json:"node_limit" yaml:"node_limit"` // 0 = no limit
	Tolerance float64       `json:"tolerance" yaml:"tolerance"`

	// Post-processing
	Verify bool `json:"verify" yaml:"verify"` // Re-check placements geometrically
}

func DefaultSettings() SolveSettings {
	return SolveSettings{
		Encoding:  EncodingOneHot,
		LinkUsage: true,
		Backend:   BackendBranchBound,
		TimeLimit: 60 * time.Second,
		Tolerance: 1e-6,
		Verify:    true,
	}
}
