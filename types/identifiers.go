package types

import (
	"errors"
	"fmt"
)

// GID is the opaque identifier of a simulated entity.
//
// GIDs are assigned by the embedding kernel and used only as input to the
// placement hash. The topology manager never stores them.
type GID uint64

// VP identifies a virtual process: the global logical unit of parallel work,
// numbered across all threads of all simulating ranks followed by all threads
// of all recording ranks. A VP is a coordinate computed on demand, never a
// materialized object.
type VP int

// Thread is a rank-local thread index in [0, numThreads).
type Thread int

// Rank identifies one process in the cluster, in [0, numRanks).
type Rank int

// RankLayout describes the cluster-wide rank banding and this process's
// position in it. The layout comes from the cluster launch configuration and
// is immutable for the lifetime of the topology manager.
//
// Ranks are partitioned into two contiguous bands: simulating ranks occupy
// [0, SimRanks) and recording ranks occupy [SimRanks, SimRanks+RecRanks).
type RankLayout struct {
	// Rank is the local rank of this process.
	Rank int `yaml:"rank" json:"rank"`

	// SimRanks is the number of simulating ranks.
	SimRanks int `yaml:"simRanks" json:"sim_ranks"`

	// RecRanks is the number of recording ranks.
	RecRanks int `yaml:"recRanks" json:"rec_ranks"`
}

// NumRanks returns the total rank count across both bands.
func (l RankLayout) NumRanks() int {
	return l.SimRanks + l.RecRanks
}

// IsRecording reports whether the local rank lies in the recording band.
func (l RankLayout) IsRecording() bool {
	return l.Rank >= l.SimRanks
}

// IsSimulating reports whether the local rank lies in the simulating band.
func (l RankLayout) IsSimulating() bool {
	return !l.IsRecording()
}

// Validate checks structural validity of the layout.
//
// Returns:
//   - error: ErrInvalidRankLayout (wrapped with detail) if the band counts or
//     the local rank are out of range, nil otherwise
func (l RankLayout) Validate() error {
	if l.SimRanks < 1 {
		return fmt.Errorf("%w: simRanks must be >= 1, got %d", ErrInvalidRankLayout, l.SimRanks)
	}
	if l.RecRanks < 1 {
		return fmt.Errorf("%w: recRanks must be >= 1, got %d", ErrInvalidRankLayout, l.RecRanks)
	}
	if l.Rank < 0 || l.Rank >= l.NumRanks() {
		return fmt.Errorf("%w: rank %d outside [0, %d)", ErrInvalidRankLayout, l.Rank, l.NumRanks())
	}

	return nil
}

// ErrInvalidRankLayout is returned when a rank layout fails validation.
var ErrInvalidRankLayout = errors.New("invalid rank layout")
