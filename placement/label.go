package placement

import (
	"github.com/zeebo/xxh3"

	"github.com/arloliu/vptopo/types"
)

// GIDFromLabel derives a deterministic GID from a string label using xxh3.
//
// The same label always produces the same GID across processes and runs,
// so every rank in the cluster computes the same placement for a labeled
// entity without coordination.
func GIDFromLabel(label string) types.GID {
	return types.GID(xxh3.HashString(label))
}

// GIDFromLabelSeed derives a GID from a label with an explicit hash seed.
//
// Distinct seeds give independent placements for the same label set, e.g.
// to keep separately owned entity families from colliding on the same VPs.
func GIDFromLabelSeed(label string, seed uint64) types.GID {
	return types.GID(xxh3.HashStringSeed(label, seed))
}
