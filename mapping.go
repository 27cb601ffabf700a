package vptopo

// Mapping operations. All are pure given the current thread count: they
// read no other mutable state and have no side effects, so they are safe
// to call from any thread during active simulation.
//
// The VP number space is laid out as all threads of all simulating ranks
// first, then all threads of all recording ranks. Within the simulating
// range VPs are striped rank-major (vp = thread*simRanks + rank), and
// within the recording range likewise over the recording band. The
// recording-band formulas are order-sensitive around the band boundary;
// they are locked in by the exhaustive round-trip test rather than
// re-derived.

// SuggestVP returns the VP that should own the entity with the given GID,
// drawn from the simulating-rank pool.
//
// Modular hashing gives O(1) placement with no auxiliary index and
// near-uniform load when GIDs are assigned sequentially.
func (m *Manager) SuggestVP(gid GID) VP {
	return VP(uint64(gid) % uint64(m.layout.SimRanks*m.NumThreads()))
}

// SuggestRecVP returns the VP that should own the recording entity with the
// given GID, drawn from the recording-rank pool. The result is offset past
// the simulating range, keeping the two pools disjoint.
func (m *Manager) SuggestRecVP(gid GID) VP {
	numThreads := m.NumThreads()

	return VP(uint64(gid)%uint64(m.layout.RecRanks*numThreads)) +
		VP(m.layout.SimRanks*numThreads)
}

// VPToThread returns the local thread implementing vp.
//
// The result is only meaningful for a VP owned by the calling rank; use
// IsLocalVP first when ownership is not already known.
func (m *Manager) VPToThread(vp VP) Thread {
	numThreads := m.NumThreads()

	if int(vp) >= m.layout.SimRanks*numThreads {
		return Thread((int(vp) + m.layout.SimRanks*(1-numThreads) - m.layout.Rank) / m.layout.RecRanks)
	}

	return Thread(int(vp) / m.layout.SimRanks)
}

// ThreadToVP returns the VP implemented by the given local thread on this
// rank. It is the algebraic inverse of VPToThread restricted to VPs owned
// by the local rank.
func (m *Manager) ThreadToVP(thread Thread) VP {
	numThreads := m.NumThreads()

	if m.layout.IsRecording() {
		return VP(int(thread)*m.layout.RecRanks + m.layout.Rank - m.layout.SimRanks +
			m.layout.SimRanks*numThreads)
	}

	return VP(int(thread)*m.layout.SimRanks + m.layout.Rank)
}

// VPToRank returns the rank owning vp, derived from the same banding
// arithmetic as the thread projections. Valid on every rank for every VP
// in range.
func (m *Manager) VPToRank(vp VP) Rank {
	numSimVPs := m.layout.SimRanks * m.NumThreads()

	if int(vp) >= numSimVPs {
		return Rank(m.layout.SimRanks + (int(vp)-numSimVPs)%m.layout.RecRanks)
	}

	return Rank(int(vp) % m.layout.SimRanks)
}

// IsLocalVP reports whether vp is implemented by a thread of the local rank.
func (m *Manager) IsLocalVP(vp VP) bool {
	return m.VPToRank(vp) == Rank(m.layout.Rank)
}
