package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/vptopo/types"
)

// NodeStore is the default per-thread node storage: one bucket of local
// entities per thread, plus a concurrent GID registry for lock-free owner
// lookups during simulation.
//
// Resizing rebuilds the buckets and clears the registry. The topology
// manager only resizes while the kernel is quiescent (no entities exist),
// so nothing is lost; Resize callers outside that protocol get an error
// when entities are present.
type NodeStore struct {
	mu      sync.RWMutex
	buckets [][]types.GID

	registry *xsync.Map[types.GID, types.Thread]
}

var _ types.NodeStorageResizer = (*NodeStore)(nil)

// NewNodeStore creates a node store sized for a single thread.
func NewNodeStore() *NodeStore {
	return &NodeStore{
		buckets:  make([][]types.GID, 1),
		registry: xsync.NewMap[types.GID, types.Thread](),
	}
}

// SetNumThreads rebuilds storage with one empty bucket per thread.
//
// Returns:
//   - error: if numThreads < 1, or if entities are still registered
func (s *NodeStore) SetNumThreads(_ context.Context, numThreads int) error {
	if numThreads < 1 {
		return fmt.Errorf("node store: %w", types.ErrInvalidThreadCount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.totalLocked() > 0 {
		return fmt.Errorf("node store: cannot resize to %d threads: %w", numThreads, types.ErrNodesExist)
	}

	s.buckets = make([][]types.GID, numThreads)
	s.registry.Clear()

	return nil
}

// Add registers an entity in the bucket of its owning thread.
//
// Returns:
//   - error: if thread is outside [0, NumThreads)
func (s *NodeStore) Add(thread types.Thread, gid types.GID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(thread) < 0 || int(thread) >= len(s.buckets) {
		return fmt.Errorf("node store: thread %d outside [0, %d)", thread, len(s.buckets))
	}

	s.buckets[thread] = append(s.buckets[thread], gid)
	s.registry.Store(gid, thread)

	return nil
}

// ThreadOf returns the owning thread recorded for gid.
//
// Safe for concurrent use from any thread; reads hit the lock-free registry.
func (s *NodeStore) ThreadOf(gid types.GID) (types.Thread, bool) {
	return s.registry.Load(gid)
}

// Len returns the number of entities in a thread's bucket (0 for an
// out-of-range thread).
func (s *NodeStore) Len(thread types.Thread) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if int(thread) < 0 || int(thread) >= len(s.buckets) {
		return 0
	}

	return len(s.buckets[thread])
}

// Total returns the number of entities across all buckets.
func (s *NodeStore) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.totalLocked()
}

// Clear removes all entities, keeping the current bucket count. Called by
// the kernel when the network itself is torn down.
func (s *NodeStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.buckets {
		s.buckets[i] = nil
	}
	s.registry.Clear()
}

// NumThreads returns the current bucket count.
func (s *NodeStore) NumThreads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.buckets)
}

func (s *NodeStore) totalLocked() int {
	total := 0
	for _, b := range s.buckets {
		total += len(b)
	}

	return total
}
