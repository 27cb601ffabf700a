package types

import "context"

// CommNotifier is notified of the new per-rank thread count after a topology
// change has been applied, so the inter-rank communication layer can resize
// its own per-thread bookkeeping.
//
// Semantics:
//   - Called only from the quiescent configuration phase, never concurrently
//     with simulation activity
//   - Called after the thread count has been stored and local storage resized
//   - MUST return error only for unrecoverable misconfiguration; the apply
//     step is past the point of no return and treats errors as fatal
type CommNotifier interface {
	// SetNumThreads announces the new local thread count.
	SetNumThreads(ctx context.Context, numThreads int) error
}

// NodeStorageResizer re-derives per-thread node storage for a new thread
// count. After a successful call there is exactly one storage slot per
// thread, and thread-indexed access is legal again.
//
// Resizing happens only while the kernel is quiescent (no entities exist),
// so implementations may discard and rebuild their buckets.
type NodeStorageResizer interface {
	// SetNumThreads rebuilds storage for numThreads threads.
	SetNumThreads(ctx context.Context, numThreads int) error
}

// PoolAllocator reinitializes per-thread memory pools for a new thread
// count. As with NodeStorageResizer, failure during the post-validation
// apply step is treated as fatal by the manager.
type PoolAllocator interface {
	// Init establishes one pool per thread, discarding previous pools.
	Init(numThreads int) error
}
