// Package storage provides default implementations of the per-thread
// resources resized by a topology change: node storage (NodeStore) and
// memory pools (PoolSet).
//
// Both are injectable defaults. Kernels with their own storage layers can
// implement types.NodeStorageResizer and types.PoolAllocator instead.
package storage
