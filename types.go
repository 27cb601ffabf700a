package vptopo

import "github.com/arloliu/vptopo/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the
// `types` subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `vptopo`
// package, while still providing a convenient `vptopo.VP`, `vptopo.Logger`,
// etc. for users.
type (
	GID        = types.GID
	VP         = types.VP
	Thread     = types.Thread
	Rank       = types.Rank
	RankLayout = types.RankLayout
	Status     = types.Status
)

// Re-export interfaces from the internal types package for convenience.
type (
	KernelState        = types.KernelState
	CommNotifier       = types.CommNotifier
	NodeStorageResizer = types.NodeStorageResizer
	PoolAllocator      = types.PoolAllocator
	Logger             = types.Logger
	MetricsCollector   = types.MetricsCollector
	Hooks              = types.Hooks
)

// Re-export status dictionary keys from the internal types package.
const (
	KeyLocalNumThreads      = types.KeyLocalNumThreads
	KeyTotalNumVirtualProcs = types.KeyTotalNumVirtualProcs
)
