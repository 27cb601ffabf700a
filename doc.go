// Package vptopo manages the mapping between virtual processes (VPs) — the
// logical units of parallel work in a distributed simulation kernel — and
// the physical resources that carry them out: OS threads within a rank and
// ranks within a cluster.
//
// The Manager owns the authoritative per-rank thread count and exposes pure
// mapping operations used throughout the kernel to place and locate work:
//
//	mgr, _ := vptopo.NewManager(&cfg, kernelState)
//	mgr.Init(ctx)
//
//	vp := mgr.SuggestVP(gid)          // which VP owns this entity
//	thread := mgr.VPToThread(vp)      // which local thread implements it
//	local := mgr.IsLocalVP(vp)        // does this rank own it
//
// Ranks are split into two contiguous bands, simulating and recording, and
// the VP number space covers all threads of all simulating ranks followed
// by all threads of all recording ranks. Placement uses modular hashing:
// O(1), collision-free, near-uniform for sequentially assigned GIDs.
//
// # Changing the degree of parallelism
//
// The thread count may only change while the kernel is quiescent. Every
// change request re-evaluates seven preconditions against the injected
// KernelState (no entities, no custom models or connection types, no delay
// extrema, nothing simulated, default resolution, untouched model
// defaults); the first failing check rejects the request with a
// *ConfigurationError and no partial effect. Accepted changes resize the
// per-thread node storage and memory pools and notify the communication
// layer before any thread-indexed access resumes.
//
// Mapping operations read the thread count without locking. This is safe
// because mutation is confined to the quiescent configuration phase, never
// concurrent with mapping reads during active simulation.
package vptopo
