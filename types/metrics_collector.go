package types

// MetricsCollector receives topology manager instrumentation events.
//
// Implementations must be safe for concurrent use and must never block;
// the manager calls them inline from the configuration path.
//
// The library ships two implementations: a no-op collector (the default)
// and a Prometheus-backed collector in internal/metrics.
type MetricsCollector interface {
	// SetNumThreads records the current per-rank thread count.
	SetNumThreads(numThreads int)

	// SetNumVirtualProcs records the derived cluster-wide VP count.
	SetNumVirtualProcs(numVPs int)

	// RecordConfigChange records an accepted topology change request.
	// kind is the status key the request arrived under.
	RecordConfigChange(kind string)

	// RecordConfigRejected records a rejected topology change request.
	// reason identifies the blocking precondition or bad property.
	RecordConfigRejected(kind, reason string)

	// RecordReset records a reset to the single-thread state.
	RecordReset()

	// RecordForcedSinglethreading records a downgrade to one thread because
	// the runtime lacks thread-level parallelism.
	RecordForcedSinglethreading()
}
