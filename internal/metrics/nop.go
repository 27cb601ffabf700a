// Package metrics provides MetricsCollector implementations for the vptopo library.
package metrics

import "github.com/arloliu/vptopo/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// SetNumThreads discards the thread count gauge update.
func (n *NopMetrics) SetNumThreads(_ /* numThreads */ int) {
	// No-op
}

// SetNumVirtualProcs discards the VP count gauge update.
func (n *NopMetrics) SetNumVirtualProcs(_ /* numVPs */ int) {
	// No-op
}

// RecordConfigChange discards the accepted-change counter update.
func (n *NopMetrics) RecordConfigChange(_ /* kind */ string) {
	// No-op
}

// RecordConfigRejected discards the rejected-change counter update.
func (n *NopMetrics) RecordConfigRejected(_ /* kind */, _ /* reason */ string) {
	// No-op
}

// RecordReset discards the reset counter update.
func (n *NopMetrics) RecordReset() {
	// No-op
}

// RecordForcedSinglethreading discards the downgrade counter update.
func (n *NopMetrics) RecordForcedSinglethreading() {
	// No-op
}
