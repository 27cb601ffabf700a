// Package comm provides a NATS-backed implementation of the
// types.CommNotifier contract.
//
// The notifier records each rank's thread count in a JetStream KV bucket
// and publishes change notifications on a subject, so the inter-rank
// communication layer (and late-joining ranks) can resize their per-thread
// bookkeeping to match the cluster topology.
package comm
