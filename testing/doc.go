// Package testing provides test helpers for vptopo-based code: an embedded
// NATS server with JetStream for exercising the communication-layer
// notifier, a KV bucket helper, and a logger that writes to testing.T.
package testing
