package comm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/vptopo/internal/kvutil"
	"github.com/arloliu/vptopo/types"
)

const (
	// DefaultBucket is the default KV bucket holding per-rank thread counts.
	DefaultBucket = "vptopo-topology"

	// DefaultSubject is the default subject for change notifications.
	DefaultSubject = "vptopo.topology"

	keyPrefix = "rank-"
)

// Config configures a Notifier.
type Config struct {
	// Rank is the local rank whose thread count this notifier publishes.
	Rank int `yaml:"rank"`

	// Bucket is the KV bucket name (default: DefaultBucket).
	Bucket string `yaml:"bucket"`

	// Subject is the notification subject (default: DefaultSubject).
	Subject string `yaml:"subject"`
}

// Record is the per-rank entry stored in the topology bucket.
type Record struct {
	Rank       int       `json:"rank"`
	NumThreads int       `json:"num_threads"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Notifier implements types.CommNotifier over NATS JetStream KV.
type Notifier struct {
	conn *nats.Conn
	kv   jetstream.KeyValue
	cfg  Config
}

var _ types.CommNotifier = (*Notifier)(nil)

// NewNotifier creates a notifier bound to the topology bucket, creating the
// bucket if it does not exist yet.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - nc: NATS connection shared with the rest of the kernel
//   - cfg: Notifier configuration (zero-value Bucket/Subject get defaults)
//
// Returns:
//   - *Notifier: Initialized notifier
//   - error: Bucket creation/open failure
func NewNotifier(ctx context.Context, nc *nats.Conn, cfg Config) (*Notifier, error) {
	if nc == nil {
		return nil, errors.New("NATS connection is required")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "vptopo per-rank thread counts",
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure topology bucket: %w", err)
	}

	return &Notifier{conn: nc, kv: kv, cfg: cfg}, nil
}

// SetNumThreads records the local rank's new thread count in the topology
// bucket and publishes a change notification.
//
// Called by the topology manager from the apply step; by that point the
// change is committed locally, so any error here is treated as fatal by the
// caller.
func (n *Notifier) SetNumThreads(ctx context.Context, numThreads int) error {
	rec := Record{
		Rank:       n.cfg.Rank,
		NumThreads: numThreads,
		UpdatedAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode topology record: %w", err)
	}

	if _, err := n.kv.Put(ctx, rankKey(n.cfg.Rank), data); err != nil {
		return fmt.Errorf("failed to store topology record: %w", err)
	}

	if err := n.conn.Publish(n.cfg.Subject, data); err != nil {
		return fmt.Errorf("failed to publish topology notification: %w", err)
	}

	return nil
}

// Topology reads back the cluster-wide per-rank thread counts.
//
// Returns:
//   - map[int]int: Thread count keyed by rank; empty when no rank has
//     published yet
//   - error: KV read failure
func (n *Notifier) Topology(ctx context.Context) (map[int]int, error) {
	topology := make(map[int]int)

	lister, err := n.kv.ListKeys(ctx)
	if err != nil {
		if isNoKeysFound(err) {
			return topology, nil
		}

		return nil, fmt.Errorf("failed to list topology keys: %w", err)
	}
	defer func() { _ = lister.Stop() }()

	for key := range lister.Keys() {
		entry, err := n.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				continue // deleted between list and get
			}

			return nil, fmt.Errorf("failed to read topology record %s: %w", key, err)
		}

		var rec Record
		if err := json.Unmarshal(entry.Value(), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode topology record %s: %w", key, err)
		}

		topology[rec.Rank] = rec.NumThreads
	}

	return topology, nil
}

// Watch subscribes to change notifications, invoking fn for every record
// published by any rank. The subscription ends when ctx is done.
//
// Returns:
//   - error: Subscription setup failure
func (n *Notifier) Watch(ctx context.Context, fn func(Record)) error {
	sub, err := n.conn.Subscribe(n.cfg.Subject, func(msg *nats.Msg) {
		var rec Record
		if err := json.Unmarshal(msg.Data, &rec); err != nil {
			return // ignore malformed notifications
		}
		fn(rec)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to topology notifications: %w", err)
	}

	context.AfterFunc(ctx, func() {
		_ = sub.Unsubscribe()
	})

	return nil
}

func rankKey(rank int) string {
	return keyPrefix + strconv.Itoa(rank)
}

// isNoKeysFound matches the JetStream "no keys found" condition, which may
// arrive as the sentinel or as a wrapped message depending on server path.
func isNoKeysFound(err error) bool {
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return true
	}

	return strings.Contains(err.Error(), "no keys found")
}
