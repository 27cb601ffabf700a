package vptopo

// Option configures a Manager with optional dependencies.
type Option func(*managerOptions)

// managerOptions holds optional Manager configuration.
type managerOptions struct {
	comm    CommNotifier
	storage NodeStorageResizer
	pools   PoolAllocator
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
}

// WithCommNotifier sets the communication-layer notifier invoked after each
// applied thread-count change.
//
// Example:
//
//	notifier, _ := comm.NewNotifier(ctx, nc, comm.Config{Rank: cfg.Layout.Rank})
//	mgr, _ := vptopo.NewManager(&cfg, kernel, vptopo.WithCommNotifier(notifier))
func WithCommNotifier(notifier CommNotifier) Option {
	return func(o *managerOptions) {
		o.comm = notifier
	}
}

// WithNodeStorage sets a custom per-thread node storage resizer.
//
// The default is a fresh storage.NewNodeStore(). Kernels with their own
// node registries implement types.NodeStorageResizer over them instead.
func WithNodeStorage(storage NodeStorageResizer) Option {
	return func(o *managerOptions) {
		o.storage = storage
	}
}

// WithPools sets a custom per-thread memory pool allocator.
//
// The default is a fresh storage.NewPoolSet().
func WithPools(pools PoolAllocator) Option {
	return func(o *managerOptions) {
		o.pools = pools
	}
}

// WithHooks sets lifecycle event hooks.
//
// Example:
//
//	hooks := &vptopo.Hooks{
//	    OnThreadCountChanged: func(ctx context.Context, oldN, newN int) error {
//	        return rebuildSchedulers(newN)
//	    },
//	}
//	mgr, _ := vptopo.NewManager(&cfg, kernel, vptopo.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *managerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Example:
//
//	collector := metrics.NewPrometheus(nil, "simkernel")
//	mgr, _ := vptopo.NewManager(&cfg, kernel, vptopo.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *managerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	mgr, _ := vptopo.NewManager(&cfg, kernel, vptopo.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *managerOptions) {
		o.logger = logger
	}
}
