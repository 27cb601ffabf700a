package vptopo

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/arloliu/vptopo/internal/logger"
	"github.com/arloliu/vptopo/internal/metrics"
	"github.com/arloliu/vptopo/storage"
	"github.com/arloliu/vptopo/types"
)

// Manager is the process topology manager: the single authority over the
// per-rank thread count and the VP/rank/thread mapping derived from it.
//
// Thread Safety:
//   - Mapping operations are safe to call from any thread; they read the
//     thread count through an atomic
//   - The configuration-change protocol (Init, Reset, SetLocalNumThreads,
//     SetTotalVirtualProcs, SetStatus) must only run while the kernel is
//     quiescent, with no simulation activity in flight; the manager adds
//     no locking of its own around the apply step
//
// Lifecycle:
//   - Create with NewManager(); the manager starts at one thread
//   - Call Init() once the runtime environment is known
//   - Change the thread count through SetLocalNumThreads /
//     SetTotalVirtualProcs / SetStatus during quiescent phases
//   - Reset() returns to the single-thread, non-forced state
type Manager struct {
	cfg    Config
	layout types.RankLayout
	kernel types.KernelState

	// Collaborators resized/notified by the apply step
	comm    types.CommNotifier
	storage types.NodeStorageResizer
	pools   types.PoolAllocator

	// Optional dependencies
	hooks   *types.Hooks
	metrics types.MetricsCollector
	logger  types.Logger

	// Read-mostly state: written only by the configuration path,
	// read without locking by the mapping operations.
	numThreads           atomic.Int64
	forceSinglethreading atomic.Bool
}

// NewManager creates a new Manager instance with the provided configuration.
//
// Returns a concrete *Manager struct following the "accept interfaces,
// return structs" principle; consumers can define their own interfaces for
// testing if needed.
//
// The manager starts at one thread regardless of cfg.LocalNumThreads; the
// configured count is applied by Init once runtime capabilities are known.
//
// Parameters:
//   - cfg: Configuration with the rank layout and initial thread count
//   - kernel: Read-only source of the quiescence preconditions
//   - opts: Optional dependencies (collaborators, hooks, metrics, logger)
//
// Returns:
//   - *Manager: Initialized manager instance
//   - error: Validation error if the configuration is invalid
//
// Example:
//
//	cfg := vptopo.DefaultConfig()
//	cfg.Layout = types.RankLayout{Rank: rank, SimRanks: 6, RecRanks: 2}
//	cfg.LocalNumThreads = 4
//	mgr, err := vptopo.NewManager(&cfg, kernelState)
func NewManager(cfg *Config, kernel KernelState, opts ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if kernel == nil {
		return nil, ErrKernelStateRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &managerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	m := &Manager{
		cfg:     *cfg,
		layout:  cfg.Layout,
		kernel:  kernel,
		comm:    options.comm,
		storage: options.storage,
		pools:   options.pools,
		hooks:   options.hooks,
		metrics: options.metrics,
		logger:  options.logger,
	}

	// Safe defaults for optional dependencies.
	if m.storage == nil {
		m.storage = storage.NewNodeStore()
	}
	if m.pools == nil {
		m.pools = storage.NewPoolSet()
	}
	if m.hooks == nil {
		m.hooks = &types.Hooks{}
	}
	if m.metrics == nil {
		m.metrics = metrics.NewNop()
	}
	if m.logger == nil {
		m.logger = logger.NewNop()
	}

	m.numThreads.Store(1)

	return m, nil
}

// Init applies the configured thread count, downgrading to one thread with
// a warning when the runtime environment lacks thread-level parallelism.
//
// The downgrade sets force-singlethreading: from then on every request for
// more than one thread is honored at one, with a warning, until Reset.
func (m *Manager) Init(ctx context.Context) {
	n := m.cfg.LocalNumThreads
	if n > 1 && m.cfg.SingleThreaded {
		m.forceSinglethreading.Store(true)
		n = m.downgrade(ctx, n)
	}

	m.apply(ctx, n)
}

// Reset returns the manager to the single-thread, non-forced state and
// re-derives all dependent resources for one thread.
func (m *Manager) Reset(ctx context.Context) {
	m.forceSinglethreading.Store(false)
	m.apply(ctx, 1)

	m.metrics.RecordReset()
	if hook := m.hooks.OnReset; hook != nil {
		if err := hook(ctx); err != nil {
			m.logger.Error("reset hook failed", "error", err)
		}
	}
}

// SetLocalNumThreads changes the per-rank thread count.
//
// The request is accepted only while the kernel is quiescent; otherwise it
// fails with a *ConfigurationError naming the first blocking condition and
// leaves the configuration unchanged. A request for more than one thread
// under force-singlethreading is honored at one with a warning.
//
// Parameters:
//   - ctx: Context passed through to collaborator notifications
//   - numThreads: Requested thread count (>= 1)
//
// Returns:
//   - error: *PropertyError for an invalid count, *ConfigurationError when
//     the kernel is not quiescent, nil on success
func (m *Manager) SetLocalNumThreads(ctx context.Context, numThreads int) error {
	if numThreads < 1 {
		m.metrics.RecordConfigRejected(KeyLocalNumThreads, types.ErrInvalidThreadCount.Error())

		return &PropertyError{Key: KeyLocalNumThreads, Cause: ErrInvalidThreadCount}
	}

	if err := m.checkQuiescent(); err != nil {
		m.metrics.RecordConfigRejected(KeyLocalNumThreads, err.Blocking.Error())

		return err
	}

	numThreads = m.downgrade(ctx, numThreads)
	m.apply(ctx, numThreads)
	m.metrics.RecordConfigChange(KeyLocalNumThreads)

	return nil
}

// SetTotalVirtualProcs changes the cluster-wide VP count, expressed as an
// equivalent per-rank thread count of numVPs / total ranks.
//
// The count must be an exact multiple of the rank count; otherwise the
// request fails with a *PropertyError and the configuration is unchanged.
// Quiescence preconditions apply exactly as for SetLocalNumThreads.
//
// Returns:
//   - error: *ConfigurationError, *PropertyError, or nil on success
func (m *Manager) SetTotalVirtualProcs(ctx context.Context, numVPs int) error {
	if err := m.checkQuiescent(); err != nil {
		m.metrics.RecordConfigRejected(KeyTotalNumVirtualProcs, err.Blocking.Error())

		return err
	}

	if numVPs < 1 || numVPs%m.layout.NumRanks() != 0 {
		m.metrics.RecordConfigRejected(KeyTotalNumVirtualProcs, types.ErrVPCountNotDivisible.Error())

		return &PropertyError{Key: KeyTotalNumVirtualProcs, Cause: ErrVPCountNotDivisible}
	}

	numThreads := m.downgrade(ctx, numVPs/m.layout.NumRanks())
	m.apply(ctx, numThreads)
	m.metrics.RecordConfigChange(KeyTotalNumVirtualProcs)

	return nil
}

// SetStatus applies a property dictionary, honoring the keys
// "local_num_threads" and "total_num_virtual_procs". Unknown keys are
// ignored; they belong to other kernel components sharing the dictionary.
//
// When both keys are present, the thread count is applied first and the VP
// count second, so the VP count wins — matching the order the keys are
// defined in.
//
// Returns:
//   - error: First error from the underlying setters, or a *PropertyError
//     for a value that is not an integer
func (m *Manager) SetStatus(ctx context.Context, props map[string]any) error {
	if raw, ok := props[KeyLocalNumThreads]; ok {
		n, err := asInt(KeyLocalNumThreads, raw)
		if err != nil {
			return err
		}
		if err := m.SetLocalNumThreads(ctx, n); err != nil {
			return err
		}
	}

	if raw, ok := props[KeyTotalNumVirtualProcs]; ok {
		n, err := asInt(KeyTotalNumVirtualProcs, raw)
		if err != nil {
			return err
		}
		if err := m.SetTotalVirtualProcs(ctx, n); err != nil {
			return err
		}
	}

	return nil
}

// GetStatus returns the current configuration without side effects.
func (m *Manager) GetStatus() Status {
	return Status{
		LocalNumThreads:      m.NumThreads(),
		TotalNumVirtualProcs: m.NumVirtualProcs(),
		ForceSinglethreading: m.forceSinglethreading.Load(),
	}
}

// NumThreads returns the current per-rank thread count.
func (m *Manager) NumThreads() int {
	return int(m.numThreads.Load())
}

// NumVirtualProcs returns the derived cluster-wide VP count
// (thread count times total ranks).
func (m *Manager) NumVirtualProcs() int {
	return m.NumThreads() * m.layout.NumRanks()
}

// ForceSinglethreading reports whether the runtime has been found to lack
// thread-level parallelism.
func (m *Manager) ForceSinglethreading() bool {
	return m.forceSinglethreading.Load()
}

// Layout returns the immutable rank layout.
func (m *Manager) Layout() RankLayout {
	return m.layout
}

// checkQuiescent evaluates the seven preconditions in order against the
// kernel state and returns a ConfigurationError for the first failure.
// There is no persisted "locked" flag; every request re-evaluates all
// conditions.
func (m *Manager) checkQuiescent() *types.ConfigurationError {
	switch {
	case m.kernel.NodeCount() > 0:
		return &types.ConfigurationError{Blocking: ErrNodesExist}
	case m.kernel.HasCustomModels():
		return &types.ConfigurationError{Blocking: ErrCustomModelsExist}
	case m.kernel.HasCustomConnectionTypes():
		return &types.ConfigurationError{Blocking: ErrCustomConnectionTypesExist}
	case m.kernel.HasUserDelayExtrema():
		return &types.ConfigurationError{Blocking: ErrDelayExtremaSet}
	case m.kernel.Simulated():
		return &types.ConfigurationError{Blocking: ErrNetworkSimulated}
	case !m.kernel.ResolutionIsDefault():
		return &types.ConfigurationError{Blocking: ErrResolutionModified}
	case m.kernel.ModelDefaultsModified():
		return &types.ConfigurationError{Blocking: ErrModelDefaultsModified}
	}

	return nil
}

// downgrade applies the force-singlethreading rule: a request above one
// thread is honored at one, with a non-fatal warning. Not an error, a
// graceful degradation.
func (m *Manager) downgrade(ctx context.Context, numThreads int) int {
	if numThreads <= 1 || !m.forceSinglethreading.Load() {
		return numThreads
	}

	m.logger.Warn("no multithreading available, using single threading",
		"requested", numThreads)
	m.metrics.RecordForcedSinglethreading()

	if hook := m.hooks.OnForcedSinglethreading; hook != nil {
		if err := hook(ctx, numThreads); err != nil {
			m.logger.Error("forced singlethreading hook failed", "error", err)
		}
	}

	return 1
}

// apply commits a validated thread count and re-derives every dependent
// resource: per-thread node storage, per-thread memory pools, and the
// communication layer's bookkeeping.
//
// The apply step is past the point of no return — collaborator failures
// here would leave the topology invariants violated, so they are fatal
// rather than returned.
func (m *Manager) apply(ctx context.Context, numThreads int) {
	oldNumThreads := int(m.numThreads.Swap(int64(numThreads)))

	if err := m.storage.SetNumThreads(ctx, numThreads); err != nil {
		m.logger.Fatal("failed to resize per-thread node storage",
			"numThreads", numThreads, "error", err)
	}

	if err := m.pools.Init(numThreads); err != nil {
		m.logger.Fatal("failed to reinitialize per-thread memory pools",
			"numThreads", numThreads, "error", err)
	}

	if m.comm != nil {
		if err := m.comm.SetNumThreads(ctx, numThreads); err != nil {
			m.logger.Fatal("failed to notify communication layer",
				"numThreads", numThreads, "error", err)
		}
	}

	m.metrics.SetNumThreads(numThreads)
	m.metrics.SetNumVirtualProcs(m.NumVirtualProcs())

	m.logger.Debug("thread count applied",
		"numThreads", numThreads, "numVirtualProcs", m.NumVirtualProcs())

	if hook := m.hooks.OnThreadCountChanged; hook != nil && oldNumThreads != numThreads {
		if err := hook(ctx, oldNumThreads, numThreads); err != nil {
			m.logger.Error("thread count hook failed", "error", err)
		}
	}
}

// asInt coerces a property dictionary value to int.
func asInt(key string, raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}

	return 0, &PropertyError{Key: key, Cause: fmt.Errorf("expected an integer, got %T", raw)}
}
