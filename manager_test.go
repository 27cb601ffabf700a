package vptopo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vptopo/kernelstate"
	"github.com/arloliu/vptopo/types"
)

// Mock implementations for testing

// mockKernel is a KernelState with directly settable fields.
type mockKernel struct {
	nodes            int
	customModels     bool
	customConnTypes  bool
	delayExtrema     bool
	simulated        bool
	resolutionSet    bool
	defaultsModified bool
}

func (k *mockKernel) NodeCount() int                 { return k.nodes }
func (k *mockKernel) HasCustomModels() bool          { return k.customModels }
func (k *mockKernel) HasCustomConnectionTypes() bool { return k.customConnTypes }
func (k *mockKernel) HasUserDelayExtrema() bool      { return k.delayExtrema }
func (k *mockKernel) Simulated() bool                { return k.simulated }
func (k *mockKernel) ResolutionIsDefault() bool      { return !k.resolutionSet }
func (k *mockKernel) ModelDefaultsModified() bool    { return k.defaultsModified }

// recordingNotifier captures communication-layer notifications.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []int
}

func (n *recordingNotifier) SetNumThreads(_ context.Context, numThreads int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, numThreads)

	return nil
}

// recordingLogger captures warnings for assertions.
type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordingLogger) Debug(_ string, _ ...any) {}
func (l *recordingLogger) Info(_ string, _ ...any)  {}
func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}
func (l *recordingLogger) Error(_ string, _ ...any) {}
func (l *recordingLogger) Fatal(_ string, _ ...any) {}

func TestNewManager(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		mgr, err := NewManager(nil, &mockKernel{})
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.Nil(t, mgr)
	})

	t.Run("nil kernel state", func(t *testing.T) {
		cfg := TestConfig()
		mgr, err := NewManager(&cfg, nil)
		require.ErrorIs(t, err, ErrKernelStateRequired)
		require.Nil(t, mgr)
	})

	t.Run("invalid layout", func(t *testing.T) {
		cfg := Config{Layout: types.RankLayout{Rank: 9, SimRanks: 2, RecRanks: 2}}
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.Nil(t, mgr)
	})

	t.Run("defaults applied", func(t *testing.T) {
		cfg := TestConfig()
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)
		require.NotNil(t, mgr)

		// Optional fields get safe defaults (not nil), and the manager
		// starts at one thread.
		require.NotNil(t, mgr.hooks)
		require.NotNil(t, mgr.metrics)
		require.NotNil(t, mgr.logger)
		require.NotNil(t, mgr.storage)
		require.NotNil(t, mgr.pools)
		require.Equal(t, 1, mgr.NumThreads())
		require.False(t, mgr.ForceSinglethreading())
	})
}

func TestSetLocalNumThreads(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted while quiescent", func(t *testing.T) {
		cfg := TestConfig() // 2 simulating + 2 recording ranks
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)

		require.NoError(t, mgr.SetLocalNumThreads(ctx, 3))
		require.Equal(t, 3, mgr.NumThreads())
		require.Equal(t, 12, mgr.NumVirtualProcs())
	})

	t.Run("idempotent at current value", func(t *testing.T) {
		cfg := TestConfig()
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)
		require.NoError(t, mgr.SetLocalNumThreads(ctx, 3))

		before := make([]VP, 3)
		for i := range before {
			before[i] = mgr.ThreadToVP(Thread(i))
		}

		require.NoError(t, mgr.SetLocalNumThreads(ctx, 3))
		require.Equal(t, 3, mgr.NumThreads())
		for i := range before {
			require.Equal(t, before[i], mgr.ThreadToVP(Thread(i)))
		}
	})

	t.Run("rejects count below one", func(t *testing.T) {
		cfg := TestConfig()
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)

		err = mgr.SetLocalNumThreads(ctx, 0)

		var propErr *PropertyError
		require.ErrorAs(t, err, &propErr)
		require.ErrorIs(t, err, ErrInvalidThreadCount)
		require.Equal(t, 1, mgr.NumThreads())
	})
}

func TestQuiescencePreconditions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		kernel   *mockKernel
		blocking error
	}{
		{name: "nodes exist", kernel: &mockKernel{nodes: 1}, blocking: ErrNodesExist},
		{name: "custom models", kernel: &mockKernel{customModels: true}, blocking: ErrCustomModelsExist},
		{name: "custom connection types", kernel: &mockKernel{customConnTypes: true}, blocking: ErrCustomConnectionTypesExist},
		{name: "delay extrema", kernel: &mockKernel{delayExtrema: true}, blocking: ErrDelayExtremaSet},
		{name: "simulated", kernel: &mockKernel{simulated: true}, blocking: ErrNetworkSimulated},
		{name: "resolution changed", kernel: &mockKernel{resolutionSet: true}, blocking: ErrResolutionModified},
		{name: "model defaults modified", kernel: &mockKernel{defaultsModified: true}, blocking: ErrModelDefaultsModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := TestConfig()
			mgr, err := NewManager(&cfg, tt.kernel)
			require.NoError(t, err)

			err = mgr.SetLocalNumThreads(ctx, 4)

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			require.ErrorIs(t, err, tt.blocking)
			require.Equal(t, 1, mgr.NumThreads(), "no partial effect")

			// Same precondition blocks the total-VP path.
			err = mgr.SetTotalVirtualProcs(ctx, 8)
			require.ErrorAs(t, err, &cfgErr)
			require.ErrorIs(t, err, tt.blocking)
		})
	}

	t.Run("first failing condition wins", func(t *testing.T) {
		cfg := TestConfig()
		kernel := &mockKernel{nodes: 5, simulated: true, defaultsModified: true}
		mgr, err := NewManager(&cfg, kernel)
		require.NoError(t, err)

		err = mgr.SetLocalNumThreads(ctx, 2)
		require.ErrorIs(t, err, ErrNodesExist)
		require.NotErrorIs(t, err, ErrNetworkSimulated)
	})

	t.Run("entity created after a change locks further changes", func(t *testing.T) {
		cfg := TestConfig()
		kernel := &mockKernel{}
		mgr, err := NewManager(&cfg, kernel)
		require.NoError(t, err)

		require.NoError(t, mgr.SetLocalNumThreads(ctx, 3))
		kernel.nodes = 1

		err = mgr.SetLocalNumThreads(ctx, 5)
		require.ErrorIs(t, err, ErrNodesExist)
		require.Equal(t, 3, mgr.NumThreads())
	})
}

func TestSetTotalVirtualProcs(t *testing.T) {
	ctx := context.Background()

	t.Run("divisible count accepted", func(t *testing.T) {
		cfg := TestConfig() // 4 ranks
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)

		require.NoError(t, mgr.SetTotalVirtualProcs(ctx, 12))
		require.Equal(t, 3, mgr.NumThreads())
		require.Equal(t, 12, mgr.NumVirtualProcs())
	})

	t.Run("non-divisible count rejected", func(t *testing.T) {
		cfg := TestConfig()
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)
		require.NoError(t, mgr.SetLocalNumThreads(ctx, 3))

		err = mgr.SetTotalVirtualProcs(ctx, 10)

		var propErr *PropertyError
		require.ErrorAs(t, err, &propErr)
		require.ErrorIs(t, err, ErrVPCountNotDivisible)
		require.Equal(t, types.KeyTotalNumVirtualProcs, propErr.Key)
		require.Equal(t, 3, mgr.NumThreads(), "value unchanged")
	})

	t.Run("zero count rejected", func(t *testing.T) {
		cfg := TestConfig()
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)

		require.ErrorIs(t, mgr.SetTotalVirtualProcs(ctx, 0), ErrVPCountNotDivisible)
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("thread count key", func(t *testing.T) {
		cfg := TestConfig()
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)

		require.NoError(t, mgr.SetStatus(ctx, map[string]any{KeyLocalNumThreads: 3}))
		require.Equal(t, 3, mgr.NumThreads())
	})

	t.Run("vp count key", func(t *testing.T) {
		cfg := TestConfig()
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)

		require.NoError(t, mgr.SetStatus(ctx, map[string]any{KeyTotalNumVirtualProcs: 8}))
		require.Equal(t, 2, mgr.NumThreads())
	})

	t.Run("integer-valued float accepted", func(t *testing.T) {
		cfg := TestConfig()
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)

		require.NoError(t, mgr.SetStatus(ctx, map[string]any{KeyLocalNumThreads: float64(2)}))
		require.Equal(t, 2, mgr.NumThreads())
	})

	t.Run("non-integer value rejected", func(t *testing.T) {
		cfg := TestConfig()
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)

		err = mgr.SetStatus(ctx, map[string]any{KeyLocalNumThreads: "three"})

		var propErr *PropertyError
		require.ErrorAs(t, err, &propErr)
		require.Equal(t, 1, mgr.NumThreads())
	})

	t.Run("unknown keys ignored", func(t *testing.T) {
		cfg := TestConfig()
		mgr, err := NewManager(&cfg, &mockKernel{})
		require.NoError(t, err)

		require.NoError(t, mgr.SetStatus(ctx, map[string]any{"resolution": 0.1}))
		require.Equal(t, 1, mgr.NumThreads())
	})
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()
	cfg := TestConfig()
	mgr, err := NewManager(&cfg, &mockKernel{})
	require.NoError(t, err)
	require.NoError(t, mgr.SetLocalNumThreads(ctx, 3))

	status := mgr.GetStatus()
	require.Equal(t, 3, status.LocalNumThreads)
	require.Equal(t, 12, status.TotalNumVirtualProcs)
	require.False(t, status.ForceSinglethreading)

	dict := status.Dict()
	require.Equal(t, 3, dict[KeyLocalNumThreads])
	require.Equal(t, 12, dict[KeyTotalNumVirtualProcs])
}

func TestInitForcedSinglethreading(t *testing.T) {
	ctx := context.Background()

	cfg := TestConfig()
	cfg.LocalNumThreads = 8
	cfg.SingleThreaded = true

	log := &recordingLogger{}
	var hookRequested int
	hooks := &Hooks{
		OnForcedSinglethreading: func(_ context.Context, requested int) error {
			hookRequested = requested
			return nil
		},
	}

	mgr, err := NewManager(&cfg, &mockKernel{}, WithLogger(log), WithHooks(hooks))
	require.NoError(t, err)

	mgr.Init(ctx)

	require.Equal(t, 1, mgr.NumThreads())
	require.True(t, mgr.ForceSinglethreading())
	require.Equal(t, 8, hookRequested)
	require.NotEmpty(t, log.warnings, "a non-fatal warning is emitted")

	t.Run("later requests downgraded, not rejected", func(t *testing.T) {
		require.NoError(t, mgr.SetLocalNumThreads(ctx, 4))
		require.Equal(t, 1, mgr.NumThreads())
	})

	t.Run("reset clears the forced state", func(t *testing.T) {
		mgr.Reset(ctx)
		require.False(t, mgr.ForceSinglethreading())
		require.Equal(t, 1, mgr.NumThreads())

		require.NoError(t, mgr.SetLocalNumThreads(ctx, 4))
		require.Equal(t, 4, mgr.NumThreads())
	})
}

func TestInitAppliesConfiguredCount(t *testing.T) {
	ctx := context.Background()

	cfg := TestConfig()
	cfg.LocalNumThreads = 4

	notifier := &recordingNotifier{}
	mgr, err := NewManager(&cfg, &mockKernel{}, WithCommNotifier(notifier))
	require.NoError(t, err)

	mgr.Init(ctx)

	require.Equal(t, 4, mgr.NumThreads())
	require.Equal(t, []int{4}, notifier.calls)
}

func TestApplyCascade(t *testing.T) {
	ctx := context.Background()
	cfg := TestConfig()

	notifier := &recordingNotifier{}
	var hookOld, hookNew int
	hooks := &Hooks{
		OnThreadCountChanged: func(_ context.Context, oldN, newN int) error {
			hookOld, hookNew = oldN, newN
			return nil
		},
	}

	mgr, err := NewManager(&cfg, &mockKernel{}, WithCommNotifier(notifier), WithHooks(hooks))
	require.NoError(t, err)

	require.NoError(t, mgr.SetLocalNumThreads(ctx, 3))

	require.Equal(t, []int{3}, notifier.calls, "communication layer notified of the new count")
	require.Equal(t, 1, hookOld)
	require.Equal(t, 3, hookNew)

	t.Run("rejected request notifies nothing", func(t *testing.T) {
		err := mgr.SetTotalVirtualProcs(ctx, 7)
		require.Error(t, err)
		require.Equal(t, []int{3}, notifier.calls)
	})
}

func TestManagerWithTrackingState(t *testing.T) {
	ctx := context.Background()
	cfg := TestConfig()
	kernel := kernelstate.NewTracking()

	mgr, err := NewManager(&cfg, kernel)
	require.NoError(t, err)

	require.NoError(t, mgr.SetLocalNumThreads(ctx, 2))

	kernel.MarkSimulated()
	require.ErrorIs(t, mgr.SetLocalNumThreads(ctx, 4), ErrNetworkSimulated)

	kernel.Reset()
	require.NoError(t, mgr.SetLocalNumThreads(ctx, 4))
	require.Equal(t, 4, mgr.NumThreads())
}
