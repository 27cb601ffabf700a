package types

import "context"

// Hooks defines callbacks for topology lifecycle events.
//
// All hooks are optional. Unlike event hooks in busy coordination systems,
// these run synchronously inside the apply step: the configuration path only
// executes while the kernel is quiescent, and running hooks inline preserves
// the guarantee that every derived resource (including hook side effects)
// is in place before thread-indexed access resumes.
//
// Hook errors are logged and do not fail the apply step.
type Hooks struct {
	// OnThreadCountChanged is called after a new thread count has been
	// applied and all collaborators notified. Not called when the applied
	// value equals the previous one.
	OnThreadCountChanged func(ctx context.Context, oldNumThreads, newNumThreads int) error

	// OnReset is called after Reset has returned the manager to the
	// single-thread, non-forced state.
	OnReset func(ctx context.Context) error

	// OnForcedSinglethreading is called when a request for more than one
	// thread is downgraded because the runtime lacks thread-level
	// parallelism. requested is the original thread count.
	OnForcedSinglethreading func(ctx context.Context, requested int) error
}
