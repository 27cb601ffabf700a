package types

// KernelState reports whether the embedding kernel has accumulated state
// that depends on the current topology.
//
// The topology manager queries this interface at the moment a change request
// arrives; there is no persisted "locked" flag. All methods are read-only
// and must be cheap, since every change request re-evaluates all of them.
//
// The seven queries correspond one-to-one to the quiescence preconditions:
// a thread-count change is accepted only when no nodes exist, no custom
// models or connection types are registered, no delay extrema are set, no
// simulation time has elapsed, the resolution is at its default, and no
// model defaults have been touched.
type KernelState interface {
	// NodeCount returns the number of entities created so far.
	NodeCount() int

	// HasCustomModels reports whether entity models beyond the built-in set
	// have been registered.
	HasCustomModels() bool

	// HasCustomConnectionTypes reports whether custom connection types have
	// been registered.
	HasCustomConnectionTypes() bool

	// HasUserDelayExtrema reports whether the user has set explicit bounds
	// on connection delay.
	HasUserDelayExtrema() bool

	// Simulated reports whether the simulation has ever been advanced.
	Simulated() bool

	// ResolutionIsDefault reports whether the simulation time resolution is
	// still at its default value.
	ResolutionIsDefault() bool

	// ModelDefaultsModified reports whether default model parameters have
	// been modified.
	ModelDefaultsModified() bool
}
