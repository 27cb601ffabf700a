package types

// Status dictionary keys understood by Manager.SetStatus and reported by
// Manager.GetStatus. The keys match the property names used by the
// embedding kernel's property store.
const (
	// KeyLocalNumThreads is the per-rank thread count property.
	KeyLocalNumThreads = "local_num_threads"

	// KeyTotalNumVirtualProcs is the cluster-wide VP count property.
	KeyTotalNumVirtualProcs = "total_num_virtual_procs"
)

// Status is the read-only view of the current topology configuration.
type Status struct {
	// LocalNumThreads is the current per-rank thread count.
	LocalNumThreads int `json:"local_num_threads" yaml:"localNumThreads"`

	// TotalNumVirtualProcs is the derived cluster-wide VP count
	// (LocalNumThreads * total ranks).
	TotalNumVirtualProcs int `json:"total_num_virtual_procs" yaml:"totalNumVirtualProcs"`

	// ForceSinglethreading reports whether the runtime has been found to
	// lack thread-level parallelism, pinning the thread count to one.
	ForceSinglethreading bool `json:"force_singlethreading" yaml:"forceSinglethreading"`
}

// Dict returns the status as a property dictionary keyed by the status
// dictionary keys, for callers that speak the kernel's property protocol.
func (s Status) Dict() map[string]any {
	return map[string]any{
		KeyLocalNumThreads:      s.LocalNumThreads,
		KeyTotalNumVirtualProcs: s.TotalNumVirtualProcs,
	}
}
