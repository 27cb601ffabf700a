package kernelstate

import (
	"sync/atomic"

	"github.com/arloliu/vptopo/types"
)

// Tracking is a mutable KernelState that records kernel activity through
// explicit marker methods.
//
// All counters and flags are atomics, so markers may be called from worker
// threads during simulation while the topology manager reads the state from
// the configuration path.
type Tracking struct {
	nodes             atomic.Int64
	customModels      atomic.Int64
	customConnTypes   atomic.Int64
	delayExtremaSet   atomic.Bool
	simulated         atomic.Bool
	resolutionChanged atomic.Bool
	defaultsModified  atomic.Bool
}

var _ types.KernelState = (*Tracking)(nil)

// NewTracking creates a Tracking state in the quiescent configuration:
// no nodes, no custom registrations, default resolution, nothing simulated.
func NewTracking() *Tracking {
	return &Tracking{}
}

// AddNodes records the creation of n entities.
func (s *Tracking) AddNodes(n int) {
	s.nodes.Add(int64(n))
}

// RegisterModel records the registration of a custom entity model.
func (s *Tracking) RegisterModel() {
	s.customModels.Add(1)
}

// RegisterConnectionType records the registration of a custom connection type.
func (s *Tracking) RegisterConnectionType() {
	s.customConnTypes.Add(1)
}

// SetDelayExtrema records that the user set explicit connection delay bounds.
func (s *Tracking) SetDelayExtrema() {
	s.delayExtremaSet.Store(true)
}

// MarkSimulated records that the simulation has been advanced.
func (s *Tracking) MarkSimulated() {
	s.simulated.Store(true)
}

// SetResolution records that the simulation time resolution left its default.
func (s *Tracking) SetResolution() {
	s.resolutionChanged.Store(true)
}

// MarkModelDefaultsModified records modification of default model parameters.
func (s *Tracking) MarkModelDefaultsModified() {
	s.defaultsModified.Store(true)
}

// Reset returns the state to the quiescent configuration.
func (s *Tracking) Reset() {
	s.nodes.Store(0)
	s.customModels.Store(0)
	s.customConnTypes.Store(0)
	s.delayExtremaSet.Store(false)
	s.simulated.Store(false)
	s.resolutionChanged.Store(false)
	s.defaultsModified.Store(false)
}

// NodeCount returns the number of entities created so far.
func (s *Tracking) NodeCount() int {
	return int(s.nodes.Load())
}

// HasCustomModels reports whether custom entity models are registered.
func (s *Tracking) HasCustomModels() bool {
	return s.customModels.Load() > 0
}

// HasCustomConnectionTypes reports whether custom connection types are registered.
func (s *Tracking) HasCustomConnectionTypes() bool {
	return s.customConnTypes.Load() > 0
}

// HasUserDelayExtrema reports whether explicit delay bounds are set.
func (s *Tracking) HasUserDelayExtrema() bool {
	return s.delayExtremaSet.Load()
}

// Simulated reports whether the simulation has ever been advanced.
func (s *Tracking) Simulated() bool {
	return s.simulated.Load()
}

// ResolutionIsDefault reports whether the time resolution is still default.
func (s *Tracking) ResolutionIsDefault() bool {
	return !s.resolutionChanged.Load()
}

// ModelDefaultsModified reports whether default model parameters changed.
func (s *Tracking) ModelDefaultsModified() bool {
	return s.defaultsModified.Load()
}
