package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the vptopo library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). Precondition sentinels name the kernel state that blocks a
// topology change; they are always delivered wrapped in a
// *ConfigurationError so callers can branch on either the kind or the
// specific blocking condition.

// Quiescence precondition errors - one per kernel state change that locks
// the topology. Listed in the order they are checked.
var (
	// ErrNodesExist blocks a change once any entity has been created.
	ErrNodesExist = errors.New("nodes exist")

	// ErrCustomModelsExist blocks a change once entity models beyond the
	// built-in set have been registered.
	ErrCustomModelsExist = errors.New("custom entity models exist")

	// ErrCustomConnectionTypesExist blocks a change once custom connection
	// types have been registered.
	ErrCustomConnectionTypesExist = errors.New("custom connection types exist")

	// ErrDelayExtremaSet blocks a change once the user has set explicit
	// bounds on connection delay.
	ErrDelayExtremaSet = errors.New("delay extrema have been set")

	// ErrNetworkSimulated blocks a change once the simulation has been
	// advanced.
	ErrNetworkSimulated = errors.New("the network has been simulated")

	// ErrResolutionModified blocks a change once the simulation time
	// resolution has left its default value.
	ErrResolutionModified = errors.New("the resolution has been set")

	// ErrModelDefaultsModified blocks a change once default model parameters
	// have been modified.
	ErrModelDefaultsModified = errors.New("model defaults have been modified")
)

// Validation and construction errors.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrKernelStateRequired is returned when the kernel state source is nil.
	ErrKernelStateRequired = errors.New("kernel state source is required")

	// ErrInvalidThreadCount is returned when a requested thread count is
	// below one.
	ErrInvalidThreadCount = errors.New("thread count must be >= 1")

	// ErrVPCountNotDivisible is returned when a requested total VP count is
	// not an integer multiple of the rank count.
	ErrVPCountNotDivisible = errors.New(
		"number of virtual processes (threads*processes) must be an integer multiple of the number of processes")
)

// ConfigurationError reports that a topology change request was rejected
// because the kernel is no longer quiescent. Blocking identifies the first
// failing precondition and is one of the precondition sentinels above.
//
// The request has no partial effect: the thread count and every derived
// resource are left exactly as they were.
type ConfigurationError struct {
	// Blocking is the precondition sentinel that rejected the request.
	Blocking error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: thread/process number cannot be changed", e.Blocking)
}

// Unwrap exposes the blocking precondition for errors.Is checks.
func (e *ConfigurationError) Unwrap() error {
	return e.Blocking
}

// PropertyError reports that a requested configuration value is itself
// invalid (as opposed to being blocked by kernel state). The configuration
// is left unchanged.
type PropertyError struct {
	// Key is the status dictionary key the bad value was supplied under.
	Key string

	// Cause describes why the value was rejected.
	Cause error
}

// Error implements the error interface.
func (e *PropertyError) Error() string {
	return fmt.Sprintf("%s: %v; value unchanged", e.Key, e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is checks.
func (e *PropertyError) Unwrap() error {
	return e.Cause
}
