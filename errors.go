package vptopo

import "github.com/arloliu/vptopo/types"

// Error kinds returned by the Manager.
type (
	// ConfigurationError reports that a topology change was rejected because
	// the kernel is no longer quiescent.
	ConfigurationError = types.ConfigurationError

	// PropertyError reports that a requested configuration value is invalid.
	PropertyError = types.PropertyError
)

// Quiescence precondition sentinels, delivered wrapped in a *ConfigurationError.
var (
	// ErrNodesExist blocks a change once any entity has been created.
	ErrNodesExist = types.ErrNodesExist

	// ErrCustomModelsExist blocks a change once entity models beyond the
	// built-in set have been registered.
	ErrCustomModelsExist = types.ErrCustomModelsExist

	// ErrCustomConnectionTypesExist blocks a change once custom connection
	// types have been registered.
	ErrCustomConnectionTypesExist = types.ErrCustomConnectionTypesExist

	// ErrDelayExtremaSet blocks a change once explicit delay bounds are set.
	ErrDelayExtremaSet = types.ErrDelayExtremaSet

	// ErrNetworkSimulated blocks a change once the simulation has advanced.
	ErrNetworkSimulated = types.ErrNetworkSimulated

	// ErrResolutionModified blocks a change once the time resolution has
	// left its default value.
	ErrResolutionModified = types.ErrResolutionModified

	// ErrModelDefaultsModified blocks a change once default model
	// parameters have been modified.
	ErrModelDefaultsModified = types.ErrModelDefaultsModified
)

// Validation sentinels.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrKernelStateRequired is returned when the kernel state source is nil.
	ErrKernelStateRequired = types.ErrKernelStateRequired

	// ErrInvalidThreadCount is returned when a requested thread count is
	// below one.
	ErrInvalidThreadCount = types.ErrInvalidThreadCount

	// ErrVPCountNotDivisible is returned when a requested total VP count is
	// not an integer multiple of the rank count.
	ErrVPCountNotDivisible = types.ErrVPCountNotDivisible
)
