package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigurationError(t *testing.T) {
	t.Run("wraps blocking precondition", func(t *testing.T) {
		err := &ConfigurationError{Blocking: ErrNodesExist}

		require.ErrorIs(t, err, ErrNodesExist)
		require.Contains(t, err.Error(), "nodes exist")
		require.Contains(t, err.Error(), "cannot be changed")
	})

	t.Run("matched by errors.As through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("set_status: %w", &ConfigurationError{Blocking: ErrNetworkSimulated})

		var cfgErr *ConfigurationError
		require.ErrorAs(t, wrapped, &cfgErr)
		require.ErrorIs(t, cfgErr.Blocking, ErrNetworkSimulated)
	})

	t.Run("distinct preconditions do not match each other", func(t *testing.T) {
		err := &ConfigurationError{Blocking: ErrCustomModelsExist}

		require.NotErrorIs(t, err, ErrNodesExist)
		require.NotErrorIs(t, err, ErrResolutionModified)
	})
}

func TestPropertyError(t *testing.T) {
	t.Run("carries key and cause", func(t *testing.T) {
		err := &PropertyError{Key: KeyTotalNumVirtualProcs, Cause: ErrVPCountNotDivisible}

		require.ErrorIs(t, err, ErrVPCountNotDivisible)
		require.Contains(t, err.Error(), KeyTotalNumVirtualProcs)
		require.Contains(t, err.Error(), "value unchanged")
	})

	t.Run("not a configuration error", func(t *testing.T) {
		err := &PropertyError{Key: KeyLocalNumThreads, Cause: ErrInvalidThreadCount}

		var cfgErr *ConfigurationError
		require.False(t, errors.As(err, &cfgErr))
	})
}
