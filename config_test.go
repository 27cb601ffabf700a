package vptopo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vptopo/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 1, cfg.LocalNumThreads)
	require.Equal(t, types.RankLayout{Rank: 0, SimRanks: 1, RecRanks: 1}, cfg.Layout)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("fills empty config", func(t *testing.T) {
		var cfg Config
		SetDefaults(&cfg)

		require.Equal(t, 1, cfg.LocalNumThreads)
		require.Equal(t, 1, cfg.Layout.SimRanks)
		require.Equal(t, 1, cfg.Layout.RecRanks)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		cfg := Config{
			Layout:          types.RankLayout{Rank: 3, SimRanks: 6, RecRanks: 2},
			LocalNumThreads: 4,
		}
		SetDefaults(&cfg)

		require.Equal(t, 4, cfg.LocalNumThreads)
		require.Equal(t, 6, cfg.Layout.SimRanks)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  Config{Layout: types.RankLayout{Rank: 0, SimRanks: 2, RecRanks: 2}, LocalNumThreads: 3},
		},
		{
			name:    "bad layout",
			cfg:     Config{Layout: types.RankLayout{Rank: 0, SimRanks: 0, RecRanks: 2}, LocalNumThreads: 1},
			wantErr: true,
		},
		{
			name:    "zero threads",
			cfg:     Config{Layout: types.RankLayout{Rank: 0, SimRanks: 1, RecRanks: 1}, LocalNumThreads: 0},
			wantErr: true,
		},
		{
			name: "single threaded with requested threads is legal",
			cfg: Config{
				Layout:          types.RankLayout{Rank: 0, SimRanks: 1, RecRanks: 1},
				LocalNumThreads: 8,
				SingleThreaded:  true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vptopo.yaml")
		data := []byte(`
layout:
  rank: 1
  simRanks: 6
  recRanks: 2
localNumThreads: 4
`)
		require.NoError(t, os.WriteFile(path, data, 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 1, cfg.Layout.Rank)
		require.Equal(t, 6, cfg.Layout.SimRanks)
		require.Equal(t, 2, cfg.Layout.RecRanks)
		require.Equal(t, 4, cfg.LocalNumThreads)
	})

	t.Run("defaults applied to sparse file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vptopo.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 1, cfg.LocalNumThreads)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vptopo.yaml")
		require.NoError(t, os.WriteFile(path, []byte("layout: ["), 0o600))

		_, err := LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vptopo.yaml")
		data := []byte(`
layout:
  rank: 9
  simRanks: 2
  recRanks: 2
`)
		require.NoError(t, os.WriteFile(path, data, 0o600))

		_, err := LoadConfig(path)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
