package vptopo

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/vptopo/types"
)

// Config is the configuration for the Manager.
//
// The rank layout comes from the cluster launch configuration and is
// read-only for the lifetime of the manager; only the thread count is
// mutable afterwards, through the guarded configuration-change protocol.
type Config struct {
	// Layout is the cluster rank banding and this process's rank.
	Layout types.RankLayout `yaml:"layout"`

	// LocalNumThreads is the thread count applied by Init.
	// Defaults to 1.
	LocalNumThreads int `yaml:"localNumThreads"`

	// SingleThreaded marks a runtime environment without thread-level
	// parallelism. When set, any request for more than one thread is
	// downgraded to one with a warning and the manager records
	// force-singlethreading.
	//
	// DefaultConfig derives it from runtime.GOMAXPROCS; embedders with
	// their own scheduling constraints can set it explicitly.
	SingleThreaded bool `yaml:"singleThreaded"`
}

// DefaultConfig returns a configuration with default values for a
// single-rank, single-band cluster. The rank layout is a placeholder;
// real deployments overwrite it from the launch configuration.
func DefaultConfig() Config {
	return Config{
		Layout:          types.RankLayout{Rank: 0, SimRanks: 1, RecRanks: 1},
		LocalNumThreads: 1,
		SingleThreaded:  runtime.GOMAXPROCS(0) == 1,
	}
}

// SetDefaults fills in missing configuration values with defaults.
// Zero-valued band counts get the single-rank placeholder layout.
func SetDefaults(cfg *Config) {
	if cfg.Layout.SimRanks == 0 && cfg.Layout.RecRanks == 0 {
		cfg.Layout = types.RankLayout{Rank: 0, SimRanks: 1, RecRanks: 1}
	}
	if cfg.LocalNumThreads == 0 {
		cfg.LocalNumThreads = 1
	}
}

// Validate checks the configuration for structural validity.
//
// Returns:
//   - error: ErrInvalidConfig (wrapped with detail) on the first failing
//     field, nil otherwise
func (cfg *Config) Validate() error {
	if err := cfg.Layout.Validate(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrInvalidConfig, err)
	}
	if cfg.LocalNumThreads < 1 {
		return fmt.Errorf("%w: localNumThreads must be >= 1, got %d",
			types.ErrInvalidConfig, cfg.LocalNumThreads)
	}
	// SingleThreaded with LocalNumThreads > 1 is legal: Init downgrades
	// with a warning rather than erroring.

	return nil
}

// LoadConfig reads a yaml configuration file, applies defaults, and
// validates the result.
//
// Parameters:
//   - path: Path to the yaml file
//
// Returns:
//   - Config: Parsed configuration
//   - error: Read, parse, or validation failure
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// TestConfig returns a configuration suitable for tests: a four-rank
// cluster (two simulating, two recording) viewed from rank 0, with
// multithreading available regardless of the host.
func TestConfig() Config {
	return Config{
		Layout:          types.RankLayout{Rank: 0, SimRanks: 2, RecRanks: 2},
		LocalNumThreads: 1,
		SingleThreaded:  false,
	}
}
