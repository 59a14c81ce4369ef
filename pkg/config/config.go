// Package config provides configuration loading and management for tucker3d.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Decomposition parameters
	Decomposition struct {
		// Ranks is the target core extent (J1, J2, J3) per tensor mode.
		// Smaller ranks compress harder at the cost of fidelity.
		Ranks [3]int `yaml:"ranks"`

		// Method selects how mode bases are computed: "svd" runs a full
		// singular value decomposition on each mode unfolding, "eigen"
		// eigendecomposes each mode's covariance matrix instead
		Method string `yaml:"method"`

		// Workers specifies how many goroutines to use for the core
		// derivation and reconstruction contractions
		Workers int `yaml:"workers"`
	} `yaml:"decomposition"`

	// Volume parameters
	Volume struct {
		// Dims is the input volume extent (I1, I2, I3)
		Dims [3]int `yaml:"dims"`

		// Input is the path of the raw little-endian float64 volume to load.
		// When empty, a synthetic volume of the given dims is generated.
		Input string `yaml:"input"`

		// Output is the path where the reconstructed volume is written
		Output string `yaml:"output"`
	} `yaml:"volume"`

	// Output parameters
	Output struct {
		// SaveReconstruction determines whether the reconstructed volume
		// is written back to disk after decomposition
		SaveReconstruction bool `yaml:"saveReconstruction"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default decomposition parameters
	cfg.Decomposition.Ranks = [3]int{8, 8, 8}
	cfg.Decomposition.Method = "svd"
	cfg.Decomposition.Workers = runtime.NumCPU() // Use all available cores by default

	// Set default volume parameters
	cfg.Volume.Dims = [3]int{32, 32, 32}
	cfg.Volume.Output = "reconstructed.bin"

	// Set default output parameters
	cfg.Output.SaveReconstruction = false
	cfg.Output.Verbose = true

	return cfg
}

// Validate checks the configuration for values the decomposition engine
// would reject
func (c *Config) Validate() error {
	for k := 0; k < 3; k++ {
		if c.Volume.Dims[k] < 1 {
			return fmt.Errorf("volume dims must be positive, got %v", c.Volume.Dims)
		}
		if c.Decomposition.Ranks[k] < 1 {
			return fmt.Errorf("ranks must be positive, got %v", c.Decomposition.Ranks)
		}
		if c.Decomposition.Ranks[k] > c.Volume.Dims[k] {
			return fmt.Errorf("rank %d exceeds volume extent %d on mode %d",
				c.Decomposition.Ranks[k], c.Volume.Dims[k], k+1)
		}
	}
	if c.Decomposition.Method != "svd" && c.Decomposition.Method != "eigen" {
		return fmt.Errorf("unknown decomposition method %q (want \"svd\" or \"eigen\")",
			c.Decomposition.Method)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
