/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config.go
Description: Fuzzer configuration shared by the CLI, the engine and the oracles.
Supports both command-line flags and configuration files through viper.
*/

package interfaces

import (
	"fmt"
	"math"
	"time"
)

// Fuzzer variants select the operator catalog (or pure random generation)
const (
	VariantGeneric = "generic"
	VariantHTML    = "html"
	VariantURL     = "url"
	VariantRandom  = "random"
)

// Power schedule names
const (
	ScheduleNone     = "none"
	ScheduleUniform  = "uniform"
	ScheduleWeighted = "weighted"
)

// Oracle kinds
const (
	OracleProcess = "process"
	OracleBrowser = "browser"
)

// Coverage modes for the process oracle
const (
	CoverageProfile = "profile"
	CoverageMarkers = "markers"
)

// EnergyWeights holds the factor weights of the weighted power schedule
type EnergyWeights struct {
	Length        float64 `json:"length" mapstructure:"length"`
	ExecutionTime float64 `json:"execution_time" mapstructure:"execution_time"`
	Coverage      float64 `json:"coverage" mapstructure:"coverage"`
}

// DefaultEnergyWeights returns coverage 0.5, length 0.3, time 0.2
func DefaultEnergyWeights() EnergyWeights {
	return EnergyWeights{Length: 0.3, ExecutionTime: 0.2, Coverage: 0.5}
}

// Validate checks that all weights are non-negative and sum to one
func (w EnergyWeights) Validate() error {
	if w.Length < 0 || w.ExecutionTime < 0 || w.Coverage < 0 {
		return fmt.Errorf("energy weights must be non-negative: %+v", w)
	}
	if sum := w.Length + w.ExecutionTime + w.Coverage; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("energy weights must sum to 1, got %g", sum)
	}
	return nil
}

// FuzzerConfig contains all configuration parameters for the fuzzer
type FuzzerConfig struct {
	// Target configuration
	Oracle     string        `json:"oracle"`      // process or browser
	TargetPath string        `json:"target_path"` // Path to the target binary
	TargetArgs []string      `json:"target_args"` // Command-line arguments for target
	TargetEnv  []string      `json:"target_env"`  // Extra environment for target
	InputMode  string        `json:"input_mode"`  // stdin or file
	Timeout    time.Duration `json:"timeout"`     // Per-execution timeout enforced by the oracle

	// Coverage configuration
	CoverageType string `json:"coverage_type"` // profile or markers
	ProfilePath  string `json:"profile_path"`  // Coverprofile written by the target, temp file when empty

	// Corpus configuration
	CorpusDir string `json:"corpus_dir"` // Directory of seed files
	SeedFile  string `json:"seed_file"`  // YAML seed manifest
	OutputDir string `json:"output_dir"` // Directory for run reports

	// Generation configuration
	Variant           string        `json:"variant"`             // generic, html, url or random
	Schedule          string        `json:"schedule"`            // none, uniform or weighted
	Weights           EnergyWeights `json:"weights"`             // Weighted schedule factors
	PreferShortFast   bool          `json:"prefer_short_fast"`   // Invert length and time factors
	RecordSeedFitness bool          `json:"record_seed_fitness"` // Store observations on replayed supplied seeds
	MinMutations      int           `json:"min_mutations"`       // Lower bound of stacked operators
	MaxMutations      int           `json:"max_mutations"`       // Upper bound of stacked operators
	MinLength         int           `json:"min_length"`          // Random variant: shortest input
	MaxLength         int           `json:"max_length"`          // Random variant: longest input
	Budget            int           `json:"budget"`              // Iterations per run
	RandSeed          int64         `json:"rand_seed"`           // 0 = time based

	// Logging configuration
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	LogDir    string `json:"log_dir"`

	// Metrics configuration
	MetricsAddr string `json:"metrics_addr"` // Serve Prometheus metrics when set
}

// DefaultFuzzerConfig returns the configuration used when nothing is overridden
func DefaultFuzzerConfig() *FuzzerConfig {
	return &FuzzerConfig{
		Oracle:       OracleProcess,
		InputMode:    "stdin",
		Timeout:      10 * time.Second,
		CoverageType: CoverageMarkers,
		OutputDir:    "./fuzz_output",
		Variant:      VariantGeneric,
		Schedule:     ScheduleNone,
		Weights:      DefaultEnergyWeights(),
		MinMutations: 1,
		MaxMutations: 10,
		MinLength:    90,
		MaxLength:    100,
		Budget:       1000,
		LogLevel:     "info",
		LogFormat:    "custom",
	}
}

// Validate checks the configuration for invalid or missing values.
// Returns the first problem found, or nil if valid.
func (c *FuzzerConfig) Validate() error {
	if c.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %d", c.Budget)
	}
	switch c.Variant {
	case VariantGeneric, VariantHTML, VariantURL:
		if c.MinMutations < 0 || c.MinMutations > c.MaxMutations {
			return fmt.Errorf("invalid mutation range [%d, %d]", c.MinMutations, c.MaxMutations)
		}
		if c.CorpusDir == "" && c.SeedFile == "" {
			return fmt.Errorf("a corpus directory or seed file is required")
		}
	case VariantRandom:
		if c.MinLength < 0 || c.MinLength > c.MaxLength {
			return fmt.Errorf("invalid length range [%d, %d]", c.MinLength, c.MaxLength)
		}
	default:
		return fmt.Errorf("unsupported variant: %s", c.Variant)
	}
	switch c.Schedule {
	case ScheduleNone, ScheduleUniform:
	case ScheduleWeighted:
		if err := c.Weights.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported schedule: %s", c.Schedule)
	}
	switch c.Oracle {
	case OracleProcess:
		if c.TargetPath == "" {
			return fmt.Errorf("target binary is required")
		}
		if c.InputMode != "stdin" && c.InputMode != "file" {
			return fmt.Errorf("unsupported input mode: %s", c.InputMode)
		}
		if c.CoverageType != CoverageProfile && c.CoverageType != CoverageMarkers {
			return fmt.Errorf("unsupported coverage type: %s", c.CoverageType)
		}
	case OracleBrowser:
	default:
		return fmt.Errorf("unsupported oracle: %s", c.Oracle)
	}
	return nil
}
