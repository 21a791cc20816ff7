/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the polyfuzz commands. Provides common
configuration loading, logging setup, and the mapping from viper keys to the
fuzzer configuration used across all command implementations.
*/

package commands

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/kleascm/polyfuzz/pkg/logging"
	"github.com/kleascm/polyfuzz/pkg/strategies"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// POLYFUZZ_LOG_LEVEL, POLYFUZZ_WEIGHTS_COVERAGE, ...
	viper.SetEnvPrefix("POLYFUZZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	return nil
}

// SetupLogging configures the logging system from viper
func SetupLogging() (*logging.Logger, error) {
	config := logging.DefaultLoggerConfig()
	config.Level = logging.LogLevel(viper.GetString("log_level"))
	config.Format = logging.LogFormat(viper.GetString("log_format"))
	config.OutputDir = viper.GetString("log_dir")
	if viper.IsSet("log_max_files") {
		config.MaxFiles = viper.GetInt("log_max_files")
	}
	if viper.GetBool("no_color") {
		config.Colors = false
	}

	logger, err := logging.NewLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// createFuzzerConfig creates the fuzzer configuration from viper
func createFuzzerConfig() *interfaces.FuzzerConfig {
	config := interfaces.DefaultFuzzerConfig()

	config.Oracle = viper.GetString("oracle")
	config.TargetPath = viper.GetString("target_path")
	config.TargetArgs = viper.GetStringSlice("target_args")
	config.TargetEnv = viper.GetStringSlice("target_env")
	config.InputMode = viper.GetString("input_mode")
	config.Timeout = viper.GetDuration("timeout")

	config.CoverageType = viper.GetString("coverage_type")
	config.ProfilePath = viper.GetString("profile_path")

	config.CorpusDir = viper.GetString("corpus_dir")
	config.SeedFile = viper.GetString("seed_file")
	config.OutputDir = viper.GetString("output_dir")

	config.Variant = viper.GetString("variant")
	config.Schedule = viper.GetString("schedule")
	config.Weights = interfaces.EnergyWeights{
		Length:        viper.GetFloat64("weights.length"),
		ExecutionTime: viper.GetFloat64("weights.execution_time"),
		Coverage:      viper.GetFloat64("weights.coverage"),
	}
	config.PreferShortFast = viper.GetBool("prefer_short_fast")
	config.RecordSeedFitness = viper.GetBool("record_seed_fitness")
	config.MinMutations = viper.GetInt("min_mutations")
	config.MaxMutations = viper.GetInt("max_mutations")
	config.MinLength = viper.GetInt("min_length")
	config.MaxLength = viper.GetInt("max_length")
	config.Budget = viper.GetInt("budget")
	config.RandSeed = viper.GetInt64("seed")

	config.LogLevel = viper.GetString("log_level")
	config.LogFormat = viper.GetString("log_format")
	config.LogDir = viper.GetString("log_dir")
	config.MetricsAddr = viper.GetString("metrics_addr")

	return config
}

// childRand derives an independent random source from base
func childRand(base *rand.Rand) *rand.Rand {
	return strategies.NewRand(base.Int63() | 1)
}
