/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for polyfuzz. Provides command-line options,
configuration management through viper and the fuzz, mutate, list-mutators, check and
report commands.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/polyfuzz/cmd/fuzzer/commands"
	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	defaults := interfaces.DefaultFuzzerConfig()

	rootCmd := &cobra.Command{
		Use:   "polyfuzz",
		Short: "polyfuzz - coverage-guided mutation fuzzer",
		Long: `polyfuzz generates inputs for a target, runs each one through an execution oracle
and uses coverage feedback to grow a seed corpus. Seeds are picked by a power schedule
and mutated by stacking operators from a generic, HTML or URL catalog.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Flags shared by fuzz, mutate and check
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Configuration file path")
	flags.String("log-level", defaults.LogLevel, "Logging level (debug, info, warn, error)")
	flags.String("log-format", defaults.LogFormat, "Log format (text, json, custom)")
	flags.String("log-dir", "", "Log output directory (empty logs to the console only)")
	flags.Int("log-max-files", 10, "Maximum number of log files to keep")
	flags.Bool("no-color", false, "Disable colored log output")
	flags.String("variant", defaults.Variant, "Fuzzer variant (generic, html, url, random)")
	flags.Int("min-mutations", defaults.MinMutations, "Minimum operators stacked per candidate")
	flags.Int("max-mutations", defaults.MaxMutations, "Maximum operators stacked per candidate")
	flags.Int64("seed", 0, "Random seed (0 = time based)")

	viper.BindPFlag("config", flags.Lookup("config"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("log_dir", flags.Lookup("log-dir"))
	viper.BindPFlag("log_max_files", flags.Lookup("log-max-files"))
	viper.BindPFlag("no_color", flags.Lookup("no-color"))
	viper.BindPFlag("variant", flags.Lookup("variant"))
	viper.BindPFlag("min_mutations", flags.Lookup("min-mutations"))
	viper.BindPFlag("max_mutations", flags.Lookup("max-mutations"))
	viper.BindPFlag("seed", flags.Lookup("seed"))

	fuzzCmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Run a bounded fuzzing session against a target",
		Long: `Run the seeding phase over the supplied corpus, then mutate seeds chosen by the
power schedule until the iteration budget is spent. Candidates that raise coverage are
promoted to seeds. The run report and the grown corpus are written to the output directory.`,
		RunE: commands.RunFuzz,
	}

	fuzzFlags := fuzzCmd.Flags()
	fuzzFlags.String("oracle", defaults.Oracle, "Execution oracle (process, browser)")
	fuzzFlags.String("target", "", "Path to target binary")
	fuzzFlags.StringSlice("args", []string{}, "Command-line arguments for target (@@ is replaced by the input file)")
	fuzzFlags.StringSlice("env", []string{}, "Environment variables for target")
	fuzzFlags.String("input-mode", defaults.InputMode, "How the target receives input (stdin, file)")
	fuzzFlags.Duration("timeout", defaults.Timeout, "Maximum execution time per input")
	fuzzFlags.String("coverage-type", defaults.CoverageType, "Coverage source (profile, markers)")
	fuzzFlags.String("profile", "", "Coverprofile path written by the target")
	fuzzFlags.String("corpus", "", "Directory containing seed files")
	fuzzFlags.String("seed-file", "", "YAML seed manifest")
	fuzzFlags.String("output", defaults.OutputDir, "Directory for run reports and corpus")
	fuzzFlags.String("schedule", defaults.Schedule, "Power schedule (none, uniform, weighted)")
	fuzzFlags.Float64("weight-length", defaults.Weights.Length, "Weighted schedule: length factor")
	fuzzFlags.Float64("weight-time", defaults.Weights.ExecutionTime, "Weighted schedule: execution time factor")
	fuzzFlags.Float64("weight-coverage", defaults.Weights.Coverage, "Weighted schedule: coverage factor")
	fuzzFlags.Bool("prefer-short-fast", false, "Weighted schedule: favour short, fast seeds")
	fuzzFlags.Bool("record-seed-fitness", false, "Store observed coverage and time on supplied seeds as they are replayed")
	fuzzFlags.Int("min-length", defaults.MinLength, "Random variant: shortest input")
	fuzzFlags.Int("max-length", defaults.MaxLength, "Random variant: longest input")
	fuzzFlags.Int("budget", defaults.Budget, "Number of iterations")
	fuzzFlags.String("metrics-addr", "", "Serve Prometheus metrics on this address")

	viper.BindPFlag("oracle", fuzzFlags.Lookup("oracle"))
	viper.BindPFlag("target_path", fuzzFlags.Lookup("target"))
	viper.BindPFlag("target_args", fuzzFlags.Lookup("args"))
	viper.BindPFlag("target_env", fuzzFlags.Lookup("env"))
	viper.BindPFlag("input_mode", fuzzFlags.Lookup("input-mode"))
	viper.BindPFlag("timeout", fuzzFlags.Lookup("timeout"))
	viper.BindPFlag("coverage_type", fuzzFlags.Lookup("coverage-type"))
	viper.BindPFlag("profile_path", fuzzFlags.Lookup("profile"))
	viper.BindPFlag("corpus_dir", fuzzFlags.Lookup("corpus"))
	viper.BindPFlag("seed_file", fuzzFlags.Lookup("seed-file"))
	viper.BindPFlag("output_dir", fuzzFlags.Lookup("output"))
	viper.BindPFlag("schedule", fuzzFlags.Lookup("schedule"))
	viper.BindPFlag("weights.length", fuzzFlags.Lookup("weight-length"))
	viper.BindPFlag("weights.execution_time", fuzzFlags.Lookup("weight-time"))
	viper.BindPFlag("weights.coverage", fuzzFlags.Lookup("weight-coverage"))
	viper.BindPFlag("prefer_short_fast", fuzzFlags.Lookup("prefer-short-fast"))
	viper.BindPFlag("record_seed_fitness", fuzzFlags.Lookup("record-seed-fitness"))
	viper.BindPFlag("min_length", fuzzFlags.Lookup("min-length"))
	viper.BindPFlag("max_length", fuzzFlags.Lookup("max-length"))
	viper.BindPFlag("budget", fuzzFlags.Lookup("budget"))
	viper.BindPFlag("metrics_addr", fuzzFlags.Lookup("metrics-addr"))

	mutateCmd := &cobra.Command{
		Use:   "mutate <input>",
		Short: "Print stacked mutations of an input",
		Args:  cobra.ExactArgs(1),
		RunE:  commands.RunMutate,
	}
	mutateCmd.Flags().Int("count", 10, "Number of candidates to print")
	viper.BindPFlag("count", mutateCmd.Flags().Lookup("count"))

	listMutatorsCmd := &cobra.Command{
		Use:   "list-mutators [variant...]",
		Short: "List operator catalogs and their operators",
		RunE:  commands.ListMutators,
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration, target, corpus and output directory",
		Long: `Perform self-checks before fuzzing: configuration validity, target executability,
seed availability and output writability. Useful in CI before launching long runs.`,
		RunE: commands.PerformSelfCheck,
	}

	reportCmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Print the summary of a saved run report",
		Args:  cobra.ExactArgs(1),
		RunE:  commands.ShowReport,
	}

	rootCmd.AddCommand(fuzzCmd, mutateCmd, listMutatorsCmd, checkCmd, reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
