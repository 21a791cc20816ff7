/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fuzz.go
Description: Fuzz command implementation for polyfuzz. Builds the oracle, generator and
reporters from configuration, runs one bounded fuzzing session, then persists the run
report and the grown corpus and prints the final statistics.
*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/kleascm/polyfuzz/pkg/core"
	"github.com/kleascm/polyfuzz/pkg/coverage"
	"github.com/kleascm/polyfuzz/pkg/execution"
	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/kleascm/polyfuzz/pkg/strategies"
	"github.com/kleascm/polyfuzz/pkg/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RunFuzz executes the main fuzzing process
func RunFuzz(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logs, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logs.Close()
	logger := logs.GetLogger()

	config := createFuzzerConfig()
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Stop between iterations on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rng := strategies.NewRand(config.RandSeed)

	generator, err := buildGenerator(config, rng, logger)
	if err != nil {
		return fmt.Errorf("failed to setup generator: %w", err)
	}

	oracle, err := buildOracle(ctx, config, logger)
	if err != nil {
		return fmt.Errorf("failed to setup oracle: %w", err)
	}
	defer oracle.Close()

	fuzzer := core.NewFuzzer(oracle, generator,
		core.WithLogger(logger),
		core.WithReporters(core.NewLoggerReporter(logger)),
	)
	if config.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		fuzzer.AddReporter(core.NewPrometheusReporter(registry))
		server := serveMetrics(config.MetricsAddr, registry, logger)
		defer server.Close()
	}

	result, runErr := fuzzer.Run(ctx, config.Budget)
	if result != nil {
		if err := persistRun(config, fuzzer.Generator(), result, logger); err != nil {
			return err
		}
		printFinalStats(os.Stdout, result, fuzzer.Generator())
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("fuzzing run failed: %w", runErr)
	}
	return nil
}

// buildGenerator creates the input generator for the configured variant
func buildGenerator(config *interfaces.FuzzerConfig, rng *rand.Rand, logger *logrus.Logger) (core.InputGenerator, error) {
	if config.Variant == interfaces.VariantRandom {
		return core.NewRandomGenerator(config.MinLength, config.MaxLength, childRand(rng))
	}

	seeds, err := loadSeeds(config)
	if err != nil {
		return nil, err
	}
	corpus, err := core.NewCorpus(seeds)
	if err != nil {
		return nil, err
	}

	catalog, err := strategies.CatalogByName(config.Variant)
	if err != nil {
		return nil, err
	}
	stacker, err := strategies.NewStacker(catalog, config.MinMutations, config.MaxMutations, childRand(rng))
	if err != nil {
		return nil, err
	}

	opts := []core.MutationOption{
		core.WithGeneratorRand(childRand(rng)),
		core.WithGeneratorLogger(logger),
		core.WithGeneratorName(config.Variant),
		core.WithSeedFitnessRecording(config.RecordSeedFitness),
	}
	schedule, err := core.NewPowerSchedule(config, childRand(rng))
	if err != nil {
		return nil, err
	}
	if schedule != nil {
		opts = append(opts, core.WithSchedule(schedule))
	}
	if weighted, ok := schedule.(*core.WeightedSchedule); ok {
		w := weighted.Weights()
		logger.WithFields(logrus.Fields{
			"length":            w.Length,
			"execution_time":    w.ExecutionTime,
			"coverage":          w.Coverage,
			"prefer_short_fast": config.PreferShortFast,
		}).Debug("Weighted schedule")
	}

	logger.WithFields(logrus.Fields{
		"seeds":     corpus.Size(),
		"catalog":   catalog.Name,
		"operators": len(catalog.Operators),
		"schedule":  config.Schedule,
	}).Info("Mutation generator ready")

	return core.NewMutationGenerator(corpus, stacker, opts...), nil
}

// loadSeeds reads the corpus directory and the seed manifest, in that order
func loadSeeds(config *interfaces.FuzzerConfig) ([]*core.Seed, error) {
	var seeds []*core.Seed
	if config.CorpusDir != "" {
		dirSeeds, err := core.LoadSeedDir(config.CorpusDir)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, dirSeeds...)
	}
	if config.SeedFile != "" {
		fileSeeds, err := core.LoadSeedManifest(config.SeedFile)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, fileSeeds...)
	}
	return seeds, nil
}

// buildOracle creates the oracle named in config
func buildOracle(ctx context.Context, config *interfaces.FuzzerConfig, logger *logrus.Logger) (interfaces.Oracle, error) {
	switch config.Oracle {
	case interfaces.OracleBrowser:
		return execution.NewBrowserOracle(ctx, config.Timeout, logger)
	case interfaces.OracleProcess:
		collector, err := coverage.NewCollector(config.CoverageType, config.ProfilePath)
		if err != nil {
			return nil, err
		}
		oracle, err := execution.NewProcessOracle(config, collector, logger)
		if err != nil {
			collector.Cleanup()
			return nil, err
		}
		return oracle, nil
	default:
		return nil, fmt.Errorf("unsupported oracle: %s", config.Oracle)
	}
}

// serveMetrics exposes the registry on addr under /metrics
func serveMetrics(addr string, registry *prometheus.Registry, logger *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Metrics server failed")
		}
	}()
	logger.WithField("addr", addr).Info("Serving metrics")
	return server
}

// persistRun writes the run report and, for mutation variants, the grown corpus
func persistRun(config *interfaces.FuzzerConfig, generator core.InputGenerator, result *core.RunResult, logger *logrus.Logger) error {
	path, err := utils.WriteRunReport(config.OutputDir, config.Variant, result.RunID, result)
	if err != nil {
		return err
	}
	fields := logrus.Fields{"report": path}

	if mg, ok := generator.(*core.MutationGenerator); ok {
		seeds := mg.Corpus().Seeds()
		data := make([]string, len(seeds))
		for i, s := range seeds {
			data[i] = s.Data
		}
		dir, err := utils.WriteCorpus(config.OutputDir, data)
		if err != nil {
			return err
		}
		fields["corpus"] = dir
	}
	logger.WithFields(fields).Info("Run saved")
	return nil
}

// printFinalStats prints the run summary as a table.
// generator may be nil when the summary comes from a saved report.
func printFinalStats(out io.Writer, result *core.RunResult, generator core.InputGenerator) {
	duration := result.FinishedAt.Sub(result.StartedAt)
	rate := 0.0
	if duration > 0 {
		rate = float64(result.Iterations()) / duration.Seconds()
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Statistic", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{"Generator", result.Generator})
	table.Append([]string{"Runtime", duration.Round(time.Millisecond).String()})
	table.Append([]string{"Executions", strconv.Itoa(result.Iterations())})
	table.Append([]string{"Rate", fmt.Sprintf("%.1f/sec", rate)})
	table.Append([]string{"Exceptions", strconv.Itoa(result.Exceptions)})
	table.Append([]string{"Max Coverage", strconv.Itoa(result.MaxCoverage())})
	table.Append([]string{"Promotions", strconv.Itoa(result.Promotions)})
	if mg, ok := generator.(*core.MutationGenerator); ok {
		stats := mg.Corpus().GetStats()
		table.Append([]string{"Corpus Size", fmt.Sprint(stats["size"])})
		table.Append([]string{"Promoted Seeds", fmt.Sprint(stats["promoted"])})
		table.Append([]string{"Best Seed Coverage", fmt.Sprint(stats["max_coverage"])})
	}
	if result.Err != "" {
		table.Append([]string{"Stopped", result.Err})
	}
	table.Render()
}
