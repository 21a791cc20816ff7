/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine.go
Description: Main fuzzer driver. Runs a bounded number of iterations, each generating one input,
executing it through the oracle, recording the observation and feeding it back to the generator.
A failing iteration ends the run and the statistics collected so far are returned with the error.
*/

package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// Fuzzer drives one generator against one oracle
type Fuzzer struct {
	oracle    interfaces.Oracle
	generator InputGenerator
	logger    *logrus.Logger
	reporters []Reporter

	// Serializes Run calls; a run mutates the generator's corpus
	runMu sync.Mutex
}

// FuzzerOption configures a Fuzzer
type FuzzerOption func(*Fuzzer)

// WithLogger sets the logger
func WithLogger(logger *logrus.Logger) FuzzerOption {
	return func(f *Fuzzer) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithReporters registers reporters notified on every iteration
func WithReporters(reporters ...Reporter) FuzzerOption {
	return func(f *Fuzzer) {
		f.reporters = append(f.reporters, reporters...)
	}
}

// NewFuzzer creates a new fuzzer instance
func NewFuzzer(oracle interfaces.Oracle, generator InputGenerator, opts ...FuzzerOption) *Fuzzer {
	f := &Fuzzer{
		oracle:    oracle,
		generator: generator,
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddReporter registers a reporter for telemetry
func (f *Fuzzer) AddReporter(reporter Reporter) {
	f.runMu.Lock()
	defer f.runMu.Unlock()
	f.reporters = append(f.reporters, reporter)
}

// Generator returns the generator driven by this fuzzer
func (f *Fuzzer) Generator() InputGenerator {
	return f.generator
}

// Run executes budget iterations and returns the run statistics.
// On failure the partial statistics are returned together with the error.
func (f *Fuzzer) Run(ctx context.Context, budget int) (*RunResult, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBudget, budget)
	}

	f.runMu.Lock()
	defer f.runMu.Unlock()

	result := newRunResult(f.generator.Name(), budget)
	logger := f.logger.WithFields(logrus.Fields{
		"run":       result.RunID,
		"generator": result.Generator,
		"budget":    budget,
	})
	logger.Info("Starting fuzzing run")

	err := f.loop(ctx, budget, result)
	result.FinishedAt = time.Now()
	if err != nil {
		result.Err = err.Error()
		logger.WithFields(logrus.Fields{
			"iterations": result.Iterations(),
			"error":      err,
		}).Error("Fuzzing run stopped early")
	}

	for _, r := range f.reporters {
		r.OnRunFinished(result)
	}
	return result, err
}

// loop runs the iterations, stopping at the first error
func (f *Fuzzer) loop(ctx context.Context, budget int, result *RunResult) error {
	for i := 0; i < budget; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run cancelled after %d iterations: %w", i, err)
		}

		input, err := f.generator.GenerateInput()
		if err != nil {
			return fmt.Errorf("failed to generate input at iteration %d: %w", i, err)
		}

		obs, err := f.oracle.Execute(ctx, input)
		if err != nil {
			return fmt.Errorf("oracle failed at iteration %d: %w", i, err)
		}

		result.Inputs = append(result.Inputs, input)
		result.Coverage = append(result.Coverage, obs.CoverageCount())
		result.ExecutionTimes = append(result.ExecutionTimes, obs.ExecutionTime)
		result.Exceptions += obs.Exceptions

		if seed := f.generator.Update(input, result); seed != nil {
			result.Promotions++
			for _, r := range f.reporters {
				r.OnSeedPromoted(seed)
			}
		}

		for _, r := range f.reporters {
			r.OnInputExecuted(i, input, obs)
		}
	}
	return nil
}
