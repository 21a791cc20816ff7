/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Reporter interface and implementations for polyfuzz telemetry and live reporting.
Supports structured logging through logrus and Prometheus metrics export.
*/

package core

import (
	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Reporter defines the interface for telemetry and reporting hooks.
// Allows the fuzzer to notify listeners of execution and corpus events.
type Reporter interface {
	// OnInputExecuted is called after an input is executed and recorded.
	OnInputExecuted(iteration int, input string, obs *interfaces.Observation)
	// OnSeedPromoted is called when a candidate is appended to the corpus.
	OnSeedPromoted(seed *Seed)
	// OnRunFinished is called once per run, including runs that stopped early.
	OnRunFinished(result *RunResult)
}

// LoggerReporter logs execution and corpus events using logrus.
type LoggerReporter struct {
	logger *logrus.Logger
}

// NewLoggerReporter creates a new LoggerReporter.
func NewLoggerReporter(logger *logrus.Logger) *LoggerReporter {
	return &LoggerReporter{logger: logger}
}

// OnInputExecuted logs execution results.
func (r *LoggerReporter) OnInputExecuted(iteration int, input string, obs *interfaces.Observation) {
	fields := logrus.Fields{
		"iteration": iteration,
		"coverage":  obs.CoverageCount(),
		"duration":  obs.ExecutionTime,
		"length":    len(input),
	}
	if obs.Exceptions > 0 {
		fields["exceptions"] = obs.Exceptions
		r.logger.WithFields(fields).Warn("Input raised exceptions")
		return
	}
	r.logger.WithFields(fields).Debug("Input executed")
}

// OnSeedPromoted logs new seed addition.
func (r *LoggerReporter) OnSeedPromoted(seed *Seed) {
	r.logger.WithFields(logrus.Fields{
		"id":       seed.ID,
		"coverage": seed.Coverage,
		"length":   seed.Length,
	}).Info("Candidate promoted to seed")
}

// OnRunFinished logs the run summary.
func (r *LoggerReporter) OnRunFinished(result *RunResult) {
	entry := r.logger.WithFields(logrus.Fields{
		"run":          result.RunID,
		"iterations":   result.Iterations(),
		"exceptions":   result.Exceptions,
		"promotions":   result.Promotions,
		"max_coverage": result.MaxCoverage(),
	})
	if result.Err != "" {
		entry.WithField("error", result.Err).Error("Run terminated early")
		return
	}
	entry.Info("Run finished")
}

// PrometheusReporter exports run metrics to a Prometheus registry.
type PrometheusReporter struct {
	executions    prometheus.Counter
	exceptions    prometheus.Counter
	promotions    prometheus.Counter
	coverage      prometheus.Gauge
	executionTime prometheus.Histogram
	runs          *prometheus.CounterVec
}

// NewPrometheusReporter creates a new PrometheusReporter and registers its metrics.
func NewPrometheusReporter(reg prometheus.Registerer) *PrometheusReporter {
	r := &PrometheusReporter{
		executions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "polyfuzz",
			Name:      "executions_total",
			Help:      "Inputs executed by the oracle.",
		}),
		exceptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "polyfuzz",
			Name:      "exceptions_total",
			Help:      "Exceptions reported by the oracle.",
		}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "polyfuzz",
			Name:      "promotions_total",
			Help:      "Candidates promoted to the seed corpus.",
		}),
		coverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "polyfuzz",
			Name:      "coverage",
			Help:      "Coverage count of the last executed input.",
		}),
		executionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "polyfuzz",
			Name:      "execution_seconds",
			Help:      "Execution time per input.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 16),
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polyfuzz",
			Name:      "runs_total",
			Help:      "Completed runs by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(r.executions, r.exceptions, r.promotions, r.coverage, r.executionTime, r.runs)
	return r
}

// OnInputExecuted records execution metrics.
func (r *PrometheusReporter) OnInputExecuted(_ int, _ string, obs *interfaces.Observation) {
	r.executions.Inc()
	r.exceptions.Add(float64(obs.Exceptions))
	r.coverage.Set(float64(obs.CoverageCount()))
	r.executionTime.Observe(obs.ExecutionTime.Seconds())
}

// OnSeedPromoted counts promotions.
func (r *PrometheusReporter) OnSeedPromoted(*Seed) {
	r.promotions.Inc()
}

// OnRunFinished counts runs by outcome.
func (r *PrometheusReporter) OnRunFinished(result *RunResult) {
	outcome := "completed"
	if result.Err != "" {
		outcome = "terminated"
	}
	r.runs.WithLabelValues(outcome).Inc()
}
