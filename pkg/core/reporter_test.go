/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter_test.go
Description: Tests for the Prometheus reporter.
*/

package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/kleascm/polyfuzz/pkg/core"
	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusReporterCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	reporter := core.NewPrometheusReporter(reg)

	reporter.OnInputExecuted(1, "a", &interfaces.Observation{
		ExecutionTime: time.Millisecond,
		Exceptions:    1,
		Coverage:      []string{"x", "y"},
	})
	reporter.OnInputExecuted(2, "b", &interfaces.Observation{Coverage: []string{"x"}})
	reporter.OnSeedPromoted(core.NewSeed("a"))
	reporter.OnRunFinished(&core.RunResult{})
	reporter.OnRunFinished(&core.RunResult{Err: "boom"})

	families, err := reg.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				name := mf.GetName()
				for _, l := range m.GetLabel() {
					name += "/" + l.GetValue()
				}
				values[name] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["polyfuzz_executions_total"])
	assert.Equal(t, 1.0, values["polyfuzz_exceptions_total"])
	assert.Equal(t, 1.0, values["polyfuzz_promotions_total"])
	assert.Equal(t, 1.0, values["polyfuzz_coverage"])
	assert.Equal(t, 1.0, values["polyfuzz_runs_total/completed"])
	assert.Equal(t, 1.0, values["polyfuzz_runs_total/terminated"])
}

func TestPrometheusReporterInRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	gen := newGenerator(t, []string{"abcdef"})
	fuzzer := core.NewFuzzer(&scriptedOracle{coverage: []int{1, 2, 3}}, gen,
		core.WithLogger(quietLogger()),
		core.WithReporters(core.NewPrometheusReporter(reg)))

	_, err := fuzzer.Run(context.Background(), 3)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "polyfuzz_promotions_total" {
			assert.Equal(t, 2.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
		if mf.GetName() == "polyfuzz_executions_total" {
			assert.Equal(t, 3.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
}
