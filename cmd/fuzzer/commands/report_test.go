/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_test.go
Description: Tests for the summary table and the report command.
*/

package commands

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/polyfuzz/pkg/core"
	"github.com/kleascm/polyfuzz/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *core.RunResult {
	started := time.Date(2024, 6, 11, 1, 30, 0, 0, time.UTC)
	return &core.RunResult{
		RunID:          "run-1",
		Generator:      "url",
		Coverage:       []int{1, 4, 2},
		Inputs:         []string{"a", "b", "c"},
		ExecutionTimes: []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
		Exceptions:     1,
		Promotions:     1,
		StartedAt:      started,
		FinishedAt:     started.Add(time.Second),
	}
}

func TestShowReport(t *testing.T) {
	dir := t.TempDir()
	path, err := utils.WriteRunReport(dir, "url", "run-1", sampleResult())
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, ShowReport(cmd, []string{path}))

	text := out.String()
	assert.Contains(t, text, "url")
	assert.Contains(t, text, "3.0/sec")
	assert.Contains(t, text, "Max Coverage")
	assert.NotContains(t, text, "Corpus Size")

	assert.Error(t, ShowReport(cmd, []string{filepath.Join(dir, "missing.json")}))
}

func TestPrintFinalStatsWithCorpus(t *testing.T) {
	corpus, err := core.NewCorpusFromStrings("seed")
	require.NoError(t, err)
	promoted := core.NewSeed("seed/")
	promoted.Generation = 1
	promoted.Coverage = 4
	corpus.Append(promoted)
	gen := core.NewMutationGenerator(corpus, nil)

	var out bytes.Buffer
	printFinalStats(&out, sampleResult(), gen)
	assert.Contains(t, out.String(), "Corpus Size")
	assert.Contains(t, out.String(), "Promoted Seeds")
}
