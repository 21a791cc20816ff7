/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: executor_test.go
Description: Tests for the process oracle using small shell targets.
*/

package execution

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/polyfuzz/pkg/coverage"
	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shell = "/bin/sh"

func shellOracle(t *testing.T, script string, mutate func(*interfaces.FuzzerConfig), collector coverage.Collector) *ProcessOracle {
	t.Helper()
	if _, err := os.Stat(shell); err != nil {
		t.Skip("no /bin/sh available")
	}
	config := interfaces.DefaultFuzzerConfig()
	config.TargetPath = shell
	config.TargetArgs = []string{"-c", script}
	config.Timeout = 5 * time.Second
	if mutate != nil {
		mutate(config)
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	oracle, err := NewProcessOracle(config, collector, logger)
	require.NoError(t, err)
	t.Cleanup(func() { oracle.Close() })
	return oracle
}

const markerScript = `in=$(cat)
echo "COV: entry"
case "$in" in
  *crash*) echo "COV: crash"; exit 3 ;;
  *http*) echo "COV: url" ;;
esac
echo "COV: entry"`

func TestProcessOracleStdinMarkers(t *testing.T) {
	oracle := shellOracle(t, markerScript, nil, nil)

	obs, err := oracle.Execute(context.Background(), "plain")
	require.NoError(t, err)
	assert.Equal(t, 0, obs.Exceptions)
	assert.Equal(t, []string{"entry"}, obs.Coverage)
	assert.Greater(t, obs.ExecutionTime, time.Duration(0))

	obs, err = oracle.Execute(context.Background(), "http://x")
	require.NoError(t, err)
	assert.Equal(t, []string{"entry", "url"}, obs.Coverage)
}

func TestProcessOracleNonZeroExitIsException(t *testing.T) {
	oracle := shellOracle(t, markerScript, nil, nil)

	obs, err := oracle.Execute(context.Background(), "crash me")
	require.NoError(t, err)
	assert.Equal(t, 1, obs.Exceptions)
	assert.Equal(t, []string{"entry", "crash"}, obs.Coverage)
}

func TestProcessOracleTimeoutIsException(t *testing.T) {
	oracle := shellOracle(t, "exec sleep 5", func(c *interfaces.FuzzerConfig) {
		c.Timeout = 100 * time.Millisecond
	}, nil)

	obs, err := oracle.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, obs.Exceptions)
	assert.Less(t, obs.ExecutionTime, 5*time.Second)
}

func TestProcessOracleCancelledContext(t *testing.T) {
	oracle := shellOracle(t, markerScript, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := oracle.Execute(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessOracleFileMode(t *testing.T) {
	script := `echo "COV: $(cat "$1")"`
	oracle := shellOracle(t, script, func(c *interfaces.FuzzerConfig) {
		c.InputMode = "file"
		c.TargetArgs = []string{"-c", script, "sh", InputPlaceholder}
	}, nil)

	obs, err := oracle.Execute(context.Background(), "from-file")
	require.NoError(t, err)
	assert.Equal(t, []string{"from-file"}, obs.Coverage)
}

func TestBuildArgsAppendsInputFile(t *testing.T) {
	o := &ProcessOracle{args: []string{"-v"}, inputMode: "file"}
	args, cleanup, err := o.buildArgs("data")
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, "-v", args[0])

	content, err := os.ReadFile(args[1])
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	cleanup()
	_, err = os.Stat(args[1])
	assert.True(t, os.IsNotExist(err))
}

func TestProcessOracleProfileCoverage(t *testing.T) {
	collector, err := coverage.NewProfileCollector(filepath.Join(t.TempDir(), "cover.out"))
	require.NoError(t, err)

	script := `in=$(cat)
[ "$in" = "die" ] && exit 2
[ "$in" = "silent" ] && exit 0
printf 'mode: set\na.go:1.1,2.2 1 1\nb.go:3.1,4.2 1 0\n' > "$` + coverage.ProfileEnv + `"`
	oracle := shellOracle(t, script, func(c *interfaces.FuzzerConfig) {
		c.CoverageType = interfaces.CoverageProfile
	}, collector)

	obs, err := oracle.Execute(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go:1.1,2.2"}, obs.Coverage)

	// A crashing target without a profile still yields an observation
	obs, err = oracle.Execute(context.Background(), "die")
	require.NoError(t, err)
	assert.Equal(t, 1, obs.Exceptions)
	assert.Empty(t, obs.Coverage)

	// A clean exit without a profile is a collection failure
	_, err = oracle.Execute(context.Background(), "silent")
	assert.Error(t, err)
}

func TestNewProcessOracleValidation(t *testing.T) {
	config := interfaces.DefaultFuzzerConfig()
	_, err := NewProcessOracle(config, nil, nil)
	assert.Error(t, err)

	config.TargetPath = filepath.Join(t.TempDir(), "missing-target")
	_, err = NewProcessOracle(config, nil, nil)
	assert.Error(t, err)
}
