/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils_test.go
Description: Tests for configuration mapping and random source derivation.
*/

package commands

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFuzzerConfigFromFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "polyfuzz.yaml")
	content := `variant: url
schedule: weighted
budget: 250
timeout: 2s
target_path: /bin/true
seed_file: seeds.yaml
weights:
  length: 0.2
  execution_time: 0.2
  coverage: 0.6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	viper.Set("config", path)
	require.NoError(t, LoadConfig())

	config := createFuzzerConfig()
	assert.Equal(t, interfaces.VariantURL, config.Variant)
	assert.Equal(t, interfaces.ScheduleWeighted, config.Schedule)
	assert.Equal(t, 250, config.Budget)
	assert.Equal(t, 2*time.Second, config.Timeout)
	assert.Equal(t, interfaces.EnergyWeights{Length: 0.2, ExecutionTime: 0.2, Coverage: 0.6}, config.Weights)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("POLYFUZZ_BUDGET", "42")
	require.NoError(t, LoadConfig())
	assert.Equal(t, 42, createFuzzerConfig().Budget)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, LoadConfig())
}

func TestChildRandIsDeterministic(t *testing.T) {
	a := childRand(rand.New(rand.NewSource(11)))
	b := childRand(rand.New(rand.NewSource(11)))
	assert.Equal(t, a.Int63(), b.Int63())
}
