/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config_test.go
Description: Tests for configuration defaults and validation.
*/

package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *FuzzerConfig {
	c := DefaultFuzzerConfig()
	c.TargetPath = "/bin/true"
	c.SeedFile = "seeds.yaml"
	return c
}

func TestEnergyWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultEnergyWeights().Validate())
	require.NoError(t, EnergyWeights{Coverage: 1}.Validate())

	assert.Error(t, EnergyWeights{Length: 0.5, Coverage: 0.6}.Validate())
	assert.Error(t, EnergyWeights{Length: -0.2, Coverage: 1.2}.Validate())
	assert.Error(t, EnergyWeights{}.Validate())
}

func TestFuzzerConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*FuzzerConfig)
	}{
		{"zero budget", func(c *FuzzerConfig) { c.Budget = 0 }},
		{"unknown variant", func(c *FuzzerConfig) { c.Variant = "grammar" }},
		{"inverted mutation range", func(c *FuzzerConfig) { c.MinMutations, c.MaxMutations = 5, 2 }},
		{"no seeds", func(c *FuzzerConfig) { c.SeedFile = "" }},
		{"bad weights", func(c *FuzzerConfig) {
			c.Schedule = ScheduleWeighted
			c.Weights = EnergyWeights{Length: 1, Coverage: 1}
		}},
		{"unknown schedule", func(c *FuzzerConfig) { c.Schedule = "fifo" }},
		{"no target", func(c *FuzzerConfig) { c.TargetPath = "" }},
		{"bad input mode", func(c *FuzzerConfig) { c.InputMode = "socket" }},
		{"bad coverage type", func(c *FuzzerConfig) { c.CoverageType = "sancov" }},
		{"unknown oracle", func(c *FuzzerConfig) { c.Oracle = "qemu" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestRandomVariantNeedsNoSeeds(t *testing.T) {
	c := validConfig()
	c.Variant = VariantRandom
	c.SeedFile = ""
	require.NoError(t, c.Validate())

	c.MinLength, c.MaxLength = 10, 5
	assert.Error(t, c.Validate())
}

func TestBrowserOracleNeedsNoTarget(t *testing.T) {
	c := validConfig()
	c.Oracle = OracleBrowser
	c.TargetPath = ""
	assert.NoError(t, c.Validate())
}

func TestObservationCoverageCount(t *testing.T) {
	var nilObs *Observation
	assert.Equal(t, 0, nilObs.CoverageCount())
	assert.Equal(t, 2, (&Observation{Coverage: []string{"a", "b"}}).CoverageCount())
}
