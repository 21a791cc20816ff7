/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scheduler_internal_test.go
Description: Tests for the sampling helpers behind the power schedules.
*/

package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastPositive(t *testing.T) {
	assert.Equal(t, 1, lastPositive([]float64{0.25, 0.75, 0, 0}))
	assert.Equal(t, 2, lastPositive([]float64{0.5, 0, 0.5}))
	assert.Equal(t, 0, lastPositive([]float64{1, 0}))
	assert.Equal(t, 0, lastPositive([]float64{0}))
}

func TestSampleSkipsTrailingZeroProbability(t *testing.T) {
	b := newScheduleBase(rand.New(rand.NewSource(8)))
	probs := []float64{0.3, 0.7, 0}
	for i := 0; i < 10000; i++ {
		idx := b.sample(probs)
		if idx == 2 {
			t.Fatalf("zero-probability index chosen at draw %d", i)
		}
	}
}
