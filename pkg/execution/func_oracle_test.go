/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: func_oracle_test.go
Description: Tests for the in-process function oracle.
*/

package execution

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncOracleObservesTarget(t *testing.T) {
	oracle := NewFuncOracle(func(_ context.Context, input string) ([]string, error) {
		switch input {
		case "panic":
			panic("boom")
		case "error":
			return []string{"entry"}, errors.New("rejected")
		}
		return []string{"entry", "ok"}, nil
	})
	defer oracle.Close()

	tests := []struct {
		input      string
		exceptions int
		coverage   int
	}{
		{"fine", 0, 2},
		{"error", 1, 1},
		{"panic", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			obs, err := oracle.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.exceptions, obs.Exceptions)
			assert.Equal(t, tt.coverage, obs.CoverageCount())
			assert.GreaterOrEqual(t, obs.ExecutionTime.Nanoseconds(), int64(0))
		})
	}
}

func TestFuncOracleCancelledContext(t *testing.T) {
	called := false
	oracle := NewFuncOracle(func(context.Context, string) ([]string, error) {
		called = true
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := oracle.Execute(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
