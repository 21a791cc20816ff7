/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: func_oracle.go
Description: In-process oracle wrapping a Go function. Used to fuzz library code directly and
to drive the engine in tests without spawning processes.
*/

package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/kleascm/polyfuzz/pkg/interfaces"
)

// TargetFunc runs one input and returns the coverage units it reached.
// A returned error or a panic counts as one exception.
type TargetFunc func(ctx context.Context, input string) ([]string, error)

// FuncOracle implements the Oracle interface over a TargetFunc
type FuncOracle struct {
	target TargetFunc
}

// NewFuncOracle creates a function oracle
func NewFuncOracle(target TargetFunc) *FuncOracle {
	return &FuncOracle{target: target}
}

// Execute calls the target and observes it
func (o *FuncOracle) Execute(ctx context.Context, input string) (*interfaces.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("execution cancelled: %w", err)
	}
	start := time.Now()
	units, exceptions := o.call(ctx, input)
	return &interfaces.Observation{
		Exceptions:    exceptions,
		ExecutionTime: time.Since(start),
		Coverage:      units,
	}, nil
}

func (o *FuncOracle) call(ctx context.Context, input string) (units []string, exceptions int) {
	defer func() {
		if r := recover(); r != nil {
			exceptions = 1
		}
	}()
	units, err := o.target(ctx, input)
	if err != nil {
		exceptions = 1
	}
	return units, exceptions
}

// Close does nothing
func (o *FuncOracle) Close() error { return nil }
