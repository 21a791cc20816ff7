/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared interfaces for the polyfuzz engine. Defines the execution oracle
contract, the mutation operator contract and the observation type exchanged between
the driver and its collaborators, so core, strategies and execution never import each other.
*/

package interfaces

import (
	"context"
	"math/rand"
	"time"
)

// Observation is what an oracle reports after running one input
// Coverage holds opaque coverage units; only its length matters to the driver
type Observation struct {
	Exceptions    int           `json:"exceptions"`     // Failures seen while processing the input
	ExecutionTime time.Duration `json:"execution_time"` // Wall-clock cost of the execution
	Coverage      []string      `json:"coverage"`       // Covered units (locations, blocks, ranges)
}

// CoverageCount returns the cardinality of the coverage signal
func (o *Observation) CoverageCount() int {
	if o == nil {
		return 0
	}
	return len(o.Coverage)
}

// Oracle runs a candidate input against the program under test.
// Timeout policy, if any, belongs to the implementation.
type Oracle interface {
	// Execute runs one input and reports exceptions, timing and coverage
	Execute(ctx context.Context, input string) (*Observation, error)

	// Close releases any resources held by the oracle
	Close() error
}

// Operator is one atomic string transform used by the mutation engine.
// Implementations must be total: malformed or degenerate input is returned unchanged.
type Operator interface {
	// Name returns the name of this operator
	Name() string

	// Description returns a description of this operator
	Description() string

	// Mutate returns s with this operator applied once
	Mutate(r *rand.Rand, s string) string
}
