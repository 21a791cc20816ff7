/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: composite.go
Description: Stacking mutator for the polyfuzz engine. Chains a random number of operators
drawn from a catalog, feeding each result into the next, to build one candidate per call.
*/

package strategies

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/kleascm/polyfuzz/pkg/interfaces"
)

var (
	// ErrInvalidMutationRange is returned when min/max mutations are out of order or negative
	ErrInvalidMutationRange = errors.New("invalid mutation range")
	// ErrNoOperators is returned when a stacker is built from an empty catalog
	ErrNoOperators = errors.New("no mutation operators")
)

// Stacker composes operators into one candidate per call.
// The number of applications is drawn uniformly from [min, max].
type Stacker struct {
	operators    []interfaces.Operator
	minMutations int
	maxMutations int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewStacker creates a new Stacker over the operators of catalog.
// rng may be nil, in which case a time-seeded source is used.
func NewStacker(catalog *Catalog, minMutations, maxMutations int, rng *rand.Rand) (*Stacker, error) {
	if catalog == nil || len(catalog.Operators) == 0 {
		return nil, ErrNoOperators
	}
	if minMutations < 0 || minMutations > maxMutations {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidMutationRange, minMutations, maxMutations)
	}
	if rng == nil {
		rng = NewRand(0)
	}
	ops := make([]interfaces.Operator, len(catalog.Operators))
	copy(ops, catalog.Operators)
	return &Stacker{
		operators:    ops,
		minMutations: minMutations,
		maxMutations: maxMutations,
		rng:          rng,
	}, nil
}

// Stack applies a random chain of operators to base.
// It returns the candidate and the names of the operators applied, in order.
func (s *Stacker) Stack(base string) (string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trials := s.minMutations + s.rng.Intn(s.maxMutations-s.minMutations+1)
	applied := make([]string, 0, trials)
	candidate := base
	for i := 0; i < trials; i++ {
		op := s.operators[s.rng.Intn(len(s.operators))]
		candidate = op.Mutate(s.rng, candidate)
		applied = append(applied, op.Name())
	}
	return candidate, applied
}

// Operators returns the operators this stacker draws from
func (s *Stacker) Operators() []interfaces.Operator {
	ops := make([]interfaces.Operator, len(s.operators))
	copy(ops, s.operators)
	return ops
}

// Name returns the name of this mutator
func (s *Stacker) Name() string {
	return "Stacker"
}

// Description returns a description of this mutator
func (s *Stacker) Description() string {
	return fmt.Sprintf("Applies %d to %d randomly chosen operators in sequence", s.minMutations, s.maxMutations)
}
