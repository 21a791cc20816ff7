/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scheduler.go
Description: Power schedules for the polyfuzz engine. A schedule assigns energy to every seed,
normalizes it into a probability distribution and draws one seed from it. Includes the uniform
baseline and the weighted multi-factor schedule over length, execution time and coverage.
*/

package core

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/kleascm/polyfuzz/pkg/strategies"
)

// PowerSchedule defines the interface for pluggable seed selection.
// Energy is recomputed from the current corpus on every Choose call.
type PowerSchedule interface {
	// Name returns the name of this schedule
	Name() string
	// AssignEnergy sets Energy on every seed
	AssignEnergy(seeds []*Seed)
	// Choose assigns energy, normalizes it and draws one seed
	Choose(seeds []*Seed) (*Seed, error)
}

// NormalizeEnergy divides each seed's energy by the total energy.
// Returns ErrZeroEnergy when the total is exactly zero.
func NormalizeEnergy(seeds []*Seed) ([]float64, error) {
	sum := 0.0
	for _, s := range seeds {
		if s.Energy < 0 {
			return nil, fmt.Errorf("seed %s has negative energy %g", s.ID, s.Energy)
		}
		sum += s.Energy
	}
	if sum == 0 {
		return nil, ErrZeroEnergy
	}
	norm := make([]float64, len(seeds))
	for i, s := range seeds {
		norm[i] = s.Energy / sum
	}
	return norm, nil
}

// MinMaxNormalize scales values to [0, 1].
// When all values are equal every result is 0.
func MinMaxNormalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// scheduleBase holds the sampling state shared by all schedules
type scheduleBase struct {
	mu  sync.Mutex
	rng *rand.Rand

	// Reserved for path-sensitive scheduling; nothing reads it yet.
	pathFrequency map[string]int
}

func newScheduleBase(rng *rand.Rand) scheduleBase {
	if rng == nil {
		rng = strategies.NewRand(0)
	}
	return scheduleBase{rng: rng, pathFrequency: make(map[string]int)}
}

// choose runs assign, normalizes and samples one seed
func (b *scheduleBase) choose(seeds []*Seed, assign func([]*Seed)) (*Seed, error) {
	if len(seeds) == 0 {
		return nil, ErrEmptyCorpus
	}
	assign(seeds)
	probs, err := NormalizeEnergy(seeds)
	if err != nil {
		return nil, err
	}
	return seeds[b.sample(probs)], nil
}

// sample draws an index with probability probs[i] using cumulative sums.
// An entry with zero probability never satisfies acc[i] > val before its predecessor does.
func (b *scheduleBase) sample(probs []float64) int {
	acc := make([]float64, len(probs))
	sum := 0.0
	for i, p := range probs {
		sum += p
		acc[i] = sum
	}
	b.mu.Lock()
	val := b.rng.Float64() * sum
	b.mu.Unlock()
	idx := sort.Search(len(acc), func(i int) bool {
		return acc[i] > val
	})
	if idx == len(acc) {
		idx = lastPositive(probs)
	}
	return idx
}

// lastPositive returns the highest index with a non-zero probability
func lastPositive(probs []float64) int {
	for i := len(probs) - 1; i > 0; i-- {
		if probs[i] > 0 {
			return i
		}
	}
	return 0
}

// UniformSchedule gives every seed the same energy
type UniformSchedule struct {
	scheduleBase
}

// NewUniformSchedule creates a new UniformSchedule instance.
func NewUniformSchedule(rng *rand.Rand) *UniformSchedule {
	return &UniformSchedule{scheduleBase: newScheduleBase(rng)}
}

// Name returns the name of this schedule
func (s *UniformSchedule) Name() string {
	return interfaces.ScheduleUniform
}

// AssignEnergy sets energy 1 on every seed
func (s *UniformSchedule) AssignEnergy(seeds []*Seed) {
	for _, seed := range seeds {
		seed.Energy = 1
	}
}

// Choose draws a seed uniformly
func (s *UniformSchedule) Choose(seeds []*Seed) (*Seed, error) {
	return s.choose(seeds, s.AssignEnergy)
}

// WeightedSchedule combines min-max normalized length, execution time and coverage.
// Normalized factors live only in local slices; raw seed fields are never rewritten.
type WeightedSchedule struct {
	scheduleBase
	weights         interfaces.EnergyWeights
	preferShortFast bool
}

// NewWeightedSchedule creates a weighted schedule.
// preferShortFast inverts the length and time factors so short, fast seeds gain energy.
func NewWeightedSchedule(weights interfaces.EnergyWeights, preferShortFast bool, rng *rand.Rand) (*WeightedSchedule, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeights, err)
	}
	return &WeightedSchedule{
		scheduleBase:    newScheduleBase(rng),
		weights:         weights,
		preferShortFast: preferShortFast,
	}, nil
}

// Name returns the name of this schedule
func (s *WeightedSchedule) Name() string {
	return interfaces.ScheduleWeighted
}

// Weights returns the factor weights
func (s *WeightedSchedule) Weights() interfaces.EnergyWeights {
	return s.weights
}

// AssignEnergy sets energy = w_len*len' + w_time*time' + w_cov*cov'
func (s *WeightedSchedule) AssignEnergy(seeds []*Seed) {
	lengths := make([]float64, len(seeds))
	times := make([]float64, len(seeds))
	coverages := make([]float64, len(seeds))
	for i, seed := range seeds {
		lengths[i] = float64(seed.Length)
		times[i] = seed.ExecutionTime.Seconds()
		coverages[i] = float64(seed.Coverage)
	}

	normLengths := MinMaxNormalize(lengths)
	normTimes := MinMaxNormalize(times)
	normCoverages := MinMaxNormalize(coverages)

	for i, seed := range seeds {
		length, elapsed := normLengths[i], normTimes[i]
		if s.preferShortFast {
			length, elapsed = 1-length, 1-elapsed
		}
		seed.Energy = s.weights.Length*length +
			s.weights.ExecutionTime*elapsed +
			s.weights.Coverage*normCoverages[i]
	}
}

// Choose draws a seed weighted by its multi-factor energy
func (s *WeightedSchedule) Choose(seeds []*Seed) (*Seed, error) {
	return s.choose(seeds, s.AssignEnergy)
}

// NewPowerSchedule builds the schedule named in config, or nil for "none"
func NewPowerSchedule(config *interfaces.FuzzerConfig, rng *rand.Rand) (PowerSchedule, error) {
	switch config.Schedule {
	case "", interfaces.ScheduleNone:
		return nil, nil
	case interfaces.ScheduleUniform:
		return NewUniformSchedule(rng), nil
	case interfaces.ScheduleWeighted:
		s, err := NewWeightedSchedule(config.Weights, config.PreferShortFast, rng)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported schedule: %s", config.Schedule)
	}
}
