/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: generator.go
Description: Input generators driven by the fuzzing loop. MutationGenerator replays the corpus
in order, then stacks mutations on seeds picked by the power schedule and promotes candidates
that raise coverage. RandomGenerator emits unstructured random strings without feedback.
*/

package core

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/kleascm/polyfuzz/pkg/strategies"
	"github.com/sirupsen/logrus"
)

// MutationGenerator owns the seed corpus and implements the seeding and mutation phases
type MutationGenerator struct {
	name     string
	corpus   *Corpus
	mutator  Mutator
	schedule PowerSchedule // nil means uniform random selection
	logger   *logrus.Logger

	mu        sync.Mutex
	rng       *rand.Rand
	seedIndex int

	recordSeedFitness bool
	replayed          *Seed // seed emitted by the last seeding step, awaiting its observation
}

// MutationOption configures a MutationGenerator
type MutationOption func(*MutationGenerator)

// WithSchedule sets the power schedule used to pick base seeds
func WithSchedule(schedule PowerSchedule) MutationOption {
	return func(g *MutationGenerator) {
		g.schedule = schedule
	}
}

// WithGeneratorRand sets the random source used when no schedule is configured
func WithGeneratorRand(rng *rand.Rand) MutationOption {
	return func(g *MutationGenerator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithGeneratorLogger sets the logger used for debug output
func WithGeneratorLogger(logger *logrus.Logger) MutationOption {
	return func(g *MutationGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithSeedFitnessRecording stores the observed coverage and execution time on
// supplied seeds as they are replayed. Off by default: supplied seeds keep zero
// fitness and only promoted seeds carry observations.
func WithSeedFitnessRecording(enabled bool) MutationOption {
	return func(g *MutationGenerator) {
		g.recordSeedFitness = enabled
	}
}

// WithGeneratorName overrides the name reported in run results
func WithGeneratorName(name string) MutationOption {
	return func(g *MutationGenerator) {
		g.name = name
	}
}

// NewMutationGenerator creates a generator over corpus using mutator for candidates
func NewMutationGenerator(corpus *Corpus, mutator Mutator, opts ...MutationOption) *MutationGenerator {
	g := &MutationGenerator{
		name:    "mutation",
		corpus:  corpus,
		mutator: mutator,
		logger:  logrus.StandardLogger(),
		rng:     strategies.NewRand(0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the generator name
func (g *MutationGenerator) Name() string {
	return g.name
}

// Corpus returns the corpus this generator grows
func (g *MutationGenerator) Corpus() *Corpus {
	return g.corpus
}

// Seeding reports whether supplied seeds are still being replayed
func (g *MutationGenerator) Seeding() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seedIndex < g.corpus.Size()
}

// GenerateInput emits the next seed while seeding, then a stacked candidate
func (g *MutationGenerator) GenerateInput() (string, error) {
	g.mu.Lock()
	if g.seedIndex < g.corpus.Size() {
		seed := g.corpus.At(g.seedIndex)
		g.seedIndex++
		if g.recordSeedFitness {
			g.replayed = seed
		}
		g.mu.Unlock()
		return seed.Data, nil
	}
	g.replayed = nil
	g.mu.Unlock()

	return g.createCandidate()
}

// createCandidate picks a base seed and stacks mutations on it
func (g *MutationGenerator) createCandidate() (string, error) {
	base, err := g.chooseBase()
	if err != nil {
		return "", err
	}
	candidate, applied := g.mutator.Stack(base.Data)
	g.logger.WithFields(logrus.Fields{
		"base":      base.ID,
		"operators": applied,
	}).Debug("Created candidate")
	return candidate, nil
}

// chooseBase asks the schedule for a seed, or draws uniformly without one
func (g *MutationGenerator) chooseBase() (*Seed, error) {
	seeds := g.corpus.Seeds()
	if g.schedule != nil {
		seed, err := g.schedule.Choose(seeds)
		if err != nil {
			return nil, fmt.Errorf("%s schedule failed to choose a seed: %w", g.schedule.Name(), err)
		}
		return seed, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return seeds[g.rng.Intn(len(seeds))], nil
}

// Update promotes input to a seed when coverage rose over the previous iteration.
// The first iteration of a run never promotes. With seed fitness recording on,
// a replayed seed also gets its observed coverage and execution time.
func (g *MutationGenerator) Update(input string, stats *RunResult) *Seed {
	n := len(stats.Coverage)
	if n == 0 {
		return nil
	}

	g.mu.Lock()
	if g.replayed != nil && g.replayed.Data == input {
		g.replayed.Coverage = stats.Coverage[n-1]
		g.replayed.ExecutionTime = stats.ExecutionTimes[n-1]
	}
	g.replayed = nil
	g.mu.Unlock()

	if n < 2 || stats.Coverage[n-1] <= stats.Coverage[n-2] {
		return nil
	}
	seed := NewSeed(input)
	seed.Coverage = stats.Coverage[n-1]
	seed.ExecutionTime = stats.ExecutionTimes[n-1]
	seed.Generation = 1
	g.corpus.Append(seed)
	return seed
}

// RandomGenerator produces random strings with a length drawn from [min, max]
type RandomGenerator struct {
	minLength int
	maxLength int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomGenerator creates a random generator
func NewRandomGenerator(minLength, maxLength int, rng *rand.Rand) (*RandomGenerator, error) {
	if minLength < 0 || minLength > maxLength {
		return nil, fmt.Errorf("invalid length range [%d, %d]", minLength, maxLength)
	}
	if rng == nil {
		rng = strategies.NewRand(0)
	}
	return &RandomGenerator{minLength: minLength, maxLength: maxLength, rng: rng}, nil
}

// Name returns the generator name
func (g *RandomGenerator) Name() string {
	return "random"
}

// GenerateInput returns a fresh random string
func (g *RandomGenerator) GenerateInput() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.minLength + g.rng.Intn(g.maxLength-g.minLength+1)
	return strategies.RandomString(g.rng, n), nil
}

// Update does nothing; random generation ignores feedback
func (g *RandomGenerator) Update(string, *RunResult) *Seed {
	return nil
}
