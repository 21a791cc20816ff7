/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Core types for the polyfuzz engine. Defines the seed, the per-run statistics
returned by the driver, the collaborator interfaces the driver depends on and the sentinel
errors shared across the core.
*/

package core

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	// ErrEmptyCorpus is returned when a corpus would start without seeds
	ErrEmptyCorpus = errors.New("corpus needs at least one seed")
	// ErrZeroEnergy is returned when every seed has zero energy and selection is undefined
	ErrZeroEnergy = errors.New("total seed energy is zero")
	// ErrInvalidBudget is returned for a non-positive iteration budget
	ErrInvalidBudget = errors.New("budget must be positive")
	// ErrInvalidWeights is returned for weights that are negative or do not sum to one
	ErrInvalidWeights = errors.New("invalid energy weights")
)

// Seed is one member of the corpus: raw input plus fitness metadata.
// Data never changes after creation; only the fitness fields are written.
type Seed struct {
	ID            string        `json:"id"`             // Unique identifier
	Data          string        `json:"data"`           // The raw input content
	Length        int           `json:"length"`         // Character count captured at creation
	Coverage      int           `json:"coverage"`       // Coverage count when the seed was evaluated
	Energy        float64       `json:"energy"`         // Scheduling weight, recomputed before every selection
	ExecutionTime time.Duration `json:"execution_time"` // Observed cost, 0 until measured
	Generation    int           `json:"generation"`     // 0 = supplied seed, 1 = promoted candidate
	CreatedAt     time.Time     `json:"created_at"`
}

// NewSeed creates a seed from raw data
func NewSeed(data string) *Seed {
	return &Seed{
		ID:        uuid.New().String(),
		Data:      data,
		Length:    utf8.RuneCountInString(data),
		CreatedAt: time.Now(),
	}
}

// String returns the seed data
func (s *Seed) String() string {
	return s.Data
}

// RunResult holds the statistics of one bounded run.
// Coverage, Inputs and ExecutionTimes always have the same length.
type RunResult struct {
	RunID          string          `json:"run_id"`
	Generator      string          `json:"generator"`
	Coverage       []int           `json:"coverage"`        // Coverage count per iteration
	Inputs         []string        `json:"inputs"`          // Input per iteration
	ExecutionTimes []time.Duration `json:"execution_times"` // Execution time per iteration
	Exceptions     int             `json:"exceptions"`      // Cumulative exception tally
	Promotions     int             `json:"promotions"`      // Candidates promoted to seeds
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
	Err            string          `json:"error,omitempty"` // Why the run stopped early, if it did
}

// newRunResult allocates the statistics of one run
func newRunResult(generator string, budget int) *RunResult {
	return &RunResult{
		RunID:          uuid.New().String(),
		Generator:      generator,
		Coverage:       make([]int, 0, budget),
		Inputs:         make([]string, 0, budget),
		ExecutionTimes: make([]time.Duration, 0, budget),
		StartedAt:      time.Now(),
	}
}

// Iterations returns the number of completed iterations
func (r *RunResult) Iterations() int {
	return len(r.Inputs)
}

// MaxCoverage returns the highest coverage count seen in the run
func (r *RunResult) MaxCoverage() int {
	best := 0
	for _, c := range r.Coverage {
		if c > best {
			best = c
		}
	}
	return best
}

// Mutator builds a candidate from a base string
type Mutator interface {
	// Stack returns the candidate and the names of the operators applied
	Stack(base string) (string, []string)
}

// InputGenerator produces one input per iteration and consumes the feedback of each run
type InputGenerator interface {
	// Name identifies the generator in logs and reports
	Name() string

	// GenerateInput returns the next input to execute
	GenerateInput() (string, error)

	// Update is the feedback hook called after the iteration is recorded in stats
	Update(input string, stats *RunResult) *Seed
}
