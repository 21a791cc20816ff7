/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: corpus.go
Description: Seed corpus for the polyfuzz engine. An ordered, append-only collection of
seeds that is never empty once built. Also loads initial seeds from a directory of files
or from a YAML manifest. Safe for concurrent readers while a run appends.
*/

package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Corpus manages the ordered collection of seeds
// Seeds are only appended, never evicted
type Corpus struct {
	seeds []*Seed
	mu    sync.RWMutex
}

// NewCorpus creates a corpus from initial seeds
// Returns ErrEmptyCorpus if no seed is supplied
func NewCorpus(seeds []*Seed) (*Corpus, error) {
	if len(seeds) == 0 {
		return nil, ErrEmptyCorpus
	}
	c := &Corpus{seeds: make([]*Seed, len(seeds))}
	copy(c.seeds, seeds)
	return c, nil
}

// NewCorpusFromStrings creates a corpus with one seed per string
func NewCorpusFromStrings(data ...string) (*Corpus, error) {
	seeds := make([]*Seed, 0, len(data))
	for _, d := range data {
		seeds = append(seeds, NewSeed(d))
	}
	return NewCorpus(seeds)
}

// Append adds a seed at the end of the corpus
func (c *Corpus) Append(seed *Seed) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seeds = append(c.seeds, seed)
}

// At returns the seed at index i
func (c *Corpus) At(i int) *Seed {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seeds[i]
}

// Size returns the current number of seeds in the corpus
func (c *Corpus) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.seeds)
}

// Seeds returns a snapshot of the corpus in insertion order
func (c *Corpus) Seeds() []*Seed {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Seed, len(c.seeds))
	copy(out, c.seeds)
	return out
}

// GetStats returns corpus statistics
func (c *Corpus) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := make(map[string]interface{})
	stats["size"] = len(c.seeds)

	promoted := 0
	maxCoverage := 0
	for _, s := range c.seeds {
		if s.Generation > 0 {
			promoted++
		}
		if s.Coverage > maxCoverage {
			maxCoverage = s.Coverage
		}
	}
	stats["promoted"] = promoted
	stats["max_coverage"] = maxCoverage
	return stats
}

// LoadSeedDir reads every regular file of dir as one seed, in file name order
func LoadSeedDir(dir string) ([]*Seed, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob corpus files: %w", err)
	}
	sort.Strings(files)

	seeds := make([]*Seed, 0, len(files))
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", file, err)
		}
		seeds = append(seeds, NewSeed(string(data)))
	}
	return seeds, nil
}

// seedManifest is the YAML layout of a seed file:
//
//	seeds:
//	  - "http://example.com/?q=a+b"
//	  - "<html><body><p>x</p></body></html>"
type seedManifest struct {
	Seeds []string `yaml:"seeds"`
}

// LoadSeedManifest reads seeds listed in a YAML manifest
func LoadSeedManifest(path string) ([]*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed manifest: %w", err)
	}
	var manifest seedManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse seed manifest %s: %w", path, err)
	}
	seeds := make([]*Seed, 0, len(manifest.Seeds))
	for _, s := range manifest.Seeds {
		seeds = append(seeds, NewSeed(s))
	}
	return seeds, nil
}
