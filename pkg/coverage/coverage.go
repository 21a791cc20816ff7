/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: coverage.go
Description: Provides interfaces and implementations for collecting code coverage from fuzz
targets. A collector turns one execution into the list of coverage units it reached. Includes a
Go coverprofile collector and a marker collector that reads coverage lines from target output.
*/

package coverage

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/cover"
)

// MarkerPrefix starts a coverage line in target output, e.g. "COV: parser.go:42"
const MarkerPrefix = "COV:"

// ProfileEnv is the environment variable telling a target where to write its coverprofile
const ProfileEnv = "POLYFUZZ_COVERPROFILE"

// Collector is the interface for all coverage collectors
type Collector interface {
	// Name returns the collector type
	Name() string
	// Prepare resets any state left by the previous execution
	Prepare() error
	// Collect returns the coverage units reached by the execution that produced output
	Collect(output []byte) ([]string, error)
	// Env returns extra environment entries the target needs
	Env() []string
	// Cleanup removes temp files or state
	Cleanup() error
}

// ProfileCollector reads a Go coverprofile written by the target after every execution
type ProfileCollector struct {
	Path    string
	tempDir string
}

// NewProfileCollector creates a profile collector.
// An empty path places the profile in a fresh temp directory.
func NewProfileCollector(path string) (*ProfileCollector, error) {
	c := &ProfileCollector{Path: path}
	if path == "" {
		dir, err := os.MkdirTemp("", "polyfuzz-cover-")
		if err != nil {
			return nil, fmt.Errorf("failed to create coverage profile dir: %w", err)
		}
		c.tempDir = dir
		c.Path = filepath.Join(dir, "fuzz.coverprofile")
	}
	return c, nil
}

// Name returns the collector type
func (c *ProfileCollector) Name() string {
	return "profile"
}

// Prepare removes the profile of the previous execution
func (c *ProfileCollector) Prepare() error {
	if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale coverage profile: %w", err)
	}
	return nil
}

// Collect parses the coverage profile after a fuzz run.
// A missing profile yields an error wrapping os.ErrNotExist.
func (c *ProfileCollector) Collect([]byte) ([]string, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("coverage profile not found: %w", err)
	}
	defer f.Close()
	return ParseProfile(f)
}

// Env points the target at the profile path
func (c *ProfileCollector) Env() []string {
	return []string{ProfileEnv + "=" + c.Path}
}

// Cleanup removes the temp profile directory, if one was created
func (c *ProfileCollector) Cleanup() error {
	if c.tempDir == "" {
		return nil
	}
	return os.RemoveAll(c.tempDir)
}

// ParseProfile returns the sorted blocks of a Go coverprofile with a non-zero count.
// Blocks repeated across the profile are merged.
func ParseProfile(r io.Reader) ([]string, error) {
	profiles, err := cover.ParseProfilesFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse coverage profile: %w", err)
	}

	var units []string
	for _, p := range profiles {
		for _, b := range p.Blocks {
			if b.Count == 0 {
				continue
			}
			units = append(units, fmt.Sprintf("%s:%d.%d,%d.%d", p.FileName, b.StartLine, b.StartCol, b.EndLine, b.EndCol))
		}
	}
	sort.Strings(units)
	return units, nil
}

// MarkerCollector extracts coverage units from marker lines in the target's output
type MarkerCollector struct{}

// NewMarkerCollector creates a marker collector
func NewMarkerCollector() *MarkerCollector {
	return &MarkerCollector{}
}

// Name returns the collector type
func (c *MarkerCollector) Name() string {
	return "markers"
}

// Prepare does nothing; markers live in the output
func (c *MarkerCollector) Prepare() error { return nil }

// Collect returns the distinct marker units in order of first appearance
func (c *MarkerCollector) Collect(output []byte) ([]string, error) {
	return ParseMarkers(output)
}

// Env returns no extra environment
func (c *MarkerCollector) Env() []string { return nil }

// Cleanup does nothing
func (c *MarkerCollector) Cleanup() error { return nil }

// ParseMarkers returns the distinct units named by MarkerPrefix lines.
// Lines may be as long as the whole output.
func ParseMarkers(output []byte) ([]string, error) {
	seen := make(map[string]bool)
	var units []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), max(len(output)+1, bufio.MaxScanTokenSize))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, MarkerPrefix) {
			continue
		}
		unit := strings.TrimSpace(strings.TrimPrefix(line, MarkerPrefix))
		if unit == "" || seen[unit] {
			continue
		}
		seen[unit] = true
		units = append(units, unit)
	}
	if err := scanner.Err(); err != nil {
		return units, fmt.Errorf("failed to read target output: %w", err)
	}
	return units, nil
}

// NewCollector builds the collector for a coverage type
func NewCollector(coverageType, profilePath string) (Collector, error) {
	switch coverageType {
	case "profile":
		c, err := NewProfileCollector(profilePath)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "markers", "":
		return NewMarkerCollector(), nil
	default:
		return nil, fmt.Errorf("unsupported coverage type: %s", coverageType)
	}
}
