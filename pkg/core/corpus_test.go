/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: corpus_test.go
Description: Tests for the seed corpus and the seed loaders.
*/

package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/polyfuzz/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCorpusRequiresSeeds(t *testing.T) {
	_, err := core.NewCorpus(nil)
	assert.ErrorIs(t, err, core.ErrEmptyCorpus)

	_, err = core.NewCorpusFromStrings()
	assert.ErrorIs(t, err, core.ErrEmptyCorpus)
}

func TestNewSeed(t *testing.T) {
	s := core.NewSeed("héllo")
	assert.Equal(t, 5, s.Length)
	assert.Equal(t, 0, s.Generation)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "héllo", s.String())
}

func TestCorpusAppendKeepsOrder(t *testing.T) {
	corpus, err := core.NewCorpusFromStrings("a", "b")
	require.NoError(t, err)

	snapshot := corpus.Seeds()
	promoted := core.NewSeed("c")
	promoted.Generation = 1
	promoted.Coverage = 9
	corpus.Append(promoted)

	assert.Len(t, snapshot, 2)
	assert.Equal(t, 3, corpus.Size())
	assert.Same(t, promoted, corpus.At(2))

	stats := corpus.GetStats()
	assert.Equal(t, 3, stats["size"])
	assert.Equal(t, 1, stats["promoted"])
	assert.Equal(t, 9, stats["max_coverage"])
}

func TestLoadSeedDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("second"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("first"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	seeds, err := core.LoadSeedDir(dir)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, "first", seeds[0].Data)
	assert.Equal(t, "second", seeds[1].Data)
}

func TestLoadSeedManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	manifest := "seeds:\n  - \"http://example.com/?q=a+b\"\n  - \"<html><body><p>x</p></body></html>\"\n"
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0644))

	seeds, err := core.LoadSeedManifest(path)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, "http://example.com/?q=a+b", seeds[0].Data)
	assert.Equal(t, "<html><body><p>x</p></body></html>", seeds[1].Data)

	_, err = core.LoadSeedManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("seeds: [unterminated"), 0644))
	_, err = core.LoadSeedManifest(bad)
	assert.Error(t, err)
}
