/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics_writer_test.go
Description: Tests for run report and corpus output.
*/

package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	RunID    string `json:"run_id"`
	Coverage []int  `json:"coverage"`
}

func TestWriteRunReport(t *testing.T) {
	dir := t.TempDir()
	in := report{RunID: "r1", Coverage: []int{1, 3, 3}}

	path, err := WriteRunReport(dir, "url", "r1", in)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "url"), filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_url_r1.json"))

	var out report
	require.NoError(t, ReadRunReport(path, &out))
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRunReportErrors(t *testing.T) {
	dir := t.TempDir()
	var out report
	assert.Error(t, ReadRunReport(filepath.Join(dir, "missing.json"), &out))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	assert.Error(t, ReadRunReport(bad, &out))
}

func TestWriteCorpus(t *testing.T) {
	dir := t.TempDir()
	corpusDir, err := WriteCorpus(dir, []string{"first", "<p>x</p>"})
	require.NoError(t, err)

	entries, err := os.ReadDir(corpusDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "seed_000000", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(corpusDir, "seed_000001"))
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", string(data))
}
