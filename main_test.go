package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInvalidRootReturnsError(t *testing.T) {
	// Fatal conditions surface as errors so deferred cleanup in run (the Git
	// clone temp dir in particular) is never skipped by an in-place exit.
	err := run(rootCmd, []string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid directory")
}

func TestRunUnwritableOutputReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "app.py", lineContent(2))

	restore := outputFile
	outputFile = filepath.Join(dir, "no-such-dir", "out.md")
	defer func() { outputFile = restore }()

	err := run(rootCmd, []string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing to")
}

func TestRunWritesReport(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "app.py", lineContent(2))

	restore := outputFile
	outputFile = filepath.Join(t.TempDir(), "out.md")
	defer func() { outputFile = restore }()

	require.NoError(t, run(rootCmd, []string{dir}))

	report, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(report), "# Line Count Report")
	assert.Contains(t, string(report), "`app.py`")
}
