package report

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMarkdown(t *testing.T) {
	dir := t.TempDir()
	results := sampleResults()
	analysis := Summarize("session-md", results)

	path, err := WriteMarkdown(dir, analysis, results)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(data)

	assert.Contains(t, md, "# Batch Test Report")
	assert.Contains(t, md, "session-md")
	assert.Contains(t, md, "### Task 1")
	assert.Contains(t, md, "### Task 2")
	assert.Contains(t, md, "Fastest task")
	assert.Contains(t, md, "Stability ranking")
	assert.Contains(t, md, "Target detections")
	assert.Contains(t, md, "Mean detections")
	// Obstacle stats only for the task that recorded obstacle detections
	assert.Contains(t, md, "Obstacle detections**: 4.0")
	// The timed-out round shows up in the rounds table
	assert.Contains(t, md, "timeout")
}

func TestWriteMarkdownNoFindingsWithoutTasks(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteMarkdown(dir, Analysis{SessionID: "empty"}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "## Findings"))
}

func TestStability(t *testing.T) {
	ts := TaskStats{ExecutionTime: Distribution{Mean: 10, Stdev: 1}}
	assert.InDelta(t, 0.9, stability(ts), 1e-9)

	assert.Equal(t, 0.0, stability(TaskStats{}))
}
