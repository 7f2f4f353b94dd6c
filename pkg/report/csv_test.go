package report

import (
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	results := sampleResults()
	analysis := Summarize("session-csv", results)

	paths, err := WriteCSV(dir, analysis, results)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	summary := readCSV(t, paths[0])
	require.Len(t, summary, 3) // header + 2 tasks
	assert.Equal(t, "Task", summary[0][0])
	assert.Equal(t, "Task 2", summary[1][0])
	assert.Equal(t, "100.0%", summary[1][2])

	details := readCSV(t, paths[1])
	require.Len(t, details, 5) // header + 4 rounds
	// Rounds sorted by task then round number
	assert.Equal(t, "Task 1", details[1][0])
	assert.Equal(t, "1", details[1][1])
	assert.Equal(t, "4", details[1][4])
	assert.Equal(t, "timeout", details[2][6])
	assert.Equal(t, "success", details[3][6])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}
