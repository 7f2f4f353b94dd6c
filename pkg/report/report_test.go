package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	t.Run("empty series", func(t *testing.T) {
		assert.Equal(t, Distribution{}, Describe(nil))
	})

	t.Run("single value", func(t *testing.T) {
		d := Describe([]float64{4.2})
		assert.Equal(t, 4.2, d.Mean)
		assert.Equal(t, 0.0, d.Stdev)
		assert.Equal(t, 4.2, d.Median)
	})

	t.Run("even count", func(t *testing.T) {
		d := Describe([]float64{4, 1, 3, 2})
		assert.Equal(t, 2.5, d.Mean)
		assert.Equal(t, 1.0, d.Min)
		assert.Equal(t, 4.0, d.Max)
		assert.Equal(t, 2.5, d.Median)
		// Sample standard deviation of 1..4
		assert.InDelta(t, 1.2909944, d.Stdev, 1e-6)
	})

	t.Run("odd count", func(t *testing.T) {
		d := Describe([]float64{10, 30, 20})
		assert.Equal(t, 20.0, d.Median)
	})

	t.Run("input order untouched", func(t *testing.T) {
		values := []float64{3, 1, 2}
		Describe(values)
		assert.Equal(t, []float64{3, 1, 2}, values)
	})
}

func sampleResults() []RoundResult {
	now := time.Now()
	return []RoundResult{
		{TaskID: 2, Round: 1, Timestamp: now, ExecutionTime: 10, TargetDetections: 6, ObstacleDetections: 3, Success: true},
		{TaskID: 2, Round: 2, Timestamp: now, ExecutionTime: 14, TargetDetections: 8, ObstacleDetections: 5, Success: true},
		{TaskID: 1, Round: 1, Timestamp: now, ExecutionTime: 20, TargetDetections: 4, Success: true},
		{TaskID: 1, Round: 2, Timestamp: now, ExecutionTime: 30, TargetDetections: 2, Success: false, TimedOut: true},
	}
}

func TestCountDetections(t *testing.T) {
	stderr := "Red target: (12, 40)\nYellow obstacle: (3, 7)\nRed target: (13, 41)\nstatus ok\n"
	targets, obstacles := CountDetections(stderr)
	assert.Equal(t, 2, targets)
	assert.Equal(t, 1, obstacles)

	targets, obstacles = CountDetections("")
	assert.Zero(t, targets)
	assert.Zero(t, obstacles)
}

func TestSummarize(t *testing.T) {
	analysis := Summarize("session-1", sampleResults())

	assert.Equal(t, "session-1", analysis.SessionID)
	assert.Equal(t, 4, analysis.TotalRounds)
	require.Len(t, analysis.Tasks, 2)

	// Tasks ordered by first appearance
	assert.Equal(t, 2, analysis.Tasks[0].TaskID)
	assert.Equal(t, 1, analysis.Tasks[1].TaskID)

	task2 := analysis.Tasks[0]
	assert.Equal(t, 2, task2.Runs)
	assert.Equal(t, 1.0, task2.SuccessRate)
	assert.Equal(t, 12.0, task2.ExecutionTime.Mean)

	task1 := analysis.Tasks[1]
	assert.Equal(t, 0.5, task1.SuccessRate)
	assert.Equal(t, 25.0, task1.ExecutionTime.Mean)

	// Detection statistics: obstacle stats only for tasks that saw any
	assert.Equal(t, 7.0, task2.TargetDetection.Mean)
	require.NotNil(t, task2.ObstacleDetection)
	assert.Equal(t, 4.0, task2.ObstacleDetection.Mean)

	assert.Equal(t, 3.0, task1.TargetDetection.Mean)
	assert.Nil(t, task1.ObstacleDetection)
}

func TestAnalysisJSONRoundTrip(t *testing.T) {
	analysis := Summarize("session-2", sampleResults())

	data, err := json.Marshal(analysis)
	require.NoError(t, err)

	// Tasks are keyed by id inside an ordered object
	assert.Contains(t, string(data), `"tasks_analysis"`)
	assert.Contains(t, string(data), `"2":`)

	var decoded Analysis
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, analysis.SessionID, decoded.SessionID)
	assert.Equal(t, analysis.TotalRounds, decoded.TotalRounds)
	require.Len(t, decoded.Tasks, 2)
	// Decoding sorts by task id
	assert.Equal(t, 1, decoded.Tasks[0].TaskID)
	assert.Equal(t, 2, decoded.Tasks[1].TaskID)
}

func TestRawDataRoundTrip(t *testing.T) {
	dir := t.TempDir()
	results := sampleResults()

	require.NoError(t, WriteRawData(dir, results))
	loaded, err := LoadRawData(dir)
	require.NoError(t, err)
	require.Len(t, loaded, len(results))
	assert.Equal(t, results[0].TaskID, loaded[0].TaskID)
	assert.Equal(t, results[0].TargetDetections, loaded[0].TargetDetections)
	assert.Equal(t, results[1].ObstacleDetections, loaded[1].ObstacleDetections)
	assert.Equal(t, results[3].TimedOut, loaded[3].TimedOut)
}

func TestAnalysisFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	analysis := Summarize("session-3", sampleResults())

	require.NoError(t, WriteAnalysis(dir, analysis))
	loaded, err := LoadAnalysis(dir)
	require.NoError(t, err)
	assert.Equal(t, "session-3", loaded.SessionID)
	require.Len(t, loaded.Tasks, 2)
	assert.Nil(t, loaded.Tasks[0].ObstacleDetection)
	require.NotNil(t, loaded.Tasks[1].ObstacleDetection)
	assert.Equal(t, 4.0, loaded.Tasks[1].ObstacleDetection.Mean)
}

func TestLoadRawDataMissing(t *testing.T) {
	_, err := LoadRawData(t.TempDir())
	assert.Error(t, err)
}
