// Package report aggregates batch test rounds into per-task statistics and
// renders them as JSON artifacts and markdown reports.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"
)

const (
	// RawDataFile holds every recorded round of a batch session.
	RawDataFile = "batch_raw_data.json"
	// AnalysisFile holds the aggregated per-task statistics.
	AnalysisFile = "batch_analysis.json"
	// MarkdownFile is the generated human-readable report.
	MarkdownFile = "batch_report.md"
)

// Detection markers printed by the vision script to its standard error
// stream, one line per recognized object.
const (
	targetMarker   = "Red target:"
	obstacleMarker = "Yellow obstacle:"
)

// CountDetections counts the detection markers in a round's captured
// standard error output.
func CountDetections(output string) (targets, obstacles int) {
	return strings.Count(output, targetMarker), strings.Count(output, obstacleMarker)
}

// A RoundResult records a single batch round.
type RoundResult struct {
	TaskID             int       `json:"task_id"`
	Round              int       `json:"round"`
	Timestamp          time.Time `json:"timestamp"`
	ExecutionTime      float64   `json:"execution_time"`
	TargetDetections   int       `json:"target_detected_count"`
	ObstacleDetections int       `json:"obstacle_detected_count"`
	Success            bool      `json:"success"`
	TimedOut           bool      `json:"timed_out"`
	ExitCode           int       `json:"exit_code"`
}

// A Distribution summarizes a series of measurements.
type Distribution struct {
	Mean   float64   `json:"mean"`
	Stdev  float64   `json:"stdev"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Median float64   `json:"median"`
	Values []float64 `json:"all_values"`
}

// TaskStats aggregates all rounds of one task. ObstacleDetection is only
// present for tasks whose scenario contains obstacles, recognizable by at
// least one recorded obstacle detection.
type TaskStats struct {
	TaskID            int           `json:"task_id"`
	Runs              int           `json:"runs"`
	SuccessRate       float64       `json:"success_rate"`
	ExecutionTime     Distribution  `json:"execution_time"`
	TargetDetection   Distribution  `json:"target_detection"`
	ObstacleDetection *Distribution `json:"obstacle_detection,omitempty"`
}

// An Analysis is the aggregated outcome of a batch session. Tasks are keyed
// by id in run order, which the JSON encoding preserves.
type Analysis struct {
	SessionID   string
	Date        time.Time
	TotalRounds int
	Tasks       []TaskStats
}

// MarshalJSON encodes the analysis with tasks as an ordered object keyed by
// task id, matching the artifact layout consumed by downstream tooling.
func (a Analysis) MarshalJSON() ([]byte, error) {
	doc := orderedmap.New()
	doc.Set("session_id", a.SessionID)
	doc.Set("test_date", a.Date.Format(time.RFC3339))
	doc.Set("total_tests", a.TotalRounds)

	tasks := orderedmap.New()
	for _, ts := range a.Tasks {
		tasks.Set(strconv.Itoa(ts.TaskID), ts)
	}
	doc.Set("tasks_analysis", tasks)
	return json.Marshal(doc)
}

// UnmarshalJSON decodes the ordered analysis document.
func (a *Analysis) UnmarshalJSON(data []byte) error {
	var doc struct {
		SessionID   string                     `json:"session_id"`
		Date        time.Time                  `json:"test_date"`
		TotalRounds int                        `json:"total_tests"`
		Tasks       map[string]json.RawMessage `json:"tasks_analysis"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	a.SessionID = doc.SessionID
	a.Date = doc.Date
	a.TotalRounds = doc.TotalRounds
	a.Tasks = a.Tasks[:0]
	for _, raw := range doc.Tasks {
		var ts TaskStats
		if err := json.Unmarshal(raw, &ts); err != nil {
			return err
		}
		a.Tasks = append(a.Tasks, ts)
	}
	sort.Slice(a.Tasks, func(i, j int) bool { return a.Tasks[i].TaskID < a.Tasks[j].TaskID })
	return nil
}

// Summarize aggregates raw rounds into per-task statistics, tasks ordered
// by first appearance.
func Summarize(sessionID string, results []RoundResult) Analysis {
	byTask := make(map[int][]RoundResult)
	var order []int
	for _, r := range results {
		if _, ok := byTask[r.TaskID]; !ok {
			order = append(order, r.TaskID)
		}
		byTask[r.TaskID] = append(byTask[r.TaskID], r)
	}

	analysis := Analysis{
		SessionID:   sessionID,
		Date:        time.Now(),
		TotalRounds: len(results),
	}
	for _, taskID := range order {
		rounds := byTask[taskID]

		times := make([]float64, 0, len(rounds))
		targets := make([]float64, 0, len(rounds))
		obstacles := make([]float64, 0, len(rounds))
		succeeded := 0
		sawObstacles := false
		for _, r := range rounds {
			times = append(times, r.ExecutionTime)
			targets = append(targets, float64(r.TargetDetections))
			obstacles = append(obstacles, float64(r.ObstacleDetections))
			if r.ObstacleDetections > 0 {
				sawObstacles = true
			}
			if r.Success {
				succeeded++
			}
		}

		stats := TaskStats{
			TaskID:          taskID,
			Runs:            len(rounds),
			SuccessRate:     float64(succeeded) / float64(len(rounds)),
			ExecutionTime:   Describe(times),
			TargetDetection: Describe(targets),
		}
		if sawObstacles {
			dist := Describe(obstacles)
			stats.ObstacleDetection = &dist
		}
		analysis.Tasks = append(analysis.Tasks, stats)
	}
	return analysis
}

// Describe computes the distribution of a measurement series.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	d := Distribution{Min: values[0], Max: values[0], Values: values}
	var sum float64
	for _, v := range values {
		sum += v
		if v < d.Min {
			d.Min = v
		}
		if v > d.Max {
			d.Max = v
		}
	}
	d.Mean = sum / float64(len(values))

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			sq += (v - d.Mean) * (v - d.Mean)
		}
		// Sample standard deviation, matching statistics.stdev
		d.Stdev = math.Sqrt(sq / float64(len(values)-1))
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		d.Median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		d.Median = sorted[mid]
	}
	return d
}

// WriteRawData writes every round of a session to the results directory.
func WriteRawData(dir string, results []RoundResult) error {
	return writeJSON(filepath.Join(dir, RawDataFile), results)
}

// WriteAnalysis writes the aggregated statistics to the results directory.
func WriteAnalysis(dir string, analysis Analysis) error {
	return writeJSON(filepath.Join(dir, AnalysisFile), analysis)
}

// LoadRawData reads a session's rounds back from the results directory.
func LoadRawData(dir string) ([]RoundResult, error) {
	data, err := os.ReadFile(filepath.Join(dir, RawDataFile))
	if err != nil {
		return nil, fmt.Errorf("read raw batch data: %w", err)
	}
	var results []RoundResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse raw batch data: %w", err)
	}
	return results, nil
}

// LoadAnalysis reads the aggregated statistics back from the results
// directory.
func LoadAnalysis(dir string) (Analysis, error) {
	var analysis Analysis
	data, err := os.ReadFile(filepath.Join(dir, AnalysisFile))
	if err != nil {
		return analysis, fmt.Errorf("read batch analysis: %w", err)
	}
	if err := json.Unmarshal(data, &analysis); err != nil {
		return analysis, fmt.Errorf("parse batch analysis: %w", err)
	}
	return analysis, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
