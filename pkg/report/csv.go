package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	// SummaryCSVFile holds the per-task statistics in tabular form.
	SummaryCSVFile = "batch_summary.csv"
	// DetailsCSVFile holds every recorded round in tabular form.
	DetailsCSVFile = "batch_details.csv"
)

// WriteCSV exports the analysis and the raw rounds as two CSV files and
// returns their paths.
func WriteCSV(dir string, analysis Analysis, raw []RoundResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	summaryPath := filepath.Join(dir, SummaryCSVFile)
	summary := [][]string{{"Task", "Rounds", "Success", "Mean (s)", "Stdev (s)", "Min (s)", "Max (s)", "Median (s)", "Mean detections"}}
	for _, ts := range analysis.Tasks {
		et := ts.ExecutionTime
		summary = append(summary, []string{
			fmt.Sprintf("Task %d", ts.TaskID),
			fmt.Sprintf("%d", ts.Runs),
			fmt.Sprintf("%.1f%%", ts.SuccessRate*100),
			fmt.Sprintf("%.2f", et.Mean),
			fmt.Sprintf("%.2f", et.Stdev),
			fmt.Sprintf("%.2f", et.Min),
			fmt.Sprintf("%.2f", et.Max),
			fmt.Sprintf("%.2f", et.Median),
			fmt.Sprintf("%.1f", ts.TargetDetection.Mean),
		})
	}
	if err := writeCSVFile(summaryPath, summary); err != nil {
		return nil, err
	}

	sorted := append([]RoundResult(nil), raw...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TaskID != sorted[j].TaskID {
			return sorted[i].TaskID < sorted[j].TaskID
		}
		return sorted[i].Round < sorted[j].Round
	})

	detailsPath := filepath.Join(dir, DetailsCSVFile)
	details := [][]string{{"Task", "Round", "Timestamp", "Time (s)", "Targets", "Obstacles", "Status"}}
	for _, r := range sorted {
		status := "success"
		if r.TimedOut {
			status = "timeout"
		} else if !r.Success {
			status = "failed"
		}
		details = append(details, []string{
			fmt.Sprintf("Task %d", r.TaskID),
			fmt.Sprintf("%d", r.Round),
			r.Timestamp.Format(time.RFC3339),
			fmt.Sprintf("%.2f", r.ExecutionTime),
			fmt.Sprintf("%d", r.TargetDetections),
			fmt.Sprintf("%d", r.ObstacleDetections),
			status,
		})
	}
	if err := writeCSVFile(detailsPath, details); err != nil {
		return nil, err
	}

	return []string{summaryPath, detailsPath}, nil
}

func writeCSVFile(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write CSV export: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write CSV export: %w", err)
	}
	return w.Error()
}
