package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WriteMarkdown renders the analysis and raw rounds as a markdown report
// and returns the path of the generated file.
func WriteMarkdown(dir string, analysis Analysis, raw []RoundResult) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Batch Test Report\n\n")
	fmt.Fprintf(&b, "**Date**: %s\n", analysis.Date.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Session**: %s\n", analysis.SessionID)
	fmt.Fprintf(&b, "**Rounds**: %d\n\n", analysis.TotalRounds)
	b.WriteString("---\n\n")

	b.WriteString("## Summary\n\n")
	for _, ts := range analysis.Tasks {
		et := ts.ExecutionTime
		fmt.Fprintf(&b, "### Task %d\n\n", ts.TaskID)
		fmt.Fprintf(&b, "- **Rounds**: %d\n", ts.Runs)
		fmt.Fprintf(&b, "- **Success rate**: %.1f%%\n", ts.SuccessRate*100)
		fmt.Fprintf(&b, "- **Mean time**: %.2f ± %.2fs\n", et.Mean, et.Stdev)
		fmt.Fprintf(&b, "- **Range**: [%.2f, %.2f]s\n", et.Min, et.Max)
		fmt.Fprintf(&b, "- **Median**: %.2fs\n", et.Median)
		td := ts.TargetDetection
		fmt.Fprintf(&b, "- **Target detections**: %.1f ± %.1f\n", td.Mean, td.Stdev)
		if od := ts.ObstacleDetection; od != nil {
			fmt.Fprintf(&b, "- **Obstacle detections**: %.1f ± %.1f\n", od.Mean, od.Stdev)
		}
		b.WriteString("\n")
	}
	b.WriteString("---\n\n")

	b.WriteString("## Rounds\n\n")
	for _, ts := range analysis.Tasks {
		fmt.Fprintf(&b, "### Task %d\n\n", ts.TaskID)
		b.WriteString("| Round | Time (s) | Targets | Obstacles | Exit | Status |\n")
		b.WriteString("|-------|----------|---------|-----------|------|--------|\n")
		for _, r := range raw {
			if r.TaskID != ts.TaskID {
				continue
			}
			status := "ok"
			if r.TimedOut {
				status = "timeout"
			} else if !r.Success {
				status = "failed"
			}
			fmt.Fprintf(&b, "| %d | %.2f | %d | %d | %d | %s |\n",
				r.Round, r.ExecutionTime, r.TargetDetections, r.ObstacleDetections, r.ExitCode, status)
		}
		b.WriteString("\n")
	}
	b.WriteString("---\n\n")

	b.WriteString("## Comparison\n\n")
	b.WriteString("| Metric |")
	for _, ts := range analysis.Tasks {
		fmt.Fprintf(&b, " Task %d |", ts.TaskID)
	}
	b.WriteString("\n|--------|")
	for range analysis.Tasks {
		b.WriteString("--------|")
	}
	b.WriteString("\n")

	metrics := []struct {
		name   string
		format func(TaskStats) string
	}{
		{"Mean time", func(ts TaskStats) string { return fmt.Sprintf("%.2fs", ts.ExecutionTime.Mean) }},
		{"Stdev", func(ts TaskStats) string { return fmt.Sprintf("%.2fs", ts.ExecutionTime.Stdev) }},
		{"Min", func(ts TaskStats) string { return fmt.Sprintf("%.2fs", ts.ExecutionTime.Min) }},
		{"Max", func(ts TaskStats) string { return fmt.Sprintf("%.2fs", ts.ExecutionTime.Max) }},
		{"Mean detections", func(ts TaskStats) string { return fmt.Sprintf("%.1f", ts.TargetDetection.Mean) }},
		{"Stability", func(ts TaskStats) string { return fmt.Sprintf("%.1f%%", stability(ts)*100) }},
	}
	for _, m := range metrics {
		fmt.Fprintf(&b, "| %s |", m.name)
		for _, ts := range analysis.Tasks {
			fmt.Fprintf(&b, " %s |", m.format(ts))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if fastest, slowest, ok := extremes(analysis); ok {
		b.WriteString("## Findings\n\n")
		fmt.Fprintf(&b, "1. **Fastest task**: Task %d (mean %.2fs)\n", fastest.TaskID, fastest.ExecutionTime.Mean)
		fmt.Fprintf(&b, "2. **Slowest task**: Task %d (mean %.2fs)\n", slowest.TaskID, slowest.ExecutionTime.Mean)

		b.WriteString("\n### Stability ranking\n\n")
		ranked := append([]TaskStats(nil), analysis.Tasks...)
		sort.Slice(ranked, func(i, j int) bool { return stability(ranked[i]) > stability(ranked[j]) })
		for rank, ts := range ranked {
			cv := 0.0
			if ts.ExecutionTime.Mean != 0 {
				cv = ts.ExecutionTime.Stdev / ts.ExecutionTime.Mean
			}
			fmt.Fprintf(&b, "%d. Task %d: %.1f%% (CV=%.3f)\n", rank+1, ts.TaskID, stability(ts)*100, cv)
		}
		b.WriteString("\n")
	}

	path := filepath.Join(dir, MarkdownFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("write markdown report: %w", err)
	}
	return path, nil
}

// stability is 1 minus the coefficient of variation of the execution time.
func stability(ts TaskStats) float64 {
	if ts.ExecutionTime.Mean == 0 {
		return 0
	}
	return 1 - ts.ExecutionTime.Stdev/ts.ExecutionTime.Mean
}

func extremes(analysis Analysis) (fastest, slowest TaskStats, ok bool) {
	if len(analysis.Tasks) == 0 {
		return fastest, slowest, false
	}
	fastest, slowest = analysis.Tasks[0], analysis.Tasks[0]
	for _, ts := range analysis.Tasks[1:] {
		if ts.ExecutionTime.Mean < fastest.ExecutionTime.Mean {
			fastest = ts
		}
		if ts.ExecutionTime.Mean > slowest.ExecutionTime.Mean {
			slowest = ts
		}
	}
	return fastest, slowest, true
}
