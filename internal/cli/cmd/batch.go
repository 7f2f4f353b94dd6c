package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"VSLauncher/internal/cli/output"
	env "VSLauncher/pkg"
	"VSLauncher/pkg/launcher"
	"VSLauncher/pkg/report"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
)

// BatchCmd runs repeated simulation rounds per task and aggregates the
// results into the workspace results directory.
type BatchCmd struct {
	Tasks []int `arg:"" optional:"" help:"Task ids to exercise"`

	Rounds     int    `help:"Rounds per task" placeholder:"N"`
	RoundDelay int    `help:"Pause between rounds, in seconds" placeholder:"SEC"`
	TaskDelay  int    `help:"Pause between tasks, in seconds" placeholder:"SEC"`
	Simulator  string `help:"Simulation platform executable" type:"path" placeholder:"PATH"`
}

func (c *BatchCmd) Run(ctx *kong.Context, verbosity int) error {
	cfg, err := launcher.LoadConfig(env.RootDir)
	if err != nil {
		return err
	}

	if err := launcher.CheckScript(env.RootDir, cfg); err != nil {
		return err
	}

	tasks := cfg.Batch.Tasks
	if len(c.Tasks) > 0 {
		tasks = c.Tasks
	}
	rounds := cfg.Batch.Rounds
	if c.Rounds > 0 {
		rounds = c.Rounds
	}
	roundDelay := cfg.Batch.RoundDelay
	if c.RoundDelay > 0 {
		roundDelay = c.RoundDelay
	}
	taskDelay := cfg.Batch.TaskDelay
	if c.TaskDelay > 0 {
		taskDelay = c.TaskDelay
	}
	simulator := cfg.Simulator
	if c.Simulator != "" {
		simulator = c.Simulator
	}

	interpreter, fromVenv := launcher.ResolveInterpreter(env.RootDir, cfg)
	if verbosity > 0 {
		if fromVenv {
			output.Info(output.Translate("run.interpreter.venv"), interpreter)
		} else {
			output.Info(output.Translate("run.interpreter.system"), interpreter)
		}
	}

	if err := initLogging(); err != nil {
		output.Warning("%v", err)
	}
	defer closeLogging()

	sessionID := uuid.New().String()
	logMessage(fmt.Sprintf("batch session %s: tasks=%v rounds=%d", sessionID, tasks, rounds))

	output.Header(output.Translate("batch.session"), sessionID)
	bar := output.CreateProgressBar(int64(len(tasks)*rounds), output.Translate("batch.progress"))

	var results []report.RoundResult
	for i, taskID := range tasks {
		if i > 0 && taskDelay > 0 {
			time.Sleep(time.Duration(taskDelay) * time.Second)
		}
		bar.Describe(fmt.Sprintf(output.Translate("batch.task"), taskID, rounds))
		logMessage(fmt.Sprintf("task %d: %d rounds, timeout %s", taskID, rounds, cfg.TimeoutFor(taskID)))

		for round := 1; round <= rounds; round++ {
			if round > 1 && roundDelay > 0 {
				time.Sleep(time.Duration(roundDelay) * time.Second)
			}
			result := runRound(cfg, interpreter, simulator, taskID, round)
			logMessage(fmt.Sprintf("task %d round %d: time=%.2fs success=%v timeout=%v exit=%d",
				taskID, round, result.ExecutionTime, result.Success, result.TimedOut, result.ExitCode))
			results = append(results, result)
			bar.Add(1)
		}
	}
	bar.Finish()

	analysis := report.Summarize(sessionID, results)
	if err := report.WriteRawData(env.ResultsDir, results); err != nil {
		return fmt.Errorf("save raw batch data: %w", err)
	}
	if err := report.WriteAnalysis(env.ResultsDir, analysis); err != nil {
		return fmt.Errorf("save batch analysis: %w", err)
	}

	printBatchSummary(analysis)
	output.Success(output.Translate("batch.saved"), env.ResultsDir)
	return nil
}

// runRound executes one simulation round and records its outcome. A round
// succeeds when the task's verification file appears in the workspace.
func runRound(cfg launcher.Config, interpreter, simulator string, taskID, round int) report.RoundResult {
	command := launcher.BuildCommand(interpreter, []string{cfg.Script, strconv.Itoa(taskID)})
	if simulator != "" {
		command = append([]string{simulator}, command...)
	}

	// Stale verification files would count a failed round as a success
	marker := filepath.Join(env.RootDir, fmt.Sprintf("task_%d.txt", taskID))
	os.Remove(marker)

	runCtx, cancel := context.WithTimeout(context.Background(), cfg.TimeoutFor(taskID))
	defer cancel()

	result := report.RoundResult{
		TaskID:    taskID,
		Round:     round,
		Timestamp: time.Now(),
	}

	// The vision script logs every detection to stderr; the counts feed
	// the per-task detection statistics.
	var stderr bytes.Buffer
	start := time.Now()
	err := launcher.Launch(runCtx, launcher.LaunchSpec{
		Command: command,
		Dir:     env.RootDir,
	}, launcher.CaptureRunner(&stderr))
	result.ExecutionTime = time.Since(start).Seconds()
	result.TimedOut = errors.Is(runCtx.Err(), context.DeadlineExceeded)
	result.TargetDetections, result.ObstacleDetections = report.CountDetections(stderr.String())

	var childErr *launcher.ChildExitError
	switch {
	case err == nil:
	case errors.As(err, &childErr):
		result.ExitCode = childErr.Code
	default:
		result.ExitCode = -1
	}

	if _, statErr := os.Stat(marker); statErr == nil && !result.TimedOut {
		result.Success = true
	}
	return result
}

// printBatchSummary renders the per-task statistics table.
func printBatchSummary(analysis report.Analysis) {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Task", "Rounds", "Success", "Mean (s)", "Min (s)", "Max (s)", "Detections"})

	for _, ts := range analysis.Tasks {
		et := ts.ExecutionTime
		detections := fmt.Sprintf("%.1f", ts.TargetDetection.Mean)
		if od := ts.ObstacleDetection; od != nil {
			detections = fmt.Sprintf("%s / %.1f", detections, od.Mean)
		}
		t.AppendRow(table.Row{
			ts.TaskID,
			ts.Runs,
			fmt.Sprintf("%.1f%%", ts.SuccessRate*100),
			fmt.Sprintf("%.2f ± %.2f", et.Mean, et.Stdev),
			fmt.Sprintf("%.2f", et.Min),
			fmt.Sprintf("%.2f", et.Max),
			detections,
		})
	}
	t.Render()
}
