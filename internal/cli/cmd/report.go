package cmd

import (
	"fmt"

	"VSLauncher/internal/cli/output"
	env "VSLauncher/pkg"
	"VSLauncher/pkg/report"

	"github.com/alecthomas/kong"
	"github.com/pkg/browser"
)

// ReportCmd renders batch results into a markdown report.
type ReportCmd struct {
	Open bool `help:"Open the generated report with the system handler"`
}

func (c *ReportCmd) Run(ctx *kong.Context) error {
	raw, err := report.LoadRawData(env.ResultsDir)
	if err != nil {
		return fmt.Errorf("no batch results found, run 'vslauncher batch' first: %w", err)
	}

	analysis, err := report.LoadAnalysis(env.ResultsDir)
	if err != nil {
		// The raw rounds are enough to rebuild the statistics
		output.Warning("batch analysis missing, recomputing: %v", err)
		analysis = report.Summarize("", raw)
	}

	path, err := report.WriteMarkdown(env.ResultsDir, analysis, raw)
	if err != nil {
		return err
	}
	output.Success(output.Translate("report.generated"), path)

	csvPaths, err := report.WriteCSV(env.ResultsDir, analysis, raw)
	if err != nil {
		return err
	}
	for _, p := range csvPaths {
		output.Status(output.Translate("report.csv"), p)
	}

	if c.Open {
		if err := browser.OpenFile(path); err != nil {
			output.Warning("open report: %v", err)
		}
	}
	return nil
}
