package cmd

import (
	"context"
	"os"

	"VSLauncher/internal/cli/output"
	env "VSLauncher/pkg"
	"VSLauncher/pkg/launcher"

	"github.com/alecthomas/kong"
	"github.com/jedib0t/go-pretty/v6/table"
)

// PythonListCmd lists the interpreter candidates visible to the launcher.
type PythonListCmd struct{}

func (c *PythonListCmd) Run(ctx *kong.Context) error {
	cfg, err := launcher.LoadConfig(env.RootDir)
	if err != nil {
		return err
	}

	interpreters := launcher.DiscoverInterpreters(env.RootDir, cfg)
	if len(interpreters) == 0 {
		output.Info(output.Translate("python.none"))
		output.Tip(output.Translate("tip.python"))
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{
		"#",
		output.Translate("python.table.path"),
		output.Translate("python.table.source"),
		output.Translate("python.table.version"),
	})

	for i, interp := range interpreters {
		version := "-"
		if v, err := launcher.InterpreterVersion(context.Background(), interp.Path); err == nil {
			version = v.String()
		}
		t.AppendRow(table.Row{i, interp.Path, interp.Source, version})
	}
	t.Render()
	return nil
}

// PythonCheckCmd verifies the resolved interpreter against the workspace's
// minimum version constraint.
type PythonCheckCmd struct{}

func (c *PythonCheckCmd) Run(ctx *kong.Context) error {
	cfg, err := launcher.LoadConfig(env.RootDir)
	if err != nil {
		return err
	}

	interpreter, fromVenv := launcher.ResolveInterpreter(env.RootDir, cfg)
	if fromVenv {
		output.Info(output.Translate("run.interpreter.venv"), interpreter)
	} else {
		output.Info(output.Translate("run.interpreter.system"), interpreter)
	}

	version, err := launcher.CheckInterpreter(context.Background(), interpreter, cfg.MinPython)
	if err != nil {
		return err
	}
	output.Success(output.Translate("python.check.ok"), interpreter, cfg.MinPython, version)
	return nil
}

// PythonCmd inspects Python installations.
type PythonCmd struct {
	List  PythonListCmd  `cmd:"" help:"List available interpreters"`
	Check PythonCheckCmd `cmd:"" help:"Verify the resolved interpreter version"`
}
