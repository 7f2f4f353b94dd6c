package cmd

import (
	"context"
	"fmt"
	"strings"

	"VSLauncher/internal/cli/output"
	env "VSLauncher/pkg"
	"VSLauncher/pkg/launcher"

	"github.com/alecthomas/kong"
)

// RunCmd forwards a command line to the resolved interpreter. The forwarded
// tokens are passed through verbatim, in order.
type RunCmd struct {
	Args []string `arg:"" optional:"" passthrough:"" help:"Command line forwarded to the interpreter"`

	Simulator string `help:"Wrap the command with the simulation platform executable" type:"path" placeholder:"PATH"`
	Quiet     bool   `help:"Hide the child process output" short:"q"`
}

func (c *RunCmd) Run(ctx *kong.Context, verbosity int) error {
	cfg, err := launcher.LoadConfig(env.RootDir)
	if err != nil {
		return err
	}

	if err := launcher.CheckScript(env.RootDir, cfg); err != nil {
		return err
	}

	interpreter, fromVenv := launcher.ResolveInterpreter(env.RootDir, cfg)
	if fromVenv {
		output.Info(output.Translate("run.interpreter.venv"), interpreter)
	} else {
		output.Info(output.Translate("run.interpreter.system"), interpreter)
	}

	command := launcher.BuildCommand(interpreter, c.Args)
	if c.Simulator != "" {
		command = append([]string{c.Simulator}, command...)
	}

	if err := initLogging(); err != nil {
		output.Warning("%v", err)
	}
	defer closeLogging()
	logMessage(fmt.Sprintf("launching: %s", strings.Join(command, " ")))

	output.Info(output.Translate("run.launching"), strings.Join(command, " "))

	runner := launcher.ConsoleRunner
	if c.Quiet {
		runner = launcher.QuietRunner
	}

	err = launcher.Launch(context.Background(), launcher.LaunchSpec{
		Command: command,
		Dir:     env.RootDir,
	}, runner)
	if err != nil {
		logMessage(fmt.Sprintf("launch result: %v", err))
	}
	return err
}
