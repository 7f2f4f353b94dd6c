package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name        string
		interpreter string
		args        []string
		want        []string
	}{
		{
			name:        "no arguments",
			interpreter: "python",
			want:        []string{"python"},
		},
		{
			name:        "script with flags",
			interpreter: "/ws/.venv/bin/python",
			args:        []string{"main.py", "--mode", "test"},
			want:        []string{"/ws/.venv/bin/python", "main.py", "--mode", "test"},
		},
		{
			name:        "order preserved verbatim",
			interpreter: "python",
			args:        []string{"-u", "main.py", "2", "--mode", "test", "-u"},
			want:        []string{"python", "-u", "main.py", "2", "--mode", "test", "-u"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildCommand(tc.interpreter, tc.args))
		})
	}
}

func TestBuildCommandDoesNotAliasArgs(t *testing.T) {
	args := []string{"main.py", "1"}
	command := BuildCommand("python", args)
	command[1] = "changed"
	assert.Equal(t, []string{"main.py", "1"}, args)
}

func TestResolveInterpreter(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("prefers venv interpreter", func(t *testing.T) {
		root := t.TempDir()
		venv := VenvInterpreter(root, cfg.VenvDir)
		require.NoError(t, os.MkdirAll(filepath.Dir(venv), 0755))
		require.NoError(t, os.WriteFile(venv, []byte("#!/bin/sh\n"), 0755))

		got, fromVenv := ResolveInterpreter(root, cfg)
		assert.True(t, fromVenv)
		assert.Equal(t, venv, got)
	})

	t.Run("falls back to configured name", func(t *testing.T) {
		got, fromVenv := ResolveInterpreter(t.TempDir(), cfg)
		assert.False(t, fromVenv)
		assert.Equal(t, "python", got)
	})

	t.Run("falls back to python when unconfigured", func(t *testing.T) {
		empty := cfg
		empty.Interpreter = ""
		got, fromVenv := ResolveInterpreter(t.TempDir(), empty)
		assert.False(t, fromVenv)
		assert.Equal(t, "python", got)
	})
}

func TestCheckScript(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("missing script", func(t *testing.T) {
		root := t.TempDir()
		err := CheckScript(root, cfg)
		require.Error(t, err)

		var missing *MissingFileError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, filepath.Join(root, "main.py"), missing.Path)
		assert.Equal(t, 1, missing.ExitCode())
	})

	t.Run("present script", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte("print()\n"), 0644))
		assert.NoError(t, CheckScript(root, cfg))
	})
}

// helperRunner spawns the test binary itself so child exit codes can be
// observed without depending on external programs.
func helperRunner(code int) Runner {
	return func(cmd *exec.Cmd) error {
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"HELPER_EXIT_CODE="+strconv.Itoa(code),
		)
		return cmd.Run()
	}
}

func helperSpec(t *testing.T) LaunchSpec {
	t.Helper()
	exe, err := os.Executable()
	require.NoError(t, err)
	return LaunchSpec{Command: []string{exe, "-test.run=TestHelperProcess"}}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if msg := os.Getenv("HELPER_STDERR"); msg != "" {
		fmt.Fprint(os.Stderr, msg)
	}
	code, _ := strconv.Atoi(os.Getenv("HELPER_EXIT_CODE"))
	os.Exit(code)
}

func TestCaptureRunnerCollectsStderr(t *testing.T) {
	var buf bytes.Buffer
	runner := func(cmd *exec.Cmd) error {
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"HELPER_EXIT_CODE=0",
			"HELPER_STDERR=Red target: (12, 40)\nRed target: (13, 41)\n",
		)
		return CaptureRunner(&buf)(cmd)
	}

	require.NoError(t, Launch(context.Background(), helperSpec(t), runner))
	assert.Equal(t, 2, strings.Count(buf.String(), "Red target:"))
}

func TestLaunchPropagatesChildExit(t *testing.T) {
	err := Launch(context.Background(), helperSpec(t), helperRunner(3))
	require.Error(t, err)

	var childErr *ChildExitError
	require.ErrorAs(t, err, &childErr)
	assert.Equal(t, 3, childErr.Code)
	assert.Equal(t, 3, childErr.ExitCode())
}

func TestLaunchZeroExit(t *testing.T) {
	assert.NoError(t, Launch(context.Background(), helperSpec(t), helperRunner(0)))
}

func TestLaunchSpawnFailure(t *testing.T) {
	spec := LaunchSpec{Command: []string{filepath.Join(t.TempDir(), "does-not-exist")}}
	err := Launch(context.Background(), spec, QuietRunner)
	require.Error(t, err)

	var childErr *ChildExitError
	assert.False(t, errors.As(err, &childErr))
}

func TestLaunchEmptyCommand(t *testing.T) {
	err := Launch(context.Background(), LaunchSpec{}, QuietRunner)
	assert.Error(t, err)
}
