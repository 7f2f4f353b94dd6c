// Package launcher resolves the interpreter for a workspace and forwards
// command lines to it, propagating the child's exit status.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// MissingFileError reports a required companion file that could not be
// found. No process is spawned when it occurs.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("required file not found: %s", e.Path)
}

// ExitCode implements kong.ExitCoder.
func (e *MissingFileError) ExitCode() int { return 1 }

// ChildExitError carries a non-zero exit status of a spawned process. The
// launcher propagates it unchanged instead of treating it as its own
// failure.
type ChildExitError struct {
	Code int
}

func (e *ChildExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// ExitCode implements kong.ExitCoder.
func (e *ChildExitError) ExitCode() int { return e.Code }

// CheckScript verifies the companion script exists in the workspace.
func CheckScript(root string, cfg Config) error {
	path := filepath.Join(root, cfg.Script)
	if !fileExists(path) {
		return &MissingFileError{Path: path}
	}
	return nil
}

// VenvInterpreter returns the interpreter path inside the workspace's
// virtual environment. The layout differs between Windows and the rest.
func VenvInterpreter(root, venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(root, venvDir, "Scripts", "python.exe")
	}
	return filepath.Join(root, venvDir, "bin", "python")
}

// ResolveInterpreter determines the interpreter used for a launch. The
// virtual environment interpreter is preferred; when it is absent the
// configured interpreter name is returned and left for the OS to resolve
// through PATH. The second return value reports whether the virtual
// environment was used.
func ResolveInterpreter(root string, cfg Config) (string, bool) {
	venv := VenvInterpreter(root, cfg.VenvDir)
	if fileExists(venv) {
		return venv, true
	}
	if cfg.Interpreter != "" {
		return cfg.Interpreter, false
	}
	return "python", false
}

// BuildCommand constructs the final command line: the resolved interpreter
// followed by the forwarded arguments, order preserved, nothing rewritten.
func BuildCommand(interpreter string, args []string) []string {
	command := make([]string, 0, len(args)+1)
	command = append(command, interpreter)
	command = append(command, args...)
	return command
}

// A LaunchSpec describes a single child process invocation.
type LaunchSpec struct {
	Command []string
	Dir     string
}

// A Runner executes a prepared command. It decides how the child's
// standard streams are wired before the process starts.
type Runner func(*exec.Cmd) error

// ConsoleRunner runs the command with the launcher's standard streams
// attached to the child.
func ConsoleRunner(cmd *exec.Cmd) error {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// QuietRunner runs the command without showing its output.
func QuietRunner(cmd *exec.Cmd) error {
	return cmd.Run()
}

// CaptureRunner runs the command without showing its output while
// collecting the standard error stream into w.
func CaptureRunner(w io.Writer) Runner {
	return func(cmd *exec.Cmd) error {
		cmd.Stderr = w
		return cmd.Run()
	}
}

// Launch spawns the command described by spec and blocks until it
// terminates. A non-zero child exit is surfaced as *ChildExitError; a
// failure to spawn is reported as an ordinary error.
func Launch(ctx context.Context, spec LaunchSpec, runner Runner) error {
	if len(spec.Command) == 0 {
		return fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, spec.Command[0], spec.Command[1:]...)
	cmd.Dir = spec.Dir

	if err := runner(cmd); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ChildExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("start %s: %w", spec.Command[0], err)
	}
	return nil
}

// FindSystemPython attempts to find a usable interpreter on the system.
// Used for diagnostics only; launches rely on PATH resolution instead.
func FindSystemPython() string {
	// Honor an explicit override first
	if override := os.Getenv("VSLAUNCHER_PYTHON"); override != "" {
		if fileExists(override) {
			return override
		}
	}

	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				if runtime.GOOS == "windows" || (info.Mode()&0111 != 0) {
					return path
				}
			}
		}
	}

	// On Windows, check common per-version installation paths
	if runtime.GOOS == "windows" {
		commonPaths := []string{
			`C:\Program Files\`,
			os.ExpandEnv(`${LOCALAPPDATA}\Programs\Python\`),
		}
		for _, basePath := range commonPaths {
			entries, err := os.ReadDir(basePath)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() && strings.HasPrefix(entry.Name(), "Python") {
					candidate := filepath.Join(basePath, entry.Name(), "python.exe")
					if fileExists(candidate) {
						return candidate
					}
				}
			}
		}
	}

	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		for _, candidate := range []string{
			"/usr/local/bin/python3",
			"/usr/bin/python3",
			"/opt/homebrew/bin/python3",
		} {
			if fileExists(candidate) {
				return candidate
			}
		}
	}

	return ""
}

// fileExists checks if a file exists and is accessible
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
