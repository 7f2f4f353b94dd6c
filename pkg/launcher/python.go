package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// ErrPythonNoVersion indicates the interpreter's version output could not
// be understood.
var ErrPythonNoVersion = fmt.Errorf("interpreter did not report a parseable version")

// An Interpreter is a candidate Python installation visible to the launcher.
type Interpreter struct {
	Path   string
	Source string // "venv", "path" or "system"
}

// DiscoverInterpreters lists the interpreter candidates for a workspace in
// resolution order: the virtual environment first, then PATH, then
// well-known installation directories.
func DiscoverInterpreters(root string, cfg Config) []Interpreter {
	var found []Interpreter
	seen := make(map[string]bool)

	add := func(path, source string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		found = append(found, Interpreter{Path: path, Source: source})
	}

	if venv := VenvInterpreter(root, cfg.VenvDir); fileExists(venv) {
		add(venv, "venv")
	}
	for _, name := range []string{cfg.Interpreter, "python3", "python"} {
		if name == "" {
			continue
		}
		if path, err := exec.LookPath(name); err == nil {
			add(path, "path")
		}
	}
	add(FindSystemPython(), "system")

	return found
}

// InterpreterVersion runs the interpreter with --version and parses the
// reported version. Old interpreters print it to stderr, so both streams
// are read.
func InterpreterVersion(ctx context.Context, path string) (*semver.Version, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("run %s --version: %w", path, err)
	}

	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) < 2 {
		return nil, ErrPythonNoVersion
	}
	version, err := semver.NewVersion(fields[len(fields)-1])
	if err != nil {
		return nil, ErrPythonNoVersion
	}
	return version, nil
}

// CheckInterpreter verifies that the interpreter satisfies the workspace's
// minimum version constraint.
func CheckInterpreter(ctx context.Context, path, constraint string) (*semver.Version, error) {
	version, err := InterpreterVersion(ctx, path)
	if err != nil {
		return nil, err
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return version, fmt.Errorf("parse version constraint %q: %w", constraint, err)
	}
	if !c.Check(version) {
		return version, fmt.Errorf("interpreter %s reports %s, want %s", path, version, constraint)
	}
	return version, nil
}
