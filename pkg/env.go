// Package env holds the launcher's directory layout. All paths derive from
// RootDir, which defaults to the current working directory and can be
// overridden with the --dir flag.
package env

import (
	"fmt"
	"os"
	"path/filepath"
)

var (
	// RootDir is the workspace the launcher operates in. The companion
	// script, the virtual environment and all generated artifacts live
	// under it.
	RootDir string

	// LogsDir holds per-run launcher log files.
	LogsDir string

	// ResultsDir holds batch test artifacts (raw data, analysis, reports).
	ResultsDir string

	// CacheDir holds cached remote resources such as release metadata.
	CacheDir string
)

func init() {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	setDirs(wd)
}

// SetDirs points the launcher at a different workspace root.
func SetDirs(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve workspace root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace root %s is not a directory", abs)
	}
	setDirs(abs)
	return nil
}

func setDirs(root string) {
	RootDir = root
	LogsDir = filepath.Join(root, "logs")
	ResultsDir = filepath.Join(root, "results")
	CacheDir = filepath.Join(root, ".vslauncher", "cache")
}
