package launcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFile is the name of the workspace configuration file.
const ConfigFile = "vslauncher.toml"

// Config represents the configurable values of a workspace.
type Config struct {
	Script      string `toml:"script" json:"script"                comment:"Companion script forwarded to the interpreter. Checked for existence before every launch."`
	VenvDir     string `toml:"venv_dir" json:"venv_dir"            comment:"Virtual environment directory, relative to the workspace root"`
	Interpreter string `toml:"interpreter" json:"interpreter"      comment:"Interpreter name used when the virtual environment is absent. Resolved through PATH by the OS."`
	Simulator   string `toml:"simulator" json:"simulator"          comment:"Simulation platform executable. Batch runs wrap the command with it when set."`
	MinPython   string `toml:"min_python" json:"min_python"        comment:"Minimum interpreter version accepted by 'python check'"`

	Batch BatchConfig `toml:"batch" json:"batch"`
}

// BatchConfig holds the defaults for batch test sessions.
type BatchConfig struct {
	Rounds     int            `toml:"rounds" json:"rounds"           comment:"Rounds per task"`
	Tasks      []int          `toml:"tasks" json:"tasks"             comment:"Task ids exercised by a batch session"`
	RoundDelay int            `toml:"round_delay" json:"round_delay" comment:"Pause between rounds, in seconds"`
	TaskDelay  int            `toml:"task_delay" json:"task_delay"   comment:"Pause between tasks, in seconds"`
	Timeouts   map[string]int `toml:"timeouts" json:"timeouts"       comment:"Per-task round timeout, in seconds"`
}

// DefaultConfig returns the configuration used when no vslauncher.toml exists.
func DefaultConfig() Config {
	return Config{
		Script:      "main.py",
		VenvDir:     ".venv",
		Interpreter: "python",
		MinPython:   ">= 3.8.0",
		Batch: BatchConfig{
			Rounds:     10,
			Tasks:      []int{1, 2, 3},
			RoundDelay: 2,
			TaskDelay:  5,
			Timeouts:   map[string]int{"1": 120, "2": 150, "3": 180},
		},
	}
}

// TimeoutFor returns the round timeout for the given task.
func (c Config) TimeoutFor(taskID int) time.Duration {
	if secs, ok := c.Batch.Timeouts[strconv.Itoa(taskID)]; ok && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 120 * time.Second
}

// LoadConfig reads the workspace configuration, falling back to defaults
// when the file does not exist.
func LoadConfig(root string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read workspace configuration: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse workspace configuration: %w", err)
	}
	return cfg, nil
}

// WriteConfig writes the configuration to the workspace configuration file.
func WriteConfig(root string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode workspace configuration: %w", err)
	}
	return os.WriteFile(filepath.Join(root, ConfigFile), data, 0644)
}
