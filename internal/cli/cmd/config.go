package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"VSLauncher/internal/cli/output"
	env "VSLauncher/pkg"
	"VSLauncher/pkg/launcher"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml/v2"
)

// ConfigCmd manages the workspace configuration file.
type ConfigCmd struct {
	Args []string `arg:"" optional:"" help:"Action and its arguments"`
}

func (c *ConfigCmd) Run(ctx *kong.Context) error {
	cfg, err := launcher.LoadConfig(env.RootDir)
	if err != nil {
		return err
	}

	args := c.Args
	if len(args) == 0 {
		return listConfig(cfg)
	}

	switch action := args[0]; action {
	case "list":
		return listConfig(cfg)
	case "reset":
		return resetConfig()
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("specify keys to get")
		}
		return getConfigValues(cfg, args[1:])
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("specify key=value pairs to set")
		}
		values := make(map[string]string)
		for _, arg := range args[1:] {
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) != 2 {
				return fmt.Errorf("invalid argument %q (expected key=value)", arg)
			}
			values[parts[0]] = parts[1]
		}
		return setConfigValues(cfg, values)
	case "export":
		if len(args) < 2 {
			return fmt.Errorf("specify the export file path")
		}
		return exportConfig(cfg, args[1])
	case "import":
		if len(args) < 2 {
			return fmt.Errorf("specify the import file path")
		}
		return importConfig(args[1])
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}

// setConfigValues sets configuration values
func setConfigValues(cfg launcher.Config, values map[string]string) error {
	updated := false

	for key, value := range values {
		switch key {
		case "script":
			cfg.Script = value
			updated = true
		case "venv_dir":
			cfg.VenvDir = value
			updated = true
		case "interpreter":
			cfg.Interpreter = value
			updated = true
		case "simulator":
			cfg.Simulator = value
			updated = true
		case "min_python":
			cfg.MinPython = value
			updated = true
		case "batch.rounds":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				cfg.Batch.Rounds = n
				updated = true
			}
		case "batch.round_delay":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				cfg.Batch.RoundDelay = n
				updated = true
			}
		case "batch.task_delay":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				cfg.Batch.TaskDelay = n
				updated = true
			}
		case "batch.tasks":
			tasks, err := parseTaskList(value)
			if err != nil {
				return fmt.Errorf("invalid task list %q: %w", value, err)
			}
			cfg.Batch.Tasks = tasks
			updated = true
		default:
			if id, ok := strings.CutPrefix(key, "batch.timeouts."); ok {
				n, err := strconv.Atoi(value)
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid timeout for task %s: %q", id, value)
				}
				if cfg.Batch.Timeouts == nil {
					cfg.Batch.Timeouts = make(map[string]int)
				}
				cfg.Batch.Timeouts[id] = n
				updated = true
				continue
			}
			output.Warning("unknown configuration key: %s", key)
		}
	}

	if !updated {
		output.Info("nothing changed")
		return nil
	}
	if err := launcher.WriteConfig(env.RootDir, cfg); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	output.Success(output.Translate("config.updated"))
	return nil
}

// getConfigValues gets configuration values
func getConfigValues(cfg launcher.Config, keys []string) error {
	for _, key := range keys {
		var value interface{}
		switch key {
		case "script":
			value = cfg.Script
		case "venv_dir":
			value = cfg.VenvDir
		case "interpreter":
			value = cfg.Interpreter
		case "simulator":
			value = cfg.Simulator
		case "min_python":
			value = cfg.MinPython
		case "batch.rounds":
			value = cfg.Batch.Rounds
		case "batch.round_delay":
			value = cfg.Batch.RoundDelay
		case "batch.task_delay":
			value = cfg.Batch.TaskDelay
		case "batch.tasks":
			value = formatTaskList(cfg.Batch.Tasks)
		case "batch.timeouts":
			value = formatTimeouts(cfg.Batch.Timeouts)
		default:
			if id, ok := strings.CutPrefix(key, "batch.timeouts."); ok {
				if secs, found := cfg.Batch.Timeouts[id]; found {
					value = secs
					break
				}
				output.Error("no timeout configured for task %s", id)
				continue
			}
			output.Error("unknown configuration key: %s", key)
			continue
		}
		fmt.Printf("%s = %v\n", key, value)
	}
	return nil
}

// listConfig shows all configuration values
func listConfig(cfg launcher.Config) error {
	output.Header("Workspace configuration")
	fmt.Println()

	fmt.Printf("script:            %s\n", cfg.Script)
	fmt.Printf("venv_dir:          %s\n", cfg.VenvDir)
	fmt.Printf("interpreter:       %s\n", cfg.Interpreter)
	fmt.Printf("simulator:         %s\n", cfg.Simulator)
	fmt.Printf("min_python:        %s\n", cfg.MinPython)
	fmt.Printf("batch.rounds:      %d\n", cfg.Batch.Rounds)
	fmt.Printf("batch.tasks:       %s\n", formatTaskList(cfg.Batch.Tasks))
	fmt.Printf("batch.round_delay: %d\n", cfg.Batch.RoundDelay)
	fmt.Printf("batch.task_delay:  %d\n", cfg.Batch.TaskDelay)
	fmt.Printf("batch.timeouts:    %s\n", formatTimeouts(cfg.Batch.Timeouts))

	fmt.Println()
	output.Status("Configuration file: %s", configFilePath())
	return nil
}

// resetConfig resets configuration to defaults
func resetConfig() error {
	if err := os.Remove(configFilePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove configuration file: %w", err)
	}
	output.Success("Configuration reset to defaults")
	return nil
}

// exportConfig exports configuration to a file
func exportConfig(cfg launcher.Config, filePath string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	output.Success("Configuration exported to: %s", filePath)
	return nil
}

// importConfig imports configuration from a file
func importConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	cfg := launcher.DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse import file: %w", err)
	}

	if err := launcher.WriteConfig(env.RootDir, cfg); err != nil {
		return fmt.Errorf("save imported configuration: %w", err)
	}
	output.Success("Configuration imported from: %s", filePath)
	return nil
}

func configFilePath() string {
	return filepath.Join(env.RootDir, launcher.ConfigFile)
}

// parseTaskList parses a comma-separated list of positive task ids.
func parseTaskList(value string) ([]int, error) {
	var tasks []int
	for _, part := range strings.Split(value, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("task ids must be positive integers")
		}
		tasks = append(tasks, id)
	}
	return tasks, nil
}

func formatTaskList(tasks []int) string {
	parts := make([]string, len(tasks))
	for i, id := range tasks {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func formatTimeouts(timeouts map[string]int) string {
	ids := make([]string, 0, len(timeouts))
	for id := range timeouts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s=%ds", id, timeouts[id])
	}
	return strings.Join(parts, " ")
}
