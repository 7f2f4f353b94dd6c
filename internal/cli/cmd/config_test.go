package cmd

import (
	"testing"

	env "VSLauncher/pkg"
	"VSLauncher/pkg/launcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorkspace(t *testing.T) string {
	t.Helper()
	previous := env.RootDir
	root := t.TempDir()
	require.NoError(t, env.SetDirs(root))
	t.Cleanup(func() { env.SetDirs(previous) })
	return root
}

func TestConfigSetBatchTasks(t *testing.T) {
	root := testWorkspace(t)

	cmd := &ConfigCmd{Args: []string{"set", "batch.tasks=4,5"}}
	require.NoError(t, cmd.Run(nil))

	cfg, err := launcher.LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, cfg.Batch.Tasks)
}

func TestConfigSetBatchTasksRejectsGarbage(t *testing.T) {
	root := testWorkspace(t)

	cmd := &ConfigCmd{Args: []string{"set", "batch.tasks=4,banana"}}
	require.Error(t, cmd.Run(nil))

	cfg, err := launcher.LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, cfg.Batch.Tasks)
}

func TestConfigSetBatchTimeout(t *testing.T) {
	root := testWorkspace(t)

	cmd := &ConfigCmd{Args: []string{"set", "batch.timeouts.4=200"}}
	require.NoError(t, cmd.Run(nil))

	cfg, err := launcher.LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Batch.Timeouts["4"])
	// Defaults for the other tasks survive the write
	assert.Equal(t, 150, cfg.Batch.Timeouts["2"])
}

func TestConfigSetBatchTimeoutRejectsNonPositive(t *testing.T) {
	testWorkspace(t)

	cmd := &ConfigCmd{Args: []string{"set", "batch.timeouts.1=0"}}
	assert.Error(t, cmd.Run(nil))
}

func TestParseTaskList(t *testing.T) {
	tasks, err := parseTaskList("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, tasks)

	_, err = parseTaskList("1,-2")
	assert.Error(t, err)
	_, err = parseTaskList("")
	assert.Error(t, err)
}

func TestFormatTimeouts(t *testing.T) {
	got := formatTimeouts(map[string]int{"2": 150, "1": 120})
	assert.Equal(t, "1=120s 2=150s", got)
}
