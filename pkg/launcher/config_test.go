package launcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "main.py", cfg.Script)
	assert.Equal(t, ".venv", cfg.VenvDir)
	assert.Equal(t, "python", cfg.Interpreter)
	assert.Equal(t, 10, cfg.Batch.Rounds)
	assert.Equal(t, []int{1, 2, 3}, cfg.Batch.Tasks)
}

func TestConfigRoundTrip(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultConfig()
	cfg.Script = "vision.py"
	cfg.Simulator = "simulation.exe"
	cfg.Batch.Rounds = 5
	require.NoError(t, WriteConfig(root, cfg))

	loaded, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigPartialFile(t *testing.T) {
	root := t.TempDir()
	data := []byte("script = \"other.py\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), data, 0644))

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "other.py", cfg.Script)
	// Unset keys keep their defaults
	assert.Equal(t, ".venv", cfg.VenvDir)
}

func TestLoadConfigBadFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte("script = [broken"), 0644))

	_, err := LoadConfig(root)
	assert.Error(t, err)
}

func TestTimeoutFor(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 120*time.Second, cfg.TimeoutFor(1))
	assert.Equal(t, 150*time.Second, cfg.TimeoutFor(2))
	assert.Equal(t, 180*time.Second, cfg.TimeoutFor(3))
	// Unknown tasks get the baseline timeout
	assert.Equal(t, 120*time.Second, cfg.TimeoutFor(9))
}
