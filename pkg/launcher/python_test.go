package launcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverInterpretersVenvFirst(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	// Avoid PATH noise from real interpreters being ambiguous: the venv
	// candidate must always come first when it exists.
	venv := VenvInterpreter(root, cfg.VenvDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(venv), 0755))
	require.NoError(t, os.WriteFile(venv, []byte("#!/bin/sh\n"), 0755))

	interpreters := DiscoverInterpreters(root, cfg)
	require.NotEmpty(t, interpreters)
	assert.Equal(t, venv, interpreters[0].Path)
	assert.Equal(t, "venv", interpreters[0].Source)
}

func TestDiscoverInterpretersDeduplicates(t *testing.T) {
	interpreters := DiscoverInterpreters(t.TempDir(), DefaultConfig())

	seen := make(map[string]bool)
	for _, interp := range interpreters {
		assert.False(t, seen[interp.Path], "duplicate candidate %s", interp.Path)
		seen[interp.Path] = true
	}
}
