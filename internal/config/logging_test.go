package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	f, err := SetupLogFile(dir, "server", 10)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, dir, filepath.Dir(f.Name()))
	assert.Regexp(t, `^server-\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}\.log$`, filepath.Base(f.Name()))
}

func TestPruneLogs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"server-2024-01-01T00-00-00.log",
		"server-2024-01-02T00-00-00.log",
		"server-2024-01-03T00-00-00.log",
		"contentctl-2024-01-01T00-00-00.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	require.NoError(t, pruneLogs(dir, "server", 2))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"server-2024-01-02T00-00-00.log",
		"server-2024-01-03T00-00-00.log",
		"contentctl-2024-01-01T00-00-00.log",
	}, names)
}
