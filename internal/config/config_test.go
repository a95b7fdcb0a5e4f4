package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixpig/gosh/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "gosh> ", cfg.Prompt)
	assert.Equal(t, filepath.Join(home, ".gosh_history"), cfg.HistoryFile)
	assert.Equal(t, 16, cfg.MaxJobs)
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"prompt: \"% \"\nhistory_file: /tmp/hist\nmax_jobs: 4\n",
	), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "% ", cfg.Prompt)
	assert.Equal(t, "/tmp/hist", cfg.HistoryFile)
	assert.Equal(t, 4, cfg.MaxJobs)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "rc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_jobs: 32\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gosh> ", cfg.Prompt)
	assert.Equal(t, filepath.Join(home, ".gosh_history"), cfg.HistoryFile)
	assert.Equal(t, 32, cfg.MaxJobs)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_jobs: [oops\n"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
