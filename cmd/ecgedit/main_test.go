package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/ecgedit/internal/config"
)

func TestRunFailureIsLogged(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, config.SaveFile(config.DefaultConfig(), cfgPath))
	logPath := filepath.Join(dir, "debug.log")

	err := run(options{config: cfgPath, url: "://no-scheme", debug: logPath}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base url")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "no document source")
}

func TestProviderFor(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Loader.BaseURL = "http://localhost:8080"
	cfg.Loader.DocumentPath = "/100_data.json"

	p, err := providerFor("", cfg)
	require.NoError(t, err)
	assert.Equal(t, "100_data.json", p.Name())

	p, err = providerFor(filepath.Join(t.TempDir(), "rec.json"), cfg)
	require.NoError(t, err)
	assert.Equal(t, "rec.json", p.Name())
}
