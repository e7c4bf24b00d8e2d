// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-assistant/pkg/types"
)

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "assistant.log")

	log, err := New(types.LoggingConfig{Level: "debug", File: path})
	require.NoError(t, err)

	log.Info("hello from test")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestNew_LevelFiltersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.log")

	log, err := New(types.LoggingConfig{Level: "warn", File: path})
	require.NoError(t, err)

	log.Info("quiet")
	log.Warn("loud")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(types.LoggingConfig{Level: "shouting"})
	assert.Error(t, err)
}

func TestNew_NoSinks(t *testing.T) {
	log, err := New(types.LoggingConfig{})
	require.NoError(t, err)
	log.Info("goes nowhere")
}

func TestNew_ConsoleOnly(t *testing.T) {
	log, err := New(types.LoggingConfig{Level: "info", Console: true})
	require.NoError(t, err)
	assert.NotNil(t, log)
}
