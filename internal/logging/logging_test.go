package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "app.log")
	log, err := New(Config{Level: "debug", File: p})
	require.NoError(t, err)
	log.Debug("hello")
	_ = log.Sync()

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")
}

func TestNew_LevelFilters(t *testing.T) {
	p := filepath.Join(t.TempDir(), "app.log")
	log, err := New(Config{Level: "WARN", File: p})
	require.NoError(t, err)
	log.Info("quiet")
	log.Warn("loud")
	_ = log.Sync()

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "quiet")
	assert.Contains(t, string(b), "loud")
}

func TestNew_EnvLevel(t *testing.T) {
	t.Setenv(EnvLevel, "error")
	p := filepath.Join(t.TempDir(), "app.log")
	log, err := New(Config{File: p})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))
	assert.True(t, log.Core().Enabled(2))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud", File: "-"})
	assert.Error(t, err)
}

func TestDefaultFile(t *testing.T) {
	assert.Equal(t, "disklayers.log", filepath.Base(DefaultFile()))
}
