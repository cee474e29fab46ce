package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadApplicationConfig(t *testing.T) {
	path := writeConfigFile(t, `name = "Demo"
assets_dir = "content"
target_frame_rate = 144
auto_instancing = false
max_frames = 10
`)

	cfg, err := LoadApplicationConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Demo", cfg.Name)
	assert.Equal(t, "content", cfg.AssetsDir)
	assert.Equal(t, uint32(144), cfg.TargetFrameRate)
	assert.False(t, cfg.AutoInstancing)
	assert.Equal(t, uint64(10), cfg.MaxFrames)
}

func TestLoadApplicationConfigDefaults(t *testing.T) {
	cfg, err := LoadApplicationConfig(writeConfigFile(t, `name = "Bare"`))
	require.NoError(t, err)

	assert.Equal(t, "assets", cfg.AssetsDir)
	assert.True(t, cfg.AutoInstancing)
	assert.Zero(t, cfg.TargetFrameRate)
	assert.Zero(t, cfg.MaxFrames)
}

func TestLoadApplicationConfigErrors(t *testing.T) {
	_, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadApplicationConfig(writeConfigFile(t, "name = [not toml"))
	assert.Error(t, err)
}
