package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doorscene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(ModeEnv, "")
	t.Setenv(AssetsEnv, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv(ModeEnv, "")
	t.Setenv(AssetsEnv, "")

	path := writeConfig(t, `
mode: production
assets:
  production_base: https://cdn.example.com/tex
door:
  width: 3
  height: 6
reflection:
  resolution: 128
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeProduction, cfg.Mode)
	assert.Equal(t, "https://cdn.example.com/tex", cfg.AssetBase())
	assert.Equal(t, float32(3), cfg.Door.Width)
	assert.Equal(t, float32(6), cfg.Door.Height)
	assert.Equal(t, int32(128), cfg.Reflection.Resolution)
	assert.Equal(t, Default().Window, cfg.Window)
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "door: [not, a, map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsOutOfRangeDoor(t *testing.T) {
	t.Setenv(ModeEnv, "")
	path := writeConfig(t, "door:\n  width: 9\n  height: 4\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "door width")
}

func TestEnvironmentSelectsMode(t *testing.T) {
	t.Setenv(ModeEnv, "PRODUCTION")
	t.Setenv(AssetsEnv, "/srv/textures")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ModeProduction, cfg.Mode)
	assert.Equal(t, "/srv/textures", cfg.AssetBase())
	assert.Equal(t, Default().Assets.DevelopmentBase, cfg.Assets.DevelopmentBase)
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := Default()
	cfg.Mode = "staging"
	assert.Error(t, cfg.Validate())
}
