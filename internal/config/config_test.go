package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"api": { "serverUrl": "http://10.0.0.1:8000" },
		"board": { "width": 6.0 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vraq_scene.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "http://10.0.0.1:8000", viper.GetString("api.serverUrl"))
	assert.Equal(t, 6.0, viper.GetFloat64("board.width"))
	// Untouched keys keep their defaults
	assert.Equal(t, 2.5, viper.GetFloat64("board.depth"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vraq_scene.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "http://localhost:5000", viper.GetString("api.serverUrl"))
	assert.Equal(t, 10485760, viper.GetInt("upload.maxFileSize"))
	assert.Equal(t, []string{"png", "jpg", "jpeg", "tiff"}, viper.GetStringSlice("upload.allowedExtensions"))
	assert.Equal(t, 4.0, viper.GetFloat64("board.width"))
	assert.Equal(t, 0.15, viper.GetFloat64("board.clearance"))
	assert.Equal(t, "memory", viper.GetString("render.backend"))
	assert.Equal(t, 30, viper.GetInt("autoRefresh.intervalSeconds"))
	assert.False(t, viper.GetBool("influx.enabled"))
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vraq_scene.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	oc := GetOTelConfig()
	assert.False(t, oc.Enabled)
	assert.Equal(t, "vraq-scene", oc.ServiceName)
	assert.Equal(t, 5*time.Second, oc.BatchTimeout)
	assert.Empty(t, oc.Endpoint)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	assert.Error(t, err)
}
