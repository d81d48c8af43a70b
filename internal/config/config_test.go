package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-globe/internal/logger"
)

func clearEnv(t *testing.T) {
	t.Setenv("GLOBE_BACKEND_URL", "")
	t.Setenv("GLOBE_USERNAME", "")
	t.Setenv("GLOBE_LOG_LEVEL", "")
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.BackendURL)
	assert.Equal(t, "", cfg.Username)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 4*time.Second, cfg.PopupTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, logger.DefaultPath, cfg.LogFile)
	assert.Equal(t, "earth", cfg.Theme)
	assert.Equal(t, []int{255, 255, 255}, cfg.TextColor)
	assert.Equal(t, 18, cfg.FontSize)
	assert.Equal(t, 64, cfg.FlagSize)
	assert.True(t, cfg.Stars)
	assert.False(t, cfg.ShowFPS)
	assert.Equal(t, 1280, cfg.WindowWidth)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	data := `{
		"theme": "night",
		"textColor": [10, 20, 30],
		"fontSize": 24,
		"httpTimeout": "3s",
		"showFPS": true
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(data), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "night", cfg.Theme)
	assert.Equal(t, []int{10, 20, 30}, cfg.TextColor)
	assert.Equal(t, 24, cfg.FontSize)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.ShowFPS)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"backendURL": "http://file:1"}`), 0644))
	t.Setenv("GLOBE_BACKEND_URL", "http://weather.example:8080")
	t.Setenv("GLOBE_USERNAME", "alice")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://weather.example:8080", cfg.BackendURL)
	assert.Equal(t, "alice", cfg.Username)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{not json`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad level":       `{"logLevel": "loud"}`,
		"short colour":    `{"textColor": [1, 2]}`,
		"colour range":    `{"textColor": [1, 2, 300]}`,
		"tiny font":       `{"fontSize": 2}`,
		"bad backend url": `{"backendURL": "not a url"}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(data), 0644))

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	clearEnv(t)

	dir := filepath.Join(t.TempDir(), "config")
	cfg, err := Load(dir)
	require.NoError(t, err)

	cfg.Theme = "night"
	cfg.TextColor = []int{0, 128, 255}
	cfg.PopupTimeout = 1500 * time.Millisecond
	require.NoError(t, Save(dir, cfg))

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"popupTimeout": "1.5s"`)

	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestClone_IsDeep(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	c, err := Clone(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, c)

	c.TextColor[0] = 1
	c.Theme = "night"
	assert.Equal(t, 255, cfg.TextColor[0])
	assert.Equal(t, "earth", cfg.Theme)
}
